// Package config provides configuration structures and utilities for
// wcag-zoo-runner. It defines the runner options populated from CLI flags
// and the optional .wcagzoo file, plus the loader for the INI test-plan
// format.
package config
