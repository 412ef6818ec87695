// Package main provides the entry point for the wcag-zoo-runner CLI.
//
// wcag-zoo-runner audits the pages of a Django project against WCAG
// success criteria using the wcag-zoo family of checks.
//
// Usage:
//
//	wcag-zoo-runner run
//	wcag-zoo-runner routes --output wcag_zoo_runner.ini
//
// See --help for all available options.
package main

// main is the entry point for wcag-zoo-runner.
func main() {
	Execute()
}
