package config

import "time"

// File represents the structure of the .wcagzoo configuration file. Every
// field is optional; values present in the file override the built-in
// defaults, and explicit CLI flags override the file.
type File struct {
	// Port overrides the development server port.
	Port int `yaml:"port,omitempty"`

	// Host overrides the bind/fetch address.
	Host string `yaml:"host,omitempty"`

	// Verbosity overrides the report verbosity (0-4). Pointer so that an
	// explicit 0 (errors only) can be told apart from "not set".
	Verbosity *int `yaml:"verbosity,omitempty"`

	// StaticPath overrides where validators resolve static assets.
	StaticPath string `yaml:"staticpath,omitempty"`

	// Level overrides the conformance level, AA or AAA.
	Level string `yaml:"level,omitempty"`

	// TimeoutSeconds overrides the per-request fetch timeout.
	TimeoutSeconds int `yaml:"timeout,omitempty"`

	// Concurrency overrides the number of URLs audited at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Python overrides the interpreter used for manage.py.
	Python string `yaml:"python,omitempty"`

	// ProjectDir overrides where the Django project is looked for.
	ProjectDir string `yaml:"project,omitempty"`

	// Plan overrides the test plan file path.
	Plan string `yaml:"plan,omitempty"`

	// ServerLog overrides where the dev server output is captured.
	ServerLog string `yaml:"serverlog,omitempty"`

	// Validators names the enabled validators (anteater, ayeaye, molerat,
	// tarsier). Empty means all of them.
	Validators []string `yaml:"validators,omitempty"`
}

// ApplyTo overlays the file's values onto cfg. Only fields present in the
// file are touched, so defaults survive and the command layer can still
// apply explicitly-set flags on top afterwards.
func (f *File) ApplyTo(cfg *Config) {
	if f.Port != 0 {
		cfg.Port = f.Port
	}
	if f.Host != "" {
		cfg.Host = f.Host
	}
	if f.Verbosity != nil {
		cfg.VerbosityLevel = *f.Verbosity
	}
	if f.StaticPath != "" {
		cfg.StaticPath = f.StaticPath
	}
	if f.Level != "" {
		cfg.Level = f.Level
	}
	if f.TimeoutSeconds != 0 {
		cfg.Timeout = time.Duration(f.TimeoutSeconds) * time.Second
	}
	if f.Concurrency != 0 {
		cfg.Concurrency = f.Concurrency
	}
	if f.Python != "" {
		cfg.PythonBin = f.Python
	}
	if f.ProjectDir != "" {
		cfg.ProjectDir = f.ProjectDir
	}
	if f.Plan != "" {
		cfg.PlanFile = f.Plan
	}
	if f.ServerLog != "" {
		cfg.ServerLogFile = f.ServerLog
	}
	if len(f.Validators) > 0 {
		cfg.Validators = f.Validators
	}
}
