package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values. These mirror the defaults the tool has
// always shipped with so existing invocations keep working.
const (
	// DefaultPort is the port the development server is started on and
	// fetched from. 8799 is far enough from the usual 8000/8080 range to
	// avoid colliding with a server the developer already has running.
	DefaultPort = 8799

	// DefaultHost is where the development server binds and where pages
	// are fetched from. The loopback address keeps an audit run from
	// exposing a debug server to the network.
	DefaultHost = "127.0.0.1"

	// DefaultVerbosity shows failures and warnings. See model.Verbosity
	// for the full five-level scale.
	DefaultVerbosity = 1

	// DefaultStaticPath is where validators look for static assets such
	// as linked stylesheets. Relative to the project directory.
	DefaultStaticPath = "./static"

	// DefaultLevel is the WCAG conformance level passed to validators.
	// AAA is the strictest; use --level AA to relax contrast thresholds.
	DefaultLevel = "AAA"

	// DefaultTimeout is the per-request timeout. The dev server answers on
	// loopback, so 3 seconds is generous; the retry loop in the fetcher,
	// not a long timeout, is what rides out the server's start-up window.
	DefaultTimeout = 3 * time.Second

	// DefaultConcurrency of 1 audits URLs sequentially so the console
	// report keeps the order of the plan file. Higher values trade
	// ordering for speed.
	DefaultConcurrency = 1

	// DefaultPythonBin is the interpreter used to run manage.py.
	DefaultPythonBin = "python"

	// DefaultProjectDir is where the Django project is looked for.
	DefaultProjectDir = "."

	// DefaultServerLogFile captures the development server's stdout and
	// stderr so its chatter does not interleave with the audit report.
	DefaultServerLogFile = "server-wcag-zoo-log.txt"

	// DefaultUserAgent identifies the runner in the dev server's logs.
	DefaultUserAgent = "wcag-zoo-runner/1.0 (+https://github.com/digehode/wcag-zoo-runner)"

	// DefaultMaxBodySize limits the response body size to read. 5MB is
	// sufficient for any sane HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// AppName is the application name used for XDG directory paths.
	AppName = "wcag-zoo-runner"

	// LevelAA and LevelAAA are the accepted conformance levels.
	LevelAA  = "AA"
	LevelAAA = "AAA"
)

// Config holds all options for one audit run. It is populated from CLI
// flags layered over the optional .wcagzoo file and passed through the
// application via dependency injection rather than global state.
//
// Design decision: We use a single flat struct instead of nested structs
// (ServerConfig, FetchConfig, ...) for simplicity. The number of options is
// manageable, and nesting would add complexity without significant benefit.
type Config struct {
	// Port is the TCP port the development server listens on.
	Port int

	// Host is the address the development server binds to and pages are
	// fetched from.
	Host string

	// VerbosityLevel is the numeric verbosity (0-4) chosen on the command
	// line. Parsed into a model.Verbosity by the command layer.
	VerbosityLevel int

	// StaticPath is handed to every validator so checks like colour
	// contrast can resolve linked stylesheets on disk.
	StaticPath string

	// Level is the WCAG conformance level, AA or AAA.
	Level string

	// Timeout is the per-request timeout for page fetches.
	Timeout time.Duration

	// Concurrency bounds the number of URLs audited at once.
	Concurrency int

	// FailFast aborts in-flight work on the first terminal fetch error
	// instead of recording it per URL and carrying on.
	FailFast bool

	// NoServer skips launching the development server. Use it when the
	// target application is already running on Host:Port.
	NoServer bool

	// PythonBin is the interpreter used for manage.py invocations.
	PythonBin string

	// ProjectDir is the directory containing manage.py and the settings
	// package.
	ProjectDir string

	// PlanFile is the path of the INI test plan. Empty means look for
	// DefaultPlanFile in the project directory and fall back to a plan
	// generated from the live routing table.
	PlanFile string

	// ServerLogFile is where the development server's output is written.
	ServerLogFile string

	// ConfigFilePath is the path to the .wcagzoo file. If empty, the tool
	// searches the current directory and then the home directory.
	ConfigFilePath string

	// JSONReport writes the run report as JSON instead of the console
	// rendering. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport writes the run report as GitHub Flavored Markdown.
	// Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile is the output path for JSON or markdown reports. When
	// empty they go to stdout.
	ReportFile string

	// DBDir is the directory for the run-history SQLite database.
	// Defaults to the XDG data directory.
	DBDir string

	// SaveToDB indicates whether completed runs are stored for the
	// history command.
	SaveToDB bool

	// Validators optionally names the enabled validators. Empty means all
	// of them.
	Validators []string

	// UserAgent is the User-Agent header sent with page fetches.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64
}

// NewConfig creates a new Config with default values.
//
// Design decision: We use a constructor function instead of relying on zero
// values because most defaults are non-zero (port, level, timeout). This
// also serves as documentation of what the defaults are.
func NewConfig() *Config {
	return &Config{
		Port:           DefaultPort,
		Host:           DefaultHost,
		VerbosityLevel: DefaultVerbosity,
		StaticPath:     DefaultStaticPath,
		Level:          DefaultLevel,
		Timeout:        DefaultTimeout,
		Concurrency:    DefaultConcurrency,
		PythonBin:      DefaultPythonBin,
		ProjectDir:     DefaultProjectDir,
		ServerLogFile:  DefaultServerLogFile,
		UserAgent:      DefaultUserAgent,
		MaxBodySize:    DefaultMaxBodySize,
		DBDir:          XDGDataDir(),
		SaveToDB:       true,
	}
}

// BaseURL returns the root URL pages are fetched from.
func (c *Config) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

// XDGDataDir returns the XDG data directory for wcag-zoo-runner.
// On Linux: ~/.local/share/wcag-zoo-runner
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wcag-zoo-runner.
// On Linux: ~/.config/wcag-zoo-runner
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid and returns a specific
// error describing the first problem found.
//
// Design decision: We validate at the config level rather than at each
// point of use to fail fast and provide clear error messages upfront. This
// is called once after CLI parsing, before the development server is
// touched.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("%w: %d", ErrInvalidPort, c.Port)
	}

	if c.VerbosityLevel < 0 || c.VerbosityLevel > 4 {
		return fmt.Errorf("%w: %d", ErrInvalidVerbosity, c.VerbosityLevel)
	}

	if c.Level != LevelAA && c.Level != LevelAAA {
		return fmt.Errorf("%w: %q", ErrInvalidLevel, c.Level)
	}

	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}

	// JSONReport and MarkdownReport are mutually exclusive
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	return nil
}
