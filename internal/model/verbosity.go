package model

import "fmt"

// Verbosity controls how much of a ValidationResult the reporter emits.
// Higher values are more verbose.
//
// Design decision: We use iota-based constants rather than string constants
// because the numeric order IS the gating contract: failures are always
// shown, warnings need at least VerbosityWarning, skipped checks need
// VerbosityInfo, and successes need VerbosityFull.
type Verbosity int

const (
	// VerbosityError shows failures only.
	VerbosityError Verbosity = iota

	// VerbosityWarning adds warnings. This is the default.
	VerbosityWarning

	// VerbosityInfo adds skipped checks and informational messages.
	VerbosityInfo

	// VerbosityFull adds successful checks.
	VerbosityFull

	// VerbosityDebug adds internal diagnostics.
	VerbosityDebug
)

// String returns the log-style name of the verbosity level.
func (v Verbosity) String() string {
	switch v {
	case VerbosityError:
		return "ERROR"
	case VerbosityWarning:
		return "WARNING"
	case VerbosityInfo:
		return "INFO"
	case VerbosityFull:
		return "FULL"
	case VerbosityDebug:
		return "DEBUG"
	default:
		return "UNKNOWN"
	}
}

// ParseVerbosity converts the numeric verbosity used on the command line
// (0 to 4) into a Verbosity.
func ParseVerbosity(n int) (Verbosity, error) {
	if n < int(VerbosityError) || n > int(VerbosityDebug) {
		return 0, fmt.Errorf("verbosity must be between 0 and 4, got %d", n)
	}
	return Verbosity(n), nil
}
