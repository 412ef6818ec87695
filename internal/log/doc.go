// Package log maps the audit's 0-4 verbosity scale onto structured
// logging, built on top of the standard slog package.
//
// The scale covers both how much and how loudly the tool talks:
//
//	0 ERROR    only errors
//	1 WARNING  errors and warnings (the default)
//	2 INFO     progress messages, kept terse
//	3 FULL     progress messages with their structured attributes
//	4 DEBUG    everything, including per-validator detail
//
// Levels 2 and 3 share slog.LevelInfo; the difference between them is
// record detail, not record count. VerbosityHandler implements that
// distinction by stripping most attributes from records below FULL, so
// an INFO run reads as a progress narrative while a FULL run carries the
// key/value context.
//
// # Usage
//
//	logger := log.NewLogger(os.Stderr, model.VerbosityInfo)
//	slog.SetDefault(logger)
package log
