package log

import (
	"context"
	"io"
	"log/slog"

	"github.com/fatih/color"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Level converts a verbosity to the minimum slog level it enables.
// INFO and FULL share slog.LevelInfo; they differ in record detail, which
// VerbosityHandler handles.
func Level(v model.Verbosity) slog.Level {
	switch v {
	case model.VerbosityError:
		return slog.LevelError
	case model.VerbosityWarning:
		return slog.LevelWarn
	case model.VerbosityInfo, model.VerbosityFull:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// terseKeys are the attributes a log line keeps even below FULL
// verbosity: enough to identify what failed and where, nothing more.
var terseKeys = map[string]bool{
	"error": true,
	"url":   true,
}

// VerbosityHandler wraps an slog.Handler and adjusts record detail to the
// configured verbosity: below FULL, attributes other than error and url
// are stripped so log lines stay readable on a terminal.
//
// Design decision: We use a handler wrapper rather than a custom logger
// because:
//  1. It integrates seamlessly with standard slog APIs
//  2. It works with any underlying handler (text, JSON, etc.)
//  3. Components keep logging rich attributes unconditionally; the
//     handler decides what survives, in one place
type VerbosityHandler struct {
	// handler is the underlying slog handler that receives the records.
	handler slog.Handler

	// verbosity is the audit's configured verbosity.
	verbosity model.Verbosity
}

// NewVerbosityHandler creates a VerbosityHandler wrapping the given
// handler. If handler is nil, slog.Default().Handler() is used.
func NewVerbosityHandler(handler slog.Handler, verbosity model.Verbosity) *VerbosityHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &VerbosityHandler{handler: handler, verbosity: verbosity}
}

// Enabled reports whether records at the given level are handled.
func (h *VerbosityHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= Level(h.verbosity) && h.handler.Enabled(ctx, level)
}

// Handle passes the record through, trimmed to the verbosity's detail.
func (h *VerbosityHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.verbosity >= model.VerbosityFull {
		return h.handler.Handle(ctx, r)
	}

	trimmed := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		if terseKeys[a.Key] {
			trimmed.AddAttrs(a)
		}
		return true
	})
	return h.handler.Handle(ctx, trimmed)
}

// WithAttrs returns a new handler with the given attributes added,
// subject to the same detail trimming as Handle.
func (h *VerbosityHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.verbosity < model.VerbosityFull {
		kept := make([]slog.Attr, 0, len(attrs))
		for _, a := range attrs {
			if terseKeys[a.Key] {
				kept = append(kept, a)
			}
		}
		attrs = kept
	}
	if len(attrs) == 0 {
		return h
	}
	return &VerbosityHandler{handler: h.handler.WithAttrs(attrs), verbosity: h.verbosity}
}

// WithGroup returns a new handler with the given group name.
func (h *VerbosityHandler) WithGroup(name string) slog.Handler {
	return &VerbosityHandler{handler: h.handler.WithGroup(name), verbosity: h.verbosity}
}

// levelColors maps slog levels to the terminal colour of the level token.
// Same palette the console report uses for its category banners.
var levelColors = map[slog.Level]*color.Color{
	slog.LevelError: color.New(color.FgRed),
	slog.LevelWarn:  color.New(color.FgHiRed),
	slog.LevelInfo:  color.New(color.FgBlue),
	slog.LevelDebug: color.New(color.FgGreen),
}

// colorizeLevel is a ReplaceAttr hook that colours the level token.
// fatih/color disables itself on non-terminal outputs, so piped logs stay
// plain text.
func colorizeLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) > 0 || a.Key != slog.LevelKey {
		return a
	}
	level, ok := a.Value.Any().(slog.Level)
	if !ok {
		return a
	}
	if c, found := levelColors[level]; found {
		a.Value = slog.StringValue(c.Sprint(level.String()))
	}
	return a
}

// NewLogger builds the audit logger for the given verbosity: a text
// handler on w gated at the mapped level, the level token coloured,
// wrapped so record detail matches the verbosity.
func NewLogger(w io.Writer, verbosity model.Verbosity) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:       Level(verbosity),
		ReplaceAttr: colorizeLevel,
	}
	return slog.New(NewVerbosityHandler(slog.NewTextHandler(w, opts), verbosity))
}
