package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

func TestLevel(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		verbosity model.Verbosity
		want      slog.Level
	}{
		{name: "error maps to LevelError", verbosity: model.VerbosityError, want: slog.LevelError},
		{name: "warning maps to LevelWarn", verbosity: model.VerbosityWarning, want: slog.LevelWarn},
		{name: "info maps to LevelInfo", verbosity: model.VerbosityInfo, want: slog.LevelInfo},
		{name: "full also maps to LevelInfo", verbosity: model.VerbosityFull, want: slog.LevelInfo},
		{name: "debug maps to LevelDebug", verbosity: model.VerbosityDebug, want: slog.LevelDebug},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			if got := Level(tc.verbosity); got != tc.want {
				t.Errorf("Level(%v) = %v, want %v", tc.verbosity, got, tc.want)
			}
		})
	}
}

func TestNewLoggerGating(t *testing.T) {
	t.Parallel()

	t.Run("warnings are silenced at ERROR verbosity", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, model.VerbosityError)

		logger.Warn("route table is empty")
		if buf.Len() != 0 {
			t.Errorf("expected no output, got %q", buf.String())
		}

		logger.Error("server did not start")
		if !strings.Contains(buf.String(), "server did not start") {
			t.Errorf("expected the error line, got %q", buf.String())
		}
	})

	t.Run("info appears from INFO verbosity up", func(t *testing.T) {
		t.Parallel()

		var quiet bytes.Buffer
		NewLogger(&quiet, model.VerbosityWarning).Info("fetching page")
		if quiet.Len() != 0 {
			t.Errorf("expected no output at WARNING, got %q", quiet.String())
		}

		var chatty bytes.Buffer
		NewLogger(&chatty, model.VerbosityInfo).Info("fetching page")
		if !strings.Contains(chatty.String(), "fetching page") {
			t.Errorf("expected the info line, got %q", chatty.String())
		}
	})

	t.Run("debug appears only at DEBUG verbosity", func(t *testing.T) {
		t.Parallel()

		var full bytes.Buffer
		NewLogger(&full, model.VerbosityFull).Debug("validator finished")
		if full.Len() != 0 {
			t.Errorf("expected no output at FULL, got %q", full.String())
		}

		var debug bytes.Buffer
		NewLogger(&debug, model.VerbosityDebug).Debug("validator finished")
		if !strings.Contains(debug.String(), "validator finished") {
			t.Errorf("expected the debug line, got %q", debug.String())
		}
	})
}

func TestVerbosityHandlerDetail(t *testing.T) {
	t.Parallel()

	t.Run("below FULL most attributes are stripped", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, model.VerbosityInfo)

		logger.Info("batch validation complete",
			"total_urls", 12,
			"concurrency", 4,
			"url", "http://127.0.0.1:8799/",
			"error", "nope",
		)

		output := buf.String()
		if strings.Contains(output, "total_urls") || strings.Contains(output, "concurrency") {
			t.Errorf("expected detail attributes to be stripped: %q", output)
		}
		if !strings.Contains(output, "url=") {
			t.Errorf("expected the url attribute to survive: %q", output)
		}
		if !strings.Contains(output, "error=") {
			t.Errorf("expected the error attribute to survive: %q", output)
		}
	})

	t.Run("at FULL attributes pass through", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, model.VerbosityFull)

		logger.Info("batch validation complete", "total_urls", 12)
		if !strings.Contains(buf.String(), "total_urls=12") {
			t.Errorf("expected full detail: %q", buf.String())
		}
	})

	t.Run("WithAttrs obeys the same trimming", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		logger := NewLogger(&buf, model.VerbosityInfo).With(
			"run_id", "2026-01-01",
			"url", "http://127.0.0.1:8799/",
		)

		logger.Info("starting audit")
		output := buf.String()
		if strings.Contains(output, "run_id") {
			t.Errorf("expected run_id to be stripped: %q", output)
		}
		if !strings.Contains(output, "url=") {
			t.Errorf("expected url to survive: %q", output)
		}
	})
}
