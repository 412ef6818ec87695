package wcag

import (
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

func TestAyeayeValidateDocument(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		failures int
		warnings int
		success  int
	}{
		{
			name: "no accesskeys",
			body: `<a href="/">home</a>`,
		},
		{
			name:    "unique keys",
			body:    `<a href="/" accesskey="h">home</a><a href="/search" accesskey="s">search</a>`,
			success: 2,
		},
		{
			name:     "duplicated key fails on every carrier",
			body:     `<a href="/" accesskey="h">home</a><button accesskey="h">help</button>`,
			failures: 2,
		},
		{
			name:     "empty key",
			body:     `<a href="/" accesskey="">home</a>`,
			warnings: 1,
		},
		{
			name:     "multi-character key",
			body:     `<a href="/" accesskey="home">home</a>`,
			warnings: 1,
		},
		{
			name:     "mixed",
			body:     `<a accesskey="a">a</a><a accesskey="a">b</a><a accesskey="c">c</a>`,
			failures: 2,
			success:  1,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := NewAyeaye(Options{Level: LevelAA})
			result, err := v.ValidateDocument([]byte("<html><body>" + tc.body + "</body></html>"))
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			counts := countByCategory(t, result)
			if counts[model.CategoryFailures] != tc.failures {
				t.Errorf("failures = %d, want %d", counts[model.CategoryFailures], tc.failures)
			}
			if counts[model.CategoryWarnings] != tc.warnings {
				t.Errorf("warnings = %d, want %d", counts[model.CategoryWarnings], tc.warnings)
			}
			if counts[model.CategorySuccess] != tc.success {
				t.Errorf("success = %d, want %d", counts[model.CategorySuccess], tc.success)
			}
		})
	}

	t.Run("failure names the key and the carrier count", func(t *testing.T) {
		t.Parallel()

		v := NewAyeaye(Options{})
		result, err := v.ValidateDocument([]byte(
			`<html><body><a accesskey="x">one</a><a accesskey="x">two</a><a accesskey="x">three</a></body></html>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		failures := result.Flatten()[model.CategoryFailures]
		if len(failures) != 3 {
			t.Fatalf("expected 3 failures, got %d", len(failures))
		}
		for _, finding := range failures {
			if finding.Extra["accesskey"] != "x" {
				t.Errorf("expected accesskey extra, got %v", finding.Extra)
			}
			if finding.Guideline != accesskeyGuideline {
				t.Errorf("unexpected guideline: %q", finding.Guideline)
			}
		}
	})
}
