package wcag

import (
	"strings"
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// countByCategory flattens a result and returns the number of findings per
// category.
func countByCategory(t *testing.T, result Result) map[string]int {
	t.Helper()

	counts := map[string]int{}
	for category, findings := range result.Flatten() {
		counts[category] = len(findings)
	}
	return counts
}

func TestTarsierValidateDocument(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		body     string
		failures int
		warnings int
		skipped  int
		success  int
	}{
		{
			name:    "clean hierarchy",
			body:    `<h1>Title</h1><h2>Section</h2><h3>Subsection</h3><h2>Another</h2>`,
			success: 4,
		},
		{
			name:     "skipped level",
			body:     `<h1>Title</h1><h3>Too deep</h3>`,
			failures: 1,
			success:  1,
		},
		{
			name:     "first heading is not h1",
			body:     `<h2>Start</h2><h3>Next</h3>`,
			failures: 1,
			success:  1,
		},
		{
			name:     "empty heading",
			body:     `<h1></h1>`,
			warnings: 1,
		},
		{
			name:     "no headings at all",
			body:     `<p>Just text</p>`,
			warnings: 1,
		},
		{
			name:     "hidden heading does not count",
			body:     `<h1 aria-hidden="true">Decorative</h1><p>text</p>`,
			warnings: 1,
			skipped:  1,
		},
		{
			name:    "stepping back up is fine",
			body:    `<h1>a</h1><h2>b</h2><h3>c</h3><h1>d</h1>`,
			success: 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			v := NewTarsier(Options{Level: LevelAA})
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
			if counts[model.CategorySkipped] != tc.skipped {
				t.Errorf("skipped = %d, want %d", counts[model.CategorySkipped], tc.skipped)
			}
			if counts[model.CategorySuccess] != tc.success {
				t.Errorf("success = %d, want %d", counts[model.CategorySuccess], tc.success)
			}
		})
	}

	t.Run("failure names the offending levels", func(t *testing.T) {
		t.Parallel()

		v := NewTarsier(Options{})
		result, err := v.ValidateDocument([]byte(`<html><body><h1>a</h1><h4>b</h4></body></html>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		failures := result.Flatten()[model.CategoryFailures]
		if len(failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failures))
		}
		if !strings.Contains(failures[0].Message, "h1") || !strings.Contains(failures[0].Message, "h4") {
			t.Errorf("message does not name the levels: %q", failures[0].Message)
		}
		if failures[0].Guideline != headingGuideline {
			t.Errorf("unexpected guideline: %q", failures[0].Guideline)
		}
		if failures[0].Technique != headingTechnique {
			t.Errorf("unexpected technique: %q", failures[0].Technique)
		}
	})

	t.Run("finding carries the element location", func(t *testing.T) {
		t.Parallel()

		v := NewTarsier(Options{})
		result, err := v.ValidateDocument([]byte(`<html><body><h2 id="intro" class="hero big">x</h2></body></html>`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		failures := result.Flatten()[model.CategoryFailures]
		if len(failures) != 1 {
			t.Fatalf("expected 1 failure, got %d", len(failures))
		}
		if failures[0].XPath != "/html[1]/body[1]/h2[1]" {
			t.Errorf("unexpected xpath: %q", failures[0].XPath)
		}
		if failures[0].ID != "intro" {
			t.Errorf("unexpected id: %q", failures[0].ID)
		}
		if len(failures[0].Classes) != 2 {
			t.Errorf("unexpected classes: %v", failures[0].Classes)
		}
	})
}
