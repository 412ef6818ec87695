package wcag

import (
	"errors"
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

func TestNewResult(t *testing.T) {
	t.Parallel()

	t.Run("creates all four categories", func(t *testing.T) {
		t.Parallel()

		result := NewResult()
		for _, category := range model.Categories {
			if _, ok := result[category]; !ok {
				t.Errorf("missing category %q", category)
			}
		}
		if len(result) != 4 {
			t.Errorf("expected 4 categories, got %d", len(result))
		}
	})
}

func TestResultAdd(t *testing.T) {
	t.Parallel()

	t.Run("stamps guideline and technique onto the finding", func(t *testing.T) {
		t.Parallel()

		result := NewResult()
		result.Add(model.CategoryFailures, "1.1.1 Non-text Content", "H37", model.Finding{
			XPath:   "/html[1]/body[1]/img[1]",
			Message: "img has no alt attribute",
		})

		findings := result[model.CategoryFailures]["1.1.1 Non-text Content"]["H37"]
		if len(findings) != 1 {
			t.Fatalf("expected 1 finding, got %d", len(findings))
		}
		if findings[0].Guideline != "1.1.1 Non-text Content" {
			t.Errorf("unexpected guideline: %q", findings[0].Guideline)
		}
		if findings[0].Technique != "H37" {
			t.Errorf("unexpected technique: %q", findings[0].Technique)
		}
	})

	t.Run("appends under the same technique", func(t *testing.T) {
		t.Parallel()

		result := NewResult()
		result.Add(model.CategorySuccess, "g", "t", model.Finding{Message: "first"})
		result.Add(model.CategorySuccess, "g", "t", model.Finding{Message: "second"})

		findings := result[model.CategorySuccess]["g"]["t"]
		if len(findings) != 2 {
			t.Fatalf("expected 2 findings, got %d", len(findings))
		}
		if findings[0].Message != "first" || findings[1].Message != "second" {
			t.Errorf("insertion order not preserved: %v", findings)
		}
	})
}

func TestResultFlatten(t *testing.T) {
	t.Parallel()

	t.Run("keeps empty categories", func(t *testing.T) {
		t.Parallel()

		flat := NewResult().Flatten()
		if len(flat) != 4 {
			t.Fatalf("expected 4 categories, got %d", len(flat))
		}
		for _, category := range model.Categories {
			findings, ok := flat[category]
			if !ok {
				t.Errorf("missing category %q", category)
			}
			if len(findings) != 0 {
				t.Errorf("category %q not empty: %v", category, findings)
			}
		}
	})

	t.Run("discards grouping but keeps every finding", func(t *testing.T) {
		t.Parallel()

		result := NewResult()
		result.Add(model.CategoryFailures, "1.4.3 Contrast (Minimum)", "G18", model.Finding{Message: "low contrast"})
		result.Add(model.CategoryFailures, "1.1.1 Non-text Content", "H37", model.Finding{Message: "no alt"})
		result.Add(model.CategoryWarnings, "1.3.1 Info and Relationships", "G141", model.Finding{Message: "empty heading"})

		flat := result.Flatten()
		if len(flat[model.CategoryFailures]) != 2 {
			t.Errorf("expected 2 failures, got %d", len(flat[model.CategoryFailures]))
		}
		if len(flat[model.CategoryWarnings]) != 1 {
			t.Errorf("expected 1 warning, got %d", len(flat[model.CategoryWarnings]))
		}
	})

	t.Run("orders findings by guideline then technique", func(t *testing.T) {
		t.Parallel()

		result := NewResult()
		result.Add(model.CategoryFailures, "2.1.1 Keyboard", "G90", model.Finding{Message: "third"})
		result.Add(model.CategoryFailures, "1.1.1 Non-text Content", "H37", model.Finding{Message: "second"})
		result.Add(model.CategoryFailures, "1.1.1 Non-text Content", "H24", model.Finding{Message: "first"})

		flat := result.Flatten()
		got := make([]string, 0, 3)
		for _, finding := range flat[model.CategoryFailures] {
			got = append(got, finding.Message)
		}
		want := []string{"first", "second", "third"}
		for i := range want {
			if got[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, got)
			}
		}
	})

	t.Run("flattened categories merge cleanly", func(t *testing.T) {
		t.Parallel()

		first := NewResult()
		first.Add(model.CategoryFailures, "g", "t", model.Finding{Message: "a"})
		second := NewResult()
		second.Add(model.CategorySuccess, "g", "t", model.Finding{Message: "b"})

		merged, err := first.Flatten().Combine(second.Flatten())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if merged.Total() != 2 {
			t.Errorf("expected 2 findings total, got %d", merged.Total())
		}
	})
}

func TestDefaultFactories(t *testing.T) {
	t.Parallel()

	t.Run("returns all validators in run order", func(t *testing.T) {
		t.Parallel()

		factories := DefaultFactories()
		if len(factories) != 4 {
			t.Fatalf("expected 4 factories, got %d", len(factories))
		}

		want := []string{"tarsier", "anteater", "ayeaye", "molerat"}
		for i, factory := range factories {
			v := factory(Options{Level: LevelAA})
			if v.Name() != want[i] {
				t.Errorf("factory %d: expected %q, got %q", i, want[i], v.Name())
			}
		}
	})
}

func TestFactoriesByName(t *testing.T) {
	t.Parallel()

	t.Run("empty selection means all validators", func(t *testing.T) {
		t.Parallel()

		factories, err := FactoriesByName(nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(factories) != 4 {
			t.Errorf("expected 4 factories, got %d", len(factories))
		}
	})

	t.Run("selection keeps the built-in run order", func(t *testing.T) {
		t.Parallel()

		factories, err := FactoriesByName([]string{"molerat", "tarsier"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(factories) != 2 {
			t.Fatalf("expected 2 factories, got %d", len(factories))
		}
		if name := factories[0](Options{}).Name(); name != "tarsier" {
			t.Errorf("expected tarsier first, got %q", name)
		}
		if name := factories[1](Options{}).Name(); name != "molerat" {
			t.Errorf("expected molerat second, got %q", name)
		}
	})

	t.Run("unknown name is an error", func(t *testing.T) {
		t.Parallel()

		_, err := FactoriesByName([]string{"tarsier", "axolotl"})
		if !errors.Is(err, ErrUnknownValidator) {
			t.Errorf("expected ErrUnknownValidator, got %v", err)
		}
	})
}

func TestNames(t *testing.T) {
	t.Parallel()

	t.Run("returns a copy", func(t *testing.T) {
		t.Parallel()

		names := Names()
		names[0] = "mutated"
		if Names()[0] != "tarsier" {
			t.Error("Names() exposed internal state")
		}
	})
}
