package wcag

import (
	"errors"
	"fmt"
	"sort"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Conformance levels the validators understand.
const (
	// LevelAA checks against the AA success criteria.
	LevelAA = "AA"

	// LevelAAA checks against the stricter AAA success criteria.
	LevelAAA = "AAA"
)

// ErrUnknownValidator is returned when a requested validator name does not
// match any built-in validator.
//
// Design decision: We use a sentinel error so the command layer can list
// the valid names in its own message while tests use errors.Is.
var ErrUnknownValidator = errors.New("unknown validator")

// Options carries the per-run settings every validator is constructed with.
type Options struct {
	// StaticPath is the directory stylesheets referenced by the page are
	// resolved from.
	StaticPath string

	// Level is the conformance level to check against, AA or AAA.
	Level string
}

// Validator checks one HTML document against a family of WCAG techniques.
//
// Design decision: We use an interface rather than concrete types because:
//  1. Allows for easy extension with new check families
//  2. Enables testing the pipeline with stub validators
//  3. Keeps each animal's logic in its own file, testable in isolation
type Validator interface {
	// Name returns the validator name used in logs and reports.
	Name() string

	// ValidateDocument runs the checks against the raw document bytes and
	// returns the nested result. The findings it produces carry no URL;
	// the pipeline stamps that in after flattening.
	ValidateDocument(content []byte) (Result, error)
}

// Factory constructs a validator bound to one run's options.
//
// The pipeline instantiates validators per page through factories so every
// page sees a fresh instance; validators are free to keep per-document
// state without worrying about reuse.
type Factory func(opts Options) Validator

// defaultOrder is the fixed run order of the built-in validators.
var defaultOrder = []string{"tarsier", "anteater", "ayeaye", "molerat"}

// builtins maps validator names to their factories.
var builtins = map[string]Factory{
	"tarsier":  func(opts Options) Validator { return NewTarsier(opts) },
	"anteater": func(opts Options) Validator { return NewAnteater(opts) },
	"ayeaye":   func(opts Options) Validator { return NewAyeaye(opts) },
	"molerat":  func(opts Options) Validator { return NewMolerat(opts) },
}

// DefaultFactories returns all built-in validators in their fixed run
// order.
func DefaultFactories() []Factory {
	factories := make([]Factory, 0, len(defaultOrder))
	for _, name := range defaultOrder {
		factories = append(factories, builtins[name])
	}
	return factories
}

// FactoriesByName resolves validator names to factories, preserving the
// built-in run order regardless of the order the names were given in. An
// empty name list selects every built-in validator.
func FactoriesByName(names []string) ([]Factory, error) {
	if len(names) == 0 {
		return DefaultFactories(), nil
	}

	selected := make(map[string]bool, len(names))
	for _, name := range names {
		if _, ok := builtins[name]; !ok {
			return nil, fmt.Errorf("%w: %q (valid: %v)", ErrUnknownValidator, name, defaultOrder)
		}
		selected[name] = true
	}

	factories := make([]Factory, 0, len(selected))
	for _, name := range defaultOrder {
		if selected[name] {
			factories = append(factories, builtins[name])
		}
	}
	return factories, nil
}

// Names returns the names of all built-in validators in run order.
func Names() []string {
	names := make([]string, len(defaultOrder))
	copy(names, defaultOrder)
	return names
}

// Result is the nested structure a validator hands back: category ->
// guideline -> technique -> findings.
type Result map[string]map[string]map[string][]model.Finding

// NewResult returns a Result with the four canonical categories present
// and empty. Validators build on this so their category sets always agree.
func NewResult() Result {
	return Result{
		model.CategorySuccess:  {},
		model.CategoryFailures: {},
		model.CategoryWarnings: {},
		model.CategorySkipped:  {},
	}
}

// Add files a finding under category/guideline/technique, stamping the
// guideline and technique onto the finding itself so the grouping survives
// flattening.
func (r Result) Add(category, guideline, technique string, finding model.Finding) {
	finding.Guideline = guideline
	finding.Technique = technique

	if r[category] == nil {
		r[category] = map[string]map[string][]model.Finding{}
	}
	if r[category][guideline] == nil {
		r[category][guideline] = map[string][]model.Finding{}
	}
	r[category][guideline][technique] = append(r[category][guideline][technique], finding)
}

// Flatten collapses the nested result into per-category finding lists,
// discarding the guideline and technique grouping levels. Categories
// survive even when empty so the merge step can verify that every
// validator produced the same category set. Findings are ordered by
// guideline, then technique, then insertion order, so flattening the same
// result twice yields identical output.
func (r Result) Flatten() model.ValidationResult {
	flat := make(model.ValidationResult, len(r))
	for category, guidelines := range r {
		findings := []model.Finding{}

		guidelineKeys := make([]string, 0, len(guidelines))
		for guideline := range guidelines {
			guidelineKeys = append(guidelineKeys, guideline)
		}
		sort.Strings(guidelineKeys)

		for _, guideline := range guidelineKeys {
			techniques := guidelines[guideline]
			techniqueKeys := make([]string, 0, len(techniques))
			for technique := range techniques {
				techniqueKeys = append(techniqueKeys, technique)
			}
			sort.Strings(techniqueKeys)

			for _, technique := range techniqueKeys {
				findings = append(findings, techniques[technique]...)
			}
		}
		flat[category] = findings
	}
	return flat
}
