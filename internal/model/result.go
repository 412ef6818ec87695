package model

import (
	"fmt"
	"sort"
	"strings"
)

// Canonical result buckets. Every ValidationResult carries exactly these
// four keys.
const (
	// CategorySuccess holds checks that passed.
	CategorySuccess = "success"

	// CategoryFailures holds hard failures against the conformance level.
	CategoryFailures = "failures"

	// CategoryWarnings holds findings that need human judgement.
	CategoryWarnings = "warnings"

	// CategorySkipped holds elements a validator could not evaluate.
	CategorySkipped = "skipped"
)

// Categories lists the canonical buckets in display order.
var Categories = []string{CategoryFailures, CategoryWarnings, CategorySkipped, CategorySuccess}

// ValidationResult holds one page's findings bucketed by category.
//
// Design decision: the type stays a map rather than a fixed struct so that a
// collaborator handing back a wrong bucket set is detectable: Combine
// compares key sets and fails loudly with a KeySchemaError instead of
// silently dropping a category. NewValidationResult always creates all four
// canonical buckets, so a well-behaved producer can never trip the check.
type ValidationResult map[string][]Finding

// NewValidationResult returns a result with all four canonical buckets
// present and empty.
func NewValidationResult() ValidationResult {
	return ValidationResult{
		CategorySuccess:  {},
		CategoryFailures: {},
		CategoryWarnings: {},
		CategorySkipped:  {},
	}
}

// KeySchemaError reports an attempt to combine results whose bucket sets
// differ. It means a validator or a manual merge broke the four-bucket
// contract; the run must stop rather than lose a category of findings.
type KeySchemaError struct {
	// Left and Right are the two key sets that failed to line up, sorted.
	Left  []string
	Right []string
}

// Error implements the error interface.
func (e *KeySchemaError) Error() string {
	return fmt.Sprintf("validation result keys don't match: [%s] vs [%s]",
		strings.Join(e.Left, " "), strings.Join(e.Right, " "))
}

// Combine merges other into a copy of r by per-bucket concatenation and
// returns the combined result. It returns a *KeySchemaError when the two key
// sets differ. Combine is associative and the result of NewValidationResult
// is its identity.
func (r ValidationResult) Combine(other ValidationResult) (ValidationResult, error) {
	if !sameKeys(r, other) {
		return nil, &KeySchemaError{Left: r.keys(), Right: other.keys()}
	}

	combined := make(ValidationResult, len(r))
	for key := range r {
		findings := make([]Finding, 0, len(r[key])+len(other[key]))
		findings = append(findings, r[key]...)
		findings = append(findings, other[key]...)
		combined[key] = findings
	}

	return combined, nil
}

// Count returns the number of findings in the named bucket.
func (r ValidationResult) Count(category string) int {
	return len(r[category])
}

// Total returns the number of findings across all buckets.
func (r ValidationResult) Total() int {
	total := 0
	for _, findings := range r {
		total += len(findings)
	}
	return total
}

// Empty reports whether no bucket holds any finding.
func (r ValidationResult) Empty() bool {
	return r.Total() == 0
}

// keys returns the bucket names sorted for stable error messages.
func (r ValidationResult) keys() []string {
	keys := make([]string, 0, len(r))
	for key := range r {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func sameKeys(a, b ValidationResult) bool {
	if len(a) != len(b) {
		return false
	}
	for key := range a {
		if _, ok := b[key]; !ok {
			return false
		}
	}
	return true
}
