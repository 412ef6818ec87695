package model

import "time"

// PageResult is the outcome of fetching and validating one URL. A page that
// could not be fetched carries the error string and no findings; a page that
// was fetched but is not HTML is marked Skipped.
type PageResult struct {
	// URL is the page the result belongs to.
	URL string `json:"url"`

	// StatusCode is the HTTP status of the fetch, 0 when the fetch failed.
	StatusCode int `json:"status_code,omitempty"`

	// Skipped is true when the page was fetched but not validated because
	// its media type is not HTML.
	Skipped bool `json:"skipped,omitempty"`

	// Result holds the merged findings of every validator for this page.
	Result ValidationResult `json:"result,omitempty"`

	// Err records a terminal fetch or pipeline error for this URL. Kept as
	// a string so the report serializes cleanly.
	Err string `json:"error,omitempty"`
}

// Failed reports whether this page's fetch or validation errored.
func (p *PageResult) Failed() bool {
	return p.Err != ""
}

// AuditReport is the aggregate outcome of one run: every page result, the
// coverage gaps, and enough metadata for the report writers and the history
// database.
type AuditReport struct {
	// Target is the base URL the run audited.
	Target string `json:"target"`

	// Level is the conformance level the validators were given, AA or AAA.
	Level string `json:"level"`

	// DateStarted is when the run began.
	DateStarted time.Time `json:"date_started"`

	// Elapsed is the wall-clock duration of the run.
	Elapsed time.Duration `json:"elapsed"`

	// Pages holds one entry per audited URL in completion order.
	Pages []PageResult `json:"pages"`

	// Gaps holds the coverage gaps found before fetching started.
	Gaps []CoverageGap `json:"gaps,omitempty"`
}

// NewAuditReport creates an AuditReport for the given target and
// conformance level.
func NewAuditReport(target, level string) *AuditReport {
	return &AuditReport{
		Target:      target,
		Level:       level,
		DateStarted: time.Now(),
		Pages:       []PageResult{},
	}
}

// AddPage appends one page result to the report.
func (r *AuditReport) AddPage(result PageResult) {
	r.Pages = append(r.Pages, result)
}

// Totals sums the findings of every page per category, keyed by the
// canonical bucket names.
func (r *AuditReport) Totals() map[string]int {
	totals := make(map[string]int, len(Categories))
	for _, category := range Categories {
		totals[category] = 0
	}
	for _, page := range r.Pages {
		for category, findings := range page.Result {
			totals[category] += len(findings)
		}
	}
	return totals
}

// FailedPages returns the results whose fetch or validation errored.
func (r *AuditReport) FailedPages() []PageResult {
	var failed []PageResult
	for _, page := range r.Pages {
		if page.Failed() {
			failed = append(failed, page)
		}
	}
	return failed
}

// Failures returns every failure finding across all pages in page order.
// The history database stores these for run-over-run comparison.
func (r *AuditReport) Failures() []Finding {
	var failures []Finding
	for _, page := range r.Pages {
		failures = append(failures, page.Result[CategoryFailures]...)
	}
	return failures
}
