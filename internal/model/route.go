package model

// Route is one entry of the target application's routing table: a server-side
// path template plus the name the application registered it under.
//
// The pattern may contain parameter placeholders (e.g. "<int:id>") or regex
// anchor artifacts (a trailing `\Z`, escaped dots `\.`) depending on how the
// route was declared. Routes are produced once per run by the route source
// and never modified afterwards.
type Route struct {
	// Pattern is the path template as the routing table declares it,
	// usually without a leading slash (e.g. "products/<int:id>/detail").
	Pattern string `json:"pattern"`

	// Name is the route name, namespace-qualified when the route lives in
	// a nested mount (e.g. "shop:product-detail"). May be empty.
	Name string `json:"name,omitempty"`
}

// URLPlan classifies route patterns into what gets fetched, what is
// deliberately ignored, and what needs a human to substitute real parameter
// values first.
//
// Design decision: the three buckets are pairwise disjoint by construction.
// Membership is decided once at classification time and never revisited, and
// each bucket keeps first-seen order so generated plan files stay
// diff-friendly across runs.
type URLPlan struct {
	// Include holds literal paths and regex fragments that will be fetched
	// and validated.
	Include []string `json:"include"`

	// Exclude holds prefixes and regex fragments for routes that must not
	// be tested, such as admin screens and static file mounts.
	Exclude []string `json:"exclude"`

	// Complex holds parameterized routes flagged for manual attention.
	// They are surfaced to the user but never fetched automatically.
	Complex []string `json:"complex"`
}

// Size returns the number of entries across all three buckets.
func (p URLPlan) Size() int {
	return len(p.Include) + len(p.Exclude) + len(p.Complex)
}

// CoverageGap is a live route that no plan entry matches, neither literally
// nor as a regular expression. Gaps are findings about the test plan itself,
// not errors: the verifier returns them and the caller decides whether they
// are warnings or hard failures.
type CoverageGap struct {
	// Route is the canonical path of the uncovered route.
	Route string `json:"route"`
}
