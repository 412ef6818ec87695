package routes

import (
	"regexp"
	"strings"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// exclusionPrefixes are route prefixes that are not worth auditing: the
// admin screens, uploaded media, static assets and the debug toolbar mount.
var exclusionPrefixes = []string{"admin", "media", "static", "__debug__"}

// parameterPattern detects parameter placeholders such as <int:id> or
// <slug> anywhere in a route pattern.
var parameterPattern = regexp.MustCompile(`<.*>`)

// Classify partitions route patterns into the three plan buckets.
//
// Rules, applied in order per pattern:
//  1. patterns under an exclusion prefix go to Exclude
//  2. patterns containing a parameter placeholder go to Complex
//  3. everything else goes to Include
//
// Classify is a pure function. Duplicate patterns are dropped (the first
// occurrence wins) and each bucket keeps first-seen order, so the buckets
// are pairwise disjoint and their union is the de-duplicated input.
func Classify(routes []model.Route) model.URLPlan {
	plan := model.URLPlan{
		Include: []string{},
		Exclude: []string{},
		Complex: []string{},
	}

	seen := make(map[string]struct{}, len(routes))
	for _, route := range routes {
		pattern := route.Pattern
		if _, ok := seen[pattern]; ok {
			continue
		}
		seen[pattern] = struct{}{}

		switch {
		case hasExcludedPrefix(pattern):
			plan.Exclude = append(plan.Exclude, pattern)
		case parameterPattern.MatchString(pattern):
			plan.Complex = append(plan.Complex, pattern)
		default:
			plan.Include = append(plan.Include, pattern)
		}
	}

	return plan
}

// hasExcludedPrefix reports whether the pattern starts with one of the
// exclusion prefixes. A single leading slash is ignored so that an authored
// "/admin/login" classifies the same as the routing table's "admin/login".
func hasExcludedPrefix(pattern string) bool {
	trimmed := strings.TrimPrefix(pattern, "/")
	for _, prefix := range exclusionPrefixes {
		if strings.HasPrefix(trimmed, prefix) {
			return true
		}
	}
	return false
}

// sanitiseReplacer strips the regex artifacts re_path declarations leave in
// patterns: the \Z end anchor and escaped dots.
var sanitiseReplacer = strings.NewReplacer(`\Z`, "", `\.`, ".")

// Sanitise turns a route pattern into a usable HTTP path by removing
// server-side regex anchors.
func Sanitise(pattern string) string {
	return sanitiseReplacer.Replace(pattern)
}
