package routes

import (
	"regexp"
	"strings"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// converterClasses maps Django path-converter names to the character class
// the framework itself routes them with. Plan entries may contain
// <converter:name> placeholders; they are rewritten with these classes
// before the entry is compiled, so an include entry like
// "/products/<int:id>" covers the concrete path "/products/42".
var converterClasses = map[string]string{
	"int":  `[0-9]+`,
	"str":  `[^/]+`,
	"slug": `[-a-zA-Z0-9_]+`,
	"uuid": `[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`,
	"path": `.+`,
}

var placeholderPattern = regexp.MustCompile(`<[^<>]+>`)

// Verify checks that every live route is covered by the plan and returns a
// CoverageGap for each one that is not.
//
// Each live route pattern is canonicalized to exactly one leading slash and
// matched with this precedence:
//  1. exact membership in plan.Include
//  2. any plan.Include entry, compiled as a regex, prefix-matches the path
//  3. any plan.Exclude entry, compiled as a regex, prefix-matches the path
//
// Plan entries are canonicalized the same way (a leading "^" anchor is
// stripped first; the compiled form is always anchored at position 0), so an
// authored "/about/" and a generated "about/" cover the same route. Authors
// mix literal paths and regex fragments in the same lists, so entries that
// do not compile are skipped rather than fatal. Verify never fails on gaps:
// it returns them and the caller decides whether they are warnings or hard
// failures.
func Verify(plan model.URLPlan, live []model.Route) []model.CoverageGap {
	literals := make(map[string]struct{}, len(plan.Include))
	for _, entry := range plan.Include {
		literals[CanonicalPath(entry)] = struct{}{}
	}

	includes := compileEntries(plan.Include)
	excludes := compileEntries(plan.Exclude)

	var gaps []model.CoverageGap
	reported := make(map[string]struct{})

	for _, route := range live {
		path := CanonicalPath(route.Pattern)
		if _, ok := literals[path]; ok {
			continue
		}
		if anyPrefixMatch(includes, path) || anyPrefixMatch(excludes, path) {
			continue
		}
		if _, ok := reported[path]; ok {
			continue
		}
		reported[path] = struct{}{}
		gaps = append(gaps, model.CoverageGap{Route: path})
	}

	return gaps
}

// CanonicalPath returns the pattern as an absolute path with exactly one
// leading slash. The empty root pattern canonicalizes to "/".
func CanonicalPath(pattern string) string {
	return "/" + strings.TrimLeft(pattern, "/")
}

// compileEntries compiles plan entries into position-anchored regexps,
// skipping entries that do not compile.
func compileEntries(entries []string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, 0, len(entries))
	for _, entry := range entries {
		re, err := compilePrefix(entry)
		if err != nil {
			continue
		}
		compiled = append(compiled, re)
	}
	return compiled
}

// compilePrefix builds the prefix matcher for one plan entry. Placeholders
// are translated to converter classes and the entry canonicalized to a
// leading slash. The compiled form is anchored at position 0 but not at the
// end.
func compilePrefix(entry string) (*regexp.Regexp, error) {
	expr := translatePlaceholders(strings.TrimPrefix(entry, "^"))
	expr = "/" + strings.TrimLeft(expr, "/")
	return regexp.Compile("^(?:" + expr + ")")
}

// translatePlaceholders rewrites <converter:name> placeholders to the
// converter's character class. Placeholders without a converter, and ones
// naming a custom converter, fall back to the str class.
func translatePlaceholders(expr string) string {
	return placeholderPattern.ReplaceAllStringFunc(expr, func(placeholder string) string {
		inner := strings.Trim(placeholder, "<>")
		converter, _, found := strings.Cut(inner, ":")
		if !found {
			converter = "str"
		}
		if class, ok := converterClasses[converter]; ok {
			return class
		}
		return converterClasses["str"]
	})
}

func anyPrefixMatch(compiled []*regexp.Regexp, path string) bool {
	for _, re := range compiled {
		if re.MatchString(path) {
			return true
		}
	}
	return false
}
