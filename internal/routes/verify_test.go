package routes

import (
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// TestVerify tests the coverage matching precedence.
func TestVerify(t *testing.T) {
	t.Parallel()

	t.Run("literal include covers exactly", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Include: []string{"/about/"}}
		gaps := Verify(plan, []model.Route{{Pattern: "about/"}})
		if len(gaps) != 0 {
			t.Errorf("expected no gaps, got %v", gaps)
		}
	})

	t.Run("uncovered route reports a gap", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Include: []string{}, Exclude: []string{"^/admin"}}
		gaps := Verify(plan, []model.Route{{Pattern: "/products/1/detail"}})

		if len(gaps) != 1 {
			t.Fatalf("expected 1 gap, got %d", len(gaps))
		}
		if gaps[0].Route != "/products/1/detail" {
			t.Errorf("gap route = %q, want /products/1/detail", gaps[0].Route)
		}
	})

	t.Run("parameterized include entry covers concrete paths", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Include: []string{"/products/<int:id>/detail"}}
		gaps := Verify(plan, []model.Route{{Pattern: "/products/1/detail"}})
		if len(gaps) != 0 {
			t.Errorf("expected no gaps, got %v", gaps)
		}

		// Non-numeric value must not match the int converter.
		gaps = Verify(plan, []model.Route{{Pattern: "/products/abc/detail"}})
		if len(gaps) != 1 {
			t.Errorf("expected a gap for a non-numeric id, got %v", gaps)
		}
	})

	t.Run("exclude regex covers admin routes", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Exclude: []string{"^/admin"}}
		gaps := Verify(plan, []model.Route{
			{Pattern: "admin/login"},
			{Pattern: "admin/logout"},
		})
		if len(gaps) != 0 {
			t.Errorf("expected no gaps, got %v", gaps)
		}
	})

	t.Run("invalid exclude regex is skipped not fatal", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Exclude: []string{"([unclosed", "^/admin"}}
		gaps := Verify(plan, []model.Route{{Pattern: "admin/login"}})
		if len(gaps) != 0 {
			t.Errorf("valid entry after an invalid one should still cover, got %v", gaps)
		}
	})

	t.Run("include regex prefix matches without full match", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{Include: []string{"/products/"}}
		gaps := Verify(plan, []model.Route{{Pattern: "products/on-sale/today"}})
		if len(gaps) != 0 {
			t.Errorf("prefix entry should cover nested route, got %v", gaps)
		}
	})

	t.Run("duplicate live routes report one gap", func(t *testing.T) {
		t.Parallel()

		plan := model.URLPlan{}
		gaps := Verify(plan, []model.Route{
			{Pattern: "orphan/"},
			{Pattern: "orphan/"},
		})
		if len(gaps) != 1 {
			t.Errorf("expected 1 gap for duplicate routes, got %d", len(gaps))
		}
	})

	t.Run("generated plan covers its own table", func(t *testing.T) {
		t.Parallel()

		table := []model.Route{
			{Pattern: ""},
			{Pattern: "about/"},
			{Pattern: "admin/login/"},
			{Pattern: "products/<int:id>/"},
			{Pattern: "static/<path:p>"},
		}

		plan := Classify(table)
		gaps := Verify(plan, table)
		if len(gaps) != 0 {
			t.Errorf("generated plan left gaps: %v", gaps)
		}
	})

	t.Run("example table end to end", func(t *testing.T) {
		t.Parallel()

		table := []model.Route{
			{Pattern: "/"},
			{Pattern: "/admin/login"},
			{Pattern: "/products/<int:id>"},
		}

		plan := Classify(table)
		gaps := Verify(plan, table)
		if len(gaps) != 0 {
			t.Errorf("expected zero gaps, got %v", gaps)
		}
	})
}

// TestCanonicalPath tests the leading slash normalization.
func TestCanonicalPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		pattern  string
		expected string
	}{
		{"", "/"},
		{"/", "/"},
		{"about/", "/about/"},
		{"/about/", "/about/"},
		{"//double", "/double"},
	}

	for _, tc := range testCases {
		if got := CanonicalPath(tc.pattern); got != tc.expected {
			t.Errorf("CanonicalPath(%q) = %q, want %q", tc.pattern, got, tc.expected)
		}
	}
}

// TestTranslatePlaceholders tests converter class rewriting.
func TestTranslatePlaceholders(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		entry    string
		expected string
	}{
		{"int converter", "/products/<int:id>/", "/products/[0-9]+/"},
		{"slug converter", "/posts/<slug:title>/", "/posts/[-a-zA-Z0-9_]+/"},
		{"bare placeholder defaults to str", "/users/<name>/", "/users/[^/]+/"},
		{"custom converter defaults to str", "/x/<hex:v>/", "/x/[^/]+/"},
		{"no placeholder untouched", "/plain/", "/plain/"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := translatePlaceholders(tc.entry); got != tc.expected {
				t.Errorf("translatePlaceholders(%q) = %q, want %q", tc.entry, got, tc.expected)
			}
		})
	}
}
