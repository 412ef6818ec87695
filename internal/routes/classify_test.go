package routes

import (
	"testing"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// TestClassify tests the partitioning rules and their ordering guarantees.
func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("partitions the example table", func(t *testing.T) {
		t.Parallel()

		table := []model.Route{
			{Pattern: "/"},
			{Pattern: "/admin/login"},
			{Pattern: "/products/<int:id>"},
		}

		plan := Classify(table)

		if len(plan.Include) != 1 || plan.Include[0] != "/" {
			t.Errorf("include = %v, want [/]", plan.Include)
		}
		if len(plan.Exclude) != 1 || plan.Exclude[0] != "/admin/login" {
			t.Errorf("exclude = %v, want [/admin/login]", plan.Exclude)
		}
		if len(plan.Complex) != 1 || plan.Complex[0] != "/products/<int:id>" {
			t.Errorf("complex = %v, want [/products/<int:id>]", plan.Complex)
		}
	})

	t.Run("buckets are disjoint and union the deduplicated input", func(t *testing.T) {
		t.Parallel()

		table := []model.Route{
			{Pattern: ""},
			{Pattern: "about/"},
			{Pattern: "about/"},
			{Pattern: "admin/"},
			{Pattern: "static/<path:p>"},
			{Pattern: "media/uploads/"},
			{Pattern: "products/<int:id>/detail"},
			{Pattern: "__debug__/render/"},
			{Pattern: "contact/"},
		}

		plan := Classify(table)

		unique := make(map[string]struct{})
		for _, route := range table {
			unique[route.Pattern] = struct{}{}
		}
		if plan.Size() != len(unique) {
			t.Errorf("bucket union has %d entries, want %d", plan.Size(), len(unique))
		}

		membership := make(map[string]int)
		for _, buckets := range [][]string{plan.Include, plan.Exclude, plan.Complex} {
			for _, pattern := range buckets {
				membership[pattern]++
			}
		}
		for pattern, count := range membership {
			if count != 1 {
				t.Errorf("pattern %q appears in %d buckets", pattern, count)
			}
		}
		for pattern := range unique {
			if membership[pattern] != 1 {
				t.Errorf("pattern %q missing from all buckets", pattern)
			}
		}
	})

	t.Run("exclusion prefix wins over placeholder", func(t *testing.T) {
		t.Parallel()

		plan := Classify([]model.Route{{Pattern: "static/<path:p>"}})
		if len(plan.Exclude) != 1 {
			t.Fatalf("exclude = %v, want the static mount", plan.Exclude)
		}
		if len(plan.Complex) != 0 {
			t.Errorf("complex = %v, want empty", plan.Complex)
		}
	})

	t.Run("keeps first-seen order inside buckets", func(t *testing.T) {
		t.Parallel()

		table := []model.Route{
			{Pattern: "contact/"},
			{Pattern: "about/"},
			{Pattern: "help/"},
		}

		plan := Classify(table)
		want := []string{"contact/", "about/", "help/"}
		for i, pattern := range want {
			if plan.Include[i] != pattern {
				t.Errorf("include[%d] = %q, want %q", i, plan.Include[i], pattern)
			}
		}
	})

	t.Run("all exclusion prefixes recognized", func(t *testing.T) {
		t.Parallel()

		testCases := []string{"admin/", "media/img.png", "static/app.css", "__debug__/"}
		for _, pattern := range testCases {
			plan := Classify([]model.Route{{Pattern: pattern}})
			if len(plan.Exclude) != 1 {
				t.Errorf("pattern %q not excluded", pattern)
			}
		}
	})
}

// TestSanitise tests the stripping of server-side regex anchors.
func TestSanitise(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		pattern  string
		expected string
	}{
		{"plain path untouched", "about/", "about/"},
		{"end anchor stripped", `robots\.txt\Z`, "robots.txt"},
		{"escaped dot unescaped", `sitemap\.xml`, "sitemap.xml"},
		{"both artifacts", `feeds/rss\.xml\Z`, "feeds/rss.xml"},
		{"empty root", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if got := Sanitise(tc.pattern); got != tc.expected {
				t.Errorf("Sanitise(%q) = %q, want %q", tc.pattern, got, tc.expected)
			}
		})
	}
}
