package model

import "testing"

// TestAuditReport tests aggregation over page results.
func TestAuditReport(t *testing.T) {
	t.Parallel()

	t.Run("new report has target and level", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://127.0.0.1:8799", "AAA")
		if report.Target != "http://127.0.0.1:8799" {
			t.Errorf("unexpected target %q", report.Target)
		}
		if report.Level != "AAA" {
			t.Errorf("unexpected level %q", report.Level)
		}
		if report.DateStarted.IsZero() {
			t.Error("DateStarted not set")
		}
	})

	t.Run("totals sum across pages", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://127.0.0.1:8799", "AA")

		first := NewValidationResult()
		first[CategoryFailures] = []Finding{{}, {}}
		first[CategorySuccess] = []Finding{{}}
		report.AddPage(PageResult{URL: "/", Result: first})

		second := NewValidationResult()
		second[CategoryFailures] = []Finding{{}}
		second[CategoryWarnings] = []Finding{{}}
		report.AddPage(PageResult{URL: "/about/", Result: second})

		totals := report.Totals()
		if totals[CategoryFailures] != 3 {
			t.Errorf("expected 3 failures, got %d", totals[CategoryFailures])
		}
		if totals[CategoryWarnings] != 1 {
			t.Errorf("expected 1 warning, got %d", totals[CategoryWarnings])
		}
		if totals[CategorySuccess] != 1 {
			t.Errorf("expected 1 success, got %d", totals[CategorySuccess])
		}
		if totals[CategorySkipped] != 0 {
			t.Errorf("expected 0 skipped, got %d", totals[CategorySkipped])
		}
	})

	t.Run("failed pages are exposed per URL", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://127.0.0.1:8799", "AAA")
		report.AddPage(PageResult{URL: "/", Result: NewValidationResult()})
		report.AddPage(PageResult{URL: "/broken/", Err: "fetching /broken/: connection refused"})

		failed := report.FailedPages()
		if len(failed) != 1 {
			t.Fatalf("expected 1 failed page, got %d", len(failed))
		}
		if failed[0].URL != "/broken/" {
			t.Errorf("unexpected failed URL %q", failed[0].URL)
		}
		if !failed[0].Failed() {
			t.Error("Failed() should be true for a page with an error")
		}
	})

	t.Run("failures collect across pages in order", func(t *testing.T) {
		t.Parallel()

		report := NewAuditReport("http://127.0.0.1:8799", "AAA")

		first := NewValidationResult()
		first[CategoryFailures] = []Finding{{URL: "/", Technique: "H37"}}
		report.AddPage(PageResult{URL: "/", Result: first})

		second := NewValidationResult()
		second[CategoryFailures] = []Finding{{URL: "/about/", Technique: "H42"}}
		report.AddPage(PageResult{URL: "/about/", Result: second})

		failures := report.Failures()
		if len(failures) != 2 {
			t.Fatalf("expected 2 failures, got %d", len(failures))
		}
		if failures[0].URL != "/" || failures[1].URL != "/about/" {
			t.Error("failures not in page order")
		}
	})
}
