package model

import "testing"

// TestPageIsHTML tests the media type gate used by the pipeline.
func TestPageIsHTML(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name        string
		contentType string
		expected    bool
	}{
		{"plain html", "text/html", true},
		{"html with charset", "text/html; charset=utf-8", true},
		{"xhtml", "application/xhtml+xml", true},
		{"uppercase", "Text/HTML", true},
		{"json", "application/json", false},
		{"plain text", "text/plain", false},
		{"css", "text/css", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			page := &Page{ContentType: tc.contentType}
			if page.IsHTML() != tc.expected {
				t.Errorf("IsHTML() with %q = %v, want %v", tc.contentType, page.IsHTML(), tc.expected)
			}
		})
	}
}

// TestPageOK tests the 2xx status check.
func TestPageOK(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		status   int
		expected bool
	}{
		{200, true},
		{204, true},
		{299, true},
		{199, false},
		{301, false},
		{404, false},
		{500, false},
	}

	for _, tc := range testCases {
		page := &Page{StatusCode: tc.status}
		if page.OK() != tc.expected {
			t.Errorf("OK() with status %d = %v, want %v", tc.status, page.OK(), tc.expected)
		}
	}
}
