package model

import (
	"net/http"
	"strings"
	"time"
)

// Page is one fetched page: the raw response body plus the metadata the
// pipeline needs to decide whether and how to validate it.
//
// Design decision: we keep the body as raw bytes rather than a parsed
// document because each validator parses the document itself. Validators are
// independent collaborators and must not share mutable parse trees.
type Page struct {
	// URL is the full URL the page was fetched from.
	URL string `json:"url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// ContentType is the declared media type from the Content-Type header,
	// including parameters (e.g. "text/html; charset=utf-8").
	ContentType string `json:"content_type"`

	// Headers contains the response headers.
	Headers http.Header `json:"-"`

	// Body is the raw response body, capped by the fetcher.
	Body []byte `json:"-"`

	// FetchedAt is when the fetch completed.
	FetchedAt time.Time `json:"fetched_at"`

	// Attempts is how many attempts the fetch needed. 1 means the first
	// try succeeded.
	Attempts int `json:"attempts"`
}

// IsHTML reports whether the declared media type is an HTML type. Pages that
// are not HTML are skipped by the pipeline rather than validated.
func (p *Page) IsHTML() bool {
	mediaType := strings.ToLower(p.ContentType)
	return strings.HasPrefix(mediaType, "text/html") ||
		strings.HasPrefix(mediaType, "application/xhtml+xml")
}

// OK reports whether the response status was a 2xx.
func (p *Page) OK() bool {
	return p.StatusCode >= 200 && p.StatusCode < 300
}
