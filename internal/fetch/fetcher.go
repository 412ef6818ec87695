package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Default retry policy.
const (
	// DefaultRetries is the number of additional attempts after the first
	// failure, 4 attempts in total.
	DefaultRetries = 3

	// DefaultBaseDelay is the wait before the second attempt. The delay
	// doubles after every failed attempt: 1s, 2s, 4s.
	DefaultBaseDelay = 1 * time.Second

	// DefaultMaxBodySize limits the response body size to read. 5MB is
	// sufficient for any sane HTML page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultUserAgent identifies the runner in the dev server's logs.
	DefaultUserAgent = "wcag-zoo-runner/1.0"
)

// Fetcher performs HTTP GETs with bounded retry and exponential backoff.
// A Fetcher is safe for concurrent use; all state is set at construction.
type Fetcher struct {
	client      *http.Client
	retries     int
	baseDelay   time.Duration
	maxBodySize int64
	userAgent   string
	logger      *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithRetries sets the number of additional attempts after a failure.
func WithRetries(n int) Option {
	return func(f *Fetcher) {
		f.retries = n
	}
}

// WithBaseDelay sets the wait before the second attempt. Each later wait
// doubles the previous one.
func WithBaseDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.baseDelay = d
	}
}

// WithMaxBodySize caps the response body size in bytes.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// WithUserAgent sets the User-Agent header for page fetches.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithLogger sets the logger for fetch diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		f.logger = logger
	}
}

// NewFetcher creates a Fetcher using the given HTTP client. The caller owns
// the client and its timeout; the fetcher owns the retry policy.
func NewFetcher(client *http.Client, opts ...Option) *Fetcher {
	f := &Fetcher{
		client:      client,
		retries:     DefaultRetries,
		baseDelay:   DefaultBaseDelay,
		maxBodySize: DefaultMaxBodySize,
		userAgent:   DefaultUserAgent,
	}

	for _, opt := range opts {
		opt(f)
	}

	if f.logger == nil {
		f.logger = slog.Default()
	}

	return f
}

// Fetch performs a GET against url. Transport-level failures (connection
// refused, timeout) are retried up to the configured budget with the delay
// doubling after every failure. Any response, whatever its status code,
// ends the retry loop: an error status is the application answering, not
// the server still booting. After the budget is exhausted the last cause is
// returned inside a *FetchError.
//
// The backoff wait is a suspension point, not a busy wait; cancelling the
// context interrupts it immediately.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*model.Page, error) {
	// Build the request once up front. A malformed URL is a programming
	// error, not a transport failure, and must not burn the retry budget.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	attempts := f.retries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		page, err := f.do(req.Clone(ctx))
		if err == nil {
			page.Attempts = attempt
			return page, nil
		}
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := f.backoff(attempt)
		f.logger.Debug("fetch failed, backing off",
			"url", url,
			"attempt", attempt,
			"delay", delay,
			"error", err)

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	return nil, &FetchError{URL: url, Attempts: attempts, Err: lastErr}
}

// backoff returns the wait after the given failed attempt (1-based):
// baseDelay, then doubling after every further failure.
func (f *Fetcher) backoff(attempt int) time.Duration {
	return f.baseDelay << (attempt - 1)
}

// do performs one GET attempt and snapshots the response into a Page.
func (f *Fetcher) do(req *http.Request) (*model.Page, error) {
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close() //nolint:errcheck // Best effort cleanup

	// Read body with size limit
	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	return &model.Page{
		URL:         req.URL.String(),
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		Headers:     resp.Header,
		Body:        body,
		FetchedAt:   time.Now(),
	}, nil
}
