package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/digehode/wcag-zoo-runner/internal/fetch"
	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Batch fans the fetch-and-validate work out over a list of URLs.
// It uses errgroup to manage goroutines and respect the concurrency limit.
type Batch struct {
	// fetcher retrieves pages from the running target.
	fetcher *fetch.Fetcher

	// runner validates each fetched page.
	runner *Runner

	// concurrency is the maximum number of URLs in flight at once.
	concurrency int

	// failFast aborts the whole batch on the first per-URL failure
	// instead of recording it and moving on.
	failFast bool

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results holds one entry per input URL, in input order.
	// Access is synchronized via mutex.
	results []model.PageResult

	// terminal remembers the first unrecoverable fetch failure so the
	// caller can fail the run even when the loop carried on.
	terminal error
	mu       sync.Mutex
}

// BatchOption configures a Batch.
type BatchOption func(*Batch)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *Batch) {
		b.logger = logger
	}
}

// WithConcurrency sets the maximum number of URLs processed at once.
// The default of 1 keeps results arriving in input order.
func WithConcurrency(n int) BatchOption {
	return func(b *Batch) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// WithFailFast aborts the batch on the first failed URL.
//
// Design decision: The default is to continue because one unreachable URL
// usually means a broken route, not a broken run; the failure is recorded
// in that URL's result and the caller still sees it in the exit status.
// Category schema violations ignore this setting and always abort.
func WithFailFast(failFast bool) BatchOption {
	return func(b *Batch) {
		b.failFast = failFast
	}
}

// NewBatch creates a Batch over the given fetcher and runner.
func NewBatch(fetcher *fetch.Fetcher, runner *Runner, opts ...BatchOption) *Batch {
	b := &Batch{
		fetcher:     fetcher,
		runner:      runner,
		concurrency: 1,
	}

	for _, opt := range opts {
		opt(b)
	}

	if b.logger == nil {
		b.logger = slog.Default()
	}

	return b
}

// Process fetches and validates every URL and returns one result per URL
// in input order.
//
// The error return is nil only when every URL was fetched and validated
// cleanly: a terminal fetch failure is reported both in its URL's result
// and through the error, even when the loop continued past it, so callers
// can finish the report and still fail the run.
func (b *Batch) Process(ctx context.Context, urls []string) ([]model.PageResult, error) {
	return b.process(ctx, urls, nil)
}

// ProcessWithCallback behaves like Process but additionally calls the
// callback as each URL completes. The callback runs on the goroutine that
// processed the URL, so it must be safe for concurrent use when the
// concurrency limit is above one.
func (b *Batch) ProcessWithCallback(
	ctx context.Context,
	urls []string,
	callback func(result model.PageResult, index int),
) ([]model.PageResult, error) {
	return b.process(ctx, urls, callback)
}

func (b *Batch) process(
	ctx context.Context,
	urls []string,
	callback func(result model.PageResult, index int),
) ([]model.PageResult, error) {
	b.logger.Info("starting batch validation",
		"total_urls", len(urls),
		"concurrency", b.concurrency,
	)

	startTime := time.Now()

	// Pre-allocate results so concurrent completion keeps input order.
	b.results = make([]model.PageResult, len(urls))
	b.terminal = nil

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(b.concurrency)

	for i, url := range urls {
		g.Go(func() error {
			// Check for cancellation before starting
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			result, err := b.processOne(ctx, url)
			b.record(i, result)
			if callback != nil {
				callback(result, i)
			}

			if err == nil {
				return nil
			}
			if ctx.Err() != nil {
				return ctx.Err()
			}

			// Schema violations are never a per-URL condition; a broken
			// validator would corrupt every page the same way.
			var schemaErr *model.KeySchemaError
			if errors.As(err, &schemaErr) {
				return err
			}

			b.noteTerminal(err)
			if b.failFast {
				return err
			}

			b.logger.Warn("continuing past failed url",
				"url", url,
				"error", err,
			)
			return nil
		})
	}

	err := g.Wait()

	b.logger.Info("batch validation complete",
		"total_urls", len(urls),
		"elapsed", time.Since(startTime),
	)

	if err != nil {
		return b.results, err
	}
	return b.results, b.firstTerminal()
}

// processOne fetches and validates a single URL. The returned result is
// always usable for reporting; the error reports the failure for abort
// and exit-status decisions.
func (b *Batch) processOne(ctx context.Context, url string) (model.PageResult, error) {
	page, err := b.fetcher.Fetch(ctx, url)
	if err != nil {
		return model.PageResult{URL: url, Err: err.Error()}, err
	}

	result, err := b.runner.RunPage(ctx, page)
	if err != nil {
		return model.PageResult{
			URL:        url,
			StatusCode: page.StatusCode,
			Err:        err.Error(),
		}, err
	}

	return model.PageResult{
		URL:        url,
		StatusCode: page.StatusCode,
		Skipped:    !page.IsHTML(),
		Result:     result,
	}, nil
}

func (b *Batch) record(index int, result model.PageResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.results[index] = result
}

func (b *Batch) noteTerminal(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.terminal == nil {
		b.terminal = err
	}
}

func (b *Batch) firstTerminal() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminal
}
