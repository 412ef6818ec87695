package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/digehode/wcag-zoo-runner/internal/model"
	"github.com/digehode/wcag-zoo-runner/internal/wcag"
)

// Runner executes the validation sequence for a single page.
// It holds only immutable configuration, so one Runner is safe to share
// across concurrent page tasks; all per-page state lives in RunPage.
type Runner struct {
	// factories create a fresh validator per page, so validator state
	// never leaks between pages.
	factories []wcag.Factory

	// opts are handed to every factory: static path and conformance level.
	opts wcag.Options

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// RunnerOption configures a Runner.
type RunnerOption func(*Runner)

// WithRunnerLogger sets a custom logger for the runner.
func WithRunnerLogger(logger *slog.Logger) RunnerOption {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithFactories replaces the default validator set. The factories run in
// the order given.
func WithFactories(factories ...wcag.Factory) RunnerOption {
	return func(r *Runner) {
		r.factories = factories
	}
}

// NewRunner creates a Runner that applies the built-in validators unless
// WithFactories overrides them.
func NewRunner(opts wcag.Options, options ...RunnerOption) *Runner {
	r := &Runner{
		opts:      opts,
		factories: wcag.DefaultFactories(),
	}

	for _, option := range options {
		option(r)
	}

	if r.logger == nil {
		r.logger = slog.Default()
	}

	return r
}

// Validators returns the names of the configured validators in run order.
func (r *Runner) Validators() []string {
	names := make([]string, len(r.factories))
	for i, factory := range r.factories {
		names[i] = factory(r.opts).Name()
	}
	return names
}

// RunPage validates one fetched page and returns the merged result.
//
// Non-HTML content short-circuits: no validator is constructed and the
// returned result has the four categories present but empty, so callers
// can treat every page uniformly. For HTML, each validator runs in order;
// its nested result is flattened, every finding is stamped with the page
// URL, and the categories are merged. A validator whose category set
// differs from the canonical four surfaces as a KeySchemaError from the
// merge, which the caller must treat as fatal.
func (r *Runner) RunPage(ctx context.Context, page *model.Page) (model.ValidationResult, error) {
	if !page.IsHTML() {
		r.logger.Info("skipping validation for non-HTML content",
			"url", page.URL,
			"content_type", page.ContentType,
		)
		return model.NewValidationResult(), nil
	}

	combined := model.NewValidationResult()

	for _, factory := range r.factories {
		// Check for cancellation between validators; the validators
		// themselves are CPU-bound and short.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		validator := factory(r.opts)

		nested, err := validator.ValidateDocument(page.Body)
		if err != nil {
			return nil, fmt.Errorf("validator %s: %w", validator.Name(), err)
		}

		flat := nested.Flatten()
		for category := range flat {
			findings := flat[category]
			for i := range findings {
				findings[i].URL = page.URL
			}
		}

		merged, err := combined.Combine(flat)
		if err != nil {
			return nil, fmt.Errorf("validator %s: %w", validator.Name(), err)
		}
		combined = merged

		r.logger.Debug("validator finished",
			"validator", validator.Name(),
			"url", page.URL,
			"failures", len(flat[model.CategoryFailures]),
			"warnings", len(flat[model.CategoryWarnings]),
		)
	}

	return combined, nil
}
