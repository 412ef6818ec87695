// Package pipeline drives validation of fetched pages.
//
// A Runner takes one page through the full validation sequence: the
// content-type gate, every configured validator in order, flattening, URL
// stamping and the category-checked merge into a single ValidationResult.
//
// Design decision: We separate the per-page Runner from the Batch that
// fans out over URLs because:
//  1. It keeps the Runner focused on single-page execution
//  2. It allows different batch strategies (fail fast, continue on error)
//  3. It provides cleaner separation of concerns
//
// Batch processing uses errgroup with a concurrency limit; per-URL
// failures are exposed in each PageResult rather than aborting the whole
// run, except for category schema violations, which always propagate.
package pipeline
