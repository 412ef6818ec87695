// Package model defines the core data structures used throughout
// wcag-zoo-runner.
//
// This package contains the following main types:
//   - Route: one entry of the target application's routing table
//   - URLPlan: the include/exclude/complex classification of routes
//   - Finding: one structured accessibility observation from a validator
//   - ValidationResult: one page's findings bucketed by category
//   - AuditReport: the aggregate outcome of a whole run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (routes, pipeline, report, database) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for report output and
// database storage.
package model
