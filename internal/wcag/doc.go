// Package wcag provides the accessibility validators.
//
// # Design Philosophy
//
// The package follows a modular validator pattern where each check family is
// implemented as a separate type, named after the wcag-zoo animals whose
// checks they reproduce. This design was chosen because:
//  1. Each check family has unique logic and data requirements
//  2. Enables selective runs based on configuration
//  3. Makes it easy to add new checks without modifying existing code
//  4. Simplifies testing of individual validators
//
// # Validators
//
//   - Tarsier: heading hierarchy (1.3.1, G141)
//   - Anteater: text alternatives for images (1.1.1, H37/H24/H36)
//   - Ayeaye: accesskey presence and uniqueness (2.1.1)
//   - Molerat: text colour contrast (1.4.3/1.4.6, G18/G17)
//
// Every validator is constructed with the same Options pair: the static
// asset path (so stylesheets can be resolved on disk) and the conformance
// level (AA or AAA), passed through unchanged from the command line.
//
// # Result Shape
//
// A validator returns a Result: category -> guideline -> technique ->
// findings, the four categories being success, failures, warnings and
// skipped. Only the category level carries meaning downstream; the pipeline
// flattens the inner grouping away.
package wcag
