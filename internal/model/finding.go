package model

// Finding is one structured accessibility observation produced by a
// validator. The validator fills everything except URL, which the pipeline
// stamps with the page being validated.
type Finding struct {
	// Guideline is the WCAG guideline the finding relates to,
	// e.g. "1.1.1 Non-text Content".
	Guideline string `json:"guideline"`

	// Technique is the WCAG technique the check applied, e.g. "H37".
	Technique string `json:"technique"`

	// XPath locates the offending element inside the document.
	XPath string `json:"xpath"`

	// Classes holds the element's CSS classes, if any.
	Classes []string `json:"classes,omitempty"`

	// ID is the element's id attribute, if any.
	ID string `json:"id,omitempty"`

	// Message describes the finding in human-readable form.
	Message string `json:"message"`

	// URL is the page the finding belongs to. Stamped by the pipeline,
	// never by the validator.
	URL string `json:"url"`

	// Extra carries validator-specific fields that do not fit the common
	// shape, such as Molerat's computed contrast ratio.
	Extra map[string]string `json:"extra,omitempty"`
}
