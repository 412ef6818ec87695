package wcag

import (
	"fmt"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Heading structure checks map to these WCAG identifiers.
const (
	headingGuideline = "1.3.1 Info and Relationships"
	headingTechnique = "G141"
)

// Tarsier checks the heading hierarchy of a document: headings must be
// present, start at h1, and never skip a level on the way down.
type Tarsier struct {
	opts Options
}

// NewTarsier creates a heading hierarchy validator.
func NewTarsier(opts Options) *Tarsier {
	return &Tarsier{opts: opts}
}

// Name returns the validator name.
func (t *Tarsier) Name() string { return "tarsier" }

// headingLevel maps heading tag names to their numeric level.
var headingLevel = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

// ValidateDocument walks the headings in document order and files one
// finding per heading: a failure when the heading skips a level, a warning
// when it is empty, a success otherwise. A document with no visible
// headings at all yields a single warning.
func (t *Tarsier) ValidateDocument(content []byte) (Result, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	previous := 0
	seen := 0

	for _, el := range doc.elements("h1", "h2", "h3", "h4", "h5", "h6") {
		if isHidden(el.node) {
			result.Add(model.CategorySkipped, headingGuideline, headingTechnique,
				newFinding(el, fmt.Sprintf("%s is hidden from assistive technology", el.node.Data)))
			continue
		}
		seen++
		level := headingLevel[el.node.Data]

		switch {
		case previous == 0 && level != 1:
			result.Add(model.CategoryFailures, headingGuideline, headingTechnique,
				newFinding(el, fmt.Sprintf("first heading is %s, expected h1", el.node.Data)))
		case previous > 0 && level > previous+1:
			result.Add(model.CategoryFailures, headingGuideline, headingTechnique,
				newFinding(el, fmt.Sprintf("heading skips from h%d to %s", previous, el.node.Data)))
		case textContent(el.node) == "":
			result.Add(model.CategoryWarnings, headingGuideline, headingTechnique,
				newFinding(el, fmt.Sprintf("%s has no text content", el.node.Data)))
		default:
			result.Add(model.CategorySuccess, headingGuideline, headingTechnique,
				newFinding(el, fmt.Sprintf("%s fits the heading hierarchy", el.node.Data)))
		}
		previous = level
	}

	if seen == 0 {
		result.Add(model.CategoryWarnings, headingGuideline, headingTechnique,
			newFinding(element{xpath: "/html[1]"}, "document has no headings"))
	}
	return result, nil
}
