package wcag

import (
	"fmt"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Text alternative checks map to guideline 1.1.1 with one technique per
// element kind.
const (
	altGuideline = "1.1.1 Non-text Content"

	techniqueImgAlt   = "H37"
	techniqueAreaAlt  = "H24"
	techniqueInputAlt = "H36"
)

// Anteater checks that non-text content carries a text alternative: img
// elements, image map areas and image inputs all need an alt attribute.
type Anteater struct {
	opts Options
}

// NewAnteater creates a text alternative validator.
func NewAnteater(opts Options) *Anteater {
	return &Anteater{opts: opts}
}

// Name returns the validator name.
func (a *Anteater) Name() string { return "anteater" }

// ValidateDocument files one finding per image-like element. A missing alt
// attribute is a failure. An empty alt is a success on elements marked
// presentational and a warning otherwise, since an empty alternative is
// only correct for decorative images. Hidden elements are skipped.
func (a *Anteater) ValidateDocument(content []byte) (Result, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	result := NewResult()

	for _, el := range doc.elements("img", "area", "input") {
		technique := techniqueImgAlt
		switch el.node.Data {
		case "area":
			technique = techniqueAreaAlt
		case "input":
			if kind, _ := attr(el.node, "type"); kind != "image" {
				continue
			}
			technique = techniqueInputAlt
		}

		if isHidden(el.node) {
			result.Add(model.CategorySkipped, altGuideline, technique,
				newFinding(el, fmt.Sprintf("%s is hidden from assistive technology", el.node.Data)))
			continue
		}

		alt, ok := attr(el.node, "alt")
		role, _ := attr(el.node, "role")

		switch {
		case !ok:
			finding := newFinding(el, fmt.Sprintf("%s has no alt attribute", el.node.Data))
			if src, hasSrc := attr(el.node, "src"); hasSrc {
				finding.Extra = map[string]string{"src": src}
			}
			result.Add(model.CategoryFailures, altGuideline, technique, finding)
		case alt == "" && (role == "presentation" || role == "none"):
			result.Add(model.CategorySuccess, altGuideline, technique,
				newFinding(el, fmt.Sprintf("%s is marked presentational", el.node.Data)))
		case alt == "":
			result.Add(model.CategoryWarnings, altGuideline, technique,
				newFinding(el, fmt.Sprintf("%s has an empty alt attribute but is not marked presentational", el.node.Data)))
		default:
			result.Add(model.CategorySuccess, altGuideline, technique,
				newFinding(el, fmt.Sprintf("%s has a text alternative", el.node.Data)))
		}
	}
	return result, nil
}
