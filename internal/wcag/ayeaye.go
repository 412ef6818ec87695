package wcag

import (
	"fmt"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Accesskey checks map to these WCAG identifiers.
const (
	accesskeyGuideline = "2.1.1 Keyboard"
	accesskeyTechnique = "G90"
)

// Ayeaye checks accesskey attributes: every key must be a single character
// and no two elements may claim the same key, since browsers resolve the
// clash by silently ignoring one of them.
type Ayeaye struct {
	opts Options
}

// NewAyeaye creates an accesskey validator.
func NewAyeaye(opts Options) *Ayeaye {
	return &Ayeaye{opts: opts}
}

// Name returns the validator name.
func (a *Ayeaye) Name() string { return "ayeaye" }

// ValidateDocument files one finding per element carrying an accesskey: a
// failure for duplicated keys, a warning for empty or multi-character
// values, a success for a well-formed unique key. Documents without any
// accesskeys produce an empty result rather than a finding; the attribute
// is optional.
func (a *Ayeaye) ValidateDocument(content []byte) (Result, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	result := NewResult()

	type keyed struct {
		el  element
		key string
	}
	var carriers []keyed
	uses := map[string]int{}

	for _, el := range doc.elements() {
		key, ok := attr(el.node, "accesskey")
		if !ok {
			continue
		}
		carriers = append(carriers, keyed{el: el, key: key})
		uses[key]++
	}

	for _, c := range carriers {
		switch {
		case uses[c.key] > 1:
			finding := newFinding(c.el, fmt.Sprintf("accesskey %q is declared on %d elements", c.key, uses[c.key]))
			finding.Extra = map[string]string{"accesskey": c.key}
			result.Add(model.CategoryFailures, accesskeyGuideline, accesskeyTechnique, finding)
		case len([]rune(c.key)) != 1:
			result.Add(model.CategoryWarnings, accesskeyGuideline, accesskeyTechnique,
				newFinding(c.el, fmt.Sprintf("accesskey %q is not a single character", c.key)))
		default:
			finding := newFinding(c.el, fmt.Sprintf("accesskey %q is unique", c.key))
			finding.Extra = map[string]string{"accesskey": c.key}
			result.Add(model.CategorySuccess, accesskeyGuideline, accesskeyTechnique, finding)
		}
	}
	return result, nil
}
