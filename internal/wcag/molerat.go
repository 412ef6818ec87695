package wcag

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// Contrast checks map to different identifiers per conformance level.
const (
	contrastGuidelineAA  = "1.4.3 Contrast (Minimum)"
	contrastGuidelineAAA = "1.4.6 Contrast (Enhanced)"

	techniqueContrastAA  = "G18"
	techniqueContrastAAA = "G17"
)

// Molerat checks the colour contrast of rendered text against the
// configured conformance level. Styles are gathered from inline style
// attributes, style blocks, and linked stylesheets read from the static
// path, then resolved per element through the ancestor chain the way the
// rendered colours would be.
type Molerat struct {
	opts Options
}

// NewMolerat creates a colour contrast validator.
func NewMolerat(opts Options) *Molerat {
	return &Molerat{opts: opts}
}

// Name returns the validator name.
func (m *Molerat) Name() string { return "molerat" }

// nonRenderedText are elements whose text content is never painted.
var nonRenderedText = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"title":    true,
}

// ValidateDocument files one finding per element with directly owned
// text: a failure when its contrast ratio falls below the level minimum,
// a success when it meets it, and a skip when the colours in play cannot
// be resolved to a single value. Stylesheets that cannot be read from the
// static path are reported as skips too, since every element they style is
// then checked against defaults.
func (m *Molerat) ValidateDocument(content []byte) (Result, error) {
	doc, err := parseDocument(content)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	guideline, technique := m.identifiers()

	sheet, unread := m.loadStyles(doc)
	for _, finding := range unread {
		result.Add(model.CategorySkipped, guideline, technique, finding)
	}

	for _, el := range doc.elements() {
		if nonRenderedText[el.node.Data] || isHidden(el.node) {
			continue
		}
		if ownText(el.node) == "" {
			continue
		}

		fg, bg, ok := m.resolveColours(result, sheet, el)
		if !ok {
			continue
		}

		large := m.isLargeText(sheet, el.node)
		required := m.required(large)
		ratio := contrastRatio(fg, bg)

		finding := newFinding(el, "")
		finding.Extra = map[string]string{
			"contrast_ratio": fmt.Sprintf("%.2f", ratio),
			"required":       fmt.Sprintf("%.1f", required),
			"foreground":     fg.hex(),
			"background":     bg.hex(),
		}

		if ratio < required {
			finding.Message = fmt.Sprintf("contrast ratio %.2f:1 is below the %s minimum of %.1f:1",
				ratio, m.level(), required)
			result.Add(model.CategoryFailures, guideline, technique, finding)
			continue
		}
		finding.Message = fmt.Sprintf("contrast ratio %.2f:1 meets the %s minimum of %.1f:1",
			ratio, m.level(), required)
		result.Add(model.CategorySuccess, guideline, technique, finding)
	}
	return result, nil
}

// resolveColours determines the effective foreground and background for an
// element, falling back to black on white where nothing is styled. An
// unparseable colour value files a skipped finding and reports false.
func (m *Molerat) resolveColours(result Result, sheet *stylesheet, el element) (colour, colour, bool) {
	guideline, technique := m.identifiers()

	fg := colour{0x00, 0x00, 0x00}
	bg := colour{0xff, 0xff, 0xff}

	if value, found := effectiveValue(sheet, el.node, "color"); found {
		parsed, ok := parseColour(value)
		if !ok {
			result.Add(model.CategorySkipped, guideline, technique,
				newFinding(el, fmt.Sprintf("text colour %q is not a resolvable colour", value)))
			return colour{}, colour{}, false
		}
		fg = parsed
	}
	if value, found := effectiveValue(sheet, el.node, "background-color"); found {
		parsed, ok := parseColour(value)
		if !ok {
			result.Add(model.CategorySkipped, guideline, technique,
				newFinding(el, fmt.Sprintf("background colour %q is not a resolvable colour", value)))
			return colour{}, colour{}, false
		}
		bg = parsed
	}
	return fg, bg, true
}

// effectiveValue resolves a property on a node, consulting the inline
// style first and the stylesheet second, then walking up the ancestor
// chain, since the rendered value is whatever the nearest styled ancestor
// set.
func effectiveValue(sheet *stylesheet, n *html.Node, prop string) (string, bool) {
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type != html.ElementNode {
			continue
		}
		if style, ok := attr(cur, "style"); ok {
			if value, ok := parseDeclarations(style)[prop]; ok {
				return value, true
			}
		}
		if value, ok := sheet.resolve(cur, prop); ok {
			return value, true
		}
	}
	return "", false
}

// isLargeText applies the WCAG large text definition: at least 24px, or at
// least 18.66px when bold.
func (m *Molerat) isLargeText(sheet *stylesheet, n *html.Node) bool {
	sizePx := 16.0
	if value, found := effectiveValue(sheet, n, "font-size"); found {
		if px, ok := fontSizePx(value); ok {
			sizePx = px
		}
	}
	if sizePx >= 24 {
		return true
	}
	return sizePx >= 18.66 && isBold(sheet, n)
}

// isBold reports whether the element renders bold, from the font-weight
// cascade or an enclosing bold tag.
func isBold(sheet *stylesheet, n *html.Node) bool {
	if value, found := effectiveValue(sheet, n, "font-weight"); found {
		switch strings.ToLower(value) {
		case "bold", "bolder":
			return true
		case "normal", "lighter":
			return false
		}
		if weight, err := strconv.Atoi(value); err == nil {
			return weight >= 700
		}
	}
	for cur := n; cur != nil; cur = cur.Parent {
		if cur.Type == html.ElementNode && (cur.Data == "b" || cur.Data == "strong") {
			return true
		}
	}
	return false
}

// level normalizes the configured level for messages, defaulting to AA.
func (m *Molerat) level() string {
	if m.opts.Level == LevelAAA {
		return LevelAAA
	}
	return LevelAA
}

// identifiers returns the guideline and technique for the configured
// level.
func (m *Molerat) identifiers() (string, string) {
	if m.opts.Level == LevelAAA {
		return contrastGuidelineAAA, techniqueContrastAAA
	}
	return contrastGuidelineAA, techniqueContrastAA
}

// required returns the minimum contrast ratio at the configured level for
// normal or large text.
func (m *Molerat) required(large bool) float64 {
	if m.opts.Level == LevelAAA {
		if large {
			return 4.5
		}
		return 7.0
	}
	if large {
		return 3.0
	}
	return 4.5
}

// loadStyles gathers the document's styles in cascade order: linked
// stylesheets and style blocks as they appear in the document. Linked
// sheets are read from the static path; ones that cannot be read come back
// as skipped findings since their rules are simply absent from the check.
func (m *Molerat) loadStyles(doc *document) (*stylesheet, []model.Finding) {
	merged := &stylesheet{}
	var unread []model.Finding

	nextOrder := 0
	appendSheet := func(parsed *stylesheet) {
		for _, r := range parsed.rules {
			r.order = nextOrder
			nextOrder++
			merged.rules = append(merged.rules, r)
		}
	}

	for _, el := range doc.elements("link", "style") {
		if el.node.Data == "style" {
			appendSheet(parseStylesheet(textContent(el.node)))
			continue
		}

		rel, _ := attr(el.node, "rel")
		if !strings.EqualFold(rel, "stylesheet") {
			continue
		}
		href, _ := attr(el.node, "href")
		if href == "" {
			continue
		}

		body, err := m.readStylesheet(href)
		if err != nil {
			finding := newFinding(el, fmt.Sprintf("stylesheet %q could not be read from the static path", href))
			finding.Extra = map[string]string{"href": href}
			unread = append(unread, finding)
			continue
		}
		appendSheet(parseStylesheet(string(body)))
	}
	return merged, unread
}

// readStylesheet maps a stylesheet href onto the static path. Absolute
// URLs keep only their path component, and a leading static/ segment is
// stripped so hrefs line up with the directory layout collectstatic
// produces.
func (m *Molerat) readStylesheet(href string) ([]byte, error) {
	if u, err := url.Parse(href); err == nil && u.Path != "" {
		href = u.Path
	}
	href = strings.TrimPrefix(href, "/")
	href = strings.TrimPrefix(href, "static/")
	return os.ReadFile(filepath.Join(m.opts.StaticPath, filepath.FromSlash(href)))
}
