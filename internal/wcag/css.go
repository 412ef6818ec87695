package wcag

import (
	"math"
	"strconv"
	"strings"

	"golang.org/x/net/html"
)

// declarations maps CSS property names to raw values within one rule.
type declarations map[string]string

// selector is the rightmost compound of a CSS selector: an optional tag
// name plus class and id requirements. Ancestor parts of descendant
// selectors are ignored; matching is on the element itself, which errs
// towards applying a rule rather than missing one.
type selector struct {
	tag     string
	id      string
	classes []string
}

// matches reports whether the element satisfies every part of the
// selector.
func (s selector) matches(n *html.Node) bool {
	if s.tag != "" && s.tag != "*" && n.Data != s.tag {
		return false
	}
	if s.id != "" && elementID(n) != s.id {
		return false
	}
	if len(s.classes) > 0 {
		have := map[string]bool{}
		for _, c := range classes(n) {
			have[c] = true
		}
		for _, c := range s.classes {
			if !have[c] {
				return false
			}
		}
	}
	return true
}

// rule is one parsed CSS rule. Order breaks specificity ties the way the
// cascade does: later rules win.
type rule struct {
	selector    selector
	specificity int
	order       int
	decls       declarations
}

// stylesheet is an ordered collection of rules, possibly merged from
// several sources.
type stylesheet struct {
	rules []rule
}

// resolve returns the winning value for prop on n. Higher specificity
// wins; at equal specificity the later rule wins.
func (s *stylesheet) resolve(n *html.Node, prop string) (string, bool) {
	best, bestOrder := -1, -1
	value := ""
	for _, r := range s.rules {
		v, ok := r.decls[prop]
		if !ok || !r.selector.matches(n) {
			continue
		}
		if r.specificity > best || (r.specificity == best && r.order >= bestOrder) {
			best, bestOrder, value = r.specificity, r.order, v
		}
	}
	return value, best >= 0
}

// parseStylesheet parses CSS text into matchable rules.
//
// Design decision: We implement a deliberately small CSS subset, type,
// class and id selectors with flat rule blocks, instead of pulling in a
// full CSS engine. Conditional at-rules are dropped wholesale because
// their applicability depends on the viewport, which a static checker does
// not have. Selectors using pseudo-classes or attribute syntax are skipped
// for the same reason: they describe states, not the document at rest.
func parseStylesheet(text string) *stylesheet {
	text = stripComments(text)
	sheet := &stylesheet{}
	order := 0

	var head strings.Builder
	i := 0
	for i < len(text) {
		switch text[i] {
		case '{':
			selText := strings.TrimSpace(head.String())
			head.Reset()
			end := matchingBrace(text, i)
			if end < 0 {
				return sheet
			}
			body := text[i+1 : end]
			i = end + 1
			if strings.HasPrefix(selText, "@") {
				continue
			}
			decls := parseDeclarations(body)
			if len(decls) == 0 {
				continue
			}
			for _, one := range strings.Split(selText, ",") {
				sel, spec, ok := parseSelector(strings.TrimSpace(one))
				if !ok {
					continue
				}
				sheet.rules = append(sheet.rules, rule{
					selector:    sel,
					specificity: spec,
					order:       order,
					decls:       decls,
				})
				order++
			}
		case ';':
			// Statement at-rules such as @import end here.
			head.Reset()
			i++
		default:
			head.WriteByte(text[i])
			i++
		}
	}
	return sheet
}

// matchingBrace returns the index of the brace closing the one at open,
// or -1 when the block never closes.
func matchingBrace(text string, open int) int {
	depth := 0
	for i := open; i < len(text); i++ {
		switch text[i] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// stripComments removes /* */ comments. An unterminated comment swallows
// the rest of the text, matching how browsers recover.
func stripComments(text string) string {
	var b strings.Builder
	for {
		start := strings.Index(text, "/*")
		if start < 0 {
			b.WriteString(text)
			return b.String()
		}
		b.WriteString(text[:start])
		end := strings.Index(text[start+2:], "*/")
		if end < 0 {
			return b.String()
		}
		text = text[start+2+end+2:]
	}
}

// parseDeclarations splits a rule body into property/value pairs,
// lowercasing properties and dropping !important markers.
func parseDeclarations(body string) declarations {
	decls := declarations{}
	for _, decl := range strings.Split(body, ";") {
		prop, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(value), "!important"))
		if prop == "" || value == "" {
			continue
		}
		decls[prop] = value
	}
	return decls
}

// parseSelector parses the rightmost compound of one selector and scores
// its specificity (id=100, class=10, tag=1). Selectors with pseudo or
// attribute parts are rejected.
func parseSelector(text string) (selector, int, bool) {
	if text == "" {
		return selector{}, 0, false
	}
	parts := strings.Fields(text)
	compound := parts[len(parts)-1]
	if strings.ContainsAny(compound, ":[>+~") {
		return selector{}, 0, false
	}

	var sel selector
	spec := 0
	for compound != "" {
		kind := byte(0)
		if compound[0] == '.' || compound[0] == '#' {
			kind = compound[0]
			compound = compound[1:]
		}
		end := strings.IndexAny(compound, ".#")
		if end < 0 {
			end = len(compound)
		}
		name := compound[:end]
		compound = compound[end:]
		if name == "" {
			return selector{}, 0, false
		}

		switch kind {
		case '.':
			sel.classes = append(sel.classes, name)
			spec += 10
		case '#':
			sel.id = name
			spec += 100
		default:
			sel.tag = strings.ToLower(name)
			if sel.tag != "*" {
				spec++
			}
		}
	}
	return sel, spec, true
}

// colour is an opaque sRGB colour.
type colour struct {
	r, g, b uint8
}

// hex renders the colour as #rrggbb.
func (c colour) hex() string {
	const digits = "0123456789abcdef"
	out := make([]byte, 7)
	out[0] = '#'
	for i, channel := range []uint8{c.r, c.g, c.b} {
		out[1+i*2] = digits[channel>>4]
		out[2+i*2] = digits[channel&0x0f]
	}
	return string(out)
}

// namedColours covers the CSS basic colour keywords plus the handful of
// extended names that show up in real stylesheets.
var namedColours = map[string]colour{
	"black":   {0x00, 0x00, 0x00},
	"silver":  {0xc0, 0xc0, 0xc0},
	"gray":    {0x80, 0x80, 0x80},
	"grey":    {0x80, 0x80, 0x80},
	"white":   {0xff, 0xff, 0xff},
	"maroon":  {0x80, 0x00, 0x00},
	"red":     {0xff, 0x00, 0x00},
	"purple":  {0x80, 0x00, 0x80},
	"fuchsia": {0xff, 0x00, 0xff},
	"green":   {0x00, 0x80, 0x00},
	"lime":    {0x00, 0xff, 0x00},
	"olive":   {0x80, 0x80, 0x00},
	"yellow":  {0xff, 0xff, 0x00},
	"navy":    {0x00, 0x00, 0x80},
	"blue":    {0x00, 0x00, 0xff},
	"teal":    {0x00, 0x80, 0x80},
	"aqua":    {0x00, 0xff, 0xff},
	"orange":  {0xff, 0xa5, 0x00},
}

// parseColour understands hex notation, rgb()/rgba() and the named
// colours above. Anything else, gradients, var() references, transparent,
// is not a resolvable single colour and returns false.
func parseColour(value string) (colour, bool) {
	value = strings.ToLower(strings.TrimSpace(value))

	if c, ok := namedColours[value]; ok {
		return c, true
	}
	if strings.HasPrefix(value, "#") {
		return parseHexColour(value[1:])
	}
	if strings.HasPrefix(value, "rgb(") || strings.HasPrefix(value, "rgba(") {
		return parseRGBColour(value)
	}
	return colour{}, false
}

// parseHexColour parses 3, 4, 6 or 8 hex digits, ignoring alpha.
func parseHexColour(hex string) (colour, bool) {
	switch len(hex) {
	case 4:
		hex = hex[:3]
	case 8:
		hex = hex[:6]
	}

	switch len(hex) {
	case 3:
		expanded := make([]byte, 6)
		for i := 0; i < 3; i++ {
			expanded[i*2] = hex[i]
			expanded[i*2+1] = hex[i]
		}
		hex = string(expanded)
	case 6:
	default:
		return colour{}, false
	}

	packed, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return colour{}, false
	}
	return colour{
		r: uint8(packed >> 16),
		g: uint8(packed >> 8),
		b: uint8(packed),
	}, true
}

// parseRGBColour parses rgb()/rgba() with comma or space separated
// channels, either integers or percentages. Alpha is ignored.
func parseRGBColour(value string) (colour, bool) {
	open := strings.Index(value, "(")
	end := strings.LastIndex(value, ")")
	if open < 0 || end <= open {
		return colour{}, false
	}
	inner := value[open+1 : end]
	inner = strings.NewReplacer(",", " ", "/", " ").Replace(inner)

	fields := strings.Fields(inner)
	if len(fields) < 3 {
		return colour{}, false
	}

	channels := make([]uint8, 3)
	for i := 0; i < 3; i++ {
		field := fields[i]
		scale := 1.0
		if strings.HasSuffix(field, "%") {
			field = strings.TrimSuffix(field, "%")
			scale = 255.0 / 100.0
		}
		v, err := strconv.ParseFloat(field, 64)
		if err != nil {
			return colour{}, false
		}
		v *= scale
		if v < 0 || v > 255 {
			return colour{}, false
		}
		channels[i] = uint8(math.Round(v))
	}
	return colour{r: channels[0], g: channels[1], b: channels[2]}, true
}

// relativeLuminance implements the WCAG sRGB luminance formula.
func relativeLuminance(c colour) float64 {
	linear := func(channel uint8) float64 {
		v := float64(channel) / 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	return 0.2126*linear(c.r) + 0.7152*linear(c.g) + 0.0722*linear(c.b)
}

// contrastRatio returns the WCAG contrast ratio between two colours,
// always at least 1.
func contrastRatio(a, b colour) float64 {
	la, lb := relativeLuminance(a), relativeLuminance(b)
	if la < lb {
		la, lb = lb, la
	}
	return (la + 0.05) / (lb + 0.05)
}

// fontSizePx converts a font-size value to CSS pixels. Relative units are
// resolved against the 16px browser default.
func fontSizePx(value string) (float64, bool) {
	value = strings.ToLower(strings.TrimSpace(value))

	units := []struct {
		suffix string
		factor float64
	}{
		{"px", 1},
		{"pt", 96.0 / 72.0},
		{"rem", 16},
		{"em", 16},
		{"%", 0.16},
	}
	for _, unit := range units {
		if !strings.HasSuffix(value, unit.suffix) {
			continue
		}
		number := strings.TrimSpace(strings.TrimSuffix(value, unit.suffix))
		v, err := strconv.ParseFloat(number, 64)
		if err != nil {
			return 0, false
		}
		return v * unit.factor, true
	}
	return 0, false
}
