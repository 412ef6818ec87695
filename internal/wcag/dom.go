package wcag

import (
	"bytes"
	"fmt"
	"strings"

	"golang.org/x/net/html"

	"github.com/digehode/wcag-zoo-runner/internal/model"
)

// document wraps a parsed HTML tree with the traversal helpers the checks
// share.
//
// Design decision: We parse with golang.org/x/net/html rather than pattern
// matching on the raw bytes because it tolerates the malformed markup real
// templates produce and gives every check the same tree to walk.
type document struct {
	root *html.Node
}

// parseDocument parses raw HTML bytes into a document.
func parseDocument(content []byte) (*document, error) {
	root, err := html.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &document{root: root}, nil
}

// element pairs a node with its position in the tree, expressed as a
// positional XPath so findings can point at the exact node.
type element struct {
	node  *html.Node
	xpath string
}

// elements returns the elements matching one of the given tag names in
// document order. With no tag names it returns every element.
func (d *document) elements(tags ...string) []element {
	wanted := make(map[string]bool, len(tags))
	for _, tag := range tags {
		wanted[tag] = true
	}

	var found []element
	var walk func(n *html.Node, base string)
	walk = func(n *html.Node, base string) {
		// Positional XPath indices count siblings of the same tag.
		position := map[string]int{}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			if child.Type != html.ElementNode {
				continue
			}
			position[child.Data]++
			xpath := fmt.Sprintf("%s/%s[%d]", base, child.Data, position[child.Data])
			if len(wanted) == 0 || wanted[child.Data] {
				found = append(found, element{node: child, xpath: xpath})
			}
			walk(child, xpath)
		}
	}
	walk(d.root, "")
	return found
}

// attr returns the value of the named attribute. The second return value
// reports presence, so an empty string value is distinguishable from a
// missing attribute.
func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// classes splits the element's class attribute into individual names.
func classes(n *html.Node) []string {
	value, ok := attr(n, "class")
	if !ok {
		return nil
	}
	return strings.Fields(value)
}

// elementID returns the element's id attribute, or empty.
func elementID(n *html.Node) string {
	value, _ := attr(n, "id")
	return value
}

// textContent concatenates every text node under n, trimmed.
func textContent(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

// ownText concatenates only the immediate text children of n, trimmed.
// Text belonging to nested elements is attributed to those elements, not
// to n.
func ownText(n *html.Node) string {
	var b strings.Builder
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		if child.Type == html.TextNode {
			b.WriteString(child.Data)
		}
	}
	return strings.TrimSpace(b.String())
}

// isHidden reports whether the element opts out of the accessibility tree
// through the hidden attribute, aria-hidden, or an inline display:none.
func isHidden(n *html.Node) bool {
	if _, ok := attr(n, "hidden"); ok {
		return true
	}
	if value, _ := attr(n, "aria-hidden"); value == "true" {
		return true
	}
	style, _ := attr(n, "style")
	return strings.Contains(strings.ReplaceAll(style, " ", ""), "display:none")
}

// newFinding builds a finding pointing at the given element. The caller
// fills in category, guideline and technique through Result.Add; the
// pipeline stamps the URL. A nil node yields a document-level finding that
// carries only the xpath and message.
func newFinding(el element, message string) model.Finding {
	finding := model.Finding{
		XPath:   el.xpath,
		Message: message,
	}
	if el.node != nil {
		finding.Classes = classes(el.node)
		finding.ID = elementID(el.node)
	}
	return finding
}
