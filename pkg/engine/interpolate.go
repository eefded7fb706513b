package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/expr"
)

// mustacheRe matches one {{ expr }} placeholder, non-greedy to the nearest
// closing marker.
var mustacheRe = regexp.MustCompile(`(?s)\{\{(.*?)\}\}`)

// interpolate substitutes every placeholder in text and attribute values
// under root. Substitution is destructive: the markers are gone afterwards,
// so re-render rounds only re-process placeholders that still exist in the
// already-substituted text. A value that changes after its placeholder was
// consumed stays frozen at the last rendered value.
func (e *Engine) interpolate(root *html.Node, sc *expr.Scope) {
	dom.Walk(root, func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			n.Data = e.interpolateString(n.Data, sc)
		case html.ElementNode:
			for i := range n.Attr {
				n.Attr[i].Val = e.interpolateString(n.Attr[i].Val, sc)
			}
		}
		return true
	})
}

// interpolateString replaces every placeholder in s with the stringified
// evaluation result, the empty string for nil.
func (e *Engine) interpolateString(s string, sc *expr.Scope) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return mustacheRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := strings.TrimSpace(match[2 : len(match)-2])
		return expr.Stringify(e.ev.Eval(inner, sc))
	})
}
