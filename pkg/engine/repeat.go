package engine

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/expr"
)

// forRe is the fixed repeat grammar: "<identifier> in <expression>".
var forRe = regexp.MustCompile(`^\s*([A-Za-z_][A-Za-z0-9_]*)\s+in\s+(.+?)\s*$`)

// parseFor splits a repeat directive value into its loop variable and list
// expression.
func parseFor(src string) (ident, listExpr string, ok bool) {
	groups := forRe.FindStringSubmatch(src)
	if groups == nil {
		return "", "", false
	}
	return groups[1], groups[2], true
}

// expandRepeats runs the repeat pass over the elements present at scan
// time. Expansion happens exactly once: the directive-bearing element is
// detached and discarded, so no later notification round can re-run it —
// list growth after the first pass is not reflected.
func (e *Engine) expandRepeats(root *html.Node, sc *expr.Scope, m *Mount) {
	for _, n := range dom.FindAllWithAttr(root, AttrFor) {
		// Repeats nested inside an earlier template were detached along
		// with it; the recursive per-clone pass owns those.
		if !dom.Attached(n, root) {
			continue
		}
		e.expandRepeat(n, sc, m)
	}
}

func (e *Engine) expandRepeat(tpl *html.Node, sc *expr.Scope, m *Mount) {
	src, _ := dom.Attr(tpl, AttrFor)
	ident, listExpr, ok := parseFor(src)
	if !ok {
		// Malformed grammar: skip the directive, leave the element as-is.
		e.logger.Debug("skipping malformed repeat directive", "value", src)
		return
	}

	parent := tpl.Parent
	dom.RemoveAttr(tpl, AttrFor)
	dom.Detach(tpl)

	// A non-list result is treated as an empty list: zero clones.
	list, _ := e.ev.Eval(listExpr, sc).([]any)
	for _, item := range list {
		clone := dom.Clone(tpl)
		e.substituteLoopVar(clone, ident, item)
		parent.AppendChild(clone)
		e.firstPass(clone, sc.Push(expr.ItemFrame{Name: ident, Value: item}), m)
	}
}

// substituteLoopVar splices the loop variable's evaluated values into a
// clone as literal expression text. Directive attributes get the full
// rewrite so click and model bindings still evaluate after the transient
// iteration frame is gone; everything else is rewritten only inside
// placeholder spans, where expression syntax lives.
func (e *Engine) substituteLoopVar(clone *html.Node, ident string, item any) {
	itemScope := expr.NewScope(expr.ItemFrame{Name: ident, Value: item})
	resolve := func(path string) (string, bool) {
		return expr.Literalize(e.ev.Eval(path, itemScope))
	}
	dom.Walk(clone, func(n *html.Node) bool {
		switch n.Type {
		case html.TextNode:
			n.Data = replaceInMustaches(n.Data, ident, resolve)
		case html.ElementNode:
			for i := range n.Attr {
				switch n.Attr[i].Key {
				case AttrIf, AttrFor, AttrModel, AttrClick:
					n.Attr[i].Val = replacePaths(n.Attr[i].Val, ident, resolve)
				default:
					n.Attr[i].Val = replaceInMustaches(n.Attr[i].Val, ident, resolve)
				}
			}
		}
		return true
	})
}

// replaceInMustaches applies replacePaths to the inside of every
// {{ ... }} span in s, leaving surrounding prose alone.
func replaceInMustaches(s, ident string, resolve func(string) (string, bool)) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	return mustacheRe.ReplaceAllStringFunc(s, func(match string) string {
		inner := match[2 : len(match)-2]
		return "{{" + replacePaths(inner, ident, resolve) + "}}"
	})
}

// replacePaths rewrites every occurrence of ident — and any trailing
// property or numeric index segments — with the literal text produced by
// resolve. Occurrences embedded in longer identifiers are left alone, as
// are paths resolve cannot literalize (lists, objects).
func replacePaths(s, ident string, resolve func(string) (string, bool)) string {
	var sb strings.Builder
	i := 0
	for i < len(s) {
		j := findIdent(s, ident, i)
		if j < 0 {
			sb.WriteString(s[i:])
			break
		}
		sb.WriteString(s[i:j])
		end := extendPath(s, j+len(ident))
		path := s[j:end]
		if lit, ok := resolve(path); ok {
			sb.WriteString(lit)
		} else {
			sb.WriteString(path)
		}
		i = end
	}
	return sb.String()
}

// findIdent locates the next whole-word occurrence of ident at or after
// from, or -1.
func findIdent(s, ident string, from int) int {
	for {
		k := strings.Index(s[from:], ident)
		if k < 0 {
			return -1
		}
		j := from + k
		before := j == 0 || !isIdentByte(s[j-1])
		afterIdx := j + len(ident)
		after := afterIdx >= len(s) || !isIdentByte(s[afterIdx])
		if before && after {
			return j
		}
		from = j + len(ident)
	}
}

// extendPath consumes ".name" and "[123]" segments starting at i.
func extendPath(s string, i int) int {
	for i < len(s) {
		switch s[i] {
		case '.':
			j := i + 1
			if j >= len(s) || !isIdentStartByte(s[j]) {
				return i
			}
			for j < len(s) && isIdentByte(s[j]) {
				j++
			}
			i = j
		case '[':
			j := i + 1
			for j < len(s) && s[j] >= '0' && s[j] <= '9' {
				j++
			}
			if j == i+1 || j >= len(s) || s[j] != ']' {
				return i
			}
			i = j + 1
		default:
			return i
		}
	}
	return i
}

func isIdentByte(c byte) bool {
	return c == '_' || c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentStartByte(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}
