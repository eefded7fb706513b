package engine

import (
	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/expr"
)

// Mount is one processed root and the bookkeeping its render callback
// needs: which conditionals survived the first pass and which controls are
// model-bound.
type Mount struct {
	engine *Engine

	// Root is the element the mount renders into.
	Root *html.Node

	conds  []condBinding
	models []*html.Node
}

// condBinding is a conditional element that evaluated truthy on first
// processing. Its source expression is kept because the attribute itself
// was stripped.
type condBinding struct {
	node *html.Node
	src  string
}

// Mount runs the first processing pass over root and registers the mount's
// render callback with the store. Every directive inside root is honored;
// later notification rounds re-run only interpolation, conditional
// re-checks, and model re-syncs over the same root.
//
// The subscription is never removed, even if root is later detached: a
// stale mount's callback degrades to a no-op walk over an orphaned tree.
func (e *Engine) Mount(root *html.Node) *Mount {
	m := &Mount{engine: e, Root: root}
	e.firstPass(root, e.Scope(), m)
	e.store.Subscribe(m.render)
	return m
}

// firstPass executes the five passes in their fixed order over root.
// Repeat expansion recurses back into firstPass for each clone, so nested
// directives inside repeated bodies are honored without re-scanning the
// outer root.
func (e *Engine) firstPass(root *html.Node, sc *expr.Scope, m *Mount) {
	e.expandRepeats(root, sc, m)
	e.pruneConditionals(root, sc, m)
	e.attachModels(root, sc, m)
	e.attachClicks(root)
	e.interpolate(root, sc)
}

// render is the subscribed callback: the restricted re-render pass.
func (m *Mount) render() {
	e := m.engine
	sc := e.Scope()
	e.interpolate(m.Root, sc)
	m.recheckConditionals(sc)
	m.resyncModels(sc)
}

// pruneConditionals runs the conditional pass: falsy elements are detached
// and never retained; truthy ones have the attribute stripped and are
// remembered for re-checks.
func (e *Engine) pruneConditionals(root *html.Node, sc *expr.Scope, m *Mount) {
	for _, n := range dom.FindAllWithAttr(root, AttrIf) {
		// A snapshot entry may sit inside a subtree an earlier entry
		// already detached.
		if !dom.Attached(n, root) {
			continue
		}
		src, _ := dom.Attr(n, AttrIf)
		if !e.ev.EvalBool(src, sc) {
			dom.Detach(n)
			continue
		}
		dom.RemoveAttr(n, AttrIf)
		m.conds = append(m.conds, condBinding{node: n, src: src})
	}
}

// recheckConditionals re-evaluates the surviving conditionals. An element
// whose condition has become falsy is detached now; a detached element has
// no parent and is never reconsidered, even if its condition flips back.
func (m *Mount) recheckConditionals(sc *expr.Scope) {
	for _, c := range m.conds {
		if c.node.Parent == nil {
			continue
		}
		if !m.engine.ev.EvalBool(c.src, sc) {
			dom.Detach(c.node)
		}
	}
}

// attachModels runs the two-way binding pass.
func (e *Engine) attachModels(root *html.Node, sc *expr.Scope, m *Mount) {
	for _, n := range dom.FindAllWithAttr(root, AttrModel) {
		if !dom.Attached(n, root) {
			continue
		}
		path, _ := dom.Attr(n, AttrModel)
		dom.RemoveAttr(n, AttrModel)
		dom.SetAttr(n, "value", e.ev.EvalString(path, sc))
		if _, bound := e.models[n]; !bound {
			e.models[n] = path
			e.assignID(n)
		}
		m.models = append(m.models, n)
	}
}

// resyncModels pushes the current bound values back into the controls,
// keeping them in sync with programmatic state changes. No listener is
// re-attached.
func (m *Mount) resyncModels(sc *expr.Scope) {
	for _, n := range m.models {
		path := m.engine.models[n]
		dom.SetAttr(n, "value", m.engine.ev.EvalString(path, sc))
	}
}

// attachClicks runs the click binding pass. The statement expression is
// kept verbatim and evaluated on every dispatch.
func (e *Engine) attachClicks(root *html.Node) {
	for _, n := range dom.FindAllWithAttr(root, AttrClick) {
		if !dom.Attached(n, root) {
			continue
		}
		src, _ := dom.Attr(n, AttrClick)
		dom.RemoveAttr(n, AttrClick)
		if _, bound := e.clicks[n]; !bound {
			e.clicks[n] = src
			e.assignID(n)
		}
	}
}
