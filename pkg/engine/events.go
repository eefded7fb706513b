package engine

import (
	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/expr"
)

// FireClick dispatches a click on a bound element: the statement expression
// is evaluated with the store and data in scope plus an implicit event
// object, then one notification round runs. Evaluation failures are logged
// and swallowed. Returns false when the element carries no click binding.
func (e *Engine) FireClick(n *html.Node) bool {
	src, ok := e.clicks[n]
	if !ok {
		return false
	}
	sc := e.Scope().Push(expr.ItemFrame{
		Name:  "event",
		Value: map[string]any{"type": "click"},
	})
	e.ev.Exec(src, sc)
	e.store.Notify()
	return true
}

// SetInput dispatches a user edit on a model-bound control: the displayed
// value is updated, the bound path is assigned the new value, and one
// notification round runs. Returns false when the element carries no model
// binding.
func (e *Engine) SetInput(n *html.Node, value string) bool {
	path, ok := e.models[n]
	if !ok {
		return false
	}
	dom.SetAttr(n, "value", value)
	// Best-effort: a failed assignment still triggers the round.
	_ = e.ev.Assign(path, value, e.Scope())
	e.store.Notify()
	return true
}

// FireClickID dispatches a click by dispatch id.
func (e *Engine) FireClickID(id string) bool {
	n, ok := e.ByID(id)
	if !ok {
		return false
	}
	return e.FireClick(n)
}

// SetInputID dispatches a user edit by dispatch id.
func (e *Engine) SetInputID(id, value string) bool {
	n, ok := e.ByID(id)
	if !ok {
		return false
	}
	return e.SetInput(n, value)
}
