package engine

import (
	"log/slog"
	"strconv"

	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/expr"
	"github.com/fernweh-dev/fern/pkg/store"
)

// Directive attribute names. The surface is fixed: any markup author
// writing against one implementation renders identically on another.
const (
	AttrIf    = "if"
	AttrFor   = "for"
	AttrModel = "model"
	AttrClick = "click"

	// AttrID marks elements carrying click or model bindings so external
	// dispatchers (the event endpoint, tests) can address them.
	AttrID = "data-fern-id"
)

// Engine processes directive-annotated markup trees against a store.
//
// An Engine is single-threaded by design: all passes, evaluations, and tree
// mutations happen on the caller's goroutine, and notification rounds run
// synchronously inside store writes. Callers that dispatch from concurrent
// contexts (an HTTP server) must serialize access themselves.
type Engine struct {
	store  *store.Store
	ev     *expr.Evaluator
	logger *slog.Logger

	// clicks and models hold the engine's "listeners": bindings from an
	// element to its statement or path expression. They persist for the
	// element's lifetime and are attached exactly once.
	clicks map[*html.Node]string
	models map[*html.Node]string

	ids    map[string]*html.Node
	nextID int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the engine's logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithEvaluator sets the expression evaluator. Useful for wiring a failure
// hook into metrics.
func WithEvaluator(ev *expr.Evaluator) Option {
	return func(e *Engine) {
		e.ev = ev
	}
}

// New creates an engine bound to a store.
func New(s *store.Store, opts ...Option) *Engine {
	e := &Engine{
		store:  s,
		clicks: make(map[*html.Node]string),
		models: make(map[*html.Node]string),
		ids:    make(map[string]*html.Node),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = slog.Default().With("component", "engine")
	}
	if e.ev == nil {
		e.ev = expr.New(expr.WithLogger(e.logger))
	}
	return e
}

// Store returns the store this engine renders against.
func (e *Engine) Store() *store.Store {
	return e.store
}

// Evaluator returns the engine's expression evaluator.
func (e *Engine) Evaluator() *expr.Evaluator {
	return e.ev
}

// Scope builds the evaluation scope for the current store state: store
// fields outermost, the data payload's own properties inside them. Repeat
// bodies push their iteration frame on top.
func (e *Engine) Scope() *expr.Scope {
	return expr.NewScope(storeFrame{e.store}, dataFrame{e.store})
}

// assignID tags a bound element with a stable dispatch id.
func (e *Engine) assignID(n *html.Node) {
	if _, ok := dom.Attr(n, AttrID); ok {
		return
	}
	e.nextID++
	id := "f" + strconv.Itoa(e.nextID)
	dom.SetAttr(n, AttrID, id)
	e.ids[id] = n
}

// ByID returns the bound element carrying the given dispatch id.
func (e *Engine) ByID(id string) (*html.Node, bool) {
	n, ok := e.ids[id]
	return n, ok
}

// storeFrame exposes the store's top-level fields as the outermost scope
// frame. Assignments write without notifying; the directive that caused
// the write triggers its own single round.
type storeFrame struct {
	s *store.Store
}

func (f storeFrame) Resolve(name string) (any, bool) {
	return f.s.Get(name)
}

func (f storeFrame) Set(name string, value any) {
	f.s.Put(name, value)
}

// dataFrame exposes the data payload's own properties, so templates can
// write the bare leaf name instead of the data-prefixed path.
type dataFrame struct {
	s *store.Store
}

func (f dataFrame) Resolve(name string) (any, bool) {
	m, ok := f.s.Data().(map[string]any)
	if !ok {
		return nil, false
	}
	v, ok := m[name]
	return v, ok
}

func (f dataFrame) Set(name string, value any) {
	if m, ok := f.s.Data().(map[string]any); ok {
		m[name] = value
	}
}
