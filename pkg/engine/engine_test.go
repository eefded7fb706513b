package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	"github.com/fernweh-dev/fern/pkg/dom"
	"github.com/fernweh-dev/fern/pkg/store"
)

// newTestEngine builds a store preloaded with data and an engine over it.
func newTestEngine(t *testing.T, data map[string]any) (*Engine, *store.Store) {
	t.Helper()
	s := store.New("home", "light")
	if data != nil {
		s.Put("data", data)
	}
	return New(s), s
}

// mountFragment parses markup and mounts it, returning the container root.
func mountFragment(t *testing.T, e *Engine, markup string) *html.Node {
	t.Helper()
	root, err := dom.ParseFragment(markup)
	require.NoError(t, err)
	e.Mount(root)
	return root
}

func findTag(root *html.Node, tag string) *html.Node {
	nodes := dom.FindAll(root, func(n *html.Node) bool { return n.Data == tag })
	if len(nodes) == 0 {
		return nil
	}
	return nodes[0]
}

func TestInterpolationArithmetic(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	root := mountFragment(t, e, `<p>{{ 1 + 1 }}</p>`)
	assert.Equal(t, "<p>2</p>", dom.RenderInner(root))
}

func TestInterpolationUndefinedRendersEmpty(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	root := mountFragment(t, e, `<p>[{{ missing }}]</p>`)
	assert.Equal(t, "<p>[]</p>", dom.RenderInner(root))
}

func TestInterpolationInAttributes(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"cls": "hero"})
	root := mountFragment(t, e, `<div class="{{ cls }}">x</div>`)
	assert.Equal(t, `<div class="hero">x</div>`, dom.RenderInner(root))
}

func TestInterpolationMultiplePlaceholders(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"a": "1", "b": "2"})
	root := mountFragment(t, e, `<p>{{ a }}-{{ b }}</p>`)
	assert.Equal(t, "<p>1-2</p>", dom.RenderInner(root))
}

func TestInterpolationIsFrozenAfterSubstitution(t *testing.T) {
	data := map[string]any{"title": "first"}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<h1>{{ title }}</h1>`)
	assert.Equal(t, "<h1>first</h1>", dom.RenderInner(root))

	// The markers were consumed; a later change is not picked up.
	data["title"] = "second"
	s.Notify()
	assert.Equal(t, "<h1>first</h1>", dom.RenderInner(root))
}

func TestConditionalFalsyRemoved(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"show": false})
	root := mountFragment(t, e, `<div if="show">secret</div><p>rest</p>`)
	out := dom.RenderInner(root)
	assert.NotContains(t, out, "secret")
	assert.Contains(t, out, "rest")
}

func TestConditionalTruthyStripsAttribute(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"show": true})
	root := mountFragment(t, e, `<div if="show">visible</div>`)
	div := findTag(root, "div")
	require.NotNil(t, div)
	_, has := dom.Attr(div, AttrIf)
	assert.False(t, has, "truthy conditional should lose its attribute")
	assert.Contains(t, dom.RenderInner(root), "visible")
}

func TestConditionalRemovedOnLaterRound(t *testing.T) {
	data := map[string]any{"show": true}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<div if="show">gone soon</div>`)
	assert.Contains(t, dom.RenderInner(root), "gone soon")

	data["show"] = false
	s.Notify()
	assert.NotContains(t, dom.RenderInner(root), "gone soon")

	// Flipping back never resurrects the detached element.
	data["show"] = true
	s.Notify()
	assert.NotContains(t, dom.RenderInner(root), "gone soon")
}

func TestConditionalPassIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"show": true})
	root := mountFragment(t, e, `<div if="show">kept</div>`)
	before := dom.RenderInner(root)

	// Re-running the pass finds no if attributes: nothing changes.
	m := &Mount{engine: e, Root: root}
	e.pruneConditionals(root, e.Scope(), m)
	assert.Empty(t, m.conds)
	assert.Equal(t, before, dom.RenderInner(root))
}

func TestRepeatOrderPreserved(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"items": []any{"a", "b", "c"}})
	root := mountFragment(t, e, `<ul><li for="item in items">{{ item }}</li></ul>`)
	out := dom.RenderInner(root)
	assert.Equal(t, "<ul><li>a</li><li>b</li><li>c</li></ul>", out)
	lis := dom.FindAll(root, func(n *html.Node) bool { return n.Data == "li" })
	assert.Len(t, lis, 3, "no template element may remain")
	for _, li := range lis {
		_, has := dom.Attr(li, AttrFor)
		assert.False(t, has)
	}
}

func TestRepeatDoesNotReExpand(t *testing.T) {
	data := map[string]any{"items": []any{"a", "b"}}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<ul><li for="item in items">{{ item }}</li></ul>`)
	require.Len(t, dom.FindAll(root, func(n *html.Node) bool { return n.Data == "li" }), 2)

	// Growing the list and notifying must not change the rendered count:
	// the template was discarded at first processing.
	data["items"] = append(data["items"].([]any), "c")
	s.Notify()
	assert.Len(t, dom.FindAll(root, func(n *html.Node) bool { return n.Data == "li" }), 2)
}

func TestRepeatNonListIsEmpty(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"items": "not a list"})
	root := mountFragment(t, e, `<ul><li for="item in items">{{ item }}</li></ul>`)
	assert.Equal(t, "<ul></ul>", dom.RenderInner(root))
}

func TestRepeatMalformedGrammarSkipped(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"items": []any{"a"}})
	root := mountFragment(t, e, `<ul><li for="item items">raw</li></ul>`)
	li := findTag(root, "li")
	require.NotNil(t, li, "malformed repeat leaves the element as-is")
	v, has := dom.Attr(li, AttrFor)
	assert.True(t, has)
	assert.Equal(t, "item items", v)
}

func TestRepeatObjectProperties(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{
		"users": []any{
			map[string]any{"name": "Ada", "age": float64(36)},
			map[string]any{"name": "Lin", "age": float64(28)},
		},
	})
	root := mountFragment(t, e, `<div for="u in users"><b>{{ u.name }}</b>{{ u.age }}</div>`)
	assert.Equal(t, "<div><b>Ada</b>36</div><div><b>Lin</b>28</div>", dom.RenderInner(root))
}

func TestRepeatNestedDirectives(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{
		"rows": []any{
			map[string]any{"label": "one", "show": true},
			map[string]any{"label": "two", "show": false},
		},
	})
	root := mountFragment(t, e, `<div for="row in rows"><span if="row.show">{{ row.label }}</span></div>`)
	out := dom.RenderInner(root)
	assert.Contains(t, out, "one")
	assert.NotContains(t, out, "two")
}

func TestRepeatNestedRepeat(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{
		"groups": []any{
			map[string]any{"members": []any{"a", "b"}},
			map[string]any{"members": []any{"c"}},
		},
	})
	root := mountFragment(t, e, `<ul for="g in groups"><li for="m in g.members">{{ m }}</li></ul>`)
	assert.Equal(t, "<ul><li>a</li><li>b</li></ul><ul><li>c</li></ul>", dom.RenderInner(root))
}

func TestModelRoundTrip(t *testing.T) {
	data := map[string]any{"name": "Ada"}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<input model="name">`)
	input := findTag(root, "input")
	require.NotNil(t, input)

	// Attach read the current value and stripped the directive.
	v, _ := dom.Attr(input, "value")
	assert.Equal(t, "Ada", v)
	_, has := dom.Attr(input, AttrModel)
	assert.False(t, has)

	// User edit: displayed value flows back into the bound path.
	rounds := 0
	s.Subscribe(func() { rounds++ })
	require.True(t, e.SetInput(input, "Grace"))
	assert.Equal(t, "Grace", data["name"])
	assert.Equal(t, 1, rounds, "one edit, one round")

	// Programmatic write plus a round flows forward into the control.
	data["name"] = "Lin"
	s.Notify()
	v, _ = dom.Attr(input, "value")
	assert.Equal(t, "Lin", v)
}

func TestModelUndefinedReadsEmpty(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	root := mountFragment(t, e, `<input model="missing">`)
	input := findTag(root, "input")
	v, _ := dom.Attr(input, "value")
	assert.Equal(t, "", v)
}

func TestClickWritesStoreFieldInOneRound(t *testing.T) {
	data := map[string]any{"count": float64(1)}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<button click="count = count + 1">+</button>`)
	btn := findTag(root, "button")
	require.NotNil(t, btn)
	_, has := dom.Attr(btn, AttrClick)
	assert.False(t, has, "click directive should be stripped after attach")

	rounds := 0
	s.Subscribe(func() { rounds++ })
	require.True(t, e.FireClick(btn))
	assert.Equal(t, float64(2), data["count"])
	assert.Equal(t, 1, rounds, "exactly one notification round per click")
}

func TestClickFailureIsSwallowed(t *testing.T) {
	e, s := newTestEngine(t, nil)
	root := mountFragment(t, e, `<button click="nope.deep = 1">x</button>`)
	btn := findTag(root, "button")
	rounds := 0
	s.Subscribe(func() { rounds++ })
	require.True(t, e.FireClick(btn), "failure must not panic or propagate")
	assert.Equal(t, 1, rounds, "the round still runs")
}

func TestClickTogglesTheme(t *testing.T) {
	e, s := newTestEngine(t, nil)
	root := mountFragment(t, e, `<a click="theme = theme == 'light' ? 'dark' : 'light'">t</a>`)
	a := findTag(root, "a")
	e.FireClick(a)
	assert.Equal(t, "dark", s.Theme())
	e.FireClick(a)
	assert.Equal(t, "light", s.Theme())
}

func TestClickInsideRepeatCapturesItem(t *testing.T) {
	data := map[string]any{"ids": []any{float64(10), float64(20)}}
	e, s := newTestEngine(t, data)
	root := mountFragment(t, e, `<button for="id in ids" click="picked = id">{{ id }}</button>`)
	buttons := dom.FindAll(root, func(n *html.Node) bool { return n.Data == "button" })
	require.Len(t, buttons, 2)

	// The loop variable was spliced in as a literal, so the binding
	// outlives the iteration frame.
	e.FireClick(buttons[1])
	v, _ := s.Get("picked")
	assert.Equal(t, float64(20), v)
}

func TestFireClickOnUnboundElement(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	root := mountFragment(t, e, `<p>plain</p>`)
	assert.False(t, e.FireClick(findTag(root, "p")))
	assert.False(t, e.SetInput(findTag(root, "p"), "x"))
}

func TestDispatchByID(t *testing.T) {
	e, s := newTestEngine(t, map[string]any{"n": float64(0)})
	root := mountFragment(t, e, `<button click="n = 5">x</button><input model="n">`)
	btn := findTag(root, "button")
	id, ok := dom.Attr(btn, AttrID)
	require.True(t, ok, "bound elements carry a dispatch id")

	require.True(t, e.FireClickID(id))
	v, _ := s.Get("data")
	assert.Equal(t, float64(5), v.(map[string]any)["n"])

	input := findTag(root, "input")
	inputID, _ := dom.Attr(input, AttrID)
	require.True(t, e.SetInputID(inputID, "9"))
	assert.Equal(t, "9", v.(map[string]any)["n"])

	assert.False(t, e.FireClickID("f999"))
	assert.False(t, e.SetInputID("f999", "x"))
}

func TestMountRegistersExactlyOneSubscriber(t *testing.T) {
	e, s := newTestEngine(t, nil)
	before := s.Subscribers()
	mountFragment(t, e, `<p>{{ 1 }}</p>`)
	assert.Equal(t, before+1, s.Subscribers())
}

func TestPassOrderRepeatBeforeConditional(t *testing.T) {
	// The conditional inside the repeat body refers to the loop variable,
	// which only works because expansion runs before pruning.
	e, _ := newTestEngine(t, map[string]any{
		"flags": []any{true, false, true},
	})
	root := mountFragment(t, e, `<span for="f in flags" if="f">y</span>`)
	spans := dom.FindAll(root, func(n *html.Node) bool { return n.Data == "span" })
	assert.Len(t, spans, 2)
}

func TestScopeBareLeafAndQualifiedPath(t *testing.T) {
	e, _ := newTestEngine(t, map[string]any{"title": "Fern"})
	root := mountFragment(t, e, `<p>{{ title }}|{{ data.title }}|{{ route }}</p>`)
	assert.Equal(t, "<p>Fern|Fern|home</p>", dom.RenderInner(root))
}

func TestRenderCallbackSurvivesDetachedRoot(t *testing.T) {
	e, s := newTestEngine(t, map[string]any{"show": true})
	root := mountFragment(t, e, `<div if="show">x</div>`)
	// Orphan the whole mount, then notify: the stale callback must be a
	// harmless no-op, not a crash.
	dom.RemoveChildren(root)
	s.Notify()
	s.Notify()
	assert.Equal(t, "", dom.RenderInner(root))
}
