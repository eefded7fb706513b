package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testScope() *Scope {
	outer := MapFrame{
		"route": "home",
		"theme": "light",
		"count": float64(2),
	}
	data := MapFrame{
		"title": "Fern",
		"count": float64(10),
		"user":  map[string]any{"name": "Ada", "tags": []any{"a", "b"}},
		"items": []any{float64(1), float64(2), float64(3)},
		"empty": []any{},
	}
	outer["data"] = map[string]any(data)
	return NewScope(outer, data)
}

func TestEvalTable(t *testing.T) {
	ev := New()
	sc := testScope()

	tests := []struct {
		src  string
		want any
	}{
		{"1 + 1", float64(2)},
		{"2 * 3 + 4", float64(10)},
		{"2 + 3 * 4", float64(14)},
		{"(2 + 3) * 4", float64(20)},
		{"10 % 3", float64(1)},
		{"-count", float64(-2)},
		{"!true", false},
		{"1 < 2", true},
		{"2 <= 2", true},
		{"3 > 4", false},
		{"'a' < 'b'", true},
		{"1 == 1", true},
		{"1 != 2", true},
		{"'x' == 'x'", true},
		{"true && false", false},
		{"true || false", true},
		{"null", nil},
		{"'hi ' + 'there'", "hi there"},
		{"'n=' + 2", "n=2"},
		{"count > 1 ? 'many' : 'few'", "many"},
		{"count > 9 ? 'many' : 'few'", "few"},
		{"title", "Fern"},
		{"data.title", "Fern"},
		{"user.name", "Ada"},
		{"user.tags[1]", "b"},
		{"items[0]", float64(1)},
		{"items[9]", nil},
		{"user.missing", nil},
		{"route", "home"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ev.Eval(tt.src, sc), "expr %q", tt.src)
	}
}

func TestScopeShadowing(t *testing.T) {
	ev := New()
	sc := testScope()

	// data.count shadows the store's count because data is the inner frame.
	assert.Equal(t, float64(10), ev.Eval("count", sc))

	// An iteration frame shadows both.
	inner := sc.Push(ItemFrame{Name: "count", Value: float64(7)})
	assert.Equal(t, float64(7), ev.Eval("count", inner))

	// The parent scope is untouched by Push.
	assert.Equal(t, float64(10), ev.Eval("count", sc))
}

func TestEvalFailuresYieldNil(t *testing.T) {
	var failed []string
	ev := New(WithFailureHook(func(src string, err error) {
		failed = append(failed, src)
	}))
	sc := testScope()

	for _, src := range []string{
		"nope",           // unresolved identifier
		"1 +",            // parse error
		"title.x",        // property of a string
		"1 / 0",          // division by zero
		"null.x",         // property of null
		"items[0].x",     // property of a number
		"user.name(1)",   // call syntax is not in the grammar
		"{{broken",       // garbage
		"'unterminated",  // lex error
		"items['a' + 1]", // bad index: "a1" on a list resolves via property of slice
	} {
		assert.Nil(t, ev.Eval(src, sc), "expr %q", src)
	}
	assert.Len(t, failed, 10, "every failure reports to the hook")
}

func TestShortCircuit(t *testing.T) {
	ev := New()
	sc := testScope()

	// The unresolvable right side is never evaluated.
	assert.Equal(t, false, ev.Eval("false && nope", sc))
	assert.Equal(t, true, ev.Eval("true || nope", sc))
}

func TestTruthy(t *testing.T) {
	tests := []struct {
		v    any
		want bool
	}{
		{nil, false},
		{false, false},
		{true, true},
		{float64(0), false},
		{float64(1), true},
		{0, false},
		{3, true},
		{"", false},
		{"x", true},
		{[]any{}, true}, // lists are truthy even when empty
		{map[string]any{}, true},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Truthy(tt.v), "value %#v", tt.v)
	}
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "", Stringify(nil))
	assert.Equal(t, "2", Stringify(float64(2)))
	assert.Equal(t, "2.5", Stringify(2.5))
	assert.Equal(t, "7", Stringify(7))
	assert.Equal(t, "true", Stringify(true))
	assert.Equal(t, "hi", Stringify("hi"))
}

func TestLiteralize(t *testing.T) {
	for _, tt := range []struct {
		v    any
		want string
	}{
		{nil, "null"},
		{true, "true"},
		{float64(3), "3"},
		{"a \"b\"", `"a \"b\""`},
	} {
		got, ok := Literalize(tt.v)
		require.True(t, ok)
		assert.Equal(t, tt.want, got)
	}
	_, ok := Literalize([]any{1})
	assert.False(t, ok, "containers have no literal form")
}

func TestLiteralizeRoundTrips(t *testing.T) {
	ev := New()
	sc := NewScope()
	for _, v := range []any{nil, true, float64(42), "it's \"quoted\""} {
		lit, ok := Literalize(v)
		require.True(t, ok)
		assert.Equal(t, v, ev.Eval(lit, sc), "literal %s", lit)
	}
}

func TestAssignBareIdent(t *testing.T) {
	ev := New()
	sc := testScope()

	// title exists in the inner data frame; assignment lands there.
	require.NoError(t, ev.Assign("title", "Changed", sc))
	assert.Equal(t, "Changed", ev.Eval("data.title", sc))

	// theme exists only in the outer frame.
	require.NoError(t, ev.Assign("theme", "dark", sc))
	assert.Equal(t, "dark", ev.Eval("theme", sc))

	// A brand-new name falls through to the outermost settable frame.
	require.NoError(t, ev.Assign("fresh", float64(1), sc))
	assert.Equal(t, float64(1), ev.Eval("fresh", sc))
	assert.Nil(t, ev.Eval("data.fresh", sc))
}

func TestAssignPath(t *testing.T) {
	ev := New()
	sc := testScope()

	require.NoError(t, ev.Assign("user.name", "Grace", sc))
	assert.Equal(t, "Grace", ev.Eval("user.name", sc))

	require.NoError(t, ev.Assign("items[1]", float64(9), sc))
	assert.Equal(t, float64(9), ev.Eval("items[1]", sc))

	require.Error(t, ev.Assign("items[99]", float64(9), sc))
	require.Error(t, ev.Assign("1 + 1", float64(9), sc))
	require.Error(t, ev.Assign("title.x.y", float64(9), sc))
}

func TestExecStatement(t *testing.T) {
	ev := New()
	sc := testScope()

	ev.Exec("theme = theme == 'light' ? 'dark' : 'light'", sc)
	assert.Equal(t, "dark", ev.Eval("theme", sc))

	ev.Exec("user.name = 'Lin'", sc)
	assert.Equal(t, "Lin", ev.Eval("user.name", sc))

	// A bare expression statement is evaluated and discarded.
	ev.Exec("1 + 1", sc)

	// A failing statement is swallowed.
	ev.Exec("nope.x = 1", sc)
	ev.Exec("= 3", sc)
}

func TestParseStatementShapes(t *testing.T) {
	stmt, err := ParseStatement("a.b = 1")
	require.NoError(t, err)
	require.NotNil(t, stmt.Target)

	stmt, err = ParseStatement("a == 1")
	require.NoError(t, err)
	assert.Nil(t, stmt.Target, "== is not an assignment")

	_, err = ParseStatement("1 = 2")
	require.Error(t, err, "literals are not assignable")

	_, err = ParseStatement("a = 1 = 2")
	require.Error(t, err)
}

func TestFreshEvaluationSeesWrites(t *testing.T) {
	// Expressions are never cached: a write to a referenced path is
	// visible on the very next evaluation.
	ev := New()
	data := MapFrame{"n": float64(1)}
	sc := NewScope(data)
	assert.Equal(t, float64(1), ev.Eval("n", sc))
	data["n"] = float64(5)
	assert.Equal(t, float64(5), ev.Eval("n", sc))
}
