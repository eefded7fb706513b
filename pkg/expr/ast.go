package expr

// Node is a parsed expression.
type Node interface {
	isNode()
}

// Lit is a literal value: number, string, bool, or null.
type Lit struct {
	Value any
}

// Ident is a bare identifier resolved through the scope chain.
type Ident struct {
	Name string
}

// Member is dotted property access, x.name.
type Member struct {
	X    Node
	Name string
}

// Index is bracket access, x[key].
type Index struct {
	X   Node
	Key Node
}

// Unary is !x or -x.
type Unary struct {
	Op string
	X  Node
}

// Binary is a two-operand operator application.
type Binary struct {
	Op   string
	X, Y Node
}

// Cond is the ternary conditional, if ? then : else.
type Cond struct {
	If, Then, Else Node
}

func (*Lit) isNode()    {}
func (*Ident) isNode()  {}
func (*Member) isNode() {}
func (*Index) isNode()  {}
func (*Unary) isNode()  {}
func (*Binary) isNode() {}
func (*Cond) isNode()   {}

// Stmt is a parsed statement: either a bare expression or an assignment of
// Value into Target. Target is nil for bare expressions.
type Stmt struct {
	Target Node
	Value  Node
}
