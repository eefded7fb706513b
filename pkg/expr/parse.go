package expr

import "fmt"

type parser struct {
	toks []token
	pos  int
}

// Parse compiles an expression string into its AST.
func Parse(src string) (Node, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	n, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.at(tkEOF, "") {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().pos)
	}
	return n, nil
}

// ParseStatement compiles a statement: either "target = expr" where target
// is an identifier, property, or index path, or a bare expression.
func ParseStatement(src string) (*Stmt, error) {
	toks, err := lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	first, err := p.expression()
	if err != nil {
		return nil, err
	}
	if p.at(tkEOF, "") {
		return &Stmt{Value: first}, nil
	}
	if !p.at(tkOp, "=") {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().pos)
	}
	p.next()
	switch first.(type) {
	case *Ident, *Member, *Index:
	default:
		return nil, fmt.Errorf("left side of assignment must be a path")
	}
	rhs, err := p.expression()
	if err != nil {
		return nil, err
	}
	if !p.at(tkEOF, "") {
		return nil, fmt.Errorf("unexpected %q at %d", p.peek().text, p.peek().pos)
	}
	return &Stmt{Target: first, Value: rhs}, nil
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tkEOF {
		p.pos++
	}
	return t
}

func (p *parser) at(kind tokenKind, text string) bool {
	t := p.peek()
	return t.kind == kind && (text == "" || t.text == text)
}

func (p *parser) eat(text string) bool {
	if p.at(tkOp, text) {
		p.next()
		return true
	}
	return false
}

func (p *parser) expect(text string) error {
	if !p.eat(text) {
		return fmt.Errorf("expected %q, got %q at %d", text, p.peek().text, p.peek().pos)
	}
	return nil
}

// expression := or ('?' expression ':' expression)?   (right-associative)
func (p *parser) expression() (Node, error) {
	cond, err := p.or()
	if err != nil {
		return nil, err
	}
	if !p.eat("?") {
		return cond, nil
	}
	then, err := p.expression()
	if err != nil {
		return nil, err
	}
	if err := p.expect(":"); err != nil {
		return nil, err
	}
	els, err := p.expression()
	if err != nil {
		return nil, err
	}
	return &Cond{If: cond, Then: then, Else: els}, nil
}

func (p *parser) or() (Node, error) {
	return p.binary(p.and, "||")
}

func (p *parser) and() (Node, error) {
	return p.binary(p.equality, "&&")
}

func (p *parser) equality() (Node, error) {
	return p.binary(p.relational, "==", "!=")
}

func (p *parser) relational() (Node, error) {
	return p.binary(p.additive, "<", "<=", ">", ">=")
}

func (p *parser) additive() (Node, error) {
	return p.binary(p.multiplicative, "+", "-")
}

func (p *parser) multiplicative() (Node, error) {
	return p.binary(p.unary, "*", "/", "%")
}

// binary parses a left-associative run of the given operators.
func (p *parser) binary(operand func() (Node, error), ops ...string) (Node, error) {
	x, err := operand()
	if err != nil {
		return nil, err
	}
	for {
		matched := ""
		for _, op := range ops {
			if p.at(tkOp, op) {
				matched = op
				break
			}
		}
		if matched == "" {
			return x, nil
		}
		p.next()
		y, err := operand()
		if err != nil {
			return nil, err
		}
		x = &Binary{Op: matched, X: x, Y: y}
	}
}

func (p *parser) unary() (Node, error) {
	if p.at(tkOp, "!") || p.at(tkOp, "-") {
		op := p.next().text
		x, err := p.unary()
		if err != nil {
			return nil, err
		}
		return &Unary{Op: op, X: x}, nil
	}
	return p.postfix()
}

// postfix := primary ('.' ident | '[' expression ']')*
func (p *parser) postfix() (Node, error) {
	x, err := p.primary()
	if err != nil {
		return nil, err
	}
	for {
		switch {
		case p.eat("."):
			t := p.peek()
			if t.kind != tkIdent {
				return nil, fmt.Errorf("expected property name at %d", t.pos)
			}
			p.next()
			x = &Member{X: x, Name: t.text}
		case p.eat("["):
			key, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect("]"); err != nil {
				return nil, err
			}
			x = &Index{X: x, Key: key}
		default:
			return x, nil
		}
	}
}

func (p *parser) primary() (Node, error) {
	t := p.peek()
	switch t.kind {
	case tkNumber:
		p.next()
		return &Lit{Value: t.num}, nil
	case tkString:
		p.next()
		return &Lit{Value: t.text}, nil
	case tkIdent:
		p.next()
		switch t.text {
		case "true":
			return &Lit{Value: true}, nil
		case "false":
			return &Lit{Value: false}, nil
		case "null", "nil":
			return &Lit{Value: nil}, nil
		}
		return &Ident{Name: t.text}, nil
	case tkOp:
		if t.text == "(" {
			p.next()
			x, err := p.expression()
			if err != nil {
				return nil, err
			}
			if err := p.expect(")"); err != nil {
				return nil, err
			}
			return x, nil
		}
	}
	return nil, fmt.Errorf("unexpected %q at %d", t.text, t.pos)
}
