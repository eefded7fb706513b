package expr

import (
	"fmt"
	"reflect"
)

// evalNode evaluates a parsed expression against a scope.
func evalNode(n Node, sc *Scope) (any, error) {
	switch n := n.(type) {
	case *Lit:
		return n.Value, nil

	case *Ident:
		v, ok := sc.Resolve(n.Name)
		if !ok {
			return nil, fmt.Errorf("%s is not defined", n.Name)
		}
		return v, nil

	case *Member:
		x, err := evalNode(n.X, sc)
		if err != nil {
			return nil, err
		}
		return property(x, n.Name)

	case *Index:
		x, err := evalNode(n.X, sc)
		if err != nil {
			return nil, err
		}
		key, err := evalNode(n.Key, sc)
		if err != nil {
			return nil, err
		}
		return index(x, key)

	case *Unary:
		x, err := evalNode(n.X, sc)
		if err != nil {
			return nil, err
		}
		switch n.Op {
		case "!":
			return !Truthy(x), nil
		case "-":
			f, ok := toFloat(x)
			if !ok {
				return nil, fmt.Errorf("cannot negate %T", x)
			}
			return -f, nil
		}
		return nil, fmt.Errorf("unknown unary operator %q", n.Op)

	case *Binary:
		return evalBinary(n, sc)

	case *Cond:
		cond, err := evalNode(n.If, sc)
		if err != nil {
			return nil, err
		}
		if Truthy(cond) {
			return evalNode(n.Then, sc)
		}
		return evalNode(n.Else, sc)
	}
	return nil, fmt.Errorf("unknown node %T", n)
}

func evalBinary(n *Binary, sc *Scope) (any, error) {
	// Short-circuit the logical operators before evaluating the right side.
	if n.Op == "&&" || n.Op == "||" {
		x, err := evalNode(n.X, sc)
		if err != nil {
			return nil, err
		}
		if n.Op == "&&" && !Truthy(x) {
			return false, nil
		}
		if n.Op == "||" && Truthy(x) {
			return true, nil
		}
		y, err := evalNode(n.Y, sc)
		if err != nil {
			return nil, err
		}
		return Truthy(y), nil
	}

	x, err := evalNode(n.X, sc)
	if err != nil {
		return nil, err
	}
	y, err := evalNode(n.Y, sc)
	if err != nil {
		return nil, err
	}

	switch n.Op {
	case "==":
		return looseEqual(x, y), nil
	case "!=":
		return !looseEqual(x, y), nil
	}

	// String concatenation: + with either side a string stringifies both.
	if n.Op == "+" {
		if _, ok := x.(string); ok {
			return x.(string) + Stringify(y), nil
		}
		if _, ok := y.(string); ok {
			return Stringify(x) + y.(string), nil
		}
	}

	// Relational operators on strings compare lexicographically.
	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			switch n.Op {
			case "<":
				return xs < ys, nil
			case "<=":
				return xs <= ys, nil
			case ">":
				return xs > ys, nil
			case ">=":
				return xs >= ys, nil
			}
		}
	}

	xf, xok := toFloat(x)
	yf, yok := toFloat(y)
	if !xok || !yok {
		return nil, fmt.Errorf("operator %q needs numbers, got %T and %T", n.Op, x, y)
	}
	switch n.Op {
	case "+":
		return xf + yf, nil
	case "-":
		return xf - yf, nil
	case "*":
		return xf * yf, nil
	case "/":
		if yf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return xf / yf, nil
	case "%":
		if yf == 0 {
			return nil, fmt.Errorf("division by zero")
		}
		return float64(int64(xf) % int64(yf)), nil
	case "<":
		return xf < yf, nil
	case "<=":
		return xf <= yf, nil
	case ">":
		return xf > yf, nil
	case ">=":
		return xf >= yf, nil
	}
	return nil, fmt.Errorf("unknown operator %q", n.Op)
}

// property reads a named property. A missing key on an existing container
// yields nil without error; reading a property of nil is a failure.
func property(x any, name string) (any, error) {
	if x == nil {
		return nil, fmt.Errorf("cannot read property %q of null", name)
	}
	if m, ok := x.(map[string]any); ok {
		return m[name], nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Map && rv.Type().Key().Kind() == reflect.String {
		v := rv.MapIndex(reflect.ValueOf(name))
		if !v.IsValid() {
			return nil, nil
		}
		return v.Interface(), nil
	}
	return nil, fmt.Errorf("cannot read property %q of %T", name, x)
}

// index reads x[key]. Out-of-range list indexes yield nil without error.
func index(x, key any) (any, error) {
	if x == nil {
		return nil, fmt.Errorf("cannot index null")
	}
	if ks, ok := key.(string); ok {
		return property(x, ks)
	}
	kf, ok := toFloat(key)
	if !ok {
		return nil, fmt.Errorf("bad index %T", key)
	}
	i := int(kf)
	switch v := x.(type) {
	case []any:
		if i < 0 || i >= len(v) {
			return nil, nil
		}
		return v[i], nil
	}
	rv := reflect.ValueOf(x)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		if i < 0 || i >= rv.Len() {
			return nil, nil
		}
		return rv.Index(i).Interface(), nil
	}
	return nil, fmt.Errorf("cannot index %T", x)
}

// assign writes value into the location named by target. The target must
// end in a settable field or index.
func assign(target Node, value any, sc *Scope) error {
	switch t := target.(type) {
	case *Ident:
		if !sc.Assign(t.Name, value) {
			return fmt.Errorf("no settable location for %q", t.Name)
		}
		return nil

	case *Member:
		container, err := evalNode(t.X, sc)
		if err != nil {
			return err
		}
		return setProperty(container, t.Name, value)

	case *Index:
		container, err := evalNode(t.X, sc)
		if err != nil {
			return err
		}
		key, err := evalNode(t.Key, sc)
		if err != nil {
			return err
		}
		if ks, ok := key.(string); ok {
			return setProperty(container, ks, value)
		}
		kf, ok := toFloat(key)
		if !ok {
			return fmt.Errorf("bad index %T", key)
		}
		i := int(kf)
		if list, ok := container.([]any); ok {
			if i < 0 || i >= len(list) {
				return fmt.Errorf("index %d out of range", i)
			}
			list[i] = value
			return nil
		}
		return fmt.Errorf("cannot index-assign into %T", container)
	}
	return fmt.Errorf("assignment target must be a path")
}

func setProperty(container any, name string, value any) error {
	if m, ok := container.(map[string]any); ok {
		m[name] = value
		return nil
	}
	return fmt.Errorf("cannot assign property %q on %T", name, container)
}
