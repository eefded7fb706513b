package expr

import (
	"fmt"
	"math"
	"strconv"
)

// Truthy reports whether a value counts as true in a conditional. nil,
// false, zero, NaN, and the empty string are falsy; everything else,
// including empty lists, is truthy.
func Truthy(v any) bool {
	switch v := v.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	}
	if f, ok := toFloat(v); ok {
		return f != 0 && !math.IsNaN(f)
	}
	return true
}

// Stringify renders a value for interpolation. nil renders as the empty
// string; whole numbers drop their decimal point.
func Stringify(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", v)
}

// Literalize renders a value as expression source text, for splicing loop
// variables into cloned directive attributes. Containers have no literal
// syntax and report false.
func Literalize(v any) (string, bool) {
	switch v := v.(type) {
	case nil:
		return "null", true
	case bool:
		return strconv.FormatBool(v), true
	case string:
		return strconv.Quote(v), true
	}
	if f, ok := toFloat(v); ok {
		return strconv.FormatFloat(f, 'f', -1, 64), true
	}
	return "", false
}

// toFloat normalizes the numeric types a JSON-ish state tree can carry.
func toFloat(v any) (float64, bool) {
	switch v := v.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	}
	return 0, false
}

// looseEqual compares values with numeric coercion across int/float kinds.
// Values of unrelated types are simply unequal.
func looseEqual(x, y any) bool {
	if x == nil || y == nil {
		return x == nil && y == nil
	}
	if xf, ok := toFloat(x); ok {
		if yf, ok := toFloat(y); ok {
			return xf == yf
		}
		return false
	}
	switch xv := x.(type) {
	case string:
		yv, ok := y.(string)
		return ok && xv == yv
	case bool:
		yv, ok := y.(bool)
		return ok && xv == yv
	}
	return false
}
