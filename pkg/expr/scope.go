package expr

// Frame is one layer of variables in a scope chain.
type Frame interface {
	Resolve(name string) (any, bool)
}

// Setter is implemented by frames that accept assignments.
type Setter interface {
	Set(name string, value any)
}

// MapFrame is a plain map frame. It is settable.
type MapFrame map[string]any

// Resolve implements Frame.
func (m MapFrame) Resolve(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// Set implements Setter.
func (m MapFrame) Set(name string, value any) {
	m[name] = value
}

// ItemFrame binds a single loop variable for the lifetime of a repeat
// body's initial processing. It is read-only.
type ItemFrame struct {
	Name  string
	Value any
}

// Resolve implements Frame.
func (f ItemFrame) Resolve(name string) (any, bool) {
	if name == f.Name {
		return f.Value, true
	}
	return nil, false
}

// Scope is an ordered chain of frames. Lookup walks innermost-first, so a
// bare identifier resolves to the innermost frame in which it exists and
// the fully qualified spelling keeps working through the outer frames.
type Scope struct {
	// frames[0] is the outermost frame.
	frames []Frame
}

// NewScope builds a scope from frames given outermost first.
func NewScope(frames ...Frame) *Scope {
	return &Scope{frames: frames}
}

// Push returns a child scope with f as the new innermost frame. The
// receiver is not modified.
func (s *Scope) Push(f Frame) *Scope {
	child := make([]Frame, 0, len(s.frames)+1)
	child = append(child, s.frames...)
	child = append(child, f)
	return &Scope{frames: child}
}

// Resolve looks a name up innermost-first.
func (s *Scope) Resolve(name string) (any, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if v, ok := s.frames[i].Resolve(name); ok {
			return v, true
		}
	}
	return nil, false
}

// Assign writes a bare name. The innermost settable frame that already
// holds the name wins; a name held nowhere falls through to the outermost
// settable frame, which is how writing an unknown store field "simply adds"
// it.
func (s *Scope) Assign(name string, value any) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if _, ok := s.frames[i].Resolve(name); !ok {
			continue
		}
		if setter, ok := s.frames[i].(Setter); ok {
			setter.Set(name, value)
			return true
		}
	}
	for _, f := range s.frames {
		if setter, ok := f.(Setter); ok {
			setter.Set(name, value)
			return true
		}
	}
	return false
}
