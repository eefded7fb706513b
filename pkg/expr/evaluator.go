package expr

import "log/slog"

// Evaluator evaluates expression strings against scopes. Every failure —
// parse error, unresolved identifier, type error — is logged as a warning
// and surfaced as nil, never as an error to the template author's caller.
type Evaluator struct {
	logger *slog.Logger

	// onFailure, when set, observes every recovered evaluation failure.
	// The server wires a metrics counter here.
	onFailure func(src string, err error)
}

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithLogger sets the logger used for evaluation warnings.
func WithLogger(l *slog.Logger) Option {
	return func(e *Evaluator) {
		e.logger = l
	}
}

// WithFailureHook registers a callback observing recovered failures.
func WithFailureHook(fn func(src string, err error)) Option {
	return func(e *Evaluator) {
		e.onFailure = fn
	}
}

// New creates an Evaluator.
func New(opts ...Option) *Evaluator {
	e := &Evaluator{
		logger: slog.Default().With("component", "expr"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Eval evaluates src as a read. On failure it logs, reports to the failure
// hook, and returns nil; callers treat nil as "render nothing".
func (e *Evaluator) Eval(src string, sc *Scope) any {
	n, err := Parse(src)
	if err != nil {
		e.fail(src, err)
		return nil
	}
	v, err := evalNode(n, sc)
	if err != nil {
		e.fail(src, err)
		return nil
	}
	return v
}

// EvalBool evaluates src and reduces the result to its truthiness.
func (e *Evaluator) EvalBool(src string, sc *Scope) bool {
	return Truthy(e.Eval(src, sc))
}

// EvalString evaluates src and stringifies the result for interpolation.
func (e *Evaluator) EvalString(src string, sc *Scope) string {
	return Stringify(e.Eval(src, sc))
}

// Assign evaluates src as a settable path and stores value there. The
// failure is logged and also returned so directive handlers can decide
// whether a notification round still makes sense.
func (e *Evaluator) Assign(src string, value any, sc *Scope) error {
	n, err := Parse(src)
	if err != nil {
		e.fail(src, err)
		return err
	}
	if err := assign(n, value, sc); err != nil {
		e.fail(src, err)
		return err
	}
	return nil
}

// Exec evaluates src as a statement: an assignment if it contains one,
// otherwise a bare expression evaluated for its (side-effect-free) value.
// Failures are recovered and logged, never propagated.
func (e *Evaluator) Exec(src string, sc *Scope) {
	stmt, err := ParseStatement(src)
	if err != nil {
		e.fail(src, err)
		return
	}
	v, err := evalNode(stmt.Value, sc)
	if err != nil {
		e.fail(src, err)
		return
	}
	if stmt.Target == nil {
		return
	}
	if err := assign(stmt.Target, v, sc); err != nil {
		e.fail(src, err)
	}
}

func (e *Evaluator) fail(src string, err error) {
	e.logger.Warn("expression evaluation failed", "expr", src, "error", err)
	if e.onFailure != nil {
		e.onFailure(src, err)
	}
}
