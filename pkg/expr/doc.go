// Package expr implements the restricted template expression language.
//
// Grammar: literals (numbers, single- or double-quoted strings, true,
// false, null), identifiers, dotted property access, index access, unary
// ! and -, the usual arithmetic/comparison/logic binary operators, and the
// ternary conditional. Method calls do not exist: templates can read state
// and compute over it, nothing else. Expressions are parsed fresh on every
// evaluation; nothing is cached.
//
// Identifiers resolve through a layered Scope, innermost frame first. The
// engine builds scopes outermost-to-innermost as store fields, data
// properties, and (inside a repeat body) the iteration variable, so a bare
// leaf name and its fully qualified path both work.
//
// Evaluation failures never propagate: Eval logs a warning and yields nil,
// which renders as nothing.
package expr
