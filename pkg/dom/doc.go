// Package dom provides small helpers over golang.org/x/net/html trees.
//
// The directive engine operates destructively on parsed *html.Node trees:
// fragments are parsed once, then queried, cloned, pruned, and rewritten in
// place. This package keeps those primitives in one spot so the engine reads
// as tree logic rather than pointer surgery.
package dom
