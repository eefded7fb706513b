// Package engine implements directive processing over parsed markup trees.
//
// Given a root element, Mount runs five passes in fixed order: repeat
// expansion, conditional pruning, two-way binding attachment, click binding
// attachment, and placeholder interpolation. It then registers one render
// callback with the store; every subsequent notification round re-runs only
// interpolation, conditional re-checks, and model re-syncs over the same
// root. Repeat expansion is one-shot by design: repeated regions are built
// from their list exactly once and are not kept in sync afterwards.
//
// The directive vocabulary is if, for, model, click, and {{ expr }}
// placeholders; see the package-level constants.
package engine
