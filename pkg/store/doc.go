// Package store implements the reactive page state container.
//
// A Store holds the content payload, the current route, and the theme, plus
// an append-only list of render subscribers. Every write through Set runs a
// full synchronous notification round; there is no batching, no dedup, and
// no dependency tracking — subscribers re-walk their subtree and re-evaluate
// expressions against current state.
package store
