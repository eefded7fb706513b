// Package app assembles the store, engine, router, and content loader
// into a navigable site.
//
// The app owns a single container element. Navigate clears it, mounts the
// resolved fragment inside it, and leaves the replaced mount's store
// subscription in place; stale callbacks walk a detached tree and change
// nothing visible. Long-lived processes that navigate heavily accumulate
// those subscriptions.
package app
