// Package router resolves hash-based locations to route names and route
// names to markup fragment resources.
package router
