// Package errors provides structured error types for fern.
//
// Errors carry a stable code, a category, and an optional fix suggestion so
// the CLI and server can present actionable messages. Expression evaluation
// failures inside templates are deliberately NOT represented here as fatal
// errors: the engine logs them and renders nothing, per the best-effort
// degrade philosophy of the renderer.
package errors
