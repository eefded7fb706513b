package errors

import "fmt"

// Category represents the type of error.
type Category string

const (
	CategoryConfig     Category = "config"
	CategoryContent    Category = "content"
	CategoryExpression Category = "expression"
	CategoryDirective  Category = "directive"
	CategoryCLI        Category = "cli"
)

// FernError is a structured error with a stable code and a fix suggestion.
type FernError struct {
	// Code is a unique error identifier (e.g., "E001").
	Code string

	// Category is the error type (config, content, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *FernError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *FernError) Unwrap() error {
	return e.Wrapped
}

// WithSuggestion adds a fix suggestion to the error.
func (e *FernError) WithSuggestion(s string) *FernError {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *FernError) WithDetail(d string) *FernError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *FernError) Wrap(err error) *FernError {
	e.Wrapped = err
	return e
}

// New creates a FernError from a registered error code.
func New(code string) *FernError {
	template, ok := registry[code]
	if !ok {
		return &FernError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &FernError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new FernError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *FernError {
	return &FernError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a FernError.
func FromError(err error, code string) *FernError {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*FernError); ok {
		return fe
	}
	return New(code).Wrap(err)
}
