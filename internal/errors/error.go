package errors

import (
	"fmt"
	"runtime/debug"
)

// Category classifies a render failure. Nothing below the dispatcher
// catches errors; every failure carries its category up to the single
// boundary that turns it into a diagnostic page.
type Category string

const (
	// CategoryUpstreamNotFound is a 404 from the external data source.
	CategoryUpstreamNotFound Category = "upstream_not_found"

	// CategoryUpstreamFailure is any other non-success upstream response.
	CategoryUpstreamFailure Category = "upstream_failure"

	// CategoryShell covers failures loading or transforming the HTML shell.
	CategoryShell Category = "shell"

	// CategoryRender covers render pipeline and runtime failures.
	CategoryRender Category = "render"
)

// RenderError is a render pipeline failure with enough context for the
// diagnostic page.
type RenderError struct {
	// Category is the failure classification.
	Category Category

	// Message is a short description of the failure.
	Message string

	// Stack is the goroutine stack captured where the error was wrapped.
	// Only development mode shows it to clients.
	Stack string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Wrapped)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *RenderError) Unwrap() error {
	return e.Wrapped
}

// Wrap builds a RenderError around err, capturing the current stack.
func Wrap(category Category, message string, err error) *RenderError {
	return &RenderError{
		Category: category,
		Message:  message,
		Stack:    string(debug.Stack()),
		Wrapped:  err,
	}
}

// Recovered converts a recovered panic value into a RenderError.
func Recovered(v any) *RenderError {
	err, ok := v.(error)
	if !ok {
		err = fmt.Errorf("%v", v)
	}
	return &RenderError{
		Category: CategoryRender,
		Message:  "panic during render",
		Stack:    string(debug.Stack()),
		Wrapped:  err,
	}
}
