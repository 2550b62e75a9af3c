package errors

import "fmt"

// Category represents the kind of failure.
type Category string

const (
	CategoryAccess Category = "access"
	CategoryCell   Category = "cell"
	CategoryConfig Category = "config"
	CategorySource Category = "source"
	CategoryCLI    Category = "cli"
)

// ReactiveError is a coded error with an optional explanation and fix hint.
type ReactiveError struct {
	// Code is the registered identifier (e.g. "R001").
	Code string

	Category Category

	// Message is the short registered description.
	Message string

	// Detail names the specific key, path or file involved.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *ReactiveError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Detail != "" {
		msg += " (" + e.Detail + ")"
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *ReactiveError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a ReactiveError with the same code, so a
// fresh error from New matches a package-level sentinel built from the same
// code.
func (e *ReactiveError) Is(target error) bool {
	t, ok := target.(*ReactiveError)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithDetail adds the specific subject of the error.
func (e *ReactiveError) WithDetail(d string) *ReactiveError {
	e.Detail = d
	return e
}

// WithDetailf formats the subject of the error.
func (e *ReactiveError) WithDetailf(format string, args ...any) *ReactiveError {
	e.Detail = fmt.Sprintf(format, args...)
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *ReactiveError) WithSuggestion(s string) *ReactiveError {
	e.Suggestion = s
	return e
}

// Wrap wraps another error.
func (e *ReactiveError) Wrap(err error) *ReactiveError {
	e.Wrapped = err
	return e
}

// New creates a ReactiveError from a registered code.
func New(code string) *ReactiveError {
	template, ok := registry[code]
	if !ok {
		return &ReactiveError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &ReactiveError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded error with a formatted message.
func Newf(category Category, format string, args ...any) *ReactiveError {
	return &ReactiveError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a ReactiveError, wrapping it under code when it
// is not one already.
func FromError(err error, code string) *ReactiveError {
	if err == nil {
		return nil
	}
	if re, ok := err.(*ReactiveError); ok {
		return re
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first ReactiveError in err's chain, or "".
func CodeOf(err error) string {
	for err != nil {
		if re, ok := err.(*ReactiveError); ok {
			return re.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
