package errors

import (
	stderrors "errors"
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryStructure Category = "structure"
	CategoryRender    Category = "render"
	CategoryConfig    Category = "config"
	CategoryCLI       Category = "cli"
)

// KayakError is a structured error with a code, explanation and fix hint.
type KayakError struct {
	// Code is a unique error identifier (e.g., "K001").
	Code string

	// Category is the error type (structure, render, etc.).
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
func (e *KayakError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *KayakError) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target is a KayakError with the same code.
func (e *KayakError) Is(target error) bool {
	t, ok := target.(*KayakError)
	if !ok {
		return false
	}
	return t.Code != "" && t.Code == e.Code
}

// WithSuggestion adds a fix suggestion to the error.
func (e *KayakError) WithSuggestion(s string) *KayakError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the detailed explanation of the error.
func (e *KayakError) WithDetail(d string) *KayakError {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *KayakError) Wrap(err error) *KayakError {
	e.Wrapped = err
	return e
}

// New creates a KayakError from a registered error code.
func New(code string) *KayakError {
	template, ok := registry[code]
	if !ok {
		return &KayakError{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &KayakError{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
	}
}

// Newf creates a new KayakError with a formatted message (no code).
func Newf(category Category, format string, args ...any) *KayakError {
	return &KayakError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in a KayakError.
// Errors that already are KayakErrors are returned unchanged.
func FromError(err error, code string) *KayakError {
	if err == nil {
		return nil
	}
	var ke *KayakError
	if stderrors.As(err, &ke) {
		return ke
	}
	return New(code).Wrap(err)
}

// HasCode reports whether err is, or wraps, a KayakError with the given code.
func HasCode(err error, code string) bool {
	if err == nil || code == "" {
		return false
	}
	return stderrors.Is(err, &KayakError{Code: code})
}
