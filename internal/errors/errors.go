// Package errors provides a lightweight structured error type (RelocError)
// for category-based classification in the CLI and the task runner.
package errors

import (
	stdErrors "errors"
	"fmt"
)

// ErrorCategory represents the category of a buildreloc error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Relocation and cleanup errors
	CategoryLayout     ErrorCategory = "layout"
	CategoryFileSystem ErrorCategory = "filesystem"
	CategoryTask       ErrorCategory = "task"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"
	CategoryStore   ErrorCategory = "store"

	// Runtime and infrastructure errors
	CategoryRuntime  ErrorCategory = "runtime"
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Stops execution
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded functionality
	SeverityInfo    ErrorSeverity = "info"    // Informational, no impact
)

// Classifier is implemented by RelocError and by domain error types that
// still belong to a category (for example paths.InvalidPathError).
type Classifier interface {
	ErrorCategory() ErrorCategory
}

// RelocError is a structured error with category, retryability, and context
type RelocError struct {
	Category  ErrorCategory `json:"category"`
	Severity  ErrorSeverity `json:"severity"`
	Message   string        `json:"message"`
	Cause     error         `json:"cause,omitempty"`
	Retryable bool          `json:"retryable"`
	Context   ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for RelocError
type ContextFields map[string]any

// Error implements the error interface
func (e *RelocError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// ErrorCategory implements Classifier.
func (e *RelocError) ErrorCategory() ErrorCategory {
	return e.Category
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *RelocError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *RelocError) WithContext(key string, value any) *RelocError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new RelocError
func New(category ErrorCategory, severity ErrorSeverity, message string) *RelocError {
	return &RelocError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Retryable: false,
	}
}

// Wrap creates a new RelocError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *RelocError {
	return &RelocError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: false,
	}
}

// WrapRetryable creates a new retryable RelocError that wraps an existing error
func WrapRetryable(err error, category ErrorCategory, severity ErrorSeverity, message string) *RelocError {
	return &RelocError{
		Category:  category,
		Severity:  severity,
		Message:   message,
		Cause:     err,
		Retryable: true,
	}
}

// IsCategory checks if an error (or anything it wraps) belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	return err != nil && GetCategory(err) == category
}

// IsRetryable checks if an error is retryable
func IsRetryable(err error) bool {
	var re *RelocError
	if stdErrors.As(err, &re) {
		return re.Retryable
	}
	return false
}

// GetCategory extracts the category from an error tree, including joined
// errors. The first Classifier found wins; anything else is CategoryInternal.
func GetCategory(err error) ErrorCategory {
	var c Classifier
	if stdErrors.As(err, &c) {
		return c.ErrorCategory()
	}
	return CategoryInternal
}
