// Package errors classifies failures of the catalog service so callers can
// decide between retrying, degrading and surfacing the error.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCategory determines how a failed call should be handled.
type ErrorCategory int

const (
	// Recoverable failures may succeed when repeated: network errors, 5xx, 408, 429.
	Recoverable ErrorCategory = iota

	// Irrecoverable failures will not change on retry: 400, 404 and the rest of 4xx.
	Irrecoverable
)

func (c ErrorCategory) String() string {
	switch c {
	case Recoverable:
		return "Recoverable"
	case Irrecoverable:
		return "Irrecoverable"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// ClassifiedError carries the category, status and response body of a failed call.
type ClassifiedError struct {
	Category   ErrorCategory
	Operation  string
	StatusCode int    // 0 for network failures
	Body       string // truncated response body
	Underlying error
}

func (e *ClassifiedError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("[%s] HTTP %d: %v", e.Category, e.StatusCode, e.Underlying)
	}
	return fmt.Sprintf("[%s] %v", e.Category, e.Underlying)
}

func (e *ClassifiedError) Unwrap() error {
	return e.Underlying
}

// IsIrrecoverable reports whether err (or anything it wraps) is an irrecoverable
// classified error.
func IsIrrecoverable(err error) bool {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.Category == Irrecoverable
	}
	return false
}

// IsNotFound reports whether err is a classified 404.
func IsNotFound(err error) bool {
	return StatusCode(err) == http.StatusNotFound
}

// StatusCode extracts the HTTP status of a classified error, or 0.
func StatusCode(err error) int {
	var ce *ClassifiedError
	if stderrors.As(err, &ce) {
		return ce.StatusCode
	}
	return 0
}
