package errors

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// maxBodyBytes bounds how much of an error response is kept for diagnostics.
const maxBodyBytes = 4 << 10

// ClassifyHTTPError maps a status code onto a category:
//   - 408 and 429 are recoverable
//   - other 4xx are irrecoverable
//   - 5xx and anything unexpected are recoverable
func ClassifyHTTPError(statusCode int, body string, underlyingErr error) *ClassifiedError {
	return &ClassifiedError{
		Category:   categoryFor(statusCode),
		StatusCode: statusCode,
		Body:       body,
		Underlying: underlyingErr,
	}
}

func categoryFor(statusCode int) ErrorCategory {
	switch {
	case statusCode == http.StatusRequestTimeout, statusCode == http.StatusTooManyRequests:
		return Recoverable
	case statusCode >= 400 && statusCode < 500:
		return Irrecoverable
	default:
		return Recoverable
	}
}

// NewHTTPError builds a classified error for a non-2xx response.
func NewHTTPError(statusCode int, body string, operation string) *ClassifiedError {
	ce := ClassifyHTTPError(statusCode, body, fmt.Errorf("%s failed: HTTP %d", operation, statusCode))
	ce.Operation = operation
	return ce
}

// FromResponse reads (a bounded prefix of) resp.Body and classifies the status.
// The caller still owns closing the body.
func FromResponse(resp *http.Response, operation string) *ClassifiedError {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	return NewHTTPError(resp.StatusCode, strings.TrimSpace(string(b)), operation)
}

// NewNetworkError wraps a transport failure. Network failures are always recoverable.
func NewNetworkError(operation string, err error) *ClassifiedError {
	return &ClassifiedError{
		Category:   Recoverable,
		Operation:  operation,
		Underlying: fmt.Errorf("%s network error: %w", operation, err),
	}
}
