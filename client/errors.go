package client

import (
	errs "github.com/mavinms/prism-project/client/internal/errors"
	"github.com/mavinms/prism-project/client/internal/types"
)

// Re-export shared SDK errors so callers compare against a single symbol.
var (
	ErrNotFound          = types.ErrNotFound
	ErrInvalidDifficulty = types.ErrInvalidDifficulty
	ErrInvalidRating     = types.ErrInvalidRating
	ErrInvalidFilter     = types.ErrInvalidFilter
	ErrEmptyTerm         = types.ErrEmptyTerm
	ErrEmptyUpdate       = types.ErrEmptyUpdate
)

// ClassifiedError is the error type returned for failed HTTP calls.
type ClassifiedError = errs.ClassifiedError

// ErrorCategory tells retryable failures from permanent ones.
type ErrorCategory = errs.ErrorCategory

const (
	Recoverable   = errs.Recoverable
	Irrecoverable = errs.Irrecoverable
)

// IsIrrecoverable reports whether err will not change on retry (4xx other
// than 408 and 429). Network failures and 5xx are recoverable.
func IsIrrecoverable(err error) bool { return errs.IsIrrecoverable(err) }

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int { return errs.StatusCode(err) }
