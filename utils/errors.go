package utils

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
)

// Sentinel errors for the loyalty engine. Use with errors.Is; wrap with
// fmt.Errorf("%w: ...") to add context.
var (
	// ErrValidation is returned for malformed identifiers or amounts.
	ErrValidation = errors.New("validation failed")

	// ErrNotFound is returned when no matching user, profile or catalog
	// entry exists, e.g. a jackpot claim for an unconfigured threshold.
	ErrNotFound = errors.New("not found")

	// ErrPreconditionFailed is returned when a claim targets an entry whose
	// achieved/completed flag is not yet set.
	ErrPreconditionFailed = errors.New("precondition failed")

	// ErrConflict is returned on a re-claim or a lost compare-and-set race.
	// Exactly one of two concurrent claimants succeeds; the other sees this.
	ErrConflict = errors.New("conflict")

	// ErrDependencyFailure is returned when the wallet/ledger write fails.
	// The claim's partial effects are rolled back before it is surfaced; it
	// is never retried internally.
	ErrDependencyFailure = errors.New("dependency failure")
)

// IsRetryable reports whether the caller may retry the whole operation.
// Conflicts from lost races are retryable; the entry state decides the
// outcome of the retry.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrConflict) || errors.Is(err, ErrDependencyFailure)
}

// ValidationErrorf wraps ErrValidation with a formatted message.
func ValidationErrorf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, v...))
}

// NotFoundErrorf wraps ErrNotFound with a formatted message.
func NotFoundErrorf(format string, v ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, v...))
}

// RespondError maps an engine error onto the standard response envelope.
func RespondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrValidation):
		BadRequest(c, err.Error(), nil)
	case errors.Is(err, ErrNotFound):
		NotFound(c, err.Error())
	case errors.Is(err, ErrPreconditionFailed):
		PreconditionFailed(c, err.Error(), nil)
	case errors.Is(err, ErrConflict):
		Conflict(c, err.Error(), nil)
	case errors.Is(err, ErrDependencyFailure):
		BadGateway(c, err.Error(), nil)
	default:
		InternalServerError(c, "Internal server error", nil)
	}
}

// WrapError wraps an error with additional context
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}
