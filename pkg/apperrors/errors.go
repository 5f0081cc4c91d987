// Package apperrors contains the error taxonomy shared by the store,
// the job handler, and the transfer watcher.
package apperrors

import (
	"errors"
	"net/http"
)

// Category classifies a failure so callers can decide whether to retry,
// back off, or give up without inspecting error strings.
type Category int

const (
	// CategoryTransientExternal covers failures talking to the node's
	// HTTP API that are expected to clear on their own: timeouts,
	// connection resets, 5xx responses.
	CategoryTransientExternal Category = iota
	// CategoryLockContention means a wallet lock was already held.
	// Not a failure of the job itself.
	CategoryLockContention
	// CategoryValidation means the caller passed a job or watcher that
	// cannot be processed as given (bad wallet identity, unknown
	// trigger, malformed transfer payload).
	CategoryValidation
	// CategoryStructural means an invariant the store or the caller
	// relies on has been violated (duplicate watcher outside the
	// unique constraint's own idempotent path, unexpected status
	// transition).
	CategoryStructural
)

func (c Category) String() string {
	switch c {
	case CategoryLockContention:
		return "lock_contention"
	case CategoryValidation:
		return "validation"
	case CategoryStructural:
		return "structural"
	default:
		return "transient_external"
	}
}

// ServiceError carries a Category alongside the wrapped cause.
type ServiceError struct {
	Category Category
	Message  string
	Err      error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is reports whether err is a *ServiceError of the given category.
func Is(err error, cat Category) bool {
	var svcErr *ServiceError
	return errors.As(err, &svcErr) && svcErr.Category == cat
}

// Retryable reports whether a caller should back off and retry, as
// opposed to giving up on the current attempt.
func Retryable(err error) bool {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Category == CategoryTransientExternal
	}
	return false
}

func Transient(err error, message string) error {
	return &ServiceError{Category: CategoryTransientExternal, Message: message, Err: err}
}

func LockContention(message string) error {
	return &ServiceError{Category: CategoryLockContention, Message: message}
}

func Validation(err error, message string) error {
	return &ServiceError{Category: CategoryValidation, Message: message, Err: err}
}

func Structural(err error, message string) error {
	return &ServiceError{Category: CategoryStructural, Message: message, Err: err}
}

// StatusCode maps a ServiceError to the HTTP status the internal
// enqueue endpoint should return for it.
func (e *ServiceError) StatusCode() int {
	switch e.Category {
	case CategoryLockContention:
		return http.StatusLocked
	case CategoryValidation:
		return http.StatusBadRequest
	case CategoryStructural:
		return http.StatusConflict
	default:
		return http.StatusBadGateway
	}
}
