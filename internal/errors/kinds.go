package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Kind classifies a failure for the HTTP layer.
type Kind string

const (
	KindValidation   Kind = "validation"
	KindAuth         Kind = "auth"
	KindAccessDenied Kind = "access_denied"
	KindNotFound     Kind = "not_found"
	KindConflict     Kind = "conflict"
	KindStore        Kind = "store"
	KindProvider     Kind = "provider"
	KindUnavailable  Kind = "unavailable"
)

// Error is a classified domain error. Sentinel values are compared by
// identity with errors.Is; wrapped store and provider failures keep their
// cause reachable through Unwrap.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// NewValidationError reports a missing or malformed field.
func NewValidationError(message string) *Error {
	return newError(KindValidation, ErrCodeInvalidInput, message)
}

// NewAuthError reports a missing or invalid session.
func NewAuthError(message string) *Error {
	return newError(KindAuth, ErrCodeUnauthorized, message)
}

// NewAccessDeniedError reports an authenticated caller without the required role or subscription.
func NewAccessDeniedError(code, message string) *Error {
	return newError(KindAccessDenied, code, message)
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(message string) *Error {
	return newError(KindNotFound, ErrCodeNotFound, message)
}

// NewConflictError reports an operation not allowed in the current state.
func NewConflictError(message string) *Error {
	return newError(KindConflict, ErrCodeConflict, message)
}

// NewUnavailableError reports an optional collaborator that is not configured.
func NewUnavailableError(message string) *Error {
	return newError(KindUnavailable, ErrCodeServiceUnavailable, message)
}

// Store wraps a datastore failure.
func Store(op string, err error) error {
	return &Error{Kind: KindStore, Code: ErrCodeInternalError, Message: op, Err: err}
}

// Provider wraps an identity, payment or report provider failure.
func Provider(op string, err error) error {
	return &Error{Kind: KindProvider, Code: ErrCodeProviderError, Message: op, Err: err}
}

// KindOf returns the kind of the first classified error in the chain, or
// an empty Kind for unclassified errors.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Respond records err on the gin context for the request logger and writes
// the matching JSON error response. Store and unclassified failures never
// leak their cause to the client.
func Respond(c *gin.Context, err error) {
	_ = c.Error(err)

	var e *Error
	if !stderrors.As(err, &e) {
		InternalError(c, "")
		return
	}

	switch e.Kind {
	case KindValidation:
		BadRequest(c, e.Message)
	case KindAuth:
		RespondWithError(c, http.StatusUnauthorized, NewAPIError(e.Code, e.Message))
	case KindAccessDenied:
		if e.Code == ErrCodeSubscriptionRequired {
			SubscriptionRequired(c)
			return
		}
		Forbidden(c, e.Message)
	case KindNotFound:
		NotFound(c, e.Message)
	case KindConflict:
		Conflict(c, e.Message)
	case KindProvider:
		BadGateway(c, e.Message)
	case KindUnavailable:
		ServiceUnavailable(c, e.Message)
	default:
		InternalError(c, "")
	}
}
