package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAuth                = errors.New("authentication failed")
	ErrNetwork             = errors.New("network failure")
	ErrPermissionDenied    = errors.New("permission denied")
	ErrConcurrencyConflict = errors.New("concurrency conflict")
	ErrRemoteRejected      = errors.New("rejected by server")
	ErrStaleSession        = errors.New("session destroyed")

	ErrActionPending     = errors.New("action already in flight")
	ErrClassNotStarted   = errors.New("class has not started")
	ErrNotEntered        = errors.New("class not entered")
	ErrMemberNotFound    = errors.New("member not found")
	ErrCaptureDenied     = errors.New("screen capture consent denied")
	ErrInvalidCapability = errors.New("invalid capability")
)

// Server codes with a dedicated meaning.
const (
	CodeOK                   = 0
	CodeUnauthorized         = 401
	CodeForbidden            = 403
	CodeStreamConcurrencyOut = 1017
)

// RemoteError is a failure reported by a backend service. Kind is one of the
// sentinel errors above so callers can branch with errors.Is.
type RemoteError struct {
	Code    int
	Message string
	Kind    error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%v: code=%d %s", e.Kind, e.Code, e.Message)
}

func (e *RemoteError) Unwrap() error { return e.Kind }

// NewRemoteError classifies a server code.
func NewRemoteError(code int, msg string) *RemoteError {
	kind := ErrRemoteRejected
	switch code {
	case CodeUnauthorized, CodeForbidden:
		kind = ErrAuth
	case CodeStreamConcurrencyOut:
		kind = ErrConcurrencyConflict
	}
	return &RemoteError{Code: code, Message: msg, Kind: kind}
}
