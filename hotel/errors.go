package hotel

import (
	"errors"
	"fmt"
)

// ErrorKind classifies what went wrong with a backend call.
type ErrorKind int

const (
	// ErrUnknown is the fallback for anything the client cannot classify.
	ErrUnknown ErrorKind = iota
	// ErrInvalidRequest means the backend rejected the input; the backend
	// message is passed through verbatim.
	ErrInvalidRequest
	// ErrUnauthorized covers 401/403. Raising it clears the session.
	ErrUnauthorized
	// ErrNotFound means the resource does not exist (unknown room id,
	// unknown confirmation code).
	ErrNotFound
	// ErrNetwork is a transport failure; the user may simply retry.
	ErrNetwork
)

func (k ErrorKind) String() string {
	switch k {
	case ErrInvalidRequest:
		return "invalid request"
	case ErrUnauthorized:
		return "unauthorized"
	case ErrNotFound:
		return "not found"
	case ErrNetwork:
		return "network"
	default:
		return "unknown"
	}
}

// APIError is the uniform failure shape every client operation returns.
type APIError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *APIError) Unwrap() error { return e.Err }

// Retryable reports whether simply repeating the call can help.
func (e *APIError) Retryable() bool { return e.Kind == ErrNetwork }

// KindOf extracts the ErrorKind from err, or ErrUnknown when err is not an
// *APIError.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ErrUnknown
}
