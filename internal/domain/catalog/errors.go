package catalog

import (
	"errors"
	"fmt"
)

// Kind classifies a store API failure.
type Kind string

const (
	// KindAuth marks rejected or missing credentials.
	KindAuth Kind = "AUTH"
	// KindNotFound marks a lookup for an identifier the store does not know.
	KindNotFound Kind = "NOT_FOUND"
	// KindAPI marks any other non-success status from the store.
	KindAPI Kind = "API"
	// KindNetwork marks transport failures before a status was received.
	KindNetwork Kind = "NETWORK"
)

// StoreError is the typed failure returned by StoreClient implementations.
type StoreError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *StoreError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Kind, e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// NewStoreError builds a StoreError with an optional cause.
func NewStoreError(kind Kind, message string, err error) *StoreError {
	return &StoreError{Kind: kind, Message: message, Err: err}
}

// IsAuth reports whether err is a credential failure.
func IsAuth(err error) bool { return hasKind(err, KindAuth) }

// IsNotFound reports whether err is an unknown-identifier failure.
func IsNotFound(err error) bool { return hasKind(err, KindNotFound) }

// IsAPI reports whether err is a non-success store response.
func IsAPI(err error) bool { return hasKind(err, KindAPI) }

// IsNetwork reports whether err is a transport failure.
func IsNetwork(err error) bool { return hasKind(err, KindNetwork) }

func hasKind(err error, kind Kind) bool {
	var se *StoreError
	return errors.As(err, &se) && se.Kind == kind
}
