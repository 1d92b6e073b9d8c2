package provider

import (
	"errors"
	"fmt"
)

// ErrMissingCredential is reported when an adapter is asked to generate
// without an API key. The check happens before any network I/O.
var ErrMissingCredential = errors.New("missing provider credential")

// APIError is reported when the provider answers with a non-2xx status.
// Body carries the response body verbatim.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("unexpected status %d: %s", e.Status, e.Body)
}

// TransportError wraps a network-level failure: timeout, DNS, refused or
// reset connection, or a canceled context. It unwraps to the cause.
type TransportError struct {
	Cause error
}

func (e *TransportError) Error() string {
	return "transport: " + e.Cause.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// ParseError is reported when a 2xx response body does not carry the text
// fields the adapter expects. Raw preserves the body for diagnosis.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	return "unparseable response: " + e.Raw
}
