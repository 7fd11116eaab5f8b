package request

import "fmt"

// TransportError means the network exchange itself could not complete:
// DNS failure, refused connection, timeout, or context cancellation. It is
// the only failure for which Send returns no envelope. An HTTP error status
// is not a TransportError.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure on %s %s: %s", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// SerializationError means the response body could not be decoded into the
// declared shape. Send still returns the envelope, with Data unset and
// RawBody populated, so a test can inspect the status and raw payload.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("response body did not match the declared shape: %s", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// BuildError means the request was assembled incorrectly: missing or
// unsupported method, empty resource, a payload on a bodiless verb, or an
// attempt to send the same builder twice.
type BuildError struct {
	Reason string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("invalid request: %s", e.Reason)
}
