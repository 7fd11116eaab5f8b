package request

import (
	"net/http"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

// Envelope is the uniform wrapper around a completed HTTP exchange. Data is
// the body decoded into the shape the caller declared when sending, or nil
// when the body was empty or could not be decoded; RawBody always holds the
// bytes that came over the wire.
type Envelope[T any] struct {
	StatusCode int
	Data       *T
	Header     http.Header
	RawBody    []byte
}

// OK reports whether the status is in the 2xx range. A non-OK envelope is
// still a successful framework operation; negative-path tests assert on it
// directly.
func (e *Envelope[T]) OK() bool {
	return e.StatusCode >= 200 && e.StatusCode < 300
}

// BodyValue parses the raw body as arbitrary JSON, for loose inspection of
// payloads that have no declared shape (error bodies, debug assertions).
// Invalid or empty JSON yields ldvalue.Null().
func (e *Envelope[T]) BodyValue() ldvalue.Value {
	if len(e.RawBody) == 0 {
		return ldvalue.Null()
	}
	return ldvalue.Parse(e.RawBody)
}
