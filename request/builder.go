package request

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const maxLoggedBodyBytes = 1024

var supportedMethods = map[string]bool{
	http.MethodGet:     true,
	http.MethodHead:    true,
	http.MethodPost:    true,
	http.MethodPut:     true,
	http.MethodPatch:   true,
	http.MethodDelete:  true,
	http.MethodOptions: true,
}

// bodilessMethods are the verbs for which an attached payload is a
// send-time error rather than being silently dropped.
var bodilessMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodHead:   true,
	http.MethodDelete: true,
}

// Builder stages one HTTP request. It is built incrementally and dispatched
// exactly once; a second Send on the same builder is rejected. Builders are
// not safe for concurrent use.
type Builder struct {
	dispatcher *Dispatcher
	method     string
	resource   string
	payload    interface{}
	hasPayload bool
	header     http.Header
	query      url.Values
	sent       bool
}

// NewRequest starts an empty builder bound to this dispatcher.
func (d *Dispatcher) NewRequest() *Builder {
	b := &Builder{
		dispatcher: d,
		header:     make(http.Header),
		query:      make(url.Values),
	}
	for name, values := range d.defaultHeader {
		for _, v := range values {
			b.header.Set(name, v)
		}
	}
	return b
}

// WithMethod sets the HTTP verb. It must be one of the supported methods;
// that is checked at send time so staging order never matters.
func (b *Builder) WithMethod(method string) *Builder {
	b.method = strings.ToUpper(method)
	return b
}

// WithResource sets the path that will be appended to the environment's
// base URL.
func (b *Builder) WithResource(path string) *Builder {
	b.resource = path
	return b
}

// WithPayload attaches a JSON-serializable request body. Attaching one to a
// GET, HEAD, or DELETE request makes Send fail with a BuildError.
func (b *Builder) WithPayload(payload interface{}) *Builder {
	b.payload = payload
	b.hasPayload = true
	return b
}

// WithHeader merges one header, overriding any prior value under the same
// name regardless of case.
func (b *Builder) WithHeader(name, value string) *Builder {
	b.header.Set(name, value)
	return b
}

// WithHeaders merges a set of headers with the same override semantics as
// WithHeader.
func (b *Builder) WithHeaders(headers map[string]string) *Builder {
	for name, value := range headers {
		b.header.Set(name, value)
	}
	return b
}

// WithQuery merges query-string parameters, overriding prior values with
// the same name.
func (b *Builder) WithQuery(params map[string]string) *Builder {
	for name, value := range params {
		b.query.Set(name, value)
	}
	return b
}

func (b *Builder) validate() *BuildError {
	if b.sent {
		return &BuildError{Reason: "request was already sent; build a new request instead of reusing the builder"}
	}
	if b.method == "" {
		return &BuildError{Reason: "no method was set"}
	}
	if !supportedMethods[b.method] {
		return &BuildError{Reason: "unsupported method " + b.method}
	}
	if b.resource == "" {
		return &BuildError{Reason: "no resource path was set"}
	}
	if b.hasPayload && bodilessMethods[b.method] {
		return &BuildError{Reason: "a payload is not allowed on " + b.method + " requests"}
	}
	return nil
}

func (b *Builder) targetURL() string {
	target := b.dispatcher.baseURL + "/" + strings.TrimLeft(b.resource, "/")
	if len(b.query) > 0 {
		target += "?" + b.query.Encode()
	}
	return target
}

// Send performs the call and returns the envelope with the body decoded
// into T. The exchange completing with any HTTP status is a success; only a
// transport-level problem returns a nil envelope, as a *TransportError. A
// body that cannot be decoded into T returns the envelope together with a
// *SerializationError.
func Send[T any](ctx context.Context, b *Builder) (*Envelope[T], error) {
	if err := b.validate(); err != nil {
		return nil, err
	}
	b.sent = true

	target := b.targetURL()

	var bodyReader io.Reader
	if b.hasPayload {
		data, err := json.Marshal(b.payload)
		if err != nil {
			return nil, &BuildError{Reason: "payload is not serializable: " + err.Error()}
		}
		bodyReader = bytes.NewReader(data)
		if b.header.Get("Content-Type") == "" {
			b.header.Set("Content-Type", "application/json")
		}
	}

	req, err := http.NewRequestWithContext(ctx, b.method, target, bodyReader)
	if err != nil {
		return nil, &BuildError{Reason: err.Error()}
	}
	for name, values := range b.header {
		req.Header[name] = values
	}

	d := b.dispatcher
	started := time.Now()
	resp, err := d.httpClient.Do(req)
	if err != nil {
		d.logger.ErrorContext(ctx, "request failed",
			slog.String("method", b.method),
			slog.String("url", target),
			slog.Duration("elapsed", time.Since(started)),
			slog.String("error", err.Error()),
		)
		return nil, &TransportError{Method: b.method, URL: target, Err: err}
	}

	rawBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, &TransportError{Method: b.method, URL: target, Err: err}
	}

	d.logger.InfoContext(ctx, "request completed",
		slog.String("method", b.method),
		slog.String("url", target),
		slog.Int("status", resp.StatusCode),
		slog.Duration("elapsed", time.Since(started)),
		slog.String("body", truncateForLog(rawBody)),
	)

	envelope := &Envelope[T]{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		RawBody:    rawBody,
	}
	if len(rawBody) == 0 {
		return envelope, nil
	}

	var data T
	if err := json.Unmarshal(rawBody, &data); err != nil {
		return envelope, &SerializationError{Err: err}
	}
	envelope.Data = &data
	return envelope, nil
}

func truncateForLog(body []byte) string {
	if len(body) > maxLoggedBodyBytes {
		return string(body[:maxLoggedBodyBytes]) + "...(truncated)"
	}
	return string(body)
}
