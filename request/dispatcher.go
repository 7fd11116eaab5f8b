// Package request implements the typed request builder. A Dispatcher holds
// the active environment's base URL and HTTP client; clients start a Builder
// from it, stage the method, resource, headers, and payload, and call Send
// with the response shape they expect.
package request

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/qaforge/apiharness/logging"
)

const defaultRequestTimeout = 30 * time.Second

// Dispatcher performs the network calls for every builder started from it.
// One dispatcher per worker is the normal arrangement, registered as a
// singleton in the worker's container.
type Dispatcher struct {
	baseURL       string
	httpClient    *http.Client
	defaultHeader http.Header
	logger        *slog.Logger
}

// DispatcherOption configures a Dispatcher at construction time.
type DispatcherOption func(*Dispatcher)

// WithHTTPClient substitutes the underlying HTTP client, typically to set a
// transport-level timeout or to point tests at a stub transport.
func WithHTTPClient(client *http.Client) DispatcherOption {
	return func(d *Dispatcher) { d.httpClient = client }
}

// WithLogger sets the structured logger that receives one record per
// request/response exchange.
func WithLogger(logger *slog.Logger) DispatcherOption {
	return func(d *Dispatcher) { d.logger = logger }
}

// WithDefaultHeader adds a header applied to every request started from
// this dispatcher. Per-request headers with the same name win.
func WithDefaultHeader(name, value string) DispatcherOption {
	return func(d *Dispatcher) { d.defaultHeader.Set(name, value) }
}

func NewDispatcher(baseURL string, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		baseURL:       strings.TrimRight(baseURL, "/"),
		httpClient:    &http.Client{Timeout: defaultRequestTimeout},
		defaultHeader: make(http.Header),
		logger:        logging.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) BaseURL() string { return d.baseURL }
