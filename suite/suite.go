// Package suite ties the pieces together for suite authors: a Suite is a
// named collection of identifier-tagged test cases plus a registration hook
// that wires the suite's clients and actions into a container. The runner
// gives each worker its own container, so helper objects are never shared
// across workers.
package suite

import (
	"log/slog"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/container"
	"github.com/qaforge/apiharness/framework"
	"github.com/qaforge/apiharness/harness"
	"github.com/qaforge/apiharness/logging"
	"github.com/qaforge/apiharness/request"
)

// DispatcherToken is the container token under which the request dispatcher
// is registered. Clients resolve it instead of constructing dispatchers
// themselves.
const DispatcherToken = "request.dispatcher"

// RegisterHook wires a suite's services into a fresh container. It runs
// once per worker, before any of the worker's cases.
type RegisterHook func(c *container.Container, env config.Environment) error

// Case is one test case with its declared identifier (for selective
// execution and report cross-referencing).
type Case struct {
	ID   string
	Name string
	Run  func(*T)
}

type Suite struct {
	Name     string
	register RegisterHook
	cases    []Case
}

func New(name string, register RegisterHook) *Suite {
	return &Suite{Name: name, register: register}
}

// Add appends a test case. Identifiers are expected to be unique within a
// run; the runner does not enforce this, but selection behavior with
// colliding identifiers is undefined.
func (s *Suite) Add(id, name string, run func(*T)) *Suite {
	s.cases = append(s.cases, Case{ID: id, Name: name, Run: run})
	return s
}

func (s *Suite) Cases() []Case {
	return append([]Case(nil), s.cases...)
}

// T is the context handed to suite test cases. It embeds the framework
// context (so testify assertions work against it directly) and gives access
// to the worker's container and the harness.
type T struct {
	*framework.Context
	container *container.Container
	harness   *harness.Harness
}

// Container returns the worker's service container. Tests may re-register
// tokens to substitute mocks; the replacement is visible to this worker
// only.
func (t *T) Container() *container.Container {
	return t.container
}

// Harness returns the harness for capability queries, or nil when the
// runner was started without one (as in unit tests).
func (t *T) Harness() *harness.Harness {
	return t.harness
}

// RequireCapability skips the test unless the target service declared the
// named capability.
func (t *T) RequireCapability(name string) {
	if t.harness == nil || !t.harness.HasCapability(name) {
		t.SkipWithReason("target service does not support capability " + name)
	}
}

// RequestLogger returns a structured logger that writes into this test's
// captured debug output. Tests that re-register the dispatcher can pass it
// via request.WithLogger to attach wire logs to their own output.
func (t *T) RequestLogger() *slog.Logger {
	return slog.New(logging.NewCaptureHandler(t.DebugLogger()))
}

// Resolve is a convenience for resolving a typed service from a test's
// container, failing the test on any container error.
func Resolve[S any](t *T, token string) S {
	s, err := container.Resolve[S](t.Container(), token)
	if err != nil {
		t.Errorf("could not resolve service %q: %s", token, err)
		t.FailNow()
	}
	return s
}

// RegisterCoreServices wires the request dispatcher for an environment into
// a container. Suites normally call this first in their registration hook.
func RegisterCoreServices(c *container.Container, env config.Environment, logger *slog.Logger) {
	c.RegisterSingleton(DispatcherToken, func(container.Resolver) (interface{}, error) {
		opts := []request.DispatcherOption{}
		if logger != nil {
			opts = append(opts, request.WithLogger(logger))
		}
		for name, value := range env.Headers {
			opts = append(opts, request.WithDefaultHeader(name, value))
		}
		return request.NewDispatcher(env.BaseURL, opts...), nil
	})
}
