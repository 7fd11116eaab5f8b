// Package container implements the service container used to wire test
// helper objects. Clients and actions are registered under string tokens
// with an explicit lifetime, and are resolved on demand; factories may
// resolve their own dependencies recursively through the Resolver they are
// handed.
package container

import (
	"fmt"
	"sync"
)

// Lifetime controls how instances produced by a factory are shared.
type Lifetime int

const (
	// Singleton constructs one instance on first resolution and returns it
	// for every subsequent resolution until the token is re-registered or
	// the container is reset.
	Singleton Lifetime = iota

	// Transient constructs a fresh instance on every resolution.
	Transient
)

func (l Lifetime) String() string {
	switch l {
	case Singleton:
		return "singleton"
	case Transient:
		return "transient"
	default:
		return fmt.Sprintf("Lifetime(%d)", int(l))
	}
}

// Resolver is the view of the container that factories receive. Resolving
// through it (rather than through the Container directly) is what lets the
// container detect dependency cycles.
type Resolver interface {
	Resolve(token string) (interface{}, error)
}

// Factory constructs one service instance, resolving any dependencies it
// needs through r.
type Factory func(r Resolver) (interface{}, error)

type descriptor struct {
	token    string
	lifetime Lifetime
	factory  Factory

	once     sync.Once
	instance interface{}
	err      error
}

// Container is a registry of service descriptors plus a cache of constructed
// singletons. Each test worker owns its own Container; a Container is safe
// for concurrent use within a worker.
type Container struct {
	lock        sync.Mutex
	descriptors map[string]*descriptor
}

func New() *Container {
	return &Container{descriptors: make(map[string]*descriptor)}
}

// Register adds or replaces the descriptor for token. Replacing an existing
// registration discards any cached singleton instance for that token, so a
// test can substitute a mock and get it on the next resolution.
func (c *Container) Register(token string, lifetime Lifetime, factory Factory) {
	c.lock.Lock()
	c.descriptors[token] = &descriptor{token: token, lifetime: lifetime, factory: factory}
	c.lock.Unlock()
}

// RegisterSingleton is shorthand for Register with the Singleton lifetime.
func (c *Container) RegisterSingleton(token string, factory Factory) {
	c.Register(token, Singleton, factory)
}

// RegisterTransient is shorthand for Register with the Transient lifetime.
func (c *Container) RegisterTransient(token string, factory Factory) {
	c.Register(token, Transient, factory)
}

// Resolve returns an instance for token according to its registered
// lifetime.
func (c *Container) Resolve(token string) (interface{}, error) {
	return (&session{container: c}).Resolve(token)
}

// Reset discards all cached singleton instances while keeping the
// registrations. It is intended for teardown between independent test runs
// that reuse one process.
func (c *Container) Reset() {
	c.lock.Lock()
	for token, d := range c.descriptors {
		c.descriptors[token] = &descriptor{token: token, lifetime: d.lifetime, factory: d.factory}
	}
	c.lock.Unlock()
}

// Tokens returns the registered tokens, for diagnostics.
func (c *Container) Tokens() []string {
	c.lock.Lock()
	defer c.lock.Unlock()
	ret := make([]string, 0, len(c.descriptors))
	for token := range c.descriptors {
		ret = append(ret, token)
	}
	return ret
}

func (c *Container) lookup(token string) *descriptor {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.descriptors[token]
}

// session tracks the chain of tokens being resolved within one top-level
// Resolve call. The chain is what turns infinite recursion into a
// CircularDependencyError naming the cycle.
type session struct {
	container *Container
	stack     []string
}

func (s *session) Resolve(token string) (interface{}, error) {
	for _, t := range s.stack {
		if t == token {
			return nil, &CircularDependencyError{Cycle: append(append([]string(nil), s.stack...), token)}
		}
	}

	d := s.container.lookup(token)
	if d == nil {
		return nil, &UnregisteredTypeError{Token: token}
	}

	child := &session{container: s.container, stack: append(append([]string(nil), s.stack...), token)}

	switch d.lifetime {
	case Transient:
		return d.factory(child)
	default:
		// The container lock is not held here, so a factory is free to
		// resolve its own dependencies. Concurrent first resolutions of the
		// same singleton token all wait on the same once and observe one
		// construction.
		d.once.Do(func() {
			d.instance, d.err = d.factory(child)
		})
		return d.instance, d.err
	}
}

// Resolve is the typed counterpart of Container.Resolve.
func Resolve[T any](c *Container, token string) (T, error) {
	value, err := c.Resolve(token)
	return as[T](token, value, err)
}

// ResolveAs resolves a dependency through a factory's Resolver with a typed
// result.
func ResolveAs[T any](r Resolver, token string) (T, error) {
	value, err := r.Resolve(token)
	return as[T](token, value, err)
}

func as[T any](token string, value interface{}, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	typed, ok := value.(T)
	if !ok {
		return zero, fmt.Errorf("service %q resolved to %T, which is not the requested type %T", token, value, zero)
	}
	return typed, nil
}
