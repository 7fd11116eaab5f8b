package container

import (
	"fmt"
	"strings"
)

// UnregisteredTypeError is returned when a token is resolved without a prior
// registration. It usually means a suite's registration hook is incomplete,
// so it should surface during suite setup rather than mid-test.
type UnregisteredTypeError struct {
	Token string
}

func (e *UnregisteredTypeError) Error() string {
	return fmt.Sprintf("no service registered for token %q", e.Token)
}

// CircularDependencyError is returned when a factory's dependency chain
// leads back to a token that is already being constructed. Cycle holds the
// full chain, ending with the repeated token.
type CircularDependencyError struct {
	Cycle []string
}

func (e *CircularDependencyError) Error() string {
	return fmt.Sprintf("circular dependency: %s", strings.Join(e.Cycle, " -> "))
}
