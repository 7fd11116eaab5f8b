package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/qaforge/apiharness/logging"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context carries the state of one executing test: its identifier, captured
// debug output, accumulated errors, and deferred cleanups. Failure is
// signalled by panicking with the context itself, which the runner recovers;
// this keeps test bodies free of explicit early returns after FailNow.
type Context struct {
	env         *environment
	id          TestID
	debugLogger logging.CapturingLogger
	failed      bool
	skipped     bool
	skipReason  string
	errors      []error
	cleanups    []func()
}

// Run executes action under a fresh root context and returns the
// accumulated results. Individual tests are started with Context.Run or
// Context.RunCase inside the action.
func Run(filter Filter, testLogger TestLogger, action func(*Context)) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.runProtected(action)
	return env.results
}

func (c *Context) runProtected(action func(*Context)) {
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				c.runCleanups()
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		c.runCleanups()
		if c.id.Identifier == "" && len(c.id.Path) == 0 {
			// The root context only hosts RunCase calls; it is not itself a test.
			return
		}
		result := TestResult{TestID: c.id, Errors: c.errors, Duration: time.Since(started)}
		c.env.results.Tests = append(c.env.results.Tests, result)
		if c.failed {
			c.env.results.Failures = append(c.env.results.Failures, result)
		}
	}()

	action(c)
}

func (c *Context) runCleanups() {
	for i := len(c.cleanups) - 1; i >= 0; i-- {
		c.cleanups[i]()
	}
	c.cleanups = nil
}

func (c *Context) ID() TestID { return c.id }

// Run executes a subtest. The child inherits this context's identifier and
// extends its path.
func (c *Context) Run(name string, action func(*Context)) {
	c.runChild(TestID{Identifier: c.id.Identifier, Path: append(append([]string(nil), c.id.Path...), name)}, action)
}

// RunCase executes a top-level test case under its declared identifier.
func (c *Context) RunCase(identifier, name string, action func(*Context)) {
	c.runChild(TestID{Identifier: identifier, Path: append(append([]string(nil), c.id.Path...), name)}, action)
}

func (c *Context) runChild(id TestID, action func(*Context)) {
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		c.env.results.Skipped = append(c.env.results.Skipped, TestResult{
			TestID: id, Skipped: true, SkipReason: "excluded by filter parameters",
		})
		return
	}
	c.env.testLogger.TestStarted(id)
	c1 := &Context{
		id:  id,
		env: c.env,
	}
	c1.runProtected(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
		c.env.results.Skipped = append(c.env.results.Skipped, TestResult{
			TestID: id, Skipped: true, SkipReason: c1.skipReason,
		})
	} else {
		c.env.testLogger.TestFinished(id, c1.failed, c1.debugLogger.Output())
	}
}

// Errorf records a failure and keeps the test running.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow stops the test immediately. The test is marked failed; if no
// error was recorded first, a placeholder message is attached.
func (c *Context) FailNow() {
	c.failed = true
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Defer schedules fn to run when the test finishes, in reverse order of
// registration, whether the test passes, fails, or is skipped.
func (c *Context) Defer(fn func()) {
	c.cleanups = append(c.cleanups, fn)
}

// Debug writes to the test's captured debug output.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

// DebugLogger exposes the capturing logger so that other components (such
// as the request dispatcher's log bridge) can write into the test's output.
func (c *Context) DebugLogger() logging.Logger {
	return &c.debugLogger
}
