package framework

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultsAccumulatePassAndFail(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "passes", func(c *Context) {})
		c.RunCase("TEST-2", "fails", func(c *Context) {
			c.Errorf("expected 200, got 500")
		})
	})

	assert.False(t, results.OK())
	require.Len(t, results.Tests, 2)
	require.Len(t, results.Failures, 1)
	assert.Equal(t, "TEST-2", results.Failures[0].TestID.Identifier)
	assert.EqualError(t, results.Failures[0].Errors[0], "expected 200, got 500")
	assert.Equal(t, 1, results.PassedCount())
}

func TestFailNowStopsTheTestBody(t *testing.T) {
	reached := false
	results := Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "aborts", func(c *Context) {
			c.Errorf("fatal mismatch")
			c.FailNow()
			reached = true
		})
	})

	assert.False(t, reached)
	require.Len(t, results.Failures, 1)
}

func TestFailNowWithoutMessageRecordsPlaceholder(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "aborts silently", func(c *Context) {
			c.FailNow()
		})
	})

	require.Len(t, results.Failures, 1)
	require.Len(t, results.Failures[0].Errors, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "no failure message")
}

func TestUnexpectedPanicIsRecordedAsFailure(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "panics", func(c *Context) {
			panic(errors.New("nil pointer somewhere"))
		})
	})

	require.Len(t, results.Failures, 1)
	assert.Contains(t, results.Failures[0].Errors[0].Error(), "unexpected panic")
}

func TestSkippedTestsAreNotFailures(t *testing.T) {
	results := Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "skips", func(c *Context) {
			c.SkipWithReason("capability not supported")
		})
	})

	assert.True(t, results.OK())
	assert.Empty(t, results.Tests)
	require.Len(t, results.Skipped, 1)
	assert.Equal(t, "capability not supported", results.Skipped[0].SkipReason)
}

func TestFilterExcludesTests(t *testing.T) {
	ran := []string{}
	filter := IdentifierFilter([]string{"TEST-2"})
	results := Run(filter, nil, func(c *Context) {
		c.RunCase("TEST-1", "one", func(c *Context) { ran = append(ran, "one") })
		c.RunCase("TEST-2", "two", func(c *Context) { ran = append(ran, "two") })
	})

	assert.Equal(t, []string{"two"}, ran)
	require.Len(t, results.Skipped, 1)
	assert.Equal(t, "TEST-1", results.Skipped[0].TestID.Identifier)
}

func TestSubtestsInheritTheCaseIdentifier(t *testing.T) {
	var childID TestID
	Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-9", "parent", func(c *Context) {
			c.Run("child", func(c *Context) {
				childID = c.ID()
			})
		})
	})

	assert.Equal(t, "TEST-9", childID.Identifier)
	assert.Equal(t, []string{"parent", "child"}, childID.Path)
	assert.Equal(t, "TEST-9 parent/child", childID.String())
}

func TestDeferredCleanupsRunInReverseOrderEvenOnFailure(t *testing.T) {
	order := []string{}
	Run(nil, nil, func(c *Context) {
		c.RunCase("TEST-1", "fails with cleanups", func(c *Context) {
			c.Defer(func() { order = append(order, "first") })
			c.Defer(func() { order = append(order, "second") })
			c.Errorf("boom")
			c.FailNow()
		})
	})

	assert.Equal(t, []string{"second", "first"}, order)
}

func TestDebugOutputIsCapturedPerTest(t *testing.T) {
	logger := &recordingTestLogger{}
	Run(nil, logger, func(c *Context) {
		c.RunCase("TEST-1", "logs", func(c *Context) {
			c.Debug("sent request to %s", "/users")
		})
	})

	require.Len(t, logger.finished, 1)
	require.Len(t, logger.finished[0].output, 1)
	assert.Equal(t, "sent request to /users", logger.finished[0].output[0].Message)
}
