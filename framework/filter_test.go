package framework

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qaforge/apiharness/logging"
)

type finishedTest struct {
	id     TestID
	failed bool
	output logging.CapturedOutput
}

type recordingTestLogger struct {
	started  []TestID
	finished []finishedTest
	skipped  []TestID
}

func (l *recordingTestLogger) TestStarted(id TestID)      { l.started = append(l.started, id) }
func (l *recordingTestLogger) TestError(TestID, error)    {}
func (l *recordingTestLogger) TestSkipped(id TestID, reason string) {
	l.skipped = append(l.skipped, id)
}
func (l *recordingTestLogger) TestFinished(id TestID, failed bool, output logging.CapturedOutput) {
	l.finished = append(l.finished, finishedTest{id: id, failed: failed, output: output})
}

func TestRegexFiltersSelectByFullName(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("login"))
	require.NoError(t, filters.MustNotMatch.Set("slow"))

	assert.True(t, filters.AsFilter(TestID{Identifier: "TEST-1", Path: []string{"login succeeds"}}))
	assert.False(t, filters.AsFilter(TestID{Identifier: "TEST-2", Path: []string{"login is slow"}}))
	assert.False(t, filters.AsFilter(TestID{Identifier: "TEST-3", Path: []string{"signup"}}))
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
}

func TestEmptyMustMatchAcceptsEverything(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(TestID{Identifier: "TEST-1", Path: []string{"anything"}}))
}

func TestAllOfCombinesFilters(t *testing.T) {
	var filters RegexFilters
	require.NoError(t, filters.MustMatch.Set("users"))

	combined := AllOf(filters.AsFilter, IdentifierFilter([]string{"TEST-5"}))
	assert.True(t, combined(TestID{Identifier: "TEST-5", Path: []string{"users list"}}))
	assert.False(t, combined(TestID{Identifier: "TEST-6", Path: []string{"users list"}}))
	assert.False(t, combined(TestID{Identifier: "TEST-5", Path: []string{"orders list"}}))
}

func TestIdentifierFilterMatchesExactly(t *testing.T) {
	filter := IdentifierFilter([]string{"TEST-10"})
	assert.True(t, filter(TestID{Identifier: "TEST-10"}))
	assert.False(t, filter(TestID{Identifier: "TEST-100"}))
}
