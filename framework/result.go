package framework

import (
	"fmt"
	"strings"
	"time"
)

// TestID identifies a test within a run. Identifier is the stable,
// cross-referenceable identifier a case declares (for example "TEST-1234");
// Path is the human-readable nesting of suite and subtest names.
type TestID struct {
	Identifier string
	Path       []string
}

func (t TestID) String() string {
	name := strings.Join(t.Path, "/")
	if t.Identifier == "" {
		return name
	}
	if name == "" {
		return t.Identifier
	}
	return fmt.Sprintf("%s %s", t.Identifier, name)
}

type TestResult struct {
	TestID     TestID
	Errors     []error
	Skipped    bool
	SkipReason string
	Duration   time.Duration
}

type Results struct {
	Tests    []TestResult
	Failures []TestResult
	Skipped  []TestResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r Results) PassedCount() int {
	return len(r.Tests) - len(r.Failures)
}

// Merge combines results from several workers into one.
func (r Results) Merge(other Results) Results {
	return Results{
		Tests:    append(append([]TestResult(nil), r.Tests...), other.Tests...),
		Failures: append(append([]TestResult(nil), r.Failures...), other.Failures...),
		Skipped:  append(append([]TestResult(nil), r.Skipped...), other.Skipped...),
	}
}

type TestFailure struct {
	ID  TestID
	Err error
}

func (f TestFailure) Error() string {
	return fmt.Sprintf("[%s]: %s", f.ID, f.Err)
}
