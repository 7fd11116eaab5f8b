package framework

import "github.com/qaforge/apiharness/logging"

// TestLogger receives per-test lifecycle events. The console implementation
// lives with the CLI; a reporting collaborator can provide its own.
type TestLogger interface {
	TestStarted(id TestID)
	TestError(id TestID, err error)
	TestFinished(id TestID, failed bool, debugOutput logging.CapturedOutput)
	TestSkipped(id TestID, reason string)
}

type nullTestLogger struct{}

func (n nullTestLogger) TestStarted(TestID)                                {}
func (n nullTestLogger) TestError(TestID, error)                           {}
func (n nullTestLogger) TestFinished(TestID, bool, logging.CapturedOutput) {}
func (n nullTestLogger) TestSkipped(TestID, string)                        {}

func NullTestLogger() TestLogger { return nullTestLogger{} }
