// Package framework contains the generic test-execution machinery that is
// reusable for any kind of API test suite.
//
// The general model is:
//
// 1. A test case is a function receiving a Context, which works like a
// minimal *testing.T: it accumulates errors, supports FailNow/Skip via
// panic-and-recover, and captures per-test debug output.
//
// 2. Every test has a TestID combining a stable identifier (the TEST-n
// convention used for selective execution and report cross-referencing)
// with a readable name path. Filters select tests by regex over the full
// name or by exact identifier.
//
// 3. A run produces Results: per-test outcomes with durations, from which
// the CLI derives its exit code and the report package its artifacts.
//
// The code that knows what is being tested lives above this package: the
// suite layer supplies containers and clients, and the domain suites supply
// the cases themselves.
package framework
