// Package report turns a run's results into artifacts for the outside
// world: a JSON report file for archiving and cross-referencing by test
// identifier, a console summary, and post-run notifications.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/qaforge/apiharness/framework"
)

type TestRecord struct {
	ID         string   `json:"id,omitempty"`
	Name       string   `json:"name"`
	Outcome    string   `json:"outcome"`
	Errors     []string `json:"errors,omitempty"`
	SkipReason string   `json:"skipReason,omitempty"`
	DurationMS int64    `json:"durationMs"`
}

type Report struct {
	Suite       string       `json:"suite"`
	Environment string       `json:"environment"`
	StartedAt   time.Time    `json:"startedAt"`
	FinishedAt  time.Time    `json:"finishedAt"`
	Passed      int          `json:"passed"`
	Failed      int          `json:"failed"`
	Skipped     int          `json:"skipped"`
	Tests       []TestRecord `json:"tests"`
}

func (r Report) OK() bool { return r.Failed == 0 }

// Summary is the one-line digest used for console output and notifications.
func (r Report) Summary() string {
	status := "PASSED"
	if !r.OK() {
		status = "FAILED"
	}
	return fmt.Sprintf("%s [%s] %s: %d passed, %d failed, %d skipped (%.1fs)",
		r.Suite, r.Environment, status, r.Passed, r.Failed, r.Skipped,
		r.FinishedAt.Sub(r.StartedAt).Seconds())
}

// Build converts framework results into a report.
func Build(suiteName string, envName string, results framework.Results, startedAt, finishedAt time.Time) Report {
	r := Report{
		Suite:       suiteName,
		Environment: envName,
		StartedAt:   startedAt,
		FinishedAt:  finishedAt,
		Passed:      results.PassedCount(),
		Failed:      len(results.Failures),
		Skipped:     len(results.Skipped),
	}
	failed := make(map[string]bool, len(results.Failures))
	for _, f := range results.Failures {
		failed[f.TestID.String()] = true
	}
	for _, tr := range results.Tests {
		record := TestRecord{
			ID:         tr.TestID.Identifier,
			Name:       tr.TestID.String(),
			Outcome:    "passed",
			DurationMS: tr.Duration.Milliseconds(),
		}
		if failed[tr.TestID.String()] {
			record.Outcome = "failed"
			for _, err := range tr.Errors {
				record.Errors = append(record.Errors, err.Error())
			}
		}
		r.Tests = append(r.Tests, record)
	}
	for _, tr := range results.Skipped {
		r.Tests = append(r.Tests, TestRecord{
			ID:         tr.TestID.Identifier,
			Name:       tr.TestID.String(),
			Outcome:    "skipped",
			SkipReason: tr.SkipReason,
		})
	}
	return r
}

// WriteFile writes the report as indented JSON, creating parent directories
// as needed.
func (r Report) WriteFile(path string) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// Write dumps the report JSON to a writer.
func (r Report) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}
