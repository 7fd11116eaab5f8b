package suite

import (
	"fmt"
	"sync"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/container"
	"github.com/qaforge/apiharness/framework"
	"github.com/qaforge/apiharness/harness"
)

// Options configures one suite run.
type Options struct {
	// Workers is the number of parallel workers; zero or one means
	// sequential execution. Each worker gets its own container.
	Workers int

	// Filter selects which cases run; nil runs everything.
	Filter framework.Filter

	// TestLogger receives lifecycle events. With more than one worker it
	// must tolerate concurrent calls.
	TestLogger framework.TestLogger

	// Environment is the active target environment, passed to the suite's
	// registration hook.
	Environment config.Environment

	// Harness provides capability queries to tests; may be nil.
	Harness *harness.Harness
}

// Run executes the suite's cases and returns the merged results. Container
// misconfiguration (a registration hook failing) is reported as an error
// before any test runs, rather than as a test failure mid-run.
func Run(s *Suite, opts Options) (framework.Results, error) {
	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}
	cases := s.Cases()
	if workers > len(cases) && len(cases) > 0 {
		workers = len(cases)
	}

	// Round-robin partition keeps declaration order within each worker.
	partitions := make([][]Case, workers)
	for i, tc := range cases {
		partitions[i%workers] = append(partitions[i%workers], tc)
	}

	// Build every worker's container up front so that registration problems
	// abort the run before a single test has started.
	containers := make([]*container.Container, workers)
	for i := range containers {
		c := container.New()
		if s.register != nil {
			if err := s.register(c, opts.Environment); err != nil {
				return framework.Results{}, fmt.Errorf("suite %q registration failed: %w", s.Name, err)
			}
		}
		containers[i] = c
	}

	workerResults := make([]framework.Results, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			workerResults[i] = runPartition(partitions[i], containers[i], opts)
		}(i)
	}
	wg.Wait()

	merged := framework.Results{}
	for _, r := range workerResults {
		merged = merged.Merge(r)
	}
	return merged, nil
}

func runPartition(cases []Case, c *container.Container, opts Options) framework.Results {
	return framework.Run(opts.Filter, opts.TestLogger, func(root *framework.Context) {
		for _, tc := range cases {
			tc := tc
			root.RunCase(tc.ID, tc.Name, func(fc *framework.Context) {
				tc.Run(&T{Context: fc, container: c, harness: opts.Harness})
			})
		}
	})
}
