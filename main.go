package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/qaforge/apiharness/config"
	"github.com/qaforge/apiharness/framework"
	"github.com/qaforge/apiharness/harness"
	"github.com/qaforge/apiharness/logging"
	"github.com/qaforge/apiharness/report"
	"github.com/qaforge/apiharness/suite"
	"github.com/qaforge/apiharness/suites/usersapi"
)

const statusQueryTimeout = 10 * time.Second

type commandParams struct {
	configPath string
	envName    string
	filters    framework.RegexFilters
	workers    int
	debug      bool
	debugAll   bool
	reportPath string
	noNotify   bool
}

// allSuites lists the suites compiled into this binary. Suites register
// themselves here explicitly; there is no annotation scanning.
func allSuites() []*suite.Suite {
	return []*suite.Suite{
		usersapi.Suite(),
	}
}

func main() {
	var params commandParams

	cmd := &cobra.Command{
		Use:   "run-tests [identifier...]",
		Short: "Run API test suites against a configured environment",
		Long: `run-tests executes the compiled-in API test suites against the active
environment from the configuration file. With one or more identifiers
(for example TEST-104), only the matching test cases run.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(params, args)
		},
	}

	cmd.Flags().StringVar(&params.configPath, "config", "harness.yaml", "path to the harness configuration file")
	cmd.Flags().StringVar(&params.envName, "env", "", "target environment name (defaults to the config file's default)")
	cmd.Flags().Var(&params.filters.MustMatch, "run", "regex pattern(s) to select tests to run")
	cmd.Flags().Var(&params.filters.MustNotMatch, "skip", "regex pattern(s) to select tests not to run")
	cmd.Flags().IntVar(&params.workers, "workers", 1, "number of parallel test workers")
	cmd.Flags().BoolVar(&params.debug, "debug", false, "show debug logging for failed tests")
	cmd.Flags().BoolVar(&params.debugAll, "debug-all", false, "show debug logging for all tests")
	cmd.Flags().StringVar(&params.reportPath, "report", "", "write a JSON report to this path (overrides the config file)")
	cmd.Flags().BoolVar(&params.noNotify, "no-notify", false, "skip configured post-run notifications")

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runTests(params commandParams, identifiers []string) error {
	cfg, err := config.Load(params.configPath)
	if err != nil {
		return err
	}
	env, err := cfg.ActiveEnvironment(params.envName)
	if err != nil {
		return err
	}

	appLogger := logging.NewAppLogger(slog.LevelWarn)
	if params.debugAll {
		appLogger = logging.NewAppLogger(slog.LevelDebug)
	}

	h, err := harness.New(env, statusQueryTimeout, nil, os.Stdout)
	if err != nil {
		return fmt.Errorf("target service error: %w", err)
	}

	filter := framework.AllOf(params.filters.AsFilter, identifierFilter(identifiers))
	testLogger := &ConsoleTestLogger{
		DebugOutputOnFailure: params.debug || params.debugAll,
		DebugOutputOnSuccess: params.debugAll,
	}

	fmt.Printf("Running test suites against %q (%s)\n\n", env.Name, env.BaseURL)

	startedAt := time.Now()
	results := framework.Results{}
	for _, s := range allSuites() {
		suiteResults, err := suite.Run(s, suite.Options{
			Workers:     params.workers,
			Filter:      filter,
			TestLogger:  testLogger,
			Environment: env,
			Harness:     h,
		})
		if err != nil {
			// Container misconfiguration fails the whole run at setup.
			return err
		}
		results = results.Merge(suiteResults)
	}
	finishedAt := time.Now()

	printResultsSummary(results)

	runReport := report.Build("apiharness", env.Name, results, startedAt, finishedAt)
	reportPath := params.reportPath
	if reportPath == "" {
		reportPath = cfg.Report.Path
	}
	if reportPath != "" {
		if err := runReport.WriteFile(reportPath); err != nil {
			appLogger.Error("could not write report", "path", reportPath, "error", err)
		} else {
			fmt.Printf("\nReport written to %s\n", reportPath)
		}
	}

	if !params.noNotify {
		for _, n := range report.NotifiersFromSettings(cfg.Notify) {
			if err := n.Notify(context.Background(), runReport); err != nil {
				appLogger.Error("notification failed", "notifier", n.Name(), "error", err)
			}
		}
	}

	if !results.OK() {
		fmt.Printf("\nTo re-run only the failed tests:\n  %s\n", rerunCommand("run-tests", env.Name, results))
		os.Exit(1)
	}
	return nil
}

func identifierFilter(identifiers []string) framework.Filter {
	if len(identifiers) == 0 {
		return nil
	}
	return framework.IdentifierFilter(identifiers)
}
