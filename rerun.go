package main

import (
	"strings"

	"github.com/alessio/shellescape"

	"github.com/qaforge/apiharness/framework"
)

type commandBuilder []string

func (b *commandBuilder) add(args ...string) {
	for _, a := range args {
		*b = append(*b, shellescape.Quote(a))
	}
}

func (b commandBuilder) String() string {
	return strings.Join(b, " ")
}

// rerunCommand builds the shell command that re-runs only the failed tests,
// so it can be pasted from the console after a partial failure.
func rerunCommand(executable string, envName string, results framework.Results) string {
	var b commandBuilder
	b.add(executable)
	if envName != "" {
		b.add("--env", envName)
	}
	seen := map[string]bool{}
	for _, f := range results.Failures {
		id := f.TestID.Identifier
		if id == "" || seen[id] {
			continue
		}
		seen[id] = true
		b.add(id)
	}
	return b.String()
}
