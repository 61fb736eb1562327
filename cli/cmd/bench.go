package cmd

import (
	"github.com/urfave/cli/v2"

	"github.com/justapithecus/pathbench/types"
)

// defaultBenchQueries is the query count of a benchmark run.
const defaultBenchQueries = 1000

// BenchCommand returns the bench command.
//
// Bench times every solver on the same random queries over the full
// graph. There is no ground truth; distances are recorded as reported.
func BenchCommand() *cli.Command {
	return &cli.Command{
		Name:      "bench",
		Usage:     "Benchmark solvers on a DIMACS graph",
		ArgsUsage: " ",
		Flags:     runFlags(defaultBenchQueries),
		Action:    runAction(types.ModeBenchmark),
	}
}
