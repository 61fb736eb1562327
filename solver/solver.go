// Package solver invokes external shortest-path solver executables.
//
// A solver is a black box with a fixed command line:
//
//	<binary> <graph> <source> <target>
//
// It prints one integer distance, or -1 when the target is unreachable.
package solver

import (
	"context"

	"github.com/justapithecus/pathbench/types"
)

// Solver answers one shortest-path query against a graph file.
//
// Solve never returns an error: every failure mode is folded into the
// result status so a single broken solver cannot abort a run.
type Solver interface {
	// ID is the solver's stable name in reports.
	ID() string
	// Solve answers q on the graph at graphPath.
	Solve(ctx context.Context, graphPath string, q types.Query) types.Result
}
