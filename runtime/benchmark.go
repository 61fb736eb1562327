package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

// Benchmark times every solver on every query of a graph. There is no
// ground truth: records carry whatever each solver reported.
type Benchmark struct {
	config EngineConfig
}

// NewBenchmark creates a benchmark orchestrator.
func NewBenchmark(config EngineConfig) *Benchmark {
	return &Benchmark{config: config.withDefaults()}
}

// Run invokes each solver once per query and returns one SolverReport per
// solver, in the given order, with records in query order. No query is
// retried. The only error is cancellation of ctx.
func (b *Benchmark) Run(ctx context.Context, graphPath string, queries types.QuerySet, solvers []solver.Solver) (*types.BenchmarkResult, error) {
	if len(solvers) == 0 {
		return nil, errors.New("benchmark needs at least one solver")
	}

	records := make([][]types.RunRecord, len(solvers))
	for j := range records {
		records[j] = make([]types.RunRecord, len(queries))
	}

	b.config.Logger.Info("benchmark started", map[string]any{
		"graph":    graphPath,
		"queries":  len(queries),
		"solvers":  solverIDs(solvers),
		"parallel": b.config.Parallel,
	})

	err := forEachQuery(ctx, len(queries), b.config.Parallel, func(ctx context.Context, i int) {
		q := queries[i]
		for j, s := range solvers {
			records[j][i] = types.NewRunRecord(q, invoke(ctx, b.config, s, graphPath, q))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("benchmark interrupted: %w", err)
	}

	result := &types.BenchmarkResult{Solvers: make([]types.SolverReport, len(solvers))}
	for j, s := range solvers {
		total := 0.0
		for _, rec := range records[j] {
			total += rec.WallSeconds
		}
		result.Solvers[j] = types.SolverReport{
			SolverID:            s.ID(),
			Records:             records[j],
			TotalElapsedSeconds: total,
		}
		b.config.Logger.Info("solver finished", map[string]any{
			"solver":          s.ID(),
			"total_elapsed_s": total,
		})
	}
	return result, nil
}

func solverIDs(solvers []solver.Solver) []string {
	ids := make([]string, len(solvers))
	for i, s := range solvers {
		ids[i] = s.ID()
	}
	return ids
}
