package runtime

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/justapithecus/pathbench/log"
	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

// EngineConfig configures the query loop shared by Benchmark and Validator.
type EngineConfig struct {
	// Parallel is the maximum number of queries in flight. Values below 1
	// mean one. Solvers for a single query always run sequentially.
	Parallel int
	// Collector records invocation metrics. Nil disables metrics.
	Collector *metrics.Collector
	// Logger receives run progress. Nil discards it.
	Logger *log.Logger
}

func (c EngineConfig) withDefaults() EngineConfig {
	if c.Parallel < 1 {
		c.Parallel = 1
	}
	if c.Logger == nil {
		c.Logger = log.NewNop()
	}
	return c
}

// forEachQuery calls fn once per query index with at most parallel calls
// in flight. Each call owns slot i of whatever the caller is filling, so
// results stay in query order without further synchronization.
//
// Scheduling stops when ctx is cancelled; the returned error is ctx.Err().
func forEachQuery(ctx context.Context, n, parallel int, fn func(ctx context.Context, i int)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range n {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(gctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}

// invoke runs one solver on one query and records the outcome.
// Non-OK outcomes are logged at debug level only; they surface in the report.
func invoke(ctx context.Context, cfg EngineConfig, s solver.Solver, graphPath string, q types.Query) types.Result {
	res := s.Solve(ctx, graphPath, q)
	cfg.Collector.RecordInvocation(s.ID(), string(res.Status), res.Wall)

	if res.Status != types.StatusOK {
		cfg.Logger.Debug("solver invocation did not complete", map[string]any{
			"solver": s.ID(),
			"query":  q.String(),
			"status": string(res.Status),
			"detail": res.Detail,
			"wall_s": res.Wall.Seconds(),
		})
	}
	return res
}
