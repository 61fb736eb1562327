package runtime

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/justapithecus/pathbench/graph"
	"github.com/justapithecus/pathbench/log"
	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/query"
	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

// RunConfig configures a single benchmark or validation run.
type RunConfig struct {
	// RunMeta is the run identity. Mode selects benchmark or validation.
	RunMeta *types.RunMeta
	// GraphPath is the DIMACS graph file.
	GraphPath string
	// Queries is the number of queries to sample.
	Queries int
	// NodeLimit is the subgraph size k for validation runs.
	NodeLimit int64
	// Seed seeds the query sampler. Zero picks a random seed, which is
	// recorded in the report.
	Seed uint64
	// Timeout is the per-invocation limit, recorded in the report.
	Timeout time.Duration
	// Parallel is the number of queries in flight.
	Parallel int
	// WorkDir holds the transient subgraph file. Empty means os.TempDir.
	WorkDir string
	// Solvers are the benchmarked solvers, or the candidates in validation.
	Solvers []solver.Solver
	// Reference is the exact solver for validation runs.
	Reference solver.Solver
	// Collector records metrics. Nil disables metrics.
	Collector *metrics.Collector
	// Logger overrides the default stderr logger (for testing).
	Logger *log.Logger
	// Verbose enables debug logging on the default logger.
	Verbose bool
}

// NewRunMeta returns fresh run identity for mode, started now.
func NewRunMeta(mode types.Mode) *types.RunMeta {
	return &types.RunMeta{
		RunID:     uuid.NewString(),
		Mode:      mode,
		StartedAt: time.Now().UTC(),
	}
}

// RunOrchestrator drives one run from graph file to finished report.
type RunOrchestrator struct {
	config *RunConfig
	logger *log.Logger
}

// NewRunOrchestrator creates a new run orchestrator.
// Returns error if run metadata or the solver set is invalid.
func NewRunOrchestrator(config *RunConfig) (*RunOrchestrator, error) {
	if err := config.RunMeta.Validate(); err != nil {
		return nil, fmt.Errorf("invalid run metadata: %w", err)
	}
	if config.Queries < 0 {
		return nil, fmt.Errorf("query count must be >= 0, got %d", config.Queries)
	}
	if len(config.Solvers) == 0 {
		return nil, &solver.BuildError{SolverID: "-", Reason: "nothing to run", Err: solver.ErrNoSolvers}
	}
	if config.RunMeta.Mode == types.ModeValidation {
		if config.Reference == nil {
			return nil, errors.New("validation run needs a reference solver")
		}
		if config.NodeLimit < 1 {
			return nil, fmt.Errorf("subgraph node limit must be >= 1, got %d", config.NodeLimit)
		}
	}

	logger := config.Logger
	if logger == nil {
		logger = log.NewLogger(config.RunMeta, config.Verbose)
	}

	return &RunOrchestrator{config: config, logger: logger}, nil
}

// Logger returns the run logger.
func (r *RunOrchestrator) Logger() *log.Logger {
	return r.logger
}

// Execute runs end-to-end and returns the finished report.
//
// Execution flow:
//  1. Read graph metadata
//  2. Benchmark: sample queries over the graph and time every solver
//  3. Validation: extract the subgraph, sample over it, check candidates
//     against the reference, remove the subgraph
//  4. Stamp identity, timing and metrics onto the report
//
// Malformed graphs and undersized domains abort with no report. A
// cancelled ctx also yields no report.
func (r *RunOrchestrator) Execute(ctx context.Context) (*types.Report, error) {
	cfg := r.config

	desc, err := graph.ReadDescriptor(cfg.GraphPath)
	if err != nil {
		return nil, err
	}
	r.logger.Info("graph loaded", map[string]any{
		"path":  desc.Path,
		"nodes": desc.NodeCount,
		"edges": desc.EdgeCount,
	})

	sampler := query.NewSampler(cfg.Seed)
	engine := EngineConfig{Parallel: cfg.Parallel, Collector: cfg.Collector, Logger: r.logger}

	report := &types.Report{
		Seed:           sampler.Seed(),
		TimeoutSeconds: cfg.Timeout.Seconds(),
		Parallel:       max(cfg.Parallel, 1),
		Graph:          desc,
	}

	switch cfg.RunMeta.Mode {
	case types.ModeBenchmark:
		err = r.benchmark(ctx, engine, sampler, report)
	case types.ModeValidation:
		err = r.validate(ctx, engine, sampler, report)
	}
	if err != nil {
		return nil, err
	}

	stamp(report, cfg.RunMeta, time.Now().UTC())
	snap := cfg.Collector.Snapshot()
	report.Metrics = &snap
	return report, nil
}

func (r *RunOrchestrator) benchmark(ctx context.Context, engine EngineConfig, sampler *query.Sampler, report *types.Report) error {
	queries, err := sampler.Sample(report.Graph.NodeCount, r.config.Queries)
	if err != nil {
		return err
	}
	report.Queries = queries

	result, err := NewBenchmark(engine).Run(ctx, report.Graph.Path, queries, r.config.Solvers)
	if err != nil {
		return err
	}
	report.Benchmark = result
	return nil
}

func (r *RunOrchestrator) validate(ctx context.Context, engine EngineConfig, sampler *query.Sampler, report *types.Report) error {
	return graph.WithSubgraph(ctx, r.config.GraphPath, r.config.WorkDir, r.config.NodeLimit,
		func(ctx context.Context, sub types.SubgraphDescriptor) error {
			report.Subgraph = &sub
			r.logger.Info("subgraph extracted", map[string]any{
				"nodes": sub.Graph.NodeCount,
				"edges": sub.Graph.EdgeCount,
			})
			if !sub.EdgeCountConsistent() {
				r.logger.Warn("declared edge count differs from edge lines", map[string]any{
					"declared": sub.SourceDeclaredEdges,
					"scanned":  sub.SourceEdgeLines,
				})
			}

			queries, err := sampler.Sample(sub.Graph.NodeCount, r.config.Queries)
			if err != nil {
				return err
			}
			report.Queries = queries

			result, err := NewValidator(engine).Run(ctx, sub.Graph.Path, queries, r.config.Reference, r.config.Solvers)
			if err != nil {
				return err
			}
			report.Validation = result
			return nil
		})
}
