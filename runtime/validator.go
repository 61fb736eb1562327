package runtime

import (
	"context"
	"errors"
	"fmt"

	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

// Validator cross-checks candidate solvers against an exact reference.
// Disagreements are recorded, never resolved.
type Validator struct {
	config EngineConfig
}

// NewValidator creates a correctness validator.
func NewValidator(config EngineConfig) *Validator {
	return &Validator{config: config.withDefaults()}
}

// Run answers every query with the reference first, then each candidate in
// order, and flags whether each candidate matches. Records are in query
// order. The only runtime error is cancellation of ctx.
func (v *Validator) Run(ctx context.Context, graphPath string, queries types.QuerySet, reference solver.Solver, candidates []solver.Solver) (*types.ValidationResult, error) {
	if reference == nil {
		return nil, errors.New("validation needs a reference solver")
	}
	if len(candidates) == 0 {
		return nil, errors.New("validation needs at least one candidate solver")
	}
	ids := solverIDs(candidates)
	seen := map[string]bool{reference.ID(): true}
	for _, id := range ids {
		if seen[id] {
			return nil, fmt.Errorf("solver id %q used more than once", id)
		}
		seen[id] = true
	}

	v.config.Logger.Info("validation started", map[string]any{
		"graph":      graphPath,
		"queries":    len(queries),
		"reference":  reference.ID(),
		"candidates": ids,
		"parallel":   v.config.Parallel,
	})

	records := make([]types.ValidationRecord, len(queries))
	err := forEachQuery(ctx, len(queries), v.config.Parallel, func(ctx context.Context, i int) {
		records[i] = v.check(ctx, graphPath, queries[i], reference, candidates)
	})
	if err != nil {
		return nil, fmt.Errorf("validation interrupted: %w", err)
	}

	tallies := make(map[string]types.MatchTally, len(candidates))
	for _, rec := range records {
		for id, c := range rec.PerSolver {
			t := tallies[id]
			if c.MatchesReference {
				t.Matches++
			} else {
				t.Mismatches++
			}
			tallies[id] = t
		}
	}
	for _, id := range ids {
		t := tallies[id]
		v.config.Logger.Info("candidate checked", map[string]any{
			"solver":     id,
			"matches":    t.Matches,
			"mismatches": t.Mismatches,
		})
	}

	return &types.ValidationResult{
		ReferenceID:  reference.ID(),
		CandidateIDs: ids,
		Records:      records,
		Tallies:      tallies,
	}, nil
}

func (v *Validator) check(ctx context.Context, graphPath string, q types.Query, reference solver.Solver, candidates []solver.Solver) types.ValidationRecord {
	ref := invoke(ctx, v.config, reference, graphPath, q)
	rec := types.ValidationRecord{
		Query:                   q,
		ReferenceDistance:       ref.Distance,
		ReferenceStatus:         ref.Status,
		ReferenceElapsedSeconds: ref.ElapsedSeconds(),
		ReferenceWallSeconds:    ref.Wall.Seconds(),
		PerSolver:               make(map[string]types.SolverCheck, len(candidates)),
	}

	for _, c := range candidates {
		check := types.NewSolverCheck(ref, invoke(ctx, v.config, c, graphPath, q))
		rec.PerSolver[c.ID()] = check
		v.config.Collector.RecordCheck(c.ID(), check.MatchesReference)
		if !check.MatchesReference {
			v.config.Logger.Debug("candidate disagrees with reference", map[string]any{
				"solver":    c.ID(),
				"query":     q.String(),
				"reference": ref.Distance.String(),
				"candidate": check.Distance.String(),
				"status":    string(check.Status),
			})
		}
	}
	return rec
}
