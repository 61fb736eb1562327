package runtime

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

var threeQueries = types.QuerySet{{Source: 1, Target: 2}, {Source: 4, Target: 3}, {Source: 2, Target: 5}}

func TestBenchmark_RecordsInQueryOrder(t *testing.T) {
	for _, parallel := range []int{1, 4} {
		a := sumSolver("a")
		b := &fakeSolver{id: "b", answer: func(q types.Query) types.Result {
			if q.Source == 4 {
				return types.TimeoutResult(2*time.Second, "exceeded 2s")
			}
			return ok(types.Unreachable, 5*time.Millisecond)
		}}

		res, err := NewBenchmark(EngineConfig{Parallel: parallel}).
			Run(t.Context(), "g.gr", threeQueries, []solver.Solver{a, b})
		if err != nil {
			t.Fatalf("parallel=%d: Run failed: %v", parallel, err)
		}
		if len(res.Solvers) != 2 || res.Solvers[0].SolverID != "a" || res.Solvers[1].SolverID != "b" {
			t.Fatalf("parallel=%d: solver order = %+v", parallel, res.Solvers)
		}

		for i, q := range threeQueries {
			ra := res.Solvers[0].Records[i]
			if ra.Query != q || ra.Distance != types.Distance(q.Source+q.Target) || ra.Status != types.StatusOK {
				t.Errorf("parallel=%d: a record %d = %+v", parallel, i, ra)
			}
		}

		timedOut := res.Solvers[1].Records[1]
		if timedOut.Status != types.StatusTimeout || timedOut.ElapsedSeconds != types.FailedElapsed || timedOut.Distance != types.Unreachable {
			t.Errorf("parallel=%d: timeout record = %+v", parallel, timedOut)
		}
		if res.Solvers[1].Records[0].Status != types.StatusOK || res.Solvers[1].Records[0].Distance != types.Unreachable {
			t.Errorf("parallel=%d: -1 answer should be OK unreachable: %+v", parallel, res.Solvers[1].Records[0])
		}

		// Totals include the timeout-capped attempt.
		if got, want := res.Solvers[1].TotalElapsedSeconds, 2.01; math.Abs(got-want) > 1e-9 {
			t.Errorf("parallel=%d: b total = %v, want %v", parallel, got, want)
		}
		if got, want := res.Solvers[0].TotalElapsedSeconds, 0.03; math.Abs(got-want) > 1e-9 {
			t.Errorf("parallel=%d: a total = %v, want %v", parallel, got, want)
		}
	}
}

func TestBenchmark_NoRetries(t *testing.T) {
	calls := 0
	failing := &fakeSolver{id: "f", answer: func(types.Query) types.Result {
		calls++
		return types.FailureResult(time.Millisecond, "boom")
	}}

	_, err := NewBenchmark(EngineConfig{}).Run(t.Context(), "g.gr", threeQueries, []solver.Solver{failing})
	if err != nil {
		t.Fatal(err)
	}
	if calls != len(threeQueries) {
		t.Errorf("calls = %d, want %d", calls, len(threeQueries))
	}
}

func TestBenchmark_RecordsMetrics(t *testing.T) {
	c := metrics.NewCollector("benchmark", "", "run-1")
	failing := &fakeSolver{id: "f", answer: func(types.Query) types.Result {
		return types.FailureResult(time.Millisecond, "boom")
	}}

	_, err := NewBenchmark(EngineConfig{Collector: c}).
		Run(t.Context(), "g.gr", threeQueries, []solver.Solver{sumSolver("a"), failing})
	if err != nil {
		t.Fatal(err)
	}
	s := c.Snapshot()
	if s.Invocations != 6 || s.InvocationsOK != 3 || s.InvocationsFailed != 3 {
		t.Errorf("snapshot = %+v", s)
	}
}

func TestBenchmark_Errors(t *testing.T) {
	if _, err := NewBenchmark(EngineConfig{}).Run(t.Context(), "g.gr", threeQueries, nil); err == nil {
		t.Error("expected error with no solvers")
	}

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	_, err := NewBenchmark(EngineConfig{}).Run(ctx, "g.gr", threeQueries, []solver.Solver{sumSolver("a")})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestBenchmark_EmptyQuerySet(t *testing.T) {
	res, err := NewBenchmark(EngineConfig{}).Run(t.Context(), "g.gr", nil, []solver.Solver{sumSolver("a")})
	if err != nil {
		t.Fatal(err)
	}
	if len(res.Solvers[0].Records) != 0 || res.Solvers[0].TotalElapsedSeconds != 0 {
		t.Errorf("unexpected result %+v", res.Solvers[0])
	}
}
