package runtime

import (
	"testing"
	"time"

	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/solver"
	"github.com/justapithecus/pathbench/types"
)

func TestValidator_FlagsExactlyTheWrongQueries(t *testing.T) {
	queries := types.QuerySet{
		{Source: 1, Target: 2},
		{Source: 2, Target: 3},
		{Source: 3, Target: 1},
		{Source: 4, Target: 2},
		{Source: 5, Target: 1},
	}
	wrong := map[types.Query]bool{queries[1]: true, queries[3]: true}

	reference := sumSolver("exact")
	good := sumSolver("good")
	buggy := &fakeSolver{id: "buggy", answer: func(q types.Query) types.Result {
		d := types.Distance(q.Source + q.Target)
		if wrong[q] {
			d++
		}
		return ok(d, time.Millisecond)
	}}

	c := metrics.NewCollector("validation", "", "run-1")
	for _, parallel := range []int{1, 3} {
		res, err := NewValidator(EngineConfig{Parallel: parallel, Collector: c}).
			Run(t.Context(), "sub.gr", queries, reference, []solver.Solver{good, buggy})
		if err != nil {
			t.Fatalf("Run failed: %v", err)
		}

		if len(res.Records) != len(queries) {
			t.Fatalf("records = %d, want %d", len(res.Records), len(queries))
		}
		for i, rec := range res.Records {
			if rec.Query != queries[i] {
				t.Errorf("record %d query = %v, want %v", i, rec.Query, queries[i])
			}
			if !rec.PerSolver["good"].MatchesReference {
				t.Errorf("good flagged as mismatch on %v", rec.Query)
			}
			if got := rec.PerSolver["buggy"].MatchesReference; got == wrong[rec.Query] {
				t.Errorf("buggy MatchesReference = %v on %v", got, rec.Query)
			}
		}

		if got := res.Tallies["buggy"]; got.Matches != 3 || got.Mismatches != 2 {
			t.Errorf("buggy tally = %+v, want 3/2", got)
		}
		if got := res.Tallies["good"]; got.Matches != 5 || got.Mismatches != 0 {
			t.Errorf("good tally = %+v, want 5/0", got)
		}
		if res.ReferenceID != "exact" || len(res.CandidateIDs) != 2 {
			t.Errorf("ids = %q %v", res.ReferenceID, res.CandidateIDs)
		}
	}

	if s := c.Snapshot(); s.Mismatches != 4 || s.Matches != 16 {
		t.Errorf("collector matches/mismatches = %d/%d, want 16/4", s.Matches, s.Mismatches)
	}
}

func TestValidator_ReferenceRunsFirst(t *testing.T) {
	var order []string
	record := func(id string) *fakeSolver {
		return &fakeSolver{id: id, answer: func(types.Query) types.Result {
			order = append(order, id)
			return ok(1, time.Millisecond)
		}}
	}

	_, err := NewValidator(EngineConfig{}).Run(t.Context(), "sub.gr",
		types.QuerySet{{Source: 1, Target: 2}}, record("ref"), []solver.Solver{record("a"), record("b")})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"ref", "a", "b"}
	for i := range want {
		if i >= len(order) || order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}

func TestValidator_MatchesCompareDistancesOnly(t *testing.T) {
	unreachable := types.Query{Source: 1, Target: 2}
	reachable := types.Query{Source: 2, Target: 3}
	reference := &fakeSolver{id: "ref", answer: func(q types.Query) types.Result {
		if q == unreachable {
			return ok(types.Unreachable, time.Millisecond)
		}
		return ok(4, time.Millisecond)
	}}
	timedOut := &fakeSolver{id: "slow", answer: func(types.Query) types.Result { return types.TimeoutResult(time.Second, "") }}
	failed := &fakeSolver{id: "broken", answer: func(types.Query) types.Result { return types.FailureResult(0, "exit status 2") }}

	res, err := NewValidator(EngineConfig{}).Run(t.Context(), "sub.gr", types.QuerySet{unreachable, reachable}, reference, []solver.Solver{timedOut, failed})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		record int
		solver string
		status types.Status
		want   bool
	}{
		{0, "slow", types.StatusTimeout, true},
		{0, "broken", types.StatusFailure, true},
		{1, "slow", types.StatusTimeout, false},
		{1, "broken", types.StatusFailure, false},
	}
	for _, tt := range tests {
		check := res.Records[tt.record].PerSolver[tt.solver]
		if check.MatchesReference != tt.want {
			t.Errorf("%s on %v: MatchesReference = %v, want %v", tt.solver, res.Records[tt.record].Query, check.MatchesReference, tt.want)
		}
		if check.Status != tt.status || check.Distance != types.Unreachable || check.ElapsedSeconds != types.FailedElapsed {
			t.Errorf("%s on %v: check = %+v", tt.solver, res.Records[tt.record].Query, check)
		}
	}
	if got := res.Tallies["slow"]; got.Matches != 1 || got.Mismatches != 1 {
		t.Errorf("slow tally = %+v, want 1/1", got)
	}
}

func TestValidator_Errors(t *testing.T) {
	qs := types.QuerySet{{Source: 1, Target: 2}}
	tests := []struct {
		name       string
		reference  solver.Solver
		candidates []solver.Solver
	}{
		{"no reference", nil, []solver.Solver{sumSolver("a")}},
		{"no candidates", sumSolver("ref"), nil},
		{"candidate reuses reference id", sumSolver("ref"), []solver.Solver{sumSolver("ref")}},
		{"duplicate candidates", sumSolver("ref"), []solver.Solver{sumSolver("a"), sumSolver("a")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewValidator(EngineConfig{}).Run(t.Context(), "sub.gr", qs, tt.reference, tt.candidates); err == nil {
				t.Error("expected error")
			}
		})
	}
}
