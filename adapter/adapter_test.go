package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/justapithecus/pathbench/metrics"
	"github.com/justapithecus/pathbench/types"
)

func TestNewRunCompletedEvent(t *testing.T) {
	started := time.Date(2026, 3, 14, 23, 59, 0, 0, time.UTC)
	report := &types.Report{
		RunID:      "run-1",
		Mode:       types.ModeValidation,
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
		Seed:       42,
		Graph:      types.GraphDescriptor{Path: "g.gr"},
		Queries:    types.QuerySet{{Source: 1, Target: 2}},
		Validation: &types.ValidationResult{
			ReferenceID:  "ref",
			CandidateIDs: []string{"a"},
			Records: []types.ValidationRecord{{
				Query:           types.Query{Source: 1, Target: 2},
				ReferenceStatus: types.StatusOK,
				PerSolver: map[string]types.SolverCheck{
					"a": {Status: types.StatusOK, Distance: 3},
				},
			}},
		},
		Metrics: &metrics.Snapshot{Mismatches: 1},
	}

	ev := NewRunCompletedEvent(report, "out/validation.json", "")

	if ev.EventType != EventTypeRunCompleted || ev.RunID != "run-1" || ev.Mode != "validation" {
		t.Errorf("event header = %+v", ev)
	}
	if ev.Day != "2026-03-14" {
		t.Errorf("Day = %q", ev.Day)
	}
	if ev.DurationMs != 90000 {
		t.Errorf("DurationMs = %d, want 90000", ev.DurationMs)
	}
	if ev.Mismatches != 1 || ev.Queries != 1 || ev.Seed != 42 {
		t.Errorf("counts = %+v", ev)
	}
	if len(ev.Solvers) != 2 || ev.Solvers[0].Role != types.RoleReference {
		t.Errorf("Solvers = %+v", ev.Solvers)
	}
}

func TestBackoff(t *testing.T) {
	want := []time.Duration{500 * time.Millisecond, time.Second, 2 * time.Second}
	for i, w := range want {
		if got := Backoff(i + 1); got != w {
			t.Errorf("Backoff(%d) = %v, want %v", i+1, got, w)
		}
	}
}

func TestRetry(t *testing.T) {
	errPermanent := errors.New("permanent")
	stop := func(err error) bool { return errors.Is(err, errPermanent) }

	t.Run("first attempt succeeds", func(t *testing.T) {
		n, err := Retry(t.Context(), 3, stop, func(context.Context) error { return nil })
		if err != nil || n != 1 {
			t.Errorf("Retry = %d, %v", n, err)
		}
	})

	t.Run("permanent error stops", func(t *testing.T) {
		n, err := Retry(t.Context(), 3, stop, func(context.Context) error { return errPermanent })
		if !errors.Is(err, errPermanent) || n != 1 {
			t.Errorf("Retry = %d, %v", n, err)
		}
	})

	t.Run("transient then success", func(t *testing.T) {
		calls := 0
		n, err := Retry(t.Context(), 1, stop, func(context.Context) error {
			calls++
			if calls == 1 {
				return errors.New("transient")
			}
			return nil
		})
		if err != nil || n != 2 {
			t.Errorf("Retry = %d, %v", n, err)
		}
	})

	t.Run("cancelled", func(t *testing.T) {
		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		_, err := Retry(ctx, 3, stop, func(context.Context) error { return nil })
		if !errors.Is(err, context.Canceled) {
			t.Errorf("err = %v, want context.Canceled", err)
		}
	})
}
