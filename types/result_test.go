package types

import (
	"testing"
	"time"
)

func TestDistance_Reachable(t *testing.T) {
	tests := []struct {
		d    Distance
		want bool
	}{
		{Unreachable, false},
		{0, true},
		{4, true},
		{-7, false},
	}
	for _, tt := range tests {
		if got := tt.d.Reachable(); got != tt.want {
			t.Errorf("Distance(%d).Reachable() = %v, want %v", tt.d, got, tt.want)
		}
	}
}

func TestDistance_String(t *testing.T) {
	if got := Unreachable.String(); got != "unreachable" {
		t.Errorf("Unreachable.String() = %q", got)
	}
	if got := Distance(42).String(); got != "42" {
		t.Errorf("Distance(42).String() = %q", got)
	}
}

func TestStatus_Valid(t *testing.T) {
	for _, s := range []Status{StatusOK, StatusTimeout, StatusFailure} {
		if !s.Valid() {
			t.Errorf("%q should be valid", s)
		}
	}
	if Status("crashed").Valid() {
		t.Error("unknown status should not be valid")
	}
}

func TestResult_ElapsedSeconds(t *testing.T) {
	ok := Result{Distance: 3, Status: StatusOK, Elapsed: 1500 * time.Millisecond, Wall: 1600 * time.Millisecond}
	if got := ok.ElapsedSeconds(); got != 1.5 {
		t.Errorf("ok ElapsedSeconds = %v, want 1.5", got)
	}

	timeout := TimeoutResult(2*time.Second, "killed")
	if got := timeout.ElapsedSeconds(); got != FailedElapsed {
		t.Errorf("timeout ElapsedSeconds = %v, want %v", got, FailedElapsed)
	}
	if timeout.Distance != Unreachable {
		t.Errorf("timeout distance = %v, want Unreachable", timeout.Distance)
	}

	failure := FailureResult(10*time.Millisecond, "missing binary")
	if got := failure.ElapsedSeconds(); got != FailedElapsed {
		t.Errorf("failure ElapsedSeconds = %v, want %v", got, FailedElapsed)
	}
}

func TestNewRunRecord(t *testing.T) {
	q := Query{Source: 1, Target: 5}

	rec := NewRunRecord(q, TimeoutResult(3*time.Second, "deadline"))
	if rec.Status != StatusTimeout {
		t.Errorf("Status = %q, want timeout", rec.Status)
	}
	if rec.ElapsedSeconds != FailedElapsed {
		t.Errorf("ElapsedSeconds = %v, want %v", rec.ElapsedSeconds, FailedElapsed)
	}
	if rec.WallSeconds != 3 {
		t.Errorf("WallSeconds = %v, want 3 (timeout-capped wall time is kept)", rec.WallSeconds)
	}
	if rec.Query != q {
		t.Errorf("Query = %v, want %v", rec.Query, q)
	}
}
