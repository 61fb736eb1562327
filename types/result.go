package types

import (
	"fmt"
	"time"
)

// Status classifies a single solver invocation.
type Status string

const (
	// StatusOK means the solver ran and produced a well-formed answer.
	// The answer may still be Unreachable.
	StatusOK Status = "ok"
	// StatusTimeout means the wall-clock limit was hit and the solver was killed.
	StatusTimeout Status = "timeout"
	// StatusFailure means the solver could not be run or produced malformed output.
	StatusFailure Status = "failure"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusOK, StatusTimeout, StatusFailure:
		return true
	default:
		return false
	}
}

// Distance is a shortest-path length as reported by a solver.
type Distance int64

// Unreachable is the sentinel for "no path exists".
// It matches the solver contract's -1 output and is distinct from every
// valid (non-negative) distance.
const Unreachable Distance = -1

// Reachable reports whether d is a real path length.
func (d Distance) Reachable() bool {
	return d >= 0
}

// String renders the distance, using "unreachable" for the sentinel.
func (d Distance) String() string {
	if !d.Reachable() {
		return "unreachable"
	}
	return fmt.Sprintf("%d", int64(d))
}

// FailedElapsed is the elapsed marker recorded for timed-out or failed runs.
// It is never a valid duration.
const FailedElapsed = -1.0

// Result is the outcome of one solver invocation.
type Result struct {
	// Distance is the reported distance, Unreachable for non-OK results.
	Distance Distance
	// Status is the three-way classification.
	Status Status
	// Elapsed is the measured solver runtime. Only meaningful for StatusOK.
	Elapsed time.Duration
	// Wall is the wall time the harness spent on the attempt, including
	// time spent waiting for a timed-out solver to be killed.
	Wall time.Duration
	// Detail is a short diagnostic for non-OK results (exit code, stderr tail).
	Detail string
}

// ElapsedSeconds returns the recorded elapsed time in seconds, or
// FailedElapsed when the invocation did not complete normally.
func (r Result) ElapsedSeconds() float64 {
	if r.Status != StatusOK {
		return FailedElapsed
	}
	return r.Elapsed.Seconds()
}

// TimeoutResult builds a TIMEOUT result.
func TimeoutResult(wall time.Duration, detail string) Result {
	return Result{Distance: Unreachable, Status: StatusTimeout, Wall: wall, Detail: detail}
}

// FailureResult builds a FAILURE result.
func FailureResult(wall time.Duration, detail string) Result {
	return Result{Distance: Unreachable, Status: StatusFailure, Wall: wall, Detail: detail}
}

// RunRecord is the persisted outcome of one (solver, query) pair.
type RunRecord struct {
	Query          Query    `json:"query" msgpack:"query"`
	Distance       Distance `json:"distance" msgpack:"distance"`
	ElapsedSeconds float64  `json:"elapsed_seconds" msgpack:"elapsed_seconds"`
	WallSeconds    float64  `json:"wall_seconds" msgpack:"wall_seconds"`
	Status         Status   `json:"status" msgpack:"status"`
	Detail         string   `json:"detail,omitempty" msgpack:"detail,omitempty"`
}

// NewRunRecord converts an invocation result into its persisted form.
func NewRunRecord(q Query, r Result) RunRecord {
	return RunRecord{
		Query:          q,
		Distance:       r.Distance,
		ElapsedSeconds: r.ElapsedSeconds(),
		WallSeconds:    r.Wall.Seconds(),
		Status:         r.Status,
		Detail:         r.Detail,
	}
}
