package types

import (
	"time"

	"github.com/justapithecus/pathbench/metrics"
)

// Report is the persisted document for one run.
// It is self-describing: every RunRecord and ValidationRecord can be
// reconstructed from it without re-running any solver.
type Report struct {
	SchemaVersion  string    `json:"schema_version" msgpack:"schema_version"`
	Version        string    `json:"version" msgpack:"version"`
	RunID          string    `json:"run_id" msgpack:"run_id"`
	Mode           Mode      `json:"mode" msgpack:"mode"`
	StartedAt      time.Time `json:"started_at" msgpack:"started_at"`
	FinishedAt     time.Time `json:"finished_at" msgpack:"finished_at"`
	Seed           uint64    `json:"seed" msgpack:"seed"`
	TimeoutSeconds float64   `json:"timeout_seconds" msgpack:"timeout_seconds"`
	Parallel       int       `json:"parallel" msgpack:"parallel"`

	// Graph is the graph the run was requested against.
	Graph GraphDescriptor `json:"graph" msgpack:"graph"`
	// Subgraph is set for validation runs only.
	Subgraph *SubgraphDescriptor `json:"subgraph,omitempty" msgpack:"subgraph,omitempty"`
	// Queries is the full query set in generation order.
	Queries QuerySet `json:"queries" msgpack:"queries"`

	Benchmark  *BenchmarkResult  `json:"benchmark,omitempty" msgpack:"benchmark,omitempty"`
	Validation *ValidationResult `json:"validation,omitempty" msgpack:"validation,omitempty"`

	Metrics *metrics.Snapshot `json:"metrics,omitempty" msgpack:"metrics,omitempty"`
}

// BenchmarkResult holds one SolverReport per configured solver,
// in configured order.
type BenchmarkResult struct {
	Solvers []SolverReport `json:"solvers" msgpack:"solvers"`
}

// SolverReport holds one solver's records, positionally aligned with
// Report.Queries.
type SolverReport struct {
	SolverID string      `json:"solver_id" msgpack:"solver_id"`
	Records  []RunRecord `json:"records" msgpack:"records"`
	// TotalElapsedSeconds sums WallSeconds over every attempted record,
	// timeout-capped attempts included.
	TotalElapsedSeconds float64 `json:"total_elapsed_seconds" msgpack:"total_elapsed_seconds"`
}

// ValidationResult holds one ValidationRecord per query.
type ValidationResult struct {
	ReferenceID  string             `json:"reference_id" msgpack:"reference_id"`
	CandidateIDs []string           `json:"candidate_ids" msgpack:"candidate_ids"`
	Records      []ValidationRecord `json:"records" msgpack:"records"`
	// Tallies counts matches and mismatches per candidate.
	Tallies map[string]MatchTally `json:"tallies" msgpack:"tallies"`
}

// MatchTally counts one candidate's agreement with the reference.
type MatchTally struct {
	Matches    int `json:"matches" msgpack:"matches"`
	Mismatches int `json:"mismatches" msgpack:"mismatches"`
}

// ValidationRecord compares every candidate against the reference for one query.
type ValidationRecord struct {
	Query                   Query                  `json:"query" msgpack:"query"`
	ReferenceDistance       Distance               `json:"reference_distance" msgpack:"reference_distance"`
	ReferenceStatus         Status                 `json:"reference_status" msgpack:"reference_status"`
	ReferenceElapsedSeconds float64                `json:"reference_elapsed_seconds" msgpack:"reference_elapsed_seconds"`
	ReferenceWallSeconds    float64                `json:"reference_wall_seconds" msgpack:"reference_wall_seconds"`
	PerSolver               map[string]SolverCheck `json:"per_solver" msgpack:"per_solver"`
}

// SolverCheck is one candidate's answer for a ValidationRecord.
type SolverCheck struct {
	Distance         Distance `json:"distance" msgpack:"distance"`
	Status           Status   `json:"status" msgpack:"status"`
	ElapsedSeconds   float64  `json:"elapsed_seconds" msgpack:"elapsed_seconds"`
	WallSeconds      float64  `json:"wall_seconds" msgpack:"wall_seconds"`
	MatchesReference bool     `json:"matches_reference" msgpack:"matches_reference"`
	Detail           string   `json:"detail,omitempty" msgpack:"detail,omitempty"`
}

// Matches reports whether a candidate result agrees with the reference:
// the distances are exactly equal. Timeouts and failures carry
// Unreachable, so they match an unreachable answer; Status records why.
func Matches(reference, candidate Result) bool {
	return reference.Distance == candidate.Distance
}

// NewSolverCheck builds the persisted candidate entry.
func NewSolverCheck(reference, candidate Result) SolverCheck {
	return SolverCheck{
		Distance:         candidate.Distance,
		Status:           candidate.Status,
		ElapsedSeconds:   candidate.ElapsedSeconds(),
		WallSeconds:      candidate.Wall.Seconds(),
		MatchesReference: Matches(reference, candidate),
		Detail:           candidate.Detail,
	}
}
