// Package types defines the data model shared by the harness: graph
// descriptors, queries, invocation results and persisted reports.
//
//nolint:revive // types is a common Go package naming convention
package types

import (
	"errors"
	"fmt"
	"time"
)

// Mode selects what a run measures.
type Mode string

const (
	// ModeBenchmark times N solvers on the full graph with no ground truth.
	ModeBenchmark Mode = "benchmark"
	// ModeValidation cross-checks N solvers against a reference on a subgraph.
	ModeValidation Mode = "validation"
)

// RunMeta carries run identity.
type RunMeta struct {
	// RunID is the run identifier. Must be unique across runs.
	RunID string
	// Mode is the run mode.
	Mode Mode
	// StartedAt is the run start time.
	StartedAt time.Time
}

// Validate checks run identity:
//   - run_id non-empty
//   - mode is benchmark or validation
//   - started_at set
func (r *RunMeta) Validate() error {
	if r.RunID == "" {
		return errors.New("run_id must be non-empty")
	}
	switch r.Mode {
	case ModeBenchmark, ModeValidation:
	default:
		return fmt.Errorf("unknown mode %q", r.Mode)
	}
	if r.StartedAt.IsZero() {
		return errors.New("started_at must be set")
	}
	return nil
}

// ShortID returns the first 8 characters of the run id, used to
// disambiguate file names.
func (r *RunMeta) ShortID() string {
	if len(r.RunID) <= 8 {
		return r.RunID
	}
	return r.RunID[:8]
}
