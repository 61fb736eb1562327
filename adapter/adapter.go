// Package adapter defines the run-completed notification boundary.
//
// Adapters announce a finished run to downstream systems once its report
// has been saved. The CLI owns adapter lifecycle; users provide
// configuration only.
package adapter

import (
	"context"
	"time"

	"github.com/justapithecus/pathbench/types"
)

// EventTypeRunCompleted is the only event type published.
const EventTypeRunCompleted = "run_completed"

// RunCompletedEvent is the payload published when a run finishes.
type RunCompletedEvent struct {
	ContractVersion string                `json:"contract_version"`
	EventType       string                `json:"event_type"`
	RunID           string                `json:"run_id"`
	Mode            string                `json:"mode"`
	Day             string                `json:"day"`
	GraphPath       string                `json:"graph_path"`
	Queries         int                   `json:"queries"`
	Seed            uint64                `json:"seed"`
	ReportPath      string                `json:"report_path"`
	ArchivePath     string                `json:"archive_path,omitempty"`
	Mismatches      int64                 `json:"mismatches"`
	Solvers         []types.SolverSummary `json:"solvers"`
	Timestamp       string                `json:"timestamp"` // RFC 3339
	DurationMs      int64                 `json:"duration_ms"`
}

// NewRunCompletedEvent builds the event for a saved report.
// archivePath is empty when the report was not archived.
func NewRunCompletedEvent(report *types.Report, reportPath, archivePath string) *RunCompletedEvent {
	var mismatches int64
	if report.Metrics != nil {
		mismatches = report.Metrics.Mismatches
	}
	return &RunCompletedEvent{
		ContractVersion: types.Version,
		EventType:       EventTypeRunCompleted,
		RunID:           report.RunID,
		Mode:            string(report.Mode),
		Day:             report.StartedAt.UTC().Format("2006-01-02"),
		GraphPath:       report.Graph.Path,
		Queries:         len(report.Queries),
		Seed:            report.Seed,
		ReportPath:      reportPath,
		ArchivePath:     archivePath,
		Mismatches:      mismatches,
		Solvers:         report.Summaries(),
		Timestamp:       report.FinishedAt.UTC().Format(time.RFC3339),
		DurationMs:      report.FinishedAt.Sub(report.StartedAt).Milliseconds(),
	}
}

// Adapter publishes run completion events to a downstream system.
type Adapter interface {
	// Publish sends a run completion event to the downstream system.
	// Must respect context cancellation and deadlines.
	Publish(ctx context.Context, event *RunCompletedEvent) error

	// Close releases adapter resources.
	Close() error
}

// Backoff returns the delay before retry attempt i (i >= 1):
// 500ms, 1s, 2s, ...
func Backoff(i int) time.Duration {
	return time.Duration(1<<uint(i-1)) * 500 * time.Millisecond
}

// Retry calls fn up to 1+retries times with exponential backoff between
// attempts. It stops early when ctx is done or stop reports the error as
// permanent.
func Retry(ctx context.Context, retries int, stop func(error) bool, fn func(context.Context) error) (int, error) {
	attempts := 1 + retries
	var lastErr error
	for i := range attempts {
		if err := ctx.Err(); err != nil {
			return i, err
		}
		if i > 0 {
			select {
			case <-ctx.Done():
				return i, ctx.Err()
			case <-time.After(Backoff(i)):
			}
		}
		lastErr = fn(ctx)
		if lastErr == nil || (stop != nil && stop(lastErr)) {
			return i + 1, lastErr
		}
	}
	return attempts, lastErr
}
