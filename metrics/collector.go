// Package metrics accumulates per-run counters for solver invocations,
// validation outcomes and persistence.
//
// The Collector is a leaf package with no internal dependencies. Statuses
// and solver ids are plain strings so the types package can embed a
// Snapshot in reports without an import cycle.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Status label values. They mirror types.Status.
const (
	StatusOK      = "ok"
	StatusTimeout = "timeout"
	StatusFailure = "failure"
)

// Snapshot is an immutable point-in-time view of the run's counters.
// Safe to read concurrently after creation.
type Snapshot struct {
	// Invocations
	Invocations        int64            `json:"invocations" msgpack:"invocations"`
	InvocationsOK      int64            `json:"invocations_ok" msgpack:"invocations_ok"`
	InvocationsTimeout int64            `json:"invocations_timeout" msgpack:"invocations_timeout"`
	InvocationsFailed  int64            `json:"invocations_failed" msgpack:"invocations_failed"`
	NonOKBySolver      map[string]int64 `json:"non_ok_by_solver,omitempty" msgpack:"non_ok_by_solver,omitempty"`

	// Validation
	Matches    int64 `json:"matches" msgpack:"matches"`
	Mismatches int64 `json:"mismatches" msgpack:"mismatches"`

	// Persistence
	ReportWriteSuccess int64 `json:"report_write_success" msgpack:"report_write_success"`
	ReportWriteFailure int64 `json:"report_write_failure" msgpack:"report_write_failure"`
	LodeWriteSuccess   int64 `json:"lode_write_success" msgpack:"lode_write_success"`
	LodeWriteFailure   int64 `json:"lode_write_failure" msgpack:"lode_write_failure"`

	// Dimensions (informational, set at construction)
	Mode           string `json:"mode" msgpack:"mode"`
	StorageBackend string `json:"storage_backend,omitempty" msgpack:"storage_backend,omitempty"`
	RunID          string `json:"run_id" msgpack:"run_id"`
}

// Collector accumulates metrics during a single run and mirrors them into
// a private Prometheus registry for textfile export.
// Thread-safe via sync.Mutex. All record methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	invocations        int64
	invocationsOK      int64
	invocationsTimeout int64
	invocationsFailed  int64
	nonOKBySolver      map[string]int64

	matches    int64
	mismatches int64

	reportWriteSuccess int64
	reportWriteFailure int64
	lodeWriteSuccess   int64
	lodeWriteFailure   int64

	mode           string
	storageBackend string
	runID          string

	prom *promSet
}

// NewCollector creates a Collector with dimension labels.
// storageBackend is empty when no archive is configured.
func NewCollector(mode, storageBackend, runID string) *Collector {
	return &Collector{
		nonOKBySolver:  make(map[string]int64),
		mode:           mode,
		storageBackend: storageBackend,
		runID:          runID,
		prom:           newPromSet(mode),
	}
}

// RecordInvocation records one finished solver invocation.
func (c *Collector) RecordInvocation(solverID, status string, wall time.Duration) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.invocations++
	switch status {
	case StatusOK:
		c.invocationsOK++
	case StatusTimeout:
		c.invocationsTimeout++
	default:
		c.invocationsFailed++
	}
	if status != StatusOK {
		c.nonOKBySolver[solverID]++
	}
	c.mu.Unlock()

	c.prom.invocations.WithLabelValues(solverID, status).Inc()
	c.prom.duration.WithLabelValues(solverID).Observe(wall.Seconds())
}

// RecordCheck records one candidate answer compared against the reference.
func (c *Collector) RecordCheck(solverID string, matches bool) {
	if c == nil {
		return
	}
	c.mu.Lock()
	if matches {
		c.matches++
	} else {
		c.mismatches++
	}
	c.mu.Unlock()

	if !matches {
		c.prom.mismatches.WithLabelValues(solverID).Inc()
	}
}

// --- Persistence ---
// Counters are per-call: one report document or one archive write.

// IncReportWriteSuccess records a report file written.
func (c *Collector) IncReportWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.reportWriteSuccess++
	c.mu.Unlock()
	c.prom.writes.WithLabelValues("report", "success").Inc()
}

// IncReportWriteFailure records a failed report file write.
func (c *Collector) IncReportWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.reportWriteFailure++
	c.mu.Unlock()
	c.prom.writes.WithLabelValues("report", "failure").Inc()
}

// IncLodeWriteSuccess records a successful archive write.
func (c *Collector) IncLodeWriteSuccess() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lodeWriteSuccess++
	c.mu.Unlock()
	c.prom.writes.WithLabelValues("lode", "success").Inc()
}

// IncLodeWriteFailure records a failed archive write.
func (c *Collector) IncLodeWriteFailure() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.lodeWriteFailure++
	c.mu.Unlock()
	c.prom.writes.WithLabelValues("lode", "failure").Inc()
}

// --- Snapshot ---

// Snapshot returns an immutable point-in-time view of all metrics.
// The Collector can continue to be mutated independently.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	bySolver := make(map[string]int64, len(c.nonOKBySolver))
	for k, v := range c.nonOKBySolver {
		bySolver[k] = v
	}

	return Snapshot{
		Invocations:        c.invocations,
		InvocationsOK:      c.invocationsOK,
		InvocationsTimeout: c.invocationsTimeout,
		InvocationsFailed:  c.invocationsFailed,
		NonOKBySolver:      bySolver,

		Matches:    c.matches,
		Mismatches: c.mismatches,

		ReportWriteSuccess: c.reportWriteSuccess,
		ReportWriteFailure: c.reportWriteFailure,
		LodeWriteSuccess:   c.lodeWriteSuccess,
		LodeWriteFailure:   c.lodeWriteFailure,

		Mode:           c.mode,
		StorageBackend: c.storageBackend,
		RunID:          c.runID,
	}
}

// Registry returns the Prometheus registry backing the collector.
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.prom.registry
}
