package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// promSet holds the Prometheus view of a run. Each Collector owns its own
// registry so that concurrent runs in one process do not share series.
type promSet struct {
	registry *prometheus.Registry

	invocations *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	mismatches  *prometheus.CounterVec
	writes      *prometheus.CounterVec
}

// durationBuckets spans sub-millisecond answers on small subgraphs up to
// the default five-minute timeout.
var durationBuckets = []float64{0.001, 0.01, 0.05, 0.1, 0.5, 1, 5, 30, 120, 300}

func newPromSet(mode string) *promSet {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"mode": mode}

	return &promSet{
		registry: reg,
		invocations: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name:        "pathbench_solver_invocations_total",
				Help:        "Solver invocations by outcome status",
				ConstLabels: constLabels,
			},
			[]string{"solver", "status"},
		),
		duration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "pathbench_solver_wall_seconds",
				Help:        "Wall time per solver invocation in seconds",
				ConstLabels: constLabels,
				Buckets:     durationBuckets,
			},
			[]string{"solver"},
		),
		mismatches: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name:        "pathbench_validation_mismatches_total",
				Help:        "Candidate answers that disagreed with the reference",
				ConstLabels: constLabels,
			},
			[]string{"solver"},
		),
		writes: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name:        "pathbench_persistence_writes_total",
				Help:        "Report and archive writes by target and result",
				ConstLabels: constLabels,
			},
			[]string{"target", "result"},
		),
	}
}

// WriteTextfile exports the collector's series in the node_exporter
// textfile format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if c == nil {
		return nil
	}
	return prometheus.WriteToTextfile(path, c.prom.registry)
}
