package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	episodesTotal *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	pathsTotal    prometheus.Counter
	staleTotal    prometheus.Counter
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		episodesTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "horizonsim_episodes_total",
				Help: "Scenario episodes by resulting state",
			},
			[]string{"state", "auto_run"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "horizonsim_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		pathsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "horizonsim_simulated_paths_total",
				Help: "Monte Carlo paths generated across all sub-horizons",
			},
		),
		staleTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "horizonsim_stale_results_discarded_total",
				Help: "Simulation results discarded because a newer submission superseded them",
			},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "horizonsim_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEpisode records an episode reaching a settled state.
func (r *Recorder) RecordEpisode(state string, autoRun bool) {
	label := "false"
	if autoRun {
		label = "true"
	}
	r.episodesTotal.WithLabelValues(state, label).Inc()
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordPaths records paths generated by one sub-horizon run.
func (r *Recorder) RecordPaths(n int) {
	r.pathsTotal.Add(float64(n))
}

// RecordStaleDiscard records a superseded result being dropped.
func (r *Recorder) RecordStaleDiscard() {
	r.staleTotal.Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
