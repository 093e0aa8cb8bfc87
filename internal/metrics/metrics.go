// Package metrics records session outcomes as Prometheus metrics.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/prometheus/client_golang/prometheus"

	"lingoquiz/internal/grading"
	"lingoquiz/internal/question"
	"lingoquiz/internal/score"
)

const namespace = "lingoquiz"

// Outcome labels for finished sessions.
const (
	OutcomeCompleted = "completed"
	OutcomeTimedOut  = "timed_out"
	OutcomeFailed    = "failed"
)

// Recorder implements session.Observer on a private registry.
type Recorder struct {
	registry *prometheus.Registry

	started  *prometheus.CounterVec
	finished *prometheus.CounterVec
	answers  *prometheus.CounterVec
	percent  *prometheus.HistogramVec
}

// New registers the session metrics on a fresh registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_started_total",
				Help:      "Sessions that loaded a question set.",
			},
			[]string{"test_id"},
		),
		finished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "sessions_finished_total",
				Help:      "Sessions that reached a summary or failed to load.",
			},
			[]string{"test_id", "outcome"},
		),
		answers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "answers_total",
				Help:      "Recorded answers by question kind and grade status.",
			},
			[]string{"kind", "status", "skipped"},
		),
		percent: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "score_percent",
				Help:      "Final overall percentage per finished session.",
				Buckets:   []float64{20, 40, 60, 75, 90, 100},
			},
			[]string{"test_id"},
		),
	}
	r.registry.MustRegister(r.started, r.finished, r.answers, r.percent)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

func (r *Recorder) SessionStarted(testID string) {
	r.started.WithLabelValues(testID).Inc()
}

func (r *Recorder) AnswerGraded(_ string, kind question.Kind, status grading.Status, skipped bool) {
	r.answers.WithLabelValues(string(kind), string(status), fmt.Sprint(skipped)).Inc()
}

func (r *Recorder) SessionFinished(testID string, report score.Report, timedOut bool) {
	outcome := OutcomeCompleted
	if timedOut {
		outcome = OutcomeTimedOut
	}
	r.finished.WithLabelValues(testID, outcome).Inc()
	r.percent.WithLabelValues(testID).Observe(float64(report.Percent))
}

func (r *Recorder) SessionFailed(testID string, _ error) {
	r.finished.WithLabelValues(testID, OutcomeFailed).Inc()
}

// WriteTextfile writes the registry in the node-exporter textfile format.
func (r *Recorder) WriteTextfile(path string) error {
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create metrics dir: %w", err)
	}
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}
