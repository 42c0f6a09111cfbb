// Package metrics exposes Prometheus counters for compliance activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pkordes/eld-logbook/internal/domain"
)

const namespace = "eld"

// Recorder holds the application's counters. Build one per registry with New.
// A nil *Recorder discards every observation.
type Recorder struct {
	evaluations *prometheus.CounterVec
	dutyChanges *prometheus.CounterVec
	violations  *prometheus.CounterVec
}

// New registers the counters on reg and returns a Recorder for them.
// Pass prometheus.NewRegistry() in tests to keep runs independent.
func New(reg prometheus.Registerer) *Recorder {
	f := promauto.With(reg)
	return &Recorder{
		evaluations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hos_evaluations_total",
			Help:      "Compliance evaluations performed, by driving eligibility.",
		}, []string{"can_drive"}),
		dutyChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "duty_changes_total",
			Help:      "Duty-status changes logged, by new status.",
		}, []string{"status"}),
		violations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "violations_recorded_total",
			Help:      "Violation records written, by kind and severity.",
		}, []string{"kind", "severity"}),
	}
}

// Evaluation counts one compliance evaluation.
func (r *Recorder) Evaluation(canDrive bool) {
	if r == nil {
		return
	}
	label := "false"
	if canDrive {
		label = "true"
	}
	r.evaluations.WithLabelValues(label).Inc()
}

// DutyChange counts one logged duty-status change.
func (r *Recorder) DutyChange(status domain.DutyStatus) {
	if r == nil {
		return
	}
	r.dutyChanges.WithLabelValues(status.Code()).Inc()
}

// ViolationRecorded counts one persisted violation.
func (r *Recorder) ViolationRecorded(v domain.Violation) {
	if r == nil {
		return
	}
	r.violations.WithLabelValues(string(v.Kind), string(v.Severity)).Inc()
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
