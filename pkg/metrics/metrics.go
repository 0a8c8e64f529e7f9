// Package metrics exposes the outcome of a page check as Prometheus metrics,
// written to a textfile for the node_exporter textfile collector.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"uicheck/pkg/checker"
)

const namespace = "uicheck"

// Recorder holds the run metrics in a private registry
type Recorder struct {
	reg *prometheus.Registry

	runSuccess   *prometheus.GaugeVec
	runDuration  *prometheus.GaugeVec
	lastRun      *prometheus.GaugeVec
	stepSuccess  *prometheus.GaugeVec
	stepDuration *prometheus.GaugeVec
}

// NewRecorder creates a recorder with its own registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		reg: reg,
		runSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_success",
			Help:      "1 if the last page check passed, 0 otherwise",
		}, []string{"checklist"}),
		runDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Duration of the last page check",
		}, []string{"checklist"}),
		lastRun: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last page check finished",
		}, []string{"checklist"}),
		stepSuccess: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "step_success",
			Help:      "1 if the step passed, 0 if it failed or did not run",
		}, []string{"checklist", "step"}),
		stepDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "step_duration_seconds",
			Help:      "Duration of the step in the last page check",
		}, []string{"checklist", "step"}),
	}
}

// Registry returns the registry the metrics live in
func (r *Recorder) Registry() *prometheus.Registry {
	return r.reg
}

// Observe records a finished run
func (r *Recorder) Observe(result *checker.RunResult) {
	id := result.ID

	r.runSuccess.WithLabelValues(id).Set(boolValue(result.Success))
	r.runDuration.WithLabelValues(id).Set(result.Duration)
	r.lastRun.WithLabelValues(id).Set(float64(result.EndTime.Unix()))

	for _, step := range result.Steps {
		r.stepSuccess.WithLabelValues(id, step.Name).Set(boolValue(step.Success))
		r.stepDuration.WithLabelValues(id, step.Name).Set(step.Duration)
	}
	for _, name := range result.Remaining {
		r.stepSuccess.WithLabelValues(id, name).Set(0)
	}
}

// WriteTextfile atomically writes the metrics in text exposition format
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.reg); err != nil {
		return fmt.Errorf("failed to write metrics file '%s': %w", path, err)
	}
	return nil
}

// WriteRun records result in a fresh recorder and writes it to path
func WriteRun(path string, result *checker.RunResult) error {
	r := NewRecorder()
	r.Observe(result)
	return r.WriteTextfile(path)
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
