package metrics

import (
	"context"
	"net/http"
	"sync"

	prom "github.com/prometheus/client_golang/prometheus"
	promhttp "github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/specialistvlad/gridbuild/internal/executor"
)

// PrometheusRecorder observes builds as an executor.Listener. A nil
// recorder is valid and records nothing.
type PrometheusRecorder struct {
	once           sync.Once
	moduleDuration *prom.HistogramVec
	moduleResults  *prom.CounterVec
	modulesRunning prom.Gauge
	buildDuration  prom.Histogram
	buildOutcome   *prom.CounterVec
}

var _ executor.Listener = (*PrometheusRecorder)(nil)

// NewPrometheusRecorder constructs and registers the build metrics.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{}
	pr.once.Do(func() {
		pr.moduleDuration = prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: "gridbuild",
			Name:      "module_duration_seconds",
			Help:      "Time spent building one module",
			Buckets:   prom.DefBuckets,
		}, []string{"status"})
		pr.moduleResults = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridbuild",
			Name:      "module_results_total",
			Help:      "Module results by final status",
		}, []string{"status"})
		pr.modulesRunning = prom.NewGauge(prom.GaugeOpts{
			Namespace: "gridbuild",
			Name:      "modules_running",
			Help:      "Modules currently being built",
		})
		pr.buildDuration = prom.NewHistogram(prom.HistogramOpts{
			Namespace: "gridbuild",
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		})
		pr.buildOutcome = prom.NewCounterVec(prom.CounterOpts{
			Namespace: "gridbuild",
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"})
		reg.MustRegister(pr.moduleDuration, pr.moduleResults, pr.modulesRunning, pr.buildDuration, pr.buildOutcome)
	})
	return pr
}

func (p *PrometheusRecorder) BuildStarted(context.Context, string, []string) {}

func (p *PrometheusRecorder) ModuleStarted(context.Context, string, string) {
	if p == nil || p.modulesRunning == nil {
		return
	}
	p.modulesRunning.Inc()
}

func (p *PrometheusRecorder) ModuleFinished(_ context.Context, _ string, r executor.Result) {
	if p == nil || p.moduleResults == nil {
		return
	}
	p.moduleResults.WithLabelValues(string(r.Status)).Inc()
	// Skipped modules never started.
	if r.Status == executor.StatusSkipped {
		return
	}
	p.modulesRunning.Dec()
	p.moduleDuration.WithLabelValues(string(r.Status)).Observe(r.Duration.Seconds())
}

func (p *PrometheusRecorder) BuildFinished(_ context.Context, report *executor.Report) {
	if p == nil || p.buildDuration == nil {
		return
	}
	p.buildDuration.Observe(report.Finished.Sub(report.Started).Seconds())
	p.buildOutcome.WithLabelValues(Outcome(report)).Inc()
}

// Outcome labels a finished build.
func Outcome(r *executor.Report) string {
	_, failed, skipped := r.Counts()
	switch {
	case failed > 0:
		return "failed"
	case skipped > 0:
		return "incomplete"
	default:
		return "success"
	}
}

// HTTPHandler returns an http.Handler that serves Prometheus metrics for the provided registry.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{EnableOpenMetrics: true})
}
