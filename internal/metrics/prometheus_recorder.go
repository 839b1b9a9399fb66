package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "sitegen"

var _ Recorder = (*PrometheusRecorder)(nil)

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	stageDuration   *prom.HistogramVec
	buildDuration   prom.Histogram
	stageResults    *prom.CounterVec
	buildOutcome    *prom.CounterVec
	pagesRendered   *prom.CounterVec
	rebuildRequests *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them on reg. A
// nil reg gets a private registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		stageDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "stage_duration_seconds",
			Help:      "Duration of individual build stages",
			Buckets:   prom.DefBuckets,
		}, []string{"stage"}),
		buildDuration: prom.NewHistogram(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "build_duration_seconds",
			Help:      "Total build duration",
			Buckets:   prom.DefBuckets,
		}),
		stageResults: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "stage_results_total",
			Help:      "Stage result counts by outcome",
		}, []string{"stage", "result"}),
		buildOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "build_outcomes_total",
			Help:      "Build outcomes by final status",
		}, []string{"outcome"}),
		pagesRendered: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "pages_rendered_total",
			Help:      "Pages written by kind",
		}, []string{"kind"}),
		rebuildRequests: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "rebuild_requests_total",
			Help:      "Watcher rebuild requests by trigger",
		}, []string{"trigger", "coalesced"}),
	}
	reg.MustRegister(pr.stageDuration, pr.buildDuration, pr.stageResults, pr.buildOutcome, pr.pagesRendered, pr.rebuildRequests)
	return pr
}

func (p *PrometheusRecorder) ObserveStageDuration(stage string, d time.Duration) {
	if p == nil {
		return
	}
	p.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

func (p *PrometheusRecorder) ObserveBuildDuration(d time.Duration) {
	if p == nil {
		return
	}
	p.buildDuration.Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncStageResult(stage string, result ResultLabel) {
	if p == nil {
		return
	}
	p.stageResults.WithLabelValues(stage, string(result)).Inc()
}

func (p *PrometheusRecorder) IncBuildOutcome(outcome BuildOutcome) {
	if p == nil {
		return
	}
	p.buildOutcome.WithLabelValues(string(outcome)).Inc()
}

func (p *PrometheusRecorder) AddPagesRendered(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.pagesRendered.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncRebuildRequest(trigger string, coalesced bool) {
	if p == nil {
		return
	}
	p.rebuildRequests.WithLabelValues(trigger, strconv.FormatBool(coalesced)).Inc()
}
