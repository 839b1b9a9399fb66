// Package metrics defines the build observability hooks.
//
// Components receive a Recorder and call it unconditionally. NoopRecorder is
// the default; PrometheusRecorder exports the same observations on a
// Prometheus registry, which the preview server exposes at /metrics.
//
//	rec := metrics.NewPrometheusRecorder(reg)
//	builder := site.NewBuilder(cfg, site.WithRecorder(rec))
package metrics
