package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("render_posts", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("render_posts", ResultSuccess)
	pr.IncBuildOutcome(OutcomeSuccess)
	pr.AddPagesRendered("post", 3)
	pr.IncRebuildRequest("fs", true)

	mfs, err := reg.Gather()
	require.NoError(t, err)

	names := map[string]float64{}
	for _, mf := range mfs {
		var total float64
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				total += c.GetValue()
			}
		}
		names[mf.GetName()] = total
	}
	require.Contains(t, names, "sitegen_stage_duration_seconds")
	require.Contains(t, names, "sitegen_build_duration_seconds")
	require.InDelta(t, 3, names["sitegen_pages_rendered_total"], 0)
	require.InDelta(t, 1, names["sitegen_rebuild_requests_total"], 0)
	require.InDelta(t, 1, names["sitegen_build_outcomes_total"], 0)
}

func TestPrometheusRecorder_NilSafe(t *testing.T) {
	var pr *PrometheusRecorder
	require.NotPanics(t, func() {
		pr.ObserveBuildDuration(time.Second)
		pr.IncBuildOutcome(OutcomeFailed)
		pr.AddPagesRendered("page", 1)
	})
}

func TestHTTPHandler(t *testing.T) {
	reg := prom.NewRegistry()
	NewPrometheusRecorder(reg).IncBuildOutcome(OutcomeSuccess)

	srv := httptest.NewServer(HTTPHandler(reg))
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `sitegen_build_outcomes_total{outcome="success"} 1`)
}

func TestNoopRecorderImplementsRecorder(t *testing.T) {
	var r Recorder = NoopRecorder{}
	r.IncRebuildRequest("cron", false)
	r.AddPagesRendered("home", 1)
}
