package preview

import (
	"bufio"
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/metrics"
)

func writeSite(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "blog"), 0o750))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "assets", "css"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, "index.html"), []byte("<html><body><h1>Home</h1></body></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "blog", "index.html"), []byte("<html><body>Blog</body></html>"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(root, "assets", "css", "site.css"), []byte("body{}"), 0o600))
	return root
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestHandler_InjectsScriptIntoHTML(t *testing.T) {
	h := New(Options{Root: writeSite(t), LiveReload: true}).Handler()

	rec := get(t, h, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "<html><body><h1>Home</h1>"+scriptTag+"</body></html>", rec.Body.String())

	rec = get(t, h, "/blog/")
	require.Contains(t, rec.Body.String(), scriptTag)

	rec = get(t, h, "/assets/css/site.css")
	require.Equal(t, "body{}", rec.Body.String())

	rec = get(t, h, "/livereload.js")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "EventSource('/livereload')")
}

func TestHandler_NoInjectionWhenDisabled(t *testing.T) {
	h := New(Options{Root: writeSite(t)}).Handler()

	rec := get(t, h, "/")
	require.NotContains(t, rec.Body.String(), scriptTag)
	require.Equal(t, http.StatusNotFound, get(t, h, "/livereload.js").Code)
	require.Equal(t, http.StatusNotFound, get(t, h, "/metrics").Code)
}

func TestHandler_MissingPageIsNotInjected(t *testing.T) {
	h := New(Options{Root: writeSite(t), LiveReload: true}).Handler()
	rec := get(t, h, "/nope/")
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.NotContains(t, rec.Body.String(), scriptTag)
}

func TestHandler_Metrics(t *testing.T) {
	reg := prom.NewRegistry()
	rec := metrics.NewPrometheusRecorder(reg)
	rec.AddPagesRendered("post", 3)

	h := New(Options{Root: writeSite(t), Registry: reg}).Handler()
	resp := get(t, h, "/metrics")
	require.Equal(t, http.StatusOK, resp.Code)
	require.Contains(t, resp.Body.String(), "sitegen_pages_rendered_total")
}

func TestLiveReload_BroadcastReachesClient(t *testing.T) {
	s := New(Options{Root: writeSite(t), LiveReload: true})
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/livereload", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	r := bufio.NewReader(resp.Body)
	line, err := r.ReadString('\n')
	require.NoError(t, err)
	require.Equal(t, ": connected\n", line)

	require.Eventually(t, func() bool { return s.hub.Clients() == 1 }, 2*time.Second, 10*time.Millisecond)
	s.Notify("build-1")

	for {
		line, err = r.ReadString('\n')
		require.NoError(t, err)
		if strings.HasPrefix(line, "data:") {
			break
		}
	}
	require.Equal(t, "data: {\"build\":\"build-1\"}\n", line)

	cancel()
	require.Eventually(t, func() bool { return s.hub.Clients() == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestLiveReloadHub_ShutdownRejects(t *testing.T) {
	hub := NewLiveReloadHub()
	hub.Shutdown()
	hub.Broadcast("x")
	rec := httptest.NewRecorder()
	hub.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/livereload", nil))
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServe_StopsOnCancel(t *testing.T) {
	s := New(Options{Root: writeSite(t)})
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String() + "/")
		if err != nil {
			return false
		}
		defer func() { _ = resp.Body.Close() }()
		body, _ := io.ReadAll(resp.Body)
		return strings.Contains(string(body), "Home")
	}, 2*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}
