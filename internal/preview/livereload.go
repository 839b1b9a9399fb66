package preview

import (
	"bufio"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// heartbeat is the interval between SSE keep-alive comments.
const heartbeat = 30 * time.Second

// LiveReloadHub manages SSE clients for build-completed broadcasts.
type LiveReloadHub struct {
	mu      sync.RWMutex
	nextID  int
	clients map[int]*lrClient
	closed  bool
	lastID  string
}

type lrClient struct {
	id   int
	ch   chan string
	done chan struct{}
}

// NewLiveReloadHub returns an empty hub.
func NewLiveReloadHub() *LiveReloadHub {
	return &LiveReloadHub{clients: map[int]*lrClient{}}
}

// ServeHTTP implements the SSE endpoint at /livereload.
func (h *LiveReloadHub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "livereload shutting down", http.StatusServiceUnavailable)
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "stream unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	client := &lrClient{ch: make(chan string, 8), done: make(chan struct{})}
	h.mu.Lock()
	client.id = h.nextID
	h.nextID++
	h.clients[client.id] = client
	current := h.lastID
	h.mu.Unlock()

	bw := bufio.NewWriter(w)
	send := func(s string) bool {
		if _, err := bw.WriteString(s); err != nil {
			slog.Debug("livereload write", "error", err)
			return false
		}
		if err := bw.Flush(); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	greeting := ": connected\n\n"
	if current != "" {
		greeting += event(current)
	}
	if !send(greeting) {
		h.removeClient(client.id)
		return
	}

	hb := time.NewTicker(heartbeat)
	defer hb.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.removeClient(client.id)
			return
		case <-client.done:
			return
		case <-hb.C:
			send(": ping\n\n")
		case id := <-client.ch:
			send(event(id))
		}
	}
}

func event(buildID string) string {
	return "data: {\"build\":\"" + buildID + "\"}\n\n"
}

func (h *LiveReloadHub) removeClient(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if c, ok := h.clients[id]; ok {
		delete(h.clients, id)
		close(c.done)
	}
}

// Clients returns the number of connected clients.
func (h *LiveReloadHub) Clients() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast tells every client that build buildID completed. Clients whose
// buffers are full are dropped.
func (h *LiveReloadHub) Broadcast(buildID string) {
	h.mu.Lock()
	if h.closed || buildID == "" || buildID == h.lastID {
		h.mu.Unlock()
		return
	}
	h.lastID = buildID
	snapshot := make([]*lrClient, 0, len(h.clients))
	for _, c := range h.clients {
		snapshot = append(snapshot, c)
	}
	h.mu.Unlock()

	dropped := 0
	for _, c := range snapshot {
		select {
		case c.ch <- buildID:
		default:
			dropped++
			h.removeClient(c.id)
		}
	}
	slog.Debug("livereload broadcast", "build_id", buildID, "clients", len(snapshot), "dropped", dropped)
}

// Shutdown disconnects all clients and rejects new ones.
func (h *LiveReloadHub) Shutdown() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	clients := h.clients
	h.clients = map[int]*lrClient{}
	h.mu.Unlock()
	for _, c := range clients {
		close(c.done)
	}
}

// LiveReloadScript is served at /livereload.js. The first event after
// connecting records the current build; any later one reloads the page.
const LiveReloadScript = `(() => {
  if (window.__SITEGEN_LR__) return;
  window.__SITEGEN_LR__ = true;
  function connect() {
    const es = new EventSource('/livereload');
    let current = null;
    es.onmessage = (e) => {
      try {
        const p = JSON.parse(e.data);
        if (current === null) { current = p.build; return; }
        if (p.build && p.build !== current) { location.reload(); }
      } catch (_) {}
    };
    es.onerror = () => { es.close(); setTimeout(connect, 2000); };
  }
  connect();
})();
`
