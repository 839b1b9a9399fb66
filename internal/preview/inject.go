package preview

import (
	"net/http"
	"strconv"
	"strings"
)

const (
	scriptTag     = `<script async src="/livereload.js"></script>`
	maxInjectSize = 512 * 1024
)

// injectLiveReload adds the live reload script before </body> in HTML
// responses.
func injectLiveReload(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		p := r.URL.Path
		if !(p == "" || strings.HasSuffix(p, "/") || strings.HasSuffix(p, ".html")) {
			next.ServeHTTP(w, r)
			return
		}
		inj := &injector{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(inj, r)
		inj.finalize()
	})
}

// injector buffers HTML bodies up to maxInjectSize; anything else passes
// through untouched.
type injector struct {
	http.ResponseWriter
	status      int
	buffer      []byte
	wroteHeader bool
	passthrough bool
}

func (i *injector) WriteHeader(code int) {
	i.status = code
	if i.passthrough {
		i.ResponseWriter.WriteHeader(code)
		i.wroteHeader = true
	}
}

func (i *injector) Write(data []byte) (int, error) {
	if !i.wroteHeader && !i.passthrough && i.buffer == nil {
		ct := i.Header().Get("Content-Type")
		if (ct != "" && !strings.Contains(ct, "text/html")) || i.status != http.StatusOK {
			i.startPassthrough()
			return i.ResponseWriter.Write(data)
		}
		i.buffer = make([]byte, 0, 16*1024)
	}
	if i.passthrough {
		return i.ResponseWriter.Write(data)
	}
	if len(i.buffer)+len(data) > maxInjectSize {
		i.startPassthrough()
		if _, err := i.ResponseWriter.Write(i.buffer); err != nil {
			return 0, err
		}
		return i.ResponseWriter.Write(data)
	}
	i.buffer = append(i.buffer, data...)
	return len(data), nil
}

func (i *injector) startPassthrough() {
	i.passthrough = true
	i.ResponseWriter.WriteHeader(i.status)
	i.wroteHeader = true
}

// finalize writes the buffered body with the script injected.
func (i *injector) finalize() {
	if i.passthrough || i.buffer == nil {
		if !i.wroteHeader {
			i.ResponseWriter.WriteHeader(i.status)
		}
		return
	}
	body := string(i.buffer)
	if idx := strings.LastIndex(body, "</body>"); idx >= 0 {
		body = body[:idx] + scriptTag + body[idx:]
	} else {
		body += scriptTag
	}
	i.Header().Set("Content-Length", strconv.Itoa(len(body)))
	i.ResponseWriter.WriteHeader(i.status)
	_, _ = i.ResponseWriter.Write([]byte(body))
}
