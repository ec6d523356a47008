package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"gohuddleup/internal/adapters/http/perf"
)

// DefaultSlowRequest is the threshold used when Timing is given zero.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader carries the request id in both directions. An incoming
// value is kept so ids survive a proxy hop.
const RequestIDHeader = "X-Request-ID"

// statusWriter remembers the status code written through it.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{
	New: func() any { return &statusWriter{} },
}

// requestInfo is filled in by Route on the way out of the mux.
type requestInfo struct {
	pattern string
	role    string
}

type requestInfoKey struct{}

// Route reports the matched pattern and the signed-in role back to Timing.
// Middleware between the two copies the request, so Route must wrap the mux
// directly.
func Route(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		if info, ok := r.Context().Value(requestInfoKey{}).(*requestInfo); ok {
			info.pattern = r.Pattern
			if p, ok := PrincipalFrom(r.Context()); ok {
				info.role = p.Role
			}
		}
	})
}

// routeOf names the request for aggregation. Once ServeMux has matched, the
// pattern ("GET /api/admin/students") is used so ids in paths do not split
// one route into many.
func routeOf(r *http.Request, info *requestInfo) string {
	switch {
	case info.pattern != "":
		return info.pattern
	case r.Pattern != "":
		return r.Pattern
	}
	return r.Method + " " + r.URL.Path
}

// Timing logs every non-static request and feeds collector when it is non-nil.
// Requests at or above slow log slow_request at WARN, the rest http_request at DEBUG.
func Timing(collector *perf.Collector, slow time.Duration) func(http.Handler) http.Handler {
	if slow <= 0 {
		slow = DefaultSlowRequest
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/static/") {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			reqID := r.Header.Get(RequestIDHeader)
			if reqID == "" || len(reqID) > 64 {
				reqID = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, reqID)
			info := &requestInfo{}
			r = r.WithContext(context.WithValue(r.Context(), requestInfoKey{}, info))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				route := routeOf(r, info)
				attrs := []any{
					"request_id", reqID,
					"route", route,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", float64(elapsed.Microseconds()) / 1000.0,
				}
				if info.role != "" {
					attrs = append(attrs, "role", info.role)
				}
				if elapsed >= slow {
					slog.Warn("slow_request", attrs...)
				} else {
					slog.Debug("http_request", attrs...)
				}
				if collector != nil {
					collector.Record(perf.Entry{Route: route, Status: sw.status, Duration: elapsed, At: start})
				}

				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r)
		})
	}
}
