package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"goodlife/internal/adapters/http/perf"
)

// DefaultSlowRequest is the warning threshold when GOODLIFE_SLOW_REQUEST_MS is unset.
const DefaultSlowRequest = 200 * time.Millisecond

// RequestIDHeader echoes the per-process request number back to the client.
const RequestIDHeader = "X-Request-Id"

var requestCounter atomic.Uint64

type requestIDKey struct{}

// SlowRequestThreshold reads GOODLIFE_SLOW_REQUEST_MS, falling back to DefaultSlowRequest.
func SlowRequestThreshold() time.Duration {
	if n, err := strconv.Atoi(os.Getenv("GOODLIFE_SLOW_REQUEST_MS")); err == nil && n > 0 {
		return time.Duration(n) * time.Millisecond
	}
	return DefaultSlowRequest
}

// RequestID returns the number Timing assigned to the request, or 0.
func RequestID(ctx context.Context) uint64 {
	id, _ := ctx.Value(requestIDKey{}).(uint64)
	return id
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) WriteHeader(code int) {
	sw.status = code
	sw.ResponseWriter.WriteHeader(code)
}

var statusWriterPool = sync.Pool{New: func() any { return &statusWriter{} }}

func untimed(path string) bool {
	return strings.HasPrefix(path, "/static/") || path == "/api/health" || path == "/favicon.ico"
}

// RouteLabel groups requests for the perf panel: any path segment that holds
// a digit (record ids, uuids, dates) becomes {id}.
func RouteLabel(method, path string) string {
	segs := strings.Split(path, "/")
	for i, s := range segs {
		if strings.ContainsAny(s, "0123456789") {
			segs[i] = "{id}"
		}
	}
	return method + " " + strings.Join(segs, "/")
}

// Timing logs each request and records it into collector under its RouteLabel.
// Requests at or over the threshold log at WARN, the rest at DEBUG.
// POST: every timed response carries X-Request-Id; collector may be nil
func Timing(collector *perf.Collector) func(http.Handler) http.Handler {
	slow := SlowRequestThreshold()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if untimed(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			id := requestCounter.Add(1)
			w.Header().Set(RequestIDHeader, strconv.FormatUint(id, 10))

			sw := statusWriterPool.Get().(*statusWriter)
			sw.ResponseWriter = w
			sw.status = http.StatusOK
			defer func() {
				elapsed := time.Since(start)
				ms := float64(elapsed.Microseconds()) / 1000.0
				level, event := slog.LevelDebug, "request"
				if elapsed >= slow {
					level, event = slog.LevelWarn, "slow_request"
				}
				slog.Log(r.Context(), level, event,
					"request_id", id,
					"method", r.Method,
					"path", r.URL.Path,
					"status", sw.status,
					"duration_ms", ms,
				)
				collector.Record(perf.Entry{
					Kind:       perf.KindRequest,
					Path:       RouteLabel(r.Method, r.URL.Path),
					StatusCode: sw.status,
					DurationMs: ms,
					Timestamp:  start,
				})
				sw.ResponseWriter = nil
				statusWriterPool.Put(sw)
			}()

			next.ServeHTTP(sw, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}
