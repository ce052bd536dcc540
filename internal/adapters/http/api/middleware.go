package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/mcr/pkg/metrics"
)

// MetricsMiddleware records request count and latency per endpoint. Failed
// requests are also counted by the error code the handler reported, or by
// status class when the handler did not report one (mux 404/405).
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if rec.status < http.StatusBadRequest {
			return
		}
		code := rec.errorCode
		if code == "" {
			code = statusClass(rec.status)
		}
		metrics.RecordErrorByEndpoint(endpoint, r.Method, code)
		metrics.RecordErrorByType(code, severity(rec.status))
	}
}

func statusClass(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "internal_error"
	case status == http.StatusNotFound:
		return "not_found"
	case status == http.StatusMethodNotAllowed:
		return "method_not_allowed"
	default:
		return "bad_request"
	}
}

func severity(status int) string {
	if status >= http.StatusInternalServerError {
		return "high"
	}
	return "medium"
}

// statusRecorder captures the status and the error code a handler wrote.
type statusRecorder struct {
	http.ResponseWriter
	status    int
	errorCode string
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// tagError attaches an API error code to w for MetricsMiddleware. It is a
// no-op on writers the middleware did not wrap.
func tagError(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.errorCode = code
	}
}
