package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/okian/peloton/pkg/metrics"
)

// MetricsMiddleware records request count and latency per endpoint. Error
// responses are additionally counted under the API error code the handler
// wrote, or the status class when the handler wrote none.
func MetricsMiddleware(next http.HandlerFunc, endpoint string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		durationMs := float64(time.Since(start).Microseconds()) / 1000
		status := strconv.Itoa(rec.status)
		metrics.RecordHTTPRequest(endpoint, r.Method, status)
		metrics.RecordHTTPRequestDuration(endpoint, r.Method, status, durationMs)

		if rec.status >= http.StatusBadRequest {
			metrics.RecordErrorByEndpoint(endpoint, r.Method, rec.errorType())
		}
	}
}

// statusRecorder captures the status and API error code of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	code   string
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) errorType() string {
	if rec.code != "" {
		return rec.code
	}
	if rec.status >= http.StatusInternalServerError {
		return "server_error"
	}
	return "client_error"
}

// noteErrorCode hands code to the enclosing recorder, if any.
func noteErrorCode(w http.ResponseWriter, code string) {
	if rec, ok := w.(*statusRecorder); ok {
		rec.code = code
	}
}
