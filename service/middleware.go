package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// requestIDHeader is propagated from the request when the caller set it, so
// a caller's trace ID survives the hop.
const requestIDHeader = "X-Request-ID"

// withRequestID stamps every response with a request ID.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response code for metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

// withRequestMetrics counts requests by status code and observes latency.
func (s *Server) withRequestMetrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)

		s.metrics.RequestsTotal.WithLabelValues(strconv.Itoa(rec.status)).Inc()
		s.metrics.RequestDuration.Observe(time.Since(start).Seconds())
	})
}
