package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/tracelens/tracelens/internal/query_server/metrics"
	"go.uber.org/zap"
)

const RequestIdHeader = "X-Request-Id"

// statusRecorder remembers the status code written by the wrapped handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// RequestId tags every request with a generated id so log lines from one
// request can be correlated.
func RequestId(logger *zap.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			requestId := r.Header.Get(RequestIdHeader)
			if requestId == "" {
				requestId = uuid.NewString()
			}
			w.Header().Set(RequestIdHeader, requestId)
			logger.Debug(
				"Request received",
				zap.String("request_id", requestId),
				zap.String("path", r.URL.Path),
				zap.String("method", r.Method),
			)
			next.ServeHTTP(w, r)
		})
	}
}

// Metrics records request counts and latencies per route.
func Metrics(qsm *metrics.QueryServerMetrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := r.URL.Path
			if currentRoute := mux.CurrentRoute(r); currentRoute != nil {
				if pathTemplate, err := currentRoute.GetPathTemplate(); err == nil {
					route = pathTemplate
				}
			}
			recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(recorder, r)
			qsm.Requests.WithLabelValues(route, r.Method, strconv.Itoa(recorder.status)).Inc()
			qsm.RequestsLatency.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}
