package router

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tracelens/tracelens/internal/analysis/anomaly"
	"github.com/tracelens/tracelens/internal/analysis/timeline"
	"github.com/tracelens/tracelens/internal/query_server/handler"
	"github.com/tracelens/tracelens/internal/query_server/metrics"
	"github.com/tracelens/tracelens/internal/query_server/middleware"
	traceService "github.com/tracelens/tracelens/internal/query_server/service/trace"
	"go.uber.org/zap"
)
import "github.com/gorilla/mux"

func CreateRouter(
	ctx context.Context,
	timelineAnalyzer *timeline.Analyzer,
	anomalyDetector *anomaly.Detector,
	traceQueryService traceService.TraceQueryService,
	registry *prometheus.Registry,
	logger *zap.Logger,
) http.Handler {
	r := mux.NewRouter()

	qsm := metrics.NewQueryServerMetrics()
	qsm.MustRegister(registry)

	r.Use(middleware.RequestId(logger))
	r.Use(middleware.Metrics(qsm))

	r.Handle(
		"/analysis/layout", handler.LayoutHandler(
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/analysis/timeline", handler.TimelineHandler(
			timelineAnalyzer,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/analysis/anomalies", handler.AnomalyHandler(
			anomalyDetector,
			logger,
		),
	).Methods("POST")

	r.Handle(
		"/traces/{traceId}/timeline", handler.TraceTimelineHandler(
			ctx,
			traceQueryService,
			logger,
		),
	).Methods("GET")

	r.Handle(
		"/metrics",
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	).Methods("GET")

	return r
}
