package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QueryServerMetrics holds metrics related to the analysis HTTP server.
type QueryServerMetrics struct {
	Requests        *prometheus.CounterVec
	RequestsLatency *prometheus.HistogramVec
}

func NewQueryServerMetrics() *QueryServerMetrics {
	const (
		namespace = "tracelens"
		subsystem = "query_server"
	)

	return &QueryServerMetrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Count of the analysis requests",
		}, []string{"route", "method", "status"}),

		RequestsLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_latency_seconds",
			Help:      "Histogram of times spent serving analysis requests",
			Buckets:   prometheus.ExponentialBuckets(1e-3, 5, 7),
		}, []string{"route", "method"}),
	}
}

func (qsm *QueryServerMetrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		qsm.Requests,
		qsm.RequestsLatency,
	}
}

func (qsm *QueryServerMetrics) MustRegister(registry *prometheus.Registry) {
	registry.MustRegister(qsm.PrometheusCollectors()...)
}
