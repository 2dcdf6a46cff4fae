// Package metrics exposes prometheus collectors for uploads and HTTP traffic.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Recorder struct {
	registry           *prometheus.Registry
	uploadsTotal       *prometheus.CounterVec
	recordsDistributed prometheus.Counter
	uploadDuration     prometheus.Histogram
	summaryCache       *prometheus.CounterVec
	httpRequestsTotal  *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

// NewRecorder registers every collector on a private registry so tests and
// multiple processes in one binary do not collide on the global one.
func NewRecorder() *Recorder {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(registry)
	return &Recorder{
		registry: registry,
		uploadsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentlists_uploads_total",
			Help: "Uploads processed by outcome.",
		}, []string{"outcome"}),
		recordsDistributed: factory.NewCounter(prometheus.CounterOpts{
			Name: "agentlists_records_distributed_total",
			Help: "Records assigned to agents by successful uploads.",
		}),
		uploadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "agentlists_upload_duration_seconds",
			Help:    "Upload processing duration.",
			Buckets: prometheus.DefBuckets,
		}),
		summaryCache: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentlists_summary_cache_total",
			Help: "Summary cache lookups by result.",
		}, []string{"result"}),
		httpRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "agentlists_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "agentlists_http_request_duration_seconds",
			Help:    "HTTP request duration by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

func (m *Recorder) ObserveUpload(outcome string, records int, duration time.Duration) {
	if m == nil {
		return
	}
	m.uploadsTotal.WithLabelValues(outcome).Inc()
	m.uploadDuration.Observe(duration.Seconds())
	if records > 0 {
		m.recordsDistributed.Add(float64(records))
	}
}

func (m *Recorder) ObserveSummaryCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.summaryCache.WithLabelValues(result).Inc()
}

func (m *Recorder) ObserveHTTP(method string, route string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

func (m *Recorder) Registry() *prometheus.Registry {
	return m.registry
}
