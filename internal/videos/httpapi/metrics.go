package httpapi

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/romariotrain/video-catalog/internal/videos/kafka"
)

// Metrics holds the HTTP collectors. Each instance registers on its own
// registry so routers built in tests don't collide.
type Metrics struct {
	registry        *prometheus.Registry
	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	inFlight        prometheus.Gauge
}

func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &Metrics{
		registry: reg,
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "videos_http_request_duration_seconds",
			Help:    "HTTP request latencies in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "videos_http_requests_total",
			Help: "HTTP requests served, by route and status",
		}, []string{"method", "route", "status"}),
		inFlight: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "videos_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		}),
	}
	reg.MustRegister(m.requestDuration, m.requestsTotal, m.inFlight)
	return m
}

// ProducerStats is the read side of the event producer.
type ProducerStats interface {
	GetMetrics() kafka.Metrics
}

// ObserveProducer exports the producer counters on this registry. They are
// read at scrape time.
func (m *Metrics) ObserveProducer(p ProducerStats) {
	m.registry.MustRegister(
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "videos_events_published_total",
			Help: "Domain events written to Kafka",
		}, func() float64 { return float64(p.GetMetrics().MessagesPublished) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "videos_events_failed_total",
			Help: "Domain events that exhausted their retries",
		}, func() float64 { return float64(p.GetMetrics().MessagesFailed) }),
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "videos_events_retries_total",
			Help: "Kafka write retries",
		}, func() float64 { return float64(p.GetMetrics().RetriesTotal) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "videos_events_publish_avg_seconds",
			Help: "Average duration of a successful Kafka write",
		}, func() float64 { return p.GetMetrics().AvgPublishTime.Seconds() }),
	)
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		m.inFlight.Inc()
		defer m.inFlight.Dec()

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := strconv.Itoa(statusOf(ww))
		route := routePattern(r)
		m.requestDuration.WithLabelValues(r.Method, route, status).Observe(time.Since(start).Seconds())
		m.requestsTotal.WithLabelValues(r.Method, route, status).Inc()
	})
}

// routePattern keeps label cardinality bounded by using the matched chi pattern.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
}

func statusOf(ww chimw.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}
