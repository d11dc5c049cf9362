package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var durationBuckets = []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30}

// Recorder 持有进程的 Prometheus 指标。nil Recorder 的所有方法都是空操作。
type Recorder struct {
	registry         *prometheus.Registry
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	upstreamDuration *prometheus.HistogramVec
}

func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dataproxy_requests_total",
			Help: "Total number of inbound requests handled by the proxy.",
		}, []string{"method", "route", "code"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataproxy_request_duration_seconds",
			Help:    "Duration of inbound requests in seconds.",
			Buckets: durationBuckets,
		}, []string{"method", "route", "code"}),
		upstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataproxy_upstream_duration_seconds",
			Help:    "Duration of outbound upstream calls in seconds, by outcome.",
			Buckets: durationBuckets,
		}, []string{"outcome"}),
	}

	r.registry.MustRegister(
		r.requests,
		r.requestDuration,
		r.upstreamDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return r
}

func (r *Recorder) ObserveRequest(method, route string, code int, d time.Duration) {
	if r == nil {
		return
	}
	c := strconv.Itoa(code)
	r.requests.WithLabelValues(method, route, c).Inc()
	r.requestDuration.WithLabelValues(method, route, c).Observe(d.Seconds())
}

func (r *Recorder) ObserveUpstream(outcome string, d time.Duration) {
	if r == nil {
		return
	}
	r.upstreamDuration.WithLabelValues(outcome).Observe(d.Seconds())
}

// Handler 返回 /metrics 处理器。
func (r *Recorder) Handler() http.Handler {
	if r == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
