package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var latencyBuckets = []float64{
	0.001, 0.002, 0.005,
	0.01, 0.02, 0.05,
	0.1, 0.2, 0.5,
	1, 2, 5, 10,
}

// Prometheus implements [ChartHooks], [CacheHooks] and [HTTPHooks] with
// Prometheus collectors.
type Prometheus struct {
	loads        *prometheus.CounterVec
	loadLatency  *prometheus.HistogramVec
	loadRecords  prometheus.Gauge
	interactions *prometheus.CounterVec
	renders      *prometheus.CounterVec
	renderTime   *prometheus.HistogramVec
	cacheOps     *prometheus.CounterVec
	cacheBytes   prometheus.Counter
	fetches      *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
}

// NewPrometheus creates and registers the collectors on reg.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	f := promauto.With(reg)
	return &Prometheus{
		loads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "roster",
			Name:      "loads_total",
			Help:      "Roster loads broken down by result.",
		}, []string{"result"}),
		loadLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Subsystem: "roster",
			Name:      "load_seconds",
			Help:      "Time to fetch and parse a roster.",
			Buckets:   latencyBuckets,
		}, []string{"result"}),
		loadRecords: f.NewGauge(prometheus.GaugeOpts{
			Namespace: "orgchart",
			Subsystem: "roster",
			Name:      "records",
			Help:      "Records in the most recently loaded roster.",
		}),
		interactions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "chart",
			Name:      "interactions_total",
			Help:      "Toggle and layer actions broken down by action.",
		}, []string{"action"}),
		renders: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "chart",
			Name:      "renders_total",
			Help:      "Full re-renders broken down by format and result.",
		}, []string{"format", "result"}),
		renderTime: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Subsystem: "chart",
			Name:      "render_seconds",
			Help:      "Latency distribution for chart renders.",
			Buckets:   latencyBuckets,
		}, []string{"format"}),
		cacheOps: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "cache",
			Name:      "operations_total",
			Help:      "Cache operations broken down by key type and outcome.",
		}, []string{"key_type", "op"}),
		cacheBytes: f.NewCounter(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "cache",
			Name:      "written_bytes_total",
			Help:      "Bytes written to the cache.",
		}),
		fetches: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: "orgchart",
			Subsystem: "fetch",
			Name:      "requests_total",
			Help:      "Outbound roster requests broken down by host and result.",
		}, []string{"host", "result"}),
		fetchLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "orgchart",
			Subsystem: "fetch",
			Name:      "latency_seconds",
			Help:      "Latency distribution for outbound roster requests.",
			Buckets:   latencyBuckets,
		}, []string{"host"}),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// StatusClass maps an HTTP status to "2xx", "4xx" or "5xx".
func StatusClass(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	}
	return "2xx"
}

func (p *Prometheus) OnLoadStart(context.Context, string) {}

func (p *Prometheus) OnLoadComplete(_ context.Context, _ string, records int, d time.Duration, err error) {
	p.loads.WithLabelValues(result(err)).Inc()
	p.loadLatency.WithLabelValues(result(err)).Observe(d.Seconds())
	if err == nil {
		p.loadRecords.Set(float64(records))
	}
}

func (p *Prometheus) OnInteraction(_ context.Context, action string, _ int) {
	p.interactions.WithLabelValues(action).Inc()
}

func (p *Prometheus) OnRender(_ context.Context, format string, _ int, d time.Duration, err error) {
	p.renders.WithLabelValues(format, result(err)).Inc()
	p.renderTime.WithLabelValues(format).Observe(d.Seconds())
}

func (p *Prometheus) OnCacheHit(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "hit").Inc()
}

func (p *Prometheus) OnCacheMiss(_ context.Context, keyType string) {
	p.cacheOps.WithLabelValues(keyType, "miss").Inc()
}

func (p *Prometheus) OnCacheSet(_ context.Context, keyType string, size int) {
	p.cacheOps.WithLabelValues(keyType, "set").Inc()
	p.cacheBytes.Add(float64(size))
}

func (p *Prometheus) OnRequest(context.Context, string, string, string) {}

func (p *Prometheus) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	p.fetches.WithLabelValues(host, StatusClass(status)).Inc()
	p.fetchLatency.WithLabelValues(host).Observe(d.Seconds())
}

func (p *Prometheus) OnError(_ context.Context, _, host, _ string, _ error) {
	p.fetches.WithLabelValues(host, "error").Inc()
}

var (
	_ ChartHooks = (*Prometheus)(nil)
	_ CacheHooks = (*Prometheus)(nil)
	_ HTTPHooks  = (*Prometheus)(nil)
)
