package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks records pipeline and cache events as Prometheus metrics.
type PrometheusHooks struct {
	LoadsTotal      *prometheus.CounterVec
	GraphNodes      prometheus.Gauge
	GraphEdges      prometheus.Gauge
	LayoutsTotal    *prometheus.CounterVec
	LayoutDuration  prometheus.Histogram
	LayoutsInFlight prometheus.Gauge
	RendersTotal    *prometheus.CounterVec
	RenderBytes     *prometheus.GaugeVec
	CacheOpsTotal   *prometheus.CounterVec
	CacheBytesTotal *prometheus.CounterVec
}

// NewPrometheusHooks registers the metrics with reg.
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		LoadsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcelayout_graph_loads_total",
				Help: "Graph loads by result",
			},
			[]string{"result"},
		),
		GraphNodes: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "forcelayout_graph_nodes",
				Help: "Node count of the most recently loaded graph",
			},
		),
		GraphEdges: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "forcelayout_graph_edges",
				Help: "Edge count of the most recently loaded graph",
			},
		),
		LayoutsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcelayout_layouts_total",
				Help: "Layout runs by result",
			},
			[]string{"result"},
		),
		LayoutDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "forcelayout_layout_duration_seconds",
				Help:    "Wall time of layout runs",
				Buckets: prometheus.ExponentialBuckets(0.001, 4, 10),
			},
		),
		LayoutsInFlight: f.NewGauge(
			prometheus.GaugeOpts{
				Name: "forcelayout_layouts_in_flight",
				Help: "Layout runs currently executing",
			},
		),
		RendersTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcelayout_renders_total",
				Help: "Renders by format and result",
			},
			[]string{"format", "result"},
		),
		RenderBytes: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "forcelayout_render_bytes",
				Help: "Size of the most recent render by format",
			},
			[]string{"format"},
		),
		CacheOpsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcelayout_cache_operations_total",
				Help: "Cache operations by key type and outcome",
			},
			[]string{"key_type", "op"},
		),
		CacheBytesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "forcelayout_cache_written_bytes_total",
				Help: "Bytes written to the cache by key type",
			},
			[]string{"key_type"},
		),
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

func (h *PrometheusHooks) OnLoadStart(context.Context, string) {}

func (h *PrometheusHooks) OnLoadComplete(_ context.Context, _ string, nodes, edges int, _ time.Duration, err error) {
	h.LoadsTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		h.GraphNodes.Set(float64(nodes))
		h.GraphEdges.Set(float64(edges))
	}
}

func (h *PrometheusHooks) OnLayoutStart(context.Context, int, int) {
	h.LayoutsInFlight.Inc()
}

func (h *PrometheusHooks) OnLayoutComplete(_ context.Context, _ int, d time.Duration, err error) {
	h.LayoutsInFlight.Dec()
	h.LayoutsTotal.WithLabelValues(result(err)).Inc()
	if err == nil {
		h.LayoutDuration.Observe(d.Seconds())
	}
}

func (h *PrometheusHooks) OnRenderStart(context.Context, string) {}

func (h *PrometheusHooks) OnRenderComplete(_ context.Context, format string, size int, _ time.Duration, err error) {
	h.RendersTotal.WithLabelValues(format, result(err)).Inc()
	if err == nil {
		h.RenderBytes.WithLabelValues(format).Set(float64(size))
	}
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.CacheOpsTotal.WithLabelValues(keyType, "hit").Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.CacheOpsTotal.WithLabelValues(keyType, "miss").Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.CacheOpsTotal.WithLabelValues(keyType, "set").Inc()
	h.CacheBytesTotal.WithLabelValues(keyType).Add(float64(size))
}

// WriteTextfile writes every metric in g to path in the Prometheus text
// format. The file is replaced atomically.
func WriteTextfile(path string, g prometheus.Gatherer) error {
	return prometheus.WriteToTextfile(path, g)
}

var (
	_ PipelineHooks = (*PrometheusHooks)(nil)
	_ CacheHooks    = (*PrometheusHooks)(nil)
)
