package node

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"lwwset/internal/lww"
)

// Metrics holds the node's Prometheus collectors on a private registry.
type Metrics struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	rpcLatency *prometheus.HistogramVec
}

// NewMetrics registers operation, RPC and log-size collectors for set.
func NewMetrics(nodeID string, set *lww.Set[string, int64]) *Metrics {
	reg := prometheus.NewRegistry()
	labels := prometheus.Labels{"node": nodeID}

	m := &Metrics{
		registry: reg,
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   "lww",
			Name:        "operations_total",
			Help:        "Set operations served, by kind.",
			ConstLabels: labels,
		}, []string{"op"}),
		rpcLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   "lww",
			Name:        "rpc_duration_seconds",
			Help:        "Latency of LWWSet RPCs.",
			ConstLabels: labels,
			Buckets:     prometheus.ExponentialBuckets(0.0001, 4, 8),
		}, []string{"method", "code"}),
	}

	logSize := func(pick func(adds, removes int) int) func() float64 {
		return func() float64 {
			return float64(pick(set.Sizes()))
		}
	}

	reg.MustRegister(
		m.operations,
		m.rpcLatency,
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "lww",
			Name:        "add_log_entries",
			Help:        "Entries in the add log.",
			ConstLabels: labels,
		}, logSize(func(adds, _ int) int { return adds })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "lww",
			Name:        "remove_log_entries",
			Help:        "Entries in the remove log, tombstones included.",
			ConstLabels: labels,
		}, logSize(func(_, removes int) int { return removes })),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   "lww",
			Name:        "members",
			Help:        "Elements currently in the set.",
			ConstLabels: labels,
		}, func() float64 { return float64(len(set.Get())) }),
		collectors.NewGoCollector(),
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) observeOp(op string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(op).Inc()
}

func (m *Metrics) observeRPC(method, code string, seconds float64) {
	if m == nil {
		return
	}
	m.rpcLatency.WithLabelValues(method, code).Observe(seconds)
}
