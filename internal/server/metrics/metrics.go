// Package metrics holds the backend's Prometheus instrumentation.
package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const maxLabelLen = 64

// sanitizeLabel keeps label values short and non-empty.
func sanitizeLabel(s string) string {
	if s == "" {
		return "unknown"
	}
	s = strings.ReplaceAll(s, " ", "_")
	if len(s) > maxLabelLen {
		s = s[:maxLabelLen]
	}
	return s
}

// Metrics owns a private registry so tests and multiple servers in one
// process never collide on the global one.
type Metrics struct {
	registry *prometheus.Registry

	rpcRequests *prometheus.CounterVec
	rpcDuration *prometheus.HistogramVec
	distills    *prometheus.CounterVec
	purchases   *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "distillr",
				Subsystem: "rpc",
				Name:      "requests_total",
				Help:      "Total RPC calls by method and status code",
			},
			[]string{"method", "code"},
		),
		rpcDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "distillr",
				Subsystem: "rpc",
				Name:      "duration_seconds",
				Help:      "RPC handling latency by method",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method"},
		),
		distills: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "distillr",
				Name:      "distills_total",
				Help:      "Total distill requests by result",
			},
			[]string{"result"},
		),
		purchases: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "distillr",
				Name:      "purchases_confirmed_total",
				Help:      "Total confirmed PRO purchases by platform and environment",
			},
			[]string{"platform", "env"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcRequests,
		m.rpcDuration,
		m.distills,
		m.purchases,
	)
	return m
}

// Registry is served on /metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) ObserveRPC(method, code string, d time.Duration) {
	method = sanitizeLabel(method)
	m.rpcRequests.WithLabelValues(method, sanitizeLabel(code)).Inc()
	m.rpcDuration.WithLabelValues(method).Observe(d.Seconds())
}

// Distill counts a distill outcome: "ok", "exhausted" or "failed".
func (m *Metrics) Distill(result string) {
	m.distills.WithLabelValues(sanitizeLabel(result)).Inc()
}

func (m *Metrics) PurchaseConfirmed(platform string, isLive bool) {
	env := "test"
	if isLive {
		env = "live"
	}
	m.purchases.WithLabelValues(sanitizeLabel(platform), env).Inc()
}
