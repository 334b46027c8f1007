// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Upload results.
const (
	UploadCreated  = "created"
	UploadRejected = "rejected"
	UploadStorage  = "storage_failed"
	UploadPersist  = "persist_failed"
)

type Metrics struct {
	OrdersPlaced         prometheus.Counter
	OrderConflicts       prometheus.Counter
	NotificationFailures prometheus.Counter
	Uploads              *prometheus.CounterVec
	UploadBytes          prometheus.Histogram

	gatherer prometheus.Gatherer
}

// New registers the collectors on reg. A nil reg gets a private registry,
// which keeps tests from colliding on the default one.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	f := promauto.With(reg)
	return &Metrics{
		OrdersPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders committed to a ledger",
		}),
		OrderConflicts: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_version_conflicts_total",
			Help:      "Order writes retried after a concurrent ledger change",
		}),
		NotificationFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_notification_failures_total",
			Help:      "Order confirmations that could not be handed off",
		}),
		Uploads: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ad_uploads_total",
			Help:      "Ad ingestion attempts by result",
		}, []string{"result"}),
		UploadBytes: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "ad_upload_image_bytes",
			Help:      "Size of accepted ad images",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 4, 7),
		}),
		gatherer: reg,
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}

// The recorders below are no-ops on a nil *Metrics.

func (m *Metrics) OrderPlaced() {
	if m != nil {
		m.OrdersPlaced.Inc()
	}
}

func (m *Metrics) OrderConflict() {
	if m != nil {
		m.OrderConflicts.Inc()
	}
}

func (m *Metrics) NotificationFailed() {
	if m != nil {
		m.NotificationFailures.Inc()
	}
}

func (m *Metrics) Upload(result string, size int) {
	if m == nil {
		return
	}
	m.Uploads.WithLabelValues(result).Inc()
	if result == UploadCreated {
		m.UploadBytes.Observe(float64(size))
	}
}
