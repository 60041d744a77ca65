package prometheus

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"user-console/pkg/config"
)

var (
	// Remote sync metrics
	RemoteRequestCounter  *prometheus.CounterVec
	RemoteRequestDuration *prometheus.HistogramVec

	// Record store metrics
	RecordCountGauge prometheus.Gauge

	// Coordinator metrics
	ModalOpenCounter         *prometheus.CounterVec
	ValidationFailureCounter *prometheus.CounterVec
	NotificationCounter      *prometheus.CounterVec

	initOnce sync.Once
)

// InitMetrics initializes all Prometheus metrics under the configured
// namespace. Safe to call more than once; only the first call registers.
func InitMetrics(cfg *config.Config) {
	initOnce.Do(func() {
		namespace := cfg.Metrics.Prefix

		RemoteRequestCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "remote_sync_requests_total",
				Help:      "Total number of requests issued to the remote users API",
			},
			[]string{"operation", "outcome"},
		)

		RemoteRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "remote_sync_request_duration_seconds",
				Help:      "Duration of remote users API requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		)

		RecordCountGauge = promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "records",
			Help:      "Number of user records currently held by the record store",
		})

		ModalOpenCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "modal_opens_total",
				Help:      "Total number of modal opens by kind",
			},
			[]string{"modal"},
		)

		ValidationFailureCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "validation_failures_total",
				Help:      "Total number of field validation failures by field",
			},
			[]string{"field"},
		)

		NotificationCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifications_total",
				Help:      "Total number of notifications emitted by kind",
			},
			[]string{"kind"},
		)

		HTTPRequestCounter = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		)

		HTTPRequestDuration = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path", "status"},
		)
	})
}

// ObserveRemoteRequest records the outcome and duration of one remote
// sync call. A no-op until InitMetrics has run, so library code can
// call it unconditionally.
func ObserveRemoteRequest(operation, outcome string, elapsed time.Duration) {
	if RemoteRequestCounter == nil {
		return
	}
	RemoteRequestCounter.WithLabelValues(operation, outcome).Inc()
	RemoteRequestDuration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// SetRecordCount updates the record store size gauge.
func SetRecordCount(n int) {
	if RecordCountGauge == nil {
		return
	}
	RecordCountGauge.Set(float64(n))
}

// IncModalOpen counts a modal open by kind.
func IncModalOpen(modal string) {
	if ModalOpenCounter == nil {
		return
	}
	ModalOpenCounter.WithLabelValues(modal).Inc()
}

// IncValidationFailure counts a failed field check.
func IncValidationFailure(field string) {
	if ValidationFailureCounter == nil {
		return
	}
	ValidationFailureCounter.WithLabelValues(field).Inc()
}

// IncNotification counts an emitted notification by kind.
func IncNotification(kind string) {
	if NotificationCounter == nil {
		return
	}
	NotificationCounter.WithLabelValues(kind).Inc()
}
