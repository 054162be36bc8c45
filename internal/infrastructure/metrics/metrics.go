// Package metrics exposes Prometheus instrumentation for the gateway.
//
// A single Metrics value is created at startup and shared by the ingestion
// pipeline, dispatcher and notification hub. All methods are nil-safe so
// components can run uninstrumented in tests.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the gateway's Prometheus collectors.
type Metrics struct {
	readingsStored   prometheus.Counter
	readingsRejected *prometheus.CounterVec

	publishAttempts prometheus.Counter
	publishFailures prometheus.Counter
	publishExhausts prometheus.Counter

	notificationsSent    prometheus.Counter
	notificationsDropped prometheus.Counter

	wsClients prometheus.Gauge
}

// New registers the gateway collectors with the given registerer.
//
// Parameters:
//   - reg: Registry to attach collectors to (prometheus.DefaultRegisterer in production)
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		readingsStored: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "ingest",
			Name:      "readings_stored_total",
			Help:      "Telemetry readings validated and persisted.",
		}),
		readingsRejected: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "ingest",
			Name:      "readings_rejected_total",
			Help:      "Telemetry messages rejected during validation, by reason.",
		}, []string{"reason"}),
		publishAttempts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "dispatch",
			Name:      "publish_attempts_total",
			Help:      "Individual command publish attempts, including retries.",
		}),
		publishFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "dispatch",
			Name:      "publish_failures_total",
			Help:      "Command publish attempts rejected by the transport.",
		}),
		publishExhausts: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "dispatch",
			Name:      "publish_exhausted_total",
			Help:      "Command deliveries abandoned after the final retry.",
		}),
		notificationsSent: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "notify",
			Name:      "notifications_sent_total",
			Help:      "Live notifications fanned out to subscribers.",
		}),
		notificationsDropped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "waterlevel",
			Subsystem: "notify",
			Name:      "notifications_dropped_total",
			Help:      "Notifications dropped because a subscriber could not keep up.",
		}),
		wsClients: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "waterlevel",
			Subsystem: "notify",
			Name:      "websocket_clients",
			Help:      "Currently connected WebSocket subscribers.",
		}),
	}
}

// ReadingStored records a successfully persisted reading.
func (m *Metrics) ReadingStored() {
	if m == nil {
		return
	}
	m.readingsStored.Inc()
}

// ReadingRejected records a validation rejection with its reason label.
func (m *Metrics) ReadingRejected(reason string) {
	if m == nil {
		return
	}
	m.readingsRejected.WithLabelValues(reason).Inc()
}

// PublishAttempt records one command publish attempt.
func (m *Metrics) PublishAttempt() {
	if m == nil {
		return
	}
	m.publishAttempts.Inc()
}

// PublishFailure records a transport-rejected publish attempt.
func (m *Metrics) PublishFailure() {
	if m == nil {
		return
	}
	m.publishFailures.Inc()
}

// PublishExhausted records a command delivery abandoned after all attempts.
func (m *Metrics) PublishExhausted() {
	if m == nil {
		return
	}
	m.publishExhausts.Inc()
}

// NotificationSent records a notification delivered to a subscriber.
func (m *Metrics) NotificationSent() {
	if m == nil {
		return
	}
	m.notificationsSent.Inc()
}

// NotificationDropped records a notification dropped on a slow subscriber.
func (m *Metrics) NotificationDropped() {
	if m == nil {
		return
	}
	m.notificationsDropped.Inc()
}

// ClientConnected adjusts the connected subscriber gauge upward.
func (m *Metrics) ClientConnected() {
	if m == nil {
		return
	}
	m.wsClients.Inc()
}

// ClientDisconnected adjusts the connected subscriber gauge downward.
func (m *Metrics) ClientDisconnected() {
	if m == nil {
		return
	}
	m.wsClients.Dec()
}
