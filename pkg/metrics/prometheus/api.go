// Package prometheus provides Prometheus-backed implementations of the
// metrics interfaces.
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/docrep/docrep/pkg/metrics"
)

// apiMetrics is the Prometheus implementation of metrics.APIMetrics.
type apiMetrics struct {
	requestsTotal    *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	protocolFailures *prometheus.CounterVec
	authzDecisions   *prometheus.CounterVec
	handshakesTotal  *prometheus.CounterVec
	activeSessions   prometheus.Gauge
	sessionsExpired  prometheus.Counter
}

// NewAPIMetrics creates a new Prometheus-backed APIMetrics instance.
//
// Returns nil if metrics are not enabled (InitRegistry not called).
func NewAPIMetrics() metrics.APIMetrics {
	if !metrics.IsEnabled() {
		return nil
	}

	reg := metrics.GetRegistry()

	return &apiMetrics{
		requestsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_api_requests_total",
				Help: "Total number of API requests by endpoint and HTTP status",
			},
			[]string{"endpoint", "status"},
		),
		requestDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "docrep_api_request_duration_milliseconds",
				Help: "Duration of API requests in milliseconds",
				Buckets: []float64{
					1,    // 1ms - in-memory session ops
					5,    // 5ms
					10,   // 10ms - metadata queries
					50,   // 50ms
					100,  // 100ms - handshake (ECDH + HKDF)
					500,  // 500ms - blob round-trips
					1000, // 1s
					5000, // 5s - large uploads
				},
			},
			[]string{"endpoint"},
		),
		protocolFailures: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_protocol_failures_total",
				Help: "Requests rejected at the envelope layer by failure kind",
			},
			[]string{"kind"},
		),
		authzDecisions: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_authz_decisions_total",
				Help: "Authorization decisions by permission and outcome",
			},
			[]string{"permission", "outcome"},
		),
		handshakesTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "docrep_handshakes_total",
				Help: "Session handshake attempts by outcome",
			},
			[]string{"outcome"},
		),
		activeSessions: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "docrep_active_sessions",
				Help: "Current number of live sessions in the registry",
			},
		),
		sessionsExpired: promauto.With(reg).NewCounter(
			prometheus.CounterOpts{
				Name: "docrep_sessions_expired_total",
				Help: "Total sessions removed by the expiry sweeper",
			},
		),
	}
}

func (m *apiMetrics) RecordRequest(endpoint string, status int, duration time.Duration) {
	statusLabel := httpStatusLabel(status)
	m.requestsTotal.WithLabelValues(endpoint, statusLabel).Inc()
	m.requestDuration.WithLabelValues(endpoint).
		Observe(float64(duration.Microseconds()) / 1000.0)
}

func (m *apiMetrics) RecordProtocolFailure(kind string) {
	m.protocolFailures.WithLabelValues(kind).Inc()
}

func (m *apiMetrics) RecordAuthzDecision(permission string, outcome string) {
	m.authzDecisions.WithLabelValues(permission, outcome).Inc()
}

func (m *apiMetrics) RecordHandshake(outcome string) {
	m.handshakesTotal.WithLabelValues(outcome).Inc()
}

func (m *apiMetrics) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func (m *apiMetrics) RecordSessionsExpired(count int) {
	m.sessionsExpired.Add(float64(count))
}

func httpStatusLabel(status int) string {
	switch status {
	case 200:
		return "200"
	case 403:
		return "403"
	case 404:
		return "404"
	case 499:
		return "499"
	default:
		if status >= 500 {
			return "5xx"
		}
		return "4xx"
	}
}
