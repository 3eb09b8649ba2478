package webapp

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the server's Prometheus collectors.
type metrics struct {
	commandsTotal    *prometheus.CounterVec
	submissionsTotal *prometheus.CounterVec
	sessionsActive   prometheus.Gauge
}

func newMetrics(registry prometheus.Registerer) *metrics {
	m := &metrics{
		commandsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quizform",
				Name:      "commands_total",
				Help:      "Total number of wizard commands by kind",
			},
			[]string{"command"},
		),
		submissionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quizform",
				Name:      "submissions_total",
				Help:      "Total number of delivered payloads by delivery path",
			},
			[]string{"delivery"},
		),
		sessionsActive: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: "quizform",
				Name:      "sessions_active",
				Help:      "Number of open quiz sessions",
			},
		),
	}
	registry.MustRegister(m.commandsTotal, m.submissionsTotal, m.sessionsActive)
	return m
}

func (m *metrics) recordCommand(kind string) {
	m.commandsTotal.WithLabelValues(kind).Inc()
}

func (m *metrics) recordSubmission(delivery string) {
	m.submissionsTotal.WithLabelValues(delivery).Inc()
}

func (m *metrics) setSessions(n int) {
	m.sessionsActive.Set(float64(n))
}
