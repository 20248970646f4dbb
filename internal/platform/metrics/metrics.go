package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the gateway.
type Metrics struct {
	SessionsCreated  *prometheus.CounterVec
	WebhooksReceived prometheus.Counter
	Decisions        *prometheus.CounterVec
	AdminLogins      *prometheus.CounterVec
}

// New creates and registers all metrics on the given registerer.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SessionsCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_gateway_sessions_created_total",
			Help: "Verification sessions created, by provider mode.",
		}, []string{"mode"}),
		WebhooksReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "verify_gateway_webhooks_received_total",
			Help: "Provider decision webhooks received.",
		}),
		Decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_gateway_decisions_total",
			Help: "Decisions applied to sessions, by resulting status.",
		}, []string{"status"}),
		AdminLogins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "verify_gateway_admin_logins_total",
			Help: "Admin login attempts, by outcome.",
		}, []string{"outcome"}),
	}
}
