// Package metrics collects and exposes Prometheus metrics for the auth and
// blog endpoints.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector records auth-session outcomes.
type Collector struct {
	registry      *prometheus.Registry
	logins        *prometheus.CounterVec
	registrations *prometheus.CounterVec
	refreshes     *prometheus.CounterVec
	revocations   prometheus.Counter
	resetRequests *prometheus.CounterVec
}

// NewCollector creates a Collector with its own registry.
func NewCollector() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_logins_total",
			Help: "Login attempts by outcome.",
		}, []string{"outcome"}),
		registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_registrations_total",
			Help: "Registration attempts by outcome.",
		}, []string{"outcome"}),
		refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_token_refreshes_total",
			Help: "Refresh-token grants by outcome.",
		}, []string{"outcome"}),
		revocations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "blogsmith_token_revocations_total",
			Help: "Tokens revoked via logout.",
		}),
		resetRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "blogsmith_password_reset_requests_total",
			Help: "Password reset requests by reported status.",
		}, []string{"status"}),
	}

	c.registry.MustRegister(
		c.logins,
		c.registrations,
		c.refreshes,
		c.revocations,
		c.resetRequests,
	)

	return c
}

func (c *Collector) RecordLogin(outcome string) {
	c.logins.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRegistration(outcome string) {
	c.registrations.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRefresh(outcome string) {
	c.refreshes.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordRevocation() {
	c.revocations.Inc()
}

func (c *Collector) RecordResetRequest(status string) {
	c.resetRequests.WithLabelValues(status).Inc()
}

// Handler returns the /metrics endpoint for this collector's registry.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
