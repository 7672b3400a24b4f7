package metrics

import "github.com/prometheus/client_golang/prometheus"

// Login outcomes.
const (
	LoginSuccess            = "success"
	LoginInvalidInput       = "invalid_input"
	LoginInvalidCredentials = "invalid_credentials"
	LoginError              = "error"
	LoginRateLimited        = "rate_limited"
)

// LoginMetrics counts login attempts by outcome.
type LoginMetrics struct {
	Attempts *prometheus.CounterVec
}

// NewLoginMetrics creates and registers login metrics on the given registry.
func NewLoginMetrics(reg prometheus.Registerer) *LoginMetrics {
	m := &LoginMetrics{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Total number of login attempts, by outcome.",
		}, []string{"outcome"}),
	}

	reg.MustRegister(m.Attempts)
	return m
}

// Observe counts one login attempt. It is safe to call on a nil receiver.
func (m *LoginMetrics) Observe(outcome string) {
	if m == nil {
		return
	}
	m.Attempts.WithLabelValues(outcome).Inc()
}
