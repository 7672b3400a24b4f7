// Package metrics defines the Prometheus collectors exported by the API.
package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "recipes"

// Metrics groups every collector the service exports.
type Metrics struct {
	HTTP  *HTTPMetrics
	Login *LoginMetrics
}

// New creates and registers all collectors on reg.
func New(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		HTTP:  NewHTTPMetrics(reg),
		Login: NewLoginMetrics(reg),
	}
}
