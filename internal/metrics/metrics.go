package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// GatewayMetrics holds the Prometheus metrics for the routing gateway.
type GatewayMetrics struct {
	RoutingDecisions *prometheus.CounterVec
	APIKeyAuth       *prometheus.CounterVec
	IdentifyRequests *prometheus.CounterVec
}

// New initializes and registers the gateway metrics on the given registerer.
func New(reg prometheus.Registerer) *GatewayMetrics {
	factory := promauto.With(reg)

	return &GatewayMetrics{
		RoutingDecisions: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedhub",
			Subsystem: "gateway",
			Name:      "routing_decisions_total",
			Help:      "Routing decisions by outcome.",
		}, []string{"outcome"}), // outcome: allow, redirect, rewrite, reject
		APIKeyAuth: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedhub",
			Subsystem: "auth",
			Name:      "api_key_auth_total",
			Help:      "API key authentication attempts by result.",
		}, []string{"result"}), // result: ok, missing, malformed, invalid, error
		IdentifyRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "feedhub",
			Subsystem: "identify",
			Name:      "requests_total",
			Help:      "Identify endpoint requests by status.",
		}, []string{"status"}),
	}
}
