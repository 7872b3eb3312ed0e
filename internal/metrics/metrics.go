package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	boundaryRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "londonpark",
			Name:      "boundary_requests_total",
			Help:      "Boundary requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	transportCorruptions = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "londonpark",
			Name:      "transport_corruptions_total",
			Help:      "Boundary responses that could not be parsed.",
		},
	)

	ruleViolations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "londonpark",
			Name:      "rule_violations_total",
			Help:      "Booking proposals rejected, by rule.",
		},
		[]string{"rule"},
	)

	adminMutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "londonpark",
			Name:      "admin_mutations_total",
			Help:      "Admin mutations by entity kind and operation.",
		},
		[]string{"kind", "op"},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(boundaryRequests, transportCorruptions, ruleViolations, adminMutations)
	})
}

// IncBoundaryRequest increments the request counter for an endpoint label.
func IncBoundaryRequest(endpoint string) {
	boundaryRequests.WithLabelValues(endpoint).Inc()
}

// IncTransportCorruption counts an unparseable boundary response.
func IncTransportCorruption() {
	transportCorruptions.Inc()
}

// IncRuleViolation counts a rejected booking proposal by rule label.
func IncRuleViolation(rule string) {
	ruleViolations.WithLabelValues(rule).Inc()
}

// IncAdminMutation counts a completed admin mutation.
func IncAdminMutation(kind, op string) {
	adminMutations.WithLabelValues(kind, op).Inc()
}
