package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gridsky"

// Outcome labels shared by the counters below.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"

	SessionAuthenticated = "authenticated"
	SessionRestored      = "restored"
	SessionRedirect      = "redirect"
	SessionAborted       = "aborted"
	SessionFailed        = "failed"
)

var (
	// UpstreamRequests counts social-graph calls by operation and outcome.
	UpstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Requests issued to the social-graph service.",
	}, []string{"operation", "outcome"})

	// SessionOutcomes counts how session acquisition resolved.
	SessionOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "session_outcomes_total",
		Help:      "Session acquisition results.",
	}, []string{"outcome"})

	// PagesActive tracks live page instances.
	PagesActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "pages_active",
		Help:      "Page instances currently held in memory.",
	})
)

// ObserveUpstream records one upstream call.
func ObserveUpstream(operation string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	UpstreamRequests.WithLabelValues(operation, outcome).Inc()
}
