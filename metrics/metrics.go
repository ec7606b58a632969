// Package metrics exposes Prometheus collectors for the issue lifecycle.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	IssuesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclink",
		Name:      "issues_created_total",
		Help:      "Issues reported, by category.",
	}, []string{"category"})

	VotesCast = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclink",
		Name:      "votes_cast_total",
		Help:      "Vote actions, by requested direction.",
	}, []string{"direction"})

	StatusTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclink",
		Name:      "status_transitions_total",
		Help:      "Issue status changes, by source state, target state and cause.",
	}, []string{"from", "to", "cause"})

	EnrichmentFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "civiclink",
		Name:      "enrichment_failures_total",
		Help:      "Best-effort enrichment calls that failed or timed out.",
	}, []string{"kind"})

	WriteConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "civiclink",
		Name:      "write_conflicts_total",
		Help:      "Optimistic concurrency conflicts seen while writing issues.",
	})
)
