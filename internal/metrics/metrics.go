// Package metrics holds the Prometheus collectors of the link service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Links created, partitioned by how the code was chosen (auto or custom)
	LinksCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shorter_links_created_total",
			Help: "Total number of short links created",
		},
		[]string{"kind"},
	)

	// Rejected creations partitioned by reason
	LinksRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shorter_links_rejected_total",
			Help: "Total number of short link creations rejected",
		},
		[]string{"reason"},
	)

	// Auto-derived codes that hit an existing code and forced a new id
	CodeCollisions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shorter_code_collisions_total",
			Help: "Auto-derived short codes that collided with an existing code",
		},
	)

	Resolutions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shorter_resolutions_total",
			Help: "Total number of successful short code resolutions",
		},
	)

	AccessIncrementFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "shorter_access_increment_failures_total",
			Help: "Access count increments that failed and were dropped",
		},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shorter_cache_lookups_total",
			Help: "Resolution cache lookups partitioned by result",
		},
		[]string{"result"},
	)
)
