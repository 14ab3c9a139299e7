// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import "github.com/prometheus/client_golang/prometheus"

// Sources for reputation change metrics.
const (
	SourceDirect  = "direct"
	SourceRivalry = "rivalry"
)

// ReputationChanges counts stored reputation changes.
// Use RegisterMetrics to register this with a Prometheus registry.
var ReputationChanges = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_reputation_changes_total",
		Help: "Total number of reputation changes by faction and source",
	},
	[]string{"faction", "source"},
)

// TierChanges counts reputation changes that moved a faction into a new tier.
var TierChanges = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_standing_tier_changes_total",
		Help: "Total number of standing tier changes by faction and resulting tier",
	},
	[]string{"faction", "tier"},
)

// TerritoryTransfers counts territory control changes.
var TerritoryTransfers = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_territory_transfers_total",
		Help: "Total number of territory control changes by method",
	},
	[]string{"method"},
)

// RegisterMetrics registers faction package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(ReputationChanges)
	reg.MustRegister(TierChanges)
	reg.MustRegister(TerritoryTransfers)
}
