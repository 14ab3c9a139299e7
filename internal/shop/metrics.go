// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import "github.com/prometheus/client_golang/prometheus"

// Trade directions for metrics.
const (
	DirectionBuy  = "buy"
	DirectionSell = "sell"
)

// Trades counts completed trades by shop and direction.
// Use RegisterMetrics to register this with a Prometheus registry.
var Trades = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_shop_trades_total",
		Help: "Total number of completed trades by shop and direction",
	},
	[]string{"shop", "direction"},
)

// TradeCredits sums the credits exchanged by completed trades.
var TradeCredits = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_shop_trade_credits_total",
		Help: "Total credits exchanged by shop and direction",
	},
	[]string{"shop", "direction"},
)

// AccessDenials counts refused shop access checks.
var AccessDenials = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "neonreach_shop_access_denied_total",
		Help: "Total number of refused shop access checks by shop",
	},
	[]string{"shop"},
)

// SupplyModifiers reports the current supply modifier per category.
var SupplyModifiers = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "neonreach_supply_modifier",
		Help: "Current supply modifier by item category",
	},
	[]string{"category"},
)

// RegisterMetrics registers shop package metrics with the given Prometheus registry.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Trades)
	reg.MustRegister(TradeCredits)
	reg.MustRegister(AccessDenials)
	reg.MustRegister(SupplyModifiers)
}
