// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package standing

import "math"

// Effects are the gameplay consequences attached to a tier.
type Effects struct {
	Tier          Tier
	MinScore      int
	PriceModifier float64
	AccessLevel   int
	AttackOnSight bool
}

// effects is indexed by Tier. Hostile has no lower bound: every score
// below Unfriendly's minimum lands there.
var effects = [...]Effects{
	Hostile:    {Tier: Hostile, MinScore: math.MinInt, PriceModifier: 2.0, AccessLevel: 0, AttackOnSight: true},
	Unfriendly: {Tier: Unfriendly, MinScore: -49, PriceModifier: 1.5, AccessLevel: 1},
	Neutral:    {Tier: Neutral, MinScore: 0, PriceModifier: 1.0, AccessLevel: 2},
	Friendly:   {Tier: Friendly, MinScore: 50, PriceModifier: 0.9, AccessLevel: 3},
	Allied:     {Tier: Allied, MinScore: 100, PriceModifier: 0.8, AccessLevel: 4},
}

// DefaultPriceModifier applies to standings that do not name a tier.
const DefaultPriceModifier = 1.0

// EffectsOf returns the effects row for a tier. Invalid tiers get the
// Neutral row.
func EffectsOf(t Tier) Effects {
	if !t.Valid() {
		return effects[Neutral]
	}
	return effects[t]
}

// ForScore returns the tier for a score by scanning thresholds from the
// top down and picking the highest minimum that is <= score.
func ForScore(score int) Tier {
	for i := len(effects) - 1; i > 0; i-- {
		if score >= effects[i].MinScore {
			return effects[i].Tier
		}
	}
	return Hostile
}

// Threshold describes the next tier above a score.
type Threshold struct {
	Tier  Tier `json:"tier"`
	Score int  `json:"score"`
	Gap   int  `json:"gap"`
}

// Next returns the next-higher tier and the points still needed to reach
// it, or nil when score is already in the top tier.
func Next(score int) *Threshold {
	current := ForScore(score)
	if current == Allied {
		return nil
	}
	next := effects[current+1]
	return &Threshold{Tier: next.Tier, Score: next.MinScore, Gap: next.MinScore - score}
}

// PriceModifier returns the buy price multiplier for a standing name.
// Unrecognized names yield DefaultPriceModifier.
func PriceModifier(name string) float64 {
	t, ok := Parse(name)
	if !ok {
		return DefaultPriceModifier
	}
	return effects[t].PriceModifier
}

// SellModifier inverts the buy modifier for sales: 2.0 minus the buy
// modifier, clamped to [0.5, 1.5].
func SellModifier(name string) float64 {
	return math.Min(1.5, math.Max(0.5, 2.0-PriceModifier(name)))
}

// AccessLevel returns the access level of a standing name. Unrecognized
// names are treated as Neutral.
func AccessLevel(name string) int {
	t, _ := Parse(name)
	return effects[t].AccessLevel
}

// CanAccess reports whether a standing grants at least the required
// access level.
func CanAccess(required int, name string) bool {
	return AccessLevel(name) >= required
}
