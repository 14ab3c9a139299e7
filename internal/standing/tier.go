// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package standing defines the ordered reputation tiers and the threshold
// table that maps a reputation score to price and access effects.
package standing

import "strings"

// Tier is a named reputation bracket. Tiers are ordered by rank, so two
// tiers can be compared directly with < and >.
type Tier uint8

// Tiers in ascending order.
const (
	Hostile Tier = iota
	Unfriendly
	Neutral
	Friendly
	Allied
)

// tierNames is indexed by Tier.
var tierNames = [...]string{
	Hostile:    "Hostile",
	Unfriendly: "Unfriendly",
	Neutral:    "Neutral",
	Friendly:   "Friendly",
	Allied:     "Allied",
}

// String returns the display name of the tier.
func (t Tier) String() string {
	if int(t) < len(tierNames) {
		return tierNames[t]
	}
	return "Unknown"
}

// Rank returns the numeric position of the tier, Hostile being 0.
func (t Tier) Rank() int {
	return int(t)
}

// Valid reports whether t is one of the defined tiers.
func (t Tier) Valid() bool {
	return int(t) < len(tierNames)
}

// MarshalText implements encoding.TextMarshaler.
func (t Tier) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Unknown names decode
// to Neutral.
func (t *Tier) UnmarshalText(b []byte) error {
	parsed, ok := Parse(string(b))
	if !ok {
		parsed = Neutral
	}
	*t = parsed
	return nil
}

// Parse resolves a tier by name, ignoring case and surrounding space.
func Parse(name string) (Tier, bool) {
	name = strings.TrimSpace(name)
	for i, n := range tierNames {
		if strings.EqualFold(n, name) {
			return Tier(i), true
		}
	}
	return Neutral, false
}

// All returns every tier in ascending order.
func All() []Tier {
	return []Tier{Hostile, Unfriendly, Neutral, Friendly, Allied}
}

// Meets reports whether current is at or above required.
func Meets(current, required Tier) bool {
	return current >= required
}
