// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"slices"
	"strings"
)

// Relationship is the stance between two factions. It is symmetric.
type Relationship string

// Relationships from worst to best.
const (
	RelationshipAtWar    Relationship = "AtWar"
	RelationshipHostile  Relationship = "Hostile"
	RelationshipRival    Relationship = "Rival"
	RelationshipNeutral  Relationship = "Neutral"
	RelationshipFriendly Relationship = "Friendly"
	RelationshipAllied   Relationship = "Allied"
)

// Relationships returns every relationship from worst to best.
func Relationships() []Relationship {
	return []Relationship{
		RelationshipAtWar, RelationshipHostile, RelationshipRival,
		RelationshipNeutral, RelationshipFriendly, RelationshipAllied,
	}
}

// ParseRelationship resolves a relationship name, ignoring case.
func ParseRelationship(name string) (Relationship, bool) {
	for _, r := range Relationships() {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a known relationship.
func (r Relationship) Valid() bool {
	return slices.Contains(Relationships(), r)
}

// IsHostile is true for AtWar and Hostile.
func (r Relationship) IsHostile() bool {
	return r == RelationshipAtWar || r == RelationshipHostile
}

// IsAllied is true for Allied and Friendly.
func (r Relationship) IsAllied() bool {
	return r == RelationshipAllied || r == RelationshipFriendly
}

// RelationshipInfo is the result of a relationship lookup.
type RelationshipInfo struct {
	FactionA     string       `json:"factionA"`
	FactionB     string       `json:"factionB"`
	Relationship Relationship `json:"relationship"`
	// IsDefault is true when no explicit entry exists.
	IsDefault bool `json:"isDefault"`
}

// pair is an unordered faction pair stored with A <= B.
type pair struct {
	A, B string
}

func pairOf(a, b string) pair {
	if b < a {
		a, b = b, a
	}
	return pair{A: a, B: b}
}
