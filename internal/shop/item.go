// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"slices"
	"strings"
)

// Rarity scales an item's buy price.
type Rarity string

// Rarities from most to least common.
const (
	RarityCommon    Rarity = "Common"
	RarityUncommon  Rarity = "Uncommon"
	RarityRare      Rarity = "Rare"
	RarityEpic      Rarity = "Epic"
	RarityLegendary Rarity = "Legendary"
)

var rarityModifiers = map[Rarity]float64{
	RarityCommon:    1.0,
	RarityUncommon:  1.25,
	RarityRare:      1.5,
	RarityEpic:      2.0,
	RarityLegendary: 3.0,
}

// Rarities returns every rarity from most to least common.
func Rarities() []Rarity {
	return []Rarity{RarityCommon, RarityUncommon, RarityRare, RarityEpic, RarityLegendary}
}

// ParseRarity resolves a rarity name, ignoring case.
func ParseRarity(name string) (Rarity, bool) {
	for _, r := range Rarities() {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return "", false
}

// Valid reports whether r is a known rarity.
func (r Rarity) Valid() bool {
	return slices.Contains(Rarities(), r)
}

// PriceModifier returns the buy price multiplier. An empty rarity counts
// as Common.
func (r Rarity) PriceModifier() float64 {
	if m, ok := rarityModifiers[r]; ok {
		return m
	}
	return 1.0
}

// Item is a catalog entry. Category is dot-separated, most general
// segment first, e.g. "weapons.smart".
type Item struct {
	ID        string `json:"id" yaml:"id"`
	Name      string `json:"name,omitempty" yaml:"name,omitempty"`
	Category  string `json:"category" yaml:"category"`
	BasePrice int    `json:"basePrice" yaml:"basePrice"`
	Rarity    Rarity `json:"rarity,omitempty" yaml:"rarity,omitempty"`
	Illegal   bool   `json:"illegal,omitempty" yaml:"illegal,omitempty"`
}
