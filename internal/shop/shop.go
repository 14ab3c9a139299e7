// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import "maps"

// Unlimited marks a stock entry that never runs out.
const Unlimited = -1

// Stock is one inventory line of a shop.
type Stock struct {
	ItemID string `json:"itemId" yaml:"itemId"`
	// Quantity is the units on hand, or Unlimited.
	Quantity int `json:"quantity" yaml:"quantity"`
	// CustomPrice overrides every other base price when positive.
	CustomPrice int `json:"customPrice,omitempty" yaml:"customPrice,omitempty"`
}

// Available reports whether qty units can be taken from the line.
func (st Stock) Available(qty int) bool {
	return st.Quantity == Unlimited || st.Quantity >= qty
}

// Shop is a vendor owned by an optional faction.
type Shop struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	VendorType     VendorType       `json:"vendorType"`
	FactionID      string           `json:"factionId,omitempty"`
	MarkupModifier float64          `json:"markupModifier"`
	Active         bool             `json:"active"`
	CustomPricing  map[string]int   `json:"customPricing,omitempty"`
	Inventory      map[string]Stock `json:"inventory,omitempty"`
}

// Markup returns the vendor's default markup scaled by the shop modifier.
func (s *Shop) Markup() float64 {
	return s.VendorType.info().DefaultMarkup * s.MarkupModifier
}

// BuybackRate returns the fraction of catalog price the vendor pays.
func (s *Shop) BuybackRate() float64 {
	return s.VendorType.info().BuybackRate
}

func (s *Shop) clone() *Shop {
	c := *s
	c.CustomPricing = maps.Clone(s.CustomPricing)
	c.Inventory = maps.Clone(s.Inventory)
	if c.CustomPricing == nil {
		c.CustomPricing = make(map[string]int)
	}
	if c.Inventory == nil {
		c.Inventory = make(map[string]Stock)
	}
	return &c
}

// ShopSpec describes a shop to create.
type ShopSpec struct {
	ID         string     `json:"id" yaml:"id"`
	Name       string     `json:"name,omitempty" yaml:"name,omitempty"`
	VendorType VendorType `json:"vendorType" yaml:"vendorType"`
	FactionID  string     `json:"factionId,omitempty" yaml:"factionId,omitempty"`
	// MarkupModifier defaults to 1.0 when zero.
	MarkupModifier float64        `json:"markupModifier,omitempty" yaml:"markupModifier,omitempty"`
	Closed         bool           `json:"closed,omitempty" yaml:"closed,omitempty"`
	CustomPricing  map[string]int `json:"customPricing,omitempty" yaml:"customPricing,omitempty"`
	Inventory      []Stock        `json:"inventory,omitempty" yaml:"inventory,omitempty"`
}
