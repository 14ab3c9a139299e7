// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"context"
	"maps"
	"math"

	"github.com/neonreach/neonreach/internal/event"
	"github.com/neonreach/neonreach/internal/standing"
)

// Supply modifier bounds.
const (
	MinSupplyModifier = 0.5
	MaxSupplyModifier = 3.0
)

// priceEpsilon absorbs float noise so that exact products such as
// 100*0.5*1.1 round to the integer a person would compute.
const priceEpsilon = 1e-9

// Quote is a buy and sell price pair for one shop line.
type Quote struct {
	ShopID   string `json:"shopId"`
	ItemID   string `json:"itemId"`
	Standing string `json:"standing"`
	Quantity int    `json:"quantity"`
	Buy      int    `json:"buy"`
	Sell     int    `json:"sell"`
}

func normalizeQuantity(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func (s *Service) lookupLocked(shopID, itemID string) (*Shop, Item, error) {
	sh, ok := s.st.shops[shopID]
	if !ok {
		return nil, Item{}, ErrUnknownShop(shopID)
	}
	item, ok := s.st.items[itemID]
	if !ok {
		return nil, Item{}, ErrUnknownItem(itemID)
	}
	return sh, item, nil
}

// basePrice resolves the line price, then the shop price, then the catalog
// price.
func basePrice(sh *Shop, item Item) int {
	if line, ok := sh.Inventory[item.ID]; ok && line.CustomPrice > 0 {
		return line.CustomPrice
	}
	if p, ok := sh.CustomPricing[item.ID]; ok && p > 0 {
		return p
	}
	return item.BasePrice
}

// maxPrice is the first float64 that no longer converts to an int.
const maxPrice = float64(math.MaxInt)

func (s *Service) buyPriceLocked(sh *Shop, item Item, standingName string, qty int) (int, error) {
	qty = normalizeQuantity(qty)
	price := float64(basePrice(sh, item)) *
		item.Rarity.PriceModifier() *
		standing.PriceModifier(standingName) *
		sh.Markup() *
		s.supplyLocked(item.Category) *
		float64(qty)
	price = math.Ceil(price - priceEpsilon)
	if price >= maxPrice {
		return 0, ErrInvalidQuantity(sh.ID, item.ID, qty)
	}
	return int(price), nil
}

func sellPrice(sh *Shop, item Item, standingName string, qty int) (int, error) {
	qty = normalizeQuantity(qty)
	price := float64(item.BasePrice) *
		sh.BuybackRate() *
		standing.SellModifier(standingName) *
		float64(qty)
	price = math.Floor(price + priceEpsilon)
	if price >= maxPrice {
		return 0, ErrInvalidQuantity(sh.ID, item.ID, qty)
	}
	return max(int(price), 1), nil
}

// GetBuyPrice returns what the player pays for qty units. The base price
// is scaled by rarity, standing, vendor markup and category supply, and
// rounded up. Unknown standing names price as Neutral.
func (s *Service) GetBuyPrice(shopID, itemID, standingName string, qty int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, item, err := s.lookupLocked(shopID, itemID)
	if err != nil {
		return 0, err
	}
	return s.buyPriceLocked(sh, item, standingName, qty)
}

// GetSellPrice returns what the vendor pays for qty units: catalog price
// times buyback rate times the inverted standing modifier, rounded down
// and never below 1. Custom pricing and supply do not apply.
func (s *Service) GetSellPrice(shopID, itemID, standingName string, qty int) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, item, err := s.lookupLocked(shopID, itemID)
	if err != nil {
		return 0, err
	}
	return sellPrice(sh, item, standingName, qty)
}

// Quote prices both directions under a single read.
func (s *Service) Quote(shopID, itemID, standingName string, qty int) (Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sh, item, err := s.lookupLocked(shopID, itemID)
	if err != nil {
		return Quote{}, err
	}
	buy, err := s.buyPriceLocked(sh, item, standingName, qty)
	if err != nil {
		return Quote{}, err
	}
	sell, err := sellPrice(sh, item, standingName, qty)
	if err != nil {
		return Quote{}, err
	}
	return Quote{
		ShopID:   shopID,
		ItemID:   itemID,
		Standing: standingName,
		Quantity: normalizeQuantity(qty),
		Buy:      buy,
		Sell:     sell,
	}, nil
}

func (s *Service) supplyLocked(category string) float64 {
	if m, ok := s.st.supply[category]; ok {
		return m
	}
	return 1.0
}

// ClampSupply saturates a supply modifier to its bounds.
func ClampSupply(modifier float64) float64 {
	if math.IsNaN(modifier) {
		return 1.0
	}
	return min(max(modifier, MinSupplyModifier), MaxSupplyModifier)
}

// SetSupplyModifier overwrites the category's supply modifier and returns
// the stored, clamped value.
func (s *Service) SetSupplyModifier(ctx context.Context, category string, modifier float64, reason string) float64 {
	stored := ClampSupply(modifier)

	s.mu.Lock()
	old := s.supplyLocked(category)
	s.st.supply[category] = stored
	s.mu.Unlock()

	SupplyModifiers.WithLabelValues(category).Set(stored)
	s.logger.InfoContext(ctx, "supply modifier set",
		"category", category,
		"modifier", stored,
		"reason", reason)
	s.flush(ctx, []pendingEvent{{
		stream:    economyStream(category),
		eventType: event.TypeSupplyChanged,
		payload:   SupplyChangedPayload{Category: category, Old: old, Modifier: stored, Reason: reason},
	}})
	return stored
}

// SupplyModifier returns the category's supply modifier, 1.0 when unset.
func (s *Service) SupplyModifier(category string) float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.supplyLocked(category)
}

// SupplyModifiers returns a copy of every set supply modifier.
func (s *Service) SupplyModifiers() map[string]float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.st.supply)
}

// ResetSupplyModifiers clears every supply modifier. Reputation is not
// touched.
func (s *Service) ResetSupplyModifiers(ctx context.Context) {
	s.mu.Lock()
	cleared := s.st.supply
	s.st.supply = make(map[string]float64)
	s.mu.Unlock()

	events := make([]pendingEvent, 0, len(cleared))
	for category, old := range cleared {
		SupplyModifiers.DeleteLabelValues(category)
		events = append(events, pendingEvent{
			stream:    economyStream(category),
			eventType: event.TypeSupplyChanged,
			payload:   SupplyChangedPayload{Category: category, Old: old, Modifier: 1.0, Reason: "reset"},
		})
	}
	s.logger.InfoContext(ctx, "supply modifiers reset", "categories", len(cleared))
	s.flush(ctx, events)
}
