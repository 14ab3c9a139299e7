// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package shop implements the item catalog, vendor shops, supply modifiers
// and the standing-driven pricing and access rules that sit on top of them.
package shop

import (
	"cmp"
	"context"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"

	"github.com/neonreach/neonreach/pkg/errutil"
)

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	// Emitter receives economy events. Optional.
	Emitter EventEmitter
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

type state struct {
	items  map[string]Item
	shops  map[string]*Shop
	supply map[string]float64
}

func newState() *state {
	return &state{
		items:  make(map[string]Item),
		shops:  make(map[string]*Shop),
		supply: make(map[string]float64),
	}
}

func (st *state) clone() *state {
	c := newState()
	maps.Copy(c.items, st.items)
	for id, sh := range st.shops {
		c.shops[id] = sh.clone()
	}
	maps.Copy(c.supply, st.supply)
	return c
}

// Service owns the catalog, the shops and the supply table.
type Service struct {
	mu      sync.RWMutex
	st      *state
	emitter EventEmitter
	logger  *slog.Logger
}

// NewService creates a new Service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		st:      newState(),
		emitter: cfg.Emitter,
		logger:  logger,
	}
}

func (s *Service) flush(ctx context.Context, events []pendingEvent) {
	for _, ev := range events {
		if err := emitEvent(ctx, s.emitter, ev); err != nil {
			errutil.LogError(ctx, s.logger, "shop event emit failed", err)
		}
	}
}

func validateItem(item Item) error {
	if strings.TrimSpace(item.ID) == "" {
		return ErrInvalidItem(item.ID, "id is required")
	}
	if item.BasePrice < 0 {
		return ErrInvalidItem(item.ID, "base price must not be negative")
	}
	if item.Rarity != "" && !item.Rarity.Valid() {
		return ErrInvalidItem(item.ID, "unknown rarity "+string(item.Rarity))
	}
	return nil
}

// RegisterItem adds an item to the catalog. An empty rarity is stored as
// Common.
func (s *Service) RegisterItem(ctx context.Context, item Item) error {
	if err := validateItem(item); err != nil {
		return err
	}
	if item.Rarity == "" {
		item.Rarity = RarityCommon
	}

	s.mu.Lock()
	if _, exists := s.st.items[item.ID]; exists {
		s.mu.Unlock()
		return ErrDuplicateItem(item.ID)
	}
	s.st.items[item.ID] = item
	s.mu.Unlock()

	s.logger.DebugContext(ctx, "item registered", "item_id", item.ID, "category", item.Category)
	return nil
}

// GetItem returns a catalog entry.
func (s *Service) GetItem(id string) (Item, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.st.items[id]
	return item, ok
}

// Items returns the catalog sorted by id.
func (s *Service) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := slices.Collect(maps.Values(s.st.items))
	slices.SortFunc(items, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	return items
}

// stockLocked validates an inventory line against the catalog and the
// vendor's legality rules.
func (s *Service) stockLocked(st *state, sh *Shop, line Stock) error {
	item, ok := st.items[line.ItemID]
	if !ok {
		return ErrUnknownItem(line.ItemID)
	}
	if !sh.VendorType.Stocks(item) {
		return ErrNotAccepted(sh.ID, item.ID, "vendor does not carry this legality class")
	}
	if line.Quantity < Unlimited {
		return ErrInvalidShop(sh.ID, "stock quantity must be -1 or more")
	}
	return nil
}

func (s *Service) buildShop(st *state, spec ShopSpec) (*Shop, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, ErrInvalidShop(spec.ID, "id is required")
	}
	if !spec.VendorType.Valid() {
		return nil, ErrInvalidShop(id, "unknown vendor type "+string(spec.VendorType))
	}
	if spec.MarkupModifier < 0 {
		return nil, ErrInvalidShop(id, "markup modifier must not be negative")
	}
	markup := spec.MarkupModifier
	if markup == 0 {
		markup = 1.0
	}
	name := spec.Name
	if name == "" {
		name = id
	}

	sh := &Shop{
		ID:             id,
		Name:           name,
		VendorType:     spec.VendorType,
		FactionID:      spec.FactionID,
		MarkupModifier: markup,
		Active:         !spec.Closed,
		CustomPricing:  make(map[string]int),
		Inventory:      make(map[string]Stock),
	}
	for itemID, price := range spec.CustomPricing {
		if _, ok := st.items[itemID]; !ok {
			return nil, ErrUnknownItem(itemID)
		}
		if price > 0 {
			sh.CustomPricing[itemID] = price
		}
	}
	for _, line := range spec.Inventory {
		if err := s.stockLocked(st, sh, line); err != nil {
			return nil, err
		}
		sh.Inventory[line.ItemID] = line
	}
	return sh, nil
}

// CreateShop registers a shop. Inventory and custom prices must reference
// catalog items.
func (s *Service) CreateShop(ctx context.Context, spec ShopSpec) (*Shop, error) {
	s.mu.Lock()
	sh, err := s.buildShop(s.st, spec)
	if err != nil {
		s.mu.Unlock()
		return nil, err
	}
	if _, exists := s.st.shops[sh.ID]; exists {
		s.mu.Unlock()
		return nil, ErrDuplicateShop(sh.ID)
	}
	s.st.shops[sh.ID] = sh
	view := sh.clone()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shop created",
		"shop_id", sh.ID,
		"vendor_type", string(sh.VendorType),
		"faction_id", sh.FactionID)
	return view, nil
}

// GetShop returns a copy of the shop.
func (s *Service) GetShop(id string) (*Shop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sh, ok := s.st.shops[id]
	if !ok {
		return nil, false
	}
	return sh.clone(), true
}

// ListShops returns copies of all shops sorted by id. A non-empty
// factionID restricts the list to that faction's shops.
func (s *Service) ListShops(factionID string) []*Shop {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Shop, 0, len(s.st.shops))
	for _, sh := range s.st.shops {
		if factionID != "" && sh.FactionID != factionID {
			continue
		}
		result = append(result, sh.clone())
	}
	slices.SortFunc(result, func(a, b *Shop) int { return cmp.Compare(a.ID, b.ID) })
	return result
}

// SetShopActive opens or closes a shop. Returns false for unknown shops.
func (s *Service) SetShopActive(ctx context.Context, id string, active bool) bool {
	s.mu.Lock()
	sh, ok := s.st.shops[id]
	if ok {
		sh.Active = active
	}
	s.mu.Unlock()

	if ok {
		s.logger.InfoContext(ctx, "shop activity changed", "shop_id", id, "active", active)
	}
	return ok
}

// SetMarkupModifier replaces the shop's markup modifier.
func (s *Service) SetMarkupModifier(ctx context.Context, shopID string, modifier float64) error {
	if modifier <= 0 {
		return ErrInvalidShop(shopID, "markup modifier must be positive")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.st.shops[shopID]
	if !ok {
		return ErrUnknownShop(shopID)
	}
	sh.MarkupModifier = modifier
	return nil
}

// SetStock creates or replaces an inventory line.
func (s *Service) SetStock(ctx context.Context, shopID string, line Stock) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.st.shops[shopID]
	if !ok {
		return ErrUnknownShop(shopID)
	}
	if err := s.stockLocked(s.st, sh, line); err != nil {
		return err
	}
	sh.Inventory[line.ItemID] = line
	return nil
}

// RemoveStock drops an inventory line. Returns false if the shop or line
// does not exist.
func (s *Service) RemoveStock(ctx context.Context, shopID, itemID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.st.shops[shopID]
	if !ok {
		return false
	}
	if _, ok := sh.Inventory[itemID]; !ok {
		return false
	}
	delete(sh.Inventory, itemID)
	return true
}

// SetCustomPrice sets the shop-level price for an item. A price of zero or
// less removes the override.
func (s *Service) SetCustomPrice(ctx context.Context, shopID, itemID string, price int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sh, ok := s.st.shops[shopID]
	if !ok {
		return ErrUnknownShop(shopID)
	}
	if _, ok := s.st.items[itemID]; !ok {
		return ErrUnknownItem(itemID)
	}
	if price <= 0 {
		delete(sh.CustomPricing, itemID)
		return nil
	}
	sh.CustomPricing[itemID] = price
	return nil
}
