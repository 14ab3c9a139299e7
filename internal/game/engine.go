// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package game wires the faction and shop services into one engine that
// prices and gates by the player's standing with each shop's owner.
package game

import (
	"context"
	"log/slog"
	"sync"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/internal/standing"
)

// EventEmitter receives events from every engine service.
type EventEmitter interface {
	Emit(ctx context.Context, stream string, eventType string, payload []byte) error
}

// Config holds dependencies for Engine.
type Config struct {
	// Options tunes the reputation ledger. Unset fields take defaults.
	Options faction.Options
	// Emitter is optional.
	Emitter EventEmitter
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// Engine is the gameplay-data layer: faction registry, reputation
// ledger, territory map and economy.
type Engine struct {
	// snapshotMu serializes whole-state export and import.
	snapshotMu sync.Mutex
	factions   *faction.Service
	shops      *shop.Service
	logger     *slog.Logger
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	fcfg := faction.ServiceConfig{Options: cfg.Options, Logger: logger}
	scfg := shop.ServiceConfig{Logger: logger}
	if cfg.Emitter != nil {
		fcfg.Emitter = cfg.Emitter
		scfg.Emitter = cfg.Emitter
	}
	return &Engine{
		factions: faction.NewService(fcfg),
		shops:    shop.NewService(scfg),
		logger:   logger,
	}
}

// Factions returns the faction service.
func (e *Engine) Factions() *faction.Service { return e.factions }

// Shops returns the shop service.
func (e *Engine) Shops() *shop.Service { return e.shops }

// checkOwner verifies that a shop's owning faction is registered.
func (e *Engine) checkOwner(shopID, factionID string) error {
	if factionID == "" {
		return nil
	}
	if _, ok := e.factions.GetFaction(factionID); ok {
		return nil
	}
	return oops.In("game").
		With("shop_id", shopID).
		Wrapf(faction.ErrUnknownFaction(factionID), "shop %s owner", shopID)
}

// CreateShop opens a shop whose owner, when set, must be a registered
// faction.
func (e *Engine) CreateShop(ctx context.Context, spec shop.ShopSpec) (*shop.Shop, error) {
	if err := e.checkOwner(spec.ID, spec.FactionID); err != nil {
		return nil, err
	}
	return e.shops.CreateShop(ctx, spec)
}

// OwnerStanding returns the player's tier with the faction owning the
// shop. Unowned shops and unknown owners count as Neutral.
func (e *Engine) OwnerStanding(shopID string) (standing.Tier, error) {
	sh, ok := e.shops.GetShop(shopID)
	if !ok {
		return standing.Neutral, shop.ErrUnknownShop(shopID)
	}
	if sh.FactionID == "" {
		return standing.Neutral, nil
	}
	tier, _ := e.factions.TierOf(sh.FactionID)
	return tier, nil
}

// Quote prices an item at the player's standing with the shop's owner.
func (e *Engine) Quote(shopID, itemID string, qty int) (shop.Quote, error) {
	tier, err := e.OwnerStanding(shopID)
	if err != nil {
		return shop.Quote{}, err
	}
	return e.shops.Quote(shopID, itemID, tier.String(), qty)
}

// ShopAccess checks the shop's access gate at the owner standing.
func (e *Engine) ShopAccess(shopID string) (shop.AccessResult, error) {
	tier, err := e.OwnerStanding(shopID)
	if err != nil {
		return shop.AccessResult{}, err
	}
	return e.shops.CanAccessShop(shopID, tier.String())
}

// Buy purchases an item at the owner standing.
func (e *Engine) Buy(ctx context.Context, shopID, itemID string, qty int) (shop.Receipt, error) {
	tier, err := e.OwnerStanding(shopID)
	if err != nil {
		return shop.Receipt{}, err
	}
	return e.shops.Purchase(ctx, shop.TradeRequest{ShopID: shopID, ItemID: itemID, Standing: tier.String(), Quantity: qty})
}

// Sell sells an item to the shop at the owner standing.
func (e *Engine) Sell(ctx context.Context, shopID, itemID string, qty int) (shop.Receipt, error) {
	tier, err := e.OwnerStanding(shopID)
	if err != nil {
		return shop.Receipt{}, err
	}
	return e.shops.Sell(ctx, shop.TradeRequest{ShopID: shopID, ItemID: itemID, Standing: tier.String(), Quantity: qty})
}

// TerritoryAccess describes how a territory's controller treats the player.
type TerritoryAccess struct {
	TerritoryID   string        `json:"territoryId"`
	Controller    string        `json:"controller,omitempty"`
	Tier          standing.Tier `json:"tier"`
	AccessLevel   int           `json:"accessLevel"`
	AttackOnSight bool          `json:"attackOnSight"`
	// Allowed is false only when the controller attacks on sight.
	Allowed bool `json:"allowed"`
}

// TerritoryAccess reports the player's standing in a territory.
// Uncontrolled territories are open at Neutral.
func (e *Engine) TerritoryAccess(territoryID string) TerritoryAccess {
	access := TerritoryAccess{TerritoryID: territoryID, Tier: standing.Neutral}
	if owner, ok := e.factions.GetTerritoryController(territoryID); ok {
		access.Controller = owner
		access.Tier, _ = e.factions.TierOf(owner)
	}
	fx := standing.EffectsOf(access.Tier)
	access.AccessLevel = fx.AccessLevel
	access.AttackOnSight = fx.AttackOnSight
	access.Allowed = !fx.AttackOnSight
	return access
}
