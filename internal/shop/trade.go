// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"context"
	"math"

	"github.com/neonreach/neonreach/internal/event"
)

// TradeRequest names one side of a trade at a shop.
type TradeRequest struct {
	ShopID   string `json:"shopId"`
	ItemID   string `json:"itemId"`
	Standing string `json:"standing"`
	Quantity int    `json:"quantity"`
}

// Receipt reports a completed trade. Remaining is the shop's stock after
// the trade, Unlimited for unlimited lines, or 0 for unstocked items.
type Receipt struct {
	ShopID    string `json:"shopId"`
	ItemID    string `json:"itemId"`
	Quantity  int    `json:"quantity"`
	Total     int    `json:"total"`
	Remaining int    `json:"remaining"`
}

// Purchase sells qty units of a stocked item to the player. The shop must
// be open to the player's standing and hold enough stock.
func (s *Service) Purchase(ctx context.Context, req TradeRequest) (Receipt, error) {
	qty := normalizeQuantity(req.Quantity)

	s.mu.Lock()
	sh, item, err := s.lookupLocked(req.ShopID, req.ItemID)
	if err != nil {
		s.mu.Unlock()
		return Receipt{}, err
	}
	if access := accessFor(sh, req.Standing); !access.CanAccess {
		s.mu.Unlock()
		AccessDenials.WithLabelValues(sh.ID).Inc()
		return Receipt{}, ErrAccessDenied(sh.ID, access.Reason)
	}
	line, ok := sh.Inventory[item.ID]
	if !ok || !line.Available(qty) {
		s.mu.Unlock()
		return Receipt{}, ErrOutOfStock(sh.ID, item.ID, line.Quantity)
	}

	total, err := s.buyPriceLocked(sh, item, req.Standing, qty)
	if err != nil {
		s.mu.Unlock()
		return Receipt{}, err
	}
	if line.Quantity != Unlimited {
		line.Quantity -= qty
		sh.Inventory[item.ID] = line
	}
	s.mu.Unlock()

	receipt := Receipt{ShopID: sh.ID, ItemID: item.ID, Quantity: qty, Total: total, Remaining: line.Quantity}
	s.completeTrade(ctx, receipt, req.Standing, DirectionBuy, event.TypeItemPurchased)
	return receipt, nil
}

// Sell buys qty units from the player. The vendor must accept the item's
// category and legality. Stocked limited lines are replenished.
func (s *Service) Sell(ctx context.Context, req TradeRequest) (Receipt, error) {
	qty := normalizeQuantity(req.Quantity)

	s.mu.Lock()
	sh, item, err := s.lookupLocked(req.ShopID, req.ItemID)
	if err != nil {
		s.mu.Unlock()
		return Receipt{}, err
	}
	if access := accessFor(sh, req.Standing); !access.CanAccess {
		s.mu.Unlock()
		AccessDenials.WithLabelValues(sh.ID).Inc()
		return Receipt{}, ErrAccessDenied(sh.ID, access.Reason)
	}
	if !sh.VendorType.Accepts(item.Category) {
		s.mu.Unlock()
		return Receipt{}, ErrNotAccepted(sh.ID, item.ID, "category "+item.Category+" is not bought here")
	}
	if !sh.VendorType.Stocks(item) {
		s.mu.Unlock()
		return Receipt{}, ErrNotAccepted(sh.ID, item.ID, "vendor does not deal in illegal goods")
	}

	total, err := sellPrice(sh, item, req.Standing, qty)
	if err != nil {
		s.mu.Unlock()
		return Receipt{}, err
	}
	remaining := 0
	if line, ok := sh.Inventory[item.ID]; ok {
		if line.Quantity != Unlimited {
			if line.Quantity > math.MaxInt-qty {
				s.mu.Unlock()
				return Receipt{}, ErrInvalidQuantity(sh.ID, item.ID, qty)
			}
			line.Quantity += qty
			sh.Inventory[item.ID] = line
		}
		remaining = line.Quantity
	}
	s.mu.Unlock()

	receipt := Receipt{ShopID: sh.ID, ItemID: item.ID, Quantity: qty, Total: total, Remaining: remaining}
	s.completeTrade(ctx, receipt, req.Standing, DirectionSell, event.TypeItemSold)
	return receipt, nil
}

func (s *Service) completeTrade(ctx context.Context, r Receipt, standingName, direction string, eventType event.Type) {
	Trades.WithLabelValues(r.ShopID, direction).Inc()
	TradeCredits.WithLabelValues(r.ShopID, direction).Add(float64(r.Total))
	s.logger.InfoContext(ctx, "trade completed",
		"shop_id", r.ShopID,
		"item_id", r.ItemID,
		"direction", direction,
		"quantity", r.Quantity,
		"total", r.Total)
	s.flush(ctx, []pendingEvent{{
		stream:    shopStream(r.ShopID),
		eventType: eventType,
		payload: TradePayload{
			ShopID:   r.ShopID,
			ItemID:   r.ItemID,
			Quantity: r.Quantity,
			Total:    r.Total,
			Standing: standingName,
		},
	}})
}
