// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"cmp"
	"context"
	"fmt"
	"maps"
	"slices"
)

// Snapshot is a serializable copy of a Service's state.
type Snapshot struct {
	Items           []Item             `json:"items"`
	Shops           []Shop             `json:"shops"`
	SupplyModifiers map[string]float64 `json:"supplyModifiers"`
}

// Export returns a snapshot of the catalog, shops and supply table.
func (s *Service) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Items:           slices.Collect(maps.Values(s.st.items)),
		Shops:           make([]Shop, 0, len(s.st.shops)),
		SupplyModifiers: maps.Clone(s.st.supply),
	}
	slices.SortFunc(snap.Items, func(a, b Item) int { return cmp.Compare(a.ID, b.ID) })
	for _, sh := range s.st.shops {
		snap.Shops = append(snap.Shops, *sh.clone())
	}
	slices.SortFunc(snap.Shops, func(a, b Shop) int { return cmp.Compare(a.ID, b.ID) })
	return snap
}

// Import loads a snapshot, replacing the current state or merging into it.
// Nothing changes unless the whole snapshot is valid.
func (s *Service) Import(ctx context.Context, snap Snapshot, merge bool) error {
	s.mu.Lock()
	var next *state
	if merge {
		next = s.st.clone()
	} else {
		next = newState()
	}
	if err := s.applySnapshot(next, snap); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st = next
	counts := []any{
		"items", len(next.items),
		"shops", len(next.shops),
		"supply_modifiers", len(next.supply),
		"merge", merge,
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "shop snapshot imported", counts...)
	return nil
}

func (s *Service) applySnapshot(next *state, snap Snapshot) error {
	for _, item := range snap.Items {
		if err := validateItem(item); err != nil {
			return ErrInvalidSnapshot(err.Error())
		}
		if item.Rarity == "" {
			item.Rarity = RarityCommon
		}
		next.items[item.ID] = item
	}

	for _, sh := range snap.Shops {
		spec := ShopSpec{
			ID:             sh.ID,
			Name:           sh.Name,
			VendorType:     sh.VendorType,
			FactionID:      sh.FactionID,
			MarkupModifier: sh.MarkupModifier,
			Closed:         !sh.Active,
			CustomPricing:  sh.CustomPricing,
		}
		for itemID, line := range sh.Inventory {
			if line.ItemID == "" {
				line.ItemID = itemID
			}
			if line.ItemID != itemID {
				return ErrInvalidSnapshot(fmt.Sprintf("shop %s inventory key %s holds item %s", sh.ID, itemID, line.ItemID))
			}
			spec.Inventory = append(spec.Inventory, line)
		}
		built, err := s.buildShop(next, spec)
		if err != nil {
			return ErrInvalidSnapshot(err.Error())
		}
		next.shops[built.ID] = built
	}

	for category, modifier := range snap.SupplyModifiers {
		next.supply[category] = ClampSupply(modifier)
	}
	return nil
}
