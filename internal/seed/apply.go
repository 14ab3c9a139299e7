// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package seed

import (
	"context"
	"log/slog"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/game"
)

// Summary counts what Apply created.
type Summary struct {
	Factions        int `json:"factions"`
	Relationships   int `json:"relationships"`
	Reputations     int `json:"reputations"`
	Items           int `json:"items"`
	Shops           int `json:"shops"`
	SupplyModifiers int `json:"supplyModifiers"`
	// Clamped counts reputations saturated to the ledger bounds.
	Clamped int `json:"clamped"`
}

// Apply creates the file's contents in the engine in dependency order:
// items, factions, relationships, reputations, shops, supply modifiers.
// It stops at the first error; entries applied before it remain.
func Apply(ctx context.Context, e *game.Engine, f *File) (Summary, error) {
	var sum Summary

	for _, item := range f.Items {
		if err := e.Shops().RegisterItem(ctx, item); err != nil {
			return sum, oops.In("seed").With("item_id", item.ID).Wrapf(err, "item %s", item.ID)
		}
		sum.Items++
	}

	for _, spec := range f.Factions {
		if _, err := e.Factions().CreateFaction(ctx, spec); err != nil {
			return sum, oops.In("seed").With("faction_id", spec.ID).Wrapf(err, "faction %s", spec.ID)
		}
		sum.Factions++
	}

	for _, rr := range f.Relationships {
		if _, err := e.Factions().SetRelationship(ctx, rr.FactionA, rr.FactionB, rr.Relationship); err != nil {
			return sum, oops.In("seed").Wrapf(err, "relationship %s/%s", rr.FactionA, rr.FactionB)
		}
		sum.Relationships++
	}

	for id, score := range f.Reputations {
		change, err := e.Factions().SetReputation(ctx, id, score)
		if err != nil {
			return sum, oops.In("seed").With("faction_id", id).Wrapf(err, "reputation %s", id)
		}
		if change.NewScore != score {
			sum.Clamped++
		}
		sum.Reputations++
	}

	for _, spec := range f.Shops {
		if _, err := e.CreateShop(ctx, spec); err != nil {
			return sum, oops.In("seed").With("shop_id", spec.ID).Wrapf(err, "shop %s", spec.ID)
		}
		sum.Shops++
	}

	for _, s := range f.SupplyModifiers {
		e.Shops().SetSupplyModifier(ctx, s.Category, s.Modifier, s.Reason)
		sum.SupplyModifiers++
	}

	slog.InfoContext(ctx, "seed applied",
		"name", f.Name,
		"factions", sum.Factions,
		"items", sum.Items,
		"shops", sum.Shops,
		"clamped", sum.Clamped)
	return sum, nil
}
