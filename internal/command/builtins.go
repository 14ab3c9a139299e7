// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package command

import (
	"context"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/faction"
)

// SourceCore marks commands registered by RegisterBuiltins.
const SourceCore = "core"

// builtins is the engine surface exposed to scripts and the console.
var builtins = []Entry{
	{Name: "rep.get", Handler: repGet, MinArgs: 1, Usage: "rep.get <faction>", Help: "Show reputation and standing with a faction"},
	{Name: "rep.add", Handler: repAdd, MinArgs: 2, Usage: "rep.add <faction> <delta> [reason]", Help: "Change reputation with a faction"},
	{Name: "rep.set", Handler: repSet, MinArgs: 2, Usage: "rep.set <faction> <value>", Help: "Set reputation with a faction"},
	{Name: "rep.list", Handler: repList, Usage: "rep.list", Help: "List standings, highest first"},

	{Name: "faction.get", Handler: factionGet, MinArgs: 1, Usage: "faction.get <faction>", Help: "Show a faction"},
	{Name: "faction.list", Handler: factionList, Usage: "faction.list [includeHidden]", Help: "List factions"},
	{Name: "faction.relation", Handler: factionRelation, MinArgs: 2, Usage: "faction.relation <a> <b>", Help: "Show the relationship between two factions"},
	{Name: "faction.set_relation", Handler: factionSetRelation, MinArgs: 3, Usage: "faction.set_relation <a> <b> <relationship>", Help: "Set the relationship between two factions"},
	{Name: "faction.activate", Handler: factionActivate, MinArgs: 2, Usage: "faction.activate <faction> <true|false>", Help: "Activate or deactivate a faction"},

	{Name: "territory.access", Handler: territoryAccess, MinArgs: 1, Usage: "territory.access <territory>", Help: "Show the controller and how it treats the player"},
	{Name: "territory.transfer", Handler: territoryTransfer, MinArgs: 2, Usage: "territory.transfer <territory> <faction> [method]", Help: "Hand a territory to a faction"},
	{Name: "territory.release", Handler: territoryRelease, MinArgs: 1, Usage: "territory.release <territory>", Help: "Leave a territory uncontrolled"},
	{Name: "territory.list", Handler: territoryList, MinArgs: 1, Usage: "territory.list <faction>", Help: "List territories a faction controls"},

	{Name: "shop.list", Handler: shopList, Usage: "shop.list [faction]", Help: "List shops, optionally by owner"},
	{Name: "shop.access", Handler: shopAccess, MinArgs: 1, Usage: "shop.access <shop>", Help: "Check whether the player may trade at a shop"},
	{Name: "shop.quote", Handler: shopQuote, MinArgs: 2, Usage: "shop.quote <shop> <item> [quantity]", Help: "Quote buy and sell prices"},
	{Name: "shop.buy", Handler: shopBuy, MinArgs: 2, Usage: "shop.buy <shop> <item> [quantity]", Help: "Buy from a shop"},
	{Name: "shop.sell", Handler: shopSell, MinArgs: 2, Usage: "shop.sell <shop> <item> [quantity]", Help: "Sell to a shop"},

	{Name: "economy.supply", Handler: economySupply, MinArgs: 2, Usage: "economy.supply <category> <modifier> [reason]", Help: "Set a category supply modifier"},
	{Name: "economy.reset", Handler: economyReset, Usage: "economy.reset", Help: "Reset every supply modifier"},
}

var builtinAliases = map[string]string{
	"standing": "rep.get",
	"quote":    "shop.quote",
	"buy":      "shop.buy",
	"sell":     "shop.sell",
}

// RegisterBuiltins adds the engine commands and their short aliases.
func RegisterBuiltins(r *Registry) error {
	for _, e := range builtins {
		e.Source = SourceCore
		if err := r.Register(e); err != nil {
			return err
		}
	}
	for alias, target := range builtinAliases {
		if err := r.Alias(alias, target); err != nil {
			return err
		}
	}
	return nil
}

func repGet(_ context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().GetReputation(id)
}

func repAdd(ctx context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	delta, err := x.Int(1)
	if err != nil {
		return nil, err
	}
	reason, err := x.OptString(2, "")
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().AddReputation(ctx, id, delta, reason)
}

func repSet(ctx context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	value, err := x.Int(1)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().SetReputation(ctx, id, value)
}

func repList(_ context.Context, x *Execution) (any, error) {
	return x.Engine.Factions().GetAllReputations(), nil
}

func factionGet(_ context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	f, ok := x.Engine.Factions().GetFaction(id)
	if !ok {
		return nil, faction.ErrUnknownFaction(id)
	}
	return f, nil
}

func factionList(_ context.Context, x *Execution) (any, error) {
	hidden, err := x.OptBool(0, false)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().ListFactions(faction.ListOptions{IncludeHidden: hidden}), nil
}

func factionRelation(_ context.Context, x *Execution) (any, error) {
	a, err := x.String(0)
	if err != nil {
		return nil, err
	}
	b, err := x.String(1)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().GetRelationship(a, b)
}

func factionSetRelation(ctx context.Context, x *Execution) (any, error) {
	a, err := x.String(0)
	if err != nil {
		return nil, err
	}
	b, err := x.String(1)
	if err != nil {
		return nil, err
	}
	name, err := x.String(2)
	if err != nil {
		return nil, err
	}
	rel, ok := faction.ParseRelationship(name)
	if !ok {
		return nil, faction.ErrInvalidRelationship(a, b, "unknown relationship "+name)
	}
	return x.Engine.Factions().SetRelationship(ctx, a, b, rel)
}

func factionActivate(ctx context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	active, err := x.Bool(1)
	if err != nil {
		return nil, err
	}
	if !x.Engine.Factions().SetFactionActive(ctx, id, active) {
		return nil, faction.ErrUnknownFaction(id)
	}
	return map[string]any{"factionId": id, "active": active}, nil
}

func territoryAccess(_ context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	return x.Engine.TerritoryAccess(id), nil
}

func territoryTransfer(ctx context.Context, x *Execution) (any, error) {
	territory, err := x.String(0)
	if err != nil {
		return nil, err
	}
	to, err := x.String(1)
	if err != nil {
		return nil, err
	}
	method, err := x.OptString(2, "")
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().TransferTerritory(ctx, territory, to, method)
}

func territoryRelease(ctx context.Context, x *Execution) (any, error) {
	territory, err := x.String(0)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().ReleaseTerritory(ctx, territory)
}

func territoryList(_ context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	return x.Engine.Factions().GetFactionTerritories(id)
}

func shopList(_ context.Context, x *Execution) (any, error) {
	owner, err := x.OptString(0, "")
	if err != nil {
		return nil, err
	}
	return x.Engine.Shops().ListShops(owner), nil
}

func shopAccess(_ context.Context, x *Execution) (any, error) {
	id, err := x.String(0)
	if err != nil {
		return nil, err
	}
	return x.Engine.ShopAccess(id)
}

// tradeArgs reads <shop> <item> [quantity].
func tradeArgs(x *Execution) (shopID, itemID string, qty int, err error) {
	if shopID, err = x.String(0); err != nil {
		return
	}
	if itemID, err = x.String(1); err != nil {
		return
	}
	if qty, err = x.OptInt(2, 1); err != nil {
		return
	}
	if qty < 1 {
		err = ErrInvalidArgs(x.Name, x.Usage)
	}
	return
}

func shopQuote(_ context.Context, x *Execution) (any, error) {
	shopID, itemID, qty, err := tradeArgs(x)
	if err != nil {
		return nil, err
	}
	return x.Engine.Quote(shopID, itemID, qty)
}

func shopBuy(ctx context.Context, x *Execution) (any, error) {
	shopID, itemID, qty, err := tradeArgs(x)
	if err != nil {
		return nil, err
	}
	return x.Engine.Buy(ctx, shopID, itemID, qty)
}

func shopSell(ctx context.Context, x *Execution) (any, error) {
	shopID, itemID, qty, err := tradeArgs(x)
	if err != nil {
		return nil, err
	}
	return x.Engine.Sell(ctx, shopID, itemID, qty)
}

func economySupply(ctx context.Context, x *Execution) (any, error) {
	category, err := x.String(0)
	if err != nil {
		return nil, err
	}
	modifier, err := x.Float(1)
	if err != nil {
		return nil, err
	}
	reason, err := x.OptString(2, "")
	if err != nil {
		return nil, err
	}
	if category == "" {
		return nil, oops.Code(CodeInvalidArgs).With("usage", x.Usage).Errorf("category is required")
	}
	applied := x.Engine.Shops().SetSupplyModifier(ctx, category, modifier, reason)
	return map[string]any{"category": category, "modifier": applied}, nil
}

func economyReset(ctx context.Context, x *Execution) (any, error) {
	x.Engine.Shops().ResetSupplyModifiers(ctx)
	return x.Engine.Shops().SupplyModifiers(), nil
}
