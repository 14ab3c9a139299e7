// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package game_test

import (
	"context"
	"encoding/json"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/neonreach/neonreach/internal/event"
	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/internal/standing"
	"github.com/neonreach/neonreach/pkg/errutil"
)

var _ = Describe("Engine", func() {
	var (
		ctx    context.Context
		engine *game.Engine
	)

	createFaction := func(id string, typ faction.Type, territories ...string) {
		_, err := engine.Factions().CreateFaction(ctx, faction.Spec{ID: id, Name: id, Type: typ, Territories: territories})
		Expect(err).NotTo(HaveOccurred())
	}

	BeforeEach(func() {
		ctx = context.Background()
		engine = game.New(game.Config{})
	})

	Describe("reputation ledger", func() {
		BeforeEach(func() {
			createFaction("corp1", faction.TypeCorporation)
		})

		It("starts a new faction at neutral", func() {
			rep, err := engine.Factions().GetReputation("corp1")
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Score).To(Equal(0))
			Expect(rep.Tier).To(Equal(standing.Neutral))
			Expect(rep.PriceModifier).To(BeNumerically("~", 1.0, 1e-9))
		})

		It("accumulates to Friendly rather than Allied", func() {
			_, err := engine.Factions().AddReputation(ctx, "corp1", 50, "job")
			Expect(err).NotTo(HaveOccurred())
			change, err := engine.Factions().AddReputation(ctx, "corp1", 30, "job")
			Expect(err).NotTo(HaveOccurred())

			Expect(change.NewScore).To(Equal(80))
			Expect(change.NewTier.String()).To(Equal("Friendly"))
		})

		It("clamps oversized writes", func() {
			change, err := engine.Factions().SetReputation(ctx, "corp1", 2000)
			Expect(err).NotTo(HaveOccurred())
			Expect(change.NewScore).To(Equal(1000))
			Expect(change.NewTier).To(Equal(standing.Allied))
		})

		It("spreads the inverse to rivals", func() {
			engine = game.New(game.Config{Options: faction.Options{
				RivalryReputationSpread: true,
				RivalrySpreadFactor:     0.5,
			}})
			createFaction("rival1", faction.TypeYoungTeam)
			createFaction("rival2", faction.TypeYoungTeam)
			_, err := engine.Factions().SetRelationship(ctx, "rival1", "rival2", faction.RelationshipRival)
			Expect(err).NotTo(HaveOccurred())

			_, err = engine.Factions().AddReputation(ctx, "rival1", 50, "")
			Expect(err).NotTo(HaveOccurred())

			rep, err := engine.Factions().GetReputation("rival2")
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Score).To(Equal(-25))
		})
	})

	Describe("owner-standing economy", func() {
		BeforeEach(func() {
			createFaction("corp1", faction.TypeCorporation)
			Expect(engine.Shops().RegisterItem(ctx, shop.Item{
				ID: "smart-pistol", Category: "weapons.smart", BasePrice: 100, Rarity: shop.RarityCommon,
			})).To(Succeed())
			_, err := engine.Shops().CreateShop(ctx, shop.ShopSpec{
				ID: "arasaka-store", VendorType: shop.VendorCorporateStore, FactionID: "corp1",
				Inventory: []shop.Stock{{ItemID: "smart-pistol", Quantity: 3}},
			})
			Expect(err).NotTo(HaveOccurred())
		})

		It("quotes at neutral standing", func() {
			q, err := engine.Quote("arasaka-store", "smart-pistol", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Buy).To(Equal(150))
			Expect(q.Standing).To(Equal("Neutral"))
		})

		It("follows the owner's tier", func() {
			_, err := engine.Factions().SetReputation(ctx, "corp1", 60)
			Expect(err).NotTo(HaveOccurred())

			q, err := engine.Quote("arasaka-store", "smart-pistol", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(q.Sell).To(Equal(55))
			Expect(q.Buy).To(Equal(135))
		})

		It("closes the door on hostile players", func() {
			_, err := engine.Factions().SetReputation(ctx, "corp1", -75)
			Expect(err).NotTo(HaveOccurred())

			res, err := engine.ShopAccess("arasaka-store")
			Expect(err).NotTo(HaveOccurred())
			Expect(res.CanAccess).To(BeFalse())
			Expect(res.Reason).To(Equal("Requires Neutral standing (current: Hostile)"))

			_, err = engine.Buy(ctx, "arasaka-store", "smart-pistol", 1)
			Expect(errutil.HasCode(err, shop.CodeAccessDenied)).To(BeTrue())
		})

		It("trades both ways", func() {
			bought, err := engine.Buy(ctx, "arasaka-store", "smart-pistol", 2)
			Expect(err).NotTo(HaveOccurred())
			Expect(bought.Total).To(Equal(300))
			Expect(bought.Remaining).To(Equal(1))

			sold, err := engine.Sell(ctx, "arasaka-store", "smart-pistol", 1)
			Expect(err).NotTo(HaveOccurred())
			Expect(sold.Total).To(Equal(50))
			Expect(sold.Remaining).To(Equal(2))
		})

		It("rejects unknown shops", func() {
			_, err := engine.Quote("nowhere", "smart-pistol", 1)
			Expect(errutil.HasCode(err, shop.CodeUnknownShop)).To(BeTrue())
		})
	})

	Describe("territory access", func() {
		BeforeEach(func() {
			createFaction("maelstrom", faction.TypeYoungTeam, "northside")
		})

		It("is open when uncontrolled", func() {
			access := engine.TerritoryAccess("badlands")
			Expect(access.Allowed).To(BeTrue())
			Expect(access.Controller).To(BeEmpty())
			Expect(access.Tier).To(Equal(standing.Neutral))
		})

		It("turns hostile with the controller", func() {
			_, err := engine.Factions().SetReputation(ctx, "maelstrom", -200)
			Expect(err).NotTo(HaveOccurred())

			access := engine.TerritoryAccess("northside")
			Expect(access.Controller).To(Equal("maelstrom"))
			Expect(access.AttackOnSight).To(BeTrue())
			Expect(access.Allowed).To(BeFalse())
		})
	})

	Describe("state snapshots", func() {
		BeforeEach(func() {
			createFaction("arasaka", faction.TypeCorporation, "city-center")
			createFaction("maelstrom", faction.TypeYoungTeam, "northside")
			_, err := engine.Factions().SetRelationship(ctx, "arasaka", "maelstrom", faction.RelationshipAtWar)
			Expect(err).NotTo(HaveOccurred())
			_, err = engine.Factions().SetReputation(ctx, "maelstrom", -60)
			Expect(err).NotTo(HaveOccurred())
			Expect(engine.Shops().RegisterItem(ctx, shop.Item{ID: "ammo", Category: "weapons.ammo", BasePrice: 5})).To(Succeed())
			engine.Shops().SetSupplyModifier(ctx, "weapons.ammo", 2.5, "war")
		})

		It("round-trips through JSON", func() {
			data, err := json.Marshal(engine.ExportState())
			Expect(err).NotTo(HaveOccurred())

			var st game.State
			Expect(json.Unmarshal(data, &st)).To(Succeed())
			Expect(st.Version).To(Equal(game.StateVersion))

			restored := game.New(game.Config{})
			Expect(restored.ImportState(ctx, &st, false)).To(Succeed())

			Expect(restored.Factions().GetAllReputations()).To(Equal(engine.Factions().GetAllReputations()))
			Expect(restored.Factions().ListFactions(faction.ListOptions{IncludeHidden: true})).
				To(Equal(engine.Factions().ListFactions(faction.ListOptions{IncludeHidden: true})))
			Expect(restored.Factions().Territories()).To(Equal(engine.Factions().Territories()))
			Expect(restored.Shops().SupplyModifier("weapons.ammo")).To(BeNumerically("~", 2.5, 1e-9))
		})

		It("rejects incompatible versions", func() {
			st := engine.ExportState()
			st.Version = "2.0.0"
			err := engine.ImportState(ctx, st, false)
			Expect(errutil.HasCode(err, faction.CodeInvalidSnapshot)).To(BeTrue())

			st.Version = "v1"
			Expect(engine.ImportState(ctx, st, false)).NotTo(Succeed())
			Expect(engine.ImportState(ctx, nil, false)).NotTo(Succeed())
		})

		It("accepts newer minor versions", func() {
			st := engine.ExportState()
			st.Version = "1.4.2"
			Expect(engine.ImportState(ctx, st, true)).To(Succeed())
		})

		It("rolls factions back when the economy is invalid", func() {
			st := engine.ExportState()
			st.Factions.Reputations["arasaka"] = 500
			st.Economy.Shops = []shop.Shop{{ID: "broken", VendorType: "Kiosk"}}

			err := engine.ImportState(ctx, st, false)
			Expect(errutil.HasCode(err, shop.CodeInvalidSnapshot)).To(BeTrue())

			rep, err := engine.Factions().GetReputation("arasaka")
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Score).To(Equal(0))
		})
	})

	Describe("shop ownership", func() {
		BeforeEach(func() {
			createFaction("arasaka", faction.TypeCorporation)
		})

		It("opens shops owned by a registered faction", func() {
			sh, err := engine.CreateShop(ctx, shop.ShopSpec{ID: "showroom", VendorType: shop.VendorCorporateStore, FactionID: "arasaka"})
			Expect(err).NotTo(HaveOccurred())
			Expect(sh.FactionID).To(Equal("arasaka"))

			_, err = engine.CreateShop(ctx, shop.ShopSpec{ID: "stall", VendorType: shop.VendorStreetVendor})
			Expect(err).NotTo(HaveOccurred())
		})

		It("rejects shops owned by an unknown faction", func() {
			_, err := engine.CreateShop(ctx, shop.ShopSpec{ID: "ghost-store", VendorType: shop.VendorFixer, FactionID: "ghosts"})
			Expect(errutil.HasCode(err, faction.CodeUnknownFaction)).To(BeTrue())

			_, ok := engine.Shops().GetShop("ghost-store")
			Expect(ok).To(BeFalse())
		})

		It("rejects snapshots whose shops name a missing owner", func() {
			st := engine.ExportState()
			st.Factions.Reputations["arasaka"] = 500
			st.Economy.Shops = []shop.Shop{{ID: "ghost-store", VendorType: shop.VendorFixer, FactionID: "ghosts", Active: true}}

			err := engine.ImportState(ctx, st, false)
			Expect(errutil.HasCode(err, faction.CodeUnknownFaction)).To(BeTrue())

			rep, err := engine.Factions().GetReputation("arasaka")
			Expect(err).NotTo(HaveOccurred())
			Expect(rep.Score).To(Equal(0))
			_, ok := engine.Shops().GetShop("ghost-store")
			Expect(ok).To(BeFalse())
		})
	})

	Describe("event fan-out", func() {
		It("publishes every service's events on one bus", func() {
			bus := event.NewBus(16)
			DeferCleanup(bus.Close)
			sub := bus.Subscribe(event.AllStreams)
			engine = game.New(game.Config{Emitter: bus})

			createFaction("corp1", faction.TypeCorporation)
			engine.Shops().SetSupplyModifier(ctx, "tech.decks", 1.5, "shortage")

			var first, second event.Event
			Eventually(sub).Should(Receive(&first))
			Eventually(sub).Should(Receive(&second))
			Expect(first.Type).To(Equal(event.TypeFactionCreated))
			Expect(first.Stream).To(Equal("faction:corp1"))
			Expect(second.Type).To(Equal(event.TypeSupplyChanged))
			Expect(second.Stream).To(Equal("economy:tech.decks"))
		})
	})
})
