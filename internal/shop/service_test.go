// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/pkg/errutil"
)

// mockEmitter is a test mock for shop.EventEmitter.
type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) Emit(ctx context.Context, stream, eventType string, payload []byte) error {
	args := m.Called(ctx, stream, eventType, payload)
	return args.Error(0)
}

var catalog = []shop.Item{
	{ID: "smart-pistol", Name: "Smart Pistol", Category: "weapons.smart", BasePrice: 100, Rarity: shop.RarityCommon},
	{ID: "kiroshi-optics", Name: "Kiroshi Optics", Category: "cyberware.optics", BasePrice: 400, Rarity: shop.RarityRare},
	{ID: "black-lace", Name: "Black Lace", Category: "consumables.drugs", BasePrice: 20, Rarity: shop.RarityUncommon, Illegal: true},
	{ID: "med-patch", Name: "Med Patch", Category: "medical.patch", BasePrice: 1},
}

// newFixture returns a service with the catalog registered and a
// CorporateStore "arasaka-store" stocking five smart pistols.
func newFixture(t *testing.T, cfg ...shop.ServiceConfig) *shop.Service {
	t.Helper()
	ctx := context.Background()
	var c shop.ServiceConfig
	if len(cfg) > 0 {
		c = cfg[0]
	}
	svc := shop.NewService(c)
	for _, item := range catalog {
		require.NoError(t, svc.RegisterItem(ctx, item))
	}
	_, err := svc.CreateShop(ctx, shop.ShopSpec{
		ID:         "arasaka-store",
		Name:       "Arasaka Showroom",
		VendorType: shop.VendorCorporateStore,
		FactionID:  "corp1",
		Inventory:  []shop.Stock{{ItemID: "smart-pistol", Quantity: 5}},
	})
	require.NoError(t, err)
	return svc
}

func TestService_RegisterItem(t *testing.T) {
	ctx := context.Background()
	svc := shop.NewService(shop.ServiceConfig{})

	require.NoError(t, svc.RegisterItem(ctx, shop.Item{ID: "scrap", Category: "junk.metal", BasePrice: 2}))
	item, ok := svc.GetItem("scrap")
	require.True(t, ok)
	assert.Equal(t, shop.RarityCommon, item.Rarity)

	err := svc.RegisterItem(ctx, shop.Item{ID: "scrap", BasePrice: 5})
	errutil.AssertErrorCode(t, err, shop.CodeDuplicateItem)
	item, _ = svc.GetItem("scrap")
	assert.Equal(t, 2, item.BasePrice)

	tests := []struct {
		name string
		item shop.Item
	}{
		{"empty id", shop.Item{BasePrice: 1}},
		{"negative price", shop.Item{ID: "x", BasePrice: -1}},
		{"unknown rarity", shop.Item{ID: "y", Rarity: "Mythic"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errutil.AssertErrorCode(t, svc.RegisterItem(ctx, tt.item), shop.CodeInvalidItem)
		})
	}
	assert.Len(t, svc.Items(), 1)
}

func TestService_CreateShop(t *testing.T) {
	ctx := context.Background()

	t.Run("defaults", func(t *testing.T) {
		svc := newFixture(t)
		sh, ok := svc.GetShop("arasaka-store")
		require.True(t, ok)
		assert.InDelta(t, 1.0, sh.MarkupModifier, 1e-9)
		assert.True(t, sh.Active)
		assert.InDelta(t, 1.5, sh.Markup(), 1e-9)
		assert.InDelta(t, 0.5, sh.BuybackRate(), 1e-9)
	})

	t.Run("duplicate leaves original untouched", func(t *testing.T) {
		svc := newFixture(t)
		_, err := svc.CreateShop(ctx, shop.ShopSpec{ID: "arasaka-store", VendorType: shop.VendorPawnshop})
		errutil.AssertErrorCode(t, err, shop.CodeDuplicateShop)

		sh, _ := svc.GetShop("arasaka-store")
		assert.Equal(t, shop.VendorCorporateStore, sh.VendorType)
	})

	t.Run("rejects bad definitions", func(t *testing.T) {
		svc := newFixture(t)
		tests := []struct {
			name string
			spec shop.ShopSpec
			code string
		}{
			{"empty id", shop.ShopSpec{VendorType: shop.VendorFixer}, shop.CodeInvalidShop},
			{"unknown vendor", shop.ShopSpec{ID: "s1", VendorType: "Vending"}, shop.CodeInvalidShop},
			{"negative markup", shop.ShopSpec{ID: "s2", VendorType: shop.VendorFixer, MarkupModifier: -1}, shop.CodeInvalidShop},
			{"unknown stock item", shop.ShopSpec{ID: "s3", VendorType: shop.VendorFixer, Inventory: []shop.Stock{{ItemID: "ghost", Quantity: 1}}}, shop.CodeUnknownItem},
			{"illegal stock at corporate store", shop.ShopSpec{ID: "s4", VendorType: shop.VendorCorporateStore, Inventory: []shop.Stock{{ItemID: "black-lace", Quantity: 1}}}, shop.CodeNotAccepted},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := svc.CreateShop(ctx, tt.spec)
				errutil.AssertErrorCode(t, err, tt.code)
			})
		}
		assert.Len(t, svc.ListShops(""), 1)
	})

	t.Run("returned shop is a copy", func(t *testing.T) {
		svc := newFixture(t)
		sh, _ := svc.GetShop("arasaka-store")
		sh.Inventory["smart-pistol"] = shop.Stock{ItemID: "smart-pistol", Quantity: 999}

		again, _ := svc.GetShop("arasaka-store")
		assert.Equal(t, 5, again.Inventory["smart-pistol"].Quantity)
	})
}

func TestService_ListShops(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t)
	_, err := svc.CreateShop(ctx, shop.ShopSpec{ID: "afterlife", VendorType: shop.VendorFixer, FactionID: "afterlife-crew"})
	require.NoError(t, err)
	_, err = svc.CreateShop(ctx, shop.ShopSpec{ID: "b-pawn", VendorType: shop.VendorPawnshop})
	require.NoError(t, err)

	all := svc.ListShops("")
	require.Len(t, all, 3)
	assert.Equal(t, "afterlife", all[0].ID)
	assert.Equal(t, "arasaka-store", all[1].ID)

	owned := svc.ListShops("corp1")
	require.Len(t, owned, 1)
	assert.Equal(t, "arasaka-store", owned[0].ID)
}

func TestService_Inventory(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t)

	require.NoError(t, svc.SetStock(ctx, "arasaka-store", shop.Stock{ItemID: "kiroshi-optics", Quantity: shop.Unlimited}))
	errutil.AssertErrorCode(t, svc.SetStock(ctx, "nowhere", shop.Stock{ItemID: "kiroshi-optics"}), shop.CodeUnknownShop)
	errutil.AssertErrorCode(t, svc.SetStock(ctx, "arasaka-store", shop.Stock{ItemID: "black-lace", Quantity: 1}), shop.CodeNotAccepted)
	errutil.AssertErrorCode(t, svc.SetStock(ctx, "arasaka-store", shop.Stock{ItemID: "smart-pistol", Quantity: -5}), shop.CodeInvalidShop)

	assert.True(t, svc.RemoveStock(ctx, "arasaka-store", "kiroshi-optics"))
	assert.False(t, svc.RemoveStock(ctx, "arasaka-store", "kiroshi-optics"))
	assert.False(t, svc.RemoveStock(ctx, "nowhere", "kiroshi-optics"))

	errutil.AssertErrorCode(t, svc.SetMarkupModifier(ctx, "arasaka-store", 0), shop.CodeInvalidShop)
	errutil.AssertErrorCode(t, svc.SetMarkupModifier(ctx, "nowhere", 1.2), shop.CodeUnknownShop)
	errutil.AssertErrorCode(t, svc.SetCustomPrice(ctx, "arasaka-store", "ghost", 10), shop.CodeUnknownItem)

	assert.True(t, svc.SetShopActive(ctx, "arasaka-store", false))
	assert.False(t, svc.SetShopActive(ctx, "nowhere", false))
	sh, _ := svc.GetShop("arasaka-store")
	assert.False(t, sh.Active)
}
