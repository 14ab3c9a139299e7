// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/internal/standing"
)

func TestVendorTypes_BuybackBelowMarkup(t *testing.T) {
	types := shop.VendorTypes()
	require.Len(t, types, 6)
	for _, vt := range types {
		info, err := vt.Info()
		require.NoError(t, err)
		assert.Less(t, info.BuybackRate, info.DefaultMarkup, vt)
		assert.True(t, info.SellsLegal || info.SellsIllegal, vt)
	}
}

func TestVendorType_Accepts(t *testing.T) {
	tests := []struct {
		vendor   shop.VendorType
		category string
		want     bool
	}{
		{shop.VendorCorporateStore, "weapons.smart", true},
		{shop.VendorCorporateStore, "weapons.smart.heavy", true},
		{shop.VendorCorporateStore, "junk.metal", false},
		{shop.VendorRipperdoc, "cyberware.optics", true},
		{shop.VendorRipperdoc, "weapons.smart", false},
		{shop.VendorPawnshop, "anything.at.all", true},
		{shop.VendorStreetVendor, "consumables.food", true},
		{"Vending", "consumables.food", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.vendor)+"/"+tt.category, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.vendor.Accepts(tt.category))
		})
	}
}

func TestVendorType_Stocks(t *testing.T) {
	legal := shop.Item{ID: "a"}
	illegal := shop.Item{ID: "b", Illegal: true}

	assert.True(t, shop.VendorCorporateStore.Stocks(legal))
	assert.False(t, shop.VendorCorporateStore.Stocks(illegal))
	assert.True(t, shop.VendorBlackMarket.Stocks(illegal))
	assert.False(t, shop.VendorPawnshop.Stocks(illegal))
}

func TestParseVendorType(t *testing.T) {
	vt, ok := shop.ParseVendorType("blackmarket")
	require.True(t, ok)
	assert.Equal(t, shop.VendorBlackMarket, vt)

	_, ok = shop.ParseVendorType("kiosk")
	assert.False(t, ok)

	info, err := shop.VendorFixer.Info()
	require.NoError(t, err)
	assert.Equal(t, standing.Friendly, info.MinStanding)

	_, err = shop.VendorType("kiosk").Info()
	assert.Error(t, err)
}

func TestRarity(t *testing.T) {
	tests := []struct {
		rarity shop.Rarity
		want   float64
	}{
		{shop.RarityCommon, 1.0},
		{shop.RarityUncommon, 1.25},
		{shop.RarityRare, 1.5},
		{shop.RarityEpic, 2.0},
		{shop.RarityLegendary, 3.0},
		{"", 1.0},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, tt.rarity.PriceModifier(), 1e-9, tt.rarity)
	}

	r, ok := shop.ParseRarity(" legendary ")
	require.True(t, ok)
	assert.Equal(t, shop.RarityLegendary, r)
	assert.False(t, shop.Rarity("Mythic").Valid())
}
