// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/internal/standing"
	"github.com/neonreach/neonreach/pkg/errutil"
)

func TestService_CanAccessShop(t *testing.T) {
	ctx := context.Background()
	svc := newFixture(t)
	_, err := svc.CreateShop(ctx, shop.ShopSpec{ID: "afterlife", VendorType: shop.VendorFixer})
	require.NoError(t, err)
	_, err = svc.CreateShop(ctx, shop.ShopSpec{ID: "stall", VendorType: shop.VendorStreetVendor})
	require.NoError(t, err)

	tests := []struct {
		name     string
		shopID   string
		standing string
		allowed  bool
		reason   string
	}{
		{"meets minimum", "arasaka-store", "Neutral", true, ""},
		{"above minimum", "arasaka-store", "allied", true, ""},
		{"below minimum", "arasaka-store", "Unfriendly", false, "Requires Neutral standing (current: Unfriendly)"},
		{"fixer wants friends", "afterlife", "Neutral", false, "Requires Friendly standing (current: Neutral)"},
		{"unknown standing is neutral", "afterlife", "Bogus", false, "Requires Friendly standing (current: Neutral)"},
		{"street vendors serve anyone", "stall", "Hostile", true, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.CanAccessShop(tt.shopID, tt.standing)
			require.NoError(t, err)
			assert.Equal(t, tt.allowed, res.CanAccess)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}

	t.Run("reports tiers", func(t *testing.T) {
		res, err := svc.CanAccessShop("afterlife", "Unfriendly")
		require.NoError(t, err)
		assert.Equal(t, standing.Friendly, res.Required)
		assert.Equal(t, standing.Unfriendly, res.Current)
	})

	t.Run("closed shop", func(t *testing.T) {
		require.True(t, svc.SetShopActive(ctx, "stall", false))
		res, err := svc.CanAccessShop("stall", "Allied")
		require.NoError(t, err)
		assert.False(t, res.CanAccess)
		assert.Equal(t, shop.ReasonClosed, res.Reason)
	})

	t.Run("unknown shop", func(t *testing.T) {
		_, err := svc.CanAccessShop("nowhere", "Neutral")
		errutil.AssertErrorCode(t, err, shop.CodeUnknownShop)
	})
}
