// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"fmt"
	"slices"
	"strings"

	"github.com/gobwas/glob"

	"github.com/neonreach/neonreach/internal/standing"
)

// VendorType is a shop archetype supplying default pricing and access rules.
type VendorType string

// Vendor types.
const (
	VendorCorporateStore VendorType = "CorporateStore"
	VendorBlackMarket    VendorType = "BlackMarket"
	VendorStreetVendor   VendorType = "StreetVendor"
	VendorFixer          VendorType = "Fixer"
	VendorRipperdoc      VendorType = "Ripperdoc"
	VendorPawnshop       VendorType = "Pawnshop"
)

// VendorInfo holds the defaults of a vendor type.
//
// AcceptedCategories are glob patterns over dot-separated categories:
//   - '*' matches a single segment ("weapons.*" matches "weapons.smart")
//   - '**' matches any number of segments ("**" accepts everything)
type VendorInfo struct {
	DefaultMarkup      float64
	BuybackRate        float64
	MinStanding        standing.Tier
	AcceptedCategories []string
	SellsLegal         bool
	SellsIllegal       bool
}

type vendorEntry struct {
	info     VendorInfo
	accepted []glob.Glob
}

var vendorTable = map[VendorType]*vendorEntry{}

func init() {
	defaults := map[VendorType]VendorInfo{
		VendorCorporateStore: {
			DefaultMarkup: 1.5, BuybackRate: 0.5, MinStanding: standing.Neutral,
			AcceptedCategories: []string{"weapons.**", "armor.**", "cyberware.**", "consumables.**", "tech.**"},
			SellsLegal:         true,
		},
		VendorBlackMarket: {
			DefaultMarkup: 1.3, BuybackRate: 0.6, MinStanding: standing.Unfriendly,
			AcceptedCategories: []string{"**"},
			SellsLegal:         true, SellsIllegal: true,
		},
		VendorStreetVendor: {
			DefaultMarkup: 1.2, BuybackRate: 0.4, MinStanding: standing.Hostile,
			AcceptedCategories: []string{"consumables.**", "junk.**", "tech.**"},
			SellsLegal:         true,
		},
		VendorFixer: {
			DefaultMarkup: 1.4, BuybackRate: 0.7, MinStanding: standing.Friendly,
			AcceptedCategories: []string{"**"},
			SellsLegal:         true, SellsIllegal: true,
		},
		VendorRipperdoc: {
			DefaultMarkup: 1.6, BuybackRate: 0.5, MinStanding: standing.Neutral,
			AcceptedCategories: []string{"cyberware.**", "medical.**"},
			SellsLegal:         true, SellsIllegal: true,
		},
		VendorPawnshop: {
			DefaultMarkup: 1.1, BuybackRate: 0.3, MinStanding: standing.Unfriendly,
			AcceptedCategories: []string{"**"},
			SellsLegal:         true,
		},
	}
	for vt, info := range defaults {
		entry := &vendorEntry{info: info}
		for _, pattern := range info.AcceptedCategories {
			entry.accepted = append(entry.accepted, glob.MustCompile(pattern, '.'))
		}
		vendorTable[vt] = entry
	}
}

// VendorTypes returns every vendor type sorted by name.
func VendorTypes() []VendorType {
	types := make([]VendorType, 0, len(vendorTable))
	for vt := range vendorTable {
		types = append(types, vt)
	}
	slices.Sort(types)
	return types
}

// ParseVendorType resolves a vendor type name, ignoring case.
func ParseVendorType(name string) (VendorType, bool) {
	for vt := range vendorTable {
		if strings.EqualFold(string(vt), strings.TrimSpace(name)) {
			return vt, true
		}
	}
	return "", false
}

// Valid reports whether vt is a known vendor type.
func (vt VendorType) Valid() bool {
	_, ok := vendorTable[vt]
	return ok
}

// Info returns a copy of the vendor type defaults.
func (vt VendorType) Info() (VendorInfo, error) {
	entry, ok := vendorTable[vt]
	if !ok {
		return VendorInfo{}, fmt.Errorf("unknown vendor type %q", vt)
	}
	info := entry.info
	info.AcceptedCategories = slices.Clone(info.AcceptedCategories)
	return info, nil
}

// Accepts reports whether the vendor type buys items of category.
func (vt VendorType) Accepts(category string) bool {
	entry, ok := vendorTable[vt]
	if !ok {
		return false
	}
	for _, g := range entry.accepted {
		if g.Match(category) {
			return true
		}
	}
	return false
}

// Stocks reports whether the vendor type may carry the item given its
// legality.
func (vt VendorType) Stocks(item Item) bool {
	entry, ok := vendorTable[vt]
	if !ok {
		return false
	}
	if item.Illegal {
		return entry.info.SellsIllegal
	}
	return entry.info.SellsLegal
}

func (vt VendorType) info() VendorInfo {
	if entry, ok := vendorTable[vt]; ok {
		return entry.info
	}
	return VendorInfo{DefaultMarkup: 1.0, BuybackRate: 0.5, MinStanding: standing.Neutral}
}
