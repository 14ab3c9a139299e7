// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package seed loads world seed files: the factions, relationships,
// starting reputations, catalog, shops and supply modifiers a new game
// starts from.
package seed

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
)

// SupplyEntry sets one category's supply modifier.
type SupplyEntry struct {
	Category string  `json:"category" yaml:"category"`
	Modifier float64 `json:"modifier" yaml:"modifier"`
	Reason   string  `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// File is a parsed seed file.
type File struct {
	Name            string                       `json:"name,omitempty" yaml:"name,omitempty"`
	Factions        []faction.Spec               `json:"factions,omitempty" yaml:"factions,omitempty"`
	Relationships   []faction.RelationshipRecord `json:"relationships,omitempty" yaml:"relationships,omitempty"`
	Reputations     map[string]int               `json:"reputations,omitempty" yaml:"reputations,omitempty"`
	Items           []shop.Item                  `json:"items,omitempty" yaml:"items,omitempty"`
	Shops           []shop.ShopSpec              `json:"shops,omitempty" yaml:"shops,omitempty"`
	SupplyModifiers []SupplyEntry                `json:"supplyModifiers,omitempty" yaml:"supplyModifiers,omitempty"`
}

// Parse validates data against the seed schema, decodes it and checks
// cross references.
func Parse(data []byte) (*File, error) {
	if err := ValidateSchema(data); err != nil {
		return nil, err
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Load reads and parses a seed file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from the operator
	if err != nil {
		return nil, fmt.Errorf("read seed %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("seed %s: %w", path, err)
	}
	return f, nil
}

// Validate checks ids and references within the file. References to
// factions or items not defined here are left to Apply, since they may
// already exist in the engine.
func (f *File) Validate() error {
	var errs []error

	factions := make(map[string]bool, len(f.Factions))
	for i, spec := range f.Factions {
		switch {
		case spec.ID == "":
			errs = append(errs, fmt.Errorf("factions[%d]: id is required", i))
		case factions[spec.ID]:
			errs = append(errs, fmt.Errorf("factions[%d]: duplicate id %s", i, spec.ID))
		}
		if !spec.Type.Valid() {
			errs = append(errs, fmt.Errorf("factions[%d]: unknown type %q", i, spec.Type))
		}
		factions[spec.ID] = true
	}

	for i, rr := range f.Relationships {
		if rr.FactionA == rr.FactionB {
			errs = append(errs, fmt.Errorf("relationships[%d]: %s cannot relate to itself", i, rr.FactionA))
		}
		if !rr.Relationship.Valid() {
			errs = append(errs, fmt.Errorf("relationships[%d]: unknown relationship %q", i, rr.Relationship))
		}
	}

	items := make(map[string]bool, len(f.Items))
	for i, item := range f.Items {
		if items[item.ID] {
			errs = append(errs, fmt.Errorf("items[%d]: duplicate id %s", i, item.ID))
		}
		if item.Rarity != "" && !item.Rarity.Valid() {
			errs = append(errs, fmt.Errorf("items[%d]: unknown rarity %q", i, item.Rarity))
		}
		items[item.ID] = true
	}

	shops := make(map[string]bool, len(f.Shops))
	for i, sh := range f.Shops {
		if shops[sh.ID] {
			errs = append(errs, fmt.Errorf("shops[%d]: duplicate id %s", i, sh.ID))
		}
		if !sh.VendorType.Valid() {
			errs = append(errs, fmt.Errorf("shops[%d]: unknown vendor type %q", i, sh.VendorType))
		}
		shops[sh.ID] = true
	}

	for i, s := range f.SupplyModifiers {
		if s.Category == "" {
			errs = append(errs, fmt.Errorf("supplyModifiers[%d]: category is required", i))
		}
	}

	return errors.Join(errs...)
}
