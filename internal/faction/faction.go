// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"slices"
	"strings"
)

// Type categorizes a faction. Each type carries defaults in typeTable.
type Type string

// Faction types.
const (
	TypeCorporation Type = "Corporation"
	TypeCrew        Type = "Crew"
	TypeSyndicate   Type = "Syndicate"
	TypeYoungTeam   Type = "YoungTeam"
	TypeUnderground Type = "Underground"
	TypeIndependent Type = "Independent"
	TypePlayer      Type = "Player"
)

// TypeInfo holds the immutable defaults for a faction type.
type TypeInfo struct {
	OrganizationLevel string   `json:"organizationLevel"`
	DefaultDanger     int      `json:"defaultDanger"`
	DefaultWealth     int      `json:"defaultWealth"`
	Services          []string `json:"services"`
}

var typeTable = map[Type]TypeInfo{
	TypeCorporation: {OrganizationLevel: "Megacorp", DefaultDanger: 3, DefaultWealth: 5, Services: []string{"employment", "security", "cyberware", "banking"}},
	TypeCrew:        {OrganizationLevel: "Cell", DefaultDanger: 3, DefaultWealth: 2, Services: []string{"jobs", "fencing"}},
	TypeSyndicate:   {OrganizationLevel: "Network", DefaultDanger: 4, DefaultWealth: 4, Services: []string{"smuggling", "black_market", "protection"}},
	TypeYoungTeam:   {OrganizationLevel: "Gang", DefaultDanger: 2, DefaultWealth: 1, Services: []string{"street_info", "muscle"}},
	TypeUnderground: {OrganizationLevel: "Collective", DefaultDanger: 2, DefaultWealth: 2, Services: []string{"netrunning", "forgery", "safehouses"}},
	TypeIndependent: {OrganizationLevel: "Solo", DefaultDanger: 1, DefaultWealth: 2, Services: []string{"trade"}},
	TypePlayer:      {OrganizationLevel: "Crew", DefaultDanger: 0, DefaultWealth: 0, Services: nil},
}

// Types returns every faction type in declaration order.
func Types() []Type {
	return []Type{TypeCorporation, TypeCrew, TypeSyndicate, TypeYoungTeam, TypeUnderground, TypeIndependent, TypePlayer}
}

// ParseType resolves a type name, ignoring case.
func ParseType(name string) (Type, bool) {
	for _, t := range Types() {
		if strings.EqualFold(string(t), strings.TrimSpace(name)) {
			return t, true
		}
	}
	return "", false
}

// Valid reports whether t is a known faction type.
func (t Type) Valid() bool {
	_, ok := typeTable[t]
	return ok
}

// Info returns a copy of the defaults for t. Unknown types get a zero value.
func (t Type) Info() TypeInfo {
	info := typeTable[t]
	info.Services = slices.Clone(info.Services)
	return info
}

// Faction is a registered organization. Values returned by Service are
// copies; mutating them does not change the registry.
type Faction struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Type         Type   `json:"type"`
	Description  string `json:"description,omitempty"`
	Leader       string `json:"leader,omitempty"`
	Headquarters string `json:"headquarters,omitempty"`

	// DangerOverride and WealthOverride replace the type defaults when
	// non-zero.
	DangerOverride int `json:"dangerOverride,omitempty"`
	WealthOverride int `json:"wealthOverride,omitempty"`

	Active bool `json:"active"`
	Hidden bool `json:"hidden"`

	// Territories is sorted and mirrors the territory map.
	Territories []string `json:"territories"`
}

// TypeInfo returns the defaults of the faction's type.
func (f *Faction) TypeInfo() TypeInfo {
	return f.Type.Info()
}

// Danger returns the override when set, otherwise the type default.
func (f *Faction) Danger() int {
	if f.DangerOverride != 0 {
		return f.DangerOverride
	}
	return typeTable[f.Type].DefaultDanger
}

// Wealth returns the override when set, otherwise the type default.
func (f *Faction) Wealth() int {
	if f.WealthOverride != 0 {
		return f.WealthOverride
	}
	return typeTable[f.Type].DefaultWealth
}

// Spec describes a faction to create.
type Spec struct {
	ID             string `json:"id" yaml:"id"`
	Name           string `json:"name" yaml:"name"`
	Type           Type   `json:"type" yaml:"type"`
	Description    string `json:"description,omitempty" yaml:"description,omitempty"`
	Leader         string `json:"leader,omitempty" yaml:"leader,omitempty"`
	Headquarters   string `json:"headquarters,omitempty" yaml:"headquarters,omitempty"`
	DangerOverride int    `json:"dangerOverride,omitempty" yaml:"dangerOverride,omitempty"`
	WealthOverride int    `json:"wealthOverride,omitempty" yaml:"wealthOverride,omitempty"`
	Hidden         bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	// Inactive creates the faction soft-disabled.
	Inactive bool `json:"inactive,omitempty" yaml:"inactive,omitempty"`
	// Territories are placed under the new faction's control, taking them
	// from any current controller.
	Territories []string `json:"territories,omitempty" yaml:"territories,omitempty"`
}

// ListOptions filters ListFactions.
type ListOptions struct {
	// Type restricts the listing to one type when non-empty.
	Type          Type
	IncludeHidden bool
}

// record is the registry's internal form of a faction.
type record struct {
	Faction
	territories map[string]struct{}
}

func newRecord(f Faction) *record {
	f.Territories = nil
	return &record{Faction: f, territories: make(map[string]struct{})}
}

// view returns a detached copy with sorted territories.
func (r *record) view() *Faction {
	f := r.Faction
	f.Territories = sortedKeys(r.territories)
	return &f
}

func (r *record) clone() *record {
	c := &record{Faction: r.Faction, territories: make(map[string]struct{}, len(r.territories))}
	for t := range r.territories {
		c.territories[t] = struct{}{}
	}
	return c
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
