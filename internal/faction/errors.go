// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import "github.com/samber/oops"

// Error codes for faction operations.
const (
	CodeUnknownFaction      = "UNKNOWN_FACTION"
	CodeUnknownTerritory    = "UNKNOWN_TERRITORY"
	CodeDuplicateFaction    = "DUPLICATE_FACTION"
	CodeInvalidFaction      = "INVALID_FACTION"
	CodeInvalidRelationship = "INVALID_RELATIONSHIP"
	CodeInvalidSnapshot     = "INVALID_SNAPSHOT"
)

// ErrUnknownFaction creates an error for a faction id that is not registered.
func ErrUnknownFaction(id string) error {
	return oops.Code(CodeUnknownFaction).
		With("faction_id", id).
		Errorf("unknown faction: %s", id)
}

// ErrUnknownTerritory creates an error for a territory with no controller.
func ErrUnknownTerritory(id string) error {
	return oops.Code(CodeUnknownTerritory).
		With("territory_id", id).
		Errorf("territory %s is not controlled by any faction", id)
}

// ErrDuplicateFaction creates an error for a faction id that already exists.
func ErrDuplicateFaction(id string) error {
	return oops.Code(CodeDuplicateFaction).
		With("faction_id", id).
		Errorf("faction %s already exists", id)
}

// ErrInvalidFaction creates an error for a malformed faction definition.
func ErrInvalidFaction(id, reason string) error {
	return oops.Code(CodeInvalidFaction).
		With("faction_id", id).
		Errorf("invalid faction %q: %s", id, reason)
}

// ErrInvalidRelationship creates an error for a relationship that cannot be stored.
func ErrInvalidRelationship(a, b, reason string) error {
	return oops.Code(CodeInvalidRelationship).
		With("faction_a", a).
		With("faction_b", b).
		Errorf("invalid relationship between %s and %s: %s", a, b, reason)
}

// ErrInvalidSnapshot creates an error for a snapshot that cannot be imported.
func ErrInvalidSnapshot(reason string) error {
	return oops.Code(CodeInvalidSnapshot).Errorf("invalid faction snapshot: %s", reason)
}
