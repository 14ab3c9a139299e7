// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package event carries engine notifications to interested listeners.
package event

import (
	"crypto/rand"
	"encoding/json"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// Error codes for event handling.
const (
	CodeDecodeFailed = "EVENT_DECODE_FAILED"
	CodeInvalidID    = "EVENT_INVALID_ID"
)

// Type identifies the kind of event.
type Type string

// Event types emitted by the engine.
const (
	TypeReputationChanged      Type = "ReputationChanged"
	TypeStandingChanged        Type = "StandingChanged"
	TypeTerritoryTransferred   Type = "TerritoryTransferred"
	TypeFactionCreated         Type = "FactionCreated"
	TypeFactionRemoved         Type = "FactionRemoved"
	TypeFactionActivityChanged Type = "FactionActivityChanged"
	TypeRelationshipChanged    Type = "RelationshipChanged"
	TypeSupplyChanged          Type = "SupplyChanged"
	TypeItemPurchased          Type = "ItemPurchased"
	TypeItemSold               Type = "ItemSold"
)

// Event is a single notification as delivered to subscribers.
type Event struct {
	ID        ulid.ULID
	Stream    string // e.g., "faction:arasaka", "territory:watson"
	Type      Type
	Timestamp time.Time
	Payload   []byte // JSON
}

// Decode unmarshals the JSON payload into v.
func (e Event) Decode(v any) error {
	if err := json.Unmarshal(e.Payload, v); err != nil {
		return oops.Code(CodeDecodeFailed).
			In("event").
			With("event_id", e.ID.String()).
			With("event_type", string(e.Type)).
			Wrapf(err, "decode %s payload", e.Type)
	}
	return nil
}

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// NewID generates a new monotonic ULID.
func NewID() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// ParseID parses a ULID string.
func ParseID(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, oops.Code(CodeInvalidID).
			In("event").
			With("id", s).
			Wrapf(err, "invalid ULID %q", s)
	}
	return id, nil
}
