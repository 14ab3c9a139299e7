// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/event"
)

// EventEmitter publishes faction events.
type EventEmitter interface {
	// Emit publishes an event to the given stream.
	Emit(ctx context.Context, stream string, eventType string, payload []byte) error
}

// ReputationChangedPayload is emitted for every stored score change.
type ReputationChangedPayload struct {
	FactionID string `json:"factionId"`
	OldScore  int    `json:"oldScore"`
	NewScore  int    `json:"newScore"`
	Delta     int    `json:"delta"`
	Reason    string `json:"reason,omitempty"`
}

// StandingChangedPayload is emitted when a score change crosses a tier.
type StandingChangedPayload struct {
	FactionID string `json:"factionId"`
	OldTier   string `json:"oldTier"`
	NewTier   string `json:"newTier"`
}

// TerritoryTransferredPayload is emitted when a territory changes hands.
type TerritoryTransferredPayload struct {
	TerritoryID   string `json:"territoryId"`
	OldController string `json:"oldController,omitempty"`
	NewController string `json:"newController,omitempty"`
	Method        string `json:"method,omitempty"`
}

// FactionLifecyclePayload is emitted on create, remove and activity changes.
type FactionLifecyclePayload struct {
	FactionID string `json:"factionId"`
	Name      string `json:"name,omitempty"`
	Type      Type   `json:"type,omitempty"`
	Active    bool   `json:"active"`
}

// RelationshipChangedPayload is emitted when a relationship is set.
type RelationshipChangedPayload struct {
	FactionA string       `json:"factionA"`
	FactionB string       `json:"factionB"`
	Old      Relationship `json:"old"`
	New      Relationship `json:"new"`
}

// pendingEvent is an event queued while the service lock is held and
// emitted once it is released.
type pendingEvent struct {
	stream    string
	eventType event.Type
	payload   any
}

func factionStream(id string) string   { return "faction:" + id }
func territoryStream(id string) string { return "territory:" + id }

// emitEvent marshals payload and hands it to emitter.
// If emitter is nil, this is a no-op.
func emitEvent(ctx context.Context, emitter EventEmitter, ev pendingEvent) error {
	if emitter == nil {
		return nil
	}

	data, err := json.Marshal(ev.payload)
	if err != nil {
		return oops.Code("EVENT_MARSHAL_FAILED").With("event_type", ev.eventType).Wrap(err)
	}

	if err := emitter.Emit(ctx, ev.stream, string(ev.eventType), data); err != nil {
		return oops.Code("EVENT_EMIT_FAILED").With("stream", ev.stream).With("event_type", ev.eventType).Wrap(err)
	}
	return nil
}
