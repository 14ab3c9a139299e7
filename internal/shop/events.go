// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"context"
	"encoding/json"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/event"
)

// EventEmitter publishes economy events.
type EventEmitter interface {
	// Emit publishes an event to the given stream.
	Emit(ctx context.Context, stream string, eventType string, payload []byte) error
}

// SupplyChangedPayload is emitted when a category's supply modifier is set
// or reset. A reset reports Modifier 1.0.
type SupplyChangedPayload struct {
	Category string  `json:"category"`
	Old      float64 `json:"old"`
	Modifier float64 `json:"modifier"`
	Reason   string  `json:"reason,omitempty"`
}

// TradePayload is emitted for completed purchases and sales.
type TradePayload struct {
	ShopID   string `json:"shopId"`
	ItemID   string `json:"itemId"`
	Quantity int    `json:"quantity"`
	Total    int    `json:"total"`
	Standing string `json:"standing"`
}

type pendingEvent struct {
	stream    string
	eventType event.Type
	payload   any
}

func shopStream(id string) string          { return "shop:" + id }
func economyStream(category string) string { return "economy:" + category }

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
