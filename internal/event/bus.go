// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package event

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// AllStreams subscribes to every stream.
const AllStreams = "*"

const defaultBuffer = 100

// Bus distributes events to subscribers. It satisfies the emitter
// interfaces declared by the faction and shop packages.
type Bus struct {
	mu     sync.RWMutex
	subs   map[string][]chan Event
	buffer int
	now    func() time.Time
}

// NewBus creates a bus whose subscriber channels hold up to buffer events.
// A non-positive buffer uses the default of 100.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = defaultBuffer
	}
	return &Bus{
		subs:   make(map[string][]chan Event),
		buffer: buffer,
		now:    time.Now,
	}
}

// Subscribe creates a channel for receiving events on a stream. Use
// AllStreams to receive everything.
func (b *Bus) Subscribe(stream string) chan Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan Event, b.buffer)
	b.subs[stream] = append(b.subs[stream], ch)
	return ch
}

// Unsubscribe removes a channel from a stream and closes it.
func (b *Bus) Unsubscribe(stream string, ch chan Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.subs[stream]
	for i, sub := range subs {
		if sub == ch {
			b.subs[stream] = append(subs[:i], subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Close unsubscribes and closes every channel.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for stream, subs := range b.subs {
		for _, ch := range subs {
			close(ch)
		}
		delete(b.subs, stream)
	}
}

// Emit wraps payload in an Event and publishes it. It never fails:
// delivery is fire-and-forget.
func (b *Bus) Emit(_ context.Context, stream, eventType string, payload []byte) error {
	b.Publish(Event{
		ID:        NewID(),
		Stream:    stream,
		Type:      Type(eventType),
		Timestamp: b.now(),
		Payload:   payload,
	})
	return nil
}

// Publish sends an event to the subscribers of its stream and to
// AllStreams subscribers. Full subscriber buffers drop the event.
func (b *Bus) Publish(event Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	deliver := func(ch chan Event) {
		select {
		case ch <- event:
		default:
			slog.Warn("event dropped: subscriber buffer full",
				"stream", event.Stream,
				"event_id", event.ID.String(),
				"event_type", event.Type,
			)
		}
	}
	for _, ch := range b.subs[event.Stream] {
		deliver(ch)
	}
	if event.Stream != AllStreams {
		for _, ch := range b.subs[AllStreams] {
			deliver(ch)
		}
	}
}
