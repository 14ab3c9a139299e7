// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package faction implements the faction registry, the relationship
// matrix, the player's reputation ledger and the territory map.
package faction

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"sync"

	"github.com/neonreach/neonreach/internal/event"
	"github.com/neonreach/neonreach/pkg/errutil"
)

// Options tunes the reputation ledger.
type Options struct {
	DefaultPlayerReputation int     `json:"defaultPlayerReputation"`
	MinReputation           int     `json:"minReputation"`
	MaxReputation           int     `json:"maxReputation"`
	RivalryReputationSpread bool    `json:"rivalryReputationSpread"`
	RivalrySpreadFactor     float64 `json:"rivalrySpreadFactor"`
}

// Default option values.
const (
	DefaultMinReputation       = -1000
	DefaultMaxReputation       = 1000
	DefaultRivalrySpreadFactor = 0.5
)

// DefaultOptions returns the stock ledger options.
func DefaultOptions() Options {
	return Options{
		DefaultPlayerReputation: 0,
		MinReputation:           DefaultMinReputation,
		MaxReputation:           DefaultMaxReputation,
		RivalryReputationSpread: false,
		RivalrySpreadFactor:     DefaultRivalrySpreadFactor,
	}
}

// normalized fills unset fields with defaults and replaces inconsistent
// bounds. Bounds of 0/0 and a spread factor of 0 count as unset; turn
// spreading off with RivalryReputationSpread instead.
func (o Options) normalized() Options {
	if o.MinReputation == 0 && o.MaxReputation == 0 {
		o.MinReputation, o.MaxReputation = DefaultMinReputation, DefaultMaxReputation
	}
	if o.MinReputation > o.MaxReputation {
		o.MinReputation, o.MaxReputation = DefaultMinReputation, DefaultMaxReputation
	}
	if o.RivalrySpreadFactor <= 0 {
		o.RivalrySpreadFactor = DefaultRivalrySpreadFactor
	}
	return o
}

// Clamp saturates v to the configured bounds.
func (o Options) Clamp(v int) int {
	return min(max(v, o.MinReputation), o.MaxReputation)
}

// ServiceConfig holds dependencies for Service.
type ServiceConfig struct {
	// Options falls back to DefaultOptions field by field.
	Options Options
	// Emitter receives faction events. Optional.
	Emitter EventEmitter
	// Logger defaults to slog.Default().
	Logger *slog.Logger
}

// state is everything a Service owns. It is swapped wholesale on import.
type state struct {
	factions      map[string]*record
	reputations   map[string]int
	relationships map[pair]Relationship
	territories   map[string]string
}

func newState() *state {
	return &state{
		factions:      make(map[string]*record),
		reputations:   make(map[string]int),
		relationships: make(map[pair]Relationship),
		territories:   make(map[string]string),
	}
}

func (st *state) clone() *state {
	c := newState()
	for id, r := range st.factions {
		c.factions[id] = r.clone()
	}
	for id, score := range st.reputations {
		c.reputations[id] = score
	}
	for p, rel := range st.relationships {
		c.relationships[p] = rel
	}
	for t, owner := range st.territories {
		c.territories[t] = owner
	}
	return c
}

// Service owns the faction tables. A single lock guards all of them so
// that multi-table operations such as territory transfers are atomic.
type Service struct {
	mu      sync.RWMutex
	st      *state
	opts    Options
	emitter EventEmitter
	logger  *slog.Logger
}

// NewService creates a new Service with the given configuration.
func NewService(cfg ServiceConfig) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		st:      newState(),
		opts:    cfg.Options.normalized(),
		emitter: cfg.Emitter,
		logger:  logger,
	}
}

// Options returns the effective ledger options.
func (s *Service) Options() Options {
	return s.opts
}

// flush emits queued events. Emitter failures are logged and otherwise
// ignored.
func (s *Service) flush(ctx context.Context, events []pendingEvent) {
	for _, ev := range events {
		if err := emitEvent(ctx, s.emitter, ev); err != nil {
			errutil.LogError(ctx, s.logger, "faction event emit failed", err)
		}
	}
}

// CreateFaction registers a new faction, seeds its reputation and places
// any listed territories under its control.
func (s *Service) CreateFaction(ctx context.Context, spec Spec) (*Faction, error) {
	id := strings.TrimSpace(spec.ID)
	if id == "" {
		return nil, ErrInvalidFaction(spec.ID, "id is required")
	}
	if strings.TrimSpace(spec.Name) == "" {
		return nil, ErrInvalidFaction(id, "name is required")
	}
	if !spec.Type.Valid() {
		return nil, ErrInvalidFaction(id, "unknown type "+string(spec.Type))
	}

	s.mu.Lock()
	if _, exists := s.st.factions[id]; exists {
		s.mu.Unlock()
		return nil, ErrDuplicateFaction(id)
	}

	r := newRecord(Faction{
		ID:             id,
		Name:           spec.Name,
		Type:           spec.Type,
		Description:    spec.Description,
		Leader:         spec.Leader,
		Headquarters:   spec.Headquarters,
		DangerOverride: spec.DangerOverride,
		WealthOverride: spec.WealthOverride,
		Active:         !spec.Inactive,
		Hidden:         spec.Hidden,
	})
	s.st.factions[id] = r
	s.st.reputations[id] = s.opts.Clamp(s.opts.DefaultPlayerReputation)

	events := []pendingEvent{{
		stream:    factionStream(id),
		eventType: event.TypeFactionCreated,
		payload:   FactionLifecyclePayload{FactionID: id, Name: r.Name, Type: r.Type, Active: r.Active},
	}}
	for _, territoryID := range spec.Territories {
		if territoryID == "" {
			continue
		}
		change := s.assignLocked(territoryID, id)
		events = append(events, change.event(MethodFounding))
	}
	f := r.view()
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "faction created",
		"faction_id", id,
		"type", string(f.Type),
		"territories", len(f.Territories))
	s.flush(ctx, events)
	return f, nil
}

// GetFaction returns a copy of the faction, or false if it is not registered.
func (s *Service) GetFaction(id string) (*Faction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.st.factions[id]
	if !ok {
		return nil, false
	}
	return r.view(), true
}

// ListFactions returns factions sorted by id. Hidden factions are skipped
// unless opts.IncludeHidden is set.
func (s *Service) ListFactions(opts ListOptions) []*Faction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*Faction, 0, len(s.st.factions))
	for _, r := range s.st.factions {
		if r.Hidden && !opts.IncludeHidden {
			continue
		}
		if opts.Type != "" && r.Type != opts.Type {
			continue
		}
		result = append(result, r.view())
	}
	slices.SortFunc(result, func(a, b *Faction) int { return strings.Compare(a.ID, b.ID) })
	return result
}

// SetFactionActive soft-enables or disables a faction. It returns false
// if the faction is not registered.
func (s *Service) SetFactionActive(ctx context.Context, id string, active bool) bool {
	s.mu.Lock()
	r, ok := s.st.factions[id]
	if !ok {
		s.mu.Unlock()
		return false
	}
	changed := r.Active != active
	r.Active = active
	payload := FactionLifecyclePayload{FactionID: id, Name: r.Name, Type: r.Type, Active: active}
	s.mu.Unlock()

	if changed {
		s.logger.InfoContext(ctx, "faction activity changed", "faction_id", id, "active", active)
		s.flush(ctx, []pendingEvent{{stream: factionStream(id), eventType: event.TypeFactionActivityChanged, payload: payload}})
	}
	return true
}

// RemoveFaction deletes a faction. Its territories become uncontrolled
// and its reputation and relationships are dropped. It returns false if
// the faction is not registered.
func (s *Service) RemoveFaction(ctx context.Context, id string) bool {
	s.mu.Lock()
	r, ok := s.st.factions[id]
	if !ok {
		s.mu.Unlock()
		return false
	}

	var events []pendingEvent
	for _, territoryID := range sortedKeys(r.territories) {
		delete(s.st.territories, territoryID)
		events = append(events, pendingEvent{
			stream:    territoryStream(territoryID),
			eventType: event.TypeTerritoryTransferred,
			payload:   TerritoryTransferredPayload{TerritoryID: territoryID, OldController: id, Method: MethodDissolution},
		})
	}
	for p := range s.st.relationships {
		if p.A == id || p.B == id {
			delete(s.st.relationships, p)
		}
	}
	delete(s.st.reputations, id)
	delete(s.st.factions, id)
	events = append(events, pendingEvent{
		stream:    factionStream(id),
		eventType: event.TypeFactionRemoved,
		payload:   FactionLifecyclePayload{FactionID: id, Name: r.Name, Type: r.Type},
	})
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "faction removed", "faction_id", id, "released_territories", len(r.territories))
	s.flush(ctx, events)
	return true
}

// SetRelationship stores the relationship between two distinct factions.
// Argument order does not matter.
func (s *Service) SetRelationship(ctx context.Context, a, b string, rel Relationship) (RelationshipInfo, error) {
	if a == b {
		return RelationshipInfo{}, ErrInvalidRelationship(a, b, "a faction cannot have a relationship with itself")
	}
	if !rel.Valid() {
		return RelationshipInfo{}, ErrInvalidRelationship(a, b, "unknown relationship "+string(rel))
	}

	s.mu.Lock()
	for _, id := range []string{a, b} {
		if _, ok := s.st.factions[id]; !ok {
			s.mu.Unlock()
			return RelationshipInfo{}, ErrUnknownFaction(id)
		}
	}
	key := pairOf(a, b)
	old, ok := s.st.relationships[key]
	if !ok {
		old = RelationshipNeutral
	}
	s.st.relationships[key] = rel
	s.mu.Unlock()

	info := RelationshipInfo{FactionA: a, FactionB: b, Relationship: rel}
	if old != rel {
		s.logger.InfoContext(ctx, "faction relationship changed",
			"faction_a", a, "faction_b", b, "old", string(old), "new", string(rel))
	}
	s.flush(ctx, []pendingEvent{{
		stream:    factionStream(key.A),
		eventType: event.TypeRelationshipChanged,
		payload:   RelationshipChangedPayload{FactionA: key.A, FactionB: key.B, Old: old, New: rel},
	}})
	return info, nil
}

// GetRelationship returns the relationship between two factions. Pairs
// without an explicit entry are Neutral with IsDefault set.
func (s *Service) GetRelationship(a, b string) (RelationshipInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, id := range []string{a, b} {
		if _, ok := s.st.factions[id]; !ok {
			return RelationshipInfo{}, ErrUnknownFaction(id)
		}
	}
	rel, isDefault := s.relationshipLocked(a, b)
	return RelationshipInfo{FactionA: a, FactionB: b, Relationship: rel, IsDefault: isDefault}, nil
}

func (s *Service) relationshipLocked(a, b string) (Relationship, bool) {
	rel, ok := s.st.relationships[pairOf(a, b)]
	if !ok {
		return RelationshipNeutral, true
	}
	return rel, false
}

// AreHostile reports whether two factions are AtWar or Hostile.
func (s *Service) AreHostile(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, _ := s.relationshipLocked(a, b)
	return rel.IsHostile()
}

// AreAllied reports whether two factions are Allied or Friendly.
func (s *Service) AreAllied(a, b string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rel, _ := s.relationshipLocked(a, b)
	return rel.IsAllied()
}

// Rivals returns the sorted ids of factions marked Rival to id.
func (s *Service) Rivals(id string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rivalsLocked(id)
}

func (s *Service) rivalsLocked(id string) []string {
	var rivals []string
	for p, rel := range s.st.relationships {
		if rel != RelationshipRival {
			continue
		}
		switch id {
		case p.A:
			rivals = append(rivals, p.B)
		case p.B:
			rivals = append(rivals, p.A)
		}
	}
	slices.Sort(rivals)
	return rivals
}
