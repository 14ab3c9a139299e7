// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
)

// RelationshipRecord is one explicit relationship entry in a snapshot.
type RelationshipRecord struct {
	FactionA     string       `json:"factionA" yaml:"factionA"`
	FactionB     string       `json:"factionB" yaml:"factionB"`
	Relationship Relationship `json:"relationship" yaml:"relationship"`
}

// Snapshot is a serializable copy of a Service's state. The Territories
// map is authoritative; Faction.Territories is informational and ignored
// on import.
type Snapshot struct {
	Factions      []Faction            `json:"factions"`
	Reputations   map[string]int       `json:"reputations"`
	Relationships []RelationshipRecord `json:"relationships"`
	Territories   map[string]string    `json:"territories"`
}

// Export returns a snapshot of all factions, including hidden ones.
func (s *Service) Export() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := Snapshot{
		Factions:      make([]Faction, 0, len(s.st.factions)),
		Reputations:   make(map[string]int, len(s.st.reputations)),
		Relationships: make([]RelationshipRecord, 0, len(s.st.relationships)),
		Territories:   make(map[string]string, len(s.st.territories)),
	}
	for _, r := range s.st.factions {
		snap.Factions = append(snap.Factions, *r.view())
	}
	slices.SortFunc(snap.Factions, func(a, b Faction) int { return strings.Compare(a.ID, b.ID) })
	for id, score := range s.st.reputations {
		snap.Reputations[id] = score
	}
	for p, rel := range s.st.relationships {
		snap.Relationships = append(snap.Relationships, RelationshipRecord{FactionA: p.A, FactionB: p.B, Relationship: rel})
	}
	slices.SortFunc(snap.Relationships, func(a, b RelationshipRecord) int {
		if c := cmp.Compare(a.FactionA, b.FactionA); c != 0 {
			return c
		}
		return cmp.Compare(a.FactionB, b.FactionB)
	})
	for t, owner := range s.st.territories {
		snap.Territories[t] = owner
	}
	return snap
}

// Import loads a snapshot. With merge false the current state is
// replaced; with merge true snapshot entries overwrite matching ones and
// everything else is kept. The snapshot is applied to a copy and swapped
// in only if every entry is valid, so a failed import changes nothing.
func (s *Service) Import(ctx context.Context, snap Snapshot, merge bool) error {
	s.mu.Lock()
	var next *state
	if merge {
		next = s.st.clone()
	} else {
		next = newState()
	}

	if err := s.applySnapshot(next, snap); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st = next
	counts := []any{
		"factions", len(next.factions),
		"territories", len(next.territories),
		"relationships", len(next.relationships),
		"merge", merge,
	}
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "faction snapshot imported", counts...)
	return nil
}

func (s *Service) applySnapshot(next *state, snap Snapshot) error {
	for _, f := range snap.Factions {
		if strings.TrimSpace(f.ID) == "" {
			return ErrInvalidSnapshot("faction with empty id")
		}
		if !f.Type.Valid() {
			return ErrInvalidSnapshot(fmt.Sprintf("faction %s has unknown type %q", f.ID, f.Type))
		}
		if existing, ok := next.factions[f.ID]; ok {
			kept := existing.territories
			existing.Faction = f
			existing.Territories = nil
			existing.territories = kept
			continue
		}
		next.factions[f.ID] = newRecord(f)
		next.reputations[f.ID] = s.opts.Clamp(s.opts.DefaultPlayerReputation)
	}

	for id, score := range snap.Reputations {
		if _, ok := next.factions[id]; !ok {
			return ErrInvalidSnapshot(fmt.Sprintf("reputation for unknown faction %s", id))
		}
		next.reputations[id] = s.opts.Clamp(score)
	}

	for _, rr := range snap.Relationships {
		if rr.FactionA == rr.FactionB {
			return ErrInvalidSnapshot(fmt.Sprintf("self relationship for %s", rr.FactionA))
		}
		if !rr.Relationship.Valid() {
			return ErrInvalidSnapshot(fmt.Sprintf("unknown relationship %q", rr.Relationship))
		}
		for _, id := range []string{rr.FactionA, rr.FactionB} {
			if _, ok := next.factions[id]; !ok {
				return ErrInvalidSnapshot(fmt.Sprintf("relationship references unknown faction %s", id))
			}
		}
		next.relationships[pairOf(rr.FactionA, rr.FactionB)] = rr.Relationship
	}

	territoryIDs := make([]string, 0, len(snap.Territories))
	for t := range snap.Territories {
		territoryIDs = append(territoryIDs, t)
	}
	slices.Sort(territoryIDs)
	for _, t := range territoryIDs {
		owner := snap.Territories[t]
		r, ok := next.factions[owner]
		if !ok {
			return ErrInvalidSnapshot(fmt.Sprintf("territory %s controlled by unknown faction %s", t, owner))
		}
		if prev, ok := next.factions[next.territories[t]]; ok && prev != r {
			delete(prev.territories, t)
		}
		r.territories[t] = struct{}{}
		next.territories[t] = owner
	}
	return nil
}
