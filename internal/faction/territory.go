// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"context"
	"maps"

	"github.com/neonreach/neonreach/internal/event"
)

// Transfer methods recorded by the service itself. Callers may pass any
// label to TransferTerritory.
const (
	MethodDirect      = "Direct"
	MethodConquest    = "Conquest"
	MethodFounding    = "Founding"
	MethodRelease     = "Release"
	MethodDissolution = "Dissolution"
)

// TerritoryChange reports a territory control update. OldController is
// empty when the territory had no controller.
type TerritoryChange struct {
	TerritoryID   string `json:"territoryId"`
	OldController string `json:"oldController,omitempty"`
	NewController string `json:"newController,omitempty"`
	Method        string `json:"method,omitempty"`
}

func (c TerritoryChange) event(method string) pendingEvent {
	return pendingEvent{
		stream:    territoryStream(c.TerritoryID),
		eventType: event.TypeTerritoryTransferred,
		payload: TerritoryTransferredPayload{
			TerritoryID:   c.TerritoryID,
			OldController: c.OldController,
			NewController: c.NewController,
			Method:        method,
		},
	}
}

// assignLocked moves territoryID to factionID, updating both faction
// records and the territory map. The caller holds the write lock and has
// checked that factionID exists.
func (s *Service) assignLocked(territoryID, factionID string) TerritoryChange {
	old := s.st.territories[territoryID]
	if old != "" && old != factionID {
		if prev, ok := s.st.factions[old]; ok {
			delete(prev.territories, territoryID)
		}
	}
	s.st.factions[factionID].territories[territoryID] = struct{}{}
	s.st.territories[territoryID] = factionID
	return TerritoryChange{TerritoryID: territoryID, OldController: old, NewController: factionID}
}

// SetTerritoryControl gives factionID control of territoryID, removing it
// from any previous controller.
func (s *Service) SetTerritoryControl(ctx context.Context, territoryID, factionID string) (TerritoryChange, error) {
	return s.transfer(ctx, territoryID, factionID, MethodDirect)
}

// TransferTerritory behaves like SetTerritoryControl and records method,
// a free-form cause such as "Conquest", on the emitted event.
func (s *Service) TransferTerritory(ctx context.Context, territoryID, toFactionID, method string) (TerritoryChange, error) {
	if method == "" {
		method = MethodDirect
	}
	return s.transfer(ctx, territoryID, toFactionID, method)
}

func (s *Service) transfer(ctx context.Context, territoryID, factionID, method string) (TerritoryChange, error) {
	if territoryID == "" {
		return TerritoryChange{}, ErrUnknownTerritory(territoryID)
	}

	s.mu.Lock()
	if _, ok := s.st.factions[factionID]; !ok {
		s.mu.Unlock()
		return TerritoryChange{}, ErrUnknownFaction(factionID)
	}
	change := s.assignLocked(territoryID, factionID)
	change.Method = method
	s.mu.Unlock()

	if change.OldController != change.NewController {
		TerritoryTransfers.WithLabelValues(method).Inc()
		s.logger.InfoContext(ctx, "territory control changed",
			"territory_id", territoryID,
			"old_controller", change.OldController,
			"new_controller", change.NewController,
			"method", method)
	}
	s.flush(ctx, []pendingEvent{change.event(method)})
	return change, nil
}

// ReleaseTerritory leaves territoryID without a controller.
func (s *Service) ReleaseTerritory(ctx context.Context, territoryID string) (TerritoryChange, error) {
	s.mu.Lock()
	old, ok := s.st.territories[territoryID]
	if !ok {
		s.mu.Unlock()
		return TerritoryChange{}, ErrUnknownTerritory(territoryID)
	}
	if r, ok := s.st.factions[old]; ok {
		delete(r.territories, territoryID)
	}
	delete(s.st.territories, territoryID)
	s.mu.Unlock()

	change := TerritoryChange{TerritoryID: territoryID, OldController: old, Method: MethodRelease}
	TerritoryTransfers.WithLabelValues(MethodRelease).Inc()
	s.logger.InfoContext(ctx, "territory released", "territory_id", territoryID, "old_controller", old)
	s.flush(ctx, []pendingEvent{change.event(MethodRelease)})
	return change, nil
}

// GetTerritoryController returns the controlling faction of a territory.
func (s *Service) GetTerritoryController(territoryID string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owner, ok := s.st.territories[territoryID]
	return owner, ok
}

// GetFactionTerritories returns the sorted territories a faction controls.
func (s *Service) GetFactionTerritories(factionID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.st.factions[factionID]
	if !ok {
		return nil, ErrUnknownFaction(factionID)
	}
	return sortedKeys(r.territories), nil
}

// Territories returns a copy of the territory map.
func (s *Service) Territories() map[string]string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return maps.Clone(s.st.territories)
}
