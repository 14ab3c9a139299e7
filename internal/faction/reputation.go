// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package faction

import (
	"cmp"
	"context"
	"math"
	"slices"

	"github.com/neonreach/neonreach/internal/event"
	"github.com/neonreach/neonreach/internal/standing"
)

// ReputationChange reports the effect of a reputation write.
type ReputationChange struct {
	FactionID string        `json:"factionId"`
	OldScore  int           `json:"oldScore"`
	NewScore  int           `json:"newScore"`
	OldTier   standing.Tier `json:"oldStanding"`
	NewTier   standing.Tier `json:"newStanding"`
	// Delta is the requested change, before clamping.
	Delta  int    `json:"delta"`
	Reason string `json:"reason,omitempty"`
	// Spread lists the changes applied to rivals by rivalry spread.
	Spread []ReputationChange `json:"spread,omitempty"`
}

// TierChanged reports whether the change crossed a tier boundary.
func (c ReputationChange) TierChanged() bool {
	return c.OldTier != c.NewTier
}

// Standing is a faction's reputation with its derived tier effects.
type Standing struct {
	FactionID     string              `json:"factionId"`
	Score         int                 `json:"score"`
	Tier          standing.Tier       `json:"tier"`
	PriceModifier float64             `json:"priceModifier"`
	AccessLevel   int                 `json:"accessLevel"`
	AttackOnSight bool                `json:"attackOnSight"`
	Next          *standing.Threshold `json:"nextThreshold"`
}

func standingFor(id string, score int) Standing {
	tier := standing.ForScore(score)
	fx := standing.EffectsOf(tier)
	return Standing{
		FactionID:     id,
		Score:         score,
		Tier:          tier,
		PriceModifier: fx.PriceModifier,
		AccessLevel:   fx.AccessLevel,
		AttackOnSight: fx.AttackOnSight,
		Next:          standing.Next(score),
	}
}

// applyLocked stores a clamped score and queues the resulting events.
func (s *Service) applyLocked(id string, newScore, delta int, reason string, events *[]pendingEvent) ReputationChange {
	old := s.st.reputations[id]
	newScore = s.opts.Clamp(newScore)
	s.st.reputations[id] = newScore

	change := ReputationChange{
		FactionID: id,
		OldScore:  old,
		NewScore:  newScore,
		OldTier:   standing.ForScore(old),
		NewTier:   standing.ForScore(newScore),
		Delta:     delta,
		Reason:    reason,
	}
	*events = append(*events, pendingEvent{
		stream:    factionStream(id),
		eventType: event.TypeReputationChanged,
		payload: ReputationChangedPayload{
			FactionID: id,
			OldScore:  old,
			NewScore:  newScore,
			Delta:     newScore - old,
			Reason:    reason,
		},
	})
	if change.TierChanged() {
		*events = append(*events, pendingEvent{
			stream:    factionStream(id),
			eventType: event.TypeStandingChanged,
			payload: StandingChangedPayload{
				FactionID: id,
				OldTier:   change.OldTier.String(),
				NewTier:   change.NewTier.String(),
			},
		})
	}
	return change
}

func (s *Service) observe(ctx context.Context, change ReputationChange, source string) {
	ReputationChanges.WithLabelValues(change.FactionID, source).Inc()
	if change.TierChanged() {
		TierChanges.WithLabelValues(change.FactionID, change.NewTier.String()).Inc()
	}
	s.logger.DebugContext(ctx, "reputation changed",
		"faction_id", change.FactionID,
		"old_score", change.OldScore,
		"new_score", change.NewScore,
		"tier", change.NewTier.String(),
		"source", source,
		"reason", change.Reason)
}

// SetReputation stores value, clamped to the configured bounds.
func (s *Service) SetReputation(ctx context.Context, factionID string, value int) (ReputationChange, error) {
	s.mu.Lock()
	if _, ok := s.st.factions[factionID]; !ok {
		s.mu.Unlock()
		return ReputationChange{}, ErrUnknownFaction(factionID)
	}
	var events []pendingEvent
	change := s.applyLocked(factionID, value, value-s.st.reputations[factionID], "set", &events)
	s.mu.Unlock()

	s.observe(ctx, change, SourceDirect)
	s.flush(ctx, events)
	return change, nil
}

// AddReputation adds delta to the faction's score. With rivalry spread
// enabled, each Rival of the faction receives -delta times the spread
// factor, rounded half away from zero. Spread is a single hop.
func (s *Service) AddReputation(ctx context.Context, factionID string, delta int, reason string) (ReputationChange, error) {
	s.mu.Lock()
	if _, ok := s.st.factions[factionID]; !ok {
		s.mu.Unlock()
		return ReputationChange{}, ErrUnknownFaction(factionID)
	}
	var events []pendingEvent
	change := s.applyLocked(factionID, s.st.reputations[factionID]+delta, delta, reason, &events)

	if s.opts.RivalryReputationSpread && delta != 0 {
		spread := int(math.Round(-float64(delta) * s.opts.RivalrySpreadFactor))
		if spread != 0 {
			for _, rival := range s.rivalsLocked(factionID) {
				rc := s.applyLocked(rival, s.st.reputations[rival]+spread, spread, "rivalry:"+factionID, &events)
				change.Spread = append(change.Spread, rc)
			}
		}
	}
	s.mu.Unlock()

	s.observe(ctx, change, SourceDirect)
	for _, rc := range change.Spread {
		s.observe(ctx, rc, SourceRivalry)
	}
	s.flush(ctx, events)
	return change, nil
}

// GetReputation returns the faction's score and derived tier effects.
func (s *Service) GetReputation(factionID string) (Standing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.st.reputations[factionID]
	if !ok {
		return Standing{}, ErrUnknownFaction(factionID)
	}
	return standingFor(factionID, score), nil
}

// GetAllReputations returns every faction's standing, highest score first.
// Equal scores are ordered by faction id.
func (s *Service) GetAllReputations() []Standing {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Standing, 0, len(s.st.reputations))
	for id, score := range s.st.reputations {
		result = append(result, standingFor(id, score))
	}
	slices.SortFunc(result, func(a, b Standing) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		return cmp.Compare(a.FactionID, b.FactionID)
	})
	return result
}

// TierOf returns the current tier of a faction, or false if unknown.
func (s *Service) TierOf(factionID string) (standing.Tier, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	score, ok := s.st.reputations[factionID]
	if !ok {
		return standing.Neutral, false
	}
	return standing.ForScore(score), true
}
