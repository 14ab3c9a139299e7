// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package shop

import (
	"fmt"

	"github.com/neonreach/neonreach/internal/standing"
)

// ReasonClosed is the access denial reason for inactive shops.
const ReasonClosed = "Shop is closed"

// AccessResult is the outcome of a shop access check. Required and
// Current are set when the check ran against the vendor's minimum.
type AccessResult struct {
	CanAccess bool          `json:"canAccess"`
	Reason    string        `json:"reason,omitempty"`
	Required  standing.Tier `json:"required"`
	Current   standing.Tier `json:"current"`
}

func accessFor(sh *Shop, standingName string) AccessResult {
	if !sh.Active {
		return AccessResult{Reason: ReasonClosed}
	}
	current, _ := standing.Parse(standingName)
	required := sh.VendorType.info().MinStanding
	res := AccessResult{Required: required, Current: current}
	if !standing.Meets(current, required) {
		res.Reason = fmt.Sprintf("Requires %s standing (current: %s)", required, current)
		return res
	}
	res.CanAccess = true
	return res
}

// CanAccessShop checks whether a player with the named standing may trade
// at the shop. Unknown standing names are treated as Neutral.
func (s *Service) CanAccessShop(shopID, standingName string) (AccessResult, error) {
	s.mu.RLock()
	sh, ok := s.st.shops[shopID]
	if !ok {
		s.mu.RUnlock()
		return AccessResult{}, ErrUnknownShop(shopID)
	}
	res := accessFor(sh, standingName)
	s.mu.RUnlock()

	if !res.CanAccess {
		AccessDenials.WithLabelValues(shopID).Inc()
	}
	return res, nil
}
