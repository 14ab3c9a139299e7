// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package game

import (
	"context"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/pkg/errutil"
)

// StateVersion is the snapshot format written by ExportState. Snapshots
// with a different major version are rejected.
const StateVersion = "1.0.0"

var currentVersion = semver.MustParse(StateVersion)

// State is a whole-engine snapshot.
type State struct {
	Version    string           `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Factions   faction.Snapshot `json:"factions"`
	Economy    shop.Snapshot    `json:"economy"`
}

// CheckVersion verifies that a snapshot version is readable by this build.
func CheckVersion(version string) error {
	v, err := semver.StrictNewVersion(version)
	if err != nil {
		return oops.Code(faction.CodeInvalidSnapshot).
			With("version", version).
			Wrapf(err, "snapshot version %q is not semver", version)
	}
	if v.Major() != currentVersion.Major() {
		return oops.Code(faction.CodeInvalidSnapshot).
			With("version", version).
			Errorf("snapshot version %s is incompatible with %s", v, currentVersion)
	}
	return nil
}

// importShops checks every shop owner against the freshly imported
// factions before handing the economy to the shop service.
func (e *Engine) importShops(ctx context.Context, snap shop.Snapshot, merge bool) error {
	for _, sh := range snap.Shops {
		if err := e.checkOwner(sh.ID, sh.FactionID); err != nil {
			return err
		}
	}
	return e.shops.Import(ctx, snap, merge)
}

// ExportState captures factions, reputations, territories and the economy.
func (e *Engine) ExportState() *State {
	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()

	return &State{
		Version:    StateVersion,
		ExportedAt: time.Now().UTC(),
		Factions:   e.factions.Export(),
		Economy:    e.shops.Export(),
	}
}

// ImportState loads a snapshot, replacing current state or merging into
// it. Either both services take the snapshot or neither does.
func (e *Engine) ImportState(ctx context.Context, st *State, merge bool) error {
	if st == nil {
		return oops.Code(faction.CodeInvalidSnapshot).Errorf("snapshot is nil")
	}
	if err := CheckVersion(st.Version); err != nil {
		return err
	}

	e.snapshotMu.Lock()
	defer e.snapshotMu.Unlock()

	previous := e.factions.Export()
	if err := e.factions.Import(ctx, st.Factions, merge); err != nil {
		return err
	}
	if err := e.importShops(ctx, st.Economy, merge); err != nil {
		if rerr := e.factions.Import(ctx, previous, false); rerr != nil {
			errutil.LogError(ctx, e.logger, "faction rollback failed", rerr)
		}
		return err
	}

	e.logger.InfoContext(ctx, "state imported",
		"version", st.Version,
		"exported_at", st.ExportedAt,
		"merge", merge)
	return nil
}
