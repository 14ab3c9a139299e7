// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package store persists engine snapshots to JSON files or PostgreSQL.
package store

import (
	"context"
	"regexp"
	"time"

	"github.com/samber/oops"

	"github.com/neonreach/neonreach/internal/game"
)

// Error codes.
const (
	CodeSnapshotNotFound = "SNAPSHOT_NOT_FOUND"
	CodeInvalidName      = "INVALID_SNAPSHOT_NAME"
	CodeSnapshotWrite    = "SNAPSHOT_WRITE_FAILED"
	CodeSnapshotRead     = "SNAPSHOT_READ_FAILED"
	CodeSnapshotDecode   = "SNAPSHOT_DECODE_FAILED"
	CodeStoreConnect     = "STORE_CONNECT_FAILED"
	CodeStoreQuery       = "STORE_QUERY_FAILED"
	CodeNotMigrated      = "STORE_NOT_MIGRATED"

	CodeMigrationSource  = "MIGRATION_SOURCE_FAILED"
	CodeMigrationInit    = "MIGRATION_INIT_FAILED"
	CodeMigrationUp      = "MIGRATION_UP_FAILED"
	CodeMigrationDown    = "MIGRATION_DOWN_FAILED"
	CodeMigrationSteps   = "MIGRATION_STEPS_FAILED"
	CodeMigrationVersion = "MIGRATION_VERSION_FAILED"
	CodeMigrationForce   = "MIGRATION_FORCE_FAILED"
	CodeMigrationClose   = "MIGRATION_CLOSE_FAILED"
	CodeMigrationList    = "MIGRATION_LIST_FAILED"
	CodeInvalidVersion   = "INVALID_VERSION"
)

// DefaultName is the snapshot name used when none is given.
const DefaultName = "state"

// Entry describes a stored snapshot without its body.
type Entry struct {
	Name    string    `json:"name"`
	Version string    `json:"version"`
	SavedAt time.Time `json:"savedAt"`
}

// Store saves and loads named snapshots.
type Store interface {
	Save(ctx context.Context, name string, st *game.State) error
	Load(ctx context.Context, name string) (*game.State, error)
	List(ctx context.Context) ([]Entry, error)
	// Delete reports whether a snapshot was removed.
	Delete(ctx context.Context, name string) (bool, error)
}

var namePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._-]{0,127}$`)

// ValidateName rejects names that are empty, too long or could escape a
// directory.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return oops.Code(CodeInvalidName).
			With("name", name).
			Errorf("invalid snapshot name %q", name)
	}
	return nil
}

func errNotFound(name string) error {
	return oops.Code(CodeSnapshotNotFound).
		With("name", name).
		Errorf("snapshot %s not found", name)
}
