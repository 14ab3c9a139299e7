// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package store

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	ups := map[string]bool{}
	downs := map[string]bool{}
	for _, entry := range entries {
		name := entry.Name()
		require.True(t, pattern.MatchString(name), "%s should match NNNNNN_name.(up|down).sql", name)
		if stem, ok := strings.CutSuffix(name, ".up.sql"); ok {
			ups[stem] = true
		}
		if stem, ok := strings.CutSuffix(name, ".down.sql"); ok {
			downs[stem] = true
		}
	}
	assert.True(t, ups["000001_snapshots"])
	assert.Equal(t, ups, downs, "every up migration needs a down")
}

func TestMigrationsFS_CreatesSnapshotsTable(t *testing.T) {
	body, err := migrationsFS.ReadFile("migrations/000001_snapshots.up.sql")
	require.NoError(t, err)
	sql := string(body)
	for _, col := range []string{"name", "version", "body", "saved_at"} {
		assert.Contains(t, sql, col)
	}
	assert.Contains(t, sql, "JSONB")
}
