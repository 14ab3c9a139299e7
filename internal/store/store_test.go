// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/internal/seed"
	"github.com/neonreach/neonreach/internal/store"
	"github.com/neonreach/neonreach/pkg/errutil"
)

// seededState exports an engine loaded with the built-in seed.
func seededState(t *testing.T) *game.State {
	t.Helper()
	f, err := seed.Default()
	require.NoError(t, err)
	e := game.New(game.Config{Logger: logging.Discard()})
	_, err = seed.Apply(context.Background(), e, f)
	require.NoError(t, err)
	return e.ExportState()
}

func TestValidateName(t *testing.T) {
	for _, name := range []string{"state", "night-city.v2", "slot_1", "A"} {
		require.NoError(t, store.ValidateName(name), name)
	}
	for _, name := range []string{"", "../etc/passwd", "a/b", ".hidden", "-flag", "with space"} {
		errutil.AssertErrorCode(t, store.ValidateName(name), store.CodeInvalidName)
	}
}
