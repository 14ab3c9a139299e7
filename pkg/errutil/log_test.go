// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("UNKNOWN_FACTION").
		With("faction_id", "arasaka").
		Errorf("faction not found")

	errutil.LogError(context.Background(), logger, "reputation update failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "reputation update failed", logEntry["msg"])
	assert.Equal(t, "UNKNOWN_FACTION", logEntry["code"])
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogError(context.Background(), logger, "operation failed", errors.New("standard error"))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Contains(t, logEntry["error"], "standard error")
}

func TestCode(t *testing.T) {
	coded := oops.Code("UNKNOWN_SHOP").Errorf("shop not found")
	wrapped := oops.Wrapf(coded, "quote")

	assert.Equal(t, "UNKNOWN_SHOP", errutil.Code(coded))
	assert.Equal(t, "UNKNOWN_SHOP", errutil.Code(wrapped))
	assert.True(t, errutil.HasCode(wrapped, "UNKNOWN_SHOP"))
	assert.Equal(t, "", errutil.Code(errors.New("plain")))
	assert.Equal(t, "", errutil.Code(nil))
	assert.False(t, errutil.HasCode(nil, ""))
}
