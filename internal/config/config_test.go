// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package config_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neonreach/neonreach/internal/config"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/pkg/errutil"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestFromMap(t *testing.T) {
	tests := []struct {
		name         string
		values       map[string]any
		want         func(*config.Config)
		wantWarnings int
	}{
		{
			name:   "empty map gives defaults",
			values: map[string]any{},
			want:   func(*config.Config) {},
		},
		{
			name: "valid values",
			values: map[string]any{
				"defaultPlayerReputation": 10,
				"minReputation":           -500,
				"maxReputation":           500,
				"rivalryReputationSpread": true,
				"rivalrySpreadFactor":     0.25,
			},
			want: func(c *config.Config) {
				c.Faction.DefaultPlayerReputation = 10
				c.Faction.MinReputation = -500
				c.Faction.MaxReputation = 500
				c.Faction.RivalryReputationSpread = true
				c.Faction.RivalrySpreadFactor = 0.25
			},
		},
		{
			name:   "integral floats are integers",
			values: map[string]any{"maxReputation": 250.0},
			want:   func(c *config.Config) { c.Faction.MaxReputation = 250 },
		},
		{
			name:   "unrecognized keys are ignored",
			values: map[string]any{"weather": "rain"},
			want:   func(*config.Config) {},
		},
		{
			name:         "type mismatch falls back",
			values:       map[string]any{"maxReputation": "lots", "rivalryReputationSpread": "yes"},
			want:         func(*config.Config) {},
			wantWarnings: 2,
		},
		{
			name:         "fractional integer falls back",
			values:       map[string]any{"minReputation": -10.5},
			want:         func(*config.Config) {},
			wantWarnings: 1,
		},
		{
			name:         "min above max resets both bounds",
			values:       map[string]any{"minReputation": 100, "maxReputation": 50},
			want:         func(*config.Config) {},
			wantWarnings: 1,
		},
		{
			name:         "negative factor falls back",
			values:       map[string]any{"rivalrySpreadFactor": -1},
			want:         func(*config.Config) {},
			wantWarnings: 1,
		},
		{
			name:         "unknown log format falls back",
			values:       map[string]any{"logFormat": "xml"},
			want:         func(*config.Config) {},
			wantWarnings: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.FromMap(tt.values, logging.Discard())

			want := config.Default()
			tt.want(&want)
			assert.Equal(t, want.Faction, got.Faction)
			assert.Equal(t, want.LogFormat, got.LogFormat)
			assert.Len(t, got.Warnings, tt.wantWarnings)
		})
	}
}

func TestFromMap_DecodedJSON(t *testing.T) {
	var values map[string]any
	require.NoError(t, json.Unmarshal([]byte(`{"minReputation": -200, "rivalrySpreadFactor": 1}`), &values))

	got := config.FromMap(values, logging.Discard())
	assert.Equal(t, -200, got.Faction.MinReputation)
	assert.InDelta(t, 1.0, got.Faction.RivalrySpreadFactor, 1e-9)
	assert.Empty(t, got.Warnings)
}

func TestLoad_File(t *testing.T) {
	path := writeFile(t, `
minReputation: -300
maxReputation: 300
rivalryReputationSpread: true
logFormat: text
snapshotPath: /var/lib/neonreach/state.json
`)
	got, err := config.Load(path, false, nil, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, -300, got.Faction.MinReputation)
	assert.Equal(t, 300, got.Faction.MaxReputation)
	assert.True(t, got.Faction.RivalryReputationSpread)
	assert.Equal(t, "text", got.LogFormat)
	assert.Equal(t, "/var/lib/neonreach/state.json", got.SnapshotPath)
}

func TestLoad_FlagsOverrideFile(t *testing.T) {
	path := writeFile(t, "maxReputation: 300\nlogFormat: text\n")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	config.BindFlags(flags)
	require.NoError(t, flags.Parse([]string{"--max-reputation=400", "--rivalry-factor=0.75"}))

	got, err := config.Load(path, false, flags, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, 400, got.Faction.MaxReputation)
	assert.InDelta(t, 0.75, got.Faction.RivalrySpreadFactor, 1e-9)
	assert.Equal(t, "text", got.LogFormat, "unset flags keep file values")
}

func TestLoad_MissingFile(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.yaml")

	got, err := config.Load(missing, true, nil, logging.Discard())
	require.NoError(t, err)
	assert.Equal(t, config.Default().Faction, got.Faction)

	_, err = config.Load(missing, false, nil, logging.Discard())
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_MalformedFile(t *testing.T) {
	path := writeFile(t, "minReputation: [unclosed\n")
	_, err := config.Load(path, false, nil, logging.Discard())
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}
