// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

// Package config loads engine and process settings from a YAML file,
// command-line flags or a plain options map. Values of the wrong type or
// outside their domain fall back to defaults with a warning.
package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/neonreach/neonreach/internal/faction"
)

// Recognized keys.
const (
	KeyDefaultPlayerReputation = "defaultPlayerReputation"
	KeyMinReputation           = "minReputation"
	KeyMaxReputation           = "maxReputation"
	KeyRivalryReputationSpread = "rivalryReputationSpread"
	KeyRivalrySpreadFactor     = "rivalrySpreadFactor"
	KeyLogFormat               = "logFormat"
	KeyLogLevel                = "logLevel"
	KeySnapshotPath            = "snapshotPath"
	KeyDatabaseURL             = "databaseURL"
)

// Config is the resolved process configuration.
type Config struct {
	Faction      faction.Options `json:"faction"`
	LogFormat    string          `json:"logFormat"`
	LogLevel     string          `json:"logLevel"`
	SnapshotPath string          `json:"snapshotPath,omitempty"`
	DatabaseURL  string          `json:"databaseURL,omitempty"`
	// Warnings lists every value that was replaced by a default.
	Warnings []string `json:"-"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Faction:   faction.DefaultOptions(),
		LogFormat: "json",
		LogLevel:  "info",
	}
}

// flagKeys maps CLI flag names to config keys.
var flagKeys = map[string]string{
	"log-format":         KeyLogFormat,
	"log-level":          KeyLogLevel,
	"snapshot":           KeySnapshotPath,
	"database-url":       KeyDatabaseURL,
	"default-reputation": KeyDefaultPlayerReputation,
	"min-reputation":     KeyMinReputation,
	"max-reputation":     KeyMaxReputation,
	"rivalry-spread":     KeyRivalryReputationSpread,
	"rivalry-factor":     KeyRivalrySpreadFactor,
}

// BindFlags registers the override flags on flags. Unset flags never
// override file values.
func BindFlags(flags *pflag.FlagSet) {
	def := Default()
	flags.String("log-format", def.LogFormat, "log format (json or text)")
	flags.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	flags.String("snapshot", "", "snapshot file path (default: XDG_DATA_HOME/neonreach/state.json)")
	flags.String("database-url", "", "Postgres URL for the snapshot store")
	flags.Int("default-reputation", def.Faction.DefaultPlayerReputation, "initial reputation for new factions")
	flags.Int("min-reputation", def.Faction.MinReputation, "lowest reputation score")
	flags.Int("max-reputation", def.Faction.MaxReputation, "highest reputation score")
	flags.Bool("rivalry-spread", def.Faction.RivalryReputationSpread, "spread inverse reputation to rivals")
	flags.Float64("rivalry-factor", def.Faction.RivalrySpreadFactor, "rivalry spread factor")
}

// Load reads path (skipped when empty or, if optional, missing) and then
// applies changed flags (may be nil).
func Load(path string, optional bool, flags *pflag.FlagSet, logger *slog.Logger) (Config, error) {
	k := koanf.New(".")

	if path != "" && (!optional || Exists(path)) {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").With("path", path).Wrapf(err, "load config")
		}
	}

	if flags != nil {
		provider := posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, any) {
			key, ok := flagKeys[f.Name]
			if !ok || !f.Changed {
				return "", nil
			}
			return key, posflag.FlagVal(flags, f)
		})
		if err := k.Load(provider, nil); err != nil {
			return Config{}, oops.Code("CONFIG_LOAD_FAILED").Wrapf(err, "load flags")
		}
	}

	return resolve(k, logger), nil
}

// FromMap resolves an options object such as one decoded from JSON.
// Unrecognized keys are ignored.
func FromMap(values map[string]any, logger *slog.Logger) Config {
	k := koanf.New(".")
	for key, v := range values {
		_ = k.Set(key, v)
	}
	return resolve(k, logger)
}

type resolver struct {
	k        *koanf.Koanf
	logger   *slog.Logger
	warnings []string
}

func (r *resolver) warn(key string, value any, reason string) {
	msg := fmt.Sprintf("%s: %s", key, reason)
	r.warnings = append(r.warnings, msg)
	r.logger.Warn("invalid configuration, using default", "key", key, "value", value, "reason", reason)
}

func (r *resolver) intValue(key string, def int) int {
	if !r.k.Exists(key) {
		return def
	}
	raw := r.k.Get(key)
	switch v := raw.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == math.Trunc(v) && !math.IsInf(v, 0) {
			return int(v)
		}
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return int(n)
		}
	}
	r.warn(key, raw, "expected an integer")
	return def
}

func (r *resolver) floatValue(key string, def float64) float64 {
	if !r.k.Exists(key) {
		return def
	}
	raw := r.k.Get(key)
	switch v := raw.(type) {
	case float64:
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			return v
		}
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	}
	r.warn(key, raw, "expected a number")
	return def
}

func (r *resolver) boolValue(key string, def bool) bool {
	if !r.k.Exists(key) {
		return def
	}
	raw := r.k.Get(key)
	if v, ok := raw.(bool); ok {
		return v
	}
	r.warn(key, raw, "expected a boolean")
	return def
}

func (r *resolver) stringValue(key, def string) string {
	if !r.k.Exists(key) {
		return def
	}
	raw := r.k.Get(key)
	if v, ok := raw.(string); ok {
		return v
	}
	r.warn(key, raw, "expected a string")
	return def
}

func resolve(k *koanf.Koanf, logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	r := &resolver{k: k, logger: logger}
	def := Default()

	cfg := Config{
		Faction: faction.Options{
			DefaultPlayerReputation: r.intValue(KeyDefaultPlayerReputation, def.Faction.DefaultPlayerReputation),
			MinReputation:           r.intValue(KeyMinReputation, def.Faction.MinReputation),
			MaxReputation:           r.intValue(KeyMaxReputation, def.Faction.MaxReputation),
			RivalryReputationSpread: r.boolValue(KeyRivalryReputationSpread, def.Faction.RivalryReputationSpread),
			RivalrySpreadFactor:     r.floatValue(KeyRivalrySpreadFactor, def.Faction.RivalrySpreadFactor),
		},
		LogFormat:    r.stringValue(KeyLogFormat, def.LogFormat),
		LogLevel:     r.stringValue(KeyLogLevel, def.LogLevel),
		SnapshotPath: r.stringValue(KeySnapshotPath, ""),
		DatabaseURL:  r.stringValue(KeyDatabaseURL, ""),
	}

	if cfg.Faction.MinReputation > cfg.Faction.MaxReputation {
		r.warn(KeyMinReputation, cfg.Faction.MinReputation, "greater than maxReputation")
		cfg.Faction.MinReputation = def.Faction.MinReputation
		cfg.Faction.MaxReputation = def.Faction.MaxReputation
	}
	if cfg.Faction.RivalrySpreadFactor < 0 {
		r.warn(KeyRivalrySpreadFactor, cfg.Faction.RivalrySpreadFactor, "must not be negative")
		cfg.Faction.RivalrySpreadFactor = def.Faction.RivalrySpreadFactor
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		r.warn(KeyLogFormat, cfg.LogFormat, "must be json or text")
		cfg.LogFormat = def.LogFormat
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		r.warn(KeyLogLevel, cfg.LogLevel, "must be debug, info, warn or error")
		cfg.LogLevel = def.LogLevel
	}

	cfg.Warnings = r.warnings
	return cfg
}

// Exists reports whether path names a readable file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
