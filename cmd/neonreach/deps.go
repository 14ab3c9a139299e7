// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/command"
	"github.com/neonreach/neonreach/internal/config"
	"github.com/neonreach/neonreach/internal/event"
	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/internal/seed"
	"github.com/neonreach/neonreach/internal/shop"
	"github.com/neonreach/neonreach/internal/store"
	"github.com/neonreach/neonreach/internal/xdg"
	"github.com/neonreach/neonreach/pkg/errutil"
)

const eventBuffer = 1024

// app holds the dependencies shared by subcommands for one invocation.
type app struct {
	cfg     config.Config
	logger  *slog.Logger
	out     io.Writer
	bus     *event.Bus
	events  chan event.Event
	engine  *game.Engine
	metrics *prometheus.Registry

	store     store.Store
	closeFn   func()
	stateName string
}

// newApp loads configuration and builds the engine. The snapshot store is
// opened lazily.
func newApp(cmd *cobra.Command) (*app, error) {
	path, optional, err := configPath()
	if err != nil {
		return nil, err
	}

	bootstrap := logging.Setup("neonreach", version, "text", cmd.ErrOrStderr(), logging.WithLevel(slog.LevelWarn))
	cfg, err := config.Load(path, optional, cmd.Flags(), bootstrap)
	if err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		bootstrap.Warn("invalid log level, using info", "level", cfg.LogLevel)
	}
	logger := logging.Setup("neonreach", version, cfg.LogFormat, cmd.ErrOrStderr(), logging.WithLevel(level))

	a := &app{
		cfg:       cfg,
		logger:    logger,
		out:       cmd.OutOrStdout(),
		bus:       event.NewBus(eventBuffer),
		metrics:   prometheus.NewRegistry(),
		stateName: globals.stateName,
	}
	if globals.events {
		a.events = a.bus.Subscribe(event.AllStreams)
	}
	command.RegisterMetrics(a.metrics)
	faction.RegisterMetrics(a.metrics)
	shop.RegisterMetrics(a.metrics)
	a.engine = game.New(game.Config{Options: cfg.Faction, Emitter: a.bus, Logger: logger})
	return a, nil
}

// configPath returns --config, or the XDG config file which may be
// missing.
func configPath() (path string, optional bool, err error) {
	if globals.configFile != "" {
		return globals.configFile, false, nil
	}
	p, err := xdg.ConfigFile()
	if err != nil {
		return "", false, oops.Code("CONFIG_INVALID").Wrapf(err, "resolve config path")
	}
	return p, true, nil
}

// openStore returns the Postgres store when a database URL is configured
// and the file store otherwise.
func (a *app) openStore(ctx context.Context) (store.Store, error) {
	if a.store != nil {
		return a.store, nil
	}

	if url := a.databaseURL(); url != "" {
		opts := store.DefaultConnectOptions()
		opts.Logger = a.logger
		pg, err := store.Connect(ctx, url, opts)
		if err != nil {
			return nil, err
		}
		a.store, a.closeFn = pg, pg.Close
		if a.stateName == "" {
			a.stateName = store.DefaultName
		}
		return a.store, nil
	}

	if p := a.cfg.SnapshotPath; p != "" {
		a.store = store.NewFileStore(filepath.Dir(p))
		if a.stateName == "" {
			a.stateName = strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
		}
		return a.store, nil
	}

	files, err := store.NewDefaultFileStore()
	if err != nil {
		return nil, err
	}
	a.store = files
	if a.stateName == "" {
		a.stateName = store.DefaultName
	}
	return a.store, nil
}

func (a *app) databaseURL() string {
	if a.cfg.DatabaseURL != "" {
		return a.cfg.DatabaseURL
	}
	return os.Getenv("DATABASE_URL")
}

// loadState restores the named snapshot. When none exists the seed is
// applied instead, so a fresh install starts with a populated world.
func (a *app) loadState(ctx context.Context) error {
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	st, err := s.Load(ctx, a.stateName)
	switch {
	case err == nil:
		return a.engine.ImportState(ctx, st, false)
	case errutil.HasCode(err, store.CodeSnapshotNotFound):
		a.logger.InfoContext(ctx, "no snapshot found, applying seed", "state", a.stateName)
		_, err := a.applySeed(ctx)
		return err
	default:
		return err
	}
}

func (a *app) loadSeed() (*seed.File, error) {
	if globals.seedFile != "" {
		return seed.Load(globals.seedFile)
	}
	return seed.Default()
}

func (a *app) applySeed(ctx context.Context) (seed.Summary, error) {
	f, err := a.loadSeed()
	if err != nil {
		return seed.Summary{}, err
	}
	return seed.Apply(ctx, a.engine, f)
}

func (a *app) saveState(ctx context.Context) error {
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	if err := s.Save(ctx, a.stateName, a.engine.ExportState()); err != nil {
		return err
	}
	a.logger.DebugContext(ctx, "snapshot saved", "state", a.stateName)
	return nil
}

func (a *app) dispatcher() (*command.Dispatcher, error) {
	reg := command.NewRegistry(a.logger)
	if err := command.RegisterBuiltins(reg); err != nil {
		return nil, err
	}
	return command.NewDispatcher(reg, a.engine, command.WithLogger(a.logger))
}

// close flushes events and metrics and releases the store.
func (a *app) close() {
	a.drainEvents()
	if globals.metricsFile != "" {
		if err := prometheus.WriteToTextfile(globals.metricsFile, a.metrics); err != nil {
			errutil.LogError(context.Background(), a.logger, "write metrics", err)
		}
	}
	a.bus.Close()
	if a.closeFn != nil {
		a.closeFn()
	}
}

func (a *app) drainEvents() {
	if a.events == nil {
		return
	}
	for {
		select {
		case ev, ok := <-a.events:
			if !ok {
				return
			}
			a.logger.Info("event",
				"event_id", ev.ID.String(),
				"stream", ev.Stream,
				"event_type", ev.Type,
				"payload", json.RawMessage(ev.Payload),
			)
		default:
			return
		}
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
