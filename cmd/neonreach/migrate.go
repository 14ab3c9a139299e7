// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/config"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/internal/store"
)

// migrator is the subset of store.Migrator the subcommands use.
type migrator interface {
	Up() error
	Down() error
	Steps(n int) error
	Version() (uint, bool, error)
	Force(version int) error
	PendingMigrations() ([]uint, error)
	AppliedMigrations() ([]uint, error)
	Close() error
}

// newMigrator is replaced in tests.
var newMigrator = func(databaseURL string) (migrator, error) {
	return store.NewMigrator(databaseURL)
}

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage snapshot store migrations",
		Long: `Apply or roll back the PostgreSQL schema used by the snapshot store.
The database URL comes from --database-url, the config file or DATABASE_URL.`,
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: withMigrator(func(cmd *cobra.Command, m migrator, _ []string) error {
			if err := m.Up(); err != nil {
				return err
			}
			return printMigrationVersion(cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (all when steps is omitted)",
		Args:  cobra.MaximumNArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
			if len(args) == 0 {
				if err := m.Down(); err != nil {
					return err
				}
				return printMigrationVersion(cmd, m)
			}
			n, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if n <= 0 {
				return oops.Code(store.CodeInvalidVersion).With("steps", n).Errorf("steps must be positive")
			}
			if err := m.Steps(-n); err != nil {
				return err
			}
			return printMigrationVersion(cmd, m)
		}),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		Args:  cobra.NoArgs,
		RunE:  withMigrator(runMigrateStatus),
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "force <version>",
		Short: "Set the migration version without running migrations",
		Long: `Mark the database as being at version and clear the dirty flag.
Use after fixing a failed migration by hand. -1 means no version.`,
		Args: cobra.ExactArgs(1),
		RunE: withMigrator(func(cmd *cobra.Command, m migrator, args []string) error {
			v, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			if err := m.Force(v); err != nil {
				return err
			}
			return printMigrationVersion(cmd, m)
		}),
	})
	return cmd
}

func withMigrator(fn func(*cobra.Command, migrator, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		url, err := migrateDatabaseURL(cmd)
		if err != nil {
			return err
		}
		m, err := newMigrator(url)
		if err != nil {
			return err
		}
		defer func() { _ = m.Close() }()
		return fn(cmd, m, args)
	}
}

func migrateDatabaseURL(cmd *cobra.Command) (string, error) {
	path, optional, err := configPath()
	if err != nil {
		return "", err
	}
	cfg, err := config.Load(path, optional, cmd.Flags(), logging.Discard())
	if err != nil {
		return "", err
	}
	url := cfg.DatabaseURL
	if url == "" {
		url = os.Getenv("DATABASE_URL")
	}
	if url == "" {
		return "", oops.Code("CONFIG_INVALID").
			Hint("set --database-url, databaseURL in the config file or DATABASE_URL").
			Errorf("database URL is required")
	}
	return url, nil
}

// parseVersion reads a leading integer, ignoring surrounding text.
func parseVersion(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, oops.Code(store.CodeInvalidVersion).With("input", s).Errorf("version is required")
	}
	var v int
	if _, err := fmt.Sscanf(trimmed, "%d", &v); err != nil {
		return 0, oops.Code(store.CodeInvalidVersion).With("input", s).Wrapf(err, "invalid version %q", s)
	}
	return v, nil
}

func printMigrationVersion(cmd *cobra.Command, m migrator) error {
	v, dirty, err := m.Version()
	if err != nil {
		return err
	}
	state := "clean"
	if dirty {
		state = "dirty"
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "version %d (%s)\n", v, state)
	return err
}

func runMigrateStatus(cmd *cobra.Command, m migrator, _ []string) error {
	if err := printMigrationVersion(cmd, m); err != nil {
		return err
	}
	applied, err := m.AppliedMigrations()
	if err != nil {
		return err
	}
	pending, err := m.PendingMigrations()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, v := range applied {
		name, _ := store.MigrationName(v)
		_, _ = fmt.Fprintf(out, "  applied  %s\n", name)
	}
	for _, v := range pending {
		name, _ := store.MigrationName(v)
		_, _ = fmt.Fprintf(out, "  pending  %s\n", name)
	}
	return nil
}
