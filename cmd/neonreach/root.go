// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/config"
)

// Global flags available to all subcommands.
type globalFlags struct {
	configFile  string
	stateName   string
	seedFile    string
	events      bool
	metricsFile string
}

var globals globalFlags

// NewRootCmd creates the root command for the neonreach CLI.
func NewRootCmd() *cobra.Command {
	globals = globalFlags{}

	cmd := &cobra.Command{
		Use:   "neonreach",
		Short: "Neonreach - faction, reputation and economy engine",
		Long: `Neonreach tracks faction standing, territory control and
standing-driven shop pricing for a cyberpunk RPG. State is kept in a
snapshot store (JSON files or PostgreSQL) between invocations.`,
		SilenceUsage: true,
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&globals.configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/neonreach/config.yaml)")
	flags.StringVar(&globals.stateName, "state", "", "snapshot name (default: state)")
	flags.StringVar(&globals.seedFile, "seed", "", "world seed applied when no snapshot exists (default: built-in)")
	flags.BoolVar(&globals.events, "events", false, "log engine events emitted by the command")
	flags.StringVar(&globals.metricsFile, "metrics-file", "", "write command metrics in Prometheus text format")
	config.BindFlags(flags)

	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewValidateSeedCmd())
	cmd.AddCommand(NewExecCmd())
	cmd.AddCommand(NewQuoteCmd())
	cmd.AddCommand(NewStandingsCmd())
	cmd.AddCommand(NewRunScriptCmd())
	cmd.AddCommand(NewExportCmd())
	cmd.AddCommand(NewImportCmd())
	cmd.AddCommand(NewSnapshotsCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
