// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/config"
	"github.com/neonreach/neonreach/internal/game"
	"github.com/neonreach/neonreach/internal/logging"
	"github.com/neonreach/neonreach/internal/seed"
	"github.com/neonreach/neonreach/internal/store"
	"github.com/neonreach/neonreach/pkg/errutil"
)

type initConfig struct {
	force bool
}

// NewInitCmd creates the init subcommand.
func NewInitCmd() *cobra.Command {
	cfg := &initConfig{}
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the stored state from a world seed",
		Long: `Apply the world seed (--seed, or the built-in Night City seed) to an
empty engine and save it as the named snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, cfg)
		},
	}
	cmd.Flags().BoolVar(&cfg.force, "force", false, "overwrite an existing snapshot")
	return cmd
}

func runInit(cmd *cobra.Command, cfg *initConfig) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	_, err = s.Load(ctx, a.stateName)
	switch {
	case err == nil && !cfg.force:
		return oops.Code("STATE_EXISTS").
			With("state", a.stateName).
			Hint("use --force to overwrite").
			Errorf("snapshot %q already exists", a.stateName)
	case err != nil && !errutil.HasCode(err, store.CodeSnapshotNotFound):
		return err
	}

	sum, err := a.applySeed(ctx)
	if err != nil {
		return err
	}
	if err := a.saveState(ctx); err != nil {
		return err
	}
	return printSummary(cmd, sum)
}

func printSummary(cmd *cobra.Command, sum seed.Summary) error {
	_, err := fmt.Fprintf(cmd.OutOrStdout(),
		"factions: %d, relationships: %d, reputations: %d, items: %d, shops: %d, supply modifiers: %d\n",
		sum.Factions, sum.Relationships, sum.Reputations, sum.Items, sum.Shops, sum.SupplyModifiers)
	if err != nil || sum.Clamped == 0 {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "clamped reputations: %d\n", sum.Clamped)
	return err
}

// NewValidateSeedCmd creates the validate-seed subcommand.
func NewValidateSeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-seed [file]",
		Short: "Validate a world seed without touching stored state",
		Long: `Validates a world seed against the seed schema and applies it to a
scratch engine built from the configured ledger options. Without a file
the built-in seed is checked.
Does NOT read or write snapshots or require a database connection.

Useful in CI pipelines to catch seed errors early:
  neonreach validate-seed worlds/pacifica.yaml`,
		Args: cobra.MaximumNArgs(1),
		RunE: runValidateSeed,
	}
}

func runValidateSeed(cmd *cobra.Command, args []string) error {
	var (
		f   *seed.File
		err error
	)
	if len(args) == 1 {
		f, err = seed.Load(args[0])
	} else {
		f, err = seed.Default()
	}
	if err != nil {
		return oops.Code("SEED_INVALID").Hint(seed.FormatSchemaError(err)).Wrap(err)
	}

	path, optional, err := configPath()
	if err != nil {
		return err
	}
	cfg, err := config.Load(path, optional, cmd.Flags(), logging.Discard())
	if err != nil {
		return err
	}

	scratch := game.New(game.Config{Options: cfg.Faction, Logger: logging.Discard()})
	sum, err := seed.Apply(cmd.Context(), scratch, f)
	if err != nil {
		return oops.Code("SEED_INVALID").Wrapf(err, "apply seed")
	}
	return printSummary(cmd, sum)
}

// NewExportCmd creates the export subcommand.
func NewExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export <file|->",
		Short: "Write the stored state to a JSON file",
		Args:  cobra.ExactArgs(1),
		RunE:  runExport,
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.loadState(ctx); err != nil {
		return err
	}

	st := a.engine.ExportState()
	if args[0] == "-" {
		return printJSON(a.out, st)
	}
	if err := store.WriteFile(args[0], st); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "state exported", "path", args[0], "version", st.Version)
	return nil
}

type importConfig struct {
	merge bool
}

// NewImportCmd creates the import subcommand.
func NewImportCmd() *cobra.Command {
	cfg := &importConfig{}
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Replace or merge the stored state from a JSON file",
		Long: `Read an exported state file and save it as the named snapshot.
With --merge the file is layered over the current state; otherwise it
replaces it. Snapshots from a newer major version are rejected.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd, cfg, args[0])
		},
	}
	cmd.Flags().BoolVar(&cfg.merge, "merge", false, "merge into the current state instead of replacing it")
	return cmd
}

func runImport(cmd *cobra.Command, cfg *importConfig, path string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	st, err := store.ReadFile(path)
	if err != nil {
		return err
	}
	if cfg.merge {
		if err := a.loadState(ctx); err != nil {
			return err
		}
	}
	if err := a.engine.ImportState(ctx, st, cfg.merge); err != nil {
		return err
	}
	if err := a.saveState(ctx); err != nil {
		return err
	}
	a.logger.InfoContext(ctx, "state imported", "path", path, "merge", cfg.merge, "state", a.stateName)
	return nil
}

// NewSnapshotsCmd creates the snapshots subcommand group.
func NewSnapshotsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshots",
		Short: "List or delete stored snapshots",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored snapshots",
		Args:  cobra.NoArgs,
		RunE:  runSnapshotsList,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a stored snapshot",
		Args:  cobra.ExactArgs(1),
		RunE:  runSnapshotsDelete,
	})
	return cmd
}

func runSnapshotsList(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "NAME\tVERSION\tSAVED")
	for _, e := range entries {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Version, e.SavedAt.UTC().Format(time.RFC3339))
	}
	return w.Flush()
}

func runSnapshotsDelete(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	s, err := a.openStore(ctx)
	if err != nil {
		return err
	}
	removed, err := s.Delete(ctx, args[0])
	if err != nil {
		return err
	}
	if !removed {
		return oops.Code(store.CodeSnapshotNotFound).With("name", args[0]).Errorf("snapshot %q not found", args[0])
	}
	_, err = fmt.Fprintf(a.out, "deleted %s\n", args[0])
	return err
}
