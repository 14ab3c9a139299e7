// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/script"
)

type runScriptConfig struct {
	hook    string
	grants  []string
	timeout time.Duration
	dryRun  bool
}

// NewRunScriptCmd creates the run-script subcommand.
func NewRunScriptCmd() *cobra.Command {
	cfg := &runScriptConfig{}
	cmd := &cobra.Command{
		Use:   "run-script <file.lua> [args...]",
		Short: "Run a Lua quest or combat script against the stored state",
		Long: `Load a Lua script, call its hook (main by default) with the given
arguments and print the hook's return value as JSON. Scripts reach the
engine through the neon module:

  neon.call("rep.add", "arasaka", 25, "delivered the package")
  neon.add_reputation("maelstrom", -40, "ambush")
  neon.standing("arasaka")
  neon.transfer("watson", "tyger-claws", "conquest")
  neon.quote("arasaka-showroom", "mantis-blades")
  neon.log("info", "quest complete")

Arguments that look like numbers or booleans are passed as such.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(cmd, cfg, args)
		},
	}
	cmd.Flags().StringVar(&cfg.hook, "hook", "main", "global function to call after loading")
	cmd.Flags().StringSliceVar(&cfg.grants, "grant", []string{script.AllCommands}, "command patterns the script may call")
	cmd.Flags().DurationVar(&cfg.timeout, "timeout", script.DefaultTimeout, "maximum run time")
	cmd.Flags().BoolVar(&cfg.dryRun, "dry-run", false, "do not save the state afterwards")
	// Flags stop at the first argument so negative numbers pass through.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runScript(cmd *cobra.Command, cfg *runScriptConfig, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.loadState(ctx); err != nil {
		return err
	}
	d, err := a.dispatcher()
	if err != nil {
		return err
	}

	host, err := script.NewHost(d,
		script.WithLogger(a.logger),
		script.WithTimeout(cfg.timeout),
		script.WithDefaultGrants(cfg.grants...),
	)
	if err != nil {
		return err
	}
	defer func() { _ = host.Close() }()

	name, err := host.LoadFile(ctx, args[0])
	if err != nil {
		return err
	}

	hookArgs := make([]any, 0, len(args)-1)
	for _, arg := range args[1:] {
		hookArgs = append(hookArgs, scalar(arg))
	}
	out, err := host.Run(ctx, name, cfg.hook, hookArgs...)
	if err != nil {
		return err
	}
	if err := printJSON(a.out, out); err != nil {
		return err
	}
	if cfg.dryRun {
		return nil
	}
	return a.saveState(ctx)
}

// scalar converts a command-line word to int, float64 or bool when it
// parses as one.
func scalar(s string) any {
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return s
}
