// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Neonreach Contributors

package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/neonreach/neonreach/internal/command"
	"github.com/neonreach/neonreach/internal/faction"
	"github.com/neonreach/neonreach/internal/shop"
)

type execConfig struct {
	dryRun bool
}

// NewExecCmd creates the exec subcommand.
func NewExecCmd() *cobra.Command {
	cfg := &execConfig{}
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run an engine command and save the result",
		Long: `Run one engine command against the stored state and print the
result as JSON. Arguments may be given separately or as a single quoted
command line:

  neonreach exec rep.add corp1 50
  neonreach exec 'rep.add corp1 50 "quest complete"'

Run "neonreach exec help" to list commands.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExec(cmd, cfg, args)
		},
	}
	cmd.Flags().BoolVar(&cfg.dryRun, "dry-run", false, "do not save the state afterwards")
	// Flags stop at the first argument so negative numbers pass through.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runExec(cmd *cobra.Command, cfg *execConfig, args []string) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	d, err := a.dispatcher()
	if err != nil {
		return err
	}
	if args[0] == "help" {
		return printCommands(cmd, d.Registry())
	}

	if err := a.loadState(ctx); err != nil {
		return err
	}

	var res command.Result
	if len(args) == 1 && strings.ContainsAny(args[0], " \t") {
		res = d.Dispatch(ctx, args[0])
	} else {
		callArgs := make([]any, 0, len(args)-1)
		for _, arg := range args[1:] {
			callArgs = append(callArgs, arg)
		}
		res = d.Call(ctx, args[0], callArgs...)
	}

	if err := printJSON(a.out, res); err != nil {
		return err
	}
	if !res.Success {
		return oops.Code(res.Code).Errorf("%s", res.Reason)
	}
	if cfg.dryRun {
		return nil
	}
	return a.saveState(ctx)
}

func printCommands(cmd *cobra.Command, reg *command.Registry) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "COMMAND\tUSAGE\tDESCRIPTION")
	for _, e := range reg.All() {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Usage, e.Help)
	}
	for alias, target := range reg.Aliases() {
		_, _ = fmt.Fprintf(w, "%s\t-> %s\t\n", alias, target)
	}
	return w.Flush()
}

type outputConfig struct {
	jsonOutput bool
}

// NewQuoteCmd creates the quote subcommand.
func NewQuoteCmd() *cobra.Command {
	cfg := &outputConfig{}
	cmd := &cobra.Command{
		Use:   "quote <shop> <item> [quantity]",
		Short: "Quote buy and sell prices at the owner's standing",
		Args:  cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runQuote(cmd, cfg, args)
		},
	}
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output the quote as JSON")
	return cmd
}

func runQuote(cmd *cobra.Command, cfg *outputConfig, args []string) error {
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

	callArgs := make([]any, 0, len(args))
	for _, arg := range args {
		callArgs = append(callArgs, arg)
	}
	res := d.Call(ctx, "shop.quote", callArgs...)
	if !res.Success {
		return oops.Code(res.Code).Errorf("%s", res.Reason)
	}
	q, ok := res.Data.(shop.Quote)
	if !ok {
		return oops.Code(command.CodeInternal).Errorf("unexpected quote result %T", res.Data)
	}

	if cfg.jsonOutput {
		return printJSON(a.out, q)
	}
	_, err = fmt.Fprintf(a.out, "%s x%d at %s (%s): buy %d, sell %d\n",
		q.ItemID, q.Quantity, q.ShopID, q.Standing, q.Buy, q.Sell)
	return err
}

// NewStandingsCmd creates the standings subcommand.
func NewStandingsCmd() *cobra.Command {
	cfg := &outputConfig{}
	cmd := &cobra.Command{
		Use:   "standings",
		Short: "List reputation and standing with every faction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStandings(cmd, cfg)
		},
	}
	cmd.Flags().BoolVar(&cfg.jsonOutput, "json", false, "output standings as JSON")
	return cmd
}

func runStandings(cmd *cobra.Command, cfg *outputConfig) error {
	ctx := cmd.Context()
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	if err := a.loadState(ctx); err != nil {
		return err
	}

	list := a.engine.Factions().GetAllReputations()
	if cfg.jsonOutput {
		return printJSON(a.out, list)
	}
	return formatStandings(a.out, list)
}

func formatStandings(out io.Writer, list []faction.Standing) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "FACTION\tSCORE\tSTANDING\tPRICE\tATTACK ON SIGHT")
	for _, st := range list {
		next := ""
		if st.Next != nil {
			next = fmt.Sprintf(" (next %s at %d)", st.Next.Tier, st.Next.Score)
		}
		_, _ = fmt.Fprintf(w, "%s\t%d\t%s%s\t%.2f\t%t\n",
			st.FactionID, st.Score, st.Tier, next, st.PriceModifier, st.AttackOnSight)
	}
	return w.Flush()
}
