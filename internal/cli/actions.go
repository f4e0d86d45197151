package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/querymode/internal/mode"
)

// NewActionsCommand creates the actions command.
func NewActionsCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the toolbar actions of a card",
		Long: `Select the mode of a card and list every action its creators produce,
in creator order.

Examples:
  querymode actions --card count.json --metadata orders-meta.yaml
  querymode actions --card count.json --metadata orders-meta.yaml --mode pivot`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runActions(rootOpts, in, cmd)
		},
	}

	in.addCardFlags(cmd)
	in.addModeFlag(cmd)
	return cmd
}

func runActions(opts *RootOptions, in *InputOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	docs, err := in.load(f)
	if err != nil {
		return reportError(f, err)
	}
	m, err := in.selectMode(opts.registry(), docs)
	if err != nil {
		return reportError(f, err)
	}

	recs, err := recordsOrError(mode.CollectActions(m, docs.Card, docs.Metadata))
	if err != nil {
		return reportError(f, err)
	}
	f.VerboseLog("Mode %s produced %d action(s)", modeName(m), len(recs))
	return f.Success(ActionsResult{Mode: modeName(m), Actions: recs})
}

// NewDrillsCommand creates the drills command.
func NewDrillsCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "drills",
		Short: "List the drill-downs for a click",
		Long: `Select the mode of a card and list every drill-down its creators
produce for a clicked cell or column header, in creator order.

Examples:
  querymode drills --card count.json --metadata orders-meta.yaml --clicked cell.json
  querymode drills --card orders.json --metadata orders-meta.yaml --clicked header.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDrills(rootOpts, in, cmd)
		},
	}

	in.addCardFlags(cmd)
	in.addModeFlag(cmd)
	cmd.Flags().StringVar(&in.Clicked, "clicked", "", "click object file")
	return cmd
}

func runDrills(opts *RootOptions, in *InputOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if in.Clicked == "" {
		return reportError(f, NewExitError(ExitCommandError, "--clicked is required"))
	}
	docs, err := in.load(f)
	if err != nil {
		return reportError(f, err)
	}
	m, err := in.selectMode(opts.registry(), docs)
	if err != nil {
		return reportError(f, err)
	}

	recs, err := recordsOrError(mode.CollectDrills(m, docs.Card, docs.Metadata, docs.Clicked))
	if err != nil {
		return reportError(f, err)
	}
	f.VerboseLog("Mode %s produced %d drill(s)", modeName(m), len(recs))
	return f.Success(DrillsResult{Mode: modeName(m), Drills: recs})
}
