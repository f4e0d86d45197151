package cli

import (
	"github.com/spf13/cobra"
)

// NewModeCommand creates the mode command.
func NewModeCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "mode",
		Short: "Select the mode of a card",
		Long: `Print the mode selected for a card: native, object, segment, metric,
timeseries, geo, pivot or default.

A structured card needs --metadata; without it no mode is selected and
"none" is printed.

Examples:
  querymode mode --card orders.json --metadata orders-meta.yaml
  querymode mode --card native.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMode(rootOpts, in, cmd)
		},
	}

	in.addCardFlags(cmd)
	return cmd
}

func runMode(opts *RootOptions, in *InputOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	docs, err := in.load(f)
	if err != nil {
		return reportError(f, err)
	}

	m := opts.registry().Select(docs.Card, docs.Metadata)
	return f.Success(ModeResult{Mode: modeName(m)})
}
