package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/querymode/internal/mode"
)

// NewModesCommand creates the modes command.
func NewModesCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "modes",
		Short:         "List registered modes and their creators",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return f.Success(describeModes(rootOpts.registry()))
		},
	}
}

func describeModes(r *mode.Registry) ModesResult {
	out := ModesResult{Modes: []ModeInfo{}}
	for _, m := range r.Modes() {
		out.Modes = append(out.Modes, ModeInfo{
			Name:    m.Name(),
			Actions: creatorNames(m.Actions),
			Drills:  creatorNames(m.Drills),
		})
	}
	return out
}

func creatorNames(creators []mode.ActionCreator) []string {
	names := make([]string, len(creators))
	for i, c := range creators {
		names[i] = c.Name()
	}
	return names
}
