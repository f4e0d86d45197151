package cli

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/roach88/querymode/internal/actions"
	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/mode"
)

// EnvPrefix prefixes environment variables that stand in for flags, e.g.
// QUERYMODE_FORMAT or QUERYMODE_METADATA.
const EnvPrefix = "QUERYMODE"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Config  string // optional YAML/JSON config file

	// TraceIDs stamps JSON responses. Nil leaves trace_id out.
	TraceIDs TraceIDGenerator

	// Registry is the mode registry commands select from. Nil means the
	// built-in registry.
	Registry *mode.Registry
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the querymode CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWith(UUIDv7TraceID{})
}

// NewRootCommandWith creates the root command with a specific trace id
// generator.
func NewRootCommandWith(traceIDs TraceIDGenerator) *cobra.Command {
	opts := &RootOptions{TraceIDs: traceIDs}

	cmd := &cobra.Command{
		Use:     "querymode",
		Version: ir.ToolVersion,
		Short:   "querymode - query builder modes, actions and drills",
		Long: `Select the interaction mode of a question and list the actions and
drill-downs that mode offers.

Cards, table metadata and click objects are read from JSON, YAML or CUE
files and checked against an embedded schema.

Flags can also be set through QUERYMODE_<FLAG> environment variables or a
--config file.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfig(cmd, opts.Config); err != nil {
				return NewExitError(ExitCommandError, err.Error())
			}
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Verbose {
				slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(),
					&slog.HandlerOptions{Level: slog.LevelDebug})))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "config file providing flag defaults")

	// Add subcommands
	cmd.AddCommand(NewModeCommand(opts))
	cmd.AddCommand(NewActionsCommand(opts))
	cmd.AddCommand(NewDrillsCommand(opts))
	cmd.AddCommand(NewValidateCommand(opts))
	cmd.AddCommand(NewModesCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// applyConfig fills every flag the user did not set from the environment
// or the config file, in that order of precedence.
func applyConfig(cmd *cobra.Command, configFile string) error {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("reading config %s: %w", configFile, err)
		}
		slog.Debug("config loaded", "file", v.ConfigFileUsed())
	}

	flags := cmd.Flags()
	var firstErr error
	flags.VisitAll(func(flag *pflag.Flag) {
		if flag.Name == "config" || flag.Name == "help" || flag.Changed {
			return
		}
		if err := v.BindPFlag(flag.Name, flag); err != nil && firstErr == nil {
			firstErr = err
			return
		}
		if !v.IsSet(flag.Name) {
			return
		}
		value := v.GetString(flag.Name)
		if value == flag.DefValue {
			return
		}
		if err := flags.Set(flag.Name, value); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("flag --%s: %w", flag.Name, err)
		}
	})
	return firstErr
}

// formatter builds the output formatter for a command invocation.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	f := &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
	if o.TraceIDs != nil {
		f.TraceID = o.TraceIDs.Generate()
	}
	return f
}

// registry returns the configured registry or the built-in one.
func (o *RootOptions) registry() *mode.Registry {
	if o.Registry != nil {
		return o.Registry
	}
	return actions.DefaultRegistry()
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
