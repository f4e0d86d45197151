package cli

import (
	"errors"
	"fmt"

	"cuelang.org/go/cue"
	"github.com/spf13/cobra"

	"github.com/roach88/querymode/internal/harness"
	"github.com/roach88/querymode/internal/loader"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

// InputOptions are the document flags shared by mode, actions and drills.
type InputOptions struct {
	Card     string
	Metadata string
	Clicked  string
	Mode     string // forces a mode instead of selecting one
}

func (o *InputOptions) addCardFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Card, "card", "", "card file (.json, .yaml or .cue)")
	cmd.Flags().StringVar(&o.Metadata, "metadata", "", "table metadata file")
}

func (o *InputOptions) addModeFlag(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Mode, "mode", "", "use this mode instead of selecting one")
}

// documents holds the decoded inputs of one invocation. Metadata and Clicked
// are nil when their flag is empty.
type documents struct {
	Card     *query.Card
	Metadata *metadata.TableMetadata
	Clicked  *mode.ClickObject
}

// load reads every document named by the options with a single loader.
func (o *InputOptions) load(f *OutputFormatter) (*documents, error) {
	if o.Card == "" {
		return nil, NewExitError(ExitCommandError, "--card is required")
	}

	l, err := loader.New()
	if err != nil {
		return nil, err
	}

	docs := &documents{}
	f.VerboseLog("Loading card %s", o.Card)
	if docs.Card, err = loadWith(l, o.Card, (*loader.Loader).Card); err != nil {
		return nil, err
	}
	if o.Metadata != "" {
		f.VerboseLog("Loading metadata %s", o.Metadata)
		if docs.Metadata, err = loadWith(l, o.Metadata, (*loader.Loader).Metadata); err != nil {
			return nil, err
		}
	}
	if o.Clicked != "" {
		f.VerboseLog("Loading click %s", o.Clicked)
		if docs.Clicked, err = loadWith(l, o.Clicked, (*loader.Loader).Click); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

func loadWith[T any](l *loader.Loader, path string, decode func(*loader.Loader, cue.Value) (T, error)) (T, error) {
	var zero T
	v, err := l.File(path)
	if err != nil {
		return zero, err
	}
	return decode(l, v)
}

// selectMode returns the forced mode, or the mode the registry selects.
func (o *InputOptions) selectMode(r *mode.Registry, docs *documents) (*mode.Mode, error) {
	if o.Mode == "" {
		return r.Select(docs.Card, docs.Metadata), nil
	}
	k, err := mode.ParseKind(o.Mode)
	if err != nil {
		return nil, NewExitError(ExitCommandError, err.Error())
	}
	return r.Get(k), nil
}

// modeName returns the mode name, or "none".
func modeName(m *mode.Mode) string {
	if m == nil {
		return harness.ModeNone
	}
	return m.Name()
}

// reportError writes err through the formatter and returns the exit error
// for it. Load errors keep their code.
func reportError(f *OutputFormatter, err error) error {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		_ = f.Error(loader.ErrCodeGeneric, exitErr.Message, nil)
		return exitErr
	}

	code := loader.ErrCodeGeneric
	var details interface{}
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		code = loadErr.Code
		if loadErr.Pos.IsValid() {
			details = map[string]interface{}{
				"file":   loadErr.Pos.Filename(),
				"line":   loadErr.Pos.Line(),
				"column": loadErr.Pos.Column(),
			}
		}
	}
	_ = f.Error(code, err.Error(), details)
	return WrapExitError(ExitCommandError, code, err)
}

// recordsOrError converts collected actions, wrapping id failures.
func recordsOrError(list []mode.ClickAction) ([]harness.ActionRecord, error) {
	recs, err := harness.Records(list)
	if err != nil {
		return nil, fmt.Errorf("computing action ids: %w", err)
	}
	return recs, nil
}
