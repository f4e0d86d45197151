package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/querymode/internal/loader"
	"github.com/roach88/querymode/internal/metadata"
)

// ValidationIssue is one problem found in an input document.
type ValidationIssue struct {
	Document string `json:"document"` // "card", "metadata" or "clicked"
	Code     string `json:"code"`
	Field    string `json:"field,omitempty"`
	Message  string `json:"message"`
	Line     int    `json:"line,omitempty"`
}

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid   bool              `json:"valid"`
	Checked []string          `json:"checked"`
	Errors  []ValidationIssue `json:"errors,omitempty"`
}

func (r ValidationResult) String() string {
	if r.Valid {
		return fmt.Sprintf("✓ All documents valid (%s)", strings.Join(r.Checked, ", "))
	}
	var b strings.Builder
	b.WriteString("✗ Validation failed\n")
	for _, issue := range r.Errors {
		loc := issue.Document
		if issue.Field != "" {
			loc += "." + issue.Field
		}
		if issue.Line > 0 {
			loc += fmt.Sprintf(" (line %d)", issue.Line)
		}
		fmt.Fprintf(&b, "\n  %s %s: %s", issue.Code, loc, issue.Message)
	}
	return b.String()
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	in := &InputOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate documents without selecting a mode",
		Long: `Check a card, table metadata and click object against the schema.
Metadata is also checked for duplicate field ids, fields owned by another
table and dangling foreign key targets.

Every problem is reported; validation does not stop at the first one.

Exit codes:
  0 - All documents valid
  1 - One or more documents invalid
  2 - Command error (no documents given)`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, in, cmd)
		},
	}

	in.addCardFlags(cmd)
	cmd.Flags().StringVar(&in.Clicked, "clicked", "", "click object file")
	return cmd
}

func runValidate(opts *RootOptions, in *InputOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if in.Card == "" && in.Metadata == "" && in.Clicked == "" {
		return reportError(f, NewExitError(ExitCommandError, "nothing to validate: pass --card, --metadata or --clicked"))
	}

	l, err := loader.New()
	if err != nil {
		return reportError(f, err)
	}

	result := ValidationResult{Checked: []string{}}
	check := func(document, path string, decode func(string) []ValidationIssue) {
		if path == "" {
			return
		}
		f.VerboseLog("Validating %s %s", document, path)
		result.Checked = append(result.Checked, document)
		result.Errors = append(result.Errors, decode(path)...)
	}

	check("card", in.Card, func(path string) []ValidationIssue {
		_, err := loadWith(l, path, (*loader.Loader).Card)
		return loadIssues("card", err)
	})
	check("metadata", in.Metadata, func(path string) []ValidationIssue {
		md, err := loadWith(l, path, (*loader.Loader).Metadata)
		if err != nil {
			return loadIssues("metadata", err)
		}
		var issues []ValidationIssue
		for _, verr := range metadata.Validate(md) {
			issues = append(issues, ValidationIssue{
				Document: "metadata",
				Code:     verr.Code,
				Field:    verr.Field,
				Message:  verr.Message,
			})
		}
		return issues
	})
	check("clicked", in.Clicked, func(path string) []ValidationIssue {
		_, err := loadWith(l, path, (*loader.Loader).Click)
		return loadIssues("clicked", err)
	})

	result.Valid = len(result.Errors) == 0
	if result.Valid {
		return f.Success(result)
	}

	first := result.Errors[0]
	if err := f.Failure(result, first.Code, first.Message); err != nil {
		return err
	}
	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(result.Errors)))
}

// loadIssues converts a loader error into issues. A nil error yields none.
func loadIssues(document string, err error) []ValidationIssue {
	if err == nil {
		return nil
	}
	issue := ValidationIssue{Document: document, Code: loader.ErrCodeGeneric, Message: err.Error()}
	var loadErr *loader.LoadError
	if errors.As(err, &loadErr) {
		issue.Code = loadErr.Code
		issue.Message = loadErr.Message
		if loadErr.Pos.IsValid() {
			issue.Line = loadErr.Pos.Line()
		}
	}
	return []ValidationIssue{issue}
}
