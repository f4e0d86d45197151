package cli

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/querymode/internal/harness"
)

// TestOptions holds flags for the test command.
type TestOptions struct {
	*RootOptions
	Filter string // scenario filter (glob pattern)
	Golden string // directory of <scenario>.golden snapshots
	Update bool   // regenerate golden files
}

// ScenarioResult holds the result of a single scenario execution.
type ScenarioResult struct {
	Name   string   `json:"name"`
	Pass   bool     `json:"pass"`
	Mode   string   `json:"mode,omitempty"`
	Errors []string `json:"errors,omitempty"`
}

// TestResult holds the overall test result.
type TestResult struct {
	Scenarios []ScenarioResult `json:"scenarios"`
	Passed    int              `json:"passed"`
	Failed    int              `json:"failed"`
	Total     int              `json:"total"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run scenario files",
		Long: `Run harness scenarios: each selects a mode, collects actions and drills,
and checks the expected mode, action names and assertions. With --golden,
each result snapshot is also compared against <golden-dir>/<name>.golden.

Exit codes:
  0 - All scenarios passed
  1 - One or more scenarios failed
  2 - Command error (invalid paths, etc.)

Examples:
  querymode test ./scenarios
  querymode test ./scenarios --filter "pivot_*"
  querymode test ./scenarios --golden ./golden --update
  querymode test ./scenarios --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTests(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Filter, "filter", "", "filter scenarios by glob pattern")
	cmd.Flags().StringVar(&opts.Golden, "golden", "", "directory of golden snapshots")
	cmd.Flags().BoolVar(&opts.Update, "update", false, "regenerate golden files (requires --golden)")

	return cmd
}

func runTests(opts *TestOptions, scenariosDir string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	if _, err := os.Stat(scenariosDir); os.IsNotExist(err) {
		return reportError(f, NewExitError(ExitCommandError, fmt.Sprintf("scenarios directory not found: %s", scenariosDir)))
	}
	if opts.Update && opts.Golden == "" {
		return reportError(f, NewExitError(ExitCommandError, "--update requires --golden"))
	}

	scenarioFiles, err := findScenarioFiles(scenariosDir, opts.Filter)
	if err != nil {
		return reportError(f, NewExitError(ExitCommandError, fmt.Sprintf("failed to find scenarios: %v", err)))
	}

	result := TestResult{
		Scenarios: make([]ScenarioResult, 0, len(scenarioFiles)),
		Total:     len(scenarioFiles),
	}

	if len(scenarioFiles) == 0 {
		if opts.Format == "json" {
			return f.Success(result)
		}
		fmt.Fprintln(f.Writer, "No scenarios found.")
		return nil
	}

	h := harness.New(harness.WithRegistry(opts.registry()))
	for _, scenarioFile := range scenarioFiles {
		scenResult := runScenario(h, scenarioFile, opts, f)
		result.Scenarios = append(result.Scenarios, scenResult)

		if scenResult.Pass {
			result.Passed++
		} else {
			result.Failed++
		}
	}

	if opts.Format == "json" {
		if result.Failed > 0 {
			if err := f.Failure(result, "E100", fmt.Sprintf("%d scenario(s) failed", result.Failed)); err != nil {
				return err
			}
		} else if err := f.Success(result); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(f.Writer, "\n%d passed, %d failed, %d total\n", result.Passed, result.Failed, result.Total)
	}

	if result.Failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenario(s) failed", result.Failed, result.Total))
	}
	return nil
}

// findScenarioFiles finds all YAML scenario files in a directory tree.
func findScenarioFiles(dir string, filter string) ([]string, error) {
	var files []string

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		// Only process .yaml and .yml files
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}

		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}

		files = append(files, path)
		return nil
	})

	return files, err
}

// runScenario executes a single scenario and reports it in text mode as it
// finishes.
func runScenario(h *harness.Harness, scenarioFile string, opts *TestOptions, f *OutputFormatter) ScenarioResult {
	out := executeScenario(h, scenarioFile, opts)

	if opts.Format != "json" {
		if out.Pass {
			fmt.Fprintf(f.Writer, "✓ %s (%s)\n", out.Name, out.Mode)
		} else {
			fmt.Fprintf(f.Writer, "✗ %s\n", out.Name)
			for _, e := range out.Errors {
				fmt.Fprintf(f.Writer, "  %s\n", e)
			}
		}
	}
	return out
}

func executeScenario(h *harness.Harness, scenarioFile string, opts *TestOptions) ScenarioResult {
	scenario, err := harness.LoadScenario(scenarioFile)
	if err != nil {
		return ScenarioResult{
			Name:   filepath.Base(scenarioFile),
			Errors: []string{fmt.Sprintf("failed to load scenario: %v", err)},
		}
	}

	result, err := h.Run(scenario)
	if err != nil {
		return ScenarioResult{
			Name:   scenario.Name,
			Errors: []string{fmt.Sprintf("execution failed: %v", err)},
		}
	}

	out := ScenarioResult{
		Name:   scenario.Name,
		Pass:   result.Pass,
		Mode:   result.Mode,
		Errors: result.Errors,
	}
	if opts.Golden == "" {
		return out
	}

	if msg := checkGolden(result, opts); msg != "" {
		out.Pass = false
		out.Errors = append(out.Errors, msg)
	}
	return out
}

// checkGolden compares or rewrites the snapshot of a result. It returns an
// error message, or "" when the snapshot matches. Scenarios without a golden
// file are checked by assertions only.
func checkGolden(result *harness.Result, opts *TestOptions) string {
	snapshot, err := harness.Snapshot(result)
	if err != nil {
		return fmt.Sprintf("snapshot failed: %v", err)
	}
	path := goldenFilePath(opts.Golden, result.Scenario)

	if opts.Update {
		if err := os.MkdirAll(opts.Golden, 0755); err != nil {
			return fmt.Sprintf("failed to create golden directory: %v", err)
		}
		if err := os.WriteFile(path, snapshot, 0644); err != nil {
			return fmt.Sprintf("failed to update golden file: %v", err)
		}
		return ""
	}

	want, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return ""
	}
	if err != nil {
		return fmt.Sprintf("failed to read golden file: %v", err)
	}
	if !bytes.Equal(want, snapshot) {
		return "snapshot does not match golden file (run with --update to regenerate)"
	}
	return ""
}

// goldenFilePath returns the golden file for a scenario name.
func goldenFilePath(dir, name string) string {
	return filepath.Join(dir, name+".golden")
}
