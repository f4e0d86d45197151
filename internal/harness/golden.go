package harness

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/roach88/querymode/internal/ir"
)

// Snapshot renders a result as stable text for golden comparison:
//
//	scenario: <name>
//	mode: <mode>
//	actions: <n>
//	  - <name> [<section>] <title>
//	    <canonical dataset query>
//	drills: <n>
//	  ...
//
// Action ids are left out; the canonical query already pins the card.
func Snapshot(result *Result) ([]byte, error) {
	var buf strings.Builder

	fmt.Fprintf(&buf, "scenario: %s\n", result.Scenario)
	fmt.Fprintf(&buf, "mode: %s\n", result.Mode)
	for _, section := range []struct {
		label string
		list  []ActionRecord
	}{
		{ListActions, result.Actions},
		{ListDrills, result.Drills},
	} {
		fmt.Fprintf(&buf, "%s: %d\n", section.label, len(section.list))
		for _, rec := range section.list {
			fmt.Fprintf(&buf, "  - %s [%s] %s\n", rec.Name, rec.Section, rec.Title)
			if rec.Query == nil {
				continue
			}
			q, err := ir.MarshalCanonical(rec.Query)
			if err != nil {
				return nil, fmt.Errorf("snapshot %s: %w", rec.Name, err)
			}
			fmt.Fprintf(&buf, "    %s\n", q)
		}
	}
	return []byte(buf.String()), nil
}

// RunWithGolden executes a scenario and compares its snapshot against
// testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Returns error if scenario execution fails. Test failure (via goldie)
// occurs if the snapshot doesn't match the golden file.
func RunWithGolden(t *testing.T, scenario *Scenario) (*Result, error) {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return nil, err
	}
	if err := AssertGolden(t, scenario.Name, result); err != nil {
		return nil, err
	}
	return result, nil
}

// AssertGolden compares an existing result against a golden file without
// re-running the scenario.
func AssertGolden(t *testing.T, name string, result *Result) error {
	t.Helper()

	snapshot, err := Snapshot(result)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, name, snapshot)
	return nil
}
