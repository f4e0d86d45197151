package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Scenario defines one mode-selection contract test.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Card is the card document, checked against the #Card schema.
	Card map[string]any `yaml:"card"`

	// Metadata is an inline table metadata document.
	Metadata map[string]any `yaml:"metadata,omitempty"`

	// MetadataFile points at a metadata document (.json, .yaml or .cue).
	MetadataFile string `yaml:"metadata_file,omitempty"`

	// Clicked is the click object for drills. Without it no drills are
	// collected.
	Clicked map[string]any `yaml:"clicked,omitempty"`

	// Expect holds the expected mode and action names.
	Expect Expect `yaml:"expect"`

	// Assertions are additional checks on the collected actions.
	Assertions []Assertion `yaml:"assertions,omitempty"`
}

// Expect specifies the expected outcome.
type Expect struct {
	// Mode is the expected mode name, or "none".
	Mode string `yaml:"mode"`

	// Actions, when non-nil, must equal the collected action names.
	Actions []string `yaml:"actions,omitempty"`

	// Drills, when non-nil, must equal the collected drill names.
	Drills []string `yaml:"drills,omitempty"`
}

// Assertion checks one property of the collected actions or drills.
type Assertion struct {
	// Type is one of the Assert* constants.
	Type string `yaml:"type"`

	// List is "actions" or "drills".
	List string `yaml:"list"`

	// Name is the action name (action_contains, action_count, action_query).
	Name string `yaml:"name,omitempty"`

	// Title must also match when set (action_contains).
	Title string `yaml:"title,omitempty"`

	// Names is the expected relative order (action_order).
	Names []string `yaml:"names,omitempty"`

	// Count is the expected number of occurrences (action_count).
	Count int `yaml:"count,omitempty"`

	// Query is a subset of the expected structured query (action_query).
	Query map[string]any `yaml:"query,omitempty"`

	// Absent lists query keys that must not be set (action_query).
	Absent []string `yaml:"absent,omitempty"`
}

// Assertion type constants.
const (
	AssertActionContains = "action_contains"
	AssertActionOrder    = "action_order"
	AssertActionCount    = "action_count"
	AssertActionQuery    = "action_query"
)

// Assertion list names.
const (
	ListActions = "actions"
	ListDrills  = "drills"
)

// ModeNone is the expected mode when no mode is selected.
const ModeNone = "none"

// LoadScenario reads and parses a scenario YAML file. metadata_file is
// resolved relative to the scenario's directory.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict decoding catches typos like "assertion:" vs "assertions:"
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if scenario.MetadataFile != "" && !filepath.IsAbs(scenario.MetadataFile) {
		scenario.MetadataFile = filepath.Join(filepath.Dir(path), scenario.MetadataFile)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}

	return &scenario, nil
}

// LoadDir loads every *.yaml and *.yml scenario in dir, sorted by file name.
func LoadDir(dir string) ([]*Scenario, error) {
	var paths []string
	for _, pattern := range []string{"*.yaml", "*.yml"} {
		matches, err := filepath.Glob(filepath.Join(dir, pattern))
		if err != nil {
			return nil, err
		}
		paths = append(paths, matches...)
	}
	sort.Strings(paths)

	scenarios := make([]*Scenario, 0, len(paths))
	for _, path := range paths {
		s, err := LoadScenario(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, nil
}

// validateScenario checks that required fields are present and valid.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}

	if s.Description == "" {
		return fmt.Errorf("description is required")
	}

	if s.Card == nil {
		return fmt.Errorf("card is required")
	}

	if s.Metadata != nil && s.MetadataFile != "" {
		return fmt.Errorf("metadata and metadata_file are mutually exclusive")
	}

	if s.MetadataFile != "" {
		if _, err := os.Stat(s.MetadataFile); os.IsNotExist(err) {
			return fmt.Errorf("metadata file not found: %s", s.MetadataFile)
		}
	}

	if s.Expect.Mode == "" {
		return fmt.Errorf("expect.mode is required (use %q for no mode)", ModeNone)
	}

	for i, assertion := range s.Assertions {
		if err := validateAssertion(i, &assertion); err != nil {
			return err
		}
	}

	return nil
}

// validateAssertion validates a single assertion based on its type.
func validateAssertion(index int, a *Assertion) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	if a.List != ListActions && a.List != ListDrills {
		return fmt.Errorf("assertions[%d]: list must be %q or %q", index, ListActions, ListDrills)
	}

	switch a.Type {
	case AssertActionContains:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for action_contains", index)
		}
	case AssertActionOrder:
		if len(a.Names) == 0 {
			return fmt.Errorf("assertions[%d]: names list is required for action_order", index)
		}
	case AssertActionCount:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for action_count", index)
		}
		if a.Count < 0 {
			return fmt.Errorf("assertions[%d]: count must be non-negative for action_count", index)
		}
	case AssertActionQuery:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for action_query", index)
		}
		if len(a.Query) == 0 && len(a.Absent) == 0 {
			return fmt.Errorf("assertions[%d]: query or absent is required for action_query", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}

	return nil
}
