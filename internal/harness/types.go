package harness

import (
	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/mode"
)

// ActionRecord is one collected action as the harness reports it.
type ActionRecord struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Section string `json:"section"`
	Title   string `json:"title"`
	// Query is the dataset query of the card the action leads to.
	Query ir.IRObject `json:"dataset_query,omitempty"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Scenario is the scenario name.
	Scenario string `json:"scenario"`

	// Pass is true when every expectation and assertion held.
	Pass bool `json:"pass"`

	// Mode is the selected mode name, or "none".
	Mode string `json:"mode"`

	// Actions and Drills are the collected actions in order.
	Actions []ActionRecord `json:"actions"`
	Drills  []ActionRecord `json:"drills"`

	// Errors contains one message per failed check.
	Errors []string `json:"errors,omitempty"`
}

// NewResult creates a new passing result.
func NewResult(name string) *Result {
	return &Result{
		Scenario: name,
		Pass:     true,
		Mode:     ModeNone,
		Actions:  []ActionRecord{},
		Drills:   []ActionRecord{},
		Errors:   []string{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// List returns the actions or drills by list name.
func (r *Result) List(name string) []ActionRecord {
	if name == ListDrills {
		return r.Drills
	}
	return r.Actions
}

// Records converts click actions, computing their ids.
func Records(actions []mode.ClickAction) ([]ActionRecord, error) {
	out := make([]ActionRecord, 0, len(actions))
	for _, a := range actions {
		id, err := a.ID()
		if err != nil {
			return nil, err
		}
		rec := ActionRecord{ID: id, Name: a.Name, Section: a.Section, Title: a.Title}
		if a.Card != nil {
			rec.Query = a.Card.DatasetQuery.ToIR()
		}
		out = append(out, rec)
	}
	return out, nil
}

func names(recs []ActionRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Name
	}
	return out
}
