package cli

import (
	"fmt"
	"strings"

	"github.com/roach88/querymode/internal/harness"
)

// ModeResult is the output of the mode command.
type ModeResult struct {
	Mode string `json:"mode"`
}

func (r ModeResult) String() string {
	return "mode: " + r.Mode
}

// ActionsResult is the output of the actions command.
type ActionsResult struct {
	Mode    string                 `json:"mode"`
	Actions []harness.ActionRecord `json:"actions"`
}

func (r ActionsResult) String() string {
	return renderList(r.Mode, "actions", r.Actions)
}

// DrillsResult is the output of the drills command.
type DrillsResult struct {
	Mode   string                 `json:"mode"`
	Drills []harness.ActionRecord `json:"drills"`
}

func (r DrillsResult) String() string {
	return renderList(r.Mode, "drills", r.Drills)
}

func renderList(modeName, label string, recs []harness.ActionRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, "mode: %s\n", modeName)
	fmt.Fprintf(&b, "%s: %d", label, len(recs))
	for _, rec := range recs {
		fmt.Fprintf(&b, "\n  - %s [%s] %s", rec.Name, rec.Section, rec.Title)
	}
	return b.String()
}

// ModeInfo describes one registered mode.
type ModeInfo struct {
	Name    string   `json:"name"`
	Actions []string `json:"actions"`
	Drills  []string `json:"drills"`
}

// ModesResult is the output of the modes command.
type ModesResult struct {
	Modes []ModeInfo `json:"modes"`
}

func (r ModesResult) String() string {
	var b strings.Builder
	for i, m := range r.Modes {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%s\n  actions: %s\n  drills:  %s", m.Name, joinOrDash(m.Actions), joinOrDash(m.Drills))
	}
	return b.String()
}

func joinOrDash(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
