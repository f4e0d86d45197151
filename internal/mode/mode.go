// Package mode selects the interaction mode for a card and gathers the
// click actions and drill-downs that mode offers.
//
// A mode is a closed variant (Kind) mapped through a Registry to an ordered
// list of action creators and an ordered list of drill creators. Classify
// picks the Kind from the card's shape; CollectActions and CollectDrills
// call every creator of a mode, in order, and concatenate what they return.
//
// None of the operations here fail. Missing inputs yield a nil mode or an
// empty action list, and unresolvable field references simply fail the rule
// that needed them.
package mode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/query"
)

// Kind identifies one mode in the fixed set.
type Kind int

const (
	KindDefault Kind = iota
	KindNative
	KindObject
	KindSegment
	KindMetric
	KindTimeseries
	KindGeo
	KindPivot
)

// Kinds lists every mode in registry order.
var Kinds = []Kind{
	KindNative, KindObject, KindSegment, KindMetric,
	KindTimeseries, KindGeo, KindPivot, KindDefault,
}

var kindNames = map[Kind]string{
	KindDefault:    "default",
	KindNative:     "native",
	KindObject:     "object",
	KindSegment:    "segment",
	KindMetric:     "metric",
	KindTimeseries: "timeseries",
	KindGeo:        "geo",
	KindPivot:      "pivot",
}

// String returns the mode name.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind parses a mode name (case-insensitive).
func ParseKind(name string) (Kind, error) {
	for k, n := range kindNames {
		if strings.EqualFold(n, name) {
			return k, nil
		}
	}
	return KindDefault, fmt.Errorf("unknown mode %q", name)
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Column describes the result column a click landed on.
type Column struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
	FieldID     int64  `json:"id,omitempty"`
	// Source is "fields", "breakout" or "aggregation".
	Source string `json:"source,omitempty"`
}

// Column sources.
const (
	SourceFields      = "fields"
	SourceBreakout    = "breakout"
	SourceAggregation = "aggregation"
)

// Dimension is one breakout value of a clicked aggregated cell.
type Dimension struct {
	Value  ir.IRValue `json:"value"`
	Column Column     `json:"column"`
}

// ClickObject describes what was clicked in a visualization. A nil Value
// with a Column means the column header was clicked.
type ClickObject struct {
	Value      ir.IRValue  `json:"value,omitempty"`
	Column     *Column     `json:"column,omitempty"`
	Dimensions []Dimension `json:"dimensions,omitempty"`
}

// UnmarshalJSON decodes a dimension, keeping a null value as ir.IRNull.
func (d *Dimension) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value  json.RawMessage `json:"value"`
		Column Column          `json:"column"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := decodeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("dimension value: %w", err)
	}
	if value == nil {
		value = ir.IRNull{}
	}
	*d = Dimension{Value: value, Column: raw.Column}
	return nil
}

// UnmarshalJSON decodes a click. An absent value means a header click; an
// explicit null means a null cell.
func (c *ClickObject) UnmarshalJSON(data []byte) error {
	var raw struct {
		Value      json.RawMessage `json:"value"`
		Column     *Column         `json:"column"`
		Dimensions []Dimension     `json:"dimensions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	value, err := decodeValue(raw.Value)
	if err != nil {
		return fmt.Errorf("click value: %w", err)
	}
	*c = ClickObject{Value: value, Column: raw.Column, Dimensions: raw.Dimensions}
	return nil
}

// decodeValue returns nil for an absent value.
func decodeValue(raw json.RawMessage) (ir.IRValue, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	return ir.UnmarshalIRValue(raw)
}

// IsHeader reports whether the click was on a column header.
func (c *ClickObject) IsHeader() bool {
	return c != nil && c.Column != nil && c.Value == nil
}

// ClickAction is one executable action offered to the user. Card, when
// set, is the question the action navigates to.
type ClickAction struct {
	Name    string      `json:"name"`
	Section string      `json:"section"`
	Title   string      `json:"title"`
	Card    *query.Card `json:"card,omitempty"`
}

// ID returns the content-addressed id of the action.
func (a ClickAction) ID() (string, error) {
	fp := ""
	if a.Card != nil {
		var err error
		if fp, err = a.Card.Fingerprint(); err != nil {
			return "", err
		}
	}
	return ir.ActionID(a.Name, fp)
}

// Props is the context handed to every action creator. Card is a private
// copy that creators may mutate. Clicked is nil for toolbar actions.
type Props struct {
	Card     *query.Card
	Metadata *metadata.TableMetadata
	Clicked  *ClickObject
}

// ActionCreator produces zero or more click actions for a context.
type ActionCreator interface {
	Name() string
	Create(props Props) []ClickAction
}

// CreatorFunc adapts a function into an ActionCreator.
type CreatorFunc struct {
	ID string
	Fn func(props Props) []ClickAction
}

// Name implements ActionCreator.
func (c CreatorFunc) Name() string { return c.ID }

// Create implements ActionCreator.
func (c CreatorFunc) Create(props Props) []ClickAction { return c.Fn(props) }

// NewCreator wraps fn as a named ActionCreator.
func NewCreator(name string, fn func(props Props) []ClickAction) ActionCreator {
	return CreatorFunc{ID: name, Fn: fn}
}

// Mode is a named bundle of ordered action and drill creators.
type Mode struct {
	Kind    Kind
	Actions []ActionCreator
	Drills  []ActionCreator
}

// Name returns the mode name.
func (m *Mode) Name() string {
	return m.Kind.String()
}

// Registry maps each Kind to its Mode.
type Registry struct {
	modes map[Kind]*Mode
}

// NewRegistry builds a registry. Every Kind must be present exactly once.
func NewRegistry(modes ...*Mode) (*Registry, error) {
	r := &Registry{modes: make(map[Kind]*Mode, len(modes))}
	for _, m := range modes {
		if m == nil {
			return nil, fmt.Errorf("nil mode")
		}
		if _, dup := r.modes[m.Kind]; dup {
			return nil, fmt.Errorf("duplicate mode %s", m.Kind)
		}
		r.modes[m.Kind] = m
	}
	for _, k := range Kinds {
		if _, ok := r.modes[k]; !ok {
			return nil, fmt.Errorf("missing mode %s", k)
		}
	}
	return r, nil
}

// MustRegistry is NewRegistry that panics on error, for static wiring.
func MustRegistry(modes ...*Mode) *Registry {
	r, err := NewRegistry(modes...)
	if err != nil {
		panic(err)
	}
	return r
}

// Get returns the mode for a Kind.
func (r *Registry) Get(k Kind) *Mode {
	return r.modes[k]
}

// Modes returns every mode in Kinds order.
func (r *Registry) Modes() []*Mode {
	out := make([]*Mode, 0, len(Kinds))
	for _, k := range Kinds {
		out = append(out, r.modes[k])
	}
	return out
}
