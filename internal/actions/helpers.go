package actions

import (
	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

// Sections group actions in the UI.
const (
	SectionRecords      = "records"
	SectionSummarize    = "summarize"
	SectionBreakout     = "breakout"
	SectionDetails      = "details"
	SectionFilter       = "filter"
	SectionSort         = "sort"
	SectionDistribution = "distribution"
)

// Display types set on derived cards.
const (
	displayTable  = "table"
	displayScalar = "scalar"
	displayBar    = "bar"
	displayLine   = "line"
	displayMap    = "map"
	displayObject = "object"
)

// defaultTimeUnit buckets date breakouts added by pivots.
const defaultTimeUnit = "day"

// derive clones the props card. It returns nil for native cards and
// structured cards without a body.
func derive(props mode.Props) (*query.Card, *query.Structured) {
	card := props.Card.Clone()
	q := card.Structured()
	if q == nil {
		return nil, nil
	}
	card.ID = 0
	card.Name = ""
	return card, q
}

// clickedField resolves the column of a click to table metadata.
func clickedField(props mode.Props) *metadata.Field {
	if props.Clicked == nil || props.Clicked.Column == nil || props.Clicked.Column.FieldID == 0 {
		return nil
	}
	return props.Metadata.Field(props.Clicked.Column.FieldID)
}

// hasValue reports whether a value cell (not a header) was clicked.
func hasValue(props mode.Props) bool {
	return props.Clicked != nil && props.Clicked.Value != nil && props.Clicked.Column != nil
}

// isAggregated reports whether the card summarizes its rows.
func isAggregated(props mode.Props) bool {
	q := props.Card.Structured()
	return q != nil && len(q.Aggregations()) > 0
}

// breakoutIDs returns the ids of fields already used as breakouts.
func breakoutIDs(q *query.Structured) map[int64]bool {
	ids := make(map[int64]bool)
	for _, b := range q.Breakouts() {
		if id, ok := query.FieldTargetID(b); ok {
			ids[id] = true
		}
	}
	return ids
}

// dimensionFilters turns the breakout values of a clicked cell into "="
// filters. Dimensions without a field id are skipped.
func dimensionFilters(props mode.Props) []ir.IRArray {
	if props.Clicked == nil {
		return nil
	}
	var out []ir.IRArray
	for _, d := range props.Clicked.Dimensions {
		if d.Column.FieldID == 0 {
			continue
		}
		out = append(out, query.FilterClause("=", query.FieldRef(d.Column.FieldID), ir.Clone(d.Value)))
	}
	return out
}

// columnLabel prefers the display name of the clicked column.
func columnLabel(c *mode.Column) string {
	if c.DisplayName != "" {
		return c.DisplayName
	}
	return c.Name
}

// tableLabel names the source table of the metadata.
func tableLabel(md *metadata.TableMetadata) string {
	if md.DisplayName != "" {
		return md.DisplayName
	}
	return md.Name
}
