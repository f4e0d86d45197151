package actions

import (
	"fmt"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

// Creator names.
const (
	NameUnderlyingData  = "underlying-data"
	NameCountRows       = "count-rows"
	NamePivotByCategory = "pivot-by-category"
	NamePivotByLocation = "pivot-by-location"
	NamePivotByTime     = "pivot-by-time"
)

// UnderlyingData offers the raw rows behind a summarized card.
var UnderlyingData = mode.NewCreator(NameUnderlyingData, func(props mode.Props) []mode.ClickAction {
	if !isAggregated(props) {
		return nil
	}
	card, q := derive(props)
	q.ClearAggregations()
	q.ClearBreakouts()
	card.Display = displayTable
	return []mode.ClickAction{{
		Name:    NameUnderlyingData,
		Section: SectionRecords,
		Title:   "View the underlying data",
		Card:    card,
	}}
})

// CountRows summarizes a raw card into a row count.
var CountRows = mode.NewCreator(NameCountRows, func(props mode.Props) []mode.ClickAction {
	if props.Card.Structured() == nil || isAggregated(props) {
		return nil
	}
	card, q := derive(props)
	q.SetAggregation(ir.IRArray{ir.IRString("count")})
	q.ClearOrderBy()
	card.Display = displayScalar
	return []mode.ClickAction{{
		Name:    NameCountRows,
		Section: SectionSummarize,
		Title:   fmt.Sprintf("Count of %s", tableLabel(props.Metadata)),
		Card:    card,
	}}
})

// pivot describes one family of breakout pivots.
type pivot struct {
	name    string
	matches func(*metadata.Field) bool
	ref     func(*metadata.Field) ir.IRValue
	display string
}

var (
	categoryPivot = pivot{
		name:    NamePivotByCategory,
		matches: metadata.IsCategory,
		ref:     func(f *metadata.Field) ir.IRValue { return query.FieldRef(f.ID) },
		display: displayBar,
	}
	locationPivot = pivot{
		name:    NamePivotByLocation,
		matches: metadata.IsAddress,
		ref:     func(f *metadata.Field) ir.IRValue { return query.FieldRef(f.ID) },
		display: displayMap,
	}
	timePivot = pivot{
		name:    NamePivotByTime,
		matches: metadata.IsDate,
		ref:     func(f *metadata.Field) ir.IRValue { return query.DatetimeRef(f.ID, defaultTimeUnit) },
		display: displayLine,
	}
)

// create returns one action per matching source-table field not already
// broken out. As a drill it first narrows the card to the clicked cell's
// dimensions and replaces the existing breakouts.
func (p pivot) create(props mode.Props, drill bool) []mode.ClickAction {
	if !isAggregated(props) {
		return nil
	}
	used := breakoutIDs(props.Card.Structured())
	name := p.name
	var filters []ir.IRArray
	if drill {
		name += drillSuffix
		filters = dimensionFilters(props)
	}

	var out []mode.ClickAction
	for _, f := range props.Metadata.FieldsOf(p.matches) {
		if used[f.ID] {
			continue
		}
		card, q := derive(props)
		for _, filter := range filters {
			q.AddFilter(filter)
		}
		if drill {
			q.ClearBreakouts()
		}
		q.AddBreakout(p.ref(f))
		card.Display = p.display
		out = append(out, mode.ClickAction{
			Name:    name,
			Section: SectionBreakout,
			Title:   fmt.Sprintf("Break out by %s", f.Label()),
			Card:    card,
		})
	}
	return out
}

// PivotByCategory adds a category breakout to a summarized card.
var PivotByCategory = mode.NewCreator(NamePivotByCategory, func(props mode.Props) []mode.ClickAction {
	return categoryPivot.create(props, false)
})

// PivotByLocation adds an address breakout to a summarized card.
var PivotByLocation = mode.NewCreator(NamePivotByLocation, func(props mode.Props) []mode.ClickAction {
	return locationPivot.create(props, false)
})

// PivotByTime adds a date breakout, bucketed by day, to a summarized card.
var PivotByTime = mode.NewCreator(NamePivotByTime, func(props mode.Props) []mode.ClickAction {
	return timePivot.create(props, false)
})
