package actions

import (
	"fmt"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/mode"
	"github.com/roach88/querymode/internal/query"
)

// Drill names.
const (
	NameObjectDetail      = "object-detail"
	NameQuickFilter       = "quick-filter"
	NameSort              = "sort"
	NameUnderlyingRecords = "underlying-records"
	NameCountByColumn     = "count-by-column"

	drillSuffix = "-drill"

	NamePivotByCategoryDrill = NamePivotByCategory + drillSuffix
	NamePivotByLocationDrill = NamePivotByLocation + drillSuffix
	NamePivotByTimeDrill     = NamePivotByTime + drillSuffix
)

// ObjectDetail opens the record behind a clicked primary or foreign key.
var ObjectDetail = mode.NewCreator(NameObjectDetail, func(props mode.Props) []mode.ClickAction {
	if !hasValue(props) || isNull(props.Clicked.Value) {
		return nil
	}

	pk := clickedField(props)
	if pk != nil && !metadata.IsPK(pk) && pk.TargetID != 0 {
		pk = props.Metadata.Field(pk.TargetID)
	}
	if !metadata.IsPK(pk) {
		return nil
	}

	card := query.NewStructuredCard(props.Card.DatasetQuery.Database, pk.TableID)
	card.Structured().AddFilter(query.FilterClause("=", query.FieldRef(pk.ID), ir.Clone(props.Clicked.Value)))
	card.Display = displayObject
	return []mode.ClickAction{{
		Name:    NameObjectDetail,
		Section: SectionDetails,
		Title:   "View details",
		Card:    card,
	}}
})

// QuickFilter narrows the card to rows matching, or not matching, a clicked
// value. Numeric values also get < and >.
var QuickFilter = mode.NewCreator(NameQuickFilter, func(props mode.Props) []mode.ClickAction {
	if !hasValue(props) || props.Clicked.Column.Source == mode.SourceAggregation {
		return nil
	}
	field := clickedField(props)
	if field == nil || props.Card.Structured() == nil {
		return nil
	}

	ref := query.FieldRef(field.ID)
	value := props.Clicked.Value

	var clauses []ir.IRArray
	var titles []string
	switch {
	case isNull(value):
		clauses = []ir.IRArray{
			{ir.IRString("IS_NULL"), ref},
			{ir.IRString("NOT_NULL"), ref},
		}
		titles = []string{"is empty", "is not empty"}
	default:
		ops := []string{"=", "!="}
		if ir.IsNumber(value) && !metadata.IsPK(field) {
			ops = []string{"<", ">", "=", "!="}
		}
		rendered := renderValue(value)
		for _, op := range ops {
			clauses = append(clauses, query.FilterClause(op, ref, ir.Clone(value)))
			titles = append(titles, fmt.Sprintf("%s %s", op, rendered))
		}
	}

	out := make([]mode.ClickAction, 0, len(clauses))
	for i, clause := range clauses {
		card, q := derive(props)
		q.AddFilter(clause)
		out = append(out, mode.ClickAction{
			Name:    NameQuickFilter,
			Section: SectionFilter,
			Title:   titles[i],
			Card:    card,
		})
	}
	return out
})

// Sort orders the card by a clicked column header. The direction the card is
// already sorted in is not offered.
var Sort = mode.NewCreator(NameSort, func(props mode.Props) []mode.ClickAction {
	if !props.Clicked.IsHeader() {
		return nil
	}
	q := props.Card.Structured()
	if q == nil {
		return nil
	}

	var ref ir.IRValue
	switch {
	case props.Clicked.Column.Source == mode.SourceAggregation:
		if len(q.Aggregations()) != 1 {
			return nil
		}
		ref = ir.IRArray{ir.IRString("aggregation"), ir.IRInt(0)}
	case clickedField(props) != nil:
		ref = query.FieldRef(clickedField(props).ID)
	default:
		return nil
	}

	var out []mode.ClickAction
	for _, dir := range []string{query.Ascending, query.Descending} {
		if sortedBy(q, ref, dir) {
			continue
		}
		card, dq := derive(props)
		dq.ClearOrderBy()
		dq.AddOrderBy(ir.Clone(ref), dir)
		out = append(out, mode.ClickAction{
			Name:    NameSort,
			Section: SectionSort,
			Title:   fmt.Sprintf("Sort %s", dir),
			Card:    card,
		})
	}
	return out
})

// sortedBy reports whether the primary sort of q is ref in direction dir.
func sortedBy(q *query.Structured, ref ir.IRValue, dir string) bool {
	clauses := q.OrderBy()
	if len(clauses) == 0 || len(clauses[0]) < 2 {
		return false
	}
	return ir.Equal(clauses[0][0], ref) && ir.Equal(clauses[0][1], ir.IRString(dir))
}

// UnderlyingRecords lists the rows behind a clicked aggregated cell.
var UnderlyingRecords = mode.NewCreator(NameUnderlyingRecords, func(props mode.Props) []mode.ClickAction {
	if !isAggregateCell(props) {
		return nil
	}
	card, q := derive(props)
	q.ClearAggregations()
	q.ClearBreakouts()
	q.ClearOrderBy()
	for _, filter := range dimensionFilters(props) {
		q.AddFilter(filter)
	}
	card.Display = displayTable
	return []mode.ClickAction{{
		Name:    NameUnderlyingRecords,
		Section: SectionRecords,
		Title:   fmt.Sprintf("View these %s", tableLabel(props.Metadata)),
		Card:    card,
	}}
})

// CountByColumn shows the distribution of a clicked column header of a raw
// card. Key columns are skipped.
var CountByColumn = mode.NewCreator(NameCountByColumn, func(props mode.Props) []mode.ClickAction {
	if !props.Clicked.IsHeader() || isAggregated(props) {
		return nil
	}
	field := clickedField(props)
	if field == nil || metadata.IsPK(field) || field.TargetID != 0 {
		return nil
	}
	card, q := derive(props)
	if q == nil {
		return nil
	}
	q.SetAggregation(ir.IRArray{ir.IRString("count")})
	q.ClearBreakouts()
	q.ClearOrderBy()
	q.AddBreakout(query.FieldRef(field.ID))
	card.Display = displayBar
	return []mode.ClickAction{{
		Name:    NameCountByColumn,
		Section: SectionDistribution,
		Title:   fmt.Sprintf("Distribution of %s", columnLabel(props.Clicked.Column)),
		Card:    card,
	}}
})

// PivotByCategoryDrill breaks a clicked aggregated cell out by category.
var PivotByCategoryDrill = mode.NewCreator(NamePivotByCategoryDrill, func(props mode.Props) []mode.ClickAction {
	if !isAggregateCell(props) {
		return nil
	}
	return categoryPivot.create(props, true)
})

// PivotByLocationDrill breaks a clicked aggregated cell out by location.
var PivotByLocationDrill = mode.NewCreator(NamePivotByLocationDrill, func(props mode.Props) []mode.ClickAction {
	if !isAggregateCell(props) {
		return nil
	}
	return locationPivot.create(props, true)
})

// PivotByTimeDrill breaks a clicked aggregated cell out by day.
var PivotByTimeDrill = mode.NewCreator(NamePivotByTimeDrill, func(props mode.Props) []mode.ClickAction {
	if !isAggregateCell(props) {
		return nil
	}
	return timePivot.create(props, true)
})

// isAggregateCell reports whether the click landed on an aggregation value of
// a summarized card.
func isAggregateCell(props mode.Props) bool {
	return hasValue(props) &&
		props.Clicked.Column.Source == mode.SourceAggregation &&
		isAggregated(props)
}

func isNull(v ir.IRValue) bool {
	_, ok := v.(ir.IRNull)
	return ok
}

// renderValue formats a clicked value for a title.
func renderValue(v ir.IRValue) string {
	data, err := ir.MarshalIRValue(v)
	if err != nil {
		return "?"
	}
	return string(data)
}
