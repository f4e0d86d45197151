package mode

import (
	"log/slog"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
	"github.com/roach88/querymode/internal/query"
)

// Classify picks the mode Kind for a card. ok is false when there is no
// mode: the card is nil, or it is structured with a body but md is nil.
//
// Rules, first match wins:
//  1. native card → native
//  2. structured card with a body:
//     a. no aggregations, no breakouts → object when some top-level "="
//     filter targets a PK of the source table, else segment
//     b. aggregations, no breakouts → metric
//     c. aggregations and breakouts, by resolved breakout fields:
//     [date] or [date, category] → timeseries
//     [address] → geo
//     [category] or [category, category] → pivot
//  3. anything else → default
//
// Two-breakout rules are order sensitive: [category, date] and [date, date]
// are default.
func Classify(card *query.Card, md *metadata.TableMetadata) (Kind, bool) {
	if card == nil {
		return KindDefault, false
	}

	if card.IsNative() {
		return KindNative, true
	}

	q := card.Structured()
	if !card.IsStructured() || q == nil {
		slog.Debug("mode: no structured body, using default")
		return KindDefault, true
	}
	if md == nil {
		slog.Debug("mode: structured card without table metadata")
		return KindDefault, false
	}

	aggregations := q.Aggregations()
	breakouts := q.Breakouts()

	if len(aggregations) == 0 && len(breakouts) == 0 {
		if hasPKFilter(q, md) {
			return KindObject, true
		}
		return KindSegment, true
	}

	if len(aggregations) > 0 && len(breakouts) == 0 {
		return KindMetric, true
	}

	if len(aggregations) > 0 && len(breakouts) > 0 {
		fields := make([]*metadata.Field, len(breakouts))
		for i, b := range breakouts {
			fields[i] = query.ResolveField(b, md)
		}
		if k, ok := classifyBreakouts(fields); ok {
			return k, true
		}
		slog.Debug("mode: breakouts match no rule, using default",
			"breakouts", len(breakouts))
	}

	return KindDefault, true
}

// classifyBreakouts applies the breakout-shape rules to resolved fields.
// Unresolved fields are nil and fail every predicate.
func classifyBreakouts(fields []*metadata.Field) (Kind, bool) {
	switch len(fields) {
	case 1:
		switch {
		case metadata.IsDate(fields[0]):
			return KindTimeseries, true
		case metadata.IsAddress(fields[0]):
			return KindGeo, true
		case metadata.IsCategory(fields[0]):
			return KindPivot, true
		}
	case 2:
		switch {
		case metadata.IsDate(fields[0]) && metadata.IsCategory(fields[1]):
			return KindTimeseries, true
		case metadata.IsCategory(fields[0]) && metadata.IsCategory(fields[1]):
			return KindPivot, true
		}
	}
	return KindDefault, false
}

// hasPKFilter reports whether any top-level "=" filter targets a primary key
// of the query's source table.
func hasPKFilter(q *query.Structured, md *metadata.TableMetadata) bool {
	for _, filter := range q.Filters() {
		if isPKFilter(filter, q.SourceTable(), md) {
			return true
		}
	}
	return false
}

func isPKFilter(filter ir.IRArray, sourceTable int64, md *metadata.TableMetadata) bool {
	ref, ok := query.EqualityTarget(filter)
	if !ok {
		return false
	}
	field := query.ResolveField(ref, md)
	return field != nil && field.TableID == sourceTable && metadata.IsPK(field)
}

// Select returns the registered mode for a card, or nil when Classify finds
// no mode.
func (r *Registry) Select(card *query.Card, md *metadata.TableMetadata) *Mode {
	k, ok := Classify(card, md)
	if !ok {
		return nil
	}
	slog.Debug("mode selected", "mode", k.String())
	return r.Get(k)
}
