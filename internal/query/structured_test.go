package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/ir"
)

func structuredFrom(t *testing.T, body string) *Structured {
	t.Helper()
	var obj ir.IRObject
	require.NoError(t, json.Unmarshal([]byte(body), &obj))
	return &Structured{body: obj}
}

func TestAggregations(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected int
	}{
		{"absent", `{"source_table": 1}`, 0},
		{"empty", `{"aggregation": []}`, 0},
		{"legacy single", `{"aggregation": ["count"]}`, 1},
		{"legacy rows", `{"aggregation": ["rows"]}`, 0},
		{"list", `{"aggregation": [["count"], ["sum", ["field-id", 3]]]}`, 2},
		{"list with rows", `{"aggregation": [["rows"], ["count"]]}`, 1},
		{"not an array", `{"aggregation": "count"}`, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Len(t, structuredFrom(t, tt.body).Aggregations(), tt.expected)
		})
	}
}

func TestFilters(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []string // operators in order
	}{
		{"absent", `{}`, nil},
		{"empty", `{"filter": []}`, nil},
		{"single", `{"filter": ["=", ["field-id", 1], 5]}`, []string{"="}},
		{"and", `{"filter": ["AND", ["=", ["field-id", 1], 5], ["<", ["field-id", 2], 3]]}`, []string{"=", "<"}},
		{"lowercase and", `{"filter": ["and", ["=", ["field-id", 1], 5]]}`, []string{"="}},
		{"or stays whole", `{"filter": ["OR", ["=", ["field-id", 1], 5], ["=", ["field-id", 1], 6]]}`, []string{"OR"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filters := structuredFrom(t, tt.body).Filters()
			var ops []string
			for _, f := range filters {
				op, _ := f.Op()
				ops = append(ops, op)
			}
			assert.Equal(t, tt.expected, ops)
		})
	}
}

func TestBreakouts(t *testing.T) {
	q := structuredFrom(t, `{"breakout": [["field-id", 1], null, 3]}`)
	assert.Equal(t, []ir.IRValue{FieldRef(1), ir.IRInt(3)}, q.Breakouts())

	assert.Nil(t, structuredFrom(t, `{}`).Breakouts())
}

func TestMutators(t *testing.T) {
	q := NewStructured(5)
	assert.Equal(t, int64(5), q.SourceTable())

	q.SetAggregation(ir.IRArray{ir.IRString("count")})
	require.Len(t, q.Aggregations(), 1)

	q.AddBreakout(FieldRef(1))
	q.AddBreakout(DatetimeRef(2, "month"))
	assert.Len(t, q.Breakouts(), 2)

	q.AddFilter(FilterClause("=", FieldRef(3), ir.IRString("x")))
	assert.Len(t, q.Filters(), 1)
	q.AddFilter(FilterClause(">", FieldRef(4), ir.IRInt(10)))
	filters := q.Filters()
	require.Len(t, filters, 2)
	op, _ := q.Body()["filter"].(ir.IRArray).Op()
	assert.Equal(t, "AND", op)

	q.AddOrderBy(FieldRef(1), Descending)
	require.Len(t, q.OrderBy(), 1)
	assert.Equal(t, ir.IRString(Descending), q.OrderBy()[0][1])

	q.ClearAggregations()
	q.ClearBreakouts()
	q.ClearOrderBy()
	assert.Empty(t, q.Aggregations())
	assert.Empty(t, q.Breakouts())
	assert.Empty(t, q.OrderBy())
	assert.Len(t, q.Filters(), 2, "filters untouched")
}

func TestSourceTableAbsent(t *testing.T) {
	assert.Equal(t, int64(0), structuredFrom(t, `{}`).SourceTable())
}
