package harness

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/ir"
)

func sampleList() []ActionRecord {
	return []ActionRecord{
		{Name: "underlying-data", Title: "View the underlying data", Query: ir.IRObject{
			"type":  ir.IRString("query"),
			"query": ir.IRObject{"source_table": ir.IRInt(1)},
		}},
		{Name: "pivot-by-category", Title: "Break out by Status", Query: ir.IRObject{
			"type": ir.IRString("query"),
			"query": ir.IRObject{
				"source_table": ir.IRInt(1),
				"aggregation":  ir.IRArray{ir.IRArray{ir.IRString("count")}},
				"breakout":     ir.IRArray{ir.IRArray{ir.IRString("field-id"), ir.IRInt(5)}},
			},
		}},
		{Name: "pivot-by-category", Title: "Break out by Category"},
		{Name: "native", Title: "Native", Query: ir.IRObject{"type": ir.IRString("native")}},
	}
}

func TestAssertContains(t *testing.T) {
	list := sampleList()

	assert.NoError(t, assertContains(list, Assertion{Name: "pivot-by-category"}))
	assert.NoError(t, assertContains(list, Assertion{Name: "pivot-by-category", Title: "Break out by Category"}))

	err := assertContains(list, Assertion{Name: "pivot-by-category", Title: "Break out by Total"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `titled "Break out by Total"`)
	assert.Contains(t, err.Error(), "[1] underlying-data")

	assert.Error(t, assertContains(list, Assertion{Name: "sort"}))
}

func TestAssertOrder(t *testing.T) {
	list := sampleList()

	assert.NoError(t, assertOrder(list, Assertion{Names: []string{"underlying-data", "native"}}))
	assert.NoError(t, assertOrder(list, Assertion{Names: []string{"pivot-by-category"}}))

	err := assertOrder(list, Assertion{Names: []string{"native", "underlying-data"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "native before underlying-data")

	err = assertOrder(list, Assertion{Names: []string{"underlying-data", "sort"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sort not collected")
}

func TestAssertCount(t *testing.T) {
	list := sampleList()

	assert.NoError(t, assertCount(list, Assertion{Name: "pivot-by-category", Count: 2}))
	assert.NoError(t, assertCount(list, Assertion{Name: "sort", Count: 0}))

	err := assertCount(list, Assertion{Name: "pivot-by-category", Count: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "2 times")
}

func TestAssertQuery(t *testing.T) {
	list := sampleList()

	assert.NoError(t, assertQuery(list, Assertion{
		Name:   "underlying-data",
		Query:  map[string]any{"source_table": 1},
		Absent: []string{"aggregation"},
	}))
	assert.NoError(t, assertQuery(list, Assertion{
		Name:  "pivot-by-category",
		Query: map[string]any{"breakout": []any{[]any{"field-id", 5}}},
	}))
}

func TestAssertQuery_Failures(t *testing.T) {
	list := sampleList()

	tests := []struct {
		name      string
		assertion Assertion
		want      string
	}{
		{"missing action", Assertion{Name: "sort", Absent: []string{"x"}}, "not collected"},
		{"native query", Assertion{Name: "native", Absent: []string{"x"}}, "no structured query"},
		{"mismatch", Assertion{Name: "underlying-data", Query: map[string]any{"source_table": 2}}, `{"source_table":1}`},
		{"present key", Assertion{Name: "pivot-by-category", Absent: []string{"breakout"}}, "no breakout clause"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := assertQuery(list, tt.assertion)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestEvaluateAssertions(t *testing.T) {
	result := NewResult("eval")
	result.Actions = sampleList()
	result.Drills = []ActionRecord{{Name: "sort"}}

	errs := EvaluateAssertions(result, []Assertion{
		{Type: AssertActionContains, List: ListActions, Name: "native"},
		{Type: AssertActionContains, List: ListDrills, Name: "sort"},
		{Type: AssertActionContains, List: ListDrills, Name: "native"},
		{Type: "bogus", List: ListActions},
	})

	require.Len(t, errs, 2)
	assert.Contains(t, errs[0], "action_contains")
	assert.Contains(t, errs[1], `unknown assertion type "bogus"`)
}

func TestResult_AddError(t *testing.T) {
	result := NewResult("r")
	assert.True(t, result.Pass)
	assert.Equal(t, ModeNone, result.Mode)

	result.AddError("boom")
	assert.False(t, result.Pass)
	assert.Equal(t, []string{"boom"}, result.Errors)
}
