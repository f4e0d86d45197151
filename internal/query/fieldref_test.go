package query

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
)

func parseRef(t *testing.T, s string) ir.IRValue {
	t.Helper()
	v, err := ir.UnmarshalIRValue([]byte(s))
	require.NoError(t, err)
	return v
}

func TestFieldTargetID(t *testing.T) {
	tests := []struct {
		name string
		ref  string
		id   int64
		ok   bool
	}{
		{"bare id", `7`, 7, true},
		{"field-id", `["field-id", 7]`, 7, true},
		{"fk", `["fk->", ["field-id", 3], ["field-id", 7]]`, 7, true},
		{"legacy fk", `["fk->", 3, 7]`, 7, true},
		{"datetime", `["datetime-field", ["field-id", 7], "month"]`, 7, true},
		{"legacy datetime", `["datetime-field", ["field-id", 7], "as", "month"]`, 7, true},
		{"datetime over fk", `["datetime-field", ["fk->", 3, 7], "day"]`, 7, true},
		{"binning", `["binning-strategy", ["field-id", 7], "default"]`, 7, true},
		{"literal", `["field-literal", "count", "type/Integer"]`, 0, false},
		{"expression", `["expression", "profit"]`, 0, false},
		{"string", `"7"`, 0, false},
		{"empty", `[]`, 0, false},
		{"short fk", `["fk->", 3]`, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok := FieldTargetID(parseRef(t, tt.ref))
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.id, id)
		})
	}
}

func TestResolveField(t *testing.T) {
	md := (&metadata.TableMetadata{
		Table: metadata.Table{ID: 1, Name: "ORDERS", Fields: []*metadata.Field{
			metadata.NewField(7, 1, "CREATED_AT", metadata.SemanticDate),
		}},
	}).Index()

	f := ResolveField(DatetimeRef(7, "week"), md)
	require.NotNil(t, f)
	assert.Equal(t, "CREATED_AT", f.Name)

	assert.Nil(t, ResolveField(FieldRef(8), md))
	assert.Nil(t, ResolveField(parseRef(t, `["expression", "x"]`), md))
	assert.Nil(t, ResolveField(FieldRef(7), nil))
}

func TestEqualityTarget(t *testing.T) {
	ref, ok := EqualityTarget(FilterClause("=", FieldRef(1), ir.IRInt(5)))
	require.True(t, ok)
	assert.Equal(t, FieldRef(1), ref)

	_, ok = EqualityTarget(FilterClause("!=", FieldRef(1), ir.IRInt(5)))
	assert.False(t, ok)

	_, ok = EqualityTarget(ir.IRArray{ir.IRString("=")})
	assert.False(t, ok)
}

func TestFilterClauseNilValue(t *testing.T) {
	clause := FilterClause("=", FieldRef(1), nil)
	assert.Equal(t, ir.IRNull{}, clause[2])

	out, err := json.Marshal(clause)
	require.NoError(t, err)
	assert.Equal(t, `["=",["field-id",1],null]`, string(out))
}
