package query

import (
	"strings"

	"github.com/roach88/querymode/internal/ir"
	"github.com/roach88/querymode/internal/metadata"
)

// Field reference operators.
const (
	OpFieldID         = "field-id"
	OpFK              = "fk->"
	OpDatetimeField   = "datetime-field"
	OpBinningStrategy = "binning-strategy"
	OpFieldLiteral    = "field-literal"
	OpExpression      = "expression"
)

// FieldTargetID returns the id of the field a reference points at.
// For fk-> references this is the destination field. References without a
// database field (literals, expressions) return false.
func FieldTargetID(ref ir.IRValue) (int64, bool) {
	switch r := ref.(type) {
	case ir.IRInt:
		return int64(r), true
	case ir.IRArray:
		op, ok := r.Op()
		if !ok || len(r) < 2 {
			return 0, false
		}
		switch strings.ToLower(op) {
		case OpFieldID:
			return ir.AsInt(r[1])
		case OpFK:
			if len(r) < 3 {
				return 0, false
			}
			return FieldTargetID(r[2])
		case OpDatetimeField, OpBinningStrategy:
			return FieldTargetID(r[1])
		}
	}
	return 0, false
}

// ResolveField looks up the field a reference points at. It returns nil for
// unresolvable references, which fail every semantic predicate.
func ResolveField(ref ir.IRValue, md *metadata.TableMetadata) *metadata.Field {
	id, ok := FieldTargetID(ref)
	if !ok {
		return nil
	}
	return md.Field(id)
}

// FieldRef builds a ["field-id", id] reference.
func FieldRef(id int64) ir.IRArray {
	return ir.IRArray{ir.IRString(OpFieldID), ir.IRInt(id)}
}

// DatetimeRef builds a ["datetime-field", ["field-id", id], unit] reference.
func DatetimeRef(id int64, unit string) ir.IRArray {
	return ir.IRArray{ir.IRString(OpDatetimeField), FieldRef(id), ir.IRString(unit)}
}

// FilterClause builds a [op, ref, value] filter.
func FilterClause(op string, ref ir.IRValue, value ir.IRValue) ir.IRArray {
	if value == nil {
		value = ir.IRNull{}
	}
	return ir.IRArray{ir.IRString(op), ref, value}
}

// EqualityTarget returns the field reference of a top-level ["=", ref, value]
// filter. Other operators return false.
func EqualityTarget(filter ir.IRArray) (ir.IRValue, bool) {
	op, ok := filter.Op()
	if !ok || op != "=" || len(filter) < 2 {
		return nil, false
	}
	return filter[1], true
}
