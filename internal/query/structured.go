package query

import (
	"strings"

	"github.com/roach88/querymode/internal/ir"
)

// MBQL keys of a structured query body.
const (
	keySourceTable = "source_table"
	keyAggregation = "aggregation"
	keyBreakout    = "breakout"
	keyFilter      = "filter"
	keyOrderBy     = "order_by"
)

// Sort directions used in order_by clauses.
const (
	Ascending  = "ascending"
	Descending = "descending"
)

// Structured is a structured (MBQL) query body.
// The body is held as an ir.IRObject so unknown keys round-trip untouched.
type Structured struct {
	body ir.IRObject
}

func (*Structured) queryNode() {}

func (s *Structured) cloneQuery() Query { return &Structured{body: s.body.Clone()} }

func (s *Structured) toIR() ir.IRObject {
	if s.body == nil {
		return ir.IRObject{}
	}
	return s.body
}

// NewStructured creates an empty structured query over a source table.
func NewStructured(sourceTable int64) *Structured {
	return &Structured{body: ir.IRObject{keySourceTable: ir.IRInt(sourceTable)}}
}

// Body returns the underlying clause object. Mutating it mutates the query.
func (s *Structured) Body() ir.IRObject {
	if s.body == nil {
		s.body = ir.IRObject{}
	}
	return s.body
}

// SourceTable returns the id of the source table, or 0 when absent.
func (s *Structured) SourceTable() int64 {
	id, _ := ir.AsInt(s.body[keySourceTable])
	return id
}

// Aggregations returns the aggregation clauses. The legacy single-clause
// form is wrapped, and "rows" means no aggregation.
func (s *Structured) Aggregations() []ir.IRArray {
	arr, ok := s.body[keyAggregation].(ir.IRArray)
	if !ok || len(arr) == 0 {
		return nil
	}

	var clauses []ir.IRArray
	if _, single := arr.Op(); single {
		clauses = []ir.IRArray{arr}
	} else {
		for _, elem := range arr {
			if clause, ok := elem.(ir.IRArray); ok {
				clauses = append(clauses, clause)
			}
		}
	}

	out := clauses[:0]
	for _, clause := range clauses {
		if op, _ := clause.Op(); strings.EqualFold(op, "rows") {
			continue
		}
		out = append(out, clause)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Breakouts returns the breakout field references in order.
func (s *Structured) Breakouts() []ir.IRValue {
	arr, ok := s.body[keyBreakout].(ir.IRArray)
	if !ok {
		return nil
	}
	var out []ir.IRValue
	for _, elem := range arr {
		if _, isNull := elem.(ir.IRNull); isNull || elem == nil {
			continue
		}
		out = append(out, elem)
	}
	return out
}

// Filters returns the top-level filter clauses. A compound AND is
// flattened one level; any other filter is returned on its own.
func (s *Structured) Filters() []ir.IRArray {
	arr, ok := s.body[keyFilter].(ir.IRArray)
	if !ok || len(arr) == 0 {
		return nil
	}

	op, _ := arr.Op()
	if !strings.EqualFold(op, "and") {
		return []ir.IRArray{arr}
	}

	var out []ir.IRArray
	for _, elem := range arr[1:] {
		if clause, ok := elem.(ir.IRArray); ok && len(clause) > 0 {
			out = append(out, clause)
		}
	}
	return out
}

// OrderBy returns the order_by clauses.
func (s *Structured) OrderBy() []ir.IRArray {
	arr, ok := s.body[keyOrderBy].(ir.IRArray)
	if !ok {
		return nil
	}
	var out []ir.IRArray
	for _, elem := range arr {
		if clause, ok := elem.(ir.IRArray); ok {
			out = append(out, clause)
		}
	}
	return out
}

// SetAggregation replaces all aggregations with a single clause.
func (s *Structured) SetAggregation(clause ir.IRArray) {
	s.Body()[keyAggregation] = ir.IRArray{clause}
}

// ClearAggregations removes every aggregation.
func (s *Structured) ClearAggregations() {
	delete(s.body, keyAggregation)
}

// AddBreakout appends a breakout field reference.
func (s *Structured) AddBreakout(ref ir.IRValue) {
	breakouts := append(ir.IRArray{}, s.Breakouts()...)
	s.Body()[keyBreakout] = append(breakouts, ref)
}

// ClearBreakouts removes every breakout.
func (s *Structured) ClearBreakouts() {
	delete(s.body, keyBreakout)
}

// AddFilter adds a filter clause, combining with existing filters via AND.
func (s *Structured) AddFilter(clause ir.IRArray) {
	existing := s.Filters()
	if len(existing) == 0 {
		s.Body()[keyFilter] = clause
		return
	}
	compound := ir.IRArray{ir.IRString("AND")}
	for _, f := range existing {
		compound = append(compound, f)
	}
	s.Body()[keyFilter] = append(compound, clause)
}

// AddOrderBy appends an order_by clause for ref in the given direction.
func (s *Structured) AddOrderBy(ref ir.IRValue, direction string) {
	clauses := ir.IRArray{}
	for _, c := range s.OrderBy() {
		clauses = append(clauses, c)
	}
	s.Body()[keyOrderBy] = append(clauses, ir.IRArray{ref, ir.IRString(direction)})
}

// ClearOrderBy removes every order_by clause.
func (s *Structured) ClearOrderBy() {
	delete(s.body, keyOrderBy)
}
