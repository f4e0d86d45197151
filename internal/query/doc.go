// Package query models the query descriptor behind a card.
//
// A card's dataset query is either native (raw SQL, never inspected) or
// structured: a source table plus MBQL clauses for aggregations, breakouts,
// filters and ordering. Clauses stay as ir values; this package only gives
// them shape.
//
// SEALED INTERFACES:
//
// Query is a sealed interface using the marker method pattern. Only *Native
// and *Structured implement it, so type switches over a Query are exhaustive:
//
//	switch q := card.DatasetQuery.Query.(type) {
//	case *Structured:
//	    // inspect clauses
//	case *Native:
//	    // opaque
//	}
//
// A structured dataset query whose body is missing has a nil Query. Callers
// see IsStructured() == true and Structured() == nil.
//
// CLAUSE SHAPES:
//
//	aggregation  ["count"] | [["count"], ["sum", ref]] | ["rows"] (no aggregation)
//	breakout     [ref, ref, ...]
//	filter       ["=", ref, value] | ["AND", filter, filter, ...]
//	order_by     [[ref, "ascending"], ...]
//
// Field references resolve through FieldTargetID:
//
//	7                                        bare field id
//	["field-id", 7]
//	["fk->", ["field-id", 3], ["field-id", 7]]   destination field 7
//	["datetime-field", ref, "month"]         wrapped ref
//	["binning-strategy", ref, "default"]     wrapped ref
//	["field-literal", "name", "type/Text"]   unresolvable
//
// COPY SEMANTICS:
//
// Card.Clone produces a deep copy that never aliases the source. Click
// actions receive such a copy and may mutate it freely.
package query
