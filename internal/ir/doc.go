// Package ir provides the constrained JSON value model used for opaque MBQL
// clauses (aggregations, breakouts, filters, order-by) inside a card.
//
// This package contains value types and their codecs only. All other internal
// packages import ir; ir imports nothing internal.
//
// Key design constraints:
//   - IRValue is a sealed interface; exhaustive type switches are safe
//   - Integral JSON numbers decode to IRInt, everything else to IRFloat
//   - Clone never aliases arrays or objects of its source
//   - All JSON tags use snake_case
package ir
