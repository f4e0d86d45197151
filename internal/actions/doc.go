// Package actions holds the click actions and drill-downs shipped with
// querymode and the registry that binds them to modes.
//
// Toolbar actions look only at the card. Drills also look at the click:
//
//	value cell      quick-filter, object-detail (PK columns)
//	column header   sort, count-by-column
//	aggregated cell underlying-records, pivot-by-*-drill
//
// Every action that leads somewhere carries a new card built from a clone of
// Props.Card, so actions returned from one call never share clause values.
package actions
