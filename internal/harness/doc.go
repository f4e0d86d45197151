// Package harness runs mode-selection scenarios as executable contract
// tests.
//
// # Scenario Format
//
// Scenarios are YAML files:
//
//	name: timeseries_by_month
//	description: "A count broken out by a date is a timeseries"
//	metadata_file: ../fixtures/orders.yaml
//	card:
//	  dataset_query:
//	    type: query
//	    database: 1
//	    query:
//	      source_table: 1
//	      aggregation: [[count]]
//	      breakout: [[datetime-field, [field-id, 2], month]]
//	clicked:
//	  value: 10
//	  column: { name: count, source: aggregation }
//	expect:
//	  mode: timeseries
//	  actions: [underlying-data, pivot-by-category, pivot-by-location]
//	assertions:
//	  - type: action_query
//	    list: actions
//	    name: underlying-data
//	    query: { source_table: 1 }
//	    absent: [aggregation, breakout]
//
// Metadata is given inline under metadata: or by path under metadata_file:,
// resolved relative to the scenario file. Leaving both out runs the
// scenario without table metadata. expect.mode is "none" when no mode is
// selected. expect.actions and expect.drills, when present, must match the
// collected names exactly and in order.
//
// # Assertion Types
//
//   - action_contains: an action with the name (and title, if given) exists
//   - action_order: the names appear in this relative order
//   - action_count: the name appears exactly count times
//   - action_query: the first action with the name leads to a structured
//     query containing query (subset match) and none of the absent keys
//
// # Golden Snapshots
//
// RunWithGolden renders the result as text, one line per action with the
// canonical JSON of the dataset query it leads to, and compares it with
// testdata/golden/<name>.golden.
package harness
