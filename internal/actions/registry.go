package actions

import "github.com/roach88/querymode/internal/mode"

// Creator lists shared by several modes.
var (
	defaultActions = []mode.ActionCreator{UnderlyingData}
	defaultDrills  = []mode.ActionCreator{Sort, ObjectDetail, QuickFilter, UnderlyingRecords}
)

func with(base []mode.ActionCreator, extra ...mode.ActionCreator) []mode.ActionCreator {
	out := make([]mode.ActionCreator, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}

// Modes returns the built-in mode bundles, one per Kind.
func Modes() []*mode.Mode {
	return []*mode.Mode{
		{Kind: mode.KindNative},
		{
			Kind:   mode.KindObject,
			Drills: []mode.ActionCreator{ObjectDetail, QuickFilter},
		},
		{
			Kind:    mode.KindSegment,
			Actions: with(defaultActions, CountRows),
			Drills:  with(defaultDrills, CountByColumn),
		},
		{
			Kind:    mode.KindMetric,
			Actions: with(defaultActions, PivotByTime, PivotByCategory, PivotByLocation),
			Drills:  with(defaultDrills),
		},
		{
			Kind:    mode.KindTimeseries,
			Actions: with(defaultActions, PivotByCategory, PivotByLocation),
			Drills:  with(defaultDrills, PivotByCategoryDrill, PivotByLocationDrill),
		},
		{
			Kind:    mode.KindGeo,
			Actions: with(defaultActions, PivotByCategory, PivotByTime),
			Drills:  with(defaultDrills, PivotByCategoryDrill, PivotByTimeDrill),
		},
		{
			Kind:    mode.KindPivot,
			Actions: with(defaultActions, PivotByCategory, PivotByLocation, PivotByTime),
			Drills:  with(defaultDrills, PivotByCategoryDrill, PivotByLocationDrill, PivotByTimeDrill),
		},
		{
			Kind:    mode.KindDefault,
			Actions: with(defaultActions),
			Drills:  with(defaultDrills),
		},
	}
}

// DefaultRegistry returns a registry of the built-in modes.
func DefaultRegistry() *mode.Registry {
	return mode.MustRegistry(Modes()...)
}
