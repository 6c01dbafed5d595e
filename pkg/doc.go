// Package pkg provides the libraries behind timegrid.
//
// Timegrid maps time onto a horizontal pixel axis. The axis is split into
// columns, each column is partitioned into working and non-working time
// frames by a calendar, and positions and dates convert into each other
// across frames that may be hidden or cropped out of the axis.
//
// The packages build on each other:
//
//	[timeframe]   frame values, placements and display modes
//	     ↓
//	[calendar]    templates and rules producing a day's frames
//	     ↓
//	[column]      partition, cropping, position↔date mapping, snapping
//	     ↓
//	[grid]        consecutive columns, export, cached building
//	     ↓
//	[api]         HTTP API over stored grids
//
// [cache], [errors] and [observability] are shared infrastructure.
//
// # Quick Start
//
//	g, err := grid.Generate(calendar.Default(), grid.Options{
//	    From:           time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
//	    To:             time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC),
//	    Width:          700,
//	    NonWorkingMode: timeframe.Cropped,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	x := g.PositionFromDate(time.Date(2026, 3, 4, 13, 0, 0, 0, time.UTC)) // 250
//	t := g.DateFromPosition(x, column.Snap{Amount: 15, Unit: column.UnitMinute})
package pkg
