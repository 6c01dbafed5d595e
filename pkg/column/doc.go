// Package column maps one vertical slice of a time-axis grid between instants
// and pixel positions.
//
// A [Column] spans [start, end] in time and [left, left+width] in pixels. When
// a [Calendar] is attached, the column partitions its span into time frames
// (working hours, breaks, holidays) day by day, places each frame on the pixel
// axis, and optionally crops frames of one classification so that their width
// is handed to the remaining frames.
//
// # Building
//
// Construction validates the span and width and builds the partition:
//
//	col, err := column.New(start, end, 0, 240, cal, timeframe.Visible, timeframe.Cropped)
//	if err != nil {
//	    return err
//	}
//
// The partition is rebuilt from scratch by [Column.UpdateTimeFrames]; it is never
// patched incrementally.
//
// # Queries
//
// [Column.DateFromPosition] takes a position relative to the column's left edge;
// [Column.PositionFromDate] returns an absolute position (left edge included).
// Both honour cropped frames. Snapping is described by a [Snap]:
//
//	t := col.DateFromPosition(137, column.Snap{Amount: 15, Unit: column.UnitMinute})
//
// # Concurrency
//
// A Column is not safe for concurrent mutation. Once built, read-only queries
// may run from several goroutines.
package column
