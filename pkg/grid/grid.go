// Package grid lays consecutive columns side by side to form a time axis.
//
// A [Grid] splits [From, To] into columns of one [Unit] (hour, day, week or
// month) each, builds every column's time frame partition from a calendar,
// and answers position and date queries across the whole axis by locating the
// right column first.
//
//	g, err := grid.Generate(calendar.Default(), grid.Options{
//	    From:           from,
//	    To:             to,
//	    Unit:           grid.UnitDay,
//	    Width:          1400,
//	    NonWorkingMode: timeframe.Cropped,
//	})
//	t := g.DateFromPosition(312.5, column.Snap{Amount: 15, Unit: column.UnitMinute})
//
// A [Builder] adds caching, logging and observability hooks for the CLI and
// the HTTP API.
package grid

import (
	"slices"
	"sort"
	"time"

	"github.com/matzehuels/timegrid/pkg/column"
)

// Grid is an ordered, contiguous run of columns. It is read-only once built
// and safe for concurrent queries.
type Grid struct {
	opts    Options
	columns []*column.Column
	width   float64
}

// Generate builds a grid from opts, using cal for every column's partition.
// cal may be nil.
func Generate(cal column.Calendar, opts Options) (*Grid, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	bounds, err := opts.boundaries()
	if err != nil {
		return nil, err
	}
	count := len(bounds) - 1

	width := opts.ColumnWidth
	if width == 0 {
		width = opts.Width / float64(count)
	}

	g := &Grid{opts: opts, columns: make([]*column.Column, 0, count)}
	for i := range count {
		c, err := column.New(bounds[i], bounds[i+1], g.width, width, cal, opts.WorkingMode, opts.NonWorkingMode)
		if err != nil {
			return nil, err
		}
		g.columns = append(g.columns, c)
		g.width += width
	}
	return g, nil
}

// Options returns the validated options the grid was built with.
func (g *Grid) Options() Options { return g.opts }

// Columns returns the columns, left to right.
func (g *Grid) Columns() []*column.Column { return slices.Clone(g.columns) }

// Width returns the total pixel width.
func (g *Grid) Width() float64 { return g.width }

// Start returns the start of the first column.
func (g *Grid) Start() time.Time { return g.columns[0].Start() }

// End returns the end of the last column.
func (g *Grid) End() time.Time { return g.columns[len(g.columns)-1].End() }

// ColumnAt returns the column under position. Positions left of the grid map
// to the first column and positions right of it to the last one. A position
// on a shared edge belongs to the column on its right.
func (g *Grid) ColumnAt(position float64) *column.Column {
	i := sort.Search(len(g.columns), func(i int) bool {
		c := g.columns[i]
		return position < c.Left()+c.Width()
	})
	if i == len(g.columns) {
		i--
	}
	return g.columns[i]
}

// ColumnFor returns the column containing t, using column.ContainsInstant
// semantics except that the grid's start belongs to the first column. ok is
// false outside the grid.
func (g *Grid) ColumnFor(t time.Time) (c *column.Column, ok bool) {
	if t.Equal(g.Start()) {
		return g.columns[0], true
	}
	if t.Before(g.Start()) || t.After(g.End()) {
		return nil, false
	}
	i := sort.Search(len(g.columns), func(i int) bool {
		return !g.columns[i].End().Before(t)
	})
	return g.columns[i], true
}

// DateFromPosition returns the instant at a grid position, snapped within
// the column under it.
func (g *Grid) DateFromPosition(position float64, snap column.Snap) time.Time {
	c := g.ColumnAt(position)
	return c.DateFromPosition(position-c.Left(), snap)
}

// PositionFromDate returns the grid position of t, clamped to [0, Width].
func (g *Grid) PositionFromDate(t time.Time) float64 {
	c, ok := g.ColumnFor(t)
	if !ok {
		if t.Before(g.Start()) {
			return 0
		}
		return g.width
	}
	return c.PositionFromDate(t)
}
