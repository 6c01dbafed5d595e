package column

import (
	"slices"
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// Epsilon is the tolerance for pixel comparisons.
const Epsilon = 1e-9

// Calendar supplies the time frames that partition a column.
type Calendar interface {
	// Frames returns the raw frames applicable to the calendar day of day.
	// Boundaries may be undefined (zero).
	Frames(day time.Time) []timeframe.TimeFrame

	// Solve clips frames to [start, end], resolves overlaps and fills gaps so
	// that the result covers the range exactly. It must not modify frames.
	Solve(frames []timeframe.TimeFrame, start, end time.Time) []timeframe.TimeFrame
}

// DayKey identifies a calendar day.
type DayKey struct {
	Year  int
	Month time.Month
	Day   int
}

// KeyOf returns the day key of t in t's location.
func KeyOf(t time.Time) DayKey {
	y, m, d := t.Date()
	return DayKey{Year: y, Month: m, Day: d}
}

// dayRange locates one day's frames inside Column.frames.
type dayRange struct{ lo, hi int }

// Column is one slice of the time axis.
type Column struct {
	start    time.Time
	end      time.Time
	left     float64
	width    float64
	duration time.Duration
	original timeframe.Placement

	calendar       Calendar
	workingMode    timeframe.DisplayMode
	nonWorkingMode timeframe.DisplayMode

	frames  []timeframe.TimeFrame
	visible []timeframe.TimeFrame
	days    map[DayKey]dayRange
	cropped bool
}

// New creates a column and builds its time frame partition.
//
// cal may be nil, in which case the column has no frames. Empty display modes
// default to hidden. The span must be non-empty and the width positive.
func New(start, end time.Time, left, width float64, cal Calendar, working, nonWorking timeframe.DisplayMode) (*Column, error) {
	if err := errors.ValidateSpan(start, end); err != nil {
		return nil, err
	}
	if err := errors.ValidateWidth(width); err != nil {
		return nil, err
	}

	var err error
	if working, err = timeframe.ParseDisplayMode(string(working)); err != nil {
		return nil, err
	}
	if nonWorking, err = timeframe.ParseDisplayMode(string(nonWorking)); err != nil {
		return nil, err
	}

	c := &Column{
		start:          start,
		end:            end,
		left:           left,
		width:          width,
		duration:       end.Sub(start),
		original:       timeframe.Placement{Left: left, Width: width},
		calendar:       cal,
		workingMode:    working,
		nonWorkingMode: nonWorking,
	}
	if err := c.UpdateTimeFrames(); err != nil {
		return nil, err
	}
	return c, nil
}

// Start returns the beginning of the column's span.
func (c *Column) Start() time.Time { return c.start }

// End returns the end of the column's span.
func (c *Column) End() time.Time { return c.end }

// Left returns the column's left pixel edge on the shared axis.
func (c *Column) Left() float64 { return c.left }

// Width returns the column's pixel width.
func (c *Column) Width() float64 { return c.width }

// Duration returns End - Start.
func (c *Column) Duration() time.Duration { return c.duration }

// OriginalPlacement returns the placement captured at construction.
func (c *Column) OriginalPlacement() timeframe.Placement { return c.original }

// Calendar returns the attached calendar, or nil.
func (c *Column) Calendar() Calendar { return c.calendar }

// WorkingMode returns the display mode of working frames.
func (c *Column) WorkingMode() timeframe.DisplayMode { return c.workingMode }

// NonWorkingMode returns the display mode of non-working frames.
func (c *Column) NonWorkingMode() timeframe.DisplayMode { return c.nonWorkingMode }

// TimeFrames returns a copy of the partition, in chronological order.
func (c *Column) TimeFrames() []timeframe.TimeFrame { return slices.Clone(c.frames) }

// VisibleTimeFrames returns a copy of the frames whose mode is visible.
func (c *Column) VisibleTimeFrames() []timeframe.TimeFrame { return slices.Clone(c.visible) }

// Cropped reports whether every frame of the column was cropped away.
func (c *Column) Cropped() bool { return c.cropped }

// Cropping reports whether either display mode is cropped.
func (c *Column) Cropping() bool {
	return c.workingMode == timeframe.Cropped || c.nonWorkingMode == timeframe.Cropped
}

// DayFrames returns the frames of t's calendar day. A day with no frames yields
// an empty slice.
func (c *Column) DayFrames(t time.Time) []timeframe.TimeFrame {
	r, ok := c.days[c.keyOf(t)]
	if !ok {
		return []timeframe.TimeFrame{}
	}
	return slices.Clone(c.frames[r.lo:r.hi])
}

// Clone returns a column with the same span, placement, calendar and modes and
// a freshly built partition.
func (c *Column) Clone() (*Column, error) {
	return New(c.start, c.end, c.left, c.width, c.calendar, c.workingMode, c.nonWorkingMode)
}

// ContainsInstant reports whether start < t <= end. An instant on a boundary
// belongs to the earlier column.
func (c *Column) ContainsInstant(t time.Time) bool {
	return t.After(c.start) && !t.After(c.end)
}

// Equals reports whether both columns start at the same instant.
func (c *Column) Equals(other *Column) bool {
	if other == nil {
		return false
	}
	return c.start.Equal(other.start)
}

func (c *Column) keyOf(t time.Time) DayKey {
	return KeyOf(t.In(c.start.Location()))
}
