package column

import (
	"time"

	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// DateFromPosition returns the instant at position, measured from the column's
// left edge, then applies snap.
//
// Positions outside [0, width] are clamped. With cropping active the position
// is resolved inside the frame that contains it, so collapsed frames are
// skipped over.
func (c *Column) DateFromPosition(position float64, snap Snap) time.Time {
	position = c.clamp(position)

	t, ok := time.Time{}, false
	if c.Cropping() {
		t, ok = c.dateInFrames(position)
	}
	if !ok {
		t = c.start.Add(time.Duration(position / c.width * float64(c.duration)))
	}

	return c.MagnetDate(t, snap)
}

// dateInFrames interpolates position inside the first non-cropped frame whose
// pixel range contains it.
func (c *Column) dateInFrames(position float64) (time.Time, bool) {
	for _, f := range c.frames {
		if f.Cropped || f.Width <= Epsilon || !f.Placement().Contains(position) {
			continue
		}
		offset := (position - f.Left) / f.Width * float64(f.Duration())
		return f.Start.Add(time.Duration(offset)), true
	}
	return time.Time{}, false
}

// PositionFromDate returns the absolute pixel position of t, column left edge
// included.
//
// With cropping active, an instant inside a cropped frame resolves to the
// boundary of the nearest visible neighbour that follows it. Instants outside
// the column clamp to its edges.
func (c *Column) PositionFromDate(t time.Time) float64 {
	if c.Cropping() {
		pos, moved, ok := c.positionInFrames(t)
		if ok {
			return c.left + pos
		}
		t = moved
	}
	return c.left + c.clamp(c.offset(t))
}

// positionInFrames walks the day index. It returns the column-relative position
// and true on a hit; otherwise it returns the instant, possibly moved past
// cropped frames, for the linear fallback.
func (c *Column) positionInFrames(t time.Time) (float64, time.Time, bool) {
	for {
		frames := c.dayFramesView(t)
		key := c.keyOf(t)

		for i, f := range frames {
			if !f.Contains(t) {
				continue
			}
			if !f.Cropped {
				return f.Left + frameOffset(f, t), t, true
			}
			if i+1 < len(frames) {
				t = frames[i+1].Start
			} else {
				t = f.End
			}
		}

		// A cropped frame at the end of a day hands over to the next day.
		if len(frames) == 0 || c.keyOf(t) == key {
			return 0, t, false
		}
	}
}

// dayFramesView is DayFrames without the copy.
func (c *Column) dayFramesView(t time.Time) []timeframe.TimeFrame {
	r, ok := c.days[c.keyOf(t)]
	if !ok {
		return nil
	}
	return c.frames[r.lo:r.hi]
}

// frameOffset interpolates t inside f's pixel width.
func frameOffset(f timeframe.TimeFrame, t time.Time) float64 {
	d := f.Duration()
	if d <= 0 {
		return 0
	}
	return float64(t.Sub(f.Start)) / float64(d) * f.Width
}

func (c *Column) clamp(position float64) float64 {
	if position < 0 {
		return 0
	}
	if position > c.width {
		return c.width
	}
	return position
}
