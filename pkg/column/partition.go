package column

import (
	"math"
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// UpdateTimeFrames rebuilds the partition from the calendar, discarding the
// previous one.
//
// Nothing is built when no calendar is attached or when both modes are hidden.
// Otherwise the span is walked day by day: the calendar's frames for each day
// are solved against [dayStart, dayEnd], given default boundaries, clamped into
// the column, placed on the pixel axis and, when a mode is cropped, collapsed
// and redistributed.
func (c *Column) UpdateTimeFrames() error {
	c.frames = nil
	c.visible = nil
	c.days = make(map[DayKey]dayRange)
	c.cropped = false

	if c.calendar == nil || (c.workingMode == timeframe.Hidden && c.nonWorkingMode == timeframe.Hidden) {
		return nil
	}

	var frames []timeframe.TimeFrame
	for dayStart, dayEnd := range Days(c.start, c.end) {
		lo := len(frames)
		frames = append(frames, c.dayFrames(dayStart, dayEnd)...)
		c.days[c.keyOf(dayStart)] = dayRange{lo: lo, hi: len(frames)}
	}

	for i, f := range frames {
		mode := f.Mode(c.workingMode, c.nonWorkingMode)
		frames[i] = f.Place(c.placement(f.Start, f.End), mode != timeframe.Visible)
	}

	if c.Cropping() {
		var err error
		frames, c.cropped, err = redistribute(frames, c.width, c.workingMode, c.nonWorkingMode)
		if err != nil {
			return err
		}
	}

	c.frames = frames
	for _, f := range frames {
		if !f.Hidden {
			c.visible = append(c.visible, f)
		}
	}
	return nil
}

// dayFrames asks the calendar for one day and normalizes the result.
func (c *Column) dayFrames(dayStart, dayEnd time.Time) []timeframe.TimeFrame {
	solved := c.calendar.Solve(c.calendar.Frames(dayStart), dayStart, dayEnd)

	out := make([]timeframe.TimeFrame, 0, len(solved))
	for _, f := range solved {
		start, end := f.Start, f.End
		if start.IsZero() {
			start = dayStart
		}
		if end.IsZero() {
			end = dayEnd
		}
		out = append(out, f.WithBounds(start, end).Clip(c.start, c.end))
	}
	return out
}

// placement interpolates [start, end] linearly onto the column's pixel range.
func (c *Column) placement(start, end time.Time) timeframe.Placement {
	return timeframe.Placement{
		Left:  c.offset(start),
		Width: float64(end.Sub(start)) / float64(c.duration) * c.width,
	}
}

// offset returns the unclamped column-relative position of t.
func (c *Column) offset(t time.Time) float64 {
	return float64(t.Sub(c.start)) / float64(c.duration) * c.width
}

// redistribute collapses frames whose mode is cropped and scales the remaining
// ones so that they fill width again, keeping their order and adjacency.
//
// The returned flag is true when every frame was collapsed. frames is not
// modified. Running it again on its own output with the same modes is a no-op.
func redistribute(frames []timeframe.TimeFrame, width float64, working, nonWorking timeframe.DisplayMode) ([]timeframe.TimeFrame, bool, error) {
	if len(frames) == 0 {
		return frames, false, nil
	}

	var keptWidth float64
	kept := 0
	for _, f := range frames {
		if f.Mode(working, nonWorking) != timeframe.Cropped {
			keptWidth += f.Width
			kept++
		}
	}

	if math.Abs(keptWidth-width) <= Epsilon {
		return frames, false, nil
	}
	if kept > 0 && keptWidth <= Epsilon {
		return nil, false, errors.New(errors.ErrCodeInvalidPartition,
			"%d frames remain after cropping but cover no width", kept)
	}

	var ratio float64
	if kept > 0 {
		ratio = width / keptWidth
	}

	out := make([]timeframe.TimeFrame, len(frames))
	var croppedWidth, originalCroppedWidth float64
	for i, f := range frames {
		if f.Mode(working, nonWorking) == timeframe.Cropped {
			croppedWidth += f.Width
			originalCroppedWidth += f.Original.Width
			out[i] = f.Collapse()
			continue
		}
		f.Left = (f.Left - croppedWidth) * ratio
		f.Width *= ratio
		f.Original = timeframe.Placement{
			Left:  (f.Original.Left - originalCroppedWidth) * ratio,
			Width: f.Original.Width * ratio,
		}
		f.Cropped = false
		out[i] = f
	}

	return out, kept == 0, nil
}
