// Package timeframe defines the interval values that partition a time-axis
// column: working or non-working stretches of time, their pixel placement, and
// the display modes that decide whether they are shown, hidden or cropped.
//
// A [TimeFrame] is a plain value. Every transformation (clipping to a range,
// placing on the pixel axis, cropping) returns a new value, so the snapshot of
// a frame's original placement can never alias its live placement.
package timeframe

import (
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
)

// DisplayMode controls how frames of one classification are presented.
type DisplayMode string

const (
	// Hidden frames keep their width but are not drawn.
	Hidden DisplayMode = "hidden"
	// Visible frames keep their width and are drawn.
	Visible DisplayMode = "visible"
	// Cropped frames collapse to zero width; their space goes to the other frames.
	Cropped DisplayMode = "cropped"
)

// ParseDisplayMode converts a string into a DisplayMode.
// An empty string yields Hidden.
func ParseDisplayMode(s string) (DisplayMode, error) {
	switch DisplayMode(s) {
	case "":
		return Hidden, nil
	case Hidden, Visible, Cropped:
		return DisplayMode(s), nil
	}
	return "", errors.New(errors.ErrCodeInvalidMode, "invalid display mode: %q (must be one of: hidden, visible, cropped)", s)
}

// Placement is a horizontal pixel range relative to the owning column's left edge.
type Placement struct {
	Left  float64 `json:"left"`
	Width float64 `json:"width"`
}

// Right returns the right edge of the placement.
func (p Placement) Right() float64 { return p.Left + p.Width }

// Contains reports whether x lies within [Left, Left+Width].
func (p Placement) Contains(x float64) bool {
	return x >= p.Left && x <= p.Right()
}

// TimeFrame is a sub-interval of a column classified as working or non-working.
//
// Calendars produce frames with only the time fields set; Start or End may be
// the zero time, meaning "unbounded" until the column substitutes its own
// boundaries. Pixel fields are filled in by the column.
type TimeFrame struct {
	Name     string    // Template name the calendar built this frame from, if any
	Start    time.Time // Zero means undefined
	End      time.Time // Zero means undefined
	Working  bool
	Magnet   bool // Boundaries participate in frame snapping
	Priority int  // Higher priorities win when a calendar resolves overlaps
	Fill     bool // Generated by a calendar to cover a gap

	Hidden   bool
	Cropped  bool
	Left     float64 // Meaningless when Cropped
	Width    float64
	Original Placement // Placement before crop redistribution
}

// Duration returns End - Start.
func (f TimeFrame) Duration() time.Duration {
	return f.End.Sub(f.Start)
}

// Contains reports whether t lies within [Start, End].
func (f TimeFrame) Contains(t time.Time) bool {
	return !t.Before(f.Start) && !t.After(f.End)
}

// Overlaps reports whether the frame shares a non-empty interval with [start, end).
// Undefined boundaries extend to infinity.
func (f TimeFrame) Overlaps(start, end time.Time) bool {
	if !f.Start.IsZero() && !f.Start.Before(end) {
		return false
	}
	if !f.End.IsZero() && !f.End.After(start) {
		return false
	}
	return true
}

// Position returns the frame's left edge. ok is false for cropped frames, whose
// left edge is undefined.
func (f TimeFrame) Position() (left float64, ok bool) {
	if f.Cropped {
		return 0, false
	}
	return f.Left, true
}

// Placement returns the live pixel placement.
func (f TimeFrame) Placement() Placement {
	return Placement{Left: f.Left, Width: f.Width}
}

// WithBounds returns a copy spanning [start, end].
func (f TimeFrame) WithBounds(start, end time.Time) TimeFrame {
	f.Start = start
	f.End = end
	return f
}

// Clip returns a copy whose undefined boundaries are replaced by start and end
// and whose defined boundaries are clamped into [start, end]. A frame lying
// entirely outside the range collapses onto the nearer range boundary.
func (f TimeFrame) Clip(start, end time.Time) TimeFrame {
	s, e := f.Start, f.End
	if s.IsZero() || s.Before(start) {
		s = start
	}
	if s.After(end) {
		s = end
	}
	if e.IsZero() || e.After(end) {
		e = end
	}
	if e.Before(start) {
		e = start
	}
	if s.After(e) {
		s = e
	}
	return f.WithBounds(s, e)
}

// Place returns a copy positioned at p, with p also recorded as the original placement.
func (f TimeFrame) Place(p Placement, hidden bool) TimeFrame {
	f.Left = p.Left
	f.Width = p.Width
	f.Original = p
	f.Hidden = hidden
	f.Cropped = false
	return f
}

// Collapse returns a cropped copy: zero width, undefined left, no original placement.
func (f TimeFrame) Collapse() TimeFrame {
	f.Left = 0
	f.Width = 0
	f.Original = Placement{}
	f.Cropped = true
	return f
}

// Mode returns the display mode applying to the frame's classification.
func (f TimeFrame) Mode(working, nonWorking DisplayMode) DisplayMode {
	if f.Working {
		return working
	}
	return nonWorking
}
