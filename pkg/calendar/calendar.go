// Package calendar turns working-time declarations into the time frames that
// partition a column.
//
// A [Calendar] holds named [Template]s (a time-of-day range classified as
// working or non-working) and [Rule]s that decide on which days which templates
// apply. It satisfies column.Calendar:
//
//	cal, err := calendar.LoadFile("hours.toml")
//	if err != nil {
//	    return err
//	}
//	c, err := column.New(start, end, 0, 240, cal, timeframe.Visible, timeframe.Cropped)
//
// # Resolution
//
// [Calendar.Frames] materializes the templates of every rule matching a day.
// Rules flagged Default only apply when no other rule matches, which makes them
// a fallback for ordinary days next to dated exceptions such as holidays.
//
// [Calendar.Solve] turns those possibly overlapping frames into a partition of
// a range: frames are painted in ascending priority so that higher priorities
// cover lower ones (on equal priority the later declaration wins), and the
// remaining gaps are filled with frames classified by FillWorking.
//
// # Configuration
//
// Calendars are usually declared in TOML or YAML and loaded with [LoadFile] or
// [Parse]; see [Config] for the format.
package calendar

import (
	"slices"
	"time"

	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// Template is a named time-of-day range.
type Template struct {
	Name     string
	Start    Clock // Undefined extends to the start of the day
	End      Clock // Undefined extends to the end of the day
	Working  bool
	Magnet   bool
	Priority int
}

// On materializes the template on the calendar day of day.
func (t Template) On(day time.Time) timeframe.TimeFrame {
	return timeframe.TimeFrame{
		Name:     t.Name,
		Start:    t.Start.On(day),
		End:      t.End.On(day),
		Working:  t.Working,
		Magnet:   t.Magnet,
		Priority: t.Priority,
	}
}

// Rule selects the days on which its target templates apply. All set
// conditions must hold; a rule without conditions matches every day.
type Rule struct {
	Name     string
	Date     time.Time      // Single day; zero means any
	From     time.Time      // First day, inclusive; zero means open
	To       time.Time      // Last day, inclusive; zero means open
	Weekdays []time.Weekday // Empty means any
	Default  bool           // Only applies when no other rule matches
	Targets  []string       // Template names
}

// Matches reports whether the rule applies to the calendar day of day.
func (r Rule) Matches(day time.Time) bool {
	d := civil(day)
	if !r.Date.IsZero() && !d.Equal(civil(r.Date)) {
		return false
	}
	if !r.From.IsZero() && d.Before(civil(r.From)) {
		return false
	}
	if !r.To.IsZero() && d.After(civil(r.To)) {
		return false
	}
	if len(r.Weekdays) > 0 && !slices.Contains(r.Weekdays, day.Weekday()) {
		return false
	}
	return true
}

// civil drops the clock and location of t, keeping its calendar date.
func civil(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Calendar resolves templates and rules into time frames.
// A Calendar is read-only after construction and safe for concurrent use.
type Calendar struct {
	Templates   map[string]Template
	Rules       []Rule
	FillWorking bool // Classification of time no template covers
}

// Frames returns the frames of every template targeted by a rule matching day,
// in declaration order.
func (c *Calendar) Frames(day time.Time) []timeframe.TimeFrame {
	rules := c.applicable(day, false)
	if len(rules) == 0 {
		rules = c.applicable(day, true)
	}

	var frames []timeframe.TimeFrame
	for _, r := range rules {
		for _, name := range r.Targets {
			if tpl, ok := c.Templates[name]; ok {
				frames = append(frames, tpl.On(day))
			}
		}
	}
	return frames
}

func (c *Calendar) applicable(day time.Time, defaults bool) []Rule {
	var out []Rule
	for _, r := range c.Rules {
		if r.Default == defaults && r.Matches(day) {
			out = append(out, r)
		}
	}
	return out
}

// Solve partitions [start, end] from frames.
//
// Frames outside the range are dropped and the rest are clipped to it. Frames
// are then painted in ascending priority, each one cutting away whatever it
// covers. Uncovered time becomes Fill frames. The result is ordered, has no
// empty frames and tiles [start, end] exactly. frames is not modified.
func (c *Calendar) Solve(frames []timeframe.TimeFrame, start, end time.Time) []timeframe.TimeFrame {
	if !end.After(start) {
		return nil
	}

	ordered := slices.Clone(frames)
	slices.SortStableFunc(ordered, func(a, b timeframe.TimeFrame) int {
		return a.Priority - b.Priority
	})

	var painted []timeframe.TimeFrame
	for _, f := range ordered {
		if !f.Overlaps(start, end) {
			continue
		}
		f = f.Clip(start, end)
		if !f.End.After(f.Start) {
			continue
		}
		painted = paint(painted, f)
	}

	out := make([]timeframe.TimeFrame, 0, 2*len(painted)+1)
	cursor := start
	for _, f := range painted {
		if f.Start.After(cursor) {
			out = append(out, c.fill(cursor, f.Start))
		}
		out = append(out, f)
		cursor = f.End
	}
	if end.After(cursor) {
		out = append(out, c.fill(cursor, end))
	}
	return out
}

// paint lays f over the ordered, disjoint frames in canvas and returns the new
// canvas, still ordered and disjoint.
func paint(canvas []timeframe.TimeFrame, f timeframe.TimeFrame) []timeframe.TimeFrame {
	out := make([]timeframe.TimeFrame, 0, len(canvas)+2)
	inserted := false
	for _, s := range canvas {
		if !s.End.After(f.Start) {
			out = append(out, s)
			continue
		}
		if !inserted {
			if s.Start.Before(f.Start) {
				out = append(out, s.WithBounds(s.Start, f.Start))
			}
			out = append(out, f)
			inserted = true
		}
		if s.End.After(f.End) {
			out = append(out, s.WithBounds(maxTime(s.Start, f.End), s.End))
		}
	}
	if !inserted {
		out = append(out, f)
	}
	return out
}

func maxTime(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func (c *Calendar) fill(start, end time.Time) timeframe.TimeFrame {
	return timeframe.TimeFrame{Start: start, End: end, Working: c.FillWorking, Fill: true}
}
