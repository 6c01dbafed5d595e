package column

import (
	"math"
	"strings"
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
)

// Unit is a snapping granularity.
type Unit string

const (
	UnitMillisecond Unit = "millisecond"
	UnitSecond      Unit = "second"
	UnitMinute      Unit = "minute"
	UnitHour        Unit = "hour"
	UnitDay         Unit = "day"
	UnitMonth       Unit = "month"
	UnitYear        Unit = "year"

	// UnitColumn snaps to the nearer column edge and ignores the amount.
	UnitColumn Unit = "column"
)

// ParseUnit converts a unit name, singular or plural, into a Unit.
func ParseUnit(s string) (Unit, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "ms" {
		return UnitMillisecond, nil
	}
	switch u := Unit(strings.TrimSuffix(name, "s")); u {
	case UnitMillisecond, UnitSecond, UnitMinute, UnitHour, UnitDay, UnitMonth, UnitYear, UnitColumn:
		return u, nil
	}
	return "", errors.New(errors.ErrCodeInvalidUnit, "invalid snap unit: %q", s)
}

// Midpoint selects how a value between two multiples is rounded.
type Midpoint string

const (
	MidpointNearest Midpoint = "nearest"
	MidpointUp      Midpoint = "up"
	MidpointDown    Midpoint = "down"
)

// ParseMidpoint converts a string into a Midpoint. An empty string yields nearest.
func ParseMidpoint(s string) (Midpoint, error) {
	switch m := Midpoint(strings.ToLower(s)); m {
	case "":
		return MidpointNearest, nil
	case MidpointNearest, MidpointUp, MidpointDown:
		return m, nil
	}
	return "", errors.New(errors.ErrCodeInvalidUnit, "invalid midpoint: %q (must be one of: nearest, up, down)", s)
}

// Snap describes how a candidate instant is adjusted. The zero value disables
// snapping.
type Snap struct {
	Amount   int      `json:"amount,omitempty"`
	Unit     Unit     `json:"unit,omitempty"`
	Midpoint Midpoint `json:"midpoint,omitempty"`
	Frames   bool     `json:"frames,omitempty"` // Also snap to working/non-working transitions
}

// Enabled reports whether the snap has both a positive amount and a unit.
func (s Snap) Enabled() bool {
	return s.Amount > 0 && s.Unit != ""
}

// MagnetDate snaps t according to snap, never leaving [start, end].
//
// Unit rounding runs first. Frame snapping then considers the boundaries of
// magnet frames where the working classification changes, and replaces the
// rounded instant only with a boundary strictly closer to the original t.
func (c *Column) MagnetDate(t time.Time, snap Snap) time.Time {
	if !snap.Enabled() {
		return t
	}

	initial := t
	if snap.Unit == UnitColumn {
		// The exact middle goes to end.
		if c.PositionFromDate(t)-c.left < c.width/2 {
			t = c.start
		} else {
			t = c.end
		}
	} else {
		t = RoundTo(t, snap.Unit, snap.Amount, snap.Midpoint)
		if t.Before(c.start) {
			t = c.start
		} else if t.After(c.end) {
			t = c.end
		}
	}

	if snap.Frames {
		t = c.frameMagnet(initial, t)
	}
	return t
}

// frameMagnet returns the transition boundary closest to initial when it beats
// the distance already achieved by rounded.
func (c *Column) frameMagnet(initial, rounded time.Time) time.Time {
	limit := absDuration(initial.Sub(rounded))
	best := rounded
	var bestDiff time.Duration
	found := false

	consider := func(boundary time.Time) {
		d := absDuration(initial.Sub(boundary))
		if d < limit && (!found || d < bestDiff) {
			best, bestDiff, found = boundary, d, true
		}
	}

	for i, f := range c.frames {
		if !f.Magnet {
			continue
		}
		if i == 0 || c.frames[i-1].Working != f.Working {
			consider(f.Start)
		}
		if i == len(c.frames)-1 || c.frames[i+1].Working != f.Working {
			consider(f.End)
		}
	}
	return best
}

// RoundTo rounds the component of t at unit to a multiple of amount and zeroes
// every smaller component.
//
// Only the unit component is rounded, so 13:37 stays at 13:00 for any midpoint
// when amount is 1. Days of the month count from 1 and months from 0 (January),
// which makes January a multiple of every amount. Results past a component's
// range normalize the way [time.Date] does: day 0 is the last day of the
// previous month. UnitColumn and unknown units return t unchanged.
func RoundTo(t time.Time, unit Unit, amount int, midpoint Midpoint) time.Time {
	if amount <= 0 {
		amount = 1
	}

	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	ms := t.Nanosecond() / int(time.Millisecond)
	loc := t.Location()

	var value int
	switch unit {
	case UnitMillisecond:
		value = ms
	case UnitSecond:
		value = s
	case UnitMinute:
		value = mi
	case UnitHour:
		value = h
	case UnitDay:
		value = d
	case UnitMonth:
		value = int(mo) - 1
	case UnitYear:
		value = y
	default:
		return t
	}

	v := float64(value) / float64(amount)
	switch midpoint {
	case MidpointUp:
		v = math.Ceil(v)
	case MidpointDown:
		v = math.Floor(v)
	default:
		v = math.Round(v)
	}
	r := int(v) * amount

	switch unit {
	case UnitMillisecond:
		return time.Date(y, mo, d, h, mi, s, r*int(time.Millisecond), loc)
	case UnitSecond:
		return time.Date(y, mo, d, h, mi, r, 0, loc)
	case UnitMinute:
		return time.Date(y, mo, d, h, r, 0, 0, loc)
	case UnitHour:
		return time.Date(y, mo, d, r, 0, 0, 0, loc)
	case UnitDay:
		return time.Date(y, mo, r, 0, 0, 0, 0, loc)
	case UnitMonth:
		return time.Date(y, time.Month(r+1), 1, 0, 0, 0, 0, loc)
	default:
		return time.Date(r, time.January, 1, 0, 0, 0, 0, loc)
	}
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
