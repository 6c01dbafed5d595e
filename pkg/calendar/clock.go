package calendar

import (
	"fmt"
	"time"

	"github.com/matzehuels/timegrid/pkg/errors"
)

// Clock is a wall clock time of day between 00:00 and 24:00.
// The zero Clock is undefined.
type Clock struct {
	hour, minute int
	set          bool
}

// At returns the clock at hour:minute.
func At(hour, minute int) Clock {
	return Clock{hour: hour, minute: minute, set: true}
}

// ParseClock parses "HH:MM". An empty string yields the undefined clock.
func ParseClock(s string) (Clock, error) {
	if s == "" {
		return Clock{}, nil
	}
	if err := errors.ValidateClock(s); err != nil {
		return Clock{}, err
	}
	var h, m int
	if _, err := fmt.Sscanf(s, "%d:%d", &h, &m); err != nil {
		return Clock{}, errors.Wrap(errors.ErrCodeInvalidCalendar, err, "parse time of day %q", s)
	}
	return At(h, m), nil
}

// Before reports whether c is earlier in the day than o. Both must be set.
func (c Clock) Before(o Clock) bool {
	return c.hour*60+c.minute < o.hour*60+o.minute
}

// On returns the instant of the clock on the calendar day of day, in day's
// location. 24:00 is the next midnight. The undefined clock yields the zero time.
func (c Clock) On(day time.Time) time.Time {
	if !c.set {
		return time.Time{}
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, c.hour, c.minute, 0, 0, day.Location())
}

func (c Clock) String() string {
	if !c.set {
		return ""
	}
	return fmt.Sprintf("%02d:%02d", c.hour, c.minute)
}
