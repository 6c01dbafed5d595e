package column

import (
	"iter"
	"time"
)

// StartOfDay returns midnight of t's calendar day in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// Days yields consecutive (dayStart, dayEnd) pairs covering [start, end).
//
// The first pair starts at start itself, later ones at midnight; each pair ends
// at the next midnight or at end, whichever comes first. The sequence is finite
// and can be ranged over any number of times.
func Days(start, end time.Time) iter.Seq2[time.Time, time.Time] {
	return func(yield func(time.Time, time.Time) bool) {
		for cursor := start; cursor.Before(end); {
			next := StartOfDay(cursor).AddDate(0, 0, 1)
			if next.After(end) {
				next = end
			}
			if !yield(cursor, next) {
				return
			}
			cursor = next
		}
	}
}
