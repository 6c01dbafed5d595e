package errors

import (
	"math"
	"regexp"
	"time"
	"unicode"
)

// ValidateSpan checks that a time span is non-empty and that its duration is
// representable as a [time.Duration]. Every interpolation divides by the
// span's duration, which saturates for spans of about 292 years or more.
func ValidateSpan(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return New(ErrCodeInvalidSpan, "span bounds must be set")
	}
	if !end.After(start) {
		return New(ErrCodeInvalidSpan, "span end %s is not after start %s",
			end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	if !start.Add(end.Sub(start)).Equal(end) {
		return New(ErrCodeInvalidSpan, "span from %s to %s is too long",
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return nil
}

// ValidateWidth checks that a pixel width is finite and strictly positive.
func ValidateWidth(width float64) error {
	if math.IsNaN(width) || math.IsInf(width, 0) {
		return New(ErrCodeInvalidWidth, "width must be finite, got %v", width)
	}
	if width <= 0 {
		return New(ErrCodeInvalidWidth, "width must be positive, got %v", width)
	}
	return nil
}

// ValidateName validates a calendar template or rule name.
//
// The validation rules are intentionally conservative:
//   - No empty names
//   - No control characters or whitespace
//   - Maximum length of 64 characters
func ValidateName(kind, name string) error {
	if name == "" {
		return New(ErrCodeInvalidCalendar, "%s name cannot be empty", kind)
	}

	if len(name) > 64 {
		return New(ErrCodeInvalidCalendar, "%s name too long (max 64 characters)", kind)
	}

	for _, r := range name {
		if unicode.IsControl(r) || unicode.IsSpace(r) {
			return New(ErrCodeInvalidCalendar, "%s name %q contains invalid characters", kind, name)
		}
	}

	return nil
}

// clockRegex matches a 24h wall clock time, "24:00" included.
var clockRegex = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$|^24:00$`)

// ValidateClock validates a time-of-day string in HH:MM form.
// An empty string is accepted and means "unbounded".
func ValidateClock(value string) error {
	if value == "" {
		return nil
	}
	if !clockRegex.MatchString(value) {
		return New(ErrCodeInvalidCalendar, "invalid time of day %q (want HH:MM)", value)
	}
	return nil
}
