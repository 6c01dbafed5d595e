package grid

import (
	"strings"
	"time"

	"github.com/matzehuels/timegrid/pkg/cache"
	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultUnit is the default column unit.
	DefaultUnit = UnitDay

	// DefaultStep is the default number of units per column.
	DefaultStep = 1

	// DefaultWidth is the default total grid width in pixels, used when
	// neither Width nor ColumnWidth is set.
	DefaultWidth = 1200.0

	// MaxColumns bounds the number of columns of one grid.
	MaxColumns = 10000

	// MaxSpanYears bounds both the From-To range of a grid and the span of
	// a single column.
	MaxSpanYears = 100
)

// Unit is the calendar unit a grid column spans.
type Unit string

const (
	UnitHour  Unit = "hour"
	UnitDay   Unit = "day"
	UnitWeek  Unit = "week"
	UnitMonth Unit = "month"
)

// ParseUnit converts a unit name, singular or plural, into a Unit.
func ParseUnit(s string) (Unit, error) {
	switch u := Unit(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(s)), "s")); u {
	case UnitHour, UnitDay, UnitWeek, UnitMonth:
		return u, nil
	}
	return "", errors.New(errors.ErrCodeInvalidUnit, "invalid column unit: %q (must be one of: hour, day, week, month)", s)
}

// Align returns the start of the unit containing t. Weeks start on Monday.
func (u Unit) Align(t time.Time) time.Time {
	y, m, d := t.Date()
	switch u {
	case UnitHour:
		return time.Date(y, m, d, t.Hour(), 0, 0, 0, t.Location())
	case UnitWeek:
		day := column.StartOfDay(t)
		return day.AddDate(0, 0, -((int(day.Weekday()) + 6) % 7))
	case UnitMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, t.Location())
	default:
		return column.StartOfDay(t)
	}
}

// maxStep returns the largest step keeping one column within MaxSpanYears.
func (u Unit) maxStep() int {
	switch u {
	case UnitHour:
		return MaxSpanYears * 366 * 24
	case UnitWeek:
		return MaxSpanYears * 366 / 7
	case UnitMonth:
		return MaxSpanYears * 12
	default:
		return MaxSpanYears * 366
	}
}

// Next returns t advanced by step units.
func (u Unit) Next(t time.Time, step int) time.Time {
	switch u {
	case UnitHour:
		return t.Add(time.Duration(step) * time.Hour)
	case UnitWeek:
		return t.AddDate(0, 0, 7*step)
	case UnitMonth:
		return t.AddDate(0, step, 0)
	default:
		return t.AddDate(0, 0, step)
	}
}

// =============================================================================
// Options - Grid Configuration
// =============================================================================

// Options configures grid generation.
// This struct supports JSON serialization for API requests.
type Options struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Unit Unit      `json:"unit,omitempty"`
	Step int       `json:"step,omitempty"`

	// Width is the total pixel width shared by all columns. ColumnWidth, when
	// set, fixes the width of each column instead.
	Width       float64 `json:"width,omitempty"`
	ColumnWidth float64 `json:"column_width,omitempty"`

	WorkingMode    timeframe.DisplayMode `json:"working_mode,omitempty"`
	NonWorkingMode timeframe.DisplayMode `json:"non_working_mode,omitempty"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// ValidateAndSetDefaults checks the options and fills in defaults.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateSpan(o.From, o.To); err != nil {
		return err
	}
	if o.To.After(o.From.AddDate(MaxSpanYears, 0, 0)) {
		return errors.New(errors.ErrCodeInvalidSpan, "grid from %s to %s exceeds %d years",
			o.From.Format(time.RFC3339), o.To.Format(time.RFC3339), MaxSpanYears)
	}

	if o.Unit == "" {
		o.Unit = DefaultUnit
	}
	unit, err := ParseUnit(string(o.Unit))
	if err != nil {
		return err
	}
	o.Unit = unit

	if o.Step == 0 {
		o.Step = DefaultStep
	}
	if o.Step < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "step must be positive, got %d", o.Step)
	}
	if limit := o.Unit.maxStep(); o.Step > limit {
		return errors.New(errors.ErrCodeInvalidInput, "step %d %s exceeds %d years per column (max %d)",
			o.Step, o.Unit, MaxSpanYears, limit)
	}

	if o.ColumnWidth != 0 {
		if err := errors.ValidateWidth(o.ColumnWidth); err != nil {
			return err
		}
	} else {
		if o.Width == 0 {
			o.Width = DefaultWidth
		}
		if err := errors.ValidateWidth(o.Width); err != nil {
			return err
		}
	}

	if o.WorkingMode == "" {
		o.WorkingMode = timeframe.Visible
	}
	if o.NonWorkingMode == "" {
		o.NonWorkingMode = timeframe.Visible
	}
	if _, err := timeframe.ParseDisplayMode(string(o.WorkingMode)); err != nil {
		return err
	}
	if _, err := timeframe.ParseDisplayMode(string(o.NonWorkingMode)); err != nil {
		return err
	}

	o.validated = true
	return nil
}

// KeyOpts returns the cache key options of o.
func (o *Options) KeyOpts() cache.GridKeyOpts {
	return cache.GridKeyOpts{
		From:           o.From,
		To:             o.To,
		Unit:           string(o.Unit),
		Step:           o.Step,
		Width:          o.Width,
		ColumnWidth:    o.ColumnWidth,
		WorkingMode:    string(o.WorkingMode),
		NonWorkingMode: string(o.NonWorkingMode),
	}
}

// boundaries returns the instants separating consecutive columns, from the
// start of the unit containing From to the first boundary at or after To.
func (o *Options) boundaries() ([]time.Time, error) {
	t := o.Unit.Align(o.From)
	bounds := []time.Time{t}
	for t.Before(o.To) {
		t = o.Unit.Next(t, o.Step)
		bounds = append(bounds, t)
		if len(bounds) > MaxColumns+1 {
			return nil, errors.New(errors.ErrCodeInvalidInput,
				"grid from %s to %s by %d %s exceeds %d columns",
				o.From.Format(time.RFC3339), o.To.Format(time.RFC3339), o.Step, o.Unit, MaxColumns)
		}
	}
	return bounds, nil
}
