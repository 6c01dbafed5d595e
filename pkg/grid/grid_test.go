package grid

import (
	"bytes"
	"math"
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/calendar"
	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// monday is 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func hoursAfterMonday(h int) time.Time { return monday.Add(time.Duration(h) * time.Hour) }

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func week(t *testing.T, cal column.Calendar, nonWorking timeframe.DisplayMode) *Grid {
	t.Helper()
	g, err := Generate(cal, Options{
		From:           monday,
		To:             monday.AddDate(0, 0, 7),
		Width:          700,
		NonWorkingMode: nonWorking,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	return g
}

func TestParseUnit(t *testing.T) {
	tests := []struct {
		in      string
		want    Unit
		wantErr bool
	}{
		{"day", UnitDay, false},
		{"Weeks", UnitWeek, false},
		{"hours", UnitHour, false},
		{"month", UnitMonth, false},
		{"year", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseUnit(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseUnit(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestUnitAlignAndNext(t *testing.T) {
	wednesday := time.Date(2026, 3, 4, 15, 45, 0, 0, time.UTC)

	tests := []struct {
		unit      Unit
		wantAlign time.Time
		wantNext  time.Time
	}{
		{UnitHour, time.Date(2026, 3, 4, 15, 0, 0, 0, time.UTC), time.Date(2026, 3, 4, 17, 0, 0, 0, time.UTC)},
		{UnitDay, time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC)},
		{UnitWeek, monday, time.Date(2026, 3, 16, 0, 0, 0, 0, time.UTC)},
		{UnitMonth, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.unit), func(t *testing.T) {
			aligned := tt.unit.Align(wednesday)
			if !aligned.Equal(tt.wantAlign) {
				t.Errorf("Align() = %v, want %v", aligned, tt.wantAlign)
			}
			if next := tt.unit.Next(aligned, 2); !next.Equal(tt.wantNext) {
				t.Errorf("Next(2) = %v, want %v", next, tt.wantNext)
			}
		})
	}

	sunday := time.Date(2026, 3, 8, 23, 0, 0, 0, time.UTC)
	if got := UnitWeek.Align(sunday); !got.Equal(monday) {
		t.Errorf("Align(sunday) = %v, want the preceding monday", got)
	}
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	opts := Options{From: monday, To: monday.AddDate(0, 0, 1)}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Unit != DefaultUnit || opts.Step != DefaultStep || opts.Width != DefaultWidth {
		t.Errorf("defaults not applied: %+v", opts)
	}
	if opts.WorkingMode != timeframe.Visible || opts.NonWorkingMode != timeframe.Visible {
		t.Errorf("default modes = %s/%s", opts.WorkingMode, opts.NonWorkingMode)
	}

	opts.Width = -1
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Error("second call should be a no-op")
	}

	tests := []struct {
		name     string
		opts     Options
		wantCode errors.Code
	}{
		{"missing span", Options{}, errors.ErrCodeInvalidSpan},
		{"reversed span", Options{From: monday, To: monday.Add(-time.Hour)}, errors.ErrCodeInvalidSpan},
		{"bad unit", Options{From: monday, To: monday.AddDate(0, 0, 1), Unit: "fortnight"}, errors.ErrCodeInvalidUnit},
		{"negative step", Options{From: monday, To: monday.AddDate(0, 0, 1), Step: -1}, errors.ErrCodeInvalidInput},
		{"span too long", Options{From: monday, To: monday.AddDate(400, 0, 0), Unit: UnitMonth}, errors.ErrCodeInvalidSpan},
		{"range too long", Options{From: monday, To: monday.AddDate(MaxSpanYears+1, 0, 0), Unit: UnitMonth, Step: 12}, errors.ErrCodeInvalidSpan},
		{"column too long", Options{From: monday, To: monday.AddDate(1, 0, 0), Unit: UnitMonth, Step: 4800}, errors.ErrCodeInvalidInput},
		{"hour step too long", Options{From: monday, To: monday.AddDate(0, 0, 1), Unit: UnitHour, Step: 3_000_000}, errors.ErrCodeInvalidInput},
		{"negative width", Options{From: monday, To: monday.AddDate(0, 0, 1), Width: -5}, errors.ErrCodeInvalidWidth},
		{"bad column width", Options{From: monday, To: monday.AddDate(0, 0, 1), ColumnWidth: math.Inf(1)}, errors.ErrCodeInvalidWidth},
		{"bad mode", Options{From: monday, To: monday.AddDate(0, 0, 1), NonWorkingMode: "faded"}, errors.ErrCodeInvalidMode},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.wantCode) {
				t.Errorf("error = %v, want code %s", err, tt.wantCode)
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	g := week(t, nil, "")

	cols := g.Columns()
	if len(cols) != 7 {
		t.Fatalf("got %d columns, want 7", len(cols))
	}
	for i, c := range cols {
		if !c.Start().Equal(monday.AddDate(0, 0, i)) || !c.End().Equal(monday.AddDate(0, 0, i+1)) {
			t.Errorf("column %d spans [%v, %v]", i, c.Start(), c.End())
		}
		if !approx(c.Left(), float64(i)*100) || !approx(c.Width(), 100) {
			t.Errorf("column %d placed at %v+%v", i, c.Left(), c.Width())
		}
	}
	if !approx(g.Width(), 700) {
		t.Errorf("Width() = %v, want 700", g.Width())
	}
}

func TestGenerateAlignsAndUsesColumnWidth(t *testing.T) {
	g, err := Generate(nil, Options{
		From:        hoursAfterMonday(10),
		To:          hoursAfterMonday(24*15 + 1),
		Unit:        UnitWeek,
		ColumnWidth: 50,
	})
	if err != nil {
		t.Fatal(err)
	}

	if n := len(g.Columns()); n != 3 {
		t.Fatalf("got %d columns, want 3", n)
	}
	if !g.Start().Equal(monday) {
		t.Errorf("Start() = %v, want %v", g.Start(), monday)
	}
	if !g.End().Equal(monday.AddDate(0, 0, 21)) {
		t.Errorf("End() = %v", g.End())
	}
	if !approx(g.Width(), 150) {
		t.Errorf("Width() = %v, want 150", g.Width())
	}
}

func TestGenerateLongestColumnTiles(t *testing.T) {
	g, err := Generate(calendar.Default(), Options{
		From:  monday,
		To:    monday.AddDate(1, 0, 0),
		Unit:  UnitMonth,
		Step:  MaxSpanYears * 12,
		Width: 1000,
	})
	if err != nil {
		t.Fatal(err)
	}

	c := g.Columns()[0]
	var sum float64
	for _, f := range c.TimeFrames() {
		sum += f.Width
	}
	if math.Abs(sum-c.Width()) > 1e-6 {
		t.Errorf("frame widths sum to %v, want %v", sum, c.Width())
	}
	if got := g.DateFromPosition(g.Width(), column.Snap{}); got.Before(c.Start()) || got.After(c.End()) {
		t.Errorf("DateFromPosition(width) = %v, outside [%v, %v]", got, c.Start(), c.End())
	}
}

func TestGenerateTooManyColumns(t *testing.T) {
	_, err := Generate(nil, Options{From: monday, To: monday.AddDate(2, 0, 0), Unit: UnitHour})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("error = %v, want code %s", err, errors.ErrCodeInvalidInput)
	}
}

func TestColumnAt(t *testing.T) {
	g := week(t, nil, "")

	tests := []struct {
		position float64
		want     int
	}{
		{-10, 0},
		{0, 0},
		{99.9, 0},
		{100, 1},
		{150, 1},
		{699, 6},
		{700, 6},
		{1000, 6},
	}

	for _, tt := range tests {
		if got := g.ColumnAt(tt.position); !got.Equals(g.columns[tt.want]) {
			t.Errorf("ColumnAt(%v) starts at %v, want column %d", tt.position, got.Start(), tt.want)
		}
	}
}

func TestColumnFor(t *testing.T) {
	g := week(t, nil, "")

	tests := []struct {
		name   string
		t      time.Time
		want   int
		wantOK bool
	}{
		{"grid start", monday, 0, true},
		{"shared boundary", hoursAfterMonday(24), 0, true},
		{"inside", hoursAfterMonday(36), 1, true},
		{"grid end", hoursAfterMonday(7 * 24), 6, true},
		{"before", hoursAfterMonday(-1), 0, false},
		{"after", hoursAfterMonday(7*24 + 1), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := g.ColumnFor(tt.t)
			if ok != tt.wantOK {
				t.Fatalf("ColumnFor(%v) ok = %v, want %v", tt.t, ok, tt.wantOK)
			}
			if ok && !c.Equals(g.columns[tt.want]) {
				t.Errorf("ColumnFor(%v) starts at %v, want column %d", tt.t, c.Start(), tt.want)
			}
		})
	}
}

func TestGridMapping(t *testing.T) {
	g := week(t, nil, "")

	positions := map[time.Time]float64{
		hoursAfterMonday(36):  150,
		hoursAfterMonday(-5):  0,
		hoursAfterMonday(999): 700,
		monday:                0,
	}
	for instant, want := range positions {
		if got := g.PositionFromDate(instant); !approx(got, want) {
			t.Errorf("PositionFromDate(%v) = %v, want %v", instant, got, want)
		}
	}

	if got := g.DateFromPosition(150, column.Snap{}); !got.Equal(hoursAfterMonday(36)) {
		t.Errorf("DateFromPosition(150) = %v", got)
	}
	snap := column.Snap{Amount: 1, Unit: column.UnitColumn}
	if got := g.DateFromPosition(150, snap); !got.Equal(hoursAfterMonday(48)) {
		t.Errorf("DateFromPosition(150, column) = %v, want the column end", got)
	}
	if got := g.DateFromPosition(120, snap); !got.Equal(hoursAfterMonday(24)) {
		t.Errorf("DateFromPosition(120, column) = %v, want the column start", got)
	}
}

func TestGridCroppedWeekends(t *testing.T) {
	g := week(t, calendar.Default(), timeframe.Cropped)
	cols := g.Columns()

	if got := g.PositionFromDate(hoursAfterMonday(12)); !approx(got, 40) {
		t.Errorf("PositionFromDate(monday noon) = %v, want 40", got)
	}
	if got := g.DateFromPosition(140, column.Snap{}); got.Sub(hoursAfterMonday(24+12)).Abs() > time.Microsecond {
		t.Errorf("DateFromPosition(140) = %v, want tuesday noon", got)
	}

	for i, c := range cols {
		weekend := i >= 5
		if c.Cropped() != weekend {
			t.Errorf("column %d Cropped() = %v, want %v", i, c.Cropped(), weekend)
		}
	}
}

func TestExport(t *testing.T) {
	g := week(t, calendar.Default(), timeframe.Cropped)

	var buf bytes.Buffer
	if err := WriteJSON(g, &buf); err != nil {
		t.Fatalf("WriteJSON() error: %v", err)
	}
	e, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error: %v", err)
	}

	if len(e.Columns) != 7 || e.Unit != UnitDay || e.NonWorkingMode != "cropped" {
		t.Fatalf("unexpected export header: %d columns, unit %s, mode %s", len(e.Columns), e.Unit, e.NonWorkingMode)
	}

	tuesday := e.Columns[1]
	if len(tuesday.Frames) != 3 {
		t.Fatalf("tuesday has %d frames, want 3", len(tuesday.Frames))
	}
	for _, f := range tuesday.Frames {
		if f.Cropped && f.Left != nil {
			t.Errorf("cropped frame %v-%v exports a left edge", f.Start, f.End)
		}
		if !f.Cropped && (f.Left == nil || !approx(*f.Left, 100)) {
			t.Errorf("working frame left = %v, want 100", f.Left)
		}
	}
	if !e.Columns[6].Cropped {
		t.Error("sunday should be exported as cropped")
	}
}
