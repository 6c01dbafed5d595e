package calendar

import (
	"testing"
	"time"

	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// monday is 2026-03-02.
var monday = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func clock(h, m int) time.Time {
	return monday.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

type span struct {
	start, end time.Time
	working    bool
	fill       bool
}

func assertTiling(t *testing.T, got []timeframe.TimeFrame, want []span) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d frames, want %d: %v", len(got), len(want), describe(got))
	}
	for i, w := range want {
		f := got[i]
		if !f.Start.Equal(w.start) || !f.End.Equal(w.end) || f.Working != w.working || f.Fill != w.fill {
			t.Errorf("frame %d = %v, want [%s-%s working=%v fill=%v]", i, describe(got[i:i+1]),
				w.start.Format("15:04"), w.end.Format("15:04"), w.working, w.fill)
		}
	}
}

func describe(frames []timeframe.TimeFrame) []string {
	out := make([]string, len(frames))
	for i, f := range frames {
		out[i] = f.Start.Format("01-02 15:04") + "-" + f.End.Format("01-02 15:04")
		if f.Working {
			out[i] += " working"
		}
		if f.Fill {
			out[i] += " fill"
		}
	}
	return out
}

func TestRuleMatches(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
		day  time.Time
		want bool
	}{
		{"no conditions", Rule{}, monday, true},
		{"weekday hit", Rule{Weekdays: []time.Weekday{time.Monday}}, monday.Add(15 * time.Hour), true},
		{"weekday miss", Rule{Weekdays: []time.Weekday{time.Saturday, time.Sunday}}, monday, false},
		{"date hit", Rule{Date: monday.Add(9 * time.Hour)}, monday.Add(23 * time.Hour), true},
		{"date miss", Rule{Date: monday.AddDate(0, 0, 1)}, monday, false},
		{"range inclusive start", Rule{From: monday, To: monday.AddDate(0, 0, 3)}, monday, true},
		{"range inclusive end", Rule{From: monday, To: monday.AddDate(0, 0, 3)}, monday.AddDate(0, 0, 3).Add(20 * time.Hour), true},
		{"range after", Rule{From: monday, To: monday.AddDate(0, 0, 3)}, monday.AddDate(0, 0, 4), false},
		{"open range", Rule{From: monday.AddDate(0, 0, -10)}, monday, true},
		{"range and weekday", Rule{From: monday, Weekdays: []time.Weekday{time.Sunday}}, monday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.rule.Matches(tt.day); got != tt.want {
				t.Errorf("Matches(%v) = %v, want %v", tt.day, got, tt.want)
			}
		})
	}
}

func TestFramesDefaultRules(t *testing.T) {
	cal := &Calendar{
		Templates: map[string]Template{
			"day":     {Name: "day", Start: At(8, 0), End: At(18, 0), Working: true},
			"holiday": {Name: "holiday"},
		},
		Rules: []Rule{
			{Name: "weekdays", Weekdays: []time.Weekday{time.Monday, time.Tuesday}, Default: true, Targets: []string{"day"}},
			{Name: "carnival", Date: monday.AddDate(0, 0, 1), Targets: []string{"holiday"}},
		},
	}

	frames := cal.Frames(monday)
	if len(frames) != 1 || frames[0].Name != "day" {
		t.Fatalf("Frames(monday) = %v, want the day template", describe(frames))
	}
	if !frames[0].Start.Equal(clock(8, 0)) || !frames[0].End.Equal(clock(18, 0)) {
		t.Errorf("day frame = %v", describe(frames))
	}

	tuesday := cal.Frames(monday.AddDate(0, 0, 1))
	if len(tuesday) != 1 || tuesday[0].Name != "holiday" {
		t.Fatalf("Frames(tuesday) = %v, want only the holiday", describe(tuesday))
	}
	if !tuesday[0].Start.IsZero() || !tuesday[0].End.IsZero() {
		t.Error("holiday frame should have undefined boundaries")
	}

	if got := cal.Frames(monday.AddDate(0, 0, 5)); len(got) != 0 {
		t.Errorf("Frames(saturday) = %v, want none", describe(got))
	}
}

func TestSolveFillsGaps(t *testing.T) {
	cal := &Calendar{}
	frames := []timeframe.TimeFrame{
		{Start: clock(8, 0), End: clock(12, 0), Working: true},
		{Start: clock(13, 0), End: clock(17, 0), Working: true},
	}

	got := cal.Solve(frames, clock(0, 0), clock(24, 0))
	assertTiling(t, got, []span{
		{clock(0, 0), clock(8, 0), false, true},
		{clock(8, 0), clock(12, 0), true, false},
		{clock(12, 0), clock(13, 0), false, true},
		{clock(13, 0), clock(17, 0), true, false},
		{clock(17, 0), clock(24, 0), false, true},
	})
}

func TestSolveClipsAndDrops(t *testing.T) {
	cal := &Calendar{FillWorking: true}
	frames := []timeframe.TimeFrame{
		{Start: clock(2, 0), End: clock(7, 0)},
		{Start: clock(5, 0), End: clock(11, 0)},
		{Start: clock(20, 0), End: clock(22, 0)},
		{Start: clock(9, 0), End: clock(9, 0)},
	}

	got := cal.Solve(frames, clock(6, 0), clock(10, 0))
	assertTiling(t, got, []span{
		{clock(6, 0), clock(10, 0), false, false},
	})

	if got := cal.Solve(frames, clock(10, 0), clock(10, 0)); got != nil {
		t.Errorf("Solve() on an empty range = %v, want nil", describe(got))
	}
}

func TestSolvePriority(t *testing.T) {
	cal := &Calendar{}
	frames := []timeframe.TimeFrame{
		{Name: "lunch", Start: clock(12, 0), End: clock(13, 0), Priority: 1},
		{Name: "day", Start: clock(8, 0), End: clock(18, 0), Working: true},
	}

	got := cal.Solve(frames, clock(0, 0), clock(24, 0))
	assertTiling(t, got, []span{
		{clock(0, 0), clock(8, 0), false, true},
		{clock(8, 0), clock(12, 0), true, false},
		{clock(12, 0), clock(13, 0), false, false},
		{clock(13, 0), clock(18, 0), true, false},
		{clock(18, 0), clock(24, 0), false, true},
	})
	if got[2].Name != "lunch" {
		t.Errorf("frame 2 name = %q, want lunch", got[2].Name)
	}
}

func TestSolveLaterDeclarationWinsTies(t *testing.T) {
	cal := &Calendar{}
	frames := []timeframe.TimeFrame{
		{Name: "early", Start: clock(8, 0), End: clock(12, 0), Working: true},
		{Name: "late", Start: clock(10, 0), End: clock(14, 0)},
	}

	got := cal.Solve(frames, clock(8, 0), clock(14, 0))
	assertTiling(t, got, []span{
		{clock(8, 0), clock(10, 0), true, false},
		{clock(10, 0), clock(14, 0), false, false},
	})
}

func TestSolveUnboundedFrame(t *testing.T) {
	cal := &Calendar{FillWorking: true}
	frames := []timeframe.TimeFrame{
		{Name: "holiday"},
		{Name: "meeting", Start: clock(9, 0), End: clock(10, 0), Working: true, Priority: 5},
	}

	got := cal.Solve(frames, clock(0, 0), clock(24, 0))
	assertTiling(t, got, []span{
		{clock(0, 0), clock(9, 0), false, false},
		{clock(9, 0), clock(10, 0), true, false},
		{clock(10, 0), clock(24, 0), false, false},
	})
}

func TestSolveDoesNotModifyInput(t *testing.T) {
	cal := &Calendar{}
	frames := []timeframe.TimeFrame{
		{Name: "b", Start: clock(10, 0), End: clock(30, 0), Priority: 2},
		{Name: "a", Start: clock(-2, 0), End: clock(12, 0), Priority: 1},
	}

	_ = cal.Solve(frames, clock(0, 0), clock(24, 0))
	if frames[0].Name != "b" || !frames[0].End.Equal(clock(30, 0)) || !frames[1].Start.Equal(clock(-2, 0)) {
		t.Errorf("input was modified: %v", describe(frames))
	}
}

func TestDefaultCalendar(t *testing.T) {
	cal := Default()

	got := cal.Solve(cal.Frames(monday), monday, monday.AddDate(0, 0, 1))
	assertTiling(t, got, []span{
		{clock(0, 0), clock(8, 0), false, true},
		{clock(8, 0), clock(18, 0), true, false},
		{clock(18, 0), clock(24, 0), false, true},
	})
	if !got[1].Magnet {
		t.Error("working day should be magnetic")
	}

	sunday := monday.AddDate(0, 0, -1)
	got = cal.Solve(cal.Frames(sunday), sunday, monday)
	assertTiling(t, got, []span{{sunday, monday, false, true}})
}

func TestClock(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"08:30", clock(8, 30), false},
		{"00:00", clock(0, 0), false},
		{"24:00", clock(24, 0), false},
		{"", time.Time{}, false},
		{"8:30", time.Time{}, true},
		{"24:30", time.Time{}, true},
		{"noon", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseClock(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseClock(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got := c.On(monday); !got.Equal(tt.want) {
				t.Errorf("ParseClock(%q).On(monday) = %v, want %v", tt.in, got, tt.want)
			}
			if err == nil && c.String() != tt.in {
				t.Errorf("String() = %q, want %q", c.String(), tt.in)
			}
		})
	}
}
