package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/calendar"
	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/errors"
	"github.com/matzehuels/timegrid/pkg/grid"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// timeLayouts are the layouts accepted by time flags, tried in order. Layouts
// without an offset are read in the --tz location.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// gridFlags are the flags shared by every command that builds a grid.
type gridFlags struct {
	from, to     string
	tz           string
	unit         string
	step         int
	width        float64
	columnWidth  float64
	working      string
	nonWorking   string
	calendarFile string
	noCache      bool
}

func (f *gridFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.StringVar(&f.from, "from", "", "start of the grid (RFC 3339, YYYY-MM-DD or YYYY-MM-DDTHH:MM)")
	fs.StringVar(&f.to, "to", "", "end of the grid (same formats as --from)")
	fs.StringVar(&f.tz, "tz", "Local", "time zone for times without an offset (IANA name)")
	fs.StringVarP(&f.unit, "unit", "u", string(grid.DefaultUnit), "column unit: hour, day, week, month")
	fs.IntVar(&f.step, "step", grid.DefaultStep, "units per column")
	fs.Float64VarP(&f.width, "width", "w", grid.DefaultWidth, "total grid width in pixels")
	fs.Float64Var(&f.columnWidth, "column-width", 0, "fixed width per column in pixels (overrides --width)")
	fs.StringVar(&f.working, "working", string(timeframe.Visible), "working time display mode: hidden, visible, cropped")
	fs.StringVar(&f.nonWorking, "non-working", string(timeframe.Visible), "non-working time display mode: hidden, visible, cropped")
	fs.StringVarP(&f.calendarFile, "calendar", "c", "", "calendar file (.toml, .yaml or .json); weekdays 08:00-18:00 when empty")
	fs.BoolVar(&f.noCache, "no-cache", false, "disable caching")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")
	_ = cmd.MarkFlagFilename("calendar", "toml", "yaml", "yml", "json")
	_ = cmd.RegisterFlagCompletionFunc("unit", fixedCompletions("hour", "day", "week", "month"))
	_ = cmd.RegisterFlagCompletionFunc("working", fixedCompletions("hidden", "visible", "cropped"))
	_ = cmd.RegisterFlagCompletionFunc("non-working", fixedCompletions("hidden", "visible", "cropped"))
}

// location resolves --tz.
func (f *gridFlags) location() (*time.Location, error) {
	loc, err := time.LoadLocation(f.tz)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid time zone %q", f.tz)
	}
	return loc, nil
}

// options converts the flags into grid options.
func (f *gridFlags) options() (grid.Options, error) {
	loc, err := f.location()
	if err != nil {
		return grid.Options{}, err
	}
	from, err := parseTime(f.from, loc)
	if err != nil {
		return grid.Options{}, err
	}
	to, err := parseTime(f.to, loc)
	if err != nil {
		return grid.Options{}, err
	}
	unit, err := grid.ParseUnit(f.unit)
	if err != nil {
		return grid.Options{}, err
	}
	working, err := timeframe.ParseDisplayMode(f.working)
	if err != nil {
		return grid.Options{}, err
	}
	nonWorking, err := timeframe.ParseDisplayMode(f.nonWorking)
	if err != nil {
		return grid.Options{}, err
	}

	opts := grid.Options{
		From:           from,
		To:             to,
		Unit:           unit,
		Step:           f.step,
		Width:          f.width,
		ColumnWidth:    f.columnWidth,
		WorkingMode:    working,
		NonWorkingMode: nonWorking,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return grid.Options{}, err
	}
	return opts, nil
}

// calendar loads --calendar, or the default calendar when it is unset. The
// returned hash identifies the calendar's content for caching.
func (f *gridFlags) calendar() (*calendar.Calendar, string, error) {
	cfg := calendar.DefaultConfig()
	if f.calendarFile != "" {
		loaded, err := calendar.ReadFile(f.calendarFile)
		if err != nil {
			return nil, "", err
		}
		cfg = *loaded
	}
	cal, err := cfg.Build()
	if err != nil {
		return nil, "", err
	}
	hash, err := cfg.Hash()
	if err != nil {
		return nil, "", err
	}
	return cal, hash, nil
}

// snapFlags configure magnet snapping for the date command.
type snapFlags struct {
	amount   int
	unit     string
	midpoint string
	frames   bool
}

func (f *snapFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.IntVar(&f.amount, "snap", 0, "snap to multiples of this many --snap-unit (0 disables snapping)")
	fs.StringVar(&f.unit, "snap-unit", string(column.UnitMinute), "snap unit: ms, second, minute, hour, day, month, year, column")
	fs.StringVar(&f.midpoint, "midpoint", string(column.MidpointNearest), "rounding between multiples: nearest, up, down")
	fs.BoolVar(&f.frames, "snap-frames", false, "also snap to nearby magnet frame boundaries")

	_ = cmd.RegisterFlagCompletionFunc("midpoint", fixedCompletions("nearest", "up", "down"))
}

func (f *snapFlags) snap() (column.Snap, error) {
	snap := column.Snap{Amount: f.amount, Frames: f.frames}
	var err error
	if snap.Unit, err = column.ParseUnit(f.unit); err != nil {
		return column.Snap{}, err
	}
	if snap.Midpoint, err = column.ParseMidpoint(f.midpoint); err != nil {
		return column.Snap{}, err
	}
	return snap, nil
}

// parseTime parses s with the first matching layout of timeLayouts.
func parseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New(errors.ErrCodeInvalidInput, "time is required")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.New(errors.ErrCodeInvalidInput, "invalid time %q (want RFC 3339, YYYY-MM-DD or YYYY-MM-DDTHH:MM)", s)
}

func fixedCompletions(values ...string) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return values, cobra.ShellCompDirectiveNoFileComp
	}
}
