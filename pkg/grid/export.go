package grid

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/timegrid/pkg/column"
	"github.com/matzehuels/timegrid/pkg/timeframe"
)

// Export is the JSON representation of a grid.
type Export struct {
	From           time.Time     `json:"from"`
	To             time.Time     `json:"to"`
	Unit           Unit          `json:"unit"`
	Step           int           `json:"step"`
	Width          float64       `json:"width"`
	WorkingMode    string        `json:"working_mode"`
	NonWorkingMode string        `json:"non_working_mode"`
	Columns        []ColumnEntry `json:"columns"`
}

// ColumnEntry is one exported column.
type ColumnEntry struct {
	Start   time.Time    `json:"start"`
	End     time.Time    `json:"end"`
	Left    float64      `json:"left"`
	Width   float64      `json:"width"`
	Cropped bool         `json:"cropped,omitempty"`
	Frames  []FrameEntry `json:"frames,omitempty"`
}

// FrameEntry is one exported time frame. Left is omitted for cropped frames.
type FrameEntry struct {
	Name    string    `json:"name,omitempty"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Working bool      `json:"working"`
	Fill    bool      `json:"fill,omitempty"`
	Hidden  bool      `json:"hidden,omitempty"`
	Cropped bool      `json:"cropped,omitempty"`
	Left    *float64  `json:"left,omitempty"`
	Width   float64   `json:"width"`
}

// Export converts g into its JSON representation. Frame positions are
// absolute on the grid.
func (g *Grid) Export() Export {
	out := Export{
		From:           g.opts.From,
		To:             g.opts.To,
		Unit:           g.opts.Unit,
		Step:           g.opts.Step,
		Width:          g.width,
		WorkingMode:    string(g.opts.WorkingMode),
		NonWorkingMode: string(g.opts.NonWorkingMode),
		Columns:        make([]ColumnEntry, len(g.columns)),
	}
	for i, c := range g.columns {
		out.Columns[i] = exportColumn(c)
	}
	return out
}

func exportColumn(c *column.Column) ColumnEntry {
	frames := c.TimeFrames()
	entry := ColumnEntry{
		Start:   c.Start(),
		End:     c.End(),
		Left:    c.Left(),
		Width:   c.Width(),
		Cropped: c.Cropped(),
		Frames:  make([]FrameEntry, len(frames)),
	}
	for i, f := range frames {
		entry.Frames[i] = exportFrame(f, c.Left())
	}
	return entry
}

func exportFrame(f timeframe.TimeFrame, offset float64) FrameEntry {
	fe := FrameEntry{
		Name:    f.Name,
		Start:   f.Start,
		End:     f.End,
		Working: f.Working,
		Fill:    f.Fill,
		Hidden:  f.Hidden,
		Cropped: f.Cropped,
		Width:   f.Width,
	}
	if left, ok := f.Position(); ok {
		left += offset
		fe.Left = &left
	}
	return fe
}

// WriteJSON encodes g as indented JSON.
func WriteJSON(g *Grid, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Export()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes an exported grid.
func ReadJSON(r io.Reader) (Export, error) {
	var e Export
	if err := json.NewDecoder(r).Decode(&e); err != nil {
		return Export{}, fmt.Errorf("decode: %w", err)
	}
	return e, nil
}
