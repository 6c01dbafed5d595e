package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/timegrid/pkg/grid"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success, working time
	colorYellow = lipgloss.Color("220") // Amber - warnings, cropped
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)

	styleWorking    = lipgloss.NewStyle().Foreground(colorGreen)
	styleNonWorking = lipgloss.NewStyle().Foreground(colorGray)
	styleCropped    = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Grid Display
// =============================================================================

// columnTimeFormat is the timestamp layout used in tables.
const columnTimeFormat = "2006-01-02 15:04"

// renderColumns writes one table row per column. With frames set, every
// column is followed by one row per visible frame.
func renderColumns(w io.Writer, g *grid.Grid, frames bool) {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	var rows [][]string
	var styles []lipgloss.Style
	for i, c := range g.Columns() {
		status := ""
		if c.Cropped() {
			status = styleCropped.Render("cropped")
		}
		rows = append(rows, []string{
			strconv.Itoa(i),
			c.Start().Format(columnTimeFormat),
			c.End().Format(columnTimeFormat),
			formatPixels(c.Left()),
			formatPixels(c.Width()),
			status,
		})
		styles = append(styles, StyleValue)

		if !frames {
			continue
		}
		for _, f := range c.VisibleTimeFrames() {
			rows = append(rows, []string{
				"",
				"  " + f.Start.Format(columnTimeFormat),
				f.End.Format(columnTimeFormat),
				formatPixels(c.Left() + f.Left),
				formatPixels(f.Width),
				frameLabel(f.Name, f.Working, f.Fill),
			})
			styles = append(styles, frameStyle(f.Working))
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("#", "Start", "End", "Left", "Width", "").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if row >= 0 && row < len(styles) {
				return styles[row].Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})

	fmt.Fprintln(w, t.Render())
}

func frameStyle(working bool) lipgloss.Style {
	if working {
		return styleWorking
	}
	return styleNonWorking
}

func frameLabel(name string, working, fill bool) string {
	kind := "non-working"
	if working {
		kind = "working"
	}
	switch {
	case fill:
		return kind
	case name != "":
		return name + " (" + kind + ")"
	default:
		return kind
	}
}

// formatPixels formats a pixel value with at most two decimals.
func formatPixels(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}
