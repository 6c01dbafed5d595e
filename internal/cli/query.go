package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/errors"
)

// dateCommand creates the date command, converting a pixel position to an
// instant.
func (c *CLI) dateCommand() *cobra.Command {
	var (
		gf gridFlags
		sf snapFlags
	)

	cmd := &cobra.Command{
		Use:   "date <position>",
		Short: "Convert a grid position to a date",
		Example: `  timegrid date 312.5 --from 2026-03-02 --to 2026-03-09 -w 700
  timegrid date 312.5 --from 2026-03-02 --to 2026-03-09 -w 700 --snap 15 --snap-unit minute`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			position, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid position %q", args[0])
			}
			snap, err := sf.snap()
			if err != nil {
				return err
			}
			opts, err := gf.options()
			if err != nil {
				return err
			}
			cal, _, err := gf.calendar()
			if err != nil {
				return err
			}
			b, err := c.newBuilder(true)
			if err != nil {
				return err
			}

			g, err := b.Build(cmd.Context(), cal, opts)
			if err != nil {
				return err
			}
			if position < 0 || position > g.Width() {
				printWarning("position %s is outside the grid [0, %s], clamping", formatPixels(position), formatPixels(g.Width()))
			}
			fmt.Println(g.DateFromPosition(position, snap).Format(time.RFC3339Nano))
			return nil
		},
	}

	gf.register(cmd)
	sf.register(cmd)
	return cmd
}

// positionCommand creates the position command, converting an instant to a
// pixel position.
func (c *CLI) positionCommand() *cobra.Command {
	var gf gridFlags

	cmd := &cobra.Command{
		Use:     "position <time>",
		Short:   "Convert a date to a grid position",
		Example: `  timegrid position 2026-03-04T13:30 --from 2026-03-02 --to 2026-03-09 -w 700 --non-working cropped`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := gf.location()
			if err != nil {
				return err
			}
			at, err := parseTime(args[0], loc)
			if err != nil {
				return err
			}
			opts, err := gf.options()
			if err != nil {
				return err
			}
			cal, _, err := gf.calendar()
			if err != nil {
				return err
			}
			b, err := c.newBuilder(true)
			if err != nil {
				return err
			}

			g, err := b.Build(cmd.Context(), cal, opts)
			if err != nil {
				return err
			}
			if at.Before(g.Start()) || at.After(g.End()) {
				printWarning("%s is outside the grid, clamping", at.Format(time.RFC3339))
			}
			fmt.Println(formatPixels(g.PositionFromDate(at)))
			return nil
		},
	}

	gf.register(cmd)
	return cmd
}
