package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/timegrid/pkg/errors"
)

const (
	formatTable = "table"
	formatJSON  = "json"
)

// columnsCommand creates the columns command.
func (c *CLI) columnsCommand() *cobra.Command {
	var (
		gf     gridFlags
		format string
		output string
		frames bool
	)

	cmd := &cobra.Command{
		Use:   "columns",
		Short: "Build a grid and list its columns",
		Long: `Build a grid and list its columns.

The table format prints every column's span and pixel placement, and with
--frames the visible working and non-working frames inside it. The json
format prints the full export, which is cached between runs.`,
		Example: `  timegrid columns --from 2026-03-02 --to 2026-03-09 --non-working cropped --frames
  timegrid columns --from 2026-01-01 --to 2027-01-01 -u month -f json -o year.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := gf.options()
			if err != nil {
				return err
			}
			cal, hash, err := gf.calendar()
			if err != nil {
				return err
			}
			b, err := c.newBuilder(gf.noCache)
			if err != nil {
				return err
			}
			defer b.Cache.Close()

			prog := newProgress(c.Logger)
			switch format {
			case formatJSON:
				data, hit, err := b.ExportJSON(cmd.Context(), cal, hash, opts)
				if err != nil {
					return err
				}
				if hit {
					c.Logger.Debug("export served from cache")
				}
				if output == "" {
					_, err = os.Stdout.Write(data)
					return err
				}
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("write %s: %w", output, err)
				}
				prog.done("Exported grid")
				printFile(output)
				return nil

			case formatTable:
				g, err := b.Build(cmd.Context(), cal, opts)
				if err != nil {
					return err
				}
				prog.done(fmt.Sprintf("Built %d columns", len(g.Columns())))
				fmt.Println(StyleTitle.Render(fmt.Sprintf("%s to %s", g.Start().Format(columnTimeFormat), g.End().Format(columnTimeFormat))))
				renderColumns(os.Stdout, g, frames)
				printKeyValue("Width", StyleNumber.Render(formatPixels(g.Width())))
				return nil

			default:
				return errors.New(errors.ErrCodeInvalidFormat, "invalid format: %q (must be one of: table, json)", format)
			}
		},
	}

	gf.register(cmd)
	cmd.Flags().StringVarP(&format, "format", "f", formatTable, "output format: table, json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write json output to a file instead of stdout")
	cmd.Flags().BoolVar(&frames, "frames", false, "list visible frames under each column")
	_ = cmd.RegisterFlagCompletionFunc("format", fixedCompletions(formatTable, formatJSON))

	return cmd
}
