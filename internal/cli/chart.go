package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/pattern"
)

// NewChartCommand creates the chart command.
func NewChartCommand(rootOpts *RootOptions) *cobra.Command {
	var glossaryPath string
	var castOn int

	cmd := &cobra.Command{
		Use:   "chart <pattern-file>",
		Short: "Render the expanded per-stitch timeline",
		Long: `Render each row's expanded timeline as a grid of stitch cells.

Every cell is one stitch: a k2tog occupies two cells, a cdd three. The
grid is what a navigation cursor walks one stitch at a time.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChart(rootOpts, args[0], glossaryPath, castOn, cmd)
		},
	}

	cmd.Flags().StringVar(&glossaryPath, "glossary", "", "glossary file (CUE or YAML)")
	cmd.Flags().IntVar(&castOn, "cast-on", 0, "starting stitch count (default 90)")
	return cmd
}

type chartRow struct {
	Label string   `json:"label"`
	Cells []string `json:"cells"`
}

func runChart(opts *RootOptions, path, glossaryPath string, castOn int, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	input, err := LoadInput(path, glossaryPath, castOn)
	if err != nil {
		return reportLoadError(formatter, err)
	}

	result := engine.Parse(input.PatternText, input.Glossary, input.CastOn)

	if opts.Format == "json" {
		rows := make([]chartRow, len(result.Rows))
		for i, row := range result.Rows {
			cells := make([]string, len(row.Expanded))
			for j, step := range row.Expanded {
				cells[j] = step.Code
			}
			rows[i] = chartRow{Label: row.RowLabel, Cells: cells}
		}
		return formatter.Success(rows)
	}

	fmt.Fprint(cmd.OutOrStdout(), renderChart(result))
	return nil
}

func renderChart(result pattern.ParseResult) string {
	var b strings.Builder

	width := cellWidth(result.Rows)
	for _, row := range result.Rows {
		fmt.Fprintf(&b, "%-8s|", row.RowLabel)
		for _, step := range row.Expanded {
			fmt.Fprintf(&b, " %-*s|", width, step.Code)
		}
		b.WriteByte('\n')
	}
	if len(result.Rows) == 0 {
		b.WriteString("no rows assembled\n")
	}

	for _, e := range result.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	return b.String()
}

func cellWidth(rows []pattern.PatternRow) int {
	width := 1
	for _, row := range rows {
		for _, step := range row.Expanded {
			if len(step.Code) > width {
				width = len(step.Code)
			}
		}
	}
	return width
}
