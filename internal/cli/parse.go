package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/pattern"
)

// parseOutput is the JSON payload for the parse command.
type parseOutput struct {
	Fingerprint string       `json:"fingerprint"`
	Rows        []rowSummary `json:"rows"`
	Errors      []string     `json:"errors"`
	Warnings    []string     `json:"warnings"`
}

type rowSummary struct {
	Label string `json:"label"`
	Raw   string `json:"raw"`
	Total int    `json:"total_stitches"`
	Start int    `json:"start_count"`
	End   int    `json:"end_count"`
}

// NewParseCommand creates the parse command.
func NewParseCommand(rootOpts *RootOptions) *cobra.Command {
	var glossaryPath string
	var castOn int

	cmd := &cobra.Command{
		Use:   "parse <pattern-file>",
		Short: "Parse a pattern into assembled rows",
		Long: `Parse free-form pattern text into rows with stitch-count bookkeeping.

The input may be a plain text pattern file or a CUE project file carrying
pattern text, cast-on count, and glossary. Errors reject individual rounds
only: the well-formed remainder of the pattern still parses.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(rootOpts, args[0], glossaryPath, castOn, cmd)
		},
	}

	cmd.Flags().StringVar(&glossaryPath, "glossary", "", "glossary file (CUE or YAML)")
	cmd.Flags().IntVar(&castOn, "cast-on", 0, "starting stitch count (default 90)")
	return cmd
}

func runParse(opts *RootOptions, path, glossaryPath string, castOn int, cmd *cobra.Command) error {
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
	fp := pattern.MustInputFingerprint(input.PatternText, input.Glossary, input.CastOn)

	formatter.VerboseLog("parsed %d rows (%d errors, %d warnings), input %s",
		len(result.Rows), len(result.Errors), len(result.Warnings), fp[:12])

	if opts.Format == "json" {
		return formatter.Success(parseOutput{
			Fingerprint: fp,
			Rows:        summarizeRows(result.Rows),
			Errors:      result.Errors,
			Warnings:    result.Warnings,
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), renderRowTable(result))
	return nil
}

// summarizeRows trims rows to the fields useful on the command line.
func summarizeRows(rows []pattern.PatternRow) []rowSummary {
	out := make([]rowSummary, len(rows))
	for i, r := range rows {
		out[i] = rowSummary{
			Label: r.RowLabel,
			Raw:   r.Raw,
			Total: r.TotalStitches,
			Start: r.StartCount,
			End:   r.EndCount,
		}
	}
	return out
}

// renderRowTable renders rows, then diagnostics, as plain text.
func renderRowTable(result pattern.ParseResult) string {
	var b strings.Builder

	for _, row := range result.Rows {
		fmt.Fprintf(&b, "%-8s %3d sts  (%d -> %d)  %s\n",
			row.RowLabel, row.TotalStitches, row.StartCount, row.EndCount, row.Raw)
	}
	if len(result.Rows) == 0 {
		b.WriteString("no rows assembled\n")
	}

	for _, e := range result.Errors {
		fmt.Fprintf(&b, "error: %s\n", e)
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	return b.String()
}

// reportLoadError prints a load failure and converts it to a command error.
func reportLoadError(formatter *OutputFormatter, err error) error {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		formatter.Error(loadErr.Code, loadErr.Message, nil)
		return WrapExitError(ExitCommandError, loadErr.Message, nil)
	}
	formatter.Error(ErrCodeGeneric, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
