package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitchkit/skein/internal/engine"
)

// ValidationResult holds validate command results.
type ValidationResult struct {
	Valid    bool     `json:"valid"`
	Rows     int      `json:"rows"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	var glossaryPath string
	var castOn int
	var strict bool

	cmd := &cobra.Command{
		Use:   "validate <pattern-file>",
		Short: "Check a pattern for errors without printing rows",
		Long: `Parse a pattern and report only its diagnostics.

Exits 1 when the pattern produces row-rejecting errors. With --strict,
warnings (unrecognized instructions) also fail validation.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], glossaryPath, castOn, strict, cmd)
		},
	}

	cmd.Flags().StringVar(&glossaryPath, "glossary", "", "glossary file (CUE or YAML)")
	cmd.Flags().IntVar(&castOn, "cast-on", 0, "starting stitch count (default 90)")
	cmd.Flags().BoolVar(&strict, "strict", false, "treat warnings as failures")
	return cmd
}

func runValidate(opts *RootOptions, path, glossaryPath string, castOn int, strict bool, cmd *cobra.Command) error {
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

	valid := len(result.Errors) == 0 && (!strict || len(result.Warnings) == 0)
	out := ValidationResult{
		Valid:    valid,
		Rows:     len(result.Rows),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	}

	if opts.Format == "json" {
		if err := formatter.Success(out); err != nil {
			return err
		}
	} else {
		if valid {
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %d rows\n", out.Rows)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "invalid: %d rows assembled\n", out.Rows)
		}
		for _, e := range result.Errors {
			fmt.Fprintf(cmd.OutOrStdout(), "error: %s\n", e)
		}
		for _, w := range result.Warnings {
			fmt.Fprintf(cmd.OutOrStdout(), "warning: %s\n", w)
		}
	}

	if !valid {
		return NewExitError(ExitFailure, "pattern validation failed")
	}
	return nil
}
