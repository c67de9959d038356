package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stitchkit/skein/internal/cursor"
	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/store"
)

// NewProjectCommand creates the project command group.
// Projects persist only raw inputs plus cursor state; rows are recomputed
// on every load.
func NewProjectCommand(rootOpts *RootOptions) *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage persisted pattern projects",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "skein.db", "project database path")

	cmd.AddCommand(newProjectSaveCommand(rootOpts, &dbPath))
	cmd.AddCommand(newProjectListCommand(rootOpts, &dbPath))
	cmd.AddCommand(newProjectAdvanceCommand(rootOpts, &dbPath))
	cmd.AddCommand(newProjectDeleteCommand(rootOpts, &dbPath))
	return cmd
}

func newProjectSaveCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	var glossaryPath string
	var castOn int

	cmd := &cobra.Command{
		Use:           "save <name> <pattern-file>",
		Short:         "Create or update a project from a pattern file",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			input, err := LoadInput(args[1], glossaryPath, castOn)
			if err != nil {
				return reportLoadError(formatter, err)
			}

			s, err := store.Open(*dbPath)
			if err != nil {
				return reportStoreError(formatter, err)
			}
			defer s.Close()

			project := &store.Project{
				Name:             args[0],
				PatternText:      input.PatternText,
				Glossary:         input.Glossary,
				StartingStitches: input.CastOn,
			}
			if existing, err := s.LoadProject(cmd.Context(), args[0]); err == nil {
				// Keep the ID and cursor of an existing project; a changed
				// fingerprint will reveal that the cursor may be stale.
				project.ID = existing.ID
				project.Cursor = existing.Cursor
			}

			if err := s.SaveProject(cmd.Context(), project); err != nil {
				return reportStoreError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("saved project %s (%s)", project.Name, project.Fingerprint[:12]))
		},
	}

	cmd.Flags().StringVar(&glossaryPath, "glossary", "", "glossary file (CUE or YAML)")
	cmd.Flags().IntVar(&castOn, "cast-on", 0, "starting stitch count (default 90)")
	return cmd
}

func newProjectListCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "list",
		Short:         "List saved projects",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := store.Open(*dbPath)
			if err != nil {
				return reportStoreError(formatter, err)
			}
			defer s.Close()

			names, err := s.ListProjects(cmd.Context())
			if err != nil {
				return reportStoreError(formatter, err)
			}

			if rootOpts.Format == "json" {
				return formatter.Success(names)
			}
			for _, name := range names {
				fmt.Fprintln(cmd.OutOrStdout(), name)
			}
			return nil
		},
	}
}

// advanceOutput is the JSON payload for project advance.
type advanceOutput struct {
	Row      int    `json:"row"`
	Stitch   int    `json:"stitch"`
	Label    string `json:"label,omitempty"`
	Code     string `json:"code,omitempty"`
	Complete bool   `json:"complete"`
}

func newProjectAdvanceCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	var stitches int

	cmd := &cobra.Command{
		Use:   "advance <name>",
		Short: "Advance a project's cursor through the timeline",
		Long: `Reparse a project's pattern and move its cursor forward.

The cursor rolls into the next row on overflow and reports completion at
the last stitch of the last row. The new position is persisted.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := store.Open(*dbPath)
			if err != nil {
				return reportStoreError(formatter, err)
			}
			defer s.Close()

			project, err := s.LoadProject(cmd.Context(), args[0])
			if err != nil {
				return reportStoreError(formatter, err)
			}

			// Rows are never persisted; recompute from the raw inputs.
			result := engine.Parse(project.PatternText, project.Glossary, project.StartingStitches)

			pos, complete := cursor.Advance(result, project.Cursor, stitches)
			if err := s.SaveCursor(cmd.Context(), project.ID, pos); err != nil {
				return reportStoreError(formatter, err)
			}

			out := advanceOutput{Row: pos.Row, Stitch: pos.Stitch, Complete: complete}
			if len(result.Rows) > 0 {
				out.Label = result.Rows[pos.Row].RowLabel
				if step, ok := cursor.Step(result, pos); ok {
					out.Code = step.Code
				}
			}

			if rootOpts.Format == "json" {
				return formatter.Success(out)
			}
			if complete {
				fmt.Fprintf(cmd.OutOrStdout(), "%s stitch %d (%s) - pattern complete\n", out.Label, out.Stitch+1, out.Code)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s stitch %d (%s)\n", out.Label, out.Stitch+1, out.Code)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&stitches, "stitches", 1, "number of stitches to advance")
	return cmd
}

func newProjectDeleteCommand(rootOpts *RootOptions, dbPath *string) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <name>",
		Short:         "Delete a project and its counters",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			formatter := newFormatter(rootOpts, cmd)

			s, err := store.Open(*dbPath)
			if err != nil {
				return reportStoreError(formatter, err)
			}
			defer s.Close()

			if err := s.DeleteProject(cmd.Context(), args[0]); err != nil {
				return reportStoreError(formatter, err)
			}
			return formatter.Success(fmt.Sprintf("deleted project %s", args[0]))
		},
	}
}

func newFormatter(rootOpts *RootOptions, cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    rootOpts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   rootOpts.Verbose,
	}
}

func reportStoreError(formatter *OutputFormatter, err error) error {
	if errors.Is(err, store.ErrNotFound) {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
	return WrapExitError(ExitCommandError, err.Error(), nil)
}
