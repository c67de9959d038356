package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stitchkit/skein/internal/harness"
)

// scenarioReport is the JSON payload for one scenario run.
type scenarioReport struct {
	Name     string   `json:"name"`
	Passed   bool     `json:"passed"`
	Failures []string `json:"failures,omitempty"`
}

// NewTestCommand creates the test command.
func NewTestCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "test <scenarios-dir>",
		Short: "Run YAML pattern scenarios",
		Long: `Run every scenario file (*.yaml, *.yml) in a directory.

Each scenario parses a pattern with a deterministic engine and checks its
expectations. Exits 1 if any scenario fails, 2 if scenarios cannot load.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTest(rootOpts, args[0], cmd)
		},
	}
	return cmd
}

func runTest(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := &OutputFormatter{
		Format:    opts.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   opts.Verbose,
	}

	paths, err := findScenarioFiles(dir)
	if err != nil {
		formatter.Error(ErrCodeNotFound, err.Error(), nil)
		return WrapExitError(ExitCommandError, err.Error(), nil)
	}
	if len(paths) == 0 {
		msg := fmt.Sprintf("no scenario files found in %s", dir)
		formatter.Error(ErrCodeNotFound, msg, nil)
		return NewExitError(ExitCommandError, msg)
	}

	var reports []scenarioReport
	failed := 0

	for _, path := range paths {
		scenario, err := harness.LoadScenario(path)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", path, err)
			formatter.Error(ErrCodeLoadFailed, msg, nil)
			return WrapExitError(ExitCommandError, msg, nil)
		}

		formatter.VerboseLog("running scenario %s", scenario.Name)
		result, err := harness.Run(scenario)
		if err != nil {
			msg := fmt.Sprintf("%s: %v", scenario.Name, err)
			formatter.Error(ErrCodeGeneric, msg, nil)
			return WrapExitError(ExitCommandError, msg, nil)
		}

		if !result.Passed() {
			failed++
		}
		reports = append(reports, scenarioReport{
			Name:     scenario.Name,
			Passed:   result.Passed(),
			Failures: result.Failures,
		})
	}

	if opts.Format == "json" {
		if err := formatter.Success(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Passed {
				fmt.Fprintf(cmd.OutOrStdout(), "PASS %s\n", r.Name)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "FAIL %s\n", r.Name)
			for _, f := range r.Failures {
				fmt.Fprintf(cmd.OutOrStdout(), "     %s\n", f)
			}
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d scenarios, %d failed\n", len(reports), failed)
	}

	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d of %d scenarios failed", failed, len(reports)))
	}
	return nil
}

// findScenarioFiles returns YAML files in dir, sorted for stable run order.
func findScenarioFiles(dir string) ([]string, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("scenarios directory not found: %s", dir)
	}
	if err != nil {
		return nil, fmt.Errorf("error accessing scenarios directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("not a directory: %s", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("error scanning directory: %w", err)
	}

	var paths []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			paths = append(paths, filepath.Join(dir, e.Name()))
		}
	}
	sort.Strings(paths)
	return paths, nil
}
