package harness

import (
	"fmt"
	"strings"

	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/pattern"
)

// Result holds the outcome of one scenario run.
type Result struct {
	Scenario *Scenario
	Parsed   pattern.ParseResult

	// Failures lists unmet expectations. Empty means the scenario passed.
	Failures []string
}

// Passed reports whether every expectation was met.
func (r *Result) Passed() bool {
	return len(r.Failures) == 0
}

// Run parses the scenario's pattern with a deterministic engine and checks
// every expectation. Expectation mismatches land in Result.Failures, not in
// the returned error; the error is reserved for scenarios that cannot run
// at all.
func Run(scenario *Scenario) (*Result, error) {
	if scenario == nil {
		return nil, fmt.Errorf("scenario is nil")
	}

	castOn := scenario.CastOn
	if castOn == 0 {
		castOn = engine.DefaultStartingStitches
	}

	eng := engine.New(engine.WithRowIDs(engine.NewSequenceGenerator(scenario.Name)))
	parsed := eng.Parse(scenario.Pattern, scenario.PatternGlossary(), castOn)

	result := &Result{Scenario: scenario, Parsed: parsed}
	checkExpectations(result)
	return result, nil
}

func checkExpectations(r *Result) {
	expect := r.Scenario.Expect
	parsed := r.Parsed

	if expect.RowCount != nil && len(parsed.Rows) != *expect.RowCount {
		r.fail("expected %d rows, got %d", *expect.RowCount, len(parsed.Rows))
	}

	if expect.NoErrors && len(parsed.Errors) > 0 {
		r.fail("expected no errors, got %v", parsed.Errors)
	}

	for i, re := range expect.Rows {
		if i >= len(parsed.Rows) {
			r.fail("expect.rows[%d]: only %d rows assembled", i, len(parsed.Rows))
			continue
		}
		row := parsed.Rows[i]
		if re.Label != "" && row.RowLabel != re.Label {
			r.fail("rows[%d]: label %q, want %q", i, row.RowLabel, re.Label)
		}
		if re.Total != nil && row.TotalStitches != *re.Total {
			r.fail("rows[%d]: total_stitches %d, want %d", i, row.TotalStitches, *re.Total)
		}
		if re.Start != nil && row.StartCount != *re.Start {
			r.fail("rows[%d]: start_count %d, want %d", i, row.StartCount, *re.Start)
		}
		if re.End != nil && row.EndCount != *re.End {
			r.fail("rows[%d]: end_count %d, want %d", i, row.EndCount, *re.End)
		}
	}

	for _, want := range expect.ErrorsContain {
		if !anyContains(parsed.Errors, want) {
			r.fail("no error contains %q (errors: %v)", want, parsed.Errors)
		}
	}
	for _, want := range expect.WarningsContain {
		if !anyContains(parsed.Warnings, want) {
			r.fail("no warning contains %q (warnings: %v)", want, parsed.Warnings)
		}
	}
}

func (r *Result) fail(format string, args ...any) {
	r.Failures = append(r.Failures, fmt.Sprintf(format, args...))
}

func anyContains(haystack []string, needle string) bool {
	for _, s := range haystack {
		if strings.Contains(s, needle) {
			return true
		}
	}
	return false
}
