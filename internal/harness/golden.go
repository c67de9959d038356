package harness

import (
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"

	"github.com/stitchkit/skein/internal/pattern"
)

// snapshot builds the canonical byte form compared against golden files.
// Row IDs are excluded by ParseResult.CanonicalJSON, so snapshots depend
// only on scenario inputs.
func snapshot(name string, parsed pattern.ParseResult) ([]byte, error) {
	resultJSON, err := parsed.CanonicalJSON()
	if err != nil {
		return nil, fmt.Errorf("canonical snapshot: %w", err)
	}

	// Stitch the scenario name in front of the result object by hand:
	// the result bytes are already canonical and must not be re-encoded.
	nameJSON, err := pattern.MarshalCanonical(map[string]any{"scenario_name": name})
	if err != nil {
		return nil, fmt.Errorf("canonical snapshot: %w", err)
	}

	out := make([]byte, 0, len(nameJSON)+len(resultJSON)+16)
	out = append(out, `{"result":`...)
	out = append(out, resultJSON...)
	out = append(out, ',')
	out = append(out, nameJSON[1:]...) // strip the leading '{' of the name object
	return out, nil
}

// RunWithGolden executes a scenario and compares its canonical snapshot
// against testdata/golden/{scenario.Name}.golden.
//
// To regenerate golden files, run:
//
//	go test ./internal/harness -update
//
// Expectation failures from the scenario itself are also surfaced as test
// failures, so a scenario can carry both inline assertions and a snapshot.
func RunWithGolden(t *testing.T, scenario *Scenario) error {
	t.Helper()

	result, err := Run(scenario)
	if err != nil {
		return err
	}
	for _, f := range result.Failures {
		t.Errorf("scenario %s: %s", scenario.Name, f)
	}

	data, err := snapshot(scenario.Name, result.Parsed)
	if err != nil {
		return err
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, scenario.Name, data)
	return nil
}
