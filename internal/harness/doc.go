// Package harness runs YAML pattern scenarios against the engine.
//
// A scenario bundles the three raw parse inputs with expectations over the
// assembled rows and the accumulated diagnostics. Scenarios serve two
// audiences: Go tests (including golden snapshot comparison via goldie)
// and the "skein test" CLI command, which runs every scenario in a
// directory and reports failures.
//
// Scenario runs use a deterministic row ID sequence so the same scenario
// always produces byte-identical canonical snapshots.
package harness
