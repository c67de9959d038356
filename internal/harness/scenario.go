package harness

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stitchkit/skein/internal/pattern"
)

// Scenario defines one conformance test for the pattern engine.
type Scenario struct {
	// Name uniquely identifies this scenario (and its golden file).
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Pattern is the raw pattern text to parse.
	Pattern string `yaml:"pattern"`

	// CastOn is the starting stitch count. Zero means the engine default.
	CastOn int `yaml:"cast_on,omitempty"`

	// Glossary holds inline glossary entries, in order.
	Glossary []GlossaryEntry `yaml:"glossary,omitempty"`

	// Expect describes the assertions on the parse result.
	Expect Expect `yaml:"expect"`
}

// GlossaryEntry mirrors pattern.GlossaryEntry with YAML tags.
type GlossaryEntry struct {
	Code   string `yaml:"code"`
	Title  string `yaml:"title"`
	Detail string `yaml:"detail,omitempty"`
}

// Expect holds scenario assertions. All populated fields are checked;
// empty fields are skipped.
type Expect struct {
	// Rows asserts on assembled rows positionally.
	Rows []RowExpect `yaml:"rows,omitempty"`

	// RowCount asserts the exact number of assembled rows.
	// Nil means "don't check" (0 is a meaningful expectation).
	RowCount *int `yaml:"row_count,omitempty"`

	// ErrorsContain asserts each substring appears in some error.
	ErrorsContain []string `yaml:"errors_contain,omitempty"`

	// WarningsContain asserts each substring appears in some warning.
	WarningsContain []string `yaml:"warnings_contain,omitempty"`

	// NoErrors asserts the error list is empty.
	NoErrors bool `yaml:"no_errors,omitempty"`
}

// RowExpect asserts on one assembled row. Zero-valued integer fields are
// still checked: a row genuinely can end on zero stitches, so use pointers
// where "absent" must differ from "zero".
type RowExpect struct {
	Label string `yaml:"label,omitempty"`
	Total *int   `yaml:"total,omitempty"`
	Start *int   `yaml:"start,omitempty"`
	End   *int   `yaml:"end,omitempty"`
}

// PatternGlossary converts the scenario glossary to engine input form.
func (s *Scenario) PatternGlossary() []pattern.GlossaryEntry {
	entries := make([]pattern.GlossaryEntry, len(s.Glossary))
	for i, e := range s.Glossary {
		entries[i] = pattern.GlossaryEntry{Code: e.Code, Title: e.Title, Detail: e.Detail}
	}
	return entries
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed, contains
// unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}

	// Strict field validation catches typos like "expects:" vs "expect:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// validateScenario checks that required fields are present and coherent.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if s.Description == "" {
		return fmt.Errorf("description is required")
	}
	if s.Pattern == "" {
		return fmt.Errorf("pattern is required")
	}
	if s.CastOn < 0 {
		return fmt.Errorf("cast_on must be non-negative")
	}

	hasExpectation := len(s.Expect.Rows) > 0 ||
		s.Expect.RowCount != nil ||
		len(s.Expect.ErrorsContain) > 0 ||
		len(s.Expect.WarningsContain) > 0 ||
		s.Expect.NoErrors
	if !hasExpectation {
		return fmt.Errorf("expect block must contain at least one assertion")
	}

	for i, g := range s.Glossary {
		if g.Code == "" {
			return fmt.Errorf("glossary[%d]: code is required", i)
		}
		if g.Title == "" {
			return fmt.Errorf("glossary[%d]: title is required", i)
		}
	}

	for i, r := range s.Expect.Rows {
		if r.Label == "" && r.Total == nil && r.Start == nil && r.End == nil {
			return fmt.Errorf("expect.rows[%d]: empty row expectation", i)
		}
	}
	return nil
}
