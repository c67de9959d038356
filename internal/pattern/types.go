package pattern

import (
	"strings"
	"unicode"
)

// GlossaryEntry is one caller-supplied stitch definition.
// The engine treats the glossary as read-only and keys it by NormalizeCode(Code).
type GlossaryEntry struct {
	Code   string `json:"code"`
	Title  string `json:"title"`
	Detail string `json:"detail"`
}

// ParsedOperation is one classified instruction with its stitch semantics.
//
// Consume and Produce are the stitch counts read from and written to the
// working row. Units is the number of timeline grid cells the instruction
// occupies, which is not always equal to either (a cdd consumes 3, produces
// 1, and occupies 3 cells).
type ParsedOperation struct {
	Code    string `json:"code"`
	Label   string `json:"label"`
	Consume int    `json:"consume"`
	Produce int    `json:"produce"`
	Units   int    `json:"units"`

	// Warning is set for fallback operations built from unrecognized tokens.
	// Non-fatal: the operation is still usable.
	Warning string `json:"warning,omitempty"`
}

// Delta returns the net change to the live stitch count.
func (op ParsedOperation) Delta() int {
	return op.Produce - op.Consume
}

// StitchStep is one cell group in a row timeline.
type StitchStep struct {
	Code  string `json:"code"`
	Count int    `json:"count"`
	Label string `json:"label"`
}

// PatternRow is one fully assembled round.
//
// Expanded holds one single-count step per grid cell, so
// len(Expanded) == TotalStitches == sum of Sequence counts.
type PatternRow struct {
	ID            string       `json:"id"`
	Raw           string       `json:"raw"`
	RowLabel      string       `json:"row_label"`
	Sequence      []StitchStep `json:"sequence"`
	Expanded      []StitchStep `json:"expanded"`
	TotalStitches int          `json:"total_stitches"`
	StartCount    int          `json:"start_count"`
	EndCount      int          `json:"end_count"`
}

// ParseResult is the complete output of one parse invocation.
// Errors reject individual rows; warnings never change control flow.
type ParseResult struct {
	Rows     []PatternRow `json:"rows"`
	Errors   []string     `json:"errors"`
	Warnings []string     `json:"warnings"`
}

// NormalizeCode strips non-alphanumeric runes and uppercases the remainder.
// "k2tog." and "K2TOG" normalize to the same key.
func NormalizeCode(code string) string {
	var b strings.Builder
	b.Grow(len(code))
	for _, r := range code {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(unicode.ToUpper(r))
		}
	}
	return b.String()
}

// BuildLookup indexes a glossary by normalized code.
// Later entries win on duplicate codes, matching last-definition semantics.
func BuildLookup(entries []GlossaryEntry) map[string]string {
	lookup := make(map[string]string, len(entries))
	for _, e := range entries {
		key := NormalizeCode(e.Code)
		if key == "" {
			continue
		}
		lookup[key] = e.Title
	}
	return lookup
}
