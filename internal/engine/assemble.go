package engine

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strconv"

	"github.com/stitchkit/skein/internal/parse"
	"github.com/stitchkit/skein/internal/pattern"
)

// backReference matches a body that aliases an earlier round:
// "see Rnd 2.", "see Row 2", "see R2".
var backReference = regexp.MustCompile(`(?i)^see\s+r(?:nd|ow)?s?\s*(\d+)\.?$`)

// Parse converts raw pattern text into assembled rows.
//
// Both severities accumulate and neither aborts the parse: a failing draft
// is omitted from the result (and leaves the live count untouched) while
// every other draft still parses, so one bad round never blocks the rest of
// the pattern. Warnings are deduplicated, preserving first-seen order.
func (e *Engine) Parse(patternText string, glossary []pattern.GlossaryEntry, startingStitches int) pattern.ParseResult {
	lookup := pattern.BuildLookup(glossary)

	drafts, extractErrs := parse.ExtractDrafts(patternText)
	errors := make([]string, 0, len(extractErrs))
	errors = append(errors, extractErrs...)

	// Stable: drafts with equal round numbers keep their input order.
	sort.SliceStable(drafts, func(i, j int) bool {
		return drafts[i].Round < drafts[j].Round
	})

	live := startingStitches
	if live < 1 {
		live = 1
	}

	rows := []pattern.PatternRow{}
	resolved := make(map[int]string, len(drafts))
	warnings := newWarningSet()

	for _, draft := range drafts {
		label := rowLabel(draft.Round)

		body, err := e.resolveBody(draft, resolved)
		if err != nil {
			errors = append(errors, fmt.Sprintf("%s: %s", label, err))
			continue
		}
		// Store the substituted body so later back-references can chain
		// through this round.
		resolved[draft.Round] = body

		ops, ws := parse.ExpandBody(body, live, lookup, e.maxRepeat)
		for _, w := range ws {
			warnings.add(fmt.Sprintf("%s: %s", label, w))
		}

		if len(ops) == 0 {
			errors = append(errors, fmt.Sprintf("%s: no instructions parsed", label))
			continue
		}

		row := e.assembleRow(draft, label, ops, live)
		rows = append(rows, row)
		live = row.EndCount
	}

	slog.Debug("pattern parsed",
		"rows", len(rows),
		"errors", len(errors),
		"warnings", warnings.len(),
	)

	return pattern.ParseResult{
		Rows:     rows,
		Errors:   errors,
		Warnings: warnings.list(),
	}
}

// resolveBody substitutes a back-referenced body, failing closed when the
// target round has not been processed yet (forward reference, a round that
// never resolves, or one that never exists - the message is deliberately
// shared, the distinction is not observable at this point in the fold).
func (e *Engine) resolveBody(draft parse.RoundDraft, resolved map[int]string) (string, error) {
	m := backReference.FindStringSubmatch(draft.Body)
	if m == nil {
		return draft.Body, nil
	}

	target, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return "", fmt.Errorf("referenced round %q is out of range", m[1])
	}

	body, ok := resolved[target]
	if !ok {
		return "", fmt.Errorf("references round %d which has not been resolved yet", target)
	}
	return body, nil
}

// assembleRow builds one PatternRow from its classified operations, running
// the stitch arithmetic for the live-count fold.
//
// Invariants established here:
//
//	TotalStitches == sum(op.Units) == len(Expanded)
//	EndCount == max(0, StartCount + sum(op.Produce - op.Consume))
func (e *Engine) assembleRow(draft parse.RoundDraft, label string, ops []pattern.ParsedOperation, live int) pattern.PatternRow {
	sequence := make([]pattern.StitchStep, 0, len(ops))
	total := 0
	delta := 0

	for _, op := range ops {
		sequence = append(sequence, pattern.StitchStep{
			Code:  op.Code,
			Count: op.Units,
			Label: op.Label,
		})
		total += op.Units
		delta += op.Delta()
	}

	expanded := make([]pattern.StitchStep, 0, total)
	for _, step := range sequence {
		for i := 0; i < step.Count; i++ {
			expanded = append(expanded, pattern.StitchStep{
				Code:  step.Code,
				Count: 1,
				Label: step.Label,
			})
		}
	}

	end := live + delta
	if end < 0 {
		// Clamped, not rejected: feasibility validation is the caller's
		// problem, desynchronized counts are ours.
		end = 0
	}

	return pattern.PatternRow{
		ID:            e.idGen.Generate(),
		Raw:           draft.Raw,
		RowLabel:      label,
		Sequence:      sequence,
		Expanded:      expanded,
		TotalStitches: total,
		StartCount:    live,
		EndCount:      end,
	}
}

func rowLabel(round int) string {
	return fmt.Sprintf("Rnd %d", round)
}

// warningSet deduplicates warnings while preserving first-seen order.
type warningSet struct {
	seen  map[string]bool
	order []string
}

func newWarningSet() *warningSet {
	return &warningSet{seen: make(map[string]bool)}
}

func (s *warningSet) add(w string) {
	if s.seen[w] {
		return
	}
	s.seen[w] = true
	s.order = append(s.order, w)
}

func (s *warningSet) len() int { return len(s.order) }

func (s *warningSet) list() []string {
	if s.order == nil {
		return []string{}
	}
	return s.order
}
