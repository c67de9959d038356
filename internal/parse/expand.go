package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stitchkit/skein/internal/pattern"
)

// DefaultMaxRepeat caps the N in "rep from * to * N times". Repeat counts
// above the cap are clamped with a warning so a typo cannot make one round
// expand into millions of operations.
const DefaultMaxRepeat = 10_000

var (
	// knitAround is the whole-body shortcut: knit every currently-live stitch.
	knitAround = regexp.MustCompile(`(?i)^k\s+around\.?$`)

	// repeatBlock matches "*INNER*, rep from * to * N times".
	repeatBlock = regexp.MustCompile(`(?i)^\*(.+?)\*\s*,?\s*rep\s+from\s+\*\s+to\s+\*\s+(\d+)\s+times\.?$`)
)

// ExpandBody turns one round's normalized body text into an ordered
// operation list, given the live stitch count entering the round.
//
// The "k around" shortcut becomes a single synthetic operation sized to the
// entering count (minimum 1), so its expansion is recomputed per row rather
// than fixed at first sight. A repeat block tokenizes INNER once and
// concatenates the resulting operations N times; repetitions are behaviorally
// identical because the live count only advances between rows.
func ExpandBody(body string, live int, lookup map[string]string, maxRepeat int) ([]pattern.ParsedOperation, []string) {
	if maxRepeat <= 0 {
		maxRepeat = DefaultMaxRepeat
	}

	if knitAround.MatchString(body) {
		return []pattern.ParsedOperation{aroundOperation(live, lookup)}, nil
	}

	if m := repeatBlock.FindStringSubmatch(body); m != nil {
		return expandRepeat(m[1], m[2], live, lookup, maxRepeat)
	}

	ops := classifyList(body, live, lookup)
	return ops, collectWarnings(ops)
}

// aroundOperation builds the synthetic "knit every live stitch" operation.
// Sized to the entering count, never below one stitch.
func aroundOperation(live int, lookup map[string]string) pattern.ParsedOperation {
	n := live
	if n < 1 {
		n = 1
	}
	return pattern.ParsedOperation{
		Code:    "k around",
		Label:   labelFor("k around", lookup),
		Consume: n,
		Produce: n,
		Units:   n,
	}
}

// expandRepeat tokenizes the inner segment once and concatenates it N times.
// A "k around" inside the segment sees the same entering count in every
// repetition: the live count only advances between rows.
func expandRepeat(inner, timesText string, live int, lookup map[string]string, maxRepeat int) ([]pattern.ParsedOperation, []string) {
	var warnings []string

	times, err := strconv.Atoi(timesText)
	if err != nil {
		// Digits too large for int: treat as pathological and clamp.
		times = maxRepeat
	}
	if times > maxRepeat {
		warnings = append(warnings, fmt.Sprintf("repeat count %s clamped to %d", timesText, maxRepeat))
		times = maxRepeat
	}

	once := classifyList(inner, live, lookup)
	warnings = append(warnings, collectWarnings(once)...)

	ops := make([]pattern.ParsedOperation, 0, len(once)*times)
	for i := 0; i < times; i++ {
		ops = append(ops, once...)
	}
	return ops, warnings
}

// classifyList tokenizes a comma-delimited instruction list.
// Empty tokens (trailing commas, doubled commas) are skipped.
func classifyList(text string, live int, lookup map[string]string) []pattern.ParsedOperation {
	var ops []pattern.ParsedOperation
	for _, raw := range strings.Split(text, ",") {
		token := CleanToken(raw)
		if token == "" {
			continue
		}
		if knitAround.MatchString(token) {
			ops = append(ops, aroundOperation(live, lookup))
			continue
		}
		ops = append(ops, Classify(token, lookup))
	}
	return ops
}

func collectWarnings(ops []pattern.ParsedOperation) []string {
	var warnings []string
	for _, op := range ops {
		if op.Warning != "" {
			warnings = append(warnings, op.Warning)
		}
	}
	return warnings
}
