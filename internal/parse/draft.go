package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RoundDraft is one round header plus its body text, before assembly.
// Ephemeral: produced and consumed within a single parse invocation.
type RoundDraft struct {
	Round int    // round number from the header
	Body  string // whitespace-normalized instruction text
	Raw   string // original header + body segment
}

var (
	// commentLine suppresses annotation lines ("Note: weave in ends").
	commentLine = regexp.MustCompile(`(?i)^note:`)

	// logicalStart marks the beginning of a new logical line. Anything else
	// is a continuation of the previous logical line.
	logicalStart = regexp.MustCompile(`(?i)^(?:rnd|row)s?\s*\d`)

	// headerPattern matches a round header anywhere in a logical line.
	// One physical line can carry several headers ("Rnd1: k2 Rnd2: p2").
	headerPattern = regexp.MustCompile(`(?i)(?:rnd|row)s?[\s\d,]*:`)

	integerPattern = regexp.MustCompile(`\d+`)
	whitespaceRun  = regexp.MustCompile(`\s+`)
)

// ExtractDrafts splits raw pattern text into round drafts.
//
// Physical lines are trimmed, blanks and comment lines dropped, and
// continuation lines space-joined onto the preceding logical line. Each
// logical line is then scanned for every header occurrence; a header
// declaring several round numbers ("Rnds 1, 2:") yields one draft per
// number, all sharing the body text.
//
// Malformed input never aborts extraction: each failure is recorded and the
// remaining lines are still processed.
func ExtractDrafts(text string) ([]RoundDraft, []string) {
	var drafts []RoundDraft
	var errs []string

	for _, logical := range logicalLines(text, &errs) {
		headers := headerPattern.FindAllStringIndex(logical, -1)
		if len(headers) == 0 {
			errs = append(errs, fmt.Sprintf("no round header found in line %q", logical))
			continue
		}

		for i, h := range headers {
			bodyEnd := len(logical)
			if i+1 < len(headers) {
				bodyEnd = headers[i+1][0]
			}

			header := logical[h[0]:h[1]]
			body := normalizeSpace(logical[h[1]:bodyEnd])
			raw := strings.TrimSpace(logical[h[0]:bodyEnd])

			numbers := integerPattern.FindAllString(header, -1)
			if len(numbers) == 0 {
				errs = append(errs, fmt.Sprintf("round header %q has no round number", strings.TrimSpace(header)))
				continue
			}

			for _, numText := range numbers {
				n, err := strconv.Atoi(numText)
				if err != nil {
					errs = append(errs, fmt.Sprintf("round number %q is out of range", numText))
					continue
				}
				drafts = append(drafts, RoundDraft{Round: n, Body: body, Raw: raw})
			}
		}
	}

	return drafts, errs
}

// logicalLines folds continuation lines into their preceding header line.
// A continuation with no preceding logical line is a hard error for that
// line only.
func logicalLines(text string, errs *[]string) []string {
	var logical []string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || commentLine.MatchString(line) {
			continue
		}

		if logicalStart.MatchString(line) {
			logical = append(logical, line)
			continue
		}

		if len(logical) == 0 {
			*errs = append(*errs, fmt.Sprintf("unexpected continuation without round header: %q", line))
			continue
		}
		logical[len(logical)-1] += " " + line
	}

	return logical
}

// normalizeSpace collapses whitespace runs to single spaces and trims.
func normalizeSpace(s string) string {
	return strings.TrimSpace(whitespaceRun.ReplaceAllString(s, " "))
}
