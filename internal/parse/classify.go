package parse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/stitchkit/skein/internal/pattern"
)

// rule pairs a token shape with a builder for its stitch semantics.
// The builder receives the regexp submatches of the cleaned token.
type rule struct {
	name    string
	matcher *regexp.Regexp
	build   func(code string, m []string) pattern.ParsedOperation
}

// rules is the classifier dispatch table, evaluated first-match-wins.
// ORDER IS LOAD-BEARING: several shapes are textual prefixes or supersets
// of later ones (k2tog must precede k2, k2 must precede k). The order is
// data so it can be asserted by tests rather than implied by code layout.
var rules = []rule{
	{
		// Cable setup is a pure placeholder: stitches move to the cable
		// needle but the working row is unchanged.
		name:    "cable-hold",
		matcher: regexp.MustCompile(`(?i)^place\s+(\d+)\s+sts?\s+on\s+cn\s+and\s+hold\s+(?:to\s+the\s+back|in\s+front)$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			return pattern.ParsedOperation{Code: code, Consume: 0, Produce: 0, Units: 1}
		},
	},
	{
		name:    "cable-resolve",
		matcher: regexp.MustCompile(`(?i)^k(\d+)\s+from\s+cn$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			n := mustCount(m[1])
			return pattern.ParsedOperation{Code: code, Consume: n, Produce: n, Units: n}
		},
	},
	{
		name:    "compound-increase",
		matcher: regexp.MustCompile(`(?i)^k1yok1$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			return pattern.ParsedOperation{Code: code, Consume: 1, Produce: 3, Units: 1}
		},
	},
	{
		name:    "yarn-over",
		matcher: regexp.MustCompile(`(?i)^yo$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			return pattern.ParsedOperation{Code: code, Consume: 0, Produce: 1, Units: 1}
		},
	},
	{
		// Centered double decrease: three incoming stitches occupy three
		// grid cells, net delta -2.
		name:    "centered-double-decrease",
		matcher: regexp.MustCompile(`(?i)^cdd$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			return pattern.ParsedOperation{Code: code, Consume: 3, Produce: 1, Units: 3}
		},
	},
	{
		name:    "decrease",
		matcher: regexp.MustCompile(`(?i)^k(\d+)tog(?:\s+(?:tbl|tlb))?(?:\s+from\s+cn)?$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			n := mustCount(m[1])
			return pattern.ParsedOperation{Code: code, Consume: n, Produce: 1, Units: n}
		},
	},
	{
		name:    "slip",
		matcher: regexp.MustCompile(`(?i)^sl(\d+)$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			n := mustCount(m[1])
			return pattern.ParsedOperation{Code: code, Consume: n, Produce: n, Units: n}
		},
	},
	{
		name:    "basic-counted",
		matcher: regexp.MustCompile(`(?i)^[kp](\d+)$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			n := mustCount(m[1])
			return pattern.ParsedOperation{Code: code, Consume: n, Produce: n, Units: n}
		},
	},
	{
		name:    "basic-single",
		matcher: regexp.MustCompile(`(?i)^[kp]$`),
		build: func(code string, m []string) pattern.ParsedOperation {
			return pattern.ParsedOperation{Code: code, Consume: 1, Produce: 1, Units: 1}
		},
	},
}

// Classify turns one cleaned token into a ParsedOperation.
//
// Total: every non-empty token yields a usable operation. Tokens matching
// no rule fall back to a neutral one-stitch operation carrying a warning,
// so unfamiliar vocabulary degrades gracefully instead of failing the row.
func Classify(token string, lookup map[string]string) pattern.ParsedOperation {
	for _, r := range rules {
		if m := r.matcher.FindStringSubmatch(token); m != nil {
			op := r.build(token, m)
			op.Label = labelFor(token, lookup)
			return op
		}
	}

	return pattern.ParsedOperation{
		Code:    token,
		Label:   labelFor(token, lookup),
		Consume: 1,
		Produce: 1,
		Units:   1,
		Warning: fmt.Sprintf("unrecognized instruction %q", token),
	}
}

// CleanToken strips quotes, trailing periods, and surrounding whitespace.
func CleanToken(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, `"'`)
	s = strings.TrimRight(s, ".")
	return strings.TrimSpace(s)
}

// labelFor resolves a display label: glossary first, then stitch-family
// heuristics, then the raw code verbatim.
func labelFor(code string, lookup map[string]string) string {
	if title, ok := lookup[pattern.NormalizeCode(code)]; ok {
		return title
	}

	lower := strings.ToLower(code)
	switch {
	case strings.HasPrefix(lower, "sl"):
		return "Slip"
	case strings.HasPrefix(lower, "k"):
		return "Knit"
	case strings.HasPrefix(lower, "p"):
		return "Purl"
	}
	return code
}

// mustCount parses a digits-only submatch. The matcher guarantees the text
// is digits, so a parse failure means the count overflows int.
func mustCount(digits string) int {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return 1
	}
	return n
}
