// Package parse implements the text front end of the engine: round draft
// extraction, instruction classification, and body expansion.
//
// The classifier is an explicit ordered rule table evaluated first-match-wins.
// Rule order is data, not code placement: more specific shapes (k2tog) must
// precede the general shapes they textually contain (k2, k), and the table
// order is enforced by tests. The final fallback rule matches any token, so
// classification is total - unfamiliar vocabulary degrades to a neutral
// one-stitch operation with a warning instead of aborting the parse.
package parse
