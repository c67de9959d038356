package pattern

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed fingerprints.
// Version suffix enables future algorithm migration.
const (
	DomainInput = "skein/input/v1"
	DomainRow   = "skein/row/v1"
)

// hashWithDomain computes SHA-256 with domain separation.
// Format: SHA256(domain + 0x00 + data). The null byte prevents
// domain/data boundary ambiguity.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// InputFingerprint computes a content-addressed identity for the three raw
// parse inputs. Because the engine is a pure function of these inputs, the
// fingerprint identifies the ParseResult as well: callers may use it to
// memoize parses or to detect stale persisted cursors after a pattern edit.
func InputFingerprint(patternText string, glossary []GlossaryEntry, startingStitches int) (string, error) {
	entries := make([]any, len(glossary))
	for i, e := range glossary {
		entries[i] = map[string]any{
			"code":   e.Code,
			"title":  e.Title,
			"detail": e.Detail,
		}
	}

	canonical, err := MarshalCanonical(map[string]any{
		"pattern_text":      patternText,
		"glossary":          entries,
		"starting_stitches": startingStitches,
	})
	if err != nil {
		return "", fmt.Errorf("InputFingerprint: failed to marshal: %w", err)
	}

	return hashWithDomain(DomainInput, canonical), nil
}

// RowFingerprint computes a content-addressed identity for one assembled row,
// excluding its opaque ID. Rows with identical structure hash identically.
func RowFingerprint(row PatternRow) (string, error) {
	canonical, err := MarshalCanonical(row.canonicalMap())
	if err != nil {
		return "", fmt.Errorf("RowFingerprint: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainRow, canonical), nil
}

// MustInputFingerprint is like InputFingerprint but panics on error.
// Use only in tests or when inputs are known to be valid.
func MustInputFingerprint(patternText string, glossary []GlossaryEntry, startingStitches int) string {
	fp, err := InputFingerprint(patternText, glossary, startingStitches)
	if err != nil {
		panic(err)
	}
	return fp
}
