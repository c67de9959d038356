package pattern

import (
	"bytes"
	"fmt"
	"slices"
	"strconv"
	"unicode/utf16"

	"golang.org/x/text/unicode/norm"
)

// MarshalCanonical produces RFC 8785 canonical JSON.
// CRITICAL: This is the ONLY serialization used for fingerprinting and
// golden snapshot comparison.
//
// Key differences from standard json.Marshal:
//  1. Object keys sorted by UTF-16 code units (not UTF-8 bytes)
//  2. No HTML escaping (< > & are NOT escaped)
//  3. Strings are NFC normalized
//  4. No floats (returns error)
//  5. No null (returns error)
//
// Accepted value types: string, int, int64, bool, []any, []string,
// map[string]any.
func MarshalCanonical(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendCanonical(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func appendCanonical(buf *bytes.Buffer, v any) error {
	switch val := v.(type) {
	case nil:
		return fmt.Errorf("null is forbidden in canonical JSON")
	case string:
		appendCanonicalString(buf, val)
		return nil
	case int:
		buf.WriteString(strconv.Itoa(val))
		return nil
	case int64:
		buf.WriteString(strconv.FormatInt(val, 10))
		return nil
	case bool:
		buf.WriteString(strconv.FormatBool(val))
		return nil
	case []string:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, elem)
		}
		buf.WriteByte(']')
		return nil
	case []any:
		buf.WriteByte('[')
		for i, elem := range val {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendCanonical(buf, elem); err != nil {
				return fmt.Errorf("array[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
		return nil
	case map[string]any:
		buf.WriteByte('{')
		keys := sortedKeysUTF16(val)
		for i, k := range keys {
			if i > 0 {
				buf.WriteByte(',')
			}
			appendCanonicalString(buf, k)
			buf.WriteByte(':')
			if err := appendCanonical(buf, val[k]); err != nil {
				return fmt.Errorf("object[%q]: %w", k, err)
			}
		}
		buf.WriteByte('}')
		return nil
	case float32, float64:
		return fmt.Errorf("floats are forbidden in canonical JSON: %v", val)
	default:
		return fmt.Errorf("unsupported type for canonical JSON: %T", v)
	}
}

// appendCanonicalString writes a canonical JSON string.
// RFC 8785 compliance:
//   - strings NFC normalized at the serialization boundary
//   - no HTML escaping (<, >, & are written verbatim)
//   - U+2028 and U+2029 are written verbatim, not escaped
//   - only control characters (U+0000-U+001F), backslash, and quote are escaped
func appendCanonicalString(buf *bytes.Buffer, s string) {
	s = norm.NFC.String(s)

	buf.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			buf.WriteString(`\"`)
		case '\\':
			buf.WriteString(`\\`)
		case '\b':
			buf.WriteString(`\b`)
		case '\f':
			buf.WriteString(`\f`)
		case '\n':
			buf.WriteString(`\n`)
		case '\r':
			buf.WriteString(`\r`)
		case '\t':
			buf.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(buf, `\u%04x`, r)
			} else {
				buf.WriteRune(r)
			}
		}
	}
	buf.WriteByte('"')
}

// sortedKeysUTF16 returns map keys in RFC 8785 canonical order.
// CRITICAL: RFC 8785 orders by UTF-16 code units; Go's sort.Strings uses
// UTF-8 bytes which produces a DIFFERENT order for non-BMP characters.
func sortedKeysUTF16(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, compareKeysUTF16)
	return keys
}

// compareKeysUTF16 compares strings by UTF-16 code unit per RFC 8785.
// utf16.Encode is required for correct surrogate handling.
func compareKeysUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))

	n := len(a16)
	if len(b16) < n {
		n = len(b16)
	}
	for i := 0; i < n; i++ {
		if a16[i] != b16[i] {
			if a16[i] < b16[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a16) < len(b16):
		return -1
	case len(a16) > len(b16):
		return 1
	default:
		return 0
	}
}

// CanonicalJSON serializes a ParseResult to canonical JSON with row IDs
// excluded. Two parses of identical inputs produce identical bytes even
// though their row IDs differ.
func (r ParseResult) CanonicalJSON() ([]byte, error) {
	return MarshalCanonical(r.canonicalMap())
}

func (r ParseResult) canonicalMap() map[string]any {
	rows := make([]any, len(r.Rows))
	for i, row := range r.Rows {
		rows[i] = row.canonicalMap()
	}
	return map[string]any{
		"rows":     rows,
		"errors":   stringsOrEmpty(r.Errors),
		"warnings": stringsOrEmpty(r.Warnings),
	}
}

func (row PatternRow) canonicalMap() map[string]any {
	return map[string]any{
		"raw":            row.Raw,
		"row_label":      row.RowLabel,
		"sequence":       stepsToList(row.Sequence),
		"expanded":       stepsToList(row.Expanded),
		"total_stitches": row.TotalStitches,
		"start_count":    row.StartCount,
		"end_count":      row.EndCount,
	}
}

func stepsToList(steps []StitchStep) []any {
	out := make([]any, len(steps))
	for i, s := range steps {
		out[i] = map[string]any{
			"code":  s.Code,
			"count": s.Count,
			"label": s.Label,
		}
	}
	return out
}

func stringsOrEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
