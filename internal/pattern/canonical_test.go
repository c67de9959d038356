package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonicalSortsKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"zebra": 1,
		"alpha": "x",
		"mid":   true,
	})
	require.NoError(t, err)
	assert.Equal(t, `{"alpha":"x","mid":true,"zebra":1}`, string(got))
}

func TestMarshalCanonicalUTF16KeyOrder(t *testing.T) {
	// U+1F600 encodes as the surrogate pair D83D DE00 in UTF-16, which sorts
	// BEFORE U+FB00. Plain byte comparison of the UTF-8 encodings would put
	// them the other way around.
	got, err := MarshalCanonical(map[string]any{
		"\U0001F600": 1,
		"\uFB00":     2,
	})
	require.NoError(t, err)
	assert.Equal(t, "{\"\U0001F600\":1,\"\uFB00\":2}", string(got))
}

func TestMarshalCanonicalNFCNormalizesStrings(t *testing.T) {
	// "e" + combining acute accent normalizes to the precomposed form.
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonicalNoHTMLEscaping(t *testing.T) {
	got, err := MarshalCanonical("<k2tog> & <yo>")
	require.NoError(t, err)
	assert.Equal(t, `"<k2tog> & <yo>"`, string(got))
}

func TestMarshalCanonicalEscapesControlCharacters(t *testing.T) {
	got, err := MarshalCanonical("a\nb\tc\u0001d")
	require.NoError(t, err)
	assert.Equal(t, `"a\nb\tc\u0001d"`, string(got))
}

func TestMarshalCanonicalRejectsFloats(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"n": 1.5})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "floats are forbidden")
}

func TestMarshalCanonicalRejectsNull(t *testing.T) {
	_, err := MarshalCanonical(map[string]any{"n": nil})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "null is forbidden")
}

func TestMarshalCanonicalNestedStructures(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"rows":   []any{map[string]any{"b": 2, "a": 1}},
		"labels": []string{"k", "p"},
	})
	require.NoError(t, err)
	assert.Equal(t, `{"labels":["k","p"],"rows":[{"a":1,"b":2}]}`, string(got))
}

func TestCanonicalJSONExcludesRowIDs(t *testing.T) {
	row := PatternRow{
		Raw:      "Rnd1: k2",
		RowLabel: "Rnd 1",
		Sequence: []StitchStep{{Code: "k2", Count: 2, Label: "Knit"}},
		Expanded: []StitchStep{
			{Code: "k2", Count: 1, Label: "Knit"},
			{Code: "k2", Count: 1, Label: "Knit"},
		},
		TotalStitches: 2,
		StartCount:    2,
		EndCount:      2,
	}

	a := ParseResult{Rows: []PatternRow{row}}
	a.Rows[0].ID = "first-id"
	b := ParseResult{Rows: []PatternRow{row}}
	b.Rows[0].ID = "second-id"

	aJSON, err := a.CanonicalJSON()
	require.NoError(t, err)
	bJSON, err := b.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, aJSON, bJSON)
}

func TestCanonicalJSONEmptySlicesNotNull(t *testing.T) {
	got, err := ParseResult{}.CanonicalJSON()
	require.NoError(t, err)
	assert.Equal(t, `{"errors":[],"rows":[],"warnings":[]}`, string(got))
}
