package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchkit/skein/internal/pattern"
)

func testEngine() *Engine {
	return New(WithRowIDs(NewSequenceGenerator("test")))
}

func TestParseKnitAroundSizedToCastOn(t *testing.T) {
	result := testEngine().Parse("Rnd1: k around.", nil, 8)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, "Rnd 1", row.RowLabel)
	assert.Equal(t, 8, row.TotalStitches)
	assert.Equal(t, 8, row.StartCount)
	assert.Equal(t, 8, row.EndCount)
	assert.Len(t, row.Expanded, 8)
	require.Len(t, row.Sequence, 1)
	assert.Equal(t, "k around", row.Sequence[0].Code)
}

func TestParseRepeatBlock(t *testing.T) {
	result := testEngine().Parse("Rnd1: *k2, p2*, rep from * to * 3 times.", nil, 12)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, 12, row.TotalStitches)
	assert.Equal(t, 12, row.StartCount)
	assert.Equal(t, 12, row.EndCount)
	require.Len(t, row.Sequence, 6)
	assert.Len(t, row.Expanded, 12)
}

func TestParseDecreaseRound(t *testing.T) {
	result := testEngine().Parse("Rnd1: k2tog, k2tog, k2tog", nil, 6)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 1)

	row := result.Rows[0]
	assert.Equal(t, 6, row.TotalStitches, "each k2tog occupies two cells")
	assert.Equal(t, 6, row.StartCount)
	assert.Equal(t, 3, row.EndCount, "each k2tog removes one stitch")
}

func TestParseUnknownTokenWarnsButParses(t *testing.T) {
	result := testEngine().Parse("Rnd1: m1l", nil, 4)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.Rows[0].TotalStitches)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, `Rnd 1: unrecognized instruction "m1l"`, result.Warnings[0])
}

func TestParseBackReference(t *testing.T) {
	result := testEngine().Parse("Rnd1: k2, k2\nRnd2: see Rnd1.", nil, 4)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 2)

	assert.Equal(t, result.Rows[0].Sequence, result.Rows[1].Sequence)
	assert.Equal(t, result.Rows[0].EndCount, result.Rows[1].StartCount)
	assert.Equal(t, "Rnd2: see Rnd1.", result.Rows[1].Raw, "raw text keeps the reference")
}

func TestParseForwardReferenceFailsClosed(t *testing.T) {
	result := testEngine().Parse("Rnd2: see Rnd5.", nil, 4)

	assert.Empty(t, result.Rows)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Rnd 2: references round 5 which has not been resolved yet", result.Errors[0])
}

func TestParseChainedBackReferences(t *testing.T) {
	text := "Rnd1: k2\nRnd2: see Rnd1\nRnd3: see Rnd2"
	result := testEngine().Parse(text, nil, 2)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 3)
	for _, row := range result.Rows {
		assert.Equal(t, 2, row.TotalStitches)
	}
}

func TestParseIsDeterministic(t *testing.T) {
	text := "Rnd1: k2tog, yo, k2\nRnd2: see Rnd1.\nRnd3: k around."
	glossary := []pattern.GlossaryEntry{{Code: "yo", Title: "Yarn over"}}

	a := New(WithRowIDs(NewSequenceGenerator("fixed"))).Parse(text, glossary, 10)
	b := New(WithRowIDs(NewSequenceGenerator("fixed"))).Parse(text, glossary, 10)

	assert.Equal(t, a, b)
}

func TestParseRowsSortedByRoundNumber(t *testing.T) {
	result := testEngine().Parse("Rnd2: p2\nRnd1: k2", nil, 2)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "Rnd 1", result.Rows[0].RowLabel)
	assert.Equal(t, "Rnd 2", result.Rows[1].RowLabel)
	assert.Equal(t, "k2", result.Rows[0].Sequence[0].Code)
}

func TestParseLiveCountFoldAcrossRows(t *testing.T) {
	// Cast on 2. Rnd 1 halves to 1, so the later "k around" rounds size
	// themselves to the single remaining stitch.
	text := "Rnd1: k2tog\nRnds 2, 3: k around."
	result := testEngine().Parse(text, nil, 2)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 3)

	assert.Equal(t, 2, result.Rows[0].StartCount)
	assert.Equal(t, 1, result.Rows[0].EndCount)
	assert.Equal(t, 1, result.Rows[1].StartCount)
	assert.Equal(t, 1, result.Rows[1].TotalStitches)
	assert.Equal(t, 1, result.Rows[2].TotalStitches)
}

func TestParseEndCountClampedAtZero(t *testing.T) {
	result := testEngine().Parse("Rnd1: k2tog, k2tog", nil, 2)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, 2, result.Rows[0].StartCount)
	assert.Equal(t, 0, result.Rows[0].EndCount, "clamped, not negative")
}

func TestParseDuplicateRoundNumbersKeepInputOrder(t *testing.T) {
	result := testEngine().Parse("Rnd1: k2\nRnd1: p2", nil, 2)

	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "k2", result.Rows[0].Sequence[0].Code)
	assert.Equal(t, "p2", result.Rows[1].Sequence[0].Code)
}

func TestParseEmptyRoundBodyIsError(t *testing.T) {
	result := testEngine().Parse("Rnd1:\nRnd2: k2", nil, 2)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Rnd 1: no instructions parsed", result.Errors[0])
	require.Len(t, result.Rows, 1, "the failing round never blocks the rest")
	assert.Equal(t, "Rnd 2", result.Rows[0].RowLabel)
}

func TestParseFailedRowLeavesLiveCountUntouched(t *testing.T) {
	text := "Rnd1: see Rnd9\nRnd2: k around."
	result := testEngine().Parse(text, nil, 5)

	require.Len(t, result.Errors, 1)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, 5, result.Rows[0].StartCount)
}

func TestParseWarningsDeduplicated(t *testing.T) {
	result := testEngine().Parse("Rnd1: m1l, m1l, m1l", nil, 4)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, `Rnd 1: unrecognized instruction "m1l"`, result.Warnings[0])
}

func TestParseMinimumLiveCountIsOne(t *testing.T) {
	result := testEngine().Parse("Rnd1: k around.", nil, 0)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, 1, result.Rows[0].StartCount)
	assert.Equal(t, 1, result.Rows[0].TotalStitches)
}

func TestParseTotalsInvariant(t *testing.T) {
	text := "Rnd1: k2, k2tog, yo, cdd, sl1\nRnd2: k around."
	result := testEngine().Parse(text, nil, 12)

	require.Empty(t, result.Errors)
	for _, row := range result.Rows {
		sum := 0
		for _, step := range row.Sequence {
			sum += step.Count
		}
		assert.Equal(t, row.TotalStitches, sum, "%s: total equals sequence sum", row.RowLabel)
		assert.Len(t, row.Expanded, row.TotalStitches, "%s: one expanded cell per stitch", row.RowLabel)
		for _, cell := range row.Expanded {
			assert.Equal(t, 1, cell.Count)
		}
	}
}

func TestParseGlossaryLabels(t *testing.T) {
	glossary := []pattern.GlossaryEntry{{Code: "k2tog", Title: "Knit two together"}}
	result := testEngine().Parse("Rnd1: k2tog", glossary, 2)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, "Knit two together", result.Rows[0].Sequence[0].Label)
}

func TestParseEmptyInput(t *testing.T) {
	result := testEngine().Parse("", nil, 10)

	assert.Empty(t, result.Rows)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.NotNil(t, result.Rows)
	assert.NotNil(t, result.Errors)
}

func TestPackageLevelParseUsesUUIDs(t *testing.T) {
	result := Parse("Rnd1: k2", nil, 2)

	require.Len(t, result.Rows, 1)
	assert.Len(t, result.Rows[0].ID, 36, "hyphenated UUID")
}

func TestWithMaxRepeat(t *testing.T) {
	e := New(WithRowIDs(NewSequenceGenerator("test")), WithMaxRepeat(3))
	result := e.Parse("Rnd1: *k1*, rep from * to * 8 times.", nil, 8)

	require.Len(t, result.Rows, 1)
	assert.Equal(t, 3, result.Rows[0].TotalStitches)
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "clamped to 3")
}
