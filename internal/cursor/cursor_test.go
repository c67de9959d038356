package cursor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchkit/skein/internal/pattern"
	"github.com/stitchkit/skein/internal/testutil"
)

// twoRowResult parses a four-stitch, two-row timeline.
func twoRowResult(t *testing.T) pattern.ParseResult {
	t.Helper()
	result := testutil.DeterministicEngine().Parse("Rnd1: k2, p2\nRnd2: k4", testutil.BasicGlossary(), 4)
	require.Empty(t, result.Errors)
	require.Len(t, result.Rows, 2)
	return result
}

func TestAdvanceWithinRow(t *testing.T) {
	res := twoRowResult(t)

	pos, complete := Advance(res, Position{}, 1)
	assert.Equal(t, Position{Row: 0, Stitch: 1}, pos)
	assert.False(t, complete)

	pos, complete = Advance(res, pos, 2)
	assert.Equal(t, Position{Row: 0, Stitch: 3}, pos)
	assert.False(t, complete)
}

func TestAdvanceRollsIntoNextRow(t *testing.T) {
	res := twoRowResult(t)

	pos, complete := Advance(res, Position{Row: 0, Stitch: 3}, 1)
	assert.Equal(t, Position{Row: 1, Stitch: 0}, pos)
	assert.False(t, complete)
}

func TestAdvanceReportsComplete(t *testing.T) {
	res := twoRowResult(t)

	pos, complete := Advance(res, Position{Row: 1, Stitch: 2}, 1)
	assert.Equal(t, Position{Row: 1, Stitch: 3}, pos)
	assert.True(t, complete)
}

func TestAdvancePastEndPins(t *testing.T) {
	res := twoRowResult(t)

	pos, complete := Advance(res, Position{}, 100)
	assert.Equal(t, Position{Row: 1, Stitch: 3}, pos)
	assert.True(t, complete)
}

func TestAdvanceZeroOnlyClamps(t *testing.T) {
	res := twoRowResult(t)

	pos, complete := Advance(res, Position{Row: 9, Stitch: 9}, 0)
	assert.Equal(t, Position{Row: 1, Stitch: 3}, pos)
	assert.True(t, complete)
}

func TestAdvanceNoRows(t *testing.T) {
	pos, complete := Advance(pattern.ParseResult{}, Position{Row: 3, Stitch: 3}, 5)
	assert.Equal(t, Position{}, pos)
	assert.False(t, complete)
}

func TestClamp(t *testing.T) {
	res := twoRowResult(t)

	assert.Equal(t, Position{}, Clamp(res, Position{Row: -2, Stitch: -5}))
	assert.Equal(t, Position{Row: 1, Stitch: 3}, Clamp(res, Position{Row: 7, Stitch: 99}))
	assert.Equal(t, Position{Row: 0, Stitch: 2}, Clamp(res, Position{Row: 0, Stitch: 2}))
}

func TestStep(t *testing.T) {
	res := twoRowResult(t)

	step, ok := Step(res, Position{Row: 0, Stitch: 2})
	require.True(t, ok)
	assert.Equal(t, "p2", step.Code)

	step, ok = Step(res, Position{Row: 1, Stitch: 0})
	require.True(t, ok)
	assert.Equal(t, "k4", step.Code)

	_, ok = Step(pattern.ParseResult{}, Position{})
	assert.False(t, ok)
}
