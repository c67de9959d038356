package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandBodyKnitAround(t *testing.T) {
	ops, warnings := ExpandBody("k around.", 8, nil, 0)

	require.Empty(t, warnings)
	require.Len(t, ops, 1)
	assert.Equal(t, "k around", ops[0].Code)
	assert.Equal(t, 8, ops[0].Consume)
	assert.Equal(t, 8, ops[0].Produce)
	assert.Equal(t, 8, ops[0].Units)
}

func TestExpandBodyKnitAroundMinimumOne(t *testing.T) {
	ops, _ := ExpandBody("k around", 0, nil, 0)

	require.Len(t, ops, 1)
	assert.Equal(t, 1, ops[0].Units, "sized to at least one stitch")
}

func TestExpandBodyRepeatBlock(t *testing.T) {
	ops, warnings := ExpandBody("*k2, p2*, rep from * to * 3 times.", 12, nil, 0)

	require.Empty(t, warnings)
	require.Len(t, ops, 6)
	for i := 0; i < 6; i += 2 {
		assert.Equal(t, "k2", ops[i].Code)
		assert.Equal(t, "p2", ops[i+1].Code)
	}
}

func TestExpandBodyRepeatClamped(t *testing.T) {
	ops, warnings := ExpandBody("*k1*, rep from * to * 9 times.", 9, nil, 5)

	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "repeat count 9 clamped to 5")
	assert.Len(t, ops, 5)
}

func TestExpandBodyRepeatWithKnitAroundInner(t *testing.T) {
	// A "k around" inside the block is sized to the entering live count in
	// every repetition.
	ops, warnings := ExpandBody("*k around*, rep from * to * 2 times.", 4, nil, 0)

	require.Empty(t, warnings)
	require.Len(t, ops, 2)
	assert.Equal(t, 4, ops[0].Units)
	assert.Equal(t, 4, ops[1].Units)
}

func TestExpandBodyPlainList(t *testing.T) {
	ops, warnings := ExpandBody("k2, k2tog, yo", 10, nil, 0)

	require.Empty(t, warnings)
	require.Len(t, ops, 3)
	assert.Equal(t, "k2", ops[0].Code)
	assert.Equal(t, "k2tog", ops[1].Code)
	assert.Equal(t, "yo", ops[2].Code)
}

func TestExpandBodySkipsEmptyTokens(t *testing.T) {
	ops, _ := ExpandBody("k2,, p2,", 4, nil, 0)

	require.Len(t, ops, 2)
	assert.Equal(t, "k2", ops[0].Code)
	assert.Equal(t, "p2", ops[1].Code)
}

func TestExpandBodyCollectsFallbackWarnings(t *testing.T) {
	ops, warnings := ExpandBody("k2, m1l, m1r", 4, nil, 0)

	require.Len(t, ops, 3)
	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], `"m1l"`)
	assert.Contains(t, warnings[1], `"m1r"`)
}

func TestExpandBodyRepeatWarningsOncePerBlock(t *testing.T) {
	// INNER is classified once, so a fallback inside the block warns once
	// regardless of the repeat count.
	ops, warnings := ExpandBody("*m1l*, rep from * to * 4 times.", 4, nil, 0)

	require.Len(t, ops, 4)
	assert.Len(t, warnings, 1)
}
