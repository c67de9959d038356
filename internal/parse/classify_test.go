package parse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchkit/skein/internal/pattern"
)

func TestClassifyStitchSemantics(t *testing.T) {
	tests := []struct {
		token   string
		consume int
		produce int
		units   int
	}{
		{"place 3 sts on cn and hold in front", 0, 0, 1},
		{"place 2 sts on cn and hold to the back", 0, 0, 1},
		{"k3 from cn", 3, 3, 3},
		{"k1yok1", 1, 3, 1},
		{"yo", 0, 1, 1},
		{"cdd", 3, 1, 3},
		{"k2tog", 2, 1, 2},
		{"k3tog tbl", 3, 1, 3},
		{"k2tog tlb", 2, 1, 2},
		{"k2tog from cn", 2, 1, 2},
		{"sl2", 2, 2, 2},
		{"k4", 4, 4, 4},
		{"p2", 2, 2, 2},
		{"k", 1, 1, 1},
		{"p", 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.token, func(t *testing.T) {
			op := Classify(tt.token, nil)
			assert.Equal(t, tt.consume, op.Consume, "consume")
			assert.Equal(t, tt.produce, op.Produce, "produce")
			assert.Equal(t, tt.units, op.Units, "units")
			assert.Empty(t, op.Warning)
			assert.Equal(t, tt.token, op.Code)
		})
	}
}

func TestClassifyFallback(t *testing.T) {
	op := Classify("m1l", nil)

	assert.Equal(t, 1, op.Consume)
	assert.Equal(t, 1, op.Produce)
	assert.Equal(t, 1, op.Units)
	assert.Equal(t, `unrecognized instruction "m1l"`, op.Warning)
}

func TestClassifyRuleOrder(t *testing.T) {
	// Dispatch is first-match-wins, so the table order is part of the
	// contract: specific shapes must sit above the general ones they overlap.
	indexOf := func(name string) int {
		for i, r := range rules {
			if r.name == name {
				return i
			}
		}
		t.Fatalf("rule %q not in dispatch table", name)
		return -1
	}

	assert.Less(t, indexOf("cable-hold"), indexOf("basic-single"))
	assert.Less(t, indexOf("cable-resolve"), indexOf("basic-counted"))
	assert.Less(t, indexOf("compound-increase"), indexOf("basic-single"))
	assert.Less(t, indexOf("decrease"), indexOf("basic-counted"))
	assert.Less(t, indexOf("basic-counted"), indexOf("basic-single"))
}

func TestClassifyIsCaseInsensitive(t *testing.T) {
	op := Classify("K2TOG", nil)
	assert.Equal(t, 2, op.Consume)
	assert.Equal(t, 1, op.Produce)
	assert.Empty(t, op.Warning)
}

func TestClassifyLabels(t *testing.T) {
	lookup := pattern.BuildLookup([]pattern.GlossaryEntry{
		{Code: "k2tog", Title: "Knit two together"},
	})

	tests := []struct {
		token  string
		lookup map[string]string
		label  string
	}{
		{"k2tog", lookup, "Knit two together"},
		{"k2tog", nil, "Knit"},
		{"sl2", nil, "Slip"},
		{"p4", nil, "Purl"},
		{"yo", nil, "yo"},
		{"cdd", nil, "cdd"},
	}

	for _, tt := range tests {
		op := Classify(tt.token, tt.lookup)
		assert.Equal(t, tt.label, op.Label, "label for %q", tt.token)
	}
}

func TestCleanToken(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{" k2tog. ", "k2tog"},
		{`"p2"`, "p2"},
		{"'yo'", "yo"},
		{"k around.", "k around"},
		{"...", ""},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, CleanToken(tt.raw), "CleanToken(%q)", tt.raw)
	}
}

func TestClassifyIsTotal(t *testing.T) {
	// Every non-empty token must come back usable: the fallback keeps the
	// fold running even through unfamiliar vocabulary.
	for _, token := range []string{"m1l", "ssk", "w&t", "kfb", "brk1"} {
		op := Classify(token, nil)
		require.Greater(t, op.Units, 0, "token %q must occupy at least one cell", token)
		assert.NotEmpty(t, op.Warning, "token %q should warn", token)
	}
}
