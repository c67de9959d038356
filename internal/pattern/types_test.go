package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"k2tog", "K2TOG"},
		{"K2TOG", "K2TOG"},
		{"k2tog.", "K2TOG"},
		{"sl 1", "SL1"},
		{"k around", "KAROUND"},
		{`"yo"`, "YO"},
		{"", ""},
		{"...", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeCode(tt.in), "NormalizeCode(%q)", tt.in)
	}
}

func TestBuildLookup(t *testing.T) {
	lookup := BuildLookup([]GlossaryEntry{
		{Code: "k", Title: "Knit"},
		{Code: "k2tog.", Title: "Knit two together"},
		{Code: "", Title: "ignored"},
	})

	assert.Equal(t, "Knit", lookup["K"])
	assert.Equal(t, "Knit two together", lookup["K2TOG"])
	assert.NotContains(t, lookup, "")
	assert.Len(t, lookup, 2)
}

func TestBuildLookupLastDefinitionWins(t *testing.T) {
	lookup := BuildLookup([]GlossaryEntry{
		{Code: "yo", Title: "Yarn over"},
		{Code: "YO", Title: "Yarn over (revised)"},
	})

	assert.Equal(t, "Yarn over (revised)", lookup["YO"])
}

func TestParsedOperationDelta(t *testing.T) {
	assert.Equal(t, -1, ParsedOperation{Consume: 2, Produce: 1}.Delta())
	assert.Equal(t, 1, ParsedOperation{Consume: 0, Produce: 1}.Delta())
	assert.Equal(t, 0, ParsedOperation{Consume: 3, Produce: 3}.Delta())
}
