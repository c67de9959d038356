package engine

import (
	"github.com/stitchkit/skein/internal/parse"
	"github.com/stitchkit/skein/internal/pattern"
)

// DefaultStartingStitches is the suggested cast-on when the caller has not
// configured one.
const DefaultStartingStitches = 90

// Engine assembles pattern rows from raw text.
//
// The zero-cost way to use it is the package-level Parse. Construct an
// Engine when you need deterministic row IDs or a different repeat cap.
type Engine struct {
	idGen     RowIDGenerator
	maxRepeat int
}

// Option configures an Engine.
type Option func(*Engine)

// WithRowIDs sets the row ID generator.
// Tests and the scenario harness use SequenceGenerator for determinism.
func WithRowIDs(g RowIDGenerator) Option {
	return func(e *Engine) {
		if g != nil {
			e.idGen = g
		}
	}
}

// WithMaxRepeat caps the N in "rep from * to * N times".
// Values <= 0 keep the default (parse.DefaultMaxRepeat).
func WithMaxRepeat(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxRepeat = n
		}
	}
}

// New creates an Engine with UUIDv7 row IDs and the default repeat cap.
func New(opts ...Option) *Engine {
	e := &Engine{
		idGen:     UUIDv7Generator{},
		maxRepeat: parse.DefaultMaxRepeat,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Parse runs a fresh default Engine over the inputs.
// See Engine.Parse for the contract.
func Parse(patternText string, glossary []pattern.GlossaryEntry, startingStitches int) pattern.ParseResult {
	return New().Parse(patternText, glossary, startingStitches)
}
