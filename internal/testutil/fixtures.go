// Package testutil provides shared fixtures for cross-package tests.
package testutil

import (
	"github.com/stitchkit/skein/internal/engine"
	"github.com/stitchkit/skein/internal/pattern"
)

// BasicGlossary returns a small glossary covering the common stitch codes
// used across tests.
func BasicGlossary() []pattern.GlossaryEntry {
	return []pattern.GlossaryEntry{
		{Code: "k", Title: "Knit", Detail: "Knit stitch"},
		{Code: "p", Title: "Purl", Detail: "Purl stitch"},
		{Code: "k2tog", Title: "Knit two together", Detail: "Right-leaning decrease"},
		{Code: "yo", Title: "Yarn over", Detail: "Single-stitch increase"},
		{Code: "cdd", Title: "Centered double decrease", Detail: "Slip 2, k1, pass over"},
	}
}

// DeterministicEngine returns an engine whose row IDs are a predictable
// "test-N" sequence, suitable for structural-equality assertions.
func DeterministicEngine() *engine.Engine {
	return engine.New(engine.WithRowIDs(engine.NewSequenceGenerator("test")))
}
