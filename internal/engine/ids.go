package engine

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// RowIDGenerator generates identifiers for assembled rows.
// Implemented by UUIDv7Generator (production) and SequenceGenerator (tests,
// harness golden runs). Row IDs exist for UI keying only and never affect
// structural equality of a ParseResult.
type RowIDGenerator interface {
	Generate() string
}

// UUIDv7Generator generates time-sortable UUIDv7 row IDs.
//
// UUIDv7 embeds a timestamp in the most significant bits, making IDs
// sortable by creation time, which keeps row lists stable to diff in
// debugging output.
//
// Thread-safety: UUIDv7Generator is stateless and safe for concurrent use.
type UUIDv7Generator struct{}

// Generate creates a new UUIDv7 and returns it as a hyphenated string.
// Panics if UUID generation fails (should never happen in practice).
func (g UUIDv7Generator) Generate() string {
	return uuid.Must(uuid.NewV7()).String()
}

// SequenceGenerator returns deterministic "prefix-N" IDs in order.
//
// This enables deterministic harness runs and golden snapshot comparison:
// the same scenario always assembles rows with the same IDs.
//
// Thread-safety: safe for concurrent use via internal mutex.
type SequenceGenerator struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceGenerator creates a generator producing "prefix-1", "prefix-2", ...
func NewSequenceGenerator(prefix string) *SequenceGenerator {
	if prefix == "" {
		prefix = "row"
	}
	return &SequenceGenerator{prefix: prefix}
}

// Generate returns the next sequential ID.
func (g *SequenceGenerator) Generate() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

// Reset restarts the sequence. After Reset the next ID is "prefix-1" again,
// so one generator can serve repeated scenario runs.
func (g *SequenceGenerator) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n = 0
}
