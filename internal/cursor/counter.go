package cursor

import "github.com/stitchkit/skein/internal/pattern"

// Counter is one tally widget. A counter with Target > 0 wraps back to 1
// after passing the target (a typical "row repeat" counter); Target == 0
// counts without bound.
type Counter struct {
	Name           string `json:"name"`
	Value          int    `json:"value"`
	Target         int    `json:"target"`
	AdvancesCursor bool   `json:"advances_cursor"`
}

// Increment advances the counter by one, wrapping at the target.
func (c *Counter) Increment() {
	c.Value++
	if c.Target > 0 && c.Value > c.Target {
		c.Value = 1
	}
}

// Tracker couples a cursor position with a set of counters over one parse
// result. It is the in-memory shape the persistence layer saves and loads;
// the ParseResult itself is never persisted, only recomputed.
type Tracker struct {
	Position Position
	Counters []Counter
}

// Bump increments the named counter. When the counter is linked to the
// cursor, the cursor advances one stitch as a side effect; the returned
// flag reports the pattern-complete condition from that advancement.
// Unknown names are a no-op.
func (t *Tracker) Bump(res pattern.ParseResult, name string) bool {
	for i := range t.Counters {
		if t.Counters[i].Name != name {
			continue
		}
		t.Counters[i].Increment()
		if t.Counters[i].AdvancesCursor {
			pos, complete := Advance(res, t.Position, 1)
			t.Position = pos
			return complete
		}
		return false
	}
	return false
}
