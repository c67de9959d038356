// Package cursor implements per-stitch navigation over assembled rows and
// the counter layer that can drive it.
//
// A Position addresses one cell of the expanded timeline: (row index,
// stitch index into rows[row].Expanded). Positions are always clamped into
// bounds before use, so a cursor persisted against an older parse stays
// usable after the pattern is edited.
package cursor

import "github.com/stitchkit/skein/internal/pattern"

// Position addresses one stitch cell in a ParseResult timeline.
type Position struct {
	Row    int `json:"row"`
	Stitch int `json:"stitch"`
}

// Clamp forces a position into the bounds of the result's expanded rows.
// With no rows the zero position is returned.
func Clamp(res pattern.ParseResult, pos Position) Position {
	if len(res.Rows) == 0 {
		return Position{}
	}

	if pos.Row < 0 {
		pos.Row = 0
	}
	if pos.Row >= len(res.Rows) {
		pos.Row = len(res.Rows) - 1
	}

	max := len(res.Rows[pos.Row].Expanded) - 1
	if max < 0 {
		max = 0
	}
	if pos.Stitch < 0 {
		pos.Stitch = 0
	}
	if pos.Stitch > max {
		pos.Stitch = max
	}
	return pos
}

// Advance moves the cursor forward n stitches, rolling into the next row on
// overflow. It reports complete=true when the cursor sits on the last stitch
// of the last row; advancing past the end pins the cursor there.
//
// Advancing by a non-positive n only clamps.
func Advance(res pattern.ParseResult, pos Position, n int) (Position, bool) {
	pos = Clamp(res, pos)
	if len(res.Rows) == 0 {
		return pos, false
	}

	for n > 0 {
		remaining := len(res.Rows[pos.Row].Expanded) - 1 - pos.Stitch
		if n <= remaining {
			pos.Stitch += n
			n = 0
			break
		}

		if pos.Row == len(res.Rows)-1 {
			// Past the end: pin to the final stitch.
			pos.Stitch = len(res.Rows[pos.Row].Expanded) - 1
			if pos.Stitch < 0 {
				pos.Stitch = 0
			}
			n = 0
			break
		}

		n -= remaining + 1
		pos.Row++
		pos.Stitch = 0
	}

	return pos, atEnd(res, pos)
}

// Step returns the stitch cell under the cursor, clamping first.
// ok is false when the result has no rows.
func Step(res pattern.ParseResult, pos Position) (pattern.StitchStep, bool) {
	if len(res.Rows) == 0 {
		return pattern.StitchStep{}, false
	}
	pos = Clamp(res, pos)
	row := res.Rows[pos.Row]
	if len(row.Expanded) == 0 {
		return pattern.StitchStep{}, false
	}
	return row.Expanded[pos.Stitch], true
}

func atEnd(res pattern.ParseResult, pos Position) bool {
	if len(res.Rows) == 0 {
		return false
	}
	last := len(res.Rows) - 1
	return pos.Row == last && pos.Stitch >= len(res.Rows[last].Expanded)-1
}
