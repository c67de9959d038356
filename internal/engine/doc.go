// Package engine implements the row assembler and stitch propagator.
//
// This is the sequencing core and the only place where ordering and state
// matter. Drafts are processed strictly in ascending round-number order and
// the live stitch count is threaded through an explicit fold: row i's
// classification of "k around" and its starting count depend on every prior
// row's resolved delta, so rows cannot be processed out of order or in
// parallel.
//
// Back-references ("Rnd4: see Rnd2.") resolve through a map of bodies
// populated in fold order. Only already-processed rounds are valid targets;
// unresolved lookups fail closed with an error and the draft is skipped.
//
// Parse is a pure function of (patternText, glossary, startingStitches)
// apart from row ID generation, and row IDs are insignificant to structural
// equality. It is safe to call on every keystroke and safe to memoize by
// input fingerprint.
package engine
