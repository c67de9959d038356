// Package store persists skein projects in SQLite.
//
// Only the three raw parse inputs (pattern text, glossary, starting
// stitches) plus cursor and counter state are stored. A ParseResult is
// never written to disk: it is recomputed from the raw inputs on load,
// which is safe because the engine is a pure function of them. The input
// fingerprint saved alongside lets callers notice when a persisted cursor
// predates a pattern edit.
package store
