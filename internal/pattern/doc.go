// Package pattern provides the data model for parsed knitting patterns.
//
// This package contains type definitions plus the canonical serialization
// used for fingerprinting and golden snapshots. All other internal packages
// import pattern; pattern imports nothing internal. This keeps the data
// model the foundational layer with no circular dependencies.
//
// Key design constraints:
//   - NO float types anywhere - stitch arithmetic is integer only
//   - All JSON tags use snake_case
//   - Row IDs are opaque and excluded from canonical serialization, so two
//     structurally identical parses serialize to identical bytes
package pattern
