// Package database provides SQLite-based run history for csvhash.
//
// This package implements the HistoryDB, which stores:
//   - One record per run with its parameters and collision statistics
//   - The collision groups of each run (truncated digest, size, row positions)
//
// Source values and salts are never stored. A history entry tells an
// auditor how a release was pseudonymized without allowing the
// pseudonyms to be reversed.
//
// Design decision: We use SQLite (via modernc.org/sqlite) because the
// history is a single local file and the CGO-free driver keeps
// cross-compilation simple.
package database
