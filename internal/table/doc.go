// Package table reads and writes the delimited text files the pipeline
// operates on.
//
// Input decoding is lenient: bytes that are not valid in the configured
// encoding are replaced with U+FFFD instead of aborting the run, because
// CRM exports routinely contain a few stray Windows-1252 bytes. Header names
// are sanitized before any column lookup (see SanitizeHeader).
//
// Output files are written atomically. A failed write never leaves a
// partial file behind.
package table
