// Package model defines the data structures shared by the hashing pipeline,
// the report writers and the history database.
//
// This package contains the following main types:
//   - Dataset: The in-memory table read from the input file
//   - Run: The state of one pipeline execution
//   - Summary: A presentation snapshot of a finished run
//   - ResidualFinding: A column that still looks like it holds identifiers
//   - Severity: How identifying a residual finding is
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. The pipeline, report and database packages all need these
// types, so centralizing them prevents import cycles.
package model
