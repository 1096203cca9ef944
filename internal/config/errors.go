package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and can be matched with
// errors.Is().
var (
	// ErrNoInput is returned when no input file is given.
	ErrNoInput = errors.New("no input file specified")

	// ErrNoOutput is returned when no output file is given.
	ErrNoOutput = errors.New("no output file specified")

	// ErrNoColumn is returned when the column to hash is not given.
	ErrNoColumn = errors.New("no column to hash specified")

	// ErrSameInputOutput is returned when the output would overwrite the input.
	ErrSameInputOutput = errors.New("output path must differ from input path")

	// ErrInvalidTruncateLength is returned for a negative truncate length.
	// Use 0 to disable truncation.
	ErrInvalidTruncateLength = errors.New("invalid truncate length: must be non-negative")

	// ErrInvalidDelimiter is returned when the delimiter is not a single
	// usable character.
	ErrInvalidDelimiter = errors.New("invalid delimiter: must be a single character other than quote or newline")

	// ErrInvalidConcurrency is returned when concurrency is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrUnsupportedReportFormat is returned for an unknown summary format.
	ErrUnsupportedReportFormat = errors.New("unsupported report format: use text, json or markdown")

	// ErrInvalidSchema is returned when the output schema is inconsistent.
	ErrInvalidSchema = errors.New("invalid output schema")
)
