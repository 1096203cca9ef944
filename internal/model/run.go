package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/nao1215/csvhash/internal/collision"
)

// Column name suffixes appended to the hashed column.
const (
	FullSuffix      = "_hash_full"
	TruncatedSuffix = "_hash_truncated"
)

// FullColumn returns the name of the full digest column for column.
func FullColumn(column string) string {
	return column + FullSuffix
}

// TruncatedColumn returns the name of the truncated digest column for column.
func TruncatedColumn(column string) string {
	return column + TruncatedSuffix
}

// Run is the state of one pipeline execution.
// Each pipeline step reads and extends it.
//
// Design decision: We use a single mutable struct threaded through the steps
// rather than return values per step, so steps stay independent and the
// pipeline can record progress and failure in one place.
type Run struct {
	// === Identity ===

	// ID uniquely identifies the run in the history database.
	ID string `json:"id"`

	// StartedAt is when the run began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last step finished. Zero until then.
	FinishedAt time.Time `json:"finished_at"`

	// === Parameters ===

	// InputPath is the file the dataset was read from.
	InputPath string `json:"input_path"`

	// OutputPath is the annotated file to write.
	OutputPath string `json:"output_path"`

	// Column is the sanitized name of the column to hash.
	Column string `json:"column"`

	// Algorithm is the canonical digest algorithm name.
	Algorithm string `json:"algorithm"`

	// Salted records whether a salt was used. The salt itself is never
	// stored on the run.
	Salted bool `json:"salted"`

	// TruncateLength is the digest prefix length, 0 when disabled.
	TruncateLength int `json:"truncate_length"`

	// === Data ===

	// Dataset is the table being transformed.
	Dataset *Dataset `json:"-"`

	// FullDigests holds one digest per row, aligned with Dataset.Rows.
	FullDigests []string `json:"-"`

	// TruncatedDigests holds one truncated digest per row when truncation
	// is enabled, nil otherwise.
	TruncatedDigests []string `json:"-"`

	// Collisions is the detection result, nil when truncation is disabled.
	Collisions *collision.Report `json:"-"`

	// Residuals lists output columns that still look like they hold
	// personal identifiers.
	Residuals []ResidualFinding `json:"residuals,omitempty"`

	// === Outputs ===

	// OutputWritten is true once the annotated file is on disk.
	OutputWritten bool `json:"output_written"`

	// ClashLogPath is the path of the collision log, empty when none was written.
	ClashLogPath string `json:"clash_log_path,omitempty"`

	// === Execution ===

	// PerformedSteps lists the names of the steps that ran.
	PerformedSteps []string `json:"performed_steps"`

	// Error is the error that stopped the run, if any.
	Error error `json:"-"`

	// ErrorMessage is Error rendered for serialization.
	ErrorMessage string `json:"error,omitempty"`
}

// NewRun creates a Run with a fresh ID.
func NewRun(inputPath, outputPath, column string) *Run {
	return &Run{
		ID:             uuid.New().String(),
		StartedAt:      time.Now(),
		InputPath:      inputPath,
		OutputPath:     outputPath,
		Column:         column,
		PerformedSteps: make([]string, 0),
	}
}

// TruncationEnabled reports whether digests are truncated in this run.
func (r *Run) TruncationEnabled() bool {
	return r.TruncateLength > 0
}

// TotalRows returns the number of rows in the dataset, 0 before loading.
func (r *Run) TotalRows() int {
	if r.Dataset == nil {
		return 0
	}
	return r.Dataset.Len()
}

// Entries pairs each row with its digests for collision detection.
// It returns nil when truncation is disabled.
func (r *Run) Entries() []collision.Entry {
	if !r.TruncationEnabled() || r.Dataset == nil {
		return nil
	}
	values := r.Dataset.Column(r.Column)
	entries := make([]collision.Entry, len(values))
	for i, v := range values {
		entries[i] = collision.Entry{
			Row:       i,
			Value:     v,
			Full:      r.FullDigests[i],
			Truncated: r.TruncatedDigests[i],
		}
	}
	return entries
}

// Duration returns how long the run took, or zero if it has not finished.
func (r *Run) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
