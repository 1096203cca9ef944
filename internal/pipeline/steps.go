package pipeline

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"slices"
	"strings"

	"github.com/nao1215/csvhash/internal/collision"
	"github.com/nao1215/csvhash/internal/config"
	"github.com/nao1215/csvhash/internal/digest"
	"github.com/nao1215/csvhash/internal/model"
	"github.com/nao1215/csvhash/internal/residual"
	"github.com/nao1215/csvhash/internal/table"
)

// LoadStep reads the input file into the run's dataset.
// Header names are sanitized by the table package on the way in.
type LoadStep struct {
	opts   table.ReadOptions
	logger *slog.Logger
}

// NewLoadStep creates a LoadStep.
func NewLoadStep(opts table.ReadOptions, logger *slog.Logger) *LoadStep {
	return &LoadStep{opts: opts, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *LoadStep) Name() string {
	return "load"
}

// Do executes the load step.
func (s *LoadStep) Do(_ context.Context, run *model.Run) error {
	ds, err := table.ReadFile(run.InputPath, s.opts)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", run.InputPath, err)
	}
	run.Dataset = ds

	s.logger.Info("input loaded",
		"path", run.InputPath,
		"rows", ds.Len(),
		"columns", len(ds.Header),
	)
	return nil
}

// GuardStep stops the run when the column to hash is missing.
// It runs before any digest is computed or file is written.
type GuardStep struct{}

// NewGuardStep creates a GuardStep.
func NewGuardStep() *GuardStep {
	return &GuardStep{}
}

// Name returns the step name.
func (s *GuardStep) Name() string {
	return "guard"
}

// Do executes the guard step.
func (s *GuardStep) Do(_ context.Context, run *model.Run) error {
	if run.Dataset == nil || !run.Dataset.HasColumn(run.Column) {
		var available []string
		if run.Dataset != nil {
			available = run.Dataset.Header
		}
		return &ColumnNotFoundError{Column: run.Column, Available: available}
	}
	return nil
}

// DigestStep adds the full digest column and, when truncation is enabled,
// the truncated digest column.
type DigestStep struct {
	hasher         *digest.Hasher
	truncateLength int
	concurrency    int
	logger         *slog.Logger
}

// DigestStepOption configures a DigestStep.
type DigestStepOption func(*DigestStep)

// WithTruncateLength enables truncation to n characters. n <= 0 disables it.
func WithTruncateLength(n int) DigestStepOption {
	return func(s *DigestStep) {
		s.truncateLength = n
	}
}

// WithConcurrency bounds the number of goroutines computing digests.
func WithConcurrency(n int) DigestStepOption {
	return func(s *DigestStep) {
		if n > 0 {
			s.concurrency = n
		}
	}
}

// WithDigestLogger sets a custom logger for the digest step.
func WithDigestLogger(logger *slog.Logger) DigestStepOption {
	return func(s *DigestStep) {
		s.logger = logger
	}
}

// NewDigestStep creates a DigestStep. The hasher is resolved by the caller
// so that an unknown algorithm fails before the input is even opened.
func NewDigestStep(hasher *digest.Hasher, opts ...DigestStepOption) *DigestStep {
	s := &DigestStep{
		hasher:      hasher,
		concurrency: runtime.NumCPU(),
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the step name.
func (s *DigestStep) Name() string {
	return "digest"
}

// Do executes the digest step.
func (s *DigestStep) Do(ctx context.Context, run *model.Run) error {
	values := run.Dataset.Column(run.Column)

	full, err := mapParallel(ctx, values, s.concurrency, s.hasher.Sum)
	if err != nil {
		return fmt.Errorf("failed to compute digests: %w", err)
	}

	run.Algorithm = s.hasher.Algorithm()
	run.Salted = s.hasher.Salted()
	run.FullDigests = full
	run.Dataset.AddColumn(model.FullColumn(run.Column), full)

	if s.truncateLength > 0 {
		truncated := make([]string, len(full))
		for i, d := range full {
			truncated[i] = digest.Truncate(d, s.truncateLength)
		}
		run.TruncateLength = s.truncateLength
		run.TruncatedDigests = truncated
		run.Dataset.AddColumn(model.TruncatedColumn(run.Column), truncated)
	}

	s.logger.Info("digests computed",
		"column", run.Column,
		"algorithm", run.Algorithm,
		"keyed", run.Salted,
		"truncate_length", s.truncateLength,
		"rows", len(full),
	)
	return nil
}

// CollisionStep groups rows by truncated digest.
// It is a no-op when truncation is disabled: full-length digests are
// treated as collision-free for the volumes in scope.
type CollisionStep struct {
	logger *slog.Logger
}

// NewCollisionStep creates a CollisionStep.
func NewCollisionStep(logger *slog.Logger) *CollisionStep {
	return &CollisionStep{logger: orDefault(logger)}
}

// Name returns the step name.
func (s *CollisionStep) Name() string {
	return "collision"
}

// Do executes the collision step.
func (s *CollisionStep) Do(_ context.Context, run *model.Run) error {
	if !run.TruncationEnabled() {
		s.logger.Debug("truncation disabled, skipping collision detection")
		return nil
	}

	report := collision.Detect(run.Entries())
	run.Collisions = report

	if report.HasCollisions() {
		s.logger.Warn("hash clashes found",
			"groups", report.GroupCount(),
			"colliding_rows", report.CollidingRows,
			"percentage", report.Percentage(),
		)
	} else {
		s.logger.Info("no hash clashes found", "rows", report.TotalRows)
	}
	return nil
}

// ProjectStep applies an output schema: dropping columns, then selecting,
// renaming and ordering the remaining ones.
type ProjectStep struct {
	schema *config.OutputSchema
}

// NewProjectStep creates a ProjectStep.
func NewProjectStep(schema *config.OutputSchema) *ProjectStep {
	return &ProjectStep{schema: schema}
}

// Name returns the step name.
func (s *ProjectStep) Name() string {
	return "project"
}

// Do executes the project step.
func (s *ProjectStep) Do(_ context.Context, run *model.Run) error {
	if s.schema.IsZero() {
		return nil
	}

	run.Dataset.Drop(s.schema.Drop...)

	if len(s.schema.Columns) == 0 {
		return nil
	}

	projected, missing := run.Dataset.Select(s.schema.Sources(), s.schema.Targets())
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrSchemaColumnNotFound, strings.Join(missing, ", "))
	}
	run.Dataset = projected
	return nil
}

// ResidualStep scans the columns about to be written for values that still
// look like personal identifiers. Findings are logged and recorded on the
// run. In strict mode a finding of medium severity or higher aborts the run
// before anything is written.
type ResidualStep struct {
	scanner *residual.Scanner
	strict  bool
	logger  *slog.Logger
}

// NewResidualStep creates a ResidualStep.
func NewResidualStep(scanner *residual.Scanner, strict bool, logger *slog.Logger) *ResidualStep {
	return &ResidualStep{scanner: scanner, strict: strict, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *ResidualStep) Name() string {
	return "residual"
}

// Do executes the residual step.
// Digest columns are skipped even when the schema renamed them.
func (s *ResidualStep) Do(ctx context.Context, run *model.Run) error {
	ds := run.Dataset
	columns := make([]residual.Column, 0, len(ds.Header))
	for _, name := range ds.Header {
		values := ds.Column(name)
		if slices.Equal(values, run.FullDigests) ||
			(run.TruncatedDigests != nil && slices.Equal(values, run.TruncatedDigests)) {
			continue
		}
		columns = append(columns, residual.Column{Name: name, Values: values})
	}

	findings, err := s.scanner.Scan(ctx, columns)
	if err != nil {
		return fmt.Errorf("failed to scan for residual identifiers: %w", err)
	}
	run.Residuals = findings

	for _, f := range findings {
		s.logger.Warn("column may contain personal identifiers",
			"column", f.Column,
			"kind", f.Kind,
			"severity", f.Severity.String(),
			"rows", f.Count,
			"first_row", f.FirstRow,
		)
	}

	if !s.strict {
		return nil
	}
	if highest, ok := model.MaxResidualSeverity(findings); ok && highest >= model.SeverityMedium {
		return fmt.Errorf("%w: %s", ErrResidualIdentifiers, describeResiduals(findings))
	}
	return nil
}

// describeResiduals lists the flagged columns of at least medium severity.
func describeResiduals(findings []model.ResidualFinding) string {
	parts := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Severity < model.SeverityMedium {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s (%d %s)", f.Column, f.Count, f.Description()))
	}
	return strings.Join(parts, ", ")
}

// WriteStep writes the annotated dataset and, when collisions were found,
// the collision log next to it.
type WriteStep struct {
	delimiter rune
	logger    *slog.Logger
}

// NewWriteStep creates a WriteStep.
func NewWriteStep(delimiter rune, logger *slog.Logger) *WriteStep {
	return &WriteStep{delimiter: delimiter, logger: orDefault(logger)}
}

// Name returns the step name.
func (s *WriteStep) Name() string {
	return "write"
}

// Do executes the write step.
// Both files are written atomically. If the collision log cannot be
// written the output file is removed again so the run leaves nothing.
func (s *WriteStep) Do(_ context.Context, run *model.Run) error {
	if err := checkOverwrite(run); err != nil {
		return err
	}

	ds := run.Dataset
	if err := table.WriteFile(run.OutputPath, ds.Header, ds.Rows, s.delimiter); err != nil {
		return fmt.Errorf("failed to write %s: %w", run.OutputPath, err)
	}
	run.OutputWritten = true
	s.logger.Info("output written", "path", run.OutputPath, "rows", ds.Len())

	if run.Collisions == nil || !run.Collisions.HasCollisions() {
		return nil
	}

	logPath := table.ClashLogPath(run.OutputPath)
	if err := s.writeClashLog(logPath, run); err != nil {
		if rmErr := os.Remove(run.OutputPath); rmErr == nil {
			run.OutputWritten = false
		}
		return fmt.Errorf("failed to write clash log %s: %w", logPath, err)
	}
	run.ClashLogPath = logPath
	s.logger.Info("clash log written", "path", logPath, "rows", run.Collisions.CollidingRows)
	return nil
}

// checkOverwrite refuses output or clash log paths that point at the input,
// before either file is written.
func checkOverwrite(run *model.Run) error {
	if table.SamePath(run.InputPath, run.OutputPath) {
		return fmt.Errorf("%w: %s", config.ErrSameInputOutput, run.OutputPath)
	}
	if logPath := table.ClashLogPath(run.OutputPath); table.SamePath(run.InputPath, logPath) {
		return fmt.Errorf("%w: clash log %s is the input file", config.ErrSameInputOutput, logPath)
	}
	return nil
}

// writeClashLog writes one row per colliding record with the original
// value, the full digest and the truncated digest.
func (s *WriteStep) writeClashLog(path string, run *model.Run) error {
	header := []string{
		run.Column,
		model.FullColumn(run.Column),
		model.TruncatedColumn(run.Column),
	}

	members := run.Collisions.Members()
	rows := make([][]string, len(members))
	for i, m := range members {
		rows[i] = []string{m.Value, m.Full, m.Truncated}
	}

	return table.WriteFileAtomic(path, func(w io.Writer) error {
		return table.Write(w, header, rows, s.delimiter)
	})
}

// orDefault returns logger, or slog.Default() when it is nil.
func orDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
