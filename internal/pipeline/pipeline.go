package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/csvhash/internal/model"
)

var (
	// ErrColumnNotFound is returned when the column to hash is not in the
	// sanitized header.
	ErrColumnNotFound = errors.New("column not found")

	// ErrSchemaColumnNotFound is returned when the output schema maps a
	// column that does not exist in the annotated dataset.
	ErrSchemaColumnNotFound = errors.New("output schema refers to unknown column")

	// ErrResidualIdentifiers is returned in strict mode when output columns
	// still hold personal identifiers.
	ErrResidualIdentifiers = errors.New("output still contains personal identifiers")
)

// ColumnNotFoundError reports a missing column together with the columns
// that do exist. It matches ErrColumnNotFound with errors.Is.
type ColumnNotFoundError struct {
	Column    string
	Available []string
}

// Error implements error.
func (e *ColumnNotFoundError) Error() string {
	return fmt.Sprintf("column %q not found (available: %s)", e.Column, strings.Join(e.Available, ", "))
}

// Is reports whether target is ErrColumnNotFound.
func (e *ColumnNotFoundError) Is(target error) bool {
	return target == ErrColumnNotFound
}

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the run state
// accumulated by previous steps.
type Step interface {
	// Do executes the pipeline step. Any error aborts the run.
	Do(ctx context.Context, run *model.Run) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Pipeline orchestrates the execution of multiple steps.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default() is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step. The first error stops the
// pipeline, is recorded on the run and returned.
func (p *Pipeline) Execute(ctx context.Context, run *model.Run) error {
	defer func() {
		run.FinishedAt = time.Now()
	}()

	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"reason", ctx.Err(),
			)
			p.fail(run, ctx.Err())
			return ctx.Err()
		default:
		}

		p.logger.Debug("executing step",
			"step", step.Name(),
			"run", run.ID,
		)

		if err := step.Do(ctx, run); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"run", run.ID,
				"error", err,
			)
			p.fail(run, err)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"run", run.ID,
		)

		run.PerformedSteps = append(run.PerformedSteps, step.Name())
	}

	return nil
}

// fail records err on the run.
func (p *Pipeline) fail(run *model.Run, err error) {
	run.Error = err
	run.ErrorMessage = err.Error()
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
