package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/nao1215/csvhash/internal/model"
)

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// mockStep is a test helper that implements the Step interface.
type mockStep struct {
	name      string
	doFunc    func(ctx context.Context, run *model.Run) error
	callCount int
}

// Do implements Step.Do.
func (m *mockStep) Do(ctx context.Context, run *model.Run) error {
	m.callCount++
	if m.doFunc != nil {
		return m.doFunc(ctx, run)
	}
	return nil
}

// Name implements Step.Name.
func (m *mockStep) Name() string {
	return m.name
}

// TestPipelineNew tests the Pipeline constructor.
func TestPipelineNew(t *testing.T) {
	t.Parallel()

	t.Run("creates pipeline with default settings", func(t *testing.T) {
		t.Parallel()

		p := New()

		if p == nil {
			t.Fatal("expected non-nil pipeline")
		}
		if p.StepCount() != 0 {
			t.Errorf("expected 0 steps, got %d", p.StepCount())
		}
		if p.logger == nil {
			t.Error("expected default logger")
		}
	})

	t.Run("applies WithLogger option", func(t *testing.T) {
		t.Parallel()

		logger := discardLogger()
		p := New(WithLogger(logger))

		if p.logger != logger {
			t.Error("expected custom logger to be used")
		}
	})
}

// TestPipelineAddStep tests adding steps to the pipeline.
func TestPipelineAddStep(t *testing.T) {
	t.Parallel()

	p := New()
	p.AddStep(&mockStep{name: "first"})
	p.AddSteps(&mockStep{name: "second"}, &mockStep{name: "third"})

	if p.StepCount() != 3 {
		t.Fatalf("expected 3 steps, got %d", p.StepCount())
	}
	names := p.StepNames()
	want := []string{"first", "second", "third"}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("step %d: expected %q, got %q", i, want[i], names[i])
		}
	}
}

// TestPipelineExecute tests pipeline execution.
func TestPipelineExecute(t *testing.T) {
	t.Parallel()

	t.Run("executes all steps in order", func(t *testing.T) {
		t.Parallel()

		var order []string
		record := func(name string) *mockStep {
			return &mockStep{name: name, doFunc: func(context.Context, *model.Run) error {
				order = append(order, name)
				return nil
			}}
		}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(record("a"), record("b"), record("c"))

		run := model.NewRun("in.csv", "out.csv", "Email")
		if err := p.Execute(context.Background(), run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if len(order) != 3 || order[0] != "a" || order[2] != "c" {
			t.Errorf("unexpected execution order: %v", order)
		}
		if len(run.PerformedSteps) != 3 {
			t.Errorf("expected 3 performed steps, got %v", run.PerformedSteps)
		}
		if run.FinishedAt.IsZero() {
			t.Error("expected FinishedAt to be set")
		}
	})

	t.Run("stops at the first error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		first := &mockStep{name: "first"}
		failing := &mockStep{name: "failing", doFunc: func(context.Context, *model.Run) error { return boom }}
		last := &mockStep{name: "last"}

		p := New(WithLogger(discardLogger()))
		p.AddSteps(first, failing, last)

		run := model.NewRun("in.csv", "out.csv", "Email")
		err := p.Execute(context.Background(), run)

		if !errors.Is(err, boom) {
			t.Fatalf("expected boom, got %v", err)
		}
		if last.callCount != 0 {
			t.Error("expected steps after the failure to be skipped")
		}
		if !errors.Is(run.Error, boom) || run.ErrorMessage != "boom" {
			t.Errorf("expected error recorded on run, got %v / %q", run.Error, run.ErrorMessage)
		}
		if len(run.PerformedSteps) != 1 || run.PerformedSteps[0] != "first" {
			t.Errorf("expected only first step performed, got %v", run.PerformedSteps)
		}
	})

	t.Run("respects cancellation before a step", func(t *testing.T) {
		t.Parallel()

		step := &mockStep{name: "never"}
		p := New(WithLogger(discardLogger()))
		p.AddStep(step)

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		run := model.NewRun("in.csv", "out.csv", "Email")
		err := p.Execute(ctx, run)

		if !errors.Is(err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", err)
		}
		if step.callCount != 0 {
			t.Error("expected step not to run")
		}
		if run.Error == nil {
			t.Error("expected cancellation recorded on run")
		}
	})

	t.Run("empty pipeline succeeds", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("in.csv", "out.csv", "Email")
		if err := New().Execute(context.Background(), run); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
}
