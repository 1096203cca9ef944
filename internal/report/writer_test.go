package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/csvhash/internal/model"
)

// createTestSummary creates a summary for the three-row Email example:
// rows 0 and 2 share a truncated digest.
func createTestSummary() *model.Summary {
	return &model.Summary{
		RunID:          "0b6f0c2e-0000-4000-8000-000000000001",
		StartedAt:      time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		InputPath:      "people.csv",
		OutputPath:     "people_hashed.csv",
		Column:         "Email",
		Algorithm:      "sha256",
		TruncateLength: 8,
		TotalRows:      3,
		GroupCount:     1,
		CollidingRows:  2,
		Percentage:     66.67,
		Groups: []model.GroupSummary{
			{Truncated: "478abec7", Size: 2, Rows: []int{0, 2}},
		},
		ClashLogPath: "people_hashed_clash_log.csv",
	}
}

// createCleanSummary creates a summary with truncation but no collisions.
func createCleanSummary() *model.Summary {
	s := createTestSummary()
	s.GroupCount = 0
	s.CollidingRows = 0
	s.Percentage = 0
	s.Groups = nil
	s.ClashLogPath = ""
	return s
}

// withResiduals adds residual findings to s.
func withResiduals(s *model.Summary) *model.Summary {
	s.Residuals = []model.ResidualFinding{
		{Column: "Email", Kind: model.KindEmail, Severity: model.SeverityHigh, Count: 3, FirstRow: 0},
		{Column: "ip", Kind: model.KindIPv4, Severity: model.SeverityLow, Count: 1, FirstRow: 2},
	}
	return s
}

// TestSimpleWriter tests the human-readable writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run parameters", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"people.csv", "people_hashed.csv", "Email", "sha256", "8 characters", "Rows:       3"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("writes the clash warning and groups", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if !strings.Contains(output, "Warning: 1 hash clashes found (66.67%).") {
			t.Errorf("expected clash warning, got:\n%s", output)
		}
		if !strings.Contains(output, "478abec7  2 rows  [0 2]") {
			t.Errorf("expected group line, got:\n%s", output)
		}
		if !strings.Contains(output, "Clashes saved to people_hashed_clash_log.csv.") {
			t.Errorf("expected clash log path, got:\n%s", output)
		}
	})

	t.Run("writes the all-clear message", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No hash clashes found.") {
			t.Errorf("expected all-clear message, got:\n%s", buf.String())
		}
	})

	t.Run("omits the verdict when truncation is disabled", func(t *testing.T) {
		t.Parallel()

		s := createCleanSummary()
		s.TruncateLength = 0
		s.Salted = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		if strings.Contains(output, "hash clashes") {
			t.Errorf("expected no verdict, got:\n%s", output)
		}
		if !strings.Contains(output, "disabled") || !strings.Contains(output, "sha256 (salted)") {
			t.Errorf("unexpected parameters:\n%s", output)
		}
	})

	t.Run("lists residual identifiers", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(withResiduals(createCleanSummary())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"Possible identifiers left in the output:",
			"[HIGH]   Email: 3 rows look like e-mail addresses (first at row 0)",
			"[LOW]    ip: 1 rows look like IPv4 addresses (first at row 2)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
		if strings.Contains(output, "Hash or drop") {
			t.Error("expected recommendations only in verbose mode")
		}

		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(withResiduals(createCleanSummary())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Hash or drop the column before sharing the file.") {
			t.Errorf("expected recommendation in verbose mode, got:\n%s", buf.String())
		}
	})

	t.Run("elides groups beyond the limit unless verbose", func(t *testing.T) {
		t.Parallel()

		s := createTestSummary()
		s.Groups = append(s.Groups,
			model.GroupSummary{Truncated: "aaaaaaaa", Size: 2, Rows: []int{3, 4}},
			model.GroupSummary{Truncated: "bbbbbbbb", Size: 2, Rows: []int{5, 6}},
		)
		s.GroupCount = 3

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithMaxGroups(1)).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "... and 2 more") || strings.Contains(buf.String(), "bbbbbbbb") {
			t.Errorf("expected elided groups, got:\n%s", buf.String())
		}

		buf.Reset()
		if _, err := NewSimpleWriter(&buf, WithMaxGroups(1), WithVerbose(true)).Write(s); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "bbbbbbbb") {
			t.Errorf("expected every group in verbose mode, got:\n%s", buf.String())
		}
	})

	t.Run("writes history lines", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)

		if _, err := w.WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if buf.String() != "No runs recorded.\n" {
			t.Errorf("unexpected empty history: %q", buf.String())
		}

		buf.Reset()
		if _, err := w.WriteHistory([]*model.Summary{createTestSummary()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "clashes=1 (66.67%)") {
			t.Errorf("unexpected history line: %q", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON with the verdict", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded["column"] != "Email" {
			t.Errorf("expected column Email, got %v", decoded["column"])
		}
		if decoded["percentage"] != 66.67 {
			t.Errorf("expected percentage 66.67, got %v", decoded["percentage"])
		}
		if decoded["message"] != "Warning: 1 hash clashes found (66.67%)." {
			t.Errorf("unexpected message: %v", decoded["message"])
		}
		groups, ok := decoded["groups"].([]any)
		if !ok || len(groups) != 1 {
			t.Fatalf("expected one group, got %v", decoded["groups"])
		}
	})

	t.Run("compact by default, indented with pretty print", func(t *testing.T) {
		t.Parallel()

		var compact, pretty bytes.Buffer
		if _, err := NewJSONWriter(&compact).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewJSONWriter(&pretty, WithPrettyPrint()).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		if strings.Count(compact.String(), "\n") != 1 {
			t.Errorf("expected single-line output, got %q", compact.String())
		}
		if !strings.Contains(pretty.String(), "\n  \"run_id\"") {
			t.Errorf("expected indented output, got %q", pretty.String())
		}
	})

	t.Run("residual severity is rendered as text", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(withResiduals(createCleanSummary())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `{"column":"Email","kind":"email_address","severity":"HIGH","count":3,"first_row":0}`) {
			t.Errorf("unexpected residuals: %s", buf.String())
		}
	})

	t.Run("history is always an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected empty array, got %q", buf.String())
		}
	})
}

// TestMarkdownWriter tests the Markdown writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes tables, chart and warning", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# csvhash Run",
			"## Collisions",
			"[!WARNING]",
			"Warning: 1 hash clashes found (66.67%).",
			"```mermaid",
			"`478abec7`",
			"people_hashed_clash_log.csv",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("writes the residual identifier table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(withResiduals(createCleanSummary())); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{"## Residual Identifiers", "[!WARNING]", "e-mail addresses", "HIGH", "IPv4 addresses"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q, got:\n%s", want, output)
			}
		}
	})

	t.Run("writes a tip when clean", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createCleanSummary()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No hash clashes found.") {
			t.Errorf("expected all-clear message, got:\n%s", buf.String())
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("expected no chart without collisions")
		}
	})

	t.Run("writes history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory([]*model.Summary{createTestSummary()}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "# csvhash History") || !strings.Contains(buf.String(), "1 (66.67%)") {
			t.Errorf("unexpected history:\n%s", buf.String())
		}
	})
}

// failingWriter is a Writer that always fails.
type failingWriter struct{}

func (failingWriter) Write(*model.Summary) (int, error) { return 0, errors.New("boom") }

func (failingWriter) WriteHistory([]*model.Summary) (int, error) { return 0, errors.New("boom") }

// TestMultiWriter tests fan-out to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to every writer", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

		n, err := mw.Write(createTestSummary())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if text.Len() == 0 || js.Len() == 0 {
			t.Error("expected both writers to receive output")
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var after bytes.Buffer
		mw := NewMultiWriter(failingWriter{}, NewSimpleWriter(&after))

		if _, err := mw.Write(createTestSummary()); err == nil {
			t.Error("expected error")
		}
		if after.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

// TestNew tests format selection.
func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  string
		want    string
		wantErr bool
	}{
		{format: "", want: "*report.SimpleWriter"},
		{format: FormatText, want: "*report.SimpleWriter"},
		{format: FormatJSON, want: "*report.JSONWriter"},
		{format: FormatMarkdown, want: "*report.MarkdownWriter"},
		{format: "xml", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			w, err := New(tt.format, &bytes.Buffer{})
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := typeName(w); got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

// typeName returns the dynamic type of w.
func typeName(w Writer) string {
	switch w.(type) {
	case *SimpleWriter:
		return "*report.SimpleWriter"
	case *JSONWriter:
		return "*report.JSONWriter"
	case *MarkdownWriter:
		return "*report.MarkdownWriter"
	default:
		return "unknown"
	}
}
