package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/csvhash/internal/model"
)

// defaultMaxGroups is how many collision groups the text output lists
// before eliding the rest.
const defaultMaxGroups = 10

// SimpleWriter outputs human-readable text summaries for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose lists every collision group instead of the first few.
	verbose bool

	// maxGroups caps the listed groups when verbose is off.
	maxGroups int
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with every collision group listed.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithMaxGroups sets how many collision groups are listed in non-verbose mode.
func WithMaxGroups(n int) SimpleWriterOption {
	return func(w *SimpleWriter) {
		if n > 0 {
			w.maxGroups = n
		}
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		maxGroups:  defaultMaxGroups,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.Summary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCollisions(&sb, summary)
	w.writeResiduals(&sb, summary)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the run parameters.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, s *model.Summary) {
	fmt.Fprintf(sb, "Input:      %s\n", s.InputPath)
	fmt.Fprintf(sb, "Output:     %s\n", s.OutputPath)
	fmt.Fprintf(sb, "Column:     %s\n", s.Column)
	fmt.Fprintf(sb, "Algorithm:  %s\n", algorithmLabel(s))
	fmt.Fprintf(sb, "Truncation: %s\n", truncationLabel(s))
	fmt.Fprintf(sb, "Rows:       %d\n", s.TotalRows)

	if s.Error != "" {
		fmt.Fprintf(sb, "Status:     ERROR - %s\n", s.Error)
	}
}

// writeCollisions writes the collision verdict and the groups.
func (w *SimpleWriter) writeCollisions(sb *strings.Builder, s *model.Summary) {
	if !s.CollisionChecked() || s.Error != "" {
		return
	}

	sb.WriteString("\n")
	sb.WriteString(clashMessage(s))
	sb.WriteString("\n")

	if !s.HasCollisions() {
		return
	}

	limit := len(s.Groups)
	if !w.verbose && limit > w.maxGroups {
		limit = w.maxGroups
	}
	for _, g := range s.Groups[:limit] {
		fmt.Fprintf(sb, "  %s  %d rows  [%s]\n", g.Truncated, g.Size, joinRows(g.Rows))
	}
	if rest := len(s.Groups) - limit; rest > 0 {
		fmt.Fprintf(sb, "  ... and %d more (use --verbose to list all)\n", rest)
	}

	if s.ClashLogPath != "" {
		fmt.Fprintf(sb, "Clashes saved to %s.\n", s.ClashLogPath)
	}
}

// writeResiduals lists columns that may still hold personal identifiers.
func (w *SimpleWriter) writeResiduals(sb *strings.Builder, s *model.Summary) {
	if !s.HasResiduals() {
		return
	}

	sb.WriteString("\nPossible identifiers left in the output:\n")
	for _, f := range s.Residuals {
		fmt.Fprintf(sb, "  %-8s %s: %d rows look like %s (first at row %d)\n",
			"["+f.Severity.String()+"]", f.Column, f.Count, f.Description(), f.FirstRow)
		if w.verbose {
			fmt.Fprintf(sb, "           %s\n", f.Recommendation())
		}
	}
}

// WriteHistory outputs one line per stored run.
func (w *SimpleWriter) WriteHistory(summaries []*model.Summary) (int, error) {
	if len(summaries) == 0 {
		return io.WriteString(w.output, "No runs recorded.\n")
	}

	var sb strings.Builder
	for _, s := range summaries {
		fmt.Fprintf(&sb, "%s  %s  %s -> %s  column=%s  %s  truncate=%s  rows=%d",
			s.RunID,
			s.StartedAt.Format("2006-01-02 15:04:05"),
			s.InputPath,
			s.OutputPath,
			s.Column,
			algorithmLabel(s),
			truncationLabel(s),
			s.TotalRows,
		)
		if s.CollisionChecked() {
			fmt.Fprintf(&sb, "  clashes=%d (%.2f%%)", s.GroupCount, s.Percentage)
		}
		sb.WriteString("\n")
	}
	return w.output.Write([]byte(sb.String()))
}

// algorithmLabel renders the algorithm with its keying state.
func algorithmLabel(s *model.Summary) string {
	if s.Salted {
		return s.Algorithm + " (salted)"
	}
	return s.Algorithm
}

// truncationLabel renders the truncate length.
func truncationLabel(s *model.Summary) string {
	if !s.CollisionChecked() {
		return "disabled"
	}
	return strconv.Itoa(s.TruncateLength) + " characters"
}

// joinRows renders row positions as a space separated list.
func joinRows(rows []int) string {
	parts := make([]string, len(rows))
	for i, r := range rows {
		parts[i] = strconv.Itoa(r)
	}
	return strings.Join(parts, " ")
}
