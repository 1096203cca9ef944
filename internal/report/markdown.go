package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/csvhash/internal/model"
	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs summaries in Markdown format.
// This format is designed for documentation and review, for example as
// an attachment to a data release.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCollisions(md, summary)
	w.writeResiduals(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the run parameters table.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, s *model.Summary) {
	md.H1("csvhash Run")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Run ID", "`" + s.RunID + "`"},
			{"Date", s.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Input", "`" + s.InputPath + "`"},
			{"Output", "`" + s.OutputPath + "`"},
			{"Column", "`" + s.Column + "`"},
			{"Algorithm", algorithmLabel(s)},
			{"Truncation", truncationLabel(s)},
			{"Rows", strconv.Itoa(s.TotalRows)},
			{"Status", statusText(s)},
		},
	})
	md.PlainText("")
}

// statusText returns the status text based on summary state.
func statusText(s *model.Summary) string {
	if s.Error != "" {
		return "❌ Error - " + s.Error
	}
	return "✅ Complete"
}

// writeCollisions writes the collision verdict, chart and group table.
func (w *MarkdownWriter) writeCollisions(md *markdown.Markdown, s *model.Summary) {
	if s.Error != "" {
		return
	}

	md.H2("Collisions")
	md.PlainText("")

	if !s.CollisionChecked() {
		md.Note("Truncation is disabled, full-length digests are not checked for collisions.")
		md.PlainText("")
		return
	}

	if !s.HasCollisions() {
		md.Tip(clashMessage(s))
		md.PlainText("")
		return
	}

	md.Warning(clashMessage(s))
	md.PlainText("")

	w.writePieChart(md, s)

	rows := make([][]string, len(s.Groups))
	for i, g := range s.Groups {
		rows[i] = []string{"`" + g.Truncated + "`", strconv.Itoa(g.Size), joinRows(g.Rows)}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Truncated digest", "Rows", "Positions"},
		Rows:   rows,
	})
	md.PlainText("")

	if s.ClashLogPath != "" {
		md.PlainTextf("Clashing rows were saved to `%s`.", s.ClashLogPath)
		md.PlainText("")
	}
}

// writeResiduals writes the residual identifier table.
func (w *MarkdownWriter) writeResiduals(md *markdown.Markdown, s *model.Summary) {
	if !s.HasResiduals() {
		return
	}

	md.H2("Residual Identifiers")
	md.PlainText("")

	if highest, _ := model.MaxResidualSeverity(s.Residuals); highest >= model.SeverityMedium {
		md.Warning("Some output columns still look like they contain personal identifiers.")
	} else {
		md.Note("Only low severity and informational identifiers detected.")
	}
	md.PlainText("")

	rows := make([][]string, len(s.Residuals))
	for i, f := range s.Residuals {
		rows[i] = []string{
			"`" + f.Column + "`",
			f.Description(),
			f.Severity.String(),
			strconv.Itoa(f.Count),
			strconv.Itoa(f.FirstRow),
			f.Recommendation(),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Column", "Looks like", "Severity", "Rows", "First row", "Recommendation"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writePieChart writes a mermaid pie chart of colliding versus unique rows.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s *model.Summary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Rows by digest uniqueness"),
		piechart.WithShowData(true),
	)

	chart.LabelAndIntValue("Colliding", uint64(s.CollidingRows))
	if unique := s.TotalRows - s.CollidingRows; unique > 0 {
		chart.LabelAndIntValue("Unique", uint64(unique))
	}

	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// WriteHistory outputs the stored runs as a table.
func (w *MarkdownWriter) WriteHistory(summaries []*model.Summary) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("csvhash History")
	md.PlainText("")

	if len(summaries) == 0 {
		md.PlainText("No runs recorded.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(summaries))
	for i, s := range summaries {
		clashes := "-"
		if s.CollisionChecked() {
			clashes = fmt.Sprintf("%d (%.2f%%)", s.GroupCount, s.Percentage)
		}
		rows[i] = []string{
			"`" + s.RunID + "`",
			s.StartedAt.Format("2006-01-02 15:04:05"),
			s.InputPath,
			s.Column,
			algorithmLabel(s),
			truncationLabel(s),
			strconv.Itoa(s.TotalRows),
			clashes,
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Run", "Date", "Input", "Column", "Algorithm", "Truncation", "Rows", "Clashes"},
		Rows:   rows,
	})
	md.PlainText("")

	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [csvhash](https://github.com/nao1215/csvhash)*")
}
