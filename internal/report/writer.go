package report

import (
	"errors"
	"fmt"
	"io"

	"github.com/nao1215/csvhash/internal/model"
)

// Writer defines the interface for report output.
// Implementations write run summaries in various formats.
type Writer interface {
	// Write outputs the summary of a single run.
	// Returns the number of bytes written and any error encountered.
	Write(summary *model.Summary) (int, error)

	// WriteHistory outputs a list of past runs, newest first.
	WriteHistory(summaries []*model.Summary) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
//
// Design decision: We implement this as a separate type rather than
// using io.MultiWriter because our Writer interface is different
// from io.Writer - we write summaries, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the summary to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(summary *model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(summary)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the history to all configured Writers.
func (m *MultiWriter) WriteHistory(summaries []*model.Summary) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(summaries)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// ErrUnknownFormat is returned by New for an unrecognized format name.
var ErrUnknownFormat = errors.New("unknown report format")

// Format names accepted by New.
const (
	FormatText     = "text"
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
)

// New returns the Writer for format writing to output.
// An empty format selects text.
func New(format string, output io.Writer) (Writer, error) {
	switch format {
	case "", FormatText:
		return NewSimpleWriter(output), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint()), nil
	case FormatMarkdown:
		return NewMarkdownWriter(output), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// clashMessage is the one-line collision verdict shared by the writers.
// The count is the number of distinct truncated digests shared by more
// than one row; the percentage is the share of rows involved.
func clashMessage(s *model.Summary) string {
	if s.HasCollisions() {
		return fmt.Sprintf("Warning: %d hash clashes found (%.2f%%).", s.GroupCount, s.Percentage)
	}
	return "No hash clashes found."
}
