package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/csvhash/internal/model"
)

// JSONWriter outputs summaries in JSON format.
// This format is designed for tool integration and programmatic processing.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// jsonSummary adds the operator message to a summary.
type jsonSummary struct {
	*model.Summary

	// Message is the collision verdict, empty when detection did not run.
	Message string `json:"message,omitempty"`
}

// Write outputs the run summary in JSON format.
func (w *JSONWriter) Write(summary *model.Summary) (int, error) {
	out := jsonSummary{Summary: summary}
	if summary.CollisionChecked() && summary.Error == "" {
		out.Message = clashMessage(summary)
	}
	return w.writeJSON(out)
}

// WriteHistory outputs the stored runs as a JSON array.
func (w *JSONWriter) WriteHistory(summaries []*model.Summary) (int, error) {
	if summaries == nil {
		summaries = []*model.Summary{}
	}
	return w.writeJSON(summaries)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}
