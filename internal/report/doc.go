// Package report renders run summaries.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for documentation and review
//
// Writers only ever see model.Summary, which carries digests, counts and
// row positions but no source values. Raw identifiers appear solely in
// the clash log written by the pipeline.
package report
