// Package report renders run summaries, run history and storage estimates.
//
// This package contains writers for different output formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON for scripts and CI
//   - MarkdownWriter: Markdown with tables and Mermaid charts, for
//     pasting into issues or the exhibit's README
//
// Writers implement the Writer interface, so they can be used
// interchangeably and composed with MultiWriter.
package report
