package report

import (
	"encoding/json"
	"io"

	"github.com/tantoon94/hotseat/internal/estimate"
	"github.com/tantoon94/hotseat/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for CI jobs and scripts that consume the result
// of a build.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	// When false, output is compact (no extra whitespace).
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string

	// version is added to every document when not empty.
	version string
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
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// WithVersion stamps every document with the hotseat version.
func WithVersion(version string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.version = version
	}
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

// JSONDocument wraps every JSON output with metadata.
// Exactly one of Run, Runs and Estimate is set.
type JSONDocument struct {
	// Version is the hotseat version that produced the document.
	Version string `json:"version,omitempty"`

	// Status is "ok", "warnings" or "failed" for a run.
	Status string `json:"status,omitempty"`

	Run      *model.Run         `json:"run,omitempty"`
	Runs     []*model.Run       `json:"runs,omitempty"`
	Estimate *estimate.Estimate `json:"estimate,omitempty"`
}

// WriteRun outputs the run in JSON format.
func (w *JSONWriter) WriteRun(run *model.Run) (int, error) {
	return w.writeJSON(JSONDocument{
		Version: w.version,
		Status:  status(run),
		Run:     run,
	})
}

// WriteHistory outputs the runs in JSON format. An empty history is
// written as an empty array rather than omitted.
func (w *JSONWriter) WriteHistory(runs []*model.Run) (int, error) {
	if runs == nil {
		runs = []*model.Run{}
	}
	return w.writeJSON(struct {
		Version string       `json:"version,omitempty"`
		Runs    []*model.Run `json:"runs"`
	}{w.version, runs})
}

// WriteEstimate outputs the estimate in JSON format.
func (w *JSONWriter) WriteEstimate(e *estimate.Estimate) (int, error) {
	return w.writeJSON(JSONDocument{
		Version:  w.version,
		Estimate: e,
	})
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
