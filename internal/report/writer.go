package report

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/tantoon94/hotseat/internal/estimate"
	"github.com/tantoon94/hotseat/internal/model"
)

// Writer defines the interface for report output.
type Writer interface {
	// WriteRun outputs the summary of a single run.
	WriteRun(run *model.Run) (int, error)

	// WriteHistory outputs a list of past runs, newest first.
	WriteHistory(runs []*model.Run) (int, error)

	// WriteEstimate outputs a storage estimate.
	WriteEstimate(e *estimate.Estimate) (int, error)
}

// MultiWriter writes to multiple Writers in turn and stops at the first
// error.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// WriteRun outputs the run to all Writers.
func (m *MultiWriter) WriteRun(run *model.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteRun(run) })
}

// WriteHistory outputs the runs to all Writers.
func (m *MultiWriter) WriteHistory(runs []*model.Run) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteHistory(runs) })
}

// WriteEstimate outputs the estimate to all Writers.
func (m *MultiWriter) WriteEstimate(e *estimate.Estimate) (int, error) {
	return m.each(func(w Writer) (int, error) { return w.WriteEstimate(e) })
}

func (m *MultiWriter) each(write func(Writer) (int, error)) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := write(w)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output  io.Writer
	printer *message.Printer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{
		output:  output,
		printer: message.NewPrinter(language.English),
	}
}

// bytes formats n with thousands separators, e.g. "91,250 B".
func (b baseWriter) bytes(n int64) string {
	return b.printer.Sprintf("%d B", n)
}

// kib formats n in kibibytes with two decimals.
func (b baseWriter) kib(n int64) string {
	return b.printer.Sprintf("%.2f KB", float64(n)/1024)
}

// timeFormat is used for all timestamps in text reports.
const timeFormat = "2006-01-02 15:04:05 MST"

// shortID returns the first block of a run ID.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// status returns a one-word run status.
func status(run *model.Run) string {
	switch {
	case run.Failed():
		return "failed"
	case len(run.Warnings) > 0:
		return "warnings"
	default:
		return "ok"
	}
}

// roundDuration trims durations to milliseconds for display.
func roundDuration(d time.Duration) time.Duration {
	return d.Round(time.Millisecond)
}

// plural returns "s" unless n is 1.
func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
