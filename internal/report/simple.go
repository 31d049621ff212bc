package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/tantoon94/hotseat/internal/estimate"
	"github.com/tantoon94/hotseat/internal/model"
)

const ruleWidth = 70

// SimpleWriter outputs human-readable text reports for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds digests and full paths.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// WriteRun outputs the run summary.
func (w *SimpleWriter) WriteRun(run *model.Run) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "HOTSEAT "+strings.ToUpper(run.Command))

	sb.WriteString(fmt.Sprintf("Run ID:     %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Directory:  %s\n", run.Dir))
	sb.WriteString(fmt.Sprintf("Started:    %s\n", run.StartedAt.Local().Format(timeFormat)))
	sb.WriteString(fmt.Sprintf("Duration:   %s\n", roundDuration(run.Duration())))
	if run.Failed() {
		sb.WriteString(fmt.Sprintf("Status:     ERROR - %s\n", run.Error))
	} else {
		sb.WriteString("Status:     Complete\n")
	}
	sb.WriteString("\n")

	w.writeArtifacts(&sb, run)
	w.writeWarnings(&sb, run)

	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeArtifacts(sb *strings.Builder, run *model.Run) {
	w.writeSection(sb, "ARTIFACTS")

	if len(run.Artifacts) == 0 {
		sb.WriteString("  No files written\n\n")
		return
	}

	for _, a := range run.Artifacts {
		path := filepath.Base(a.Path)
		if w.verbose {
			path = a.Path
		}
		sb.WriteString(fmt.Sprintf("  [%-9s] %-13s %-34s %12s\n", a.State(), a.Kind, path, w.bytes(a.Bytes)))
		if w.verbose {
			sb.WriteString(fmt.Sprintf("              sha256 %s\n", a.SHA256))
		}
	}
	sb.WriteString("\n")

	counts := run.CountByKind()
	kinds := make([]model.ArtifactKind, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	for _, k := range kinds {
		sb.WriteString(fmt.Sprintf("  %-13s %d\n", k, counts[k]))
	}
	sb.WriteString(fmt.Sprintf("  %-13s %d of %d\n\n", "new/changed", run.ChangedCount(), len(run.Artifacts)))
}

func (w *SimpleWriter) writeWarnings(sb *strings.Builder, run *model.Run) {
	if len(run.Warnings) == 0 {
		return
	}
	w.writeSection(sb, "WARNINGS")
	for _, warning := range run.Warnings {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", warning))
	}
	sb.WriteString("\n")
}

// WriteHistory outputs one line per run.
func (w *SimpleWriter) WriteHistory(runs []*model.Run) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "HOTSEAT HISTORY")

	if len(runs) == 0 {
		sb.WriteString("No runs recorded\n")
	} else {
		sb.WriteString(fmt.Sprintf("%-8s  %-10s  %-23s  %5s  %7s  %s\n",
			"RUN", "COMMAND", "STARTED", "FILES", "CHANGED", "STATUS"))
		for _, run := range runs {
			sb.WriteString(fmt.Sprintf("%-8s  %-10s  %-23s  %5d  %7d  %s\n",
				shortID(run.ID),
				run.Command,
				run.StartedAt.Local().Format(timeFormat),
				len(run.Artifacts),
				run.ChangedCount(),
				status(run),
			))
		}
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

// WriteEstimate outputs the storage estimate.
func (w *SimpleWriter) WriteEstimate(e *estimate.Estimate) (int, error) {
	var sb strings.Builder

	w.writeBanner(&sb, "FIRESTORE STORAGE ESTIMATE")

	w.writeSection(&sb, "CURRENT STRUCTURE")
	w.writeBreakdown(&sb, e.Current,
		fmt.Sprintf("Daily counts (%d days)", e.Params.DailyCountsPerYear),
		fmt.Sprintf("Session history (%d sessions)", e.Params.SessionHistoryLimit))

	w.writeSection(&sb, "GROWTH OVER TIME")
	for _, y := range e.Growth {
		sb.WriteString(fmt.Sprintf("  %d year%-2s %10.2f MB\n", y.Years, plural(y.Years)+":", y.MiB()))
	}
	sb.WriteString("\n")

	w.writeSection(&sb, "OPTIMIZED STRUCTURE")
	sb.WriteString(fmt.Sprintf("  1. Keep only the last %d days of daily counts\n", e.Params.OptimizedDays))
	sb.WriteString(fmt.Sprintf("  2. Keep only the last %d sessions in history\n", e.Params.OptimizedSessions))
	sb.WriteString("  3. Archive old data to a separate collection\n\n")
	w.writeBreakdown(&sb, e.Optimized,
		fmt.Sprintf("Daily counts (%d days)", e.Params.OptimizedDays),
		fmt.Sprintf("Session history (%d sessions)", e.Params.OptimizedSessions))

	w.writeSection(&sb, "FREE TIER")
	sb.WriteString("  Free tier: 1GB storage, 50K reads/day, 20K writes/day\n")
	sb.WriteString(fmt.Sprintf("  Current usage:   %.2f MB (%.2f%% of free tier)\n", e.Current.TotalMiB(), e.Current.FreeTierPercent()))
	sb.WriteString(fmt.Sprintf("  Optimized usage: %.2f MB (%.2f%% of free tier)\n\n", e.Optimized.TotalMiB(), e.Optimized.FreeTierPercent()))
	if e.ExceedsFreeTier {
		sb.WriteString("  [!] WARNING: the current structure exceeds the free tier\n")
	} else {
		sb.WriteString("  [+] The current structure fits within the free tier\n")
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeBreakdown(sb *strings.Builder, b estimate.Breakdown, countsLabel, historyLabel string) {
	sb.WriteString(fmt.Sprintf("  %-32s %12s\n", countsLabel+":", w.kib(b.DailyCounts)))
	sb.WriteString(fmt.Sprintf("  %-32s %12s\n", historyLabel+":", w.kib(b.SessionHistory)))
	sb.WriteString(fmt.Sprintf("  %-32s %12s\n", "Current sessions:", w.kib(b.CurrentSessions)))
	sb.WriteString(fmt.Sprintf("  %-32s %9.2f MB\n\n", "Total:", b.TotalMiB()))
}

func (w *SimpleWriter) writeBanner(sb *strings.Builder, title string) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	pad := max((ruleWidth-len(title))/2, 0)
	sb.WriteString(strings.Repeat(" ", pad))
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
}

func (w *SimpleWriter) writeSection(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n\n")
}
