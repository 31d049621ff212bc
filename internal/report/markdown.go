package report

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/tantoon94/hotseat/internal/estimate"
	"github.com/tantoon94/hotseat/internal/model"
)

// MarkdownWriter outputs reports in Markdown format, suitable for pasting
// into a pull request or the exhibit's build notes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// WriteRun outputs the run in Markdown format.
func (w *MarkdownWriter) WriteRun(run *model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Hotseat " + run.Command)
	md.PlainText("")

	rows := [][]string{
		{"Run ID", "`" + run.ID + "`"},
		{"Directory", "`" + run.Dir + "`"},
		{"Started", run.StartedAt.Local().Format(timeFormat)},
		{"Duration", roundDuration(run.Duration()).String()},
		{"Status", w.statusText(run)},
	}
	if len(run.Steps) > 0 {
		rows = append(rows, []string{"Steps", fmt.Sprint(run.Steps)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")

	w.writeArtifacts(md, run)
	w.writeWarnings(md, run)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) statusText(run *model.Run) string {
	switch status(run) {
	case "failed":
		return "❌ Error - " + run.Error
	case "warnings":
		return "⚠️ Complete with warnings"
	default:
		return "✅ Complete"
	}
}

func (w *MarkdownWriter) writeArtifacts(md *markdown.Markdown, run *model.Run) {
	md.H2("Artifacts")
	md.PlainText("")

	if len(run.Artifacts) == 0 {
		md.PlainText("No files written.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(run.Artifacts))
	for i, a := range run.Artifacts {
		rows[i] = []string{
			"`" + filepath.Base(a.Path) + "`",
			a.Kind.String(),
			a.State(),
			w.bytes(a.Bytes),
			"`" + shortID(a.SHA256) + "`",
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"File", "Kind", "State", "Size", "SHA-256"},
		Rows:   rows,
	})
	md.PlainText("")

	counts := run.CountByKind()
	if len(counts) > 1 {
		kinds := make([]model.ArtifactKind, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Artifacts by kind"),
			piechart.WithShowData(true),
		)
		for _, k := range kinds {
			chart.LabelAndIntValue(k.String(), uint64(counts[k])) //nolint:gosec // counts are never negative
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if changed := run.ChangedCount(); changed == 0 {
		md.Tip("Every artifact is identical to the previous generation.")
	} else {
		md.Notef("%d of %d artifact(s) are new or changed.", changed, len(run.Artifacts))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeWarnings(md *markdown.Markdown, run *model.Run) {
	if run.Failed() {
		md.Cautionf("The run failed: %s", run.Error)
		md.PlainText("")
	}
	if len(run.Warnings) == 0 {
		return
	}
	md.H2("Warnings")
	md.PlainText("")
	md.Warningf("%d warning(s) were recorded.", len(run.Warnings))
	md.PlainText("")
	md.BulletList(run.Warnings...)
	md.PlainText("")
}

// WriteHistory outputs the runs as a table.
func (w *MarkdownWriter) WriteHistory(runs []*model.Run) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Hotseat history")
	md.PlainText("")

	if len(runs) == 0 {
		md.PlainText("No runs recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(runs))
		for i, run := range runs {
			rows[i] = []string{
				"`" + shortID(run.ID) + "`",
				run.Command,
				run.StartedAt.Local().Format(timeFormat),
				strconv.Itoa(len(run.Artifacts)),
				strconv.Itoa(run.ChangedCount()),
				status(run),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Run", "Command", "Started", "Files", "Changed", "Status"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// WriteEstimate outputs the storage estimate in Markdown format.
func (w *MarkdownWriter) WriteEstimate(e *estimate.Estimate) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Firestore storage estimate")
	md.PlainText("")

	p := e.Params
	md.Table(markdown.TableSet{
		Header: []string{"Part", "Current", "Optimized"},
		Rows: [][]string{
			{"Daily counts", w.kib(e.Current.DailyCounts), w.kib(e.Optimized.DailyCounts)},
			{"Session history", w.kib(e.Current.SessionHistory), w.kib(e.Optimized.SessionHistory)},
			{"Current sessions", w.kib(e.Current.CurrentSessions), w.kib(e.Optimized.CurrentSessions)},
			{"**Total**", fmt.Sprintf("**%.2f MB**", e.Current.TotalMiB()), fmt.Sprintf("**%.2f MB**", e.Optimized.TotalMiB())},
			{"Free tier", fmt.Sprintf("%.2f%%", e.Current.FreeTierPercent()), fmt.Sprintf("%.2f%%", e.Optimized.FreeTierPercent())},
		},
	})
	md.PlainText("")

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Current storage by part (bytes)"),
		piechart.WithShowData(true),
	)
	chart.LabelAndIntValue("Daily counts", uint64(e.Current.DailyCounts))         //nolint:gosec // sizes are positive
	chart.LabelAndIntValue("Session history", uint64(e.Current.SessionHistory))   //nolint:gosec // sizes are positive
	chart.LabelAndIntValue("Current sessions", uint64(e.Current.CurrentSessions)) //nolint:gosec // sizes are positive
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	md.H2("Growth")
	md.PlainText("")
	growth := make([][]string, len(e.Growth))
	for i, y := range e.Growth {
		growth[i] = []string{strconv.Itoa(y.Years), fmt.Sprintf("%.2f MB", y.MiB())}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Years", "Storage"},
		Rows:   growth,
	})
	md.PlainText("")

	md.H2("Optimization")
	md.PlainText("")
	md.OrderedList(
		fmt.Sprintf("Keep only the last %d days of daily counts", p.OptimizedDays),
		fmt.Sprintf("Keep only the last %d sessions in history", p.OptimizedSessions),
		"Archive old data to a separate collection",
	)
	md.PlainText("")

	if e.ExceedsFreeTier {
		md.Cautionf("The current structure uses %.2f MB and exceeds the 1GB free tier.", e.Current.TotalMiB())
	} else {
		md.Tip("The current structure fits within the 1GB free tier.")
	}
	md.PlainText("")

	w.writeFooter(md)
	return len(md.String()), md.Build()
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by hotseat*")
}
