package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/tantoon94/hotseat/internal/estimate"
	"github.com/tantoon94/hotseat/internal/model"
)

// createTestRun creates a finished build run with sample artifacts.
func createTestRun() *model.Run {
	run := model.NewRun("build", "/srv/exhibit")
	page := model.NewArtifact(model.ArtifactSeatPage, "/srv/exhibit/seat2.html", 2, []byte("<html>seat2</html>"))
	qr := model.NewArtifact(model.ArtifactQRCode, "/srv/exhibit/qr_codes/seat_2_qr.png", 2, []byte("png"))
	qr.PreviousSHA256 = qr.SHA256
	pdf := model.NewArtifact(model.ArtifactPlatePDF, "/srv/exhibit/seat_qr_codes_laser_cut.pdf", 0, bytes.Repeat([]byte("x"), 91250))
	pdf.PreviousSHA256 = "0000"
	run.AddArtifacts(page, qr, pdf)
	run.Warn("QR code not found for seat 4")
	run.Finish()
	return run
}

func createTestEstimate(t *testing.T) *estimate.Estimate {
	t.Helper()
	e, err := estimate.Calculate(estimate.DefaultParams())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return e
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run header and artifacts", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewSimpleWriter(&buf)
		run := createTestRun()

		if _, err := w.WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"HOTSEAT BUILD",
			run.ID,
			"ARTIFACTS",
			"[new      ] seat_page",
			"[unchanged] qr_code",
			"[changed  ] plate_pdf",
			"91,250 B",
			"new/changed   2 of 3",
			"Status:     Complete",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("writes warnings", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteRun(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "WARNINGS") || !strings.Contains(output, "[!] QR code not found for seat 4") {
			t.Errorf("expected warnings section, got:\n%s", output)
		}
	})

	t.Run("verbose output includes digests and full paths", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := createTestRun()
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "sha256 "+run.Artifacts[0].SHA256) {
			t.Error("expected digest in verbose output")
		}
		if !strings.Contains(output, "/srv/exhibit/seat2.html") {
			t.Error("expected full path in verbose output")
		}
	})

	t.Run("failed run shows error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := model.NewRun("pages", ".")
		run.Fail(errors.New("template not found"))
		run.Finish()
		if _, err := NewSimpleWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "ERROR - template not found") {
			t.Errorf("expected error status, got:\n%s", output)
		}
		if !strings.Contains(output, "No files written") {
			t.Error("expected empty artifact notice")
		}
	})

	t.Run("writes history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		run := createTestRun()
		if _, err := NewSimpleWriter(&buf).WriteHistory([]*model.Run{run}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, run.ID[:8]) {
			t.Error("expected short run id")
		}
		if !strings.Contains(output, "warnings") {
			t.Error("expected warnings status")
		}
	})

	t.Run("writes empty history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "No runs recorded") {
			t.Error("expected empty history notice")
		}
	})

	t.Run("writes estimate", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteEstimate(createTestEstimate(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"CURRENT STRUCTURE",
			"Daily counts (365 days)",
			"89.11 KB",
			"Keep only the last 30 days of daily counts",
			"fits within the free tier",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid JSON for a run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithVersion("v1.2.3"))
		run := createTestRun()

		if _, err := w.WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var doc JSONDocument
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Version != "v1.2.3" {
			t.Errorf("expected version v1.2.3, got %q", doc.Version)
		}
		if doc.Status != "warnings" {
			t.Errorf("expected warnings status, got %q", doc.Status)
		}
		if doc.Run == nil || len(doc.Run.Artifacts) != 3 {
			t.Fatalf("expected run with 3 artifacts, got %+v", doc.Run)
		}
		if doc.Run.Artifacts[2].Kind != model.ArtifactPlatePDF {
			t.Errorf("expected plate_pdf kind, got %v", doc.Run.Artifacts[2].Kind)
		}
	})

	t.Run("compact output is a single line", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteRun(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Count(buf.String(), "\n") != 1 {
			t.Error("expected compact JSON followed by a single newline")
		}
	})

	t.Run("pretty print indents", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).WriteRun(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"") {
			t.Error("expected indented output")
		}
	})

	t.Run("empty history is an empty array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), `"runs":[]`) {
			t.Errorf("expected empty runs array, got %s", buf.String())
		}
	})

	t.Run("writes estimate", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteEstimate(createTestEstimate(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		var doc JSONDocument
		if err := json.Unmarshal(buf.Bytes(), &doc); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if doc.Estimate == nil || doc.Estimate.Current.DailyCounts != 91250 {
			t.Errorf("unexpected estimate %+v", doc.Estimate)
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes run", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(createTestRun()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{
			"# Hotseat build",
			"## Artifacts",
			"`seat2.html`",
			"```mermaid",
			"[!NOTE]",
			"## Warnings",
			"[!WARNING]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("unchanged run gets a tip", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("qr", ".")
		a := model.NewArtifact(model.ArtifactQRCode, "qr_codes/seat_1_qr.png", 1, []byte("png"))
		a.PreviousSHA256 = a.SHA256
		run.AddArtifacts(a)
		run.Finish()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!TIP]") {
			t.Error("expected tip alert")
		}
		if strings.Contains(buf.String(), "```mermaid") {
			t.Error("single kind should not render a chart")
		}
	})

	t.Run("failed run gets a caution", func(t *testing.T) {
		t.Parallel()

		run := model.NewRun("plates pdf", ".")
		run.Fail(errors.New("no plates"))
		run.Finish()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteRun(run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "[!CAUTION]") {
			t.Error("expected caution alert")
		}
	})

	t.Run("writes estimate", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteEstimate(createTestEstimate(t)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		for _, want := range []string{"# Firestore storage estimate", "## Growth", "Daily counts", "[!TIP]"} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	w := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))

	n, err := w.WriteRun(createTestRun())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
	if text.Len() == 0 || js.Len() == 0 {
		t.Error("expected both writers to receive output")
	}
}
