package patch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/tantoon94/hotseat/internal/model"
)

func readLegacy(t *testing.T) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", "legacy_seat3.html"))
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func copyLegacy(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(readLegacy(t)), 0600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestApply(t *testing.T) {
	t.Parallel()

	t.Run("guard is checked against the original content", func(t *testing.T) {
		t.Parallel()
		set := Set{Name: "guarded", Rules: []Rule{
			{Name: "add", Pattern: regexp.MustCompile(`a`), Template: "a MARK", Literal: true, SkipIfContains: "MARK"},
			{Name: "also", Pattern: regexp.MustCompile(`b`), Template: "B", Literal: true, SkipIfContains: "MARK"},
		}}
		got, applied := Apply("a b", set)
		if got != "a MARK B" {
			t.Errorf("unexpected content %q", got)
		}
		if diff := cmp.Diff([]string{"add", "also"}, applied); diff != "" {
			t.Errorf("applied mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rules that match nothing are not reported", func(t *testing.T) {
		t.Parallel()
		set := Set{Rules: []Rule{{Name: "none", Pattern: regexp.MustCompile(`zzz`), Template: "y"}}}
		got, applied := Apply("abc", set)
		if got != "abc" || len(applied) != 0 {
			t.Errorf("expected no change, got %q %v", got, applied)
		}
	})

	t.Run("literal templates keep dollar signs", func(t *testing.T) {
		t.Parallel()
		set := Set{Rules: []Rule{{Name: "lit", Pattern: regexp.MustCompile(`x`), Template: "${1}", Literal: true}}}
		if got, _ := Apply("x", set); got != "${1}" {
			t.Errorf("expected literal insert, got %q", got)
		}
	})
}

func TestDurationSet(t *testing.T) {
	t.Parallel()

	out, applied := Apply(readLegacy(t), DurationSet())

	want := []string{RuleDurationCompute, RuleDurationDisplay, RuleSessionDurationDisplay}
	if diff := cmp.Diff(want, applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}
	for _, s := range []string{
		"const formattedDuration = `${hours.toString().padStart(2, '0')}",
		"document.getElementById(`seat3-duration`).textContent = formattedDuration;",
		"document.getElementById(`seat3-session-duration`).textContent = formattedDuration;",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("patched page missing %q", s)
		}
	}
	if strings.Contains(out, "sessionDurationMinutes") {
		t.Error("old minutes variable should be gone")
	}

	again, applied := Apply(out, DurationSet())
	if again != out || len(applied) != 0 {
		t.Errorf("second run changed the page: %v", applied)
	}

	if !DurationSet().DerivedOnly {
		t.Error("durations should leave the template page alone by default")
	}
	if DataSourceSet().DerivedOnly {
		t.Error("datasource should cover the template page by default")
	}
}

func TestDataSourceSet(t *testing.T) {
	t.Parallel()

	out, applied := Apply(readLegacy(t), DataSourceSet())

	want := []string{
		RuleRemoveDailyUsage,
		RuleDataSourceGlobals,
		RuleInitDataSources,
		RuleRemoveLegacyInit,
		RuleDataSourceFunctions,
		RuleDataSourceStatus,
	}
	if diff := cmp.Diff(want, applied); diff != "" {
		t.Errorf("applied mismatch (-want +got):\n%s", diff)
	}

	for _, s := range []string{
		"// Firestore data is now handled by LiveDataService",
		"let firestoreEnabled = false;\n        let liveDataService = null;\n        let dataSource = 'firestore';",
		"initializeDataSources();\n            setupCharts();",
		"async function initializeDataSources() {",
		"async function connectToMQTT() {\n// Firestore Initialization",
		"statusEl.textContent = `${dataSource.toUpperCase()}: ${message}`;",
	} {
		if !strings.Contains(out, s) {
			t.Errorf("patched page missing %q", s)
		}
	}
	for _, s := range []string{"FirestoreService.updateDailyUsage", "`MQTT: ${message}`", "initializeFirestore();\n"} {
		if strings.Contains(out, s) {
			t.Errorf("patched page still contains %q", s)
		}
	}

	again, applied := Apply(out, DataSourceSet())
	if again != out {
		t.Errorf("second run changed the page, applied %v", applied)
	}
	if len(applied) != 0 {
		t.Errorf("second run applied %v", applied)
	}
}

func TestPatchFile(t *testing.T) {
	t.Parallel()

	t.Run("changed file is rewritten", func(t *testing.T) {
		t.Parallel()
		path := copyLegacy(t, t.TempDir(), "seat3.html")

		res, err := PatchFile(path, DurationSet())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.Changed || len(res.Applied) != 3 {
			t.Errorf("unexpected result %+v", res)
		}
		if res.Artifact.Kind != model.ArtifactPatchedPage || res.Artifact.Seat != 3 {
			t.Errorf("unexpected artifact %+v", res.Artifact)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "formattedDuration") {
			t.Error("file was not rewritten")
		}

		second, err := PatchFile(path, DurationSet())
		if err != nil {
			t.Fatal(err)
		}
		if second.Changed {
			t.Error("second run should not change the file")
		}
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		_, err := PatchFile(filepath.Join(t.TempDir(), "seat9.html"), DurationSet())
		if !errors.Is(err, ErrFileNotFound) {
			t.Errorf("expected ErrFileNotFound, got %v", err)
		}
	})
}

func TestPatchFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	paths := []string{
		copyLegacy(t, dir, "seat2.html"),
		filepath.Join(dir, "seat3.html"),
		copyLegacy(t, dir, "seat4.html"),
	}

	results, err := PatchFiles(context.Background(), paths, DataSourceSet(), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if !results[0].Changed || !results[2].Changed {
		t.Error("existing files should be patched")
	}
	if !errors.Is(results[1].Err, ErrFileNotFound) {
		t.Errorf("expected missing file to be recorded, got %v", results[1].Err)
	}
}

func TestSeatFromPath(t *testing.T) {
	t.Parallel()

	tests := map[string]int{
		"seat4.html":         4,
		"/srv/x/seat12.html": 12,
		"analytics.html":     0,
	}
	for path, want := range tests {
		if got := seatFromPath(path); got != want {
			t.Errorf("seatFromPath(%q) = %d, want %d", path, got, want)
		}
	}
}
