package database

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/tantoon94/hotseat/internal/model"
)

// setupTestDB creates a temporary database for testing.
func setupTestDB(t *testing.T) *HistoryDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return db
}

// newRun creates a finished run writing one artifact per content under dir.
func newRun(command, dir string, contents map[string]string) *model.Run {
	run := model.NewRun(command, dir)
	for _, name := range []string{"seat2.html", "seat3.html", "seat4.html"} {
		content, ok := contents[name]
		if !ok {
			continue
		}
		run.AddArtifacts(model.NewArtifact(model.ArtifactSeatPage, filepath.Join(dir, name), 0, []byte(content)))
	}
	run.Finish()
	return run
}

// TestOpen tests database opening and creation.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database in new directory", func(t *testing.T) {
		t.Parallel()

		dbDir := filepath.Join(t.TempDir(), "newdir", "subdir")
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if _, err := os.Stat(filepath.Join(dbDir, DBFileName)); os.IsNotExist(err) {
			t.Error("database file was not created")
		}
		if db.Path() != filepath.Join(dbDir, DBFileName) {
			t.Errorf("unexpected path %q", db.Path())
		}
	})

	t.Run("CreateIfNotExists=false returns error when database does not exist", func(t *testing.T) {
		t.Parallel()

		_, err := Open(filepath.Join(t.TempDir(), "missing"), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})

	t.Run("CreateIfNotExists=false opens existing database", func(t *testing.T) {
		t.Parallel()

		dbDir := t.TempDir()
		db, err := Open(dbDir, DefaultOptions())
		if err != nil {
			t.Fatalf("failed to create database: %v", err)
		}
		_ = db.Close()

		db, err = Open(dbDir, Options{CreateIfNotExists: false, EnableWAL: true})
		if err != nil {
			t.Fatalf("failed to reopen database: %v", err)
		}
		_ = db.Close()
	})
}

func TestDefaultOptions(t *testing.T) {
	t.Parallel()

	want := Options{CreateIfNotExists: true, EnableWAL: true}
	if diff := cmp.Diff(want, DefaultOptions()); diff != "" {
		t.Errorf("options mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRun(t *testing.T) {
	t.Parallel()

	t.Run("first generation is new", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		run := newRun("pages", t.TempDir(), map[string]string{"seat2.html": "a", "seat3.html": "b"})

		if err := db.RecordRun(ctx, run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, a := range run.Artifacts {
			if !a.IsNew() {
				t.Errorf("expected %s to be new, got %s", a.Path, a.State())
			}
		}
	})

	t.Run("regeneration compares with the last digest", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		dir := t.TempDir()

		first := newRun("pages", dir, map[string]string{"seat2.html": "a", "seat3.html": "b"})
		if err := db.RecordRun(ctx, first); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		second := newRun("pages", dir, map[string]string{"seat2.html": "a", "seat3.html": "changed", "seat4.html": "c"})
		if err := db.RecordRun(ctx, second); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		got := make([]string, 0, len(second.Artifacts))
		for _, a := range second.Artifacts {
			got = append(got, a.State())
		}
		want := []string{"unchanged", "changed", "new"}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("states mismatch (-want +got):\n%s", diff)
		}
		if second.ChangedCount() != 2 {
			t.Errorf("expected 2 changed artifacts, got %d", second.ChangedCount())
		}
	})

	t.Run("duplicate run id is rejected", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		run := newRun("qr", t.TempDir(), nil)
		if err := db.RecordRun(ctx, run); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if err := db.RecordRun(ctx, run); err == nil {
			t.Error("expected error for duplicate run id")
		}
	})
}

func TestListRuns(t *testing.T) {
	t.Parallel()

	t.Run("empty database returns empty list", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		runs, err := db.ListRuns(context.Background(), 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 0 {
			t.Errorf("expected no runs, got %d", len(runs))
		}
	})

	t.Run("returns newest first with artifacts", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		dir := t.TempDir()

		first := newRun("pages", dir, map[string]string{"seat2.html": "a"})
		first.Warn("seat1 id left in seat2.html")
		second := newRun("build", dir, map[string]string{"seat2.html": "a", "seat3.html": "b"})
		second.Steps = []string{"pages", "qr"}
		second.Fail(errors.New("no plates"))
		for _, run := range []*model.Run{first, second} {
			if err := db.RecordRun(ctx, run); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}

		runs, err := db.ListRuns(ctx, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}

		got := runs[0]
		if got.ID != second.ID || got.Command != "build" {
			t.Errorf("expected newest run first, got %s %s", got.ID, got.Command)
		}
		if diff := cmp.Diff(second.Artifacts, got.Artifacts); diff != "" {
			t.Errorf("artifacts mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"pages", "qr"}, got.Steps); diff != "" {
			t.Errorf("steps mismatch (-want +got):\n%s", diff)
		}
		if got.Error != "no plates" {
			t.Errorf("expected error to round trip, got %q", got.Error)
		}
		if !got.StartedAt.Equal(second.StartedAt) {
			t.Errorf("expected started_at %v, got %v", second.StartedAt, got.StartedAt)
		}
		if diff := cmp.Diff([]string{"seat1 id left in seat2.html"}, runs[1].Warnings); diff != "" {
			t.Errorf("warnings mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("limit caps the result", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()
		for range 3 {
			if err := db.RecordRun(ctx, newRun("qr", t.TempDir(), nil)); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		}
		runs, err := db.ListRuns(ctx, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(runs) != 2 {
			t.Errorf("expected 2 runs, got %d", len(runs))
		}
	})
}

func TestGetRun(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	run := newRun("pages", t.TempDir(), map[string]string{"seat2.html": "a"})
	if err := db.RecordRun(ctx, run); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("finds run by prefix", func(t *testing.T) {
		got, err := db.GetRun(ctx, run.ID[:8])
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.ID != run.ID || len(got.Artifacts) != 1 {
			t.Errorf("unexpected run %+v", got)
		}
	})

	t.Run("unknown prefix returns ErrRunNotFound", func(t *testing.T) {
		_, err := db.GetRun(ctx, "zzzzzzzz")
		if !errors.Is(err, ErrRunNotFound) {
			t.Errorf("expected ErrRunNotFound, got %v", err)
		}
	})

	t.Run("prefix is matched literally", func(t *testing.T) {
		prefixes := []string{"%", "_", run.ID[:7] + "_"}
		if upper := strings.ToUpper(run.ID); upper != run.ID {
			prefixes = append(prefixes, upper)
		}
		for _, prefix := range prefixes {
			if _, err := db.GetRun(ctx, prefix); !errors.Is(err, ErrRunNotFound) {
				t.Errorf("GetRun(%q): expected ErrRunNotFound, got %v", prefix, err)
			}
		}
	})

	t.Run("empty prefix with several runs is ambiguous", func(t *testing.T) {
		if err := db.RecordRun(ctx, newRun("qr", t.TempDir(), nil)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		_, err := db.GetRun(ctx, "")
		if !errors.Is(err, ErrAmbiguousRun) {
			t.Errorf("expected ErrAmbiguousRun, got %v", err)
		}
	})
}

func TestArtifactHistory(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	for _, content := range []string{"v1", "v2", "v2"} {
		if err := db.RecordRun(ctx, newRun("pages", dir, map[string]string{"seat2.html": content})); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	history, err := db.ArtifactHistory(ctx, filepath.Join(dir, "seat2.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	got := make([]string, 0, len(history))
	for _, a := range history {
		got = append(got, a.State())
	}
	want := []string{"unchanged", "changed", "new"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("states mismatch (-want +got):\n%s", diff)
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	ctx := context.Background()
	dir := t.TempDir()

	var last *model.Run
	for range 4 {
		last = newRun("pages", dir, map[string]string{"seat2.html": "a"})
		if err := db.RecordRun(ctx, last); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	n, err := db.Prune(ctx, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 pruned runs, got %d", n)
	}

	runs, err := db.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != last.ID {
		t.Errorf("expected only the newest run to remain, got %d runs", len(runs))
	}

	history, err := db.ArtifactHistory(ctx, filepath.Join(dir, "seat2.html"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(history) != 1 {
		t.Errorf("expected artifacts of pruned runs to be removed, got %d", len(history))
	}
}

func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	want := time.Date(2026, 3, 1, 12, 30, 0, 500, time.UTC)
	if got := parseTimestamp(formatTime(want)); !got.Equal(want) {
		t.Errorf("expected %v, got %v", want, got)
	}
	if got := parseTimestamp(""); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
	if got := parseTimestamp("not a time"); !got.IsZero() {
		t.Errorf("expected zero time, got %v", got)
	}
}
