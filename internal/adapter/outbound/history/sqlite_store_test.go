package history

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/json-agents/jsonagents-go/internal/service"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "history.db"), logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleReport(id string, valid bool, at time.Time) service.Report {
	return service.Report{
		ID:        id,
		File:      "manifest.json",
		Valid:     valid,
		Errors:    []string{"Schema error at 'agent': id is required"},
		Warnings:  []string{"No capabilities declared"},
		Duration:  42 * time.Millisecond,
		CreatedAt: at,
	}
}

func TestRecordAndRecent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	report := sampleReport("run-1", false, time.Now().UTC())
	if err := store.Record(ctx, report); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := store.Recent(ctx, 10)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}

	e := entries[0]
	if e.ID != "run-1" || e.File != "manifest.json" || e.Valid {
		t.Errorf("entry = %+v, want run-1/manifest.json/invalid", e)
	}
	if len(e.Errors) != 1 || len(e.Warnings) != 1 {
		t.Errorf("diagnostics = %v / %v, want one each", e.Errors, e.Warnings)
	}
	if e.Duration != 42*time.Millisecond {
		t.Errorf("duration = %v, want 42ms", e.Duration)
	}
}

func TestRecent_NewestFirst(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	base := time.Now().UTC()
	for i, id := range []string{"run-a", "run-b", "run-c"} {
		r := sampleReport(id, true, base.Add(time.Duration(i)*time.Second))
		if err := store.Record(ctx, r); err != nil {
			t.Fatalf("record %s: %v", id, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].ID != "run-c" || entries[1].ID != "run-b" {
		t.Errorf("order = %s, %s; want run-c, run-b", entries[0].ID, entries[1].ID)
	}
}

func TestRecent_EmptyStore(t *testing.T) {
	store := newTestStore(t)

	entries, err := store.Recent(context.Background(), 5)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("got %d entries, want 0", len(entries))
	}
}

func TestRecord_NilDiagnostics(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	r := service.Report{ID: "run-nil", File: "m.json", Valid: true, CreatedAt: time.Now().UTC()}
	if err := store.Record(ctx, r); err != nil {
		t.Fatalf("record: %v", err)
	}

	entries, err := store.Recent(ctx, 1)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	if len(entries[0].Errors) != 0 || len(entries[0].Warnings) != 0 {
		t.Errorf("diagnostics = %v / %v, want empty", entries[0].Errors, entries[0].Warnings)
	}
}
