package history

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/czteam/czdownloader/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "data", FileName))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func finishedItem(id string, status model.ItemStatus, finished time.Time) model.VideoItem {
	item := model.NewVideoItem(id, "https://youtu.be/"+id, model.Quality720p, "YouTube")
	item.Title = "Video " + id
	item.Status = status
	item.UpdatedAt = finished
	if status == model.StatusCompleted {
		item.Filename = id + ".mp4"
		item.Progress = 100
	} else {
		item.ErrorKind = "access_denied"
		item.ErrorMessage = "Access denied"
	}
	return *item
}

func TestOpen_CreatesDatabase(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", FileName)

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	store.Close()

	if _, err := os.Stat(path); err != nil {
		t.Errorf("database file not created: %v", err)
	}

	// migrations are idempotent
	store, err = Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	store.Close()
}

func TestRecordAndRecent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	base := time.Now().Truncate(time.Second)

	items := []model.VideoItem{
		finishedItem("a", model.StatusCompleted, base.Add(-2*time.Minute)),
		finishedItem("b", model.StatusError, base.Add(-time.Minute)),
		finishedItem("c", model.StatusCompleted, base),
	}
	for _, item := range items {
		if err := store.RecordOutcome(ctx, item); err != nil {
			t.Fatalf("RecordOutcome(%s) failed: %v", item.ID, err)
		}
	}

	entries, err := store.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	if entries[0].ItemID != "c" || entries[1].ItemID != "b" {
		t.Errorf("expected newest first, got %s, %s", entries[0].ItemID, entries[1].ItemID)
	}

	failed := entries[1]
	if failed.Status != model.StatusError || failed.ErrorKind != "access_denied" || failed.ErrorMessage != "Access denied" {
		t.Errorf("unexpected failed entry %+v", failed)
	}
	if failed.Filename != "" {
		t.Errorf("expected empty filename, got %q", failed.Filename)
	}
	if !failed.FinishedAt.Equal(base.Add(-time.Minute)) {
		t.Errorf("unexpected finish time %s", failed.FinishedAt)
	}

	done := entries[0]
	if done.Filename != "c.mp4" || done.Quality != model.Quality720p || done.Platform != "YouTube" || done.Title != "Video c" {
		t.Errorf("unexpected completed entry %+v", done)
	}
}

func TestRecordOutcome_RejectsUnfinished(t *testing.T) {
	store := openTestStore(t)

	item := model.NewVideoItem("x", "https://youtu.be/x", model.QualityBest, "YouTube")
	err := store.RecordOutcome(context.Background(), *item)
	if !errors.Is(err, ErrNotFinished) {
		t.Errorf("expected ErrNotFinished, got %v", err)
	}
}

func TestCountByStatusAndClear(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for i, status := range []model.ItemStatus{model.StatusCompleted, model.StatusCompleted, model.StatusError} {
		item := finishedItem(string(rune('a'+i)), status, now)
		if err := store.RecordOutcome(ctx, item); err != nil {
			t.Fatalf("RecordOutcome failed: %v", err)
		}
	}

	counts, err := store.CountByStatus(ctx)
	if err != nil {
		t.Fatalf("CountByStatus failed: %v", err)
	}
	if counts[model.StatusCompleted] != 2 || counts[model.StatusError] != 1 {
		t.Errorf("unexpected counts %v", counts)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	entries, err := store.Recent(ctx, 0)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected empty history, got %d entries", len(entries))
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Skipf("no config directory: %v", err)
	}
	if filepath.Base(path) != FileName {
		t.Errorf("expected %s, got %s", FileName, path)
	}
}
