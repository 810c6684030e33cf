package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreOpenClose(t *testing.T) {
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	// Check that the file was created
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStoreExpandHomePath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	store, err := Open("~/nested/deep/test.db")
	if err != nil {
		t.Fatalf("Open() with ~ path failed: %v", err)
	}
	defer store.Close()

	// Verify nested directories were created under home
	if _, err := os.Stat(filepath.Join(home, "nested", "deep", "test.db")); os.IsNotExist(err) {
		t.Error("Database file was not created in nested directory")
	}
}

func TestRecordAndSessionViews(t *testing.T) {
	store := openTestStore(t)

	if _, err := store.RecordView("s1", "intro", 1500*time.Millisecond); err != nil {
		t.Fatalf("RecordView() failed: %v", err)
	}
	if _, err := store.RecordView("s1", "work", 3*time.Second); err != nil {
		t.Fatalf("RecordView() failed: %v", err)
	}
	if _, err := store.RecordView("s2", "intro", time.Second); err != nil {
		t.Fatalf("RecordView() failed: %v", err)
	}

	views, err := store.SessionViews("s1")
	if err != nil {
		t.Fatalf("SessionViews() failed: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("SessionViews() = %d entries, expected 2", len(views))
	}
	if views[0].SectionID != "intro" || views[1].SectionID != "work" {
		t.Errorf("SessionViews() order = %s, %s, expected intro, work", views[0].SectionID, views[1].SectionID)
	}
	if views[0].Dwell != 1500*time.Millisecond {
		t.Errorf("Dwell = %v, expected 1.5s", views[0].Dwell)
	}
	if views[0].CreatedAt.IsZero() {
		t.Error("CreatedAt was not parsed")
	}
}

func TestTopSections(t *testing.T) {
	store := openTestStore(t)

	store.RecordView("a", "intro", time.Second)
	store.RecordView("b", "intro", time.Second)
	store.RecordView("c", "intro", time.Second)
	store.RecordView("a", "work", 10*time.Second)
	store.RecordView("b", "work", 10*time.Second)
	store.RecordView("a", "contact", time.Second)

	stats, err := store.TopSections(2)
	if err != nil {
		t.Fatalf("TopSections() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("TopSections(2) = %d entries, expected 2", len(stats))
	}
	if stats[0].SectionID != "intro" || stats[0].Views != 3 {
		t.Errorf("stats[0] = %+v, expected intro with 3 views", stats[0])
	}
	if stats[1].SectionID != "work" || stats[1].TotalDwell != 20*time.Second {
		t.Errorf("stats[1] = %+v, expected work with 20s dwell", stats[1])
	}
}

func TestClearViews(t *testing.T) {
	store := openTestStore(t)
	store.RecordView("a", "intro", time.Second)

	if err := store.ClearViews(); err != nil {
		t.Fatalf("ClearViews() failed: %v", err)
	}
	stats, _ := store.TopSections(10)
	if len(stats) != 0 {
		t.Errorf("TopSections() after clear = %d entries, expected 0", len(stats))
	}
}

func TestSnapshots(t *testing.T) {
	store := openTestStore(t)

	for i, src := range []string{"builtin:rings", "builtin:aurora", "photo.png"} {
		_, err := store.SaveSnapshot(Snapshot{
			Source: src,
			Preset: "hero",
			Path:   filepath.Join("/tmp", src+".png"),
			Width:  100 + i,
			Height: 50,
		})
		if err != nil {
			t.Fatalf("SaveSnapshot() failed: %v", err)
		}
	}

	snaps, err := store.RecentSnapshots(2)
	if err != nil {
		t.Fatalf("RecentSnapshots() failed: %v", err)
	}
	if len(snaps) != 2 {
		t.Fatalf("RecentSnapshots(2) = %d entries, expected 2", len(snaps))
	}
	if snaps[0].Source != "photo.png" || snaps[1].Source != "builtin:aurora" {
		t.Errorf("RecentSnapshots() order = %s, %s, expected newest first", snaps[0].Source, snaps[1].Source)
	}

	got, err := store.SnapshotByID(snaps[1].ID)
	if err != nil {
		t.Fatalf("SnapshotByID() failed: %v", err)
	}
	if got == nil || got.Width != 101 || got.Preset != "hero" {
		t.Errorf("SnapshotByID() = %+v, expected aurora snapshot", got)
	}

	missing, err := store.SnapshotByID(9999)
	if err != nil || missing != nil {
		t.Errorf("SnapshotByID(9999) = %v, %v, expected nil, nil", missing, err)
	}
}
