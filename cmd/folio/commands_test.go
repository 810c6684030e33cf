package main

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// withFlags points the global flags at a scratch directory.
func withFlags(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	saved := []string{flagDBPath, flagLogFile, flagOutput, flagPointer}
	savedPlain := flagPlain
	t.Cleanup(func() {
		flagDBPath, flagLogFile, flagOutput, flagPointer = saved[0], saved[1], saved[2], saved[3]
		flagPlain = savedPlain
	})
	flagDBPath = filepath.Join(dir, "folio.db")
	flagLogFile = filepath.Join(dir, "folio.log")
	flagPointer = ""
	return dir
}

func TestViewImageReturnsLoadError(t *testing.T) {
	dir := withFlags(t)

	err := viewImage(config.Default(), filepath.Join(dir, "missing.png"))
	if !errors.Is(err, pixelgrid.ErrLoad) {
		t.Fatalf("viewImage() error = %v, expected ErrLoad", err)
	}
	if _, err := os.Stat(flagLogFile); err != nil {
		t.Errorf("log file not written: %v", err)
	}
}

func TestRenderImageRecordsSnapshot(t *testing.T) {
	dir := withFlags(t)
	flagOutput = filepath.Join(dir, "checker.png")

	if err := renderImage(config.Default(), "builtin:checker", log.New(io.Discard)); err != nil {
		t.Fatalf("renderImage() error: %v", err)
	}
	if info, err := os.Stat(flagOutput); err != nil || info.Size() == 0 {
		t.Fatalf("output %s missing or empty: %v", flagOutput, err)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer store.Close()
	snapshots, err := store.RecentSnapshots(10)
	if err != nil {
		t.Fatalf("RecentSnapshots() error: %v", err)
	}
	if len(snapshots) != 1 || snapshots[0].Source != "builtin:checker" {
		t.Errorf("RecentSnapshots() = %+v, expected one builtin:checker snapshot", snapshots)
	}
}

func TestRenderImageErrors(t *testing.T) {
	tests := []struct {
		name    string
		ref     string
		pointer string
	}{
		{"bad pointer", "builtin:checker", "nowhere"},
		{"missing image", "missing.png", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := withFlags(t)
			flagOutput = filepath.Join(dir, "out.png")
			flagPointer = tt.pointer

			ref := tt.ref
			if !strings.HasPrefix(ref, "builtin:") {
				ref = filepath.Join(dir, ref)
			}
			if err := renderImage(config.Default(), ref, log.New(io.Discard)); err == nil {
				t.Error("renderImage() succeeded, expected an error")
			}
		})
	}
}

func TestStatsPlainEmpty(t *testing.T) {
	withFlags(t)
	flagPlain = true

	var buf bytes.Buffer
	if err := stats(config.Default(), &buf); err != nil {
		t.Fatalf("stats() error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"No section views recorded yet.", "No snapshots yet."} {
		if !strings.Contains(out, want) {
			t.Errorf("stats() output missing %q:\n%s", want, out)
		}
	}
}
