package tui

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

func openTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(filepath.Join(t.TempDir(), "folio.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func newTestViewer(t *testing.T, opts ViewerOptions) ViewerModel {
	t.Helper()
	cfg := pixelgrid.DefaultConfig()
	cfg.FillContainer = true
	cfg.CellSize = 4

	e := pixelgrid.New(cfg, pixelgrid.WithLogger(log.New(io.Discard)))
	t.Cleanup(func() { _ = e.Close() })
	img, err := pixelgrid.Builtin("rings", 64, 64)
	if err != nil {
		t.Fatalf("Builtin() error: %v", err)
	}
	e.SetSource(pixelgrid.NewSource("builtin:rings", img, pixelgrid.Size{}))

	if opts.Source == "" {
		opts.Source = "builtin:rings"
	}
	opts.Terminal = config.TerminalConfig{CellWidth: 4, CellHeight: 8, FPS: 30}
	m := NewViewer(e, opts)
	return update(t, m, tea.WindowSizeMsg{Width: 20, Height: 11}).(ViewerModel)
}

func update(t *testing.T, m tea.Model, msg tea.Msg) tea.Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next
}

func TestViewerResizeFillsArea(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{})

	got := m.Engine().Surface().Size()
	expected := pixelgrid.Size{W: 80, H: 80}
	if got != expected {
		t.Errorf("Surface().Size() = %v, expected %v", got, expected)
	}
	if m.Engine().Grid() == nil {
		t.Error("Grid() = nil after resize, expected a grid")
	}
}

func TestViewerMouseDrivesPointer(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{})

	m = update(t, m, tea.MouseMsg{X: 5, Y: 3, Action: tea.MouseActionMotion}).(ViewerModel)
	p := m.Engine().Pointer()
	if !p.Inside {
		t.Fatal("Pointer().Inside = false after motion over the effect")
	}
	if p.Target != core.V(22, 28) {
		t.Errorf("Pointer().Target = %v, expected (22, 28)", p.Target)
	}

	// The status line is outside the effect.
	m = update(t, m, tea.MouseMsg{X: 5, Y: 10, Action: tea.MouseActionMotion}).(ViewerModel)
	if m.Engine().Pointer().Inside {
		t.Error("Pointer().Inside = true over the status line")
	}
}

func TestViewerBlurLeaves(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{})
	m = update(t, m, tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionMotion}).(ViewerModel)
	m = update(t, m, tea.BlurMsg{}).(ViewerModel)

	if m.Engine().Pointer().Inside {
		t.Error("Pointer().Inside = true after focus loss")
	}
}

func TestViewerTickDrawsFrames(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{})

	now := time.Unix(1000, 0)
	for i := range 3 {
		m = update(t, m, TickMsg(now.Add(time.Duration(i)*40*time.Millisecond))).(ViewerModel)
	}
	if got := m.Engine().Frames(); got != 3 {
		t.Errorf("Frames() = %d, expected 3", got)
	}
	if !strings.Contains(m.View(), "builtin:rings") {
		t.Error("View() is missing the source in the status line")
	}
}

func TestViewerSnapshot(t *testing.T) {
	store := openTestStore(t)
	dir := t.TempDir()
	m := newTestViewer(t, ViewerOptions{Store: store, SnapshotDir: dir, Preset: "hero"})
	m = update(t, m, TickMsg(time.Unix(1000, 0))).(ViewerModel)

	path, err := m.saveSnapshot(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	if err != nil {
		t.Fatalf("saveSnapshot() error: %v", err)
	}
	if filepath.Dir(path) != dir {
		t.Errorf("snapshot path = %s, expected it under %s", path, dir)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Fatalf("snapshot file missing or empty: %v", err)
	}

	snaps, err := store.RecentSnapshots(10)
	if err != nil {
		t.Fatalf("RecentSnapshots() error: %v", err)
	}
	if len(snaps) != 1 {
		t.Fatalf("RecentSnapshots() returned %d, expected 1", len(snaps))
	}
	if snaps[0].Preset != "hero" || snaps[0].Path != path || snaps[0].Width != 80 {
		t.Errorf("snapshot = %+v, expected preset hero, path %s, width 80", snaps[0], path)
	}
}

func TestViewerQuit(t *testing.T) {
	m := newTestViewer(t, ViewerOptions{})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	vm := next.(ViewerModel)

	if !vm.IsQuitting() {
		t.Error("IsQuitting() = false after q")
	}
	if cmd == nil {
		t.Error("quit returned no command")
	}
	if vm.Engine().Animating() {
		t.Error("Animating() = true after quit")
	}
	if vm.View() != "" {
		t.Error("View() after quit is not empty")
	}
}
