package tui

import (
	"io"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/content"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// sectionBody returns a body of seven short lines starting with first.
func sectionBody(first string) string {
	return first + strings.Repeat("\nfiller line", 6)
}

func testSite() *content.Site {
	return &content.Site{
		Title: "Test Studio",
		Sections: []content.Section{
			{ID: "intro", Title: "Intro", Body: sectionBody("First section."), Media: content.Media{Image: "builtin:checker", Group: "people"}},
			{ID: "about", Title: "About", Body: sectionBody("Second section."), Media: content.Media{Image: "builtin:rings", Group: "people"}},
			{ID: "contact", Title: "Contact", Body: sectionBody("No media here.")},
		},
	}
}

func newTestBrowser(t *testing.T, store *storage.Store) BrowserModel {
	t.Helper()
	cfg := config.Default()
	cfg.Effect.CellSize = 8

	m := NewBrowser(BrowserOptions{
		Config:    cfg,
		Site:      testSite(),
		Store:     store,
		SessionID: "test-session",
		Logger:    log.New(io.Discard),
	})
	t.Cleanup(m.Close)
	return update(t, m, tea.WindowSizeMsg{Width: 80, Height: 20}).(BrowserModel)
}

// settle pumps ticks until the spring has come to rest.
func settle(t *testing.T, m BrowserModel, start time.Time) (BrowserModel, time.Time) {
	t.Helper()
	now := start
	for range 240 {
		now = now.Add(33 * time.Millisecond)
		m = update(t, m, TickMsg(now)).(BrowserModel)
	}
	return m, now
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBrowserFirstSectionActive(t *testing.T) {
	m := newTestBrowser(t, nil)

	if got := m.ActiveSection(); got != "intro" {
		t.Errorf("ActiveSection() = %q, expected intro", got)
	}
	if got := m.Coordinator().Sections(); len(got) != 3 {
		t.Errorf("Sections() = %v, expected 3 sections", got)
	}
	if g, ok := m.Coordinator().Group("about"); !ok || g != "people" {
		t.Errorf("Group(about) = %q, %v, expected people", g, ok)
	}
	if _, ok := m.Coordinator().Group("contact"); ok {
		t.Error("section without media has a media group")
	}
}

func TestBrowserScrollClamps(t *testing.T) {
	m := newTestBrowser(t, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyUp}).(BrowserModel)
	if got := m.ScrollTarget(); got != 0 {
		t.Errorf("ScrollTarget() after up at top = %v, expected 0", got)
	}

	m = update(t, m, runeKey('G')).(BrowserModel)
	bottom := m.ScrollTarget()
	if bottom <= 0 {
		t.Fatalf("ScrollTarget() at bottom = %v, expected > 0", bottom)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown}).(BrowserModel)
	if got := m.ScrollTarget(); got != bottom {
		t.Errorf("ScrollTarget() past bottom = %v, expected %v", got, bottom)
	}
}

func TestBrowserNextSectionActivates(t *testing.T) {
	m := newTestBrowser(t, nil)

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(BrowserModel)
	m, _ = settle(t, m, time.Unix(1000, 0))

	if got := m.ActiveSection(); got != "about" {
		t.Errorf("ActiveSection() after tab = %q, expected about", got)
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}).(BrowserModel)
	m, _ = settle(t, m, time.Unix(2000, 0))
	if got := m.ActiveSection(); got != "intro" {
		t.Errorf("ActiveSection() after shift+tab = %q, expected intro", got)
	}
}

func TestBrowserTabSteps(t *testing.T) {
	m := newTestBrowser(t, nil)
	tops := make([]float64, len(m.blocks))
	for i, b := range m.blocks {
		tops[i] = float64(b.top)
	}

	// The page starts above the first section's top; tab must still leave it.
	steps := []struct {
		key      tea.KeyType
		expected float64
	}{
		{tea.KeyTab, tops[1]},
		{tea.KeyTab, tops[2]},
		{tea.KeyShiftTab, tops[1]},
		{tea.KeyShiftTab, tops[0]},
	}
	for i, step := range steps {
		m = update(t, m, tea.KeyMsg{Type: step.key}).(BrowserModel)
		if got := m.ScrollTarget(); got != step.expected {
			t.Errorf("step %d: ScrollTarget() = %v, expected %v", i, got, step.expected)
		}
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(BrowserModel)
	m, _ = settle(t, m, time.Unix(1000, 0))
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab}).(BrowserModel)
	if got := m.ScrollTarget(); got != tops[0] {
		t.Errorf("ScrollTarget() after settled shift+tab = %v, expected %v", got, tops[0])
	}
}

func TestBrowserCloseFlushesVisit(t *testing.T) {
	store := openTestStore(t)
	m := newTestBrowser(t, store)

	m, _ = settle(t, m, time.Unix(1000, 0))
	// The host ends the program without a quit key.
	m.Close()
	m.Close()

	views, err := store.SessionViews("test-session")
	if err != nil {
		t.Fatalf("SessionViews() error: %v", err)
	}
	if len(views) != 1 || views[0].SectionID != "intro" {
		t.Fatalf("SessionViews() = %+v, expected one visit of intro", views)
	}
	for _, b := range m.blocks {
		if b.engine != nil {
			t.Errorf("engine of %s still open after Close", b.section.ID)
		}
	}
}

func TestBrowserRecordsDwell(t *testing.T) {
	store := openTestStore(t)
	m := newTestBrowser(t, store)

	start := time.Unix(1000, 0)
	m, now := settle(t, m, start)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(BrowserModel)
	m, _ = settle(t, m, now)

	views, err := store.SessionViews("test-session")
	if err != nil {
		t.Fatalf("SessionViews() error: %v", err)
	}
	if len(views) == 0 || views[0].SectionID != "intro" {
		t.Fatalf("SessionViews() = %+v, expected a visit of intro", views)
	}
	if views[0].Dwell < 7*time.Second {
		t.Errorf("intro dwell = %v, expected at least 7s", views[0].Dwell)
	}

	next, _ := m.Update(runeKey('q'))
	if !next.(BrowserModel).IsQuitting() {
		t.Fatal("IsQuitting() = false after q")
	}
	views, err = store.SessionViews("test-session")
	if err != nil {
		t.Fatalf("SessionViews() error: %v", err)
	}
	if last := views[len(views)-1]; last.SectionID != "about" {
		t.Errorf("last view = %q, expected about to be flushed on quit", last.SectionID)
	}
}

func TestBrowserMediaFollowsActiveSection(t *testing.T) {
	m := newTestBrowser(t, nil)
	m, _ = settle(t, m, time.Unix(1000, 0))

	live := func(id string) bool {
		for _, b := range m.blocks {
			if b.section.ID == id {
				return b.live
			}
		}
		return false
	}
	if !live("intro") {
		t.Error("intro media is not running while intro is active")
	}
	if live("about") {
		t.Error("about media is running while intro is active and about is below the fold")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab}).(BrowserModel)
	m, _ = settle(t, m, time.Unix(2000, 0))
	if !live("about") {
		t.Error("about media is not running after scrolling to about")
	}
}

func TestBrowserView(t *testing.T) {
	m := newTestBrowser(t, nil)
	m, _ = settle(t, m, time.Unix(1000, 0))

	view := m.View()
	for _, want := range []string{"Intro", "Test Studio", "First section."} {
		if !strings.Contains(view, want) {
			t.Errorf("View() is missing %q", want)
		}
	}
}

func TestDwellTracker(t *testing.T) {
	store := openTestStore(t)
	d := &dwellTracker{store: store, session: "s", logger: log.New(io.Discard)}

	start := time.Unix(500, 0)
	d.onActiveChange("", "a")
	d.tick(start)
	d.tick(start.Add(3 * time.Second))
	d.onActiveChange("a", "b")
	d.flush(start.Add(5 * time.Second))

	views, err := store.SessionViews("s")
	if err != nil {
		t.Fatalf("SessionViews() error: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("SessionViews() returned %d, expected 2", len(views))
	}
	if views[0].SectionID != "a" || views[0].Dwell != 3*time.Second {
		t.Errorf("first view = %s %v, expected a 3s", views[0].SectionID, views[0].Dwell)
	}
	if views[1].SectionID != "b" || views[1].Dwell != 2*time.Second {
		t.Errorf("second view = %s %v, expected b 2s", views[1].SectionID, views[1].Dwell)
	}
}
