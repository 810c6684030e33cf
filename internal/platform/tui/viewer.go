package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// ViewerOptions configures the fullscreen effect viewer.
type ViewerOptions struct {
	Source      string // image reference, recorded with snapshots
	Preset      string
	Terminal    config.TerminalConfig
	Store       *storage.Store     // optional; snapshots are still written without it
	SnapshotDir string             // empty = ~/.folio/snapshots
	Renderer    *lipgloss.Renderer // nil = default renderer
}

// ViewerModel is the Bubble Tea model showing one effect fullscreen.
// The mouse drives the pointer; losing focus counts as leaving.
type ViewerModel struct {
	engine *pixelgrid.Engine
	queue  *pixelgrid.FrameQueue
	opts   ViewerOptions
	screen *core.Screen
	theme  Theme
	keys   KeyMap
	help   help.Model
	area   core.Rect
	width  int
	height int
	status string
	quit   bool
}

// NewViewer creates a viewer for engine and starts it on the viewer's clock.
// The engine should already have its source installed.
func NewViewer(engine *pixelgrid.Engine, opts ViewerOptions) ViewerModel {
	def := config.Default().Terminal
	if opts.Terminal.CellWidth <= 0 {
		opts.Terminal.CellWidth = def.CellWidth
	}
	if opts.Terminal.CellHeight <= 0 {
		opts.Terminal.CellHeight = def.CellHeight
	}
	if opts.Terminal.FPS <= 0 {
		opts.Terminal.FPS = def.FPS
	}

	h := help.New()
	h.ShowAll = false

	queue := pixelgrid.NewFrameQueue()
	engine.Start(queue)

	return ViewerModel{
		engine: engine,
		queue:  queue,
		opts:   opts,
		screen: core.NewScreen(0, 0),
		theme:  NewTheme(opts.Renderer),
		keys:   DefaultKeyMap(),
		help:   h,
	}
}

// Init starts the frame pump.
func (m ViewerModel) Init() tea.Cmd {
	return tickCmd(m.opts.Terminal.FPS)
}

// Update handles messages and updates the model state.
func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg.Width, msg.Height)

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		m.engine.PointerLeave()
		return m, nil

	case TickMsg:
		m.queue.Fire(time.Time(msg))
		return m, tickCmd(m.opts.Terminal.FPS)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m ViewerModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keys.Action(msg) {
	case core.ActionQuit, core.ActionBack:
		m.quit = true
		m.engine.Stop()
		return m, tea.Quit
	case core.ActionReplay:
		m.engine.Replay()
		m.status = "replaying"
	case core.ActionSnapshot:
		path, err := m.saveSnapshot(time.Now())
		if err != nil {
			m.status = "snapshot failed: " + err.Error()
		} else {
			m.status = "saved " + path
		}
	}
	return m, nil
}

// handleResize fits the effect to everything above the status line.
func (m ViewerModel) handleResize(width, height int) (tea.Model, tea.Cmd) {
	m.width = width
	m.height = height
	m.help.Width = width
	m.area = core.NewRect(0, 0, width, max(height-1, 1))
	m.screen.Resize(m.area.W, m.area.H)

	container := pixelgrid.Size{
		W: float64(m.area.W * m.opts.Terminal.CellWidth),
		H: float64(m.area.H * m.opts.Terminal.CellHeight),
	}
	m.engine.Resize(container, container.H)
	return m, nil
}

// handleMouse forwards motion to the pointer. Wheel events are ignored.
func (m ViewerModel) handleMouse(msg tea.MouseMsg) {
	if msg.Button == tea.MouseButtonWheelUp || msg.Button == tea.MouseButtonWheelDown {
		return
	}
	pos, ok := surfacePoint(msg.X, msg.Y, m.area, m.engine.Surface().Size())
	switch {
	case ok:
		m.engine.PointerMove(pos)
	case m.engine.Pointer().Inside:
		m.engine.PointerLeave()
	}
}

// saveSnapshot writes the current frame as PNG and records it.
func (m ViewerModel) saveSnapshot(now time.Time) (string, error) {
	dir := m.opts.SnapshotDir
	if dir == "" {
		dir = filepath.Join(config.UserDir(), "snapshots")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	name := fmt.Sprintf("folio_%s.png", now.Format("20060102_150405.000"))
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create snapshot: %w", err)
	}
	if err := m.engine.Surface().EncodePNG(f); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to encode snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to write snapshot: %w", err)
	}

	if m.opts.Store != nil {
		w, h := m.engine.Surface().Backing()
		//nolint:errcheck // Best-effort record, the file is already written
		m.opts.Store.SaveSnapshot(storage.Snapshot{
			Source: m.opts.Source,
			Preset: m.opts.Preset,
			Path:   path,
			Width:  w,
			Height: h,
		})
	}
	return path, nil
}

// View renders the current frame to a string for display.
func (m ViewerModel) View() string {
	if m.quit {
		return ""
	}
	if m.area.W <= 0 {
		return "loading..."
	}

	m.screen.Clear()
	FillArea(m.screen, m.area, m.theme.Background)
	PaintImage(m.screen, m.engine.Surface().Image(), m.area, m.theme.Background, 1)
	if err := m.engine.Err(); err != nil {
		m.screen.DrawTextCentered(m.area.H/2, "could not load "+m.opts.Source)
	}

	var b strings.Builder
	b.WriteString(RenderScreen(m.screen, m.opts.Renderer))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	return b.String()
}

// statusLine shows the source, the last action and the key help.
func (m ViewerModel) statusLine() string {
	parts := []string{m.opts.Source}
	if m.opts.Preset != "" {
		parts = append(parts, "preset "+m.opts.Preset)
	}
	if m.engine.Fallback() {
		parts = append(parts, "raw image")
	}
	if m.status != "" {
		parts = append(parts, m.status)
	}
	left := m.theme.StatusBar.Render(strings.Join(parts, " · "))
	right := m.theme.Muted.Render(m.help.View(viewerKeys{m.keys}))
	gap := max(m.width-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return left + strings.Repeat(" ", gap) + right
}

// Engine returns the viewed engine.
func (m ViewerModel) Engine() *pixelgrid.Engine {
	return m.engine
}

// Status returns the last status message.
func (m ViewerModel) Status() string {
	return m.status
}

// IsQuitting returns true if the user asked to leave.
func (m ViewerModel) IsQuitting() bool {
	return m.quit
}

// RunViewer starts the Bubble Tea program for the viewer.
func RunViewer(engine *pixelgrid.Engine, opts ViewerOptions) error {
	model := NewViewer(engine, opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),       // Use alternate screen buffer
		tea.WithMouseAllMotion(),  // Pointer follows the mouse without a button held
		tea.WithReportFocus(),     // Blur leaves the effect
	)

	_, err := p.Run()
	return err
}
