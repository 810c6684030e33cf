package tui

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/harmonica"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-folio/internal/config"
	"github.com/vovakirdan/tui-folio/internal/content"
	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
	"github.com/vovakirdan/tui-folio/internal/scroll"
	"github.com/vovakirdan/tui-folio/internal/storage"
)

// Browser layout constants
const (
	minTextWidth       = 30 // Panel is hidden below this much text room
	progressWidth      = 16
	loadTimeout        = 10 * time.Second
	projectsSection    = "work"         // Projects are listed under this section
	testimonialSection = "testimonials" // Quotes are listed under this section
	settleDistance     = 0.01
)

// BrowserOptions configures the portfolio browser.
type BrowserOptions struct {
	Config    config.Config
	Site      *content.Site
	Loader    *pixelgrid.Loader  // nil = loader trusting Config.TrustedHosts
	Store     *storage.Store     // optional section-view analytics
	SessionID string             // empty = generated
	Renderer  *lipgloss.Renderer // nil = default renderer
	Logger    *log.Logger
}

// scrollState is the spring-driven scroll position, in lines.
type scrollState struct {
	pos    float64
	vel    float64
	target float64
}

// sectionBlock is one section laid out in the page. It is the scroll
// element the coordinator measures and the owner of the section's media.
type sectionBlock struct {
	section  content.Section
	top      int // first page line
	lines    int
	scroll   *scrollState
	progress float64
	engine   *pixelgrid.Engine // nil without media
	live     bool              // engine is running on the browser clock
}

// Bounds returns the block's position relative to the top of the viewport.
func (b *sectionBlock) Bounds() (float64, float64) {
	return float64(b.top) - b.scroll.pos, float64(b.lines)
}

// SetProgress receives the coordinator's progress for this block.
func (b *sectionBlock) SetProgress(p float64) {
	b.progress = p
}

// dwellTracker records how long each section stays active.
type dwellTracker struct {
	store   *storage.Store
	session string
	logger  *log.Logger
	current string
	since   time.Time
	now     time.Time
}

// tick advances the tracker clock. The first tick starts the first visit.
func (d *dwellTracker) tick(now time.Time) {
	d.now = now
	if d.since.IsZero() {
		d.since = now
	}
}

// onActiveChange closes the visit of prev and opens one for next.
func (d *dwellTracker) onActiveChange(prev, next string) {
	if prev != "" && prev == d.current {
		d.record(prev)
	}
	d.current = next
	d.since = d.now
}

// flush closes the current visit.
func (d *dwellTracker) flush(now time.Time) {
	d.now = now
	if d.current != "" {
		d.record(d.current)
	}
	d.current = ""
}

// record stores one visit of id ending now.
func (d *dwellTracker) record(id string) {
	if d.store == nil || d.since.IsZero() {
		return
	}
	dwell := max(d.now.Sub(d.since), 0)
	if _, err := d.store.RecordView(d.session, id, dwell); err != nil {
		d.logger.Warn("could not record section view", "section", id, "error", err)
	}
}

// BrowserModel is the Bubble Tea model for the scrollable portfolio.
// Sections scroll on the left; the media of the active section plays in a
// side panel, crossfading between sections of the same group.
type BrowserModel struct {
	opts     BrowserOptions
	site     *content.Site
	coord    *scroll.Coordinator
	queue    *pixelgrid.FrameQueue
	blocks   []*sectionBlock
	scroll   *scrollState
	spring   harmonica.Spring
	tracker  *dwellTracker
	viewport viewport.Model
	progress progress.Model
	help     help.Model
	keys     KeyMap
	theme    Theme
	panel    core.Rect // media panel in screen cells
	screen   *core.Screen
	total    int // page lines
	width    int
	height   int
	quit     bool
}

// NewBrowser creates the browser and loads every section's media.
// Media that fails to load is logged and leaves an empty panel.
func NewBrowser(opts BrowserOptions) BrowserModel {
	if opts.Logger == nil {
		opts.Logger = log.Default().WithPrefix("browse")
	}
	if opts.Loader == nil {
		opts.Loader = pixelgrid.NewLoader(opts.Config.TrustedHosts...)
	}
	if opts.SessionID == "" {
		opts.SessionID = fmt.Sprintf("local-%d", time.Now().UnixNano())
	}
	term := opts.Config.Terminal
	def := config.Default()
	if term.CellWidth <= 0 || term.CellHeight <= 0 || term.FPS <= 0 {
		term = def.Terminal
	}
	opts.Config.Terminal = term
	sc := opts.Config.Scroll
	if sc.SpringFrequency <= 0 {
		sc.SpringFrequency = def.Scroll.SpringFrequency
	}
	if sc.SpringDamping <= 0 {
		sc.SpringDamping = def.Scroll.SpringDamping
	}
	if sc.LineStep <= 0 {
		sc.LineStep = def.Scroll.LineStep
	}
	opts.Config.Scroll = sc

	h := help.New()
	h.ShowAll = false

	m := BrowserModel{
		opts:   opts,
		site:   opts.Site,
		coord:  scroll.NewCoordinator(),
		queue:  pixelgrid.NewFrameQueue(),
		scroll: &scrollState{},
		spring: harmonica.NewSpring(harmonica.FPS(term.FPS), sc.SpringFrequency, sc.SpringDamping),
		tracker: &dwellTracker{
			store:   opts.Store,
			session: opts.SessionID,
			logger:  opts.Logger,
		},
		viewport: viewport.New(0, 0),
		progress: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(progressWidth),
			progress.WithoutPercentage(),
		),
		help:   h,
		keys:   DefaultKeyMap(),
		theme:  NewTheme(opts.Renderer),
		screen: core.NewScreen(0, 0),
	}
	m.coord.OnActiveChange(m.tracker.onActiveChange)

	for _, sec := range opts.Site.Sections {
		b := &sectionBlock{section: sec, scroll: m.scroll}
		if sec.Media.HasImage() {
			b.engine = m.newMediaEngine(sec)
			m.coord.RegisterMediaGroup(sec.ID, sec.Media.Group)
		}
		m.blocks = append(m.blocks, b)
		m.coord.Register(sec.ID, b)
	}
	return m
}

// newMediaEngine creates and loads the effect for a section's media.
func (m BrowserModel) newMediaEngine(sec content.Section) *pixelgrid.Engine {
	preset := sec.Media.Preset
	if preset == "" {
		preset = m.opts.Config.Scroll.MediaPreset
	}
	eff, err := config.Effect(m.opts.Config, preset)
	if err != nil {
		m.opts.Logger.Warn("unknown media preset, using defaults", "section", sec.ID, "error", err)
	}
	eff.FillContainer = true

	e := pixelgrid.New(eff, pixelgrid.WithLogger(m.opts.Logger))
	ctx, cancel := context.WithTimeout(context.Background(), loadTimeout)
	defer cancel()
	override := pixelgrid.Size{W: sec.Media.Width, H: sec.Media.Height}
	//nolint:errcheck // Logged by the engine; the panel stays empty
	e.Load(ctx, m.opts.Loader, sec.Media.Image, override)
	return e
}

// Init starts the frame pump.
func (m BrowserModel) Init() tea.Cmd {
	return tickCmd(m.opts.Config.Terminal.FPS)
}

// Update handles messages and updates the model state.
func (m BrowserModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.layout()
		return m, nil

	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil

	case tea.BlurMsg:
		for _, b := range m.blocks {
			if b.engine != nil {
				b.engine.PointerLeave()
			}
		}
		return m, nil

	case TickMsg:
		m.step(time.Time(msg))
		return m, tickCmd(m.opts.Config.Terminal.FPS)
	}

	return m, nil
}

// step advances scrolling, recomputes the active section and pumps frames.
func (m *BrowserModel) step(now time.Time) {
	s := m.scroll
	s.pos, s.vel = m.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < settleDistance && math.Abs(s.vel) < settleDistance {
		s.pos, s.vel = s.target, 0
	}
	m.viewport.SetYOffset(int(math.Round(s.pos)))

	m.tracker.tick(now)
	m.coord.Recompute(float64(m.viewport.Height))
	m.syncMedia()
	m.queue.Fire(now)
}

// syncMedia runs the engines of visible media and stops the rest, so a
// section's entry animation plays each time its media appears.
func (m BrowserModel) syncMedia() {
	visible := make(map[string]bool)
	for _, l := range m.coord.MediaLayers(m.mediaSections()) {
		visible[l.SectionID] = true
	}
	for _, b := range m.blocks {
		if b.engine == nil {
			continue
		}
		switch {
		case visible[b.section.ID] && !b.live:
			b.engine.Start(m.queue)
			b.live = true
		case !visible[b.section.ID] && b.live:
			b.engine.Stop()
			b.live = false
		}
	}
}

// mediaSections returns the ids of sections with media, in page order.
func (m BrowserModel) mediaSections() []string {
	ids := make([]string, 0, len(m.blocks))
	for _, b := range m.blocks {
		if b.engine != nil {
			ids = append(ids, b.section.ID)
		}
	}
	return ids
}

// handleKey processes keyboard input.
func (m BrowserModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	page := float64(max(m.viewport.Height, 1))
	step := float64(m.opts.Config.Scroll.LineStep)

	switch m.keys.Action(msg) {
	case core.ActionQuit, core.ActionBack:
		m.quit = true
		m.Close()
		return m, tea.Quit
	case core.ActionUp:
		m.scrollTo(m.scroll.target - step)
	case core.ActionDown:
		m.scrollTo(m.scroll.target + step)
	case core.ActionPageUp:
		m.scrollTo(m.scroll.target - page)
	case core.ActionPageDown:
		m.scrollTo(m.scroll.target + page)
	case core.ActionTop:
		m.scrollTo(0)
	case core.ActionBottom:
		m.scrollTo(m.maxScroll())
	case core.ActionNext:
		if b := m.nextBlock(); b != nil {
			m.scrollTo(float64(b.top))
		}
	case core.ActionPrev:
		if b := m.prevBlock(); b != nil {
			m.scrollTo(float64(b.top))
		}
	case core.ActionReplay:
		if b := m.activeBlock(); b != nil && b.engine != nil {
			b.engine.Replay()
		}
	}
	return m, nil
}

// handleMouse scrolls on the wheel and forwards motion over the panel to
// the visible media.
func (m BrowserModel) handleMouse(msg tea.MouseMsg) {
	step := float64(m.opts.Config.Scroll.LineStep)
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scrollTo(m.scroll.target - step)
		return
	case tea.MouseButtonWheelDown:
		m.scrollTo(m.scroll.target + step)
		return
	}

	for _, b := range m.blocks {
		if b.engine == nil {
			continue
		}
		pos, ok := surfacePoint(msg.X, msg.Y, m.panel, b.engine.Surface().Size())
		switch {
		case ok && b.live:
			b.engine.PointerMove(pos)
		case b.engine.Pointer().Inside:
			b.engine.PointerLeave()
		}
	}
}

// scrollTo sets the spring target, clamped to the page.
func (m BrowserModel) scrollTo(target float64) {
	m.scroll.target = core.ClampF(target, 0, m.maxScroll())
}

// maxScroll is the largest offset that still fills the viewport.
func (m BrowserModel) maxScroll() float64 {
	return float64(max(m.total-m.viewport.Height, 0))
}

// activeBlock returns the block of the active section.
func (m BrowserModel) activeBlock() *sectionBlock {
	id, ok := m.coord.ActiveSectionID()
	if !ok {
		return nil
	}
	for _, b := range m.blocks {
		if b.section.ID == id {
			return b
		}
	}
	return nil
}

// nextBlock returns the first block below both the active section and the
// pending scroll target, so repeated presses before the spring settles keep
// advancing.
func (m BrowserModel) nextBlock() *sectionBlock {
	ref := m.scroll.target
	if a := m.activeBlock(); a != nil {
		ref = max(ref, float64(a.top))
	}
	for _, b := range m.blocks {
		if float64(b.top) > ref {
			return b
		}
	}
	return nil
}

// prevBlock returns the last block starting above the pending scroll target:
// the active section's own top when the page is scrolled into it, the
// previous section otherwise.
func (m BrowserModel) prevBlock() *sectionBlock {
	for i := len(m.blocks) - 1; i >= 0; i-- {
		if float64(m.blocks[i].top) < m.scroll.target {
			return m.blocks[i]
		}
	}
	return nil
}

// layout re-flows the page for the current size and resizes the media.
func (m *BrowserModel) layout() {
	bodyH := max(m.height-2, 1) // header and help lines
	panelW := m.opts.Config.Scroll.MediaWidth
	textW := m.width - panelW - 1
	if panelW <= 0 || textW < minTextWidth {
		panelW = 0
		textW = m.width
	}

	var lines []string
	lines = append(lines, m.theme.SiteTitle.Render(m.site.Title))
	if m.site.Tagline != "" {
		lines = append(lines, m.theme.Tagline.Render(m.site.Tagline))
	}
	lines = append(lines, "")

	for i, b := range m.blocks {
		b.top = len(lines)
		lines = append(lines, m.sectionLines(i, b.section, textW)...)
		b.lines = len(lines) - b.top
	}
	// Room for the last section to reach the trigger line.
	for range bodyH {
		lines = append(lines, "")
	}
	m.total = len(lines)

	m.viewport.Width = textW
	m.viewport.Height = bodyH
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.scrollTo(m.scroll.target)
	m.scroll.pos = core.ClampF(m.scroll.pos, 0, m.maxScroll())
	m.viewport.SetYOffset(int(math.Round(m.scroll.pos)))

	m.panel = core.NewRect(textW+1, 1, panelW, bodyH)
	m.screen.Resize(panelW, bodyH)
	container := pixelgrid.Size{
		W: float64(panelW * m.opts.Config.Terminal.CellWidth),
		H: float64(bodyH * m.opts.Config.Terminal.CellHeight),
	}
	for _, b := range m.blocks {
		if b.engine != nil && panelW > 0 {
			b.engine.Resize(container, container.H)
		}
	}
	m.coord.Recompute(float64(bodyH))
}

// sectionLines renders one section into page lines.
func (m BrowserModel) sectionLines(index int, sec content.Section, width int) []string {
	var lines []string
	title := fmt.Sprintf("%02d  %s", index+1, sec.Title)
	lines = append(lines, m.theme.SectionTitle.Render(title), "")
	lines = append(lines, wrap(m.theme.Body, strings.TrimSpace(sec.Body), width)...)

	switch sec.ID {
	case projectsSection:
		for _, p := range m.site.Projects {
			lines = append(lines, "")
			meta := fmt.Sprintf("%d", p.Year)
			if len(p.Tags) > 0 {
				meta += " · " + strings.Join(p.Tags, ", ")
			}
			lines = append(lines, m.theme.ProjectName.Render(p.Name)+"  "+m.theme.ProjectMeta.Render(meta))
			lines = append(lines, wrap(m.theme.Body, p.Summary, width)...)
			if p.URL != "" {
				lines = append(lines, m.theme.Muted.Render(p.URL))
			}
		}
	case testimonialSection:
		for _, t := range m.site.Testimonials {
			lines = append(lines, "")
			lines = append(lines, wrap(m.theme.Quote, "\""+t.Quote+"\"", width)...)
			who := t.Author
			if t.Role != "" {
				who += ", " + t.Role
			}
			lines = append(lines, m.theme.Author.Render("  - "+who))
		}
	}
	return append(lines, "", "")
}

// wrap renders text with style, word-wrapped to width, as lines.
func wrap(style lipgloss.Style, text string, width int) []string {
	if text == "" {
		return nil
	}
	return strings.Split(style.Width(max(width, 1)).Render(text), "\n")
}

// View renders the page, the media panel and the chrome.
func (m BrowserModel) View() string {
	if m.quit {
		return ""
	}
	if m.width <= 0 {
		return "loading..."
	}

	var b strings.Builder
	b.WriteString(m.headerLine())
	b.WriteString("\n")

	page := m.viewport.View()
	if m.panel.W > 0 {
		page = lipgloss.JoinHorizontal(lipgloss.Top, page, " ", m.renderPanel())
	}
	b.WriteString(page)
	b.WriteString("\n")
	b.WriteString(m.theme.Muted.Render(m.help.View(m.keys)))
	return b.String()
}

// headerLine shows the active section and how far it has scrolled.
func (m BrowserModel) headerLine() string {
	active := m.activeBlock()
	if active == nil {
		return m.theme.SiteTitle.Render(m.site.Title)
	}
	return m.theme.ActiveTitle.Render(active.section.Title) + " " +
		m.progress.ViewAs(active.progress)
}

// renderPanel composites the visible media layers, bottom first.
func (m BrowserModel) renderPanel() string {
	area := core.NewRect(0, 0, m.panel.W, m.panel.H)
	m.screen.Clear()
	FillArea(m.screen, area, m.theme.Background)
	for _, l := range m.coord.MediaLayers(m.mediaSections()) {
		for _, b := range m.blocks {
			if b.section.ID == l.SectionID && b.engine != nil {
				PaintImage(m.screen, b.engine.Surface().Image(), area, m.theme.Background, l.Opacity)
			}
		}
	}
	return RenderScreen(m.screen, m.opts.Renderer)
}

// Close records the final visit and releases every engine. Hosts call it
// on every exit path, not only on quit; calling it again is a no-op.
func (m BrowserModel) Close() {
	m.tracker.flush(m.tracker.now)
	for _, b := range m.blocks {
		if b.engine != nil {
			//nolint:errcheck // Best-effort release on exit
			b.engine.Close()
			b.engine = nil
			b.live = false
		}
	}
}

// ActiveSection returns the active section id.
func (m BrowserModel) ActiveSection() string {
	id, _ := m.coord.ActiveSectionID()
	return id
}

// Coordinator returns the scroll coordinator.
func (m BrowserModel) Coordinator() *scroll.Coordinator {
	return m.coord
}

// ScrollTarget returns the line the page is scrolling toward.
func (m BrowserModel) ScrollTarget() float64 {
	return m.scroll.target
}

// IsQuitting returns true if the user asked to leave.
func (m BrowserModel) IsQuitting() bool {
	return m.quit
}

// RunBrowser starts the Bubble Tea program for the portfolio browser.
func RunBrowser(opts BrowserOptions) error {
	model := NewBrowser(opts)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)

	final, err := p.Run()
	if bm, ok := final.(BrowserModel); ok {
		bm.Close()
	} else {
		model.Close()
	}
	return err
}
