package pixelgrid

import (
	"context"
	"errors"
	"image"
	"math"
	"time"

	"github.com/charmbracelet/log"
	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// throttleSlack tolerates clocks that fire slightly early.
const throttleSlack = time.Millisecond

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes engine diagnostics to l.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// Engine owns one effect instance: its source, surface, grid, pointer state
// and frame loop. It is not safe for concurrent use; hosts drive it from a
// single goroutine.
type Engine struct {
	cfg    Config
	logger *log.Logger

	source    *Source
	container Size
	viewportH float64

	surface  *Surface
	grid     *Grid
	fit      core.Box
	fallback bool
	err      error

	pointer PointerState

	sched   Scheduler
	cancel  CancelFunc
	running bool

	started  time.Time
	lastDraw time.Time
	frames   int
}

// New creates an engine with a normalized copy of cfg.
func New(cfg Config, opts ...Option) *Engine {
	e := &Engine{cfg: cfg.Normalize()}
	for _, opt := range opts {
		opt(e)
	}
	if e.logger == nil {
		e.logger = log.Default().WithPrefix("pixelgrid")
	}
	e.surface = NewSurface(e.surfaceSize(), e.cfg.DevicePixelRatio, e.cfg.BackgroundColor)
	return e
}

// Config returns the normalized configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// SetConfig replaces the configuration and rebuilds the grid.
func (e *Engine) SetConfig(cfg Config) {
	cfg = cfg.Normalize()
	bgChanged := cfg.BackgroundColor != e.cfg.BackgroundColor || cfg.DevicePixelRatio != e.cfg.DevicePixelRatio
	e.cfg = cfg
	if !cfg.Interactive {
		e.pointer = PointerState{}
	}
	if bgChanged {
		_ = e.surface.Close()
		e.surface = NewSurface(e.surfaceSize(), cfg.DevicePixelRatio, cfg.BackgroundColor)
	}
	e.rebuild()
	e.restart()
}

// SetSource swaps the image. The grid is rebuilt and the entry animation,
// if any, plays again.
func (e *Engine) SetSource(src *Source) {
	e.source = src
	e.err = nil
	e.rebuild()
	e.restart()
}

// Load resolves ref with loader and installs the result. On failure the
// error is logged and kept in Err, and the surface stays empty.
func (e *Engine) Load(ctx context.Context, loader *Loader, ref string, override Size) error {
	src, err := loader.Load(ctx, ref, override)
	if err != nil {
		e.logger.Error("image load failed", "ref", ref, "error", err)
		e.source = nil
		e.grid = nil
		e.fallback = false
		e.err = err
		e.surface.Clear()
		return err
	}
	e.SetSource(src)
	return nil
}

// Resize reports a new container box and viewport height. Only fill and
// responsive surfaces follow the container; for fixed surfaces the grid is
// rebuilt only when a viewport-relative minimum height changes the fit.
func (e *Engine) Resize(container Size, viewportHeight float64) {
	prevMin := e.cfg.MinHeightPx(e.viewportH)
	e.container = container
	e.viewportH = viewportHeight

	if e.cfg.FillContainer || e.cfg.Responsive || e.cfg.MinHeightPx(viewportHeight) != prevMin {
		e.rebuild()
		if e.running && !e.looping() {
			e.draw(0)
		}
	}
}

// PointerEnter, PointerMove and PointerLeave feed pointer events in surface
// coordinates. They are ignored when the effect is not interactive.
func (e *Engine) PointerEnter(pos core.Vec) {
	if e.cfg.Interactive {
		e.pointer.Enter(pos)
	}
}

// PointerMove updates the pointer target.
func (e *Engine) PointerMove(pos core.Vec) {
	if e.cfg.Interactive {
		e.pointer.Move(pos)
	}
}

// PointerLeave marks the pointer as gone.
func (e *Engine) PointerLeave() {
	if e.cfg.Interactive {
		e.pointer.Leave()
	}
}

// Pointer returns the current pointer state.
func (e *Engine) Pointer() PointerState {
	return e.pointer
}

// Start begins rendering on s. Effects with no animation at all are drawn
// once; everything else reschedules itself every frame until Stop.
func (e *Engine) Start(s Scheduler) {
	if e.running {
		return
	}
	e.running = true
	e.sched = s
	e.started = time.Time{}
	e.lastDraw = time.Time{}

	if !e.looping() {
		e.draw(e.finalElapsed())
		return
	}
	e.cancel = s.RequestFrame(e.tick)
}

// Stop cancels the pending frame. It is safe to call repeatedly.
func (e *Engine) Stop() {
	e.running = false
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
}

// Close stops the engine and releases its surface.
func (e *Engine) Close() error {
	e.Stop()
	return e.surface.Close()
}

// Replay restarts the entry animation.
func (e *Engine) Replay() {
	e.restart()
}

// restart resets the animation clock of a running engine.
func (e *Engine) restart() {
	if !e.running {
		return
	}
	s := e.sched
	e.Stop()
	e.Start(s)
}

// Animating reports whether the frame loop is live.
func (e *Engine) Animating() bool {
	return e.running && e.cancel != nil
}

// looping reports whether the current state needs per-frame redraws.
func (e *Engine) looping() bool {
	return e.cfg.animated() && e.grid != nil && !e.fallback
}

// tick is the self-rescheduling frame callback.
func (e *Engine) tick(now time.Time) {
	e.cancel = nil
	if !e.running {
		return
	}
	e.Frame(now)

	// An entry-only effect has nothing left to animate once every cell
	// has arrived.
	if !e.cfg.Interactive && !e.cfg.AmbientAnimation && now.Sub(e.started) > e.cfg.entryTotal() {
		return
	}
	e.cancel = e.sched.RequestFrame(e.tick)
}

// Frame advances pointer smoothing and draws one frame at now. It returns
// false when the frame was skipped by the frame-rate throttle.
func (e *Engine) Frame(now time.Time) bool {
	minInterval := time.Second / time.Duration(e.cfg.MaxFPS)
	if !e.lastDraw.IsZero() && now.Sub(e.lastDraw) < minInterval-throttleSlack {
		return false
	}
	if e.started.IsZero() {
		e.started = now
	}
	if e.cfg.Interactive {
		e.pointer.Step(e.cfg.FollowSpeed, e.cfg.FadeSpeed, e.cfg.FadeOnLeave)
	}
	e.draw(now.Sub(e.started))
	e.lastDraw = now
	e.frames++
	return true
}

// Frames returns the number of frames drawn by Frame.
func (e *Engine) Frames() int {
	return e.frames
}

// finalElapsed is an elapsed time at which every entry has completed.
func (e *Engine) finalElapsed() time.Duration {
	return e.cfg.entryTotal() + time.Millisecond
}

// draw renders the grid, the fallback image or nothing.
func (e *Engine) draw(elapsed time.Duration) {
	e.surface.Clear()
	switch {
	case e.source == nil:
	case e.fallback:
		e.surface.DrawImage(e.source.Image, e.fit)
	case e.grid != nil:
		dots := ComputeFrame(e.grid, FrameInput{Elapsed: elapsed, Pointer: e.pointer, Config: e.cfg})
		if err := e.surface.DrawDots(dots, e.cfg.Shape); err != nil {
			e.logger.Warn("draw failed", "error", err)
		}
	}
}

// surfaceSize resolves the logical surface size for the current container.
func (e *Engine) surfaceSize() Size {
	switch {
	case e.cfg.FillContainer && !e.container.Empty():
		return e.container
	case e.cfg.Responsive && e.container.W > 0:
		return Size{W: e.container.W, H: e.container.W * e.cfg.Height / e.cfg.Width}
	default:
		return Size{W: e.cfg.Width, H: e.cfg.Height}
	}
}

// rebuild recomputes surface size, fit rectangle and grid from scratch.
func (e *Engine) rebuild() {
	size := e.surfaceSize()
	if size != e.surface.Size() {
		if err := e.surface.Resize(size); err != nil {
			e.logger.Warn("surface resize failed", "error", err)
		}
	}

	e.grid = nil
	e.fallback = false
	if e.source == nil {
		return
	}

	e.fit = Fit(e.source.Natural(), size, e.cfg.ObjectFit, e.cfg.ObjectPosition, e.cfg.MinHeightPx(e.viewportH))
	pixels, err := e.source.Pixels()
	if err != nil {
		if errors.Is(err, ErrTainted) {
			e.logger.Warn("source pixels unreadable, drawing image without effect", "source", e.source.Name)
		}
		e.fallback = true
		return
	}

	buf := image.NewRGBA(image.Rect(0, 0, int(math.Ceil(size.W)), int(math.Ceil(size.H))))
	drawFitted(buf, pixels, e.fit)
	e.grid = BuildGrid(buf, e.fit, e.cfg)
}

// drawFitted scales img into rect on buf; parts outside buf are clipped.
func drawFitted(buf *image.RGBA, img image.Image, rect core.Box) {
	if rect.Empty() {
		return
	}
	dr := image.Rect(
		int(math.Round(rect.X)),
		int(math.Round(rect.Y)),
		int(math.Round(rect.Right())),
		int(math.Round(rect.Bottom())),
	)
	xdraw.BiLinear.Scale(buf, dr, img, img.Bounds(), xdraw.Over, nil)
}

// Surface returns the drawing surface.
func (e *Engine) Surface() *Surface {
	return e.surface
}

// Grid returns the current grid, or nil in fallback mode or without a source.
func (e *Engine) Grid() *Grid {
	return e.grid
}

// FitRect returns where the image sits on the surface.
func (e *Engine) FitRect() core.Box {
	return e.fit
}

// Fallback reports whether the raw image is drawn instead of dots.
func (e *Engine) Fallback() bool {
	return e.fallback
}

// Err returns the last load error.
func (e *Engine) Err() error {
	return e.err
}
