// Package export renders pixel-grid frames headlessly by driving an engine
// with a synthetic clock, for still images and animated GIFs.
package export

import (
	"errors"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"io"
	"time"

	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

// ErrNoFrames is returned when an animation is asked for zero frames.
var ErrNoFrames = errors.New("export: no frames requested")

// epoch is the synthetic clock origin.
var epoch = time.Unix(0, 0)

// Options controls a headless render.
type Options struct {
	At      time.Duration // still: elapsed time of the rendered frame
	Pointer *core.Vec     // optional pointer held over the surface from the start
}

// Clock drives an engine with synthetic timestamps at its frame rate.
type Clock struct {
	engine *pixelgrid.Engine
	queue  *pixelgrid.FrameQueue
	step   time.Duration
	now    time.Time
}

// NewClock starts engine on a synthetic clock. The pointer, if any, enters
// before the first frame.
func NewClock(engine *pixelgrid.Engine, pointer *core.Vec) *Clock {
	c := &Clock{
		engine: engine,
		queue:  pixelgrid.NewFrameQueue(),
		step:   time.Second / time.Duration(engine.Config().MaxFPS),
		now:    epoch,
	}
	if pointer != nil {
		engine.PointerEnter(*pointer)
	}
	engine.Start(c.queue)
	// Fire the first frame at the origin so elapsed time starts at zero.
	c.queue.Fire(c.now)
	return c
}

// Advance runs frames until the clock reaches elapsed.
func (c *Clock) Advance(elapsed time.Duration) {
	target := epoch.Add(elapsed)
	for c.now.Before(target) {
		c.now = c.now.Add(c.step)
		if c.now.After(target) {
			c.now = target
		}
		if c.queue.Fire(c.now) == 0 {
			// Nothing scheduled: the effect is static from here on.
			c.now = target
		}
	}
}

// Elapsed returns the synthetic time since the first frame.
func (c *Clock) Elapsed() time.Duration {
	return c.now.Sub(epoch)
}

// Stop stops the engine.
func (c *Clock) Stop() {
	c.engine.Stop()
}

// PNG renders the frame at opts.At and writes it as PNG.
func PNG(w io.Writer, engine *pixelgrid.Engine, opts Options) error {
	c := NewClock(engine, opts.Pointer)
	defer c.Stop()
	c.Advance(opts.At)
	return engine.Surface().EncodePNG(w)
}

// GIF renders frames evenly spaced over duration, starting at zero, and
// writes them as a looping animated GIF.
func GIF(w io.Writer, engine *pixelgrid.Engine, frames int, duration time.Duration, pointer *core.Vec) error {
	if frames <= 0 {
		return ErrNoFrames
	}
	c := NewClock(engine, pointer)
	defer c.Stop()

	interval := duration / time.Duration(frames)
	delay := max(int(interval/(10*time.Millisecond)), 1) // GIF delays are in 1/100 s

	anim := &gif.GIF{}
	for i := range frames {
		c.Advance(time.Duration(i) * interval)
		anim.Image = append(anim.Image, quantize(engine.Surface().Image()))
		anim.Delay = append(anim.Delay, delay)
	}
	return gif.EncodeAll(w, anim)
}

// quantize converts a frame to the web-safe palette with dithering.
func quantize(img *image.RGBA) *image.Paletted {
	out := image.NewPaletted(img.Bounds(), palette.WebSafe)
	draw.FloydSteinberg.Draw(out, img.Bounds(), img, img.Bounds().Min)
	return out
}
