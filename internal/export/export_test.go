package export

import (
	"bytes"
	"errors"
	"image/gif"
	"image/png"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

func newEngine(t *testing.T, mutate func(*pixelgrid.Config)) *pixelgrid.Engine {
	t.Helper()
	cfg := pixelgrid.DefaultConfig()
	cfg.Width = 40
	cfg.Height = 30
	cfg.CellSize = 4
	if mutate != nil {
		mutate(&cfg)
	}
	e := pixelgrid.New(cfg, pixelgrid.WithLogger(log.New(io.Discard)))
	t.Cleanup(func() { _ = e.Close() })

	img, err := pixelgrid.Builtin("gradient", 80, 60)
	if err != nil {
		t.Fatalf("Builtin() error: %v", err)
	}
	e.SetSource(pixelgrid.NewSource("builtin:gradient", img, pixelgrid.Size{}))
	return e
}

func entryOnly(c *pixelgrid.Config) {
	c.Interactive = false
	c.EntryAnimation = true
	c.EntryDuration = 300 * time.Millisecond
	c.EntryStagger = 200 * time.Millisecond
}

func TestPNGStatic(t *testing.T) {
	e := newEngine(t, func(c *pixelgrid.Config) { c.Interactive = false })

	var buf bytes.Buffer
	if err := PNG(&buf, e, Options{At: time.Second}); err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Errorf("PNG size = %dx%d, expected 40x30", b.Dx(), b.Dy())
	}
}

func TestPNGWithPointer(t *testing.T) {
	e := newEngine(t, nil)
	p := core.V(20, 15)

	var buf bytes.Buffer
	if err := PNG(&buf, e, Options{At: 500 * time.Millisecond, Pointer: &p}); err != nil {
		t.Fatalf("PNG() error: %v", err)
	}
	if !e.Pointer().Inside {
		t.Error("Pointer().Inside = false, expected the pointer over the surface")
	}
	if e.Pointer().Activity <= 0 {
		t.Errorf("Pointer().Activity = %v, expected it to ramp up", e.Pointer().Activity)
	}
}

func TestClockEntryReveal(t *testing.T) {
	e := newEngine(t, entryOnly)
	c := NewClock(e, nil)
	defer c.Stop()

	c.Advance(100 * time.Millisecond)
	if !e.Animating() {
		t.Error("Animating() = false during the entry reveal")
	}
	if got := c.Elapsed(); got != 100*time.Millisecond {
		t.Errorf("Elapsed() = %v, expected 100ms", got)
	}

	c.Advance(2 * time.Second)
	if e.Animating() {
		t.Error("Animating() = true after the entry reveal finished")
	}
	if got := c.Elapsed(); got != 2*time.Second {
		t.Errorf("Elapsed() = %v, expected 2s", got)
	}
}

func TestGIF(t *testing.T) {
	e := newEngine(t, entryOnly)

	var buf bytes.Buffer
	if err := GIF(&buf, e, 4, 400*time.Millisecond, nil); err != nil {
		t.Fatalf("GIF() error: %v", err)
	}
	anim, err := gif.DecodeAll(&buf)
	if err != nil {
		t.Fatalf("gif.DecodeAll() error: %v", err)
	}
	if len(anim.Image) != 4 {
		t.Errorf("frames = %d, expected 4", len(anim.Image))
	}
	if anim.Delay[0] != 10 {
		t.Errorf("Delay[0] = %d, expected 10", anim.Delay[0])
	}
}

func TestGIFNoFrames(t *testing.T) {
	e := newEngine(t, nil)
	if err := GIF(io.Discard, e, 0, time.Second, nil); !errors.Is(err, ErrNoFrames) {
		t.Errorf("GIF() error = %v, expected ErrNoFrames", err)
	}
}
