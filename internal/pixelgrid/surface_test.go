package pixelgrid

import (
	"bytes"
	"image/png"
	"testing"
)

func TestBackingSize(t *testing.T) {
	tests := []struct {
		name    string
		logical Size
		dpr     float64
		w, h    int
	}{
		{"unit", Size{W: 40, H: 30}, 1, 40, 30},
		{"retina", Size{W: 40, H: 30}, 2, 80, 60},
		{"fractional rounds up", Size{W: 10.2, H: 5.1}, 1, 11, 6},
		{"empty keeps one pixel", Size{}, 1, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := backingSize(tt.logical, tt.dpr)
			if w != tt.w || h != tt.h {
				t.Errorf("backingSize() = %dx%d, expected %dx%d", w, h, tt.w, tt.h)
			}
		})
	}
}

func TestSurfaceClearBackground(t *testing.T) {
	s := NewSurface(Size{W: 8, H: 8}, 1, "#1a1b26")
	defer s.Close()
	s.Clear()

	c := s.Image().RGBAAt(4, 4)
	if absDiff(c.R, 0x1a) > 1 || absDiff(c.G, 0x1b) > 1 || absDiff(c.B, 0x26) > 1 || c.A != 255 {
		t.Errorf("background pixel = %v, expected #1a1b26", c)
	}

	transparent := NewSurface(Size{W: 8, H: 8}, 1, "")
	defer transparent.Close()
	transparent.Clear()
	if a := transparent.Image().RGBAAt(4, 4).A; a != 0 {
		t.Errorf("transparent surface alpha = %d, expected 0", a)
	}
}

func TestSurfaceDrawDots(t *testing.T) {
	s := NewSurface(Size{W: 20, H: 20}, 2, "")
	defer s.Close()
	s.Clear()

	dots := []Dot{
		{X: 10, Y: 10, Size: 8, R: 255, A: 1},
		{X: 2, Y: 2, Size: 8, G: 255, A: 0}, // invisible
	}
	if err := s.DrawDots(dots, ShapeSquare); err != nil {
		t.Fatalf("DrawDots() error: %v", err)
	}

	img := s.Image()
	if c := img.RGBAAt(20, 20); c.R < 200 || c.A < 200 {
		t.Errorf("dot centre = %v, expected opaque red", c)
	}
	if c := img.RGBAAt(4, 4); c.A != 0 {
		t.Errorf("zero-alpha dot drew %v, expected nothing", c)
	}
}

func TestSurfaceResizeAndEncode(t *testing.T) {
	s := NewSurface(Size{W: 10, H: 10}, 2, "#000")
	defer s.Close()

	if err := s.Resize(Size{W: 16, H: 12}); err != nil {
		t.Fatalf("Resize() error: %v", err)
	}
	if got := s.Size(); got != (Size{W: 16, H: 12}) {
		t.Errorf("Size() = %v, expected 16x12", got)
	}
	if w, h := s.Backing(); w != 32 || h != 24 {
		t.Errorf("Backing() = %dx%d, expected 32x24", w, h)
	}

	s.Clear()
	var buf bytes.Buffer
	if err := s.EncodePNG(&buf); err != nil {
		t.Fatalf("EncodePNG() error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("png.Decode() error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 32 || b.Dy() != 24 {
		t.Errorf("PNG size = %dx%d, expected 32x24", b.Dx(), b.Dy())
	}
}

func absDiff(a, b uint8) uint8 {
	if a > b {
		return a - b
	}
	return b - a
}
