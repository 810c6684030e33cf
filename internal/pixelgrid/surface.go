package pixelgrid

import (
	"image"
	"image/draw"
	"io"
	"math"

	"github.com/gogpu/gg"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// Surface is the drawing target for one engine. Drawing happens in logical
// units; the backing store is logical*DPR pixels.
type Surface struct {
	ctx        *gg.Context
	logical    Size
	dpr        float64
	background *gg.RGBA
}

// NewSurface creates a surface. An empty or unparsable background means
// frames are cleared to transparent.
func NewSurface(logical Size, dpr float64, background string) *Surface {
	if dpr <= 0 {
		dpr = 1
	}
	w, h := backingSize(logical, dpr)
	s := &Surface{
		ctx:     gg.NewContext(w, h),
		logical: logical,
		dpr:     dpr,
	}
	if rgb, ok := core.ParseHex(background); ok {
		bg := gg.RGBA2(float64(rgb.R)/255, float64(rgb.G)/255, float64(rgb.B)/255, 1)
		s.background = &bg
	}
	s.ctx.Scale(dpr, dpr)
	return s
}

// backingSize returns the device pixel size for a logical size.
func backingSize(logical Size, dpr float64) (int, int) {
	w := int(math.Ceil(logical.W * dpr))
	h := int(math.Ceil(logical.H * dpr))
	return max(w, 1), max(h, 1)
}

// Size returns the logical size.
func (s *Surface) Size() Size {
	return s.logical
}

// Backing returns the device pixel size.
func (s *Surface) Backing() (int, int) {
	return s.ctx.Width(), s.ctx.Height()
}

// Resize changes the logical size, keeping the DPR.
func (s *Surface) Resize(logical Size) error {
	w, h := backingSize(logical, s.dpr)
	if err := s.ctx.Resize(w, h); err != nil {
		return err
	}
	s.logical = logical
	s.ctx.Identity()
	s.ctx.Scale(s.dpr, s.dpr)
	return nil
}

// Clear resets the surface to the background colour or transparent.
func (s *Surface) Clear() {
	if s.background != nil {
		s.ctx.ClearWithColor(*s.background)
		return
	}
	s.ctx.Clear()
}

// DrawDots draws every dot as a filled circle or square.
func (s *Surface) DrawDots(dots []Dot, shape Shape) error {
	for _, d := range dots {
		if d.A <= 0 || d.Size <= 0 {
			continue
		}
		s.ctx.SetRGBA(float64(d.R)/255, float64(d.G)/255, float64(d.B)/255, d.A)
		if shape == ShapeSquare {
			s.ctx.DrawRectangle(d.X-d.Size/2, d.Y-d.Size/2, d.Size, d.Size)
		} else {
			s.ctx.DrawCircle(d.X, d.Y, d.Size/2)
		}
		if err := s.ctx.Fill(); err != nil {
			return err
		}
	}
	return nil
}

// DrawImage draws img scaled into rect. Used when the source cannot be
// sampled and the raw image is shown instead of dots.
func (s *Surface) DrawImage(img image.Image, rect core.Box) {
	if img == nil || rect.Empty() {
		return
	}
	s.ctx.DrawImageEx(gg.ImageBufFromImage(img), gg.DrawImageOptions{
		X:         rect.X,
		Y:         rect.Y,
		DstWidth:  rect.W,
		DstHeight: rect.H,
		Opacity:   1,
	})
}

// Image returns a copy of the backing pixels.
func (s *Surface) Image() *image.RGBA {
	img := s.ctx.Image()
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba
	}
	out := image.NewRGBA(img.Bounds())
	draw.Draw(out, out.Bounds(), img, img.Bounds().Min, draw.Src)
	return out
}

// EncodePNG writes the current frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	return s.ctx.EncodePNG(w)
}

// Close releases the drawing context.
func (s *Surface) Close() error {
	return s.ctx.Close()
}
