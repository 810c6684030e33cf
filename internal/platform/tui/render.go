package tui

import (
	"image"
	"strings"

	"github.com/charmbracelet/lipgloss"
	xdraw "golang.org/x/image/draw"

	"github.com/vovakirdan/tui-folio/internal/core"
	"github.com/vovakirdan/tui-folio/internal/pixelgrid"
)

// halfBlock shows the upper pixel as foreground and the lower as background.
const halfBlock = '▀'

// RenderScreen converts a Screen buffer to a styled string for display.
// Groups adjacent cells with the same colours to minimize ANSI escape sequences.
// A nil renderer uses the default lipgloss renderer.
func RenderScreen(s *core.Screen, r *lipgloss.Renderer) string {
	if r == nil {
		r = lipgloss.DefaultRenderer()
	}

	var sb strings.Builder
	// Pre-allocate with extra space for ANSI codes
	sb.Grow(s.Width()*s.Height()*4 + s.Height())

	for y := range s.Height() {
		if y > 0 {
			sb.WriteRune('\n')
		}

		x := 0
		for x < s.Width() {
			start := s.GetCell(x, y)

			var run strings.Builder
			for x < s.Width() {
				cell := s.GetCell(x, y)
				if !sameStyle(cell, start) {
					break
				}
				run.WriteRune(cell.Rune)
				x++
			}

			if !start.Styled {
				sb.WriteString(run.String())
				continue
			}
			style := r.NewStyle().
				Foreground(lipgloss.Color(start.FG.Hex())).
				Background(lipgloss.Color(start.BG.Hex()))
			sb.WriteString(style.Render(run.String()))
		}
	}
	return sb.String()
}

// sameStyle reports whether two cells render with identical escapes.
func sameStyle(a, b core.Cell) bool {
	if a.Styled != b.Styled {
		return false
	}
	return !a.Styled || (a.FG == b.FG && a.BG == b.BG)
}

// PaintImage composites img onto the area of s using half-block cells, two
// vertical pixels per cell. The image is scaled to the area first.
// Transparent pixels leave what is underneath; unstyled cells count as bg.
// Opacity scales every pixel's alpha and is used for crossfades.
func PaintImage(s *core.Screen, img image.Image, area core.Rect, bg core.RGB, opacity float64) {
	if img == nil || area.W <= 0 || area.H <= 0 || opacity <= 0 {
		return
	}
	opacity = core.ClampF(opacity, 0, 1)

	small := image.NewRGBA(image.Rect(0, 0, area.W, area.H*2))
	xdraw.ApproxBiLinear.Scale(small, small.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	for cy := range area.H {
		for cx := range area.W {
			x, y := area.X+cx, area.Y+cy
			under := s.GetCell(x, y)
			top, bottom := bg, bg
			if under.Styled && under.Rune == halfBlock {
				top, bottom = under.FG, under.BG
			}
			top = blendPixel(top, small, cx, cy*2, opacity)
			bottom = blendPixel(bottom, small, cx, cy*2+1, opacity)
			s.SetCell(x, y, core.Cell{Rune: halfBlock, FG: top, BG: bottom, Styled: true})
		}
	}
}

// FillArea paints the area with a solid half-block colour.
func FillArea(s *core.Screen, area core.Rect, c core.RGB) {
	for y := area.Y; y < area.Bottom(); y++ {
		for x := area.X; x < area.Right(); x++ {
			s.SetCell(x, y, core.Cell{Rune: halfBlock, FG: c, BG: c, Styled: true})
		}
	}
}

// blendPixel mixes the premultiplied pixel at (x, y) over base.
func blendPixel(base core.RGB, img *image.RGBA, x, y int, opacity float64) core.RGB {
	i := img.PixOffset(x, y)
	a := img.Pix[i+3]
	if a == 0 {
		return base
	}
	unpremul := func(v uint8) uint8 {
		return uint8(min(255, int(v)*255/int(a)))
	}
	px := core.RGB{R: unpremul(img.Pix[i]), G: unpremul(img.Pix[i+1]), B: unpremul(img.Pix[i+2])}
	return base.Lerp(px, float64(a)/255*opacity)
}

// surfacePoint maps the centre of terminal cell (x, y) inside area to the
// matching position on a logical surface of the given size. ok is false
// when the cell lies outside area.
func surfacePoint(x, y int, area core.Rect, surface pixelgrid.Size) (core.Vec, bool) {
	if !area.Contains(x, y) {
		return core.Vec{}, false
	}
	return core.V(
		(float64(x-area.X)+0.5)*surface.W/float64(area.W),
		(float64(y-area.Y)+0.5)*surface.H/float64(area.H),
	), true
}
