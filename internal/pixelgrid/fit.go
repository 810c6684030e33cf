package pixelgrid

import (
	"math"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// Size is a width/height pair in logical units.
type Size struct {
	W, H float64
}

// Empty reports whether the size has no area.
func (s Size) Empty() bool {
	return s.W <= 0 || s.H <= 0
}

// Fit places an image of the given natural size onto a surface and returns
// the rectangle (in surface space) the scaled image occupies. The rectangle
// may extend past the surface for cover and none; drawing clips it.
//
// minHeight is only honoured by contain: when the contained image would be
// shorter than minHeight it is scaled up to exactly minHeight.
func Fit(natural, surface Size, fit ObjectFit, pos ObjectPosition, minHeight float64) core.Box {
	if natural.Empty() || surface.Empty() {
		return core.Box{}
	}

	var w, h float64
	switch fit {
	case FitFill:
		return core.Box{W: surface.W, H: surface.H}
	case FitNone:
		w, h = natural.W, natural.H
		return core.Box{X: (surface.W - w) / 2, Y: (surface.H - h) / 2, W: w, H: h}
	case FitContain:
		s := math.Min(surface.W/natural.W, surface.H/natural.H)
		if minHeight > 0 && natural.H*s < minHeight {
			s = minHeight / natural.H
		}
		w, h = natural.W*s, natural.H*s
	default:
		s := math.Max(surface.W/natural.W, surface.H/natural.H)
		w, h = natural.W*s, natural.H*s
	}

	box := core.Box{X: (surface.W - w) / 2, W: w, H: h}
	switch pos {
	case PositionTop:
		box.Y = 0
	case PositionBottom:
		box.Y = surface.H - h
	default:
		box.Y = (surface.H - h) / 2
	}
	return box
}
