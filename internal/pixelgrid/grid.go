package pixelgrid

import (
	"image"
	"math"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// entryScatter scales the larger surface dimension into the entry radius.
const entryScatter = 0.6

// Cell is one sampled unit of the grid. Cells never change after BuildGrid;
// per-frame motion lives in the Dots computed from them.
type Cell struct {
	Col, Row int
	Pos      core.Vec // top-left in surface space

	R, G, B uint8
	Alpha   float64

	Gradient float64
	Dropped  bool

	JitterSeed float64 // idle and pointer jitter phase
	DelaySeed  float64 // entry stagger

	Start core.Vec // scattered entry position, set when entry animation is on
}

// Drawable reports whether the cell produces a dot at all.
func (c Cell) Drawable() bool {
	return !c.Dropped && c.Alpha > 0
}

// Grid is the full set of cells for one image, fit and surface.
type Grid struct {
	Cells    []Cell
	CellSize int
	Surface  Size
	Bounds   core.Box // visible image rectangle the cells cover
}

// DroppedCount returns the number of dropped cells.
func (g *Grid) DroppedCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.Dropped {
			n++
		}
	}
	return n
}

// DrawableCount returns the number of cells that produce a dot.
func (g *Grid) DrawableCount() int {
	n := 0
	for _, c := range g.Cells {
		if c.Drawable() {
			n++
		}
	}
	return n
}

// BuildGrid walks the offscreen buffer in CellSize strides over the visible
// part of the fitted image and samples one Cell per stride. The result is
// a pure function of the buffer pixels, the fit rectangle and cfg.
func BuildGrid(buf *image.RGBA, fit core.Box, cfg Config) *Grid {
	cfg = cfg.Normalize()
	bb := buf.Bounds()
	surface := Size{W: float64(bb.Dx()), H: float64(bb.Dy())}
	area := fit.Intersect(core.Box{W: surface.W, H: surface.H})

	g := &Grid{CellSize: cfg.CellSize, Surface: surface, Bounds: area}
	if area.Empty() {
		return g
	}

	tint, hasTint := core.ParseHex(cfg.TintColor)
	tintStrength := cfg.TintStrength
	if !hasTint {
		tintStrength = 0
	}

	cs := cfg.CellSize
	x0, y0 := int(math.Floor(area.X)), int(math.Floor(area.Y))
	x1, y1 := int(math.Ceil(area.Right())), int(math.Ceil(area.Bottom()))
	radius := math.Max(surface.W, surface.H) * entryScatter

	for y, row := y0, 0; y < y1; y, row = y+cs, row+1 {
		for x, col := x0, 0; x < x1; x, col = x+cs, col+1 {
			cx, cy := x+cs/2, y+cs/2

			c := sampleAt(buf, cx, cy, cfg.SampleAverage)
			c = shade(c, cfg.Grayscale, tint, tintStrength)
			grad := gradientAt(buf, cx, cy, cs)

			cell := Cell{
				Col:        col,
				Row:        row,
				Pos:        core.V(float64(x), float64(y)),
				R:          channel(c.r),
				G:          channel(c.g),
				B:          channel(c.b),
				Alpha:      c.a,
				Gradient:   grad,
				Dropped:    hash2(col, row) < (1-grad)*cfg.DropoutStrength,
				JitterSeed: hash2(col+jitterShiftX, row+jitterShiftY),
				DelaySeed:  hash2(col+delayShiftX, row+delayShiftY),
			}
			if cfg.EntryAnimation {
				cell.Start = cell.Pos.Add(entryOffset(cell.JitterSeed, radius))
			}
			g.Cells = append(g.Cells, cell)
		}
	}
	return g
}

// entryOffset scatters a cell below and to the side of its final position:
// 60-100% of the radius downward and up to ±20% of it sideways.
func entryOffset(seed, radius float64) core.Vec {
	lateral := seed*7.31 + 0.17
	lateral -= math.Floor(lateral)
	return core.V(radius*0.2*(2*lateral-1), radius*(0.6+0.4*seed))
}

// channel rounds a [0, 255] float to a byte.
func channel(v float64) uint8 {
	return uint8(math.Round(core.ClampF(v, 0, 255)))
}
