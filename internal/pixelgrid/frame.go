package pixelgrid

import (
	"math"
	"time"

	"github.com/vovakirdan/tui-folio/internal/core"
)

const (
	// influenceEpsilon is the influence below which pointer displacement is skipped.
	influenceEpsilon = 0.001

	// ambientRate is the angular speed of ambient drift in rad/s.
	ambientRate = 0.8

	// swirlFactor converts strength*influence into a rotation angle in radians.
	swirlFactor = 0.05
)

// Dot is one drawable mark for a single frame, centred at X, Y.
type Dot struct {
	X, Y    float64
	Size    float64
	R, G, B uint8
	A       float64
}

// FrameInput is everything besides the grid that a frame depends on.
type FrameInput struct {
	Elapsed time.Duration // since the animation started
	Pointer PointerState
	Config  Config
}

// ComputeFrame derives the dots to draw for one frame. It is a pure
// function of its inputs and never modifies the grid.
func ComputeFrame(g *Grid, in FrameInput) []Dot {
	if g == nil {
		return nil
	}
	cfg := in.Config.Normalize()
	t := in.Elapsed.Seconds()
	half := float64(g.CellSize) / 2
	size := float64(g.CellSize) * cfg.DotScale

	sigma := cfg.DistortionRadius / 2
	twoSigma2 := 2 * sigma * sigma
	pointer := in.Pointer.Animated
	activity := in.Pointer.Activity
	if !cfg.Interactive {
		activity = 0
	}

	dots := make([]Dot, 0, len(g.Cells))
	for i := range g.Cells {
		c := &g.Cells[i]
		if !c.Drawable() {
			continue
		}

		pos := c.Pos
		alpha := c.Alpha

		if cfg.EntryAnimation {
			p, started := entryProgress(c.DelaySeed, in.Elapsed, cfg)
			if !started {
				continue
			}
			if e := easeOutExpo(p); e < 1 {
				pos = c.Start.Lerp(c.Pos, e)
				alpha *= e
			}
		}

		if cfg.AmbientAnimation {
			amp := cfg.JitterStrength * cfg.AmbientStrength
			phase := c.JitterSeed * 2 * math.Pi
			pos = pos.Add(core.V(
				math.Sin(t*ambientRate+phase)*amp,
				math.Cos(t*ambientRate*0.9+phase*1.3)*amp,
			))
		}

		if activity > 0 {
			center := pos.Add(core.V(half, half))
			d := center.Sub(pointer)
			influence := math.Exp(-d.Len2()/twoSigma2) * activity
			if influence > influenceEpsilon {
				pos = displace(pos, center, pointer, d, influence, cfg)
				phase := c.JitterSeed * 2 * math.Pi
				amp := cfg.JitterStrength * influence
				pos = pos.Add(core.V(
					math.Sin(t*cfg.JitterSpeed+phase)*amp,
					math.Cos(t*cfg.JitterSpeed*1.1+phase)*amp,
				))
			}
		}

		dots = append(dots, Dot{
			X:    pos.X + half,
			Y:    pos.Y + half,
			Size: size,
			R:    c.R,
			G:    c.G,
			B:    c.B,
			A:    alpha,
		})
	}
	return dots
}

// displace applies the configured pointer mode. d is center minus pointer.
func displace(pos, center, pointer, d core.Vec, influence float64, cfg Config) core.Vec {
	force := cfg.DistortionStrength * influence
	switch cfg.DistortionMode {
	case ModeSwirl:
		angle := force * swirlFactor
		sin, cos := math.Sincos(angle)
		rotated := core.V(d.X*cos-d.Y*sin, d.X*sin+d.Y*cos)
		return pos.Add(pointer.Add(rotated).Sub(center))
	case ModeAttract:
		force = -force
	}
	dist := d.Len()
	if dist == 0 {
		return pos
	}
	return pos.Add(d.Mul(force / dist))
}

// entryProgress returns the cell's clamped entry progress and whether the
// cell has started moving at all.
func entryProgress(delaySeed float64, elapsed time.Duration, cfg Config) (float64, bool) {
	start := cfg.EntryDelay + time.Duration(delaySeed*float64(cfg.EntryStagger))
	p := float64(elapsed-start) / float64(cfg.EntryDuration)
	if p <= 0 {
		return 0, false
	}
	return math.Min(p, 1), true
}

// easeOutExpo is 1-2^(-10t), pinned to exactly 1 at t >= 1.
func easeOutExpo(t float64) float64 {
	if t >= 1 {
		return 1
	}
	return 1 - math.Pow(2, -10*t)
}
