package pixelgrid

import (
	"image"
	"math"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// Coordinate shifts applied before hashing so that the dropout pattern,
// the idle jitter phase and the entry delay are visually uncorrelated.
const (
	jitterShiftX, jitterShiftY = 7919, 104729
	delayShiftX, delayShiftY   = 1299709, 15485863
)

// hash2 maps integer grid coordinates to a deterministic value in [0, 1).
func hash2(x, y int) float64 {
	h := uint32(x)*0x8da6b343 ^ uint32(y)*0xd8163841
	h ^= h >> 13
	h *= 0x5bd1e995
	h ^= h >> 15
	h *= 0x27d4eb2d
	h ^= h >> 16
	return float64(h) / (1 << 32)
}

// rgba is an unpremultiplied colour with channels in [0, 255] and alpha in [0, 1].
type rgba struct {
	r, g, b, a float64
}

// luma returns Rec.709 luminance in [0, 1].
func (c rgba) luma() float64 {
	return (0.2126*c.r + 0.7152*c.g + 0.0722*c.b) / 255
}

// pixel reads one premultiplied pixel, clamping coordinates to the buffer.
func pixel(buf *image.RGBA, x, y int) (r, g, b, a float64) {
	bb := buf.Bounds()
	x = core.Clamp(x, bb.Min.X, bb.Max.X-1)
	y = core.Clamp(y, bb.Min.Y, bb.Max.Y-1)
	i := buf.PixOffset(x, y)
	p := buf.Pix[i : i+4 : i+4]
	return float64(p[0]), float64(p[1]), float64(p[2]), float64(p[3])
}

// sampleAt returns the colour at (x, y), either the single pixel or the
// average of its 3x3 neighbourhood. Averaging happens on premultiplied
// values so transparent pixels do not darken the result.
func sampleAt(buf *image.RGBA, x, y int, average bool) rgba {
	var r, g, b, a float64
	n := 0.0
	radius := 0
	if average {
		radius = 1
	}
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			pr, pg, pb, pa := pixel(buf, x+dx, y+dy)
			r, g, b, a = r+pr, g+pg, b+pb, a+pa
			n++
		}
	}
	r, g, b, a = r/n, g/n, b/n, a/n
	if a <= 0 {
		return rgba{}
	}
	k := 255 / a
	return rgba{r: r * k, g: g * k, b: b * k, a: a / 255}
}

// gradientAt estimates local contrast at (x, y) from the luminance of the
// four neighbours one stride away plus the centre's deviation from their
// mean, normalised to [0, 1].
func gradientAt(buf *image.RGBA, x, y, stride int) float64 {
	lum := func(x, y int) float64 {
		return sampleAt(buf, x, y, false).luma()
	}
	c := lum(x, y)
	l, r := lum(x-stride, y), lum(x+stride, y)
	u, d := lum(x, y-stride), lum(x, y+stride)

	gx, gy := r-l, d-u
	avg := (l + r + u + d) / 4
	return core.ClampF(math.Hypot(gx, gy)+math.Abs(c-avg), 0, 1)
}

// shade applies grayscale or tint to a sampled colour.
func shade(c rgba, grayscale bool, tint core.RGB, tintStrength float64) rgba {
	if grayscale {
		l := c.luma() * 255
		c.r, c.g, c.b = l, l, l
		return c
	}
	if tintStrength > 0 {
		k := tintStrength
		c.r = c.r*(1-k) + float64(tint.R)*k
		c.g = c.g*(1-k) + float64(tint.G)*k
		c.b = c.b*(1-k) + float64(tint.B)*k
	}
	return c
}
