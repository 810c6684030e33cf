package pixelgrid

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"slices"
	"strings"

	_ "golang.org/x/image/webp" // WebP decoder
)

var (
	// ErrLoad is returned when an image asset cannot be fetched or decoded.
	ErrLoad = errors.New("pixelgrid: image load failed")

	// ErrTainted is returned when a source's pixels may not be read back,
	// e.g. an image fetched from an untrusted host.
	ErrTainted = errors.New("pixelgrid: source pixels are not readable")

	// ErrNoSource is returned when an operation needs a loaded source.
	ErrNoSource = errors.New("pixelgrid: no source loaded")
)

// builtinScheme prefixes references to procedurally generated images.
const builtinScheme = "builtin:"

// Source is a loaded, immutable image asset.
type Source struct {
	Name  string
	Image image.Image

	// Width and Height are the authoritative natural dimensions. They
	// default to the decoded bounds but callers may override them when the
	// asset's own metadata is unreliable.
	Width, Height float64

	// Tainted sources can be drawn but not sampled.
	Tainted bool
}

// NewSource wraps a decoded image. A non-empty override replaces the
// natural size detected from the image bounds.
func NewSource(name string, img image.Image, override Size) *Source {
	b := img.Bounds()
	src := &Source{
		Name:   name,
		Image:  img,
		Width:  float64(b.Dx()),
		Height: float64(b.Dy()),
	}
	if override.W > 0 {
		src.Width = override.W
	}
	if override.H > 0 {
		src.Height = override.H
	}
	return src
}

// Natural returns the authoritative natural size.
func (s *Source) Natural() Size {
	return Size{W: s.Width, H: s.Height}
}

// Pixels returns the image for sampling, or ErrTainted.
func (s *Source) Pixels() (image.Image, error) {
	if s.Tainted {
		return nil, ErrTainted
	}
	return s.Image, nil
}

// Loader resolves image references: "builtin:<pattern>", http(s) URLs and
// file paths.
type Loader struct {
	Client *http.Client

	// TrustedHosts lists hosts whose images may be sampled. Images from any
	// other host load fine but are tainted, like a cross-origin canvas.
	TrustedHosts []string
}

// NewLoader creates a loader using http.DefaultClient.
func NewLoader(trusted ...string) *Loader {
	return &Loader{Client: http.DefaultClient, TrustedHosts: trusted}
}

// Load fetches and decodes the referenced image.
func (l *Loader) Load(ctx context.Context, ref string, override Size) (*Source, error) {
	switch {
	case strings.HasPrefix(ref, builtinScheme):
		name := strings.TrimPrefix(ref, builtinScheme)
		img, err := Builtin(name, 480, 320)
		if err != nil {
			return nil, err
		}
		return NewSource(ref, img, override), nil

	case strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://"):
		return l.loadURL(ctx, ref, override)

	default:
		f, err := os.Open(ref)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoad, ref, err)
		}
		defer f.Close()
		return decodeSource(ref, f, override)
	}
}

// loadURL fetches an image over HTTP.
func (l *Loader) loadURL(ctx context.Context, ref string, override Size) (*Source, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, ref, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, ref, err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("%w: %s: status %d", ErrLoad, ref, resp.StatusCode)
	}

	src, err := decodeSource(ref, resp.Body, override)
	if err != nil {
		return nil, err
	}
	src.Tainted = !slices.Contains(l.TrustedHosts, u.Hostname())
	return src, nil
}

// decodeSource decodes any registered image format.
func decodeSource(name string, r io.Reader, override Size) (*Source, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrLoad, name, err)
	}
	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s: empty image", ErrLoad, name)
	}
	return NewSource(name, img, override), nil
}

// BuiltinNames lists the procedural patterns available as "builtin:<name>".
func BuiltinNames() []string {
	return []string{"aurora", "checker", "gradient", "portrait", "rings"}
}

// Builtin renders a procedural test pattern. These stand in for photos in
// the default site content and in tests.
func Builtin(name string, w, h int) (image.Image, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: builtin %q: invalid size %dx%d", ErrLoad, name, w, h)
	}

	var shade func(u, v float64) color.NRGBA
	switch name {
	case "gradient":
		shade = func(u, v float64) color.NRGBA {
			return color.NRGBA{R: unit(u), G: unit(v), B: unit(1 - u*v), A: 255}
		}
	case "checker":
		shade = func(u, v float64) color.NRGBA {
			if (int(u*8)+int(v*8))%2 == 0 {
				return color.NRGBA{R: 240, G: 240, B: 235, A: 255}
			}
			return color.NRGBA{R: 30, G: 30, B: 40, A: 255}
		}
	case "rings":
		shade = func(u, v float64) color.NRGBA {
			d := math.Hypot(u-0.5, v-0.5)
			k := 0.5 + 0.5*math.Cos(d*math.Pi*14)
			return color.NRGBA{R: unit(k), G: unit(0.3 + 0.4*k), B: unit(1 - k*0.6), A: 255}
		}
	case "aurora":
		shade = func(u, v float64) color.NRGBA {
			band := math.Sin(u*6+math.Sin(v*4)*1.5)*0.5 + 0.5
			glow := math.Exp(-math.Pow((v-0.45-0.15*math.Sin(u*5))*4, 2))
			return color.NRGBA{
				R: unit(0.05 + 0.3*band*glow),
				G: unit(0.1 + 0.8*glow),
				B: unit(0.2 + 0.5*band),
				A: 255,
			}
		}
	case "portrait":
		shade = func(u, v float64) color.NRGBA {
			// head and shoulders silhouette over a soft backdrop
			head := math.Hypot((u-0.5)*1.4, v-0.38) < 0.2
			body := v > 0.62 && math.Abs(u-0.5) < 0.36-0.25*(1-v)
			switch {
			case head:
				return color.NRGBA{R: 224, G: 180, B: 150, A: 255}
			case body:
				return color.NRGBA{R: 40, G: 60, B: 110, A: 255}
			default:
				return color.NRGBA{R: unit(0.85 - v*0.3), G: unit(0.8 - v*0.2), B: unit(0.7), A: 255}
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown builtin %q", ErrLoad, name)
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, shade(float64(x)/float64(w), float64(y)/float64(h)))
		}
	}
	return img, nil
}

// unit converts [0, 1] to a byte channel.
func unit(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}
