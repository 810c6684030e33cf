// Package pixelgrid implements the interactive pixel-grid effect: a source
// image is sampled into a grid of cells, each drawn as a dot whose colour
// comes from the pixels underneath, and the dots are animated under pointer
// influence, ambient motion and an optional staggered entry reveal.
//
// The package is host-agnostic. Hosts own the clock (see Scheduler), feed
// pointer events and display the Surface however they like.
package pixelgrid

import (
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// Shape selects how a dot is drawn.
type Shape string

const (
	ShapeCircle Shape = "circle"
	ShapeSquare Shape = "square"
)

// Mode selects the pointer displacement applied to nearby dots.
type Mode string

const (
	ModeRepel   Mode = "repel"
	ModeAttract Mode = "attract"
	ModeSwirl   Mode = "swirl"
)

// ObjectFit selects how the source image is mapped onto the surface.
type ObjectFit string

const (
	FitCover   ObjectFit = "cover"
	FitContain ObjectFit = "contain"
	FitFill    ObjectFit = "fill"
	FitNone    ObjectFit = "none"
)

// ObjectPosition anchors the fitted image vertically.
type ObjectPosition string

const (
	PositionCenter ObjectPosition = "center"
	PositionTop    ObjectPosition = "top"
	PositionBottom ObjectPosition = "bottom"
)

// Config is the complete effect configuration. Zero values are replaced by
// defaults in Normalize; see DefaultConfig for the documented defaults.
type Config struct {
	// Surface
	Width            float64 `yaml:"width"`  // logical width when not filling the container
	Height           float64 `yaml:"height"` // logical height when not filling the container
	DevicePixelRatio float64 `yaml:"device_pixel_ratio"`
	FillContainer    bool    `yaml:"fill_container"`
	Responsive       bool    `yaml:"responsive"`
	BackgroundColor  string  `yaml:"background_color"` // empty = transparent clear

	// Sampling
	CellSize        int            `yaml:"cell_size"`
	DotScale        float64        `yaml:"dot_scale"`
	Shape           Shape          `yaml:"shape"`
	Grayscale       bool           `yaml:"grayscale"`
	DropoutStrength float64        `yaml:"dropout_strength"`
	SampleAverage   bool           `yaml:"sample_average"`
	TintColor       string         `yaml:"tint_color"`
	TintStrength    float64        `yaml:"tint_strength"`
	ObjectFit       ObjectFit      `yaml:"object_fit"`
	ObjectPosition  ObjectPosition `yaml:"object_position"`
	MinImageHeight  string         `yaml:"min_image_height"` // "320" (px) or "60vh"

	// Pointer
	Interactive        bool    `yaml:"interactive"`
	DistortionStrength float64 `yaml:"distortion_strength"`
	DistortionRadius   float64 `yaml:"distortion_radius"`
	DistortionMode     Mode    `yaml:"distortion_mode"`
	FollowSpeed        float64 `yaml:"follow_speed"`
	JitterStrength     float64 `yaml:"jitter_strength"`
	JitterSpeed        float64 `yaml:"jitter_speed"`
	FadeOnLeave        bool    `yaml:"fade_on_leave"`
	FadeSpeed          float64 `yaml:"fade_speed"`

	// Animation
	MaxFPS           int           `yaml:"max_fps"`
	AmbientAnimation bool          `yaml:"ambient_animation"`
	AmbientStrength  float64       `yaml:"ambient_strength"`
	EntryAnimation   bool          `yaml:"entry_animation"`
	EntryDuration    time.Duration `yaml:"entry_duration"`
	EntryStagger     time.Duration `yaml:"entry_stagger"`
	EntryDelay       time.Duration `yaml:"entry_delay"`
}

// DefaultConfig returns the default effect configuration.
func DefaultConfig() Config {
	return Config{
		Width:            320,
		Height:           200,
		DevicePixelRatio: 1,

		CellSize:        3,
		DotScale:        0.9,
		Shape:           ShapeCircle,
		DropoutStrength: 0.4,
		SampleAverage:   true,
		ObjectFit:       FitCover,
		ObjectPosition:  PositionCenter,

		Interactive:        true,
		DistortionStrength: 30,
		DistortionRadius:   100,
		DistortionMode:     ModeRepel,
		FollowSpeed:        0.15,
		JitterStrength:     2,
		JitterSpeed:        4,
		FadeOnLeave:        true,
		FadeSpeed:          0.08,

		MaxFPS:          60,
		AmbientStrength: 0.5,
		EntryDuration:   1200 * time.Millisecond,
		EntryStagger:    800 * time.Millisecond,
	}
}

// Normalize clamps out-of-contract values to safe ones and replaces unknown
// enum values with their defaults. It never fails: a CellSize of 0 becomes 1
// rather than a division by zero.
func (c Config) Normalize() Config {
	def := DefaultConfig()

	if c.Width <= 0 {
		c.Width = def.Width
	}
	if c.Height <= 0 {
		c.Height = def.Height
	}
	if c.DevicePixelRatio <= 0 {
		c.DevicePixelRatio = 1
	}
	if c.CellSize < 1 {
		c.CellSize = 1
	}
	if c.DotScale <= 0 {
		c.DotScale = def.DotScale
	}
	c.DotScale = core.ClampF(c.DotScale, 0.05, 4)
	c.DropoutStrength = core.ClampF(c.DropoutStrength, 0, 1)
	c.TintStrength = core.ClampF(c.TintStrength, 0, 1)
	if c.DistortionRadius < 1 {
		c.DistortionRadius = 1
	}
	if c.FollowSpeed <= 0 {
		c.FollowSpeed = def.FollowSpeed
	}
	c.FollowSpeed = core.ClampF(c.FollowSpeed, 0.001, 1)
	if c.FadeSpeed <= 0 {
		c.FadeSpeed = def.FadeSpeed
	}
	c.FadeSpeed = core.ClampF(c.FadeSpeed, 0.001, 1)
	if c.MaxFPS < 1 {
		c.MaxFPS = 1
	}
	if c.JitterStrength < 0 {
		c.JitterStrength = 0
	}
	if c.AmbientStrength < 0 {
		c.AmbientStrength = 0
	}
	if c.EntryDuration <= 0 {
		c.EntryDuration = time.Millisecond
	}
	if c.EntryStagger < 0 {
		c.EntryStagger = 0
	}
	if c.EntryDelay < 0 {
		c.EntryDelay = 0
	}

	c.Shape = ParseShape(string(c.Shape))
	c.DistortionMode = ParseMode(string(c.DistortionMode))
	c.ObjectFit = ParseFit(string(c.ObjectFit))
	c.ObjectPosition = ParsePosition(string(c.ObjectPosition))
	return c
}

// ParseShape converts a string to a Shape, defaulting to circle.
func ParseShape(s string) Shape {
	if Shape(strings.ToLower(s)) == ShapeSquare {
		return ShapeSquare
	}
	return ShapeCircle
}

// ParseMode converts a string to a Mode, defaulting to repel.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToLower(s)); m {
	case ModeAttract, ModeSwirl:
		return m
	default:
		return ModeRepel
	}
}

// ParseFit converts a string to an ObjectFit, defaulting to cover.
func ParseFit(s string) ObjectFit {
	switch f := ObjectFit(strings.ToLower(s)); f {
	case FitContain, FitFill, FitNone:
		return f
	default:
		return FitCover
	}
}

// ParsePosition converts a string to an ObjectPosition, defaulting to center.
func ParsePosition(s string) ObjectPosition {
	switch p := ObjectPosition(strings.ToLower(s)); p {
	case PositionTop, PositionBottom:
		return p
	default:
		return PositionCenter
	}
}

// MinHeightPx resolves MinImageHeight against the viewport height.
// "60vh" is 60% of the viewport; a bare number is logical pixels.
// Empty or malformed values resolve to 0 (no floor).
func (c Config) MinHeightPx(viewportHeight float64) float64 {
	s := strings.TrimSpace(strings.ToLower(c.MinImageHeight))
	if s == "" {
		return 0
	}
	if strings.HasSuffix(s, "vh") {
		v, err := strconv.ParseFloat(strings.TrimSuffix(s, "vh"), 64)
		if err != nil || v <= 0 {
			return 0
		}
		return viewportHeight * v / 100
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(s, "px"), 64)
	if err != nil || v <= 0 {
		return 0
	}
	return v
}

// animated reports whether the effect needs a continuous frame loop.
func (c Config) animated() bool {
	return c.Interactive || c.AmbientAnimation || c.EntryAnimation
}

// entryTotal is the time after which every cell has finished its entry.
func (c Config) entryTotal() time.Duration {
	return c.EntryDelay + c.EntryStagger + c.EntryDuration
}
