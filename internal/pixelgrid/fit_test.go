package pixelgrid

import (
	"testing"

	"github.com/vovakirdan/tui-folio/internal/core"
)

func TestFitInvariants(t *testing.T) {
	surfaces := []Size{{W: 100, H: 100}, {W: 320, H: 200}, {W: 90, H: 400}}
	naturals := []Size{{W: 400, H: 200}, {W: 50, H: 80}, {W: 1000, H: 1000}}

	for _, s := range surfaces {
		for _, n := range naturals {
			cover := Fit(n, s, FitCover, PositionCenter, 0)
			if cover.W < s.W-1e-9 || cover.H < s.H-1e-9 {
				t.Errorf("Fit(%v, %v, cover) = %vx%v, expected >= surface", n, s, cover.W, cover.H)
			}

			contain := Fit(n, s, FitContain, PositionCenter, 0)
			if contain.W > s.W+1e-9 || contain.H > s.H+1e-9 {
				t.Errorf("Fit(%v, %v, contain) = %vx%v, expected <= surface", n, s, contain.W, contain.H)
			}

			fill := Fit(n, s, FitFill, PositionCenter, 0)
			if fill != (core.Box{W: s.W, H: s.H}) {
				t.Errorf("Fit(%v, %v, fill) = %v, expected full surface", n, s, fill)
			}
		}
	}
}

func TestFitPlacement(t *testing.T) {
	natural := Size{W: 400, H: 200}
	surface := Size{W: 100, H: 100}

	tests := []struct {
		name     string
		fit      ObjectFit
		pos      ObjectPosition
		minH     float64
		expected core.Box
	}{
		{"cover center", FitCover, PositionCenter, 0, core.Box{X: -50, Y: 0, W: 200, H: 100}},
		{"contain center", FitContain, PositionCenter, 0, core.Box{X: 0, Y: 25, W: 100, H: 50}},
		{"contain top", FitContain, PositionTop, 0, core.Box{X: 0, Y: 0, W: 100, H: 50}},
		{"contain bottom", FitContain, PositionBottom, 0, core.Box{X: 0, Y: 50, W: 100, H: 50}},
		{"contain min height", FitContain, PositionTop, 80, core.Box{X: -30, Y: 0, W: 160, H: 80}},
		{"contain min height below", FitContain, PositionCenter, 40, core.Box{X: 0, Y: 25, W: 100, H: 50}},
		{"none", FitNone, PositionCenter, 0, core.Box{X: -150, Y: -50, W: 400, H: 200}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Fit(natural, surface, tt.fit, tt.pos, tt.minH)
			if got != tt.expected {
				t.Errorf("Fit() = %+v, expected %+v", got, tt.expected)
			}
		})
	}
}

func TestFitEmpty(t *testing.T) {
	if got := Fit(Size{}, Size{W: 10, H: 10}, FitCover, PositionCenter, 0); !got.Empty() {
		t.Errorf("Fit(empty natural) = %v, expected empty", got)
	}
	if got := Fit(Size{W: 10, H: 10}, Size{}, FitCover, PositionCenter, 0); !got.Empty() {
		t.Errorf("Fit(empty surface) = %v, expected empty", got)
	}
}
