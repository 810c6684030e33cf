package pixelgrid

import (
	"math"
	"testing"

	"github.com/vovakirdan/tui-folio/internal/core"
)

func TestPointerConvergence(t *testing.T) {
	for _, follow := range []float64{0.05, 0.15, 0.5, 1} {
		p := PointerState{Inside: true, Activity: 1, Target: core.V(100, -40)}
		prev := p.Animated.Sub(p.Target).Len()
		frames := int(math.Ceil(10 / follow))

		for i := 0; i < frames; i++ {
			p.Step(follow, 0.08, true)
			d := p.Animated.Sub(p.Target).Len()
			if d > prev {
				t.Fatalf("follow %v: distance grew from %v to %v at frame %d", follow, prev, d, i)
			}
			prev = d
		}
		if prev > 0.01 {
			t.Errorf("follow %v: distance after %d frames = %v, expected <= 0.01", follow, frames, prev)
		}
	}
}

func TestPointerEnterSnapsWhenIdle(t *testing.T) {
	var p PointerState
	p.Enter(core.V(40, 50))
	if p.Animated != core.V(40, 50) {
		t.Errorf("Animated = %v, expected (40,50)", p.Animated)
	}

	p.Step(0.15, 0.5, true)
	p.Leave()
	p.Step(0.15, 0.5, true)
	if p.Activity <= 0 {
		t.Fatalf("Activity = %v, expected still fading", p.Activity)
	}

	p.Enter(core.V(0, 0))
	if p.Animated != core.V(40, 50) {
		t.Errorf("Animated = %v, expected no snap while active", p.Animated)
	}
}

func TestPointerActivityFade(t *testing.T) {
	var p PointerState
	p.Enter(core.V(1, 1))
	p.Step(0.15, 0.25, true)
	if p.Activity != 0.25 {
		t.Errorf("Activity after one step = %v, expected 0.25", p.Activity)
	}

	for i := 0; i < 200; i++ {
		p.Step(0.15, 0.25, true)
	}
	if p.Activity != 1 {
		t.Errorf("Activity = %v, expected 1", p.Activity)
	}

	p.Leave()
	prev := p.Activity
	for i := 0; i < 200; i++ {
		p.Step(0.15, 0.25, true)
		if p.Activity > prev {
			t.Fatalf("Activity rose while leaving: %v > %v", p.Activity, prev)
		}
		prev = p.Activity
	}
	if p.Activity != 0 || !p.Settled() {
		t.Errorf("Activity = %v settled=%v, expected 0 and settled", p.Activity, p.Settled())
	}
}

func TestPointerNoFadeSnaps(t *testing.T) {
	var p PointerState
	p.Enter(core.V(5, 5))
	p.Step(0.15, 0.08, false)
	if p.Activity != 1 {
		t.Errorf("Activity = %v, expected 1", p.Activity)
	}
	p.Leave()
	p.Step(0.15, 0.08, false)
	if p.Activity != 0 {
		t.Errorf("Activity = %v, expected 0", p.Activity)
	}
}

func TestPointerMoveEnters(t *testing.T) {
	var p PointerState
	p.Move(core.V(7, 8))
	if !p.Inside || p.Animated != core.V(7, 8) {
		t.Errorf("Move() on idle pointer = %+v, expected inside and snapped", p)
	}
}
