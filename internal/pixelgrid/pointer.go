package pixelgrid

import (
	"math"

	"github.com/vovakirdan/tui-folio/internal/core"
)

// settleEpsilon is how close smoothed values must be to their targets to
// count as settled.
const settleEpsilon = 0.001

// PointerState tracks the raw pointer and its smoothed counterparts.
// Activity gates all distortion so it fades in and out instead of snapping.
type PointerState struct {
	Target   core.Vec
	Animated core.Vec
	Inside   bool
	Activity float64
}

// Enter marks the pointer as present at pos. When no distortion is visible
// yet the animated position jumps to pos so the effect does not sweep in
// from wherever the pointer last left.
func (p *PointerState) Enter(pos core.Vec) {
	p.Target = pos
	if p.Activity <= 0 {
		p.Animated = pos
	}
	p.Inside = true
}

// Move updates the target position.
func (p *PointerState) Move(pos core.Vec) {
	if !p.Inside {
		p.Enter(pos)
		return
	}
	p.Target = pos
}

// Leave marks the pointer as gone; activity decays on subsequent steps.
func (p *PointerState) Leave() {
	p.Inside = false
}

// Step advances the smoothed position and activity by one frame. It is a
// first-order low-pass filter: each call closes a fixed fraction of the
// remaining distance and never overshoots.
func (p *PointerState) Step(followSpeed, fadeSpeed float64, fadeOnLeave bool) {
	p.Animated = p.Animated.Lerp(p.Target, followSpeed)
	if p.Animated.Sub(p.Target).Len() < settleEpsilon {
		p.Animated = p.Target
	}

	target := 0.0
	if p.Inside {
		target = 1
	}
	if !fadeOnLeave {
		p.Activity = target
		return
	}
	p.Activity += (target - p.Activity) * fadeSpeed
	if math.Abs(target-p.Activity) < settleEpsilon {
		p.Activity = target
	}
}

// Settled reports whether further steps would change nothing.
func (p *PointerState) Settled() bool {
	want := 0.0
	if p.Inside {
		want = 1
	}
	return p.Activity == want && p.Animated == p.Target
}
