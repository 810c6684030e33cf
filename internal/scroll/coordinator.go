// Package scroll tracks which page section is active as the viewport
// scrolls, how far each section has travelled through the viewport, and
// whether media bound to a section should be shown in a side panel.
//
// All geometry is in viewport-relative units: a section's top is its
// distance from the top of the viewport, negative once scrolled past.
package scroll

import "math"

const (
	// TriggerLine is the fraction of the viewport height a section's top
	// must reach to become active.
	TriggerLine = 0.3

	// ProgressStart and ProgressEnd bound the progress ramp: a section's
	// centre at ProgressStart of the viewport is progress 0, at
	// ProgressEnd it is progress 1.
	ProgressStart = 0.7
	ProgressEnd   = 0.2
)

// Element is a registered section's live geometry.
type Element interface {
	Bounds() (top, height float64)
}

// ProgressReceiver is implemented by elements that want their progress
// pushed to them after every recompute.
type ProgressReceiver interface {
	SetProgress(p float64)
}

// State is a point-in-time copy of the coordinator's derived state.
type State struct {
	Active    string
	HasActive bool
	Progress  map[string]float64
	Groups    map[string]string
}

// Coordinator owns section registrations and the active/progress state
// derived from them. It is driven from a single goroutine.
type Coordinator struct {
	order    []string
	elements map[string]Element
	groups   map[string]string
	progress map[string]float64

	active    string
	hasActive bool

	onChange []func(prev, next string)
}

// NewCoordinator creates an empty coordinator.
func NewCoordinator() *Coordinator {
	return &Coordinator{
		elements: make(map[string]Element),
		groups:   make(map[string]string),
		progress: make(map[string]float64),
	}
}

// Register adds or replaces a section. The first section registered while
// nothing is active becomes active immediately, before any measurement.
func (c *Coordinator) Register(id string, el Element) {
	if _, ok := c.elements[id]; !ok {
		c.order = append(c.order, id)
	}
	c.elements[id] = el
	if !c.hasActive {
		c.setActive(id)
	}
}

// Unregister forgets a section. The active section is not reassigned here;
// the next Recompute picks a new one if needed.
func (c *Coordinator) Unregister(id string) {
	if _, ok := c.elements[id]; !ok {
		return
	}
	delete(c.elements, id)
	delete(c.progress, id)
	for i, sid := range c.order {
		if sid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
}

// RegisterMediaGroup assigns a section to a media group. Groups are kept
// independently of section registration.
func (c *Coordinator) RegisterMediaGroup(sectionID, group string) {
	c.groups[sectionID] = group
}

// UnregisterMediaGroup removes a section's group assignment.
func (c *Coordinator) UnregisterMediaGroup(sectionID string) {
	delete(c.groups, sectionID)
}

// OnActiveChange registers fn to be called whenever the active section
// changes. prev is empty for the first activation.
func (c *Coordinator) OnActiveChange(fn func(prev, next string)) {
	c.onChange = append(c.onChange, fn)
}

// Recompute re-reads every section's geometry against a viewport of the
// given height and updates the active section and all progress values.
func (c *Coordinator) Recompute(viewportHeight float64) {
	if len(c.order) == 0 {
		c.active, c.hasActive = "", false
		return
	}

	trigger := viewportHeight * TriggerLine
	start := viewportHeight * ProgressStart
	span := start - viewportHeight*ProgressEnd

	best := ""
	bestTop := math.Inf(-1)
	for _, id := range c.order {
		el := c.elements[id]
		top, height := el.Bounds()

		if top <= trigger && top > bestTop {
			best, bestTop = id, top
		}

		p := 0.0
		if span > 0 {
			p = clamp01((start - (top + height/2)) / span)
		}
		c.progress[id] = p
		if r, ok := el.(ProgressReceiver); ok {
			r.SetProgress(p)
		}
	}

	if best == "" {
		best = c.order[0]
	}
	c.setActive(best)
}

func (c *Coordinator) setActive(id string) {
	prev := c.active
	changed := !c.hasActive || prev != id
	c.active, c.hasActive = id, true
	if !changed {
		return
	}
	for _, fn := range c.onChange {
		fn(prev, id)
	}
}

// ActiveSectionID returns the active section, if any section is registered.
func (c *Coordinator) ActiveSectionID() (string, bool) {
	return c.active, c.hasActive
}

// Progress returns a section's progress in [0, 1]; unknown sections are 0.
func (c *Coordinator) Progress(id string) float64 {
	return c.progress[id]
}

// Group returns a section's media group.
func (c *Coordinator) Group(id string) (string, bool) {
	g, ok := c.groups[id]
	return g, ok
}

// Sections returns registered section ids in registration order.
func (c *Coordinator) Sections() []string {
	return append([]string(nil), c.order...)
}

// Snapshot copies the current state.
func (c *Coordinator) Snapshot() State {
	s := State{
		Active:    c.active,
		HasActive: c.hasActive,
		Progress:  make(map[string]float64, len(c.progress)),
		Groups:    make(map[string]string, len(c.groups)),
	}
	for id, p := range c.progress {
		s.Progress[id] = p
	}
	for id, g := range c.groups {
		s.Groups[id] = g
	}
	return s
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
