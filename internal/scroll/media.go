package scroll

// Visibility is the side-panel decision for one media item.
type Visibility struct {
	Visible bool
	Opacity float64
}

// Crossfade decides how a section's media item is shown. The active
// section's item is fully opaque. An item whose section is part-way
// through the viewport and shares a group with the active section fades
// out at twice the rate of progress, reaching zero by progress 0.5.
// Everything else is hidden, so items outside the active group cut hard.
func Crossfade(isActive bool, progress float64, group, activeGroup string) Visibility {
	if isActive {
		return Visibility{Visible: true, Opacity: 1}
	}
	if progress <= 0 || progress >= 1 || group == "" || group != activeGroup {
		return Visibility{}
	}
	op := max(0, 1-2*progress)
	return Visibility{Visible: op > 0, Opacity: op}
}

// MediaVisibility applies Crossfade to the media item bound to sectionID
// using the coordinator's current state.
func (c *Coordinator) MediaVisibility(sectionID string) Visibility {
	if !c.hasActive {
		return Visibility{}
	}
	return Crossfade(
		sectionID == c.active,
		c.progress[sectionID],
		c.groups[sectionID],
		c.groups[c.active],
	)
}

// Layer is one media item to composite, bottom first.
type Layer struct {
	SectionID string
	Opacity   float64
}

// MediaLayers returns the visible media items for the given sections in
// drawing order: fading items first, the active item on top.
func (c *Coordinator) MediaLayers(sectionIDs []string) []Layer {
	var layers []Layer
	var top *Layer
	for _, id := range sectionIDs {
		v := c.MediaVisibility(id)
		if !v.Visible {
			continue
		}
		if id == c.active {
			top = &Layer{SectionID: id, Opacity: v.Opacity}
			continue
		}
		layers = append(layers, Layer{SectionID: id, Opacity: v.Opacity})
	}
	if top != nil {
		layers = append(layers, *top)
	}
	return layers
}
