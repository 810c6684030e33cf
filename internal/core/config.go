package core

// Action represents a semantic user action, abstracted from physical key presses.
type Action int

const (
	ActionNone     Action = iota
	ActionUp              // k, Up arrow - scroll up one line
	ActionDown            // j, Down arrow - scroll down one line
	ActionPageUp          // PgUp, b - scroll up one page
	ActionPageDown        // PgDn, Space, f - scroll down one page
	ActionTop             // g, Home - jump to first section
	ActionBottom          // G, End - jump to last section
	ActionNext            // Tab - jump to next section
	ActionPrev            // Shift+Tab - jump to previous section
	ActionReplay          // r - replay the entry animation
	ActionSnapshot        // Ctrl+S - save a snapshot of the surface
	ActionBack            // Esc - leave the current view
	ActionQuit            // q, Ctrl+C - exit
)

// String returns a human-readable name for the action.
func (a Action) String() string {
	switch a {
	case ActionNone:
		return "None"
	case ActionUp:
		return "Up"
	case ActionDown:
		return "Down"
	case ActionPageUp:
		return "PageUp"
	case ActionPageDown:
		return "PageDown"
	case ActionTop:
		return "Top"
	case ActionBottom:
		return "Bottom"
	case ActionNext:
		return "Next"
	case ActionPrev:
		return "Prev"
	case ActionReplay:
		return "Replay"
	case ActionSnapshot:
		return "Snapshot"
	case ActionBack:
		return "Back"
	case ActionQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}
