// Package game runs the interactive terminal preview: the player walks the
// map between frames and every frame is re-rendered from a fresh sweep.
package game

// Mode selects which view the preview shows.
type Mode int

const (
	// ModeFirstPerson shows the raycast wall view.
	ModeFirstPerson Mode = iota
	// ModeMap shows the map from above with the current rays.
	ModeMap
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModeFirstPerson:
		return "first-person"
	case ModeMap:
		return "map"
	default:
		return "unknown"
	}
}

// Toggle returns the other mode.
func (m Mode) Toggle() Mode {
	if m == ModeMap {
		return ModeFirstPerson
	}
	return ModeMap
}
