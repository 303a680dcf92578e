package world

// Room represents a rectangular room carved by the generator, in cells.
type Room struct {
	X, Y          int // Top-left cell
	Width, Height int // Size in cells
}

// Center returns the center cell of the room.
func (r Room) Center() (int, int) {
	return r.X + r.Width/2, r.Y + r.Height/2
}
