// Package world provides the tile map the raycaster marches through and a
// procedural map generator.
package world

// Tile represents a single map cell, stored as its layout character.
type Tile rune

const (
	// TileEmpty is a passable cell.
	TileEmpty Tile = ' '
	// TileFloor is an alternative passable cell, used by generated maps so
	// layouts stay readable when printed.
	TileFloor Tile = '.'
	// TileWall is the default wall cell.
	TileWall Tile = '#'
)

// IsWall returns true if the tile blocks rays and movement.
// Any character other than a space or a dot is a wall.
func (t Tile) IsWall() bool {
	return t != TileEmpty && t != TileFloor
}

// Rune returns the tile's layout character.
func (t Tile) Rune() rune {
	return rune(t)
}
