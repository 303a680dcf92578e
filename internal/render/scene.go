// Package render draws scenes onto a canvas: the first-person raycast view
// and a top-down view of the map.
package render

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/samdwyer/raycaster/internal/raycast"
	"github.com/samdwyer/raycaster/internal/world"
)

// Scene is everything one frame is rendered from. The map is shared
// read-only; the player is copied into every sweep.
type Scene struct {
	Name    string
	Map     *world.TileMap
	Player  raycast.Player
	Palette Palette
}

// Palette maps wall tiles to colors. Distant walls fade toward Fog.
type Palette struct {
	Walls   map[world.Tile]colorful.Color
	Default colorful.Color
	Fog     colorful.Color
}

// DefaultPalette draws every wall white on a black fog.
func DefaultPalette() Palette {
	return Palette{
		Walls:   make(map[world.Tile]colorful.Color),
		Default: colorful.Color{R: 1, G: 1, B: 1},
		Fog:     colorful.Color{},
	}
}

// Wall returns the undimmed color of a tile.
func (p Palette) Wall(t world.Tile) colorful.Color {
	if c, ok := p.Walls[t]; ok {
		return c
	}
	return p.Default
}

// Shade returns the tile's color blended toward the fog by depth, where
// 0 is at the viewer and 1 is at the end of the ray's range.
func (p Palette) Shade(t world.Tile, depth float64) color.RGBA {
	depth = min(max(depth, 0), 1)
	return toRGBA(p.Wall(t).BlendRgb(p.Fog, depth))
}

func toRGBA(c colorful.Color) color.RGBA {
	r, g, b := c.Clamped().RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
