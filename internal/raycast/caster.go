package raycast

import (
	"fmt"

	"github.com/samdwyer/raycaster/internal/world"
)

// Grid is the occupancy model a ray marches through. *world.TileMap
// implements it.
type Grid interface {
	TileAt(x, y float64) (world.Tile, error)
}

// Hit is the result of one cast.
type Hit struct {
	Distance float64    // In [0, MaxRange]
	Hit      bool       // False when the ray exhausted MaxRange
	Point    Point      // Where the ray stopped
	Tile     world.Tile // Tile struck, TileEmpty on a miss
}

// Caster finds the first wall along a ray. Marcher is the fixed-step
// implementation; an exact grid traversal can satisfy the same contract.
type Caster interface {
	Cast(g Grid, origin Point, heading float64) (Hit, error)
}

// Marcher samples a ray at uniform arc-length increments. Walls thinner
// than StepLength can be skipped and distances are quantized to StepLength.
type Marcher struct {
	StepLength float64
	MaxRange   float64
}

// Cast samples origin + t*(cos h, sin h) for t = 0, StepLength, 2*StepLength, …
// below MaxRange and returns the first t whose sample lies in a wall.
// The origin is expected to be in an empty cell.
func (m Marcher) Cast(g Grid, origin Point, heading float64) (Hit, error) {
	if !positive(m.StepLength) || !positive(m.MaxRange) {
		return Hit{}, fmt.Errorf("%w: step %v, range %v", ErrInvalidConfiguration, m.StepLength, m.MaxRange)
	}

	for i := 0; ; i++ {
		t := float64(i) * m.StepLength
		if t >= m.MaxRange {
			break
		}
		p := origin.Advance(heading, t)
		tile, err := g.TileAt(p.X, p.Y)
		if err != nil {
			return Hit{}, fmt.Errorf("cast from (%.2f,%.2f) at %.4f rad, t=%.2f: %w", origin.X, origin.Y, heading, t, err)
		}
		if tile.IsWall() {
			return Hit{Distance: t, Hit: true, Point: p, Tile: tile}, nil
		}
	}

	return Hit{
		Distance: m.MaxRange,
		Point:    origin.Advance(heading, m.MaxRange),
		Tile:     world.TileEmpty,
	}, nil
}
