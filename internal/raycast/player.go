package raycast

import "math"

// Point is a position in world units.
type Point struct {
	X, Y float64
}

// Advance returns the point reached by travelling dist along heading.
// Headings follow screen orientation: 0 points along +X and angles grow
// clockwise because +Y points down.
func (p Point) Advance(heading, dist float64) Point {
	return Point{
		X: p.X + dist*math.Cos(heading),
		Y: p.Y + dist*math.Sin(heading),
	}
}

// Player is the viewer's pose. A sweep reads a copy, so a player is only
// ever changed between frames.
type Player struct {
	Position Point
	Heading  float64 // Radians
}

// Turn returns the player rotated by delta radians, with the heading
// normalized into [0, 2π).
func (p Player) Turn(delta float64) Player {
	h := math.Mod(p.Heading+delta, 2*math.Pi)
	if h < 0 {
		h += 2 * math.Pi
	}
	p.Heading = h
	return p
}

// Move returns the player advanced dist along heading+offset.
func (p Player) Move(offset, dist float64) Player {
	p.Position = p.Position.Advance(p.Heading+offset, dist)
	return p
}
