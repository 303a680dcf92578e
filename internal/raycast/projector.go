package raycast

// Strip is the on-screen extent of one column's wall.
type Strip struct {
	Height float64 // In [0, screen height]
	Offset float64 // Distance from the top of the screen to the strip
}

// Bottom returns the row just past the strip.
func (s Strip) Bottom() float64 {
	return s.Offset + s.Height
}

// Projector maps a distance to a vertically centered strip using an
// inverse-distance projection.
type Projector struct {
	Constant float64
	Epsilon  float64
}

// Project returns the strip for a wall at distance on a screen of the
// given height. Distances at or below Epsilon use Epsilon.
func (p Projector) Project(distance float64, screenHeight int) Strip {
	eps := p.Epsilon
	if eps <= 0 {
		eps = DefaultEpsilon
	}
	h := float64(screenHeight)
	if h <= 0 {
		return Strip{}
	}

	height := p.Constant / max(distance, eps)
	height = min(max(height, 0), h)

	return Strip{
		Height: height,
		Offset: (h - height) / 2,
	}
}
