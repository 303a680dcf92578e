// Package raycast casts visibility rays through a tile map and projects the
// measured distances into wall-strip heights.
package raycast

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is returned when a render parameter is out of range.
// Nothing is cast when it is returned.
var ErrInvalidConfiguration = errors.New("raycast: invalid configuration")

// DefaultEpsilon is substituted for distances at or below it during projection.
const DefaultEpsilon = 1e-3

// Config holds the per-render parameters of a sweep.
type Config struct {
	FOV                float64 // Field of view in radians
	Columns            int     // One ray per column
	StepLength         float64 // Marching increment in world units
	MaxRange           float64 // Rays stop after this distance
	ProjectionConstant float64 // Strip height = ProjectionConstant / distance
	Epsilon            float64 // Distance floor for projection; 0 means DefaultEpsilon
}

// DefaultConfig returns the parameters used for a 512x512 frame over a map
// with 32-unit cells.
func DefaultConfig() Config {
	return Config{
		FOV:                math.Pi / 3,
		Columns:            512,
		StepLength:         1,
		MaxRange:           512,
		ProjectionConstant: 16384,
		Epsilon:            DefaultEpsilon,
	}
}

// Validate reports the first out-of-range parameter.
func (c Config) Validate() error {
	switch {
	case !positive(c.FOV):
		return fmt.Errorf("%w: field of view %v must be positive", ErrInvalidConfiguration, c.FOV)
	case c.Columns <= 0:
		return fmt.Errorf("%w: column count %d must be positive", ErrInvalidConfiguration, c.Columns)
	case !positive(c.StepLength):
		return fmt.Errorf("%w: step length %v must be positive", ErrInvalidConfiguration, c.StepLength)
	case !positive(c.MaxRange):
		return fmt.Errorf("%w: max range %v must be positive", ErrInvalidConfiguration, c.MaxRange)
	case !nonNegative(c.ProjectionConstant):
		return fmt.Errorf("%w: projection constant %v must not be negative", ErrInvalidConfiguration, c.ProjectionConstant)
	case !nonNegative(c.Epsilon):
		return fmt.Errorf("%w: epsilon %v must not be negative", ErrInvalidConfiguration, c.Epsilon)
	}
	return nil
}

// positive reports whether x is finite and greater than zero. NaN fails.
func positive(x float64) bool {
	return x > 0 && !math.IsInf(x, 1)
}

// nonNegative reports whether x is finite and at least zero. NaN fails.
func nonNegative(x float64) bool {
	return x >= 0 && !math.IsInf(x, 1)
}

// Marcher returns the ray caster described by the config.
func (c Config) Marcher() Marcher {
	return Marcher{StepLength: c.StepLength, MaxRange: c.MaxRange}
}

// Projector returns the wall projector described by the config.
func (c Config) Projector() Projector {
	return Projector{Constant: c.ProjectionConstant, Epsilon: c.Epsilon}
}
