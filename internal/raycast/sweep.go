package raycast

import (
	"context"
	"fmt"
	"math"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/raycaster/internal/telemetry"
)

// Column is one screen column of a sweep.
type Column struct {
	Index   int
	Heading float64
	Hit     Hit
	Strip   Strip
}

// Sweep casts one ray per column across a field of view centered on the
// player's heading. Column 0 is the leftmost ray, at Heading - fov/2, and
// consecutive columns are fov/columns apart. Any cast error aborts the
// sweep and no columns are returned.
func Sweep(ctx context.Context, c Caster, g Grid, player Player, columns int, fov float64) ([]Column, error) {
	if columns <= 0 {
		return nil, fmt.Errorf("%w: column count %d must be positive", ErrInvalidConfiguration, columns)
	}
	if !positive(fov) {
		return nil, fmt.Errorf("%w: field of view %v must be positive", ErrInvalidConfiguration, fov)
	}

	_, span := telemetry.Tracer("raycast").Start(ctx, "raycast.sweep")
	defer span.End()

	step := fov / float64(columns)
	start := player.Heading - fov/2

	out := make([]Column, columns)
	hits := 0
	nearest, farthest := math.Inf(1), 0.0
	for i := range out {
		heading := start + float64(i)*step
		hit, err := c.Cast(g, player.Position, heading)
		if err != nil {
			span.RecordError(err)
			return nil, fmt.Errorf("sweep column %d: %w", i, err)
		}
		if hit.Hit {
			hits++
		}
		nearest = min(nearest, hit.Distance)
		farthest = max(farthest, hit.Distance)
		out[i] = Column{Index: i, Heading: heading, Hit: hit}
	}

	span.SetAttributes(
		attribute.Int("sweep.columns", columns),
		attribute.Int("sweep.hits", hits),
		attribute.Float64("sweep.fov", fov),
		attribute.Float64("sweep.nearest", nearest),
		attribute.Float64("sweep.farthest", farthest),
	)
	return out, nil
}

// Frame runs a validated sweep for cfg and projects every column onto a
// screen of the given height.
func Frame(ctx context.Context, cfg Config, g Grid, player Player, screenHeight int) ([]Column, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if screenHeight <= 0 {
		return nil, fmt.Errorf("%w: screen height %d must be positive", ErrInvalidConfiguration, screenHeight)
	}

	cols, err := Sweep(ctx, cfg.Marcher(), g, player, cfg.Columns, cfg.FOV)
	if err != nil {
		return nil, err
	}

	proj := cfg.Projector()
	for i := range cols {
		cols[i].Strip = proj.Project(cols[i].Hit.Distance, screenHeight)
	}
	return cols, nil
}
