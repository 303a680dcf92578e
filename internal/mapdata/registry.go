package mapdata

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/raycaster/internal/raycast"
	"github.com/samdwyer/raycaster/internal/render"
	"github.com/samdwyer/raycaster/internal/telemetry"
	"github.com/samdwyer/raycaster/internal/world"
)

// GeneratedID selects a procedurally generated map instead of a built-in one.
const GeneratedID = "generated"

// generatedCellSize matches the built-in maps so the default projection
// constant suits generated maps too.
const generatedCellSize = 32

// ErrUnknownMap is returned by Resolve for ids that are neither built in
// nor GeneratedID.
var ErrUnknownMap = errors.New("mapdata: unknown map")

// MapRegistry holds loaded map definitions keyed by id.
type MapRegistry struct {
	maps map[string]*MapDef
	all  []MapDef
}

// NewMapRegistry creates a registry from loaded map definitions.
func NewMapRegistry(maps []MapDef) *MapRegistry {
	registry := &MapRegistry{
		maps: make(map[string]*MapDef),
		all:  maps,
	}
	for i := range maps {
		registry.maps[maps[i].ID] = &maps[i]
	}
	return registry
}

// LoadMapRegistry loads and creates a registry from the embedded maps.json.
func LoadMapRegistry() (*MapRegistry, error) {
	maps, err := LoadMaps()
	if err != nil {
		return nil, err
	}
	if len(maps) == 0 {
		return nil, errors.New("no maps loaded from maps.json")
	}
	return NewMapRegistry(maps), nil
}

// MustLoadMapRegistry loads a registry, panicking on error.
func MustLoadMapRegistry() *MapRegistry {
	registry, err := LoadMapRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the map with the given id, or nil if not found.
func (r *MapRegistry) GetByID(id string) *MapDef {
	return r.maps[id]
}

// All returns all map definitions.
func (r *MapRegistry) All() []MapDef {
	return r.all
}

// IDs returns the sorted ids of every built-in map.
func (r *MapRegistry) IDs() []string {
	ids := make([]string, 0, len(r.maps))
	for id := range r.maps {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Count returns the number of maps in the registry.
func (r *MapRegistry) Count() int {
	return len(r.all)
}

// Resolve builds the scene for id. GeneratedID produces a BSP dungeon from
// seed; a seed of 0 draws one from the clock and reports it in the scene
// name and the span.
func (r *MapRegistry) Resolve(ctx context.Context, id string, seed int64) (*render.Scene, error) {
	ctx, span := telemetry.Tracer("mapdata").Start(ctx, "map.load")
	defer span.End()
	span.SetAttributes(attribute.String("map.id", id))

	if id == GeneratedID {
		if seed == 0 {
			seed = clockSeed()
		}
		span.SetAttributes(attribute.Int64("map.seed", seed))
		return generate(ctx, seed)
	}

	def := r.GetByID(id)
	if def == nil {
		return nil, fmt.Errorf("%w: %q (have %v)", ErrUnknownMap, id, r.IDs())
	}
	scene, err := def.Scene()
	if err != nil {
		span.RecordError(err)
		return nil, err
	}
	span.SetAttributes(
		attribute.Int("map.columns", scene.Map.Columns()),
		attribute.Int("map.rows", scene.Map.Rows()),
	)
	return scene, nil
}

// clockSeed draws a non-zero seed from the clock.
func clockSeed() int64 {
	if s := time.Now().UnixNano(); s != 0 {
		return s
	}
	return 1
}

// generate builds a dungeon scene. The seed is named in the scene so the
// same map can be reproduced later.
func generate(ctx context.Context, seed int64) (*render.Scene, error) {
	rng := rand.New(rand.NewSource(seed))
	d := world.NewDungeon(world.DefaultWidth, world.DefaultHeight, rng)
	d.Generate(ctx)

	m, err := d.TileMap(generatedCellSize)
	if err != nil {
		return nil, err
	}

	col, row := d.Spawn()
	return &render.Scene{
		Name: fmt.Sprintf("Generated (seed %d)", seed),
		Map:  m,
		Player: raycast.Player{
			Position: raycast.Point{
				X: (float64(col) + 0.5) * generatedCellSize,
				Y: (float64(row) + 0.5) * generatedCellSize,
			},
		},
		Palette: render.DefaultPalette(),
	}, nil
}
