package mapdata

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/samdwyer/raycaster/internal/raycast"
	"github.com/samdwyer/raycaster/internal/render"
	"github.com/samdwyer/raycaster/internal/world"
)

// ErrInvalidMap is returned for definitions that cannot be turned into a tile map.
var ErrInvalidMap = errors.New("mapdata: invalid map definition")

// Spawn is the player's starting pose. Heading is in degrees, clockwise
// from +X.
type Spawn struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// WallRect is an axis-aligned wall [x0, x1) x [y0, y1) in world units.
type WallRect [4]int

// MapDef is one map loaded from maps.json. A map is described either by
// Layout (one string per row, one character per cell) or by Walls, which
// are rasterized onto a Columns x Rows grid.
type MapDef struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	CellSize   int               `json:"cellSize"`
	Layout     []string          `json:"layout,omitempty"`
	Columns    int               `json:"columns,omitempty"`
	Rows       int               `json:"rows,omitempty"`
	Walls      []WallRect        `json:"walls,omitempty"`
	Spawn      Spawn             `json:"spawn"`
	WallColors map[string]string `json:"wallColors"`
	FogColor   string            `json:"fogColor"`
}

// MapsFile represents the structure of maps.json.
type MapsFile struct {
	Maps []MapDef `json:"maps"`
}

// LoadMaps loads map definitions from the embedded maps.json file.
func LoadMaps() ([]MapDef, error) {
	file, err := Load[MapsFile]("maps.json")
	if err != nil {
		return nil, err
	}
	return file.Maps, nil
}

// TileMap builds the map's tile grid.
func (d *MapDef) TileMap() (*world.TileMap, error) {
	var (
		layout        string
		columns, rows int
	)
	switch {
	case len(d.Layout) > 0:
		rows = len(d.Layout)
		columns = utf8.RuneCountInString(d.Layout[0])
		for i, row := range d.Layout {
			if n := utf8.RuneCountInString(row); n != columns {
				return nil, fmt.Errorf("%w: %s row %d has %d cells, want %d", ErrInvalidMap, d.ID, i, n, columns)
			}
		}
		layout = strings.Join(d.Layout, "")
	case len(d.Walls) > 0:
		columns, rows = d.Columns, d.Rows
		var err error
		if layout, err = d.rasterize(); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s has neither layout nor walls", ErrInvalidMap, d.ID)
	}

	m, err := world.NewTileMap(layout, columns, rows, d.CellSize)
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", d.ID, err)
	}
	return m, nil
}

// rasterize marks every cell a wall rectangle overlaps.
func (d *MapDef) rasterize() (string, error) {
	if d.Columns <= 0 || d.Rows <= 0 || d.CellSize <= 0 {
		return "", fmt.Errorf("%w: %s walls need positive columns, rows and cell size", ErrInvalidMap, d.ID)
	}

	cells := []byte(strings.Repeat(string(world.TileEmpty), d.Columns*d.Rows))
	size := float64(d.CellSize)
	for _, w := range d.Walls {
		x0, y0, x1, y1 := w[0], w[1], w[2], w[3]
		if x0 > x1 || y0 > y1 {
			return "", fmt.Errorf("%w: %s wall %v is inverted", ErrInvalidMap, d.ID, w)
		}
		c0 := max(int(math.Floor(float64(x0)/size)), 0)
		r0 := max(int(math.Floor(float64(y0)/size)), 0)
		c1 := min(int(math.Ceil(float64(x1)/size)), d.Columns)
		r1 := min(int(math.Ceil(float64(y1)/size)), d.Rows)
		for row := r0; row < r1; row++ {
			for col := c0; col < c1; col++ {
				cells[row*d.Columns+col] = byte(world.TileWall)
			}
		}
	}
	return string(cells), nil
}

// Palette resolves the map's colors. Characters without an entry are drawn
// in white; a missing fog color is black.
func (d *MapDef) Palette() (render.Palette, error) {
	p := render.DefaultPalette()
	for key, hex := range d.WallColors {
		r, size := utf8.DecodeRuneInString(key)
		if size != len(key) || size == 0 {
			return p, fmt.Errorf("%w: %s wall color key %q must be one character", ErrInvalidMap, d.ID, key)
		}
		c, err := ParseHexColor(hex)
		if err != nil {
			return p, fmt.Errorf("map %s: %w", d.ID, err)
		}
		p.Walls[world.Tile(r)] = c
	}
	if d.FogColor != "" {
		c, err := ParseHexColor(d.FogColor)
		if err != nil {
			return p, fmt.Errorf("map %s: %w", d.ID, err)
		}
		p.Fog = c
	}
	return p, nil
}

// Player returns the spawn pose with the heading in radians.
func (d *MapDef) Player() raycast.Player {
	return raycast.Player{
		Position: raycast.Point{X: d.Spawn.X, Y: d.Spawn.Y},
		Heading:  d.Spawn.Heading * math.Pi / 180,
	}
}

// Scene builds everything needed to render the map from its spawn point.
func (d *MapDef) Scene() (*render.Scene, error) {
	m, err := d.TileMap()
	if err != nil {
		return nil, err
	}
	palette, err := d.Palette()
	if err != nil {
		return nil, err
	}

	player := d.Player()
	if occupied, err := m.IsOccupied(player.Position.X, player.Position.Y); err != nil || occupied {
		return nil, fmt.Errorf("%w: %s spawn (%v,%v) is not in an empty cell", ErrInvalidMap, d.ID, d.Spawn.X, d.Spawn.Y)
	}

	return &render.Scene{
		Name:    d.Name,
		Map:     m,
		Player:  player,
		Palette: palette,
	}, nil
}
