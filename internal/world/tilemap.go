package world

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

var (
	// ErrOutOfBounds is returned when a query falls outside the grid.
	ErrOutOfBounds = errors.New("world: coordinate outside tile map")
	// ErrMalformedLayout is returned when a layout does not match its dimensions.
	ErrMalformedLayout = errors.New("world: malformed layout")
)

// TileMap is an immutable grid of fixed-size cells, stored row-major.
// Coordinates passed to its queries are in world units; a cell spans
// CellSize units on each axis.
type TileMap struct {
	cellSize int
	columns  int
	rows     int
	cells    []Tile
}

// NewTileMap builds a tile map from a flat layout string holding one
// character per cell. A single trailing NUL or newline is accepted as a
// terminator.
func NewTileMap(layout string, columns, rows, cellSize int) (*TileMap, error) {
	if columns <= 0 || rows <= 0 || cellSize <= 0 {
		return nil, fmt.Errorf("%w: dimensions %dx%d with cell size %d", ErrMalformedLayout, columns, rows, cellSize)
	}

	layout = strings.TrimSuffix(layout, "\x00")
	layout = strings.TrimSuffix(layout, "\n")

	cells := make([]Tile, 0, len(layout))
	for _, r := range layout {
		cells = append(cells, Tile(r))
	}
	if len(cells) != columns*rows {
		return nil, fmt.Errorf("%w: got %d cells, want %d (%dx%d)", ErrMalformedLayout, len(cells), columns*rows, columns, rows)
	}

	return &TileMap{
		cellSize: cellSize,
		columns:  columns,
		rows:     rows,
		cells:    cells,
	}, nil
}

// MustTileMap builds a tile map, panicking on error.
// Use this for layouts compiled into the program.
func MustTileMap(layout string, columns, rows, cellSize int) *TileMap {
	m, err := NewTileMap(layout, columns, rows, cellSize)
	if err != nil {
		panic(err)
	}
	return m
}

// CellSize returns the side length of a cell in world units.
func (m *TileMap) CellSize() int { return m.cellSize }

// Columns returns the grid width in cells.
func (m *TileMap) Columns() int { return m.columns }

// Rows returns the grid height in cells.
func (m *TileMap) Rows() int { return m.rows }

// Width returns the map width in world units.
func (m *TileMap) Width() float64 { return float64(m.columns * m.cellSize) }

// Height returns the map height in world units.
func (m *TileMap) Height() float64 { return float64(m.rows * m.cellSize) }

// Cell returns the tile at the given grid position.
func (m *TileMap) Cell(col, row int) (Tile, error) {
	if col < 0 || col >= m.columns || row < 0 || row >= m.rows {
		return TileWall, fmt.Errorf("%w: cell (%d,%d) in %dx%d grid", ErrOutOfBounds, col, row, m.columns, m.rows)
	}
	return m.cells[row*m.columns+col], nil
}

// CellAt returns the grid position containing the world point (x, y).
func (m *TileMap) CellAt(x, y float64) (col, row int) {
	size := float64(m.cellSize)
	return int(math.Floor(x / size)), int(math.Floor(y / size))
}

// TileAt returns the tile containing the world point (x, y).
func (m *TileMap) TileAt(x, y float64) (Tile, error) {
	col, row := m.CellAt(x, y)
	t, err := m.Cell(col, row)
	if err != nil {
		return t, fmt.Errorf("point (%.2f,%.2f): %w", x, y, err)
	}
	return t, nil
}

// IsOccupied reports whether the world point (x, y) lies in a wall cell.
func (m *TileMap) IsOccupied(x, y float64) (bool, error) {
	t, err := m.TileAt(x, y)
	if err != nil {
		return false, err
	}
	return t.IsWall(), nil
}

// IsBordered reports whether every cell on the outer ring is a wall, which
// keeps rays cast from inside the map from ever leaving it.
func (m *TileMap) IsBordered() bool {
	for col := 0; col < m.columns; col++ {
		if !m.cells[col].IsWall() || !m.cells[(m.rows-1)*m.columns+col].IsWall() {
			return false
		}
	}
	for row := 0; row < m.rows; row++ {
		if !m.cells[row*m.columns].IsWall() || !m.cells[row*m.columns+m.columns-1].IsWall() {
			return false
		}
	}
	return true
}

// Layout returns the flat layout string the map was built from.
func (m *TileMap) Layout() string {
	var b strings.Builder
	b.Grow(len(m.cells))
	for _, t := range m.cells {
		b.WriteRune(t.Rune())
	}
	return b.String()
}

// String renders the map one row per line.
func (m *TileMap) String() string {
	layout := []rune(m.Layout())
	var b strings.Builder
	for row := 0; row < m.rows; row++ {
		b.WriteString(string(layout[row*m.columns : (row+1)*m.columns]))
		b.WriteByte('\n')
	}
	return b.String()
}
