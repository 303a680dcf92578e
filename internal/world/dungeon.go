package world

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/raycaster/internal/telemetry"
)

const (
	// Default generated map dimensions, in cells
	DefaultWidth  = 40
	DefaultHeight = 40

	// BSP parameters
	minRoomSize = 4  // Smallest room edge
	maxRoomSize = 10 // Largest room edge
	minLeafSize = 8  // Leaves smaller than twice this are not split
)

// Dungeon is a procedurally generated cell grid: rooms joined by corridors,
// surrounded by solid rock so it can be turned straight into a TileMap.
type Dungeon struct {
	Width  int
	Height int
	Tiles  [][]Tile
	Rooms  []Room
	rng    *rand.Rand
}

// NewDungeon creates a dungeon of solid wall. A nil rng is seeded from the clock.
func NewDungeon(width, height int, rng *rand.Rand) *Dungeon {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	tiles := make([][]Tile, height)
	for y := range tiles {
		tiles[y] = make([]Tile, width)
		for x := range tiles[y] {
			tiles[y][x] = TileWall
		}
	}

	return &Dungeon{
		Width:  width,
		Height: height,
		Tiles:  tiles,
		rng:    rng,
	}
}

// Generate carves rooms and corridors using binary space partitioning.
// The outermost ring of cells is never carved.
func (d *Dungeon) Generate(ctx context.Context) {
	_, span := telemetry.Tracer("world").Start(ctx, "dungeon.generate")
	defer span.End()

	start := time.Now()

	root := &bspNode{x: 1, y: 1, width: d.Width - 2, height: d.Height - 2}
	d.split(root)
	d.placeRooms(root)
	d.connect(root)

	span.SetAttributes(
		attribute.Int("dungeon.width", d.Width),
		attribute.Int("dungeon.height", d.Height),
		attribute.Int("dungeon.room_count", len(d.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(start).Milliseconds()),
	)
}

// Spawn returns the center cell of the first room, or the middle of the map
// when no room could be placed.
func (d *Dungeon) Spawn() (int, int) {
	if len(d.Rooms) == 0 {
		return d.Width / 2, d.Height / 2
	}
	return d.Rooms[0].Center()
}

// Layout flattens the grid into a row-major layout string.
func (d *Dungeon) Layout() string {
	var b strings.Builder
	b.Grow(d.Width * d.Height)
	for _, row := range d.Tiles {
		for _, t := range row {
			b.WriteRune(t.Rune())
		}
	}
	return b.String()
}

// TileMap converts the dungeon into a tile map with the given cell size.
func (d *Dungeon) TileMap(cellSize int) (*TileMap, error) {
	m, err := NewTileMap(d.Layout(), d.Width, d.Height, cellSize)
	if err != nil {
		return nil, fmt.Errorf("dungeon to tile map: %w", err)
	}
	return m, nil
}

// bspNode is one region of the partition tree.
type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

// split divides a node along its longer axis until leaves are too small.
func (d *Dungeon) split(n *bspNode) {
	canSplitX := n.width >= minLeafSize*2
	canSplitY := n.height >= minLeafSize*2

	var horizontal bool
	switch {
	case canSplitX && n.width > n.height:
		horizontal = false
	case canSplitY:
		horizontal = true
	case canSplitX:
		horizontal = false
	default:
		return
	}

	span := n.width
	if horizontal {
		span = n.height
	}
	pos := minLeafSize + d.rng.Intn(span-2*minLeafSize+1)

	if horizontal {
		n.left = &bspNode{x: n.x, y: n.y, width: n.width, height: pos}
		n.right = &bspNode{x: n.x, y: n.y + pos, width: n.width, height: n.height - pos}
	} else {
		n.left = &bspNode{x: n.x, y: n.y, width: pos, height: n.height}
		n.right = &bspNode{x: n.x + pos, y: n.y, width: n.width - pos, height: n.height}
	}

	d.split(n.left)
	d.split(n.right)
}

// placeRooms carves one room into every leaf large enough to hold it.
func (d *Dungeon) placeRooms(n *bspNode) {
	if n == nil {
		return
	}
	if !n.isLeaf() {
		d.placeRooms(n.left)
		d.placeRooms(n.right)
		return
	}
	if n.width < minRoomSize+2 || n.height < minRoomSize+2 {
		return
	}

	w := minRoomSize + d.rng.Intn(min(maxRoomSize, n.width-2)-minRoomSize+1)
	h := minRoomSize + d.rng.Intn(min(maxRoomSize, n.height-2)-minRoomSize+1)
	room := Room{
		X:      n.x + 1 + d.rng.Intn(n.width-w-1),
		Y:      n.y + 1 + d.rng.Intn(n.height-h-1),
		Width:  w,
		Height: h,
	}
	n.room = &room
	d.Rooms = append(d.Rooms, room)

	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			d.carve(x, y)
		}
	}
}

// connect joins sibling subtrees with L-shaped corridors.
func (d *Dungeon) connect(n *bspNode) {
	if n == nil || n.isLeaf() {
		return
	}
	d.connect(n.left)
	d.connect(n.right)

	a, b := n.left.anyRoom(), n.right.anyRoom()
	if a == nil || b == nil {
		return
	}

	x1, y1 := a.Center()
	x2, y2 := b.Center()
	if d.rng.Intn(2) == 0 {
		d.carveRow(x1, x2, y1)
		d.carveColumn(y1, y2, x2)
	} else {
		d.carveColumn(y1, y2, x1)
		d.carveRow(x1, x2, y2)
	}
}

func (n *bspNode) anyRoom() *Room {
	if n == nil {
		return nil
	}
	if n.room != nil {
		return n.room
	}
	if r := n.left.anyRoom(); r != nil {
		return r
	}
	return n.right.anyRoom()
}

func (d *Dungeon) carveRow(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		d.carve(x, y)
	}
}

func (d *Dungeon) carveColumn(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		d.carve(x, y)
	}
}

// carve turns a cell into floor unless it lies on the border ring.
func (d *Dungeon) carve(x, y int) {
	if x > 0 && x < d.Width-1 && y > 0 && y < d.Height-1 {
		d.Tiles[y][x] = TileFloor
	}
}
