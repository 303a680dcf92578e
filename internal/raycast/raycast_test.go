package raycast

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/samdwyer/raycaster/internal/world"
)

// room16 is a single 16x16 room enclosed by a wall ring.
var room16 = strings.Repeat("#", 16) +
	strings.Repeat("#"+strings.Repeat(" ", 14)+"#", 14) +
	strings.Repeat("#", 16)

// hallWithPillar builds a bordered 40x40 map with one wall cell at (25,17).
func hallWithPillar() *world.TileMap {
	const n = 40
	cells := make([]rune, 0, n*n)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			switch {
			case row == 0 || row == n-1 || col == 0 || col == n-1:
				cells = append(cells, '#')
			case col == 25 && row == 17:
				cells = append(cells, '#')
			default:
				cells = append(cells, ' ')
			}
		}
	}
	return world.MustTileMap(string(cells), n, n, 32)
}

func TestCastScenarioCenterOfRoom(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	marcher := Marcher{StepLength: 1, MaxRange: 512}

	// Each wall's inner face is 224 units from the room center.
	for _, heading := range []float64{0, math.Pi / 2, math.Pi, 3 * math.Pi / 2} {
		hit, err := marcher.Cast(m, Point{256, 256}, heading)
		if err != nil {
			t.Fatalf("Cast(%v) failed: %v", heading, err)
		}
		if !hit.Hit {
			t.Errorf("Cast(%v) expected a hit", heading)
		}
		if math.Abs(hit.Distance-224) > marcher.StepLength {
			t.Errorf("Cast(%v) distance = %v, want 224 ± %v", heading, hit.Distance, marcher.StepLength)
		}
		if hit.Tile != world.TileWall {
			t.Errorf("Cast(%v) tile = %q, want '#'", heading, hit.Tile.Rune())
		}
	}
}

func TestCastHitBoundary(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	marcher := Marcher{StepLength: 0.75, MaxRange: 512}
	origin := Point{200, 300}

	for i := 0; i < 360; i++ {
		heading := float64(i) * math.Pi / 180
		hit, err := marcher.Cast(m, origin, heading)
		if err != nil {
			t.Fatalf("Cast(%v) failed: %v", heading, err)
		}
		if hit.Distance < 0 || hit.Distance > marcher.MaxRange {
			t.Errorf("Cast(%v) distance %v outside [0, %v]", heading, hit.Distance, marcher.MaxRange)
		}
		if !hit.Hit {
			continue
		}

		at := origin.Advance(heading, hit.Distance)
		if occupied, _ := m.IsOccupied(at.X, at.Y); !occupied {
			t.Errorf("Cast(%v) reported hit at empty point %+v", heading, at)
		}
		if prev := hit.Distance - marcher.StepLength; prev >= 0 {
			before := origin.Advance(heading, prev)
			if occupied, _ := m.IsOccupied(before.X, before.Y); occupied {
				t.Errorf("Cast(%v) passed an earlier wall at %+v", heading, before)
			}
		}
	}
}

func TestCastCoarserStepNeverMuchCloser(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	origin := Point{100, 250}

	for _, step := range []float64{0.5, 1, 2, 4} {
		fine, err := Marcher{StepLength: step, MaxRange: 512}.Cast(m, origin, 0.3)
		if err != nil {
			t.Fatalf("fine cast failed: %v", err)
		}
		coarse, err := Marcher{StepLength: 2 * step, MaxRange: 512}.Cast(m, origin, 0.3)
		if err != nil {
			t.Fatalf("coarse cast failed: %v", err)
		}
		if coarse.Distance < fine.Distance-step {
			t.Errorf("step %v: coarse distance %v is more than %v below fine distance %v", step, coarse.Distance, step, fine.Distance)
		}
	}
}

func TestCastMissReturnsMaxRange(t *testing.T) {
	m := hallWithPillar()
	marcher := Marcher{StepLength: 1, MaxRange: 512}

	hit, err := marcher.Cast(m, Point{640, 640}, 0)
	if err != nil {
		t.Fatalf("Cast failed: %v", err)
	}
	if hit.Hit {
		t.Errorf("Expected a miss, got hit at %v", hit.Distance)
	}
	if hit.Distance != 512 {
		t.Errorf("Miss distance = %v, want 512", hit.Distance)
	}
	if hit.Tile != world.TileEmpty {
		t.Errorf("Miss tile = %q, want empty", hit.Tile.Rune())
	}
}

func TestCastErrors(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)

	nan, inf := math.NaN(), math.Inf(1)
	marchers := []Marcher{
		{StepLength: 0, MaxRange: 10},
		{StepLength: -1, MaxRange: 10},
		{StepLength: 1, MaxRange: 0},
		{StepLength: nan, MaxRange: 10},
		{StepLength: 1, MaxRange: nan},
		{StepLength: inf, MaxRange: 10},
		{StepLength: 1, MaxRange: inf},
	}
	for _, marcher := range marchers {
		if _, err := marcher.Cast(m, Point{256, 256}, 0); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("%+v: expected ErrInvalidConfiguration, got %v", marcher, err)
		}
	}

	open := world.MustTileMap(strings.Repeat(" ", 16*16), 16, 16, 32)
	_, err := Marcher{StepLength: 1, MaxRange: 1000}.Cast(open, Point{256, 256}, 0)
	if !errors.Is(err, world.ErrOutOfBounds) {
		t.Errorf("Expected ErrOutOfBounds from unbordered map, got %v", err)
	}
}

func TestSweepColumnOrder(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	player := Player{Position: Point{256, 256}, Heading: 1}
	fov := math.Pi / 3

	cols, err := Sweep(context.Background(), Marcher{StepLength: 1, MaxRange: 512}, m, player, 64, fov)
	if err != nil {
		t.Fatalf("Sweep failed: %v", err)
	}
	if len(cols) != 64 {
		t.Fatalf("Expected 64 columns, got %d", len(cols))
	}

	if math.Abs(cols[0].Heading-(player.Heading-fov/2)) > 1e-12 {
		t.Errorf("Column 0 heading = %v, want %v", cols[0].Heading, player.Heading-fov/2)
	}
	for i, c := range cols {
		if c.Index != i {
			t.Errorf("Column %d has index %d", i, c.Index)
		}
		if i > 0 && c.Heading <= cols[i-1].Heading {
			t.Errorf("Column %d heading %v not after column %d heading %v", i, c.Heading, i-1, cols[i-1].Heading)
		}
	}
	// Centered: the middle column looks straight ahead.
	if math.Abs(cols[32].Heading-player.Heading) > 1e-12 {
		t.Errorf("Middle column heading = %v, want %v", cols[32].Heading, player.Heading)
	}
}

func TestSweepScenarioCenterColumnDistance(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	cfg := DefaultConfig()

	cols, err := Frame(context.Background(), cfg, m, Player{Position: Point{256, 256}}, 512)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	center := cols[cfg.Columns/2]
	if math.Abs(center.Hit.Distance-224) > cfg.StepLength {
		t.Errorf("Center column distance = %v, want 224 ± %v", center.Hit.Distance, cfg.StepLength)
	}
}

func TestSweepScenarioOutOfRange(t *testing.T) {
	m := hallWithPillar()
	cfg := DefaultConfig()
	cfg.Columns = 128

	cols, err := Frame(context.Background(), cfg, m, Player{Position: Point{640, 640}}, 512)
	if err != nil {
		t.Fatalf("Frame failed: %v", err)
	}

	center := cols[cfg.Columns/2]
	if center.Hit.Hit || center.Hit.Distance != cfg.MaxRange {
		t.Fatalf("Center column = %+v, want a miss at %v", center.Hit, cfg.MaxRange)
	}

	sawHit := false
	for _, c := range cols {
		if c.Hit.Hit {
			sawHit = true
		}
		if c.Strip.Height < center.Strip.Height {
			t.Errorf("Column %d height %v is below the out-of-range column's %v", c.Index, c.Strip.Height, center.Strip.Height)
		}
	}
	if !sawHit {
		t.Error("Expected the pillar to be hit by some column")
	}
}

func TestSweepInvalidConfiguration(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	marcher := Marcher{StepLength: 1, MaxRange: 512}
	player := Player{Position: Point{256, 256}}

	tests := []struct {
		columns int
		fov     float64
	}{
		{0, 1},
		{-3, 1},
		{10, 0},
		{10, -0.5},
	}
	for _, tt := range tests {
		cols, err := Sweep(context.Background(), marcher, m, player, tt.columns, tt.fov)
		if !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Sweep(%d, %v) expected ErrInvalidConfiguration, got %v", tt.columns, tt.fov, err)
		}
		if cols != nil {
			t.Errorf("Sweep(%d, %v) returned partial columns", tt.columns, tt.fov)
		}
	}
}

// failingCaster errors on its nth call.
type failingCaster struct {
	calls, failAt int
}

func (f *failingCaster) Cast(g Grid, origin Point, heading float64) (Hit, error) {
	f.calls++
	if f.calls == f.failAt {
		return Hit{}, world.ErrOutOfBounds
	}
	return Hit{Distance: 10, Hit: true}, nil
}

func TestSweepAbortsOnCastError(t *testing.T) {
	m := world.MustTileMap(room16, 16, 16, 32)
	caster := &failingCaster{failAt: 4}

	cols, err := Sweep(context.Background(), caster, m, Player{}, 10, 1)
	if !errors.Is(err, world.ErrOutOfBounds) {
		t.Fatalf("Expected ErrOutOfBounds, got %v", err)
	}
	if cols != nil {
		t.Error("Expected no columns after a failed cast")
	}
	if caster.calls != 4 {
		t.Errorf("Expected sweep to stop after 4 casts, got %d", caster.calls)
	}
}

func TestConfigValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}

	mutations := []func(*Config){
		func(c *Config) { c.FOV = 0 },
		func(c *Config) { c.Columns = 0 },
		func(c *Config) { c.StepLength = -1 },
		func(c *Config) { c.MaxRange = 0 },
		func(c *Config) { c.ProjectionConstant = -1 },
		func(c *Config) { c.Epsilon = -1 },
		func(c *Config) { c.FOV = math.NaN() },
		func(c *Config) { c.StepLength = math.NaN() },
		func(c *Config) { c.MaxRange = math.NaN() },
		func(c *Config) { c.MaxRange = math.Inf(1) },
		func(c *Config) { c.ProjectionConstant = math.NaN() },
		func(c *Config) { c.Epsilon = math.NaN() },
	}
	for i, mutate := range mutations {
		cfg := DefaultConfig()
		mutate(&cfg)
		if err := cfg.Validate(); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("Mutation %d: expected ErrInvalidConfiguration, got %v", i, err)
		}
	}

	cfg := DefaultConfig()
	cfg.StepLength = 0
	if _, err := Frame(context.Background(), cfg, world.MustTileMap(room16, 16, 16, 32), Player{Position: Point{256, 256}}, 512); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Frame with zero step: expected ErrInvalidConfiguration, got %v", err)
	}

	// A NaN step must be rejected before any sample reaches the grid.
	cfg = DefaultConfig()
	cfg.StepLength = math.NaN()
	_, err := Frame(context.Background(), cfg, world.MustTileMap(room16, 16, 16, 32), Player{Position: Point{256, 256}}, 512)
	if !errors.Is(err, ErrInvalidConfiguration) || errors.Is(err, world.ErrOutOfBounds) {
		t.Errorf("Frame with NaN step: expected ErrInvalidConfiguration only, got %v", err)
	}

	if _, err := Sweep(context.Background(), DefaultConfig().Marcher(), world.MustTileMap(room16, 16, 16, 32), Player{Position: Point{256, 256}}, 8, math.NaN()); !errors.Is(err, ErrInvalidConfiguration) {
		t.Errorf("Sweep with NaN fov: expected ErrInvalidConfiguration, got %v", err)
	}
}

func TestPlayerTurnAndMove(t *testing.T) {
	p := Player{Position: Point{10, 10}, Heading: 0}

	turned := p.Turn(-math.Pi / 2)
	if math.Abs(turned.Heading-3*math.Pi/2) > 1e-12 {
		t.Errorf("Turn(-π/2) heading = %v, want 3π/2", turned.Heading)
	}
	if p.Heading != 0 {
		t.Error("Turn mutated the receiver")
	}

	moved := p.Move(0, 5)
	if math.Abs(moved.Position.X-15) > 1e-12 || math.Abs(moved.Position.Y-10) > 1e-12 {
		t.Errorf("Move(0, 5) = %+v, want (15,10)", moved.Position)
	}

	// +Y points down, so a quarter turn clockwise moves toward larger Y.
	down := p.Move(math.Pi/2, 5)
	if math.Abs(down.Position.Y-15) > 1e-9 {
		t.Errorf("Move(π/2, 5) = %+v, want y=15", down.Position)
	}
}
