package game

import (
	"context"
	"fmt"
	"image"
	"math"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/raycaster/internal/canvas"
	"github.com/samdwyer/raycaster/internal/logging"
	"github.com/samdwyer/raycaster/internal/render"
	"github.com/samdwyer/raycaster/internal/telemetry"
	"github.com/samdwyer/raycaster/internal/ui"
)

const (
	turnStep = math.Pi / 36 // 5 degrees per key press
	moveFrac = 0.25         // Fraction of a cell per key press
)

// Game holds the preview state. The player is only changed between frames.
type Game struct {
	screen    *ui.Screen
	view      *ui.Renderer
	renderer  *render.Renderer
	scene     *render.Scene
	mode      Mode
	running   bool
	snapshot  string
	snapshots int
	message   string
	log       *zap.Logger
}

// New creates a preview on the terminal. Snapshots are written next to
// snapshotPath with a running number appended.
func New(renderer *render.Renderer, scene *render.Scene, mode Mode, snapshotPath string, log *zap.Logger) (*Game, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	g := newGame(renderer, scene, mode, snapshotPath, log)
	g.screen = screen
	g.view = ui.NewRenderer(screen)
	return g, nil
}

func newGame(renderer *render.Renderer, scene *render.Scene, mode Mode, snapshotPath string, log *zap.Logger) *Game {
	return &Game{
		renderer: renderer,
		scene:    scene,
		mode:     mode,
		running:  true,
		snapshot: snapshotPath,
		log:      logging.OrNop(log),
	}
}

// Run executes the preview loop until the user quits.
func (g *Game) Run(ctx context.Context) error {
	ctx, span := telemetry.Tracer("game").Start(ctx, "game.run")
	defer span.End()

	g.log.Info("preview started", zap.String("scene", g.scene.Name), zap.Stringer("mode", g.mode))

	frames := 0
	for g.running {
		g.draw(ctx)
		frames++
		g.handleInput(ctx)
	}

	span.SetAttributes(
		attribute.Int("game.frames", frames),
		attribute.Int("game.snapshots", g.snapshots),
	)
	g.Close()
	return nil
}

// Close cleans up the terminal.
func (g *Game) Close() {
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}

// frame renders the current mode.
func (g *Game) frame(ctx context.Context) (image.Image, error) {
	if g.mode == ModeMap {
		return g.renderer.RenderMap(ctx, g.scene)
	}
	img, _, err := g.renderer.RenderFrame(ctx, g.scene)
	return img, err
}

// draw renders a frame and shows it with the status line.
func (g *Game) draw(ctx context.Context) {
	img, err := g.frame(ctx)
	if err != nil {
		g.log.Error("render failed", zap.Error(err))
		g.message = err.Error()
		img = image.NewRGBA(image.Rect(0, 0, 1, 1))
	}
	g.view.Render(img, g.status())
}

func (g *Game) status() string {
	p := g.scene.Player
	s := fmt.Sprintf("%s | %s | x=%.0f y=%.0f heading=%.0f° | arrows/wasd move, m view, p snapshot, q quit",
		g.scene.Name, g.mode, p.Position.X, p.Position.Y, p.Heading*180/math.Pi)
	if g.message != "" {
		s = g.message + " | " + s
	}
	return s
}

// handleInput processes a single input event.
func (g *Game) handleInput(ctx context.Context) {
	switch ev := g.screen.PollEvent().(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		g.screen.Sync()
	case nil:
		g.running = false
	}
}

// handleKeyEvent processes keyboard input.
func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	g.message = ""

	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyUp:
		g.tryMove(0, 1)
	case tcell.KeyDown:
		g.tryMove(0, -1)
	case tcell.KeyLeft:
		g.turn(-1)
	case tcell.KeyRight:
		g.turn(1)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'w':
			g.tryMove(0, 1)
		case 's':
			g.tryMove(0, -1)
		case 'a':
			g.turn(-1)
		case 'd':
			g.turn(1)
		case ',':
			g.tryMove(-math.Pi/2, 1)
		case '.':
			g.tryMove(math.Pi/2, 1)
		case 'm':
			g.mode = g.mode.Toggle()
		case 'p':
			g.saveSnapshot(ctx)
		}
	}
}

// turn rotates the player by dir turn steps.
func (g *Game) turn(dir float64) {
	g.scene.Player = g.scene.Player.Turn(dir * turnStep)
}

// tryMove moves the player dir steps along heading+offset unless that
// would end inside a wall or off the map.
func (g *Game) tryMove(offset, dir float64) {
	dist := dir * moveFrac * float64(g.scene.Map.CellSize())
	next := g.scene.Player.Move(offset, dist)

	occupied, err := g.scene.Map.IsOccupied(next.Position.X, next.Position.Y)
	if err != nil || occupied {
		return
	}
	g.scene.Player = next
}

// saveSnapshot writes the current view to the next numbered snapshot path.
func (g *Game) saveSnapshot(ctx context.Context) {
	img, err := g.frame(ctx)
	if err != nil {
		g.message = err.Error()
		return
	}

	g.snapshots++
	path := numbered(g.snapshot, g.snapshots)
	if err := canvas.Save(ctx, path, img); err != nil {
		g.log.Error("snapshot failed", zap.String("path", path), zap.Error(err))
		g.message = err.Error()
		return
	}
	g.log.Info("snapshot saved", zap.String("path", path))
	g.message = "saved " + path
}

// numbered turns "out.ppm" into "out-003.ppm".
func numbered(path string, n int) string {
	ext := filepath.Ext(path)
	if ext == "" {
		ext = ".ppm"
	}
	return fmt.Sprintf("%s-%03d%s", strings.TrimSuffix(path, filepath.Ext(path)), n, ext)
}
