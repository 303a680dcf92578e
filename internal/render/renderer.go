package render

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/samdwyer/raycaster/internal/canvas"
	"github.com/samdwyer/raycaster/internal/logging"
	"github.com/samdwyer/raycaster/internal/raycast"
	"github.com/samdwyer/raycaster/internal/telemetry"
)

var (
	playerColor = color.RGBA{R: 255, G: 220, A: 255}
	rayColor    = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Options sizes the output and parameterizes the sweep.
type Options struct {
	Width   int
	Height  int
	Raycast raycast.Config
}

// Renderer turns scenes into canvases.
type Renderer struct {
	opts Options
	log  *zap.Logger
}

// New creates a renderer, rejecting invalid options before anything is drawn.
func New(opts Options, log *zap.Logger) (*Renderer, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: canvas %dx%d", raycast.ErrInvalidConfiguration, opts.Width, opts.Height)
	}
	if err := opts.Raycast.Validate(); err != nil {
		return nil, err
	}
	return &Renderer{opts: opts, log: logging.OrNop(log)}, nil
}

// Options returns the renderer's options.
func (r *Renderer) Options() Options {
	return r.opts
}

// RenderFrame draws the first-person view: a gradient backdrop with one
// vertically centered wall strip per column.
func (r *Renderer) RenderFrame(ctx context.Context, scene *Scene) (*canvas.Canvas, []raycast.Column, error) {
	ctx, span := telemetry.Tracer("render").Start(ctx, "render.frame")
	defer span.End()
	start := time.Now()

	cols, err := raycast.Frame(ctx, r.opts.Raycast, scene.Map, scene.Player, r.opts.Height)
	if err != nil {
		span.RecordError(err)
		return nil, nil, err
	}

	c, err := r.backdrop()
	if err != nil {
		return nil, nil, err
	}

	n := len(cols)
	for _, col := range cols {
		rect := image.Rect(
			col.Index*r.opts.Width/n,
			int(math.Round(col.Strip.Offset)),
			(col.Index+1)*r.opts.Width/n,
			int(math.Round(col.Strip.Bottom())),
		)
		shade := scene.Palette.Shade(col.Hit.Tile, col.Hit.Distance/r.opts.Raycast.MaxRange)
		if err := c.FillRect(rect, shade); err != nil {
			span.RecordError(err)
			return nil, nil, fmt.Errorf("column %d: %w", col.Index, err)
		}
	}

	span.SetAttributes(
		attribute.String("scene.name", scene.Name),
		attribute.Int("frame.width", r.opts.Width),
		attribute.Int("frame.height", r.opts.Height),
	)
	r.log.Debug("frame rendered",
		zap.String("scene", scene.Name),
		zap.Int("columns", n),
		zap.Float64("player_x", scene.Player.Position.X),
		zap.Float64("player_y", scene.Player.Position.Y),
		zap.Float64("heading", scene.Player.Heading),
		zap.Duration("elapsed", time.Since(start)),
	)
	return c, cols, nil
}

// RenderMap draws the scene from above: wall cells as filled rectangles over
// the gradient backdrop, the rays of the current sweep, and the player.
func (r *Renderer) RenderMap(ctx context.Context, scene *Scene) (*canvas.Canvas, error) {
	ctx, span := telemetry.Tracer("render").Start(ctx, "render.map")
	defer span.End()

	cols, err := raycast.Frame(ctx, r.opts.Raycast, scene.Map, scene.Player, r.opts.Height)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	c, err := r.backdrop()
	if err != nil {
		return nil, err
	}

	m := scene.Map
	scale := min(float64(r.opts.Width)/m.Width(), float64(r.opts.Height)/m.Height())
	toScreen := func(p raycast.Point) (int, int) {
		return int(p.X * scale), int(p.Y * scale)
	}

	size := float64(m.CellSize())
	for row := 0; row < m.Rows(); row++ {
		for col := 0; col < m.Columns(); col++ {
			tile, err := m.Cell(col, row)
			if err != nil {
				return nil, err
			}
			if !tile.IsWall() {
				continue
			}
			rect := image.Rect(
				int(float64(col)*size*scale),
				int(float64(row)*size*scale),
				min(int(float64(col+1)*size*scale), r.opts.Width),
				min(int(float64(row+1)*size*scale), r.opts.Height),
			)
			if err := c.FillRect(rect, toRGBA(scene.Palette.Wall(tile))); err != nil {
				return nil, fmt.Errorf("cell (%d,%d): %w", col, row, err)
			}
		}
	}

	x0, y0 := toScreen(scene.Player.Position)
	for _, col := range cols {
		x1, y1 := toScreen(col.Hit.Point)
		drawLine(c, x0, y0, x1, y1, rayColor)
	}

	marker := image.Rect(x0-2, y0-2, x0+3, y0+3).Intersect(c.Bounds())
	if err := c.FillRect(marker, playerColor); err != nil {
		return nil, err
	}

	r.log.Debug("map rendered", zap.String("scene", scene.Name), zap.Float64("scale", scale))
	return c, nil
}

// backdrop returns a canvas shaded red along x and green along y.
func (r *Renderer) backdrop() (*canvas.Canvas, error) {
	w, h := r.opts.Width, r.opts.Height
	c, err := canvas.New(w, h)
	if err != nil {
		return nil, err
	}
	for y := 0; y < h; y++ {
		g := uint8(255 * y / h)
		for x := 0; x < w; x++ {
			c.Set(x, y, color.RGBA{R: uint8(255 * x / w), G: g, A: 255})
		}
	}
	return c, nil
}

// drawLine plots a line with one sample per pixel of its longer axis.
// Pixels off the canvas are skipped.
func drawLine(c *canvas.Canvas, x0, y0, x1, y1 int, col color.RGBA) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		c.Set(x0, y0, col)
		return
	}
	for i := 0; i <= steps; i++ {
		x := x0 + int(math.Round(float64(dx*i)/float64(steps)))
		y := y0 + int(math.Round(float64(dy*i)/float64(steps)))
		c.Set(x, y, col)
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
