// Package main is the entry point for the raycaster: it renders one frame of
// a tile map to an image file, or opens an interactive terminal preview.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/samdwyer/raycaster/internal/canvas"
	"github.com/samdwyer/raycaster/internal/config"
	"github.com/samdwyer/raycaster/internal/game"
	"github.com/samdwyer/raycaster/internal/logging"
	"github.com/samdwyer/raycaster/internal/mapdata"
	"github.com/samdwyer/raycaster/internal/render"
	"github.com/samdwyer/raycaster/internal/telemetry"
)

func main() {
	os.Exit(realMain())
}

// realMain runs the program and returns its exit code. Deferred cleanup,
// including the trace exporter flush, runs before the process exits.
func realMain() int {
	// Load .env file for local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Note: .env file not loaded: %v", err)
	}

	cfg := config.Default()
	if err := cfg.FromEnv(os.Getenv); err != nil {
		log.Printf("Invalid environment: %v", err)
		return 1
	}
	parseFlags(&cfg)
	if err := cfg.Validate(); err != nil {
		log.Printf("Invalid configuration: %v", err)
		return 1
	}

	logger, err := logging.New(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile})
	if err != nil {
		log.Printf("Failed to initialize logging: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	shutdown, err := telemetry.Setup(ctx, telemetry.Options{Enabled: cfg.Telemetry})
	if err != nil {
		logger.Warn("telemetry setup failed, continuing without tracing", zap.Error(err))
	} else {
		defer func() {
			if err := shutdown(ctx); err != nil {
				logger.Warn("telemetry shutdown failed", zap.Error(err))
			}
		}()
	}

	if err := run(ctx, cfg, logger); err != nil {
		logger.Error("render failed", zap.Error(err))
		return 1
	}
	return 0
}

// parseFlags overrides settings with command-line flags.
func parseFlags(cfg *config.Config) {
	view := string(cfg.View)

	flag.StringVar(&cfg.Map, "map", cfg.Map, fmt.Sprintf("map id, or %q for a random dungeon", mapdata.GeneratedID))
	flag.Int64Var(&cfg.Seed, "seed", cfg.Seed, "seed for generated maps (0 = random)")
	flag.IntVar(&cfg.Width, "width", cfg.Width, "image width in pixels")
	flag.IntVar(&cfg.Height, "height", cfg.Height, "image height in pixels")
	flag.IntVar(&cfg.Columns, "columns", cfg.Columns, "rays per frame (0 = one per pixel column)")
	flag.Float64Var(&cfg.FOV, "fov", cfg.FOV, "field of view in degrees")
	flag.Float64Var(&cfg.Step, "step", cfg.Step, "ray marching step in world units")
	flag.Float64Var(&cfg.Range, "range", cfg.Range, "maximum ray length in world units")
	flag.Float64Var(&cfg.Projection, "projection", cfg.Projection, "projection constant (strip height = projection / distance)")
	flag.StringVar(&cfg.Out, "out", cfg.Out, "output image (.ppm, .png or .bmp)")
	flag.StringVar(&view, "view", view, "first-person or map")
	flag.BoolVar(&cfg.Preview, "preview", cfg.Preview, "open the interactive terminal preview")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "rolling log file")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug, info, warn or error")
	flag.BoolVar(&cfg.Telemetry, "telemetry", cfg.Telemetry, "export traces over OTLP HTTP")
	flag.Parse()

	cfg.View = config.View(view)
}

// run renders the configured scene once, or hands it to the preview.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	registry, err := mapdata.LoadMapRegistry()
	if err != nil {
		return err
	}
	scene, err := registry.Resolve(ctx, cfg.Map, cfg.Seed)
	if err != nil {
		return err
	}
	logger.Info("scene resolved", zap.String("map", cfg.Map), zap.String("scene", scene.Name))

	renderer, err := render.New(cfg.Render(), logger.Named("render"))
	if err != nil {
		return err
	}

	if cfg.Preview {
		mode := game.ModeFirstPerson
		if cfg.View == config.ViewMap {
			mode = game.ModeMap
		}
		g, err := game.New(renderer, scene, mode, cfg.Out, logger.Named("game"))
		if err != nil {
			return err
		}
		defer g.Close()
		return g.Run(ctx)
	}

	var img *canvas.Canvas
	if cfg.View == config.ViewMap {
		img, err = renderer.RenderMap(ctx, scene)
	} else {
		img, _, err = renderer.RenderFrame(ctx, scene)
	}
	if err != nil {
		return err
	}

	if err := canvas.Save(ctx, cfg.Out, img); err != nil {
		return err
	}
	logger.Info("frame written",
		zap.String("map", cfg.Map),
		zap.String("view", string(cfg.View)),
		zap.String("path", cfg.Out),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
	)
	return nil
}
