// Package config holds the program's settings: built-in defaults, overlaid
// by RAYCASTER_* environment variables, overlaid by command-line flags.
package config

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/samdwyer/raycaster/internal/raycast"
	"github.com/samdwyer/raycaster/internal/render"
)

// ErrInvalid is returned when a setting cannot be parsed or is out of range.
var ErrInvalid = errors.New("config: invalid setting")

// View selects what a render draws.
type View string

const (
	// ViewFirstPerson is the raycast wall view.
	ViewFirstPerson View = "first-person"
	// ViewMap is the top-down map with the sweep's rays.
	ViewMap View = "map"
)

// Config holds every setting of a run.
type Config struct {
	// Map is a built-in map id, or "generated" for a BSP dungeon.
	Map string
	// Seed for map generation. A seed of 0 means a random seed will be generated.
	Seed int64

	Width      int     // Canvas width in pixels
	Height     int     // Canvas height in pixels
	Columns    int     // Rays per frame; 0 means one per pixel column
	FOV        float64 // Degrees
	Step       float64 // Ray marching increment in world units
	Range      float64 // Maximum ray length in world units
	Projection float64 // Strip height = Projection / distance

	Out     string // Output image path; the extension picks the format
	View    View
	Preview bool // Open the interactive terminal preview instead of writing once

	LogFile   string
	LogLevel  string
	Telemetry bool
}

// Default returns the settings for a 512x512 frame of the single-room map.
func Default() Config {
	return Config{
		Map:        "room",
		Width:      512,
		Height:     512,
		FOV:        60,
		Step:       1,
		Range:      512,
		Projection: 16384,
		Out:        "out.ppm",
		View:       ViewFirstPerson,
		LogLevel:   "info",
	}
}

// FromEnv overlays RAYCASTER_* variables read through getenv onto c.
// Unset or empty variables leave the current value.
func (c *Config) FromEnv(getenv func(string) string) error {
	str := func(key string, dst *string) {
		if v := getenv(key); v != "" {
			*dst = v
		}
	}
	var errs []error
	num := func(key string, parse func(string) error) {
		if v := getenv(key); v != "" {
			if err := parse(v); err != nil {
				errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalid, key, v, err))
			}
		}
	}
	intVar := func(dst *int) func(string) error {
		return func(s string) (err error) { *dst, err = strconv.Atoi(s); return }
	}
	floatVar := func(dst *float64) func(string) error {
		return func(s string) (err error) { *dst, err = strconv.ParseFloat(s, 64); return }
	}

	str("RAYCASTER_MAP", &c.Map)
	num("RAYCASTER_SEED", func(s string) (err error) { c.Seed, err = strconv.ParseInt(s, 10, 64); return })
	num("RAYCASTER_WIDTH", intVar(&c.Width))
	num("RAYCASTER_HEIGHT", intVar(&c.Height))
	num("RAYCASTER_COLUMNS", intVar(&c.Columns))
	num("RAYCASTER_FOV", floatVar(&c.FOV))
	num("RAYCASTER_STEP", floatVar(&c.Step))
	num("RAYCASTER_RANGE", floatVar(&c.Range))
	num("RAYCASTER_PROJECTION", floatVar(&c.Projection))
	str("RAYCASTER_OUT", &c.Out)
	if v := getenv("RAYCASTER_VIEW"); v != "" {
		c.View = View(strings.ToLower(v))
	}
	str("RAYCASTER_LOG_FILE", &c.LogFile)
	str("RAYCASTER_LOG_LEVEL", &c.LogLevel)
	num("RAYCASTER_TELEMETRY", func(s string) (err error) { c.Telemetry, err = strconv.ParseBool(s); return })

	return errors.Join(errs...)
}

// Validate checks ranges that do not depend on the chosen map.
func (c Config) Validate() error {
	switch {
	case c.Map == "":
		return fmt.Errorf("%w: map id is empty", ErrInvalid)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: canvas %dx%d", ErrInvalid, c.Width, c.Height)
	case c.Columns < 0:
		return fmt.Errorf("%w: columns %d", ErrInvalid, c.Columns)
	case !(c.FOV > 0 && c.FOV < 360):
		return fmt.Errorf("%w: field of view %v must be in (0, 360) degrees", ErrInvalid, c.FOV)
	case !(c.Step > 0) || math.IsInf(c.Step, 1):
		return fmt.Errorf("%w: step %v", ErrInvalid, c.Step)
	case !(c.Range > 0) || math.IsInf(c.Range, 1):
		return fmt.Errorf("%w: range %v", ErrInvalid, c.Range)
	case !(c.Projection >= 0) || math.IsInf(c.Projection, 1):
		return fmt.Errorf("%w: projection %v", ErrInvalid, c.Projection)
	case c.View != ViewFirstPerson && c.View != ViewMap:
		return fmt.Errorf("%w: view %q", ErrInvalid, c.View)
	case !c.Preview && c.Out == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalid)
	}
	return nil
}

// Raycast converts the settings into sweep parameters.
func (c Config) Raycast() raycast.Config {
	columns := c.Columns
	if columns == 0 {
		columns = c.Width
	}
	return raycast.Config{
		FOV:                c.FOV * math.Pi / 180,
		Columns:            columns,
		StepLength:         c.Step,
		MaxRange:           c.Range,
		ProjectionConstant: c.Projection,
		Epsilon:            raycast.DefaultEpsilon,
	}
}

// Render converts the settings into renderer options.
func (c Config) Render() render.Options {
	return render.Options{
		Width:   c.Width,
		Height:  c.Height,
		Raycast: c.Raycast(),
	}
}
