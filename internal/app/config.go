package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/presets"
)

const (
	// DefaultTick is the pause between generation steps.
	DefaultTick = 15 * time.Millisecond

	// Used when no size is configured and there is no terminal to measure.
	fallbackWidth  = 20
	fallbackHeight = 10
)

// Config holds program configuration options.
type Config struct {
	// Seed for random number generation. Used for reproducible mazes.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Width and Height of the grid in cells. Zero means derive from the
	// preset, then from the terminal size.
	Width  int
	Height int

	// Preset names a size from the embedded sizes.json.
	Preset string

	// Theme names a color theme from the embedded themes.json.
	Theme string

	// Tick is the delay between steps in interactive mode.
	Tick time.Duration

	// ExportPath, when set, receives a PNG once generation completes.
	ExportPath string

	// Headless runs generation to completion without a screen and prints the maze.
	Headless bool

	// LogFile receives log output while the screen is active.
	LogFile string

	// OTelVerbosity is the verbosity of OpenTelemetry's internal logger.
	OTelVerbosity int
}

// DefaultConfig returns the configuration used when no variables are set.
func DefaultConfig() Config {
	return Config{
		Theme: presets.DefaultThemeID,
		Tick:  DefaultTick,
	}
}

// LoadConfig reads configuration from MAZE_* environment variables.
func LoadConfig() (Config, error) {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) (Config, error) {
	cfg := DefaultConfig()

	var err error
	if cfg.Seed, err = envInt64(getenv, "MAZE_SEED", cfg.Seed); err != nil {
		return cfg, err
	}
	if cfg.Width, err = envSize(getenv, "MAZE_WIDTH"); err != nil {
		return cfg, err
	}
	if cfg.Height, err = envSize(getenv, "MAZE_HEIGHT"); err != nil {
		return cfg, err
	}
	if v := getenv("MAZE_TICK"); v != "" {
		cfg.Tick, err = time.ParseDuration(v)
		if err != nil {
			return cfg, fmt.Errorf("MAZE_TICK: %w", err)
		}
		if cfg.Tick <= 0 {
			return cfg, fmt.Errorf("MAZE_TICK: must be positive, got %s", v)
		}
	}
	if v := getenv("MAZE_HEADLESS"); v != "" {
		cfg.Headless, err = strconv.ParseBool(v)
		if err != nil {
			return cfg, fmt.Errorf("MAZE_HEADLESS: %w", err)
		}
	}
	verbosity, err := envInt64(getenv, "MAZE_OTEL_VERBOSITY", 0)
	if err != nil {
		return cfg, err
	}
	cfg.OTelVerbosity = int(verbosity)

	if v := strings.TrimSpace(getenv("MAZE_THEME")); v != "" {
		cfg.Theme = v
	}
	cfg.Preset = strings.TrimSpace(getenv("MAZE_PRESET"))
	cfg.ExportPath = getenv("MAZE_EXPORT")
	cfg.LogFile = getenv("MAZE_LOG_FILE")

	return cfg, nil
}

func envInt64(getenv func(string) string, key string, def int64) (int64, error) {
	v := getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func envSize(getenv func(string) string, key string) (int, error) {
	n, err := envInt64(getenv, key, 0)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("%s: must not be negative, got %d", key, n)
	}
	if n > maze.MaxCells {
		return 0, fmt.Errorf("%s: must be at most %d, got %d", key, maze.MaxCells, n)
	}
	return int(n), nil
}

// Dimensions resolves the grid size. Explicit Width/Height win, then the
// preset, then fitW/fitH (the size that fits the screen). Non-positive fit
// values fall back to a fixed default.
func (c Config) Dimensions(sizes *presets.SizeRegistry, fitW, fitH int) (width, height int, err error) {
	width, height = fitW, fitH
	if width <= 0 || height <= 0 {
		width, height = fallbackWidth, fallbackHeight
	}

	if c.Preset != "" {
		width, height, err = sizes.Lookup(c.Preset)
		if err != nil {
			return 0, 0, err
		}
	}

	if c.Width > 0 {
		width = c.Width
	}
	if c.Height > 0 {
		height = c.Height
	}
	return width, height, nil
}

// seedOrRandom returns c.Seed, or a time-based seed when it is zero.
func (c Config) seedOrRandom() int64 {
	if c.Seed != 0 {
		return c.Seed
	}
	return time.Now().UnixNano()
}
