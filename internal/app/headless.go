package app

import (
	"context"
	"io"
	"log"
	"math/rand"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mazeband/internal/export"
	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/presets"
	"github.com/samdwyer/mazeband/internal/telemetry"
)

// RunHeadless generates one maze without a screen, writes it to out as ASCII
// and, if configured, exports a PNG.
func RunHeadless(ctx context.Context, cfg Config, out io.Writer) error {
	sizes, err := presets.LoadSizeRegistry()
	if err != nil {
		return err
	}
	width, height, err := cfg.Dimensions(sizes, 0, 0)
	if err != nil {
		return err
	}

	seed := cfg.seedOrRandom()
	gen, err := maze.New(width, height, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	runID := uuid.New()
	ctx, span := telemetry.Tracer("app").Start(ctx, "maze.headless",
		trace.WithAttributes(
			attribute.String("maze.run_id", runID.String()),
			attribute.Int64("maze.seed", seed),
		),
	)
	defer span.End()

	stats, err := gen.Run(ctx)
	if err != nil {
		return err
	}
	log.Printf("run %s: %dx%d maze, seed %d, %d advanced, %d backtracked",
		runID, width, height, seed, stats.Advanced, stats.Backtracked)

	if err := export.WriteText(out, gen.Grid()); err != nil {
		return err
	}

	if cfg.ExportPath != "" {
		themes, err := presets.LoadThemeRegistry()
		if err != nil {
			return err
		}
		palette, err := themes.Palette(cfg.Theme)
		if err != nil {
			return err
		}
		if err := export.SavePNG(ctx, cfg.ExportPath, gen.Snapshot(), palette, export.DefaultCellPixels); err != nil {
			return err
		}
	}
	return nil
}
