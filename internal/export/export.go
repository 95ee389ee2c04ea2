// Package export writes finished mazes as PNG images or ASCII text.
package export

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/presets"
	"github.com/samdwyer/mazeband/internal/telemetry"
)

// DefaultCellPixels is the edge length of one cell in exported images.
const DefaultCellPixels = 10

// Image draws the maze with one-pixel walls on cell boundaries.
func Image(snap maze.Snapshot, palette presets.Palette, cellPx int) *image.RGBA {
	if cellPx < 3 {
		cellPx = DefaultCellPixels
	}

	img := image.NewRGBA(image.Rect(0, 0, snap.Width*cellPx+1, snap.Height*cellPx+1))
	draw.Draw(img, img.Bounds(), image.NewUniform(rgba(palette.Visited)), image.Point{}, draw.Src)

	wall := rgba(palette.Wall)
	for _, c := range snap.Cells {
		rx, ry := c.X*cellPx, c.Y*cellPx

		body := rgba(palette.Visited)
		switch {
		case snap.IsCurrent(c.Pos()):
			body = rgba(palette.Current)
		case !c.Visited:
			body = rgba(palette.Unvisited)
		}
		draw.Draw(img, image.Rect(rx+1, ry+1, rx+cellPx, ry+cellPx), image.NewUniform(body), image.Point{}, draw.Src)

		if c.Top {
			hline(img, rx, rx+cellPx, ry, wall)
		}
		if c.Bottom {
			hline(img, rx, rx+cellPx, ry+cellPx, wall)
		}
		if c.Left {
			vline(img, rx, ry, ry+cellPx, wall)
		}
		if c.Right {
			vline(img, rx+cellPx, ry, ry+cellPx, wall)
		}
	}
	return img
}

func hline(img *image.RGBA, x0, x1, y int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y, c)
	}
}

func vline(img *image.RGBA, x, y0, y1 int, c color.RGBA) {
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x, y, c)
	}
}

// rgba converts a terminal color to an opaque image color.
func rgba(c tcell.Color) color.RGBA {
	r, g, b := c.RGB()
	if r < 0 {
		return color.RGBA{A: 0xff}
	}
	return color.RGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: 0xff}
}

// WritePNG encodes the maze image to w.
func WritePNG(w io.Writer, snap maze.Snapshot, palette presets.Palette, cellPx int) error {
	if err := png.Encode(w, Image(snap, palette, cellPx)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG writes the maze image to path.
func SavePNG(ctx context.Context, path string, snap maze.Snapshot, palette presets.Palette, cellPx int) (err error) {
	tracer := telemetry.Tracer("export")
	_, span := tracer.Start(ctx, "maze.export")
	defer span.End()
	span.SetAttributes(
		attribute.String("export.path", path),
		attribute.Int("maze.width", snap.Width),
		attribute.Int("maze.height", snap.Height),
		attribute.Bool("maze.done", snap.Done),
	)

	f, err := os.Create(path)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("close %s: %w", path, cerr)
		}
	}()

	if err := WritePNG(f, snap, palette, cellPx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// WriteText writes the ASCII rendering of grid to w.
func WriteText(w io.Writer, grid *maze.Grid) error {
	if _, err := io.WriteString(w, grid.String()); err != nil {
		return fmt.Errorf("write maze text: %w", err)
	}
	return nil
}
