package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/presets"
)

// wallRune is drawn for standing walls and corners.
const wallRune = '█'

// GridSize returns the largest maze that fits a cols x rows terminal. Each
// cell takes two columns and two rows, plus the closing border and one row
// for the status line. Either result may be zero on a tiny terminal.
func GridSize(cols, rows int) (width, height int) {
	width = (cols - 1) / 2
	height = (rows - 2) / 2
	return max(width, 0), max(height, 0)
}

// cellOrigin returns the screen position of a cell's body.
func cellOrigin(p maze.Pos) (int, int) {
	return 2*p.X + 1, 2*p.Y + 1
}

// Renderer handles drawing the maze to the screen.
type Renderer struct {
	screen  *Screen
	palette presets.Palette
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen, palette presets.Palette) *Renderer {
	return &Renderer{screen: screen, palette: palette}
}

// Render redraws the whole maze.
func (r *Renderer) Render(snap maze.Snapshot) {
	r.screen.Clear()

	wall := r.wallStyle()
	for y := 0; y <= 2*snap.Height; y += 2 {
		for x := 0; x <= 2*snap.Width; x += 2 {
			r.screen.SetContent(x, y, wallRune, wall)
		}
	}

	for y := 0; y < snap.Height; y++ {
		for x := 0; x < snap.Width; x++ {
			r.drawCell(snap, maze.Pos{X: x, Y: y})
		}
	}

	r.screen.Show()
}

// RenderCells redraws only the given cells and the walls around them.
func (r *Renderer) RenderCells(snap maze.Snapshot, cells []maze.Pos) {
	for _, p := range cells {
		if p.X < 0 || p.X >= snap.Width || p.Y < 0 || p.Y >= snap.Height {
			continue
		}
		r.drawCell(snap, p)
	}
	r.screen.Show()
}

// drawCell paints a cell body and its four wall slots. Shared slots are
// painted by both neighbors; mirrored walls make that idempotent.
func (r *Renderer) drawCell(snap maze.Snapshot, p maze.Pos) {
	c := snap.At(p.X, p.Y)
	sx, sy := cellOrigin(p)

	r.screen.SetContent(sx, sy, ' ', r.bodyStyle(snap, c))

	passage := tcell.StyleDefault.Background(r.palette.Visited)
	slots := []struct {
		x, y int
		wall bool
	}{
		{sx, sy - 1, c.Top},
		{sx + 1, sy, c.Right},
		{sx, sy + 1, c.Bottom},
		{sx - 1, sy, c.Left},
	}
	for _, s := range slots {
		if s.wall {
			r.screen.SetContent(s.x, s.y, wallRune, r.wallStyle())
		} else {
			r.screen.SetContent(s.x, s.y, ' ', passage)
		}
	}
}

// bodyStyle returns the style for a cell body based on its generation state.
func (r *Renderer) bodyStyle(snap maze.Snapshot, c maze.Cell) tcell.Style {
	switch {
	case snap.IsCurrent(c.Pos()):
		return tcell.StyleDefault.Background(r.palette.Current)
	case c.Visited:
		return tcell.StyleDefault.Background(r.palette.Visited)
	default:
		return tcell.StyleDefault.Background(r.palette.Unvisited)
	}
}

func (r *Renderer) wallStyle() tcell.Style {
	return tcell.StyleDefault.Foreground(r.palette.Wall).Background(r.palette.Wall)
}

// RenderMessage displays a message on the given row, clearing the rest of it.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	width, _ := r.screen.Size()
	i := 0
	for _, ch := range msg {
		r.screen.SetContent(i, y, ch, style)
		i++
	}
	for ; i < width; i++ {
		r.screen.SetContent(i, y, ' ', style)
	}
	r.screen.Show()
}
