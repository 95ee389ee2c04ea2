package maze

import (
	"fmt"
	"strings"
)

// Grid is a fixed-size rectangular collection of cells, stored row-major.
// It does no locking of its own; the Generator serializes access.
type Grid struct {
	width   int
	height  int
	cells   []Cell
	visited int
}

// MaxCells is the largest grid NewGrid will allocate.
const MaxCells = 1 << 20

// NewGrid creates a grid with every wall standing and no cell visited.
func NewGrid(width, height int) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	// Divide rather than multiply so huge sizes cannot wrap around.
	if width > MaxCells/height {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d cells", ErrInvalidDimensions, width, height, MaxCells)
	}

	cells := make([]Cell, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			cells[y*width+x] = newCell(x, y)
		}
	}

	return &Grid{
		width:  width,
		height: height,
		cells:  cells,
	}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.width }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.height }

// Len returns the number of cells.
func (g *Grid) Len() int { return len(g.cells) }

// InBounds returns true if (x, y) addresses a cell.
func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && x < g.width && y >= 0 && y < g.height
}

func (g *Grid) index(p Pos) (int, error) {
	if !g.InBounds(p.X, p.Y) {
		return 0, fmt.Errorf("%w: (%d,%d) in %dx%d grid", ErrOutOfBounds, p.X, p.Y, g.width, g.height)
	}
	return p.Y*g.width + p.X, nil
}

// posAt converts a row-major index back to a position.
func (g *Grid) posAt(i int) Pos {
	return Pos{X: i % g.width, Y: i / g.width}
}

// CellAt returns a copy of the cell at (x, y).
func (g *Grid) CellAt(x, y int) (Cell, error) {
	i, err := g.index(Pos{X: x, Y: y})
	if err != nil {
		return Cell{}, err
	}
	return g.cells[i], nil
}

// NeighborsOf returns the unvisited orthogonal neighbors of p, in north, east,
// south, west order. Diagonal cells are never returned.
func (g *Grid) NeighborsOf(p Pos) ([]Pos, error) {
	if _, err := g.index(p); err != nil {
		return nil, err
	}

	neighbors := make([]Pos, 0, len(directions))
	for _, d := range directions {
		n := p.Step(d)
		if !g.InBounds(n.X, n.Y) {
			continue
		}
		if g.cells[n.Y*g.width+n.X].Visited {
			continue
		}
		neighbors = append(neighbors, n)
	}
	return neighbors, nil
}

// directionBetween returns the side of a that faces b.
func directionBetween(a, b Pos) (Direction, bool) {
	dx, dy := b.X-a.X, b.Y-a.Y
	switch {
	case dx == 0 && dy == -1:
		return North, true
	case dx == 1 && dy == 0:
		return East, true
	case dx == 0 && dy == 1:
		return South, true
	case dx == -1 && dy == 0:
		return West, true
	default:
		return 0, false
	}
}

// RemoveWallBetween clears the wall shared by a and b on both cells.
func (g *Grid) RemoveWallBetween(a, b Pos) error {
	ia, err := g.index(a)
	if err != nil {
		return err
	}
	ib, err := g.index(b)
	if err != nil {
		return err
	}

	d, ok := directionBetween(a, b)
	if !ok {
		return fmt.Errorf("%w: (%d,%d) and (%d,%d)", ErrNotAdjacent, a.X, a.Y, b.X, b.Y)
	}

	g.cells[ia].clearWall(d)
	g.cells[ib].clearWall(d.Opposite())
	return nil
}

// MarkVisited flags the cell at p as visited. Marking twice is a no-op.
func (g *Grid) MarkVisited(p Pos) error {
	i, err := g.index(p)
	if err != nil {
		return err
	}
	if !g.cells[i].Visited {
		g.cells[i].Visited = true
		g.visited++
	}
	return nil
}

// VisitedCount returns how many cells have been visited.
func (g *Grid) VisitedCount() int { return g.visited }

// AllVisited returns true once every cell has been visited.
func (g *Grid) AllVisited() bool {
	return g.visited == len(g.cells)
}

// OpenPassages counts the interior walls that have been removed. Each passage
// is counted once, from its west or north cell.
func (g *Grid) OpenPassages() int {
	open := 0
	for _, c := range g.cells {
		if c.X < g.width-1 && !c.Right {
			open++
		}
		if c.Y < g.height-1 && !c.Bottom {
			open++
		}
	}
	return open
}

// Cells returns a copy of all cells in row-major order.
func (g *Grid) Cells() []Cell {
	out := make([]Cell, len(g.cells))
	copy(out, g.cells)
	return out
}

// Clone returns a deep copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{
		width:   g.width,
		height:  g.height,
		cells:   g.Cells(),
		visited: g.visited,
	}
}

// String renders the grid as ASCII art.
func (g *Grid) String() string {
	var b strings.Builder

	b.WriteString("+" + strings.Repeat("---+", g.width) + "\n")
	for y := 0; y < g.height; y++ {
		row := g.cells[y*g.width : (y+1)*g.width]

		b.WriteString("|")
		for _, c := range row {
			b.WriteString("   ")
			if c.Right {
				b.WriteString("|")
			} else {
				b.WriteString(" ")
			}
		}
		b.WriteString("\n+")
		for _, c := range row {
			if c.Bottom {
				b.WriteString("---+")
			} else {
				b.WriteString("   +")
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}
