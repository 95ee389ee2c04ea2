// Package maze provides the grid model and the randomized depth-first generator
// for perfect mazes.
package maze

// Pos is a handle into the grid.
type Pos struct {
	X, Y int
}

// Direction is one of the four orthogonal directions.
type Direction int

const (
	North Direction = iota
	East
	South
	West
)

// directions lists the neighbor search order. NeighborsOf relies on it being fixed.
var directions = [...]Direction{North, East, South, West}

// Delta returns the coordinate offset for the direction.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, -1
	case East:
		return 1, 0
	case South:
		return 0, 1
	case West:
		return -1, 0
	default:
		return 0, 0
	}
}

// Opposite returns the direction facing back.
func (d Direction) Opposite() Direction {
	return (d + 2) % 4
}

// String returns a human-readable direction name.
func (d Direction) String() string {
	switch d {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return "unknown"
	}
}

// Step returns the position one cell away in direction d.
func (p Pos) Step(d Direction) Pos {
	dx, dy := d.Delta()
	return Pos{X: p.X + dx, Y: p.Y + dy}
}

// Cell is a single maze cell. A true wall flag means the wall is present.
type Cell struct {
	X, Y    int
	Top     bool
	Right   bool
	Bottom  bool
	Left    bool
	Visited bool
}

// newCell returns a cell with all four walls standing.
func newCell(x, y int) Cell {
	return Cell{
		X:      x,
		Y:      y,
		Top:    true,
		Right:  true,
		Bottom: true,
		Left:   true,
	}
}

// Pos returns the cell's coordinates.
func (c Cell) Pos() Pos {
	return Pos{X: c.X, Y: c.Y}
}

// HasWall reports whether the wall on side d is present.
func (c Cell) HasWall(d Direction) bool {
	switch d {
	case North:
		return c.Top
	case East:
		return c.Right
	case South:
		return c.Bottom
	case West:
		return c.Left
	default:
		return true
	}
}

// clearWall removes the wall on side d.
func (c *Cell) clearWall(d Direction) {
	switch d {
	case North:
		c.Top = false
	case East:
		c.Right = false
	case South:
		c.Bottom = false
	case West:
		c.Left = false
	}
}
