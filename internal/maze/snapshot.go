package maze

// Snapshot is a consistent, read-only copy of generator state for renderers.
type Snapshot struct {
	Width      int
	Height     int
	Cells      []Cell // row-major
	Current    Pos
	HasCurrent bool
	Done       bool
	Visited    int
}

// Snapshot copies the grid and cursor under the generator lock.
func (g *Generator) Snapshot() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()

	return Snapshot{
		Width:      g.grid.Width(),
		Height:     g.grid.Height(),
		Cells:      g.grid.Cells(),
		Current:    g.current,
		HasCurrent: g.started && !g.done,
		Done:       g.done,
		Visited:    g.grid.VisitedCount(),
	}
}

// Grid returns a detached copy of the generator's grid.
func (g *Generator) Grid() *Grid {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.grid.Clone()
}

// At returns the cell at (x, y). The caller must stay within bounds.
func (s Snapshot) At(x, y int) Cell {
	return s.Cells[y*s.Width+x]
}

// IsCurrent returns true if p is the generator's cursor.
func (s Snapshot) IsCurrent(p Pos) bool {
	return s.HasCurrent && s.Current == p
}
