package maze

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"testing"
)

// firstPicker always selects the first candidate.
type firstPicker struct{}

func (firstPicker) Intn(int) int { return 0 }

// runToCompletion steps g until it reports done, failing on a stall.
func runToCompletion(t *testing.T, g *Generator) []StepResult {
	t.Helper()
	var results []StepResult
	limit := 4*g.Width()*g.Height() + 2
	for i := 0; i < limit; i++ {
		res := g.Step()
		results = append(results, res)
		if res.Status == StatusStalled {
			t.Fatalf("generator stalled at step %d", i)
		}
		if res.Status == StatusDone {
			return results
		}
	}
	t.Fatalf("generator did not finish within %d steps", limit)
	return nil
}

// reachable counts cells reachable from (0,0) through open walls.
func reachable(g *Grid) int {
	seen := make([]bool, g.Len())
	queue := []Pos{{0, 0}}
	seen[0] = true
	for i := 0; i < len(queue); i++ {
		p := queue[i]
		c, _ := g.CellAt(p.X, p.Y)
		for _, d := range directions {
			if c.HasWall(d) {
				continue
			}
			n := p.Step(d)
			if !g.InBounds(n.X, n.Y) {
				continue
			}
			idx := n.Y*g.Width() + n.X
			if !seen[idx] {
				seen[idx] = true
				queue = append(queue, n)
			}
		}
	}
	return len(queue)
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		status   Status
		expected string
	}{
		{StatusAdvanced, "advanced"},
		{StatusBacktracked, "backtracked"},
		{StatusStalled, "stalled"},
		{StatusDone, "done"},
		{Status(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.status.String(); got != tt.expected {
			t.Errorf("Status(%d).String() = %q, want %q", tt.status, got, tt.expected)
		}
	}
}

func TestNewInvalidDimensions(t *testing.T) {
	if _, err := New(0, 10, firstPicker{}); !errors.Is(err, ErrInvalidDimensions) {
		t.Errorf("New(0, 10) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestPerfectMaze(t *testing.T) {
	shapes := [][2]int{{1, 1}, {2, 2}, {5, 5}, {13, 7}, {1, 9}, {9, 1}, {30, 20}}

	for _, s := range shapes {
		for seed := int64(1); seed <= 5; seed++ {
			g, err := New(s[0], s[1], rand.New(rand.NewSource(seed)))
			if err != nil {
				t.Fatalf("New(%d, %d) failed: %v", s[0], s[1], err)
			}
			runToCompletion(t, g)

			grid := g.Grid()
			cells := s[0] * s[1]
			if got := grid.OpenPassages(); got != cells-1 {
				t.Errorf("%dx%d seed %d: %d open passages, want %d", s[0], s[1], seed, got, cells-1)
			}
			if got := reachable(grid); got != cells {
				t.Errorf("%dx%d seed %d: %d cells reachable, want %d", s[0], s[1], seed, got, cells)
			}
			if !grid.AllVisited() {
				t.Errorf("%dx%d seed %d: not every cell visited", s[0], s[1], seed)
			}
			assertMirrored(t, grid)
		}
	}
}

func TestInvariantsHoldEveryStep(t *testing.T) {
	g, _ := New(8, 6, rand.New(rand.NewSource(42)))

	prevVisited := make([]bool, 8*6)
	prevCount := 0
	for !g.Done() {
		res := g.Step()
		if res.Status == StatusStalled {
			t.Fatal("generator stalled")
		}

		grid := g.Grid()
		assertMirrored(t, grid)

		cells := grid.Cells()
		for i, c := range cells {
			if prevVisited[i] && !c.Visited {
				t.Fatalf("cell (%d,%d) became unvisited", c.X, c.Y)
			}
			prevVisited[i] = c.Visited
		}

		count := grid.VisitedCount()
		switch res.Status {
		case StatusAdvanced:
			if count != prevCount+1 {
				t.Fatalf("advanced step moved visited count %d -> %d", prevCount, count)
			}
		default:
			if count != prevCount {
				t.Fatalf("%s step moved visited count %d -> %d", res.Status, prevCount, count)
			}
		}
		prevCount = count

		// Passages only ever grow along the visited tree.
		if open := grid.OpenPassages(); open != count-1 {
			t.Fatalf("%d passages for %d visited cells", open, count)
		}
	}
}

func TestTwoByTwoFirstCandidate(t *testing.T) {
	g, _ := New(2, 2, firstPicker{})
	results := runToCompletion(t, g)

	advanced, backtracked := 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusAdvanced:
			advanced++
		case StatusBacktracked:
			backtracked++
		}
	}

	if advanced != 4 {
		t.Errorf("advanced steps = %d, want 4", advanced)
	}
	if backtracked != 0 {
		t.Errorf("backtracked steps = %d, want 0", backtracked)
	}

	grid := g.Grid()
	if grid.OpenPassages() != 3 {
		t.Errorf("OpenPassages() = %d, want 3", grid.OpenPassages())
	}
	if reachable(grid) != 4 {
		t.Errorf("reachable cells = %d, want 4", reachable(grid))
	}

	// Start (0,0), east to (1,0), south to (1,1), west to (0,1).
	want := []StepResult{
		{StatusAdvanced, []Pos{{0, 0}}},
		{StatusAdvanced, []Pos{{0, 0}, {1, 0}}},
		{StatusAdvanced, []Pos{{1, 0}, {1, 1}}},
		{StatusAdvanced, []Pos{{1, 1}, {0, 1}}},
		{StatusDone, []Pos{{0, 1}}},
	}
	if len(results) != len(want) {
		t.Fatalf("got %d steps, want %d", len(results), len(want))
	}
	for i := range want {
		if results[i].Status != want[i].Status {
			t.Errorf("step %d status = %s, want %s", i, results[i].Status, want[i].Status)
		}
		if len(results[i].Touched) != len(want[i].Touched) {
			t.Errorf("step %d touched = %v, want %v", i, results[i].Touched, want[i].Touched)
			continue
		}
		for j := range want[i].Touched {
			if results[i].Touched[j] != want[i].Touched[j] {
				t.Errorf("step %d touched = %v, want %v", i, results[i].Touched, want[i].Touched)
			}
		}
	}

	// (0,1) still has its east wall: the maze is a U, not a ring.
	c, _ := grid.CellAt(0, 1)
	if !c.Right {
		t.Error("cell (0,1) east wall should remain")
	}
}

func TestCorridor(t *testing.T) {
	const n = 12

	g, _ := New(1, n, firstPicker{})
	runToCompletion(t, g)

	if g.Stats().Backtracked != 0 {
		t.Errorf("Backtracked = %d, want 0", g.Stats().Backtracked)
	}
	grid := g.Grid()
	if grid.OpenPassages() != n-1 {
		t.Errorf("OpenPassages() = %d, want %d", grid.OpenPassages(), n-1)
	}
	for y := 0; y < n; y++ {
		c, _ := grid.CellAt(0, y)
		if !c.Left || !c.Right {
			t.Errorf("corridor cell (0,%d) lost a side wall", y)
		}
		if (y == 0) != c.Top {
			t.Errorf("corridor cell (0,%d) Top = %v", y, c.Top)
		}
		if (y == n-1) != c.Bottom {
			t.Errorf("corridor cell (0,%d) Bottom = %v", y, c.Bottom)
		}
	}

	// A random start in the middle still yields a straight corridor.
	g, _ = New(n, 1, rand.New(rand.NewSource(7)))
	runToCompletion(t, g)
	if got := g.Grid().OpenPassages(); got != n-1 {
		t.Errorf("random start: OpenPassages() = %d, want %d", got, n-1)
	}
}

func TestReproducibility(t *testing.T) {
	seed := int64(12345)

	g1, _ := New(25, 15, rand.New(rand.NewSource(seed)))
	g2, _ := New(25, 15, rand.New(rand.NewSource(seed)))
	runToCompletion(t, g1)
	runToCompletion(t, g2)

	c1, c2 := g1.Grid().Cells(), g2.Grid().Cells()
	for i := range c1 {
		if c1[i] != c2[i] {
			t.Fatalf("Cell mismatch at (%d,%d): %+v != %+v", c1[i].X, c1[i].Y, c1[i], c2[i])
		}
	}
	if g1.Stats() != g2.Stats() {
		t.Errorf("Stats mismatch: %+v != %+v", g1.Stats(), g2.Stats())
	}
}

func TestDifferentSeeds(t *testing.T) {
	g1, _ := New(25, 15, rand.New(rand.NewSource(12345)))
	g2, _ := New(25, 15, rand.New(rand.NewSource(54321)))
	runToCompletion(t, g1)
	runToCompletion(t, g2)

	if g1.Grid().String() == g2.Grid().String() {
		t.Error("Mazes with different seeds should not be identical")
	}
}

func TestDoneIsIdempotent(t *testing.T) {
	g, _ := New(4, 4, rand.New(rand.NewSource(3)))
	runToCompletion(t, g)

	before := g.Grid().String()
	stats := g.Stats()
	for i := 0; i < 5; i++ {
		res := g.Step()
		if res.Status != StatusDone {
			t.Errorf("Step after done = %s, want done", res.Status)
		}
		if len(res.Touched) != 0 {
			t.Errorf("Step after done touched %v", res.Touched)
		}
	}
	if g.Grid().String() != before {
		t.Error("Step after done changed the grid")
	}
	if g.Stats() != stats {
		t.Error("Step after done changed the stats")
	}
	if _, ok := g.Current(); ok {
		t.Error("Current() should be absent after done")
	}
	if g.FrontierLen() != 0 {
		t.Errorf("FrontierLen() = %d after done, want 0", g.FrontierLen())
	}
}

func TestCurrentLifecycle(t *testing.T) {
	g, _ := New(3, 3, rand.New(rand.NewSource(9)))

	if _, ok := g.Current(); ok {
		t.Error("Current() should be absent before the first step")
	}

	res := g.Step()
	cur, ok := g.Current()
	if !ok {
		t.Fatal("Current() absent after first step")
	}
	if len(res.Touched) != 1 || res.Touched[0] != cur {
		t.Errorf("first step touched %v, want [%v]", res.Touched, cur)
	}
	if got := g.Touched(); len(got) != 1 || got[0] != cur {
		t.Errorf("Touched() = %v, want [%v]", got, cur)
	}
}

func TestBacktrackResumesFromFrontier(t *testing.T) {
	// With a first-candidate picker a 3x1 row started at (0,0) never backtracks,
	// so start in the middle: cursor index 1 comes from the first Intn call.
	g, _ := New(3, 1, &scriptedPicker{picks: []int{1}})
	runToCompletion(t, g)

	stats := g.Stats()
	if stats.Backtracked != 1 {
		t.Errorf("Backtracked = %d, want 1", stats.Backtracked)
	}
	if stats.PeakFrontier != 1 {
		t.Errorf("PeakFrontier = %d, want 1", stats.PeakFrontier)
	}
}

// scriptedPicker returns the scripted values, then zeros.
type scriptedPicker struct {
	picks []int
}

func (p *scriptedPicker) Intn(n int) int {
	if len(p.picks) == 0 {
		return 0
	}
	v := p.picks[0] % n
	p.picks = p.picks[1:]
	return v
}

func TestRun(t *testing.T) {
	g, _ := New(10, 10, rand.New(rand.NewSource(1)))

	stats, err := g.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !g.Done() {
		t.Error("Run returned before completion")
	}
	// Every cell is reached by one advanced step, the start included.
	if stats.Advanced != 100 {
		t.Errorf("Advanced = %d, want 100", stats.Advanced)
	}
	if stats.Stalled != 0 {
		t.Errorf("Stalled = %d, want 0", stats.Stalled)
	}
}

func TestRunCancelled(t *testing.T) {
	g, _ := New(10, 10, rand.New(rand.NewSource(1)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := g.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Run error = %v, want context.Canceled", err)
	}
	if g.Done() {
		t.Error("cancelled Run should not complete")
	}
}

func TestRunReportsStall(t *testing.T) {
	// A grid whose cursor is boxed in by visited cells with an empty frontier.
	grid, _ := NewGrid(3, 1)
	_ = grid.MarkVisited(Pos{1, 0})
	g := NewGenerator(grid, &scriptedPicker{picks: []int{0}})

	if _, err := g.Run(context.Background()); !errors.Is(err, ErrStalled) {
		t.Errorf("Run error = %v, want ErrStalled", err)
	}
	if g.Stats().Stalled != 1 {
		t.Errorf("Stalled = %d, want 1", g.Stats().Stalled)
	}
}

func TestStartSkipsVisitedCells(t *testing.T) {
	// Index 1 of the whole grid is (1,0), which is already visited; among the
	// unvisited cells index 1 is (0,1).
	grid, _ := NewGrid(2, 2)
	_ = grid.MarkVisited(Pos{1, 0})
	g := NewGenerator(grid, &scriptedPicker{picks: []int{1}})

	res := g.Step()
	if res.Status != StatusAdvanced {
		t.Fatalf("first step = %s, want advanced", res.Status)
	}
	if cur, _ := g.Current(); cur != (Pos{0, 1}) {
		t.Errorf("start = %v, want (0,1)", cur)
	}
	if grid.VisitedCount() != 2 {
		t.Errorf("VisitedCount() = %d, want 2", grid.VisitedCount())
	}
}

func TestStartOnFullyVisitedGrid(t *testing.T) {
	grid, _ := NewGrid(2, 1)
	_ = grid.MarkVisited(Pos{0, 0})
	_ = grid.MarkVisited(Pos{1, 0})
	g := NewGenerator(grid, firstPicker{})

	if res := g.Step(); res.Status != StatusDone {
		t.Errorf("first step = %s, want done", res.Status)
	}
	if g.Stats().Advanced != 0 {
		t.Errorf("Advanced = %d, want 0", g.Stats().Advanced)
	}
	if _, ok := g.Current(); ok {
		t.Error("a finished generator should have no cursor")
	}
}

func TestSnapshotConsistentUnderConcurrentSteps(t *testing.T) {
	g, _ := New(20, 20, rand.New(rand.NewSource(77)))

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for !g.Done() {
			g.Step()
		}
	}()

	for !g.Done() {
		snap := g.Snapshot()
		for y := 0; y < snap.Height; y++ {
			for x := 0; x < snap.Width; x++ {
				c := snap.At(x, y)
				if x < snap.Width-1 && c.Right != snap.At(x+1, y).Left {
					t.Fatalf("torn snapshot at (%d,%d) east", x, y)
				}
				if y < snap.Height-1 && c.Bottom != snap.At(x, y+1).Top {
					t.Fatalf("torn snapshot at (%d,%d) south", x, y)
				}
			}
		}
		if snap.HasCurrent && !snap.At(snap.Current.X, snap.Current.Y).Visited {
			t.Fatalf("current cell %v not visited in snapshot", snap.Current)
		}
	}
	wg.Wait()

	snap := g.Snapshot()
	if !snap.Done || snap.HasCurrent {
		t.Errorf("final snapshot Done=%v HasCurrent=%v", snap.Done, snap.HasCurrent)
	}
	if snap.Visited != 400 {
		t.Errorf("final snapshot Visited = %d, want 400", snap.Visited)
	}
}
