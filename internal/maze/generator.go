package maze

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samdwyer/mazeband/internal/telemetry"
)

// Picker supplies the generator's randomness. *rand.Rand satisfies it.
type Picker interface {
	// Intn returns a uniformly distributed value in [0, n).
	Intn(n int) int
}

// Status is the outcome of a single Step.
type Status int

const (
	// StatusAdvanced means a new cell was visited.
	StatusAdvanced Status = iota
	// StatusBacktracked means the cursor returned to a frontier cell.
	StatusBacktracked
	// StatusStalled means unvisited cells remain but none is reachable from
	// the cursor and the frontier is empty. It never happens on a connected grid.
	StatusStalled
	// StatusDone means every cell has been visited.
	StatusDone
)

// String returns a human-readable status name.
func (s Status) String() string {
	switch s {
	case StatusAdvanced:
		return "advanced"
	case StatusBacktracked:
		return "backtracked"
	case StatusStalled:
		return "stalled"
	case StatusDone:
		return "done"
	default:
		return "unknown"
	}
}

// StepResult reports what a Step did. Touched lists the cells whose walls,
// visited flag or current marker changed, for incremental redraws.
type StepResult struct {
	Status  Status
	Touched []Pos
}

// Stats counts step outcomes over a run.
type Stats struct {
	Advanced     int
	Backtracked  int
	Stalled      int
	PeakFrontier int
}

// Generator carves a perfect maze with randomized depth-first search, one
// step at a time. It is safe for concurrent use: Step and Snapshot are
// serialized, so readers never see a half-applied step.
type Generator struct {
	mu       sync.Mutex
	grid     *Grid
	rng      Picker
	started  bool
	done     bool
	current  Pos
	frontier []Pos
	touched  []Pos
	stats    Stats
}

// NewGenerator creates a generator over grid. A nil rng is replaced by a
// time-seeded source. Cells already visited in grid are never used as the
// start and never carved into.
func NewGenerator(grid *Grid, rng Picker) *Generator {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Generator{
		grid:     grid,
		rng:      rng,
		frontier: make([]Pos, 0, grid.Len()),
	}
}

// New creates a fresh width x height grid and a generator over it.
func New(width, height int, rng Picker) (*Generator, error) {
	grid, err := NewGrid(width, height)
	if err != nil {
		return nil, err
	}
	return NewGenerator(grid, rng), nil
}

// Step advances generation by one unit of work.
func (g *Generator) Step() StepResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.done {
		g.touched = nil
		return StepResult{Status: StatusDone}
	}

	if !g.started {
		g.started = true
		start, ok := g.pickStart()
		if !ok {
			g.done = true
			return g.result(StatusDone)
		}
		must(g.grid.MarkVisited(start))
		g.current = start
		g.stats.Advanced++
		return g.result(StatusAdvanced, start)
	}

	if g.grid.AllVisited() {
		last := g.current
		g.done = true
		g.frontier = g.frontier[:0]
		return g.result(StatusDone, last)
	}

	neighbors, err := g.grid.NeighborsOf(g.current)
	must(err)

	if len(neighbors) > 0 {
		from := g.current
		next := neighbors[g.rng.Intn(len(neighbors))]
		g.frontier = append(g.frontier, from)
		must(g.grid.RemoveWallBetween(from, next))
		must(g.grid.MarkVisited(next))
		g.current = next
		g.stats.Advanced++
		if len(g.frontier) > g.stats.PeakFrontier {
			g.stats.PeakFrontier = len(g.frontier)
		}
		return g.result(StatusAdvanced, from, next)
	}

	if len(g.frontier) > 0 {
		from := g.current
		g.current = g.frontier[len(g.frontier)-1]
		g.frontier = g.frontier[:len(g.frontier)-1]
		g.stats.Backtracked++
		return g.result(StatusBacktracked, from, g.current)
	}

	g.stats.Stalled++
	return g.result(StatusStalled)
}

// pickStart chooses uniformly among the unvisited cells. It reports false
// when the grid has none left.
func (g *Generator) pickStart() (Pos, bool) {
	if g.grid.VisitedCount() == 0 {
		return g.grid.posAt(g.rng.Intn(g.grid.Len())), true
	}

	unvisited := make([]int, 0, g.grid.Len()-g.grid.VisitedCount())
	for i, c := range g.grid.cells {
		if !c.Visited {
			unvisited = append(unvisited, i)
		}
	}
	if len(unvisited) == 0 {
		return Pos{}, false
	}
	return g.grid.posAt(unvisited[g.rng.Intn(len(unvisited))]), true
}

func (g *Generator) result(status Status, touched ...Pos) StepResult {
	g.touched = touched
	out := make([]Pos, len(touched))
	copy(out, touched)
	return StepResult{Status: status, Touched: out}
}

// must panics on grid errors raised by the generator's own calls. Those
// indicate a broken invariant, never bad input.
func must(err error) {
	if err != nil {
		panic(fmt.Sprintf("maze: generator invariant violated: %v", err))
	}
}

// Done returns true once generation has completed.
func (g *Generator) Done() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.done
}

// Current returns the cursor position, if there is one.
func (g *Generator) Current() (Pos, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current, g.started && !g.done
}

// Touched returns the cells changed by the most recent Step.
func (g *Generator) Touched() []Pos {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Pos, len(g.touched))
	copy(out, g.touched)
	return out
}

// FrontierLen returns the number of cells waiting to be backtracked to.
func (g *Generator) FrontierLen() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.frontier)
}

// Stats returns the step counters accumulated so far.
func (g *Generator) Stats() Stats {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.stats
}

// Width returns the grid width.
func (g *Generator) Width() int { return g.grid.Width() }

// Height returns the grid height.
func (g *Generator) Height() int { return g.grid.Height() }

// Run steps until generation completes. Cancellation is checked between steps.
func (g *Generator) Run(ctx context.Context) (Stats, error) {
	tracer := telemetry.Tracer("maze")
	ctx, span := tracer.Start(ctx, "maze.generate")
	defer span.End()

	startTime := time.Now()

	var err error
	for {
		if err = ctx.Err(); err != nil {
			break
		}
		res := g.Step()
		if res.Status == StatusDone {
			break
		}
		if res.Status == StatusStalled {
			err = ErrStalled
			break
		}
	}

	stats := g.Stats()
	span.SetAttributes(
		attribute.Int("maze.width", g.grid.Width()),
		attribute.Int("maze.height", g.grid.Height()),
		attribute.Int("maze.advanced", stats.Advanced),
		attribute.Int("maze.backtracked", stats.Backtracked),
		attribute.Int("maze.peak_frontier", stats.PeakFrontier),
		attribute.Int64("maze.generation_ms", time.Since(startTime).Milliseconds()),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return stats, fmt.Errorf("generate %dx%d maze: %w", g.grid.Width(), g.grid.Height(), err)
	}
	return stats, nil
}
