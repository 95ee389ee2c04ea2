package app

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/mazeband/internal/export"
	"github.com/samdwyer/mazeband/internal/maze"
	"github.com/samdwyer/mazeband/internal/presets"
	"github.com/samdwyer/mazeband/internal/telemetry"
	"github.com/samdwyer/mazeband/internal/ui"
)

// stopAttempts bounds retries when posting the stop request to a full queue.
const stopAttempts = 100

// Interrupt payloads posted to the screen's event queue.
type (
	tickEvent struct{}
	stopEvent struct{}
)

// App holds the interactive session state.
type App struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer
	palette  presets.Palette
	sizes    *presets.SizeRegistry

	gen        *maze.Generator
	seed       int64
	runID      uuid.UUID
	state      State
	lastStatus maze.Status
	message    string
	span       trace.Span
	running    bool
}

// New creates an app on the terminal.
func New(cfg Config) (*App, error) {
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	a, err := NewWithScreen(cfg, screen)
	if err != nil {
		screen.Close()
		return nil, err
	}
	return a, nil
}

// NewWithScreen creates an app drawing to an already initialized screen.
func NewWithScreen(cfg Config, screen *ui.Screen) (*App, error) {
	themes, err := presets.LoadThemeRegistry()
	if err != nil {
		return nil, err
	}
	palette, err := themes.Palette(cfg.Theme)
	if err != nil {
		return nil, err
	}
	sizes, err := presets.LoadSizeRegistry()
	if err != nil {
		return nil, err
	}
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}

	return &App{
		cfg:      cfg,
		screen:   screen,
		renderer: ui.NewRenderer(screen, palette),
		palette:  palette,
		sizes:    sizes,
		running:  true,
	}, nil
}

// Run generates mazes until the user quits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if err := a.newMaze(ctx, a.cfg.seedOrRandom()); err != nil {
		a.screen.Close()
		return err
	}

	paceCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.pace(paceCtx)

	var err error
	for a.running {
		ev := a.screen.PollEvent()
		if ev == nil {
			break
		}
		if err = a.handleEvent(ctx, ev); err != nil {
			break
		}
	}

	a.endSpan()
	a.screen.Close()
	return err
}

// pace posts one tick per interval. Generation itself has no notion of time.
func (a *App) pace(ctx context.Context) {
	ticker := time.NewTicker(a.cfg.Tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			// The queue may be full of ticks; the stop request must not be dropped.
			for i := 0; i < stopAttempts; i++ {
				if a.screen.PostEvent(tcell.NewEventInterrupt(stopEvent{})) == nil {
					break
				}
				time.Sleep(a.cfg.Tick)
			}
			return
		case <-ticker.C:
			// A full queue drops the tick; the next one catches up.
			_ = a.screen.PostEvent(tcell.NewEventInterrupt(tickEvent{}))
		}
	}
}

// newMaze starts a fresh maze sized to the current configuration and screen.
func (a *App) newMaze(ctx context.Context, seed int64) error {
	a.endSpan()

	fitW, fitH := ui.GridSize(a.screen.Size())
	width, height, err := a.cfg.Dimensions(a.sizes, fitW, fitH)
	if err != nil {
		return err
	}
	clamped := false
	if fitW > 0 && width > fitW {
		width, clamped = fitW, true
	}
	if fitH > 0 && height > fitH {
		height, clamped = fitH, true
	}
	gen, err := maze.New(width, height, rand.New(rand.NewSource(seed)))
	if err != nil {
		return err
	}

	a.gen = gen
	a.seed = seed
	a.runID = uuid.New()
	a.state = StateRunning
	a.lastStatus = maze.StatusAdvanced
	a.message = ""
	if clamped {
		a.message = fmt.Sprintf("clamped to %dx%d", width, height)
		log.Printf("requested maze does not fit the terminal, clamped to %dx%d", width, height)
	}

	_, a.span = telemetry.Tracer("app").Start(ctx, "maze.session",
		trace.WithAttributes(
			attribute.String("maze.run_id", a.runID.String()),
			attribute.Int64("maze.seed", seed),
			attribute.Int("maze.width", width),
			attribute.Int("maze.height", height),
		),
	)
	log.Printf("run %s: %dx%d maze, seed %d", a.runID, width, height, seed)

	a.redraw()
	return nil
}

// handleEvent processes a single event.
func (a *App) handleEvent(ctx context.Context, ev tcell.Event) error {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		switch ev.Data().(type) {
		case tickEvent:
			if a.state == StateRunning {
				a.advance(ctx)
			}
		case stopEvent:
			a.running = false
		}
	case *tcell.EventKey:
		return a.handleKeyEvent(ctx, ev)
	case *tcell.EventResize:
		a.screen.Sync()
		a.redraw()
	}
	return nil
}

// handleKeyEvent processes keyboard input.
func (a *App) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) error {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.running = false
	case tcell.KeyRune:
		return a.handleRune(ctx, ev.Rune())
	}
	return nil
}

func (a *App) handleRune(ctx context.Context, r rune) error {
	switch r {
	case 'q', 'Q':
		a.running = false
	case ' ':
		switch a.state {
		case StateRunning:
			a.state = StatePaused
		case StatePaused:
			a.state = StateRunning
		}
		a.renderStatus()
	case 'n', 'N':
		if a.state == StatePaused {
			a.advance(ctx)
		}
	case 'r', 'R':
		return a.newMaze(ctx, time.Now().UnixNano())
	case 's', 'S':
		if a.state == StateDone {
			a.exportPNG(ctx, a.exportPath())
		}
	}
	return nil
}

// advance performs one generation step and redraws what it touched.
func (a *App) advance(ctx context.Context) {
	res := a.gen.Step()
	a.lastStatus = res.Status
	a.renderer.RenderCells(a.gen.Snapshot(), res.Touched)

	switch res.Status {
	case maze.StatusDone:
		a.finish(ctx)
	case maze.StatusStalled:
		a.state = StatePaused
		a.message = "generation stalled"
		if a.span != nil {
			a.span.RecordError(maze.ErrStalled)
			a.span.SetStatus(codes.Error, maze.ErrStalled.Error())
		}
		log.Printf("run %s: %v", a.runID, maze.ErrStalled)
	}
	a.renderStatus()
}

// finish records the completed run and writes the configured export.
func (a *App) finish(ctx context.Context) {
	a.state = StateDone
	stats := a.gen.Stats()
	if a.span != nil {
		a.span.SetAttributes(
			attribute.Int("maze.advanced", stats.Advanced),
			attribute.Int("maze.backtracked", stats.Backtracked),
			attribute.Int("maze.peak_frontier", stats.PeakFrontier),
		)
	}
	log.Printf("run %s: done, %d advanced, %d backtracked", a.runID, stats.Advanced, stats.Backtracked)

	if a.cfg.ExportPath != "" {
		a.exportPNG(ctx, a.cfg.ExportPath)
	}
	a.endSpan()
}

func (a *App) exportPNG(ctx context.Context, path string) {
	if a.span != nil {
		ctx = trace.ContextWithSpan(ctx, a.span)
	}
	if err := export.SavePNG(ctx, path, a.gen.Snapshot(), a.palette, export.DefaultCellPixels); err != nil {
		a.message = "export failed: " + err.Error()
		log.Printf("run %s: %v", a.runID, err)
		return
	}
	a.message = "saved " + path
}

// exportPath names the PNG written by the save key.
func (a *App) exportPath() string {
	if a.cfg.ExportPath != "" {
		return a.cfg.ExportPath
	}
	return fmt.Sprintf("maze-%s.png", a.runID.String()[:8])
}

func (a *App) endSpan() {
	if a.span != nil {
		a.span.End()
		a.span = nil
	}
}

// redraw repaints the maze and status line.
func (a *App) redraw() {
	a.renderer.Render(a.gen.Snapshot())
	a.renderStatus()
}

func (a *App) renderStatus() {
	snap := a.gen.Snapshot()
	msg := fmt.Sprintf("%s  seed %d  %dx%d  visited %d/%d  %s",
		a.state, a.seed, snap.Width, snap.Height, snap.Visited, snap.Width*snap.Height, a.lastStatus)
	if a.message != "" {
		msg += "  " + a.message
	} else {
		msg += "  [space] pause [n] step [r] new [s] save [q] quit"
	}
	a.renderer.RenderMessage(msg, 2*snap.Height+1)
}
