package game

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/stablefluids/camera"
	"github.com/pthm-cable/stablefluids/colormap"
	"github.com/pthm-cable/stablefluids/config"
	"github.com/pthm-cable/stablefluids/fluid"
	"github.com/pthm-cable/stablefluids/inspector"
	"github.com/pthm-cable/stablefluids/parallel"
	"github.com/pthm-cable/stablefluids/renderer"
	"github.com/pthm-cable/stablefluids/spectral"
	"github.com/pthm-cable/stablefluids/stream"
	"github.com/pthm-cable/stablefluids/telemetry"
	"github.com/pthm-cable/stablefluids/ui"
)

// Options configures a run beyond what the config file holds.
type Options struct {
	OutputDir      string // CSV, config and snapshot output (empty = disabled)
	Headless       bool
	Stream         bool // Serve frames on cfg.Stream.Addr
	LogStats       bool // Log each telemetry window
	StepsPerUpdate int
}

// Game owns the solver and everything around it: input, telemetry, the
// stream hub and, in graphics mode, drawing.
type Game struct {
	cfg    *config.Config
	solver *fluid.Solver

	// Telemetry
	perf      *telemetry.PerfCollector
	collector *telemetry.Collector
	bookmarks *telemetry.BookmarkDetector
	output    *telemetry.OutputManager
	lastStats telemetry.StepStats
	snap      fluid.Snapshot

	// Remote input and frames
	hub    *stream.Hub
	cancel context.CancelFunc

	// Rendering
	cam       *camera.Camera
	field     *renderer.FieldRenderer
	particles *renderer.ParticleRenderer
	hud       *ui.HUD
	inspector *inspector.Inspector

	// Scripted impulses, sorted by tick
	impulses    []config.ImpulseConfig
	nextImpulse int

	// State
	forces         []fluid.Force // queued for the next step
	paused         bool
	headless       bool
	logStats       bool
	showField      bool
	showParticles  bool
	stepsPerUpdate int

	// Mouse drag
	dragging    bool
	dragBlocked bool // left press landed on the inspector panel
	panning     bool
	lastMouse   rl.Vector2
}

// NewGame builds the solver from cfg and starts the optional outputs.
// Any configuration the solver rejects surfaces here.
func NewGame(cfg *config.Config, opts Options) (*Game, error) {
	params, err := fluid.ParamsFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("solver params: %w", err)
	}

	pool := parallel.NewPool(cfg.Solver.Workers)
	transform, err := spectral.New(params.Dim, pool)
	if err != nil {
		return nil, fmt.Errorf("transform: %w", err)
	}
	solver, err := fluid.NewSolver(params, transform, pool)
	if err != nil {
		return nil, fmt.Errorf("solver: %w", err)
	}
	if cfg.Initial.NoiseAmplitude > 0 {
		solver.SeedNoise(cfg.Initial.NoiseAmplitude, cfg.Initial.NoiseScale, cfg.Initial.Seed)
	}

	output, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		solver.Close()
		return nil, err
	}
	if err := output.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	g := &Game{
		cfg:            cfg,
		solver:         solver,
		perf:           telemetry.NewPerfCollector(cfg.Telemetry.PerfWindow),
		collector:      telemetry.NewCollector(cfg.Telemetry.LogEvery),
		bookmarks:      telemetry.NewBookmarkDetector(10),
		output:         output,
		headless:       opts.Headless,
		logStats:       opts.LogStats,
		showField:      cfg.Render.ShowField,
		showParticles:  cfg.Render.ShowParticles,
		stepsPerUpdate: max(opts.StepsPerUpdate, 1),
	}
	solver.SetPhaseTimer(g.perf)

	g.impulses = append(g.impulses, cfg.Scenario.Impulses...)
	sort.SliceStable(g.impulses, func(i, j int) bool { return g.impulses[i].Tick < g.impulses[j].Tick })

	if opts.Stream {
		ctx, cancel := context.WithCancel(context.Background())
		hub := stream.NewHub(cfg.Stream)
		if err := hub.Start(ctx); err != nil {
			cancel()
			g.Unload()
			return nil, err
		}
		g.hub, g.cancel = hub, cancel
	}

	if !opts.Headless {
		lut := colormap.Viridis()
		g.cam = camera.New()
		g.field = renderer.NewFieldRenderer(lut, float32(cfg.Render.FieldGain))
		g.particles = renderer.NewParticleRenderer(1)
		g.hud = ui.NewHUD()
		g.inspector = inspector.NewInspector()
	}

	return g, nil
}

// Tick returns the number of completed solver steps.
func (g *Game) Tick() int {
	return g.solver.Tick()
}

// Solver exposes the underlying solver.
func (g *Game) Solver() *fluid.Solver {
	return g.solver
}

// Update handles window input and advances the simulation.
func (g *Game) Update() {
	if g.headless {
		g.UpdateHeadless()
		return
	}
	g.handleInput()

	if g.paused {
		return
	}
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// UpdateHeadless advances the simulation without touching raylib.
func (g *Game) UpdateHeadless() {
	for i := 0; i < g.stepsPerUpdate; i++ {
		g.step()
	}
}

// Draw renders one frame.
func (g *Game) Draw() {
	if g.headless {
		return
	}
	g.perf.RecordFrame()

	w, h := float32(rl.GetScreenWidth()), float32(rl.GetScreenHeight())
	vp := renderer.Viewport(w, h, ui.PanelWidth)

	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)

	if g.showField {
		g.field.Update(g.solver.Field())
		g.field.Draw(vp, g.cam)
	}
	if g.showParticles {
		g.particles.Draw(g.solver.Particles(), vp, g.cam)
	}
	g.inspector.Update(g.solver.Field(), g.solver.Tick())
	g.inspector.DrawSelectionHighlight(vp, g.cam, g.solver.Layout().Dim)
	g.inspector.Draw(vp)

	act := g.hud.Draw(int32(vp.Width), int32(h), ui.HUDData{
		Tick:          g.solver.Tick(),
		FPS:           rl.GetFPS(),
		Paused:        g.paused,
		ShowField:     g.showField,
		ShowParticles: g.showParticles,
		Gain:          g.field.Gain,
		Zoom:          g.cam.Zoom,
		Dim:           g.solver.Layout().Dim,
		Particles:     len(g.solver.Particles()),
		Clients:       g.clients(),
		Stats:         g.lastStats,
		Perf:          g.perf.Stats(),
	})
	g.applyHUD(act)

	rl.EndDrawing()
}

func (g *Game) applyHUD(act ui.HUDActions) {
	if act.TogglePause {
		g.paused = !g.paused
	}
	if act.Reset {
		g.reset()
	}
	if act.ToggleField {
		g.showField = !g.showField
	}
	if act.ToggleParticles {
		g.showParticles = !g.showParticles
	}
	if act.Gain > 0 {
		g.field.Gain = act.Gain
	}
}

func (g *Game) clients() int {
	if g.hub == nil {
		return 0
	}
	return g.hub.Clients()
}

func (g *Game) reset() {
	g.solver.Reset()
	g.forces = g.forces[:0]
	g.nextImpulse = 0
	slog.Info("solver reset")
}

// Unload stops the stream, writes the run summary and frees resources.
func (g *Game) Unload() {
	if g.cancel != nil {
		g.cancel()
	}

	summary := g.collector.Summary()
	summary.Final = telemetry.Measure(g.solver.Tick(), g.solver.Field())
	slog.Info("run summary", "summary", summary)
	if err := g.output.WriteSummary(summary); err != nil {
		slog.Error("failed to write summary", "error", err)
	}
	if err := g.output.Close(); err != nil {
		slog.Error("failed to close output", "error", err)
	}

	if g.field != nil {
		g.field.Unload()
	}
	g.solver.Close()
}
