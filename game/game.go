package game

import (
	"fmt"
	"log/slog"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/impulse/camera"
	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/config"
	"github.com/pthm-cable/impulse/geom"
	"github.com/pthm-cable/impulse/physics"
	"github.com/pthm-cable/impulse/renderer"
	"github.com/pthm-cable/impulse/telemetry"
	"github.com/pthm-cable/impulse/ui"
)

// Options configures game behavior.
type Options struct {
	Seed           int64
	LogStats       bool
	StatsWindowSec float64
	OutputDir      string
	Headless       bool
	StepsPerUpdate int // ticks per UpdateHeadless call
}

// Game holds the sandbox: a physics world, the ECS entities that give its
// bodies meaning, and the telemetry and UI around them.
type Game struct {
	cfg  *config.Config
	seed int64
	rng  *rand.Rand

	physics *physics.World
	world   *ecs.World

	// Entity mappers
	bodyMapper   *ecs.Map3[components.BodyRef, components.Kind, components.Tint]
	coinMapper   *ecs.Map4[components.BodyRef, components.Kind, components.Tint, components.Pickup]
	playerMapper *ecs.Map4[components.BodyRef, components.Kind, components.Tint, components.Player]
	drawFilter   *ecs.Filter3[components.BodyRef, components.Kind, components.Tint]

	// Lookups
	kindMap   *ecs.Map[components.Kind]
	pickupMap *ecs.Map[components.Pickup]
	playerMap *ecs.Map[components.Player]

	entities map[physics.BodyID]ecs.Entity
	removed  []ecs.Entity
	player   physics.BodyID
	playerE  ecs.Entity

	state     State
	autopilot autopilot
	input     Input

	// Simulation
	tick           int32
	dt             float32
	substeps       int
	stepper        *Stepper
	paused         bool
	stepRequested  bool
	resetRequested bool
	stepsPerUpdate int
	headless       bool

	// Telemetry
	collector     *telemetry.Collector
	perfCollector *telemetry.PerfCollector
	outputManager *telemetry.OutputManager
	logStats      bool

	// Rendering and UI (graphics mode only)
	camera       *camera.Camera
	background   *renderer.BackgroundRenderer
	debugDraw    *renderer.DebugDraw
	hud          *ui.HUD
	controlPanel *ui.ControlPanel
	perfPanel    *ui.PerfPanel
	controls     ui.ControlState
	contacts     []physics.Collision

	screenWidth, screenHeight float32
	worldWidth, worldHeight   float32
}

// NewGameWithOptions creates a new game instance with the given options.
func NewGameWithOptions(cfg *config.Config, opts Options) (*Game, error) {
	if opts.StepsPerUpdate < 1 {
		opts.StepsPerUpdate = 1
	}
	statsWindow := opts.StatsWindowSec
	if statsWindow <= 0 {
		statsWindow = cfg.Telemetry.StatsWindow
	}

	g := &Game{
		cfg:            cfg,
		seed:           opts.Seed,
		dt:             cfg.Derived.DT32,
		substeps:       cfg.Physics.Substeps,
		stepper:        NewStepper(cfg.Derived.DT32, float32(cfg.Physics.MaxFrameTime)),
		stepsPerUpdate: opts.StepsPerUpdate,
		headless:       opts.Headless,
		autopilot:      newAutopilot(),
		collector:      telemetry.NewCollector(statsWindow, cfg.Derived.DT32),
		perfCollector:  telemetry.NewPerfCollector(cfg.Telemetry.PerfCollectorWindow),
		logStats:       opts.LogStats,
		screenWidth:    cfg.Derived.ScreenW32,
		screenHeight:   cfg.Derived.ScreenH32,
		worldWidth:     cfg.Derived.WorldW32,
		worldHeight:    cfg.Derived.WorldH32,
	}

	if err := g.reset(); err != nil {
		return nil, err
	}

	om, err := telemetry.NewOutputManager(opts.OutputDir)
	if err != nil {
		return nil, fmt.Errorf("creating output manager: %w", err)
	}
	g.outputManager = om
	if err := om.WriteConfig(cfg); err != nil {
		slog.Error("failed to write config", "error", err)
	}

	if !g.headless {
		g.camera = camera.New(g.screenWidth, g.screenHeight, g.worldWidth, g.worldHeight)
		g.background = renderer.NewBackgroundRenderer(int32(g.screenWidth), int32(g.screenHeight))
		g.debugDraw = renderer.NewDebugDraw()
		g.hud = ui.NewHUD()
		g.controlPanel = ui.NewControlPanel(g.screenWidth-260, 130)
		g.perfPanel = ui.NewPerfPanel(int32(g.screenWidth)-260, 450)
	}

	return g, nil
}

// reset builds a fresh physics world, ECS world and scene.
func (g *Game) reset() error {
	pcfg, err := physicsConfig(g.cfg)
	if err != nil {
		return err
	}
	pcfg.ContactListener = g
	pcfg.PhaseTimer = g.perfCollector

	pw, err := physics.NewWorld(pcfg)
	if err != nil {
		return fmt.Errorf("creating physics world: %w", err)
	}

	g.physics = pw
	g.world = ecs.NewWorld()
	g.bodyMapper = ecs.NewMap3[components.BodyRef, components.Kind, components.Tint](g.world)
	g.coinMapper = ecs.NewMap4[components.BodyRef, components.Kind, components.Tint, components.Pickup](g.world)
	g.playerMapper = ecs.NewMap4[components.BodyRef, components.Kind, components.Tint, components.Player](g.world)
	g.drawFilter = ecs.NewFilter3[components.BodyRef, components.Kind, components.Tint](g.world)
	g.kindMap = ecs.NewMap[components.Kind](g.world)
	g.pickupMap = ecs.NewMap[components.Pickup](g.world)
	g.playerMap = ecs.NewMap[components.Player](g.world)

	g.entities = make(map[physics.BodyID]ecs.Entity)
	g.removed = g.removed[:0]
	g.rng = rand.New(rand.NewSource(g.seed))
	g.state = State{}
	g.stepper.Reset()

	g.controls = ui.ControlState{
		Paused:       g.paused,
		Substeps:     g.substeps,
		GravityY:     pw.Gravity()[1],
		BroadPhase:   pw.BroadPhase(),
		ShowGrid:     g.controls.ShowGrid,
		ShowContacts: g.controls.ShowContacts,
	}

	if err := g.buildScene(); err != nil {
		return fmt.Errorf("building scene: %w", err)
	}
	slog.Info("scene built",
		"seed", g.seed,
		"bodies", g.physics.Len(),
		"broad_phase", g.physics.BroadPhase().String(),
	)
	return nil
}

// physicsConfig maps the sandbox config onto a physics world config.
func physicsConfig(cfg *config.Config) (physics.Config, error) {
	bp, err := physics.ParseBroadPhase(cfg.Physics.BroadPhase)
	if err != nil {
		return physics.Config{}, err
	}
	pc := physics.DefaultConfig()
	pc.Gravity = geom.V(float32(cfg.Physics.GravityX), float32(cfg.Physics.GravityY))
	pc.TerminalVelocity = float32(cfg.Physics.TerminalVelocity)
	pc.BroadPhase = bp
	pc.CellSize = float32(cfg.Physics.GridCellSize)
	pc.Filtering = cfg.Physics.Filtering
	pc.RestitutionOnStatic = cfg.Physics.RestitutionOnStatic
	return pc, nil
}

// step runs a single fixed tick of the simulation.
func (g *Game) step(in Input) error {
	g.perfCollector.StartTick()
	defer g.perfCollector.EndTick()

	g.perfCollector.StartPhase(telemetry.PhaseInput)
	g.applyInput(in)

	if err := g.physics.Update(g.dt, g.substeps); err != nil {
		return err
	}

	g.perfCollector.StartPhase(telemetry.PhaseCleanup)
	g.flushRemovals()

	g.perfCollector.StartPhase(telemetry.PhaseTelemetry)
	g.collector.RecordStep(g.physics.Stats())
	g.tick++
	g.flushTelemetry()
	return nil
}

// UpdateHeadless runs simulation steps without any rendering.
func (g *Game) UpdateHeadless() error {
	for i := 0; i < g.stepsPerUpdate; i++ {
		if err := g.step(g.autopilot.input(g.tick)); err != nil {
			return err
		}
	}
	return nil
}

// Update handles input and advances the simulation by the frame time.
func (g *Game) Update() {
	g.perfCollector.RecordFrame()
	g.handleInput()
	g.applyControls()

	n := g.stepper.Advance(rl.GetFrameTime())
	if g.paused {
		n = 0
	}
	if g.stepOnce() {
		n = 1
	}
	for i := 0; i < n; i++ {
		if err := g.step(g.input); err != nil {
			slog.Error("physics update failed", "tick", g.tick, "error", err)
			g.controls.Paused = true
			g.paused = true
			return
		}
		g.input.Jump = false
	}
	if g.paused {
		g.input.Jump = false
	}

	if g.controls.ShowContacts {
		g.contacts = g.physics.DetectCollisions()
	}
	if b, ok := g.physics.Lookup(g.player); ok {
		g.camera.Follow(b.Center(), 0.1)
	}
}

// Tick returns the current simulation tick.
func (g *Game) Tick() int32 {
	return g.tick
}

// State returns the current scoreboard.
func (g *Game) State() State {
	return g.state
}

// Unload releases resources.
func (g *Game) Unload() {
	if g.outputManager != nil {
		if err := g.outputManager.Close(); err != nil {
			slog.Error("failed to close output", "error", err)
		}
	}
}
