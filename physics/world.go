package physics

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/pthm-cable/impulse/geom"
)

// World errors.
var (
	ErrInvalidConfig   = errors.New("physics: invalid world config")
	ErrInvalidTimestep = errors.New("physics: timestep must be positive")
	ErrInvalidSubsteps = errors.New("physics: substeps must be at least 1")
	ErrStaleBody       = errors.New("physics: stale or unknown body id")
)

// RestSpeed is the speed below which a body's velocity is zeroed after each
// sub-step, so resting contacts settle instead of jittering.
const RestSpeed = 0.1

// BroadPhase selects how candidate pairs are found.
type BroadPhase uint8

const (
	// BroadPhaseGrid keeps a spatial hash grid up to date incrementally.
	BroadPhaseGrid BroadPhase = iota
	// BroadPhaseGridRebuild clears and refills the grid every sub-step.
	BroadPhaseGridRebuild
	// BroadPhaseBruteForce tests every pair of bodies.
	BroadPhaseBruteForce
)

var broadPhaseNames = [...]string{"grid", "grid_rebuild", "brute_force"}

func (p BroadPhase) String() string {
	if int(p) < len(broadPhaseNames) {
		return broadPhaseNames[p]
	}
	return fmt.Sprintf("BroadPhase(%d)", p)
}

// ParseBroadPhase converts a config name ("grid", "grid_rebuild",
// "brute_force") to a BroadPhase.
func ParseBroadPhase(name string) (BroadPhase, error) {
	for i, n := range broadPhaseNames {
		if n == name {
			return BroadPhase(i), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown broad phase %q", ErrInvalidConfig, name)
}

// Config holds world-wide simulation parameters.
type Config struct {
	Gravity          geom.Vec2
	TerminalVelocity float32 // velocity magnitude bound applied after every Update
	BroadPhase       BroadPhase
	CellSize         float32 // spatial hash cell size for the grid broad phases

	// Filtering enables CollisionFilter checks between bodies.
	Filtering bool
	// RestitutionOnStatic makes dynamic bodies bounce off static ones using
	// their own restitution. When false those contacts are fully inelastic.
	RestitutionOnStatic bool

	ContactListener ContactListener
	PhaseTimer      PhaseTimer
	Logger          *slog.Logger
}

// DefaultConfig returns a configuration for a y-down world measured in
// pixels.
func DefaultConfig() Config {
	return Config{
		Gravity:          geom.V(0, 980),
		TerminalVelocity: 2000,
		BroadPhase:       BroadPhaseGrid,
		CellSize:         64,
		Filtering:        true,
	}
}

func (c Config) validate() error {
	if !(c.TerminalVelocity > 0) {
		return fmt.Errorf("%w: terminal velocity %v", ErrInvalidConfig, c.TerminalVelocity)
	}
	if !(c.CellSize > 0) {
		return fmt.Errorf("%w: cell size %v", ErrInvalidConfig, c.CellSize)
	}
	if int(c.BroadPhase) >= len(broadPhaseNames) {
		return fmt.Errorf("%w: broad phase %d", ErrInvalidConfig, c.BroadPhase)
	}
	return nil
}

// slot is one entry of the body arena.
type slot struct {
	body       Body
	generation uint32
	alive      bool
	removing   bool // removal requested during Update
}

func (s *slot) active() bool {
	return s.alive && !s.removing
}

// World owns all bodies and advances the simulation.
//
// A World is not safe for concurrent use. Body pointers returned by Body
// and Lookup are invalidated by AddBody.
type World struct {
	cfg    Config
	logger *slog.Logger

	slots []slot
	free  []uint32
	live  int

	grid       *SpatialHashGrid
	collisions []Collision // contacts of the current sub-step
	query      []Collision // scratch for DetectCollisions
	pending    []BodyID
	stepping   bool

	stats StepStats
}

// NewWorld creates an empty world.
func NewWorld(cfg Config) (*World, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &World{
		cfg:    cfg,
		logger: logger,
		grid:   NewSpatialHashGrid(cfg.CellSize),
	}, nil
}

// Config returns the world's current configuration.
func (w *World) Config() Config {
	return w.cfg
}

// Gravity returns the gravitational acceleration.
func (w *World) Gravity() geom.Vec2 {
	return w.cfg.Gravity
}

// SetGravity changes the gravitational acceleration.
func (w *World) SetGravity(g geom.Vec2) {
	w.cfg.Gravity = g
}

// SetContactListener installs l, or removes the listener when l is nil.
func (w *World) SetContactListener(l ContactListener) {
	w.cfg.ContactListener = l
}

// SetPhaseTimer installs t, or removes the timer when t is nil.
func (w *World) SetPhaseTimer(t PhaseTimer) {
	w.cfg.PhaseTimer = t
}

// BroadPhase returns the active broad phase.
func (w *World) BroadPhase() BroadPhase {
	return w.cfg.BroadPhase
}

// SetBroadPhase switches the broad phase. The grid is cleared so it is
// rebuilt from scratch on the next step.
func (w *World) SetBroadPhase(p BroadPhase) error {
	if int(p) >= len(broadPhaseNames) {
		return fmt.Errorf("%w: broad phase %d", ErrInvalidConfig, p)
	}
	if p != w.cfg.BroadPhase {
		w.grid.Clear()
	}
	w.cfg.BroadPhase = p
	return nil
}

// Grid returns the spatial hash grid used by the grid broad phases.
func (w *World) Grid() *SpatialHashGrid {
	return w.grid
}

// Len returns the number of live bodies.
func (w *World) Len() int {
	return w.live
}

// Stats returns the counters of the most recent Update.
func (w *World) Stats() StepStats {
	return w.stats
}

// AddBody stores b in the world and returns its handle. Freed slots are
// reused with a new generation.
func (w *World) AddBody(b Body) BodyID {
	var id BodyID
	if n := len(w.free); n > 0 {
		idx := w.free[n-1]
		w.free = w.free[:n-1]
		s := &w.slots[idx]
		s.body = b
		s.alive = true
		s.removing = false
		id = BodyID{index: idx, generation: s.generation}
	} else {
		idx := uint32(len(w.slots))
		w.slots = append(w.slots, slot{body: b, generation: 1, alive: true})
		id = BodyID{index: idx, generation: 1}
	}
	w.live++
	w.logger.Debug("body added", "id", id.String(), "type", b.kind.String())
	return id
}

// RemoveBody removes the body. Removals requested while Update is running
// (from a contact listener) take effect when the step finishes; until then
// the body is ignored by collision detection and resolution.
func (w *World) RemoveBody(id BodyID) error {
	s, ok := w.slot(id)
	if !ok || s.removing {
		return fmt.Errorf("%w: %v", ErrStaleBody, id)
	}
	if w.stepping {
		s.removing = true
		w.pending = append(w.pending, id)
		return nil
	}
	w.removeNow(id)
	return nil
}

func (w *World) removeNow(id BodyID) {
	s := &w.slots[id.index]
	w.grid.Remove(id)
	s.body = Body{}
	s.alive = false
	s.removing = false
	s.generation++
	w.free = append(w.free, id.index)
	w.live--
	w.logger.Debug("body removed", "id", id.String())
}

// Contains reports whether id refers to a live body.
func (w *World) Contains(id BodyID) bool {
	s, ok := w.slot(id)
	return ok && !s.removing
}

// Body returns the body for id. It panics if id is stale or unknown; use
// Lookup when the handle may have outlived its body.
func (w *World) Body(id BodyID) *Body {
	b, ok := w.Lookup(id)
	if !ok {
		panic(fmt.Sprintf("%v: %v", ErrStaleBody, id))
	}
	return b
}

// Lookup returns the body for id, or false if id is stale or unknown.
func (w *World) Lookup(id BodyID) (*Body, bool) {
	s, ok := w.slot(id)
	if !ok {
		return nil, false
	}
	return &s.body, true
}

// Each calls fn for every live body in index order.
func (w *World) Each(fn func(id BodyID, b *Body)) {
	for i := range w.slots {
		s := &w.slots[i]
		if !s.active() {
			continue
		}
		fn(BodyID{index: uint32(i), generation: s.generation}, &s.body)
	}
}

func (w *World) slot(id BodyID) (*slot, bool) {
	if id.IsNil() || int(id.index) >= len(w.slots) {
		return nil, false
	}
	s := &w.slots[id.index]
	if !s.alive || s.generation != id.generation {
		return nil, false
	}
	return s, true
}

func (w *World) idAt(i int) BodyID {
	return BodyID{index: uint32(i), generation: w.slots[i].generation}
}

func (w *World) phase(name string) {
	if w.cfg.PhaseTimer != nil {
		w.cfg.PhaseTimer.StartPhase(name)
	}
}

// Update advances the simulation by timestep seconds.
//
// Gravity, accumulated forces and damping are applied once over the full
// timestep. Positions are then integrated in substeps equal slices, with
// collision detection and resolution after each slice. Finally
// accelerations are cleared and velocities clamped to the terminal velocity.
func (w *World) Update(timestep float32, substeps int) error {
	if !(timestep > 0) {
		return fmt.Errorf("%w: got %v", ErrInvalidTimestep, timestep)
	}
	if substeps < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidSubsteps, substeps)
	}

	w.stats = StepStats{Bodies: w.live, Substeps: substeps}
	w.stepping = true

	w.phase(PhaseForces)
	gravity := w.cfg.Gravity
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		b := &s.body
		b.penetration = geom.Zero
		b.ApplyForce(gravity.Mul(b.mass))
		b.accelerate(timestep)
		b.applyDamping(timestep)
	}

	dt := timestep / float32(substeps)
	for step := 0; step < substeps; step++ {
		w.phase(PhaseIntegrate)
		for i := range w.slots {
			if w.slots[i].alive {
				w.slots[i].body.integrate(dt)
			}
		}

		w.collisions = w.detect(w.collisions[:0], true)

		w.phase(PhaseResolve)
		// Static contacts first, so dynamic pairs work on corrected positions.
		sort.SliceStable(w.collisions, func(i, j int) bool {
			return w.collisions[i].Type < w.collisions[j].Type
		})
		for i := range w.collisions {
			w.resolve(w.collisions[i])
		}

		for i := range w.slots {
			b := &w.slots[i].body
			if geom.LengthSq(b.Velocity) < RestSpeed*RestSpeed {
				b.Velocity = geom.Zero
			}
		}
	}

	w.phase(PhaseFinalize)
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		b := &s.body
		b.Acceleration = geom.Zero
		if v, clamped := geom.ClampLength(b.Velocity, w.cfg.TerminalVelocity); clamped {
			b.Velocity = v
			w.stats.ClampedBodies++
		}
	}

	w.stepping = false
	for _, id := range w.pending {
		w.removeNow(id)
	}
	w.pending = w.pending[:0]
	return nil
}

// DetectCollisions returns the collisions between bodies at their current
// positions without resolving them or touching penetration. It is safe to
// call from a ContactListener; the step in progress keeps its own list.
func (w *World) DetectCollisions() []Collision {
	saved := w.stats
	w.query = w.detect(w.query[:0], false)
	w.stats = saved

	out := make([]Collision, len(w.query))
	copy(out, w.query)
	return out
}

// detect appends the collisions found by the configured broad phase to dst.
// Phases are only reported to the timer when record is set.
func (w *World) detect(dst []Collision, record bool) []Collision {
	if w.cfg.BroadPhase == BroadPhaseBruteForce {
		if record {
			w.phase(PhaseNarrowPhase)
		}
		for i := range w.slots {
			if !w.slots[i].active() {
				continue
			}
			for j := i + 1; j < len(w.slots); j++ {
				if !w.slots[j].active() {
					continue
				}
				dst = w.consider(dst, w.idAt(i), w.idAt(j), record)
			}
		}
		return dst
	}

	if record {
		w.phase(PhaseBroadPhase)
	}
	if w.cfg.BroadPhase == BroadPhaseGridRebuild {
		w.grid.Clear()
	}
	for i := range w.slots {
		s := &w.slots[i]
		if !s.alive {
			continue
		}
		if w.cfg.BroadPhase == BroadPhaseGridRebuild {
			w.grid.Insert(w.idAt(i), s.body.Aabb())
		} else {
			w.grid.UpdateBody(w.idAt(i), s.body.Aabb())
		}
	}
	pairs := w.grid.Pairs()

	if record {
		w.phase(PhaseNarrowPhase)
	}
	for _, p := range pairs {
		dst = w.consider(dst, p.A, p.B, record)
	}
	return dst
}

// consider runs filtering and the narrow phase for one candidate pair,
// with a.Index() < b.Index(), appending a hit to dst.
func (w *World) consider(dst []Collision, a, b BodyID, record bool) []Collision {
	sa, sb := &w.slots[a.index], &w.slots[b.index]
	if !sa.active() || !sb.active() {
		return dst
	}
	w.stats.CandidatePairs++

	ba, bb := &sa.body, &sb.body
	if ba.kind == Static && bb.kind == Static {
		return dst
	}
	if w.cfg.Filtering && !ba.Filter.CanCollide(bb.Filter) {
		w.stats.FilteredPairs++
		return dst
	}

	c, ok := collide(a, b, ba, bb)
	if !ok {
		return dst
	}
	if record {
		ba.accumulatePenetration(c.Mtv)
		bb.accumulatePenetration(c.Mtv.Mul(-1))
		w.stats.Collisions++
		if c.Type == DynamicStatic {
			w.stats.StaticContacts++
		} else {
			w.stats.DynamicContacts++
		}
	}
	return append(dst, c)
}
