package telemetry

import "github.com/pthm-cable/impulse/physics"

// Collector accumulates events within time windows and produces WindowStats.
type Collector struct {
	windowDurationSec   float64
	windowDurationTicks int32
	dt                  float32

	// Current window tracking
	windowStartTick int32

	// Counters for current window
	steps   physics.StepStats
	updates int
	pickups int
	jumps   int
}

// NewCollector creates a new stats collector.
// windowDurationSec: how long each stats window lasts in simulation seconds
// dt: seconds per tick (used for tick-to-time conversion)
func NewCollector(windowDurationSec float64, dt float32) *Collector {
	ticksPerWindow := int32(windowDurationSec / float64(dt))
	if ticksPerWindow < 1 {
		ticksPerWindow = 1
	}

	return &Collector{
		windowDurationSec:   windowDurationSec,
		windowDurationTicks: ticksPerWindow,
		dt:                  dt,
	}
}

// RecordStep adds the counters of one World.Update to the window.
func (c *Collector) RecordStep(s physics.StepStats) {
	c.updates++
	c.steps.CandidatePairs += s.CandidatePairs
	c.steps.FilteredPairs += s.FilteredPairs
	c.steps.Collisions += s.Collisions
	c.steps.StaticContacts += s.StaticContacts
	c.steps.DynamicContacts += s.DynamicContacts
	c.steps.VetoedContacts += s.VetoedContacts
	c.steps.ClampedBodies += s.ClampedBodies
}

// RecordPickup records a collected pickup.
func (c *Collector) RecordPickup() {
	c.pickups++
}

// RecordJump records a player jump.
func (c *Collector) RecordJump() {
	c.jumps++
}

// ShouldFlush returns true if enough ticks have passed to flush the window.
func (c *Collector) ShouldFlush(currentTick int32) bool {
	return currentTick-c.windowStartTick >= c.windowDurationTicks
}

// Snapshot describes the world at the end of a window.
type Snapshot struct {
	Bodies        int
	DynamicBodies int
	GridCells     int
	Score         int
	Speeds        []float64 // one per dynamic body
	Penetrations  []float64 // penetration depth per dynamic body
}

// Flush produces a WindowStats and resets counters for the next window.
func (c *Collector) Flush(currentTick int32, snap Snapshot) WindowStats {
	var hitRate float64
	if c.steps.CandidatePairs > 0 {
		hitRate = float64(c.steps.Collisions) / float64(c.steps.CandidatePairs)
	}

	speed := Summarize(snap.Speeds)
	pen := Summarize(snap.Penetrations)

	stats := WindowStats{
		WindowStartTick: c.windowStartTick,
		WindowEndTick:   currentTick,
		SimTimeSec:      float64(currentTick) * float64(c.dt),

		Bodies:        snap.Bodies,
		DynamicBodies: snap.DynamicBodies,
		StaticBodies:  snap.Bodies - snap.DynamicBodies,
		GridCells:     snap.GridCells,

		Steps:           c.updates,
		CandidatePairs:  c.steps.CandidatePairs,
		FilteredPairs:   c.steps.FilteredPairs,
		Collisions:      c.steps.Collisions,
		StaticContacts:  c.steps.StaticContacts,
		DynamicContacts: c.steps.DynamicContacts,
		VetoedContacts:  c.steps.VetoedContacts,
		ClampedBodies:   c.steps.ClampedBodies,
		PairHitRate:     hitRate,

		Pickups: c.pickups,
		Jumps:   c.jumps,
		Score:   snap.Score,

		SpeedMean: speed.Mean,
		SpeedStd:  speed.Std,
		SpeedP50:  speed.P50,
		SpeedP90:  speed.P90,
		SpeedMax:  speed.Max,

		PenetrationMean: pen.Mean,
		PenetrationP90:  pen.P90,
		PenetrationMax:  pen.Max,
	}

	// Reset for next window
	c.windowStartTick = currentTick
	c.steps = physics.StepStats{}
	c.updates = 0
	c.pickups = 0
	c.jumps = 0

	return stats
}

// WindowDurationTicks returns the number of ticks per window.
func (c *Collector) WindowDurationTicks() int32 {
	return c.windowDurationTicks
}
