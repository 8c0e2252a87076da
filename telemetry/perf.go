package telemetry

import (
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/impulse/physics"
)

// Phase names for the sandbox tick. The physics phases are reported by
// World.Update itself.
const (
	PhaseInput     = "input"
	PhaseCleanup   = "cleanup"
	PhaseTelemetry = "telemetry"
)

// tickPhases lists every phase in tick order, for logging and CSV export.
var tickPhases = [numPhases]string{
	PhaseInput,
	physics.PhaseForces,
	physics.PhaseIntegrate,
	physics.PhaseBroadPhase,
	physics.PhaseNarrowPhase,
	physics.PhaseResolve,
	physics.PhaseFinalize,
	PhaseCleanup,
	PhaseTelemetry,
}

const numPhases = 9

var phaseIndex = func() map[string]int {
	m := make(map[string]int, len(tickPhases))
	for i, name := range tickPhases {
		m[name] = i
	}
	return m
}()

// TickPhases returns the phase names in tick order.
func TickPhases() []string {
	return append([]string(nil), tickPhases[:]...)
}

var _ physics.PhaseTimer = (*PerfCollector)(nil)

// tickSample is the timing of one tick. Sub-step phases are entered several
// times per tick; their durations add up and entries counts the visits.
type tickSample struct {
	total   time.Duration
	phases  [numPhases]time.Duration
	entries [numPhases]int
}

// PerfCollector times ticks phase by phase and keeps the last windowSize
// ticks in a ring.
type PerfCollector struct {
	ring   []tickSample
	next   int
	filled int

	cur        tickSample
	inTick     bool
	tickStart  time.Time
	phase      int // index into tickPhases, -1 when no phase is open
	phaseStart time.Time

	lastFrame     time.Time
	frameDuration time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize ticks
// (60 when windowSize < 1).
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		ring:  make([]tickSample, windowSize),
		phase: -1,
	}
}

// StartTick opens a new tick.
func (p *PerfCollector) StartTick() {
	p.cur = tickSample{}
	p.inTick = true
	p.tickStart = time.Now()
	p.phase = -1
}

// StartPhase closes the open phase and opens the named one. Calls outside a
// tick, such as a debug collision query between frames, are ignored, and
// names outside the tick phases only close the open phase.
func (p *PerfCollector) StartPhase(name string) {
	if !p.inTick {
		return
	}
	now := time.Now()
	p.closePhase(now)
	if i, ok := phaseIndex[name]; ok {
		p.phase = i
		p.phaseStart = now
		p.cur.entries[i]++
	}
}

func (p *PerfCollector) closePhase(now time.Time) {
	if p.phase >= 0 {
		p.cur.phases[p.phase] += now.Sub(p.phaseStart)
		p.phase = -1
	}
}

// EndTick closes the tick and stores it in the ring.
func (p *PerfCollector) EndTick() {
	if !p.inTick {
		return
	}
	now := time.Now()
	p.closePhase(now)
	p.cur.total = now.Sub(p.tickStart)
	p.inTick = false

	p.ring[p.next] = p.cur
	p.next = (p.next + 1) % len(p.ring)
	if p.filled < len(p.ring) {
		p.filled++
	}
}

// RecordFrame marks a rendered frame; the gap to the previous call is the
// frame duration.
func (p *PerfCollector) RecordFrame() {
	now := time.Now()
	if !p.lastFrame.IsZero() {
		p.frameDuration = now.Sub(p.lastFrame)
	}
	p.lastFrame = now
}

// PerfStats summarises the ticks in the window.
type PerfStats struct {
	AvgTickDuration time.Duration
	MinTickDuration time.Duration
	MaxTickDuration time.Duration
	TickJitter      time.Duration // standard deviation of tick duration

	// Per phase, over the phases that ran: mean time per tick, share of
	// the mean tick, and mean visits per tick (sub-steps for the inner
	// physics phases).
	PhaseAvg     map[string]time.Duration
	PhasePct     map[string]float64
	PhaseEntries map[string]float64

	TicksPerSecond float64

	FrameDuration time.Duration
	FPS           float64
}

// Stats aggregates the window. Frame timing is reported even before the
// first tick completes.
func (p *PerfCollector) Stats() PerfStats {
	s := PerfStats{
		PhaseAvg:      make(map[string]time.Duration),
		PhasePct:      make(map[string]float64),
		PhaseEntries:  make(map[string]float64),
		FrameDuration: p.frameDuration,
	}
	if p.frameDuration > 0 {
		s.FPS = float64(time.Second) / float64(p.frameDuration)
	}
	if p.filled == 0 {
		return s
	}

	ticks := make([]float64, p.filled)
	var phaseSum [numPhases]time.Duration
	var entrySum [numPhases]int
	for i, sample := range p.ring[:p.filled] {
		ticks[i] = float64(sample.total)
		for ph := range tickPhases {
			phaseSum[ph] += sample.phases[ph]
			entrySum[ph] += sample.entries[ph]
		}
	}

	mean, std := stat.MeanStdDev(ticks, nil)
	if p.filled < 2 {
		std = 0
	}
	s.AvgTickDuration = time.Duration(mean)
	s.MinTickDuration = time.Duration(floats.Min(ticks))
	s.MaxTickDuration = time.Duration(floats.Max(ticks))
	s.TickJitter = time.Duration(std)
	if mean > 0 {
		s.TicksPerSecond = float64(time.Second) / mean
	}

	n := float64(p.filled)
	for ph, name := range tickPhases {
		if entrySum[ph] == 0 {
			continue
		}
		avg := float64(phaseSum[ph]) / n
		s.PhaseAvg[name] = time.Duration(avg)
		s.PhaseEntries[name] = float64(entrySum[ph]) / n
		if mean > 0 {
			s.PhasePct[name] = avg / mean * 100
		}
	}
	return s
}

// LogStats logs the summary at info level.
func (s PerfStats) LogStats() {
	slog.Info("perf", "stats", s)
}

// LogValue implements slog.LogValuer. Phases under 0.1% are left out.
func (s PerfStats) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.Int64("avg_tick_us", s.AvgTickDuration.Microseconds()),
		slog.Int64("min_tick_us", s.MinTickDuration.Microseconds()),
		slog.Int64("max_tick_us", s.MaxTickDuration.Microseconds()),
		slog.Int64("jitter_us", s.TickJitter.Microseconds()),
		slog.Int("ticks_per_sec", int(s.TicksPerSecond)),
	}
	if s.FPS > 0 {
		attrs = append(attrs, slog.Int("fps", int(s.FPS)))
	}
	for _, name := range tickPhases {
		if pct := s.PhasePct[name]; pct > 0.1 {
			attrs = append(attrs, slog.Float64(name+"_pct", float64(int(pct*10))/10))
		}
	}
	return slog.GroupValue(attrs...)
}

// PerfStatsCSV is one row of perf.csv.
type PerfStatsCSV struct {
	WindowEnd      int32   `csv:"window_end"`
	AvgTickUS      int64   `csv:"avg_tick_us"`
	MinTickUS      int64   `csv:"min_tick_us"`
	MaxTickUS      int64   `csv:"max_tick_us"`
	JitterUS       int64   `csv:"jitter_us"`
	TicksPerSec    float64 `csv:"ticks_per_sec"`
	FPS            float64 `csv:"fps"`
	InputPct       float64 `csv:"input_pct"`
	ForcesPct      float64 `csv:"forces_pct"`
	IntegratePct   float64 `csv:"integrate_pct"`
	BroadPhasePct  float64 `csv:"broad_phase_pct"`
	NarrowPhasePct float64 `csv:"narrow_phase_pct"`
	ResolvePct     float64 `csv:"resolve_pct"`
	FinalizePct    float64 `csv:"finalize_pct"`
	CleanupPct     float64 `csv:"cleanup_pct"`
	TelemetryPct   float64 `csv:"telemetry_pct"`
	Substeps       float64 `csv:"substeps"`
}

// ToCSV flattens s into a row ending at windowEnd.
func (s PerfStats) ToCSV(windowEnd int32) PerfStatsCSV {
	return PerfStatsCSV{
		WindowEnd:      windowEnd,
		AvgTickUS:      s.AvgTickDuration.Microseconds(),
		MinTickUS:      s.MinTickDuration.Microseconds(),
		MaxTickUS:      s.MaxTickDuration.Microseconds(),
		JitterUS:       s.TickJitter.Microseconds(),
		TicksPerSec:    s.TicksPerSecond,
		FPS:            s.FPS,
		InputPct:       s.PhasePct[PhaseInput],
		ForcesPct:      s.PhasePct[physics.PhaseForces],
		IntegratePct:   s.PhasePct[physics.PhaseIntegrate],
		BroadPhasePct:  s.PhasePct[physics.PhaseBroadPhase],
		NarrowPhasePct: s.PhasePct[physics.PhaseNarrowPhase],
		ResolvePct:     s.PhasePct[physics.PhaseResolve],
		FinalizePct:    s.PhasePct[physics.PhaseFinalize],
		CleanupPct:     s.PhasePct[PhaseCleanup],
		TelemetryPct:   s.PhasePct[PhaseTelemetry],
		Substeps:       s.PhaseEntries[physics.PhaseIntegrate],
	}
}
