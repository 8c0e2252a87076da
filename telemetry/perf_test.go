package telemetry

import (
	"testing"
	"time"

	"github.com/pthm-cable/impulse/physics"
)

func TestPerfCollector_BasicTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate a few ticks
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(physics.PhaseBroadPhase)
		time.Sleep(100 * time.Microsecond)
		pc.StartPhase(physics.PhaseResolve)
		time.Sleep(200 * time.Microsecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Verify we got timing data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration")
	}

	// Verify phases are tracked
	if len(stats.PhaseAvg) == 0 {
		t.Error("expected phase averages to be populated")
	}

	if _, ok := stats.PhaseAvg[physics.PhaseBroadPhase]; !ok {
		t.Error("expected broad_phase phase to be tracked")
	}

	if _, ok := stats.PhaseAvg[physics.PhaseResolve]; !ok {
		t.Error("expected resolve phase to be tracked")
	}
}

func TestPerfCollector_RollingWindow(t *testing.T) {
	pc := NewPerfCollector(5) // Small window

	// Fill window completely
	for i := 0; i < 10; i++ {
		pc.StartTick()
		pc.StartPhase(physics.PhaseBroadPhase)
		pc.EndTick()
	}

	stats := pc.Stats()

	// Should have data
	if stats.AvgTickDuration <= 0 {
		t.Error("expected positive average tick duration after window filled")
	}

	if stats.TicksPerSecond <= 0 {
		t.Error("expected positive ticks per second")
	}
}

func TestPerfCollector_PhasePercentages(t *testing.T) {
	pc := NewPerfCollector(10)

	// Simulate with uneven phase durations
	for i := 0; i < 5; i++ {
		pc.StartTick()
		pc.StartPhase(PhaseInput)
		time.Sleep(10 * time.Microsecond)
		pc.StartPhase(physics.PhaseResolve)
		time.Sleep(time.Millisecond)
		pc.EndTick()
	}

	stats := pc.Stats()

	fastPct := stats.PhasePct[PhaseInput]
	slowPct := stats.PhasePct[physics.PhaseResolve]

	// Slow phase should take more % than fast
	if slowPct <= fastPct {
		t.Errorf("expected slow phase (%v%%) > fast phase (%v%%)", slowPct, fastPct)
	}
}

func TestPerfCollector_EmptyStats(t *testing.T) {
	pc := NewPerfCollector(10)

	stats := pc.Stats()

	// Empty collector should return zero values without panicking
	if stats.AvgTickDuration != 0 {
		t.Error("expected zero avg tick duration for empty collector")
	}

	if stats.PhaseAvg == nil {
		t.Error("expected non-nil PhaseAvg map")
	}

	if stats.PhasePct == nil {
		t.Error("expected non-nil PhasePct map")
	}
}

func TestPerfCollector_FrameTiming(t *testing.T) {
	pc := NewPerfCollector(10)

	// First call establishes baseline
	pc.RecordFrame()
	time.Sleep(16 * time.Millisecond) // ~60fps frame time
	// Second call measures duration
	pc.RecordFrame()

	stats := pc.Stats()

	if stats.FrameDuration < 15*time.Millisecond {
		t.Errorf("expected frame duration >= 15ms, got %v", stats.FrameDuration)
	}

	if stats.FPS <= 0 {
		t.Error("expected positive FPS")
	}

	// With 16ms frames, expect ~60 FPS (allow range 40-80)
	if stats.FPS < 40 || stats.FPS > 80 {
		t.Errorf("expected FPS between 40-80 with 16ms frame time, got %v", stats.FPS)
	}
}

func TestPerfStats_ToCSV(t *testing.T) {
	s := PerfStats{
		AvgTickDuration: 2 * time.Millisecond,
		PhasePct: map[string]float64{
			physics.PhaseBroadPhase: 25,
			physics.PhaseResolve:    40,
			PhaseInput:              5,
		},
	}

	rec := s.ToCSV(120)
	if rec.WindowEnd != 120 || rec.AvgTickUS != 2000 {
		t.Errorf("record = %+v", rec)
	}
	if rec.BroadPhasePct != 25 || rec.ResolvePct != 40 || rec.InputPct != 5 {
		t.Errorf("phase percentages not mapped: %+v", rec)
	}
	if rec.NarrowPhasePct != 0 {
		t.Errorf("NarrowPhasePct = %v, want 0", rec.NarrowPhasePct)
	}
}

// A PerfCollector can be plugged straight into the world.
func TestPerfCollector_AsPhaseTimer(t *testing.T) {
	pc := NewPerfCollector(4)
	cfg := physics.DefaultConfig()
	cfg.PhaseTimer = pc
	w, err := physics.NewWorld(cfg)
	if err != nil {
		t.Fatal(err)
	}

	pc.StartTick()
	if err := w.Update(1.0/60, 2); err != nil {
		t.Fatal(err)
	}
	pc.EndTick()

	stats := pc.Stats()
	for _, phase := range []string{physics.PhaseForces, physics.PhaseIntegrate, physics.PhaseResolve, physics.PhaseFinalize} {
		if _, ok := stats.PhaseAvg[phase]; !ok {
			t.Errorf("phase %q not recorded", phase)
		}
	}
}

func TestPerfCollector_PhaseOutsideTickIgnored(t *testing.T) {
	pc := NewPerfCollector(4)
	pc.StartTick()
	pc.StartPhase(PhaseInput)
	pc.EndTick()
	before := pc.ring[0]

	pc.StartPhase(physics.PhaseBroadPhase)
	time.Sleep(time.Millisecond)
	pc.StartPhase(physics.PhaseNarrowPhase)
	pc.EndTick()

	if pc.ring[0] != before {
		t.Errorf("stored tick changed after the tick ended: %+v -> %+v", before, pc.ring[0])
	}
	if pc.filled != 1 {
		t.Errorf("filled = %d, want 1", pc.filled)
	}
	if _, ok := pc.Stats().PhaseAvg[physics.PhaseBroadPhase]; ok {
		t.Error("phase started outside a tick was recorded")
	}
}

func TestPerfCollector_SubstepEntries(t *testing.T) {
	tests := []struct {
		name     string
		substeps int
	}{
		{"single", 1},
		{"three", 3},
		{"eight", 8},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pc := NewPerfCollector(4)
			cfg := physics.DefaultConfig()
			cfg.PhaseTimer = pc
			w, err := physics.NewWorld(cfg)
			if err != nil {
				t.Fatal(err)
			}

			for i := 0; i < 2; i++ {
				pc.StartTick()
				pc.StartPhase(PhaseInput)
				if err := w.Update(1.0/60, tc.substeps); err != nil {
					t.Fatal(err)
				}
				pc.EndTick()
			}

			stats := pc.Stats()
			want := map[string]float64{
				PhaseInput:             1,
				physics.PhaseForces:    1,
				physics.PhaseIntegrate: float64(tc.substeps),
				physics.PhaseResolve:   float64(tc.substeps),
				physics.PhaseFinalize:  1,
			}
			for phase, n := range want {
				if got := stats.PhaseEntries[phase]; got != n {
					t.Errorf("%s entries = %v, want %v", phase, got, n)
				}
			}
			if _, ok := stats.PhaseEntries[PhaseCleanup]; ok {
				t.Error("cleanup reported without being entered")
			}
			if rec := stats.ToCSV(1); rec.Substeps != float64(tc.substeps) {
				t.Errorf("CSV substeps = %v, want %d", rec.Substeps, tc.substeps)
			}
		})
	}
}

func TestPerfCollector_UnknownPhaseClosesPrevious(t *testing.T) {
	pc := NewPerfCollector(2)
	pc.StartTick()
	pc.StartPhase(PhaseInput)
	pc.StartPhase("not-a-phase")
	time.Sleep(time.Millisecond)
	pc.EndTick()

	stats := pc.Stats()
	if len(stats.PhaseAvg) != 1 {
		t.Errorf("phases = %v, want only %q", stats.PhaseAvg, PhaseInput)
	}
	if stats.PhaseAvg[PhaseInput] >= time.Millisecond {
		t.Errorf("input phase ran on into the unknown one: %v", stats.PhaseAvg[PhaseInput])
	}
}
