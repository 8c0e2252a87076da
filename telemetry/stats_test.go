package telemetry

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pthm-cable/impulse/physics"
)

func TestSummarize(t *testing.T) {
	values := []float64{10, 1, 9, 2, 8, 3, 7, 4, 6, 5}
	d := Summarize(values)

	if math.Abs(d.Mean-5.5) > 1e-9 {
		t.Errorf("Mean = %v, want 5.5", d.Mean)
	}
	// Empirical quantiles pick an observed value.
	if d.P50 != 5 {
		t.Errorf("P50 = %v, want 5", d.P50)
	}
	if d.P90 != 9 {
		t.Errorf("P90 = %v, want 9", d.P90)
	}
	if d.Max != 10 {
		t.Errorf("Max = %v, want 10", d.Max)
	}
	// Sample standard deviation of 1..10.
	if math.Abs(d.Std-3.0277) > 1e-3 {
		t.Errorf("Std = %v, want ~3.0277", d.Std)
	}
	// Input order is preserved.
	if values[0] != 10 || values[1] != 1 {
		t.Error("Summarize reordered its input")
	}
}

func TestSummarizeEdgeCases(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   Distribution
	}{
		{"empty", nil, Distribution{}},
		{"single", []float64{4}, Distribution{Mean: 4, P50: 4, P90: 4, Max: 4}},
		{"constant", []float64{2, 2, 2}, Distribution{Mean: 2, P50: 2, P90: 2, Max: 2}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Summarize(tt.values); got != tt.want {
				t.Errorf("Summarize(%v) = %+v, want %+v", tt.values, got, tt.want)
			}
		})
	}
}

func TestCollectorFlush(t *testing.T) {
	c := NewCollector(1.0, 0.25)
	if c.WindowDurationTicks() != 4 {
		t.Fatalf("WindowDurationTicks = %d, want 4", c.WindowDurationTicks())
	}
	if c.ShouldFlush(3) {
		t.Error("should not flush before the window ends")
	}
	if !c.ShouldFlush(4) {
		t.Error("should flush at the window end")
	}

	for i := 0; i < 4; i++ {
		c.RecordStep(physics.StepStats{CandidatePairs: 10, Collisions: 2, StaticContacts: 1, DynamicContacts: 1, VetoedContacts: 1})
	}
	c.RecordPickup()
	c.RecordJump()
	c.RecordJump()

	s := c.Flush(4, Snapshot{
		Bodies:        12,
		DynamicBodies: 3,
		GridCells:     7,
		Score:         30,
		Speeds:        []float64{1, 2, 3},
		Penetrations:  []float64{0, 0.5, 0.25},
	})

	if s.Steps != 4 || s.Collisions != 8 || s.CandidatePairs != 40 || s.VetoedContacts != 4 {
		t.Errorf("counters = %+v", s)
	}
	if math.Abs(s.PairHitRate-0.2) > 1e-9 {
		t.Errorf("PairHitRate = %v, want 0.2", s.PairHitRate)
	}
	if s.StaticBodies != 9 {
		t.Errorf("StaticBodies = %d, want 9", s.StaticBodies)
	}
	if s.Pickups != 1 || s.Jumps != 2 || s.Score != 30 {
		t.Errorf("events = pickups %d jumps %d score %d", s.Pickups, s.Jumps, s.Score)
	}
	if math.Abs(s.SpeedMean-2) > 1e-9 || s.SpeedMax != 3 {
		t.Errorf("speed mean %v max %v", s.SpeedMean, s.SpeedMax)
	}
	if s.PenetrationMax != 0.5 {
		t.Errorf("PenetrationMax = %v, want 0.5", s.PenetrationMax)
	}
	if math.Abs(s.SimTimeSec-1.0) > 1e-6 {
		t.Errorf("SimTimeSec = %v, want 1", s.SimTimeSec)
	}

	// Counters reset for the next window.
	next := c.Flush(8, Snapshot{})
	if next.Steps != 0 || next.Collisions != 0 || next.Pickups != 0 || next.WindowStartTick != 4 {
		t.Errorf("window not reset: %+v", next)
	}
}

func TestOutputManagerWritesCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "run")
	om, err := NewOutputManager(dir)
	if err != nil {
		t.Fatalf("NewOutputManager: %v", err)
	}

	for tick := int32(10); tick <= 30; tick += 10 {
		if err := om.WriteTelemetry(WindowStats{WindowEndTick: tick, Collisions: int(tick)}); err != nil {
			t.Fatal(err)
		}
		if err := om.WritePerf(PerfStats{}, tick); err != nil {
			t.Fatal(err)
		}
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "telemetry.csv"))
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 4 {
		t.Fatalf("telemetry.csv has %d lines, want header + 3", len(lines))
	}
	if !strings.HasPrefix(lines[0], "window_end,sim_time,bodies") {
		t.Errorf("header = %q", lines[0])
	}
	if strings.Count(string(data), "window_end") != 1 {
		t.Error("header written more than once")
	}

	perf, err := os.ReadFile(filepath.Join(dir, "perf.csv"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(perf), "broad_phase_pct") {
		t.Error("perf.csv missing phase columns")
	}
}

func TestNilOutputManagerIsNoop(t *testing.T) {
	om, err := NewOutputManager("")
	if err != nil || om != nil {
		t.Fatalf("NewOutputManager(\"\") = %v, %v", om, err)
	}
	if err := om.WriteTelemetry(WindowStats{}); err != nil {
		t.Error(err)
	}
	if err := om.WritePerf(PerfStats{}, 1); err != nil {
		t.Error(err)
	}
	if err := om.WriteConfig(nil); err != nil {
		t.Error(err)
	}
	if om.Dir() != "" || om.Close() != nil {
		t.Error("nil manager should be inert")
	}
}
