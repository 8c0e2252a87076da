package game

import (
	"log/slog"

	"github.com/pthm-cable/impulse/geom"
	"github.com/pthm-cable/impulse/physics"
	"github.com/pthm-cable/impulse/telemetry"
)

// flushTelemetry checks if the stats window should be flushed and writes it out.
func (g *Game) flushTelemetry() {
	if !g.collector.ShouldFlush(g.tick) {
		return
	}

	stats := g.collector.Flush(g.tick, g.snapshot())
	perfStats := g.perfCollector.Stats()

	// Log stats if enabled (console output)
	if g.logStats {
		stats.LogStats()
		perfStats.LogStats()
	}

	// Write to CSV if output manager is enabled
	if g.outputManager != nil {
		if err := g.outputManager.WriteTelemetry(stats); err != nil {
			slog.Error("failed to write telemetry", "error", err)
		}
		if err := g.outputManager.WritePerf(perfStats, stats.WindowEndTick); err != nil {
			slog.Error("failed to write perf", "error", err)
		}
	}
}

// snapshot samples per-body distributions at the end of a window.
func (g *Game) snapshot() telemetry.Snapshot {
	snap := telemetry.Snapshot{
		Bodies:    g.physics.Len(),
		GridCells: g.physics.Grid().CellCount(),
		Score:     g.state.Score,
	}
	g.physics.Each(func(_ physics.BodyID, b *physics.Body) {
		if b.IsStatic() {
			return
		}
		snap.DynamicBodies++
		snap.Speeds = append(snap.Speeds, float64(geom.Length(b.Velocity)))
		snap.Penetrations = append(snap.Penetrations, float64(geom.Length(b.Penetration())))
	})
	return snap
}
