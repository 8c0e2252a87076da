package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/components"
	"github.com/pthm-cable/impulse/telemetry"
	"github.com/pthm-cable/impulse/ui"
)

const controlsLegend = "A/D: move | Space/W: jump | P: pause | .: step | [ ]: substeps | G: grid | C: contacts | R: reset | Arrows/wheel: camera"

// Draw renders the game state.
func (g *Game) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.Black)
	g.background.Draw()

	view := g.camera.VisibleWorldBounds()

	g.debugDraw.Begin(g.camera)
	if g.controls.ShowGrid {
		g.debugDraw.DrawGrid(g.physics.Grid(), view)
	}
	g.drawBodies()
	if g.controls.ShowContacts {
		g.debugDraw.DrawContacts(g.physics, g.contacts)
	}
	g.debugDraw.End()

	g.drawUI()
	rl.EndDrawing()
}

// drawBodies draws every visible entity with its tint.
func (g *Game) drawBodies() {
	query := g.drawFilter.Query()
	for query.Next() {
		ref, kind, tint := query.Get()
		body, ok := g.physics.Lookup(ref.ID)
		if !ok || !g.camera.IsVisible(body.Aabb()) {
			continue
		}
		g.debugDraw.DrawBody(body, rl.Color{R: tint.R, G: tint.G, B: tint.B, A: tint.A})
		if *kind != components.KindTerrain && *kind != components.KindWall && g.controls.ShowContacts {
			g.debugDraw.DrawPenetration(body)
		}
	}
}

// drawUI renders the HUD, control panel and perf panel in screen space.
func (g *Game) drawUI() {
	stats := g.physics.Stats()
	g.hud.Draw(ui.HUDData{
		Title:      "Impulse",
		Tick:       g.tick,
		FPS:        rl.GetFPS(),
		Paused:     g.paused,
		Bodies:     g.physics.Len(),
		Collisions: stats.Collisions,
		Vetoed:     stats.VetoedContacts,
		Coins:      g.state.CoinsCollected,
		Score:      g.state.Score,
		Jumps:      g.state.Jumps,
		Grounded:   g.PlayerGrounded(),
		BroadPhase: g.physics.BroadPhase().String(),
		Substeps:   g.substeps,
	})
	g.hud.DrawControls(int32(g.screenHeight), controlsLegend)

	act := g.controlPanel.Draw(&g.controls)
	if act.Step {
		g.stepRequested = true
	}
	if act.Reset {
		g.resetRequested = true
	}

	perf := g.perfCollector.Stats()
	data := ui.PerfPanelData{
		AvgTick: perf.AvgTickDuration,
		Phases:  telemetry.TickPhases(),
		PhaseMs: make(map[string]float64, len(perf.PhaseAvg)),
		Pct:     perf.PhasePct,
	}
	for phase, d := range perf.PhaseAvg {
		data.PhaseMs[phase] = float64(d.Microseconds()) / 1000
	}
	g.perfPanel.Draw(data)
}
