package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/physics"
)

// ControlState is the sandbox state the control panel edits.
type ControlState struct {
	Paused       bool
	Substeps     int
	GravityY     float32
	BroadPhase   physics.BroadPhase
	ShowGrid     bool
	ShowContacts bool
}

// ControlActions are one-shot requests raised by the panel this frame.
type ControlActions struct {
	Step  bool // advance one tick while paused
	Reset bool // rebuild the scene
}

// ControlPanel renders raygui controls for the running simulation.
type ControlPanel struct {
	x, y  float32
	width float32
}

// NewControlPanel creates a control panel anchored at (x, y).
func NewControlPanel(x, y float32) *ControlPanel {
	return &ControlPanel{x: x, y: y, width: 240}
}

// SetPosition updates the panel position.
func (c *ControlPanel) SetPosition(x, y float32) {
	c.x = x
	c.y = y
}

// Draw renders the panel and applies edits to s.
func (c *ControlPanel) Draw(s *ControlState) ControlActions {
	var act ControlActions
	const rowH = 28
	x, y := c.x, c.y
	half := (c.width - 10) / 2

	rl.DrawRectangle(int32(x-10), int32(y-10), int32(c.width+20), 300, rl.Color{R: 20, G: 20, B: 28, A: 220})
	rl.DrawText("Simulation", int32(x), int32(y), 16, rl.White)
	y += 24

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(s.Paused, "Resume", "Pause")) {
		s.Paused = !s.Paused
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, "Step") {
		act.Step = true
	}
	y += rowH + 4

	rl.DrawText(fmt.Sprintf("Substeps: %d", s.Substeps), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	sub := gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: c.width - 40, Height: 18}, "1", "16", float32(s.Substeps), 1, 16)
	s.Substeps = int(sub + 0.5)
	y += rowH

	rl.DrawText(fmt.Sprintf("Gravity: %.0f", s.GravityY), int32(x), int32(y), 14, rl.LightGray)
	y += 18
	s.GravityY = gui.SliderBar(rl.Rectangle{X: x, Y: y, Width: c.width - 40, Height: 18}, "0", "2000", s.GravityY, 0, 2000)
	y += rowH + 4

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: c.width, Height: 24}, "Broad phase: "+s.BroadPhase.String()) {
		s.BroadPhase = nextBroadPhase(s.BroadPhase)
	}
	y += rowH + 4

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: half, Height: 24}, toggleText(s.ShowGrid, "Hide grid", "Show grid")) {
		s.ShowGrid = !s.ShowGrid
	}
	if gui.Button(rl.Rectangle{X: x + half + 10, Y: y, Width: half, Height: 24}, toggleText(s.ShowContacts, "Hide contacts", "Contacts")) {
		s.ShowContacts = !s.ShowContacts
	}
	y += rowH + 4

	if gui.Button(rl.Rectangle{X: x, Y: y, Width: c.width, Height: 24}, "Reset scene") {
		act.Reset = true
	}

	return act
}

// nextBroadPhase cycles grid -> grid_rebuild -> brute_force -> grid.
func nextBroadPhase(p physics.BroadPhase) physics.BroadPhase {
	switch p {
	case physics.BroadPhaseGrid:
		return physics.BroadPhaseGridRebuild
	case physics.BroadPhaseGridRebuild:
		return physics.BroadPhaseBruteForce
	}
	return physics.BroadPhaseGrid
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
