package game

import (
	"log/slog"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/impulse/geom"
)

// handleInput processes keyboard input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeyP) {
		g.controls.Paused = !g.controls.Paused
	}
	if rl.IsKeyPressed(rl.KeyPeriod) {
		g.stepRequested = true
	}

	// Substeps with [ and ]
	if rl.IsKeyPressed(rl.KeyLeftBracket) && g.controls.Substeps > 1 {
		g.controls.Substeps--
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) && g.controls.Substeps < 16 {
		g.controls.Substeps++
	}

	if rl.IsKeyPressed(rl.KeyG) {
		g.controls.ShowGrid = !g.controls.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyC) {
		g.controls.ShowContacts = !g.controls.ShowContacts
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.resetRequested = true
	}

	// Player controls
	g.input.Left = rl.IsKeyDown(rl.KeyA)
	g.input.Right = rl.IsKeyDown(rl.KeyD)
	if rl.IsKeyPressed(rl.KeySpace) || rl.IsKeyPressed(rl.KeyW) {
		g.input.Jump = true
	}

	// Camera controls
	g.handleCameraInput()
}

// stepOnce consumes a pending single-step request.
func (g *Game) stepOnce() bool {
	if !g.stepRequested {
		return false
	}
	g.stepRequested = false
	return g.paused
}

// applyControls pushes edits from the keyboard and control panel into the
// simulation.
func (g *Game) applyControls() {
	if g.resetRequested {
		g.resetRequested = false
		g.resetScene()
	}

	c := &g.controls
	if c.Substeps < 1 {
		c.Substeps = 1
	}
	g.paused = c.Paused
	g.substeps = c.Substeps

	grav := g.physics.Gravity()
	if grav[1] != c.GravityY {
		g.physics.SetGravity(geom.V(grav[0], c.GravityY))
	}
	if c.BroadPhase != g.physics.BroadPhase() {
		if err := g.physics.SetBroadPhase(c.BroadPhase); err != nil {
			slog.Error("failed to switch broad phase", "error", err)
			c.BroadPhase = g.physics.BroadPhase()
		}
	}
}

// resetScene rebuilds the world from the seed.
func (g *Game) resetScene() {
	if err := g.reset(); err != nil {
		slog.Error("failed to reset scene", "error", err)
		return
	}
	if g.camera != nil {
		g.camera.Reset()
	}
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	if g.camera != nil {
		g.camera.Resize(w, h)
	}
	if g.background != nil {
		g.background.Resize(int32(w), int32(h))
	}
	if g.controlPanel != nil {
		g.controlPanel.SetPosition(w-260, 130)
	}
	if g.perfPanel != nil {
		g.perfPanel.SetPosition(int32(w)-260, 450)
	}
}

// handleCameraInput processes camera pan/zoom controls.
func (g *Game) handleCameraInput() {
	if g.camera == nil {
		return
	}

	// Pan speed scales inversely with zoom for natural feel
	panSpeed := float32(8.0) / g.camera.Zoom

	// Arrow key panning
	if rl.IsKeyDown(rl.KeyRight) {
		g.camera.Pan(panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyLeft) {
		g.camera.Pan(-panSpeed, 0)
	}
	if rl.IsKeyDown(rl.KeyDown) {
		g.camera.Pan(0, panSpeed)
	}
	if rl.IsKeyDown(rl.KeyUp) {
		g.camera.Pan(0, -panSpeed)
	}

	// Zoom controls: mouse wheel or +/- keys
	wheelMove := rl.GetMouseWheelMove()
	if wheelMove != 0 {
		g.camera.ZoomBy(1 + wheelMove*0.1)
	}
	if rl.IsKeyPressed(rl.KeyEqual) || rl.IsKeyPressed(rl.KeyKpAdd) {
		g.camera.ZoomBy(1.25)
	}
	if rl.IsKeyPressed(rl.KeyMinus) || rl.IsKeyPressed(rl.KeyKpSubtract) {
		g.camera.ZoomBy(0.8)
	}

	// Home key to reset camera
	if rl.IsKeyPressed(rl.KeyHome) {
		g.camera.Reset()
	}
}
