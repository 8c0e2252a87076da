package ui

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title      string
	Tick       int32
	FPS        int32
	Paused     bool
	Bodies     int
	Collisions int
	Vetoed     int
	Coins      int
	Score      int
	Jumps      int
	Grounded   bool
	BroadPhase string
	Substeps   int
}

// HUD renders the main heads-up display.
type HUD struct{}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{}
}

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	rl.DrawText(data.Title, 10, 10, 20, rl.White)

	rl.DrawText(
		fmt.Sprintf("Coins: %d | Score: %d | Jumps: %d | Grounded: %v", data.Coins, data.Score, data.Jumps, data.Grounded),
		10, 35, 16, rl.LightGray,
	)

	rl.DrawText(
		fmt.Sprintf("Tick: %d | FPS: %d | Bodies: %d | Contacts: %d (%d vetoed)", data.Tick, data.FPS, data.Bodies, data.Collisions, data.Vetoed),
		10, 55, 16, rl.LightGray,
	)

	rl.DrawText(fmt.Sprintf("Broad phase: %s | Substeps: %d", data.BroadPhase, data.Substeps), 10, 75, 16, rl.LightGray)

	statusText := "Running"
	if data.Paused {
		statusText = "PAUSED"
	}
	rl.DrawText(statusText, 10, 95, 16, rl.Yellow)
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32, controls string) {
	rl.DrawText(controls, 10, screenHeight-25, 14, rl.Gray)
}

// PerfPanelData holds per-phase timings for display.
type PerfPanelData struct {
	AvgTick time.Duration
	Phases  []string // display order
	PhaseMs map[string]float64
	Pct     map[string]float64
}

// PerfPanel renders the per-phase performance panel.
type PerfPanel struct {
	x, y int32
}

// NewPerfPanel creates a new performance panel.
func NewPerfPanel(x, y int32) *PerfPanel {
	return &PerfPanel{x: x, y: y}
}

// SetPosition updates the panel position.
func (p *PerfPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Draw renders the performance panel.
func (p *PerfPanel) Draw(data PerfPanelData) {
	x, y := p.x, p.y

	rl.DrawText("Tick phases", x, y, 16, rl.White)
	y += 20
	rl.DrawText(fmt.Sprintf("Avg tick: %s", data.AvgTick.Round(time.Microsecond)), x, y, 14, rl.Yellow)
	y += 20

	const barW = 120
	for _, phase := range data.Phases {
		pct := data.Pct[phase]
		rl.DrawRectangle(x, y+3, barW, 8, rl.Color{R: 40, G: 40, B: 50, A: 255})
		rl.DrawRectangle(x, y+3, int32(barW*pct/100), 8, rl.SkyBlue)
		rl.DrawText(fmt.Sprintf("%-12s %5.2fms %4.1f%%", phase, data.PhaseMs[phase], pct), x+barW+8, y, 12, rl.LightGray)
		y += 16
	}
}
