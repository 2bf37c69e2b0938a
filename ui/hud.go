// Package ui draws the heads-up display over the arena view.
package ui

import (
	"fmt"
	"time"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds everything the HUD shows for one frame.
type HUDData struct {
	Title         string
	Tick          uint64
	TickDuration  time.Duration
	Plants        int
	Animals       int
	MaxAge        int
	MaxGeneration int
	FPS           int32
	State         string
}

// Lines formats the HUD rows, top to bottom.
func (d HUDData) Lines() []string {
	return []string{
		d.Title,
		fmt.Sprintf("Tick: %d | Step: %s | FPS: %d", d.Tick, d.TickDuration.Round(time.Microsecond), d.FPS),
		fmt.Sprintf("Plants: %d | Animals: %d", d.Plants, d.Animals),
		fmt.Sprintf("Max age: %d | Max generation: %d", d.MaxAge, d.MaxGeneration),
		fmt.Sprintf("Simulation: %s", d.State),
	}
}

// HUD renders the heads-up display in the top-left corner.
type HUD struct {
	x, y       float32
	width      float32
	lineHeight float32
}

// NewHUD creates a HUD anchored at (x, y).
func NewHUD(x, y float32) *HUD {
	return &HUD{x: x, y: y, width: 320, lineHeight: 20}
}

// Draw renders the HUD rows.
func (h *HUD) Draw(data HUDData) {
	lines := data.Lines()
	height := float32(len(lines))*h.lineHeight + 8
	rl.DrawRectangle(int32(h.x), int32(h.y), int32(h.width), int32(height), rl.Fade(rl.Black, 0.6))

	y := h.y + 4
	for _, line := range lines {
		gui.Label(rl.Rectangle{X: h.x + 6, Y: y, Width: h.width - 12, Height: h.lineHeight}, line)
		y += h.lineHeight
	}
}

// StopButton draws a stop button below a HUD of the given number of lines
// and reports whether it was pressed.
func (h *HUD) StopButton(lines int) bool {
	y := h.y + float32(lines)*h.lineHeight + 16
	return gui.Button(rl.Rectangle{X: h.x, Y: y, Width: 120, Height: 28}, "Stop")
}
