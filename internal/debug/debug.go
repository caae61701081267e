// Package debug draws the optional diagnostics overlay: FPS, heap use, ball
// count and the draw counter. All readouts are off by default.
package debug

import (
	"fmt"
	"runtime"

	rl "github.com/gen2brain/raylib-go/raylib"

	"gachapon/internal/game"
)

const (
	fontSize   = 20
	pad        = 12
	lineHeight = fontSize + 4
	// Refresh readout text every N frames to limit allocations.
	updateInterval = 30
)

// Debug holds the overlay toggles and cached readout strings.
type Debug struct {
	ShowFPS      bool
	ShowMemAlloc bool
	frameCount   uint32
	lastFpsText  string
	lastMemText  string
	lastMachText string
	memStats     runtime.MemStats
}

// New returns a Debug overlay with everything hidden.
func New() *Debug {
	return &Debug{}
}

// SetShowFPS sets whether the FPS counter is drawn (top-right, green).
func (d *Debug) SetShowFPS(show bool) {
	d.ShowFPS = show
}

// SetShowMemAlloc sets whether the heap readout is drawn under the FPS.
func (d *Debug) SetShowMemAlloc(show bool) {
	d.ShowMemAlloc = show
}

// Draw renders any enabled readouts at the top-right. Call after the scene
// and console in the draw loop. Text is recomputed every updateInterval
// frames.
func (d *Debug) Draw(m *game.Machine) {
	d.frameCount++
	update := (d.frameCount % updateInterval) == 0
	if d.ShowFPS && d.lastFpsText == "" {
		update = true
	}
	if d.ShowMemAlloc && d.lastMemText == "" {
		update = true
	}

	screenW := int32(rl.GetScreenWidth())
	y := int32(pad)

	if d.ShowFPS {
		if update {
			d.lastFpsText = fmt.Sprintf("FPS: %d", rl.GetFPS())
			d.lastMachText = fmt.Sprintf("balls: %d  draw: #%d", len(m.Balls()), m.Seq())
		}
		drawRight(d.lastFpsText, screenW, y)
		y += lineHeight
		drawRight(d.lastMachText, screenW, y)
		y += lineHeight
	}

	if d.ShowMemAlloc {
		if update {
			runtime.ReadMemStats(&d.memStats)
			mb := float64(d.memStats.Alloc) / (1024 * 1024)
			d.lastMemText = fmt.Sprintf("Mem: %.2f MiB", mb)
		}
		drawRight(d.lastMemText, screenW, y)
	}
}

func drawRight(text string, screenW, y int32) {
	if text == "" {
		return
	}
	w := rl.MeasureText(text, fontSize)
	rl.DrawText(text, screenW-w-pad, y, fontSize, rl.Green)
}
