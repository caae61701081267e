// Package graphics owns the window and the frame loop.
package graphics

import rl "github.com/gen2brain/raylib-go/raylib"

// Options controls window creation.
type Options struct {
	Width      int32
	Height     int32
	Fullscreen bool
	Title      string
}

// Run opens the window and runs the main loop at 60 FPS. Each frame it calls
// update (input and simulation), then clears the screen and calls draw. When
// the loop exits, cleanup (may be nil) runs while the GL context still
// exists, so GPU resources can be released there.
// ESC toggles the console rather than quitting; close via the window button.
func Run(opts Options, update, draw, cleanup func()) {
	if opts.Fullscreen {
		rl.SetConfigFlags(rl.FlagFullscreenMode)
		rl.InitWindow(int32(rl.GetMonitorWidth(0)), int32(rl.GetMonitorHeight(0)), opts.Title)
	} else {
		rl.InitWindow(opts.Width, opts.Height, opts.Title)
	}
	defer rl.CloseWindow()

	rl.SetExitKey(rl.KeyNull)
	rl.SetTargetFPS(60)

	for !rl.WindowShouldClose() {
		update()

		rl.BeginDrawing()
		rl.ClearBackground(rl.NewColor(16, 17, 22, 255))
		draw()
		rl.EndDrawing()
	}

	if cleanup != nil {
		cleanup()
	}
}
