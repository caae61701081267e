package main

import (
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/joho/godotenv"

	"gachapon/internal/audio"
	"gachapon/internal/commands"
	"gachapon/internal/config"
	"gachapon/internal/debug"
	"gachapon/internal/game"
	"gachapon/internal/graphics"
	"gachapon/internal/hud"
	"gachapon/internal/logger"
	"gachapon/internal/physics"
	"gachapon/internal/scene"
	"gachapon/internal/terminal"
	"gachapon/internal/texture"
)

// contentPollInterval is how often the content file is checked for edits.
const contentPollInterval = 2 * time.Second

func main() {
	// Optional .env for local overrides (decal source, content path).
	_ = godotenv.Load()

	prefs := config.LoadPrefs(config.PrefsPath)
	log := logger.New()
	defer log.Sync()

	contentPath := prefs.Content.Path
	if env := os.Getenv("GACHAPON_CONTENT"); env != "" {
		contentPath = env
	}
	content, err := config.LoadContent(contentPath)
	if err != nil {
		log.Error("content load", err)
	}

	world := physics.NewWorld()
	world.SetBounds([3]float32{0, scene.GlobeCenterY, 0}, scene.GlobeRadius-0.06)
	world.SetFloor(scene.FloorY)

	snd := audio.NewManager()
	if err := snd.Init(); err != nil {
		log.Error("audio init, continuing silent", err)
	}
	snd.SetVolume(prefs.Audio.Volume)
	snd.SetMuted(prefs.Audio.Muted)

	machine := game.NewMachine(content, world, game.DefaultRNG(), snd, time.Now())
	defer machine.Shutdown()
	defer snd.Cleanup()

	decalSource := prefs.Content.DecalSource
	if env := os.Getenv("GACHAPON_DECAL"); env != "" {
		decalSource = env
	}
	var decal *texture.Loader
	if decalSource != "" {
		decal = texture.NewLoader(decalSource)
	}

	scn := scene.New(decal)
	scn.SetGridVisible(prefs.Debug.GridVisible)
	overlay := hud.New(hud.DefaultTheme())
	dbg := debug.New()
	dbg.SetShowFPS(prefs.Debug.ShowFPS)
	dbg.SetShowMemAlloc(prefs.Debug.ShowMemAlloc)

	reg := commands.NewRegistry()
	registerCommands(reg, log, machine, world, snd, scn, dbg, &prefs)
	term := terminal.New(log, reg)

	// The watcher goroutine only signals; the reload itself runs on the frame
	// thread below, and SetContent stages it until the machine is idle.
	watcher, contentChanged := config.NewSignalWatcher(contentPath, contentPollInterval)
	watcher.Start()
	defer watcher.Stop()

	update := func() {
		select {
		case <-contentChanged:
			c, err := config.LoadContent(contentPath)
			if err != nil {
				log.Error("content reload", err)
			} else {
				machine.SetContent(c)
				log.Log("content reloaded")
			}
		default:
		}
		term.Update()
		if !term.IsOpen() {
			handleInput(machine, scn, log)
		}
		scn.Update()
		machine.Update(time.Now())
		world.Step(rl.GetFrameTime())
	}
	draw := func() {
		scn.Draw(machine)
		overlay.Draw(machine)
		term.Draw()
		dbg.Draw(machine)
	}

	graphics.Run(graphics.Options{
		Width:      int32(prefs.Window.Width),
		Height:     int32(prefs.Window.Height),
		Fullscreen: prefs.Window.Fullscreen,
		Title:      "gachapon",
	}, update, draw, scn.Unload)
}

// handleInput maps the game keybinds. Skipped while the console is open so
// typing never spins the machine.
func handleInput(m *game.Machine, scn *scene.Scene, log *logger.Logger) {
	now := time.Now()
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		if !m.Spin(now) {
			log.Log("draw already in progress")
		}
	case rl.IsKeyPressed(rl.KeyC):
		m.Claim()
	case rl.IsKeyPressed(rl.KeyM):
		if !m.CycleMode() {
			log.Log("finish the draw before switching modes")
		}
	case rl.IsKeyPressed(rl.KeyG):
		if err := m.StartExchange(); err != nil {
			log.Log(err.Error())
		}
	case rl.IsKeyPressed(rl.KeyR):
		m.Reset()
	case rl.IsMouseButtonPressed(rl.MouseButtonLeft):
		if m.Phase() == game.PhaseRevealed && scn.PrizeHit(rl.GetMousePosition()) {
			m.Claim()
		}
	}
}

func registerCommands(reg *commands.Registry, log *logger.Logger, m *game.Machine,
	world *physics.World, snd *audio.Manager, scn *scene.Scene, dbg *debug.Debug,
	prefs *config.Prefs) {

	fs := func(name string) *flag.FlagSet {
		f := flag.NewFlagSet(name, flag.ContinueOnError)
		f.SetOutput(discard{})
		return f
	}

	reg.Register("help", "list commands", fs("help"), func([]string) error {
		for _, line := range reg.Help() {
			log.Log(line)
		}
		return nil
	})

	reg.Register("spin", "start a draw", fs("spin"), func([]string) error {
		if !m.Spin(time.Now()) {
			return game.ErrBusy
		}
		return nil
	})

	reg.Register("claim", "take the revealed prize", fs("claim"), func([]string) error {
		if !m.Claim() {
			return fmt.Errorf("nothing to claim")
		}
		return nil
	})

	reg.Register("mode", "cycle the mode, or jump to fate|squad|gift", fs("mode"), func(args []string) error {
		if len(args) == 0 {
			if !m.CycleMode() {
				return game.ErrBusy
			}
			log.Logf("mode: %s", m.Mode())
			return nil
		}
		want := strings.ToLower(args[0])
		for i := 0; i < 3; i++ {
			if m.Mode().String() == want {
				log.Logf("mode: %s", m.Mode())
				return nil
			}
			if !m.CycleMode() {
				return game.ErrBusy
			}
		}
		if m.Mode().String() != want {
			return fmt.Errorf("unknown mode: %s", args[0])
		}
		log.Logf("mode: %s", m.Mode())
		return nil
	})

	reg.Register("reset", "refill the globe and clear the draw", fs("reset"), func([]string) error {
		m.Reset()
		return nil
	})

	reg.Register("gift", "gift start | gift reset", fs("gift"), func(args []string) error {
		if len(args) == 0 {
			return fmt.Errorf("usage: gift start|reset")
		}
		switch args[0] {
		case "start":
			if err := m.StartExchange(); err != nil {
				return err
			}
			log.Logf("exchange started with %d participants", m.Exchange().Len())
			return nil
		case "reset":
			return m.ResetExchange()
		}
		return fmt.Errorf("usage: gift start|reset")
	})

	reg.Register("list", "show the current mode's pool", fs("list"), func([]string) error {
		switch m.Mode() {
		case game.ModeFate:
			log.Logf("fates: %s", strings.Join(m.Content().Fates, ", "))
		case game.ModeSquad:
			log.Logf("squad: %s", strings.Join(m.SquadActive(), ", "))
		case game.ModeGift:
			ex := m.Exchange()
			if ex == nil {
				log.Logf("roster: %s", strings.Join(m.Content().Names, ", "))
				return nil
			}
			log.Logf("order: %s (%d to go)", strings.Join(ex.Order(), " -> "), ex.Remaining())
		}
		return nil
	})

	reg.Register("gravity", "set downward gravity (moon mode: gravity 1.6)", fs("gravity"), func(args []string) error {
		if len(args) == 0 {
			log.Logf("gravity: %.2f", -world.Gravity[1])
			return nil
		}
		g, err := strconv.ParseFloat(args[0], 32)
		if err != nil {
			return fmt.Errorf("gravity: %w", err)
		}
		world.SetGravity([3]float32{0, -float32(g), 0})
		return nil
	})

	reg.Register("volume", "set audio volume 0..1", fs("volume"), func(args []string) error {
		if len(args) == 0 {
			log.Logf("volume: %.2f", prefs.Audio.Volume)
			return nil
		}
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("volume: %w", err)
		}
		snd.SetVolume(v)
		prefs.Audio.Volume = v
		return config.SavePrefs(config.PrefsPath, *prefs)
	})

	reg.Register("mute", "toggle audio mute", fs("mute"), func([]string) error {
		prefs.Audio.Muted = !prefs.Audio.Muted
		snd.SetMuted(prefs.Audio.Muted)
		log.Logf("muted: %v", prefs.Audio.Muted)
		return config.SavePrefs(config.PrefsPath, *prefs)
	})

	reg.Register("fps", "toggle the FPS readout", fs("fps"), func([]string) error {
		dbg.SetShowFPS(!dbg.ShowFPS)
		prefs.Debug.ShowFPS = dbg.ShowFPS
		return config.SavePrefs(config.PrefsPath, *prefs)
	})

	reg.Register("grid", "toggle the floor grid", fs("grid"), func([]string) error {
		scn.SetGridVisible(!scn.GridVisible)
		prefs.Debug.GridVisible = scn.GridVisible
		return config.SavePrefs(config.PrefsPath, *prefs)
	})
}

// discard swallows flag parse noise; errors are surfaced by Execute.
type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
