package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// PrefsPath is the path to the preferences file, relative to the process working directory.
const PrefsPath = "config/gachapon.toml"

// Prefs holds machine-independent preferences (window, audio, overlays).
// Persisted across runs; game content lives in the separate content file.
type Prefs struct {
	Window  WindowPrefs  `toml:"window"`
	Audio   AudioPrefs   `toml:"audio"`
	Debug   DebugPrefs   `toml:"debug"`
	Content ContentPrefs `toml:"content"`
}

// WindowPrefs controls the window. Width/Height are ignored when Fullscreen is set.
type WindowPrefs struct {
	Width      int  `toml:"width"`
	Height     int  `toml:"height"`
	Fullscreen bool `toml:"fullscreen"`
}

// AudioPrefs controls the tone sink. Volume is 0..1; Muted silences everything.
type AudioPrefs struct {
	Volume float64 `toml:"volume"`
	Muted  bool    `toml:"muted"`
}

// DebugPrefs controls the debug overlays and the floor grid.
type DebugPrefs struct {
	ShowFPS      bool `toml:"show_fps"`
	ShowMemAlloc bool `toml:"show_memalloc"`
	GridVisible  bool `toml:"grid_visible"`
}

// ContentPrefs points at the content file and the optional front-decal image
// (local path or http(s) URL).
type ContentPrefs struct {
	Path        string `toml:"path"`
	DecalSource string `toml:"decal_source"`
}

// DefaultPrefs returns default preferences: 1280x720 windowed, volume 0.8,
// overlays off, grid on, content at the default path.
func DefaultPrefs() Prefs {
	return Prefs{
		Window:  WindowPrefs{Width: 1280, Height: 720},
		Audio:   AudioPrefs{Volume: 0.8},
		Debug:   DebugPrefs{GridVisible: true},
		Content: ContentPrefs{Path: DefaultContentPath},
	}
}

// LoadPrefs reads preferences from path. If the file is missing or invalid,
// returns DefaultPrefs() and does not create a file.
func LoadPrefs(path string) Prefs {
	p := DefaultPrefs()
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return DefaultPrefs()
	}
	if p.Window.Width <= 0 || p.Window.Height <= 0 {
		p.Window.Width = 1280
		p.Window.Height = 720
	}
	if p.Audio.Volume < 0 {
		p.Audio.Volume = 0
	}
	if p.Audio.Volume > 1 {
		p.Audio.Volume = 1
	}
	if p.Content.Path == "" {
		p.Content.Path = DefaultContentPath
	}
	return p
}

// SavePrefs writes preferences to path, creating the directory if needed.
func SavePrefs(path string, p Prefs) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(p)
}
