package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultContentPath is where the content file is looked up when prefs don't
// override it.
const DefaultContentPath = "config/content.yaml"

// Color is one palette entry: a display name and a #RRGGBB (or #RGB) hex value.
type Color struct {
	Name string `yaml:"name"`
	Hex  string `yaml:"hex"`
}

// RGB returns the parsed color components. Unparseable hex yields mid grey.
func (c Color) RGB() (r, g, b uint8) {
	r, g, b, ok := parseHex(c.Hex)
	if !ok {
		return 128, 128, 128
	}
	return r, g, b
}

// SpawnVolume is a horizontal disc of the given radius; spawn height is
// uniform between MinHeight and MaxHeight.
type SpawnVolume struct {
	Radius    float32 `yaml:"radius"`
	MinHeight float32 `yaml:"min_height"`
	MaxHeight float32 `yaml:"max_height"`
}

// Content is the user-edited game content: the fate list, the master name
// roster shared by Squad and Gift, the ball palette, and the spawn volume.
type Content struct {
	Fates         []string    `yaml:"fates"`
	Names         []string    `yaml:"names"`
	Palette       []Color     `yaml:"palette"`
	Spawn         SpawnVolume `yaml:"spawn"`
	FateBallCount int         `yaml:"fate_ball_count"`
}

// DefaultContent returns built-in content so the toy runs without any files.
func DefaultContent() Content {
	return Content{
		Fates: []string{
			"Great fortune", "Small fortune", "Fortune",
			"Small misfortune", "Curse", "Try again tomorrow",
		},
		Names: []string{"Aki", "Ben", "Chiro", "Dana", "Eli", "Fumi"},
		Palette: []Color{
			{Name: "red", Hex: "#e23b3b"},
			{Name: "amber", Hex: "#f0a030"},
			{Name: "green", Hex: "#3bb253"},
			{Name: "blue", Hex: "#3b6ee2"},
			{Name: "violet", Hex: "#9b4ee0"},
			{Name: "white", Hex: "#f2f2f2"},
		},
		Spawn:         SpawnVolume{Radius: 1.3, MinHeight: 0.6, MaxHeight: 2.4},
		FateBallCount: 35,
	}
}

// LoadContent reads the content file at path. A missing file returns
// DefaultContent with no error; an unreadable or invalid file returns
// DefaultContent plus the error so the caller can log it and keep running.
// The result is always normalized.
func LoadContent(path string) (Content, error) {
	def := DefaultContent()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return def, nil
		}
		return def, fmt.Errorf("content: %w", err)
	}
	var c Content
	if err := yaml.Unmarshal(data, &c); err != nil {
		return def, fmt.Errorf("content: %w", err)
	}
	c.normalize()
	return c, nil
}

// normalize fills in defaults for missing or nonsensical sections so the rest
// of the program never has to re-validate: empty palette falls back to the
// built-in one, spawn volume is clamped to sane values, fate ball count
// defaults to 35.
func (c *Content) normalize() {
	def := DefaultContent()
	if len(c.Palette) == 0 {
		c.Palette = def.Palette
	}
	if c.Spawn.Radius <= 0 {
		c.Spawn.Radius = def.Spawn.Radius
	}
	if c.Spawn.MaxHeight <= c.Spawn.MinHeight {
		c.Spawn.MinHeight = def.Spawn.MinHeight
		c.Spawn.MaxHeight = def.Spawn.MaxHeight
	}
	if c.FateBallCount <= 0 {
		c.FateBallCount = def.FateBallCount
	}
	c.Fates = dropBlank(c.Fates)
	c.Names = dropBlank(c.Names)
}

// dropBlank removes empty entries while preserving order.
func dropBlank(list []string) []string {
	out := list[:0]
	for _, s := range list {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// parseHex parses #RGB or #RRGGBB. Anything else returns ok false.
func parseHex(s string) (r, g, b uint8, ok bool) {
	if len(s) == 0 || s[0] != '#' {
		return 0, 0, 0, false
	}
	hex := s[1:]
	switch len(hex) {
	case 3:
		r = hexNibble(hex[0]) * 17
		g = hexNibble(hex[1]) * 17
		b = hexNibble(hex[2]) * 17
	case 6:
		r = hexNibble(hex[0])<<4 + hexNibble(hex[1])
		g = hexNibble(hex[2])<<4 + hexNibble(hex[3])
		b = hexNibble(hex[4])<<4 + hexNibble(hex[5])
	default:
		return 0, 0, 0, false
	}
	return r, g, b, true
}

func hexNibble(c byte) uint8 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
