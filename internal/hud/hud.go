// Package hud draws the 2D overlay: mode badge, draw banner, roster panel
// and the help line. Immediate-mode raylib text and rectangles, no layout
// engine.
package hud

import (
	"fmt"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"gachapon/internal/game"
)

// Theme collects the overlay's colors and sizes so the palette lives in one
// place.
type Theme struct {
	PanelBG     rl.Color
	PanelBorder rl.Color
	Text        rl.Color
	Dim         rl.Color
	Accent      rl.Color
	Warn        rl.Color

	FontSize    int32
	BadgeSize   int32
	Pad         int32
	RosterWidth int32
}

// DefaultTheme is the stock dark overlay.
func DefaultTheme() Theme {
	return Theme{
		PanelBG:     rl.NewColor(18, 20, 26, 200),
		PanelBorder: rl.NewColor(90, 95, 110, 255),
		Text:        rl.NewColor(235, 235, 240, 255),
		Dim:         rl.NewColor(150, 150, 160, 255),
		Accent:      rl.NewColor(255, 200, 90, 255),
		Warn:        rl.NewColor(240, 120, 110, 255),
		FontSize:    18,
		BadgeSize:   26,
		Pad:         10,
		RosterWidth: 230,
	}
}

// HUD draws the overlay for one machine.
type HUD struct {
	theme Theme
}

func New(theme Theme) *HUD {
	return &HUD{theme: theme}
}

// Draw renders the overlay. Call after the 3D scene, in 2D mode.
func (h *HUD) Draw(m *game.Machine) {
	h.drawBadge(m)
	h.drawBanner(m)
	h.drawRoster(m)
	h.drawHelp(m)
}

func (h *HUD) drawBadge(m *game.Machine) {
	t := h.theme
	label := strings.ToUpper(m.Mode().String())
	w := rl.MeasureText(label, t.BadgeSize) + 2*t.Pad
	x, y := t.Pad, t.Pad
	rl.DrawRectangle(x, y, w, t.BadgeSize+2*t.Pad, t.PanelBG)
	rl.DrawRectangleLines(x, y, w, t.BadgeSize+2*t.Pad, t.PanelBorder)
	rl.DrawText(label, x+t.Pad, y+t.Pad, t.BadgeSize, t.Accent)

	counter := fmt.Sprintf("draw #%d", m.Seq())
	rl.DrawText(counter, x, y+t.BadgeSize+3*t.Pad, t.FontSize, t.Dim)
}

// drawBanner shows the in-flight or revealed draw result centered near the
// top of the screen.
func (h *HUD) drawBanner(m *game.Machine) {
	t := h.theme
	var line string
	color := t.Text
	switch m.Phase() {
	case game.PhaseIdle:
		return
	case game.PhaseDrawing:
		line = "drawing..."
		color = t.Dim
	case game.PhaseRevealed:
		prize := m.Prize()
		if prize == nil {
			return
		}
		if prize.Empty {
			line = "nothing left to draw"
			color = t.Warn
			break
		}
		line = prize.Text
		color = t.Accent
		if m.Mode() == game.ModeGift {
			if ex := m.Exchange(); ex != nil && !ex.Complete() {
				if giver, ok := ex.CurrentGiver(); ok {
					line = fmt.Sprintf("%s gives to %s", giver, prize.Text)
				}
			}
		}
	}
	sw := int32(rl.GetScreenWidth())
	w := rl.MeasureText(line, t.BadgeSize)
	x := (sw - w) / 2
	y := t.Pad
	rl.DrawRectangle(x-t.Pad, y, w+2*t.Pad, t.BadgeSize+2*t.Pad, t.PanelBG)
	rl.DrawRectangleLines(x-t.Pad, y, w+2*t.Pad, t.BadgeSize+2*t.Pad, t.PanelBorder)
	rl.DrawText(line, x, y+t.Pad, t.BadgeSize, color)
	if m.Phase() == game.PhaseRevealed && m.Prize() != nil && !m.Prize().Empty {
		hint := "click the capsule or press C to claim"
		hw := rl.MeasureText(hint, t.FontSize)
		rl.DrawText(hint, (sw-hw)/2, y+t.BadgeSize+3*t.Pad, t.FontSize, t.Dim)
	}
}

// drawRoster shows the mode's remaining pool down the right edge.
func (h *HUD) drawRoster(m *game.Machine) {
	t := h.theme
	var title string
	var rows []string
	switch m.Mode() {
	case game.ModeFate:
		title = "fates"
		rows = m.Content().Fates
	case game.ModeSquad:
		title = fmt.Sprintf("squad (%d left)", len(m.SquadActive()))
		rows = m.SquadActive()
	case game.ModeGift:
		ex := m.Exchange()
		if ex == nil {
			title = "gift: not started"
			rows = m.Content().Names
			break
		}
		if ex.Complete() {
			title = "gift: all assigned"
			break
		}
		title = fmt.Sprintf("gift (%d to go)", ex.Remaining())
		rows = ex.Order()[ex.Cursor():]
	}

	sw := int32(rl.GetScreenWidth())
	x := sw - t.RosterWidth - t.Pad
	y := t.Pad
	lineH := t.FontSize + 6
	maxRows := int32(14)
	n := int32(len(rows))
	shown := n
	if shown > maxRows {
		shown = maxRows
	}
	hgt := 2*t.Pad + lineH*(shown+1)
	if n > maxRows {
		hgt += lineH
	}
	rl.DrawRectangle(x, y, t.RosterWidth, hgt, t.PanelBG)
	rl.DrawRectangleLines(x, y, t.RosterWidth, hgt, t.PanelBorder)
	rl.DrawText(title, x+t.Pad, y+t.Pad, t.FontSize, t.Accent)
	for i := int32(0); i < shown; i++ {
		rl.DrawText(rows[i], x+t.Pad, y+t.Pad+lineH*(i+1), t.FontSize, t.Text)
	}
	if n > maxRows {
		rl.DrawText(fmt.Sprintf("... and %d more", n-maxRows), x+t.Pad, y+t.Pad+lineH*(shown+1), t.FontSize, t.Dim)
	}
}

func (h *HUD) drawHelp(m *game.Machine) {
	t := h.theme
	help := "SPACE spin   M mode   R reset   ESC console"
	if m.Mode() == game.ModeGift && m.Exchange() == nil {
		help = "G start exchange   " + help
	}
	sh := int32(rl.GetScreenHeight())
	rl.DrawText(help, t.Pad, sh-t.FontSize-t.Pad, t.FontSize, t.Dim)
}
