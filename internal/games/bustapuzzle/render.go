package bustapuzzle

import (
	"fmt"
	"math"
	"time"

	platformcore "github.com/vovakirdan/bustapuzzle/internal/core"
	"github.com/vovakirdan/bustapuzzle/internal/games/bustapuzzle/core"
)

// Layout constants, in terminal cells.
const (
	cellW     = 4 // Characters per bubble diameter
	hudHeight = 3 // HUD, separator and the board's top border
	minW      = 40
)

// Glyphs
const (
	bubbleGlyph  = '█'
	anchorGlyph  = '▓'
	fallingGlyph = '▒'
	aimGlyph     = '·'
	killGlyph    = '╌'
)

// palette maps bubble colours to screen colours.
var palette = map[core.Color]platformcore.Color{
	core.ColorRed:    platformcore.ColorRed,
	core.ColorOrange: platformcore.ColorOrange,
	core.ColorYellow: platformcore.ColorYellow,
	core.ColorGreen:  platformcore.ColorGreen,
	core.ColorBlue:   platformcore.ColorBlue,
	core.ColorAnchor: platformcore.ColorGray,
	core.ColorFree:   platformcore.ColorWhite,
}

// boardLines returns the number of screen lines between the anchor row and
// the floor, inclusive.
func (g *Game) boardLines() int {
	grid := g.session.Board().Grid()
	return g.lineOf(g.session.FloorY()) + 1 - g.lineOf(grid.Radius-grid.YSpace)
}

// calculateLayout centres the board horizontally below the HUD.
func (g *Game) calculateLayout() {
	grid := g.session.Board().Grid()
	boardW := grid.Columns * cellW
	neededH := hudHeight + g.boardLines() + 3 // bottom border and two status lines

	g.tooSmall = g.screenW < max(minW, boardW+2) || g.screenH < neededH
	g.originX = (g.screenW - boardW) / 2
	g.originY = hudHeight
}

// lineOf converts a board y coordinate to a board-relative line. The anchor
// row is line 0 and logical row k is line k+1.
func (g *Game) lineOf(y float64) int {
	grid := g.session.Board().Grid()
	return int(math.Round((y-grid.Radius)/grid.YSpace)) + 1
}

// toScreen converts a board position to the left character of a bubble.
func (g *Game) toScreen(p platformcore.Vec2) (x, y int) {
	grid := g.session.Board().Grid()
	x = g.originX + int(math.Floor(p.X/grid.Diameter*cellW)) - 1
	y = g.originY + g.lineOf(p.Y)
	return x, y
}

func (g *Game) drawBubble(dst *platformcore.Screen, p platformcore.Vec2, glyph rune, c core.Color) {
	x, y := g.toScreen(p)
	fg := palette[c]
	dst.SetColored(x, y, glyph, fg)
	dst.SetColored(x+1, y, glyph, fg)
}

// Render draws the game to the screen.
func (g *Game) Render(dst *platformcore.Screen) {
	dst.Clear()

	if g.session == nil {
		g.renderOverlay(dst, dst.Height()/2, "Cannot start", g.status)
		return
	}
	if w, h := dst.Width(), dst.Height(); w != g.screenW || h != g.screenH {
		g.screenW, g.screenH = w, h
		g.calculateLayout()
	}

	g.renderHUD(dst)
	if g.tooSmall {
		g.renderOverlay(dst, dst.Height()/2, "Window too small", "Resize to continue")
		return
	}

	g.renderField(dst)
	g.renderStatus(dst)

	mid := g.originY + g.boardLines()/2
	s := g.session
	switch {
	case g.err != nil:
		g.renderOverlay(dst, mid, "Error", g.status)
	case s.Phase() == core.PhaseComplete:
		g.renderOverlay(dst, mid, "You Win!", "R: play again")
	case s.Phase() == core.PhaseGameOver:
		g.renderOverlay(dst, mid, "Game Over", "R: restart")
	case s.Phase() == core.PhaseStageCleared:
		g.renderOverlay(dst, mid, fmt.Sprintf("Stage %d cleared", s.Stage()), "Enter: next stage")
	case g.paused:
		g.renderOverlay(dst, mid, "Paused", "P: continue")
	}
}

// renderHUD draws the top status bar.
func (g *Game) renderHUD(dst *platformcore.Screen) {
	hud := " " + g.Title()
	if s := g.session; s != nil {
		stage := fmt.Sprintf("%d", s.Stage())
		if n := s.StageCount(); n > 0 {
			stage += fmt.Sprintf("/%d", n)
		}
		hud += fmt.Sprintf(" | Stage: %s | Score: %d", stage, s.Score())
	}
	dst.DrawTextColored(0, 0, hud, platformcore.ColorCyan)
	dst.DrawHLine(0, 1, dst.Width(), '─', platformcore.ColorGray)
}

// renderField draws the walls, bubbles, kill line, launcher and projectile.
func (g *Game) renderField(dst *platformcore.Screen) {
	s := g.session
	b := s.Board()
	grid := b.Grid()
	lines := g.boardLines()

	frame := platformcore.NewRect(g.originX-1, g.originY-1, grid.Columns*cellW+2, lines+2)
	dst.DrawBox(frame, platformcore.ColorGray)

	killY := g.originY + g.lineOf(grid.KillLineY()+grid.YSpace/2)
	warn := platformcore.ColorGray
	if b.ShiftImminent() {
		warn = platformcore.ColorBrightRed
	}
	dst.DrawHLine(g.originX, killY, grid.Columns*cellW, killGlyph, warn)

	for _, bubble := range b.Bubbles() {
		glyph := bubbleGlyph
		if bubble.Color.IsAnchor() {
			glyph = anchorGlyph
		}
		g.drawBubble(dst, bubble.Pos, glyph, bubble.Color)
	}
	for _, f := range s.Falling() {
		if g.lineOf(f.Pos.Y) < lines {
			g.drawBubble(dst, f.Pos, fallingGlyph, f.Color)
		}
	}

	if s.Phase() == core.PhaseAiming {
		g.renderAim(dst)
	}
	if p := s.Projectile(); !p.Flying {
		g.drawBubble(dst, p.Pos, bubbleGlyph, p.Color)
	} else if g.lineOf(p.Pos.Y) < lines {
		x, y := g.toScreen(p.Pos)
		fg := palette[p.Color].Bright()
		dst.SetColored(x, y, bubbleGlyph, fg)
		dst.SetColored(x+1, y, bubbleGlyph, fg)
	}
}

// renderAim draws a dotted guide from the launcher along the aim angle.
func (g *Game) renderAim(dst *platformcore.Screen) {
	s := g.session
	grid := s.Board().Grid()
	rad := s.Aiming() * math.Pi / 180
	dir := platformcore.V(-math.Sin(rad), -math.Cos(rad))
	for k := 1; k <= 4; k++ {
		p := s.LaunchPoint().Add(dir.Scale(float64(k) * grid.Diameter * 0.75))
		x, y := g.toScreen(p)
		dst.SetColored(x+1, y, aimGlyph, platformcore.ColorWhite)
	}
}

// renderStatus draws the preview colour and the shift and shot timers.
func (g *Game) renderStatus(dst *platformcore.Screen) {
	s := g.session
	b := s.Board()
	y := g.originY + g.boardLines() + 1

	x := g.originX
	dst.DrawTextColored(x, y, "Next ", platformcore.ColorGray)
	dst.SetColored(x+5, y, bubbleGlyph, palette[s.NextColor()])
	dst.SetColored(x+6, y, bubbleGlyph, palette[s.NextColor()])

	info := ""
	if b.ShiftShots() > 0 {
		info = fmt.Sprintf("  Drop in %d", b.ShiftShots()-b.ShotsFired())
	}
	if left := s.ShotSecondsLeft(); left > 0 && time.Duration(left)*time.Second <= s.Config().CountdownFrom {
		info += fmt.Sprintf("  Fire! %d", left)
	}
	dst.DrawTextColored(x+7, y, info, platformcore.ColorYellow)

	if g.status != "" {
		dst.DrawTextColored(x, y+1, g.status, platformcore.ColorWhite)
	}
}

// renderOverlay draws a centred message box around line y.
func (g *Game) renderOverlay(dst *platformcore.Screen, y int, title, hint string) {
	w := max(len([]rune(title)), len([]rune(hint))) + 4
	box := platformcore.NewRect((dst.Width()-w)/2, y-2, w, 5)
	dst.DrawRect(box, ' ')
	dst.DrawBox(box, platformcore.ColorWhite)
	dst.DrawTextColored(box.X+2, y-1, title, platformcore.ColorBrightWhite)
	dst.DrawTextColored(box.X+2, y, hint, platformcore.ColorGray)
}
