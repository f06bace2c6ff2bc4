package main

import (
	"fmt"
	"math"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/lixenwraith/arenaview/hexmath"
	"github.com/lixenwraith/arenaview/snapshot"
	"github.com/lixenwraith/arenaview/view"
)

const (
	hexSize   = 3.0
	originCol = 8
	originRow = 4
)

// termRenderer draws the battle into a tcell screen. It implements both
// view.SpriteRenderer and view.WidgetPresenter: the orchestrator mutates
// its state from the orchestration goroutine and the main loop renders a
// frame from that state under the same lock.
type termRenderer struct {
	mu          sync.Mutex
	sprites     map[string]view.Sprite
	bars        map[string]view.HealthBar
	numbers     map[int64]view.DamageNumber
	projectiles map[string]view.Projectile
	icons       map[string][]view.BuffIcon
	iconAnchors map[string]view.ScreenPoint
	status      string
}

func newTermRenderer() *termRenderer {
	return &termRenderer{
		sprites:     make(map[string]view.Sprite),
		bars:        make(map[string]view.HealthBar),
		numbers:     make(map[int64]view.DamageNumber),
		projectiles: make(map[string]view.Projectile),
		icons:       make(map[string][]view.BuffIcon),
		iconAnchors: make(map[string]view.ScreenPoint),
	}
}

func (r *termRenderer) UpsertSprite(s view.Sprite) {
	r.mu.Lock()
	r.sprites[s.UnitID] = s
	r.mu.Unlock()
}

func (r *termRenderer) MoveSprite(unitID string, pos snapshot.AxialCoordinate, facing float64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sprites[unitID]
	if !ok {
		return false
	}
	s.HexPosition = pos
	s.FacingDirection = facing
	r.sprites[unitID] = s
	return true
}

func (r *termRenderer) RemoveSprite(unitID string) {
	r.mu.Lock()
	delete(r.sprites, unitID)
	r.mu.Unlock()
}

func (r *termRenderer) UnitScreenPosition(unitID string) (view.ScreenPoint, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sprites[unitID]
	if !ok {
		return view.ScreenPoint{}, false
	}
	return hexToScreen(s.HexPosition), true
}

func (r *termRenderer) HexScreenPosition(c snapshot.AxialCoordinate) view.ScreenPoint {
	return hexToScreen(c)
}

func (r *termRenderer) Clear() {
	r.mu.Lock()
	r.sprites = make(map[string]view.Sprite)
	r.mu.Unlock()
}

func (r *termRenderer) DrawHealthBar(hb view.HealthBar) {
	r.mu.Lock()
	r.bars[hb.UnitID] = hb
	r.mu.Unlock()
}

func (r *termRenderer) RemoveHealthBar(unitID string) {
	r.mu.Lock()
	delete(r.bars, unitID)
	r.mu.Unlock()
}

func (r *termRenderer) DrawDamageNumber(dn view.DamageNumber) {
	r.mu.Lock()
	r.numbers[dn.ID] = dn
	r.mu.Unlock()
}

func (r *termRenderer) RemoveDamageNumber(id int64) {
	r.mu.Lock()
	delete(r.numbers, id)
	r.mu.Unlock()
}

func (r *termRenderer) DrawProjectile(p view.Projectile) {
	r.mu.Lock()
	r.projectiles[p.ProjectileID] = p
	r.mu.Unlock()
}

func (r *termRenderer) RemoveProjectile(projectileID string) {
	r.mu.Lock()
	delete(r.projectiles, projectileID)
	r.mu.Unlock()
}

func (r *termRenderer) DrawBuffIcons(unitID string, anchor view.ScreenPoint, icons []view.BuffIcon) {
	r.mu.Lock()
	r.icons[unitID] = icons
	r.iconAnchors[unitID] = anchor
	r.mu.Unlock()
}

func (r *termRenderer) RemoveBuffIcons(unitID string) {
	r.mu.Lock()
	delete(r.icons, unitID)
	delete(r.iconAnchors, unitID)
	r.mu.Unlock()
}

func (r *termRenderer) setStatus(s string) {
	r.mu.Lock()
	r.status = s
	r.mu.Unlock()
}

// hexToScreen maps an axial hex coordinate to terminal cell space.
// Terminal cells are roughly twice as tall as wide, so the vertical
// axis is compressed by half.
func hexToScreen(c snapshot.AxialCoordinate) view.ScreenPoint {
	x, y := hexmath.AxialToPixel(c, hexSize)
	return view.ScreenPoint{
		X: x + originCol,
		Y: y/2 + originRow,
	}
}

func ownerStyle(ownerID string, opacity float64) tcell.Style {
	var style tcell.Style
	if ownerID == "player" {
		style = tcell.StyleDefault.Foreground(tcell.ColorGreen)
	} else {
		style = tcell.StyleDefault.Foreground(tcell.ColorRed)
	}
	if opacity < 1.0 {
		style = style.Dim(true)
	}
	return style
}

func spriteRune(kind string) rune {
	if kind == "" {
		return '?'
	}
	return rune(kind[0] &^ 0x20) // uppercase first letter
}

// facingArrow picks a glyph for the rough facing direction
func facingArrow(deg float64) rune {
	switch d := math.Mod(deg+360, 360); {
	case d < 45 || d >= 315:
		return '>'
	case d < 135:
		return '^'
	case d < 225:
		return '<'
	default:
		return 'v'
	}
}

func (r *termRenderer) draw(screen tcell.Screen) {
	r.mu.Lock()
	defer r.mu.Unlock()

	screen.Clear()
	w, h := screen.Size()

	put := func(x, y int, ch rune, style tcell.Style) {
		if x >= 0 && x < w && y >= 0 && y < h {
			screen.SetContent(x, y, ch, nil, style)
		}
	}
	text := func(x, y int, s string, style tcell.Style) {
		for i, ch := range s {
			put(x+i, y, ch, style)
		}
	}

	for _, p := range r.projectiles {
		x := p.From.X + (p.To.X-p.From.X)*p.Progress
		y := p.From.Y + (p.To.Y-p.From.Y)*p.Progress
		put(int(x), int(y), '*', tcell.StyleDefault.Foreground(tcell.ColorYellow))
	}

	for _, s := range r.sprites {
		pt := hexToScreen(s.HexPosition)
		x, y := int(pt.X), int(pt.Y)
		style := ownerStyle(s.OwnerID, s.Opacity)
		put(x, y, spriteRune(s.CreatureKind), style)
		put(x+1, y, facingArrow(s.FacingDirection), style.Dim(true))
	}

	for _, hb := range r.bars {
		if hb.Max <= 0 {
			continue
		}
		filled := int(math.Round(hb.Current / hb.Max * 5))
		x, y := int(hb.Anchor.X)-2, int(hb.Anchor.Y)-1
		for i := 0; i < 5; i++ {
			ch := '░'
			if i < filled {
				ch = '█'
			}
			put(x+i, y, ch, ownerStyle(hb.OwnerID, 1))
		}
	}

	for id, ics := range r.icons {
		anchor := r.iconAnchors[id]
		x, y := int(anchor.X)-len(ics), int(anchor.Y)+1
		for i, ic := range ics {
			ch, color := '+', tcell.ColorBlue
			if ic.Debuff {
				ch, color = '-', tcell.ColorPurple
			}
			put(x+i*2, y, ch, tcell.StyleDefault.Foreground(color))
		}
	}

	for _, dn := range r.numbers {
		label := fmt.Sprintf("-%.0f", dn.Amount)
		color := tcell.ColorOrange
		if dn.Heal {
			label = fmt.Sprintf("+%.0f", dn.Amount)
			color = tcell.ColorLightGreen
		}
		style := tcell.StyleDefault.Foreground(color)
		if dn.Opacity < 0.5 {
			style = style.Dim(true)
		}
		text(int(dn.Origin.X)-1, int(dn.Origin.Y)-1-int(dn.Rise/8), label, style)
	}

	text(0, h-1, r.status, tcell.StyleDefault.Foreground(tcell.ColorGray))

	screen.Show()
}
