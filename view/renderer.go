// Package view orchestrates the combat visualization: it reconciles the
// authoritative snapshot stream with an independent render loop and drives
// every presentational subsystem (sprites, health bars, damage numbers,
// projectiles, buff icons) from one source of truth.
//
// The package does not draw pixels. Drawing is delegated to two
// collaborator contracts: SpriteRenderer for unit sprites plus screen
// position feedback, and WidgetPresenter for the stateless widget draw
// routines.
package view

import "github.com/lixenwraith/arenaview/snapshot"

// ScreenPoint is a pixel-space position supplied by the renderer
type ScreenPoint struct {
	X float64
	Y float64
}

// Sprite is the create-or-update payload for one unit sprite
type Sprite struct {
	UnitID          string
	HexPosition     snapshot.AxialCoordinate
	CreatureKind    string
	OwnerID         string
	AssetRef        string
	Opacity         float64
	FacingDirection float64
}

// SpriteRenderer is the rendering collaborator contract. The orchestrator
// only needs create/update/remove verbs and position feedback; how pixels
// get drawn is not its concern.
//
// MoveSprite transforms an existing sprite and returns false when the
// sprite does not exist; it never creates one. That split keeps sprite
// creation confined to the snapshot path while the render-tick path only
// re-applies transforms.
type SpriteRenderer interface {
	UpsertSprite(s Sprite)
	MoveSprite(unitID string, pos snapshot.AxialCoordinate, facing float64) bool
	RemoveSprite(unitID string)
	UnitScreenPosition(unitID string) (ScreenPoint, bool)
	HexScreenPosition(c snapshot.AxialCoordinate) ScreenPoint
	Clear()
}

// HealthBar is the draw state for one combat-tracked unit's health bar
type HealthBar struct {
	UnitID  string
	OwnerID string
	Anchor  ScreenPoint
	Current float64
	Max     float64
}

// DamageNumber is one pooled floating combat number. Rise and Opacity are
// recomputed every render tick from the animation progress.
type DamageNumber struct {
	ID      int64
	UnitID  string
	Amount  float64
	Heal    bool
	Origin  ScreenPoint
	Rise    float64
	Opacity float64

	elapsed float64 // seconds into the float/fade animation
}

// Projectile is the draw state for one in-flight projectile
type Projectile struct {
	ProjectileID string
	SourceUnitID string
	TargetUnitID string
	From         ScreenPoint
	To           ScreenPoint
	Progress     float64
}

// BuffIcon is one status-effect icon attached to a unit
type BuffIcon struct {
	EffectID string
	Debuff   bool
}

// WidgetPresenter draws the thin visual widgets. Implementations are
// expected to be stateless draw routines; the orchestrator owns all
// widget lifecycle and calls Remove* exactly once per destroyed widget.
type WidgetPresenter interface {
	DrawHealthBar(hb HealthBar)
	RemoveHealthBar(unitID string)
	DrawDamageNumber(dn DamageNumber)
	RemoveDamageNumber(id int64)
	DrawProjectile(p Projectile)
	RemoveProjectile(projectileID string)
	DrawBuffIcons(unitID string, anchor ScreenPoint, icons []BuffIcon)
	RemoveBuffIcons(unitID string)
}

// NopPresenter discards all widget draw calls. Used when the host only
// wants sprites, and as the default when no presenter is supplied.
type NopPresenter struct{}

func (NopPresenter) DrawHealthBar(HealthBar)                          {}
func (NopPresenter) RemoveHealthBar(string)                           {}
func (NopPresenter) DrawDamageNumber(DamageNumber)                    {}
func (NopPresenter) RemoveDamageNumber(int64)                         {}
func (NopPresenter) DrawProjectile(Projectile)                        {}
func (NopPresenter) RemoveProjectile(string)                          {}
func (NopPresenter) DrawBuffIcons(string, ScreenPoint, []BuffIcon)    {}
func (NopPresenter) RemoveBuffIcons(string)                           {}
