// Package snapshot defines the authoritative combat state delivered by the
// match server. Snapshots are value data: once received they are never
// mutated, and unit identity persists only through UnitID across ticks.
package snapshot

// UnitStatus is the server-reported life state of a unit
type UnitStatus string

const (
	UnitAlive UnitStatus = "alive"
	UnitDead  UnitStatus = "dead"
)

// MatchStatus is the coarse state of the whole match
type MatchStatus string

const (
	MatchPending   MatchStatus = "pending"
	MatchActive    MatchStatus = "active"
	MatchCompleted MatchStatus = "completed"
)

// AxialCoordinate addresses a hex cell using the two-axis (q, r) scheme
type AxialCoordinate struct {
	Q float64 `json:"q"`
	R float64 `json:"r"`
}

// Buff is a positive status effect attached to a unit
type Buff struct {
	BuffID   string  `json:"buffId"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Debuff is a negative status effect attached to a unit
type Debuff struct {
	DebuffID string  `json:"debuffId"`
	Name     string  `json:"name,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// CombatUnit is one creature's state at a single tick.
// DeploymentPosition is only meaningful on the tick a unit enters battle;
// CurrentTarget is empty when the unit has no target.
type CombatUnit struct {
	UnitID             string           `json:"unitId"`
	CreatureID         string           `json:"creatureId"`
	OwnerID            string           `json:"ownerId"`
	Position           AxialCoordinate  `json:"position"`
	DeploymentPosition *AxialCoordinate `json:"deploymentPosition,omitempty"`
	Health             float64          `json:"health"`
	MaxHealth          float64          `json:"maxHealth"`
	Status             UnitStatus       `json:"status"`
	CurrentTarget      string           `json:"currentTarget,omitempty"`
	FacingDirection    float64          `json:"facingDirection"`
	ActiveBuffs        []Buff           `json:"activeBuffs,omitempty"`
	ActiveDebuffs      []Debuff         `json:"activeDebuffs,omitempty"`
}

// IsDead reports whether the unit is dead by status or by health
func (u *CombatUnit) IsDead() bool {
	return u.Status == UnitDead || u.Health <= 0
}

// HasTarget reports whether the unit is currently targeting another unit
func (u *CombatUnit) HasTarget() bool {
	return u.CurrentTarget != ""
}

// ProjectileState is one in-flight projectile at a single tick
type ProjectileState struct {
	ProjectileID   string          `json:"projectileId"`
	SourceUnitID   string          `json:"sourceUnitId"`
	TargetUnitID   string          `json:"targetUnitId"`
	SourcePosition AxialCoordinate `json:"sourcePosition"`
	TargetPosition AxialCoordinate `json:"targetPosition"`
}

// MatchStatistics carries server-computed aggregate numbers, opaque to the
// interpolation pipeline
type MatchStatistics struct {
	TotalDamage float64 `json:"totalDamage,omitempty"`
	TotalHeals  float64 `json:"totalHeals,omitempty"`
	UnitsLost   int     `json:"unitsLost,omitempty"`
}

// CombatSnapshot is one authoritative state of the whole battle.
// Tick strictly increases across accepted snapshots.
type CombatSnapshot struct {
	MatchID     string            `json:"matchId"`
	Tick        int64             `json:"tick"`
	Status      MatchStatus       `json:"status"`
	Units       []CombatUnit      `json:"units"`
	Projectiles []ProjectileState `json:"projectiles"`
	Statistics  MatchStatistics   `json:"statistics"`
	StartTime   int64             `json:"startTime"`
}

// Unit returns the unit with the given id, or false when absent.
// Safe on a nil snapshot.
func (s *CombatSnapshot) Unit(id string) (*CombatUnit, bool) {
	if s == nil {
		return nil, false
	}
	for i := range s.Units {
		if s.Units[i].UnitID == id {
			return &s.Units[i], true
		}
	}
	return nil, false
}

// UnitIDs returns the set of unit ids present in the snapshot.
// Safe on a nil snapshot; missing unit lists yield an empty set.
func (s *CombatSnapshot) UnitIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if s == nil {
		return ids
	}
	for i := range s.Units {
		ids[s.Units[i].UnitID] = struct{}{}
	}
	return ids
}

// ProjectileIDs returns the set of projectile ids present in the snapshot.
// Safe on a nil snapshot.
func (s *CombatSnapshot) ProjectileIDs() map[string]struct{} {
	ids := make(map[string]struct{})
	if s == nil {
		return ids
	}
	for i := range s.Projectiles {
		ids[s.Projectiles[i].ProjectileID] = struct{}{}
	}
	return ids
}
