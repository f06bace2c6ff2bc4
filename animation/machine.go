// Package animation resolves each unit's visual animation state from the
// raw per-tick combat signals. Resolution uses a fixed priority so a unit
// can never show contradictory visuals:
//
//	DEATH > CAST > ATTACK > WALK > IDLE
//
// Death is absorbing: once a unit's health reaches zero the entry is
// permanently dead, regardless of anything a later snapshot reports.
package animation

// State is a unit's resolved animation state
type State int

const (
	StateIdle State = iota
	StateWalk
	StateAttack
	StateCast
	StateDeath
)

// String returns the lowercase state name
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWalk:
		return "walk"
	case StateAttack:
		return "attack"
	case StateCast:
		return "cast"
	case StateDeath:
		return "death"
	}
	return "unknown"
}

// OneShot reports whether the state plays once and then returns to idle
func (s State) OneShot() bool {
	return s == StateAttack || s == StateCast
}

// Signals are the raw inputs resolved into an animation state.
// Health is optional; nil leaves the stored death flag untouched.
type Signals struct {
	Moving    bool
	Attacking bool
	Casting   bool
	Health    *float64
}

// Change describes one resolved state transition
type Change struct {
	UnitID   string
	Previous State
	New      State
}

type entry struct {
	state State
	dead  bool
}

// Machine tracks the animation state of every registered unit.
// All methods are synchronous; change listeners run inline before the
// triggering call returns, in registration order.
type Machine struct {
	units     map[string]*entry
	listeners []func(Change)
}

// NewMachine creates an empty animation state machine
func NewMachine() *Machine {
	return &Machine{
		units: make(map[string]*entry),
	}
}

// OnChange registers a listener invoked on every state transition
func (m *Machine) OnChange(fn func(Change)) {
	m.listeners = append(m.listeners, fn)
}

// RegisterUnit creates a state entry for the unit, defaulting to idle.
// The initial death flag is captured from the unit's health and status.
// Registering an already-known unit resets its entry.
func (m *Machine) RegisterUnit(unitID string, health float64, dead bool) {
	m.units[unitID] = &entry{
		state: StateIdle,
		dead:  dead || health <= 0,
	}
}

// UnregisterUnit removes the unit's entry. Unknown ids are a no-op.
func (m *Machine) UnregisterUnit(unitID string) {
	delete(m.units, unitID)
}

// UpdateState resolves the unit's new state from the given signals.
// Unregistered units are a no-op. A health report at or below zero marks
// the unit dead forever.
func (m *Machine) UpdateState(unitID string, sig Signals) {
	e, ok := m.units[unitID]
	if !ok {
		return
	}

	if sig.Health != nil && *sig.Health <= 0 {
		e.dead = true
	}

	var next State
	switch {
	case e.dead:
		next = StateDeath
	case sig.Casting:
		next = StateCast
	case sig.Attacking:
		next = StateAttack
	case sig.Moving:
		next = StateWalk
	default:
		next = StateIdle
	}

	m.transition(unitID, e, next)
}

// AnimationComplete advances a finished one-shot state back to idle.
// The unit must still be in exactly the completed state; a completion
// arriving after the state has been superseded is ignored. Looping and
// terminal states are unaffected.
func (m *Machine) AnimationComplete(unitID string, completed State) {
	e, ok := m.units[unitID]
	if !ok {
		return
	}
	if !completed.OneShot() || e.state != completed {
		return
	}
	m.transition(unitID, e, StateIdle)
}

// State returns the unit's current state, or false for unknown units
func (m *Machine) State(unitID string) (State, bool) {
	e, ok := m.units[unitID]
	if !ok {
		return StateIdle, false
	}
	return e.state, true
}

// IsInState reports whether a known unit is in the given state
func (m *Machine) IsInState(unitID string, s State) bool {
	e, ok := m.units[unitID]
	return ok && e.state == s
}

// UnitsInState returns the ids of all units currently in the given state
func (m *Machine) UnitsInState(s State) []string {
	var ids []string
	for id, e := range m.units {
		if e.state == s {
			ids = append(ids, id)
		}
	}
	return ids
}

// Clear removes all unit entries and change listeners
func (m *Machine) Clear() {
	m.units = make(map[string]*entry)
	m.listeners = nil
}

func (m *Machine) transition(unitID string, e *entry, next State) {
	if e.state == next {
		return
	}
	prev := e.state
	e.state = next
	for _, fn := range m.listeners {
		fn(Change{UnitID: unitID, Previous: prev, New: next})
	}
}
