package view

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/lixenwraith/arenaview/animation"
	"github.com/lixenwraith/arenaview/clock"
	"github.com/lixenwraith/arenaview/diff"
	"github.com/lixenwraith/arenaview/hexmath"
	"github.com/lixenwraith/arenaview/interp"
	"github.com/lixenwraith/arenaview/lifecycle"
	"github.com/lixenwraith/arenaview/snapshot"
	"github.com/lixenwraith/arenaview/statebuffer"
	"github.com/lixenwraith/arenaview/status"
)

const (
	// DefaultFrameInterval paces the render loop at roughly 60 Hz
	DefaultFrameInterval = 16 * time.Millisecond

	// DefaultSweepInterval paces the combat-timeout sweep. It runs
	// independently of snapshot arrival so timeouts fire even while the
	// stream is quiet.
	DefaultSweepInterval = 500 * time.Millisecond

	// DefaultCombatTimeout is how long a unit's health bar survives after
	// the unit loses its target
	DefaultCombatTimeout = 3000 * time.Millisecond

	// DefaultMaxFrameDelta clamps the inter-frame delta so a stalled or
	// backgrounded host does not produce one giant animation jump
	DefaultMaxFrameDelta = 100 * time.Millisecond

	// DefaultDamageNumberDuration is the full float/fade animation length
	DefaultDamageNumberDuration = time.Second

	// DefaultProjectileFlight is the visual flight time of a projectile
	DefaultProjectileFlight = 300 * time.Millisecond

	// damageNumberRise is how far a damage number floats upward, in
	// pixels over the full animation
	damageNumberRise = 24.0

	// damageNumberFadeStart is the animation progress at which opacity
	// starts falling toward zero
	damageNumberFadeStart = 0.6

	// deadSpriteOpacity dims the sprite of a dead unit still on the field
	deadSpriteOpacity = 0.45

	// snapshotQueueDepth bounds the intake queue between the transport
	// callback and the loop goroutine
	snapshotQueueDepth = 32
)

// Config tunes an Orchestrator. Zero values take defaults.
type Config struct {
	FrameInterval        time.Duration
	SweepInterval        time.Duration
	CombatTimeout        time.Duration
	MaxFrameDelta        time.Duration
	DamageNumberDuration time.Duration
	ProjectileFlight     time.Duration

	BufferSize  int
	RenderDelay time.Duration

	Clock   clock.TimeProvider
	Logger  *slog.Logger
	Metrics *status.Registry
}

func (c *Config) applyDefaults() {
	if c.FrameInterval <= 0 {
		c.FrameInterval = DefaultFrameInterval
	}
	if c.SweepInterval <= 0 {
		c.SweepInterval = DefaultSweepInterval
	}
	if c.CombatTimeout <= 0 {
		c.CombatTimeout = DefaultCombatTimeout
	}
	if c.MaxFrameDelta <= 0 {
		c.MaxFrameDelta = DefaultMaxFrameDelta
	}
	if c.DamageNumberDuration <= 0 {
		c.DamageNumberDuration = DefaultDamageNumberDuration
	}
	if c.ProjectileFlight <= 0 {
		c.ProjectileFlight = DefaultProjectileFlight
	}
	if c.Clock == nil {
		c.Clock = clock.NewMonotonicTimeProvider()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.Metrics == nil {
		c.Metrics = status.NewRegistry()
	}
}

// unitVisual is the per-unit aggregate owned by the orchestrator. Keeping
// health-bar, buff-icon and combat-tracking state in one record avoids
// synchronizing several id-keyed maps.
type unitVisual struct {
	unit snapshot.CombatUnit

	tracked      bool
	lostTargetAt time.Time // zero while the unit holds a target
	hasBar       bool

	icons    []BuffIcon
	hasIcons bool
}

// Orchestrator ties the pipeline together. Two asynchronous drivers feed
// it: HandleSnapshot from the transport and the internal render ticker.
// Both are serialized onto one loop goroutine, so no shared state needs a
// lock; mutation order within each path is fixed and significant.
type Orchestrator struct {
	cfg       Config
	renderer  SpriteRenderer
	presenter WidgetPresenter
	log       *slog.Logger
	clk       clock.TimeProvider

	buffer   *statebuffer.Buffer
	tracker  *lifecycle.Tracker
	detector *diff.Detector
	machine  *animation.Machine

	units       map[string]*unitVisual
	projectiles map[string]*Projectile
	numbers     []*DamageNumber
	pool        damageNumberPool

	listeners []func(diff.ChangeSet)

	snapCh      chan *snapshot.CombatSnapshot
	completeCh  chan struct{}
	animDoneCh  chan animDone
	stopChan    chan struct{}
	stopOnce    sync.Once
	wg          sync.WaitGroup
	running     atomic.Bool
	destroyed   atomic.Bool
	destroyOnce sync.Once

	lastFrame time.Time

	statFrames    *atomic.Int64
	statSnapshots *atomic.Int64
	statRunning   *atomic.Bool
	statDamage    *status.AtomicFloat
	statHealing   *status.AtomicFloat
}

type animDone struct {
	unitID string
	state  animation.State
}

// New creates an orchestrator bound to the given collaborators.
// presenter may be nil, in which case widget draw calls are discarded.
func New(renderer SpriteRenderer, presenter WidgetPresenter, cfg Config) (*Orchestrator, error) {
	if renderer == nil {
		return nil, fmt.Errorf("view: sprite renderer is required")
	}
	if presenter == nil {
		presenter = NopPresenter{}
	}
	cfg.applyDefaults()

	o := &Orchestrator{
		cfg:       cfg,
		renderer:  renderer,
		presenter: presenter,
		log:       cfg.Logger,
		clk:       cfg.Clock,

		buffer: statebuffer.NewBuffer(statebuffer.Config{
			BufferSize:  cfg.BufferSize,
			RenderDelay: cfg.RenderDelay,
			Clock:       cfg.Clock,
			Metrics:     cfg.Metrics,
		}),
		tracker:  lifecycle.NewTracker(),
		detector: diff.NewDetector(),
		machine:  animation.NewMachine(),

		units:       make(map[string]*unitVisual),
		projectiles: make(map[string]*Projectile),
		pool: damageNumberPool{
			acquired: cfg.Metrics.Ints.Get("pool.damage.acquired"),
			reused:   cfg.Metrics.Ints.Get("pool.damage.reused"),
			recycled: cfg.Metrics.Ints.Get("pool.damage.recycled"),
		},

		snapCh:     make(chan *snapshot.CombatSnapshot, snapshotQueueDepth),
		completeCh: make(chan struct{}, 1),
		animDoneCh: make(chan animDone, snapshotQueueDepth),
		stopChan:   make(chan struct{}),

		statFrames:    cfg.Metrics.Ints.Get("view.frames"),
		statSnapshots: cfg.Metrics.Ints.Get("view.snapshots"),
		statRunning:   cfg.Metrics.Bools.Get("view.running"),
		statDamage:    cfg.Metrics.Floats.Get("view.damage.shown"),
		statHealing:   cfg.Metrics.Floats.Get("view.healing.shown"),
	}
	return o, nil
}

// OnEvents registers a listener for every detected change set. Listeners
// run synchronously on the loop goroutine, in registration order, after
// all visual subsystems have been updated for the snapshot.
func (o *Orchestrator) OnEvents(fn func(diff.ChangeSet)) {
	o.listeners = append(o.listeners, fn)
}

// HandleSnapshot enqueues an authoritative snapshot for processing. Safe
// to call from any goroutine. When the queue is full the oldest pending
// snapshot is discarded; the buffer's tick ordering makes that harmless.
func (o *Orchestrator) HandleSnapshot(s *snapshot.CombatSnapshot) {
	if o.destroyed.Load() || s == nil {
		return
	}
	select {
	case o.snapCh <- s:
	default:
		select {
		case <-o.snapCh:
		default:
		}
		select {
		case o.snapCh <- s:
		default:
		}
	}
}

// HandleCompleted signals that the transport reported combat completion
func (o *Orchestrator) HandleCompleted() {
	if o.destroyed.Load() {
		return
	}
	select {
	case o.completeCh <- struct{}{}:
	default:
	}
}

// NotifyAnimationComplete reports that a one-shot sprite animation has
// finished playing. Safe to call from any goroutine.
func (o *Orchestrator) NotifyAnimationComplete(unitID string, s animation.State) {
	if o.destroyed.Load() {
		return
	}
	select {
	case o.animDoneCh <- animDone{unitID: unitID, state: s}:
	default:
	}
}

// AnimationState returns a unit's resolved animation state.
// Only meaningful between loop iterations; intended for tests and
// diagnostics, not per-frame queries from other goroutines.
func (o *Orchestrator) AnimationState(unitID string) (animation.State, bool) {
	return o.machine.State(unitID)
}

// Statistics returns the snapshot intake statistics. Safe to call from
// any goroutine; the counters behind it are atomic.
func (o *Orchestrator) Statistics() statebuffer.Statistics {
	return o.buffer.Statistics()
}

// Start launches the loop goroutine. Idempotent: repeated calls never
// schedule a second loop.
func (o *Orchestrator) Start() {
	if o.destroyed.Load() {
		return
	}
	if o.running.CompareAndSwap(false, true) {
		o.wg.Add(1)
		go o.run()
	}
}

// Stop cancels the render loop so no further frames execute. Idempotent.
func (o *Orchestrator) Stop() {
	o.stopOnce.Do(func() {
		close(o.stopChan)
	})
	if o.running.Load() {
		o.wg.Wait()
		o.running.Store(false)
	}
}

// Destroy stops the loop and sweep timer and releases every owned visual
// resource. Idempotent; the orchestrator is unusable afterwards.
func (o *Orchestrator) Destroy() {
	o.Stop()
	o.destroyOnce.Do(func() {
		o.destroyed.Store(true)

		for id, v := range o.units {
			o.releaseUnitVisuals(id, v)
		}
		o.units = make(map[string]*unitVisual)

		for id := range o.projectiles {
			o.guard("projectile remove", func() { o.presenter.RemoveProjectile(id) })
		}
		o.projectiles = make(map[string]*Projectile)

		for _, dn := range o.numbers {
			num := dn
			o.guard("damage number remove", func() { o.presenter.RemoveDamageNumber(num.ID) })
			o.pool.release(num)
		}
		o.numbers = nil
		o.pool.drain()

		o.guard("sprite clear", func() { o.renderer.Clear() })

		o.machine.Clear()
		o.tracker.Clear()
		o.detector.Reset()
		o.buffer.Clear()
	})
}

// run is the single loop goroutine. Everything that mutates orchestrator
// state happens here.
func (o *Orchestrator) run() {
	defer o.wg.Done()
	o.statRunning.Store(true)
	defer o.statRunning.Store(false)

	frame := time.NewTicker(o.cfg.FrameInterval)
	defer frame.Stop()
	sweep := time.NewTicker(o.cfg.SweepInterval)
	defer sweep.Stop()

	for {
		select {
		case <-o.stopChan:
			return
		case s := <-o.snapCh:
			o.processSnapshot(s)
		case <-frame.C:
			o.renderFrame()
		case <-sweep.C:
			o.sweepCombatTimeouts(o.clk.Now())
		case done := <-o.animDoneCh:
			o.machine.AnimationComplete(done.unitID, done.state)
		case <-o.completeCh:
			o.log.Info("combat completed", "match", o.currentMatchID())
		}
	}
}

// processSnapshot is the snapshot-arrival path. Subsystem order is fixed:
// sprites are created or updated first because every later subsystem
// queries sprite screen positions.
func (o *Orchestrator) processSnapshot(s *snapshot.CombatSnapshot) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("snapshot processing panicked", "panic", r)
		}
	}()

	prev := o.buffer.CurrentState()
	if !o.buffer.AddState(s) {
		// Out-of-order or nil: counted by the buffer, otherwise silent
		return
	}
	o.statSnapshots.Add(1)

	now := o.clk.Now()
	changes := o.detector.DetectChanges(s)
	o.tracker.UpdateState(s)

	// (1) sprites
	o.renderUnits(s)

	// spawn/despawn bookkeeping and per-unit animation signals
	o.applyLifecycle(s)
	o.updateAnimations(prev, s)

	// (2) health bars and combat tracking
	o.updateCombatTracking(s, changes, now)

	// (3) damage numbers
	o.spawnDamageNumbers(changes)

	// (4) projectiles
	o.updateProjectiles(s, changes)

	// (5) buff icons
	o.updateBuffIcons(s)

	// (6) external listeners
	for _, fn := range o.listeners {
		fn(changes)
	}
}

// renderUnits creates or updates a sprite for every unit in the snapshot
func (o *Orchestrator) renderUnits(s *snapshot.CombatSnapshot) {
	for i := range s.Units {
		u := &s.Units[i]
		opacity := 1.0
		if u.IsDead() {
			opacity = deadSpriteOpacity
		}
		sprite := Sprite{
			UnitID:          u.UnitID,
			HexPosition:     u.Position,
			CreatureKind:    u.CreatureID,
			OwnerID:         u.OwnerID,
			AssetRef:        u.CreatureID,
			Opacity:         opacity,
			FacingDirection: u.FacingDirection,
		}
		// Per-unit guard: one bad sprite must not abort the batch
		o.guard("sprite upsert", func() { o.renderer.UpsertSprite(sprite) })
	}
}

// applyLifecycle registers spawned units and tears down despawned ones
func (o *Orchestrator) applyLifecycle(s *snapshot.CombatSnapshot) {
	for _, u := range o.tracker.Spawned() {
		o.machine.RegisterUnit(u.UnitID, u.Health, u.Status == snapshot.UnitDead)
	}
	if !o.machineSeeded(s) {
		// Baseline snapshot produced no spawn events; register the roster
		for i := range s.Units {
			u := &s.Units[i]
			if _, known := o.machine.State(u.UnitID); !known {
				o.machine.RegisterUnit(u.UnitID, u.Health, u.Status == snapshot.UnitDead)
			}
		}
	}

	for _, u := range o.tracker.Despawned() {
		id := u.UnitID
		o.machine.UnregisterUnit(id)
		o.guard("sprite remove", func() { o.renderer.RemoveSprite(id) })
		if v, ok := o.units[id]; ok {
			o.releaseUnitVisuals(id, v)
			delete(o.units, id)
		}
	}
}

func (o *Orchestrator) machineSeeded(s *snapshot.CombatSnapshot) bool {
	if len(s.Units) == 0 {
		return true
	}
	_, known := o.machine.State(s.Units[0].UnitID)
	return known
}

// updateAnimations feeds each unit's combat signals into the state
// machine. Attack always outranks the spawn-entrance walk: a unit that
// deploys straight into a fight swings, it does not stroll.
func (o *Orchestrator) updateAnimations(prev, curr *snapshot.CombatSnapshot) {
	for i := range curr.Units {
		u := &curr.Units[i]

		moving := false
		if before, ok := prev.Unit(u.UnitID); ok {
			moving = !hexmath.SamePosition(before.Position, u.Position)
		} else if u.DeploymentPosition != nil && !hexmath.SamePosition(*u.DeploymentPosition, u.Position) {
			moving = true // spawn entrance
		}

		health := u.Health
		o.machine.UpdateState(u.UnitID, animation.Signals{
			Moving:    moving,
			Attacking: u.HasTarget(),
			// No ability-cast signal exists in the snapshot yet; the cast
			// slot stays wired but silent
			Casting: false,
			Health:  &health,
		})
	}
}

// visual returns the aggregate record for a unit, creating it on demand
func (o *Orchestrator) visual(unitID string) *unitVisual {
	v, ok := o.units[unitID]
	if !ok {
		v = &unitVisual{}
		o.units[unitID] = v
	}
	return v
}

// updateCombatTracking maintains the in-combat set and its health bars.
// A unit enters tracking when damaged or when it holds a target; death or
// removal evicts immediately, losing a target starts the timeout clock.
func (o *Orchestrator) updateCombatTracking(s *snapshot.CombatSnapshot, changes diff.ChangeSet, now time.Time) {
	damaged := make(map[string]struct{}, len(changes.Damages))
	for _, d := range changes.Damages {
		damaged[d.UnitID] = struct{}{}
	}

	for i := range s.Units {
		u := &s.Units[i]
		v := o.visual(u.UnitID)
		v.unit = *u

		if u.IsDead() {
			o.evictTracking(u.UnitID, v)
			continue
		}

		if _, hit := damaged[u.UnitID]; hit || u.HasTarget() {
			v.tracked = true
		}
		if !v.tracked {
			continue
		}

		if u.HasTarget() {
			v.lostTargetAt = time.Time{}
		} else if v.lostTargetAt.IsZero() {
			v.lostTargetAt = now
		}

		o.drawHealthBar(u.UnitID, v)
	}
}

// drawHealthBar anchors and draws one unit's bar. A missing sprite
// position skips the draw for this pass only; it recovers on its own once
// the renderer has the sprite.
func (o *Orchestrator) drawHealthBar(unitID string, v *unitVisual) {
	anchor, ok := o.spritePosition(unitID)
	if !ok {
		return
	}
	bar := HealthBar{
		UnitID:  unitID,
		OwnerID: v.unit.OwnerID,
		Anchor:  anchor,
		Current: v.unit.Health,
		Max:     v.unit.MaxHealth,
	}
	v.hasBar = true
	o.guard("health bar draw", func() { o.presenter.DrawHealthBar(bar) })
}

// evictTracking removes a unit from combat tracking and destroys its bar
func (o *Orchestrator) evictTracking(unitID string, v *unitVisual) {
	if v.hasBar {
		v.hasBar = false
		o.guard("health bar remove", func() { o.presenter.RemoveHealthBar(unitID) })
	}
	v.tracked = false
	v.lostTargetAt = time.Time{}
}

// sweepCombatTimeouts evicts units whose target has been gone longer than
// the combat timeout. Runs on its own timer so bars disappear even when
// no snapshots arrive.
func (o *Orchestrator) sweepCombatTimeouts(now time.Time) {
	for id, v := range o.units {
		if !v.tracked || v.lostTargetAt.IsZero() {
			continue
		}
		if now.Sub(v.lostTargetAt) >= o.cfg.CombatTimeout {
			o.evictTracking(id, v)
		}
	}
}

// spawnDamageNumbers acquires pooled numbers for this tick's damage and
// heal events, anchored at the unit's current sprite position
func (o *Orchestrator) spawnDamageNumbers(changes diff.ChangeSet) {
	for _, d := range changes.Damages {
		o.spawnNumber(d.UnitID, d.DamageAmount, false)
	}
	for _, h := range changes.Heals {
		o.spawnNumber(h.UnitID, h.HealAmount, true)
	}
}

func (o *Orchestrator) spawnNumber(unitID string, amount float64, heal bool) {
	origin, ok := o.spritePosition(unitID)
	if !ok {
		// No sprite to anchor to; dropping one number beats guessing
		return
	}
	if heal {
		o.statHealing.Add(amount)
	} else {
		o.statDamage.Add(amount)
	}

	dn := o.pool.acquire()
	dn.UnitID = unitID
	dn.Amount = amount
	dn.Heal = heal
	dn.Origin = origin
	o.numbers = append(o.numbers, dn)
	o.guard("damage number draw", func() { o.presenter.DrawDamageNumber(*dn) })
}

// updateProjectiles reconciles live projectile visuals against the
// snapshot: spawn events create them, continued presence refreshes their
// endpoints, absence destroys them.
func (o *Orchestrator) updateProjectiles(s *snapshot.CombatSnapshot, changes diff.ChangeSet) {
	for _, spawn := range changes.ProjectilesSpawned {
		o.projectiles[spawn.ProjectileID] = &Projectile{
			ProjectileID: spawn.ProjectileID,
			SourceUnitID: spawn.SourceUnitID,
			TargetUnitID: spawn.TargetUnitID,
			From:         o.hexPosition(spawn.SourcePosition),
			To:           o.hexPosition(spawn.TargetPosition),
		}
	}

	present := s.ProjectileIDs()
	for i := range s.Projectiles {
		p := &s.Projectiles[i]
		if vp, ok := o.projectiles[p.ProjectileID]; ok {
			vp.From = o.hexPosition(p.SourcePosition)
			vp.To = o.hexPosition(p.TargetPosition)
		}
	}
	for id := range o.projectiles {
		if _, ok := present[id]; !ok {
			pid := id
			o.guard("projectile remove", func() { o.presenter.RemoveProjectile(pid) })
			delete(o.projectiles, id)
		}
	}
}

// updateBuffIcons rebuilds each unit's icon strip from its buff and
// debuff lists, removing strips that emptied out
func (o *Orchestrator) updateBuffIcons(s *snapshot.CombatSnapshot) {
	for i := range s.Units {
		u := &s.Units[i]
		v := o.visual(u.UnitID)

		icons := make([]BuffIcon, 0, len(u.ActiveBuffs)+len(u.ActiveDebuffs))
		for _, b := range u.ActiveBuffs {
			icons = append(icons, BuffIcon{EffectID: b.BuffID})
		}
		for _, d := range u.ActiveDebuffs {
			icons = append(icons, BuffIcon{EffectID: d.DebuffID, Debuff: true})
		}

		if len(icons) == 0 {
			if v.hasIcons {
				v.hasIcons = false
				v.icons = nil
				id := u.UnitID
				o.guard("buff icons remove", func() { o.presenter.RemoveBuffIcons(id) })
			}
			continue
		}

		v.icons = icons
		anchor, ok := o.spritePosition(u.UnitID)
		if !ok {
			continue
		}
		v.hasIcons = true
		id := u.UnitID
		o.guard("buff icons draw", func() { o.presenter.DrawBuffIcons(id, anchor, icons) })
	}
}

// renderFrame is the render-tick path: it recomputes interpolated
// transforms and re-applies them to existing sprites. It never creates
// sprites; that is exclusively the snapshot path's job.
func (o *Orchestrator) renderFrame() {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("render frame panicked", "panic", r)
		}
	}()

	now := o.clk.Now()
	var dt time.Duration
	if !o.lastFrame.IsZero() {
		dt = now.Sub(o.lastFrame)
		if dt > o.cfg.MaxFrameDelta {
			dt = o.cfg.MaxFrameDelta
		}
		if dt < 0 {
			dt = 0
		}
	}
	o.lastFrame = now
	o.statFrames.Add(1)

	curr := o.buffer.CurrentState()
	if curr == nil {
		return
	}
	prev := o.buffer.PreviousState()

	factor := o.buffer.InterpolationFactor(o.buffer.BufferedRenderTime(now))
	for _, p := range interp.InterpolatePositions(prev, curr, factor) {
		pos := p
		o.guard("sprite move", func() { o.renderer.MoveSprite(pos.UnitID, pos.Position, pos.FacingDirection) })
	}

	o.advanceDamageNumbers(dt)
	o.advanceProjectiles(dt)
	o.refreshAnchors()
}

// advanceDamageNumbers steps the float/fade animation and recycles
// finished numbers back into the pool
func (o *Orchestrator) advanceDamageNumbers(dt time.Duration) {
	if len(o.numbers) == 0 {
		return
	}

	duration := o.cfg.DamageNumberDuration.Seconds()
	alive := o.numbers[:0]
	for _, dn := range o.numbers {
		dn.elapsed += dt.Seconds()
		progress := dn.elapsed / duration
		if progress >= 1 {
			num := dn
			o.guard("damage number remove", func() { o.presenter.RemoveDamageNumber(num.ID) })
			o.pool.release(num)
			continue
		}

		dn.Rise = progress * damageNumberRise
		if progress < damageNumberFadeStart {
			dn.Opacity = 1
		} else {
			dn.Opacity = 1 - (progress-damageNumberFadeStart)/(1-damageNumberFadeStart)
		}

		num := dn
		o.guard("damage number draw", func() { o.presenter.DrawDamageNumber(*num) })
		alive = append(alive, dn)
	}
	o.numbers = alive
}

// advanceProjectiles steps flight progress toward the target. Visual
// removal is snapshot-driven; progress just saturates at 1.
func (o *Orchestrator) advanceProjectiles(dt time.Duration) {
	if len(o.projectiles) == 0 {
		return
	}
	step := dt.Seconds() / o.cfg.ProjectileFlight.Seconds()
	for _, p := range o.projectiles {
		p.Progress += step
		if p.Progress > 1 {
			p.Progress = 1
		}
		proj := p
		o.guard("projectile draw", func() { o.presenter.DrawProjectile(*proj) })
	}
}

// refreshAnchors re-anchors health bars and buff icons to the sprites'
// current interpolated screen positions
func (o *Orchestrator) refreshAnchors() {
	for id, v := range o.units {
		if v.hasBar {
			o.drawHealthBar(id, v)
		}
		if v.hasIcons {
			anchor, ok := o.spritePosition(id)
			if ok {
				unitID, icons := id, v.icons
				o.guard("buff icons draw", func() { o.presenter.DrawBuffIcons(unitID, anchor, icons) })
			}
		}
	}
}

// releaseUnitVisuals destroys every widget owned for a unit
func (o *Orchestrator) releaseUnitVisuals(unitID string, v *unitVisual) {
	if v.hasBar {
		v.hasBar = false
		o.guard("health bar remove", func() { o.presenter.RemoveHealthBar(unitID) })
	}
	if v.hasIcons {
		v.hasIcons = false
		o.guard("buff icons remove", func() { o.presenter.RemoveBuffIcons(unitID) })
	}
	v.tracked = false
}

// spritePosition queries the renderer, shielding against collaborator
// panics. ok is false when the sprite does not exist yet.
func (o *Orchestrator) spritePosition(unitID string) (pt ScreenPoint, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("renderer position query panicked", "unit", unitID, "panic", r)
			ok = false
		}
	}()
	return o.renderer.UnitScreenPosition(unitID)
}

func (o *Orchestrator) hexPosition(c snapshot.AxialCoordinate) ScreenPoint {
	return o.renderer.HexScreenPosition(c)
}

func (o *Orchestrator) currentMatchID() string {
	if s := o.buffer.CurrentState(); s != nil {
		return s.MatchID
	}
	return ""
}

// guard runs a collaborator call, converting a panic into a logged error
// so one bad draw never takes down the loop or the rest of the batch
func (o *Orchestrator) guard(stage string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			o.log.Error("presentation call panicked", "stage", stage, "panic", r)
		}
	}()
	fn()
}
