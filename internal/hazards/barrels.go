package hazards

import (
	"context"
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
	hazardlog "github.com/spider2544-git/TopDownShooter12-sub002/logging/hazards"
)

const (
	causeDamage = "damage"
	causeFuse   = "fuse"
	causeChain  = "chain"
)

// DamageBarrel applies damage to a barrel. Dropping to half health starts the
// fuse; dropping to zero detonates immediately. Unknown or exploded barrels
// are ignored.
func (m *Manager) DamageBarrel(id string, damage, hitX, hitY float64) bool {
	if m == nil || damage <= 0 {
		return false
	}
	b, ok := m.barrel(id)
	if !ok || b.Exploded {
		return false
	}
	b.Health -= damage
	ctx := context.Background()
	ref := barrelRef(b)
	hazardlog.BarrelHit(ctx, m.publisher, m.tick, ref, hazardlog.HitPayload{
		Damage:    damage,
		Health:    math.Max(b.Health, 0),
		HealthMax: b.HealthMax,
		HitX:      hitX,
		HitY:      hitY,
	})

	if b.Health <= 0 {
		b.Health = 0
		m.detonate(b, causeDamage, "")
		return true
	}
	if !b.FuseStarted && b.Health <= b.HealthMax*fuseThreshold {
		m.startFuse(b)
	}
	return true
}

// Barrel returns a copy of a live barrel.
func (m *Manager) Barrel(id string) (ExplodingBarrel, bool) {
	if m == nil {
		return ExplodingBarrel{}, false
	}
	b, ok := m.barrel(id)
	if !ok {
		return ExplodingBarrel{}, false
	}
	return *b, true
}

// Sandbag returns a copy of a standing sandbag.
func (m *Manager) Sandbag(id string) (Sandbag, bool) {
	if m == nil {
		return Sandbag{}, false
	}
	s, ok := m.sandbag(id)
	if !ok {
		return Sandbag{}, false
	}
	return *s, true
}

func (m *Manager) startFuse(b *ExplodingBarrel) {
	b.FuseStarted = true
	b.FuseStartHealth = b.Health
	b.FuseElapsed = 0
	b.fuseStartAt = m.clock
	m.schedule.schedule(scheduledEvent{
		At:       b.fuseStartAt + m.barrelCfg.FuseStep,
		Kind:     scheduledFuseTick,
		BarrelID: b.ID,
		Step:     1,
	})
	hazardlog.BarrelFuseStarted(context.Background(), m.publisher, m.tick, barrelRef(b), hazardlog.FusePayload{
		Health:    b.Health,
		HealthMax: b.HealthMax,
		Duration:  m.barrelCfg.FuseDuration,
	})
}

// fuseSteps is the number of fuse ticks in a full countdown.
func (m *Manager) fuseSteps() int {
	steps := int(math.Round(m.barrelCfg.FuseDuration / m.barrelCfg.FuseStep))
	if steps < 1 {
		steps = 1
	}
	return steps
}

func (m *Manager) handleFuseTick(ev scheduledEvent) {
	b, ok := m.barrel(ev.BarrelID)
	if !ok || b.Exploded || !b.FuseStarted {
		return
	}
	steps := m.fuseSteps()
	duration := m.barrelCfg.FuseDuration
	b.FuseElapsed = math.Min(float64(ev.Step)*m.barrelCfg.FuseStep, duration)
	drained := b.FuseStartHealth * (1 - b.FuseElapsed/duration)
	if ev.Step >= steps {
		drained = 0
	}
	if drained < b.Health {
		b.Health = math.Max(drained, 0)
	}
	hazardlog.BarrelFuseTick(context.Background(), m.publisher, m.tick, barrelRef(b), hazardlog.FusePayload{
		Health:    b.Health,
		HealthMax: b.HealthMax,
		Elapsed:   b.FuseElapsed,
		Duration:  duration,
	})

	if b.Health <= 0 {
		m.detonate(b, causeFuse, "")
		return
	}
	next := ev.Step + 1
	m.schedule.schedule(scheduledEvent{
		At:       b.fuseStartAt + float64(next)*m.barrelCfg.FuseStep,
		Kind:     scheduledFuseTick,
		BarrelID: b.ID,
		Step:     next,
	})
}

func (m *Manager) handleChainDetonation(ev scheduledEvent) {
	b, ok := m.barrel(ev.BarrelID)
	if !ok || b.Exploded {
		return
	}
	m.detonate(b, causeChain, ev.SourceID)
}

// detonate removes the barrel, damages everything in its radius and queues
// neighbouring barrels. It uses the barrel's state at the time it fires.
func (m *Manager) detonate(b *ExplodingBarrel, cause, sourceID string) {
	if b.Exploded {
		return
	}
	b.Exploded = true
	m.removeBarrel(b.ID)

	radius := b.ExplosionRadius
	var targets []logging.EntityRef
	for _, a := range m.actors.Actors() {
		if a == nil || !a.Alive() {
			continue
		}
		ax, ay := a.Position()
		reach := radius + a.Radius()
		if !geometry.WithinCull(b.X, b.Y, ax, ay, reach) {
			continue
		}
		dmg := explosionDamage(a, b.ExplosionDamage, distance(b.X, b.Y, ax, ay), radius)
		if dmg <= 0 {
			continue
		}
		a.Damage(dmg, b.ID)
		targets = append(targets, actorRef(a))
	}

	m.damageSandbagsInCircle(b.X, b.Y, radius, sandbagBlastDamage)

	var chained []string
	for _, other := range m.barrels {
		if other.Exploded || distance(b.X, b.Y, other.X, other.Y) > radius {
			continue
		}
		delay := m.rng.Range(m.barrelCfg.ChainDelayMin, m.barrelCfg.ChainDelayMax)
		m.schedule.schedule(scheduledEvent{
			At:       m.clock + delay,
			Kind:     scheduledChainDetonation,
			BarrelID: other.ID,
			SourceID: b.ID,
		})
		chained = append(chained, other.ID)
	}

	m.metrics.Add("hazards.barrels.detonated", 1)
	ref := barrelRef(b)
	if sourceID != "" {
		targets = append(targets, logging.EntityRef{ID: sourceID, Kind: logging.EntityKindBarrel})
	}
	hazardlog.BarrelExploded(context.Background(), m.publisher, m.tick, ref, targets, hazardlog.ExplodedPayload{
		X:            b.X,
		Y:            b.Y,
		Radius:       radius,
		Damage:       b.ExplosionDamage,
		ChainTargets: chained,
		Cause:        cause,
	})
}

// explosionDamage applies distance falloff and the per-kind modifiers.
func explosionDamage(a Actor, base, dist, radius float64) float64 {
	t := 1.0
	if radius > 0 {
		t = geometry.Clamp(dist/radius, 0, 1)
	}
	dmg := base * (1 - falloffFactor*t)
	switch a.ActorKind() {
	case ActorEnemy:
		dmg *= enemyMultiplier
	case ActorPlayer:
		if armored, ok := a.(ArmoredActor); ok {
			reduction := geometry.Clamp(armored.Armor(), 0, maxArmorReduction)
			dmg *= 1 - reduction
		}
	case ActorTroop:
	}
	return dmg
}

func (m *Manager) barrel(id string) (*ExplodingBarrel, bool) {
	for _, b := range m.barrels {
		if b.ID == id {
			return b, true
		}
	}
	return nil, false
}

func (m *Manager) barrelIDs() []string {
	ids := make([]string, len(m.barrels))
	for i, b := range m.barrels {
		ids[i] = b.ID
	}
	return ids
}

func (m *Manager) removeBarrel(id string) {
	for i, b := range m.barrels {
		if b.ID == id {
			m.barrels = append(m.barrels[:i], m.barrels[i+1:]...)
			return
		}
	}
}

func barrelRef(b *ExplodingBarrel) logging.EntityRef {
	return logging.EntityRef{ID: b.ID, Kind: logging.EntityKindBarrel}
}
