package hazards

import (
	"context"
	"math"
	"time"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
	hazardlog "github.com/spider2544-git/TopDownShooter12-sub002/logging/hazards"
)

// Tick advances the hazard simulation by dt time units: due scheduled events
// run first, then every living actor is tested against every hazard, then
// fire burns objects on its own period.
func (m *Manager) Tick(dt float64) {
	if m == nil || dt < 0 || math.IsNaN(dt) {
		return
	}
	started := time.Now()
	m.clock += dt
	m.tick++

	m.runScheduled()

	ctx := context.Background()
	for _, a := range m.actors.Actors() {
		if a == nil || !a.Alive() {
			continue
		}
		st, ok := m.statuses[a.ActorID()]
		if !ok {
			st = newActorState()
			m.statuses[a.ActorID()] = st
		}
		st.seen = m.tick
		m.applyHazards(ctx, a, st, dt)
	}
	for id, st := range m.statuses {
		if st.seen != m.tick {
			delete(m.statuses, id)
		}
	}

	m.fireAcc += dt
	period := m.fireCfg.ObjectPeriod
	for m.fireAcc >= period-epsilon {
		m.fireAcc -= period
		m.burnObjects(ctx, period)
	}

	m.metrics.Store("hazards.tick_us", uint64(time.Since(started).Microseconds()))
}

func (m *Manager) applyHazards(ctx context.Context, a Actor, st *actorState, dt float64) {
	ax, ay := a.Position()
	radius := a.Radius()
	ref := actorRef(a)
	status := &st.status
	status.SpeedMultiplier = 1

	status.InWire = false
	for _, w := range m.wires {
		if !geometry.WithinCull(ax, ay, w.X, w.Y, m.cullRadius+radius+w.Pattern.Extent()) {
			continue
		}
		if w.Pattern.Contains(ax, ay, m.wireCfg.ContactWidth+radius) {
			status.InWire = true
			break
		}
	}
	if status.InWire {
		status.SpeedMultiplier = math.Min(status.SpeedMultiplier, m.wireCfg.SpeedCap)
		st.refreshDot(wireDotKey, m.wireCfg.DotDPS, m.wireCfg.DotDuration, m.wireCfg.DotInterval)
	}

	var mudID string
	for _, p := range m.muds {
		if !geometry.WithinCull(ax, ay, p.X, p.Y, m.cullRadius+p.Radius) {
			continue
		}
		if distance(ax, ay, p.X, p.Y) <= p.Radius {
			mudID = p.ID
			status.SpeedMultiplier = math.Min(status.SpeedMultiplier, p.SpeedMultiplier)
			break
		}
	}
	if inMud := mudID != ""; inMud != status.InMud {
		status.InMud = inMud
		hazardlog.MudState(ctx, m.publisher, m.tick, ref, hazardlog.StatePayload{Active: inMud, SourceID: mudID})
	}

	var fireID string
	for _, p := range m.fires {
		if !geometry.WithinCull(ax, ay, p.X, p.Y, m.cullRadius+p.Radius) {
			continue
		}
		if distance(ax, ay, p.X, p.Y) > p.Radius {
			continue
		}
		if fireID == "" {
			fireID = p.ID
		}
		if a.ActorKind() == ActorPlayer {
			st.refreshDot(fireDotKey(p.ID), p.DPS, p.DotDuration, p.DotInterval)
		}
	}

	m.applyGas(ctx, a, st, dt)
	m.applyTrenches(ctx, a, st, dt)

	st.advanceDots(a, dt)

	burning := fireID != "" || st.hasFireDot()
	if burning != status.Burning {
		status.Burning = burning
		hazardlog.BurnState(ctx, m.publisher, m.tick, ref, hazardlog.StatePayload{Active: burning, SourceID: fireID})
	}
}

func (m *Manager) applyGas(ctx context.Context, a Actor, st *actorState, dt float64) {
	ax, ay := a.Position()
	status := &st.status
	drain := 0.0
	inGas := false
	for _, g := range m.gases {
		gx, gy := g.CloudCenter()
		if !geometry.WithinCull(ax, ay, gx, gy, m.cullRadius+g.Radius) {
			continue
		}
		if distance(ax, ay, gx, gy) <= g.Radius {
			inGas = true
			drain = math.Max(drain, g.StaminaDrain)
		}
	}
	status.InGas = inGas

	limit := m.gasCfg.ExposureCap
	before := status.GasExposure
	if inGas {
		status.GasExposure = math.Min(before+dt, limit)
		if sa, ok := a.(StaminaActor); ok && drain > 0 {
			sa.DrainStamina(drain * dt)
		}
	} else {
		status.GasExposure = before - m.gasCfg.DecayFactor*dt
		if status.GasExposure < epsilon {
			status.GasExposure = 0
		}
	}
	status.GasIntensity = status.GasExposure / limit

	if (before == 0) != (status.GasExposure == 0) {
		hazardlog.GasIntensity(ctx, m.publisher, m.tick, actorRef(a), hazardlog.IntensityPayload{Intensity: status.GasIntensity})
	}
}

func (m *Manager) applyTrenches(ctx context.Context, a Actor, st *actorState, dt float64) {
	ax, ay := a.Position()
	status := &st.status
	if status.RevealTimer > 0 {
		status.RevealTimer -= dt
		if status.RevealTimer < epsilon {
			status.RevealTimer = 0
		}
	}
	status.InTrench = false
	for _, t := range m.trenches {
		if !geometry.WithinCull(ax, ay, t.X, t.Y, m.cullRadius+math.Hypot(t.HalfW, t.HalfH)) {
			continue
		}
		if t.Box().Contains(ax, ay) {
			status.InTrench = true
			break
		}
	}
	concealed := status.InTrench && status.RevealTimer == 0
	if concealed != status.Concealed {
		status.Concealed = concealed
		hazardlog.Concealment(ctx, m.publisher, m.tick, actorRef(a), hazardlog.StatePayload{Active: concealed})
	}
}

// burnObjects applies one period of fire damage to barrels, sandbags and
// non-player actors inside each pool. Players burn through their DOT entries.
func (m *Manager) burnObjects(ctx context.Context, period float64) {
	if len(m.fires) == 0 {
		return
	}
	actors := m.actors.Actors()
	for _, p := range m.fires {
		dmg := p.DPS * period
		if dmg <= 0 {
			continue
		}
		pool := logging.EntityRef{ID: p.ID, Kind: logging.EntityKindHazard}
		payload := hazardlog.FireDamagePayload{PoolID: p.ID, Damage: dmg}

		for _, id := range m.barrelIDs() {
			b, ok := m.barrel(id)
			if !ok || !geometry.WithinCull(p.X, p.Y, b.X, b.Y, m.cullRadius+p.Radius+b.VisualRadius) {
				continue
			}
			if distance(p.X, p.Y, b.X, b.Y) > p.Radius+b.VisualRadius {
				continue
			}
			hazardlog.FireDamage(ctx, m.publisher, m.tick, pool, barrelRef(b), payload)
			m.DamageBarrel(b.ID, dmg, b.X, b.Y)
		}
		for _, id := range m.sandbagIDs() {
			s, ok := m.sandbag(id)
			if !ok {
				continue
			}
			box := s.Box()
			if !geometry.WithinCull(p.X, p.Y, box.X, box.Y, m.cullRadius+p.Radius+box.BoundingRadius()) {
				continue
			}
			if !geometry.CircleIntersectsOrientedBox(p.X, p.Y, p.Radius, box) {
				continue
			}
			hazardlog.FireDamage(ctx, m.publisher, m.tick, pool, logging.EntityRef{ID: s.ID, Kind: logging.EntityKindSandbag}, payload)
			m.damageSandbag(s.ID, dmg, s.X, s.Y)
		}
		for _, a := range actors {
			if a == nil || !a.Alive() || a.ActorKind() == ActorPlayer {
				continue
			}
			ax, ay := a.Position()
			if !geometry.WithinCull(p.X, p.Y, ax, ay, m.cullRadius+p.Radius+a.Radius()) {
				continue
			}
			if distance(p.X, p.Y, ax, ay) > p.Radius+a.Radius() {
				continue
			}
			a.Damage(dmg, p.ID)
			hazardlog.FireDamage(ctx, m.publisher, m.tick, pool, actorRef(a), payload)
		}
	}
}
