package hazards

import (
	"math"
	"testing"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards/wire"
	hazardlog "github.com/spider2544-git/TopDownShooter12-sub002/logging/hazards"
)

func TestGasExposureRisesAndDecays(t *testing.T) {
	actor := newFakeActor("player-1", ActorPlayer, 500, 460)
	m, sink, _ := newTestManager(t, quietConfig(), actor)
	m.AddGasCanister(500, 500)

	tickFor(m, 0.1, 31)
	st, ok := m.Status(actor.id)
	if !ok || !st.InGas {
		t.Fatalf("expected actor in the cloud, got %+v", st)
	}
	if st.GasIntensity != 1 {
		t.Fatalf("expected full intensity after 3 units, got %f", st.GasIntensity)
	}
	if actor.stamina >= 100 {
		t.Fatalf("expected stamina drain, got %f", actor.stamina)
	}

	actor.x, actor.y = 900, 900
	tickFor(m, 0.1, 21)
	st, _ = m.Status(actor.id)
	if st.GasExposure != 0 || st.GasIntensity != 0 {
		t.Fatalf("expected exposure cleared within 2 units, got %+v", st)
	}

	events := sink.OfType(hazardlog.EventGasIntensity)
	if len(events) != 2 {
		t.Fatalf("expected rise and clear events only, got %d", len(events))
	}
	if p := events[1].Payload.(hazardlog.IntensityPayload); p.Intensity != 0 {
		t.Fatalf("expected clearing event at zero, got %f", p.Intensity)
	}
}

func TestGasCloudIsOffsetFromCanister(t *testing.T) {
	actor := newFakeActor("player-1", ActorPlayer, 500, 560)
	m, _, _ := newTestManager(t, quietConfig(), actor)
	m.AddGasCanister(500, 500)
	m.Tick(0.1)
	if st, _ := m.Status(actor.id); st.InGas {
		t.Fatalf("actor below the canister must be outside the raised cloud")
	}
}

func TestFireDotRefreshesInsteadOfStacking(t *testing.T) {
	actor := newFakeActor("player-1", ActorPlayer, 500, 500)
	m, sink, _ := newTestManager(t, quietConfig(), actor)
	pool := m.AddFirePool(500, 500, 30)

	tickFor(m, 0.1, 10)
	st, _ := m.Status(actor.id)
	if len(st.Dots) != 1 || st.Dots[0].Key != fireDotKey(pool) {
		t.Fatalf("expected a single fire DOT entry, got %+v", st.Dots)
	}
	if !st.Burning {
		t.Fatalf("expected actor burning")
	}
	// 10 DPS for 1 unit, ticking every 0.5.
	if math.Abs(actor.totalDamage()-10) > 1e-9 || len(actor.hits) != 2 {
		t.Fatalf("expected two ticks totalling 10, got %v", actor.hits)
	}

	actor.x = 900
	tickFor(m, 0.1, 35)
	st, _ = m.Status(actor.id)
	if st.Burning || len(st.Dots) != 0 {
		t.Fatalf("expected the DOT to expire after leaving, got %+v", st)
	}

	burn := sink.OfType(hazardlog.EventBurnState)
	if len(burn) != 2 {
		t.Fatalf("expected ignite and extinguish events, got %d", len(burn))
	}
	if !burn[0].Payload.(hazardlog.StatePayload).Active || burn[1].Payload.(hazardlog.StatePayload).Active {
		t.Fatalf("unexpected burn event order %+v", burn)
	}
}

func TestFireBurnsObjectsAndNonPlayers(t *testing.T) {
	enemy := newFakeActor("enemy-1", ActorEnemy, 500, 500)
	m, sink, _ := newTestManager(t, quietConfig(), enemy)
	m.AddFirePool(500, 500, 30)
	barrel := m.AddBarrel(520, 500)
	sandbag := m.AddSandbag(480, 500, 20, 20, 0)

	tickFor(m, 0.1, 5)
	// 10 DPS over one 0.5 period.
	if math.Abs(enemy.totalDamage()-5) > 1e-9 {
		t.Fatalf("enemy fire damage %f want 5", enemy.totalDamage())
	}
	if st, _ := m.Status(enemy.id); len(st.Dots) != 0 {
		t.Fatalf("non-players must not carry fire DOTs")
	}
	b, _ := m.Barrel(barrel)
	if b.Health != b.HealthMax-5 {
		t.Fatalf("barrel health %f", b.Health)
	}
	s, _ := m.Sandbag(sandbag)
	if s.Health != s.HealthMax-5 {
		t.Fatalf("sandbag health %f", s.Health)
	}
	if got := len(sink.OfType(hazardlog.EventFireDamage)); got != 3 {
		t.Fatalf("expected three fire_damage events, got %d", got)
	}
}

func TestMudAndWireSlowActors(t *testing.T) {
	actor := newFakeActor("troop-1", ActorTroop, 500, 500)
	m, sink, _ := newTestManager(t, quietConfig(), actor)
	m.AddMudPool(500, 500, 50)

	m.Tick(0.1)
	if got := m.SpeedMultiplier(actor.id); got != 0.3 {
		t.Fatalf("expected mud speed 0.3, got %f", got)
	}
	actor.x = 1000
	m.Tick(0.1)
	if got := m.SpeedMultiplier(actor.id); got != 1 {
		t.Fatalf("expected full speed outside mud, got %f", got)
	}
	if got := len(sink.OfType(hazardlog.EventMudState)); got != 2 {
		t.Fatalf("expected enter and leave events, got %d", got)
	}

	id, ok := m.AddWire(wire.VariantTangled, -500, -500)
	if !ok {
		t.Fatalf("AddWire failed")
	}
	var pattern wire.Pattern
	for _, w := range m.Serialize().Wires {
		if w.ID == id {
			pattern = w.Pattern
		}
	}
	actor.x, actor.y = pattern.Points[0].X, pattern.Points[0].Y
	m.Tick(0.1)
	st, _ := m.Status(actor.id)
	if !st.InWire || st.SpeedMultiplier > 0.3 {
		t.Fatalf("expected wire slow, got %+v", st)
	}
	if len(st.Dots) != 1 || st.Dots[0].Key != wireDotKey {
		t.Fatalf("expected wire DOT, got %+v", st.Dots)
	}
	m.Tick(0.1)
	if st, _ = m.Status(actor.id); len(st.Dots) != 1 {
		t.Fatalf("wire DOT must refresh, not stack: %+v", st.Dots)
	}
}

func TestTrenchConcealmentAndNoise(t *testing.T) {
	actor := newFakeActor("player-1", ActorPlayer, 500, 500)
	m, sink, _ := newTestManager(t, quietConfig(), actor)
	m.AddTrench(500, 500, 90, 18)

	m.Tick(0.1)
	if st, _ := m.Status(actor.id); !st.Concealed {
		t.Fatalf("expected quiet actor concealed")
	}

	m.NotifyNoise(actor.id)
	m.Tick(0.1)
	if st, _ := m.Status(actor.id); st.Concealed || st.RevealTimer <= 0 {
		t.Fatalf("expected noise to reveal, got %+v", st)
	}

	tickFor(m, 0.1, 15)
	if st, _ := m.Status(actor.id); !st.Concealed {
		t.Fatalf("expected concealment after the reveal timer, got %+v", st)
	}

	actor.y = 600
	m.Tick(0.1)
	if st, _ := m.Status(actor.id); st.Concealed || st.InTrench {
		t.Fatalf("leaving the trench must clear concealment")
	}
	if got := len(sink.OfType(hazardlog.EventConcealment)); got != 4 {
		t.Fatalf("expected four concealment changes, got %d", got)
	}
}

func TestCullsReachLargeHazardsAtTheirEdges(t *testing.T) {
	cfg := quietConfig()
	cfg.CullRadius = 5
	edge := newFakeActor("player-1", ActorPlayer, 780, 500)
	enemy := newFakeActor("enemy-1", ActorEnemy, 1500, 1110)
	m, _, _ := newTestManager(t, cfg, edge, enemy)
	m.AddTrench(500, 500, 300, 20)
	m.AddFirePool(1500, 1000, 100)
	barrel := m.AddBarrel(1500, 895)
	sandbag := m.AddSandbag(1690, 1000, 200, 20, 0)
	far := m.AddBarrel(1500, 700)

	tickFor(m, 0.1, 5)
	if st, _ := m.Status(edge.id); !st.InTrench || !st.Concealed {
		t.Fatalf("expected actor near the trench end to be concealed, got %+v", st)
	}
	if enemy.totalDamage() <= 0 {
		t.Fatalf("expected enemy at the pool edge to burn")
	}
	if b, _ := m.Barrel(barrel); b.Health >= b.HealthMax {
		t.Fatalf("expected barrel at the pool edge to burn")
	}
	if s, _ := m.Sandbag(sandbag); s.Health >= s.HealthMax {
		t.Fatalf("expected long sandbag reaching into the pool to burn")
	}
	if b, _ := m.Barrel(far); b.Health != b.HealthMax {
		t.Fatalf("expected distant barrel untouched, health %f", b.Health)
	}
}

func TestStatusesArePrunedForMissingActors(t *testing.T) {
	actor := newFakeActor("enemy-1", ActorEnemy, 500, 500)
	m, _, list := newTestManager(t, quietConfig(), actor)
	m.Tick(0.1)
	if _, ok := m.Status(actor.id); !ok {
		t.Fatalf("expected status for a live actor")
	}
	*list = nil
	m.Tick(0.1)
	if _, ok := m.Status(actor.id); ok {
		t.Fatalf("expected status dropped once the actor is gone")
	}
	if got := m.SpeedMultiplier("nobody"); got != 1 {
		t.Fatalf("unknown actors move at full speed, got %f", got)
	}
}

func TestNilManagerIsSafe(t *testing.T) {
	var m *Manager
	m.Tick(0.1)
	if m.DamageFromCircle(0, 0, 10, 10) != 0 || m.DamageBarrel("x", 1, 0, 0) {
		t.Fatalf("nil manager must ignore damage")
	}
	if snap := m.Serialize(); snap.Tick != 0 {
		t.Fatalf("nil manager snapshot must be empty")
	}
}
