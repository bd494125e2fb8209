package hazards

import (
	"testing"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging/sinks"
)

type fakeActor struct {
	id      string
	kind    ActorKind
	x, y    float64
	radius  float64
	health  float64
	armor   float64
	stamina float64
	hits    []float64
	sources []string
}

func newFakeActor(id string, kind ActorKind, x, y float64) *fakeActor {
	return &fakeActor{id: id, kind: kind, x: x, y: y, radius: 10, health: 1000, stamina: 100}
}

func (a *fakeActor) ActorID() string              { return a.id }
func (a *fakeActor) ActorKind() ActorKind         { return a.kind }
func (a *fakeActor) Position() (float64, float64) { return a.x, a.y }
func (a *fakeActor) Radius() float64              { return a.radius }
func (a *fakeActor) Alive() bool                  { return a.health > 0 }
func (a *fakeActor) Armor() float64               { return a.armor }
func (a *fakeActor) DrainStamina(amount float64)  { a.stamina -= amount }

func (a *fakeActor) Damage(amount float64, source string) {
	a.health -= amount
	a.hits = append(a.hits, amount)
	a.sources = append(a.sources, source)
}

func (a *fakeActor) totalDamage() float64 {
	total := 0.0
	for _, h := range a.hits {
		total += h
	}
	return total
}

type actorList []*fakeActor

func (l *actorList) Actors() []Actor {
	out := make([]Actor, 0, len(*l))
	for _, a := range *l {
		out = append(out, a)
	}
	return out
}

// quietConfig keeps every section present but places nothing.
func quietConfig() Config {
	cfg := DefaultConfig()
	cfg.Sandbags.Enabled = false
	cfg.Wire.Enabled = false
	cfg.Mud.Enabled = false
	cfg.Fire.Enabled = false
	cfg.Gas.Enabled = false
	cfg.Barrels.Enabled = false
	cfg.Trenches.Enabled = false
	return cfg
}

func emptyWorld(t *testing.T, seed string) *world.World {
	t.Helper()
	w, err := world.New(world.Config{Seed: seed}, world.Deps{})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return w
}

func newTestManager(t *testing.T, cfg Config, actors ...*fakeActor) (*Manager, *sinks.Memory, *actorList) {
	t.Helper()
	list := actorList(actors)
	sink := sinks.NewMemory()
	m, err := New(cfg, emptyWorld(t, "hazards-test"), Deps{Publisher: sink, Actors: &list})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m, sink, &list
}

func tickFor(m *Manager, dt float64, n int) {
	for i := 0; i < n; i++ {
		m.Tick(dt)
	}
}

func eventsFor(events []logging.Event, id string) []logging.Event {
	var out []logging.Event
	for _, ev := range events {
		if ev.Actor.ID == id {
			out = append(out, ev)
		}
	}
	return out
}
