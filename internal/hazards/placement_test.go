package hazards

import (
	"errors"
	"reflect"
	"testing"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
)

func spawnedManager(t *testing.T, seed string) *Manager {
	t.Helper()
	m, _ := spawnWithReport(t, seed)
	return m
}

func spawnWithReport(t *testing.T, seed string) (*Manager, SpawnReport) {
	t.Helper()
	w, err := world.New(world.DefaultConfig(), world.Deps{RNG: func(_, label string) *world.LCG {
		return world.NewDeterministicRNG(seed, label)
	}})
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	m, err := New(DefaultConfig(), w, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	report, err := m.Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	return m, report
}

type placedObject struct {
	id  string
	pos geometry.Vec2
}

func placedObjects(m *Manager, class Class) []placedObject {
	var out []placedObject
	add := func(id string, x, y float64) {
		out = append(out, placedObject{id: id, pos: geometry.Vec2{X: x, Y: y}})
	}
	switch class {
	case ClassSandbag:
		for _, s := range m.sandbags {
			add(s.ID, s.X, s.Y)
		}
	case ClassWire:
		for _, w := range m.wires {
			add(w.ID, w.X, w.Y)
		}
	case ClassMud:
		for _, p := range m.muds {
			add(p.ID, p.X, p.Y)
		}
	case ClassFire:
		for _, p := range m.fires {
			add(p.ID, p.X, p.Y)
		}
	case ClassGas:
		for _, g := range m.gases {
			add(g.ID, g.X, g.Y)
		}
	case ClassBarrel:
		for _, b := range m.barrels {
			add(b.ID, b.X, b.Y)
		}
	case ClassTrench:
		for _, tr := range m.trenches {
			add(tr.ID, tr.X, tr.Y)
		}
	}
	return out
}

func TestSpawnIsDeterministic(t *testing.T) {
	a := spawnedManager(t, "alpha").Serialize()
	b := spawnedManager(t, "alpha").Serialize()
	if !reflect.DeepEqual(a, b) {
		t.Fatalf("expected identical placement for identical seeds")
	}
	c := spawnedManager(t, "beta").Serialize()
	if reflect.DeepEqual(a.Sandbags, c.Sandbags) && len(a.Sandbags) > 0 {
		t.Fatalf("expected different seeds to diverge")
	}
}

func TestSpawnTwiceFails(t *testing.T) {
	m := spawnedManager(t, "alpha")
	if _, err := m.Spawn(); !errors.Is(err, ErrAlreadySpawned) {
		t.Fatalf("expected ErrAlreadySpawned, got %v", err)
	}
}

func TestSpawnRespectsClearanceAndSafeZones(t *testing.T) {
	m, report := spawnWithReport(t, "clearance")
	cfg := DefaultConfig()
	memberClearance := map[Class]float64{}
	for class, p := range map[Class]Placement{
		ClassWire:    cfg.Wire.Placement,
		ClassMud:     cfg.Mud.Placement,
		ClassFire:    cfg.Fire.Placement,
		ClassGas:     cfg.Gas.Placement,
		ClassBarrel:  cfg.Barrels.Placement,
		ClassTrench:  cfg.Trenches.Placement,
		ClassSandbag: cfg.Sandbags.Placement,
	} {
		p.normalize()
		memberClearance[class] = p.MemberClearance
	}

	group := map[string]int{}
	for i, c := range report.Clusters {
		for _, id := range c.Members {
			group[id] = i
		}
	}
	if len(group) == 0 {
		t.Fatalf("expected the report to list cluster members")
	}

	total := 0
	crossBarrelPairs := 0
	for _, class := range Classes {
		objects := placedObjects(m, class)
		total += len(objects)
		for _, obj := range objects {
			for _, zone := range cfg.SafeZones {
				if distance(obj.pos.X, obj.pos.Y, zone.X, zone.Y) < zone.Radius {
					t.Fatalf("%s at %+v inside safe zone", class, obj.pos)
				}
			}
			for _, other := range clears(class) {
				for _, o := range placedObjects(m, other) {
					if o.id == obj.id {
						continue
					}
					if gi, ok := group[obj.id]; ok && other == class && group[o.id] == gi {
						continue
					}
					if other == ClassBarrel && class == ClassBarrel {
						crossBarrelPairs++
					}
					if d := distance(obj.pos.X, obj.pos.Y, o.pos.X, o.pos.Y); d < memberClearance[class]-1e-9 {
						t.Fatalf("%s %s at %+v is %.1f from %s %s at %+v, want >= %.1f", class, obj.id, obj.pos, d, other, o.id, o.pos, memberClearance[class])
					}
				}
			}
		}
	}
	if total == 0 {
		t.Fatalf("expected default configuration to place something")
	}
	if report.Groups[ClassBarrel] > 1 && crossBarrelPairs == 0 {
		t.Fatalf("expected barrel pairs across groups to be checked")
	}
}

func TestSpawnStaysInsideBoundsAndOffObstacles(t *testing.T) {
	m := spawnedManager(t, "bounds")
	w := m.World()
	for _, s := range m.Serialize().Sandbags {
		if !w.IsInsideBounds(s.X, s.Y, 0) {
			t.Fatalf("sandbag %s outside bounds", s.ID)
		}
		for _, o := range w.Obstacles() {
			if geometry.CircleIntersectsAABB(s.X, s.Y, 1, o.Box()) {
				t.Fatalf("sandbag %s overlaps obstacle %s", s.ID, o.ID)
			}
		}
		if _, ok := w.Collider(s.Collider); !ok {
			t.Fatalf("sandbag %s collider does not resolve", s.ID)
		}
	}
}

func TestMissingSectionDisablesClass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Gas = nil
	m, _, _ := newTestManager(t, cfg)
	if m.Enabled(ClassGas) {
		t.Fatalf("expected gas disabled without a section")
	}
	if !m.Enabled(ClassFire) {
		t.Fatalf("expected fire to stay enabled")
	}
	if _, err := m.Spawn(); err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if got := len(m.Serialize().Gases); got != 0 {
		t.Fatalf("expected no gas canisters, got %d", got)
	}
}

func TestUnknownWireVariantsAreDropped(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Wire.Variants = []string{"bogus"}
	m, _, _ := newTestManager(t, cfg)
	if m.Enabled(ClassWire) {
		t.Fatalf("expected wire disabled when no variant parses")
	}

	cfg = DefaultConfig()
	cfg.Wire.Variants = []string{"bogus", "spiral"}
	m, _, _ = newTestManager(t, cfg)
	if !m.Enabled(ClassWire) {
		t.Fatalf("expected wire enabled with one usable variant")
	}
	if len(m.variants) != 1 {
		t.Fatalf("expected one variant, got %v", m.variants)
	}
}

func TestInvalidLayoutDisablesClass(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Mud.Layout = "hexagonal"
	m, _, _ := newTestManager(t, cfg)
	if m.Enabled(ClassMud) {
		t.Fatalf("expected invalid layout to disable mud")
	}
}

func TestNewRequiresWorld(t *testing.T) {
	if _, err := New(DefaultConfig(), nil, Deps{}); !errors.Is(err, ErrNoWorld) {
		t.Fatalf("expected ErrNoWorld, got %v", err)
	}
}

func TestPlacementAcceptsUnderPopulation(t *testing.T) {
	cfg := quietConfig()
	cfg.Barrels.Enabled = true
	cfg.Barrels.Groups = 50
	cfg.Barrels.AttemptsPerGroup = 5
	cfg.Barrels.MinClusterDistance = 2000
	m, _, _ := newTestManager(t, cfg)
	report, err := m.Spawn()
	if err != nil {
		t.Fatalf("Spawn: %v", err)
	}
	if report.Groups[ClassBarrel] >= 50 {
		t.Fatalf("expected cluster distance to limit groups, got %d", report.Groups[ClassBarrel])
	}
	if report.Attempts > 50*5 {
		t.Fatalf("attempts exceeded budget: %d", report.Attempts)
	}
}
