package hazards

import (
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards/wire"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
)

// SpawnReport summarizes one placement run.
type SpawnReport struct {
	Placed   map[Class]int
	Groups   map[Class]int
	Attempts int
	// Clusters lists every placed group with its member IDs.
	Clusters []PlacedCluster
}

// Spawn places every enabled class in order. Later classes see earlier
// placements. The manager drops its cluster records afterwards; the report
// keeps them.
func (m *Manager) Spawn() (SpawnReport, error) {
	report := SpawnReport{Placed: make(map[Class]int), Groups: make(map[Class]int)}
	if m == nil {
		return report, ErrNoWorld
	}
	if m.spawned {
		return report, ErrAlreadySpawned
	}
	m.spawned = true

	for _, class := range Classes {
		if !m.enabled[class] {
			continue
		}
		res := m.place(m.planFor(class))
		report.Placed[class] = res.placed
		report.Groups[class] = res.groups
		report.Attempts += res.attempts
	}
	report.Clusters = m.clusters
	m.clusters = nil
	m.logger.Printf("hazards: spawned sandbags=%d wire=%d mud=%d fire=%d gas=%d barrels=%d trenches=%d",
		len(m.sandbags), len(m.wires), len(m.muds), len(m.fires), len(m.gases), len(m.barrels), len(m.trenches))
	return report, nil
}

func (m *Manager) planFor(class Class) plan {
	p := plan{class: class, layout: m.layouts[class]}
	switch class {
	case ClassSandbag:
		cfg := m.sandbagCfg
		p.placement = cfg.Placement
		p.memberRadius = math.Hypot(cfg.Width/2, cfg.Height/2)
		p.commit = func(members []geometry.Vec2, rng *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				w, h, rot := cfg.Width, cfg.Height, 0.0
				switch {
				case rng.Chance(cfg.DiagonalChance):
					rot = math.Pi / 4
					if rng.Chance(0.5) {
						rot = -math.Pi / 4
					}
				case rng.Chance(0.5):
					w, h = h, w
				}
				ids = append(ids, m.AddSandbag(pos.X, pos.Y, w, h, rot))
			}
			return ids
		}
	case ClassWire:
		p.placement = m.wireCfg.Placement
		p.memberRadius = m.maxWireExtent()
		p.commit = func(members []geometry.Vec2, rng *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				v := m.variants[rng.Intn(len(m.variants))]
				id, ok := m.addWire(v, pos.X, pos.Y, rng)
				if ok {
					ids = append(ids, id)
				}
			}
			return ids
		}
	case ClassMud:
		cfg := m.mudCfg
		p.placement = cfg.Placement
		p.memberRadius = cfg.RadiusMax
		p.commit = func(members []geometry.Vec2, rng *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				ids = append(ids, m.AddMudPool(pos.X, pos.Y, rng.Range(cfg.RadiusMin, cfg.RadiusMax)))
			}
			return ids
		}
	case ClassFire:
		cfg := m.fireCfg
		p.placement = cfg.Placement
		p.memberRadius = cfg.RadiusMax
		p.commit = func(members []geometry.Vec2, rng *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				ids = append(ids, m.AddFirePool(pos.X, pos.Y, rng.Range(cfg.RadiusMin, cfg.RadiusMax)))
			}
			return ids
		}
	case ClassGas:
		p.placement = m.gasCfg.Placement
		p.memberRadius = m.gasCfg.Radius
		p.commit = func(members []geometry.Vec2, _ *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				ids = append(ids, m.AddGasCanister(pos.X, pos.Y))
			}
			return ids
		}
	case ClassBarrel:
		p.placement = m.barrelCfg.Placement
		p.memberRadius = m.barrelCfg.VisualRadius
		p.commit = func(members []geometry.Vec2, _ *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				ids = append(ids, m.AddBarrel(pos.X, pos.Y))
			}
			return ids
		}
	case ClassTrench:
		cfg := m.trenchCfg
		p.placement = cfg.Placement
		p.memberRadius = math.Hypot(cfg.HalfW, cfg.HalfH)
		p.commit = func(members []geometry.Vec2, _ *world.LCG) []string {
			ids := make([]string, 0, len(members))
			for _, pos := range members {
				ids = append(ids, m.AddTrench(pos.X, pos.Y, cfg.HalfW, cfg.HalfH))
			}
			return ids
		}
	case classCount:
	}
	return p
}

// maxWireExtent is the largest bounding radius among the enabled variants,
// measured on a pattern generated at the origin.
func (m *Manager) maxWireExtent() float64 {
	sampler := world.NewLCG(1)
	r := 0.0
	for _, v := range m.variants {
		if pattern, ok := wire.Generate(v, 0, 0, sampler, m.wireCfg.Shapes); ok && pattern.Extent() > r {
			r = pattern.Extent()
		}
	}
	return r
}

// AddSandbag registers a sandbag and its collider.
func (m *Manager) AddSandbag(x, y, width, height, rotation float64) string {
	s := &Sandbag{
		ID:        m.newID(ClassSandbag),
		X:         x,
		Y:         y,
		Width:     width,
		Height:    height,
		Rotation:  rotation,
		Health:    m.sandbagCfg.Health,
		HealthMax: m.sandbagCfg.Health,
	}
	s.Collider = m.world.AddCollider(s.Box())
	m.sandbags = append(m.sandbags, s)
	return s.ID
}

// AddWire places a wire obstacle of the given variant.
func (m *Manager) AddWire(v wire.Variant, x, y float64) (string, bool) {
	return m.addWire(v, x, y, m.rng)
}

func (m *Manager) addWire(v wire.Variant, x, y float64, rng *world.LCG) (string, bool) {
	pattern, ok := wire.Generate(v, x, y, rng, m.wireCfg.Shapes)
	if !ok {
		m.logger.Printf("warn: hazards: cannot generate wire variant %s", v)
		return "", false
	}
	w := &BarbedWire{ID: m.newID(ClassWire), Variant: v, X: x, Y: y, Pattern: pattern}
	m.wires = append(m.wires, w)
	return w.ID, true
}

// AddMudPool places a mud pool.
func (m *Manager) AddMudPool(x, y, radius float64) string {
	p := &MudPool{ID: m.newID(ClassMud), X: x, Y: y, Radius: radius, SpeedMultiplier: m.mudCfg.SpeedMultiplier}
	m.muds = append(m.muds, p)
	return p.ID
}

// AddFirePool places a fire pool.
func (m *Manager) AddFirePool(x, y, radius float64) string {
	cfg := m.fireCfg
	p := &FirePool{
		ID:          m.newID(ClassFire),
		X:           x,
		Y:           y,
		Radius:      radius,
		DPS:         cfg.DPS,
		DotDuration: cfg.DotDuration,
		DotInterval: cfg.DotInterval,
	}
	m.fires = append(m.fires, p)
	return p.ID
}

// AddGasCanister places a gas canister.
func (m *Manager) AddGasCanister(x, y float64) string {
	cfg := m.gasCfg
	g := &GasCanister{
		ID:              m.newID(ClassGas),
		X:               x,
		Y:               y,
		Radius:          cfg.Radius,
		CloudOffset:     cfg.CloudOffset,
		StaminaDrain:    cfg.StaminaDrain,
		VisionReduction: cfg.VisionReduction,
	}
	m.gases = append(m.gases, g)
	return g.ID
}

// AddBarrel places an exploding barrel at full health.
func (m *Manager) AddBarrel(x, y float64) string {
	cfg := m.barrelCfg
	b := &ExplodingBarrel{
		ID:              m.newID(ClassBarrel),
		X:               x,
		Y:               y,
		Health:          cfg.Health,
		HealthMax:       cfg.Health,
		ExplosionRadius: cfg.ExplosionRadius,
		ExplosionDamage: cfg.ExplosionDamage,
		VisualRadius:    cfg.VisualRadius,
	}
	m.barrels = append(m.barrels, b)
	return b.ID
}

// AddTrench places a trench.
func (m *Manager) AddTrench(x, y, halfW, halfH float64) string {
	t := &Trench{ID: m.newID(ClassTrench), X: x, Y: y, HalfW: halfW, HalfH: halfH}
	m.trenches = append(m.trenches, t)
	return t.ID
}
