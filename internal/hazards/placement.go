package hazards

import (
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
)

// plan instantiates the placement template for one class.
type plan struct {
	class        Class
	placement    Placement
	layout       Layout
	memberRadius float64
	// commit creates the members of an accepted group and returns their ids.
	commit func(members []geometry.Vec2, rng *world.LCG) []string
}

// groupRadius is the distance from the group center to the far edge of its
// outermost member.
func (p plan) groupRadius(offsets []geometry.Vec2) float64 {
	r := 0.0
	for _, o := range offsets {
		if d := math.Hypot(o.X, o.Y); d > r {
			r = d
		}
	}
	return r + p.memberRadius
}

type placementResult struct {
	placed   int
	groups   int
	attempts int
}

// place runs rejection sampling for every configured group. A group that
// exhausts its attempt budget is skipped; under-population is not an error.
func (m *Manager) place(p plan) placementResult {
	var res placementResult
	rng := m.world.Subsystem("hazards." + p.class.String())
	offsets := p.layout.offsets(p.placement.GroupSize, p.placement.Spacing)
	groupRadius := p.groupRadius(offsets)

	for g := 0; g < p.placement.Groups; g++ {
		for attempt := 0; attempt < p.placement.AttemptsPerGroup; attempt++ {
			res.attempts++
			cx := rng.Range(m.region.MinX(), m.region.MaxX())
			cy := rng.Range(m.region.MinY(), m.region.MaxY())
			if !m.centerValid(p, cx, cy, groupRadius) {
				continue
			}
			members, ok := m.members(p, cx, cy, offsets)
			if !ok {
				continue
			}
			ids := p.commit(members, rng)
			m.clusters = append(m.clusters, PlacedCluster{Class: p.class, X: cx, Y: cy, Members: ids})
			res.placed += len(ids)
			res.groups++
			break
		}
	}

	m.metrics.Add("hazards.placement.attempts", uint64(res.attempts))
	m.metrics.Add("hazards.placed."+p.class.String(), uint64(res.placed))
	if res.groups < p.placement.Groups {
		m.logger.Printf("hazards: placed %d/%d %s groups (%d attempts)", res.groups, p.placement.Groups, p.class, res.attempts)
	}
	return res
}

// centerValid checks a group center in order: bounds, safe zones, clear
// zones, world geometry, same-class cluster distance, class clearance.
func (m *Manager) centerValid(p plan, x, y, radius float64) bool {
	if !m.spotValid(x, y, radius) {
		return false
	}
	for _, c := range m.clusters {
		if c.Class == p.class && distance(x, y, c.X, c.Y) < p.placement.MinClusterDistance {
			return false
		}
	}
	return m.clearOf(p.class, x, y, p.placement.Clearance+radius)
}

// members lays out and re-validates every member at the looser member
// clearance. Any failure discards the whole group.
func (m *Manager) members(p plan, cx, cy float64, offsets []geometry.Vec2) ([]geometry.Vec2, bool) {
	out := make([]geometry.Vec2, 0, len(offsets))
	for _, o := range offsets {
		x, y := cx+o.X, cy+o.Y
		if !m.spotValid(x, y, p.memberRadius) {
			return nil, false
		}
		if !m.clearOf(p.class, x, y, p.placement.MemberClearance) {
			return nil, false
		}
		out = append(out, geometry.Vec2{X: x, Y: y})
	}
	return out, true
}

// spotValid runs the checks shared by centers and members.
func (m *Manager) spotValid(x, y, radius float64) bool {
	if !m.world.IsInsideBounds(x, y, radius) {
		return false
	}
	if !m.region.Contains(x, y) {
		return false
	}
	for _, zone := range m.safeZones {
		if distance(x, y, zone.X, zone.Y) < zone.Radius+radius {
			return false
		}
	}
	for _, zone := range m.clearZones {
		if geometry.CircleIntersectsAABB(x, y, radius, zone) {
			return false
		}
	}
	return !m.world.CircleHitsAny(x, y, radius)
}

// clearOf reports whether (x, y) keeps at least min distance from every
// object of each class that class must clear.
func (m *Manager) clearOf(class Class, x, y, min float64) bool {
	if min <= 0 {
		return true
	}
	for _, other := range clears(class) {
		for _, pos := range m.positions(other) {
			if distance(x, y, pos.X, pos.Y) < min {
				return false
			}
		}
	}
	return true
}

// positions lists the centers of every live object of a class.
func (m *Manager) positions(class Class) []geometry.Vec2 {
	var out []geometry.Vec2
	switch class {
	case ClassSandbag:
		for _, s := range m.sandbags {
			out = append(out, geometry.Vec2{X: s.X, Y: s.Y})
		}
	case ClassWire:
		for _, w := range m.wires {
			out = append(out, geometry.Vec2{X: w.X, Y: w.Y})
		}
	case ClassMud:
		for _, p := range m.muds {
			out = append(out, geometry.Vec2{X: p.X, Y: p.Y})
		}
	case ClassFire:
		for _, p := range m.fires {
			out = append(out, geometry.Vec2{X: p.X, Y: p.Y})
		}
	case ClassGas:
		for _, g := range m.gases {
			out = append(out, geometry.Vec2{X: g.X, Y: g.Y})
		}
	case ClassBarrel:
		for _, b := range m.barrels {
			out = append(out, geometry.Vec2{X: b.X, Y: b.Y})
		}
	case ClassTrench:
		for _, t := range m.trenches {
			out = append(out, geometry.Vec2{X: t.X, Y: t.Y})
		}
	case classCount:
	}
	return out
}
