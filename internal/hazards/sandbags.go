package hazards

import (
	"context"
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
	hazardlog "github.com/spider2544-git/TopDownShooter12-sub002/logging/hazards"
)

// TargetKind says what a damage query hit.
type TargetKind uint8

const (
	TargetNone TargetKind = iota
	TargetSandbag
	TargetBarrel
)

// Hit describes the object a line query struck first.
type Hit struct {
	Kind TargetKind
	ID   string
	X    float64
	Y    float64
}

// DamageFromLine damages the first sandbag or barrel along the segment, as a
// projectile would. The returned hit carries the approximate impact point.
func (m *Manager) DamageFromLine(x1, y1, x2, y2, damage float64) (Hit, bool) {
	if m == nil {
		return Hit{}, false
	}
	length := math.Hypot(x2-x1, y2-y1)
	best := math.Inf(1)
	var hit Hit
	for _, s := range m.sandbags {
		box := s.Box()
		if !geometry.WithinCull(x1, y1, box.X, box.Y, length+box.BoundingRadius()) {
			continue
		}
		p, ok := geometry.LineOrientedBoxHitPoint(x1, y1, x2, y2, box)
		if !ok {
			continue
		}
		if d := math.Hypot(p.X-x1, p.Y-y1); d < best {
			best = d
			hit = Hit{Kind: TargetSandbag, ID: s.ID, X: p.X, Y: p.Y}
		}
	}
	for _, b := range m.barrels {
		p, ok := geometry.SegmentCircleEntry(x1, y1, x2, y2, b.X, b.Y, b.VisualRadius)
		if !ok {
			continue
		}
		if d := math.Hypot(p.X-x1, p.Y-y1); d < best {
			best = d
			hit = Hit{Kind: TargetBarrel, ID: b.ID, X: p.X, Y: p.Y}
		}
	}
	switch hit.Kind {
	case TargetSandbag:
		m.damageSandbag(hit.ID, damage, hit.X, hit.Y)
	case TargetBarrel:
		m.DamageBarrel(hit.ID, damage, hit.X, hit.Y)
	case TargetNone:
		return Hit{}, false
	}
	return hit, true
}

// DamageFromCircle damages every sandbag and barrel touching the circle and
// reports how many were hit.
func (m *Manager) DamageFromCircle(cx, cy, r, damage float64) int {
	if m == nil {
		return 0
	}
	hits := m.damageSandbagsInCircle(cx, cy, r, damage)
	for _, id := range m.barrelIDs() {
		b, ok := m.barrel(id)
		if !ok {
			continue
		}
		if distance(cx, cy, b.X, b.Y) <= r+b.VisualRadius {
			m.DamageBarrel(b.ID, damage, b.X, b.Y)
			hits++
		}
	}
	return hits
}

// DamageFromCone damages every sandbag whose closest point lies inside the
// cone and every barrel whose body reaches into it, as a melee arc would.
func (m *Manager) DamageFromCone(ox, oy, angle, maxRange, halfAngle, damage float64) int {
	if m == nil {
		return 0
	}
	hits := 0
	for _, id := range m.sandbagIDs() {
		s, ok := m.sandbag(id)
		if !ok {
			continue
		}
		box := s.Box()
		if !geometry.WithinCull(ox, oy, box.X, box.Y, maxRange+box.BoundingRadius()) {
			continue
		}
		p := geometry.ClosestPointOnOrientedBox(ox, oy, box)
		if !geometry.PointInCone(p.X, p.Y, ox, oy, angle, maxRange, halfAngle, 0) {
			continue
		}
		m.damageSandbag(s.ID, damage, p.X, p.Y)
		hits++
	}
	for _, id := range m.barrelIDs() {
		b, ok := m.barrel(id)
		if !ok {
			continue
		}
		if geometry.PointInCone(b.X, b.Y, ox, oy, angle, maxRange, halfAngle, b.VisualRadius) {
			m.DamageBarrel(b.ID, damage, b.X, b.Y)
			hits++
		}
	}
	return hits
}

func (m *Manager) damageSandbagsInCircle(cx, cy, r, damage float64) int {
	hits := 0
	for _, id := range m.sandbagIDs() {
		s, ok := m.sandbag(id)
		if !ok {
			continue
		}
		box := s.Box()
		if !geometry.WithinCull(cx, cy, box.X, box.Y, r+box.BoundingRadius()) {
			continue
		}
		if !geometry.CircleIntersectsOrientedBox(cx, cy, r, box) {
			continue
		}
		p := geometry.ClosestPointOnOrientedBox(cx, cy, box)
		m.damageSandbag(s.ID, damage, p.X, p.Y)
		hits++
	}
	return hits
}

// damageSandbag applies damage and removes the sandbag and its collider at
// zero health. Unknown ids are ignored.
func (m *Manager) damageSandbag(id string, damage, hitX, hitY float64) bool {
	idx := m.sandbagIndex(id)
	if idx < 0 || damage <= 0 {
		return false
	}
	s := m.sandbags[idx]
	s.Health -= damage
	ctx := context.Background()
	ref := logging.EntityRef{ID: s.ID, Kind: logging.EntityKindSandbag}
	hazardlog.SandbagHit(ctx, m.publisher, m.tick, ref, hazardlog.HitPayload{
		Damage:    damage,
		Health:    math.Max(s.Health, 0),
		HealthMax: s.HealthMax,
		HitX:      hitX,
		HitY:      hitY,
	})
	if s.Health > 0 {
		return true
	}

	if !m.world.RemoveCollider(s.Collider) {
		m.logger.Printf("error: hazards: sandbag %s collider %+v does not resolve", s.ID, s.Collider)
	}
	m.sandbags = append(m.sandbags[:idx], m.sandbags[idx+1:]...)
	m.metrics.Add("hazards.sandbags.destroyed", 1)

	box := s.Box()
	corners := box.Corners()
	payload := hazardlog.SandbagRemovedPayload{
		X:        s.X,
		Y:        s.Y,
		Width:    s.Width,
		Height:   s.Height,
		Rotation: s.Rotation,
	}
	for i, c := range corners {
		payload.Corners[i] = hazardlog.Point{X: c.X, Y: c.Y}
	}
	hazardlog.SandbagRemoved(ctx, m.publisher, m.tick, ref, payload)
	return true
}

func (m *Manager) sandbagIndex(id string) int {
	for i, s := range m.sandbags {
		if s.ID == id {
			return i
		}
	}
	return -1
}

func (m *Manager) sandbag(id string) (*Sandbag, bool) {
	idx := m.sandbagIndex(id)
	if idx < 0 {
		return nil, false
	}
	return m.sandbags[idx], true
}

// sandbagIDs snapshots the ids so callers can remove while iterating.
func (m *Manager) sandbagIDs() []string {
	ids := make([]string, len(m.sandbags))
	for i, s := range m.sandbags {
		ids[i] = s.ID
	}
	return ids
}
