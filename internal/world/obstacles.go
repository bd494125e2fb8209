package world

import (
	"fmt"
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
)

// ObstacleTag is the cosmetic size class of an obstacle.
type ObstacleTag string

const (
	ObstacleSmall ObstacleTag = "small"
	ObstacleLarge ObstacleTag = "large"
)

// Obstacle is an axis-aligned blocking rectangle described by its center and
// half extents.
type Obstacle struct {
	ID    string      `json:"id" msgpack:"id"`
	X     float64     `json:"x" msgpack:"x"`
	Y     float64     `json:"y" msgpack:"y"`
	HalfW float64     `json:"hw" msgpack:"hw"`
	HalfH float64     `json:"hh" msgpack:"hh"`
	Tag   ObstacleTag `json:"tag" msgpack:"tag"`
}

// Box returns the obstacle rectangle.
func (o Obstacle) Box() geometry.AABB {
	return geometry.AABB{X: o.X, Y: o.Y, HalfW: o.HalfW, HalfH: o.HalfH}
}

// Obstacles returns a copy of the static obstacle field.
func (w *World) Obstacles() []Obstacle {
	if w == nil || len(w.obstacles) == 0 {
		return nil
	}
	out := make([]Obstacle, len(w.obstacles))
	copy(out, w.obstacles)
	return out
}

// ClearGapAreas removes every obstacle intersecting any of the gaps and
// reports how many were removed.
func (w *World) ClearGapAreas(gaps []geometry.AABB) int {
	if w == nil || len(gaps) == 0 || len(w.obstacles) == 0 {
		return 0
	}
	kept := w.obstacles[:0]
	removed := 0
	for _, obs := range w.obstacles {
		box := obs.Box()
		blocked := false
		for _, gap := range gaps {
			if box.Overlaps(gap, 0) {
				blocked = true
				break
			}
		}
		if blocked {
			removed++
			continue
		}
		kept = append(kept, obs)
	}
	for i := len(kept); i < len(w.obstacles); i++ {
		w.obstacles[i] = Obstacle{}
	}
	w.obstacles = kept
	if removed > 0 {
		w.logger.Printf("world %s: cleared %d obstacles from %d gaps", w.seed, removed, len(gaps))
		w.metrics.Add("world.obstacles.cleared", uint64(removed))
	}
	return removed
}

// obstacleTarget scales a configured count by the ratio of the playable area
// to the reference circle so density is consistent across level shapes.
func (w *World) obstacleTarget(count int) int {
	if count <= 0 {
		return 0
	}
	reference := math.Pi * w.config.ReferenceRadius * w.config.ReferenceRadius
	if reference <= 0 {
		return count
	}
	return int(math.Round(float64(count) * w.bounds.Area() / reference))
}

func (w *World) generateObstacles() []Obstacle {
	cfg := w.config
	classes := []struct {
		tag   ObstacleTag
		count int
		size  SizeRange
	}{
		{ObstacleSmall, cfg.SmallCount, cfg.SmallSize},
		{ObstacleLarge, cfg.LargeCount, cfg.LargeSize},
	}

	rng := w.RNG()
	var obstacles []Obstacle
	rejected := 0
	for _, class := range classes {
		draws := w.obstacleTarget(class.count)
		for i := 0; i < draws; i++ {
			halfW := rng.Range(class.size.MinHalf, class.size.MaxHalf)
			halfH := rng.Range(class.size.MinHalf, class.size.MaxHalf)
			x := rng.Range(w.bounds.MinX+halfW, w.bounds.MaxX-halfW)
			y := rng.Range(w.bounds.MinY+halfH, w.bounds.MaxY-halfH)

			candidate := Obstacle{X: x, Y: y, HalfW: halfW, HalfH: halfH, Tag: class.tag}
			if w.excluded(candidate.Box()) {
				rejected++
				continue
			}
			candidate.ID = fmt.Sprintf("obstacle-%d", len(obstacles)+1)
			obstacles = append(obstacles, candidate)
		}
	}

	w.metrics.Add("world.obstacles.generated", uint64(len(obstacles)))
	w.metrics.Add("world.obstacles.rejected", uint64(rejected))
	w.logger.Printf("world %s: generated %d obstacles (%d draws rejected)", w.seed, len(obstacles), rejected)
	return obstacles
}

// excluded reports whether a box touches the spawn-safe circle or any
// configured exclusion zone.
func (w *World) excluded(box geometry.AABB) bool {
	cfg := w.config
	if cfg.SpawnSafeRadius > 0 && geometry.CircleIntersectsAABB(cfg.SpawnX, cfg.SpawnY, cfg.SpawnSafeRadius, box) {
		return true
	}
	for _, zone := range cfg.ExclusionZones {
		if box.Overlaps(zone, 0) {
			return true
		}
	}
	for _, circle := range cfg.ExclusionCircles {
		if geometry.CircleIntersectsAABB(circle.X, circle.Y, circle.Radius, box) {
			return true
		}
	}
	return false
}
