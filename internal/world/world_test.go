package world

import (
	"reflect"
	"testing"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
)

func TestLCGMatchesReferenceSequence(t *testing.T) {
	rng := NewLCG(0)
	want := []uint32{1013904223, 1196435762, 3519870697}
	for i, w := range want {
		if got := rng.Uint32(); got != w {
			t.Fatalf("step %d: got %d want %d", i, got, w)
		}
	}
}

func TestLCGHelpersStayInRange(t *testing.T) {
	rng := NewDeterministicRNG("range", "test")
	for i := 0; i < 1000; i++ {
		if f := rng.Float64(); f < 0 || f >= 1 {
			t.Fatalf("Float64 out of range: %f", f)
		}
		if v := rng.Range(-5, 5); v < -5 || v >= 5 {
			t.Fatalf("Range out of range: %f", v)
		}
		if n := rng.Intn(7); n < 0 || n >= 7 {
			t.Fatalf("Intn out of range: %d", n)
		}
	}
	if got := rng.Range(3, 3); got != 3 {
		t.Fatalf("degenerate range should return min, got %f", got)
	}
	if got := rng.Intn(0); got != 0 {
		t.Fatalf("Intn(0) should be 0, got %d", got)
	}
}

func TestDeterministicSeedValueSeparatesLabels(t *testing.T) {
	a := DeterministicSeedValue("seed", "hazards.wire")
	b := DeterministicSeedValue("seed", "hazards.mud")
	if a == b {
		t.Fatalf("expected different labels to produce different seeds")
	}
	if a != DeterministicSeedValue("seed", "hazards.wire") {
		t.Fatalf("expected seed hashing to be stable")
	}
	if DeterministicSeedValue("seedh", "azards.wire") == a {
		t.Fatalf("expected separator to distinguish seed and label boundaries")
	}
}

func TestNewNormalizesConfigAndSeedsRNG(t *testing.T) {
	w, err := New(Config{}, Deps{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	normalized := (Config{}).normalized()
	if got := w.Config(); !reflect.DeepEqual(got, normalized) {
		t.Fatalf("Config not normalized: got %+v want %+v", got, normalized)
	}
	if got := w.Seed(); got != DefaultSeed {
		t.Fatalf("Seed mismatch: got %q want %q", got, DefaultSeed)
	}
	b := w.Bounds()
	if b.MinX != -DefaultReferenceRadius || b.MaxX != DefaultReferenceRadius || b.MinY != -DefaultReferenceRadius || b.MaxY != DefaultReferenceRadius {
		t.Fatalf("expected default square bounds, got %+v", b)
	}

	sub := w.Subsystem("test")
	want := NewDeterministicRNG(DefaultSeed, "test")
	if sub.Uint32() != want.Uint32() {
		t.Fatalf("subsystem RNG not derived from the world seed")
	}
}

func TestNewUsesInjectedRNGFactory(t *testing.T) {
	labels := map[string]int{}
	factory := func(rootSeed, label string) *LCG {
		labels[label]++
		return NewLCG(123)
	}
	w, err := New(Config{Seed: "custom"}, Deps{RNG: factory})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if labels["world"] != 1 {
		t.Fatalf("expected the world stream to come from the factory, got %v", labels)
	}
	w.Subsystem("hazards")
	if labels["hazards"] != 1 {
		t.Fatalf("expected subsystem streams to come from the factory, got %v", labels)
	}
}

func TestNewRejectsImpossibleConfig(t *testing.T) {
	cases := []Config{
		{ExclusionZones: []geometry.AABB{{HalfW: -1, HalfH: 2}}},
		{ExclusionCircles: []geometry.Circle{{Radius: -3}}},
	}
	for i, cfg := range cases {
		if _, err := New(cfg, Deps{}); err == nil {
			t.Fatalf("case %d: expected an error", i)
		}
	}
}

func TestGenerationIsDeterministic(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = "determinism"
	a, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	b, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(a.Obstacles()) == 0 {
		t.Fatalf("expected obstacles to be generated")
	}
	if !reflect.DeepEqual(a.Obstacles(), b.Obstacles()) {
		t.Fatalf("same seed produced different obstacle fields")
	}

	cfg.Seed = "other"
	c, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if reflect.DeepEqual(a.Obstacles(), c.Obstacles()) {
		t.Fatalf("different seeds produced identical obstacle fields")
	}
}

func TestGeneratedObstaclesAvoidSpawnAndExclusions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = "containment"
	cfg.SmallCount = 300
	cfg.LargeCount = 120
	cfg.ExclusionZones = []geometry.AABB{{X: 600, Y: 0, HalfW: 200, HalfH: 900}}
	cfg.ExclusionCircles = []geometry.Circle{{X: -700, Y: -700, Radius: 250}}

	w, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	obstacles := w.Obstacles()
	if len(obstacles) == 0 {
		t.Fatalf("expected obstacles to be generated")
	}
	for _, obs := range obstacles {
		box := obs.Box()
		if geometry.CircleIntersectsAABB(cfg.SpawnX, cfg.SpawnY, cfg.SpawnSafeRadius, box) {
			t.Fatalf("obstacle %s intersects the spawn-safe circle", obs.ID)
		}
		for _, zone := range cfg.ExclusionZones {
			if box.Overlaps(zone, 0) {
				t.Fatalf("obstacle %s intersects exclusion zone %+v", obs.ID, zone)
			}
		}
		for _, circle := range cfg.ExclusionCircles {
			if geometry.CircleIntersectsAABB(circle.X, circle.Y, circle.Radius, box) {
				t.Fatalf("obstacle %s intersects exclusion circle %+v", obs.ID, circle)
			}
		}
		b := w.Bounds()
		if box.MinX() < b.MinX || box.MaxX() > b.MaxX || box.MinY() < b.MinY || box.MaxY() > b.MaxY {
			t.Fatalf("obstacle %s leaves the bounds", obs.ID)
		}
	}
}

func TestObstacleTargetScalesWithArea(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SpawnSafeRadius = 0
	w, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	square := w.obstacleTarget(100)

	cfg.Bounds = Bounds{MinX: 0, MinY: 0, MaxX: 2 * DefaultReferenceRadius, MaxY: DefaultReferenceRadius}
	half, err := New(cfg, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := half.obstacleTarget(100); got*2 < square-1 || got*2 > square+1 {
		t.Fatalf("expected half the area to halve the target: square=%d half=%d", square, got)
	}
}

func TestClearGapAreasRemovesIntersectingObstacles(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Seed = "gaps"
	var counters telemetry.Counters
	w, err := New(cfg, Deps{Metrics: &counters})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	gap := geometry.AABB{X: 0, Y: 0, HalfW: 80, HalfH: 1500}
	before := w.Obstacles()
	intersecting := 0
	for _, obs := range before {
		if obs.Box().Overlaps(gap, 0) {
			intersecting++
		}
	}

	removed := w.ClearGapAreas([]geometry.AABB{gap})
	if removed != intersecting {
		t.Fatalf("expected %d obstacles removed, got %d", intersecting, removed)
	}
	after := w.Obstacles()
	if len(after) != len(before)-removed {
		t.Fatalf("obstacle count mismatch: before=%d removed=%d after=%d", len(before), removed, len(after))
	}
	for _, obs := range after {
		if obs.Box().Overlaps(gap, 0) {
			t.Fatalf("obstacle %s still intersects the gap", obs.ID)
		}
	}
	if removed > 0 && counters.Snapshot()["world.obstacles.cleared"] != uint64(removed) {
		t.Fatalf("expected cleared metric, got %v", counters.Snapshot())
	}
	if w.ClearGapAreas(nil) != 0 {
		t.Fatalf("expected no-op without gaps")
	}
}

func emptyWorld(t *testing.T) *World {
	t.Helper()
	w, err := New(Config{Seed: "empty", Bounds: Bounds{MinX: 0, MinY: 0, MaxX: 1000, MaxY: 1000}}, Deps{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if len(w.Obstacles()) != 0 {
		t.Fatalf("expected no obstacles without configured counts")
	}
	return w
}

func TestColliderHandlesSurviveRemoval(t *testing.T) {
	w := emptyWorld(t)
	boxes := []geometry.OrientedBox{
		{X: 100, Y: 100, HalfW: 10, HalfH: 5},
		{X: 200, Y: 100, HalfW: 10, HalfH: 5, Angle: 0.785},
		{X: 300, Y: 100, HalfW: 10, HalfH: 5},
		{X: 400, Y: 100, HalfW: 10, HalfH: 5},
	}
	handles := make([]ColliderHandle, len(boxes))
	for i, box := range boxes {
		handles[i] = w.AddCollider(box)
	}

	if !w.RemoveCollider(handles[1]) {
		t.Fatalf("expected removal to succeed")
	}
	if _, ok := w.Collider(handles[1]); ok {
		t.Fatalf("removed handle still resolves")
	}
	if w.RemoveCollider(handles[1]) {
		t.Fatalf("double removal should be a no-op")
	}
	for _, i := range []int{0, 2, 3} {
		got, ok := w.Collider(handles[i])
		if !ok || got != boxes[i] {
			t.Fatalf("handle %d resolves to %+v ok=%v want %+v", i, got, ok, boxes[i])
		}
	}
	want := []geometry.OrientedBox{boxes[0], boxes[2], boxes[3]}
	if got := w.Colliders(); !reflect.DeepEqual(got, want) {
		t.Fatalf("collider order mismatch: got %+v want %+v", got, want)
	}

	replacement := w.AddCollider(geometry.OrientedBox{X: 900, Y: 900, HalfW: 1, HalfH: 1})
	if replacement.Index != handles[1].Index {
		t.Fatalf("expected the freed slot to be reused")
	}
	if _, ok := w.Collider(handles[1]); ok {
		t.Fatalf("stale handle resolved after slot reuse")
	}
	if w.ColliderCount() != 4 {
		t.Fatalf("expected 4 live colliders, got %d", w.ColliderCount())
	}
	if _, ok := w.Collider(ColliderHandle{}); ok {
		t.Fatalf("zero handle should never resolve")
	}
}

func TestCircleAndLineQueriesSeeCollidersAndObstacles(t *testing.T) {
	w := emptyWorld(t)
	w.obstacles = []Obstacle{{ID: "o", X: 500, Y: 500, HalfW: 50, HalfH: 50}}
	h := w.AddCollider(geometry.OrientedBox{X: 200, Y: 200, HalfW: 40, HalfH: 10, Angle: 0.785})

	if !w.CircleHitsAny(500, 560, 15) {
		t.Fatalf("expected circle to hit the obstacle")
	}
	if !w.CircleHitsAny(200, 200, 1) {
		t.Fatalf("expected circle to hit the collider")
	}
	if w.CircleHitsAny(800, 800, 20) {
		t.Fatalf("expected open ground to be clear")
	}
	if !w.LineHitsAny(0, 500, 1000, 500) {
		t.Fatalf("expected line to cross the obstacle")
	}
	if !w.LineHitsAny(150, 250, 250, 150) {
		t.Fatalf("expected line to cross the rotated collider")
	}

	w.RemoveCollider(h)
	if w.CircleHitsAny(200, 200, 1) {
		t.Fatalf("removed collider still blocks")
	}
}

func TestIsInsideBounds(t *testing.T) {
	w := emptyWorld(t)
	if !w.IsInsideBounds(500, 500, 10) {
		t.Fatalf("expected center to be inside")
	}
	if w.IsInsideBounds(5, 500, 10) {
		t.Fatalf("expected margin to reject points near the edge")
	}
	if w.IsInsideBounds(-1, 500, 0) {
		t.Fatalf("expected points outside to be rejected")
	}
}

func TestResolveCircleMoveSlidesAlongObstacles(t *testing.T) {
	w := emptyWorld(t)
	w.obstacles = []Obstacle{{ID: "wall", X: 500, Y: 500, HalfW: 20, HalfH: 200}}

	x, y := w.ResolveCircleMove(100, 100, 110, 105, 10)
	if x != 110 || y != 105 {
		t.Fatalf("free move altered: (%f,%f)", x, y)
	}

	// Moving diagonally into the wall keeps the vertical component.
	x, y = w.ResolveCircleMove(465, 400, 475, 420, 10)
	if x != 465 || y != 420 {
		t.Fatalf("expected slide along the wall, got (%f,%f)", x, y)
	}

	// Fully blocked moves stay put.
	x, y = w.ResolveCircleMove(465, 400, 475, 400, 10)
	if x != 465 || y != 400 {
		t.Fatalf("expected blocked move to stay, got (%f,%f)", x, y)
	}

	// Moves past the boundary are clamped.
	x, y = w.ResolveCircleMove(20, 20, -50, 30, 10)
	if x != 10 || y != 30 {
		t.Fatalf("expected clamp to bounds, got (%f,%f)", x, y)
	}
}
