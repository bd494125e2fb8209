package world

import (
	"errors"
	"fmt"
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
)

// RNGFactory produces deterministic generators for world subsystems.
type RNGFactory func(rootSeed, label string) *LCG

// Deps bundles runtime dependencies required to construct a World instance.
type Deps struct {
	Logger  telemetry.Logger
	Metrics telemetry.Metrics
	RNG     RNGFactory
}

// World owns the seeded RNG root, the static obstacle field and the collider
// store shared with hazards and external systems. It is not safe for
// concurrent use; the owning session serializes access.
type World struct {
	config Config
	seed   string
	bounds Bounds

	logger     telemetry.Logger
	metrics    telemetry.Metrics
	rngFactory RNGFactory
	rng        *LCG

	obstacles []Obstacle
	colliders colliderStore
}

var errNonFinite = errors.New("non-finite value")

// New constructs a world with normalized configuration and generates its
// obstacle field.
func New(cfg Config, deps Deps) (*World, error) {
	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("world config: %w", err)
	}
	normalized := cfg.normalized()

	factory := deps.RNG
	if factory == nil {
		factory = NewDeterministicRNG
	}
	logger := deps.Logger
	if logger == nil {
		logger = telemetry.NopLogger()
	}
	metrics := deps.Metrics
	if metrics == nil {
		metrics = telemetry.NopMetrics()
	}

	w := &World{
		config:     normalized,
		seed:       normalized.Seed,
		bounds:     normalized.Bounds,
		logger:     logger,
		metrics:    metrics,
		rngFactory: factory,
		rng:        factory(normalized.Seed, "world"),
	}
	w.obstacles = w.generateObstacles()
	return w, nil
}

func validate(cfg Config) error {
	values := []float64{
		cfg.ReferenceRadius, cfg.SpawnX, cfg.SpawnY, cfg.SpawnSafeRadius,
		cfg.Bounds.MinX, cfg.Bounds.MinY, cfg.Bounds.MaxX, cfg.Bounds.MaxY,
	}
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return errNonFinite
		}
	}
	for i, zone := range cfg.ExclusionZones {
		if zone.HalfW < 0 || zone.HalfH < 0 {
			return fmt.Errorf("exclusion zone %d has negative extents", i)
		}
	}
	for i, circle := range cfg.ExclusionCircles {
		if circle.Radius < 0 {
			return fmt.Errorf("exclusion circle %d has negative radius", i)
		}
	}
	return nil
}

// Config returns the normalized configuration captured at construction time.
func (w *World) Config() Config {
	if w == nil {
		return Config{}
	}
	return w.config
}

// Seed reports the deterministic seed applied to the world RNG hierarchy.
func (w *World) Seed() string {
	if w == nil {
		return ""
	}
	return w.seed
}

// Bounds returns the playable rectangle.
func (w *World) Bounds() Bounds {
	if w == nil {
		return Bounds{}
	}
	return w.bounds
}

// RNG exposes the root generator seeded for the world.
func (w *World) RNG() *LCG {
	if w == nil {
		return nil
	}
	if w.rng == nil {
		w.rng = w.ensureFactory()(w.seed, "world")
	}
	return w.rng
}

// Subsystem returns a deterministic generator derived from the world seed.
// Each call restarts the stream for the label.
func (w *World) Subsystem(label string) *LCG {
	if w == nil {
		return NewDeterministicRNG(DefaultSeed, label)
	}
	return w.ensureFactory()(w.seed, label)
}

// Logger returns the logger the world reports through.
func (w *World) Logger() telemetry.Logger {
	if w == nil || w.logger == nil {
		return telemetry.NopLogger()
	}
	return w.logger
}

// Metrics returns the metrics sink the world reports through.
func (w *World) Metrics() telemetry.Metrics {
	if w == nil || w.metrics == nil {
		return telemetry.NopMetrics()
	}
	return w.metrics
}

func (w *World) ensureFactory() RNGFactory {
	if w == nil || w.rngFactory == nil {
		return NewDeterministicRNG
	}
	return w.rngFactory
}

// IsInsideBounds reports whether the point keeps at least margin distance
// from every boundary edge.
func (w *World) IsInsideBounds(x, y, margin float64) bool {
	if w == nil {
		return false
	}
	b := w.bounds
	return x-margin >= b.MinX && x+margin <= b.MaxX && y-margin >= b.MinY && y+margin <= b.MaxY
}

// CircleHitsAny reports whether the circle touches any obstacle or collider.
func (w *World) CircleHitsAny(x, y, r float64) bool {
	if w == nil {
		return false
	}
	for _, obs := range w.obstacles {
		box := obs.Box()
		if !geometry.WithinCull(x, y, box.X, box.Y, r+math.Hypot(box.HalfW, box.HalfH)) {
			continue
		}
		if geometry.CircleIntersectsAABB(x, y, r, box) {
			return true
		}
	}
	hit := false
	w.colliders.each(func(_ ColliderHandle, box geometry.OrientedBox) bool {
		if !geometry.WithinCull(x, y, box.X, box.Y, r+box.BoundingRadius()) {
			return true
		}
		if geometry.CircleIntersectsOrientedBox(x, y, r, box) {
			hit = true
			return false
		}
		return true
	})
	return hit
}

// LineHitsAny reports whether the segment crosses any obstacle or collider.
func (w *World) LineHitsAny(x1, y1, x2, y2 float64) bool {
	if w == nil {
		return false
	}
	for _, obs := range w.obstacles {
		if geometry.LineIntersectsAABB(x1, y1, x2, y2, obs.Box()) {
			return true
		}
	}
	hit := false
	w.colliders.each(func(_ ColliderHandle, box geometry.OrientedBox) bool {
		if geometry.LineIntersectsOrientedBox(x1, y1, x2, y2, box) {
			hit = true
			return false
		}
		return true
	})
	return hit
}
