package world

import (
	"strings"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
)

const (
	DefaultSeed            = "prototype"
	DefaultReferenceRadius = 1500.0
	DefaultSpawnSafeRadius = 220.0

	DefaultSmallObstacles = 90
	DefaultLargeObstacles = 28
)

// SizeRange bounds the half extents drawn for one obstacle class.
type SizeRange struct {
	MinHalf float64 `json:"minHalf" mapstructure:"minHalf"`
	MaxHalf float64 `json:"maxHalf" mapstructure:"maxHalf"`
}

// Bounds is the playable rectangle in world coordinates.
type Bounds struct {
	MinX float64 `json:"minX" mapstructure:"minX"`
	MinY float64 `json:"minY" mapstructure:"minY"`
	MaxX float64 `json:"maxX" mapstructure:"maxX"`
	MaxY float64 `json:"maxY" mapstructure:"maxY"`
}

// Width of the bounds.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height of the bounds.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// Area of the bounds.
func (b Bounds) Area() float64 { return b.Width() * b.Height() }

// Center of the bounds.
func (b Bounds) Center() (float64, float64) {
	return (b.MinX + b.MaxX) / 2, (b.MinY + b.MaxY) / 2
}

// Valid reports whether the rectangle has a positive area.
func (b Bounds) Valid() bool {
	return b.MaxX > b.MinX && b.MaxY > b.MinY
}

// Config describes how the static battlefield is generated.
type Config struct {
	Seed string `json:"seed" mapstructure:"seed"`
	// Bounds is optional; the zero value selects a square around the origin
	// whose side is twice ReferenceRadius.
	Bounds          Bounds  `json:"bounds" mapstructure:"bounds"`
	ReferenceRadius float64 `json:"referenceRadius" mapstructure:"referenceRadius"`

	SpawnX          float64 `json:"spawnX" mapstructure:"spawnX"`
	SpawnY          float64 `json:"spawnY" mapstructure:"spawnY"`
	SpawnSafeRadius float64 `json:"spawnSafeRadius" mapstructure:"spawnSafeRadius"`

	SmallCount int       `json:"smallCount" mapstructure:"smallCount"`
	SmallSize  SizeRange `json:"smallSize" mapstructure:"smallSize"`
	LargeCount int       `json:"largeCount" mapstructure:"largeCount"`
	LargeSize  SizeRange `json:"largeSize" mapstructure:"largeSize"`

	ExclusionZones   []geometry.AABB   `json:"exclusionZones" mapstructure:"exclusionZones"`
	ExclusionCircles []geometry.Circle `json:"exclusionCircles" mapstructure:"exclusionCircles"`
}

func (cfg Config) normalized() Config {
	normalized := cfg
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = DefaultSeed
	}
	if normalized.ReferenceRadius <= 0 {
		normalized.ReferenceRadius = DefaultReferenceRadius
	}
	if !normalized.Bounds.Valid() {
		r := normalized.ReferenceRadius
		normalized.Bounds = Bounds{MinX: -r, MinY: -r, MaxX: r, MaxY: r}
	}
	if normalized.SpawnSafeRadius < 0 {
		normalized.SpawnSafeRadius = 0
	}
	if normalized.SmallCount < 0 {
		normalized.SmallCount = 0
	}
	if normalized.LargeCount < 0 {
		normalized.LargeCount = 0
	}
	normalized.SmallSize = normalizeSize(normalized.SmallSize, 14, 34)
	normalized.LargeSize = normalizeSize(normalized.LargeSize, 40, 95)
	return normalized
}

func normalizeSize(r SizeRange, defMin, defMax float64) SizeRange {
	if r.MinHalf <= 0 {
		r.MinHalf = defMin
	}
	if r.MaxHalf < r.MinHalf {
		r.MaxHalf = r.MinHalf
		if defMax > r.MaxHalf {
			r.MaxHalf = defMax
		}
	}
	return r
}

// Normalized returns the configuration with defaults applied.
func (cfg Config) Normalized() Config {
	return cfg.normalized()
}

// DefaultConfig returns the stock battlefield layout.
func DefaultConfig() Config {
	return Config{
		Seed:            DefaultSeed,
		ReferenceRadius: DefaultReferenceRadius,
		SpawnSafeRadius: DefaultSpawnSafeRadius,
		SmallCount:      DefaultSmallObstacles,
		SmallSize:       SizeRange{MinHalf: 14, MaxHalf: 34},
		LargeCount:      DefaultLargeObstacles,
		LargeSize:       SizeRange{MinHalf: 40, MaxHalf: 95},
	}
}
