package hazards

import (
	"fmt"
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards/wire"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
)

const epsilon = 1e-9

// Class identifies a hazard collection. The order of the constants is the
// placement order.
type Class uint8

const (
	ClassSandbag Class = iota
	ClassWire
	ClassMud
	ClassFire
	ClassGas
	ClassBarrel
	ClassTrench

	classCount
)

// Classes lists every class in placement order.
var Classes = []Class{ClassSandbag, ClassWire, ClassMud, ClassFire, ClassGas, ClassBarrel, ClassTrench}

func (c Class) String() string {
	switch c {
	case ClassSandbag:
		return "sandbag"
	case ClassWire:
		return "wire"
	case ClassMud:
		return "mud"
	case ClassFire:
		return "fire"
	case ClassGas:
		return "gas"
	case ClassBarrel:
		return "barrel"
	case ClassTrench:
		return "trench"
	case classCount:
	}
	return fmt.Sprintf("Class(%d)", uint8(c))
}

// Sandbag is a destructible wall segment backed by a world collider.
type Sandbag struct {
	ID        string               `json:"id" msgpack:"id"`
	X         float64              `json:"x" msgpack:"x"`
	Y         float64              `json:"y" msgpack:"y"`
	Width     float64              `json:"width" msgpack:"width"`
	Height    float64              `json:"height" msgpack:"height"`
	Rotation  float64              `json:"rotation" msgpack:"rotation"`
	Health    float64              `json:"health" msgpack:"health"`
	HealthMax float64              `json:"healthMax" msgpack:"healthMax"`
	Collider  world.ColliderHandle `json:"collider" msgpack:"collider"`
}

// Box returns the sandbag's oriented box.
func (s *Sandbag) Box() geometry.OrientedBox {
	return geometry.OrientedBox{X: s.X, Y: s.Y, HalfW: s.Width / 2, HalfH: s.Height / 2, Angle: s.Rotation}
}

// BarbedWire is an immutable wire obstacle.
type BarbedWire struct {
	ID      string       `json:"id" msgpack:"id"`
	Variant wire.Variant `json:"variant" msgpack:"variant"`
	X       float64      `json:"x" msgpack:"x"`
	Y       float64      `json:"y" msgpack:"y"`
	Pattern wire.Pattern `json:"pattern" msgpack:"pattern"`
}

// MudPool slows actors standing in it.
type MudPool struct {
	ID              string  `json:"id" msgpack:"id"`
	X               float64 `json:"x" msgpack:"x"`
	Y               float64 `json:"y" msgpack:"y"`
	Radius          float64 `json:"radius" msgpack:"radius"`
	SpeedMultiplier float64 `json:"speedMultiplier" msgpack:"speedMultiplier"`
}

// FirePool burns actors and objects inside it.
type FirePool struct {
	ID          string  `json:"id" msgpack:"id"`
	X           float64 `json:"x" msgpack:"x"`
	Y           float64 `json:"y" msgpack:"y"`
	Radius      float64 `json:"radius" msgpack:"radius"`
	DPS         float64 `json:"dps" msgpack:"dps"`
	DotDuration float64 `json:"dotDuration" msgpack:"dotDuration"`
	DotInterval float64 `json:"dotInterval" msgpack:"dotInterval"`
}

// GasCanister emits a cloud whose effective center sits CloudOffset above
// the canister.
type GasCanister struct {
	ID              string  `json:"id" msgpack:"id"`
	X               float64 `json:"x" msgpack:"x"`
	Y               float64 `json:"y" msgpack:"y"`
	Radius          float64 `json:"radius" msgpack:"radius"`
	CloudOffset     float64 `json:"cloudOffset" msgpack:"cloudOffset"`
	StaminaDrain    float64 `json:"staminaDrain" msgpack:"staminaDrain"`
	VisionReduction float64 `json:"visionReduction" msgpack:"visionReduction"`
}

// CloudCenter is the effective center of the gas cloud.
func (g *GasCanister) CloudCenter() (float64, float64) {
	return g.X, g.Y - g.CloudOffset
}

// Trench conceals quiet actors inside it.
type Trench struct {
	ID    string  `json:"id" msgpack:"id"`
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	HalfW float64 `json:"hw" msgpack:"hw"`
	HalfH float64 `json:"hh" msgpack:"hh"`
}

// Box returns the trench rectangle.
func (t *Trench) Box() geometry.AABB {
	return geometry.AABB{X: t.X, Y: t.Y, HalfW: t.HalfW, HalfH: t.HalfH}
}

// BarrelState is the lifecycle stage of a barrel.
type BarrelState uint8

const (
	BarrelHealthy BarrelState = iota
	BarrelFusing
	BarrelExploded
)

func (s BarrelState) String() string {
	switch s {
	case BarrelHealthy:
		return "healthy"
	case BarrelFusing:
		return "fusing"
	case BarrelExploded:
		return "exploded"
	}
	return fmt.Sprintf("BarrelState(%d)", uint8(s))
}

// ExplodingBarrel detonates when destroyed or when its fuse runs out.
type ExplodingBarrel struct {
	ID              string  `json:"id" msgpack:"id"`
	X               float64 `json:"x" msgpack:"x"`
	Y               float64 `json:"y" msgpack:"y"`
	Health          float64 `json:"health" msgpack:"health"`
	HealthMax       float64 `json:"healthMax" msgpack:"healthMax"`
	ExplosionRadius float64 `json:"explosionRadius" msgpack:"explosionRadius"`
	ExplosionDamage float64 `json:"explosionDamage" msgpack:"explosionDamage"`
	VisualRadius    float64 `json:"visualRadius" msgpack:"visualRadius"`
	Exploded        bool    `json:"exploded" msgpack:"exploded"`
	FuseStarted     bool    `json:"fuseStarted" msgpack:"fuseStarted"`
	FuseStartHealth float64 `json:"fuseStartHealth" msgpack:"fuseStartHealth"`
	FuseElapsed     float64 `json:"fuseElapsed" msgpack:"fuseElapsed"`

	fuseStartAt float64
}

// State reports the lifecycle stage.
func (b *ExplodingBarrel) State() BarrelState {
	switch {
	case b.Exploded:
		return BarrelExploded
	case b.FuseStarted:
		return BarrelFusing
	default:
		return BarrelHealthy
	}
}

// PlacedCluster records one accepted placement group.
type PlacedCluster struct {
	Class   Class
	X       float64
	Y       float64
	Members []string
}

func distance(ax, ay, bx, by float64) float64 {
	return math.Hypot(ax-bx, ay-by)
}
