package hazards

import (
	"fmt"
	"math"
	"strings"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards/wire"
)

// Layout arranges the members of one placement group around its center.
type Layout uint8

const (
	LayoutSingle Layout = iota
	LayoutTwoUp
	LayoutTriangular
	LayoutSquare
	LayoutLine
	LayoutRadial
)

func (l Layout) String() string {
	switch l {
	case LayoutSingle:
		return "single"
	case LayoutTwoUp:
		return "twoUp"
	case LayoutTriangular:
		return "triangular"
	case LayoutSquare:
		return "square"
	case LayoutLine:
		return "line"
	case LayoutRadial:
		return "radial"
	}
	return fmt.Sprintf("Layout(%d)", uint8(l))
}

// ParseLayout maps a configuration tag onto a Layout.
func ParseLayout(tag string) (Layout, error) {
	key := strings.NewReplacer("-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(tag)))
	switch key {
	case "", "single":
		return LayoutSingle, nil
	case "twoup", "pair":
		return LayoutTwoUp, nil
	case "triangular", "triangle":
		return LayoutTriangular, nil
	case "square":
		return LayoutSquare, nil
	case "line":
		return LayoutLine, nil
	case "radial":
		return LayoutRadial, nil
	}
	return LayoutSingle, fmt.Errorf("unknown layout %q", tag)
}

// offsets returns the member offsets for a group of size n with the given
// spacing. Single, two-up, triangular and square layouts have a fixed size.
func (l Layout) offsets(n int, spacing float64) []geometry.Vec2 {
	switch l {
	case LayoutSingle:
		return []geometry.Vec2{{}}
	case LayoutTwoUp:
		return []geometry.Vec2{{X: -spacing / 2}, {X: spacing / 2}}
	case LayoutTriangular:
		h := spacing / math.Sqrt(3)
		return []geometry.Vec2{
			{X: 0, Y: -h},
			{X: -spacing / 2, Y: h / 2},
			{X: spacing / 2, Y: h / 2},
		}
	case LayoutSquare:
		s := spacing / 2
		return []geometry.Vec2{{X: -s, Y: -s}, {X: s, Y: -s}, {X: -s, Y: s}, {X: s, Y: s}}
	case LayoutLine:
		if n < 1 {
			n = 1
		}
		out := make([]geometry.Vec2, n)
		start := -float64(n-1) * spacing / 2
		for i := range out {
			out[i] = geometry.Vec2{X: start + float64(i)*spacing}
		}
		return out
	case LayoutRadial:
		if n < 1 {
			n = 1
		}
		out := make([]geometry.Vec2, 0, n)
		out = append(out, geometry.Vec2{})
		ring := n - 1
		for i := 0; i < ring; i++ {
			a := 2 * math.Pi * float64(i) / float64(ring)
			out = append(out, geometry.Vec2{X: spacing * math.Cos(a), Y: spacing * math.Sin(a)})
		}
		return out
	}
	return []geometry.Vec2{{}}
}

// Placement parameterizes the shared rejection-sampling template.
type Placement struct {
	Enabled            bool    `mapstructure:"enabled"`
	Groups             int     `mapstructure:"groups"`
	AttemptsPerGroup   int     `mapstructure:"attemptsPerGroup"`
	Layout             string  `mapstructure:"layout"`
	GroupSize          int     `mapstructure:"groupSize"`
	Spacing            float64 `mapstructure:"spacing"`
	MinClusterDistance float64 `mapstructure:"minClusterDistance"`

	// Clearance is the minimum center distance from every object of the
	// classes this class clears. Group centers are checked against
	// Clearance plus the group radius; members against MemberClearance.
	Clearance       float64 `mapstructure:"clearance"`
	MemberClearance float64 `mapstructure:"memberClearance"`
}

type SandbagConfig struct {
	Placement      `mapstructure:",squash"`
	Width          float64 `mapstructure:"width"`
	Height         float64 `mapstructure:"height"`
	Health         float64 `mapstructure:"health"`
	DiagonalChance float64 `mapstructure:"diagonalChance"`
}

type WireConfig struct {
	Placement    `mapstructure:",squash"`
	Variants     []string    `mapstructure:"variants"`
	ContactWidth float64     `mapstructure:"contactWidth"`
	SpeedCap     float64     `mapstructure:"speedCap"`
	DotDPS       float64     `mapstructure:"dotDps"`
	DotDuration  float64     `mapstructure:"dotDuration"`
	DotInterval  float64     `mapstructure:"dotInterval"`
	Shapes       wire.Params `mapstructure:"shapes"`
}

type MudConfig struct {
	Placement       `mapstructure:",squash"`
	RadiusMin       float64 `mapstructure:"radiusMin"`
	RadiusMax       float64 `mapstructure:"radiusMax"`
	SpeedMultiplier float64 `mapstructure:"speedMultiplier"`
}

type FireConfig struct {
	Placement    `mapstructure:",squash"`
	RadiusMin    float64 `mapstructure:"radiusMin"`
	RadiusMax    float64 `mapstructure:"radiusMax"`
	DPS          float64 `mapstructure:"dps"`
	DotDuration  float64 `mapstructure:"dotDuration"`
	DotInterval  float64 `mapstructure:"dotInterval"`
	ObjectPeriod float64 `mapstructure:"objectPeriod"`
}

type GasConfig struct {
	Placement       `mapstructure:",squash"`
	Radius          float64 `mapstructure:"radius"`
	CloudOffset     float64 `mapstructure:"cloudOffset"`
	StaminaDrain    float64 `mapstructure:"staminaDrain"`
	VisionReduction float64 `mapstructure:"visionReduction"`
	ExposureCap     float64 `mapstructure:"exposureCap"`
	DecayFactor     float64 `mapstructure:"decayFactor"`
}

type BarrelConfig struct {
	Placement       `mapstructure:",squash"`
	Health          float64 `mapstructure:"health"`
	ExplosionRadius float64 `mapstructure:"explosionRadius"`
	ExplosionDamage float64 `mapstructure:"explosionDamage"`
	VisualRadius    float64 `mapstructure:"visualRadius"`
	FuseDuration    float64 `mapstructure:"fuseDuration"`
	FuseStep        float64 `mapstructure:"fuseStep"`
	ChainDelayMin   float64 `mapstructure:"chainDelayMin"`
	ChainDelayMax   float64 `mapstructure:"chainDelayMax"`
}

type TrenchConfig struct {
	Placement      `mapstructure:",squash"`
	HalfW          float64 `mapstructure:"halfWidth"`
	HalfH          float64 `mapstructure:"halfHeight"`
	RevealDuration float64 `mapstructure:"revealDuration"`
}

// Config groups every hazard class. A nil section disables the class and is
// logged at construction.
type Config struct {
	// Region limits where group centers are drawn. The zero value uses the
	// world bounds.
	Region     geometry.AABB     `mapstructure:"region"`
	SafeZones  []geometry.Circle `mapstructure:"safeZones"`
	ClearZones []geometry.AABB   `mapstructure:"clearZones"`
	CullRadius float64           `mapstructure:"cullRadius"`

	Sandbags *SandbagConfig `mapstructure:"sandbags"`
	Wire     *WireConfig    `mapstructure:"wire"`
	Mud      *MudConfig     `mapstructure:"mud"`
	Fire     *FireConfig    `mapstructure:"fire"`
	Gas      *GasConfig     `mapstructure:"gas"`
	Barrels  *BarrelConfig  `mapstructure:"barrels"`
	Trenches *TrenchConfig  `mapstructure:"trenches"`
}

const (
	defaultCullRadius = 40.0

	wireSpeedCap       = 0.3
	defaultMudSpeed    = 0.3
	defaultExposureCap = 3.0
	defaultDecayFactor = 1.5
	defaultFirePeriod  = 0.5

	defaultFuseDuration  = 2.0
	defaultFuseStep      = 0.1
	defaultChainDelayMin = 0.1
	defaultChainDelayMax = 0.3

	fuseThreshold      = 0.5
	falloffFactor      = 0.6
	enemyMultiplier    = 3.0
	maxArmorReduction  = 0.75
	sandbagBlastDamage = 10000.0
)

// DefaultConfig enables every class with the stock tuning.
func DefaultConfig() Config {
	return Config{
		CullRadius: defaultCullRadius,
		SafeZones:  []geometry.Circle{{X: 0, Y: 0, Radius: 260}},
		Sandbags: &SandbagConfig{
			Placement: Placement{
				Enabled: true, Groups: 10, AttemptsPerGroup: 80, Layout: "twoUp",
				Spacing: 70, MinClusterDistance: 260,
			},
			Width: 60, Height: 20, Health: 300, DiagonalChance: 0.3,
		},
		Wire: &WireConfig{
			Placement: Placement{
				Enabled: true, Groups: 8, AttemptsPerGroup: 80, Layout: "single",
				MinClusterDistance: 300, Clearance: 90, MemberClearance: 70,
			},
			Variants:     []string{"tangled", "spiral", "tripleConcertina", "doubleApron"},
			ContactWidth: 4,
			SpeedCap:     wireSpeedCap,
			DotDPS:       6,
			DotDuration:  1,
			DotInterval:  0.5,
			Shapes:       wire.DefaultParams(),
		},
		Mud: &MudConfig{
			Placement: Placement{
				Enabled: true, Groups: 6, AttemptsPerGroup: 60, Layout: "single",
				MinClusterDistance: 300, Clearance: 60, MemberClearance: 40,
			},
			RadiusMin: 40, RadiusMax: 80, SpeedMultiplier: defaultMudSpeed,
		},
		Fire: &FireConfig{
			Placement: Placement{
				Enabled: true, Groups: 4, AttemptsPerGroup: 60, Layout: "triangular",
				Spacing: 60, MinClusterDistance: 400, Clearance: 80, MemberClearance: 50,
			},
			RadiusMin: 20, RadiusMax: 35, DPS: 10, DotDuration: 3, DotInterval: 0.5,
			ObjectPeriod: defaultFirePeriod,
		},
		Gas: &GasConfig{
			Placement: Placement{
				Enabled: true, Groups: 3, AttemptsPerGroup: 60, Layout: "radial", GroupSize: 4,
				Spacing: 90, MinClusterDistance: 500, Clearance: 120, MemberClearance: 80,
			},
			Radius: 70, CloudOffset: 40, StaminaDrain: 15, VisionReduction: 0.5,
			ExposureCap: defaultExposureCap, DecayFactor: defaultDecayFactor,
		},
		Barrels: &BarrelConfig{
			Placement: Placement{
				Enabled: true, Groups: 6, AttemptsPerGroup: 80, Layout: "square",
				Spacing: 40, MinClusterDistance: 350, Clearance: 150, MemberClearance: 120,
			},
			Health: 100, ExplosionRadius: 120, ExplosionDamage: 80, VisualRadius: 12,
			FuseDuration: defaultFuseDuration, FuseStep: defaultFuseStep,
			ChainDelayMin: defaultChainDelayMin, ChainDelayMax: defaultChainDelayMax,
		},
		Trenches: &TrenchConfig{
			Placement: Placement{
				Enabled: true, Groups: 4, AttemptsPerGroup: 60, Layout: "single",
				MinClusterDistance: 400, Clearance: 120, MemberClearance: 100,
			},
			HalfW: 90, HalfH: 18, RevealDuration: 1.5,
		},
	}
}

// clears lists which classes must keep their distance from class c. Barrels
// also keep their distance from each other.
func clears(c Class) []Class {
	switch c {
	case ClassSandbag:
		return nil
	case ClassWire:
		return []Class{ClassSandbag}
	case ClassMud:
		return []Class{ClassSandbag, ClassWire}
	case ClassFire:
		return []Class{ClassSandbag, ClassWire, ClassMud}
	case ClassGas:
		return []Class{ClassSandbag, ClassWire, ClassMud, ClassFire}
	case ClassBarrel:
		return []Class{ClassSandbag, ClassWire, ClassFire, ClassGas, ClassBarrel}
	case ClassTrench:
		return []Class{ClassSandbag, ClassWire}
	case classCount:
	}
	return nil
}

func (p *Placement) normalize() {
	if p.AttemptsPerGroup <= 0 {
		p.AttemptsPerGroup = 50
	}
	if p.Groups < 0 {
		p.Groups = 0
	}
	if p.MemberClearance <= 0 || p.MemberClearance > p.Clearance {
		p.MemberClearance = p.Clearance
	}
	if p.GroupSize <= 0 {
		p.GroupSize = 1
	}
}

func positive(v, def float64) float64 {
	if v > 0 {
		return v
	}
	return def
}
