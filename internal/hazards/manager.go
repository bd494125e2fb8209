package hazards

import (
	"errors"
	"fmt"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards/wire"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

var (
	// ErrNoWorld is returned when a manager is built without a world.
	ErrNoWorld = errors.New("hazards: world is required")
	// ErrAlreadySpawned is returned by a second Spawn call.
	ErrAlreadySpawned = errors.New("hazards: already spawned")
)

// Deps bundles the collaborators of a Manager.
type Deps struct {
	Publisher logging.Publisher
	Actors    ActorProvider
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
	// Rand drives runtime randomness such as chain-reaction delays. It
	// defaults to the world's "hazards.runtime" stream.
	Rand *world.LCG
}

// Manager owns every hazard of one session. It is not safe for concurrent
// use; the owning session serializes calls.
type Manager struct {
	world     *world.World
	publisher logging.Publisher
	actors    ActorProvider
	logger    telemetry.Logger
	metrics   telemetry.Metrics
	rng       *world.LCG

	enabled  [classCount]bool
	layouts  [classCount]Layout
	variants []wire.Variant

	region     geometry.AABB
	safeZones  []geometry.Circle
	clearZones []geometry.AABB
	cullRadius float64

	sandbagCfg SandbagConfig
	wireCfg    WireConfig
	mudCfg     MudConfig
	fireCfg    FireConfig
	gasCfg     GasConfig
	barrelCfg  BarrelConfig
	trenchCfg  TrenchConfig

	sandbags []*Sandbag
	wires    []*BarbedWire
	muds     []*MudPool
	fires    []*FirePool
	gases    []*GasCanister
	barrels  []*ExplodingBarrel
	trenches []*Trench

	clusters []PlacedCluster
	nextID   [classCount]int
	spawned  bool

	clock    float64
	tick     uint64
	fireAcc  float64
	statuses map[string]*actorState
	schedule scheduler
}

// New resolves the configuration against the world. Missing or invalid
// sections disable their class and are logged; only a missing world is an
// error.
func New(cfg Config, w *world.World, deps Deps) (*Manager, error) {
	if w == nil {
		return nil, ErrNoWorld
	}
	m := &Manager{
		world:     w,
		publisher: deps.Publisher,
		actors:    deps.Actors,
		logger:    deps.Logger,
		metrics:   deps.Metrics,
		rng:       deps.Rand,
		statuses:  make(map[string]*actorState),
	}
	if m.publisher == nil {
		m.publisher = logging.NopPublisher()
	}
	if m.actors == nil {
		m.actors = ActorProviderFunc(nil)
	}
	if m.logger == nil {
		m.logger = w.Logger()
	}
	if m.metrics == nil {
		m.metrics = w.Metrics()
	}
	if m.rng == nil {
		m.rng = w.Subsystem("hazards.runtime")
	}

	m.region = cfg.Region
	if m.region.HalfW <= 0 || m.region.HalfH <= 0 {
		b := w.Bounds()
		cx, cy := b.Center()
		m.region = geometry.AABB{X: cx, Y: cy, HalfW: b.Width() / 2, HalfH: b.Height() / 2}
	}
	m.safeZones = append([]geometry.Circle(nil), cfg.SafeZones...)
	m.clearZones = append([]geometry.AABB(nil), cfg.ClearZones...)
	m.cullRadius = positive(cfg.CullRadius, defaultCullRadius)

	m.resolveSections(cfg)
	return m, nil
}

func (m *Manager) resolveSections(cfg Config) {
	defaults := DefaultConfig()

	m.sandbagCfg = *defaults.Sandbags
	if cfg.Sandbags != nil {
		m.sandbagCfg = *cfg.Sandbags
		m.enable(ClassSandbag, &m.sandbagCfg.Placement)
	} else {
		m.missing(ClassSandbag)
	}
	m.sandbagCfg.Width = positive(m.sandbagCfg.Width, defaults.Sandbags.Width)
	m.sandbagCfg.Height = positive(m.sandbagCfg.Height, defaults.Sandbags.Height)
	m.sandbagCfg.Health = positive(m.sandbagCfg.Health, defaults.Sandbags.Health)

	m.wireCfg = *defaults.Wire
	if cfg.Wire != nil {
		m.wireCfg = *cfg.Wire
		m.enable(ClassWire, &m.wireCfg.Placement)
	} else {
		m.missing(ClassWire)
	}
	for _, tag := range m.wireCfg.Variants {
		v, err := wire.ParseVariant(tag)
		if err != nil {
			m.logger.Printf("warn: hazards: dropping wire variant: %v", err)
			continue
		}
		m.variants = append(m.variants, v)
	}
	if len(m.variants) == 0 && m.enabled[ClassWire] {
		m.logger.Printf("warn: hazards: no usable wire variants, wire disabled")
		m.enabled[ClassWire] = false
	}
	m.wireCfg.ContactWidth = positive(m.wireCfg.ContactWidth, defaults.Wire.ContactWidth)
	m.wireCfg.SpeedCap = positive(m.wireCfg.SpeedCap, wireSpeedCap)
	if m.wireCfg.SpeedCap > wireSpeedCap {
		m.wireCfg.SpeedCap = wireSpeedCap
	}
	m.wireCfg.DotDuration = positive(m.wireCfg.DotDuration, defaults.Wire.DotDuration)
	m.wireCfg.DotInterval = positive(m.wireCfg.DotInterval, defaults.Wire.DotInterval)

	m.mudCfg = *defaults.Mud
	if cfg.Mud != nil {
		m.mudCfg = *cfg.Mud
		m.enable(ClassMud, &m.mudCfg.Placement)
	} else {
		m.missing(ClassMud)
	}
	m.mudCfg.RadiusMin = positive(m.mudCfg.RadiusMin, defaults.Mud.RadiusMin)
	m.mudCfg.RadiusMax = positive(m.mudCfg.RadiusMax, m.mudCfg.RadiusMin)
	m.mudCfg.SpeedMultiplier = positive(m.mudCfg.SpeedMultiplier, defaultMudSpeed)

	m.fireCfg = *defaults.Fire
	if cfg.Fire != nil {
		m.fireCfg = *cfg.Fire
		m.enable(ClassFire, &m.fireCfg.Placement)
	} else {
		m.missing(ClassFire)
	}
	m.fireCfg.RadiusMin = positive(m.fireCfg.RadiusMin, defaults.Fire.RadiusMin)
	m.fireCfg.RadiusMax = positive(m.fireCfg.RadiusMax, m.fireCfg.RadiusMin)
	m.fireCfg.DotDuration = positive(m.fireCfg.DotDuration, defaults.Fire.DotDuration)
	m.fireCfg.DotInterval = positive(m.fireCfg.DotInterval, defaults.Fire.DotInterval)
	m.fireCfg.ObjectPeriod = positive(m.fireCfg.ObjectPeriod, defaultFirePeriod)

	m.gasCfg = *defaults.Gas
	if cfg.Gas != nil {
		m.gasCfg = *cfg.Gas
		m.enable(ClassGas, &m.gasCfg.Placement)
	} else {
		m.missing(ClassGas)
	}
	m.gasCfg.Radius = positive(m.gasCfg.Radius, defaults.Gas.Radius)
	m.gasCfg.ExposureCap = positive(m.gasCfg.ExposureCap, defaultExposureCap)
	m.gasCfg.DecayFactor = positive(m.gasCfg.DecayFactor, defaultDecayFactor)

	m.barrelCfg = *defaults.Barrels
	if cfg.Barrels != nil {
		m.barrelCfg = *cfg.Barrels
		m.enable(ClassBarrel, &m.barrelCfg.Placement)
	} else {
		m.missing(ClassBarrel)
	}
	m.barrelCfg.Health = positive(m.barrelCfg.Health, defaults.Barrels.Health)
	m.barrelCfg.ExplosionRadius = positive(m.barrelCfg.ExplosionRadius, defaults.Barrels.ExplosionRadius)
	m.barrelCfg.VisualRadius = positive(m.barrelCfg.VisualRadius, defaults.Barrels.VisualRadius)
	m.barrelCfg.FuseDuration = positive(m.barrelCfg.FuseDuration, defaultFuseDuration)
	m.barrelCfg.FuseStep = positive(m.barrelCfg.FuseStep, defaultFuseStep)
	m.barrelCfg.ChainDelayMin = positive(m.barrelCfg.ChainDelayMin, defaultChainDelayMin)
	m.barrelCfg.ChainDelayMax = positive(m.barrelCfg.ChainDelayMax, defaultChainDelayMax)
	if m.barrelCfg.ChainDelayMax < m.barrelCfg.ChainDelayMin {
		m.barrelCfg.ChainDelayMax = m.barrelCfg.ChainDelayMin
	}

	m.trenchCfg = *defaults.Trenches
	if cfg.Trenches != nil {
		m.trenchCfg = *cfg.Trenches
		m.enable(ClassTrench, &m.trenchCfg.Placement)
	} else {
		m.missing(ClassTrench)
	}
	m.trenchCfg.HalfW = positive(m.trenchCfg.HalfW, defaults.Trenches.HalfW)
	m.trenchCfg.HalfH = positive(m.trenchCfg.HalfH, defaults.Trenches.HalfH)
	m.trenchCfg.RevealDuration = positive(m.trenchCfg.RevealDuration, defaults.Trenches.RevealDuration)
}

func (m *Manager) enable(class Class, p *Placement) {
	p.normalize()
	layout, err := ParseLayout(p.Layout)
	if err != nil {
		m.logger.Printf("warn: hazards: %s disabled: %v", class, err)
		return
	}
	m.layouts[class] = layout
	m.enabled[class] = p.Enabled
}

func (m *Manager) missing(class Class) {
	m.logger.Printf("warn: hazards: %s section missing, class disabled", class)
}

// Enabled reports whether a class takes part in placement.
func (m *Manager) Enabled(class Class) bool {
	if m == nil || class >= classCount {
		return false
	}
	return m.enabled[class]
}

// Clock returns the session time in simulation units.
func (m *Manager) Clock() float64 {
	if m == nil {
		return 0
	}
	return m.clock
}

// TickCount returns the number of completed ticks.
func (m *Manager) TickCount() uint64 {
	if m == nil {
		return 0
	}
	return m.tick
}

// World returns the world the hazards are placed in.
func (m *Manager) World() *world.World {
	if m == nil {
		return nil
	}
	return m.world
}

// PendingEvents reports how many scheduled events are queued.
func (m *Manager) PendingEvents() int {
	if m == nil {
		return 0
	}
	return m.schedule.pending()
}

func (m *Manager) newID(class Class) string {
	m.nextID[class]++
	return fmt.Sprintf("%s-%d", class, m.nextID[class])
}

// Status returns the hazard state of an actor seen by the last tick.
func (m *Manager) Status(actorID string) (ActorStatus, bool) {
	if m == nil {
		return ActorStatus{}, false
	}
	st, ok := m.statuses[actorID]
	if !ok {
		return ActorStatus{}, false
	}
	return st.snapshot(), true
}

// SpeedMultiplier returns the movement multiplier hazards imposed on an actor
// during the last tick. Unknown actors move at full speed.
func (m *Manager) SpeedMultiplier(actorID string) float64 {
	if m == nil {
		return 1
	}
	st, ok := m.statuses[actorID]
	if !ok {
		return 1
	}
	return st.status.SpeedMultiplier
}

// NotifyNoise reveals an actor hiding in a trench for the reveal duration.
func (m *Manager) NotifyNoise(actorID string) {
	if m == nil || actorID == "" {
		return
	}
	st, ok := m.statuses[actorID]
	if !ok {
		st = newActorState()
		m.statuses[actorID] = st
	}
	st.status.RevealTimer = m.trenchCfg.RevealDuration
}
