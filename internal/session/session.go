package session

import (
	"fmt"
	"math"
	"sync"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/sim"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/telemetry"
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/world"
	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const defaultActorSpeed = 160.0

// Config describes one battlefield session.
type Config struct {
	World   world.Config   `mapstructure:"world"`
	Hazards hazards.Config `mapstructure:"hazards"`
	// ActorSpeed is the movement speed in world units per time unit before
	// hazard multipliers.
	ActorSpeed float64 `mapstructure:"actorSpeed"`
}

// Deps bundles the collaborators of a Session.
type Deps struct {
	Publisher logging.Publisher
	Logger    telemetry.Logger
	Metrics   telemetry.Metrics
}

// Session owns one world, its hazard manager and its units. Every method is
// safe for concurrent use; ticks and external calls serialize on one mutex.
type Session struct {
	mu      sync.Mutex
	world   *world.World
	hazards *hazards.Manager
	roster  *Roster
	intents map[string][2]float64
	speed   float64
	logger  telemetry.Logger
	metrics telemetry.Metrics
}

// Snapshot is the full session state for clients.
type Snapshot struct {
	Tick      uint64           `json:"tick" msgpack:"tick"`
	Clock     float64          `json:"clock" msgpack:"clock"`
	Seed      string           `json:"seed" msgpack:"seed"`
	Bounds    world.Bounds     `json:"bounds" msgpack:"bounds"`
	Obstacles []world.Obstacle `json:"obstacles" msgpack:"obstacles"`
	Units     []Unit           `json:"units" msgpack:"units"`
	Hazards   hazards.Snapshot `json:"hazards" msgpack:"hazards"`
}

// New builds the world, resolves the hazards against it and places them.
func New(cfg Config, deps Deps) (*Session, error) {
	if deps.Logger == nil {
		deps.Logger = telemetry.NopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = telemetry.NopMetrics()
	}
	if deps.Publisher == nil {
		deps.Publisher = logging.NopPublisher()
	}

	w, err := world.New(cfg.World, world.Deps{Logger: deps.Logger, Metrics: deps.Metrics})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	roster := NewRoster()
	manager, err := hazards.New(cfg.Hazards, w, hazards.Deps{
		Publisher: logging.WithFields(deps.Publisher, map[string]any{"seed": w.Seed()}),
		Actors:    roster,
		Logger:    deps.Logger,
		Metrics:   deps.Metrics,
	})
	if err != nil {
		return nil, fmt.Errorf("session: %w", err)
	}
	if _, err := manager.Spawn(); err != nil {
		return nil, fmt.Errorf("session: spawn hazards: %w", err)
	}

	speed := cfg.ActorSpeed
	if speed <= 0 {
		speed = defaultActorSpeed
	}
	return &Session{
		world:   w,
		hazards: manager,
		roster:  roster,
		intents: make(map[string][2]float64),
		speed:   speed,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}, nil
}

// AddUnit registers a unit. Units are placed where requested; callers pick
// spawn points.
func (s *Session) AddUnit(u Unit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.MaxHealth <= 0 {
		u.MaxHealth = u.Health
	}
	unit := u
	s.roster.Add(&unit)
}

// RemoveUnit drops a unit and its pending movement.
func (s *Session) RemoveUnit(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.intents, id)
	return s.roster.Remove(id)
}

// Unit returns a copy of a unit.
func (s *Session) Unit(id string) (Unit, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.roster.Get(id)
	if !ok {
		return Unit{}, false
	}
	return *u, true
}

// Apply implements sim.Engine.
func (s *Session) Apply(cmds []sim.Command) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cmd := range cmds {
		s.applyLocked(cmd)
	}
}

func (s *Session) applyLocked(cmd sim.Command) {
	switch cmd.Type {
	case sim.CommandMove:
		if cmd.Move == nil {
			return
		}
		if _, ok := s.roster.Get(cmd.ActorID); !ok {
			return
		}
		s.intents[cmd.ActorID] = [2]float64{cmd.Move.DX, cmd.Move.DY}
	case sim.CommandDamageLine:
		if l := cmd.Line; l != nil {
			s.hazards.DamageFromLine(l.X1, l.Y1, l.X2, l.Y2, l.Damage)
		}
	case sim.CommandDamageCircle:
		if c := cmd.Circle; c != nil {
			s.hazards.DamageFromCircle(c.X, c.Y, c.Radius, c.Damage)
		}
	case sim.CommandDamageCone:
		if c := cmd.Cone; c != nil {
			s.hazards.DamageFromCone(c.X, c.Y, c.Angle, c.Range, c.HalfAngle, c.Damage)
		}
	case sim.CommandDamageBarrel:
		if b := cmd.Barrel; b != nil {
			s.hazards.DamageBarrel(b.ID, b.Damage, b.HitX, b.HitY)
		}
	case sim.CommandNoise:
		s.hazards.NotifyNoise(cmd.ActorID)
	default:
		s.logger.Printf("warn: session: ignoring command type %q", cmd.Type)
	}
}

// Step implements sim.Engine. Units move first using the hazard multipliers
// from the previous tick, then hazards advance.
func (s *Session) Step(dt float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.roster.order {
		intent, ok := s.intents[u.ID]
		if !ok {
			continue
		}
		if !u.Alive() {
			delete(s.intents, u.ID)
			continue
		}
		s.moveLocked(u, intent[0], intent[1], dt)
	}
	s.hazards.Tick(dt)
}

func (s *Session) moveLocked(u *Unit, dx, dy, dt float64) {
	length := math.Hypot(dx, dy)
	if length < 1e-9 {
		return
	}
	if length > 1 {
		dx /= length
		dy /= length
	}
	step := s.speed * s.hazards.SpeedMultiplier(u.ID) * dt
	u.X, u.Y = s.world.ResolveCircleMove(u.X, u.Y, u.X+dx*step, u.Y+dy*step, u.Size)
}

// Tick runs one step without going through a loop. It is meant for tools and
// tests.
func (s *Session) Tick(dt float64) {
	s.Step(dt)
}

// Snapshot copies the session state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Tick:      s.hazards.TickCount(),
		Clock:     s.hazards.Clock(),
		Seed:      s.world.Seed(),
		Bounds:    s.world.Bounds(),
		Obstacles: s.world.Obstacles(),
		Units:     s.roster.units(),
		Hazards:   s.hazards.Serialize(),
	}
}

// EncodeSnapshot renders the current state as msgpack.
func (s *Session) EncodeSnapshot() ([]byte, error) {
	snap := s.Snapshot()
	data, err := msgpack.Marshal(&snap)
	if err != nil {
		return nil, fmt.Errorf("session: encode snapshot: %w", err)
	}
	return data, nil
}

// Status returns the hazard state of a unit.
func (s *Session) Status(id string) (hazards.ActorStatus, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hazards.Status(id)
}

// WithHazards runs fn with exclusive access to the hazard manager.
func (s *Session) WithHazards(fn func(*hazards.Manager)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.hazards)
}

var _ sim.Engine = (*Session)(nil)
