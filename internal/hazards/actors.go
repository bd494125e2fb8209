package hazards

import (
	"fmt"
	"sort"

	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

// ActorKind distinguishes how hazards treat an actor.
type ActorKind uint8

const (
	ActorPlayer ActorKind = iota + 1
	ActorEnemy
	ActorTroop
)

func (k ActorKind) String() string {
	switch k {
	case ActorPlayer:
		return "player"
	case ActorEnemy:
		return "enemy"
	case ActorTroop:
		return "troop"
	}
	return fmt.Sprintf("ActorKind(%d)", uint8(k))
}

func (k ActorKind) entityKind() logging.EntityKind {
	switch k {
	case ActorPlayer:
		return logging.EntityKindPlayer
	case ActorEnemy:
		return logging.EntityKindEnemy
	case ActorTroop:
		return logging.EntityKindTroop
	}
	return logging.EntityKindUnknown
}

// Actor is the view of an entity the hazard core reads and damages. Health
// bookkeeping stays with the entity.
type Actor interface {
	ActorID() string
	ActorKind() ActorKind
	Position() (float64, float64)
	Radius() float64
	Alive() bool
	Damage(amount float64, source string)
}

// ArmoredActor reports the fraction of explosion damage it absorbs.
type ArmoredActor interface {
	Actor
	Armor() float64
}

// StaminaActor loses stamina while breathing gas.
type StaminaActor interface {
	Actor
	DrainStamina(amount float64)
}

// ActorProvider lists the actors hazards act on each tick.
type ActorProvider interface {
	Actors() []Actor
}

// ActorProviderFunc adapts a function into an ActorProvider.
type ActorProviderFunc func() []Actor

// Actors implements ActorProvider.
func (f ActorProviderFunc) Actors() []Actor {
	if f == nil {
		return nil
	}
	return f()
}

// DotEntry is one damage-over-time record on an actor.
type DotEntry struct {
	Key          string  `json:"key" msgpack:"key"`
	DPS          float64 `json:"dps" msgpack:"dps"`
	TickInterval float64 `json:"tickInterval" msgpack:"tickInterval"`
	Remaining    float64 `json:"remaining" msgpack:"remaining"`
	NextTick     float64 `json:"nextTick" msgpack:"nextTick"`
}

// ActorStatus is the hazard-owned state of one actor.
type ActorStatus struct {
	SpeedMultiplier float64    `json:"speedMultiplier" msgpack:"speedMultiplier"`
	InWire          bool       `json:"inWire" msgpack:"inWire"`
	InMud           bool       `json:"inMud" msgpack:"inMud"`
	Burning         bool       `json:"burning" msgpack:"burning"`
	InGas           bool       `json:"inGas" msgpack:"inGas"`
	GasExposure     float64    `json:"gasExposure" msgpack:"gasExposure"`
	GasIntensity    float64    `json:"gasIntensity" msgpack:"gasIntensity"`
	InTrench        bool       `json:"inTrench" msgpack:"inTrench"`
	Concealed       bool       `json:"concealed" msgpack:"concealed"`
	RevealTimer     float64    `json:"revealTimer" msgpack:"revealTimer"`
	Dots            []DotEntry `json:"dots,omitempty" msgpack:"dots,omitempty"`
}

type actorState struct {
	status ActorStatus
	dots   map[string]*DotEntry
	seen   uint64
}

func newActorState() *actorState {
	return &actorState{
		status: ActorStatus{SpeedMultiplier: 1},
		dots:   make(map[string]*DotEntry),
	}
}

func (s *actorState) snapshot() ActorStatus {
	out := s.status
	out.Dots = nil
	if len(s.dots) > 0 {
		out.Dots = make([]DotEntry, 0, len(s.dots))
		for _, d := range s.dots {
			out.Dots = append(out.Dots, *d)
		}
		sort.Slice(out.Dots, func(i, j int) bool { return out.Dots[i].Key < out.Dots[j].Key })
	}
	return out
}

func actorRef(a Actor) logging.EntityRef {
	return logging.EntityRef{ID: a.ActorID(), Kind: a.ActorKind().entityKind()}
}
