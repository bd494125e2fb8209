package hazards

import (
	"context"

	"github.com/spider2544-git/TopDownShooter12-sub002/logging"
)

const (
	// EventSandbagHit is emitted whenever a sandbag absorbs damage.
	EventSandbagHit logging.EventType = "hazards.sandbag_hit"
	// EventSandbagRemoved is emitted when a sandbag is destroyed.
	EventSandbagRemoved logging.EventType = "hazards.sandbag_removed"
	// EventBarrelHit is emitted whenever a barrel absorbs damage.
	EventBarrelHit logging.EventType = "hazards.barrel_hit"
	// EventBarrelFuseStarted is emitted when a barrel starts its fuse.
	EventBarrelFuseStarted logging.EventType = "hazards.barrel_fuse_started"
	// EventBarrelFuseTick is emitted for every fuse step.
	EventBarrelFuseTick logging.EventType = "hazards.barrel_fuse_tick"
	// EventBarrelExploded is emitted once per detonation.
	EventBarrelExploded logging.EventType = "hazards.barrel_exploded"
	// EventGasIntensity is emitted when gas exposure rises from or returns to zero.
	EventGasIntensity logging.EventType = "hazards.gas_intensity"
	// EventBurnState is emitted when an actor ignites or is extinguished.
	EventBurnState logging.EventType = "hazards.burn_state"
	// EventMudState is emitted when an actor enters or leaves mud.
	EventMudState logging.EventType = "hazards.mud_state"
	// EventConcealment is emitted when trench concealment changes.
	EventConcealment logging.EventType = "hazards.concealment"
	// EventFireDamage is emitted for periodic fire damage against objects and
	// non-player actors.
	EventFireDamage logging.EventType = "hazards.fire_damage"
)

// Point is a world position.
type Point struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// HitPayload describes damage absorbed by a destructible object.
type HitPayload struct {
	Damage    float64 `json:"damage" msgpack:"damage"`
	Health    float64 `json:"health" msgpack:"health"`
	HealthMax float64 `json:"healthMax" msgpack:"healthMax"`
	HitX      float64 `json:"hitX" msgpack:"hitX"`
	HitY      float64 `json:"hitY" msgpack:"hitY"`
}

// SandbagRemovedPayload carries enough geometry to render remnants.
type SandbagRemovedPayload struct {
	X        float64  `json:"x" msgpack:"x"`
	Y        float64  `json:"y" msgpack:"y"`
	Width    float64  `json:"width" msgpack:"width"`
	Height   float64  `json:"height" msgpack:"height"`
	Rotation float64  `json:"rotation" msgpack:"rotation"`
	Corners  [4]Point `json:"corners" msgpack:"corners"`
}

// FusePayload describes fuse progress.
type FusePayload struct {
	Health    float64 `json:"health" msgpack:"health"`
	HealthMax float64 `json:"healthMax" msgpack:"healthMax"`
	Elapsed   float64 `json:"elapsed" msgpack:"elapsed"`
	Duration  float64 `json:"duration" msgpack:"duration"`
}

// ExplodedPayload describes a detonation.
type ExplodedPayload struct {
	X            float64  `json:"x" msgpack:"x"`
	Y            float64  `json:"y" msgpack:"y"`
	Radius       float64  `json:"radius" msgpack:"radius"`
	Damage       float64  `json:"damage" msgpack:"damage"`
	ChainTargets []string `json:"chainTargets,omitempty" msgpack:"chainTargets,omitempty"`
	Cause        string   `json:"cause" msgpack:"cause"`
}

// IntensityPayload reports normalized gas exposure.
type IntensityPayload struct {
	Intensity float64 `json:"intensity" msgpack:"intensity"`
}

// StatePayload reports an edge-triggered boolean state change.
type StatePayload struct {
	Active   bool   `json:"active" msgpack:"active"`
	SourceID string `json:"sourceId,omitempty" msgpack:"sourceId,omitempty"`
}

// FireDamagePayload reports one periodic fire application.
type FireDamagePayload struct {
	PoolID string  `json:"poolId" msgpack:"poolId"`
	Damage float64 `json:"damage" msgpack:"damage"`
}

func publish(ctx context.Context, pub logging.Publisher, event logging.Event) {
	if pub == nil {
		return
	}
	pub.Publish(ctx, event)
}

// SandbagHit publishes damage absorbed by a sandbag.
func SandbagHit(ctx context.Context, pub logging.Publisher, tick uint64, sandbag logging.EntityRef, payload HitPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSandbagHit,
		Tick:     tick,
		Actor:    sandbag,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// SandbagRemoved publishes a sandbag destruction.
func SandbagRemoved(ctx context.Context, pub logging.Publisher, tick uint64, sandbag logging.EntityRef, payload SandbagRemovedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventSandbagRemoved,
		Tick:     tick,
		Actor:    sandbag,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// BarrelHit publishes damage absorbed by a barrel.
func BarrelHit(ctx context.Context, pub logging.Publisher, tick uint64, barrel logging.EntityRef, payload HitPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventBarrelHit,
		Tick:     tick,
		Actor:    barrel,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// BarrelFuseStarted publishes the start of a fuse.
func BarrelFuseStarted(ctx context.Context, pub logging.Publisher, tick uint64, barrel logging.EntityRef, payload FusePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventBarrelFuseStarted,
		Tick:     tick,
		Actor:    barrel,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// BarrelFuseTick publishes one fuse step.
func BarrelFuseTick(ctx context.Context, pub logging.Publisher, tick uint64, barrel logging.EntityRef, payload FusePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventBarrelFuseTick,
		Tick:     tick,
		Actor:    barrel,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// BarrelExploded publishes a detonation and the actors it damaged.
func BarrelExploded(ctx context.Context, pub logging.Publisher, tick uint64, barrel logging.EntityRef, targets []logging.EntityRef, payload ExplodedPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventBarrelExploded,
		Tick:     tick,
		Actor:    barrel,
		Targets:  targets,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryDestruction,
		Payload:  payload,
	})
}

// GasIntensity publishes a gas exposure edge.
func GasIntensity(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload IntensityPayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventGasIntensity,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryHazards,
		Payload:  payload,
	})
}

// BurnState publishes ignition or extinguishing.
func BurnState(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StatePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventBurnState,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityInfo,
		Category: logging.CategoryHazards,
		Payload:  payload,
	})
}

// MudState publishes entering or leaving mud.
func MudState(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StatePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventMudState,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryHazards,
		Payload:  payload,
	})
}

// Concealment publishes a trench concealment change.
func Concealment(ctx context.Context, pub logging.Publisher, tick uint64, actor logging.EntityRef, payload StatePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventConcealment,
		Tick:     tick,
		Actor:    actor,
		Severity: logging.SeverityDebug,
		Category: logging.CategoryHazards,
		Payload:  payload,
	})
}

// FireDamage publishes periodic fire damage against a target.
func FireDamage(ctx context.Context, pub logging.Publisher, tick uint64, pool logging.EntityRef, target logging.EntityRef, payload FireDamagePayload) {
	publish(ctx, pub, logging.Event{
		Type:     EventFireDamage,
		Tick:     tick,
		Actor:    pool,
		Targets:  []logging.EntityRef{target},
		Severity: logging.SeverityDebug,
		Category: logging.CategoryHazards,
		Payload:  payload,
	})
}
