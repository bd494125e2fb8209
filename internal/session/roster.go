package session

import (
	"github.com/spider2544-git/TopDownShooter12-sub002/internal/hazards"
)

// Unit is an actor owned by a session. Health and stamina live here; hazards
// only read positions and call back into Damage and DrainStamina.
type Unit struct {
	ID        string            `json:"id" msgpack:"id"`
	Kind      hazards.ActorKind `json:"kind" msgpack:"kind"`
	X         float64           `json:"x" msgpack:"x"`
	Y         float64           `json:"y" msgpack:"y"`
	Size      float64           `json:"radius" msgpack:"radius"`
	Health    float64           `json:"health" msgpack:"health"`
	MaxHealth float64           `json:"maxHealth" msgpack:"maxHealth"`
	ArmorPct  float64           `json:"armor" msgpack:"armor"`
	Stamina   float64           `json:"stamina" msgpack:"stamina"`
	LastHitBy string            `json:"lastHitBy,omitempty" msgpack:"lastHitBy,omitempty"`
}

func (u *Unit) ActorID() string { return u.ID }
func (u *Unit) ActorKind() hazards.ActorKind { return u.Kind }
func (u *Unit) Position() (float64, float64) { return u.X, u.Y }
func (u *Unit) Radius() float64 { return u.Size }
func (u *Unit) Alive() bool { return u.Health > 0 }
func (u *Unit) Armor() float64 { return u.ArmorPct }

// Damage implements hazards.Actor.
func (u *Unit) Damage(amount float64, source string) {
	if amount <= 0 || u.Health <= 0 {
		return
	}
	u.Health -= amount
	if u.Health < 0 {
		u.Health = 0
	}
	u.LastHitBy = source
}

// DrainStamina implements hazards.StaminaActor.
func (u *Unit) DrainStamina(amount float64) {
	u.Stamina -= amount
	if u.Stamina < 0 {
		u.Stamina = 0
	}
}

// Roster keeps units in insertion order so hazard passes are deterministic.
type Roster struct {
	order []*Unit
	index map[string]*Unit
}

// NewRoster returns an empty roster.
func NewRoster() *Roster {
	return &Roster{index: make(map[string]*Unit)}
}

// Add registers a unit, replacing any unit with the same id.
func (r *Roster) Add(u *Unit) {
	if u == nil || u.ID == "" {
		return
	}
	if _, ok := r.index[u.ID]; ok {
		r.Remove(u.ID)
	}
	r.order = append(r.order, u)
	r.index[u.ID] = u
}

// Remove drops a unit.
func (r *Roster) Remove(id string) bool {
	if _, ok := r.index[id]; !ok {
		return false
	}
	delete(r.index, id)
	for i, u := range r.order {
		if u.ID == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return true
}

// Get looks a unit up by id.
func (r *Roster) Get(id string) (*Unit, bool) {
	u, ok := r.index[id]
	return u, ok
}

// Len reports the number of units.
func (r *Roster) Len() int {
	return len(r.order)
}

// Actors implements hazards.ActorProvider.
func (r *Roster) Actors() []hazards.Actor {
	out := make([]hazards.Actor, len(r.order))
	for i, u := range r.order {
		out[i] = u
	}
	return out
}

func (r *Roster) units() []Unit {
	out := make([]Unit, len(r.order))
	for i, u := range r.order {
		out[i] = *u
	}
	return out
}
