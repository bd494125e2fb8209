package sim

import "time"

// CommandType enumerates the supported simulation commands.
type CommandType string

const (
	CommandMove         CommandType = "Move"
	CommandDamageLine   CommandType = "DamageLine"
	CommandDamageCircle CommandType = "DamageCircle"
	CommandDamageCone   CommandType = "DamageCone"
	CommandDamageBarrel CommandType = "DamageBarrel"
	CommandNoise        CommandType = "Noise"
)

// MoveCommand carries the desired movement vector. The vector is scaled by
// the actor's speed and hazard multiplier.
type MoveCommand struct {
	DX float64 `json:"dx"`
	DY float64 `json:"dy"`
}

// LineCommand is a projectile trace.
type LineCommand struct {
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	X2     float64 `json:"x2"`
	Y2     float64 `json:"y2"`
	Damage float64 `json:"damage"`
}

// CircleCommand is an area blast.
type CircleCommand struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Radius float64 `json:"radius"`
	Damage float64 `json:"damage"`
}

// ConeCommand is a melee arc.
type ConeCommand struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Angle     float64 `json:"angle"`
	Range     float64 `json:"range"`
	HalfAngle float64 `json:"halfAngle"`
	Damage    float64 `json:"damage"`
}

// BarrelCommand damages one barrel directly.
type BarrelCommand struct {
	ID     string  `json:"id"`
	Damage float64 `json:"damage"`
	HitX   float64 `json:"hitX"`
	HitY   float64 `json:"hitY"`
}

// Command represents an intent captured for processing on the next tick.
type Command struct {
	OriginTick uint64         `json:"originTick"`
	ActorID    string         `json:"actorId"`
	Type       CommandType    `json:"type"`
	IssuedAt   time.Time      `json:"issuedAt"`
	Move       *MoveCommand   `json:"move,omitempty"`
	Line       *LineCommand   `json:"line,omitempty"`
	Circle     *CircleCommand `json:"circle,omitempty"`
	Cone       *ConeCommand   `json:"cone,omitempty"`
	Barrel     *BarrelCommand `json:"barrel,omitempty"`
}

// Valid reports whether the payload required by the command type is present.
func (c Command) Valid() bool {
	switch c.Type {
	case CommandMove:
		return c.Move != nil && c.ActorID != ""
	case CommandDamageLine:
		return c.Line != nil
	case CommandDamageCircle:
		return c.Circle != nil
	case CommandDamageCone:
		return c.Cone != nil
	case CommandDamageBarrel:
		return c.Barrel != nil && c.Barrel.ID != ""
	case CommandNoise:
		return c.ActorID != ""
	}
	return false
}
