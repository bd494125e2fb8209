package geometry

import "math"

// Vec2 is a point or direction in world units.
type Vec2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// AABB is an axis-aligned rectangle described by its center and half extents.
type AABB struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	HalfW float64 `json:"hw" msgpack:"hw"`
	HalfH float64 `json:"hh" msgpack:"hh"`
}

// OrientedBox is a rectangle rotated by Angle radians around its center.
type OrientedBox struct {
	X     float64 `json:"x" msgpack:"x"`
	Y     float64 `json:"y" msgpack:"y"`
	HalfW float64 `json:"hw" msgpack:"hw"`
	HalfH float64 `json:"hh" msgpack:"hh"`
	Angle float64 `json:"angle" msgpack:"angle"`
}

// Segment is a line segment from A to B.
type Segment struct {
	A Vec2 `json:"a" msgpack:"a"`
	B Vec2 `json:"b" msgpack:"b"`
}

// Circle is a disc with center and radius.
type Circle struct {
	X      float64 `json:"x" msgpack:"x"`
	Y      float64 `json:"y" msgpack:"y"`
	Radius float64 `json:"r" msgpack:"r"`
}

// Clamp limits value to the range [min, max].
func Clamp(value, min, max float64) float64 {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

// NormalizeAngle wraps an angle into (-π, π].
func NormalizeAngle(a float64) float64 {
	a = math.Mod(a, 2*math.Pi)
	if a <= -math.Pi {
		a += 2 * math.Pi
	} else if a > math.Pi {
		a -= 2 * math.Pi
	}
	return a
}

// WithinCull is the shared broad-phase check: the squared distance between the
// two points is compared against reach² before any exact test runs.
func WithinCull(ax, ay, bx, by, reach float64) bool {
	dx := ax - bx
	dy := ay - by
	return dx*dx+dy*dy <= reach*reach
}

// MinX returns the left edge.
func (r AABB) MinX() float64 { return r.X - r.HalfW }

// MaxX returns the right edge.
func (r AABB) MaxX() float64 { return r.X + r.HalfW }

// MinY returns the top edge.
func (r AABB) MinY() float64 { return r.Y - r.HalfH }

// MaxY returns the bottom edge.
func (r AABB) MaxY() float64 { return r.Y + r.HalfH }

// Contains reports whether the point lies inside or on the rectangle.
func (r AABB) Contains(px, py float64) bool {
	return px >= r.MinX() && px <= r.MaxX() && py >= r.MinY() && py <= r.MaxY()
}

// Overlaps checks for AABB overlap with optional padding.
func (r AABB) Overlaps(o AABB, padding float64) bool {
	return r.MinX()-padding < o.MaxX()+padding &&
		r.MaxX()+padding > o.MinX()-padding &&
		r.MinY()-padding < o.MaxY()+padding &&
		r.MaxY()+padding > o.MinY()-padding
}

// AsOrientedBox views the rectangle as an unrotated oriented box.
func (r AABB) AsOrientedBox() OrientedBox {
	return OrientedBox{X: r.X, Y: r.Y, HalfW: r.HalfW, HalfH: r.HalfH}
}

// Corners returns the four box corners in world space, counter-clockwise in
// local space starting at (-hw, -hh).
func (b OrientedBox) Corners() [4]Vec2 {
	local := [4]Vec2{
		{X: -b.HalfW, Y: -b.HalfH},
		{X: b.HalfW, Y: -b.HalfH},
		{X: b.HalfW, Y: b.HalfH},
		{X: -b.HalfW, Y: b.HalfH},
	}
	var out [4]Vec2
	for i, p := range local {
		out[i] = b.toWorld(p.X, p.Y)
	}
	return out
}

// BoundingRadius is the distance from the center to a corner.
func (b OrientedBox) BoundingRadius() float64 {
	return math.Hypot(b.HalfW, b.HalfH)
}

func (b OrientedBox) toLocal(px, py float64) (float64, float64) {
	dx := px - b.X
	dy := py - b.Y
	cos := math.Cos(-b.Angle)
	sin := math.Sin(-b.Angle)
	return dx*cos - dy*sin, dx*sin + dy*cos
}

func (b OrientedBox) toWorld(lx, ly float64) Vec2 {
	cos := math.Cos(b.Angle)
	sin := math.Sin(b.Angle)
	return Vec2{X: b.X + lx*cos - ly*sin, Y: b.Y + lx*sin + ly*cos}
}
