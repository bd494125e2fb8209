package wire

import (
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
)

// Coil is one concertina ring.
type Coil struct {
	Center geometry.Vec2 `json:"center" msgpack:"center"`
	Radius float64       `json:"r" msgpack:"r"`
}

// Stake is one double-apron picket and the wires fanning out of it.
type Stake struct {
	Base  geometry.Vec2      `json:"base" msgpack:"base"`
	Wires []geometry.Segment `json:"wires" msgpack:"wires"`
}

// Pattern is the generated geometry of one wire obstacle. Which fields are
// populated depends on Variant.
type Pattern struct {
	Variant    Variant            `json:"variant" msgpack:"variant"`
	Center     geometry.Vec2      `json:"center" msgpack:"center"`
	Points     []geometry.Vec2    `json:"points,omitempty" msgpack:"points,omitempty"`
	Coils      []Coil             `json:"coils,omitempty" msgpack:"coils,omitempty"`
	Posts      []geometry.Vec2    `json:"posts,omitempty" msgpack:"posts,omitempty"`
	Stakes     []Stake            `json:"stakes,omitempty" msgpack:"stakes,omitempty"`
	Connectors []geometry.Segment `json:"connectors,omitempty" msgpack:"connectors,omitempty"`
	Radius     float64            `json:"extent" msgpack:"extent"`
}

// Extent is the bounding radius around Center used for distance culling.
func (p Pattern) Extent() float64 {
	return p.Radius
}

// Contains reports whether the point lies within width of any strand.
func (p Pattern) Contains(px, py, width float64) bool {
	switch p.Variant {
	case VariantTangled:
		for i := 1; i < len(p.Points); i++ {
			if geometry.DistanceToSegment(px, py, geometry.Segment{A: p.Points[i-1], B: p.Points[i]}) <= width {
				return true
			}
		}
		return false
	case VariantSpiral:
		return geometry.DistanceToPolyline(px, py, p.Points) <= width
	case VariantTripleConcertina:
		for _, coil := range p.Coils {
			d := math.Hypot(px-coil.Center.X, py-coil.Center.Y)
			if math.Abs(d-coil.Radius) <= width {
				return true
			}
		}
		return false
	case VariantDoubleApron:
		for _, stake := range p.Stakes {
			for _, w := range stake.Wires {
				if geometry.DistanceToSegment(px, py, w) <= width {
					return true
				}
			}
		}
		for _, c := range p.Connectors {
			if geometry.DistanceToSegment(px, py, c) <= width {
				return true
			}
		}
		return false
	case VariantUnknown:
		return false
	}
	return false
}

const coilRenderSegments = 12

// Segments flattens the pattern into line segments. Coils are approximated
// by regular polygons.
func (p Pattern) Segments() []geometry.Segment {
	switch p.Variant {
	case VariantTangled, VariantSpiral:
		if len(p.Points) < 2 {
			return nil
		}
		out := make([]geometry.Segment, 0, len(p.Points)-1)
		for i := 1; i < len(p.Points); i++ {
			out = append(out, geometry.Segment{A: p.Points[i-1], B: p.Points[i]})
		}
		return out
	case VariantTripleConcertina:
		out := make([]geometry.Segment, 0, len(p.Coils)*coilRenderSegments)
		for _, coil := range p.Coils {
			for i := 0; i < coilRenderSegments; i++ {
				a0 := 2 * math.Pi * float64(i) / coilRenderSegments
				a1 := 2 * math.Pi * float64(i+1) / coilRenderSegments
				out = append(out, geometry.Segment{
					A: geometry.Vec2{X: coil.Center.X + coil.Radius*math.Cos(a0), Y: coil.Center.Y + coil.Radius*math.Sin(a0)},
					B: geometry.Vec2{X: coil.Center.X + coil.Radius*math.Cos(a1), Y: coil.Center.Y + coil.Radius*math.Sin(a1)},
				})
			}
		}
		return out
	case VariantDoubleApron:
		var out []geometry.Segment
		for _, stake := range p.Stakes {
			out = append(out, stake.Wires...)
		}
		return append(out, p.Connectors...)
	case VariantUnknown:
		return nil
	}
	return nil
}

func (p *Pattern) computeExtent() {
	grow := func(x, y, pad float64) {
		if d := math.Hypot(x-p.Center.X, y-p.Center.Y) + pad; d > p.Radius {
			p.Radius = d
		}
	}
	for _, pt := range p.Points {
		grow(pt.X, pt.Y, 0)
	}
	for _, coil := range p.Coils {
		grow(coil.Center.X, coil.Center.Y, coil.Radius)
	}
	for _, post := range p.Posts {
		grow(post.X, post.Y, 0)
	}
	for _, stake := range p.Stakes {
		grow(stake.Base.X, stake.Base.Y, 0)
		for _, w := range stake.Wires {
			grow(w.A.X, w.A.Y, 0)
			grow(w.B.X, w.B.Y, 0)
		}
	}
	for _, c := range p.Connectors {
		grow(c.A.X, c.A.Y, 0)
		grow(c.B.X, c.B.Y, 0)
	}
}
