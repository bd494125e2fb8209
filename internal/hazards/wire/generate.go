package wire

import (
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
)

// Random is the subset of the world generator the synthesizer draws from.
type Random interface {
	Float64() float64
	Range(min, max float64) float64
}

// Params carries the shape parameters of every variant.
type Params struct {
	TangledSegments int `mapstructure:"tangledSegments"`

	SpiralCoils           int     `mapstructure:"spiralCoils"`
	SpiralSegmentsPerCoil int     `mapstructure:"spiralSegmentsPerCoil"`
	SpiralRadius          float64 `mapstructure:"spiralRadius"`
	SpiralAdvance         float64 `mapstructure:"spiralAdvance"`

	Concertina ConcertinaParams `mapstructure:"concertina"`
	Apron      ApronParams      `mapstructure:"apron"`
}

// ConcertinaParams shapes a triple concertina fence.
type ConcertinaParams struct {
	CoilsPerRow int     `mapstructure:"coilsPerRow"`
	CoilRadius  float64 `mapstructure:"coilRadius"`
	Spacing     float64 `mapstructure:"spacing"`
	RowGap      float64 `mapstructure:"rowGap"`
	Posts       int     `mapstructure:"posts"`
}

// ApronParams shapes a double apron fence.
type ApronParams struct {
	Stakes        int     `mapstructure:"stakes"`
	Spacing       float64 `mapstructure:"spacing"`
	FanWires      int     `mapstructure:"fanWires"`
	FanAngle      float64 `mapstructure:"fanAngle"`
	BaseLength    float64 `mapstructure:"baseLength"`
	LengthStep    float64 `mapstructure:"lengthStep"`
	ConnectorRise float64 `mapstructure:"connectorRise"`
}

// DefaultParams returns the stock wire shapes.
func DefaultParams() Params {
	return Params{
		TangledSegments:       14,
		SpiralCoils:           5,
		SpiralSegmentsPerCoil: 12,
		SpiralRadius:          16,
		SpiralAdvance:         18,
		Concertina: ConcertinaParams{
			CoilsPerRow: 6,
			CoilRadius:  14,
			Spacing:     22,
			RowGap:      20,
			Posts:       4,
		},
		Apron: ApronParams{
			Stakes:        5,
			Spacing:       36,
			FanWires:      3,
			FanAngle:      math.Pi / 5,
			BaseLength:    14,
			LengthStep:    8,
			ConnectorRise: 10,
		},
	}
}

// Generate builds the pattern for a variant around (cx, cy).
func Generate(v Variant, cx, cy float64, rng Random, p Params) (Pattern, bool) {
	switch v {
	case VariantTangled:
		return Tangled(cx, cy, rng, p.TangledSegments), true
	case VariantSpiral:
		return Spiral(cx, cy, p.SpiralCoils, p.SpiralSegmentsPerCoil, p.SpiralRadius, p.SpiralAdvance), true
	case VariantTripleConcertina:
		return TripleConcertina(cx, cy, p.Concertina), true
	case VariantDoubleApron:
		return DoubleApron(cx, cy, p.Apron), true
	case VariantUnknown:
		return Pattern{}, false
	}
	return Pattern{}, false
}

// Tangled draws a chaotic polyline of n segments. Each step advances
// horizontally by a random length with vertical jitter; roughly one step in
// five doubles back for an overlapping look. The strand stays within a band
// around cy.
func Tangled(cx, cy float64, rng Random, n int) Pattern {
	if n < 1 {
		n = 1
	}
	const (
		minStep = 10.0
		maxStep = 24.0
		jitter  = 12.0
		band    = 28.0
	)
	span := float64(n) * (minStep + maxStep) / 2 * 0.6
	x := cx - span/2
	y := cy + rng.Range(-jitter, jitter)
	points := make([]geometry.Vec2, 0, n+1)
	points = append(points, geometry.Vec2{X: x, Y: y})
	for i := 0; i < n; i++ {
		step := rng.Range(minStep, maxStep)
		if rng.Float64() < 0.2 {
			step = -step * 0.5
		}
		x += step
		y = geometry.Clamp(y+rng.Range(-jitter, jitter), cy-band, cy+band)
		points = append(points, geometry.Vec2{X: x, Y: y})
	}
	p := Pattern{Variant: VariantTangled, Center: geometry.Vec2{X: cx, Y: cy}, Points: points}
	p.computeExtent()
	return p
}

// Spiral traces a helix of coils × segmentsPerCoil steps. The horizontal
// offset advances by advance per coil and is centered on cx.
func Spiral(cx, cy float64, coils, segmentsPerCoil int, radius, advance float64) Pattern {
	if coils < 1 {
		coils = 1
	}
	if segmentsPerCoil < 3 {
		segmentsPerCoil = 3
	}
	steps := coils * segmentsPerCoil
	start := -advance * float64(coils) / 2
	points := make([]geometry.Vec2, 0, steps+1)
	for i := 0; i <= steps; i++ {
		t := float64(i) / float64(segmentsPerCoil)
		theta := 2 * math.Pi * t
		offset := start + advance*t
		points = append(points, geometry.Vec2{
			X: cx + offset + radius*math.Cos(theta),
			Y: cy + radius*math.Sin(theta),
		})
	}
	p := Pattern{Variant: VariantSpiral, Center: geometry.Vec2{X: cx, Y: cy}, Points: points}
	p.computeExtent()
	return p
}

// TripleConcertina lays three rows of evenly spaced coils, each row shifted
// horizontally by a third of the spacing, plus evenly spread support posts.
func TripleConcertina(cx, cy float64, c ConcertinaParams) Pattern {
	if c.CoilsPerRow < 1 {
		c.CoilsPerRow = 1
	}
	span := float64(c.CoilsPerRow-1) * c.Spacing
	coils := make([]Coil, 0, 3*c.CoilsPerRow)
	for row := 0; row < 3; row++ {
		shift := float64(row-1) * c.Spacing / 3
		y := cy + float64(row-1)*c.RowGap
		for i := 0; i < c.CoilsPerRow; i++ {
			coils = append(coils, Coil{
				Center: geometry.Vec2{X: cx - span/2 + shift + float64(i)*c.Spacing, Y: y},
				Radius: c.CoilRadius,
			})
		}
	}
	var posts []geometry.Vec2
	if c.Posts > 0 {
		posts = make([]geometry.Vec2, 0, c.Posts)
		for i := 0; i < c.Posts; i++ {
			t := 0.5
			if c.Posts > 1 {
				t = float64(i) / float64(c.Posts-1)
			}
			posts = append(posts, geometry.Vec2{X: cx - span/2 + t*span, Y: cy})
		}
	}
	p := Pattern{Variant: VariantTripleConcertina, Center: geometry.Vec2{X: cx, Y: cy}, Coils: coils, Posts: posts}
	p.computeExtent()
	return p
}

// DoubleApron places stakes along a horizontal line. Every stake fans
// FanWires wires to each side at FanAngle, each wire LengthStep longer than
// the previous and alternating direction along the line. Consecutive stakes
// are joined by connectors at three vertical offsets.
func DoubleApron(cx, cy float64, a ApronParams) Pattern {
	if a.Stakes < 1 {
		a.Stakes = 1
	}
	span := float64(a.Stakes-1) * a.Spacing
	stakes := make([]Stake, 0, a.Stakes)
	for i := 0; i < a.Stakes; i++ {
		base := geometry.Vec2{X: cx - span/2 + float64(i)*a.Spacing, Y: cy}
		wires := make([]geometry.Segment, 0, 2*a.FanWires)
		for j := 0; j < a.FanWires; j++ {
			length := a.BaseLength + float64(j)*a.LengthStep
			dir := 1.0
			if j%2 == 1 {
				dir = -1
			}
			for _, side := range [2]float64{-1, 1} {
				wires = append(wires, geometry.Segment{
					A: base,
					B: geometry.Vec2{
						X: base.X + dir*length*math.Cos(a.FanAngle),
						Y: base.Y + side*length*math.Sin(a.FanAngle),
					},
				})
			}
		}
		stakes = append(stakes, Stake{Base: base, Wires: wires})
	}
	var connectors []geometry.Segment
	for i := 1; i < len(stakes); i++ {
		from := stakes[i-1].Base
		to := stakes[i].Base
		for _, rise := range [3]float64{-a.ConnectorRise, 0, a.ConnectorRise} {
			connectors = append(connectors, geometry.Segment{
				A: geometry.Vec2{X: from.X, Y: from.Y + rise},
				B: geometry.Vec2{X: to.X, Y: to.Y + rise},
			})
		}
	}
	p := Pattern{Variant: VariantDoubleApron, Center: geometry.Vec2{X: cx, Y: cy}, Stakes: stakes, Connectors: connectors}
	p.computeExtent()
	return p
}
