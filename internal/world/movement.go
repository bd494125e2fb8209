package world

import (
	"math"

	"github.com/spider2544-git/TopDownShooter12-sub002/internal/geometry"
)

// ResolveCircleMove moves a circle of radius r from (x, y) towards (nx, ny).
// The full move wins when it is free. Otherwise the circle slides along
// whichever single axis is unobstructed, preferring the axis with the longer
// displacement. The result is always clamped inside the bounds.
func (w *World) ResolveCircleMove(x, y, nx, ny, r float64) (float64, float64) {
	if w == nil {
		return nx, ny
	}
	rx, ry := x, y
	switch {
	case !w.CircleHitsAny(nx, ny, r):
		rx, ry = nx, ny
	default:
		dx := math.Abs(nx - x)
		dy := math.Abs(ny - y)
		xFree := dx > 0 && !w.CircleHitsAny(nx, y, r)
		yFree := dy > 0 && !w.CircleHitsAny(x, ny, r)
		switch {
		case xFree && yFree:
			if dx >= dy {
				rx = nx
			} else {
				ry = ny
			}
		case xFree:
			rx = nx
		case yFree:
			ry = ny
		}
	}
	return w.clampToBounds(rx, ry, r)
}

func (w *World) clampToBounds(x, y, r float64) (float64, float64) {
	b := w.bounds
	minX, maxX := b.MinX+r, b.MaxX-r
	minY, maxY := b.MinY+r, b.MaxY-r
	if minX > maxX {
		minX, maxX = (b.MinX+b.MaxX)/2, (b.MinX+b.MaxX)/2
	}
	if minY > maxY {
		minY, maxY = (b.MinY+b.MaxY)/2, (b.MinY+b.MaxY)/2
	}
	return geometry.Clamp(x, minX, maxX), geometry.Clamp(y, minY, maxY)
}
