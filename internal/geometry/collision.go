package geometry

import "math"

const epsilon = 1e-9

// CircleIntersectsAABB reports whether a circle touches the rectangle.
func CircleIntersectsAABB(cx, cy, r float64, box AABB) bool {
	closestX := Clamp(cx, box.MinX(), box.MaxX())
	closestY := Clamp(cy, box.MinY(), box.MaxY())
	dx := cx - closestX
	dy := cy - closestY
	return dx*dx+dy*dy <= r*r
}

// CircleIntersectsOrientedBox reports whether a circle touches the rotated box.
func CircleIntersectsOrientedBox(cx, cy, r float64, box OrientedBox) bool {
	closest := ClosestPointOnOrientedBox(cx, cy, box)
	dx := cx - closest.X
	dy := cy - closest.Y
	return dx*dx+dy*dy <= r*r
}

// ClosestPointOnOrientedBox rotates the query into box space, clamps it to the
// half extents and rotates the result back. Points inside the box are returned
// unchanged.
func ClosestPointOnOrientedBox(px, py float64, box OrientedBox) Vec2 {
	lx, ly := box.toLocal(px, py)
	lx = Clamp(lx, -box.HalfW, box.HalfW)
	ly = Clamp(ly, -box.HalfH, box.HalfH)
	return box.toWorld(lx, ly)
}

// LineIntersectsAABB runs a slab test of the segment against the rectangle.
func LineIntersectsAABB(x1, y1, x2, y2 float64, box AABB) bool {
	_, ok := slabEntry(x1, y1, x2, y2, box.MinX(), box.MinY(), box.MaxX(), box.MaxY())
	return ok
}

// LineIntersectsOrientedBox transforms the segment into box space and runs the
// slab test there.
func LineIntersectsOrientedBox(x1, y1, x2, y2 float64, box OrientedBox) bool {
	ax, ay := box.toLocal(x1, y1)
	bx, by := box.toLocal(x2, y2)
	_, ok := slabEntry(ax, ay, bx, by, -box.HalfW, -box.HalfH, box.HalfW, box.HalfH)
	return ok
}

// LineOrientedBoxHitPoint approximates where a segment meets a box for impact
// feedback. The first edge crossing nearest the segment start wins; when the
// segment starts inside the box and crosses no edge the closest box point to
// the start is returned.
func LineOrientedBoxHitPoint(x1, y1, x2, y2 float64, box OrientedBox) (Vec2, bool) {
	if !LineIntersectsOrientedBox(x1, y1, x2, y2, box) {
		return Vec2{}, false
	}
	start := Vec2{X: x1, Y: y1}
	end := Vec2{X: x2, Y: y2}
	corners := box.Corners()
	best := math.Inf(1)
	var hit Vec2
	found := false
	for i := range corners {
		edge := Segment{A: corners[i], B: corners[(i+1)%4]}
		p, ok := SegmentIntersection(Segment{A: start, B: end}, edge)
		if !ok {
			continue
		}
		d := (p.X-x1)*(p.X-x1) + (p.Y-y1)*(p.Y-y1)
		if d < best {
			best = d
			hit = p
			found = true
		}
	}
	if found {
		return hit, true
	}
	return ClosestPointOnOrientedBox(x1, y1, box), true
}

// SegmentIntersection returns the crossing point of two segments.
func SegmentIntersection(s, o Segment) (Vec2, bool) {
	rx := s.B.X - s.A.X
	ry := s.B.Y - s.A.Y
	qx := o.B.X - o.A.X
	qy := o.B.Y - o.A.Y
	denom := rx*qy - ry*qx
	if math.Abs(denom) < epsilon {
		return Vec2{}, false
	}
	dx := o.A.X - s.A.X
	dy := o.A.Y - s.A.Y
	t := (dx*qy - dy*qx) / denom
	u := (dx*ry - dy*rx) / denom
	if t < 0 || t > 1 || u < 0 || u > 1 {
		return Vec2{}, false
	}
	return Vec2{X: s.A.X + t*rx, Y: s.A.Y + t*ry}, true
}

// PointInCone checks range with squared distances, then the angular offset
// between the cone direction and the point. extraRadius widens both checks so
// that targets with a body are caught at the cone edge.
func PointInCone(px, py, ox, oy, angle, maxRange, halfAngle, extraRadius float64) bool {
	dx := px - ox
	dy := py - oy
	distSq := dx*dx + dy*dy
	reach := maxRange + extraRadius
	if distSq > reach*reach {
		return false
	}
	if distSq < epsilon {
		return true
	}
	diff := math.Abs(NormalizeAngle(math.Atan2(dy, dx) - angle))
	if diff <= halfAngle {
		return true
	}
	if extraRadius <= 0 {
		return false
	}
	dist := math.Sqrt(distSq)
	if extraRadius >= dist {
		return true
	}
	return diff <= halfAngle+math.Asin(extraRadius/dist)
}

// SegmentCircleEntry returns where the segment first enters the circle, or
// its start when it begins inside.
func SegmentCircleEntry(x1, y1, x2, y2, cx, cy, r float64) (Vec2, bool) {
	dx := x2 - x1
	dy := y2 - y1
	fx := x1 - cx
	fy := y1 - cy
	if fx*fx+fy*fy <= r*r {
		return Vec2{X: x1, Y: y1}, true
	}
	a := dx*dx + dy*dy
	if a < epsilon {
		return Vec2{}, false
	}
	b := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - r*r
	disc := b*b - 4*a*c
	if disc < 0 {
		return Vec2{}, false
	}
	t := (-b - math.Sqrt(disc)) / (2 * a)
	if t < 0 || t > 1 {
		return Vec2{}, false
	}
	return Vec2{X: x1 + t*dx, Y: y1 + t*dy}, true
}

// DistanceToSegment returns the shortest distance from a point to a segment.
func DistanceToSegment(px, py float64, s Segment) float64 {
	vx := s.B.X - s.A.X
	vy := s.B.Y - s.A.Y
	lenSq := vx*vx + vy*vy
	if lenSq < epsilon {
		return math.Hypot(px-s.A.X, py-s.A.Y)
	}
	t := Clamp(((px-s.A.X)*vx+(py-s.A.Y)*vy)/lenSq, 0, 1)
	cx := s.A.X + t*vx
	cy := s.A.Y + t*vy
	return math.Hypot(px-cx, py-cy)
}

// DistanceToPolyline returns the shortest distance from a point to any leg of
// the polyline. An empty polyline is infinitely far away.
func DistanceToPolyline(px, py float64, points []Vec2) float64 {
	switch len(points) {
	case 0:
		return math.Inf(1)
	case 1:
		return math.Hypot(px-points[0].X, py-points[0].Y)
	}
	best := math.Inf(1)
	for i := 1; i < len(points); i++ {
		d := DistanceToSegment(px, py, Segment{A: points[i-1], B: points[i]})
		if d < best {
			best = d
		}
	}
	return best
}

// slabEntry clips the segment against the rectangle and reports the entry
// parameter in [0, 1].
func slabEntry(x1, y1, x2, y2, minX, minY, maxX, maxY float64) (float64, bool) {
	tMin := 0.0
	tMax := 1.0
	dx := x2 - x1
	dy := y2 - y1

	axes := [2]struct{ origin, delta, lo, hi float64 }{
		{x1, dx, minX, maxX},
		{y1, dy, minY, maxY},
	}
	for _, a := range axes {
		if math.Abs(a.delta) < epsilon {
			if a.origin < a.lo || a.origin > a.hi {
				return 0, false
			}
			continue
		}
		t1 := (a.lo - a.origin) / a.delta
		t2 := (a.hi - a.origin) / a.delta
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		if t1 > tMin {
			tMin = t1
		}
		if t2 < tMax {
			tMax = t2
		}
		if tMin > tMax {
			return 0, false
		}
	}
	return tMin, true
}
