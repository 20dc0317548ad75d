package geometry

import "math"

// Polygon is a simple (non-self-intersecting) polygon given by its vertex
// ring. The ring is implicitly closed; the last vertex connects to the first.
type Polygon []Point2D

// BBox returns the polygon's axis-aligned bounding box.
func (pg Polygon) BBox() Rect {
	return BoundingBox(pg)
}

// Center returns the center of the polygon's bounding box, matching how
// layout databases report polygon centers.
func (pg Polygon) Center() Point2D {
	return pg.BBox().Center()
}

// Area returns the enclosed area via the shoelace formula, independent of
// winding direction.
func (pg Polygon) Area() float64 {
	if len(pg) < 3 {
		return 0
	}
	var sum float64
	n := len(pg)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += pg[i].X*pg[j].Y - pg[j].X*pg[i].Y
	}
	return math.Abs(sum) / 2
}

// Contains tests if a point is inside the polygon using ray casting.
func (pg Polygon) Contains(p Point2D) bool {
	if len(pg) < 3 {
		return false
	}
	inside := false
	n := len(pg)
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := pg[i], pg[j]
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}
	return inside
}

// Transformed returns a copy of the polygon with all vertices transformed.
func (pg Polygon) Transformed(t Trans) Polygon {
	out := make(Polygon, len(pg))
	for i, p := range pg {
		out[i] = t.Apply(p)
	}
	return out
}

// Overlaps reports whether two polygons touch or overlap: any vertex of one
// inside the other, or any pair of edges intersecting.
func (pg Polygon) Overlaps(other Polygon) bool {
	if len(pg) == 0 || len(other) == 0 {
		return false
	}
	if !pg.BBox().Intersects(other.BBox()) {
		return false
	}
	for _, p := range pg {
		if other.Contains(p) {
			return true
		}
	}
	for _, p := range other {
		if pg.Contains(p) {
			return true
		}
	}
	n, m := len(pg), len(other)
	for i := 0; i < n; i++ {
		a1, a2 := pg[i], pg[(i+1)%n]
		for j := 0; j < m; j++ {
			b1, b2 := other[j], other[(j+1)%m]
			if segmentsIntersect(a1, a2, b1, b2) {
				return true
			}
		}
	}
	return false
}

// ConvexHull computes the convex hull of a set of points using Graham scan.
// Returns the points forming the convex hull in counter-clockwise order.
func ConvexHull(points []Point2D) []Point2D {
	if len(points) < 3 {
		return points
	}

	pts := make([]Point2D, len(points))
	copy(pts, points)

	// Pivot: lowest y, then leftmost
	lowest := 0
	for i := 1; i < len(pts); i++ {
		if pts[i].Y < pts[lowest].Y ||
			(pts[i].Y == pts[lowest].Y && pts[i].X < pts[lowest].X) {
			lowest = i
		}
	}
	pts[0], pts[lowest] = pts[lowest], pts[0]
	pivot := pts[0]

	sorted := make([]Point2D, len(pts)-1)
	copy(sorted, pts[1:])
	for i := 0; i < len(sorted)-1; i++ {
		for j := i + 1; j < len(sorted); j++ {
			cross := crossProduct(pivot, sorted[i], sorted[j])
			if cross < 0 || (cross == 0 && distSq(pivot, sorted[i]) > distSq(pivot, sorted[j])) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}

	hull := []Point2D{pivot}
	for _, p := range sorted {
		for len(hull) > 1 && crossProduct(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	return hull
}

// segmentsIntersect reports whether segments a1-a2 and b1-b2 intersect,
// including touching endpoints.
func segmentsIntersect(a1, a2, b1, b2 Point2D) bool {
	d1 := crossProduct(b1, b2, a1)
	d2 := crossProduct(b1, b2, a2)
	d3 := crossProduct(a1, a2, b1)
	d4 := crossProduct(a1, a2, b2)

	if ((d1 > 0 && d2 < 0) || (d1 < 0 && d2 > 0)) &&
		((d3 > 0 && d4 < 0) || (d3 < 0 && d4 > 0)) {
		return true
	}
	if d1 == 0 && onSegment(b1, b2, a1) {
		return true
	}
	if d2 == 0 && onSegment(b1, b2, a2) {
		return true
	}
	if d3 == 0 && onSegment(a1, a2, b1) {
		return true
	}
	if d4 == 0 && onSegment(a1, a2, b2) {
		return true
	}
	return false
}

// onSegment reports whether point p lies on the segment a-b, assuming the
// three points are collinear.
func onSegment(a, b, p Point2D) bool {
	return math.Min(a.X, b.X) <= p.X && p.X <= math.Max(a.X, b.X) &&
		math.Min(a.Y, b.Y) <= p.Y && p.Y <= math.Max(a.Y, b.Y)
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// distSq computes the squared distance between two points.
func distSq(a, b Point2D) float64 {
	dx := b.X - a.X
	dy := b.Y - a.Y
	return dx*dx + dy*dy
}
