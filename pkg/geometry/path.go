package geometry

// Path is a polyline with a width, as drawn on a layout layer. Pin paths are
// two-point paths whose vector gives the pin direction.
type Path struct {
	Points []Point2D `json:"points"`
	Width  float64   `json:"width"`
}

// NewPath creates a path from points and a width.
func NewPath(points []Point2D, width float64) Path {
	return Path{Points: points, Width: width}
}

// Midpoint returns the midpoint of the path's first two points. For a
// two-point pin path this is the pin center.
func (pa Path) Midpoint() Point2D {
	if len(pa.Points) == 0 {
		return Point2D{}
	}
	if len(pa.Points) == 1 {
		return pa.Points[0]
	}
	return pa.Points[0].Midpoint(pa.Points[1])
}

// DirectionDeg returns the direction angle from the path's second point to
// its first point, in degrees [0, 360). This is the pin direction convention
// used by netlist extraction.
func (pa Path) DirectionDeg() float64 {
	if len(pa.Points) < 2 {
		return 0
	}
	return AngleVectorDeg(pa.Points[0].Sub(pa.Points[1]))
}

// Length returns the total polyline length.
func (pa Path) Length() float64 {
	var total float64
	for i := 1; i < len(pa.Points); i++ {
		total += pa.Points[i].Distance(pa.Points[i-1])
	}
	return total
}

// Transformed returns a copy of the path with all points transformed.
func (pa Path) Transformed(t Trans) Path {
	pts := make([]Point2D, len(pa.Points))
	for i, p := range pa.Points {
		pts[i] = t.Apply(p)
	}
	return Path{Points: pts, Width: pa.Width}
}

// ExtendedEnd returns a copy of the path with its last point moved away from
// the preceding point by dist, keeping the segment direction. Used to extend
// pin paths so they overlap adjoining waveguide geometry.
func (pa Path) ExtendedEnd(dist float64) Path {
	if len(pa.Points) < 2 {
		return pa
	}
	pts := make([]Point2D, len(pa.Points))
	copy(pts, pa.Points)
	last := len(pts) - 1
	dir := pts[last].Sub(pts[last-1])
	n := dir.Norm()
	if n == 0 {
		return Path{Points: pts, Width: pa.Width}
	}
	pts[last] = pts[last].Add(dir.Scale(dist / n))
	return Path{Points: pts, Width: pa.Width}
}

// ToPolygon expands the path by its width into a polygon outline. Vertices at
// interior corners use miter joins.
func (pa Path) ToPolygon() Polygon {
	if len(pa.Points) < 2 || pa.Width <= 0 {
		return nil
	}
	left, right := OffsetPolyline(pa.Points, pa.Width/2)
	out := make(Polygon, 0, len(left)+len(right))
	out = append(out, left...)
	for i := len(right) - 1; i >= 0; i-- {
		out = append(out, right[i])
	}
	return out
}

// BBox returns the bounding box of the path expanded by its width.
func (pa Path) BBox() Rect {
	poly := pa.ToPolygon()
	if poly == nil {
		return BoundingBox(pa.Points)
	}
	return poly.BBox()
}

// OffsetPolyline computes the two sides of a polyline offset by dist on each
// side, using miter joins at interior vertices. Returns the left and right
// offset point sequences.
func OffsetPolyline(pts []Point2D, dist float64) (left, right []Point2D) {
	n := len(pts)
	if n < 2 {
		return nil, nil
	}
	left = make([]Point2D, n)
	right = make([]Point2D, n)

	normal := func(a, b Point2D) Point2D {
		d := b.Sub(a)
		l := d.Norm()
		if l == 0 {
			return Point2D{}
		}
		return Point2D{X: -d.Y / l, Y: d.X / l}
	}

	for i := 0; i < n; i++ {
		var nm Point2D
		switch {
		case i == 0:
			nm = normal(pts[0], pts[1])
		case i == n-1:
			nm = normal(pts[n-2], pts[n-1])
		default:
			n1 := normal(pts[i-1], pts[i])
			n2 := normal(pts[i], pts[i+1])
			nm = n1.Add(n2)
			l := nm.Norm()
			if l < 1e-12 {
				nm = n1
			} else {
				// Miter scaling keeps the offset distance at the join
				nm = nm.Scale(1 / l)
				dot := nm.X*n1.X + nm.Y*n1.Y
				if dot != 0 {
					nm = nm.Scale(1 / dot)
				}
				left[i] = pts[i].Add(nm.Scale(dist))
				right[i] = pts[i].Sub(nm.Scale(dist))
				continue
			}
		}
		left[i] = pts[i].Add(nm.Scale(dist))
		right[i] = pts[i].Sub(nm.Scale(dist))
	}
	return left, right
}
