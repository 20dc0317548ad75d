// Package geometry provides the 2D primitives used throughout the toolkit:
// points, rectangles, paths, polygons and placement transforms, all in
// floating-point database units (dbu).
package geometry

import (
	"math"
)

// Point2D represents a 2D point with floating-point coordinates.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NewPoint2D creates a new Point2D.
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Distance returns the Euclidean distance to another point.
func (p Point2D) Distance(other Point2D) float64 {
	return math.Hypot(p.X-other.X, p.Y-other.Y)
}

// Add returns the sum of two points.
func (p Point2D) Add(other Point2D) Point2D {
	return Point2D{X: p.X + other.X, Y: p.Y + other.Y}
}

// Sub returns the difference of two points.
func (p Point2D) Sub(other Point2D) Point2D {
	return Point2D{X: p.X - other.X, Y: p.Y - other.Y}
}

// Scale returns the point scaled by a factor.
func (p Point2D) Scale(factor float64) Point2D {
	return Point2D{X: p.X * factor, Y: p.Y * factor}
}

// Norm returns the vector length of the point.
func (p Point2D) Norm() float64 {
	return math.Hypot(p.X, p.Y)
}

// ToMicrons converts a point in database units to physical microns.
func (p Point2D) ToMicrons(dbu float64) Point2D {
	return Point2D{X: p.X * dbu, Y: p.Y * dbu}
}

// Midpoint returns the point halfway between p and other.
func (p Point2D) Midpoint(other Point2D) Point2D {
	return Point2D{X: (p.X + other.X) / 2, Y: (p.Y + other.Y) / 2}
}

// AngleVectorDeg returns the direction angle of vector v in degrees,
// normalized to [0, 360).
func AngleVectorDeg(v Point2D) float64 {
	deg := math.Atan2(v.Y, v.X) * 180.0 / math.Pi
	if deg < 0 {
		deg += 360.0
	}
	return deg
}

// Rect represents an axis-aligned rectangle with floating-point coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// NewRect creates a new Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// RectFromCorners creates the rectangle spanning two arbitrary corner points.
func RectFromCorners(a, b Point2D) Rect {
	x0 := math.Min(a.X, b.X)
	y0 := math.Min(a.Y, b.Y)
	return Rect{X: x0, Y: y0, Width: math.Abs(a.X - b.X), Height: math.Abs(a.Y - b.Y)}
}

// Contains returns true if the point is inside the rectangle.
func (r Rect) Contains(p Point2D) bool {
	return p.X >= r.X && p.X <= r.X+r.Width &&
		p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Center returns the center point of the rectangle.
func (r Rect) Center() Point2D {
	return Point2D{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Area returns the rectangle's area.
func (r Rect) Area() float64 {
	return r.Width * r.Height
}

// Intersects returns true if this rectangle intersects with another.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width && r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height && r.Y+r.Height >= other.Y
}

// Union returns the smallest rectangle containing both rectangles.
func (r Rect) Union(other Rect) Rect {
	x := math.Min(r.X, other.X)
	y := math.Min(r.Y, other.Y)
	x2 := math.Max(r.X+r.Width, other.X+other.Width)
	y2 := math.Max(r.Y+r.Height, other.Y+other.Height)
	return Rect{X: x, Y: y, Width: x2 - x, Height: y2 - y}
}

// Corners returns the four corner points in counter-clockwise order.
func (r Rect) Corners() []Point2D {
	return []Point2D{
		{X: r.X, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y},
		{X: r.X + r.Width, Y: r.Y + r.Height},
		{X: r.X, Y: r.Y + r.Height},
	}
}

// ToPolygon returns the rectangle as a four-vertex polygon.
func (r Rect) ToPolygon() Polygon {
	return Polygon(r.Corners())
}

// Trans represents a placement transform: an optional mirror about the x-axis,
// followed by a counter-clockwise rotation in degrees, followed by a
// displacement. This mirrors how layout databases describe cell instances.
type Trans struct {
	Rotation float64 `json:"rotation"` // degrees, counter-clockwise
	Mirror   bool    `json:"mirror"`   // mirror about the x-axis before rotating
	DX       float64 `json:"dx"`
	DY       float64 `json:"dy"`
}

// Identity returns the identity transform.
func Identity() Trans {
	return Trans{}
}

// Translation returns a pure displacement transform.
func Translation(dx, dy float64) Trans {
	return Trans{DX: dx, DY: dy}
}

// Rotation returns a pure rotation transform (degrees, counter-clockwise).
func Rotation(deg float64) Trans {
	return Trans{Rotation: deg}
}

// IsIdentity reports whether the transform leaves geometry unchanged.
func (t Trans) IsIdentity() bool {
	return !t.Mirror && t.DX == 0 && t.DY == 0 && math.Mod(t.Rotation, 360) == 0
}

// Apply applies the transform to a point.
func (t Trans) Apply(p Point2D) Point2D {
	x, y := p.X, p.Y
	if t.Mirror {
		y = -y
	}
	rad := t.Rotation * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Point2D{
		X: x*cos - y*sin + t.DX,
		Y: x*sin + y*cos + t.DY,
	}
}

// ApplyToVector applies only the mirror and rotation parts, for direction
// vectors that must not be displaced.
func (t Trans) ApplyToVector(v Point2D) Point2D {
	x, y := v.X, v.Y
	if t.Mirror {
		y = -y
	}
	rad := t.Rotation * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)
	return Point2D{X: x*cos - y*sin, Y: x*sin + y*cos}
}

// Compose returns the transform equivalent to applying other first, then t.
func (t Trans) Compose(other Trans) Trans {
	d := t.Apply(Point2D{X: other.DX, Y: other.DY})
	rot := other.Rotation
	if t.Mirror {
		rot = -rot
	}
	return Trans{
		Rotation: t.Rotation + rot,
		Mirror:   t.Mirror != other.Mirror,
		DX:       d.X,
		DY:       d.Y,
	}
}

// ApplyToRect transforms a rectangle and returns the bounding box of the
// transformed corners.
func (t Trans) ApplyToRect(r Rect) Rect {
	corners := r.Corners()
	pts := make([]Point2D, len(corners))
	for i, c := range corners {
		pts[i] = t.Apply(c)
	}
	return BoundingBox(pts)
}

// Centroid computes the centroid (average position) of a set of points.
func Centroid(points []Point2D) Point2D {
	if len(points) == 0 {
		return Point2D{}
	}
	var sumX, sumY float64
	for _, p := range points {
		sumX += p.X
		sumY += p.Y
	}
	n := float64(len(points))
	return Point2D{X: sumX / n, Y: sumY / n}
}

// BoundingBox computes the axis-aligned bounding box of a set of points.
func BoundingBox(points []Point2D) Rect {
	if len(points) == 0 {
		return Rect{}
	}
	minX, minY := points[0].X, points[0].Y
	maxX, maxY := minX, minY
	for _, p := range points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}
