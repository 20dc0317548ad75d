package waveguide

import (
	"fmt"
	"math"

	"siepic-tools/pkg/geometry"
)

// arcSegments is the number of straight segments approximating one bend.
const arcSegments = 16

// Generated is one polygon of waveguide geometry on a layer.
type Generated struct {
	Layer   string           `json:"layer"`
	Polygon geometry.Polygon `json:"polygon"`
}

// Generate turns a routing path (microns, axis-aligned or free-angle) into
// waveguide polygons per the profile: corners are rounded with the bend
// radius (circular arcs, or bezier bends when adiabatic), then each layer
// spec is drawn as a strip of its width at its lateral offset.
func Generate(route []geometry.Point2D, p Params) ([]Generated, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if len(route) < 2 {
		return nil, fmt.Errorf("waveguide route needs at least two points, got %d", len(route))
	}

	center := roundedCenterline(route, p.Radius, p.Adiabatic, p.Bezier)

	var out []Generated
	for _, spec := range p.Wgs {
		line := center
		if spec.Offset != 0 {
			line = shiftPolyline(center, spec.Offset)
		}
		left, right := geometry.OffsetPolyline(line, spec.Width/2)
		poly := make(geometry.Polygon, 0, len(left)+len(right))
		poly = append(poly, left...)
		for i := len(right) - 1; i >= 0; i-- {
			poly = append(poly, right[i])
		}
		out = append(out, Generated{Layer: spec.Layer, Polygon: poly})
	}
	return out, nil
}

// Length returns the centerline length of the generated waveguide, for
// simulation parameter annotation.
func Length(route []geometry.Point2D, p Params) float64 {
	center := roundedCenterline(route, p.Radius, p.Adiabatic, p.Bezier)
	return geometry.Path{Points: center}.Length()
}

// roundedCenterline replaces each interior corner of the route with a
// sampled bend of the given radius. The tangent length is clamped to the
// shorter adjoining half-segment so bends never overrun.
func roundedCenterline(route []geometry.Point2D, radius float64, adiabatic bool, bezier float64) []geometry.Point2D {
	if len(route) < 3 {
		return route
	}

	out := []geometry.Point2D{route[0]}
	for i := 1; i < len(route)-1; i++ {
		prev, corner, next := route[i-1], route[i], route[i+1]

		vin := corner.Sub(prev)
		vout := next.Sub(corner)
		lin, lout := vin.Norm(), vout.Norm()
		if lin == 0 || lout == 0 {
			continue
		}
		uin := vin.Scale(1 / lin)
		uout := vout.Scale(1 / lout)

		// Turn angle between segments
		dot := uin.X*uout.X + uin.Y*uout.Y
		dot = math.Max(-1, math.Min(1, dot))
		theta := math.Acos(dot)
		if theta < 1e-9 {
			continue // collinear, no bend
		}

		// Tangent distance from the corner where the bend starts/ends
		tangent := radius * math.Tan(theta/2)
		maxTangent := math.Min(lin, lout) / 2
		if tangent > maxTangent {
			tangent = maxTangent
		}

		start := corner.Sub(uin.Scale(tangent))
		end := corner.Add(uout.Scale(tangent))

		if adiabatic {
			out = append(out, bezierBend(start, corner, end, bezier)...)
		} else {
			out = append(out, circularBend(start, corner, end, uin, uout, tangent, theta)...)
		}
	}
	out = append(out, route[len(route)-1])
	return out
}

// circularBend samples the arc tangent to both segments at start and end.
func circularBend(start, corner, end, uin, uout geometry.Point2D, tangent, theta float64) []geometry.Point2D {
	// Arc center: offset from start along the inward normal of the
	// incoming segment. Turn direction decides which normal.
	cross := uin.X*uout.Y - uin.Y*uout.X
	sign := 1.0
	if cross < 0 {
		sign = -1.0
	}
	r := tangent / math.Tan(theta/2)
	normal := geometry.Point2D{X: -uin.Y * sign, Y: uin.X * sign}
	arcCenter := start.Add(normal.Scale(r))

	a0 := math.Atan2(start.Y-arcCenter.Y, start.X-arcCenter.X)
	sweep := sign * theta

	pts := make([]geometry.Point2D, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		a := a0 + sweep*float64(i)/float64(arcSegments)
		pts = append(pts, geometry.Point2D{
			X: arcCenter.X + r*math.Cos(a),
			Y: arcCenter.Y + r*math.Sin(a),
		})
	}
	return pts
}

// bezierBend samples a cubic bezier from start to end with control points
// pulled toward the corner by the bezier parameter.
func bezierBend(start, corner, end geometry.Point2D, bezier float64) []geometry.Point2D {
	c1 := start.Add(corner.Sub(start).Scale(bezier))
	c2 := end.Add(corner.Sub(end).Scale(bezier))

	pts := make([]geometry.Point2D, 0, arcSegments+1)
	for i := 0; i <= arcSegments; i++ {
		t := float64(i) / float64(arcSegments)
		mt := 1 - t
		b0 := mt * mt * mt
		b1 := 3 * mt * mt * t
		b2 := 3 * mt * t * t
		b3 := t * t * t
		pts = append(pts, geometry.Point2D{
			X: b0*start.X + b1*c1.X + b2*c2.X + b3*end.X,
			Y: b0*start.Y + b1*c1.Y + b2*c2.Y + b3*end.Y,
		})
	}
	return pts
}

// shiftPolyline displaces a polyline laterally by off (positive = left of
// travel direction).
func shiftPolyline(pts []geometry.Point2D, off float64) []geometry.Point2D {
	left, right := geometry.OffsetPolyline(pts, math.Abs(off))
	if off >= 0 {
		return left
	}
	return right
}
