package layout

import (
	"siepic-tools/pkg/geometry"
)

// Region is a collection of polygons supporting merge into connected groups,
// the toolkit's equivalent of the host database's boolean region.
type Region struct {
	Polys []geometry.Polygon
}

// NewRegion creates an empty region.
func NewRegion() *Region {
	return &Region{}
}

// Insert adds a polygon to the region. Degenerate polygons are ignored.
func (r *Region) Insert(p geometry.Polygon) {
	if len(p) < 3 {
		return
	}
	r.Polys = append(r.Polys, p)
}

// InsertShape adds a shape's polygon rendering to the region.
func (r *Region) InsertShape(s Shape) {
	r.Insert(s.ToPolygon())
}

// Count returns the number of polygons in the region.
func (r *Region) Count() int {
	return len(r.Polys)
}

// MergedGroup is one connected group of touching/overlapping polygons,
// kept as its decomposed member polygons.
type MergedGroup struct {
	Polys []geometry.Polygon
}

// BBox returns the bounding box of the whole group.
func (g MergedGroup) BBox() geometry.Rect {
	if len(g.Polys) == 0 {
		return geometry.Rect{}
	}
	bb := g.Polys[0].BBox()
	for _, p := range g.Polys[1:] {
		bb = bb.Union(p.BBox())
	}
	return bb
}

// Hull returns the convex hull of all group vertices, a coarse outline of
// the merged geometry.
func (g MergedGroup) Hull() geometry.Polygon {
	var pts []geometry.Point2D
	for _, p := range g.Polys {
		pts = append(pts, p...)
	}
	return geometry.ConvexHull(pts)
}

// Merge partitions the region's polygons into connected groups: polygons
// that touch or overlap end up in the same group. Grouping uses BFS over a
// pairwise overlap test, like the netlist connectivity walk.
func (r *Region) Merge() []MergedGroup {
	n := len(r.Polys)
	if n == 0 {
		return nil
	}

	visited := make([]bool, n)
	var groups []MergedGroup
	for i := 0; i < n; i++ {
		if visited[i] {
			continue
		}
		var group MergedGroup
		queue := []int{i}
		visited[i] = true
		for len(queue) > 0 {
			curr := queue[0]
			queue = queue[1:]
			group.Polys = append(group.Polys, r.Polys[curr])
			for j := 0; j < n; j++ {
				if visited[j] {
					continue
				}
				if r.Polys[curr].Overlaps(r.Polys[j]) {
					visited[j] = true
					queue = append(queue, j)
				}
			}
		}
		groups = append(groups, group)
	}
	return groups
}
