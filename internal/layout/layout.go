// Package layout provides an in-memory layout database: cells holding shapes
// and text labels on named layers, instances placing cells under transforms,
// and recursive shape iteration flattened into top-cell coordinates.
package layout

import (
	"fmt"

	"siepic-tools/pkg/geometry"
)

// ShapeKind identifies which geometry backs a shape.
type ShapeKind int

const (
	KindPath ShapeKind = iota
	KindBox
	KindPolygon
)

func (k ShapeKind) String() string {
	switch k {
	case KindPath:
		return "Path"
	case KindBox:
		return "Box"
	case KindPolygon:
		return "Polygon"
	default:
		return "Unknown"
	}
}

// Shape is one drawn shape on a named layer. Exactly one of Path, Box or
// Polygon is set.
type Shape struct {
	Layer   string            `json:"layer"`
	Path    *geometry.Path    `json:"path,omitempty"`
	Box     *geometry.Rect    `json:"box,omitempty"`
	Polygon geometry.Polygon  `json:"polygon,omitempty"`
}

// Kind returns which geometry variant the shape carries.
func (s Shape) Kind() ShapeKind {
	switch {
	case s.Path != nil:
		return KindPath
	case s.Box != nil:
		return KindBox
	default:
		return KindPolygon
	}
}

// ToPolygon renders the shape's geometry as a polygon.
func (s Shape) ToPolygon() geometry.Polygon {
	switch {
	case s.Path != nil:
		return s.Path.ToPolygon()
	case s.Box != nil:
		return s.Box.ToPolygon()
	default:
		return s.Polygon
	}
}

// Transformed returns a copy of the shape with its geometry transformed.
// Boxes become their transformed bounding box, as in the host database.
func (s Shape) Transformed(t geometry.Trans) Shape {
	out := Shape{Layer: s.Layer}
	switch {
	case s.Path != nil:
		p := s.Path.Transformed(t)
		out.Path = &p
	case s.Box != nil:
		b := t.ApplyToRect(*s.Box)
		out.Box = &b
	default:
		out.Polygon = s.Polygon.Transformed(t)
	}
	return out
}

// BBox returns the shape's bounding box.
func (s Shape) BBox() geometry.Rect {
	switch {
	case s.Path != nil:
		return s.Path.BBox()
	case s.Box != nil:
		return *s.Box
	default:
		return s.Polygon.BBox()
	}
}

// Label is a text label on a layer, used to name pins.
type Label struct {
	Layer    string           `json:"layer"`
	Text     string           `json:"text"`
	Position geometry.Point2D `json:"position"`
}

// Inst places a named cell under a transform.
type Inst struct {
	Cell  string         `json:"cell"`
	Name  string         `json:"name,omitempty"` // instance name, e.g. "ring_1"
	Trans geometry.Trans `json:"trans"`
}

// Cell is a layout cell: shapes, labels and child instances.
type Cell struct {
	Name    string            `json:"name"`
	Library string            `json:"library,omitempty"`
	Params  map[string]string `json:"params,omitempty"` // PCell parameters
	Shapes  []Shape           `json:"shapes,omitempty"`
	Labels  []Label           `json:"labels,omitempty"`
	Insts   []Inst            `json:"insts,omitempty"`
}

// AddShape appends a shape to the cell.
func (c *Cell) AddShape(s Shape) {
	c.Shapes = append(c.Shapes, s)
}

// AddLabel appends a text label to the cell.
func (c *Cell) AddLabel(l Label) {
	c.Labels = append(c.Labels, l)
}

// AddInst appends a child instance to the cell.
func (c *Cell) AddInst(i Inst) {
	c.Insts = append(c.Insts, i)
}

// HasShapesOn reports whether the cell (not its children) draws anything on
// the given layer.
func (c *Cell) HasShapesOn(layer string) bool {
	for _, s := range c.Shapes {
		if s.Layer == layer {
			return true
		}
	}
	return false
}

// Layout is the layout database: a cell table, the top cell name, and the
// database unit in microns.
type Layout struct {
	DBU   float64          `json:"dbu"`
	Top   string           `json:"top"`
	Cells map[string]*Cell `json:"cells"`
}

// New creates an empty layout with the given database unit.
func New(dbu float64) *Layout {
	return &Layout{DBU: dbu, Cells: make(map[string]*Cell)}
}

// AddCell creates and registers a new named cell.
func (ly *Layout) AddCell(name string) *Cell {
	c := &Cell{Name: name}
	ly.Cells[name] = c
	return c
}

// Cell returns a cell by name, or nil.
func (ly *Layout) Cell(name string) *Cell {
	return ly.Cells[name]
}

// TopCell returns the top cell, or an error if unset or missing.
func (ly *Layout) TopCell() (*Cell, error) {
	if ly.Top == "" {
		return nil, fmt.Errorf("layout has no top cell")
	}
	c := ly.Cells[ly.Top]
	if c == nil {
		return nil, fmt.Errorf("top cell %q not found", ly.Top)
	}
	return c, nil
}

// maxDepth bounds hierarchy recursion to catch instance cycles.
const maxDepth = 64

// EachShape walks the cell and its instance tree, calling fn with each shape
// on the given layer flattened by the accumulated transform. This is the
// recursive shape iterator of the host database.
func (ly *Layout) EachShape(cell *Cell, layer string, fn func(Shape)) error {
	return ly.eachShape(cell, layer, geometry.Identity(), 0, fn)
}

func (ly *Layout) eachShape(cell *Cell, layer string, acc geometry.Trans, depth int, fn func(Shape)) error {
	if depth > maxDepth {
		return fmt.Errorf("cell %q: instance hierarchy deeper than %d, cycle suspected", cell.Name, maxDepth)
	}
	for _, s := range cell.Shapes {
		if s.Layer != layer {
			continue
		}
		fn(s.Transformed(acc))
	}
	for _, inst := range cell.Insts {
		child := ly.Cells[inst.Cell]
		if child == nil {
			return fmt.Errorf("cell %q: instance of unknown cell %q", cell.Name, inst.Cell)
		}
		if err := ly.eachShape(child, layer, acc.Compose(inst.Trans), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}

// EachLabel walks the cell and its instance tree, calling fn with each label
// on the given layer flattened by the accumulated transform.
func (ly *Layout) EachLabel(cell *Cell, layer string, fn func(Label)) error {
	return ly.eachLabel(cell, layer, geometry.Identity(), 0, fn)
}

func (ly *Layout) eachLabel(cell *Cell, layer string, acc geometry.Trans, depth int, fn func(Label)) error {
	if depth > maxDepth {
		return fmt.Errorf("cell %q: instance hierarchy deeper than %d, cycle suspected", cell.Name, maxDepth)
	}
	for _, l := range cell.Labels {
		if l.Layer != layer {
			continue
		}
		fn(Label{Layer: l.Layer, Text: l.Text, Position: acc.Apply(l.Position)})
	}
	for _, inst := range cell.Insts {
		child := ly.Cells[inst.Cell]
		if child == nil {
			return fmt.Errorf("cell %q: instance of unknown cell %q", cell.Name, inst.Cell)
		}
		if err := ly.eachLabel(child, layer, acc.Compose(inst.Trans), depth+1, fn); err != nil {
			return err
		}
	}
	return nil
}
