package netlist

import (
	"fmt"

	"siepic-tools/internal/layout"
	"siepic-tools/internal/models"
	"siepic-tools/internal/tech"
	"siepic-tools/pkg/geometry"
)

// pinStubMicrons is how far pin paths are extended outward when deriving
// simulation geometry, so they overlap adjoining waveguides for the mesher.
const pinStubMicrons = 1.0

// Component is one placed cell instance recognized during extraction: its
// identity, placement, parameters, device-recognition outline and pins.
type Component struct {
	Idx      int               `json:"idx"`      // unique sequential index within a pass
	Name     string            `json:"name"`     // component type name (cell basic name)
	Instance string            `json:"instance"` // placed instance name
	Cell     string            `json:"cell"`     // layout cell the instance places
	Library  string            `json:"library,omitempty"`
	Trans    geometry.Trans    `json:"trans"`
	Params   map[string]string `json:"params,omitempty"` // simulation parameters
	Pins     []*Pin            `json:"pins"`
	Polygon  geometry.Polygon  `json:"polygon"` // DevRec outline, top-cell coordinates
	Center   geometry.Point2D  `json:"center"`  // derived from Polygon bbox, dbu
	DCenter  geometry.Point2D  `json:"dcenter"` // Center in microns
}

// NewComponent creates a component from its recognition outline. Center is
// derived from the outline's bounding box, never set independently.
func NewComponent(idx int, name string, devrec geometry.Polygon, dbu float64) *Component {
	center := devrec.Center()
	return &Component{
		Idx:     idx,
		Name:    name,
		Polygon: devrec,
		Center:  center,
		DCenter: center.ToMicrons(dbu),
	}
}

// NPins returns the pin count. It is always len(Pins).
func (c *Component) NPins() int {
	return len(c.Pins)
}

// PinNamed returns the first pin with the given name, or nil.
func (c *Component) PinNamed(name string) *Pin {
	for _, p := range c.Pins {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// PinsOfType returns the component's pins of one type.
func (c *Component) PinsOfType(t PinType) []*Pin {
	var out []*Pin
	for _, p := range c.Pins {
		if p.Type == t {
			out = append(out, p)
		}
	}
	return out
}

// PinScanner re-discovers a component's pins from its current geometry.
type PinScanner interface {
	FindPins(c *Component) ([]*Pin, error)
}

// FindPins delegates to the scanner to re-discover this component's pins.
// The result is returned without mutating c.Pins; the caller decides whether
// to commit it, so a failed re-scan never leaves inconsistent state.
func (c *Component) FindPins(scanner PinScanner) ([]*Pin, error) {
	if scanner == nil {
		return nil, fmt.Errorf("component %d: nil pin scanner", c.Idx)
	}
	return scanner.FindPins(c)
}

// HasModel reports whether the component has a compact model in the given
// technology's design kit. It is advisory: missing technology or registry
// data answers false, never an error.
func (c *Component) HasModel(t *tech.Technology, reg *models.Registry) bool {
	if t == nil || reg == nil {
		return false
	}
	return reg.Has(t.Name, c.Name)
}

// Polygons derives simulation-ready waveguide geometry for the component:
// the union of all waveguide-layer shapes in its cell plus its pin paths,
// each extended outward by a 1 micron stub so the pin geometry overlaps the
// adjoining waveguide. Returns the merged groups' decomposed polygons.
func (c *Component) Polygons(ly *layout.Layout, t *tech.Technology) ([]geometry.Polygon, error) {
	if ly == nil || t == nil {
		return nil, fmt.Errorf("component %d: layout and technology required", c.Idx)
	}
	cell := ly.Cell(c.Cell)
	if cell == nil {
		return nil, fmt.Errorf("component %d: cell %q not found", c.Idx, c.Cell)
	}

	region := layout.NewRegion()

	err := ly.EachShape(cell, tech.LayerWaveguide, func(s layout.Shape) {
		region.InsertShape(s.Transformed(c.Trans))
	})
	if err != nil {
		return nil, err
	}

	stub := t.MicronsToDBU(pinStubMicrons)
	err = ly.EachShape(cell, tech.LayerPinRec, func(s layout.Shape) {
		if s.Path == nil {
			return
		}
		path := s.Path.Transformed(c.Trans).ExtendedEnd(stub)
		region.Insert(path.ToPolygon())
	})
	if err != nil {
		return nil, err
	}

	var polys []geometry.Polygon
	for _, group := range region.Merge() {
		polys = append(polys, group.Polys...)
	}
	return polys, nil
}

func (c *Component) String() string {
	return fmt.Sprintf("component %s-%d / %s, (%.3f, %.3f), npins %d",
		c.Name, c.Idx, c.Instance, c.DCenter.X, c.DCenter.Y, c.NPins())
}
