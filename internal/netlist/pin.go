// Package netlist provides the connectivity data model: components, their
// pins, and the nets inferred from pin overlap during a layout extraction
// pass. Extraction rebuilds the whole model each pass; nothing is updated
// incrementally.
package netlist

import (
	"fmt"

	"siepic-tools/pkg/geometry"
)

// PinType classifies a connection point.
type PinType int

const (
	// Optical pins connect pairwise to form optical nets.
	Optical PinType = iota
	// Electrical pins may form multi-way nets.
	Electrical
	// OpticalIO pins connect to the outside world (fiber targets) and
	// terminate a net rather than extending it.
	OpticalIO
)

func (t PinType) String() string {
	switch t {
	case Optical:
		return "Optical"
	case Electrical:
		return "Electrical"
	case OpticalIO:
		return "OpticalIO"
	default:
		return "Unknown"
	}
}

// NoComponent and the disconnected net index are the sentinel back-references
// for pins that have not been attached or matched yet.
const NoComponent = -1

// Pin is one connection point on a component or waveguide. Exactly one
// backing geometry is set:
//   - a two-point path for optical pins, whose vector gives the direction
//   - a box for electrical pins
//   - a polygon (fiber targets, imported pins)
//
// Center and Rotation are always derived from the backing geometry. The
// component and net fields are indices into the owning extraction, not
// pointers, so a pin never outlives or dangles into a rebuilt model.
type Pin struct {
	Type     PinType          `json:"type"`
	Name     string           `json:"name,omitempty"` // from a layout label, may be absent
	Path     *geometry.Path   `json:"path,omitempty"`
	Box      *geometry.Rect   `json:"box,omitempty"`
	Polygon  geometry.Polygon `json:"polygon,omitempty"`
	Center   geometry.Point2D `json:"center"`
	Rotation float64          `json:"rotation"` // degrees, optical direction

	Component int `json:"component"` // owning component index, NoComponent if unattached
	Net       int `json:"net"`       // net index, DisconnectedNet until matched
}

// PinSpec describes a pin to construct. Exactly one of Path, Box or Polygon
// must be set.
type PinSpec struct {
	Type    PinType
	Name    string
	Path    *geometry.Path
	Box     *geometry.Rect
	Polygon geometry.Polygon
}

// NewPin constructs a pin from a spec, deriving center and rotation from the
// single backing geometry. Zero geometries fail with ErrMissingGeometry,
// more than one with ErrAmbiguousPinGeometry; the upstream behavior of
// silently preferring one geometry is rejected here.
func NewPin(spec PinSpec) (*Pin, error) {
	count := 0
	if spec.Path != nil {
		count++
	}
	if spec.Box != nil {
		count++
	}
	if len(spec.Polygon) > 0 {
		count++
	}
	if count == 0 {
		return nil, ErrMissingGeometry
	}
	if count > 1 {
		return nil, ErrAmbiguousPinGeometry
	}

	p := &Pin{
		Type:      spec.Type,
		Name:      spec.Name,
		Component: NoComponent,
		Net:       DisconnectedNet,
	}
	switch {
	case spec.Path != nil:
		if len(spec.Path.Points) != 2 {
			return nil, fmt.Errorf("%w: got %d points", ErrBadPinPath, len(spec.Path.Points))
		}
		path := *spec.Path
		p.Path = &path
		p.Center = path.Midpoint()
		p.Rotation = path.DirectionDeg()
	case spec.Box != nil:
		box := *spec.Box
		p.Box = &box
		p.Center = box.Center()
	default:
		p.Polygon = spec.Polygon
		p.Center = spec.Polygon.Center()
	}
	return p, nil
}

// Transform applies a transform to the pin in place, recomputing center and
// rotation from the transformed geometry, and returns the pin for chaining.
// Unlike the upstream implementation, boxes and polygons are transformed too.
func (p *Pin) Transform(t geometry.Trans) *Pin {
	switch {
	case p.Path != nil:
		path := p.Path.Transformed(t)
		p.Path = &path
		p.Center = path.Midpoint()
		p.Rotation = path.DirectionDeg()
	case p.Box != nil:
		box := t.ApplyToRect(*p.Box)
		p.Box = &box
		p.Center = box.Center()
	case len(p.Polygon) > 0:
		p.Polygon = p.Polygon.Transformed(t)
		p.Center = p.Polygon.Center()
	}
	return p
}

// DCenter returns the pin center in physical microns.
func (p *Pin) DCenter(dbu float64) geometry.Point2D {
	return p.Center.ToMicrons(dbu)
}

// IsOptical reports whether the pin participates in optical connectivity.
func (p *Pin) IsOptical() bool {
	return p.Type == Optical || p.Type == OpticalIO
}

func (p *Pin) String() string {
	return fmt.Sprintf("pin %q type %s center (%.1f, %.1f) net %d",
		p.Name, p.Type, p.Center.X, p.Center.Y, p.Net)
}
