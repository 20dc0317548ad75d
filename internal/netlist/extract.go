package netlist

import (
	"fmt"
	"log"
	"sort"

	"siepic-tools/internal/layout"
	"siepic-tools/internal/models"
	"siepic-tools/internal/tech"
	"siepic-tools/pkg/geometry"
)

// DefaultToleranceDBU is the default pin-coincidence tolerance in database
// units (10 dbu = 10 nm at a 1 nm dbu).
const DefaultToleranceDBU = 10.0

// Extractor builds the connectivity model for a layout region. It holds the
// session objects explicitly; there is no process-wide current technology.
type Extractor struct {
	Layout    *layout.Layout
	Tech      *tech.Technology
	Models    *models.Registry
	Tolerance float64 // pin coincidence tolerance in dbu; 0 uses the default
}

// Extraction is the result of one extraction pass. Each pass rebuilds the
// whole model; results from earlier passes are never mutated.
type Extraction struct {
	Components []*Component         `json:"components"`
	Nets       []*Net               `json:"nets"`
	Errors     []*ConnectivityError `json:"errors,omitempty"`
}

// Pin resolves a pin reference, or nil if out of range.
func (x *Extraction) Pin(ref PinRef) *Pin {
	if ref.Component < 0 || ref.Component >= len(x.Components) {
		return nil
	}
	c := x.Components[ref.Component]
	if ref.Pin < 0 || ref.Pin >= len(c.Pins) {
		return nil
	}
	return c.Pins[ref.Pin]
}

// DanglingPins returns every pin still bound to the disconnected sentinel.
func (x *Extraction) DanglingPins() []PinRef {
	var out []PinRef
	for ci, c := range x.Components {
		for pi, p := range c.Pins {
			if p.Net == DisconnectedNet {
				out = append(out, PinRef{Component: ci, Pin: pi})
			}
		}
	}
	return out
}

func (e *Extractor) tolerance() float64 {
	if e.Tolerance > 0 {
		return e.Tolerance
	}
	return DefaultToleranceDBU
}

// Extract runs a full extraction pass over the top cell. If region is
// non-nil, only instances whose recognition center falls inside it qualify.
func (e *Extractor) Extract(region *geometry.Rect) (*Extraction, error) {
	if e.Layout == nil || e.Tech == nil {
		return nil, fmt.Errorf("extractor requires a layout and a technology")
	}
	top, err := e.Layout.TopCell()
	if err != nil {
		return nil, err
	}

	x := &Extraction{}

	// Pass 1: recognize components (instances with DevRec geometry).
	for _, inst := range top.Insts {
		cell := e.Layout.Cell(inst.Cell)
		if cell == nil {
			return nil, fmt.Errorf("top cell: instance of unknown cell %q", inst.Cell)
		}
		devrec, err := e.devRecOutline(cell)
		if err != nil {
			return nil, err
		}
		if devrec == nil {
			continue // not a recognized component
		}
		outline := devrec.Transformed(inst.Trans)
		if region != nil && !region.Contains(outline.Center()) {
			continue
		}

		comp := NewComponent(len(x.Components), cell.Name, outline, e.Layout.DBU)
		comp.Cell = cell.Name
		comp.Library = cell.Library
		comp.Params = cell.Params
		comp.Trans = inst.Trans
		comp.Instance = inst.Name
		if comp.Instance == "" {
			comp.Instance = fmt.Sprintf("%s_%d", cell.Name, comp.Idx)
		}
		x.Components = append(x.Components, comp)
	}

	// Pass 2: per-component pin discovery.
	for _, comp := range x.Components {
		pins, err := e.FindPins(comp)
		if err != nil {
			return nil, fmt.Errorf("component %s: %w", comp.Instance, err)
		}
		comp.Pins = pins
	}

	// Pass 3: net inference from pin coincidence.
	e.inferNets(x)

	log.Printf("extracted %d components, %d nets, %d connectivity errors",
		len(x.Components), len(x.Nets), len(x.Errors))
	return x, nil
}

// devRecOutline returns the cell's device-recognition outline flattened into
// cell coordinates, or nil if the cell has no DevRec geometry.
func (e *Extractor) devRecOutline(cell *layout.Cell) (geometry.Polygon, error) {
	var outline geometry.Polygon
	err := e.Layout.EachShape(cell, tech.LayerDevRec, func(s layout.Shape) {
		if outline == nil {
			outline = s.ToPolygon()
		}
	})
	if err != nil {
		return nil, err
	}
	return outline, nil
}

// FindPins discovers a component's pins from its cell geometry under its
// current placement: two-point paths on PinRec become optical pins, boxes
// become electrical pins, and FbrTgt geometry becomes optical IO pins. Pin
// names come from the nearest PinRec text label. The component's pin list is
// not modified; the caller commits the result.
func (e *Extractor) FindPins(comp *Component) ([]*Pin, error) {
	cell := e.Layout.Cell(comp.Cell)
	if cell == nil {
		return nil, fmt.Errorf("cell %q not found", comp.Cell)
	}

	var pins []*Pin
	var scanErr error

	err := e.Layout.EachShape(cell, tech.LayerPinRec, func(s layout.Shape) {
		if scanErr != nil {
			return
		}
		placed := s.Transformed(comp.Trans)
		var spec PinSpec
		switch placed.Kind() {
		case layout.KindPath:
			if len(placed.Path.Points) != 2 {
				return // guiding paths on PinRec are not pins
			}
			spec = PinSpec{Type: Optical, Path: placed.Path}
		case layout.KindBox:
			spec = PinSpec{Type: Electrical, Box: placed.Box}
		default:
			spec = PinSpec{Type: Electrical, Polygon: placed.Polygon}
		}
		pin, err := NewPin(spec)
		if err != nil {
			scanErr = err
			return
		}
		pin.Component = comp.Idx
		pins = append(pins, pin)
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}

	err = e.Layout.EachShape(cell, tech.LayerFbrTgt, func(s layout.Shape) {
		if scanErr != nil {
			return
		}
		placed := s.Transformed(comp.Trans)
		var spec PinSpec
		switch placed.Kind() {
		case layout.KindPath:
			spec = PinSpec{Type: OpticalIO, Path: placed.Path}
		case layout.KindBox:
			spec = PinSpec{Type: OpticalIO, Box: placed.Box}
		default:
			spec = PinSpec{Type: OpticalIO, Polygon: placed.Polygon}
		}
		pin, err := NewPin(spec)
		if err != nil {
			scanErr = err
			return
		}
		pin.Component = comp.Idx
		pins = append(pins, pin)
	})
	if err != nil {
		return nil, err
	}
	if scanErr != nil {
		return nil, scanErr
	}

	e.namePins(cell, comp.Trans, pins)
	return pins, nil
}

// namePins assigns each pin the text of the nearest PinRec label within
// tolerance of its center.
func (e *Extractor) namePins(cell *layout.Cell, trans geometry.Trans, pins []*Pin) {
	var labels []layout.Label
	_ = e.Layout.EachLabel(cell, tech.LayerPinRec, func(l layout.Label) {
		l.Position = trans.Apply(l.Position)
		labels = append(labels, l)
	})
	tol := e.tolerance()
	for _, pin := range pins {
		best := -1
		bestDist := tol
		for i, l := range labels {
			d := l.Position.Distance(pin.Center)
			if d <= bestDist {
				best = i
				bestDist = d
			}
		}
		if best >= 0 {
			pin.Name = labels[best].Text
		}
	}
}

// compatible reports whether two pin types may join the same net. Optical
// and optical-IO pins interconnect; electrical pins only join electrical.
func compatible(a, b PinType) bool {
	if a == Electrical || b == Electrical {
		return a == b
	}
	return true
}

// inferNets builds equivalence classes of pins whose centers coincide within
// tolerance and whose types are compatible, then validates net arity.
// Optical nets must have exactly two members; a third coincident optical pin
// is an over-connected error, not a net. Unmatched pins keep the
// disconnected sentinel.
func (e *Extractor) inferNets(x *Extraction) {
	var refs []PinRef
	for ci, c := range x.Components {
		for pi := range c.Pins {
			refs = append(refs, PinRef{Component: ci, Pin: pi})
		}
	}
	n := len(refs)
	if n == 0 {
		return
	}
	tol := e.tolerance()

	// Union-find over coincident, type-compatible pins.
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(i int) int {
		for parent[i] != i {
			parent[i] = parent[parent[i]]
			i = parent[i]
		}
		return i
	}
	union := func(a, b int) {
		ra, rb := find(a), find(b)
		if ra != rb {
			parent[rb] = ra
		}
	}

	for i := 0; i < n; i++ {
		pi := x.Pin(refs[i])
		for j := i + 1; j < n; j++ {
			pj := x.Pin(refs[j])
			if refs[i].Component == refs[j].Component {
				continue // pins of one component never short together
			}
			if !compatible(pi.Type, pj.Type) {
				continue
			}
			if pi.Center.Distance(pj.Center) <= tol {
				union(i, j)
			}
		}
	}

	groups := make(map[int][]int)
	for i := 0; i < n; i++ {
		root := find(i)
		groups[root] = append(groups[root], i)
	}
	roots := make([]int, 0, len(groups))
	for root := range groups {
		roots = append(roots, root)
	}
	sort.Ints(roots)

	for _, root := range roots {
		members := groups[root]
		if len(members) < 2 {
			continue // dangling pin: stays on the disconnected sentinel
		}

		netType := Optical
		optical := true
		for _, m := range members {
			if x.Pin(refs[m]).Type == Electrical {
				netType = Electrical
				optical = false
			}
		}

		memberRefs := make([]PinRef, len(members))
		for i, m := range members {
			memberRefs[i] = refs[m]
		}

		if optical && len(members) > 2 {
			pin := x.Pin(refs[members[0]])
			x.Errors = append(x.Errors, &ConnectivityError{
				Kind:     OverConnected,
				Type:     netType,
				Position: pin.Center,
				Pins:     memberRefs,
			})
			continue // no valid net at this location
		}

		net := &Net{Idx: len(x.Nets), Type: netType, Pins: memberRefs}
		for _, ref := range memberRefs {
			x.Pin(ref).Net = net.Idx
		}
		x.Nets = append(x.Nets, net)
	}
}
