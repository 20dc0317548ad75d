// Package waveguide generates waveguide geometry from a routing path and a
// layer profile, the parameter mapping the waveguide dialog hands to the
// generation script: {radius, width, adiabatic, bezier, wgs: [...]}.
package waveguide

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

// LayerSpec is one drawn layer of the waveguide cross-section.
type LayerSpec struct {
	Layer  string  `yaml:"layer" json:"layer"`
	Width  float64 `yaml:"width" json:"width"`   // microns
	Offset float64 `yaml:"offset" json:"offset"` // lateral offset, microns
}

// Params is the waveguide generation profile. Lengths are in microns.
type Params struct {
	Radius    float64     `yaml:"radius" json:"radius"` // bend radius
	Width     float64     `yaml:"width" json:"width"`   // overall width, derived if 0
	Adiabatic bool        `yaml:"adiabatic" json:"adiabatic"`
	Bezier    float64     `yaml:"bezier" json:"bezier"` // bend shape parameter
	Wgs       []LayerSpec `yaml:"wgs" json:"wgs"`
}

// Validate checks the profile for generation.
func (p *Params) Validate() error {
	if p.Radius <= 0 {
		return fmt.Errorf("waveguide radius must be positive, got %g", p.Radius)
	}
	if len(p.Wgs) == 0 {
		return fmt.Errorf("waveguide profile has no layer specs")
	}
	for i, w := range p.Wgs {
		if w.Layer == "" {
			return fmt.Errorf("wgs[%d]: missing layer name", i)
		}
		if w.Width <= 0 {
			return fmt.Errorf("wgs[%d]: width must be positive, got %g", i, w.Width)
		}
	}
	if p.Adiabatic && (p.Bezier <= 0 || p.Bezier > 1) {
		return fmt.Errorf("bezier parameter must be in (0, 1], got %g", p.Bezier)
	}
	return nil
}

// TotalWidth returns the overall waveguide width: the explicit width if set,
// otherwise the widest extent of the layer specs.
func (p *Params) TotalWidth() float64 {
	if p.Width > 0 {
		return p.Width
	}
	var max float64
	for _, w := range p.Wgs {
		extent := (w.Width/2 + math.Abs(w.Offset)) * 2
		if extent > max {
			max = extent
		}
	}
	return max
}

// Load loads a waveguide profile from a YAML file.
func Load(path string) (*Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var p Params
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Strip returns a single-layer strip waveguide profile.
func Strip(radius float64, layer string, width float64) Params {
	return Params{
		Radius: radius,
		Width:  width,
		Wgs:    []LayerSpec{{Layer: layer, Width: width, Offset: 0}},
	}
}

// Rib returns a two-layer rib waveguide profile: a narrow core over a wide
// slab.
func Rib(radius float64, coreLayer string, coreWidth float64, slabLayer string, slabWidth float64) Params {
	return Params{
		Radius: radius,
		Width:  coreWidth,
		Wgs: []LayerSpec{
			{Layer: coreLayer, Width: coreWidth, Offset: 0},
			{Layer: slabLayer, Width: slabWidth, Offset: 0},
		},
	}
}

// Slot returns a slot waveguide profile: two rails of width (w1-w2)/2 offset
// by ±(w1+w2)/4, leaving a central slot of width w2.
func Slot(radius float64, layer string, w1, w2 float64) Params {
	rail := (w1 - w2) / 2
	offset := (w1 + w2) / 4
	return Params{
		Radius: radius,
		Width:  w1,
		Wgs: []LayerSpec{
			{Layer: layer, Width: rail, Offset: offset},
			{Layer: layer, Width: rail, Offset: -offset},
		},
	}
}
