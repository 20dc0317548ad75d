// Package montecarlo prepares Monte Carlo simulation corners for an
// extracted circuit: per-trial wafer-level and die-level variations of
// waveguide width and thickness, sampled from Gaussian distributions.
package montecarlo

import (
	"fmt"
	"os"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
	"gopkg.in/yaml.v3"

	"siepic-tools/internal/models"
	"siepic-tools/internal/netlist"
	"siepic-tools/internal/tech"
)

// Params configures a Monte Carlo run. Sigmas are in nanometers.
type Params struct {
	Trials int    `yaml:"trials" json:"trials"`
	Seed   uint64 `yaml:"seed" json:"seed"`

	WaferWidthSigma     float64 `yaml:"wafer_width_sigma" json:"wafer_width_sigma"`
	WaferThicknessSigma float64 `yaml:"wafer_thickness_sigma" json:"wafer_thickness_sigma"`
	DieWidthSigma       float64 `yaml:"die_width_sigma" json:"die_width_sigma"`
	DieThicknessSigma   float64 `yaml:"die_thickness_sigma" json:"die_thickness_sigma"`
}

// Validate checks the run configuration.
func (p *Params) Validate() error {
	if p.Trials <= 0 {
		return fmt.Errorf("trials must be positive, got %d", p.Trials)
	}
	for name, sigma := range map[string]float64{
		"wafer_width_sigma":     p.WaferWidthSigma,
		"wafer_thickness_sigma": p.WaferThicknessSigma,
		"die_width_sigma":       p.DieWidthSigma,
		"die_thickness_sigma":   p.DieThicknessSigma,
	} {
		if sigma < 0 {
			return fmt.Errorf("%s must not be negative, got %g", name, sigma)
		}
	}
	return nil
}

// Load loads run parameters from a YAML file.
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

// Corner is the sampled variation applied to one component in one trial.
type Corner struct {
	Instance   string  `json:"instance"`
	DWidth     float64 `json:"dwidth"`     // nm, wafer + die
	DThickness float64 `json:"dthickness"` // nm, wafer + die
}

// Trial is one Monte Carlo sample: a wafer-level variation shared by all
// components plus per-component die-level variations.
type Trial struct {
	WaferDWidth     float64  `json:"wafer_dwidth"`
	WaferDThickness float64  `json:"wafer_dthickness"`
	Corners         []Corner `json:"corners"`
}

// Result holds all trials of a run.
type Result struct {
	Params Params  `json:"params"`
	Trials []Trial `json:"trials"`
}

// Run samples the corner table for every component that has a compact model.
// Components without models are skipped; they cannot be simulated anyway.
// The same seed always produces the same corners.
func Run(x *netlist.Extraction, t *tech.Technology, reg *models.Registry, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	src := rand.NewSource(p.Seed)
	waferWidth := distuv.Normal{Mu: 0, Sigma: p.WaferWidthSigma, Src: src}
	waferThickness := distuv.Normal{Mu: 0, Sigma: p.WaferThicknessSigma, Src: src}
	dieWidth := distuv.Normal{Mu: 0, Sigma: p.DieWidthSigma, Src: src}
	dieThickness := distuv.Normal{Mu: 0, Sigma: p.DieThicknessSigma, Src: src}

	var simulatable []*netlist.Component
	for _, c := range x.Components {
		if c.HasModel(t, reg) {
			simulatable = append(simulatable, c)
		}
	}

	res := &Result{Params: p, Trials: make([]Trial, 0, p.Trials)}
	for i := 0; i < p.Trials; i++ {
		trial := Trial{
			WaferDWidth:     sample(waferWidth),
			WaferDThickness: sample(waferThickness),
		}
		for _, c := range simulatable {
			trial.Corners = append(trial.Corners, Corner{
				Instance:   c.Instance,
				DWidth:     trial.WaferDWidth + sample(dieWidth),
				DThickness: trial.WaferDThickness + sample(dieThickness),
			})
		}
		res.Trials = append(res.Trials, trial)
	}
	return res, nil
}

// sample draws from the distribution, treating sigma 0 as exactly 0.
func sample(d distuv.Normal) float64 {
	if d.Sigma == 0 {
		return 0
	}
	return d.Rand()
}
