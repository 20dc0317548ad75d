// Package tech provides technology configuration: the database unit and the
// named layer table of a process design kit, loaded from YAML files.
package tech

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Well-known layer names used by extraction.
const (
	LayerWaveguide = "Waveguide"
	LayerPinRec    = "PinRec"
	LayerDevRec    = "DevRec"
	LayerFbrTgt    = "FbrTgt"
	LayerText      = "Text"
)

// Layer identifies a layout layer by GDS layer/datatype numbers.
type Layer struct {
	Layer    int `yaml:"layer" json:"layer"`
	Datatype int `yaml:"datatype" json:"datatype"`
}

// Technology describes one process design kit: its name, database unit
// (microns per database unit) and named layer table.
type Technology struct {
	Name   string           `yaml:"name" json:"name"`
	DBU    float64          `yaml:"dbu" json:"dbu"`
	Layers map[string]Layer `yaml:"layers" json:"layers"`
}

// LayerNamed looks up a layer by name. Missing layers return ok=false.
func (t *Technology) LayerNamed(name string) (Layer, bool) {
	if t == nil || t.Layers == nil {
		return Layer{}, false
	}
	l, ok := t.Layers[name]
	return l, ok
}

// MicronsToDBU converts a physical length in microns to database units.
func (t *Technology) MicronsToDBU(um float64) float64 {
	if t == nil || t.DBU <= 0 {
		return um
	}
	return um / t.DBU
}

// Validate checks that the technology is usable for extraction.
func (t *Technology) Validate() error {
	if t.Name == "" {
		return fmt.Errorf("technology has no name")
	}
	if t.DBU <= 0 {
		return fmt.Errorf("technology %s: dbu must be positive, got %g", t.Name, t.DBU)
	}
	for _, name := range []string{LayerWaveguide, LayerPinRec, LayerDevRec} {
		if _, ok := t.Layers[name]; !ok {
			return fmt.Errorf("technology %s: missing required layer %q", t.Name, name)
		}
	}
	return nil
}

// Load loads a technology from a YAML file.
func Load(path string) (*Technology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var t Technology
	if err := yaml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// Save writes the technology to a YAML file.
func (t *Technology) Save(path string) error {
	data, err := yaml.Marshal(t)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Registry holds the known technologies, looked up case-insensitively by
// name. It replaces the process-wide "current technology" of the host editor
// with an explicitly passed object.
type Registry struct {
	techs map[string]*Technology
}

// NewRegistry creates an empty technology registry.
func NewRegistry() *Registry {
	return &Registry{techs: make(map[string]*Technology)}
}

// Add registers a technology, replacing any previous one of the same name.
func (r *Registry) Add(t *Technology) {
	r.techs[strings.ToLower(t.Name)] = t
}

// Get returns the technology with the given name, or nil if unknown.
func (r *Registry) Get(name string) *Technology {
	if r == nil {
		return nil
	}
	return r.techs[strings.ToLower(name)]
}

// Count returns the number of registered technologies.
func (r *Registry) Count() int {
	return len(r.techs)
}

// LoadDir loads every .yaml technology file in a directory into the registry.
func (r *Registry) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		t, err := Load(filepath.Join(dir, e.Name()))
		if err != nil {
			return fmt.Errorf("load %s: %w", e.Name(), err)
		}
		r.Add(t)
	}
	return nil
}
