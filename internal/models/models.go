// Package models provides the compact-model registry: the set of component
// identifiers that have simulation-ready behavioral models in the design kit.
package models

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// qualifiedPrefix is the namespace the simulator uses for design-kit models.
const qualifiedPrefix = "design kits"

// Qualified returns the fully-qualified, case-normalized model identifier
// for a component in a technology.
func Qualified(technology, component string) string {
	return qualifiedPrefix + "::" + strings.ToLower(technology) + "::" + strings.ToLower(component)
}

// Registry is a set of fully-qualified compact-model identifiers. Membership
// queries are advisory: they never fail, they only answer yes or no.
type Registry struct {
	elements map[string]struct{}
}

// NewRegistry creates an empty model registry.
func NewRegistry() *Registry {
	return &Registry{elements: make(map[string]struct{})}
}

// Add inserts an already-qualified identifier.
func (r *Registry) Add(qualified string) {
	r.elements[strings.ToLower(qualified)] = struct{}{}
}

// AddComponent inserts a model for a component in a technology.
func (r *Registry) AddComponent(technology, component string) {
	r.Add(Qualified(technology, component))
}

// Has reports whether a compact model exists for the component in the given
// technology. A nil registry or empty technology name answers false.
func (r *Registry) Has(technology, component string) bool {
	if r == nil || technology == "" || component == "" {
		return false
	}
	_, ok := r.elements[Qualified(technology, component)]
	return ok
}

// Count returns the number of registered model identifiers.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	return len(r.elements)
}

// Identifiers returns all registered identifiers (unordered).
func (r *Registry) Identifiers() []string {
	out := make([]string, 0, len(r.elements))
	for id := range r.elements {
		out = append(out, id)
	}
	return out
}

// Load loads a registry from a JSON file containing an array of qualified
// identifier strings.
func Load(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	r := NewRegistry()
	for _, id := range ids {
		r.Add(id)
	}
	return r, nil
}

// Save writes the registry to a JSON file.
func (r *Registry) Save(path string) error {
	data, err := json.MarshalIndent(r.Identifiers(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
