// Package session bundles the objects an extraction pass needs — layout,
// technology and compact-model registry — into one explicitly passed value.
// It is built once per pass and discarded afterwards; the host editor's
// process-wide "current technology" has no equivalent here.
package session

import (
	"fmt"
	"log"

	"siepic-tools/internal/layout"
	"siepic-tools/internal/models"
	"siepic-tools/internal/netlist"
	"siepic-tools/internal/tech"
)

// Session holds the read-only inputs of one extraction session.
type Session struct {
	Tech   *tech.Technology
	Models *models.Registry
	Layout *layout.Layout
}

// Open loads a session from file paths. modelsPath may be empty; model
// availability queries then answer false, which is the advisory behavior
// downstream code relies on.
func Open(layoutPath, techPath, modelsPath string) (*Session, error) {
	t, err := tech.Load(techPath)
	if err != nil {
		return nil, fmt.Errorf("load technology: %w", err)
	}
	ly, err := layout.Load(layoutPath)
	if err != nil {
		return nil, fmt.Errorf("load layout: %w", err)
	}

	s := &Session{Tech: t, Layout: ly}
	if modelsPath != "" {
		reg, err := models.Load(modelsPath)
		if err != nil {
			return nil, fmt.Errorf("load model registry: %w", err)
		}
		s.Models = reg
	}

	log.Printf("session: technology %s (dbu %g), %d cells, %d compact models",
		t.Name, t.DBU, len(ly.Cells), s.Models.Count())
	return s, nil
}

// Extractor returns a netlist extractor over this session.
func (s *Session) Extractor(tolerance float64) *netlist.Extractor {
	return &netlist.Extractor{
		Layout:    s.Layout,
		Tech:      s.Tech,
		Models:    s.Models,
		Tolerance: tolerance,
	}
}
