package layout

import (
	"encoding/json"
	"fmt"
	"os"
)

// currentVersion is the layout file format version.
const currentVersion = 1

// file is the on-disk wrapper around a Layout.
type file struct {
	Version int     `json:"version"`
	Layout  *Layout `json:"layout"`
}

// Load loads a layout from a JSON file.
func Load(path string) (*Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if f.Layout == nil {
		return nil, fmt.Errorf("%s: no layout data", path)
	}
	if f.Layout.DBU <= 0 {
		return nil, fmt.Errorf("%s: dbu must be positive, got %g", path, f.Layout.DBU)
	}
	if f.Layout.Cells == nil {
		f.Layout.Cells = make(map[string]*Cell)
	}
	// Cell names are authoritative from the map keys
	for name, c := range f.Layout.Cells {
		if c.Name == "" {
			c.Name = name
		}
	}
	return f.Layout, nil
}

// Save writes the layout to a JSON file.
func (ly *Layout) Save(path string) error {
	data, err := json.MarshalIndent(file{Version: currentVersion, Layout: ly}, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
