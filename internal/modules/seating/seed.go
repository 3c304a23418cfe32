package seating

import (
	"encoding/json"
	"fmt"
	"os"
)

// DefaultLayout is the built-in floor arrangement used when no layout
// file is configured.
func DefaultLayout() []Floor {
	return []Floor{
		{
			ID:   1,
			Ref:  "ground",
			Name: "Ground Floor",
			Areas: []Area{
				{ID: 1, Ref: "main", Name: "Main", Tables: []Table{}},
				{ID: 2, Ref: "terrace", Name: "Terrace", Tables: []Table{}},
				{ID: 3, Ref: "outdoor", Name: "Outdoor", Tables: []Table{}},
			},
		},
		{ID: 2, Ref: "basement", Name: "Basement Floor", Areas: []Area{}},
		{ID: 3, Ref: "roof", Name: "Roof Deck", Areas: []Area{}},
	}
}

// LoadLayout reads a floor arrangement from a JSON file; an empty path
// falls back to the default layout.
func LoadLayout(path string) ([]Floor, error) {
	if path == "" {
		return DefaultLayout(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seating: read layout: %w", err)
	}
	var floors []Floor
	if err := json.Unmarshal(data, &floors); err != nil {
		return nil, fmt.Errorf("seating: parse layout: %w", err)
	}
	return floors, nil
}
