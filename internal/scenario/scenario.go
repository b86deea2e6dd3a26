// Package scenario holds named starting layouts of cranes.
package scenario

import (
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"craneguard/internal/config"
)

// Scenario is a named crane layout that replaces the whole site when applied.
type Scenario struct {
	ID          string         `yaml:"id"`
	Name        string         `yaml:"name,omitempty"`
	Description string         `yaml:"description,omitempty"`
	Cranes      []config.Crane `yaml:"cranes"`
}

// Summary describes a scenario without its cranes.
type Summary struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// file is the on-disk layout of a scenario file.
type file struct {
	Scenarios []Scenario `yaml:"scenarios"`
}

// Load reads scenario definitions from a YAML file.
func Load(path string) ([]Scenario, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	for i, s := range f.Scenarios {
		if s.ID == "" {
			return nil, fmt.Errorf("parse scenario: entry %d has no id", i)
		}
	}
	return f.Scenarios, nil
}

// Catalog resolves scenarios by id.
type Catalog struct {
	byID map[string]Scenario
}

// NewCatalog returns a catalog seeded with the built-in scenarios.
func NewCatalog() *Catalog {
	return &Catalog{byID: BuiltIn()}
}

// Add registers s, replacing any scenario with the same id.
func (c *Catalog) Add(s Scenario) {
	c.byID[s.ID] = s
}

// LoadFile adds every scenario found in a YAML file.
func (c *Catalog) LoadFile(path string) error {
	list, err := Load(path)
	if err != nil {
		return err
	}
	for _, s := range list {
		c.Add(s)
	}
	return nil
}

// Get returns the scenario with the given id.
func (c *Catalog) Get(id string) (Scenario, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// List returns scenario summaries sorted by id.
func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.byID))
	for _, s := range c.byID {
		out = append(out, Summary{ID: s.ID, Name: s.Name, Description: s.Description})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
