// ABOUTME: Embedded seed data for the catalog and reading plans
// ABOUTME: Malformed seed data is a startup failure, not a runtime error
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/harper/devotional/internal/models"
)

//go:embed seed.yaml
var seedYAML []byte

// Seed is the static content shipped with the app
type Seed struct {
	Content []models.ContentItem `yaml:"content"`
	Plans   []models.ReadingPlan `yaml:"plans"`
}

// ParseSeed decodes and validates seed YAML
func ParseSeed(data []byte) (*Seed, error) {
	var s Seed
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse seed: %w", err)
	}

	known := make(map[string]bool, len(s.Content))
	for _, item := range s.Content {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		known[item.ID] = true
	}
	for _, p := range s.Plans {
		if err := p.Validate(); err != nil {
			return nil, err
		}
		for _, d := range p.Days {
			for _, id := range d.ContentIDs {
				if !known[id] {
					return nil, fmt.Errorf("plan %s day %d: unknown content %q", p.ID, d.Index, id)
				}
			}
		}
	}
	return &s, nil
}

// LoadSeed builds the catalog and plans from the embedded seed
func LoadSeed(opts ...Option) (*Catalog, []models.ReadingPlan, error) {
	s, err := ParseSeed(seedYAML)
	if err != nil {
		return nil, nil, err
	}
	c, err := New(s.Content, opts...)
	if err != nil {
		return nil, nil, err
	}
	return c, s.Plans, nil
}

// MustLoadSeed is LoadSeed for process startup; it panics on malformed seed data
func MustLoadSeed(opts ...Option) (*Catalog, []models.ReadingPlan) {
	c, plans, err := LoadSeed(opts...)
	if err != nil {
		panic(fmt.Sprintf("catalog: invalid seed data: %v", err))
	}
	return c, plans
}
