// ABOUTME: Profile matcher ranks catalog content against a user's mood and concern
// ABOUTME: Pure function of catalog snapshot, weight table, and options; no side effects
package matcher

import (
	"errors"
	"fmt"
	"sort"

	"github.com/harper/devotional/internal/models"
)

const (
	DefaultTopK          = 3
	DefaultMinScore      = 0.15
	DefaultFavoriteBoost = 0.05
)

// ErrInvalidOptions is returned for out-of-range matcher options
var ErrInvalidOptions = errors.New("invalid matcher options")

// Source is the read side of the content catalog
type Source interface {
	All() []models.ContentItem
}

// Options tunes ranking
type Options struct {
	TopK          int
	MinScore      float64
	FavoriteBoost float64
}

// DefaultOptions returns the standard ranking options
func DefaultOptions() Options {
	return Options{
		TopK:          DefaultTopK,
		MinScore:      DefaultMinScore,
		FavoriteBoost: DefaultFavoriteBoost,
	}
}

// Validate checks option ranges
func (o Options) Validate() error {
	if o.TopK < 1 {
		return fmt.Errorf("%w: top k must be at least 1, got %d", ErrInvalidOptions, o.TopK)
	}
	if o.MinScore < 0 || o.MinScore > 1 {
		return fmt.Errorf("%w: min score must be between 0 and 1, got %v", ErrInvalidOptions, o.MinScore)
	}
	if o.FavoriteBoost < 0 {
		return fmt.Errorf("%w: favorite boost cannot be negative", ErrInvalidOptions)
	}
	return nil
}

// Recommendation is one ranked content item
type Recommendation struct {
	Item   models.ContentItem `json:"item"`
	Weight float64            `json:"weight"`
	Score  float64            `json:"score"`
}

// Result is the output of a single Recommend call
type Result struct {
	Recommendations []Recommendation `json:"recommendations"`
	Weights         Weights          `json:"weights"`
	Matched         RuleSource       `json:"matched"`
	Fallback        bool             `json:"fallback"`
}

// Top returns the first recommendation
func (r Result) Top() (Recommendation, bool) {
	if len(r.Recommendations) == 0 {
		return Recommendation{}, false
	}
	return r.Recommendations[0], true
}

// Matcher selects content for a profile
type Matcher struct {
	source Source
	table  WeightTable
	opts   Options
}

// New creates a matcher after validating the table and options
func New(source Source, table WeightTable, opts Options) (*Matcher, error) {
	if source == nil {
		return nil, errors.New("matcher requires a content source")
	}
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid weight table: %w", err)
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	return &Matcher{source: source, table: table, opts: opts}, nil
}

// Options returns the ranking options in use
func (m *Matcher) Options() Options {
	return m.opts
}

// Table returns the weight table in use
func (m *Matcher) Table() WeightTable {
	return m.table
}

type candidate struct {
	item   models.ContentItem
	weight float64
	index  int
}

// Recommend ranks catalog content for a profile. History is optional and only
// consulted when the profile itself matches no rule.
func (m *Matcher) Recommend(profile models.UserProfile, history []models.ChatMessage) (Result, error) {
	items := m.source.All()
	if len(items) == 0 {
		return Result{}, models.ErrNoContentAvailable
	}

	weights, matched := m.table.Lookup(profile, history)

	seen := make(map[string]bool, len(items))
	var candidates []candidate
	for i, item := range items {
		if seen[item.ID] {
			continue
		}
		seen[item.ID] = true

		w := weights[item.Category]
		if w < m.opts.MinScore || w <= 0 {
			continue
		}
		candidates = append(candidates, candidate{item: item, weight: w, index: i})
	}

	if len(candidates) == 0 {
		item := fallbackItem(items)
		return Result{
			Recommendations: []Recommendation{{
				Item:   item,
				Weight: weights[item.Category],
				Score:  weights[item.Category] + m.boost(item),
			}},
			Weights:  weights,
			Matched:  matched,
			Fallback: true,
		}, nil
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.weight != b.weight {
			return a.weight > b.weight
		}
		if a.item.IsFavorite() != b.item.IsFavorite() {
			return a.item.IsFavorite()
		}
		return a.index < b.index
	})

	if len(candidates) > m.opts.TopK {
		candidates = candidates[:m.opts.TopK]
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, c := range candidates {
		recs = append(recs, Recommendation{
			Item:   c.item,
			Weight: c.weight,
			Score:  c.weight + m.boost(c.item),
		})
	}

	return Result{Recommendations: recs, Weights: weights, Matched: matched}, nil
}

func (m *Matcher) boost(item models.ContentItem) float64 {
	if item.IsFavorite() {
		return m.opts.FavoriteBoost
	}
	return 0
}

// fallbackItem is the first hope item, or the first item when the catalog has none
func fallbackItem(items []models.ContentItem) models.ContentItem {
	for _, item := range items {
		if item.Category == models.CategoryHope {
			return item
		}
	}
	return items[0]
}
