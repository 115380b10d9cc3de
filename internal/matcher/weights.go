// ABOUTME: Mood/concern keyword table mapping a profile to category weights
// ABOUTME: Kept as data so the selection policy can be tested and extended without code changes
package matcher

import (
	"fmt"
	"sort"
	"strings"
	"unicode"

	"github.com/harper/devotional/internal/models"
)

// Weights maps each category to its relevance for a profile
type Weights map[models.Category]float64

// Uniform returns equal weights over all categories
func Uniform() Weights {
	cats := models.AllCategories()
	w := make(Weights, len(cats))
	for _, c := range cats {
		w[c] = 1.0 / float64(len(cats))
	}
	return w
}

// Top returns the highest-weighted categories (several on a tie), in canonical order
func (w Weights) Top() []models.Category {
	best := 0.0
	for _, v := range w {
		if v > best {
			best = v
		}
	}
	var out []models.Category
	for _, c := range models.AllCategories() {
		if v, ok := w[c]; ok && v == best && best > 0 {
			out = append(out, c)
		}
	}
	return out
}

// WeightRule is one row of the table. Empty Mood or Concern acts as a wildcard.
type WeightRule struct {
	Mood    string  `json:"mood,omitempty"`
	Concern string  `json:"concern,omitempty"`
	Weights Weights `json:"weights"`
}

// RuleSource records which lookup step produced the weights
type RuleSource string

const (
	SourcePair    RuleSource = "mood+concern"
	SourceConcern RuleSource = "concern"
	SourceMood    RuleSource = "mood"
	SourceHistory RuleSource = "history"
	SourceUniform RuleSource = "uniform"
)

// WeightTable is the full keyword mapping
type WeightTable struct {
	Rules []WeightRule `json:"rules"`
}

// Validate rejects rules with no key, unknown categories, or negative weights
func (t WeightTable) Validate() error {
	seen := make(map[string]bool)
	for i, r := range t.Rules {
		if r.Mood == "" && r.Concern == "" {
			return fmt.Errorf("rule %d: needs a mood or a concern", i)
		}
		key := r.Mood + "|" + r.Concern
		if seen[key] {
			return fmt.Errorf("rule %d: duplicate rule for mood=%q concern=%q", i, r.Mood, r.Concern)
		}
		seen[key] = true
		if len(r.Weights) == 0 {
			return fmt.Errorf("rule %d: no weights", i)
		}
		for c, v := range r.Weights {
			if !c.Valid() {
				return fmt.Errorf("rule %d: %w: %q", i, models.ErrInvalidCategory, c)
			}
			if v < 0 {
				return fmt.Errorf("rule %d: negative weight for %s", i, c)
			}
		}
	}
	return nil
}

// Lookup resolves weights for a profile, consulting history when the profile alone has no match
func (t WeightTable) Lookup(profile models.UserProfile, history []models.ChatMessage) (Weights, RuleSource) {
	p := profile.Normalize()

	if p.Mood != "" && p.Concern != "" {
		if r, ok := t.find(p.Mood, p.Concern); ok {
			return r.Weights, SourcePair
		}
	}
	if p.Concern != "" {
		if r, ok := t.find("", p.Concern); ok {
			return r.Weights, SourceConcern
		}
	}
	if p.Mood != "" {
		if r, ok := t.find(p.Mood, ""); ok {
			return r.Weights, SourceMood
		}
	}

	// most recent user message wins
	for i := len(history) - 1; i >= 0; i-- {
		msg := history[i]
		if !msg.IsUser {
			continue
		}
		for _, word := range keywords(msg.Text) {
			if r, ok := t.find("", word); ok {
				return r.Weights, SourceHistory
			}
			if r, ok := t.find(word, ""); ok {
				return r.Weights, SourceHistory
			}
		}
	}

	return Uniform(), SourceUniform
}

func (t WeightTable) find(mood, concern string) (WeightRule, bool) {
	for _, r := range t.Rules {
		if r.Mood == mood && r.Concern == concern {
			return r, true
		}
	}
	return WeightRule{}, false
}

// Keys returns the distinct mood and concern keywords known to the table
func (t WeightTable) Keys() (moods, concerns []string) {
	ms := make(map[string]bool)
	cs := make(map[string]bool)
	for _, r := range t.Rules {
		if r.Mood != "" {
			ms[r.Mood] = true
		}
		if r.Concern != "" {
			cs[r.Concern] = true
		}
	}
	for m := range ms {
		moods = append(moods, m)
	}
	for c := range cs {
		concerns = append(concerns, c)
	}
	sort.Strings(moods)
	sort.Strings(concerns)
	return moods, concerns
}

func keywords(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
}

// DefaultWeights is the built-in table
func DefaultWeights() WeightTable {
	const (
		comfort     = models.CategoryComfort
		peace       = models.CategoryPeace
		forgiveness = models.CategoryForgiveness
		hope        = models.CategoryHope
		gratitude   = models.CategoryGratitude
		strength    = models.CategoryStrength
		love        = models.CategoryLove
	)

	return WeightTable{Rules: []WeightRule{
		// mood + concern pairs
		{Mood: "sad", Concern: "loss", Weights: Weights{comfort: 0.7, hope: 0.3}},
		{Mood: "anxious", Concern: "work", Weights: Weights{peace: 0.6, strength: 0.4}},
		{Mood: "anxious", Concern: "health", Weights: Weights{peace: 0.5, hope: 0.3, strength: 0.2}},
		{Mood: "angry", Concern: "relationship", Weights: Weights{forgiveness: 0.6, love: 0.4}},
		{Mood: "lonely", Concern: "relationship", Weights: Weights{love: 0.7, comfort: 0.3}},
		{Mood: "happy", Concern: "relationship", Weights: Weights{gratitude: 0.5, love: 0.5}},
		{Mood: "tired", Concern: "work", Weights: Weights{strength: 0.6, comfort: 0.4}},

		// concern only
		{Concern: "loss", Weights: Weights{comfort: 0.6, hope: 0.4}},
		{Concern: "grief", Weights: Weights{comfort: 0.7, love: 0.3}},
		{Concern: "anxiety", Weights: Weights{peace: 0.7, strength: 0.3}},
		{Concern: "worry", Weights: Weights{peace: 0.7, hope: 0.3}},
		{Concern: "guilt", Weights: Weights{forgiveness: 0.8, love: 0.2}},
		{Concern: "conflict", Weights: Weights{forgiveness: 0.6, love: 0.4}},
		{Concern: "loneliness", Weights: Weights{love: 0.6, comfort: 0.4}},
		{Concern: "fear", Weights: Weights{strength: 0.6, peace: 0.4}},
		{Concern: "future", Weights: Weights{hope: 0.7, strength: 0.3}},
		{Concern: "work", Weights: Weights{strength: 0.5, peace: 0.3, gratitude: 0.2}},
		{Concern: "health", Weights: Weights{strength: 0.5, hope: 0.3, comfort: 0.2}},
		{Concern: "relationship", Weights: Weights{love: 0.6, forgiveness: 0.4}},
		{Concern: "family", Weights: Weights{love: 0.6, gratitude: 0.2, forgiveness: 0.2}},
		{Concern: "doubt", Weights: Weights{hope: 0.6, strength: 0.4}},

		// mood only
		{Mood: "sad", Weights: Weights{comfort: 0.6, hope: 0.4}},
		{Mood: "anxious", Weights: Weights{peace: 0.6, strength: 0.4}},
		{Mood: "angry", Weights: Weights{forgiveness: 0.5, peace: 0.5}},
		{Mood: "lonely", Weights: Weights{love: 0.7, comfort: 0.3}},
		{Mood: "tired", Weights: Weights{strength: 0.6, hope: 0.4}},
		{Mood: "weak", Weights: Weights{strength: 0.7, hope: 0.3}},
		{Mood: "happy", Weights: Weights{gratitude: 0.7, love: 0.3}},
		{Mood: "thankful", Weights: Weights{gratitude: 1.0}},
		{Mood: "hopeless", Weights: Weights{hope: 0.8, comfort: 0.2}},
		{Mood: "guilty", Weights: Weights{forgiveness: 0.8, hope: 0.2}},
		{Mood: "afraid", Weights: Weights{strength: 0.6, peace: 0.4}},
	}}
}
