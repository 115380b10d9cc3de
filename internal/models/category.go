// ABOUTME: SpiritualCategory is the closed vocabulary shared by content and journal entries
// ABOUTME: Parsing rejects anything outside the seven known categories
package models

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Category is a thematic tag for devotional content and journal entries
type Category string

const (
	CategoryComfort     Category = "comfort"
	CategoryPeace       Category = "peace"
	CategoryForgiveness Category = "forgiveness"
	CategoryHope        Category = "hope"
	CategoryGratitude   Category = "gratitude"
	CategoryStrength    Category = "strength"
	CategoryLove        Category = "love"
)

var allCategories = []Category{
	CategoryComfort,
	CategoryPeace,
	CategoryForgiveness,
	CategoryHope,
	CategoryGratitude,
	CategoryStrength,
	CategoryLove,
}

// AllCategories returns every category in canonical order
func AllCategories() []Category {
	out := make([]Category, len(allCategories))
	copy(out, allCategories)
	return out
}

// ParseCategory converts user input into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidCategory, s)
	}
	return c, nil
}

// Valid reports whether c is one of the known categories
func (c Category) Valid() bool {
	for _, known := range allCategories {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// UnmarshalJSON rejects unknown categories
func (c *Category) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCategory(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// UnmarshalText lets yaml and flag parsing share the same validation
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
