// ABOUTME: ContentItem is one piece of devotional content in the catalog
// ABOUTME: Everything except the favorite flag is fixed at seed time
package models

import (
	"errors"
	"fmt"
	"strings"
)

// ContentItem is a verse with its reference, commentary, and category
type ContentItem struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Verse       string   `json:"verse" yaml:"verse"`
	Reference   string   `json:"reference" yaml:"reference"`
	Explanation string   `json:"explanation" yaml:"explanation"`
	Category    Category `json:"category" yaml:"category"`
	Favorite    `yaml:",inline"`
}

// Validate checks the fields required at load time
func (c ContentItem) Validate() error {
	if strings.TrimSpace(c.ID) == "" {
		return errors.New("content item id cannot be empty")
	}
	if strings.TrimSpace(c.Title) == "" {
		return fmt.Errorf("content item %s: title cannot be empty", c.ID)
	}
	if strings.TrimSpace(c.Verse) == "" {
		return fmt.Errorf("content item %s: verse cannot be empty", c.ID)
	}
	if strings.TrimSpace(c.Reference) == "" {
		return fmt.Errorf("content item %s: reference cannot be empty", c.ID)
	}
	if !c.Category.Valid() {
		return fmt.Errorf("content item %s: %w: %q", c.ID, ErrInvalidCategory, c.Category)
	}
	return nil
}
