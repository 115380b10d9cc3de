// ABOUTME: JournalEntry is a user-authored reflection
// ABOUTME: Optionally tagged with a category and linked to a catalog item
package models

import (
	"strings"
	"time"
)

// JournalEntry is one journal record
type JournalEntry struct {
	ID              string    `json:"id"`
	Body            string    `json:"body"`
	Category        *Category `json:"category,omitempty"`
	LinkedContentID string    `json:"linked_content_id,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Favorite
}

// NewJournalEntry creates an entry after validating body and category
func NewJournalEntry(body string, category *Category, linkedContentID string, at time.Time) (*JournalEntry, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrEmptyBody
	}
	if category != nil && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	var cat *Category
	if category != nil {
		c := *category
		cat = &c
	}
	return &JournalEntry{
		ID:              NewID("entry", at),
		Body:            body,
		Category:        cat,
		LinkedContentID: linkedContentID,
		CreatedAt:       at,
		UpdatedAt:       at,
	}, nil
}

// HasCategory reports whether the entry is tagged with c
func (e *JournalEntry) HasCategory(c Category) bool {
	return e.Category != nil && *e.Category == c
}
