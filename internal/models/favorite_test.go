// ABOUTME: Tests for the shared favoritable capability
// ABOUTME: Verifies toggling semantics on both catalog items and journal entries
package models

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestFavorite_DoubleToggleRestoresState(t *testing.T) {
	items := []Favoritable{
		&ContentItem{ID: "a"},
		&JournalEntry{ID: "b"},
	}

	for _, f := range items {
		original := f.IsFavorite()
		if got := f.ToggleFavorite(); got == original {
			t.Errorf("ToggleFavorite() = %v, want %v", got, !original)
		}
		f.ToggleFavorite()
		if f.IsFavorite() != original {
			t.Errorf("IsFavorite() after double toggle = %v, want %v", f.IsFavorite(), original)
		}
	}
}

func TestFavorite_JSONField(t *testing.T) {
	item := ContentItem{ID: "a", Category: CategoryHope}
	item.SetFavorite(true)

	data, err := json.Marshal(item)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(data), `"favorite":true`) {
		t.Errorf("JSON = %s, want favorite field", data)
	}
}
