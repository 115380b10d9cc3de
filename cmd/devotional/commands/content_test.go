// ABOUTME: Tests for content commands
// ABOUTME: Lists the seeded catalog and toggles favorites across runs
package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/harper/devotional/internal/models"
)

func TestContentList(t *testing.T) {
	setupEnv(t)

	var all []models.ContentItem
	runJSON(t, &all, "content", "list")
	if len(all) != 18 {
		t.Fatalf("len(all) = %d, want 18", len(all))
	}

	var hope []models.ContentItem
	runJSON(t, &hope, "content", "list", "--category", "hope")
	if len(hope) != 3 {
		t.Fatalf("len(hope) = %d, want 3", len(hope))
	}
	for _, item := range hope {
		if item.Category != models.CategoryHope {
			t.Errorf("item %s category = %v, want hope", item.ID, item.Category)
		}
	}
}

func TestContentList_InvalidCategory(t *testing.T) {
	setupEnv(t)

	_, err := run(t, "content", "list", "--category", "joy")
	if !errors.Is(err, models.ErrInvalidCategory) {
		t.Fatalf("error = %v, want ErrInvalidCategory", err)
	}
	if !strings.Contains(err.Error(), "comfort, peace") {
		t.Errorf("error = %q, want the friendly category list", err.Error())
	}
}

func TestContentFavorite_Persists(t *testing.T) {
	setupEnv(t)

	var item models.ContentItem
	runJSON(t, &item, "content", "favorite", "hope-1")
	if !item.IsFavorite() {
		t.Fatal("hope-1 should be favorite after first toggle")
	}

	var favs []models.ContentItem
	runJSON(t, &favs, "content", "list", "--favorites")
	if len(favs) != 1 || favs[0].ID != "hope-1" {
		t.Fatalf("favorites = %v, want [hope-1]", favs)
	}

	runJSON(t, &item, "content", "favorite", "hope-1")
	if item.IsFavorite() {
		t.Error("hope-1 should not be favorite after second toggle")
	}
}

func TestContentShow(t *testing.T) {
	setupEnv(t)

	out, err := run(t, "--format", "text", "content", "show", "peace-1")
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if !strings.Contains(out, "id: peace-1") {
		t.Errorf("output = %q, want it to contain the id", out)
	}

	_, err = run(t, "content", "show", "missing")
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}
