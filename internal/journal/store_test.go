// ABOUTME: Tests for the journal store
// ABOUTME: CRUD, ordering, filters, link validation, and stats
package journal

import (
	"errors"
	"testing"
	"time"

	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/storage"
)

type links map[string]bool

func (l links) Exists(id string) bool { return l[id] }

type tick struct {
	t time.Time
}

func (c *tick) now() time.Time {
	c.t = c.t.Add(time.Minute)
	return c.t
}

func newStore(t *testing.T) *Store {
	t.Helper()
	c := &tick{t: time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)}
	return NewStore(storage.NewMemory(), links{"hope-1": true}, WithClock(c.now))
}

func cat(c models.Category) *models.Category {
	return &c
}

func TestCreateAndGet(t *testing.T) {
	s := newStore(t)

	e, err := s.Create("Grateful for today", cat(models.CategoryGratitude), "hope-1")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := s.Get(e.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Body != "Grateful for today" || !got.HasCategory(models.CategoryGratitude) || got.LinkedContentID != "hope-1" {
		t.Errorf("Get() = %+v", got)
	}
	if got.IsFavorite() {
		t.Error("new entries should not be favorites")
	}
}

func TestCreate_Validation(t *testing.T) {
	s := newStore(t)

	tests := []struct {
		name     string
		body     string
		category *models.Category
		link     string
		want     error
	}{
		{"empty body", "   ", nil, "", models.ErrEmptyBody},
		{"bad category", "x", cat("joy"), "", models.ErrInvalidCategory},
		{"unknown link", "x", nil, "nope", models.ErrInvalidLink},
		{"unknown link is not found", "x", nil, "nope", models.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.Create(tt.body, tt.category, tt.link); !errors.Is(err, tt.want) {
				t.Errorf("Create() error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestList_OrderAndFilters(t *testing.T) {
	s := newStore(t)

	e1, _ := s.Create("first", cat(models.CategoryHope), "")
	e2, _ := s.Create("second", nil, "")
	e3, _ := s.Create("third about hope", cat(models.CategoryHope), "")
	if _, err := s.ToggleFavorite(e1.ID); err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}

	all, err := s.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(all) != 3 || all[0].ID != e3.ID || all[1].ID != e2.ID || all[2].ID != e1.ID {
		t.Errorf("List() order wrong: %v", entryIDs(all))
	}

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{"category", Filter{Category: cat(models.CategoryHope)}, []string{e3.ID, e1.ID}},
		{"favorites", Filter{FavoriteOnly: true}, []string{e1.ID}},
		{"category and favorite", Filter{Category: cat(models.CategoryHope), FavoriteOnly: true}, []string{e1.ID}},
		{"no match", Filter{Category: cat(models.CategoryLove)}, nil},
		{"query", Filter{Query: "HOPE"}, []string{e3.ID}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.List(tt.filter)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			if ids := entryIDs(got); !equal(ids, tt.want) {
				t.Errorf("List() = %v, want %v", ids, tt.want)
			}
		})
	}
}

func TestList_TiesBreakByID(t *testing.T) {
	at := time.Date(2025, 2, 1, 8, 0, 0, 0, time.UTC)
	s := NewStore(storage.NewMemory(), nil, WithClock(func() time.Time { return at }))

	a, _ := s.Create("a", nil, "")
	b, _ := s.Create("b", nil, "")

	got, err := s.List(Filter{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{a.ID, b.ID}
	if b.ID > a.ID {
		want = []string{b.ID, a.ID}
	}
	if ids := entryIDs(got); !equal(ids, want) {
		t.Errorf("List() = %v, want %v", ids, want)
	}
}

func TestUpdate(t *testing.T) {
	s := newStore(t)
	e, _ := s.Create("draft", cat(models.CategoryPeace), "hope-1")

	body := "final"
	updated, err := s.Update(e.ID, &body, nil)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Body != "final" || !updated.HasCategory(models.CategoryPeace) {
		t.Errorf("Update() = %+v, want body changed and category kept", updated)
	}
	if !updated.UpdatedAt.After(e.CreatedAt) {
		t.Error("UpdatedAt should advance")
	}
	if !updated.CreatedAt.Equal(e.CreatedAt) || updated.LinkedContentID != "hope-1" {
		t.Error("Update() must not touch creation time or link")
	}

	updated, err = s.Update(e.ID, nil, cat(models.CategoryLove))
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Body != "final" || !updated.HasCategory(models.CategoryLove) {
		t.Errorf("Update() = %+v, want category changed", updated)
	}

	empty := ""
	if _, err := s.Update(e.ID, &empty, nil); !errors.Is(err, models.ErrEmptyBody) {
		t.Errorf("Update(empty) error = %v, want ErrEmptyBody", err)
	}

	cleared, err := s.ClearCategory(e.ID)
	if err != nil {
		t.Fatalf("ClearCategory() error = %v", err)
	}
	if cleared.Category != nil {
		t.Error("ClearCategory() should remove the tag")
	}
}

func TestToggleFavorite_Idempotent(t *testing.T) {
	s := newStore(t)
	e, _ := s.Create("x", nil, "")

	once, err := s.ToggleFavorite(e.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if !once.IsFavorite() {
		t.Error("first toggle should favorite")
	}
	twice, err := s.ToggleFavorite(e.ID)
	if err != nil {
		t.Fatalf("ToggleFavorite() error = %v", err)
	}
	if twice.IsFavorite() {
		t.Error("second toggle should restore the original state")
	}
}

func TestDelete(t *testing.T) {
	s := newStore(t)
	e, _ := s.Create("gone soon", nil, "")

	if err := s.Delete(e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	body := "again"
	if _, err := s.Get(e.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Get() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.Update(e.ID, &body, nil); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Update() after delete error = %v, want ErrNotFound", err)
	}
	if _, err := s.ToggleFavorite(e.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("ToggleFavorite() after delete error = %v, want ErrNotFound", err)
	}
	if err := s.Delete(e.ID); !errors.Is(err, models.ErrNotFound) {
		t.Errorf("second Delete() error = %v, want ErrNotFound", err)
	}
}

func TestStats(t *testing.T) {
	s := newStore(t)
	e1, _ := s.Create("a", cat(models.CategoryHope), "hope-1")
	_, _ = s.Create("b", cat(models.CategoryHope), "")
	_, _ = s.Create("c", nil, "")
	_, _ = s.ToggleFavorite(e1.ID)

	st, err := s.Stats()
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if st.Total != 3 || st.Favorites != 1 || st.Untagged != 1 || st.Linked != 1 {
		t.Errorf("Stats() = %+v", st)
	}
	if st.ByCategory[models.CategoryHope] != 2 {
		t.Errorf("hope count = %d, want 2", st.ByCategory[models.CategoryHope])
	}
	if len(st.ByCategory) != len(models.AllCategories()) {
		t.Errorf("ByCategory should list every category, got %d", len(st.ByCategory))
	}
}

func entryIDs(entries []*models.JournalEntry) []string {
	var out []string
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
