// ABOUTME: Tests for the profile matcher
// ABOUTME: Covers rule lookup order, ranking ties, thresholds, fallback, and tone independence
package matcher

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/harper/devotional/internal/models"
)

type staticSource []models.ContentItem

func (s staticSource) All() []models.ContentItem {
	return []models.ContentItem(s)
}

func item(id string, cat models.Category) models.ContentItem {
	return models.ContentItem{ID: id, Title: id, Verse: "verse " + id, Reference: "Ref " + id, Category: cat}
}

func fiveItems() staticSource {
	return staticSource{
		item("h1", models.CategoryHope),
		item("c1", models.CategoryComfort),
		item("h2", models.CategoryHope),
		item("p1", models.CategoryPeace),
		item("l1", models.CategoryLove),
	}
}

func newMatcher(t *testing.T, src Source, opts Options) *Matcher {
	t.Helper()
	m, err := New(src, DefaultWeights(), opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return m
}

func ids(recs []Recommendation) string {
	var out []string
	for _, r := range recs {
		out = append(out, r.Item.ID)
	}
	return strings.Join(out, ",")
}

func TestRecommend_SadLoss(t *testing.T) {
	m := newMatcher(t, fiveItems(), DefaultOptions())

	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Matched != SourcePair {
		t.Errorf("Matched = %s, want %s", res.Matched, SourcePair)
	}
	if res.Fallback {
		t.Error("Fallback should be false")
	}
	if got := ids(res.Recommendations); got != "c1,h1,h2" {
		t.Errorf("Recommendations = %s, want c1,h1,h2", got)
	}
	if res.Recommendations[0].Weight != 0.7 {
		t.Errorf("top weight = %v, want 0.7", res.Recommendations[0].Weight)
	}
}

func TestRecommend_TopK(t *testing.T) {
	opts := DefaultOptions()
	opts.TopK = 1
	m := newMatcher(t, fiveItems(), opts)

	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := ids(res.Recommendations); got != "c1" {
		t.Errorf("Recommendations = %s, want c1", got)
	}
}

func TestRecommend_LookupOrder(t *testing.T) {
	m := newMatcher(t, fiveItems(), DefaultOptions())

	tests := []struct {
		name    string
		profile models.UserProfile
		history []models.ChatMessage
		want    RuleSource
	}{
		{"pair", models.UserProfile{Mood: "Sad ", Concern: "LOSS"}, nil, SourcePair},
		{"concern beats mood", models.UserProfile{Mood: "happy", Concern: "grief"}, nil, SourceConcern},
		{"mood only", models.UserProfile{Mood: "anxious", Concern: "taxes"}, nil, SourceMood},
		{"history", models.UserProfile{}, []models.ChatMessage{
			{Text: "I keep thinking about my family", IsUser: true},
			{Text: "Here is a verse", IsUser: false},
		}, SourceHistory},
		{"assistant text ignored", models.UserProfile{}, []models.ChatMessage{
			{Text: "grief", IsUser: false},
		}, SourceUniform},
		{"uniform", models.UserProfile{Mood: "meh"}, nil, SourceUniform},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Recommend(tt.profile, tt.history)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if res.Matched != tt.want {
				t.Errorf("Matched = %s, want %s", res.Matched, tt.want)
			}
		})
	}
}

func TestRecommend_HistoryMostRecentFirst(t *testing.T) {
	m := newMatcher(t, fiveItems(), DefaultOptions())

	history := []models.ChatMessage{
		{Text: "I was full of guilt last week", IsUser: true},
		{Text: "Now it is mostly fear.", IsUser: true},
	}
	res, err := m.Recommend(models.UserProfile{}, history)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if res.Weights[models.CategoryStrength] != 0.6 {
		t.Errorf("weights = %v, want the fear rule", res.Weights)
	}
}

func TestRecommend_UnmatchedProfileFallsBackToHope(t *testing.T) {
	src := staticSource{
		item("c1", models.CategoryComfort),
		item("c2", models.CategoryComfort),
		item("h1", models.CategoryHope),
		item("p1", models.CategoryPeace),
	}
	m := newMatcher(t, src, DefaultOptions())

	tests := []struct {
		name    string
		profile models.UserProfile
	}{
		{"empty profile", models.UserProfile{}},
		{"unknown mood and concern", models.UserProfile{Mood: "confused", Concern: "career"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := m.Recommend(tt.profile, nil)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if res.Matched != SourceUniform {
				t.Errorf("Matched = %s, want %s", res.Matched, SourceUniform)
			}
			if !res.Fallback {
				t.Error("Fallback = false, want true")
			}
			if got := ids(res.Recommendations); got != "h1" {
				t.Errorf("Recommendations = %s, want h1", got)
			}
		})
	}
}

func TestDefaultMinScore_ClearsEveryRuleButNotUniform(t *testing.T) {
	if w := Uniform()[models.CategoryHope]; w >= DefaultMinScore {
		t.Errorf("uniform weight %v clears DefaultMinScore %v", w, DefaultMinScore)
	}
	for _, rule := range DefaultWeights().Rules {
		for cat, w := range rule.Weights {
			if w > 0 && w < DefaultMinScore {
				t.Errorf("rule %s/%s weight %s = %v below DefaultMinScore", rule.Mood, rule.Concern, cat, w)
			}
		}
	}
}

func TestRecommend_FavoriteBreaksTiesOnly(t *testing.T) {
	src := fiveItems()
	src[2].SetFavorite(true) // h2

	m := newMatcher(t, src, DefaultOptions())
	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := ids(res.Recommendations); got != "c1,h2,h1" {
		t.Errorf("Recommendations = %s, want c1,h2,h1", got)
	}
	if got := res.Recommendations[1].Score; math.Abs(got-(0.3+DefaultFavoriteBoost)) > 1e-9 {
		t.Errorf("favorite score = %v, want %v", got, 0.3+DefaultFavoriteBoost)
	}
}

func TestRecommend_DeduplicatesIDs(t *testing.T) {
	src := append(fiveItems(), item("c1", models.CategoryComfort))
	m := newMatcher(t, src, DefaultOptions())

	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if got := ids(res.Recommendations); got != "c1,h1,h2" {
		t.Errorf("Recommendations = %s, want c1,h1,h2", got)
	}
}

func TestRecommend_Fallback(t *testing.T) {
	tests := []struct {
		name string
		src  staticSource
		want string
	}{
		{"first hope item", staticSource{item("p1", models.CategoryPeace), item("h1", models.CategoryHope)}, "h1"},
		{"no hope item", staticSource{item("p1", models.CategoryPeace), item("l1", models.CategoryLove)}, "p1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newMatcher(t, tt.src, DefaultOptions())
			// thankful only weights gratitude, absent from both catalogs
			res, err := m.Recommend(models.UserProfile{Mood: "thankful"}, nil)
			if err != nil {
				t.Fatalf("Recommend() error = %v", err)
			}
			if !res.Fallback {
				t.Error("Fallback should be true")
			}
			if got := ids(res.Recommendations); got != tt.want {
				t.Errorf("Recommendations = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestRecommend_ThresholdForcesFallback(t *testing.T) {
	opts := DefaultOptions()
	opts.MinScore = 0.9
	m := newMatcher(t, fiveItems(), opts)

	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}
	if !res.Fallback || len(res.Recommendations) != 1 {
		t.Fatalf("want single fallback, got %+v", res)
	}
	if res.Recommendations[0].Item.ID != "h1" {
		t.Errorf("fallback = %s, want h1", res.Recommendations[0].Item.ID)
	}
}

func TestRecommend_EmptyCatalog(t *testing.T) {
	m := newMatcher(t, staticSource{}, DefaultOptions())

	if _, err := m.Recommend(models.UserProfile{Mood: "sad"}, nil); !errors.Is(err, models.ErrNoContentAvailable) {
		t.Errorf("Recommend() error = %v, want ErrNoContentAvailable", err)
	}
}

func TestRecommend_ToneDoesNotChangeRanking(t *testing.T) {
	m := newMatcher(t, fiveItems(), DefaultOptions())

	var first string
	for _, tone := range append(Tones(), "", "sarcastic") {
		res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss", Tone: tone}, nil)
		if err != nil {
			t.Fatalf("Recommend(%q) error = %v", tone, err)
		}
		got := ids(res.Recommendations)
		if first == "" {
			first = got
			continue
		}
		if got != first {
			t.Errorf("tone %q ranking = %s, want %s", tone, got, first)
		}
	}
}

func TestCompose(t *testing.T) {
	m := newMatcher(t, fiveItems(), DefaultOptions())
	res, err := m.Recommend(models.UserProfile{Mood: "sad", Concern: "loss"}, nil)
	if err != nil {
		t.Fatalf("Recommend() error = %v", err)
	}

	at := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	for _, tone := range append(Tones(), "unknown") {
		msg, err := ComposeAt(models.UserProfile{Tone: tone}, res, at)
		if err != nil {
			t.Fatalf("ComposeAt(%q) error = %v", tone, err)
		}
		if msg.IsUser {
			t.Error("composed message should be from the assistant")
		}
		if !strings.Contains(msg.Text, "Ref c1") || !strings.Contains(msg.Text, "verse c1") {
			t.Errorf("tone %q text = %q, want top reference and verse", tone, msg.Text)
		}
		if !msg.Timestamp.Equal(at) {
			t.Errorf("Timestamp = %v, want %v", msg.Timestamp, at)
		}
	}

	if _, err := ComposeAt(models.UserProfile{}, Result{}, at); !errors.Is(err, models.ErrNoContentAvailable) {
		t.Errorf("ComposeAt(empty) error = %v, want ErrNoContentAvailable", err)
	}
}

func TestNew_Validation(t *testing.T) {
	bad := WeightTable{Rules: []WeightRule{{Mood: "sad", Weights: Weights{"joy": 1}}}}
	if _, err := New(fiveItems(), bad, DefaultOptions()); err == nil {
		t.Error("New() should reject unknown categories")
	}

	opts := DefaultOptions()
	opts.TopK = 0
	if _, err := New(fiveItems(), DefaultWeights(), opts); !errors.Is(err, ErrInvalidOptions) {
		t.Errorf("New() error = %v, want ErrInvalidOptions", err)
	}
}

func TestDefaultWeights_Valid(t *testing.T) {
	if err := DefaultWeights().Validate(); err != nil {
		t.Fatalf("DefaultWeights().Validate() error = %v", err)
	}

	moods, concerns := DefaultWeights().Keys()
	if len(moods) == 0 || len(concerns) == 0 {
		t.Error("default table should have mood and concern keys")
	}
}

func TestWeightsTop(t *testing.T) {
	w := Weights{models.CategoryHope: 0.4, models.CategoryComfort: 0.4, models.CategoryLove: 0.2}
	top := w.Top()
	if len(top) != 2 || top[0] != models.CategoryComfort || top[1] != models.CategoryHope {
		t.Errorf("Top() = %v, want [comfort hope]", top)
	}
}
