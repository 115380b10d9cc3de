// ABOUTME: Journal store: CRUD over user-authored entries with category filters and favorites
// ABOUTME: One KV record per entry under journal:<id>; links are checked only when an entry is created
package journal

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/storage"
)

// ContentLookup reports whether a catalog id exists
type ContentLookup interface {
	Exists(id string) bool
}

// Filter narrows List results. Zero value matches everything.
type Filter struct {
	Category     *models.Category
	FavoriteOnly bool
	Query        string
}

func (f Filter) matches(e *models.JournalEntry) bool {
	if f.Category != nil && !e.HasCategory(*f.Category) {
		return false
	}
	if f.FavoriteOnly && !e.IsFavorite() {
		return false
	}
	if q := strings.TrimSpace(f.Query); q != "" && !strings.Contains(strings.ToLower(e.Body), strings.ToLower(q)) {
		return false
	}
	return true
}

// Stats counts entries per category
type Stats struct {
	Total      int                     `json:"total"`
	Favorites  int                     `json:"favorites"`
	Untagged   int                     `json:"untagged"`
	Linked     int                     `json:"linked"`
	ByCategory map[models.Category]int `json:"by_category"`
}

// Store manages journal entries
type Store struct {
	mu     sync.Mutex
	kv     storage.KV
	links  ContentLookup
	logger *log.Logger
	now    func() time.Time
}

// Option configures a Store
type Option func(*Store)

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithLogger sets the store logger
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = logging.OrNop(l) }
}

// NewStore creates a journal store. links may be nil, in which case any link is rejected.
func NewStore(kv storage.KV, links ContentLookup, opts ...Option) *Store {
	s := &Store{
		kv:     kv,
		links:  links,
		logger: logging.Nop(),
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create adds a new entry
func (s *Store) Create(body string, category *models.Category, linkedContentID string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	linkedContentID = strings.TrimSpace(linkedContentID)
	if linkedContentID != "" && (s.links == nil || !s.links.Exists(linkedContentID)) {
		return nil, fmt.Errorf("%w: %s: %w", models.ErrInvalidLink, linkedContentID, models.ErrNotFound)
	}

	entry, err := models.NewJournalEntry(body, category, linkedContentID, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.save(entry); err != nil {
		return nil, err
	}
	s.logger.Debug("journal entry created", "id", entry.ID, "linked", linkedContentID)
	return entry, nil
}

// Get returns an entry by id
func (s *Store) Get(id string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(id)
}

// Update changes body and/or category; nil leaves a field unchanged
func (s *Store) Update(id string, body *string, category *models.Category) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.load(id)
	if err != nil {
		return nil, err
	}

	if body != nil {
		if strings.TrimSpace(*body) == "" {
			return nil, models.ErrEmptyBody
		}
		entry.Body = *body
	}
	if category != nil {
		if !category.Valid() {
			return nil, fmt.Errorf("%w: %q", models.ErrInvalidCategory, *category)
		}
		c := *category
		entry.Category = &c
	}
	entry.UpdatedAt = s.now()

	if err := s.save(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ClearCategory removes an entry's category tag
func (s *Store) ClearCategory(id string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.load(id)
	if err != nil {
		return nil, err
	}
	entry.Category = nil
	entry.UpdatedAt = s.now()
	if err := s.save(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// ToggleFavorite flips the favorite flag
func (s *Store) ToggleFavorite(id string) (*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, err := s.load(id)
	if err != nil {
		return nil, err
	}
	entry.ToggleFavorite()
	if err := s.save(entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry permanently
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.load(id); err != nil {
		return err
	}
	if err := s.kv.Delete(storage.JournalKey(id)); err != nil {
		return fmt.Errorf("failed to delete journal entry %s: %w", id, err)
	}
	s.logger.Debug("journal entry deleted", "id", id)
	return nil
}

// List returns matching entries, most recent first
func (s *Store) List(f Filter) ([]*models.JournalEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return nil, err
	}

	out := make([]*models.JournalEntry, 0, len(all))
	for _, e := range all {
		if f.matches(e) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

// Stats counts entries per category, favorites, and untagged entries
func (s *Store) Stats() (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.loadAll()
	if err != nil {
		return Stats{}, err
	}

	st := Stats{ByCategory: make(map[models.Category]int)}
	for _, c := range models.AllCategories() {
		st.ByCategory[c] = 0
	}
	for _, e := range all {
		st.Total++
		if e.IsFavorite() {
			st.Favorites++
		}
		if e.LinkedContentID != "" {
			st.Linked++
		}
		if e.Category == nil {
			st.Untagged++
			continue
		}
		st.ByCategory[*e.Category]++
	}
	return st, nil
}

func (s *Store) load(id string) (*models.JournalEntry, error) {
	var entry models.JournalEntry
	err := storage.GetJSON(s.kv, storage.JournalKey(id), &entry)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil, fmt.Errorf("journal entry %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (s *Store) loadAll() ([]*models.JournalEntry, error) {
	keys, err := s.kv.ListKeys(storage.JournalPrefix)
	if err != nil {
		return nil, fmt.Errorf("failed to list journal entries: %w", err)
	}
	out := make([]*models.JournalEntry, 0, len(keys))
	for _, k := range keys {
		var entry models.JournalEntry
		if err := storage.GetJSON(s.kv, k, &entry); err != nil {
			if errors.Is(err, storage.ErrKeyNotFound) {
				continue
			}
			// a corrupt record should not hide the rest of the journal
			s.logger.Warn("skipping unreadable journal entry", "key", k, "err", err)
			continue
		}
		out = append(out, &entry)
	}
	return out, nil
}

func (s *Store) save(entry *models.JournalEntry) error {
	if err := storage.SetJSON(s.kv, storage.JournalKey(entry.ID), entry); err != nil {
		return fmt.Errorf("failed to save journal entry %s: %w", entry.ID, err)
	}
	return nil
}
