// ABOUTME: Content Catalog: immutable in-memory set of devotional content
// ABOUTME: Indexed by id and category; the favorite flag is the only mutable field
package catalog

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/storage"
)

// Catalog holds the process-wide content set
type Catalog struct {
	items      []models.ContentItem
	byID       map[string]int
	byCategory map[models.Category][]int
	favorites  storage.KV
	logger     *log.Logger
	mu         sync.RWMutex
}

// Option configures a Catalog
type Option func(*Catalog)

// WithFavoriteStore persists the favorite id set through kv
func WithFavoriteStore(kv storage.KV) Option {
	return func(c *Catalog) {
		c.favorites = kv
	}
}

// WithLogger sets the logger used for favorite changes
func WithLogger(l *log.Logger) Option {
	return func(c *Catalog) {
		c.logger = logging.OrNop(l)
	}
}

// New builds a catalog; item order is preserved as catalog order
func New(items []models.ContentItem, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		items:      make([]models.ContentItem, 0, len(items)),
		byID:       make(map[string]int, len(items)),
		byCategory: make(map[models.Category][]int),
		logger:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}

	for _, item := range items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		if _, dup := c.byID[item.ID]; dup {
			return nil, fmt.Errorf("duplicate content id %q", item.ID)
		}
		idx := len(c.items)
		c.items = append(c.items, item)
		c.byID[item.ID] = idx
		c.byCategory[item.Category] = append(c.byCategory[item.Category], idx)
	}

	return c, nil
}

// Len returns the number of items
func (c *Catalog) Len() int {
	return len(c.items)
}

// Get returns a copy of the item with the given id
func (c *Catalog) Get(id string) (models.ContentItem, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byID[id]
	if !ok {
		return models.ContentItem{}, fmt.Errorf("content %q: %w", id, models.ErrNotFound)
	}
	return c.items[idx], nil
}

// Exists reports whether id is in the catalog
func (c *Catalog) Exists(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Index returns the catalog position of id, used as a stable sort key
func (c *Catalog) Index(id string) (int, bool) {
	idx, ok := c.byID[id]
	return idx, ok
}

// All returns every item in catalog order
func (c *Catalog) All() []models.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]models.ContentItem, len(c.items))
	copy(out, c.items)
	return out
}

// ListByCategory returns items of one category in catalog order
func (c *Catalog) ListByCategory(cat models.Category) []models.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idxs := c.byCategory[cat]
	out := make([]models.ContentItem, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, c.items[i])
	}
	return out
}

// Favorites returns favorited items in catalog order
func (c *Catalog) Favorites() []models.ContentItem {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var out []models.ContentItem
	for _, item := range c.items {
		if item.Favorite.Favorite {
			out = append(out, item)
		}
	}
	return out
}

// ToggleFavorite flips an item's favorite flag and returns the updated item
func (c *Catalog) ToggleFavorite(id string) (models.ContentItem, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byID[id]
	if !ok {
		return models.ContentItem{}, fmt.Errorf("content %q: %w", id, models.ErrNotFound)
	}

	item := &c.items[idx]
	now := item.ToggleFavorite()

	if err := c.persistFavorites(); err != nil {
		item.SetFavorite(!now)
		return models.ContentItem{}, err
	}

	c.logger.Debug("content favorite toggled", "id", id, "favorite", now)
	return *item, nil
}

// RestoreFavorites applies the persisted favorite set; unknown ids are ignored
func (c *Catalog) RestoreFavorites() error {
	if c.favorites == nil {
		return nil
	}

	var ids []string
	err := storage.GetJSON(c.favorites, storage.CatalogFavoritesKey(), &ids)
	if errors.Is(err, storage.ErrKeyNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load favorites: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i := range c.items {
		c.items[i].SetFavorite(false)
	}
	for _, id := range ids {
		if idx, ok := c.byID[id]; ok {
			c.items[idx].SetFavorite(true)
		} else {
			c.logger.Warn("ignoring favorite for unknown content", "id", id)
		}
	}
	return nil
}

// persistFavorites writes the favorite id set; caller holds mu
func (c *Catalog) persistFavorites() error {
	if c.favorites == nil {
		return nil
	}

	ids := []string{}
	for _, item := range c.items {
		if item.Favorite.Favorite {
			ids = append(ids, item.ID)
		}
	}
	sort.Strings(ids)

	if err := storage.SetJSON(c.favorites, storage.CatalogFavoritesKey(), ids); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}
