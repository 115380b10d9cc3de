// ABOUTME: Wires config, storage backend, catalog, matcher, plan engine, and journal into one App
// ABOUTME: Shared by the CLI commands and the MCP server
package app

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/harper/devotional/internal/catalog"
	"github.com/harper/devotional/internal/charm"
	"github.com/harper/devotional/internal/config"
	"github.com/harper/devotional/internal/guidance"
	"github.com/harper/devotional/internal/journal"
	"github.com/harper/devotional/internal/llm"
	"github.com/harper/devotional/internal/logging"
	"github.com/harper/devotional/internal/matcher"
	"github.com/harper/devotional/internal/models"
	"github.com/harper/devotional/internal/plan"
	"github.com/harper/devotional/internal/storage"
	"github.com/harper/devotional/internal/storage/sqlite"
)

// App holds every engine component for one process
type App struct {
	Config    *config.Config
	Logger    *log.Logger
	KV        storage.KV
	Catalog   *catalog.Catalog
	Matcher   *matcher.Matcher
	Plans     *plan.Engine
	Journal   *journal.Store
	Rephraser *llm.Rephraser

	charm *charm.Client
}

// Open builds an App on the backend named in cfg
func Open(cfg *config.Config, logger *log.Logger) (*App, error) {
	logger = logging.OrNop(logger)

	kv, charmClient, err := OpenStore(cfg)
	if err != nil {
		return nil, err
	}

	a, err := New(cfg, logger, kv)
	if err != nil {
		_ = kv.Close()
		return nil, err
	}
	a.charm = charmClient
	return a, nil
}

// OpenStore opens the configured KV backend. The charm client is non-nil only for the charm backend.
func OpenStore(cfg *config.Config) (storage.KV, *charm.Client, error) {
	switch cfg.Store {
	case config.StoreCharm:
		c, err := charm.NewClient(&charm.Config{
			Host:     cfg.CharmHost,
			DBName:   cfg.CharmDBName,
			AutoSync: cfg.AutoSync,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to Charm: %w", err)
		}
		return c, c, nil
	case config.StoreMemory:
		return storage.NewMemory(), nil, nil
	default:
		path := cfg.DBPath
		if path == "" {
			path = sqlite.DefaultDBPath()
		}
		db, err := sqlite.Open(path)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open database: %w", err)
		}
		return db, nil, nil
	}
}

// New builds an App on an already-open KV
func New(cfg *config.Config, logger *log.Logger, kv storage.KV) (*App, error) {
	logger = logging.OrNop(logger)

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	cat, plans, err := catalog.LoadSeed(
		catalog.WithFavoriteStore(kv),
		catalog.WithLogger(logger.WithPrefix("catalog")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	if err := cat.RestoreFavorites(); err != nil {
		return nil, fmt.Errorf("failed to restore favorites: %w", err)
	}

	m, err := matcher.New(cat, matcher.DefaultWeights(), matcher.Options{
		TopK:          cfg.TopK,
		MinScore:      cfg.MinScore,
		FavoriteBoost: matcher.DefaultFavoriteBoost,
	})
	if err != nil {
		return nil, err
	}

	engine, err := plan.NewEngine(plans, kv,
		plan.WithLocation(loc),
		plan.WithLogger(logger.WithPrefix("plan")),
	)
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Logger:  logger,
		KV:      kv,
		Catalog: cat,
		Matcher: m,
		Plans:   engine,
		Journal: journal.NewStore(kv, cat, journal.WithLogger(logger.WithPrefix("journal"))),
	}

	if cfg.RephraseEnabled() {
		r, err := llm.NewRephraser(llm.Config{
			APIKey:     cfg.OpenAIKey,
			Model:      cfg.ChatModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
		if err != nil {
			logger.Warn("rephrasing disabled", "err", err)
		} else {
			a.Rephraser = r
		}
	}

	return a, nil
}

// NewSession starts a guidance conversation using the App's matcher and rephraser
func (a *App) NewSession() *guidance.Session {
	return guidance.NewSession(a.Matcher, a.sessionOptions()...)
}

// LoadSession restores a saved guidance conversation
func (a *App) LoadSession(id string) (*guidance.Session, error) {
	return guidance.LoadSession(a.KV, id, a.Matcher, a.sessionOptions()...)
}

func (a *App) sessionOptions() []guidance.Option {
	opts := []guidance.Option{guidance.WithLogger(a.Logger.WithPrefix("guidance"))}
	if a.Rephraser != nil {
		opts = append(opts, guidance.WithRephraser(a.Rephraser))
	}
	return opts
}

// DayContent resolves the catalog items assigned to a plan day
func (a *App) DayContent(day models.PlanDay) ([]models.ContentItem, error) {
	items := make([]models.ContentItem, 0, len(day.ContentIDs))
	for _, id := range day.ContentIDs {
		item, err := a.Catalog.Get(id)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

// Charm returns the charm client when the charm backend is in use
func (a *App) Charm() (*charm.Client, bool) {
	return a.charm, a.charm != nil
}

// Close releases the storage backend
func (a *App) Close() error {
	if a.KV == nil {
		return nil
	}
	return a.KV.Close()
}
