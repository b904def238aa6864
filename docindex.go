package docindex

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	urlkit "github.com/goliatone/go-urlkit"
	_ "github.com/mattn/go-sqlite3"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	"github.com/goliatone/go-docindex/internal/index"
	"github.com/goliatone/go-docindex/internal/logging"
	"github.com/goliatone/go-docindex/internal/logging/gologger"
	"github.com/goliatone/go-docindex/internal/manifest"
	"github.com/goliatone/go-docindex/internal/runtimeconfig"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

// Config exports the runtime configuration for consumers of the docindex package.
type Config = runtimeconfig.Config

// IndexService exports the index service contract.
type IndexService = interfaces.IndexService

// Manifest exports the build manifest document.
type Manifest = manifest.Manifest

// DefaultConfig returns a configuration with the conventional defaults.
func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// Module is the top level docindex runtime facade. It owns the configured
// index service, the logger provider, and the optional database handle.
type Module struct {
	cfg      Config
	provider interfaces.LoggerProvider
	db       *bun.DB
	ownsDB   bool
	indexes  index.IndexRepository
	entries  index.IndexEntryRepository
	service  *index.Service
}

// Option mutates the module wiring before it is finalised.
type Option func(*Module)

// WithLoggerProvider overrides the default go-logger backed provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(m *Module) {
		m.provider = provider
	}
}

// WithBunDB injects an externally managed database handle. The module will
// not close handles it does not own.
func WithBunDB(db *bun.DB) Option {
	return func(m *Module) {
		m.db = db
	}
}

// WithRepositories overrides the repository bindings, bypassing database wiring.
func WithRepositories(indexes index.IndexRepository, entries index.IndexEntryRepository) Option {
	return func(m *Module) {
		m.indexes = indexes
		m.entries = entries
	}
}

// New constructs a docindex module from the provided configuration.
func New(cfg Config, opts ...Option) (*Module, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	m := &Module{cfg: cfg}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}

	if m.provider == nil {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     cfg.Logging.Level,
			Format:    cfg.Logging.Format,
			AddSource: cfg.Logging.AddSource,
			Focus:     cfg.Logging.Focus,
		})
		if err != nil {
			return nil, err
		}
		m.provider = provider
	}

	if err := m.configureRepositories(); err != nil {
		return nil, err
	}

	service, err := index.NewService(
		index.Config{
			ContentDir:   cfg.ContentDir,
			Pattern:      cfg.Pattern,
			RootDocument: cfg.RootDocument,
			IndexCode:    cfg.IndexCode,
			MaxDepth:     cfg.MaxDepth,
			Strict:       cfg.Strict,
		},
		m.indexes,
		m.entries,
		index.WithLogger(logging.IndexLogger(m.provider)),
		index.WithURLResolver(m.configureResolver()),
	)
	if err != nil {
		m.Close()
		return nil, err
	}
	m.service = service

	return m, nil
}

// Index returns the configured index service.
func (m *Module) Index() IndexService {
	if m == nil {
		return nil
	}
	return m.service
}

// LoggerProvider exposes the configured logger provider for host integrations.
func (m *Module) LoggerProvider() interfaces.LoggerProvider {
	if m == nil {
		return nil
	}
	return m.provider
}

// DB exposes the underlying database handle, nil when persistence is disabled.
func (m *Module) DB() *bun.DB {
	if m == nil {
		return nil
	}
	return m.db
}

// Config returns the configuration the module was built with.
func (m *Module) Config() Config {
	return m.cfg
}

// EnsureSchema creates the index tables when they do not exist yet. It is a
// no-op without a database handle.
func (m *Module) EnsureSchema(ctx context.Context) error {
	if m == nil || m.db == nil {
		return nil
	}
	models := []any{
		(*index.Index)(nil),
		(*index.IndexEntry)(nil),
	}
	for _, model := range models {
		if _, err := m.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("docindex: ensure schema: %w", err)
		}
	}
	return nil
}

// Close releases database handles owned by the module.
func (m *Module) Close() error {
	if m == nil || m.db == nil || !m.ownsDB {
		return nil
	}
	return m.db.Close()
}

func (m *Module) configureRepositories() error {
	if m.indexes != nil && m.entries != nil {
		return nil
	}

	if !m.cfg.Features.Persistence && m.db == nil {
		m.indexes = index.NewMemoryIndexRepository()
		m.entries = index.NewMemoryIndexEntryRepository()
		return nil
	}

	if m.db == nil {
		sqldb, err := sql.Open("sqlite3", m.cfg.Storage.DSN)
		if err != nil {
			return fmt.Errorf("docindex: open storage: %w", err)
		}
		m.db = bun.NewDB(sqldb, sqlitedialect.New())
		m.ownsDB = true
	}

	var (
		cacheService  repocache.CacheService
		keySerializer repocache.KeySerializer
	)
	if m.cfg.Cache.Enabled {
		cacheCfg := repocache.DefaultConfig()
		if m.cfg.Cache.DefaultTTL > 0 {
			cacheCfg.TTL = m.cfg.Cache.DefaultTTL
		}
		service, err := repocache.NewCacheService(cacheCfg)
		if err == nil {
			cacheService = service
			keySerializer = repocache.NewDefaultKeySerializer()
		}
	}

	m.indexes = index.NewBunIndexRepositoryWithCache(m.db, cacheService, keySerializer)
	m.entries = index.NewBunIndexEntryRepositoryWithCache(m.db, cacheService, keySerializer)
	return nil
}

func (m *Module) configureResolver() index.URLResolver {
	navCfg := m.cfg.Navigation
	if navCfg.RouteConfig == nil {
		return index.PathResolver{BasePath: navCfg.BasePath}
	}

	manager := urlkit.NewRouteManager(navCfg.RouteConfig)
	return index.NewURLKitResolver(index.URLKitResolverOptions{
		Manager:      manager,
		DefaultGroup: strings.TrimSpace(navCfg.DefaultGroup),
		DefaultRoute: strings.TrimSpace(navCfg.DefaultRoute),
		SlugParam:    navCfg.SlugParam,
	})
}
