package index

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	cache "github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

const (
	indexNamespace = "doc_index"
	entryNamespace = "doc_index_entry"
)

// BunIndexRepository implements IndexRepository with optional caching.
type BunIndexRepository struct {
	repo         repository.Repository[*Index]
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunIndexRepository creates an index repository without caching.
func NewBunIndexRepository(db *bun.DB) *BunIndexRepository {
	return NewBunIndexRepositoryWithCache(db, nil, nil)
}

// NewBunIndexRepositoryWithCache creates an index repository with caching services.
func NewBunIndexRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunIndexRepository {
	base := NewIndexRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(indexNamespace)
	}
	return &BunIndexRepository{
		repo:         base,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunIndexRepository) Create(ctx context.Context, record *Index) (*Index, error) {
	created, err := r.repo.Create(ctx, record)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunIndexRepository) GetByID(ctx context.Context, id uuid.UUID) (*Index, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "index", id.String())
	}
	return record, nil
}

func (r *BunIndexRepository) GetByCode(ctx context.Context, code string) (*Index, error) {
	record, err := r.repo.GetByIdentifier(ctx, code)
	if err != nil {
		return nil, mapRepositoryError(err, "index", code)
	}
	return record, nil
}

func (r *BunIndexRepository) List(ctx context.Context) ([]*Index, error) {
	records, _, err := r.repo.List(ctx)
	return records, err
}

func (r *BunIndexRepository) Update(ctx context.Context, record *Index) (*Index, error) {
	updated, err := r.repo.Update(ctx, record)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunIndexRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &Index{ID: id})
}

// BunIndexEntryRepository implements IndexEntryRepository with optional caching.
type BunIndexEntryRepository struct {
	repo         repository.Repository[*IndexEntry]
	db           *bun.DB
	cacheService cache.CacheService
	cachePrefix  string
}

// NewBunIndexEntryRepository creates an entry repository without caching.
func NewBunIndexEntryRepository(db *bun.DB) *BunIndexEntryRepository {
	return NewBunIndexEntryRepositoryWithCache(db, nil, nil)
}

// NewBunIndexEntryRepositoryWithCache creates an entry repository with caching services.
func NewBunIndexEntryRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, serializer cache.KeySerializer) *BunIndexEntryRepository {
	base := NewIndexEntryRepository(db)
	var svc cache.CacheService
	if cacheService != nil && serializer != nil {
		base = repositorycache.New(base, cacheService, serializer)
		svc = cacheService
	}
	prefix := ""
	if svc != nil {
		prefix = cachePrefix(entryNamespace)
	}
	return &BunIndexEntryRepository{
		repo:         base,
		db:           db,
		cacheService: svc,
		cachePrefix:  prefix,
	}
}

func (r *BunIndexEntryRepository) Create(ctx context.Context, entry *IndexEntry) (*IndexEntry, error) {
	created, err := r.repo.Create(ctx, entry)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *BunIndexEntryRepository) GetByID(ctx context.Context, id uuid.UUID) (*IndexEntry, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, "index_entry", id.String())
	}
	return record, nil
}

func (r *BunIndexEntryRepository) ListByIndex(ctx context.Context, indexID uuid.UUID) ([]*IndexEntry, error) {
	var entries []*IndexEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("die.index_id = ?", indexID).
		Where("die.deleted_at IS NULL").
		Order("die.depth ASC", "die.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("index_entry repository error: %w", err)
	}
	return entries, nil
}

func (r *BunIndexEntryRepository) ListChildren(ctx context.Context, parentID uuid.UUID) ([]*IndexEntry, error) {
	var entries []*IndexEntry
	err := r.db.NewSelect().
		Model(&entries).
		Where("die.parent_id = ?", parentID).
		Where("die.deleted_at IS NULL").
		Order("die.position ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("index_entry repository error: %w", err)
	}
	return entries, nil
}

func (r *BunIndexEntryRepository) Update(ctx context.Context, entry *IndexEntry) (*IndexEntry, error) {
	updated, err := r.repo.Update(ctx, entry)
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *BunIndexEntryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.repo.Delete(ctx, &IndexEntry{ID: id})
}

func mapRepositoryError(err error, resource, key string) error {
	if err == nil {
		return nil
	}

	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &NotFoundError{Resource: resource, Key: key}
	}

	return fmt.Errorf("%s repository error: %w", resource, err)
}

func cachePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + cache.KeySeparator
}
