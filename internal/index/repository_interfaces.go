package index

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// IndexRepository exposes persistence operations for index records.
type IndexRepository interface {
	Create(ctx context.Context, record *Index) (*Index, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Index, error)
	GetByCode(ctx context.Context, code string) (*Index, error)
	List(ctx context.Context) ([]*Index, error)
	Update(ctx context.Context, record *Index) (*Index, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// IndexEntryRepository exposes persistence operations for navigation entries.
type IndexEntryRepository interface {
	Create(ctx context.Context, entry *IndexEntry) (*IndexEntry, error)
	GetByID(ctx context.Context, id uuid.UUID) (*IndexEntry, error)
	ListByIndex(ctx context.Context, indexID uuid.UUID) ([]*IndexEntry, error)
	ListChildren(ctx context.Context, parentID uuid.UUID) ([]*IndexEntry, error)
	Update(ctx context.Context, entry *IndexEntry) (*IndexEntry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// NotFoundError is returned when an index resource cannot be located.
type NotFoundError struct {
	Resource string
	Key      string
}

func (e *NotFoundError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %q not found", e.Resource, e.Key)
}
