package index

import (
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// NewIndexRepository creates a repository for Index entities.
func NewIndexRepository(db *bun.DB) repository.Repository[*Index] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Index]{
		NewRecord: func() *Index { return &Index{} },
		GetID: func(record *Index) uuid.UUID {
			return record.ID
		},
		SetID: func(record *Index, id uuid.UUID) {
			record.ID = id
		},
		GetIdentifier: func() string {
			return "code"
		},
		GetIdentifierValue: func(record *Index) string {
			return record.Code
		},
	})
}

// NewIndexEntryRepository creates a repository for IndexEntry entities.
func NewIndexEntryRepository(db *bun.DB) repository.Repository[*IndexEntry] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*IndexEntry]{
		NewRecord: func() *IndexEntry { return &IndexEntry{} },
		GetID: func(entry *IndexEntry) uuid.UUID {
			return entry.ID
		},
		SetID: func(entry *IndexEntry, id uuid.UUID) {
			entry.ID = id
		},
		GetIdentifier: func() string {
			return "canonical_key"
		},
		GetIdentifierValue: func(entry *IndexEntry) string {
			return entry.CanonicalKey
		},
	})
}
