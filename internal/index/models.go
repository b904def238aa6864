package index

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Index represents one persisted navigation tree, identified by code.
type Index struct {
	bun.BaseModel `bun:"table:doc_indexes,alias:di"`

	ID           uuid.UUID     `bun:",pk,type:uuid" json:"id"`
	Code         string        `bun:"code,notnull" json:"code"`
	RootDocument string        `bun:"root_document,notnull" json:"root_document"`
	Description  *string       `bun:"description" json:"description,omitempty"`
	BuiltAt      time.Time     `bun:"built_at,nullzero" json:"built_at,omitempty"`
	CreatedAt    time.Time     `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time     `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
	Entries      []*IndexEntry `bun:"rel:has-many,join:id=index_id" json:"entries,omitempty"`
}

// IndexEntry is one persisted navigation node with optional hierarchy.
type IndexEntry struct {
	bun.BaseModel `bun:"table:doc_index_entries,alias:die"`

	ID       uuid.UUID  `bun:",pk,type:uuid" json:"id"`
	IndexID  uuid.UUID  `bun:"index_id,notnull,type:uuid" json:"index_id"`
	ParentID *uuid.UUID `bun:"parent_id,type:uuid" json:"parent_id,omitempty"`
	// CanonicalKey is the slash-joined ref chain from the root, used to match
	// persisted entries against rebuilt trees.
	CanonicalKey string     `bun:"canonical_key,notnull" json:"canonical_key"`
	Ref          string     `bun:"ref,notnull" json:"ref"`
	Title        string     `bun:"title" json:"title,omitempty"`
	SourcePath   string     `bun:"source_path" json:"source_path,omitempty"`
	URL          string     `bun:"url" json:"url,omitempty"`
	Caption      string     `bun:"caption" json:"caption,omitempty"`
	Position     int        `bun:"position,notnull,default:0" json:"position"`
	Depth        int        `bun:"depth,notnull,default:0" json:"depth"`
	Hidden       bool       `bun:"hidden,notnull,default:false" json:"hidden,omitempty"`
	Numbered     bool       `bun:"numbered,notnull,default:false" json:"numbered,omitempty"`
	External     bool       `bun:"external,notnull,default:false" json:"external,omitempty"`
	Checksum     string     `bun:"checksum" json:"checksum,omitempty"`
	DeletedAt    *time.Time `bun:"deleted_at,nullzero" json:"deleted_at,omitempty"`
	CreatedAt    time.Time  `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt    time.Time  `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`

	Index    *Index        `bun:"rel:belongs-to,join:index_id=id" json:"index,omitempty"`
	Parent   *IndexEntry   `bun:"rel:belongs-to,join:parent_id=id" json:"parent,omitempty"`
	Children []*IndexEntry `bun:"rel:has-many,join:id=parent_id" json:"children,omitempty"`
}
