package index

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
)

type memoryIndexRepository struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Index
	byCode map[string]uuid.UUID
}

// NewMemoryIndexRepository constructs an in-memory repository for indexes.
func NewMemoryIndexRepository() IndexRepository {
	return &memoryIndexRepository{
		byID:   make(map[uuid.UUID]*Index),
		byCode: make(map[string]uuid.UUID),
	}
}

func (m *memoryIndexRepository) Create(_ context.Context, record *Index) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneIndex(record)
	m.byID[cloned.ID] = cloned
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneIndex(cloned), nil
}

func (m *memoryIndexRepository) GetByID(_ context.Context, id uuid.UUID) (*Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "index", Key: id.String()}
	}
	return cloneIndex(record), nil
}

func (m *memoryIndexRepository) GetByCode(_ context.Context, code string) (*Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	id, ok := m.byCode[code]
	if !ok {
		return nil, &NotFoundError{Resource: "index", Key: code}
	}
	return cloneIndex(m.byID[id]), nil
}

func (m *memoryIndexRepository) List(_ context.Context) ([]*Index, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records := make([]*Index, 0, len(m.byID))
	for _, record := range m.byID {
		records = append(records, cloneIndex(record))
	}
	sort.Slice(records, func(i, j int) bool { return records[i].Code < records[j].Code })
	return records, nil
}

func (m *memoryIndexRepository) Update(_ context.Context, record *Index) (*Index, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[record.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "index", Key: record.ID.String()}
	}

	oldCode := existing.Code
	cloned := cloneIndex(record)
	m.byID[cloned.ID] = cloned

	if oldCode != "" && oldCode != cloned.Code {
		delete(m.byCode, oldCode)
	}
	if cloned.Code != "" {
		m.byCode[cloned.Code] = cloned.ID
	}
	return cloneIndex(cloned), nil
}

func (m *memoryIndexRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "index", Key: id.String()}
	}
	delete(m.byID, id)
	if existing.Code != "" {
		delete(m.byCode, existing.Code)
	}
	return nil
}

// NewMemoryIndexEntryRepository constructs an in-memory repository for entries.
func NewMemoryIndexEntryRepository() IndexEntryRepository {
	return &memoryIndexEntryRepository{
		byID:      make(map[uuid.UUID]*IndexEntry),
		byIndexID: make(map[uuid.UUID][]uuid.UUID),
		byParent:  make(map[uuid.UUID][]uuid.UUID),
	}
}

type memoryIndexEntryRepository struct {
	mu        sync.RWMutex
	byID      map[uuid.UUID]*IndexEntry
	byIndexID map[uuid.UUID][]uuid.UUID
	byParent  map[uuid.UUID][]uuid.UUID
}

func (m *memoryIndexEntryRepository) Create(_ context.Context, entry *IndexEntry) (*IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	cloned := cloneIndexEntry(entry)
	m.byID[cloned.ID] = cloned
	m.byIndexID[cloned.IndexID] = append(m.byIndexID[cloned.IndexID], cloned.ID)
	if cloned.ParentID != nil {
		parentID := *cloned.ParentID
		m.byParent[parentID] = append(m.byParent[parentID], cloned.ID)
	}
	return cloneIndexEntry(cloned), nil
}

func (m *memoryIndexEntryRepository) GetByID(_ context.Context, id uuid.UUID) (*IndexEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	record, ok := m.byID[id]
	if !ok {
		return nil, &NotFoundError{Resource: "index_entry", Key: id.String()}
	}
	return cloneIndexEntry(record), nil
}

func (m *memoryIndexEntryRepository) ListByIndex(_ context.Context, indexID uuid.UUID) ([]*IndexEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byIndexID[indexID]
	entries := make([]*IndexEntry, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, cloneIndexEntry(m.byID[id]))
	}
	return entries, nil
}

func (m *memoryIndexEntryRepository) ListChildren(_ context.Context, parentID uuid.UUID) ([]*IndexEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byParent[parentID]
	children := make([]*IndexEntry, 0, len(ids))
	for _, id := range ids {
		children = append(children, cloneIndexEntry(m.byID[id]))
	}
	return children, nil
}

func (m *memoryIndexEntryRepository) Update(_ context.Context, entry *IndexEntry) (*IndexEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	existing, ok := m.byID[entry.ID]
	if !ok {
		return nil, &NotFoundError{Resource: "index_entry", Key: entry.ID.String()}
	}

	oldIndexID := existing.IndexID
	var oldParentID *uuid.UUID
	if existing.ParentID != nil {
		tmp := *existing.ParentID
		oldParentID = &tmp
	}

	cloned := cloneIndexEntry(entry)
	m.byID[cloned.ID] = cloned

	if oldIndexID != cloned.IndexID {
		m.byIndexID[oldIndexID] = removeUUID(m.byIndexID[oldIndexID], cloned.ID)
		m.byIndexID[cloned.IndexID] = appendUniqueUUID(m.byIndexID[cloned.IndexID], cloned.ID)
	}

	if !uuidPtrEqual(oldParentID, cloned.ParentID) {
		if oldParentID != nil {
			m.byParent[*oldParentID] = removeUUID(m.byParent[*oldParentID], cloned.ID)
		}
		if cloned.ParentID != nil {
			m.byParent[*cloned.ParentID] = appendUniqueUUID(m.byParent[*cloned.ParentID], cloned.ID)
		}
	}

	return cloneIndexEntry(cloned), nil
}

func (m *memoryIndexEntryRepository) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.byID[id]
	if !ok {
		return &NotFoundError{Resource: "index_entry", Key: id.String()}
	}

	delete(m.byID, id)
	m.byIndexID[entry.IndexID] = removeUUID(m.byIndexID[entry.IndexID], id)
	if entry.ParentID != nil {
		m.byParent[*entry.ParentID] = removeUUID(m.byParent[*entry.ParentID], id)
	}
	return nil
}

func cloneIndex(src *Index) *Index {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.Description != nil {
		desc := *src.Description
		cloned.Description = &desc
	}
	if len(src.Entries) > 0 {
		cloned.Entries = make([]*IndexEntry, len(src.Entries))
		for i, entry := range src.Entries {
			cloned.Entries[i] = cloneIndexEntry(entry)
		}
	}
	return &cloned
}

func cloneIndexEntry(src *IndexEntry) *IndexEntry {
	if src == nil {
		return nil
	}
	cloned := *src
	if src.ParentID != nil {
		id := *src.ParentID
		cloned.ParentID = &id
	}
	cloned.Index = nil
	cloned.Parent = nil
	if len(src.Children) > 0 {
		cloned.Children = make([]*IndexEntry, len(src.Children))
		for i, child := range src.Children {
			cloned.Children[i] = cloneIndexEntry(child)
		}
	}
	return &cloned
}

func removeUUID(list []uuid.UUID, id uuid.UUID) []uuid.UUID {
	if len(list) == 0 {
		return list
	}
	out := make([]uuid.UUID, 0, len(list))
	for _, item := range list {
		if item != id {
			out = append(out, item)
		}
	}
	return out
}

func appendUniqueUUID(list []uuid.UUID, id uuid.UUID) []uuid.UUID {
	for _, item := range list {
		if item == id {
			return list
		}
	}
	return append(list, id)
}

func uuidPtrEqual(a, b *uuid.UUID) bool {
	if a == nil && b == nil {
		return true
	}
	if a == nil || b == nil {
		return false
	}
	return *a == *b
}
