package pages

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-page-composer/internal/legacydate"
)

// MemoryPageRepository is an in-memory page store for scaffolding/tests.
type MemoryPageRepository struct {
	mu        sync.RWMutex
	pages     map[uuid.UUID]*Page
	nameIndex map[string]uuid.UUID
}

var _ PageRepository = (*MemoryPageRepository)(nil)

// NewMemoryPageRepository constructs the repository.
func NewMemoryPageRepository() *MemoryPageRepository {
	return &MemoryPageRepository{
		pages:     make(map[uuid.UUID]*Page),
		nameIndex: make(map[string]uuid.UUID),
	}
}

func (m *MemoryPageRepository) GetByName(_ context.Context, orgScope, name string) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	key := Key(orgScope, name)
	id, ok := m.nameIndex[key]
	if !ok {
		return nil, &PageNotFoundError{Key: key}
	}
	return m.pages[id].Clone(), nil
}

func (m *MemoryPageRepository) GetByID(_ context.Context, id uuid.UUID) (*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	page, ok := m.pages[id]
	if !ok {
		return nil, &PageNotFoundError{Key: id.String()}
	}
	return page.Clone(), nil
}

func (m *MemoryPageRepository) List(_ context.Context, orgScope string) ([]*Page, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Page, 0, len(m.pages))
	for _, page := range m.pages {
		if orgScope != "" && page.OrganizationScope != orgScope {
			continue
		}
		out = append(out, page.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (m *MemoryPageRepository) Save(_ context.Context, page *Page) (*Page, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	stored := page.Clone()
	stored.UpdatedDate = &now
	if existing, ok := m.pages[stored.ID]; ok {
		stored.CreatedDate = legacydate.Clone(existing.CreatedDate)
		stored.CreatedBy = existing.CreatedBy
		stored.LegacyCreatedDate = existing.LegacyCreatedDate
	} else if stored.CreatedDate == nil {
		stored.CreatedDate = &now
	}
	m.pages[stored.ID] = stored
	m.nameIndex[stored.CacheKey()] = stored.ID
	return stored.Clone(), nil
}
