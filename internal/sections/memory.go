package sections

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-page-composer/internal/legacydate"
)

// MemorySectionRepository is an in-memory section store for scaffolding/tests.
type MemorySectionRepository struct {
	mu       sync.RWMutex
	sections map[string]*Section
}

var _ SectionRepository = (*MemorySectionRepository)(nil)

// NewMemorySectionRepository constructs the repository.
func NewMemorySectionRepository() *MemorySectionRepository {
	return &MemorySectionRepository{sections: make(map[string]*Section)}
}

func (m *MemorySectionRepository) GetByKey(_ context.Context, key string) (*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	section, ok := m.sections[key]
	if !ok {
		return nil, &SectionNotFoundError{Key: key}
	}
	return section.Clone(), nil
}

func (m *MemorySectionRepository) List(_ context.Context) ([]*Section, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Section, 0, len(m.sections))
	for _, section := range m.sections {
		out = append(out, section.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Key < out[j].Key
	})
	return out, nil
}

func (m *MemorySectionRepository) Save(_ context.Context, section *Section) (*Section, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	stored := section.Clone()
	stored.UpdatedDate = &now
	if existing, ok := m.sections[stored.Key]; ok {
		stored.ID = existing.ID
		stored.CreatedDate = legacydate.Clone(existing.CreatedDate)
		stored.CreatedBy = existing.CreatedBy
		stored.LegacyCreatedDate = existing.LegacyCreatedDate
	} else if stored.CreatedDate == nil {
		stored.CreatedDate = &now
	}
	m.sections[stored.Key] = stored
	return stored.Clone(), nil
}
