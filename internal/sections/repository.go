package sections

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SectionRepository is the persistent store of section definitions.
type SectionRepository interface {
	GetByKey(ctx context.Context, key string) (*Section, error)
	List(ctx context.Context) ([]*Section, error)
	Save(ctx context.Context, section *Section) (*Section, error)
}

// NewSectionRepository builds the go-repository-bun repository for section definitions.
func NewSectionRepository(db *bun.DB) repository.Repository[*Section] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Section]{
		NewRecord: func() *Section { return &Section{} },
		GetID: func(s *Section) uuid.UUID {
			return s.ID
		},
		SetID: func(s *Section, id uuid.UUID) {
			s.ID = id
		},
		GetIdentifier: func() string {
			return "section_key"
		},
		GetIdentifierValue: func(s *Section) string {
			return s.Key
		},
	})
}
