package pages

import (
	"context"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// PageRepository is the persistent store of page definitions.
type PageRepository interface {
	GetByName(ctx context.Context, orgScope, name string) (*Page, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Page, error)
	List(ctx context.Context, orgScope string) ([]*Page, error)
	Save(ctx context.Context, page *Page) (*Page, error)
}

// NewPageRepository builds the go-repository-bun repository for page definitions.
func NewPageRepository(db *bun.DB) repository.Repository[*Page] {
	return repository.MustNewRepository(db, repository.ModelHandlers[*Page]{
		NewRecord: func() *Page { return &Page{} },
		GetID: func(p *Page) uuid.UUID {
			return p.ID
		},
		SetID: func(p *Page, id uuid.UUID) {
			p.ID = id
		},
		GetIdentifier: func() string {
			return "name"
		},
		GetIdentifierValue: func(p *Page) string {
			return p.Name
		},
	})
}
