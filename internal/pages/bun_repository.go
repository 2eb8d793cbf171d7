package pages

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type BunPageRepository struct {
	repo repository.Repository[*Page]
}

var _ PageRepository = (*BunPageRepository)(nil)

func NewBunPageRepository(db *bun.DB) *BunPageRepository {
	return NewBunPageRepositoryWithCache(db, nil, nil)
}

// NewBunPageRepositoryWithCache constructs a PageRepository backed by bun with
// optional go-repository-cache decoration.
func NewBunPageRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunPageRepository {
	return &BunPageRepository{repo: wrapWithCache(NewPageRepository(db), cacheService, keySerializer)}
}

func (r *BunPageRepository) GetByName(ctx context.Context, orgScope, name string) (*Page, error) {
	scope := NormalizeScope(orgScope)
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.organization_scope = ?", scope).
				Where("?TableAlias.name = ?", name)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, Key(scope, name))
	}
	if len(records) == 0 {
		return nil, &PageNotFoundError{Key: Key(scope, name)}
	}
	return records[0], nil
}

func (r *BunPageRepository) GetByID(ctx context.Context, id uuid.UUID) (*Page, error) {
	record, err := r.repo.GetByID(ctx, id.String())
	if err != nil {
		return nil, mapRepositoryError(err, id.String())
	}
	return record, nil
}

func (r *BunPageRepository) List(ctx context.Context, orgScope string) ([]*Page, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			if orgScope == "" {
				return q
			}
			return q.Where("?TableAlias.organization_scope = ?", orgScope)
		}),
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.OrderExpr("?TableAlias.name ASC")
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("page repository error: %w", err)
	}
	return records, nil
}

// Save creates the page or replaces its mutable columns when it already exists.
func (r *BunPageRepository) Save(ctx context.Context, page *Page) (*Page, error) {
	now := time.Now().UTC()
	page.UpdatedDate = &now

	existing, err := r.GetByID(ctx, page.ID)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		if page.CreatedDate == nil {
			page.CreatedDate = &now
		}
		created, err := r.repo.Create(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("create page definition: %w", err)
		}
		return created, nil
	}

	page.CreatedDate = existing.CreatedDate
	page.CreatedBy = existing.CreatedBy
	page.LegacyCreatedDate = existing.LegacyCreatedDate
	updated, err := r.repo.Update(ctx, page,
		repository.UpdateByID(page.ID.String()),
		repository.UpdateColumns(
			"web_sections",
			"app_sections",
			"updated_by",
			"updated_date",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("update page definition: %w", err)
	}
	return updated, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &PageNotFoundError{Key: key}
	}
	return fmt.Errorf("page repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
