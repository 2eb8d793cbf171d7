package sections

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/goliatone/go-repository-cache/cache"
	repositorycache "github.com/goliatone/go-repository-cache/repositorycache"
	"github.com/uptrace/bun"
)

type BunSectionRepository struct {
	repo repository.Repository[*Section]
}

var _ SectionRepository = (*BunSectionRepository)(nil)

func NewBunSectionRepository(db *bun.DB) *BunSectionRepository {
	return NewBunSectionRepositoryWithCache(db, nil, nil)
}

// NewBunSectionRepositoryWithCache constructs a SectionRepository backed by bun
// with optional go-repository-cache decoration.
func NewBunSectionRepositoryWithCache(db *bun.DB, cacheService cache.CacheService, keySerializer cache.KeySerializer) *BunSectionRepository {
	return &BunSectionRepository{repo: wrapWithCache(NewSectionRepository(db), cacheService, keySerializer)}
}

func (r *BunSectionRepository) GetByKey(ctx context.Context, key string) (*Section, error) {
	records, _, err := r.repo.List(ctx,
		repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.Where("?TableAlias.section_key = ?", key)
		}),
		repository.SelectPaginate(1, 0),
	)
	if err != nil {
		return nil, mapRepositoryError(err, key)
	}
	if len(records) == 0 {
		return nil, &SectionNotFoundError{Key: key}
	}
	return records[0], nil
}

func (r *BunSectionRepository) List(ctx context.Context) ([]*Section, error) {
	records, _, err := r.repo.List(ctx, repository.SelectRawProcessor(func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr("?TableAlias.section_key ASC")
	}))
	if err != nil {
		return nil, fmt.Errorf("section repository error: %w", err)
	}
	return records, nil
}

// Save creates the section or replaces its mutable columns.
func (r *BunSectionRepository) Save(ctx context.Context, section *Section) (*Section, error) {
	now := time.Now().UTC()
	section.UpdatedDate = &now

	existing, err := r.GetByKey(ctx, section.Key)
	if err != nil && !IsNotFound(err) {
		return nil, err
	}
	if existing == nil {
		if section.CreatedDate == nil {
			section.CreatedDate = &now
		}
		created, err := r.repo.Create(ctx, section)
		if err != nil {
			return nil, fmt.Errorf("create section definition: %w", err)
		}
		return created, nil
	}

	section.ID = existing.ID
	section.CreatedDate = existing.CreatedDate
	section.CreatedBy = existing.CreatedBy
	section.LegacyCreatedDate = existing.LegacyCreatedDate
	updated, err := r.repo.Update(ctx, section,
		repository.UpdateByID(section.ID.String()),
		repository.UpdateColumns(
			"name",
			"data_source",
			"search_query",
			"dynamic_filters",
			"display",
			"status",
			"updated_by",
			"updated_date",
		),
	)
	if err != nil {
		return nil, fmt.Errorf("update section definition: %w", err)
	}
	return updated, nil
}

func mapRepositoryError(err error, key string) error {
	if err == nil {
		return nil
	}
	if goerrors.IsCategory(err, repository.CategoryDatabaseNotFound) {
		return &SectionNotFoundError{Key: key}
	}
	return fmt.Errorf("section repository error: %w", err)
}

func wrapWithCache[T any](base repository.Repository[T], cacheService cache.CacheService, keySerializer cache.KeySerializer) repository.Repository[T] {
	if cacheService == nil || keySerializer == nil {
		return base
	}
	return repositorycache.New(base, cacheService, keySerializer)
}
