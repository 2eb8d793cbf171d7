package compose

import (
	"context"

	"github.com/goliatone/go-page-composer/internal/metacache"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// loader reads definitions cache-aside: a miss loads from the store,
// normalises the record and populates the cache before returning.
type loader struct {
	pages    pages.PageRepository
	sections sections.SectionRepository
	cache    *metacache.Cache
	logger   interfaces.Logger
}

// page looks up the organization's page first and then the default page.
func (l *loader) page(ctx context.Context, orgScope, name string) (*pages.Page, error) {
	scope := pages.NormalizeScope(orgScope)
	scopes := []string{scope}
	if scope != pages.NoOrganization {
		scopes = append(scopes, pages.NoOrganization)
	}
	for _, candidate := range scopes {
		page, err := l.pageInScope(ctx, candidate, name)
		if err != nil {
			return nil, err
		}
		if page != nil {
			return page, nil
		}
	}
	return nil, pageNotFoundError(pages.Key(scope, name))
}

func (l *loader) pageInScope(ctx context.Context, scope, name string) (*pages.Page, error) {
	if cached, ok := l.cache.GetPage(ctx, scope, name); ok {
		return cached, nil
	}
	page, err := l.pages.GetByName(ctx, scope, name)
	if err != nil {
		if pages.IsNotFound(err) {
			return nil, nil
		}
		return nil, backendFailureError("", err)
	}
	page.NormalizeDates()
	if err := l.cache.PutPage(ctx, page); err != nil {
		l.logger.Warn("compose.cache.page_put_failed", "page", page.CacheKey(), "error", err)
	}
	return page, nil
}

// section returns nil without error when the definition does not exist.
func (l *loader) section(ctx context.Context, id string) (*sections.Section, error) {
	if cached, ok := l.cache.GetSection(ctx, id); ok {
		return cached, nil
	}
	section, err := l.sections.GetByKey(ctx, id)
	if err != nil {
		if sections.IsNotFound(err) {
			return nil, nil
		}
		return nil, backendFailureError(id, err)
	}
	section.NormalizeDates()
	if err := l.cache.PutSection(ctx, section); err != nil {
		l.logger.Warn("compose.cache.section_put_failed", "section", id, "error", err)
	}
	return section, nil
}
