package compose

import (
	"context"
	"errors"

	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/metacache"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

var errIndexUnavailable = errors.New("search index is not configured")

const (
	fieldContent          = "content"
	fieldCount            = "count"
	fieldCollections      = "collections"
	fieldCollectionsCount = "collectionsCount"
	fieldAPIID            = "apiId"
	fieldResMsgID         = "resmsgId"
	queryLimitKey         = "limit"
)

// task is one section ready for dispatch.
type task struct {
	ref     pages.SectionRef
	section *sections.Section
	query   *sections.Query
	filters *filters.Set
}

// effectiveFilters applies section overrides wholesale, otherwise merges the
// request filters into the section defaults.
func effectiveFilters(defaults, requestFilters, override *filters.Set, hasOverride bool) *filters.Set {
	if hasOverride {
		return filters.Overlay(defaults, override)
	}
	return filters.Merge(defaults, requestFilters)
}

// Resolver resolves single sections against their backend.
type Resolver struct {
	content   interfaces.ContentSearcher
	index     interfaces.SearchIndex
	cache     *metacache.Cache
	pageSize  int
	indexType string
	logger    interfaces.Logger
}

// Resolve returns nil without error for data sources it does not serve.
func (r *Resolver) Resolve(ctx context.Context, t task, req Request) (*ResolvedSection, error) {
	switch t.section.Source() {
	case sections.DataSourceContent:
		return r.resolveContent(ctx, t, req)
	case sections.DataSourceBatch:
		return r.resolveBatch(ctx, t, req)
	default:
		return nil, nil
	}
}

func (r *Resolver) limit(req Request) int {
	if req.Limit > 0 {
		return req.Limit
	}
	return r.pageSize
}

// resolveContent issues the effective query and records it on the cached
// section definition.
func (r *Resolver) resolveContent(ctx context.Context, t task, req Request) (*ResolvedSection, error) {
	if r.content == nil {
		return nil, backendFailureError(t.section.Key, errors.New("content search is not configured"))
	}
	query := t.query.Clone()
	query.SetFilters(t.filters)
	query.Set(queryLimitKey, r.limit(req))
	for key, value := range req.Params {
		query.Set(key, value)
	}

	result, err := r.content.Search(ctx, interfaces.ContentSearchRequest{
		Query:   query.Document(),
		Headers: req.Headers,
	})
	if err != nil {
		return nil, backendFailureError(t.section.Key, err)
	}

	resolved := newResolvedSection(t.ref, t.section)
	resolved.SearchQuery = query.String()
	resolved.APIID = result.APIID
	resolved.ResMsgID = result.ResMsgID
	absorbContentFields(resolved, result.Fields)

	updated := t.section.Clone()
	updated.SearchQuery = resolved.SearchQuery
	if err := r.cache.PutSection(ctx, updated); err != nil {
		r.logger.Warn("compose.cache.section_put_failed", "section", updated.Key, "error", err)
	}
	return resolved, nil
}

func absorbContentFields(resolved *ResolvedSection, fields map[string]any) {
	extra := make(map[string]any, len(fields))
	for key, value := range fields {
		extra[key] = value
	}
	if id, ok := extra[fieldAPIID].(string); ok && resolved.APIID == "" {
		resolved.APIID = id
	}
	if id, ok := extra[fieldResMsgID].(string); ok && resolved.ResMsgID == "" {
		resolved.ResMsgID = id
	}
	delete(extra, fieldAPIID)
	delete(extra, fieldResMsgID)

	if raw, ok := extra[fieldContent]; ok {
		resolved.Contents = toContentItems(raw)
		delete(extra, fieldContent)
	}
	if raw, ok := extra[fieldCount]; ok {
		if count, ok := toCount(raw); ok {
			resolved.Count = count
		}
		delete(extra, fieldCount)
	} else {
		resolved.Count = int64(len(resolved.Contents))
	}
	if raw, ok := extra[fieldCollections]; ok {
		resolved.Collections = toContentItems(raw)
		delete(extra, fieldCollections)
	}
	if raw, ok := extra[fieldCollectionsCount]; ok {
		if count, ok := toCount(raw); ok {
			resolved.CollectionsCount = count
		}
		delete(extra, fieldCollectionsCount)
	}
	if len(extra) > 0 {
		resolved.Extra = extra
	}
}

// resolveBatch queries the search index synchronously. The stored query
// template is left untouched.
func (r *Resolver) resolveBatch(ctx context.Context, t task, req Request) (*ResolvedSection, error) {
	if r.index == nil {
		return nil, backendFailureError(t.section.Key, errIndexUnavailable)
	}
	limit, ok := t.query.Limit()
	if !ok {
		limit = r.limit(req)
	}
	result, err := r.index.Search(ctx, interfaces.IndexQuery{
		TypeName: r.indexType,
		Query:    t.query.Text(),
		Filters:  t.filters.Map(),
		Limit:    limit,
		SortBy:   t.query.SortBy(),
	})
	if err != nil {
		return nil, backendFailureError(t.section.Key, err)
	}

	resolved := newResolvedSection(t.ref, t.section)
	resolved.Count = result.Count
	resolved.Contents = toContentItems(result.Content)
	if resolved.Contents == nil {
		resolved.Contents = []ContentItem{}
	}
	return resolved, nil
}
