package compose

import (
	"context"
	"strings"
	"time"

	"github.com/goliatone/go-page-composer/internal/filters"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/metacache"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/internal/tasks"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

const (
	defaultRequestTimeout = 10 * time.Second
	defaultPageSize       = 10
	defaultIndexType      = "course-batch"
)

// Service composes pages.
type Service interface {
	Compose(ctx context.Context, req Request) (*ComposedPage, error)
	ComposeForViewer(ctx context.Context, req Request) (*ComposedPage, error)
}

// Dependencies are the collaborators of the composition service.
type Dependencies struct {
	Pages    pages.PageRepository
	Sections sections.SectionRepository
	Cache    *metacache.Cache
	Pool     *tasks.Pool
	Content  interfaces.ContentSearcher
	Index    interfaces.SearchIndex
}

// Option customises the service.
type Option func(*service)

// WithRequestTimeout bounds a whole composition, section tasks included.
func WithRequestTimeout(timeout time.Duration) Option {
	return func(s *service) {
		if timeout > 0 {
			s.timeout = timeout
		}
	}
}

// WithContentPageSize sets the default content search limit.
func WithContentPageSize(size int) Option {
	return func(s *service) {
		if size > 0 {
			s.resolver.pageSize = size
		}
	}
}

// WithIndexTypeName sets the search index type used by batch sections.
func WithIndexTypeName(name string) Option {
	return func(s *service) {
		if strings.TrimSpace(name) != "" {
			s.resolver.indexType = name
		}
	}
}

// WithViewerProfileKeys sets the profile attributes considered by viewer selection.
func WithViewerProfileKeys(keys ...string) Option {
	return func(s *service) {
		if len(keys) > 0 {
			s.selector = NewViewerSelector(keys...)
		}
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	loader   *loader
	resolver *Resolver
	selector *ViewerSelector
	pool     *tasks.Pool
	timeout  time.Duration
	logger   interfaces.Logger
}

// NewService wires a composition service.
func NewService(deps Dependencies, opts ...Option) Service {
	cache := deps.Cache
	if cache == nil {
		cache = metacache.New(nil)
	}
	pool := deps.Pool
	if pool == nil {
		pool = tasks.NewPool(0)
	}
	s := &service{
		loader: &loader{
			pages:    deps.Pages,
			sections: deps.Sections,
			cache:    cache,
		},
		resolver: &Resolver{
			content:   deps.Content,
			index:     deps.Index,
			cache:     cache,
			pageSize:  defaultPageSize,
			indexType: defaultIndexType,
		},
		selector: NewViewerSelector(defaultViewerProfileKeys...),
		pool:     pool,
		timeout:  defaultRequestTimeout,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.loader.logger = s.logger
	s.resolver.logger = s.logger
	return s
}

func (s *service) Compose(ctx context.Context, req Request) (*ComposedPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	logger := logging.WithFields(s.logger.WithContext(ctx), map[string]any{
		"page":    req.PageName,
		"org":     req.OrgScope,
		"channel": string(req.Channel),
	})

	page, err := s.loader.page(ctx, req.OrgScope, req.PageName)
	if err != nil {
		logger.Debug("compose.page.load_failed", "error", err)
		return nil, err
	}

	planned, ignored, err := s.plan(ctx, page.Sections(req.Channel), req, logger)
	if err != nil {
		return nil, err
	}

	results := make([]*ResolvedSection, len(planned))
	group := s.pool.Group(ctx)
	for i, t := range planned {
		group.Go(func(ctx context.Context) error {
			resolved, err := s.resolver.Resolve(ctx, t, req)
			if err != nil {
				return err
			}
			results[i] = resolved
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		logger.Warn("compose.sections.failed", "error", err)
		return nil, backendFailureError("", err)
	}

	composed := &ComposedPage{
		Name:            page.Name,
		ID:              page.ID.String(),
		Sections:        make([]*ResolvedSection, 0, len(results)),
		IgnoredSections: ignored,
	}
	for _, resolved := range results {
		if resolved != nil {
			composed.Sections = append(composed.Sections, resolved)
		}
	}
	logger.Debug("compose.page.done", "sections", len(composed.Sections), "ignored", len(ignored))
	return composed, nil
}

func (s *service) ComposeForViewer(ctx context.Context, req Request) (*ComposedPage, error) {
	page, err := s.Compose(ctx, req)
	if err != nil {
		return nil, err
	}
	s.selector.Select(page, req.ViewerProfile)
	return page, nil
}

// plan evaluates filter policies in definition order before any backend
// call is made. Required sections without overrides fail the request and
// ignored ones are collected; the rest become tasks.
func (s *service) plan(ctx context.Context, refs []pages.SectionRef, req Request, logger interfaces.Logger) ([]task, []string, error) {
	planned := make([]task, 0, len(refs))
	ignored := []string{}
	requestFilters := req.Filters
	if requestFilters == nil {
		requestFilters = filters.NewSet()
	}

	for _, ref := range refs {
		section, err := s.loader.section(ctx, ref.SectionID)
		if err != nil {
			return nil, nil, err
		}
		if section == nil {
			logger.Warn("compose.section.missing", "section", ref.SectionID)
			continue
		}

		override, hasOverride := req.override(section.Key)
		if !hasOverride {
			switch section.Policy() {
			case sections.PolicyRequired:
				return nil, nil, sectionFilterRequiredError(section.Key)
			case sections.PolicyIgnore:
				ignored = append(ignored, section.Key)
				continue
			}
		}

		query, err := section.Query()
		if err != nil {
			return nil, nil, invalidSectionQueryError(section.Key, err)
		}
		planned = append(planned, task{
			ref:     ref,
			section: section,
			query:   query,
			filters: effectiveFilters(query.Filters(), requestFilters, override, hasOverride),
		})
	}
	return planned, ignored, nil
}
