package pages

import (
	"context"
	"fmt"
	"strings"

	"github.com/goliatone/go-page-composer/internal/activity"
	"github.com/goliatone/go-page-composer/internal/identity"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
	"github.com/google/uuid"
)

// CachePopulator receives page definitions after a successful write.
type CachePopulator interface {
	PutPage(ctx context.Context, page *Page) error
}

// ActivityRecorder receives an event for every successful write.
type ActivityRecorder interface {
	Record(ctx context.Context, event activity.Event)
}

// Detacher runs best-effort background work.
type Detacher interface {
	Detach(ctx context.Context, name string, fn func(context.Context) error)
}

// SavePageRequest creates or updates a page definition.
type SavePageRequest struct {
	Name              string
	OrganizationScope string
	WebSections       []SectionRef
	AppSections       []SectionRef
	Actor             string
}

// Service is the administrative page definition API.
type Service interface {
	Save(ctx context.Context, req SavePageRequest) (*Page, error)
	Get(ctx context.Context, orgScope, name string) (*Page, error)
	List(ctx context.Context, orgScope string) ([]*Page, error)
}

// ServiceOption customises the page service.
type ServiceOption func(*service)

// WithCachePopulator populates the metadata cache after writes, through the detacher.
func WithCachePopulator(cache CachePopulator, detacher Detacher) ServiceOption {
	return func(s *service) {
		s.cache = cache
		s.detacher = detacher
	}
}

// WithActivity emits an activity event after each successful save.
func WithActivity(recorder ActivityRecorder) ServiceOption {
	return func(s *service) {
		s.activity = recorder
	}
}

// WithLogger sets the service logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	repo     PageRepository
	cache    CachePopulator
	detacher Detacher
	activity ActivityRecorder
	logger   interfaces.Logger
}

// NewService constructs the page service.
func NewService(repo PageRepository, opts ...ServiceOption) Service {
	s := &service{repo: repo, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Save(ctx context.Context, req SavePageRequest) (*Page, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrNameRequired
	}
	for _, refs := range [][]SectionRef{req.WebSections, req.AppSections} {
		for i, ref := range refs {
			if strings.TrimSpace(ref.SectionID) == "" {
				return nil, fmt.Errorf("%w: position %d", ErrSectionIDRequired, i)
			}
		}
	}

	scope := NormalizeScope(req.OrganizationScope)
	page := &Page{
		ID:                identity.PageUUID(scope, name),
		Name:              name,
		OrganizationScope: scope,
		WebSections:       append([]SectionRef(nil), req.WebSections...),
		AppSections:       append([]SectionRef(nil), req.AppSections...),
		CreatedBy:         req.Actor,
		UpdatedBy:         req.Actor,
	}
	if page.ID == uuid.Nil {
		page.ID = uuid.New()
	}

	saved, err := s.repo.Save(ctx, page)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, saved)
	s.record(ctx, saved, req.Actor)
	return saved, nil
}

func (s *service) Get(ctx context.Context, orgScope, name string) (*Page, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	page, err := s.repo.GetByName(ctx, orgScope, name)
	if err != nil {
		return nil, err
	}
	page.NormalizeDates()
	return page, nil
}

func (s *service) List(ctx context.Context, orgScope string) ([]*Page, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	records, err := s.repo.List(ctx, orgScope)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.NormalizeDates()
	}
	return records, nil
}

// populate hands the saved page to the cache off the response path.
func (s *service) populate(ctx context.Context, page *Page) {
	if s.cache == nil || s.detacher == nil || page == nil {
		return
	}
	snapshot := page.Clone()
	snapshot.NormalizeDates()
	s.detacher.Detach(ctx, "cache.populate.page", func(ctx context.Context) error {
		if err := s.cache.PutPage(ctx, snapshot); err != nil {
			s.logger.Warn("pages.cache.populate_failed", "page", snapshot.CacheKey(), "error", err)
			return err
		}
		return nil
	})
}

func (s *service) record(ctx context.Context, page *Page, actor string) {
	if s.activity == nil || page == nil {
		return
	}
	s.activity.Record(ctx, activity.Event{
		Verb:       activity.VerbSave,
		Actor:      actor,
		Tenant:     page.OrganizationScope,
		ObjectType: activity.ObjectPage,
		ObjectID:   page.ID.String(),
		Metadata: map[string]any{
			"page":         page.Name,
			"web_sections": len(page.WebSections),
			"app_sections": len(page.AppSections),
		},
	})
}
