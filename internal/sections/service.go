package sections

import (
	"context"
	"strings"

	"github.com/goliatone/go-page-composer/internal/activity"
	"github.com/goliatone/go-page-composer/internal/identity"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// CachePopulator receives section definitions after a successful write.
type CachePopulator interface {
	PutSection(ctx context.Context, section *Section) error
}

// ActivityRecorder receives an event for every successful write.
type ActivityRecorder interface {
	Record(ctx context.Context, event activity.Event)
}

// Detacher runs best-effort background work.
type Detacher interface {
	Detach(ctx context.Context, name string, fn func(context.Context) error)
}

// SaveSectionRequest creates or updates a section definition.
type SaveSectionRequest struct {
	Key            string
	Name           string
	DataSource     string
	SearchQuery    string
	DynamicFilters string
	Display        map[string]any
	Status         string
	Actor          string
}

// Service is the administrative section definition API.
type Service interface {
	Save(ctx context.Context, req SaveSectionRequest) (*Section, error)
	Get(ctx context.Context, key string) (*Section, error)
	List(ctx context.Context) ([]*Section, error)
}

// ServiceOption customises the section service.
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
	repo     SectionRepository
	cache    CachePopulator
	detacher Detacher
	activity ActivityRecorder
	logger   interfaces.Logger
}

// NewService constructs the section service.
func NewService(repo SectionRepository, opts ...ServiceOption) Service {
	s := &service{repo: repo, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Save(ctx context.Context, req SaveSectionRequest) (*Section, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	key := strings.TrimSpace(req.Key)
	if key == "" {
		return nil, ErrKeyRequired
	}
	if _, err := ParseQuery(req.SearchQuery); err != nil {
		return nil, err
	}

	section := &Section{
		ID:             identity.SectionUUID(key),
		Key:            key,
		Name:           strings.TrimSpace(req.Name),
		DataSource:     ParseDataSource(req.DataSource),
		SearchQuery:    req.SearchQuery,
		DynamicFilters: ParsePolicy(req.DynamicFilters),
		Display:        req.Display,
		Status:         strings.TrimSpace(req.Status),
		CreatedBy:      req.Actor,
		UpdatedBy:      req.Actor,
	}

	saved, err := s.repo.Save(ctx, section)
	if err != nil {
		return nil, err
	}
	s.populate(ctx, saved)
	s.record(ctx, saved, req.Actor)
	return saved, nil
}

func (s *service) Get(ctx context.Context, key string) (*Section, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	section, err := s.repo.GetByKey(ctx, key)
	if err != nil {
		return nil, err
	}
	section.NormalizeDates()
	return section, nil
}

func (s *service) List(ctx context.Context) ([]*Section, error) {
	if s.repo == nil {
		return nil, ErrRepositoryMissing
	}
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.NormalizeDates()
	}
	return records, nil
}

func (s *service) populate(ctx context.Context, section *Section) {
	if s.cache == nil || s.detacher == nil || section == nil {
		return
	}
	snapshot := section.Clone()
	snapshot.NormalizeDates()
	s.detacher.Detach(ctx, "cache.populate.section", func(ctx context.Context) error {
		if err := s.cache.PutSection(ctx, snapshot); err != nil {
			s.logger.Warn("sections.cache.populate_failed", "section", snapshot.Key, "error", err)
			return err
		}
		return nil
	})
}

func (s *service) record(ctx context.Context, section *Section, actor string) {
	if s.activity == nil || section == nil {
		return
	}
	s.activity.Record(ctx, activity.Event{
		Verb:       activity.VerbSave,
		Actor:      actor,
		ObjectType: activity.ObjectSection,
		ObjectID:   section.ID.String(),
		Metadata: map[string]any{
			"section_id":  section.Key,
			"data_source": string(section.DataSource),
		},
	})
}
