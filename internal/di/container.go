package di

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	repocache "github.com/goliatone/go-repository-cache/cache"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-page-composer/internal/activity"
	"github.com/goliatone/go-page-composer/internal/commands"
	definitionscmd "github.com/goliatone/go-page-composer/internal/commands/definitions"
	"github.com/goliatone/go-page-composer/internal/compose"
	"github.com/goliatone/go-page-composer/internal/contentsearch"
	"github.com/goliatone/go-page-composer/internal/fixtures"
	composerhttp "github.com/goliatone/go-page-composer/internal/http"
	"github.com/goliatone/go-page-composer/internal/logging"
	"github.com/goliatone/go-page-composer/internal/logging/gologger"
	"github.com/goliatone/go-page-composer/internal/metacache"
	"github.com/goliatone/go-page-composer/internal/pages"
	"github.com/goliatone/go-page-composer/internal/runtimeconfig"
	"github.com/goliatone/go-page-composer/internal/searchindex"
	"github.com/goliatone/go-page-composer/internal/sections"
	"github.com/goliatone/go-page-composer/internal/tasks"
	"github.com/goliatone/go-page-composer/pkg/interfaces"
)

// Container wires the composer modules from a runtime configuration.
type Container struct {
	Config runtimeconfig.Config

	loggerProvider interfaces.LoggerProvider
	logger         interfaces.Logger

	bunDB         *bun.DB
	ownsDB        bool
	cacheService  repocache.CacheService
	keySerializer repocache.KeySerializer
	cacheStore    interfaces.CacheProvider

	pageRepo    pages.PageRepository
	sectionRepo sections.SectionRepository

	metadata *metacache.Cache
	pool     *tasks.Pool

	activitySink interfaces.ActivitySink
	activity     *activity.Recorder

	content interfaces.ContentSearcher
	index   interfaces.SearchIndex
	mongo   *searchindex.MongoIndex

	pageSvc    pages.Service
	sectionSvc sections.Service
	composeSvc compose.Service

	savePage    *definitionscmd.SavePageHandler
	saveSection *definitionscmd.SaveSectionHandler
}

// Option mutates the container before it is finalised.
type Option func(*Container)

// WithBunDB supplies an already opened database. The container does not
// close it.
func WithBunDB(db *bun.DB) Option {
	return func(c *Container) {
		c.bunDB = db
	}
}

// WithCache overrides the repository cache used when repository caching is enabled.
func WithCache(service repocache.CacheService, serializer repocache.KeySerializer) Option {
	return func(c *Container) {
		c.cacheService = service
		c.keySerializer = serializer
	}
}

// WithCacheStore overrides the metadata cache store.
func WithCacheStore(store interfaces.CacheProvider) Option {
	return func(c *Container) {
		c.cacheStore = store
	}
}

// WithLoggerProvider overrides the configured logger provider.
func WithLoggerProvider(provider interfaces.LoggerProvider) Option {
	return func(c *Container) {
		c.loggerProvider = provider
	}
}

// WithContentSearcher overrides the HTTP content search client.
func WithContentSearcher(searcher interfaces.ContentSearcher) Option {
	return func(c *Container) {
		c.content = searcher
	}
}

// WithActivitySink sends definition write activity to sink instead of the log.
func WithActivitySink(sink interfaces.ActivitySink) Option {
	return func(c *Container) {
		c.activitySink = sink
	}
}

// WithSearchIndex overrides the MongoDB search index.
func WithSearchIndex(index interfaces.SearchIndex) Option {
	return func(c *Container) {
		c.index = index
	}
}

// WithPageRepository overrides the page repository.
func WithPageRepository(repo pages.PageRepository) Option {
	return func(c *Container) {
		c.pageRepo = repo
	}
}

// WithSectionRepository overrides the section repository.
func WithSectionRepository(repo sections.SectionRepository) Option {
	return func(c *Container) {
		c.sectionRepo = repo
	}
}

// NewContainer validates cfg and builds every service.
func NewContainer(ctx context.Context, cfg runtimeconfig.Config, opts ...Option) (*Container, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Container{Config: cfg}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.configureLogging(); err != nil {
		return nil, err
	}
	if err := c.configureRepositories(ctx); err != nil {
		c.closeDB()
		return nil, err
	}
	c.configureCache()
	if err := c.configureBackends(ctx); err != nil {
		c.closeDB()
		return nil, err
	}
	c.configureServices()

	c.logger.Info("container.ready",
		"storage", cfg.Storage.Provider,
		"cache", cfg.Cache.Enabled,
		"search_index", c.index != nil,
	)
	return c, nil
}

func (c *Container) configureLogging() error {
	if c.loggerProvider == nil && strings.EqualFold(strings.TrimSpace(c.Config.Logging.Provider), "gologger") {
		provider, err := gologger.NewProvider(gologger.Config{
			Level:     c.Config.Logging.Level,
			Format:    c.Config.Logging.Format,
			AddSource: c.Config.Logging.AddSource,
			Focus:     c.Config.Logging.Focus,
		})
		if err != nil {
			return err
		}
		c.loggerProvider = provider
	}
	c.logger = logging.ModuleLogger(c.loggerProvider, "composer.di")
	return nil
}

func (c *Container) configureRepositories(ctx context.Context) error {
	if strings.EqualFold(strings.TrimSpace(c.Config.Storage.Provider), "memory") && c.bunDB == nil {
		if c.pageRepo == nil {
			c.pageRepo = pages.NewMemoryPageRepository()
		}
		if c.sectionRepo == nil {
			c.sectionRepo = sections.NewMemorySectionRepository()
		}
		return nil
	}

	if c.bunDB == nil {
		db, err := OpenDB(c.Config.Storage)
		if err != nil {
			return err
		}
		c.bunDB = db
		c.ownsDB = true
	}
	if err := EnsureSchema(ctx, c.bunDB); err != nil {
		return err
	}

	if c.Config.Cache.RepositoryCache {
		if err := c.configureRepositoryCache(); err != nil {
			return err
		}
	}

	if c.pageRepo == nil {
		if c.cacheService != nil {
			c.pageRepo = pages.NewBunPageRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.pageRepo = pages.NewBunPageRepository(c.bunDB)
		}
	}
	if c.sectionRepo == nil {
		if c.cacheService != nil {
			c.sectionRepo = sections.NewBunSectionRepositoryWithCache(c.bunDB, c.cacheService, c.keySerializer)
		} else {
			c.sectionRepo = sections.NewBunSectionRepository(c.bunDB)
		}
	}
	return nil
}

func (c *Container) configureRepositoryCache() error {
	if c.cacheService != nil {
		if c.keySerializer == nil {
			c.keySerializer = repocache.NewDefaultKeySerializer()
		}
		return nil
	}
	cacheCfg := repocache.DefaultConfig()
	if c.Config.Cache.DefaultTTL > 0 {
		cacheCfg.TTL = c.Config.Cache.DefaultTTL
	}
	service, err := repocache.NewCacheService(cacheCfg)
	if err != nil {
		return err
	}
	c.cacheService = service
	c.keySerializer = repocache.NewDefaultKeySerializer()
	return nil
}

func (c *Container) configureCache() {
	store := c.cacheStore
	if store == nil && c.Config.Cache.Enabled {
		store = metacache.NewSturdyStore(metacache.StoreConfig{
			Capacity:           c.Config.Cache.Capacity,
			Shards:             c.Config.Cache.Shards,
			TTL:                c.Config.Cache.DefaultTTL,
			EvictionPercentage: c.Config.Cache.EvictionPercentage,
		})
	}
	c.cacheStore = store
	c.metadata = metacache.New(store,
		metacache.WithTTL(c.Config.Cache.DefaultTTL),
		metacache.WithLogger(logging.CacheLogger(c.loggerProvider)),
	)
	c.pool = tasks.NewPool(c.Config.Composer.Workers,
		tasks.WithLogger(logging.TasksLogger(c.loggerProvider)),
		tasks.WithDetachTimeout(c.Config.Composer.CacheWriteTimeout),
	)
}

func (c *Container) configureBackends(ctx context.Context) error {
	if c.content == nil {
		c.content = contentsearch.New(contentsearch.Config{
			BaseURL: c.Config.ContentSearch.BaseURL,
			Path:    c.Config.ContentSearch.Path,
			Timeout: c.Config.ContentSearch.Timeout,
		}, contentsearch.WithLogger(logging.ModuleLogger(c.loggerProvider, "composer.contentsearch")))
	}
	if c.index == nil && c.Config.SearchIndex.Enabled {
		index, err := searchindex.Connect(ctx, searchindex.Config{
			URI:      c.Config.SearchIndex.URI,
			Database: c.Config.SearchIndex.Database,
		}, logging.ModuleLogger(c.loggerProvider, "composer.searchindex"))
		if err != nil {
			return err
		}
		c.mongo = index
		c.index = index
	}
	return nil
}

func (c *Container) configureServices() {
	activityLogger := logging.ModuleLogger(c.loggerProvider, "composer.activity")
	sink := c.activitySink
	if sink == nil {
		sink = activity.NewLogSink(activityLogger)
	}
	c.activity = activity.NewRecorder(sink, activity.WithLogger(activityLogger))

	c.pageSvc = pages.NewService(c.pageRepo,
		pages.WithCachePopulator(c.metadata, c.pool),
		pages.WithActivity(c.activity),
		pages.WithLogger(logging.PagesLogger(c.loggerProvider)),
	)
	c.sectionSvc = sections.NewService(c.sectionRepo,
		sections.WithCachePopulator(c.metadata, c.pool),
		sections.WithActivity(c.activity),
		sections.WithLogger(logging.SectionsLogger(c.loggerProvider)),
	)
	c.composeSvc = compose.NewService(compose.Dependencies{
		Pages:    c.pageRepo,
		Sections: c.sectionRepo,
		Cache:    c.metadata,
		Pool:     c.pool,
		Content:  c.content,
		Index:    c.index,
	},
		compose.WithRequestTimeout(c.Config.Composer.RequestTimeout),
		compose.WithContentPageSize(c.Config.Composer.ContentPageSize),
		compose.WithIndexTypeName(c.Config.Composer.IndexTypeName),
		compose.WithViewerProfileKeys(c.Config.Composer.ViewerProfileKeys...),
		compose.WithLogger(logging.ComposeLogger(c.loggerProvider)),
	)

	c.savePage = definitionscmd.NewSavePageHandler(c.pageSvc, commands.CommandLogger(c.loggerProvider, "pages"))
	c.saveSection = definitionscmd.NewSaveSectionHandler(c.sectionSvc, commands.CommandLogger(c.loggerProvider, "sections"))
}

func (c *Container) ComposeService() compose.Service { return c.composeSvc }

func (c *Container) PageService() pages.Service { return c.pageSvc }

func (c *Container) SectionService() sections.Service { return c.sectionSvc }

func (c *Container) SavePageHandler() *definitionscmd.SavePageHandler { return c.savePage }

func (c *Container) SaveSectionHandler() *definitionscmd.SaveSectionHandler { return c.saveSection }

func (c *Container) MetadataCache() *metacache.Cache { return c.metadata }

func (c *Container) Pool() *tasks.Pool { return c.pool }

func (c *Container) LoggerProvider() interfaces.LoggerProvider { return c.loggerProvider }

// HTTPAPI returns the fiber API bound to the container services.
func (c *Container) HTTPAPI() *composerhttp.API {
	return composerhttp.NewAPI(composerhttp.Dependencies{
		Composer:    c.composeSvc,
		Pages:       c.pageSvc,
		Sections:    c.sectionSvc,
		SavePage:    c.savePage,
		SaveSection: c.saveSection,
	}, composerhttp.WithLogger(logging.HTTPLogger(c.loggerProvider)))
}

// FixtureImporter returns an importer writing through the definition commands.
func (c *Container) FixtureImporter(fsys fs.FS, opts ...fixtures.ImporterOption) *fixtures.Importer {
	base := []fixtures.ImporterOption{
		fixtures.WithLogger(logging.ModuleLogger(c.loggerProvider, "composer.fixtures")),
	}
	return fixtures.NewImporter(fsys, c.saveSection, c.savePage, append(base, opts...)...)
}

// Close waits for detached work and releases backend connections.
func (c *Container) Close(ctx context.Context) error {
	if c == nil {
		return nil
	}
	if c.pool != nil {
		c.pool.Wait()
	}
	var errs []error
	if c.mongo != nil {
		errs = append(errs, c.mongo.Close(ctx))
	}
	errs = append(errs, c.closeDB())
	return errors.Join(errs...)
}

func (c *Container) closeDB() error {
	if c.bunDB == nil || !c.ownsDB {
		return nil
	}
	err := c.bunDB.Close()
	c.bunDB = nil
	return err
}
