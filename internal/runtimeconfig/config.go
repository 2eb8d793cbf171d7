package runtimeconfig

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrStorageProviderUnknown    = errors.New("composer config: storage provider is invalid")
	ErrStorageDriverUnknown      = errors.New("composer config: storage driver is invalid")
	ErrStorageDSNRequired        = errors.New("composer config: storage dsn is required for bun storage")
	ErrCacheCapacityInvalid      = errors.New("composer config: cache capacity and shards must be positive when cache is enabled")
	ErrWorkersInvalid            = errors.New("composer config: composer workers must be positive")
	ErrContentPageSizeInvalid    = errors.New("composer config: content page size must be positive")
	ErrViewerProfileKeysRequired = errors.New("composer config: at least one viewer profile key is required")
	ErrSearchIndexURIRequired    = errors.New("composer config: search index uri and database are required when enabled")
	ErrLoggingProviderUnknown    = errors.New("composer config: logging provider is invalid")
	ErrLoggingLevelInvalid       = errors.New("composer config: logging level is invalid")
	ErrLoggingFormatInvalid      = errors.New("composer config: logging format is invalid")
)

// Config aggregates adapter bindings and tunables for the page composer.
type Config struct {
	Storage       StorageConfig       `yaml:"storage"`
	Cache         CacheConfig         `yaml:"cache"`
	Composer      ComposerConfig      `yaml:"composer"`
	ContentSearch ContentSearchConfig `yaml:"content_search"`
	SearchIndex   SearchIndexConfig   `yaml:"search_index"`
	Logging       LoggingConfig       `yaml:"logging"`
	HTTP          HTTPConfig          `yaml:"http"`
}

// StorageConfig selects the persistent metadata store.
type StorageConfig struct {
	Provider string `yaml:"provider"`
	Driver   string `yaml:"driver"`
	DSN      string `yaml:"dsn"`
}

// CacheConfig captures metadata cache behaviour. RepositoryCache additionally
// decorates bun repositories with go-repository-cache.
type CacheConfig struct {
	Enabled            bool          `yaml:"enabled"`
	DefaultTTL         time.Duration `yaml:"default_ttl"`
	Capacity           int           `yaml:"capacity"`
	Shards             int           `yaml:"shards"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	RepositoryCache    bool          `yaml:"repository_cache"`
}

// ComposerConfig tunes page composition.
type ComposerConfig struct {
	Workers           int           `yaml:"workers"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	CacheWriteTimeout time.Duration `yaml:"cache_write_timeout"`
	ContentPageSize   int           `yaml:"content_page_size"`
	ViewerProfileKeys []string      `yaml:"viewer_profile_keys"`
	IndexTypeName     string        `yaml:"index_type_name"`
}

// ContentSearchConfig points at the content-search HTTP backend.
type ContentSearchConfig struct {
	BaseURL string        `yaml:"base_url"`
	Path    string        `yaml:"path"`
	Timeout time.Duration `yaml:"timeout"`
}

// SearchIndexConfig points at the MongoDB search index.
type SearchIndexConfig struct {
	Enabled  bool   `yaml:"enabled"`
	URI      string `yaml:"uri"`
	Database string `yaml:"database"`
}

// LoggingConfig captures provider-specific options for runtime logging.
type LoggingConfig struct {
	Provider  string   `yaml:"provider"`
	Level     string   `yaml:"level"`
	Format    string   `yaml:"format"`
	AddSource bool     `yaml:"add_source"`
	Focus     []string `yaml:"focus"`
}

// HTTPConfig configures the fiber transport.
type HTTPConfig struct {
	Addr string `yaml:"addr"`
}

// DefaultConfig returns defaults suitable for a single-node deployment
// backed by an in-memory sqlite database.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{
			Provider: "bun",
			Driver:   "sqlite",
			DSN:      "file::memory:?cache=shared",
		},
		Cache: CacheConfig{
			Enabled:            true,
			DefaultTTL:         10 * time.Minute,
			Capacity:           10000,
			Shards:             10,
			EvictionPercentage: 10,
		},
		Composer: ComposerConfig{
			Workers:           32,
			RequestTimeout:    10 * time.Second,
			CacheWriteTimeout: 5 * time.Second,
			ContentPageSize:   10,
			ViewerProfileKeys: []string{"board"},
			IndexTypeName:     "course-batch",
		},
		ContentSearch: ContentSearchConfig{
			BaseURL: "http://localhost:9000",
			Path:    "/v1/search",
			Timeout: 5 * time.Second,
		},
		SearchIndex: SearchIndexConfig{
			Database: "composer",
		},
		Logging: LoggingConfig{
			Provider: "gologger",
			Level:    "info",
			Format:   "json",
		},
		HTTP: HTTPConfig{
			Addr: ":8080",
		},
	}
}

// Validate performs high-level consistency checks.
func (cfg Config) Validate() error {
	switch normalize(cfg.Storage.Provider) {
	case "memory":
	case "bun":
		switch normalize(cfg.Storage.Driver) {
		case "sqlite", "sqlite3", "postgres", "pg":
		default:
			return fmt.Errorf("%w: %s", ErrStorageDriverUnknown, cfg.Storage.Driver)
		}
		if strings.TrimSpace(cfg.Storage.DSN) == "" {
			return ErrStorageDSNRequired
		}
	default:
		return fmt.Errorf("%w: %s", ErrStorageProviderUnknown, cfg.Storage.Provider)
	}
	if cfg.Cache.Enabled && (cfg.Cache.Capacity <= 0 || cfg.Cache.Shards <= 0) {
		return ErrCacheCapacityInvalid
	}
	if cfg.Composer.Workers <= 0 {
		return ErrWorkersInvalid
	}
	if cfg.Composer.ContentPageSize <= 0 {
		return ErrContentPageSizeInvalid
	}
	if len(cfg.Composer.ViewerProfileKeys) == 0 {
		return ErrViewerProfileKeysRequired
	}
	if cfg.SearchIndex.Enabled {
		if strings.TrimSpace(cfg.SearchIndex.URI) == "" || strings.TrimSpace(cfg.SearchIndex.Database) == "" {
			return ErrSearchIndexURIRequired
		}
	}
	provider := normalize(cfg.Logging.Provider)
	if provider != "gologger" && provider != "noop" {
		return fmt.Errorf("%w: %s", ErrLoggingProviderUnknown, cfg.Logging.Provider)
	}
	if level := strings.TrimSpace(cfg.Logging.Level); level != "" && !isSupportedLevel(level) {
		return fmt.Errorf("%w: %s", ErrLoggingLevelInvalid, level)
	}
	if format := strings.TrimSpace(cfg.Logging.Format); format != "" && !isSupportedFormat(format) {
		return fmt.Errorf("%w: %s", ErrLoggingFormatInvalid, format)
	}
	return nil
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

func isSupportedLevel(level string) bool {
	switch normalize(level) {
	case "trace", "debug", "info", "warn", "warning", "error", "fatal":
		return true
	default:
		return false
	}
}

func isSupportedFormat(format string) bool {
	switch normalize(format) {
	case "json", "console", "pretty":
		return true
	default:
		return false
	}
}
