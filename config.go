package composer

import "github.com/goliatone/go-page-composer/internal/runtimeconfig"

var (
	ErrStorageProviderUnknown    = runtimeconfig.ErrStorageProviderUnknown
	ErrStorageDriverUnknown      = runtimeconfig.ErrStorageDriverUnknown
	ErrStorageDSNRequired        = runtimeconfig.ErrStorageDSNRequired
	ErrCacheCapacityInvalid      = runtimeconfig.ErrCacheCapacityInvalid
	ErrWorkersInvalid            = runtimeconfig.ErrWorkersInvalid
	ErrContentPageSizeInvalid    = runtimeconfig.ErrContentPageSizeInvalid
	ErrViewerProfileKeysRequired = runtimeconfig.ErrViewerProfileKeysRequired
	ErrSearchIndexURIRequired    = runtimeconfig.ErrSearchIndexURIRequired
	ErrLoggingProviderUnknown    = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid       = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid      = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config              = runtimeconfig.Config
	StorageConfig       = runtimeconfig.StorageConfig
	CacheConfig         = runtimeconfig.CacheConfig
	ComposerConfig      = runtimeconfig.ComposerConfig
	ContentSearchConfig = runtimeconfig.ContentSearchConfig
	SearchIndexConfig   = runtimeconfig.SearchIndexConfig
	LoggingConfig       = runtimeconfig.LoggingConfig
	HTTPConfig          = runtimeconfig.HTTPConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML file over the defaults, then applies dotenv files
// and COMPOSER_* environment overrides.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	cfg, err := runtimeconfig.Load(path)
	if err != nil {
		return cfg, err
	}
	return runtimeconfig.LoadEnv(cfg, envFiles...)
}
