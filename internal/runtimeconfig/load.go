package runtimeconfig

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const envPrefix = "COMPOSER_"

// Load reads a YAML file over DefaultConfig. An empty path returns defaults.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("composer config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("composer config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads the given dotenv files (missing files are ignored) and applies
// COMPOSER_* variables on top of cfg.
func LoadEnv(cfg Config, files ...string) (Config, error) {
	existing := make([]string, 0, len(files))
	for _, file := range files {
		if _, err := os.Stat(file); err == nil {
			existing = append(existing, file)
		}
	}
	if len(existing) > 0 {
		if err := godotenv.Load(existing...); err != nil {
			return cfg, fmt.Errorf("composer config: load env: %w", err)
		}
	}
	return ApplyEnv(cfg, os.LookupEnv)
}

// ApplyEnv applies COMPOSER_* overrides resolved through lookup.
func ApplyEnv(cfg Config, lookup func(string) (string, bool)) (Config, error) {
	str := func(name string, target *string) {
		if value, ok := lookup(envPrefix + name); ok {
			*target = value
		}
	}
	str("STORAGE_PROVIDER", &cfg.Storage.Provider)
	str("STORAGE_DRIVER", &cfg.Storage.Driver)
	str("STORAGE_DSN", &cfg.Storage.DSN)
	str("CONTENT_SEARCH_URL", &cfg.ContentSearch.BaseURL)
	str("SEARCH_INDEX_URI", &cfg.SearchIndex.URI)
	str("SEARCH_INDEX_DATABASE", &cfg.SearchIndex.Database)
	str("LOG_PROVIDER", &cfg.Logging.Provider)
	str("LOG_LEVEL", &cfg.Logging.Level)
	str("LOG_FORMAT", &cfg.Logging.Format)
	str("HTTP_ADDR", &cfg.HTTP.Addr)

	if value, ok := lookup(envPrefix + "SEARCH_INDEX_ENABLED"); ok {
		enabled, err := strconv.ParseBool(value)
		if err != nil {
			return cfg, fmt.Errorf("composer config: %sSEARCH_INDEX_ENABLED: %w", envPrefix, err)
		}
		cfg.SearchIndex.Enabled = enabled
	}
	if value, ok := lookup(envPrefix + "WORKERS"); ok {
		workers, err := strconv.Atoi(value)
		if err != nil {
			return cfg, fmt.Errorf("composer config: %sWORKERS: %w", envPrefix, err)
		}
		cfg.Composer.Workers = workers
	}
	if value, ok := lookup(envPrefix + "REQUEST_TIMEOUT"); ok {
		timeout, err := time.ParseDuration(value)
		if err != nil {
			return cfg, fmt.Errorf("composer config: %sREQUEST_TIMEOUT: %w", envPrefix, err)
		}
		cfg.Composer.RequestTimeout = timeout
	}
	if value, ok := lookup(envPrefix + "VIEWER_PROFILE_KEYS"); ok {
		keys := []string{}
		for _, key := range strings.Split(value, ",") {
			if trimmed := strings.TrimSpace(key); trimmed != "" {
				keys = append(keys, trimmed)
			}
		}
		cfg.Composer.ViewerProfileKeys = keys
	}
	return cfg, nil
}
