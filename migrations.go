package composer

import (
	"embed"

	"github.com/goliatone/go-page-composer/data"
)

// GetMigrationsFS returns the embedded migration files for the definition store.
func GetMigrationsFS() embed.FS {
	return data.Migrations
}
