// Package data embeds the SQL migrations for the definition store.
package data

import "embed"

//go:embed sql/migrations/*.sql
var Migrations embed.FS
