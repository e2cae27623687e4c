// Package migrations embeds SQL migration files into the binary, so the
// history schema travels with the executable instead of living on disk
// next to it.
//
// Importing this package for side effects registers the migrations:
//
//	import _ "github.com/astrolive/core/migrations"
package migrations

import (
	"embed"

	"github.com/astrolive/core/internal/infrastructure/database"
)

//go:embed *.sql
var migrationsFS embed.FS

func init() {
	// The embed directive captures every .sql file in this directory.
	database.MigrationsFS = migrationsFS
	database.MigrationsDir = "." // files are at the root of the embedded FS
}
