package db

import "embed"

// migrationsFS holds the goose SQL migrations compiled into the binary.
//
//go:embed migrations/*.sql
var migrationsFS embed.FS
