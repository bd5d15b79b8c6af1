// Package migrations embeds the dev server's goose migration files.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
