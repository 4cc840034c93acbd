// Package migrations embeds the server-side goose SQL migrations.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
