// Package migrations embeds the postgres schema migrations applied at startup.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
