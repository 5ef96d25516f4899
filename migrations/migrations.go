// Package migrations embeds the SQL schema for the db:migrate command.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
