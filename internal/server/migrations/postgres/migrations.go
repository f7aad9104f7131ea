// Package postgres embeds the goose SQL migrations for the PostgreSQL
// backend.
package postgres

import "embed"

//go:embed *.sql
var Migrations embed.FS
