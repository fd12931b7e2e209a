// Package migrations holds the goose SQL migrations of the portal database.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
