// Package migrations embeds the goose SQL migrations so the migrate
// entrypoint and integration tests run against the same schema.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
