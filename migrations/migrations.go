// Package migrations embeds the goose SQL migrations so the server and the
// test fixtures can run them without a checkout of the repo on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
