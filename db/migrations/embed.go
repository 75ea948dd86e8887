// Package migrations embeds the postgres schema applied by the server on boot.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
