// Package migrations embeds the schema migrations applied by `clinic-server migrate`.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
