package migrations

import "embed"

// FS SQL миграции, встраиваются в бинарник
//
//go:embed *.sql
var FS embed.FS
