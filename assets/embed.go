// Package assets embeds the default word packs and the SQL migrations.
package assets

import (
	"embed"
	"io/fs"
)

//go:embed packs/*.json sql/*.sql
var FS embed.FS

// Packs returns the embedded word pack files rooted at their directory.
func Packs() fs.FS {
	return mustSub("packs")
}

// Migrations returns the embedded *.sql migrations rooted at their directory.
func Migrations() fs.FS {
	return mustSub("sql")
}

func mustSub(dir string) fs.FS {
	sub, err := fs.Sub(FS, dir)
	if err != nil {
		panic(err) // dir is a compile-time embed pattern
	}
	return sub
}
