// Package web embeds the single-page telemetry view.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static
var assets embed.FS

// Static returns the view files rooted at the static directory.
func Static() fs.FS {
	sub, err := fs.Sub(assets, "static")
	if err != nil {
		panic(err)
	}
	return sub
}
