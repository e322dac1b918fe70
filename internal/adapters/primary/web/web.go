// Package web serves the embedded single-page dashboard. The page is pure
// display: it calls the JSON API and renders tables; all aggregation
// happens server-side.
package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var content embed.FS

// Handler returns a file server for the dashboard assets.
func Handler() http.Handler {
	sub, err := fs.Sub(content, "static")
	if err != nil {
		// The embed is part of the binary; a missing subdirectory is a
		// build defect, not a runtime condition.
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}
