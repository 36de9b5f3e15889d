// Package assets embeds the frontend files served by the map server.
package assets

import (
	_ "embed"
	"sync"

	"github.com/tdewolff/minify/v2"
	"github.com/tdewolff/minify/v2/html"
)

//go:embed index.html
var indexHTML []byte

// Favicon is the site icon.
//
//go:embed favicon.svg
var Favicon []byte

var (
	pageOnce sync.Once
	page     []byte
)

// Page returns the index page, minified on first use. A minification
// failure falls back to the raw file.
func Page() []byte {
	pageOnce.Do(func() {
		m := minify.New()
		m.AddFunc("text/html", html.Minify)

		out, err := m.Bytes("text/html", indexHTML)
		if err != nil {
			page = indexHTML
			return
		}
		page = out
	})
	return page
}
