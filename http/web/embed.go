package web

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFiles embed.FS

// Assets returns the browser client with the "static" prefix stripped.
func Assets() (http.FileSystem, error) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}
	return http.FS(sub), nil
}

// IndexHTML returns the page served at "/".
func IndexHTML() ([]byte, error) {
	return staticFiles.ReadFile("static/index.html")
}
