package dashboard

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed web/index.html
var indexHTML []byte

//go:embed web/static
var staticFiles embed.FS

// ServeIndex serves the embedded notes page.
func (d *Dashboard) ServeIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

func staticHandler() http.Handler {
	sub, err := fs.Sub(staticFiles, "web/static")
	if err != nil {
		panic(err)
	}
	return http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
}
