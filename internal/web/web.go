// Package web serves the embedded image generator page. The page is baked
// into the binary so the server deploys as a single artifact.
package web

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gorilla/mux"
)

//go:embed static
var staticFiles embed.FS

// RegisterRoutes mounts the generator page at the router root. Static
// assets are served under /static/ and the index at /.
func RegisterRoutes(r *mux.Router) {
	sub, err := fs.Sub(staticFiles, "static")
	if err != nil {
		// The embed directive guarantees the directory exists
		panic(err)
	}

	fileServer := http.FileServer(http.FS(sub))
	r.PathPrefix("/static/").Handler(http.StripPrefix("/static/", fileServer))
	r.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		http.ServeFileFS(w, req, sub, "index.html")
	}).Methods(http.MethodGet)
}
