package controller

import (
	"io/fs"
	"net/http"
	"path"
	"strings"
)

// staticHandler serves the page assets. Paths that name no file get
// index.html, so client-side routes survive a reload.
func (c controller) staticHandler() http.HandlerFunc {
	fileServer := http.FileServerFS(c.static)

	return func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(path.Clean(r.URL.Path), "/")
		if name == "" {
			fileServer.ServeHTTP(w, r)
			return
		}

		if info, err := fs.Stat(c.static, name); err == nil && !info.IsDir() {
			fileServer.ServeHTTP(w, r)
			return
		}

		c.serveIndex(w, r)
	}
}

func (c controller) serveIndex(w http.ResponseWriter, r *http.Request) {
	index, err := fs.ReadFile(c.static, "index.html")
	if err != nil {
		c.logger.ErrorContext(r.Context(), "failed to read index.html", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write(index)
	}
}
