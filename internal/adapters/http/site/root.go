// Package site serves the embedded season dashboard.
package site

import (
	"context"
	"net/http"
	"path"
)

// Cache policy of dashboard files. The page revalidates so a redeploy shows
// up at once; scripts and styles may be reused for a short while.
const (
	pageCacheControl  = "no-cache"
	assetCacheControl = "public, max-age=300"
)

// Register attaches the embedded dashboard to the root of mux. Every path
// not claimed by a more specific route falls through to the static files.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle("/", NewRootHandler())
}

// RootHandler serves the dashboard files.
type RootHandler struct {
	files http.Handler
}

// NewRootHandler creates a new root handler.
func NewRootHandler() *RootHandler {
	return &RootHandler{files: http.FileServer(FS())}
}

// ServeHTTP serves GET and HEAD requests for dashboard assets.
func (h *RootHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("X-Content-Type-Options", "nosniff")
	switch path.Ext(r.URL.Path) {
	case "", ".html":
		w.Header().Set("Cache-Control", pageCacheControl)
	default:
		w.Header().Set("Cache-Control", assetCacheControl)
	}
	h.files.ServeHTTP(w, r)
}
