package server

import (
	"fmt"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/mmynk/billcal/internal/locale"
)

// StaticHandler serves the pre-built frontend. Unknown paths get index.html
// so client-side routes like /calendar or /hr/bills load the app.
type StaticHandler struct {
	dir string
}

// NewStaticHandler serves files from dir, which must contain index.html.
func NewStaticHandler(dir string) (*StaticHandler, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve static path: %w", err)
	}
	if _, err := os.Stat(filepath.Join(abs, "index.html")); err != nil {
		return nil, fmt.Errorf("failed to find index.html: %w", err)
	}
	return &StaticHandler{dir: abs}, nil
}

// Dir returns the absolute directory being served.
func (h *StaticHandler) Dir() string {
	return h.dir
}

func (h *StaticHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	// Unknown RPC and API paths must not fall back to the app.
	if strings.HasPrefix(r.URL.Path, "/billcal.v1.") || strings.HasPrefix(r.URL.Path, "/api/") {
		http.NotFound(w, r)
		return
	}

	urlPath := path.Clean("/" + locale.StripPrefix(r.URL.Path))
	if urlPath == "/" {
		urlPath = "/index.html"
	}

	filePath := filepath.Join(h.dir, filepath.FromSlash(urlPath))
	if info, err := os.Stat(filePath); err != nil || info.IsDir() {
		http.ServeFile(w, r, filepath.Join(h.dir, "index.html"))
		return
	}
	http.ServeFile(w, r, filePath)
}
