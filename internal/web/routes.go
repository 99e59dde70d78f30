package web

import (
	"net/http"
	"os"
	"path/filepath"
)

type APIV1Config struct {
	Deps APIV1Deps
	// Metrics, when set, is served at /metrics.
	Metrics http.Handler
}

// RegisterAPIV1 registers the public API routes under /api/v1/.
func RegisterAPIV1(mux *http.ServeMux, cfg APIV1Config) {
	mux.Handle("/api/v1/", http.StripPrefix("/api/v1", apiV1Router(cfg.Deps)))
	if cfg.Metrics != nil {
		mux.Handle("/metrics", cfg.Metrics)
	}
}

// RegisterUI serves staticDir at "/" when it is an existing directory.
func RegisterUI(mux *http.ServeMux, staticDir string) {
	mux.Handle("/", StaticUIHandler(staticDir))
}

// NewDefaultMux builds the standard mux used by both the device and simulator:
// - /api/v1/* for the API
// - /metrics for Prometheus
// - / for an optional static UI
func NewDefaultMux(staticDir string, cfg APIV1Config) *http.ServeMux {
	mux := http.NewServeMux()
	RegisterAPIV1(mux, cfg)
	RegisterUI(mux, staticDir)
	return mux
}

func StaticUIHandler(dir string) http.Handler {
	if dir == "" {
		return http.NotFoundHandler()
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		return http.NotFoundHandler()
	}

	fileServer := http.FileServer(http.Dir(dir))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Clean path to avoid oddities.
		r.URL.Path = filepath.ToSlash(filepath.Clean("/" + r.URL.Path))
		fileServer.ServeHTTP(w, r)
	})
}
