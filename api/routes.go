package api

import (
	"encoding/json"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cap-customizer/preset"
	"cap-customizer/session"
	"cap-customizer/storage"
)

// RegisterRoutes builds the HTTP router. staticFS may be nil when no front
// end is served.
func RegisterRoutes(sessions *session.Manager, pm *preset.Manager, backend storage.Backend, staticFS fs.FS, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	h := &handler{sessions: sessions, caps: pm, backend: backend, logger: logger}

	// Caps API
	r.Get("/api/caps", h.getState)
	r.Get("/api/caps/all", h.getAll)
	r.Get("/api/caps/selected", h.getSelected)
	r.Post("/api/caps", h.addCap)
	r.Put("/api/caps/{id}", h.updateCap)
	r.Delete("/api/caps/{id}", h.removeCap)
	r.Post("/api/caps/{id}/select", h.selectCap)

	r.Get("/api/volume", h.getVolume)
	r.Put("/api/volume", h.putVolume)
	r.Get("/api/playlists", h.getPlaylists)

	// Viewers
	r.Get("/api/sessions", h.listSessions)
	r.Delete("/api/sessions/{id}", h.killSession)
	r.Get("/api/ws", h.handleWS)

	if staticFS != nil {
		// Serve index.html by reading from the FS directly.
		// Using http.FileServer with r.URL.Path ending in "index.html" triggers
		// Go's built-in redirect to "./", so the file is read manually.
		r.Get("/", serveFile(staticFS, "index.html"))

		fileServer := http.FileServer(http.FS(staticFS))
		r.Get("/assets/*", fileServer.ServeHTTP)
		r.Get("/audio/*", fileServer.ServeHTTP)
		r.Get("/models/*", fileServer.ServeHTTP)
	}

	return r
}

// serveFile returns a handler that reads a single file from fsys and sends it.
func serveFile(fsys fs.FS, name string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(content)
	}
}

type handler struct {
	sessions *session.Manager
	caps     *preset.Manager
	backend  storage.Backend
	logger   *zap.Logger
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
