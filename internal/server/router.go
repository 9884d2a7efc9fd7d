package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Router builds the HTTP API.
func (s *Service) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "service": serviceName})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/environment", s.handleEnvironment)
		r.Get("/files", s.handleInbox)
		r.Get("/processed-files", s.handleProcessed)
		r.Get("/csv-files", s.handleCSVFiles)
		r.Get("/areas/{area}", s.handleArea)
		r.Get("/csv-file/{filename}", s.handleCSVFile)
		r.Get("/xlsx-file/{filename}", s.handleXLSXFile)
		r.Post("/upload", s.handleUpload)
		r.Post("/process", s.handleProcess)
		r.Get("/results", s.handleResults)
		r.Post("/extract", s.handleExtract)
		r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
		})
	})

	if s.staticDir != "" {
		if fi, err := os.Stat(s.staticDir); err == nil && fi.IsDir() {
			r.NotFound(spaHandler(s.staticDir))
		} else {
			s.logger.Warn("static directory not found; frontend disabled", "dir", s.staticDir)
		}
	}
	return r
}

// spaHandler serves files from dir and falls back to index.html so client
// side routes resolve.
func spaHandler(dir string) http.HandlerFunc {
	fileServer := http.FileServer(http.Dir(dir))
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
			return
		}
		p := filepath.Join(dir, filepath.FromSlash(filepath.Clean("/"+r.URL.Path)))
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() && !strings.HasSuffix(r.URL.Path, "/index.html") {
			fileServer.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, filepath.Join(dir, "index.html"))
	}
}
