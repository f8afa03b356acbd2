package httpapi

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// NewRouter builds the vault's route tree. db is only used by the health
// check; a nil db degrades /healthz to a static response.
func NewRouter(h *DocumentHandler, jwtSecret []byte, db *sql.DB) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := db.PingContext(ctx); err != nil {
				writeErrorResponse(w, http.StatusServiceUnavailable, "UNHEALTHY", "database unreachable")
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/v1/documents", func(r chi.Router) {
		r.Use(Authenticator(jwtSecret))
		r.Post("/", h.Upload)
		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		r.Get("/{id}/content", h.Content)
	})

	return r
}
