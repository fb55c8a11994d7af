package design

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// AdminRoutes returns the design management router. Every route sits
// behind the session middleware; none is reachable without it.
func (h *Handler) AdminRoutes(sessionMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Use(sessionMiddleware)

	r.Get("/", h.List)
	r.Post("/", h.Upload)
	r.Post("/reconcile", h.Reconcile)
	r.Patch("/{id}/archive", h.Archive)
	r.Delete("/{id}", h.Delete)

	return r
}
