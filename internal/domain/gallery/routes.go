package gallery

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns gallery router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.Feed)
	r.Get("/{id}/neighbors", h.Neighbors)

	return r
}
