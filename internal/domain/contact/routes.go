package contact

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns contact router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Send)

	return r
}
