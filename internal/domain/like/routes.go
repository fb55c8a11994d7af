package like

import (
	"github.com/go-chi/chi/v5"
)

// Routes returns like router
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/{id}/like", h.Toggle)

	return r
}
