package admin

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// Routes returns admin auth router. Logout needs a live session; the
// rest is how you get one.
func (h *Handler) Routes(sessionMiddleware func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()

	r.Post("/login", h.Login)
	r.Post("/password-reset", h.RequestReset)
	r.Post("/password-reset/confirm", h.ConfirmReset)

	r.Group(func(r chi.Router) {
		r.Use(sessionMiddleware)
		r.Post("/logout", h.Logout)
	})

	return r
}
