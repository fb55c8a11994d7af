package like

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velvetnails/velvet-api/internal/middleware"
	"github.com/velvetnails/velvet-api/internal/pkg/response"
)

// Handler handles like HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates like handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Toggle handles POST /designs/{id}/like
// @Summary Toggle a like on a design
// @Tags Like
// @Produce json
// @Param id path int true "Design ID"
// @Success 200 {object} response.Response{data=ToggleResult}
// @Failure 400,409,500 {object} response.Response
// @Router /designs/{id}/like [post]
func (h *Handler) Toggle(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid design ID")
		return
	}

	visitorID := middleware.GetVisitorID(r.Context())

	result, err := h.service.Toggle(r.Context(), visitorID, id)
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownVisitor):
			response.BadRequest(w, "Visitor identity missing")
		case errors.Is(err, ErrTransactionConflict):
			// Non-fatal: nothing moved, the client may simply retry
			response.Conflict(w, "Like did not apply; try again")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, result)
}

// Favorites handles GET /favorites
// @Summary List the designs this browser has liked
// @Tags Like
// @Produce json
// @Success 200 {object} response.Response{data=[]int64}
// @Failure 500 {object} response.Response
// @Router /favorites [get]
func (h *Handler) Favorites(w http.ResponseWriter, r *http.Request) {
	visitorID := middleware.GetVisitorID(r.Context())

	ids, err := h.service.Favorites(r.Context(), visitorID)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, ids)
}
