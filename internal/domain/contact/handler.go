package contact

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/pkg/response"
	"github.com/velvetnails/velvet-api/internal/pkg/validator"
)

// Handler handles contact HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates contact handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Send handles POST /contact
// @Summary Send a contact inquiry to the studio
// @Tags Contact
// @Accept json
// @Produce json
// @Param request body SendRequest true "Inquiry"
// @Success 204 {string} string "No Content"
// @Failure 400,502 {object} response.Response
// @Router /contact [post]
func (h *Handler) Send(w http.ResponseWriter, r *http.Request) {
	var req SendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.Send(r.Context(), &req); err != nil {
		log.Error().Err(err).Msg("Contact relay failed")
		response.BadGateway(w, "RELAY_FAILED", "Message could not be sent; please try again", nil)
		return
	}

	response.NoContent(w)
}
