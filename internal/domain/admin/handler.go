package admin

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/velvetnails/velvet-api/internal/pkg/response"
	"github.com/velvetnails/velvet-api/internal/pkg/validator"
)

// Handler handles admin auth HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates admin handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Login handles POST /admin/login
// @Summary Open an admin session
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.Response{data=LoginResponse}
// @Failure 400,401,500 {object} response.Response
// @Router /admin/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		// Field validation failures get the same collapsed message:
		// the shape of the error must not leak anything either
		response.Unauthorized(w, "Invalid email or password")
		return
	}

	result, err := h.service.Login(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			response.Unauthorized(w, "Invalid email or password")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, result)
}

// Logout handles POST /admin/logout
// @Summary Close the current admin session
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 204 {string} string "No Content"
// @Failure 401,500 {object} response.Response
// @Router /admin/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	sessionID := GetSessionID(r.Context())

	if err := h.service.Logout(r.Context(), sessionID); err != nil {
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// RequestReset handles POST /admin/password-reset
// @Summary Request a password reset email
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body ResetRequest true "Account email"
// @Success 204 {string} string "No Content"
// @Failure 400,404,429,500 {object} response.Response
// @Router /admin/password-reset [post]
func (h *Handler) RequestReset(w http.ResponseWriter, r *http.Request) {
	var req ResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.RequestPasswordReset(r.Context(), &req); err != nil {
		switch {
		case errors.Is(err, ErrInvalidEmail):
			response.BadRequest(w, "Invalid email address")
		case errors.Is(err, ErrNoAccount):
			response.NotFound(w, "No account for this email")
		case errors.Is(err, ErrResetRateLimited):
			response.TooManyRequests(w)
		default:
			response.InternalError(w)
		}
		return
	}

	response.NoContent(w)
}

// ConfirmReset handles POST /admin/password-reset/confirm
// @Summary Set a new password with a reset token
// @Tags Admin
// @Accept json
// @Produce json
// @Param request body ResetConfirmRequest true "Token and new password"
// @Success 204 {string} string "No Content"
// @Failure 400,500 {object} response.Response
// @Router /admin/password-reset/confirm [post]
func (h *Handler) ConfirmReset(w http.ResponseWriter, r *http.Request) {
	var req ResetConfirmRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	if errs := validator.Validate(&req); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	if err := h.service.ResetPassword(r.Context(), &req); err != nil {
		if errors.Is(err, ErrResetTokenUsed) {
			response.BadRequest(w, "Reset link is invalid or already used")
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}
