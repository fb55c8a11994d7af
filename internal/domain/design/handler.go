package design

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velvetnails/velvet-api/internal/pkg/imaging"
	"github.com/velvetnails/velvet-api/internal/pkg/response"
)

// Handler handles admin design HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates design handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// List handles GET /admin/designs
// @Summary List all designs including archived
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]DesignResponse}
// @Failure 401,500 {object} response.Response
// @Router /admin/designs [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	designs, err := h.service.Catalog(r.Context(), true)
	if err != nil {
		// Admin view surfaces failures instead of staying in loading
		response.InternalError(w)
		return
	}

	items := make([]*DesignResponse, len(designs))
	for i, d := range designs {
		items[i] = DesignResponseFromEntity(d)
	}

	response.OK(w, items)
}

// Upload handles POST /admin/designs
// @Summary Upload a new design image
// @Tags Admin
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Param title formData string false "Display title"
// @Param category formData string false "Category slug"
// @Success 201 {object} response.Response{data=DesignResponse}
// @Failure 400,401,500 {object} response.Response
// @Router /admin/designs [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(imaging.MaxFileSize); err != nil {
		response.BadRequest(w, "Invalid multipart body")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Image file is required")
		return
	}
	defer file.Close()

	if header.Size > imaging.MaxFileSize {
		response.BadRequest(w, "Image exceeds maximum size")
		return
	}

	title := r.FormValue("title")
	category := r.FormValue("category")

	d, err := h.service.Upload(r.Context(), file, header.Filename, title, category)
	if err != nil {
		if errors.Is(err, ErrInvalidImage) {
			response.BadRequest(w, "File is not a valid image")
			return
		}
		response.InternalError(w)
		return
	}

	response.Created(w, DesignResponseFromEntity(d))
}

// Archive handles PATCH /admin/designs/{id}/archive
// @Summary Archive or restore a design
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Design ID"
// @Param request body ArchiveRequest true "Archived flag"
// @Success 200 {object} response.Response{data=DesignResponse}
// @Failure 400,401,404,500 {object} response.Response
// @Router /admin/designs/{id}/archive [patch]
func (h *Handler) Archive(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		response.BadRequest(w, "Invalid design ID")
		return
	}

	var req ArchiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid JSON body")
		return
	}

	d, err := h.service.SetArchived(r.Context(), id, req.Archived)
	if err != nil {
		if errors.Is(err, ErrDesignNotFound) {
			response.NotFound(w, "Design not found")
			return
		}
		response.InternalError(w)
		return
	}

	response.OK(w, DesignResponseFromEntity(d))
}

// Delete handles DELETE /admin/designs/{id}
// @Summary Delete a design, its image and its like counter
// @Tags Admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Design ID"
// @Success 204 {string} string "No Content"
// @Failure 400,401,502 {object} response.Response
// @Router /admin/designs/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := designID(r)
	if err != nil {
		response.BadRequest(w, "Invalid design ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		var de *DeleteError
		if errors.As(err, &de) {
			// Partial failure: report the failed step, the caller retries
			response.BadGateway(w, "DELETE_INCOMPLETE", "Delete did not finish; retry the request", map[string]string{
				"failed_step": de.Step,
			})
			return
		}
		response.InternalError(w)
		return
	}

	response.NoContent(w)
}

// Reconcile handles POST /admin/designs/reconcile
// @Summary Find stored images without catalog records
// @Tags Admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ReconcileRequest true "Apply flag"
// @Success 200 {object} response.Response{data=ReconcileReport}
// @Failure 400,401,500 {object} response.Response
// @Router /admin/designs/reconcile [post]
func (h *Handler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req ReconcileRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			response.BadRequest(w, "Invalid JSON body")
			return
		}
	}

	report, err := h.service.Reconcile(r.Context(), req.Apply)
	if err != nil {
		response.InternalError(w)
		return
	}

	response.OK(w, report)
}

func designID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, strconv.ErrRange
	}
	return id, nil
}
