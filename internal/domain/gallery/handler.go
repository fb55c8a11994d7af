package gallery

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/velvetnails/velvet-api/internal/domain/design"
	"github.com/velvetnails/velvet-api/internal/middleware"
	"github.com/velvetnails/velvet-api/internal/pkg/response"
	"github.com/velvetnails/velvet-api/internal/pkg/validator"
)

// Handler handles gallery HTTP requests
type Handler struct {
	service *Service
}

// NewHandler creates gallery handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Feed handles GET /gallery
// @Summary Gallery feed with resolved image URLs and like state
// @Tags Gallery
// @Produce json
// @Param filter query string false "all, liked or a category slug"
// @Param visible query int false "Number of items to show"
// @Success 200 {object} response.Response{data=[]FeedItem}
// @Failure 400,503 {object} response.Response
// @Router /gallery [get]
func (h *Handler) Feed(w http.ResponseWriter, r *http.Request) {
	q := FeedQuery{
		Filter: r.URL.Query().Get("filter"),
	}
	if v := r.URL.Query().Get("visible"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			response.BadRequest(w, "Invalid visible count")
			return
		}
		q.Visible = n
	}

	if errs := validator.Validate(&q); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	visitorID := middleware.GetVisitorID(r.Context())

	feed, err := h.service.Feed(r.Context(), visitorID, q.Filter, q.Visible)
	if err != nil {
		if errors.Is(err, design.ErrCatalogLoading) {
			// Public view never shows a broken catalog; it stays loading
			response.ServiceUnavailable(w, "Gallery is loading")
			return
		}
		response.InternalError(w)
		return
	}

	response.WithMeta(w, feed.Items, response.Meta{
		Total:   feed.Total,
		Visible: feed.Visible,
		HasMore: feed.HasMore,
	})
}

// Neighbors handles GET /gallery/{id}/neighbors
// @Summary Lightbox neighbors within the filtered gallery
// @Tags Gallery
// @Produce json
// @Param id path int true "Design ID"
// @Param filter query string false "all, liked or a category slug"
// @Success 200 {object} response.Response{data=NeighborsResponse}
// @Failure 400,404,503 {object} response.Response
// @Router /gallery/{id}/neighbors [get]
func (h *Handler) Neighbors(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(w, "Invalid design ID")
		return
	}

	q := FeedQuery{Filter: r.URL.Query().Get("filter")}
	if errs := validator.Validate(&q); errs != nil {
		response.ValidationError(w, errs)
		return
	}

	visitorID := middleware.GetVisitorID(r.Context())

	prev, next, err := h.service.Neighbors(r.Context(), visitorID, id, q.Filter)
	if err != nil {
		switch {
		case errors.Is(err, design.ErrCatalogLoading):
			response.ServiceUnavailable(w, "Gallery is loading")
		case errors.Is(err, design.ErrDesignNotFound):
			response.NotFound(w, "Design not in this view")
		default:
			response.InternalError(w)
		}
		return
	}

	response.OK(w, &NeighborsResponse{Prev: prev, Next: next})
}
