package design

import "time"

// ArchiveRequest for PATCH /admin/designs/{id}/archive
type ArchiveRequest struct {
	Archived bool `json:"archived"`
}

// ReconcileRequest for POST /admin/designs/reconcile
type ReconcileRequest struct {
	Apply bool `json:"apply"`
}

// DesignResponse represents a design in API responses
type DesignResponse struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	Archived  bool   `json:"archived"`
	CreatedAt string `json:"created_at"`
}

// DesignResponseFromEntity converts entity to response DTO
func DesignResponseFromEntity(d *Design) *DesignResponse {
	return &DesignResponse{
		ID:        d.ID,
		Title:     d.Title(),
		Category:  d.Category,
		Archived:  d.Archived,
		CreatedAt: d.CreatedAt.Format(time.RFC3339),
	}
}
