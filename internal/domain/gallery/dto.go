package gallery

// FeedQuery for GET /gallery
type FeedQuery struct {
	Filter  string `json:"filter" validate:"omitempty,filter"`
	Visible int    `json:"visible" validate:"omitempty,gte=0"`
}

// FeedItem is one design in the gallery feed
type FeedItem struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Category  string `json:"category,omitempty"`
	URL       string `json:"url,omitempty"`
	Available bool   `json:"available"`
	Pending   bool   `json:"pending,omitempty"`
	Likes     int64  `json:"likes"`
	Liked     bool   `json:"liked"`
}

// NeighborsResponse for GET /gallery/{id}/neighbors
type NeighborsResponse struct {
	Prev int64 `json:"prev"`
	Next int64 `json:"next"`
}
