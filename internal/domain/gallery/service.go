package gallery

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/domain/design"
)

// LikeReader is the slice of the like domain the feed needs
type LikeReader interface {
	All(ctx context.Context) (map[int64]int64, error)
	Favorites(ctx context.Context, visitorID string) ([]int64, error)
}

// Service assembles the public gallery feed
type Service struct {
	designs *design.Service
	likes   LikeReader
	start   int
	step    int
}

// NewService creates gallery service. start is the initial page size,
// step the load-more increment.
func NewService(designs *design.Service, likes LikeReader, start, step int) *Service {
	return &Service{designs: designs, likes: likes, start: start, step: step}
}

// Feed is one assembled gallery page
type Feed struct {
	Items   []*FeedItem
	Total   int
	Visible int
	HasMore bool
}

// Feed builds the visitor's gallery page: public catalog filtered and
// clamped, URLs resolved priority-first, like counts and the
// visitor's own likes attached.
func (s *Service) Feed(ctx context.Context, visitorID, filter string, visible int) (*Feed, error) {
	catalog, err := s.designs.Catalog(ctx, false)
	if err != nil {
		return nil, design.ErrCatalogLoading
	}

	favorites, err := s.favoriteSet(ctx, visitorID)
	if err != nil {
		// A favorites outage degrades the liked flags, not the feed
		log.Warn().Err(err).Msg("Favorite set unavailable for feed")
		favorites = map[int64]bool{}
	}

	filtered := Filtered(catalog, filter, favorites)
	total := len(filtered)
	visible = ClampVisible(visible, s.start, total)
	page := filtered[:visible]

	resolutions := s.designs.Resolver().ResolveBatch(ctx, page)

	counts, err := s.likes.All(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Like counts unavailable for feed")
		counts = map[int64]int64{}
	}

	items := make([]*FeedItem, len(page))
	for i, d := range page {
		res := resolutions[d.ID]
		items[i] = &FeedItem{
			ID:        d.ID,
			Title:     d.Title(),
			Category:  d.Category,
			URL:       res.URL,
			Available: res.State == design.Resolved,
			Pending:   res.State == design.Pending,
			Likes:     counts[d.ID],
			Liked:     favorites[d.ID],
		}
	}

	return &Feed{
		Items:   items,
		Total:   total,
		Visible: visible,
		HasMore: visible < total,
	}, nil
}

// Neighbors returns the circular lightbox neighbors of one design
// within the filtered public catalog.
func (s *Service) Neighbors(ctx context.Context, visitorID string, id int64, filter string) (int64, int64, error) {
	catalog, err := s.designs.Catalog(ctx, false)
	if err != nil {
		return 0, 0, design.ErrCatalogLoading
	}

	favorites, err := s.favoriteSet(ctx, visitorID)
	if err != nil {
		favorites = map[int64]bool{}
	}

	prev, next, ok := Neighbors(Filtered(catalog, filter, favorites), id)
	if !ok {
		return 0, 0, design.ErrDesignNotFound
	}
	return prev, next, nil
}

// Step exposes the load-more increment for clients
func (s *Service) Step() int { return s.step }

func (s *Service) favoriteSet(ctx context.Context, visitorID string) (map[int64]bool, error) {
	ids, err := s.likes.Favorites(ctx, visitorID)
	if err != nil {
		return nil, err
	}
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set, nil
}
