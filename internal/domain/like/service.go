package like

import (
	"context"

	"github.com/rs/zerolog/log"
)

// Service owns like toggling and counter reads
type Service struct {
	counters  CounterStore
	favorites FavoriteStore
}

// NewService creates like service
func NewService(counters CounterStore, favorites FavoriteStore) *Service {
	return &Service{counters: counters, favorites: favorites}
}

// ToggleResult reports the visitor's state after a toggle
type ToggleResult struct {
	Liked bool  `json:"liked"`
	Count int64 `json:"count"`
}

// Toggle flips the visitor's like for one design. The favorite set
// decides the direction; the counter moves inside an atomic
// transaction whose function is recomputed on every retry and clamps
// at zero; only after the counter commits is the favorite set touched.
func (s *Service) Toggle(ctx context.Context, visitorID string, designID int64) (*ToggleResult, error) {
	if visitorID == "" {
		return nil, ErrUnknownVisitor
	}

	liked, err := s.favorites.Contains(ctx, visitorID, designID)
	if err != nil {
		return nil, err
	}

	delta := int64(1)
	if liked {
		delta = -1
	}

	count, err := s.counters.Apply(ctx, designID, func(current int64) int64 {
		next := current + delta
		if next < 0 {
			next = 0
		}
		return next
	})
	if err != nil {
		// Counter untouched, so the favorite set stays untouched too
		return nil, err
	}

	if liked {
		err = s.favorites.Remove(ctx, visitorID, designID)
	} else {
		err = s.favorites.Add(ctx, visitorID, designID)
	}
	if err != nil {
		// Counter already committed; membership is advisory and will
		// self-correct on the visitor's next toggle
		log.Warn().Err(err).Str("visitor_id", visitorID).Int64("design_id", designID).
			Msg("Favorite set update failed after counter commit")
	}

	return &ToggleResult{Liked: !liked, Count: count}, nil
}

// Count returns one design's like count; absent counters read as zero
func (s *Service) Count(ctx context.Context, designID int64) (int64, error) {
	return s.counters.Count(ctx, designID)
}

// All returns every live counter keyed by design id
func (s *Service) All(ctx context.Context) (map[int64]int64, error) {
	return s.counters.All(ctx)
}

// Remove deletes a design's counter; deleting an absent counter
// succeeds. Stale favorite-set members are left behind on purpose:
// the sets are advisory and filtered against the live catalog on read.
func (s *Service) Remove(ctx context.Context, designID int64) error {
	return s.counters.Delete(ctx, designID)
}

// Favorites lists the designs a visitor has liked
func (s *Service) Favorites(ctx context.Context, visitorID string) ([]int64, error) {
	if visitorID == "" {
		return []int64{}, nil
	}
	return s.favorites.List(ctx, visitorID)
}
