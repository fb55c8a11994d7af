package gallery

import (
	"github.com/velvetnails/velvet-api/internal/domain/design"
)

// Filter names the three gallery views: everything, the visitor's
// liked designs, or a single category.
const (
	FilterAll   = "all"
	FilterLiked = "liked"
)

// Filtered returns the designs the filter admits, order preserved.
// favorites is the visitor's liked set; only the liked filter reads it.
func Filtered(designs []*design.Design, filter string, favorites map[int64]bool) []*design.Design {
	if filter == "" || filter == FilterAll {
		return designs
	}

	out := make([]*design.Design, 0, len(designs))
	for _, d := range designs {
		switch filter {
		case FilterLiked:
			if favorites[d.ID] {
				out = append(out, d)
			}
		default:
			if d.Category == filter {
				out = append(out, d)
			}
		}
	}
	return out
}

// ClampVisible bounds a requested visible count to [0, total].
// A non-positive request falls back to the starting page size.
func ClampVisible(requested, start, total int) int {
	if requested <= 0 {
		requested = start
	}
	if requested > total {
		return total
	}
	return requested
}

// NextVisible grows the visible count by one page step, clamped.
// Growing past the end is a no-op, never an error.
func NextVisible(current, step, total int) int {
	next := current + step
	if next > total {
		return total
	}
	return next
}

// Neighbors returns the previous and next design ids around id in the
// filtered list, wrapping circularly: stepping past the last design
// lands on the first and vice versa. ok is false when id is not in
// the list or the list is empty.
func Neighbors(filtered []*design.Design, id int64) (prev, next int64, ok bool) {
	n := len(filtered)
	if n == 0 {
		return 0, 0, false
	}

	for i, d := range filtered {
		if d.ID == id {
			prev = filtered[(i-1+n)%n].ID
			next = filtered[(i+1)%n].ID
			return prev, next, true
		}
	}
	return 0, 0, false
}
