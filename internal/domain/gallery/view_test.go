package gallery

import (
	"testing"

	"github.com/velvetnails/velvet-api/internal/domain/design"
)

func catalogOf(ids ...int64) []*design.Design {
	out := make([]*design.Design, len(ids))
	for i, id := range ids {
		out[i] = &design.Design{ID: id, BackingKey: "designs/x.jpg", Category: "chrome"}
	}
	return out
}

func TestFilteredAll(t *testing.T) {
	catalog := catalogOf(1, 2, 3)

	for _, filter := range []string{"", FilterAll} {
		got := Filtered(catalog, filter, nil)
		if len(got) != 3 {
			t.Errorf("filter %q: got %d designs, want 3", filter, len(got))
		}
	}
}

func TestFilteredLiked(t *testing.T) {
	catalog := catalogOf(1, 2, 3, 4)
	favorites := map[int64]bool{2: true, 4: true}

	got := Filtered(catalog, FilterLiked, favorites)
	if len(got) != 2 || got[0].ID != 2 || got[1].ID != 4 {
		t.Errorf("liked filter wrong: %+v", got)
	}
}

func TestFilteredCategory(t *testing.T) {
	catalog := []*design.Design{
		{ID: 1, Category: "chrome"},
		{ID: 2, Category: "french"},
		{ID: 3, Category: "chrome"},
	}

	got := Filtered(catalog, "french", nil)
	if len(got) != 1 || got[0].ID != 2 {
		t.Errorf("category filter wrong: %+v", got)
	}

	if got := Filtered(catalog, "unknown-category", nil); len(got) != 0 {
		t.Errorf("unknown category should be empty, got %+v", got)
	}
}

func TestClampVisible(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		total     int
		want      int
	}{
		{"zero falls back to start", 0, 30, 12},
		{"negative falls back to start", -5, 30, 12},
		{"start exceeds small catalog", 0, 5, 5},
		{"within range", 20, 30, 20},
		{"clamped to total", 50, 30, 30},
		{"empty catalog", 12, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampVisible(tt.requested, 12, tt.total); got != tt.want {
				t.Errorf("ClampVisible(%d, 12, %d) = %d, want %d", tt.requested, tt.total, got, tt.want)
			}
		})
	}
}

func TestNextVisibleGrowsMonotonically(t *testing.T) {
	total := 30
	visible := 12

	seen := []int{visible}
	for i := 0; i < 5; i++ {
		next := NextVisible(visible, 8, total)
		if next < visible {
			t.Fatalf("visible shrank from %d to %d", visible, next)
		}
		visible = next
		seen = append(seen, visible)
	}

	// 12 -> 20 -> 28 -> 30, then stuck at 30
	want := []int{12, 20, 28, 30, 30, 30}
	for i, w := range want {
		if seen[i] != w {
			t.Errorf("step %d: got %d, want %d", i, seen[i], w)
		}
	}
}

func TestNeighborsWrapCircularly(t *testing.T) {
	catalog := catalogOf(10, 20, 30)

	prev, next, ok := Neighbors(catalog, 10)
	if !ok || prev != 30 || next != 20 {
		t.Errorf("first element: prev=%d next=%d ok=%v", prev, next, ok)
	}

	prev, next, ok = Neighbors(catalog, 30)
	if !ok || prev != 20 || next != 10 {
		t.Errorf("last element: prev=%d next=%d ok=%v", prev, next, ok)
	}
}

func TestNeighborsSingleElement(t *testing.T) {
	catalog := catalogOf(7)

	prev, next, ok := Neighbors(catalog, 7)
	if !ok || prev != 7 || next != 7 {
		t.Errorf("single element should wrap to itself: prev=%d next=%d ok=%v", prev, next, ok)
	}
}

func TestNeighborsAbsentID(t *testing.T) {
	if _, _, ok := Neighbors(catalogOf(1, 2), 99); ok {
		t.Error("absent id should not resolve neighbors")
	}
	if _, _, ok := Neighbors(nil, 1); ok {
		t.Error("empty list should not resolve neighbors")
	}
}
