package urlcache

import (
	"context"
	"errors"
	"testing"
	"time"
)

type memKV struct {
	data map[string]string
}

func newMemKV() *memKV {
	return &memKV{data: map[string]string{}}
}

func (m *memKV) Get(ctx context.Context, key string) (string, error) {
	v, ok := m.data[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (m *memKV) Set(ctx context.Context, key, value string, expiry time.Duration) error {
	m.data[key] = value
	return nil
}

func (m *memKV) Del(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}

func TestGetReturnsFreshEntry(t *testing.T) {
	kv := newMemKV()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	cache := New(kv, 24*time.Hour).WithClock(func() time.Time { return clock })

	if err := cache.Set(context.Background(), 7, "https://cdn.example/7.jpg"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	url, err := cache.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if url != "https://cdn.example/7.jpg" {
		t.Errorf("got %q", url)
	}
}

func TestGetMissesUnknownDesign(t *testing.T) {
	cache := New(newMemKV(), 24*time.Hour)

	if _, err := cache.Get(context.Background(), 99); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss, got %v", err)
	}
}

func TestStalenessBoundary(t *testing.T) {
	ttl := 24 * time.Hour
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		elapsed time.Duration
		wantHit bool
	}{
		{"just stored", 0, true},
		{"one second before expiry", ttl - time.Second, true},
		{"exactly at expiry", ttl, false},
		{"after expiry", ttl + time.Hour, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			kv := newMemKV()
			clock := base
			cache := New(kv, ttl).WithClock(func() time.Time { return clock })

			if err := cache.Set(context.Background(), 1, "https://cdn.example/1.jpg"); err != nil {
				t.Fatalf("Set: %v", err)
			}

			clock = base.Add(tt.elapsed)

			_, err := cache.Get(context.Background(), 1)
			if tt.wantHit && err != nil {
				t.Errorf("expected hit, got %v", err)
			}
			if !tt.wantHit && !errors.Is(err, ErrMiss) {
				t.Errorf("expected ErrMiss, got %v", err)
			}
		})
	}
}

func TestStaleEntryOverwrittenWhole(t *testing.T) {
	kv := newMemKV()
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	cache := New(kv, time.Hour).WithClock(func() time.Time { return clock })

	if err := cache.Set(context.Background(), 3, "https://cdn.example/old.jpg"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	clock = base.Add(2 * time.Hour)
	if _, err := cache.Get(context.Background(), 3); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected stale miss, got %v", err)
	}

	if err := cache.Set(context.Background(), 3, "https://cdn.example/new.jpg"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	url, err := cache.Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get after refresh: %v", err)
	}
	if url != "https://cdn.example/new.jpg" {
		t.Errorf("got %q, want refreshed URL", url)
	}
}

func TestCorruptEntryDroppedAsMiss(t *testing.T) {
	kv := newMemKV()
	cache := New(kv, time.Hour)

	kv.data["urlcache:5"] = "{not json"

	if _, err := cache.Get(context.Background(), 5); !errors.Is(err, ErrMiss) {
		t.Fatalf("expected ErrMiss, got %v", err)
	}
	if _, ok := kv.data["urlcache:5"]; ok {
		t.Error("corrupt entry should have been deleted")
	}
}

func TestDelRemovesEntry(t *testing.T) {
	kv := newMemKV()
	cache := New(kv, time.Hour)

	if err := cache.Set(context.Background(), 8, "https://cdn.example/8.jpg"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := cache.Del(context.Background(), 8); err != nil {
		t.Fatalf("Del: %v", err)
	}
	if _, err := cache.Get(context.Background(), 8); !errors.Is(err, ErrMiss) {
		t.Errorf("expected ErrMiss after delete, got %v", err)
	}
}
