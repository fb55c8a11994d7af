package design

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/pkg/storage"
	"github.com/velvetnails/velvet-api/internal/pkg/urlcache"
)

// ResolutionState describes how a single design's URL resolution went
type ResolutionState string

const (
	// Resolved means a usable URL is attached
	Resolved ResolutionState = "resolved"
	// Pending means resolution continues in the background
	Pending ResolutionState = "pending"
	// Unavailable means resolution failed; retried on next catalog load
	Unavailable ResolutionState = "unavailable"
)

// Resolution is the outcome for one design
type Resolution struct {
	URL   string
	State ResolutionState
}

// Resolver turns backing keys into renderable URLs, cache first.
// It owns a background context for warm-up work so in-flight
// resolutions are abandoned, not applied, once Close is called.
type Resolver struct {
	cache    *urlcache.Cache
	store    storage.ObjectStore
	signTTL  time.Duration
	priority int

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewResolver creates a URL resolver. priority is the number of
// catalog entries resolved before a feed response is returned.
func NewResolver(cache *urlcache.Cache, store storage.ObjectStore, signTTL time.Duration, priority int) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	return &Resolver{
		cache:    cache,
		store:    store,
		signTTL:  signTTL,
		priority: priority,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Close stops background warm-up work and waits for it to drain
func (r *Resolver) Close() {
	r.cancel()
	r.wg.Wait()
}

// Resolve returns a URL for one design, consulting the cache first
func (r *Resolver) Resolve(ctx context.Context, id int64, backingKey string) (string, error) {
	if url, err := r.cache.Get(ctx, id); err == nil {
		return url, nil
	} else if !errors.Is(err, urlcache.ErrMiss) {
		return "", err
	}

	url, err := r.store.SignedURL(ctx, backingKey, r.signTTL)
	if err != nil {
		return "", err
	}

	if err := r.cache.Set(ctx, id, url); err != nil {
		// Cache is advisory; the resolved URL is still good
		log.Warn().Err(err).Int64("design_id", id).Msg("Failed to cache resolved URL")
	}

	return url, nil
}

// ResolveBatch resolves the first priority entries in sequence so the
// top of the feed is usable immediately, then warms the rest in the
// background. One failed entry never aborts the others.
func (r *Resolver) ResolveBatch(ctx context.Context, designs []*Design) map[int64]Resolution {
	results := make(map[int64]Resolution, len(designs))

	cut := r.priority
	if cut > len(designs) {
		cut = len(designs)
	}

	for _, d := range designs[:cut] {
		url, err := r.Resolve(ctx, d.ID, d.BackingKey)
		if err != nil {
			log.Warn().Err(err).Int64("design_id", d.ID).Msg("URL resolution failed")
			results[d.ID] = Resolution{State: Unavailable}
			continue
		}
		results[d.ID] = Resolution{URL: url, State: Resolved}
	}

	var remainder []*Design
	for _, d := range designs[cut:] {
		// Cache hits are free; only misses go to the background
		if url, err := r.cache.Get(ctx, d.ID); err == nil {
			results[d.ID] = Resolution{URL: url, State: Resolved}
			continue
		}
		results[d.ID] = Resolution{State: Pending}
		remainder = append(remainder, d)
	}

	if len(remainder) > 0 {
		r.wg.Add(1)
		go r.warm(remainder)
	}

	return results
}

// warm resolves the remainder off the request path. Results land in
// the cache only; a torn-down resolver discards everything in flight.
func (r *Resolver) warm(designs []*Design) {
	defer r.wg.Done()
	for _, d := range designs {
		if r.ctx.Err() != nil {
			return
		}
		if _, err := r.cache.Get(r.ctx, d.ID); err == nil {
			continue
		}
		url, err := r.store.SignedURL(r.ctx, d.BackingKey, r.signTTL)
		if err != nil {
			log.Debug().Err(err).Int64("design_id", d.ID).Msg("Background URL resolution failed")
			continue
		}
		if r.ctx.Err() != nil {
			return
		}
		if err := r.cache.Set(r.ctx, d.ID, url); err != nil {
			log.Debug().Err(err).Int64("design_id", d.ID).Msg("Failed to cache background resolution")
		}
	}
}
