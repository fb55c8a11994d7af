package design

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// catalogChannel carries the full catalog snapshot after every mutation
const catalogChannel = "designs:catalog"

// Snapshot is the complete public catalog state at one moment: the
// ordered, non-archived design list plus the current like counts.
// Subscribers always receive whole snapshots, never deltas.
type Snapshot struct {
	Designs []*Design       `json:"designs"`
	Likes   map[int64]int64 `json:"likes"`
}

// Publisher fans a snapshot out to all subscribed watchers
type Publisher struct {
	redis *redis.Client
}

// NewPublisher creates a snapshot publisher
func NewPublisher(redisClient *redis.Client) *Publisher {
	return &Publisher{redis: redisClient}
}

// Publish broadcasts a snapshot on the catalog channel
func (p *Publisher) Publish(ctx context.Context, snap *Snapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return p.redis.Publish(ctx, catalogChannel, payload).Err()
}

// Watcher exposes the catalog as an observable stream of snapshots
type Watcher struct {
	redis *redis.Client
}

// NewWatcher creates a catalog watcher
func NewWatcher(redisClient *redis.Client) *Watcher {
	return &Watcher{redis: redisClient}
}

// Subscribe starts receiving catalog snapshots. The returned cancel
// func tears the subscription down; after calling it no further
// snapshots are delivered and the channel is closed.
func (w *Watcher) Subscribe(ctx context.Context) (<-chan *Snapshot, func(), error) {
	pubsub := w.redis.Subscribe(ctx, catalogChannel)

	// Fail fast if the subscription cannot be established
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, nil, fmt.Errorf("catalog subscription failed: %w", err)
	}

	out := make(chan *Snapshot, 8)

	go func() {
		defer close(out)
		for msg := range pubsub.Channel() {
			snap, err := ParseSnapshot([]byte(msg.Payload))
			if err != nil {
				// Malformed remote data must never reach the catalog
				log.Warn().Err(err).Msg("Rejected malformed catalog snapshot")
				continue
			}
			select {
			case out <- snap:
			default:
				// Slow consumer: drop this snapshot, a newer one follows
			}
		}
	}()

	unsubscribe := func() {
		_ = pubsub.Close()
	}
	return out, unsubscribe, nil
}

// ParseSnapshot validates a wire snapshot before it is applied.
// Records with a non-positive id or missing backing key poison the
// ordering invariants, so the whole snapshot is rejected.
func ParseSnapshot(payload []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(payload, &snap); err != nil {
		return nil, fmt.Errorf("undecodable snapshot: %w", err)
	}

	for _, d := range snap.Designs {
		if d == nil {
			return nil, fmt.Errorf("snapshot contains null record")
		}
		if d.ID <= 0 {
			return nil, fmt.Errorf("snapshot record has invalid id %d", d.ID)
		}
		if d.BackingKey == "" {
			return nil, fmt.Errorf("snapshot record %d has no backing key", d.ID)
		}
	}

	// Ordering is deterministic regardless of arrival order
	sort.Slice(snap.Designs, func(i, j int) bool {
		return snap.Designs[i].ID < snap.Designs[j].ID
	})

	if snap.Likes == nil {
		snap.Likes = map[int64]int64{}
	}

	return &snap, nil
}
