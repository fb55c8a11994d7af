package design

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/velvetnails/velvet-api/internal/pkg/imaging"
	"github.com/velvetnails/velvet-api/internal/pkg/storage"
)

// LikeSource is the slice of the like domain the catalog needs:
// current counts for snapshots and counter removal on delete.
type LikeSource interface {
	All(ctx context.Context) (map[int64]int64, error)
	Remove(ctx context.Context, designID int64) error
}

// SnapshotPublisher fans catalog snapshots out after mutations
type SnapshotPublisher interface {
	Publish(ctx context.Context, snap *Snapshot) error
}

// DeleteError reports which of the three independent delete steps
// failed. The operation is idempotent, so the caller may simply retry.
type DeleteError struct {
	Step string // "blob", "record" or "counter"
	Err  error
}

func (e *DeleteError) Error() string {
	return fmt.Sprintf("delete failed at %s: %v", e.Step, e.Err)
}

func (e *DeleteError) Unwrap() error { return e.Err }

// ReconcileReport lists blobs found in the object store that have no
// catalog record, and the ids imported for them when requested.
type ReconcileReport struct {
	Orphans  []string `json:"orphans"`
	Imported []int64  `json:"imported"`
}

// Service owns the design catalog and its mutations
type Service struct {
	repo      Repository
	store     storage.ObjectStore
	likes     LikeSource
	resolver  *Resolver
	publisher SnapshotPublisher
	processor *imaging.Processor
	prefix    string
}

// NewService creates design service
func NewService(repo Repository, store storage.ObjectStore, likes LikeSource, resolver *Resolver, publisher SnapshotPublisher, processor *imaging.Processor, prefix string) *Service {
	return &Service{
		repo:      repo,
		store:     store,
		likes:     likes,
		resolver:  resolver,
		publisher: publisher,
		processor: processor,
		prefix:    prefix,
	}
}

// Catalog returns the ordered design list. The public view excludes
// archived entries; the admin view includes them.
func (s *Service) Catalog(ctx context.Context, includeArchived bool) ([]*Design, error) {
	return s.repo.List(ctx, includeArchived)
}

// GetByID returns one design or ErrDesignNotFound
func (s *Service) GetByID(ctx context.Context, id int64) (*Design, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDesignNotFound
	}
	return d, nil
}

// Resolver exposes the URL resolver for feed assembly
func (s *Service) Resolver() *Resolver {
	return s.resolver
}

// Snapshot assembles the current public catalog state
func (s *Service) Snapshot(ctx context.Context) (*Snapshot, error) {
	designs, err := s.repo.List(ctx, false)
	if err != nil {
		return nil, err
	}
	likes, err := s.likes.All(ctx)
	if err != nil {
		// Counters live in a separate namespace; a counter outage
		// must not blank the catalog itself
		log.Warn().Err(err).Msg("Like counts unavailable for snapshot")
		likes = map[int64]int64{}
	}
	return &Snapshot{Designs: designs, Likes: likes}, nil
}

// NotifyChanged publishes a fresh snapshot to all watchers.
// Publish failures are logged, not propagated: the mutation that
// triggered the notification has already committed.
func (s *Service) NotifyChanged(ctx context.Context) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to build catalog snapshot")
		return
	}
	if err := s.publisher.Publish(ctx, snap); err != nil {
		log.Warn().Err(err).Msg("Failed to publish catalog snapshot")
	}
}

// Upload stores a new design: blob first, then record, in that order.
// The id is reserved once and never reused.
func (s *Service) Upload(ctx context.Context, file io.Reader, filename, displayName, category string) (*Design, error) {
	if !imaging.ValidateType(filename) {
		return nil, ErrInvalidImage
	}

	processed, err := s.processor.Process(file)
	if err != nil {
		return nil, ErrInvalidImage
	}

	id, err := s.repo.NextID(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reserve design id: %w", err)
	}

	key := BackingKeyFor(s.prefix, id)
	if err := s.store.Put(ctx, key, strings.NewReader(string(processed.Data)), processed.ContentType); err != nil {
		return nil, fmt.Errorf("failed to store design blob: %w", err)
	}

	d := &Design{
		ID:          id,
		DisplayName: displayName,
		BackingKey:  key,
		Category:    category,
		Archived:    false,
		CreatedAt:   time.Now(),
	}
	if err := s.repo.Create(ctx, d); err != nil {
		// Orphaned blob; Reconcile will surface it
		return nil, fmt.Errorf("blob stored but record creation failed: %w", err)
	}

	s.NotifyChanged(ctx)
	return d, nil
}

// SetArchived flips the soft-delete flag
func (s *Service) SetArchived(ctx context.Context, id int64, archived bool) (*Design, error) {
	if err := s.repo.SetArchived(ctx, id, archived); err != nil {
		return nil, err
	}
	s.NotifyChanged(ctx)
	return s.GetByID(ctx, id)
}

// Delete removes the blob, the record and the counter. The three
// operations hit two different stores with no shared transaction, so
// a step can fail after an earlier one succeeded; each step treats an
// already-absent target as success, making re-attempts safe.
func (s *Service) Delete(ctx context.Context, id int64) error {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	key := BackingKeyFor(s.prefix, id)
	if d != nil {
		key = d.BackingKey
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return &DeleteError{Step: "blob", Err: err}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return &DeleteError{Step: "record", Err: err}
	}
	if err := s.likes.Remove(ctx, id); err != nil {
		return &DeleteError{Step: "counter", Err: err}
	}

	s.NotifyChanged(ctx)
	return nil
}

// Reconcile enumerates the object store under the designs prefix and
// reports blobs that have no catalog record. With apply set, records
// are created for them with defaults, the way the legacy
// enumeration-based catalog assembled itself.
func (s *Service) Reconcile(ctx context.Context, apply bool) (*ReconcileReport, error) {
	objects, err := s.store.List(ctx, s.prefix)
	if err != nil {
		return nil, fmt.Errorf("failed to enumerate design blobs: %w", err)
	}

	known := map[int64]bool{}
	designs, err := s.repo.List(ctx, true)
	if err != nil {
		return nil, err
	}
	for _, d := range designs {
		known[d.ID] = true
	}

	report := &ReconcileReport{Orphans: []string{}, Imported: []int64{}}
	for _, obj := range objects {
		id, ok := idFromKey(s.prefix, obj.Key)
		if !ok || known[id] {
			continue
		}
		report.Orphans = append(report.Orphans, obj.Key)
		if !apply {
			continue
		}
		d := &Design{
			ID:         id,
			BackingKey: obj.Key,
			CreatedAt:  time.Now(),
		}
		if err := s.repo.Create(ctx, d); err != nil {
			log.Warn().Err(err).Str("key", obj.Key).Msg("Failed to import orphan blob")
			continue
		}
		report.Imported = append(report.Imported, id)
	}

	if len(report.Imported) > 0 {
		s.NotifyChanged(ctx)
	}
	return report, nil
}

// idFromKey parses the numeric design id out of an object key stem
func idFromKey(prefix, key string) (int64, bool) {
	stem := strings.TrimPrefix(key, prefix)
	if i := strings.IndexByte(stem, '.'); i > 0 {
		stem = stem[:i]
	}
	id, err := strconv.ParseInt(stem, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
