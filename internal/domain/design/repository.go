package design

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// Repository defines design record access
type Repository interface {
	List(ctx context.Context, includeArchived bool) ([]*Design, error)
	GetByID(ctx context.Context, id int64) (*Design, error)
	NextID(ctx context.Context) (int64, error)
	Create(ctx context.Context, d *Design) error
	SetArchived(ctx context.Context, id int64, archived bool) error
	Delete(ctx context.Context, id int64) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates design repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) List(ctx context.Context, includeArchived bool) ([]*Design, error) {
	query := `SELECT id, display_name, backing_key, category, archived, created_at FROM designs`
	if !includeArchived {
		query += ` WHERE archived = false`
	}
	query += ` ORDER BY id ASC`

	designs := []*Design{}
	if err := r.db.SelectContext(ctx, &designs, query); err != nil {
		return nil, err
	}
	return designs, nil
}

func (r *repository) GetByID(ctx context.Context, id int64) (*Design, error) {
	query := `SELECT id, display_name, backing_key, category, archived, created_at FROM designs WHERE id = $1`
	var d Design
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &d, nil
}

// NextID reserves the next design id. Sequence-backed so ids are
// assigned once and never reused, even across deletes.
func (r *repository) NextID(ctx context.Context) (int64, error) {
	var id int64
	if err := r.db.GetContext(ctx, &id, `SELECT nextval('design_ids')`); err != nil {
		return 0, err
	}
	return id, nil
}

func (r *repository) Create(ctx context.Context, d *Design) error {
	query := `
		INSERT INTO designs (id, display_name, backing_key, category, archived, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		d.ID, d.DisplayName, d.BackingKey, d.Category, d.Archived, d.CreatedAt)
	return err
}

func (r *repository) SetArchived(ctx context.Context, id int64, archived bool) error {
	res, err := r.db.ExecContext(ctx, `UPDATE designs SET archived = $2 WHERE id = $1`, id, archived)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDesignNotFound
	}
	return nil
}

// Delete removes a record. Deleting an absent record is not an error.
func (r *repository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM designs WHERE id = $1`, id)
	return err
}
