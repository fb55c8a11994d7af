package admin

import (
	"time"

	"github.com/google/uuid"
)

// Admin is a studio owner account. There is no public registration;
// accounts are provisioned directly in the database.
type Admin struct {
	ID           uuid.UUID `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
