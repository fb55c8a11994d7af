package design

import (
	"fmt"
	"strings"
	"time"
)

// Design represents one portfolio image (metadata only, blob in R2)
type Design struct {
	ID          int64     `db:"id" json:"id"`
	DisplayName string    `db:"display_name" json:"display_name"`
	BackingKey  string    `db:"backing_key" json:"backing_key"`
	Category    string    `db:"category" json:"category"`
	Archived    bool      `db:"archived" json:"archived"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Title returns the display name, falling back to the filename stem
func (d *Design) Title() string {
	if d.DisplayName != "" {
		return d.DisplayName
	}
	base := d.BackingKey
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i > 0 {
		base = base[:i]
	}
	return base
}

// BackingKeyFor builds the object-store key for a design id
func BackingKeyFor(prefix string, id int64) string {
	return fmt.Sprintf("%s%d.jpg", prefix, id)
}
