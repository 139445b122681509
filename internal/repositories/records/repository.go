// Package records persists the per-user record tables. Each user owns one
// logical table; every write replaces the whole table (full-document
// persistence). Two backends exist: one CSV file per user, and a shared
// SQLite database keyed by user id.
package records

import (
	"context"
	"strings"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/models"
)

// Repository describes access to the per-user record tables.
//
// Update serializes the read-modify-write cycle for one user's table under
// a per-user lock: fn receives a fresh snapshot and returns the replacement
// table, which is persisted before the lock is released.
type Repository interface {
	// LoadTable returns the user's records in creation order.
	// A missing table yields an empty sequence.
	LoadTable(ctx context.Context, userID string) ([]models.Record, error)

	// SaveTable fully overwrites the user's table.
	SaveTable(ctx context.Context, userID string, recs []models.Record) error

	// Update applies fn to a fresh snapshot of the user's table and persists
	// the returned replacement. An error from fn aborts the write.
	Update(ctx context.Context, userID string, fn func(recs []models.Record) ([]models.Record, error)) error

	// DeleteTable removes the user's table entirely (admin hard delete).
	DeleteTable(ctx context.Context, userID string) error
}

// Filter selects a subset of a record table. Zero-valued criteria are
// skipped; present criteria compose with logical AND.
type Filter struct {
	// Category matches exactly, unless empty or the "all" sentinel.
	Category string

	// Keyword matches case-insensitively against title OR notes.
	Keyword string

	// From/To bound created_at inclusively. The range is applied only when
	// both are set; an inverted range matches nothing.
	From time.Time
	To   time.Time
}

// Matches reports whether r satisfies every present criterion.
func (f Filter) Matches(r models.Record) bool {
	if f.Category != "" && f.Category != models.CategoryAll && r.Category != f.Category {
		return false
	}
	if f.Keyword != "" {
		kw := strings.ToLower(f.Keyword)
		if !strings.Contains(strings.ToLower(r.Title), kw) &&
			!strings.Contains(strings.ToLower(r.Notes), kw) {
			return false
		}
	}
	if !f.From.IsZero() && !f.To.IsZero() {
		if r.CreatedAt.Before(f.From) || r.CreatedAt.After(f.To) {
			return false
		}
	}
	return true
}

// Apply returns the records matching f, preserving order.
func Apply(recs []models.Record, f Filter) []models.Record {
	out := make([]models.Record, 0, len(recs))
	for _, r := range recs {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}
