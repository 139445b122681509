// Package users persists the credential document: a whole-document mapping
// of user id to identity. Every write replaces the entire document.
package users

import (
	"context"

	"github.com/dkhrutsky/mdskeeper/internal/models"
)

// Repository describes access to the credential document.
//
// Mutate serializes the whole read-modify-write cycle: the snapshot passed
// to fn is re-read from the backing document under the repository lock, and
// the transformed snapshot is persisted before the lock is released. Callers
// must not retain the map after fn returns.
type Repository interface {
	// LoadAll returns the full mapping, empty when no document exists.
	LoadAll(ctx context.Context) (map[string]models.User, error)

	// SaveAll atomically overwrites the backing document.
	SaveAll(ctx context.Context, users map[string]models.User) error

	// Mutate applies fn to a fresh snapshot and persists the result.
	// An error from fn aborts the write and is returned unchanged.
	Mutate(ctx context.Context, fn func(users map[string]models.User) error) error
}
