// Package settings persists the admin-configurable singleton document:
// the admin password and the auto-refresh flag.
package settings

import (
	"context"

	"github.com/dkhrutsky/mdskeeper/internal/models"
)

type Repository interface {
	// Load returns the current settings. On first run the defaults are
	// persisted and returned.
	Load(ctx context.Context) (models.Settings, error)

	// Save fully overwrites the settings document.
	Save(ctx context.Context, s models.Settings) error

	// VerifyAdmin compares candidate against the current admin password.
	VerifyAdmin(ctx context.Context, candidate string) (bool, error)
}
