package settings

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/dkhrutsky/mdskeeper/internal/filex"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
)

const fileName = "settings.json"

// JSONRepository stores settings.json inside the data directory.
// Missing or corrupt documents fall back to the defaults, which are then
// persisted so the next load sees a well-formed document.
type JSONRepository struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

func NewJSONRepository(dataDir string, logger logging.Logger) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, fileName), logger: logger}
}

func (r *JSONRepository) Load(ctx context.Context) (models.Settings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return r.initDefaultsLocked()
		}
		return models.Settings{}, fmt.Errorf("reading %s: %w", r.path, err)
	}

	var s models.Settings
	if err := json.Unmarshal(data, &s); err != nil {
		r.logger.Warn(ctx, "settings document unreadable, restoring defaults", "path", r.path, "error", err.Error())
		return r.initDefaultsLocked()
	}
	return s, nil
}

func (r *JSONRepository) Save(ctx context.Context, s models.Settings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(s)
}

func (r *JSONRepository) VerifyAdmin(ctx context.Context, candidate string) (bool, error) {
	s, err := r.Load(ctx)
	if err != nil {
		return false, err
	}
	return candidate == s.AdminPassword, nil
}

func (r *JSONRepository) initDefaultsLocked() (models.Settings, error) {
	s := models.DefaultSettings()
	if err := r.saveLocked(s); err != nil {
		return models.Settings{}, err
	}
	return s, nil
}

func (r *JSONRepository) saveLocked(s models.Settings) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding settings document: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	return nil
}
