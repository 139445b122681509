package users

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

const fileName = "users.json"

// JSONRepository stores the credential document as users.json inside the
// data directory. A corrupt or missing document degrades to an empty mapping
// so the session stays usable.
type JSONRepository struct {
	path   string
	logger logging.Logger
	mu     sync.Mutex
}

func NewJSONRepository(dataDir string, logger logging.Logger) *JSONRepository {
	return &JSONRepository{path: filepath.Join(dataDir, fileName), logger: logger}
}

func (r *JSONRepository) LoadAll(ctx context.Context) (map[string]models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loadLocked(ctx)
}

func (r *JSONRepository) SaveAll(ctx context.Context, users map[string]models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveLocked(users)
}

func (r *JSONRepository) Mutate(ctx context.Context, fn func(users map[string]models.User) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	users, err := r.loadLocked(ctx)
	if err != nil {
		return err
	}
	if err := fn(users); err != nil {
		return err
	}
	return r.saveLocked(users)
}

func (r *JSONRepository) loadLocked(ctx context.Context) (map[string]models.User, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]models.User{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", r.path, err)
	}

	users := map[string]models.User{}
	if err := json.Unmarshal(data, &users); err != nil {
		r.logger.Warn(ctx, "credential document unreadable, starting empty", "path", r.path, "error", err.Error())
		return map[string]models.User{}, nil
	}
	return users, nil
}

func (r *JSONRepository) saveLocked(users map[string]models.User) error {
	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credential document: %w", err)
	}
	if err := filex.WriteFileAtomic(r.path, data); err != nil {
		return fmt.Errorf("writing %s: %w", r.path, err)
	}
	return nil
}
