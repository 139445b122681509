package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/settings"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/users"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// UserEntry pairs a user id with its identity, for admin listings.
type UserEntry struct {
	ID   string
	User models.User
}

// AdminService covers the store-wide operations only the admin actor may
// perform: listing users, resetting passwords, deleting identities, and
// editing the settings document.
type AdminService struct {
	users    users.Repository
	records  records.Repository
	settings settings.Repository
	logger   logging.Logger
}

func NewAdminService(usersRepo users.Repository, recordsRepo records.Repository, settingsRepo settings.Repository, logger logging.Logger) *AdminService {
	return &AdminService{users: usersRepo, records: recordsRepo, settings: settingsRepo, logger: logger}
}

// VerifyAdmin checks a candidate admin password. It is callable by any
// actor: it is the admin login step itself.
func (s *AdminService) VerifyAdmin(ctx context.Context, candidate string) (bool, error) {
	return s.settings.VerifyAdmin(ctx, candidate)
}

// Settings returns the current settings document.
func (s *AdminService) Settings(ctx context.Context) (models.Settings, error) {
	return s.settings.Load(ctx)
}

// ListUsers returns every registered identity, ordered by user id.
func (s *AdminService) ListUsers(ctx context.Context, sess *session.Session) ([]UserEntry, error) {
	if !sess.Actor.IsAdmin() {
		return nil, common.ErrorUnauthorized
	}

	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := make([]UserEntry, 0, len(all))
	for id, u := range all {
		entries = append(entries, UserEntry{ID: id, User: u})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].ID < entries[j].ID })
	return entries, nil
}

// ResetPassword sets the user's password to the fixed reset value.
func (s *AdminService) ResetPassword(ctx context.Context, sess *session.Session, uid string) error {
	if !sess.Actor.IsAdmin() {
		return common.ErrorUnauthorized
	}

	err := s.users.Mutate(ctx, func(all map[string]models.User) error {
		u, ok := all[uid]
		if !ok {
			return fmt.Errorf("user %s: %w", uid, common.ErrorNotFound)
		}
		u.Password = models.ResetUserPassword
		all[uid] = u
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password reset by admin", "uid", uid)
	return nil
}

// DeleteUser hard-deletes the identity and its record table.
func (s *AdminService) DeleteUser(ctx context.Context, sess *session.Session, uid string) error {
	if !sess.Actor.IsAdmin() {
		return common.ErrorUnauthorized
	}

	// Table removal goes first; a failure leaves the identity intact
	// rather than an orphaned records file.
	if err := s.records.DeleteTable(ctx, uid); err != nil {
		return err
	}
	err := s.users.Mutate(ctx, func(all map[string]models.User) error {
		if _, ok := all[uid]; !ok {
			return fmt.Errorf("user %s: %w", uid, common.ErrorNotFound)
		}
		delete(all, uid)
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "user deleted by admin", "uid", uid)
	return nil
}

// SaveSettings overwrites the settings document. An empty newAdminPassword
// keeps the current one.
func (s *AdminService) SaveSettings(ctx context.Context, sess *session.Session, newAdminPassword string, autoRefresh bool) error {
	if !sess.Actor.IsAdmin() {
		return common.ErrorUnauthorized
	}

	cur, err := s.settings.Load(ctx)
	if err != nil {
		return err
	}
	if newAdminPassword == "" {
		newAdminPassword = cur.AdminPassword
	}
	if err := s.settings.Save(ctx, models.Settings{AdminPassword: newAdminPassword, AutoRefresh: autoRefresh}); err != nil {
		return err
	}

	s.logger.Info(ctx, "settings saved", "auto_refresh", autoRefresh)
	return nil
}
