// Package services contains the business logic between the interactive
// surface and the stores: registration and login, record CRUD, admin user
// management, and export projection. Every operation that touches a store is
// gated on the session's actor.
package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/auth"
	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/config"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/models"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/users"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// UserService handles registration, login, password changes, and session
// resume tokens.
type UserService struct {
	users    users.Repository
	logger   logging.Logger
	secret   []byte
	tokenTTL time.Duration
}

func NewUserService(repo users.Repository, logger logging.Logger, cfg *config.Config) *UserService {
	return &UserService{
		users:    repo,
		logger:   logger,
		secret:   []byte(cfg.SessionSecret),
		tokenTTL: cfg.SessionTokenTTL,
	}
}

// Register creates a new identity and returns its user id. Two
// registrations normalizing to the same id collide with ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name string, sex models.Sex, password string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", fmt.Errorf("name is required: %w", common.ErrorValidation)
	}
	if !sex.Valid() {
		return "", fmt.Errorf("unknown sex %q: %w", sex, common.ErrorValidation)
	}
	if password == "" {
		return "", common.ErrorEmptyPassword
	}

	uid := models.SafeUserID(name, sex)
	err := s.users.Mutate(ctx, func(all map[string]models.User) error {
		if _, ok := all[uid]; ok {
			return common.ErrorAlreadyExists
		}
		all[uid] = models.User{Name: name, Sex: sex, Password: password}
		return nil
	})
	if err != nil {
		return "", err
	}

	s.logger.Info(ctx, "user registered", "uid", uid)
	return uid, nil
}

// Authenticate recomputes the user id from (name, sex) and requires an
// exact password match.
func (s *UserService) Authenticate(ctx context.Context, name string, sex models.Sex, password string) (string, error) {
	uid := models.SafeUserID(name, sex)

	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return "", err
	}
	u, ok := all[uid]
	if !ok || u.Password != password {
		return "", common.ErrorInvalidCredentials
	}
	return uid, nil
}

// Get returns the identity behind uid.
func (s *UserService) Get(ctx context.Context, uid string) (models.User, error) {
	all, err := s.users.LoadAll(ctx)
	if err != nil {
		return models.User{}, err
	}
	u, ok := all[uid]
	if !ok {
		return models.User{}, common.ErrorNotFound
	}
	return u, nil
}

// ChangePassword updates the password of the session's own user. Only a
// plain user actor may change a password this way; admins use the reset
// operation instead.
func (s *UserService) ChangePassword(ctx context.Context, sess *session.Session, oldPassword, newPassword string) error {
	uid, ok := sess.Actor.UserID()
	if !ok {
		return common.ErrorUnauthorized
	}
	if newPassword == "" {
		return common.ErrorEmptyPassword
	}

	err := s.users.Mutate(ctx, func(all map[string]models.User) error {
		u, ok := all[uid]
		if !ok {
			return common.ErrorNotFound
		}
		if u.Password != oldPassword {
			return common.ErrorInvalidOldPassword
		}
		u.Password = newPassword
		all[uid] = u
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info(ctx, "password changed", "uid", uid)
	return nil
}

// IssueResumeToken mints a signed token naming the session's actor, so the
// connection can later be restored without credentials.
func (s *UserService) IssueResumeToken(sess *session.Session) (string, error) {
	if uid, ok := sess.Actor.UserID(); ok {
		return auth.GenerateToken(uid, false, s.secret, s.tokenTTL)
	}
	if sess.Actor.IsAdmin() {
		return auth.GenerateToken("", true, s.secret, s.tokenTTL)
	}
	return "", common.ErrorUnauthorized
}

// ResumeSession rebuilds a session from a still-valid resume token. A token
// naming a since-deleted user is rejected as invalid.
func (s *UserService) ResumeSession(ctx context.Context, token string) (*session.Session, error) {
	uid, admin, err := auth.ParseToken(token, s.secret)
	if err != nil {
		return nil, err
	}

	sess := session.New()
	if admin {
		sess.BeginAdmin()
		return sess, nil
	}

	u, err := s.Get(ctx, uid)
	if err != nil {
		return nil, common.ErrInvalidToken
	}
	sess.BeginUser(uid, u.Name, u.Sex)
	return sess, nil
}
