package session

import (
	"github.com/google/uuid"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
)

// Session is the ephemeral per-connection state. It is reconstructed with
// anonymous defaults at connection start and thrown away on disconnect.
type Session struct {
	// ID correlates log lines of one connection. It has no auth meaning.
	ID string

	Actor Actor

	// Display attributes of the logged-in user, for rendering only.
	DisplayName string
	Sex         models.Sex

	CurrentPage Page

	// JustRefreshed is set after an auto-refresh and consumed by the next
	// data-listing render (at-most-once display).
	JustRefreshed bool
}

// New returns a fresh anonymous session.
func New() *Session {
	return &Session{
		ID:          uuid.NewString(),
		Actor:       Anonymous(),
		CurrentPage: PageUserHome,
	}
}

// Reset clears every field back to the anonymous defaults, keeping only the
// session id.
func (s *Session) Reset() {
	s.Actor = Anonymous()
	s.DisplayName = ""
	s.Sex = ""
	s.CurrentPage = PageUserHome
	s.JustRefreshed = false
}

// BeginUser transitions Anonymous -> User(uid) after a successful login or
// registration.
func (s *Session) BeginUser(uid, name string, sex models.Sex) {
	s.Actor = User(uid)
	s.DisplayName = name
	s.Sex = sex
	s.CurrentPage = PageUserHome
}

// BeginAdmin transitions Anonymous -> Admin after the admin password check.
func (s *Session) BeginAdmin() {
	s.Actor = Admin()
	s.DisplayName = ""
	s.Sex = ""
	s.CurrentPage = PageAdminPanel
}

// Impersonate sets the impersonation target. Only an admin may impersonate.
func (s *Session) Impersonate(uid string) error {
	if !s.Actor.IsAdmin() {
		return common.ErrorUnauthorized
	}
	s.Actor = AdminImpersonating(uid)
	return nil
}

// ClearImpersonation drops the impersonation target, keeping admin rights.
func (s *Session) ClearImpersonation() error {
	if !s.Actor.IsAdmin() {
		return common.ErrorUnauthorized
	}
	s.Actor = Admin()
	return nil
}

// EffectiveUserID resolves the record-table owner for the current actor,
// or ErrorUnauthorized when the actor has none.
func (s *Session) EffectiveUserID() (string, error) {
	uid, ok := s.Actor.EffectiveUserID()
	if !ok {
		return "", common.ErrorUnauthorized
	}
	return uid, nil
}
