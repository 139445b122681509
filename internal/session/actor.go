// Package session models the per-connection identity state: the current
// actor, the impersonation target, the current page, and the transient
// refresh flag. Sessions are never persisted; a connection starts from the
// anonymous defaults.
package session

type role int

const (
	roleAnonymous role = iota
	roleUser
	roleAdmin
	roleAdminImpersonating
)

// Actor is a tagged variant over the four identity states. Invalid
// combinations (a plain user with an impersonation target, an anonymous
// admin) are unrepresentable.
type Actor struct {
	role role
	uid  string
}

func Anonymous() Actor { return Actor{} }

func User(uid string) Actor { return Actor{role: roleUser, uid: uid} }

func Admin() Actor { return Actor{role: roleAdmin} }

func AdminImpersonating(uid string) Actor {
	return Actor{role: roleAdminImpersonating, uid: uid}
}

func (a Actor) IsAnonymous() bool { return a.role == roleAnonymous }

// IsAdmin reports whether the actor holds admin privileges, with or
// without an impersonation target.
func (a Actor) IsAdmin() bool {
	return a.role == roleAdmin || a.role == roleAdminImpersonating
}

// UserID returns the user id a plain user actor is logged in as.
func (a Actor) UserID() (string, bool) {
	if a.role == roleUser {
		return a.uid, true
	}
	return "", false
}

// ImpersonatedUserID returns the impersonation target of an admin actor.
func (a Actor) ImpersonatedUserID() (string, bool) {
	if a.role == roleAdminImpersonating {
		return a.uid, true
	}
	return "", false
}

// EffectiveUserID resolves which user's record table the actor operates on:
// a plain user owns their own table, an impersonating admin operates on the
// target's. Other actors have no effective user.
func (a Actor) EffectiveUserID() (string, bool) {
	switch a.role {
	case roleUser, roleAdminImpersonating:
		return a.uid, true
	}
	return "", false
}
