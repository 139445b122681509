// Package router maps the current actor and requested page onto the view
// that is actually rendered, and owns the post-mutation refresh policy.
package router

import (
	"context"
	"time"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/settings"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

var userPages = []session.Page{
	session.PageUserHome,
	session.PageDataEntry,
	session.PageViewEdit,
	session.PageFilterExport,
	session.PageUserSettings,
	session.PageLoggedOut,
}

var adminPages = []session.Page{
	session.PageAdminPanel,
	session.PageImpersonateView,
	session.PageLoggedOut,
}

// Router gates navigation on the actor and applies the auto-refresh policy
// after mutating operations.
type Router struct {
	settings     settings.Repository
	logger       logging.Logger
	refreshDelay time.Duration

	// sleep is a test seam for the cosmetic refresh pause.
	sleep func(time.Duration)
}

func New(settingsRepo settings.Repository, logger logging.Logger, refreshDelay time.Duration) *Router {
	return &Router{
		settings:     settingsRepo,
		logger:       logger,
		refreshDelay: refreshDelay,
		sleep:        time.Sleep,
	}
}

// Reachable returns the pages the actor may navigate to.
func (r *Router) Reachable(actor session.Actor) []session.Page {
	switch {
	case actor.IsAdmin():
		return adminPages
	case actor.IsAnonymous():
		return []session.Page{session.PageAuth}
	default:
		return userPages
	}
}

// CanReach reports whether the actor may navigate to page.
func (r *Router) CanReach(actor session.Actor, page session.Page) bool {
	for _, p := range r.Reachable(actor) {
		if p == page {
			return true
		}
	}
	return false
}

// Navigate moves the session to page. Re-selecting the current page is a
// no-op. Selecting LoggedOut resets the whole session. An unreachable page
// yields ErrorUnauthorized and leaves the session unchanged.
func (r *Router) Navigate(ctx context.Context, sess *session.Session, page session.Page) error {
	if page == sess.CurrentPage {
		return nil
	}
	if !r.CanReach(sess.Actor, page) {
		r.logger.Warn(ctx, "navigation denied", "session_id", sess.ID, "page", string(page))
		return common.ErrorUnauthorized
	}
	if page == session.PageLoggedOut {
		r.logger.Info(ctx, "logout", "session_id", sess.ID)
		sess.Reset()
		return nil
	}
	sess.CurrentPage = page
	return nil
}

// Resolve returns the page to render for the session's current state.
// Anonymous actors always land on Auth; an admin whose current page is not
// admin-reachable lands on the admin panel.
func (r *Router) Resolve(sess *session.Session) session.Page {
	if sess.Actor.IsAnonymous() {
		return session.PageAuth
	}
	if r.CanReach(sess.Actor, sess.CurrentPage) {
		return sess.CurrentPage
	}
	if sess.Actor.IsAdmin() {
		return session.PageAdminPanel
	}
	return session.PageUserHome
}

// AfterMutation applies the refresh policy once a mutating operation has
// succeeded: when auto-refresh is enabled, pause briefly (a user-perceptible
// acknowledgment, not a correctness mechanism) and mark the session so the
// next listing render reports the refresh.
func (r *Router) AfterMutation(ctx context.Context, sess *session.Session) {
	s, err := r.settings.Load(ctx)
	if err != nil {
		r.logger.Warn(ctx, "settings unavailable, skipping refresh", "error", err.Error())
		return
	}
	if !s.AutoRefresh {
		return
	}
	r.sleep(r.refreshDelay)
	sess.JustRefreshed = true
}

// ConsumeRefreshNotice reports whether a "refresh succeeded" acknowledgment
// should be rendered, clearing the flag so it shows at most once.
func (r *Router) ConsumeRefreshNotice(sess *session.Session) bool {
	if !sess.JustRefreshed {
		return false
	}
	sess.JustRefreshed = false
	return true
}
