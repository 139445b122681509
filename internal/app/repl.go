package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// errQuit signals that the user asked to leave the program.
var errQuit = errors.New("quit")

// execIface defines the per-page surface the loop dispatches to. The real
// App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	currentPage() session.Page
	Auth(ctx context.Context) error
	UserHome(ctx context.Context) error
	DataEntry(ctx context.Context) error
	ViewEdit(ctx context.Context) error
	FilterExport(ctx context.Context) error
	UserSettings(ctx context.Context) error
	AdminPanel(ctx context.Context) error
	ImpersonateView(ctx context.Context) error
}

// runREPL renders one page per iteration: the page resolved for the current
// actor reads a command, acts on it, and possibly navigates. The loop exits
// when a handler returns errQuit (the user typed "exit") or input ends.
//
// LoggedOut never renders: selecting it resets the session to anonymous, so
// the next iteration resolves to the login page.
func runREPL(ctx context.Context, a execIface) {
	for {
		var err error
		switch page := a.currentPage(); page {
		case session.PageAuth:
			err = a.Auth(ctx)
		case session.PageUserHome:
			err = a.UserHome(ctx)
		case session.PageDataEntry:
			err = a.DataEntry(ctx)
		case session.PageViewEdit:
			err = a.ViewEdit(ctx)
		case session.PageFilterExport:
			err = a.FilterExport(ctx)
		case session.PageUserSettings:
			err = a.UserSettings(ctx)
		case session.PageAdminPanel:
			err = a.AdminPanel(ctx)
		case session.PageImpersonateView:
			err = a.ImpersonateView(ctx)
		default:
			printlnFn("Unknown page:", string(page))
			return
		}
		if errors.Is(err, errQuit) {
			printlnFn("Bye!")
			return
		}
		if err != nil {
			printlnFn("Error:", err.Error())
			return
		}
	}
}
