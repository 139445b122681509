package app

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// AdminPanel lists users and applies the administrative commands.
func (a *App) AdminPanel(ctx context.Context) error {
	line, err := getSimpleText(a.reader, "Admin. Commands: list, view <uid>, reset <uid>, del <uid>, settings, logout, exit", a.out)
	if err != nil {
		return err
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "help":
		return nil
	case "list":
		return a.listUsers(ctx)
	case "view", "reset", "del":
		if len(parts) < 2 {
			printlnFn("Usage:", parts[0], "<uid>")
			return nil
		}
		uid := parts[1]
		switch parts[0] {
		case "view":
			if err := a.sess.Impersonate(uid); err != nil {
				return err
			}
			return a.router.Navigate(ctx, a.sess, session.PageImpersonateView)
		case "reset":
			return a.resetPassword(ctx, uid)
		default:
			return a.deleteUser(ctx, uid)
		}
	case "settings":
		return a.adminSettings(ctx)
	case "logout":
		return a.router.Navigate(ctx, a.sess, session.PageLoggedOut)
	case "exit", "quit":
		return errQuit
	default:
		printlnFn("Unknown command:", parts[0])
		return nil
	}
}

func (a *App) listUsers(ctx context.Context) error {
	entries, err := a.admin.ListUsers(ctx, a.sess)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		printlnFn("No registered users")
		return nil
	}
	for _, e := range entries {
		printlnFn(fmt.Sprintf("%-30s %s (%s)", e.ID, e.User.Name, e.User.Sex))
	}
	return nil
}

func (a *App) resetPassword(ctx context.Context, uid string) error {
	err := a.admin.ResetPassword(ctx, a.sess, uid)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("No user", uid)
		return nil
	}
	if err != nil {
		return err
	}
	printlnFn("Password of", uid, "was reset")
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

func (a *App) deleteUser(ctx context.Context, uid string) error {
	confirm, err := getSimpleText(a.reader, fmt.Sprintf("Type %q again to confirm deletion", uid), a.out)
	if err != nil {
		return err
	}
	if confirm != uid {
		printlnFn("Aborted")
		return nil
	}

	err = a.admin.DeleteUser(ctx, a.sess, uid)
	if errors.Is(err, common.ErrorNotFound) {
		printlnFn("No user", uid)
		return nil
	}
	if err != nil {
		return err
	}
	printlnFn("Deleted user", uid, "and all of their records")
	a.router.AfterMutation(ctx, a.sess)
	return nil
}

func (a *App) adminSettings(ctx context.Context) error {
	cur, err := a.admin.Settings(ctx)
	if err != nil {
		return err
	}
	printlnFn("Auto refresh is currently", cur.AutoRefresh)

	newPassword, err := getSimpleText(a.reader, "New admin password (empty keeps current)", a.out)
	if err != nil {
		return err
	}
	answer, err := getSimpleText(a.reader, "Enable auto refresh? (y/n)", a.out)
	if err != nil {
		return err
	}
	autoRefresh := cur.AutoRefresh
	switch strings.ToLower(answer) {
	case "y", "yes":
		autoRefresh = true
	case "n", "no":
		autoRefresh = false
	}

	if err := a.admin.SaveSettings(ctx, a.sess, newPassword, autoRefresh); err != nil {
		return err
	}
	printlnFn("Settings saved")
	return nil
}

// ImpersonateView renders the impersonated user's table with full record
// commands; "back" drops the impersonation and returns to the panel.
func (a *App) ImpersonateView(ctx context.Context) error {
	uid, err := a.sess.EffectiveUserID()
	if err != nil {
		return err
	}

	recs, err := a.records.List(ctx, a.sess)
	if err != nil {
		return err
	}
	if a.router.ConsumeRefreshNotice(a.sess) {
		printlnFn("View refreshed")
	}
	printlnFn("Records of", uid)
	a.printTable(recs)

	line, err := getSimpleText(a.reader, "Commands: add, edit <id>, del <id>, back, exit", a.out)
	if err != nil {
		return err
	}

	parts := strings.Fields(line)
	if len(parts) == 0 {
		return nil
	}
	switch parts[0] {
	case "help":
		return nil
	case "add":
		return a.promptNewRecord(ctx)
	case "back":
		if err := a.sess.ClearImpersonation(); err != nil {
			return err
		}
		return a.router.Navigate(ctx, a.sess, session.PageAdminPanel)
	case "exit", "quit":
		return errQuit
	case "edit", "del":
		if len(parts) < 2 {
			printlnFn("Usage:", parts[0], "<id>")
			return nil
		}
		id, convErr := strconv.Atoi(parts[1])
		if convErr != nil {
			printlnFn("Bad id:", parts[1])
			return nil
		}
		if parts[0] == "del" {
			return a.deleteRecord(ctx, id)
		}
		return a.editRecord(ctx, recs, id)
	default:
		printlnFn("Unknown command:", parts[0])
		return nil
	}
}
