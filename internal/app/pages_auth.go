package app

import (
	"context"
	"errors"

	"github.com/dkhrutsky/mdskeeper/internal/common"
	"github.com/dkhrutsky/mdskeeper/internal/models"
)

// getSimpleText, getPassword, and getMultiline are indirections used to
// facilitate testing. They point to interactive input helpers and can be
// swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword
var getMultiline = GetMultiline

// Auth renders the entry page: user login, registration, admin login, or
// resuming a previous session by token.
func (a *App) Auth(ctx context.Context) error {
	cmd, err := getSimpleText(a.reader, "Sign in. Commands: login, register, admin, resume, exit", a.out)
	if err != nil {
		return err
	}

	switch cmd {
	case "", "help":
		return nil
	case "login":
		return a.login(ctx)
	case "register":
		return a.register(ctx)
	case "admin":
		return a.adminLogin(ctx)
	case "resume":
		return a.resume(ctx)
	case "exit", "quit":
		return errQuit
	default:
		printlnFn("Unknown command:", cmd)
		return nil
	}
}

func (a *App) promptIdentity() (string, models.Sex, error) {
	name, err := getSimpleText(a.reader, "Enter name", a.out)
	if err != nil {
		return "", "", err
	}
	sex, err := getSimpleText(a.reader, "Enter sex (male/female/other)", a.out)
	if err != nil {
		return "", "", err
	}
	return name, models.Sex(sex), nil
}

func (a *App) login(ctx context.Context) error {
	name, sex, err := a.promptIdentity()
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	uid, err := a.users.Authenticate(ctx, name, sex, string(password))
	if err != nil {
		if errors.Is(err, common.ErrorInvalidCredentials) {
			printlnFn("Wrong name, sex, or password")
			return nil
		}
		return err
	}

	a.sess.BeginUser(uid, name, sex)
	printlnFn("Welcome,", name)
	return nil
}

func (a *App) register(ctx context.Context) error {
	name, sex, err := a.promptIdentity()
	if err != nil {
		return err
	}
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	uid, err := a.users.Register(ctx, name, sex, string(password))
	switch {
	case errors.Is(err, common.ErrorAlreadyExists):
		printlnFn("A user with this name and sex already exists")
		return nil
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorEmptyPassword):
		printlnFn("Invalid input:", err.Error())
		return nil
	case err != nil:
		return err
	}

	a.sess.BeginUser(uid, name, sex)
	printlnFn("Registered. Welcome,", name)
	return nil
}

func (a *App) adminLogin(ctx context.Context) error {
	password, err := getPassword(a.out)
	if err != nil {
		return err
	}

	ok, err := a.admin.VerifyAdmin(ctx, string(password))
	if err != nil {
		return err
	}
	if !ok {
		printlnFn("Wrong admin password")
		return nil
	}

	a.sess.BeginAdmin()
	printlnFn("Admin session started")
	return nil
}

func (a *App) resume(ctx context.Context) error {
	token, err := getSimpleText(a.reader, "Paste resume token", a.out)
	if err != nil {
		return err
	}

	sess, err := a.users.ResumeSession(ctx, token)
	switch {
	case errors.Is(err, common.ErrTokenExpired):
		printlnFn("Token expired, log in again")
		return nil
	case errors.Is(err, common.ErrInvalidToken):
		printlnFn("Token not accepted")
		return nil
	case err != nil:
		return err
	}

	sess.ID = a.sess.ID
	*a.sess = *sess
	printlnFn("Session resumed")
	return nil
}
