// Package app wires the stores, services, and router into the interactive
// terminal application and renders its pages.
package app

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dkhrutsky/mdskeeper/internal/config"
	"github.com/dkhrutsky/mdskeeper/internal/filex"
	"github.com/dkhrutsky/mdskeeper/internal/logging"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/records"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/settings"
	"github.com/dkhrutsky/mdskeeper/internal/repositories/users"
	"github.com/dkhrutsky/mdskeeper/internal/router"
	"github.com/dkhrutsky/mdskeeper/internal/services"
	"github.com/dkhrutsky/mdskeeper/internal/session"
)

// App holds one interactive session and the services behind it.
type App struct {
	config  *config.Config
	logger  logging.Logger
	sess    *session.Session
	router  *router.Router
	users   *services.UserService
	records *services.RecordService
	admin   *services.AdminService
	exports *services.ExportService

	reader *bufio.Reader
	out    io.Writer
}

func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	if err := filex.EnsureDir(cfg.DataDir); err != nil {
		return nil, err
	}

	usersRepo := users.NewJSONRepository(cfg.DataDir, logger)
	settingsRepo := settings.NewJSONRepository(cfg.DataDir, logger)

	var recordsRepo records.Repository
	switch cfg.RecordsBackend {
	case config.BackendSQLite:
		db, err := records.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		recordsRepo = records.NewSQLiteRepository(db)
	default:
		recordsRepo = records.NewCSVRepository(cfg.DataDir, logger)
	}

	sess := session.New()
	logger = logger.With("session_id", sess.ID)

	return &App{
		config:  cfg,
		logger:  logger,
		sess:    sess,
		router:  router.New(settingsRepo, logger, cfg.RefreshDelay),
		users:   services.NewUserService(usersRepo, logger, cfg),
		records: services.NewRecordService(recordsRepo, logger),
		admin:   services.NewAdminService(usersRepo, recordsRepo, settingsRepo, logger),
		exports: services.NewExportService(recordsRepo, logger),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}, nil
}

// Run drives the page loop until the user quits or input ends.
func (a *App) Run(ctx context.Context) {
	a.logger.Info(ctx, "session started", "backend", a.config.RecordsBackend)
	printlnFn("Personal records manager (type 'help' on any page)")
	runREPL(ctx, a)
	a.logger.Info(ctx, "session ended")
}

func (a *App) currentPage() session.Page {
	return a.router.Resolve(a.sess)
}

func (a *App) status() string {
	switch {
	case a.sess.Actor.IsAdmin():
		if uid, ok := a.sess.Actor.ImpersonatedUserID(); ok {
			return fmt.Sprintf("(admin as %s)", uid)
		}
		return "(admin)"
	case a.sess.DisplayName != "":
		return fmt.Sprintf("(%s)", a.sess.DisplayName)
	default:
		return ""
	}
}
