// Package server wires configuration, storage, services and the REST API
// together and runs them until the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/civicreport/internal/logging"
	"github.com/dmitrijs2005/civicreport/internal/server/auth"
	"github.com/dmitrijs2005/civicreport/internal/server/config"
	"github.com/dmitrijs2005/civicreport/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/civicreport/internal/server/rest"
	"github.com/dmitrijs2005/civicreport/internal/server/services"
)

type App struct {
	config       *config.Config
	logger       logging.Logger
	db           *sql.DB
	userService  *services.UserService
	issueService *services.IssueService
	imageService *services.ImageService
	tokens       *auth.TokenIssuer
}

var (
	openDB         = repomanager.OpenDB
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newImages      = services.NewImageService
)

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, err
	}

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration error: %w", err)
	}

	images, err := newImages(ctx, c)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("image storage init error: %w", err)
	}

	tokens := auth.NewTokenIssuer([]byte(c.SecretKey), c.TokenTTL)

	return &App{
		config:       c,
		logger:       logger,
		db:           db,
		userService:  services.NewUserService(db, rm, tokens, c),
		issueService: services.NewIssueService(db, rm),
		imageService: images,
		tokens:       tokens,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	h := rest.NewHandler(app.logger, app.userService, app.issueService, app.imageService, app.tokens, app.config.MaxUploadBytes)
	router := rest.NewRouter(h, app.logger, app.config.AllowedOrigins)

	s := rest.NewHTTPServer(app.config.EndpointAddrHTTP, app.logger, router)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "Stopped")
}
