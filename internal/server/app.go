// Package server wires configuration, storage, the Strava client and the
// services together and runs the HTTP API until the process is signalled.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/fitlog/internal/logging"
	"github.com/dmitrijs2005/fitlog/internal/server/config"
	"github.com/dmitrijs2005/fitlog/internal/server/httpapi"
	"github.com/dmitrijs2005/fitlog/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/fitlog/internal/server/services"
	"github.com/dmitrijs2005/fitlog/internal/strava"
	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	server *httpapi.Server
}

// OpenDB opens the pgx-backed pool and applies pending migrations.
func OpenDB(ctx context.Context, cfg *config.Config) (*sql.DB, repomanager.RepositoryManager, error) {
	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("db init error: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("db ping error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migration error: %w", err)
	}
	return db, rm, nil
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.New(logging.Options{Level: c.LogLevel, File: c.LogFile})

	db, rm, err := OpenDB(ctx, c)
	if err != nil {
		return nil, err
	}

	provider := strava.NewClient(strava.Config{
		ClientID:     c.StravaClientID,
		ClientSecret: c.StravaClientSecret,
		RedirectURI:  c.StravaRedirectURI,
		AuthURL:      c.StravaAuthURL,
		TokenURL:     c.StravaTokenURL,
		APIBaseURL:   c.StravaAPIBaseURL,
		Timeout:      c.ProviderTimeout,
	})

	integrations := services.NewIntegrationService(db, rm, provider, logger)

	gin.SetMode(gin.ReleaseMode)
	srv := httpapi.NewServer(c.HTTPAddr, logger, httpapi.Services{
		Users:        services.NewUserService(db, rm, c),
		Logs:         services.NewLogService(db, rm, logger),
		Workouts:     services.NewWorkoutService(db, rm),
		Metrics:      services.NewMetricsService(db, rm),
		Photos:       services.NewPhotoService(db, rm, c),
		Settings:     services.NewSettingsService(db, rm),
		Integrations: integrations,
		Sync:         services.NewSyncService(db, rm, integrations, provider, c, logger),
	}, c.SecretKey, c.ShutdownTimeout)

	return &App{config: c, logger: logger, db: db, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.server.Run(ctx); err != nil {
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
