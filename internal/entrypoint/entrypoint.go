package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/mrlokans/biblioteka/internal/audit"
	"github.com/mrlokans/biblioteka/internal/catalog"
	"github.com/mrlokans/biblioteka/internal/config"
	"github.com/mrlokans/biblioteka/internal/database"
	auditrepo "github.com/mrlokans/biblioteka/internal/database/audit"
	"github.com/mrlokans/biblioteka/internal/database/authors"
	"github.com/mrlokans/biblioteka/internal/database/genres"
	"github.com/mrlokans/biblioteka/internal/database/titles"
	http_controllers "github.com/mrlokans/biblioteka/internal/http"
	"github.com/mrlokans/biblioteka/internal/logging"
	"github.com/mrlokans/biblioteka/internal/readonly"
	"github.com/mrlokans/biblioteka/internal/scheduler"
	"github.com/mrlokans/biblioteka/internal/tasks"
	"github.com/mrlokans/biblioteka/internal/web"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the wired catalog components shared by the server and the CLI.
type App struct {
	Config  *config.Config
	DB      *database.Database
	Titles  *catalog.Service
	Genres  *genres.Repository
	Authors *authors.Repository
	Audit   *audit.Service

	// Set by StartBackground when the task queue is enabled
	Tasks     *tasks.Client
	Scheduler *scheduler.MaintenanceScheduler

	cancelTasks context.CancelFunc
}

// Open connects to the database and wires the catalog services.
func Open(cfg *config.Config) (*App, error) {
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, err
	}

	auditService := audit.NewService(auditrepo.NewRepository(db.DB))
	titleService := catalog.NewService(titles.NewRepository(db.DB))
	titleService.SetAuditLogger(auditService)

	return &App{
		Config:  cfg,
		DB:      db,
		Titles:  titleService,
		Genres:  genres.NewRepository(db.DB),
		Authors: authors.NewRepository(db.DB),
		Audit:   auditService,
	}, nil
}

// SeedDefaultGenres creates the configured default genres that are missing.
func (a *App) SeedDefaultGenres() (int, error) {
	seeded, err := a.DB.SeedGenres(a.Config.Catalog.DefaultGenres)
	if err != nil {
		return seeded, fmt.Errorf("seed genres: %w", err)
	}
	if seeded > 0 {
		log.Info().Int("count", seeded).Msg("Seeded default genres")
	}
	return seeded, nil
}

// StartBackground starts the task queue workers and the maintenance
// scheduler. It does nothing when tasks are disabled.
func (a *App) StartBackground() error {
	if !a.Config.Tasks.Enabled {
		log.Info().Msg("Task queue disabled")
		return nil
	}

	taskClient, err := tasks.NewClient(a.Config.Database.Path, tasks.ConfigFrom(a.Config.Tasks))
	if err != nil {
		return fmt.Errorf("initialize task queue: %w", err)
	}

	taskClient.Register(
		tasks.NewCleanupOrphanAuthorsQueue(a.Authors, a.Audit),
		tasks.NewCleanupAuditEventsQueue(a.Audit, a.Audit),
	)

	ctx, cancel := context.WithCancel(context.Background())
	maintenance := scheduler.NewMaintenanceScheduler(taskClient, scheduler.Config{
		AuthorCleanupSchedule: a.Config.Tasks.AuthorCleanupSchedule,
		AuditCleanupSchedule:  a.Config.Audit.CleanupSchedule,
		AuditRetentionDays:    a.Config.Audit.RetentionDays,
	})
	if err := maintenance.Start(ctx); err != nil {
		cancel()
		taskClient.Close()
		return fmt.Errorf("start maintenance scheduler: %w", err)
	}
	go taskClient.Start(ctx)

	a.Tasks = taskClient
	a.Scheduler = maintenance
	a.cancelTasks = cancel
	return nil
}

// Router builds the HTTP router with sessions, CSRF and read-only mode
// configured from the application settings.
func (a *App) Router(version string) (*gin.Engine, error) {
	cfg := a.Config

	var sessionManager *web.SessionManager
	var csrfSecret []byte
	if cfg.Session.CSRFEnabled {
		// Sessions are persisted next to the catalog only for sqlite
		var err error
		if a.DB.Driver() == config.DriverSQLite {
			sqlDB, dbErr := a.DB.DB.DB()
			if dbErr != nil {
				return nil, fmt.Errorf("get SQL DB for sessions: %w", dbErr)
			}
			sessionManager, err = web.NewSessionManager(sqlDB, cfg.Session)
		} else {
			sessionManager, err = web.NewSessionManager(nil, cfg.Session)
		}
		if err != nil {
			return nil, fmt.Errorf("initialize session manager: %w", err)
		}

		secret := cfg.Session.Secret
		if secret == "" {
			secret, err = web.GenerateSecret()
			if err != nil {
				return nil, fmt.Errorf("generate CSRF secret: %w", err)
			}
			log.Warn().Msg("Generated session secret (set SESSION_SECRET to persist)")
		}
		csrfSecret = web.DecodeSecret(secret)
	}

	var readOnly *readonly.Middleware
	if cfg.ReadOnly.Enabled {
		log.Info().Msg("Read-only mode enabled - write operations will be blocked")
		readOnly = readonly.NewMiddleware(true)
	}

	routerCfg := http_controllers.RouterConfig{
		Titles:         a.Titles,
		Genres:         a.Genres,
		Authors:        a.Authors,
		Health:         a.DB,
		AuditReader:    a.Audit,
		AuditLogger:    a.Audit,
		TemplatesPath:  cfg.UI.TemplatesPath,
		StaticPath:     cfg.UI.StaticPath,
		Version:        version,
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Session.SecureCookies,
		SessionManager: sessionManager,
		ReadOnly:       readOnly,
	}
	// A typed nil would make the cleanup endpoint think the queue exists
	if a.Tasks != nil {
		routerCfg.TaskClient = a.Tasks
	}

	return http_controllers.NewRouter(routerCfg), nil
}

// Close stops background work, flushes pending audit events and closes
// the database.
func (a *App) Close(ctx context.Context) {
	if a.Scheduler != nil {
		a.Scheduler.Stop()
	}
	if a.Tasks != nil {
		a.Tasks.Stop(ctx)
		a.cancelTasks()
		if err := a.Tasks.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing task client")
		}
	}
	a.Audit.Wait()
	if err := a.DB.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing database")
	}
}

func Serve(router *gin.Engine, cfg *config.Config, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// kill -2 is syscall.SIGINT, SIGKILL can't be caught
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serveErr:
		if onShutdown != nil {
			onShutdown(context.Background())
		}
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}
	log.Info().Dur("timeout", timeout).Msg("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	err := srv.Shutdown(ctx)

	// Background workers stop after in-flight requests finish
	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	log.Info().Msg("Server exiting")
	return nil
}

// Run starts the HTTP server and blocks until it is shut down.
func Run(cfg *config.Config, version string) error {
	logging.Init(cfg.Logging.Level, cfg.IsDevelopment())
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().Str("version", version).Msg("Starting Biblioteka")

	app, err := Open(cfg)
	if err != nil {
		return err
	}

	if _, err := app.SeedDefaultGenres(); err != nil {
		app.Close(context.Background())
		return err
	}

	if err := app.StartBackground(); err != nil {
		app.Close(context.Background())
		return err
	}

	router, err := app.Router(version)
	if err != nil {
		app.Close(context.Background())
		return err
	}

	return Serve(router, cfg, app.Close)
}
