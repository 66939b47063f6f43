// Package app provides application-level orchestration and dependency injection.
// This package wires together all components and manages the application lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/tejashwikalptaru/tunebox/internal/adapter/eventbus"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/metadata"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/playback/mock"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/repository/memory"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/repository/redisstore"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/repository/sqlstore"
	"github.com/tejashwikalptaru/tunebox/internal/adapter/session"
	"github.com/tejashwikalptaru/tunebox/internal/catalog"
	"github.com/tejashwikalptaru/tunebox/internal/config"
	"github.com/tejashwikalptaru/tunebox/internal/domain"
	"github.com/tejashwikalptaru/tunebox/internal/httpapi"
	"github.com/tejashwikalptaru/tunebox/internal/logger"
	"github.com/tejashwikalptaru/tunebox/internal/ports"
	"github.com/tejashwikalptaru/tunebox/internal/service"
)

// Application is the root application structure that holds all dependencies.
// It follows the Dependency Injection pattern with constructor-based injection.
//
// The Application struct is responsible for:
// - Creating and wiring all dependencies
// - Managing the application lifecycle (startup, serve, shutdown)
// - Providing a clean entry point for the CLI
type Application struct {
	cfg config.Config

	// Core dependencies
	logger    *slog.Logger
	logCloser io.Closer

	// Infrastructure
	eventBus *eventbus.SyncEventBus
	engine   *mock.Engine
	session  ports.MediaSession
	db       *gorm.DB

	// Repositories
	trackStore  ports.TrackStore
	prefStore   ports.PreferenceStore
	prefCloser  io.Closer
	artistIndex *catalog.Static

	// Services
	seeder            *service.CatalogSeeder
	catalogService    *service.CatalogService
	preferenceService *service.PreferenceService
	playerService     *service.PlayerService
	sessionBridge     *service.SessionBridge

	api *httpapi.Server

	mu       sync.Mutex
	started  bool
	shutdown bool
}

// Option customises NewApplication.
type Option func(*options)

type options struct {
	logger *slog.Logger
	assets fs.FS
}

// WithLogger replaces the configured logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithAssets reads assets from fsys instead of the bundled set or the configured directory.
func WithAssets(fsys fs.FS) Option {
	return func(o *options) { o.assets = fsys }
}

// NewApplication creates a new application with all dependencies wired.
// Nothing is started; call Start before using the player.
func NewApplication(ctx context.Context, cfg config.Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var o options
	for _, opt := range opts {
		opt(&o)
	}

	app := &Application{cfg: cfg}

	// Step 1: Create logger
	if o.logger != nil {
		app.logger = o.logger
	} else {
		app.logger, app.logCloser = logger.NewLogger(logger.Config{
			Level:      logger.ParseLevel(cfg.Logging.Level),
			Format:     cfg.Logging.Format,
			File:       cfg.Logging.File,
			MaxSizeMB:  cfg.Logging.MaxSizeMB,
			MaxBackups: cfg.Logging.MaxBackups,
			MaxAgeDays: cfg.Logging.MaxAgeDays,
		})
	}
	app.logger.Info("initializing application",
		slog.String("app_name", cfg.AppName),
		slog.String("version", GetVersionInfo().FullString()))

	// Step 2: Create an event bus
	app.eventBus = eventbus.NewSyncEventBus()
	app.eventBus.SetLogger(app.logger.With(slog.String("component", "eventbus")))

	// Step 3: Create repositories
	if err := app.openStores(ctx); err != nil {
		_ = app.Shutdown()
		return nil, err
	}
	app.artistIndex = catalog.NewStatic()

	// Step 4: Create the playback engine and media session
	app.engine = mock.NewEngine()
	app.engine.SetLogger(app.logger.With(slog.String("engine", "mock")))
	app.engine.SetDefaultDuration(cfg.Player.DefaultLength)
	app.session = app.openSession()

	// Step 5: Create services (with dependency injection)
	assets := o.assets
	if assets == nil {
		assets = catalog.Assets()
		if cfg.Assets.Dir != "" {
			assets = os.DirFS(cfg.Assets.Dir)
		}
	}
	reader := metadata.NewTagReader(app.logger.With(slog.String("component", "metadata")), assets)

	app.seeder = service.NewCatalogSeeder(app.logger, app.trackStore, reader, app.artistIndex, app.eventBus)
	app.catalogService = service.NewCatalogService(app.logger, app.trackStore, app.artistIndex, app.eventBus)
	app.preferenceService = service.NewPreferenceService(app.logger, app.prefStore)

	// Preferences must be loaded before the player reads shuffle and repeat.
	if err := app.preferenceService.Load(ctx); err != nil {
		app.logger.Warn("failed to load preferences", slog.String("error", err.Error()))
	}

	app.playerService = service.NewPlayerService(app.logger, app.engine, app.eventBus, app.preferenceService, cfg.Player.PollInterval)
	app.sessionBridge = service.NewSessionBridge(app.logger, app.session, app.playerService, app.eventBus)

	// Step 6: Create the HTTP API
	app.api = httpapi.NewServer(app.logger, app.catalogService, app.playerService, GetVersionInfo().Version)

	return app, nil
}

func (a *Application) openStores(ctx context.Context) error {
	switch a.cfg.Store.Driver {
	case config.StoreMemory:
		a.trackStore = memory.NewTrackStore(a.eventBus)
	default:
		db, err := sqlstore.Open(sqlstore.Options{
			Dialect:    a.cfg.Store.Driver,
			SQLitePath: a.cfg.Store.SQLitePath,
			MySQLDSN:   a.cfg.Store.MySQLDSN,
			LogQueries: a.cfg.Store.LogQueries,
		}, a.logger.With(slog.String("component", "sqlstore")))
		if err != nil {
			return fmt.Errorf("failed to open track store: %w", err)
		}
		a.db = db
		a.trackStore = sqlstore.NewTrackStore(db, a.eventBus, a.logger)
	}

	switch a.cfg.Prefs.Driver {
	case config.PrefsSQL:
		a.prefStore = sqlstore.NewPreferenceStore(a.db)
	case config.PrefsRedis:
		store, err := redisstore.Dial(ctx, redisstore.Options{
			Addr:     a.cfg.Prefs.RedisAddr,
			Password: a.cfg.Prefs.RedisPassword,
			DB:       a.cfg.Prefs.RedisDB,
			Key:      a.cfg.Prefs.RedisKey,
		})
		if err != nil {
			return fmt.Errorf("failed to open preference store: %w", err)
		}
		a.prefStore = store
		a.prefCloser = store
	default:
		a.prefStore = memory.NewPreferenceStore()
	}
	return nil
}

// openSession returns the platform media session, or a no-op session when it
// is disabled or unavailable.
func (a *Application) openSession() ports.MediaSession {
	if a.cfg.Player.DisableMediaSession {
		return session.NewNoOp()
	}
	sess, err := session.NewSession(a.logger.With(slog.String("component", "session")), a.cfg.AppName)
	if err != nil {
		a.logger.Info("media session unavailable, using no-op session", slog.String("error", err.Error()))
		return session.NewNoOp()
	}
	return sess
}

// Seed populates the catalog if it has never been seeded.
func (a *Application) Seed(ctx context.Context) error {
	return a.seeder.EnsureSeeded(ctx)
}

// Start seeds the catalog, connects the player and attaches the media session.
// A seeding failure is logged and leaves the catalog empty until the next Seed.
func (a *Application) Start(ctx context.Context) error {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return domain.ErrClosed
	}
	if a.started {
		a.mu.Unlock()
		return nil
	}
	a.started = true
	a.mu.Unlock()

	if err := a.Seed(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		a.logger.Warn("catalog seeding failed", slog.String("error", err.Error()))
	}

	if err := a.playerService.Start(ctx); err != nil {
		return fmt.Errorf("failed to start player: %w", err)
	}
	a.sessionBridge.Start()

	a.logger.Info("tunebox started")
	return nil
}

// Serve runs the HTTP API until ctx ends, then drains open requests.
func (a *Application) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           a.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http api listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTP.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// Handler returns the HTTP API router.
func (a *Application) Handler() http.Handler {
	return a.api.Router()
}

// Catalog returns the catalog service.
func (a *Application) Catalog() *service.CatalogService {
	return a.catalogService
}

// Player returns the player view-model.
func (a *Application) Player() *service.PlayerService {
	return a.playerService
}

// Logger returns the application logger.
func (a *Application) Logger() *slog.Logger {
	return a.logger
}

// Shutdown gracefully shuts down the application in reverse order of creation.
// It is safe to call more than once.
func (a *Application) Shutdown() error {
	a.mu.Lock()
	if a.shutdown {
		a.mu.Unlock()
		return nil
	}
	a.shutdown = true
	a.mu.Unlock()

	a.logger.Info("shutting down application")

	var errs []error
	if a.sessionBridge != nil {
		a.sessionBridge.Close()
	}
	if a.playerService != nil {
		if err := a.playerService.Shutdown(); err != nil {
			errs = append(errs, fmt.Errorf("player: %w", err))
		}
	}
	if a.engine != nil {
		if err := a.engine.Close(); err != nil {
			errs = append(errs, fmt.Errorf("engine: %w", err))
		}
	}
	if a.session != nil {
		if err := a.session.Close(); err != nil {
			errs = append(errs, fmt.Errorf("media session: %w", err))
		}
	}
	if a.prefCloser != nil {
		if err := a.prefCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("preference store: %w", err))
		}
	}
	if a.db != nil {
		if err := sqlstore.Close(a.db); err != nil {
			errs = append(errs, fmt.Errorf("track store: %w", err))
		}
	}
	if a.eventBus != nil {
		_ = a.eventBus.Close()
	}

	a.logger.Info("application shutdown complete")
	if a.logCloser != nil {
		if err := a.logCloser.Close(); err != nil {
			errs = append(errs, fmt.Errorf("log file: %w", err))
		}
	}
	return errors.Join(errs...)
}
