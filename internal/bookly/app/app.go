package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/bookly/internal/bookly/http"
	"github.com/aussiebroadwan/bookly/internal/bookly/mail"
	"github.com/aussiebroadwan/bookly/internal/bookly/service"
	"github.com/aussiebroadwan/bookly/internal/bookly/store"
	"github.com/aussiebroadwan/bookly/internal/bookly/store/drivers/sqlite"
	"github.com/aussiebroadwan/bookly/pkg/cryptox"
	"github.com/aussiebroadwan/bookly/pkg/httpx"
	"github.com/aussiebroadwan/bookly/pkg/jwtx"
	"github.com/aussiebroadwan/bookly/pkg/revoke"
	"github.com/aussiebroadwan/bookly/pkg/slogx"
	"github.com/redis/go-redis/v9"
)

const (
	// BuildVersion should be set at build time via ldflags. Later problem
	BuildVersion = "v0.1.0"
)

// Option adjusts an Application before its dependencies are built.
type Option func(*Application)

// WithMailer replaces the SMTP or log mailer chosen from the config.
func WithMailer(m mail.Mailer) Option {
	return func(app *Application) { app.mailer = m }
}

// WithLogger replaces the logger built from the config.
func WithLogger(l *slog.Logger) Option {
	return func(app *Application) { app.logger = l }
}

// Application encapsulates the bookly service with all its dependencies
type Application struct {
	cfg    Config
	logger *slog.Logger

	// Core dependencies
	db          store.Store
	rdb         *redis.Client
	revocations *revoke.RedisStore
	actionUses  *revoke.RedisStore
	sessions    *jwtx.SessionCodec
	actions     *jwtx.ActionCodec
	mailer      mail.Mailer
	dispatcher  *mail.Dispatcher

	// Services
	authService   *service.AuthService
	userService   *service.UserService
	bookService   *service.BookService
	reviewService *service.ReviewService
	tagService    *service.TagService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application instance with all dependencies initialized
func New(cfg Config, opts ...Option) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	app := &Application{cfg: cfg}
	for _, opt := range opts {
		opt(app)
	}

	if app.logger == nil {
		app.logger = slogx.New(slogx.Config{
			Service: "bookly",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		})
	}

	if cfg.SecretGenerated {
		app.logger.Warn("JWT_SECRET not set, using an ephemeral secret; tokens will not survive a restart")
	}

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if err := app.initRevocations(); err != nil {
		_ = app.db.Close()
		return nil, err
	}

	if err := app.initTokens(); err != nil {
		app.closeStores()
		return nil, err
	}

	app.initMail()
	app.initServices()
	app.initHTTP()

	return app, nil
}

// Handler returns the root HTTP handler.
func (app *Application) Handler() http.Handler {
	return app.router
}

// Start launches the background mail workers. Run calls it; tests serving
// Handler directly call it themselves.
func (app *Application) Start() {
	app.dispatcher.Start()
}

// Run starts the application and blocks until shutdown is requested
func (app *Application) Run() error {
	app.Start()

	app.logger.Info("bookly starting", "port", app.cfg.Port, "version", BuildVersion)

	// Start server in a goroutine
	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a shutdown signal or server error
	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.closeAll()
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		// Perform graceful shutdown
		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down bookly...")

	// Give outstanding requests a deadline for completion
	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	// Shutdown the HTTP server
	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	return app.closeAll()
}

// closeAll drains the mail queue, then releases Redis and the database.
func (app *Application) closeAll() error {
	app.dispatcher.Stop()

	if err := app.rdb.Close(); err != nil {
		app.logger.Error("error closing redis client", "error", err)
	}

	// Close database connection
	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("bookly stopped")
	return nil
}

func (app *Application) closeStores() {
	_ = app.rdb.Close()
	_ = app.db.Close()
}

// initDatabase initializes the database and applies migrations
func (app *Application) initDatabase() error {
	host := app.cfg.DatabaseFile
	if host != ":memory:" {
		host = fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", app.cfg.DatabaseFile)
	}

	db, err := sqlite.NewStore(host)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

// initRevocations connects to Redis and builds the two revocation
// namespaces: revoked session tokens and consumed action tokens.
func (app *Application) initRevocations() error {
	opts, err := redis.ParseURL(app.cfg.RedisURL)
	if err != nil {
		return fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	app.rdb = redis.NewClient(opts)

	// Redis may come up after us; /readyz reports it until then.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := app.rdb.Ping(ctx).Err(); err != nil {
		app.logger.Warn("revocation store not reachable yet, authenticated routes will fail closed", "error", err)
	}

	app.revocations = revoke.NewRedisStore(app.rdb, revoke.Options{
		Prefix:  app.cfg.RevocationPrefix + ":session",
		MaxTTL:  app.cfg.RefreshTokenTTL,
		Timeout: app.cfg.RevocationTimeout,
	})
	app.actionUses = revoke.NewRedisStore(app.rdb, revoke.Options{
		Prefix:  app.cfg.RevocationPrefix + ":action",
		MaxTTL:  app.cfg.ActionTokenMaxAge,
		Timeout: app.cfg.RevocationTimeout,
	})
	return nil
}

func (app *Application) initTokens() error {
	secret := []byte(app.cfg.JWTSecret)

	sessions, err := jwtx.NewSessionCodec(jwtx.SessionOptions{
		Secret:    secret,
		Algorithm: app.cfg.JWTAlgorithm,
		AccessTTL: app.cfg.AccessTokenTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize session tokens: %w", err)
	}

	actions, err := jwtx.NewActionCodec(jwtx.ActionOptions{
		Secret: secret,
		Salt:   app.cfg.ActionTokenSalt,
		MaxAge: app.cfg.ActionTokenMaxAge,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize action tokens: %w", err)
	}

	app.sessions = sessions
	app.actions = actions
	return nil
}

// initMail picks the mailer and builds the background dispatcher. Without
// SMTP_HOST mail is only logged.
func (app *Application) initMail() {
	if app.mailer == nil {
		if app.cfg.SMTPHost != "" {
			app.mailer = mail.NewSMTPMailer(app.cfg.SMTPHost, app.cfg.SMTPPort, app.cfg.SMTPUsername, app.cfg.SMTPPassword, app.cfg.MailFrom)
			app.logger.Info("smtp mailer enabled", "host", app.cfg.SMTPHost, "port", app.cfg.SMTPPort)
		} else {
			app.mailer = &mail.LogMailer{Logger: app.logger}
			app.logger.Info("SMTP_HOST not set, outbound mail will be logged only")
		}
	}

	app.dispatcher = mail.NewDispatcher(app.mailer, app.logger, app.cfg.MailWorkers, app.cfg.MailQueueSize)
}

// initServices initializes all business logic services
func (app *Application) initServices() {
	app.authService = &service.AuthService{
		Store:       app.db,
		Hasher:      cryptox.NewHasher(app.cfg.BcryptCost),
		Sessions:    app.sessions,
		Actions:     app.actions,
		Revocations: app.revocations,
		ActionUses:  app.actionUses,
		Mail:        app.dispatcher,
		Domain:      app.cfg.Domain,
		RefreshTTL:  app.cfg.RefreshTokenTTL,
	}

	app.userService = &service.UserService{Store: app.db}
	app.bookService = &service.BookService{Store: app.db}
	app.reviewService = &service.ReviewService{Store: app.db}
	app.tagService = &service.TagService{Store: app.db}
}

// initHTTP initializes the HTTP router and server
func (app *Application) initHTTP() {
	router := httpapi.NewRouter(
		httpx.NewGate(app.sessions, app.revocations, app.cfg.RevocationTimeout),
		BuildVersion,
		app.db,
		app.revocations,
		app.logger,
		app.cfg.AllowedOrigins,
		app.cfg.AllowedHosts,
	)

	// Wire services to router
	router.AuthService = app.authService
	router.UserService = app.userService
	router.BookService = app.bookService
	router.ReviewService = app.reviewService
	router.TagService = app.tagService
	if app.cfg.RateLimits != (httpapi.Limits{}) {
		router.Limits = app.cfg.RateLimits
	}
	// Validated in New
	router.Proxies, _ = httpx.ParseProxyTrust(app.cfg.TrustedProxies)
	router.ApplyRoutes()

	app.router = router

	// Initialize HTTP server
	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
